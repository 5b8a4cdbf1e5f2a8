package example

import (
	"encoding/json"
	"net/http"

	"github.com/myth21/viewcontroller"
	"github.com/myth21/viewcontroller/pkg/record"
)

type apiProject struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
}

func toAPI(p *Project) apiProject {
	return apiProject{ID: p.ID, Name: p.Name, Description: p.Description}
}

func writeJSON(h viewcontroller.Host, v any) (string, error) {
	h.Response().Set("Content-Type", "application/json")
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// APIProjectController is version 1 of the project API.
type APIProjectController struct {
	projectBase
}

func newAPIProjectController(h viewcontroller.Host) *APIProjectController {
	return &APIProjectController{projectBase{host: h}}
}

func (c *APIProjectController) List() (string, error) {
	list, err := c.projects.List(c.host.Context(), record.ListParams{Order: "id"})
	if err != nil {
		return "", err
	}
	out := make([]apiProject, 0, list.Len())
	for _, p := range list.Items() {
		out = append(out, toAPI(p))
	}
	return writeJSON(c.host, map[string]any{"projects": out})
}

func (c *APIProjectController) View() (string, error) {
	p, err := c.load()
	if err != nil {
		return "", err
	}
	return writeJSON(c.host, toAPI(p))
}

// APIExceptionController answers API failures with a JSON error body.
type APIExceptionController struct {
	host viewcontroller.Host
}

func newAPIExceptionController(h viewcontroller.Host) *APIExceptionController {
	return &APIExceptionController{host: h}
}

func (c *APIExceptionController) Handle() (string, error) {
	last, err := c.host.Throwables().Last()
	if err != nil {
		return "", err
	}

	code := viewcontroller.StatusCode(last.Err)
	c.host.Response().SetStatusCode(code)
	return writeJSON(c.host, map[string]any{
		"error":  http.StatusText(code),
		"detail": last.Message,
	})
}
