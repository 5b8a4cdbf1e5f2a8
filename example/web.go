package example

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/myth21/viewcontroller"
	"github.com/myth21/viewcontroller/pkg/record"
)

const flashKey = "flash"

var (
	ErrProjectNotFound = errors.New("example: project not found")
	ErrBadInput        = errors.New("example: bad input")
)

func notFound(id string) error {
	return &viewcontroller.DispatchError{
		Err:     ErrProjectNotFound,
		Message: "project not found",
		Target:  id,
		Code:    http.StatusNotFound,
	}
}

func badInput(msg string) error {
	return &viewcontroller.DispatchError{
		Err:     ErrBadInput,
		Message: msg,
		Code:    http.StatusBadRequest,
	}
}

// projectBase is shared by the controllers that read projects.
type projectBase struct {
	host     viewcontroller.Host
	conn     *record.Conn
	projects *record.Mapper[Project]
	tasks    *record.Mapper[Task]
}

func (b *projectBase) Init() error {
	conn, err := b.host.Records().Connection()
	if err != nil {
		return err
	}
	if b.projects, err = record.For[Project](b.host.Records()); err != nil {
		return err
	}
	if b.tasks, err = record.For[Task](b.host.Records()); err != nil {
		return err
	}
	b.conn = conn
	return nil
}

func (b *projectBase) load() (*Project, error) {
	raw, _ := b.host.Request().GetParam("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, notFound(raw)
	}
	p, err := b.projects.Primary(b.host.Context(), id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, notFound(raw)
	}
	return p, nil
}

// flash pulls the one-shot message left by the previous request.
func (b *projectBase) flash() string {
	v, _ := b.host.Session().Pull(flashKey)
	msg, _ := v.(string)
	return msg
}

// IndexController serves the home page.
type IndexController struct {
	projectBase
}

func newIndexController(h viewcontroller.Host) *IndexController {
	return &IndexController{projectBase{host: h}}
}

func (c *IndexController) Index() (string, error) {
	n, err := c.projects.Count(c.host.Context(), record.ListParams{})
	if err != nil {
		return "", err
	}

	v := c.host.View()
	v.SetTitle("Home")
	return v.Render("index", map[string]any{"Count": n})
}

// ProjectController lists, shows, creates and deletes projects.
type ProjectController struct {
	projectBase
}

func newProjectController(h viewcontroller.Host) *ProjectController {
	return &ProjectController{projectBase{host: h}}
}

func (c *ProjectController) List() (string, error) {
	list, err := c.projects.List(c.host.Context(), record.ListParams{Order: "id"})
	if err != nil {
		return "", err
	}

	v := c.host.View()
	v.SetTitle("Projects")
	return v.Render("project/list", map[string]any{
		"Projects":  list.Items(),
		"NameLabel": c.projects.Label("project_name"),
		"Flash":     c.flash(),
	})
}

func (c *ProjectController) View() (string, error) {
	p, err := c.load()
	if err != nil {
		return "", err
	}
	tasks, err := tasksOf(c.host.Context(), c.tasks, c.conn, p.ID)
	if err != nil {
		return "", err
	}

	v := c.host.View()
	v.SetTitle(p.Name)
	return v.Render("project/view", map[string]any{
		"Project": p,
		"Tasks":   tasks,
		"Flash":   c.flash(),
	})
}

// Create inserts a project from the posted form and redirects to it.
func (c *ProjectController) Create() error {
	name, _ := c.host.Request().PostParam("project_name")
	name = strings.TrimSpace(name)
	if name == "" {
		return badInput("project name is required")
	}

	p := c.projects.New()
	p.Name = name
	if _, err := c.projects.Insert(c.host.Context(), p); err != nil {
		return err
	}

	c.host.Session().Set(flashKey, "Project created")
	return c.redirect("project", map[string]string{"id": strconv.FormatInt(p.ID, 10)})
}

func (c *ProjectController) Delete() error {
	p, err := c.load()
	if err != nil {
		return err
	}
	if _, err := c.projects.Delete(c.host.Context(), p); err != nil {
		return err
	}

	c.host.Session().Set(flashKey, "Project deleted")
	return c.redirect("projects", nil)
}

func (c *ProjectController) redirect(route string, params map[string]string) error {
	target, err := c.host.RouteURL(route, params)
	if err != nil {
		return err
	}
	c.host.Response().Redirect(target, http.StatusSeeOther)
	return nil
}

// ExceptionController renders failures of web actions.
type ExceptionController struct {
	host viewcontroller.Host
}

func newExceptionController(h viewcontroller.Host) *ExceptionController {
	return &ExceptionController{host: h}
}

func (c *ExceptionController) Handle() (string, error) {
	last, err := c.host.Throwables().Last()
	if err != nil {
		return "", err
	}

	code := viewcontroller.StatusCode(last.Err)
	message := last.Message
	if code == http.StatusInternalServerError {
		message = "Something went wrong."
	}
	c.host.Response().SetStatusCode(code)

	v := c.host.View()
	v.SetTitle(http.StatusText(code))
	return v.Render("error", map[string]any{
		"Code":    code,
		"Status":  http.StatusText(code),
		"Message": message,
	})
}
