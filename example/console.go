package example

import (
	"fmt"
	"strings"

	"github.com/myth21/viewcontroller"
	"github.com/myth21/viewcontroller/pkg/db"
	"github.com/myth21/viewcontroller/pkg/record"
)

// MigrateController applies schema migrations: action=up.
type MigrateController struct {
	host viewcontroller.Host
}

func newMigrateController(h viewcontroller.Host) *MigrateController {
	return &MigrateController{host: h}
}

func (c *MigrateController) Up() (string, error) {
	conn, err := c.host.Records().Connection()
	if err != nil {
		return "", err
	}

	ctx := c.host.Context()
	if err := db.Migrate(ctx, conn, Migrations(conn.Dialect()), "", c.host.Logger()); err != nil {
		return "", err
	}
	v, err := db.Version(ctx, conn, "")
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("database at version %d", v), nil
}

// ConsoleProjectController manages projects from the command line:
//
//	controller=Project action=add name="My project"
//	controller=Project action=list
//	controller=Project action=task id=1 title="Write docs"
//	controller=Project action=remove ids=1,2
type ConsoleProjectController struct {
	projectBase
}

func newConsoleProjectController(h viewcontroller.Host) *ConsoleProjectController {
	return &ConsoleProjectController{projectBase{host: h}}
}

func (c *ConsoleProjectController) List() (string, error) {
	list, err := c.projects.List(c.host.Context(), record.ListParams{Order: "id"})
	if err != nil {
		return "", err
	}
	for _, p := range list.Items() {
		fmt.Fprintf(c.host.Output(), "%d\t%s\n", p.ID, p.Name)
	}
	return fmt.Sprintf("%d projects", list.Len()), nil
}

func (c *ConsoleProjectController) Add() (string, error) {
	name, _ := c.host.Request().GetParam("name")
	if strings.TrimSpace(name) == "" {
		return "", badInput("name is required")
	}

	p := c.projects.New()
	p.Name = name
	if desc, ok := c.host.Request().GetParam("description"); ok {
		p.Description = &desc
	}
	if _, err := c.projects.Save(c.host.Context(), p); err != nil {
		return "", err
	}
	return fmt.Sprintf("created project %d", p.ID), nil
}

func (c *ConsoleProjectController) Task() (string, error) {
	p, err := c.load()
	if err != nil {
		return "", err
	}
	title, _ := c.host.Request().GetParam("title")
	if title == "" {
		return "", badInput("title is required")
	}

	t := &Task{ProjectID: p.ID, Title: title}
	if _, err := c.tasks.Insert(c.host.Context(), t); err != nil {
		return "", err
	}
	return fmt.Sprintf("created task %d in project %d", t.ID, p.ID), nil
}

func (c *ConsoleProjectController) Remove() (string, error) {
	raw, _ := c.host.Request().GetParam("ids")
	var ids []any
	for id := range strings.SplitSeq(raw, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}

	if err := c.conn.ForeignKeys(c.host.Context(), true); err != nil {
		return "", err
	}
	ok, err := c.projects.DeleteAll(c.host.Context(), ids)
	if err != nil {
		return "", err
	}
	if !ok {
		return "nothing to remove", nil
	}
	return fmt.Sprintf("removed %d projects", len(ids)), nil
}

// ConsoleExceptionController prints failures of console actions.
type ConsoleExceptionController struct {
	host viewcontroller.Host
}

func newConsoleExceptionController(h viewcontroller.Host) *ConsoleExceptionController {
	return &ConsoleExceptionController{host: h}
}

func (c *ConsoleExceptionController) Handle() (string, error) {
	last, err := c.host.Throwables().Last()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("error (%d): %s", viewcontroller.StatusCode(last.Err), last.Message), nil
}
