package example

import (
	"context"

	"github.com/myth21/viewcontroller/pkg/record"
)

// Project is a row of the project table.
type Project struct {
	ID          int64   `db:"id"`
	Name        string  `db:"project_name"`
	Description *string `db:"description"`
}

func (Project) Schema() record.Schema {
	return record.Schema{
		Attributes: record.Attrs(
			"project_name", "Project name",
			"description", "Description",
		),
	}
}

// BeforeDelete turns foreign keys on so the project's tasks cascade.
func (*Project) BeforeDelete(ctx context.Context, conn *record.Conn) error {
	return conn.ForeignKeys(ctx, true)
}

// Task is a row of the task table.
type Task struct {
	ID        int64  `db:"id"`
	ProjectID int64  `db:"project_id"`
	Title     string `db:"title"`
}

func (Task) Schema() record.Schema {
	return record.Schema{
		Table: "task",
		Attributes: record.Attrs(
			"project_id", "Project",
			"title", "Title",
		),
	}
}

// BeforeInsert enforces the project reference.
func (*Task) BeforeInsert(ctx context.Context, conn *record.Conn) error {
	return conn.ForeignKeys(ctx, true)
}

// tasksOf lists the tasks of one project.
func tasksOf(ctx context.Context, tasks *record.Mapper[Task], conn *record.Conn, projectID int64) ([]*Task, error) {
	d := conn.Dialect()
	list, err := tasks.List(ctx, record.ListParams{
		Where: d.Quote("project_id") + " = " + d.Placeholder("project_id", 1),
		Order: d.Quote("id"),
		Args:  []any{d.Arg("project_id", projectID)},
	})
	if err != nil {
		return nil, err
	}
	return list.Items(), nil
}
