// Package record maps plain structs to table rows with hand-built,
// parameterized SQL.
//
// A record type declares its table once through a Schema:
//
//	type Project struct {
//		ID   int64  `db:"id"`
//		Name string `db:"project_name"`
//	}
//
//	func (Project) Schema() record.Schema {
//		return record.Schema{
//			Table:      "project",
//			Attributes: record.Attrs("project_name", "Project name"),
//		}
//	}
//
// and is then read and written through a Mapper bound to a Registry:
//
//	reg := record.NewRegistry(record.NewConn(db, record.SQLite))
//	projects := record.MustFor[Project](reg)
//
//	p := projects.New()
//	p.Name = "a project name"
//	ok, err := projects.Insert(ctx, p)
//
// List, One and Count take raw clause fragments in ListParams and splice
// them into the query unchanged. Only DeleteAllWhereField validates a
// caller supplied column name.
//
// Records may implement BeforeInserter, BeforeUpdater or BeforeDeleter to
// run statements, such as toggling foreign keys, ahead of a mutation.
package record
