// Package view renders html/template files for controllers.
//
// Without a Cache, templates are read from the fs.FS on every render, so
// edits on disk are picked up without restarting. With WithCache each file
// is parsed once and cloned per render. Render wraps a template in the
// layout, which receives the rendered page as .Content and the page title
// as .Title.
//
//	v := view.New(os.DirFS("views"), view.WithLayout("main"))
//	v.SetTitle("Projects")
//	html, err := v.Render("project/list", map[string]any{"Projects": list})
//
// Besides route, templates can call markdown to render user-written text
// through goldmark and a bluemonday policy:
//
//	{{with .Project.Description}}{{markdown .}}{{end}}
package view
