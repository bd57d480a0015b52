// Package web holds the embedded templates and static assets.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"path"

	"alumni/internal/utils"

	"github.com/gin-contrib/multitemplate"
)

//go:embed templates static
var files embed.FS

// views maps the name handlers render to the view file under templates/views.
var views = []string{
	"feed.html",
	"search.html",
	"error.html",
	"auth/login.html",
	"auth/register.html",
	"user/profile.html",
	"user/public.html",
	"post/detail.html",
}

// FuncMap is shared by every page.
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"dict": func(values ...interface{}) (map[string]interface{}, error) {
			if len(values)%2 != 0 {
				return nil, fmt.Errorf("invalid dict call")
			}
			dict := make(map[string]interface{}, len(values)/2)
			for i := 0; i < len(values); i += 2 {
				key, ok := values[i].(string)
				if !ok {
					return nil, fmt.Errorf("dict keys must be strings")
				}
				dict[key] = values[i+1]
			}
			return dict, nil
		},
		"add": func(a, b int) int {
			return a + b
		},
		"timeAgo":  utils.TimeAgo,
		"initials": utils.Initials,
		"markdown": utils.RenderMarkdown,
	}
}

// Templates builds one template set per view: the layout, the shared includes
// and the view itself.
func Templates(funcMap template.FuncMap) (multitemplate.Renderer, error) {
	r := multitemplate.NewRenderer()

	includes, err := fs.Glob(files, "templates/includes/*.html")
	if err != nil {
		return nil, err
	}

	for _, name := range views {
		patterns := append([]string{"templates/layouts/base.html"}, includes...)
		patterns = append(patterns, path.Join("templates/views", name))

		tmpl, err := template.New("base.html").Funcs(funcMap).ParseFS(files, patterns...)
		if err != nil {
			return nil, fmt.Errorf("parse view %s: %w", name, err)
		}
		r.Add(name, tmpl)
	}
	return r, nil
}

// Static returns the asset tree served under /static.
func Static() fs.FS {
	sub, err := fs.Sub(files, "static")
	if err != nil {
		panic(err)
	}
	return sub
}
