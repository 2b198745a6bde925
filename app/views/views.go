// Package views holds the frontend's server-rendered pages. Each page is
// parsed together with layout.html and rendered through the "layout"
// template.
package views

import (
	"embed"
	"fmt"
	"html/template"

	"github.com/shopspring/decimal"
)

//go:embed *.html
var files embed.FS

// Layout is the template name every page is executed as.
const Layout = "layout"

var funcs = template.FuncMap{
	"money": func(d decimal.Decimal) string { return d.StringFixed(2) },
}

var pages = map[string]*template.Template{}

func init() {
	for _, name := range []string{"index", "register", "login", "orders"} {
		pages[name] = template.Must(
			template.New(name).Funcs(funcs).ParseFS(files, "layout.html", name+".html"),
		)
	}
}

// Page returns the parsed template set for a page. It panics on an unknown
// name, which is a programming error.
func Page(name string) *template.Template {
	t, ok := pages[name]
	if !ok {
		panic(fmt.Sprintf("views: unknown page %q", name))
	}
	return t
}
