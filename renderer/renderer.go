// Package renderer formats report tables as markdown.
package renderer

import (
	"embed"
	"fmt"
	"io/fs"
	"math"
	"strconv"
	"strings"
	"text/template"

	"github.com/etnz/stocks"
)

//go:embed templates/*.md
var templatesFS embed.FS

// templates is the root of the embedded templates.
var templates, _ = fs.Sub(templatesFS, "templates")

var funcs = template.FuncMap{
	"cell": Cell,
	"join": strings.Join,
}

// Markdown renders the tables as markdown, one level 2 title per table.
func Markdown(tables ...stocks.Table) string {
	var b strings.Builder
	for i, t := range tables {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(renderTemplate("table", "table.md", map[string]string{"section": "section.md"}, t))
	}
	return b.String()
}

// renderTemplate is a generic utility to render a main template that depends on several partials.
func renderTemplate(templateName, mainFile string, partials map[string]string, data any) string {
	mainContent, err := fs.ReadFile(templates, mainFile)
	if err != nil {
		return fmt.Sprintf("error reading main template %q: %v", mainFile, err)
	}

	tmpl, err := template.New(templateName).Funcs(funcs).Parse(string(mainContent))
	if err != nil {
		return fmt.Sprintf("error parsing main template %q: %v", mainFile, err)
	}

	for name, file := range partials {
		content, err := fs.ReadFile(templates, file)
		if err != nil {
			return fmt.Sprintf("error reading partial template %q: %v", file, err)
		}
		if _, err := tmpl.New(name).Parse(string(content)); err != nil {
			return fmt.Sprintf("error parsing partial template %q for %q: %v", file, name, err)
		}
	}

	var b strings.Builder
	if err := tmpl.ExecuteTemplate(&b, templateName, data); err != nil {
		return fmt.Sprintf("error executing template %q: %v", templateName, err)
	}
	return strings.TrimRight(b.String(), "\n") + "\n"
}

// Cell formats a table cell: floats with 2 decimals, NaN as n/a, bools as yes or no.
func Cell(v any) string {
	switch v := v.(type) {
	case float64:
		if math.IsNaN(v) {
			return "n/a"
		}
		return strconv.FormatFloat(v, 'f', 2, 64)
	case bool:
		if v {
			return "yes"
		}
		return "no"
	case string:
		return strings.ReplaceAll(v, "|", `\|`)
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}
