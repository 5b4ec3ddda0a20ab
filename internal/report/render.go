package report

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"github.com/yuin/goldmark"

	"github.com/evelogos/alliancelogos/internal/database"
)

//go:embed templates/*.html
var templateFS embed.FS

var md = goldmark.New()

var page = template.Must(template.New("index.html").Funcs(template.FuncMap{
	"monthLabel": database.FormatMonthDisplay,
	"logoURL": func(id int64) string {
		return fmt.Sprintf("https://image.eveonline.com/Alliance/%d_64.png", id)
	},
	"killboardURL": func(id int64) string {
		return fmt.Sprintf("https://zkillboard.com/alliance/%d/", id)
	},
	"markdown": renderMarkdown,
}).ParseFS(templateFS, "templates/index.html"))

// Render produces the static gallery page for the report model. It is a pure
// function of its inputs: identical models render identical bytes.
func Render(m *Model, footerMarkdown string) ([]byte, error) {
	var buf bytes.Buffer
	data := map[string]any{
		"Model":  m,
		"Footer": renderMarkdown(footerMarkdown),
	}
	if err := page.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("rendering page: %w", err)
	}
	return buf.Bytes(), nil
}

func renderMarkdown(text string) template.HTML {
	var buf bytes.Buffer
	if err := md.Convert([]byte(text), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(text))
	}
	return template.HTML(buf.String()) //nolint: gosec
}
