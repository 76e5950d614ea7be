package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/episodeblock/internal/domain"
)

// Formatter turns a RenderOutput into markup
type Formatter interface {
	Format(w io.Writer, label string, out domain.RenderOutput) error
	ContentType() string
}

// TextFormatter writes a terminal list. Styled output uses lipgloss; plain
// output is used when stdout is not a terminal.
type TextFormatter struct {
	Styled bool
}

func (f TextFormatter) ContentType() string { return "text/plain; charset=utf-8" }

func (f TextFormatter) Format(w io.Writer, label string, out domain.RenderOutput) error {
	var lines []string

	if f.Styled {
		lines = append(lines, TitleStyle.Render(label))
	} else {
		lines = append(lines, label)
	}

	if len(out.Items) == 0 {
		lines = append(lines, "  (none)")
	}
	for _, item := range out.Items {
		if f.Styled {
			lines = append(lines, fmt.Sprintf("%s %s  %s",
				BulletStyle.Render(BulletChar),
				ItemStyle.Render(item.Title),
				LinkStyle.Render(item.Link)))
		} else {
			lines = append(lines, fmt.Sprintf("- %s  %s", item.Title, item.Link))
		}
	}

	body := strings.Join(lines, "\n")
	if f.Styled {
		body = PanelStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
	}
	_, err := io.WriteString(w, body+"\n")
	return err
}

// JSONFormatter writes the RenderOutput as JSON
type JSONFormatter struct{}

func (JSONFormatter) ContentType() string { return "application/json" }

func (JSONFormatter) Format(w io.Writer, _ string, out domain.RenderOutput) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

var listTemplate = template.Must(template.New("item_list").Parse(
	`<div class="block block-{{.ID}}">
  <h2>{{.Label}}</h2>
  <ul class="item-list">
{{- range .Output.Items}}
    <li><a href="{{.Link}}">{{.Title}}</a></li>
{{- end}}
  </ul>
</div>
`))

// HTMLFormatter writes an item list fragment
type HTMLFormatter struct {
	BlockID string
}

func (HTMLFormatter) ContentType() string { return "text/html; charset=utf-8" }

func (f HTMLFormatter) Format(w io.Writer, label string, out domain.RenderOutput) error {
	var buf bytes.Buffer
	err := listTemplate.Execute(&buf, struct {
		ID     string
		Label  string
		Output domain.RenderOutput
	}{ID: strings.ReplaceAll(f.BlockID, "_", "-"), Label: label, Output: out})
	if err != nil {
		return err
	}
	_, err = w.Write(buf.Bytes())
	return err
}
