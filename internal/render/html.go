package render

import (
	"bytes"
	"fmt"
	"html/template"
)

const htmlLayout = `
{{define "heading"}}{{if eq .Level 1}}<h1>{{.Text}}</h1>{{else if eq .Level 2}}<h2>{{.Text}}</h2>{{else}}<h3>{{.Text}}</h3>{{end}}
{{end}}
{{define "text"}}<p class="{{.Class}}">{{.Text}}</p>
{{end}}
{{define "list"}}{{if .Ordered}}<ol>{{else}}<ul>{{end}}{{range .Items}}<li>{{.}}</li>{{end}}{{if .Ordered}}</ol>{{else}}</ul>{{end}}
{{end}}
{{define "banner"}}<div class="banner" style="{{.Style}}"><div class="verdict" style="{{.TitleStyle}}">{{if .Marker}}{{.Marker}} {{end}}{{.Title}}</div><div class="score">{{.Subtitle}}</div></div>
{{end}}
{{define "fields"}}<table class="fields"><tr>{{range .}}<td><div class="label">{{.Label}}</div><div class="value">{{.Value}}</div></td>{{end}}</tr></table>
{{end}}
{{define "bar"}}<div class="bar"><div class="fill" style="{{.}}"></div></div>
{{end}}
{{define "table"}}<table class="grid">
<thead><tr>{{range .Headers}}<th style="{{.Style}}">{{.Text}}</th>{{end}}</tr></thead>
<tbody>{{range .Rows}}<tr>{{range .}}<td style="{{.Style}}">{{.Text}}</td>{{end}}</tr>{{end}}</tbody>
{{if .Totals}}<tfoot><tr class="totals">{{range .Totals}}<td style="{{.Style}}">{{.Text}}</td>{{end}}</tr></tfoot>{{end}}
</table>
{{end}}
{{define "card"}}<section class="card" style="{{.Border}}"><div class="card-head" style="{{.Head}}"><span class="card-title">{{if .Icon}}{{.Icon}} {{end}}{{.Title}}</span><span class="card-score">{{.Score}} &middot; {{.Strength}}</span></div>
<div class="card-body">{{template "bar" .Bar}}{{with .Detail}}{{template "table" .}}{{end}}</div></section>
{{end}}
{{define "note"}}<div class="note"><h3>{{.Title}}</h3><p>{{.Body}}</p></div>
{{end}}
{{define "rule"}}<hr>
{{end}}
{{define "page"}}<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>{{.CSS}}</style>
</head>
<body>
<header class="page-header"><span>{{.Header}}</span><span class="page-no">Page 1</span></header>
<main>
{{.Body}}</main>
{{if .Footer}}<footer class="page-footer">{{.Footer}}</footer>
{{end}}</body>
</html>
{{end}}`

var htmlTemplates = template.Must(template.New("report").Parse(htmlLayout))

// HTMLCanvas writes a self-contained HTML document with inline CSS
type HTMLCanvas struct {
	body   bytes.Buffer
	footer bool
	err    error
}

// NewHTMLCanvas creates an empty HTML canvas
func NewHTMLCanvas(opts Options) *HTMLCanvas {
	return &HTMLCanvas{footer: opts.IncludeFooter}
}

type htmlCell struct {
	Text  string
	Style template.CSS
}

type htmlTable struct {
	Headers []htmlCell
	Rows    [][]htmlCell
	Totals  []htmlCell
}

func (c *HTMLCanvas) exec(name string, data interface{}) {
	if c.err != nil {
		return
	}
	if err := htmlTemplates.ExecuteTemplate(&c.body, name, data); err != nil {
		c.err = fmt.Errorf("template %s: %w", name, err)
	}
}

func (c *HTMLCanvas) Heading(text string, level int) {
	c.exec("heading", struct {
		Text  string
		Level int
	}{text, level})
}

func (c *HTMLCanvas) Text(text string, style TextStyle) {
	class := map[TextStyle]string{
		StyleBody:     "body",
		StyleTitle:    "title",
		StyleSubtitle: "subtitle",
		StyleMuted:    "muted",
	}[style]
	c.exec("text", struct{ Text, Class string }{text, class})
}

func (c *HTMLCanvas) List(items []string, ordered bool) {
	c.exec("list", struct {
		Items   []string
		Ordered bool
	}{items, ordered})
}

func (c *HTMLCanvas) Banner(b Banner) {
	c.exec("banner", struct {
		Marker, Title, Subtitle string
		Style, TitleStyle       template.CSS
	}{
		Marker:     b.Marker,
		Title:      b.Title,
		Subtitle:   b.Subtitle,
		Style:      template.CSS(fmt.Sprintf("background:%s;border-color:%s", b.Bg, b.Fg)),
		TitleStyle: template.CSS("color:" + b.Fg.String()),
	})
}

func (c *HTMLCanvas) Fields(fields []Field) {
	c.exec("fields", fields)
}

func (c *HTMLCanvas) Bar(fraction float64, color Color) {
	c.exec("bar", barStyle(fraction, color))
}

func (c *HTMLCanvas) Table(t Table) {
	c.exec("table", toHTMLTable(t))
}

func (c *HTMLCanvas) Card(card Card) {
	data := struct {
		Icon, Title, Score, Strength string
		Border, Head                 template.CSS
		Bar                          template.CSS
		Detail                       *htmlTable
	}{
		Icon:     card.Icon,
		Title:    card.Title,
		Score:    card.Score,
		Strength: card.Strength,
		Border:   template.CSS("border-color:" + card.Accent.String()),
		Head:     template.CSS("background:" + card.Accent.String()),
		Bar:      barStyle(card.Fraction, card.Accent),
	}
	if card.Detail != nil {
		t := toHTMLTable(*card.Detail)
		data.Detail = &t
	}
	c.exec("card", data)
}

func (c *HTMLCanvas) Note(n Note) {
	c.exec("note", n)
}

func (c *HTMLCanvas) Rule() {
	c.exec("rule", nil)
}

// Finish wraps the accumulated body in the page template
func (c *HTMLCanvas) Finish() ([]byte, error) {
	if c.err != nil {
		return nil, c.err
	}

	page := struct {
		Title  string
		CSS    template.CSS
		Header string
		Footer string
		Body   template.HTML
	}{
		Title:  "Proposal Go/No-Go Diagnostic Report",
		CSS:    htmlCSS(),
		Header: HeaderText,
		Body:   template.HTML(c.body.String()),
	}
	if c.footer {
		page.Footer = FooterText
	}

	var out bytes.Buffer
	if err := htmlTemplates.ExecuteTemplate(&out, "page", page); err != nil {
		return nil, fmt.Errorf("template page: %w", err)
	}
	return out.Bytes(), nil
}

func barStyle(fraction float64, color Color) template.CSS {
	return template.CSS(fmt.Sprintf("width:%.1f%%;background:%s", clampFraction(fraction)*100, color))
}

func toHTMLTable(t Table) htmlTable {
	cells := func(row []string) []htmlCell {
		out := make([]htmlCell, len(t.Headers))
		for i := range out {
			if i < len(row) {
				out[i].Text = row[i]
			}
			out[i].Style = template.CSS("text-align:" + cssAlign(columnAlign(t, i)))
		}
		return out
	}

	ht := htmlTable{Headers: cells(t.Headers)}
	weights := columnWeights(t)
	for i := range ht.Headers {
		ht.Headers[i].Style += template.CSS(fmt.Sprintf(";width:%.1f%%", weights[i]*100))
	}
	for _, r := range t.Rows {
		ht.Rows = append(ht.Rows, cells(r))
	}
	if len(t.Totals) > 0 {
		ht.Totals = cells(t.Totals)
	}
	return ht
}

func cssAlign(a Align) string {
	switch a {
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	default:
		return "left"
	}
}

func htmlCSS() template.CSS {
	return template.CSS(fmt.Sprintf(`
body{font-family:Helvetica,Arial,sans-serif;color:%[1]s;margin:0;font-size:14px;line-height:1.5}
main{max-width:820px;margin:0 auto;padding:24px}
.page-header{display:flex;justify-content:space-between;background:%[2]s;color:#fff;font-weight:bold;font-size:12px;padding:10px 24px}
.page-footer{text-align:center;color:%[3]s;font-style:italic;font-size:11px;padding:16px}
h1,h2,h3{color:%[2]s}
h2{border-bottom:2px solid %[4]s;padding-bottom:4px}
p.title{font-size:20px;font-weight:bold;margin:0}
p.subtitle{color:%[3]s;margin-top:0}
p.muted{color:%[3]s;font-size:12px}
.banner{border:2px solid;border-radius:8px;padding:14px;text-align:center;margin:16px 0}
.verdict{font-size:28px;font-weight:bold}
.bar{background:%[5]s;height:10px;border-radius:5px;overflow:hidden;margin:8px 0 14px}
.bar .fill{height:100%%}
table{border-collapse:collapse;width:100%%}
.fields td{vertical-align:top;padding:6px 8px 6px 0}
.fields .label{color:%[3]s;font-size:11px;text-transform:uppercase}
.fields .value{font-weight:bold}
.grid{margin:8px 0 18px}
.grid th{background:%[2]s;color:#fff;padding:6px;border:1px solid %[6]s}
.grid td{padding:6px;border:1px solid %[6]s}
.grid tbody tr:nth-child(even){background:%[7]s}
.grid .totals td{background:%[8]s;font-weight:bold;color:%[2]s}
.card{border:1px solid;border-radius:6px;margin:14px 0;overflow:hidden}
.card-head{display:flex;justify-content:space-between;color:#fff;font-weight:bold;padding:8px 12px}
.card-body{padding:4px 12px}
.note{background:%[9]s;border-left:4px solid %[10]s;padding:8px 14px;margin:12px 0}
.note h3{color:%[10]s;margin:4px 0}
hr{border:0;border-top:1px solid %[6]s}
`, ColorText, ColorPrimary, ColorMuted, ColorAccent, ColorBarTrack, ColorBorder, ColorRowAlt, ColorTotals, ColorNoteBg, ColorNoteEdge))
}
