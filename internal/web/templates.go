package web

import (
	"bytes"
	"html/template"

	"github.com/jaminalder/tictac/internal/app"
)

type templates struct {
	page *template.Template
}

func funcs() template.FuncMap {
	return template.FuncMap{
		"symbol": func(mark string) string {
			switch mark {
			case "x":
				return "X"
			case "o":
				return "O"
			default:
				return " "
			}
		},
		"rows": func(sq []app.Square) [][]app.Square {
			out := make([][]app.Square, 0, 3)
			for i := 0; i+3 <= len(sq); i += 3 {
				out = append(out, sq[i:i+3])
			}
			return out
		},
	}
}

func loadTemplates() *templates {
	page := template.Must(template.New("page").Funcs(funcs()).Parse(pageTemplate))
	template.Must(page.New("board").Parse(boardTemplate))
	return &templates{page: page}
}

func renderTemplate(t *template.Template, name string, data any) []byte {
	var buf bytes.Buffer
	if name == "" {
		_ = t.Execute(&buf, data)
	} else {
		_ = t.ExecuteTemplate(&buf, name, data)
	}
	return buf.Bytes()
}

// pageData feeds pageTemplate. Game is nil when the request was rejected.
type pageData struct {
	Game  *app.Analysis
	Error string
}

const pageTemplate = `<!doctype html><html><head>
<meta charset="utf-8"/>
<title>Tic-tac-toe</title>
</head><body>
<h1>Tic-tac-toe</h1>
<p>Simple HTML version. Click a square to move.</p>
{{if .Error}}<div class="alert">{{.Error}}</div>{{end}}
{{with .Game}}
{{template "board" .}}
{{if .GameOver}}<p class="result">Game over.</p>{{end}}
{{end}}
<p><a href="/">New game</a> or <a href="/---------">make the computer move first</a>.</p>
</body></html>`

const boardTemplate = `
<table id="board" data-state="{{.Next}}">
  {{range rows .Squares}}
  <tr>
    {{range .}}
    <td class="cell-{{.Mark}}">{{if .Next}}<a href="/{{.Next}}">{{symbol .Mark}}</a>{{else}}{{symbol .Mark}}{{end}}</td>
    {{end}}
  </tr>
  {{end}}
</table>
`
