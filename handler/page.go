package handler

import (
	"fmt"
	"html/template"
	"net/http"

	"ewintr.nl/tubescribe/session"
	"golang.org/x/exp/slog"
)

type pageData struct {
	State     session.State
	URL       string
	HasAPIKey bool
	Toast     string
}

// Page serves the form and the result of the latest submission of the
// session.
type Page struct {
	subs   *Submissions
	tpl    *template.Template
	logger *slog.Logger
}

func NewPage(subs *Submissions, logger *slog.Logger) *Page {
	tpl := template.Must(template.New("page").Funcs(template.FuncMap{
		"loading": func(st session.State) bool { return st.Status == session.StatusLoading },
	}).Parse(pageTpl))

	return &Page{
		subs:   subs,
		tpl:    tpl,
		logger: logger,
	}
}

func (p *Page) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	sessionID := SessionID(w, r)

	switch r.Method {
	case http.MethodGet:
		st := p.subs.Current(sessionID)
		p.render(w, http.StatusOK, pageData{
			State:     st,
			URL:       st.URL,
			HasAPIKey: p.subs.HasAPIKey(sessionID),
		})
	case http.MethodPost:
		if err := r.ParseForm(); err != nil {
			Error(w, http.StatusBadRequest, "could not parse form", err)
			return
		}
		rawURL := r.PostForm.Get("url")
		st, err := p.subs.Run(r.Context(), sessionID, rawURL)
		data := pageData{
			State:     st,
			URL:       rawURL,
			HasAPIKey: p.subs.HasAPIKey(sessionID),
			Toast:     "Summary ready",
		}
		if err != nil {
			data.Toast = st.Error
		}
		p.render(w, http.StatusOK, data)
	default:
		Error(w, http.StatusMethodNotAllowed, "method not allowed", fmt.Errorf("method %s is not supported on the page", r.Method))
	}
}

func (p *Page) render(w http.ResponseWriter, status int, data pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := p.tpl.Execute(w, data); err != nil {
		p.logger.Error("could not render page", slog.String("error", err.Error()))
	}
}

const pageTpl = `<!doctype html>
<html lang="en">
<meta charset="utf-8" />
<meta name="viewport" content="width=device-width, initial-scale=1" />
{{if loading .State}}<meta http-equiv="refresh" content="3" />{{end}}
<title>TubeScribe</title>
<style>
body{font-family:system-ui,-apple-system,Segoe UI,Roboto;max-width:860px;margin:0 auto;padding:1rem;color:#222}
header{display:flex;justify-content:space-between;align-items:center;margin-bottom:1rem}
form{display:flex;gap:8px;margin-bottom:1rem}
input{flex:1;padding:8px;border:1px solid #ccc;border-radius:6px}
button{padding:8px 14px;border:0;border-radius:6px;background:#c00;color:#fff;cursor:pointer}
button:disabled{background:#999;cursor:default}
.panel{border:1px solid #ddd;border-radius:8px;padding:12px;margin-bottom:1rem}
.settings{display:flex;gap:8px;align-items:center;font-size:.9em;color:#555}
.video{display:flex;gap:12px;align-items:center}
.video img{width:200px;border-radius:6px}
.error{border-color:#e99;background:#fff4f4}
.ts{display:inline-block;font-size:.8em;padding:1px 6px;margin:0 4px;border-radius:10px;background:#eef;color:#335}
.answer{margin-left:1.5rem;color:#444}
.question{font-weight:600}
.skeleton div{height:14px;margin:8px 0;border-radius:4px;background:linear-gradient(90deg,#eee,#f6f6f6,#eee)}
.hidden{display:none}
#toast{position:fixed;bottom:16px;right:16px;padding:10px 14px;border-radius:6px;background:#333;color:#fff}
</style>
<body>
<header><h1>TubeScribe</h1></header>

<div class="panel settings">
  <label for="apikey">Gemini API key</label>
  <input id="apikey" type="password" autocomplete="off" placeholder="{{if .HasAPIKey}}saved{{else}}not set{{end}}" />
</div>

<form id="submit" method="post" action="/">
  <input name="url" type="text" placeholder="https://www.youtube.com/watch?v=..." value="{{.URL}}" />
  <button id="go" type="submit" {{if loading .State}}disabled{{end}}>Summarize</button>
</form>

<div id="skeleton" class="panel skeleton {{if not (loading .State)}}hidden{{end}}">
  <div style="width:60%"></div><div></div><div></div><div style="width:80%"></div>
</div>

{{with .State}}
{{if eq .Status "error"}}
<div class="panel error"><strong>Something went wrong</strong><p>{{.Error}}</p></div>
{{end}}
{{if eq .Status "success"}}
{{with .Video}}
<div class="panel video">
  {{if .Thumbnail}}<img src="{{.Thumbnail}}" alt="" />{{end}}
  <div><h2>{{.Title}}</h2>{{if .Channel}}<p>{{.Channel}}</p>{{end}}</div>
</div>
{{end}}
{{range .Sections}}
<section class="panel">
  <h3>{{if .Timestamp}}<span class="ts">{{.Timestamp}}</span>{{end}}{{.Heading}}</h3>
  {{range .Paragraphs}}
  <p class="{{.Kind}}">{{range .Spans}}{{if .Timestamp}}<span class="ts">{{.Timestamp}}</span>{{else}}{{.Text}}{{end}}{{end}}</p>
  {{end}}
</section>
{{end}}
{{end}}
{{end}}

{{if .Toast}}<div id="toast">{{.Toast}}</div>{{end}}

<script>
var form = document.getElementById('submit');
var apikey = document.getElementById('apikey');
var saving = Promise.resolve();
var saveTimer = null;

function saveKey() {
  clearTimeout(saveTimer);
  saveTimer = null;
  var value = apikey.value;
  saving = fetch('/settings', {method:'PUT', headers:{'Content-Type':'application/json'}, body: JSON.stringify({api_key: value})})
    .then(function(){ apikey.placeholder = value ? 'saved' : 'not set'; })
    .catch(function(){});
  return saving;
}

apikey.addEventListener('input', function(){
  clearTimeout(saveTimer);
  saveTimer = setTimeout(saveKey, 300);
});

form.addEventListener('submit', function(e){
  e.preventDefault();
  document.getElementById('go').disabled = true;
  document.getElementById('skeleton').classList.remove('hidden');
  var pending = saveTimer !== null ? saveKey() : saving;
  pending.then(function(){ form.submit(); });
});

var toast = document.getElementById('toast');
if (toast) { setTimeout(function(){ toast.remove(); }, 4000); }
</script>
</body>
</html>
`
