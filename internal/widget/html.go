package widget

import (
	"bytes"
	"html/template"
	"io"
	"sync"

	"github.com/buzzcrank/crankfeed"
)

// ArtFallback is shown in place of missing album art.
const ArtFallback = "BC"

var htmlTemplates = template.Must(template.New("widget").Funcs(template.FuncMap{
	"fallback": func() string { return ArtFallback },
}).Parse(`
{{- define "status" -}}
{{- if not .IsZero -}}
<span class="dot{{if eq .Tone 1}} live{{else if eq .Tone 2}} error{{end}}"></span><span>{{.Text}}
{{- with .Link}}<a href="{{.URL}}" target="_blank" rel="noopener noreferrer">{{.Label}}</a>{{end}}{{.After}}</span>
{{- end -}}
{{- end -}}

{{- define "cards" -}}
{{- range . -}}
<article class="card">
<h3 class="card-title">{{if .URL}}<a href="{{.URL}}" target="_blank" rel="noopener noreferrer">{{.Title}}</a>{{else}}{{.Title}}{{end}}</h3>
{{- if .Meta}}
<p class="card-meta">{{.Meta}}</p>
{{- end}}
{{- if .Tags}}
<p class="card-tags">{{range $i, $t := .Tags}}{{if $i}}  {{end}}{{$t}}{{end}}</p>
{{- end}}
{{- if or .When .Detail}}
<p class="card-when">{{.When}}{{if and .When .Detail}} · {{end}}{{.Detail}}</p>
{{- end}}
{{- if .Snippet}}
<p class="card-snippet">{{.Snippet}}</p>
{{- end}}
{{- with .Action}}
<a class="card-action" href="{{.URL}}" target="_blank" rel="noopener noreferrer">{{.Label}}</a>
{{- end}}
{{- if and .MoreLabel .URL}}
<a class="card-more" href="{{.URL}}" target="_blank" rel="noopener noreferrer">{{.MoreLabel}}</a>
{{- end}}
</article>
{{end -}}
{{- end -}}

{{- define "track" -}}
<div class="np-art">{{if .Art}}<img src="{{.Art}}" alt="Album art">{{else}}<span>{{fallback}}</span>{{end}}</div>
<div class="np-title">{{.Title}}</div>
<div class="np-artist">{{.Artist}}</div>
{{- end -}}
`))

// HTMLSurface keeps a widget's status, list and track as escaped HTML
// fragments. All untrusted text is escaped by html/template.
type HTMLSurface struct {
	mu     sync.RWMutex
	status template.HTML
	list   template.HTML
	track  template.HTML
}

func NewHTMLSurface() *HTMLSurface {
	return &HTMLSurface{}
}

func (s *HTMLSurface) SetStatus(msg Message) {
	out := render("status", msg)
	s.mu.Lock()
	s.status = out
	s.mu.Unlock()
}

func (s *HTMLSurface) ReplaceCards(cards []Card) {
	out := render("cards", cards)
	s.mu.Lock()
	s.list = out
	s.mu.Unlock()
}

func (s *HTMLSurface) SetTrack(np crankfeed.NowPlaying) {
	out := render("track", np)
	s.mu.Lock()
	s.track = out
	s.mu.Unlock()
}

func (s *HTMLSurface) Status() template.HTML {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

func (s *HTMLSurface) List() template.HTML {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.list
}

func (s *HTMLSurface) Track() template.HTML {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.track
}

// WriteTo writes the status, list and track regions in that order.
func (s *HTMLSurface) WriteTo(w io.Writer) (int64, error) {
	s.mu.RLock()
	page := string(s.status) + "\n" + string(s.list) + string(s.track)
	s.mu.RUnlock()
	n, err := io.WriteString(w, page)
	return int64(n), err
}

func render(name string, data any) template.HTML {
	var buf bytes.Buffer
	if err := htmlTemplates.ExecuteTemplate(&buf, name, data); err != nil {
		return ""
	}
	return template.HTML(buf.String())
}
