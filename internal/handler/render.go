package handlers

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"
	"strconv"

	"github.com/gorilla/csrf"
	"github.com/gorilla/mux"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"todoforum/internal/models"
	"todoforum/internal/session"
)

//go:embed templates/*.html
var templateFS embed.FS

// goldmark escapes raw HTML unless WithUnsafe is set.
var md = goldmark.New(goldmark.WithExtensions(extension.Linkify, extension.Strikethrough))

var templates = template.Must(template.New("").Funcs(template.FuncMap{
	"markdown":      renderMarkdown,
	"priorityLabel": priorityLabel,
	"inc":           func(i int) int { return i + 1 },
}).ParseFS(templateFS, "templates/*.html"))

func renderMarkdown(source string) template.HTML {
	var buf bytes.Buffer
	if err := md.Convert([]byte(source), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(source))
	}
	return template.HTML(buf.String())
}

func priorityLabel(p models.Priority) string {
	switch p {
	case models.PriorityUrgent:
		return "Urgent"
	case models.PriorityLow:
		return "Low"
	case models.PriorityMedium:
		return "Medium"
	default:
		return string(p)
	}
}

// page is the data every template receives. Each page reads only the fields it needs.
type page struct {
	Identity   session.Identity
	CSRFField  template.HTML
	Message    string
	Success    bool
	Error      string
	LoginType  models.LoginType
	Birthdate  bool
	Todos      []models.Todo
	Posts      []models.PostView
	Users      []models.User
	Standings  []models.LeaderboardEntry
	TargetUser string
}

func (h *Handlers) render(w http.ResponseWriter, r *http.Request, status int, name string, data page) {
	if id, ok := session.FromContext(r.Context()); ok {
		data.Identity = id
	}
	data.CSRFField = csrf.TemplateField(r)

	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		h.logError(r, "failed to render template "+name, err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

func pathID(r *http.Request, key string) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)[key], 10, 64)
	return id, err == nil
}

func identity(r *http.Request) session.Identity {
	id, _ := session.FromContext(r.Context())
	return id
}
