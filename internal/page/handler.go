package page

import (
	"bytes"
	"html/template"
	"net/http"

	"github.com/tckz/visitor-counter/internal/counter"
	"go.uber.org/zap"
)

var pageTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
</head>
<body>
<p class="counter">{{.Counter}}</p>
</body>
</html>
`))

type pageData struct {
	Title   string
	Counter string
}

type Handler struct {
	endpoint string
	title    string
	logger   *zap.Logger
	opts     []counter.Option
}

type Option func(h *Handler)

func WithTitle(title string) Option {
	return Option(func(h *Handler) {
		h.title = title
	})
}

func WithLogger(zl *zap.Logger) Option {
	return Option(func(h *Handler) {
		h.logger = zl
	})
}

// WithUpdaterOptions is passed to the updater built for every page load.
func WithUpdaterOptions(opts ...counter.Option) Option {
	return Option(func(h *Handler) {
		h.opts = append(h.opts, opts...)
	})
}

func NewHandler(endpoint string, opts ...Option) *Handler {
	h := &Handler{
		endpoint: endpoint,
		title:    "Visitor counter",
		logger:   zap.NewNop(),
	}
	for _, e := range opts {
		e(h)
	}
	return h
}

// Routes serves the page at / and a liveness probe at /healthz.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", h.serveIndex)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	return mux
}

// serveIndex runs one update cycle per page load against a fresh document.
// HEAD requests get the headers only and never reach the counter endpoint.
func (h *Handler) serveIndex(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodHead {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		return
	}

	doc := NewDocument()
	el := doc.Query(CounterSelector)

	opts := append([]counter.Option{counter.WithLogger(h.logger)}, h.opts...)
	out := counter.NewUpdater(h.endpoint, el, opts...).Update(r.Context())
	h.logger.Info("page rendered",
		zap.String("cycle", out.Cycle),
		zap.String("selector", el.Selector()),
		zap.Strings("elements", doc.Selectors()),
		zap.Bool("fallback", out.Fallback),
		zap.String("remote", r.RemoteAddr))

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, pageData{Title: h.title, Counter: el.Text()}); err != nil {
		h.logger.Error("pageTemplate.Execute", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.Write(buf.Bytes())
}
