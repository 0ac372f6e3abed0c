package page

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/tckz/visitor-counter/internal/counter"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestDocument_Query(t *testing.T) {
	doc := NewDocument()
	el := doc.Query(CounterSelector)
	if el.Text() != "" {
		t.Fatalf("new element should be empty, got %q", el.Text())
	}

	if err := el.SetText(context.Background(), "Views: 1"); err != nil {
		t.Fatal(err)
	}
	// A second query resolves the same element without clearing it.
	if got := doc.Query(CounterSelector).Text(); got != "Views: 1" {
		t.Fatalf("got %q", got)
	}

	doc.Query("#title")
	if got := doc.Selectors(); !reflect.DeepEqual(got, []string{"#title", ".counter"}) {
		t.Fatalf("selectors=%v", got)
	}
}

func get(t *testing.T, h http.Handler, path string) (*http.Response, string) {
	t.Helper()
	srv := httptest.NewServer(h)
	defer srv.Close()

	res, err := http.Get(srv.URL + path)
	if err != nil {
		t.Fatal(err)
	}
	defer res.Body.Close()
	b, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatal(err)
	}
	return res, string(b)
}

func TestHandler_Index(t *testing.T) {
	var hits int64
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&hits, 1)
		w.Write([]byte(`{"views": 2500}`))
	}))
	defer api.Close()

	h := NewHandler(api.URL, WithUpdaterOptions(counter.WithFormatter(counter.HumanFormat)))

	res, body := get(t, h.Routes(), "/")
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status=%d", res.StatusCode)
	}
	if !strings.Contains(body, `<p class="counter">Views: 2,500</p>`) {
		t.Fatalf("body=%s", body)
	}
	if n := atomic.LoadInt64(&hits); n != 1 {
		t.Fatalf("hits=%d", n)
	}

	// Every load runs its own cycle.
	get(t, h.Routes(), "/")
	if n := atomic.LoadInt64(&hits); n != 2 {
		t.Fatalf("hits=%d", n)
	}
}

func TestHandler_IndexFallback(t *testing.T) {
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"views":`))
	}))
	defer api.Close()

	res, body := get(t, NewHandler(api.URL, WithTitle("home")).Routes(), "/")
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status=%d", res.StatusCode)
	}
	// html/template escapes the apostrophe.
	if !strings.Contains(body, `<p class="counter">Couldn&#39;t read views</p>`) {
		t.Fatalf("body=%s", body)
	}
	if !strings.Contains(body, "<title>home</title>") {
		t.Fatalf("body=%s", body)
	}
}

func TestHandler_Healthz(t *testing.T) {
	res, body := get(t, NewHandler("http://127.0.0.1:0").Routes(), "/healthz")
	if res.StatusCode != http.StatusOK || body != "ok" {
		t.Fatalf("status=%d body=%q", res.StatusCode, body)
	}
}

func TestHandler_NotFound(t *testing.T) {
	res, _ := get(t, NewHandler("http://127.0.0.1:0").Routes(), "/favicon.ico")
	if res.StatusCode != http.StatusNotFound {
		t.Fatalf("status=%d", res.StatusCode)
	}
}

func TestHandler_HeadSkipsUpdate(t *testing.T) {
	var hits int64
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&hits, 1)
		w.Write([]byte(`{"views": 1}`))
	}))
	defer api.Close()

	srv := httptest.NewServer(NewHandler(api.URL).Routes())
	defer srv.Close()

	res, err := http.Head(srv.URL + "/")
	if err != nil {
		t.Fatal(err)
	}
	res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status=%d", res.StatusCode)
	}
	if n := atomic.LoadInt64(&hits); n != 0 {
		t.Fatalf("hits=%d", n)
	}
}

func TestHandler_LogsElements(t *testing.T) {
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"views": 5}`))
	}))
	defer api.Close()

	core, logs := observer.New(zapcore.InfoLevel)
	get(t, NewHandler(api.URL, WithLogger(zap.New(core))).Routes(), "/")

	entries := logs.FilterMessage("page rendered").All()
	if len(entries) != 1 {
		t.Fatalf("entries=%d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["selector"] != CounterSelector {
		t.Fatalf("selector=%v", fields["selector"])
	}
	if fields["fallback"] != false {
		t.Fatalf("fallback=%v", fields["fallback"])
	}
	if got, ok := fields["elements"].([]interface{}); !ok || len(got) != 1 || got[0] != CounterSelector {
		t.Fatalf("elements=%#v", fields["elements"])
	}
}
