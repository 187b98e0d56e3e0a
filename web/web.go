// Package web serves the translation form and a JSON API on top of a
// [parlance.Controller].
package web

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/modernice/parlance"
	"github.com/modernice/parlance/catalog"
)

const (
	// DefaultTitle is the page title used when none is configured.
	DefaultTitle = "Translator"

	// DefaultRefreshInterval is how often the page reloads itself while a
	// translation is loading.
	DefaultRefreshInterval = time.Second

	maxBodyBytes = 1 << 20
)

//go:embed templates/index.html
var templates embed.FS

var indexTemplate = template.Must(template.ParseFS(templates, "templates/index.html"))

// Server is an [http.Handler] that renders the state of a controller as an
// HTML form and submits the form to the controller.
//
//	GET  /                render the page
//	POST /                submit the form (ignored while loading)
//	GET  /api/state       current state as JSON
//	GET  /api/languages   selectable languages as JSON
//	POST /api/translate   submit JSON form input and wait for the outcome
//
// Form submissions through POST / run in the background, so the page can show
// the loading state. While a submission is loading, further form submissions
// are ignored. POST /api/translate is not guarded and may overlap with other
// submissions.
type Server struct {
	ctrl     *parlance.Controller
	catalog  *catalog.Catalog
	logger   *slog.Logger
	title    string
	refresh  time.Duration
	baseCtx  context.Context
	mux      *http.ServeMux
	handler  http.Handler
	busy     atomic.Bool
	inflight sync.WaitGroup
}

// Option configures a Server.
type Option func(*Server)

// Logger sets the logger for request logs.
func Logger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// Title sets the page title.
func Title(title string) Option {
	return func(s *Server) {
		s.title = title
	}
}

// RefreshInterval sets how often the page reloads while loading.
func RefreshInterval(d time.Duration) Option {
	return func(s *Server) {
		s.refresh = d
	}
}

// Context sets the context background submissions run with. It defaults to
// [context.Background]; submissions are never tied to the HTTP request that
// started them.
func Context(ctx context.Context) Option {
	return func(s *Server) {
		s.baseCtx = ctx
	}
}

// New returns a server for the given controller and language catalog.
func New(ctrl *parlance.Controller, cat *catalog.Catalog, opts ...Option) *Server {
	s := &Server{
		ctrl:    ctrl,
		catalog: cat,
		title:   DefaultTitle,
		refresh: DefaultRefreshInterval,
		baseCtx: context.Background(),
		mux:     http.NewServeMux(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	s.mux.HandleFunc("GET /{$}", s.index)
	s.mux.HandleFunc("POST /{$}", s.submit)
	s.mux.HandleFunc("GET /api/state", s.state)
	s.mux.HandleFunc("GET /api/languages", s.languages)
	s.mux.HandleFunc("POST /api/translate", s.translate)
	s.handler = logRequests(s.logger, s.mux)

	return s
}

// ServeHTTP implements [http.Handler].
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// Wait blocks until all background submissions have resolved.
func (s *Server) Wait() {
	s.inflight.Wait()
}

type page struct {
	Title          string
	RefreshSeconds int
	State          parlance.State
	Result         *parlance.Outcome
	Languages      []catalog.Entry
}

func (s *Server) index(w http.ResponseWriter, r *http.Request) {
	state := s.ctrl.State()

	data := page{
		Title:          s.title,
		RefreshSeconds: max(1, int(s.refresh/time.Second)),
		State:          state,
		Languages:      s.catalog.Entries(),
	}
	if res, ok := state.Result(); ok {
		data.Result = &res
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTemplate.Execute(w, data); err != nil {
		s.logger.Error("render page", slog.Any("error", err))
	}
}

func (s *Server) submit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	if s.ctrl.State().Loading() || !s.busy.CompareAndSwap(false, true) {
		s.logger.Debug("ignoring submit while loading")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	in := parlance.FormValues(r.PostForm)

	// Every submission writes the state at least once: loading, or resolved
	// for invalid input. Redirect after that write, so the next page never
	// renders the state from before the submit.
	started := make(chan struct{})
	var once sync.Once
	unobserve := s.ctrl.Observe(func(parlance.State) {
		once.Do(func() { close(started) })
	})

	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()
		defer s.busy.Store(false)
		s.ctrl.Submit(s.baseCtx, in)
	}()

	select {
	case <-started:
	case <-r.Context().Done():
	}
	unobserve()

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) state(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.ctrl.State())
}

func (s *Server) languages(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.catalog.Entries())
}

type translateResponse struct {
	Outcome parlance.Outcome `json:"outcome"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) translate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var in parlance.FormInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}

	if lang, _ := in[parlance.FieldLanguage].(string); lang == "" {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "please select a language"})
		return
	}

	// A disconnecting client does not cancel the submission.
	out := s.ctrl.Submit(context.WithoutCancel(r.Context()), in)

	s.writeJSON(w, outcomeStatus(out), translateResponse{Outcome: out})
}

func outcomeStatus(out parlance.Outcome) int {
	err := out.Err()
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, parlance.ErrProvider):
		return http.StatusBadGateway
	default:
		return http.StatusUnprocessableEntity
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("write response", slog.Any("error", err))
	}
}
