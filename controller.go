package parlance

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"sync"

	"github.com/google/uuid"
)

const (
	// PhaseIdle is the phase of a controller that has not been submitted to.
	PhaseIdle Phase = iota

	// PhaseLoading is the phase while a translation request is in flight.
	PhaseLoading

	// PhaseResolved is the phase after a submission produced an [Outcome].
	PhaseResolved
)

// Phase is the lifecycle phase of a [Controller].
type Phase int

// String returns the name of the phase.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLoading:
		return "loading"
	case PhaseResolved:
		return "resolved"
	default:
		return "unknown"
	}
}

// State is the observable state of a [Controller]. There is exactly one State
// per controller; a user interface renders from its latest snapshot.
type State struct {
	Phase Phase

	// Outcome is the result of the last submission. It is only meaningful
	// if Phase is PhaseResolved; use Result to read it.
	Outcome Outcome

	// Form holds the values the form's input controls display.
	Form FormFields
}

// Loading reports whether a translation request is in flight.
func (s State) Loading() bool {
	return s.Phase == PhaseLoading
}

// Result returns the outcome of the last submission. It returns false unless
// the state is resolved, so a loading state never exposes a previous result.
func (s State) Result() (Outcome, bool) {
	if s.Phase != PhaseResolved {
		return Outcome{}, false
	}
	return s.Outcome, true
}

// MarshalJSON implements [json.Marshaler].
func (s State) MarshalJSON() ([]byte, error) {
	out := struct {
		Phase   string     `json:"phase"`
		Loading bool       `json:"loading"`
		Outcome *Outcome   `json:"outcome,omitempty"`
		Form    FormFields `json:"form"`
	}{
		Phase:   s.Phase.String(),
		Loading: s.Loading(),
		Form:    s.Form,
	}
	if res, ok := s.Result(); ok {
		out.Outcome = &res
	}
	return json.Marshal(out)
}

// Controller drives translation requests through their lifecycle: it
// validates the submitted form, builds the prompt, invokes the model, parses
// its output and publishes the resulting [State].
//
// A Controller does not order overlapping submissions. If Submit is called
// while another submission is still loading, both run to completion and the
// state reflects whichever resolves last. User interfaces are expected to
// prevent submits while the state is loading.
type Controller struct {
	model  ModelClient
	parser OutputParser
	logger *slog.Logger

	mux            sync.RWMutex
	state          State
	observers      []observer
	nextObserverID uint64
}

type observer struct {
	id uint64
	fn func(State)
}

// ControllerOption is an option for a [Controller].
type ControllerOption func(*Controller)

// WithLogger returns a ControllerOption that sets the logger that receives
// diagnostics, including the original errors of failed requests.
func WithLogger(logger *slog.Logger) ControllerOption {
	return func(c *Controller) {
		c.logger = logger
	}
}

// WithObserver returns a ControllerOption that registers fn to be called with
// a snapshot of the state after every state change. Observers are called in
// registration order; a panic in an observer is logged and does not affect
// the submission.
func WithObserver(fn func(State)) ControllerOption {
	return func(c *Controller) {
		c.Observe(fn)
	}
}

// NewController returns a controller that translates using the given model
// client and output parser. The controller starts idle.
func NewController(model ModelClient, parser OutputParser, opts ...ControllerOption) *Controller {
	c := &Controller{
		model:  model,
		parser: parser,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return c
}

// State returns a snapshot of the current state.
func (c *Controller) State() State {
	c.mux.RLock()
	defer c.mux.RUnlock()
	return c.state
}

// Submit handles a form submission and returns its outcome. Submit never
// panics and reports every failure through the returned [Outcome].
//
// A submission without a message resolves immediately with a validation
// failure; the model is not invoked. Otherwise the state moves to loading, the
// model is invoked and its output parsed. On every exit path the state is then
// resolved with the outcome and the form fields are reset, in that order.
func (c *Controller) Submit(ctx context.Context, in FormInput) Outcome {
	msg, ok := in.message()
	form := FormFields{Message: msg, Language: in.language()}

	if !ok || msg == "" {
		out := validationFailure(MessageRequired)
		c.update(func(s *State) {
			s.Phase = PhaseResolved
			s.Outcome = out
			s.Form = form
		})
		return out
	}

	c.update(func(s *State) {
		s.Phase = PhaseLoading
		s.Outcome = Outcome{}
		s.Form = form
	})

	req := TranslationRequest{SourceText: form.Message, TargetLanguage: form.Language}
	logger := c.logger.With(slog.String("request_id", uuid.NewString()))

	return c.run(ctx, logger, req)
}

func (c *Controller) run(ctx context.Context, logger *slog.Logger, req TranslationRequest) (out Outcome) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("translation panicked", slog.Any("panic", r))
			out = Failure(MessageGenericFailure)
		}

		c.update(func(s *State) {
			s.Phase = PhaseResolved
			s.Outcome = out
		})
		c.update(func(s *State) {
			s.Form = FormFields{}
		})
	}()

	logger.Debug("translating", slog.String("language", req.TargetLanguage), slog.Int("length", len(req.SourceText)))

	out, err := c.translate(ctx, req)
	if err != nil {
		logger.Error("translation failed", slog.Any("error", err))
		return Failure(MessageGenericFailure)
	}

	logger.Debug("translation resolved", slog.String("outcome", out.Kind.String()))

	return out
}

func (c *Controller) translate(ctx context.Context, req TranslationRequest) (Outcome, error) {
	result, err := c.model.Invoke(ctx, req.Prompt())
	if err != nil {
		return Outcome{}, fmt.Errorf("invoke model: %w", err)
	}

	if result == nil {
		return EmptyModelResponse(), nil
	}

	text, err := c.parser.Parse(ctx, result)
	if err != nil {
		return Outcome{}, fmt.Errorf("parse model output: %w", err)
	}

	if text == "" {
		return EmptyParsedResponse(), nil
	}

	return Success(text), nil
}

// Observe registers fn to be called with a snapshot of the state after every
// state change, like [WithObserver]. The returned function unregisters fn.
func (c *Controller) Observe(fn func(State)) (unobserve func()) {
	c.mux.Lock()
	defer c.mux.Unlock()

	c.nextObserverID++
	id := c.nextObserverID
	c.observers = append(slices.Clone(c.observers), observer{id: id, fn: fn})

	return func() {
		c.mux.Lock()
		defer c.mux.Unlock()
		c.observers = slices.DeleteFunc(slices.Clone(c.observers), func(o observer) bool {
			return o.id == id
		})
	}
}

// update applies fn to the state and notifies the observers. Observers run
// after the lock is released and cannot interrupt the caller: a panicking
// observer is logged and skipped.
func (c *Controller) update(fn func(*State)) {
	c.mux.Lock()
	fn(&c.state)
	snapshot := c.state
	observers := c.observers
	c.mux.Unlock()

	for _, o := range observers {
		c.notify(o.fn, snapshot)
	}
}

func (c *Controller) notify(fn func(State), s State) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("state observer panicked", slog.Any("panic", r), slog.String("phase", s.Phase.String()))
		}
	}()
	fn(s)
}
