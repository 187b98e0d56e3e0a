package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	"github.com/modernice/parlance"
	"github.com/modernice/parlance/catalog"
	"github.com/modernice/parlance/ollama"
	"github.com/modernice/parlance/openai"
	"github.com/modernice/parlance/parser"
	"github.com/modernice/parlance/web"
)

const (
	providerOpenAI = "openai"
	providerOllama = "ollama"

	shutdownTimeout = 10 * time.Second
)

// Options are the command-line options of the parlance server.
type Options struct {
	Addr     string `help:"Address the web server listens on" env:"PARLANCE_ADDR" default:":8080"`
	Title    string `help:"Page title" env:"PARLANCE_TITLE" default:"Translator"`
	Provider string `help:"Model provider (${enum})" enum:"openai,ollama" env:"PARLANCE_PROVIDER" default:"openai"`

	OpenAIKey     string `name:"openai-key" help:"OpenAI API key" env:"OPENAI_API_KEY"`
	OpenAIModel   string `name:"openai-model" help:"OpenAI model" env:"OPENAI_MODEL" default:"gpt-4"`
	OpenAIBaseURL string `name:"openai-base-url" help:"Base URL of an OpenAI-compatible API" env:"OPENAI_BASE_URL"`

	OllamaURL   string `name:"ollama-url" help:"URL of the Ollama server" env:"OLLAMA_URL" default:"http://localhost:11434"`
	OllamaModel string `name:"ollama-model" help:"Ollama model" env:"OLLAMA_MODEL" default:"llama3.1"`

	Temperature float32       `help:"Sampling temperature" env:"PARLANCE_TEMPERATURE" default:"0.3"`
	TopP        float32       `name:"top-p" help:"OpenAI top_p" env:"PARLANCE_TOP_P" default:"0.3"`
	Timeout     time.Duration `help:"Timeout of a single model request (0 disables the timeout)" env:"PARLANCE_TIMEOUT" default:"0s"`

	CleanOutput bool     `name:"clean-output" help:"Strip reasoning blocks, echoed instructions and wrapping quotes from model output" env:"PARLANCE_CLEAN_OUTPUT"`
	Languages   []string `name:"language" short:"l" help:"Additional selectable languages" env:"PARLANCE_LANGUAGES"`

	Verbose bool             `short:"v" help:"Verbose output"`
	Version kong.VersionFlag `help:"Print the version and exit"`
}

// App is the parlance server command. It serves the translation form over
// HTTP until it receives an interrupt or termination signal.
type App struct {
	kong    *kong.Context
	options Options
}

// New loads a .env file from the working directory, if present, and parses
// the command-line options.
func New() *App {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "load .env: %v\n", err)
		os.Exit(1)
	}

	var app App
	app.kong = kong.Parse(
		&app.options,
		kong.Name("parlance"),
		kong.Description(heredoc.Doc(`
			Parlance serves a web form that translates English text into the
			selected language, powered by AI language models.

			Credentials are read from the environment or from a .env file in
			the working directory.
		`)),
		kong.Vars{"version": parlance.Version()},
	)
	return &app
}

// Run starts the web server and blocks until it has shut down.
func (app *App) Run() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logger := app.options.logger()

	model, err := app.options.model(logger)
	app.kong.FatalIfErrorf(err)

	ctrl := parlance.NewController(model, app.options.parser(), parlance.WithLogger(logger))

	submitCtx, cancelSubmits := context.WithCancel(context.Background())
	defer cancelSubmits()

	srv := web.New(
		ctrl,
		app.options.catalog(),
		web.Logger(logger),
		web.Title(app.options.Title),
		web.Context(submitCtx),
	)

	httpServer := &http.Server{
		Addr:              app.options.Addr,
		Handler:           srv,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info("listening", slog.String("addr", app.options.Addr), slog.String("provider", app.options.Provider))
		errc <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			app.kong.FatalIfErrorf(err, "failed to serve on %q", app.options.Addr)
		}
		return
	case <-ctx.Done():
	}

	logger.Info("shutting down")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("shut down http server", slog.Any("error", err))
	}

	// Pending translations get until the shutdown deadline to resolve.
	stop := context.AfterFunc(shutdownCtx, cancelSubmits)
	defer stop()
	srv.Wait()
}

func (o Options) logger() *slog.Logger {
	level := slog.LevelInfo
	if o.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func (o Options) model(logger *slog.Logger) (parlance.ModelClient, error) {
	switch o.Provider {
	case providerOpenAI:
		if o.OpenAIKey == "" {
			return nil, errors.New("missing OpenAI API key: set --openai-key or OPENAI_API_KEY")
		}
		opts := []openai.Option{
			openai.Model(o.OpenAIModel),
			openai.Temperature(o.Temperature),
			openai.TopP(o.TopP),
			openai.Timeout(o.Timeout),
			openai.Logger(logger),
		}
		if o.OpenAIBaseURL != "" {
			opts = append(opts, openai.BaseURL(o.OpenAIBaseURL))
		}
		return openai.New(o.OpenAIKey, opts...), nil
	case providerOllama:
		return ollama.New(
			o.OllamaURL,
			ollama.Model(o.OllamaModel),
			ollama.Temperature(float64(o.Temperature)),
			ollama.Timeout(o.Timeout),
		), nil
	default:
		return nil, fmt.Errorf("unknown provider %q", o.Provider)
	}
}

func (o Options) parser() parlance.OutputParser {
	if o.CleanOutput {
		return parser.Clean()
	}
	return parser.String()
}

func (o Options) catalog() *catalog.Catalog {
	return catalog.Default(o.Languages...)
}
