package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"github.com/pavelanni/eduimpact/internal/analysis"
	"github.com/pavelanni/eduimpact/internal/chat"
	"github.com/pavelanni/eduimpact/internal/dataset"
	"github.com/pavelanni/eduimpact/internal/handler"
	appI18n "github.com/pavelanni/eduimpact/internal/i18n"
	"github.com/pavelanni/eduimpact/internal/llm"
	"github.com/pavelanni/eduimpact/internal/llm/prompts"
	"github.com/pavelanni/eduimpact/internal/metrics"
	"github.com/pavelanni/eduimpact/internal/model"
	"github.com/pavelanni/eduimpact/internal/predictor"
)

//go:generate templ generate -path ../../internal/handler/views

func main() {
	if err := rootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "eduimpact",
		Short: "Student performance prediction with AI analysis",
	}

	serve := serveCmd()
	root.AddCommand(serve, setupKeyCmd())

	// Make "serve" the default when no subcommand is given.
	root.RunE = serve.RunE

	// Register serve flags on root so bare `eduimpact --addr ...` still works.
	root.Flags().AddFlagSet(serve.Flags())

	return root
}

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE:  runServe,
	}
	f := cmd.Flags()
	f.StringP("addr", "a", ":8080", "HTTP listen address")
	f.StringP("model", "m", "models/student_model.json", "Path to the exported regression model (JSON, optionally gzipped)")
	f.String("dataset", "data/student_data.csv", "Path to the archive CSV file")
	f.Int("page-size", dataset.DefaultPageSize, "Archive rows per page")
	f.String("llm-url", "https://api.groq.com/openai/v1", "OpenAI-compatible API base URL")
	f.String("llm-key", "", "API key for the chat completion service (or set GROQ_API_KEY)")
	f.String("llm-model", "llama-3.1-8b-instant", "Chat completion model name")
	f.Duration("llm-timeout", 60*time.Second, "Timeout for a single chat completion call")
	f.Int("max-attempts", llm.DefaultAttempts, "Chat completion attempts before giving up (1-3)")
	f.String("chat-mode", string(model.ChatLenient), "Chat behavior when the service is down (strict, lenient)")
	f.String("fallback", string(model.FallbackRules), "Prediction narrative when the service is down (canned, rules)")
	f.StringP("lang", "l", "en", "Default UI language (en, ru)")
	f.Duration("shutdown-timeout", 10*time.Second, "Graceful shutdown timeout")
	f.String("log-level", "info", "Log level (debug, info, warn, error)")
	f.String("log-format", "text", "Log format (text, json)")
	return cmd
}

func setupLogging(cmd *cobra.Command) {
	v := viperForCmd(cmd)

	var logLevel slog.Level
	switch strings.ToLower(v.GetString("log-level")) {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}
	handlerOpts := &slog.HandlerOptions{Level: logLevel}
	var logHandler slog.Handler
	switch strings.ToLower(v.GetString("log-format")) {
	case "json":
		logHandler = slog.NewJSONHandler(os.Stderr, handlerOpts)
	default:
		logHandler = slog.NewTextHandler(os.Stderr, handlerOpts)
	}
	slog.SetDefault(slog.New(logHandler))
}

// viperForCmd binds a command's flags and environment to a fresh viper instance.
func viperForCmd(cmd *cobra.Command) *viper.Viper {
	v := viper.New()
	_ = v.BindPFlags(cmd.Flags())

	v.SetEnvPrefix("EDUIMPACT")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("llm-key", "EDUIMPACT_LLM_KEY", "GROQ_API_KEY")

	v.SetConfigName("eduimpact")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.config/eduimpact")
	v.AddConfigPath("/etc/eduimpact")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			slog.Warn("error reading config file", "error", err)
		}
	} else {
		slog.Debug("loaded config file", "path", v.ConfigFileUsed())
	}

	return v
}

func appConfig(v *viper.Viper) model.AppConfig {
	cfg := model.AppConfig{
		ModelPath:      v.GetString("model"),
		DatasetPath:    v.GetString("dataset"),
		LLMModel:       v.GetString("llm-model"),
		MaxAttempts:    v.GetInt("max-attempts"),
		ChatMode:       model.ChatMode(strings.ToLower(strings.TrimSpace(v.GetString("chat-mode")))),
		FallbackPolicy: model.FallbackPolicy(strings.ToLower(strings.TrimSpace(v.GetString("fallback")))),
		PageSize:       v.GetInt("page-size"),
	}
	if cfg.ChatMode != model.ChatStrict && cfg.ChatMode != model.ChatLenient {
		slog.Warn("invalid chat-mode, using lenient", "mode", cfg.ChatMode)
		cfg.ChatMode = model.ChatLenient
	}
	if cfg.FallbackPolicy != model.FallbackCanned && cfg.FallbackPolicy != model.FallbackRules {
		slog.Warn("invalid fallback, using rules", "fallback", cfg.FallbackPolicy)
		cfg.FallbackPolicy = model.FallbackRules
	}
	return cfg
}

func runServe(cmd *cobra.Command, _ []string) error {
	setupLogging(cmd)
	v := viperForCmd(cmd)
	cfg := appConfig(v)

	// Initialize i18n.
	lang := v.GetString("lang")
	if err := appI18n.Init(lang); err != nil {
		return fmt.Errorf("init i18n: %w", err)
	}
	if err := prompts.Load(); err != nil {
		return fmt.Errorf("load prompts: %w", err)
	}

	pred, err := predictor.Load(cfg.ModelPath)
	if err != nil {
		return fmt.Errorf("load model: %w", err)
	}
	slog.Info("model loaded", "path", cfg.ModelPath)

	archive := dataset.New(cfg.DatasetPath, cfg.PageSize)
	if _, err := os.Stat(cfg.DatasetPath); err != nil {
		slog.Warn("archive CSV not available, /archive will return 404", "path", cfg.DatasetPath, "error", err)
	}

	// A nil completer leaves the AI features in their not-configured state.
	var completer llm.Completer
	if key := v.GetString("llm-key"); llm.KeyConfigured(key) {
		completer = llm.New(v.GetString("llm-url"), key, cfg.LLMModel, v.GetDuration("llm-timeout"))
		slog.Info("chat completion client configured", "url", v.GetString("llm-url"), "model", cfg.LLMModel)
	} else {
		slog.Warn("chat API key not set, AI analysis and chat are disabled",
			"hint", "run `eduimpact setup-key` or set GROQ_API_KEY; get a key at https://console.groq.com/")
	}
	retrier := llm.NewRetrier(completer, cfg.MaxAttempts, slog.Default())

	h := handler.New(
		pred,
		analysis.New(retrier, cfg.FallbackPolicy, slog.Default()),
		chat.New(retrier, cfg.ChatMode, slog.Default()),
		archive,
		slog.Default(),
	)

	metrics.Init()

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(metrics.Middleware)
	r.Use(appI18n.Middleware(lang))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", metrics.Handler())
	h.Routes(r)

	srv := &http.Server{
		Addr:              v.GetString("addr"),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("starting server",
			"addr", srv.Addr,
			"lang", lang,
			"chat_mode", cfg.ChatMode,
			"fallback", cfg.FallbackPolicy,
			"max_attempts", retrier.Attempts(),
			"ai_configured", retrier.Configured(),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), v.GetDuration("shutdown-timeout"))
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})
	return g.Wait()
}
