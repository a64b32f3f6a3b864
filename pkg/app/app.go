package app

import (
	"context"
	"fmt"
	"time"

	"github.com/arnavshah/shift-roster-ai/pkg/config"
	"github.com/arnavshah/shift-roster-ai/pkg/database"
	"github.com/arnavshah/shift-roster-ai/pkg/form"
	"github.com/arnavshah/shift-roster-ai/pkg/generation"
	"github.com/arnavshah/shift-roster-ai/pkg/handlers"
	"github.com/arnavshah/shift-roster-ai/pkg/i18n"
	"github.com/arnavshah/shift-roster-ai/pkg/review"
	"github.com/arnavshah/shift-roster-ai/pkg/session"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// App is a fully wired server
type App struct {
	Config  config.Config
	Handler *handlers.Handler
	Router  *gin.Engine
	Log     *zap.Logger
}

// New wires the server from cfg. A database that cannot be opened only
// disables usage tracking.
func New(cfg config.Config, log *zap.Logger) (*App, error) {
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Open(database.Options{DSN: cfg.DatabaseURL, Path: cfg.DataPath})
	if err != nil {
		log.Warn("usage tracking disabled, database unavailable", zap.Error(err))
		db = nil
	}

	sessions, err := session.NewManager(cfg.SessionSecret, cfg.SessionMaxIdle)
	if err != nil {
		return nil, fmt.Errorf("session manager: %w", err)
	}
	if cfg.SessionSecret == "" {
		log.Warn("SESSION_SECRET not set, sessions will not survive a restart")
	}

	client, err := generation.NewGeminiClient(generation.Config{
		APIKey:  cfg.GeminiAPIKey,
		Model:   cfg.GeminiModel,
		Timeout: cfg.GenerationTimeout,
	}, log)
	if err != nil {
		return nil, err
	}

	lang, ok := i18n.Parse(cfg.DefaultLang)
	if !ok {
		log.Warn("unsupported DEFAULT_LANG, using English", zap.String("lang", cfg.DefaultLang))
		lang = i18n.Supported[0]
	}

	h := &handlers.Handler{
		DB:          db,
		Sessions:    sessions,
		Forms:       form.NewRegistry(),
		Generator:   client,
		Log:         log,
		DefaultLang: lang,
	}
	if cfg.AdvisoryChecks {
		h.Reviewer = review.NewReviewer(review.DefaultOptions())
	}

	log.Info("server configured",
		zap.String("model", client.Model()),
		zap.Duration("timeout", cfg.GenerationTimeout),
		zap.Bool("usage_tracking", db != nil),
		zap.Bool("advisory_checks", cfg.AdvisoryChecks),
		zap.String("default_lang", lang.String()))

	return &App{
		Config:  cfg,
		Handler: h,
		Router:  handlers.NewRouter(h),
		Log:     log,
	}, nil
}

// SweepSessions drops idle forms every interval until ctx is done
func (a *App) SweepSessions(ctx context.Context, interval time.Duration) {
	maxIdle := a.Config.SessionMaxIdle
	if maxIdle <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := a.Handler.Forms.Sweep(maxIdle); n > 0 {
				a.Log.Debug("swept idle sessions", zap.Int("count", n))
			}
		}
	}
}
