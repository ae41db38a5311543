package app

import (
	"github.com/picshare/backend/internal/config"
	"github.com/picshare/backend/internal/db"
	"github.com/picshare/backend/internal/handlers"
	"github.com/picshare/backend/internal/middleware"
	"github.com/picshare/backend/internal/relationships"
	"github.com/picshare/backend/internal/repositories"
)

// buildDependencies wires together concrete implementations used by the HTTP handlers.
func buildDependencies(pool db.Pool, cfg config.Config) handlers.Dependencies {
	graph := repositories.NewPostgresGraphRepository(pool)
	accounts := repositories.NewPostgresAccountRepository(pool)
	privacy := repositories.NewPostgresPrivacyRepository(pool)

	engine := relationships.NewService(graph, accounts, privacy)

	limiter := middleware.NewIPRateLimiter(cfg.RateLimitRequests, cfg.RateLimitWindow, cfg.RateLimitBurst, cfg.RateLimitTTL)

	return handlers.Dependencies{
		Follow:       engine,
		Requests:     engine,
		Status:       engine,
		Lists:        engine,
		Moderation:   engine,
		CloseFriends: engine,
		Limiter:      limiter,
	}
}
