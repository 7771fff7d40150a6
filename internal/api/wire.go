package api

import (
	"errors"
	"fmt"
	"log/slog"

	"salita/internal/config"
	"salita/internal/curriculum"
	"salita/internal/metrics"
	"salita/internal/nlp"
	"salita/internal/nlp/chat"
	"salita/internal/progress"
	"salita/internal/services"
	"salita/internal/store"
)

// NewFromConfig opens the store, loads the catalog, and wires the language
// backends described by cfg. m may be nil. The returned service owns the
// store and closes it on Close.
func NewFromConfig(cfg *config.Config, logger *slog.Logger, m *metrics.Metrics) (*Service, error) {
	if cfg == nil {
		return nil, services.Wrap(services.ErrConfiguration, "api", "init", "config required", nil)
	}
	catalog, err := curriculum.Load(cfg.Content.CatalogPath)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "api", "load catalog", cfg.Content.CatalogPath, err)
	}
	engine, err := progress.NewEngine(catalog, cfg.Quests.DailyCount)
	if err != nil {
		return nil, err
	}
	st, err := store.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	var (
		proxyOpts []nlp.ProxyOption
		chatOpts  []chat.Option
		observer  GameObserver
	)
	if m != nil {
		proxyOpts = append(proxyOpts, nlp.WithRecorder(m))
		chatOpts = append(chatOpts, chat.WithRecorder(m))
		observer = m
	}

	svc, err := NewService(Options{
		Store:            st,
		Engine:           engine,
		Language:         nlp.NewProxy(cfg, logger, proxyOpts...),
		Tutor:            chat.NewFromConfig(cfg, logger, chatOpts...),
		Observer:         observer,
		Logger:           logger,
		Location:         cfg.DefaultLocation(),
		LeaderboardLimit: cfg.API.LeaderboardLimit,
		HistoryLimit:     cfg.API.HistoryLimit,
	})
	if err != nil {
		return nil, errors.Join(err, st.Close())
	}
	svc.closer = st.Close
	return svc, nil
}
