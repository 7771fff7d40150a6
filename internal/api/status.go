package api

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
)

const statusCheckTimeout = 3 * time.Second

// Status checks the database, the NLP service, and the chat provider
// concurrently. Only the database decides overall readiness; the language
// backends degrade to local fallbacks.
func (s *Service) Status(ctx context.Context) (Status, error) {
	ctx, cancel := context.WithTimeout(ctx, statusCheckTimeout)
	defer cancel()

	var (
		db    = ComponentStatus{Name: "database"}
		lang  = ComponentStatus{Name: "nlp"}
		tutor = ComponentStatus{Name: "chat"}
		users int
		games int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := s.store.Ping(gctx); err != nil {
			db.Detail = err.Error()
			return nil
		}
		stats, err := s.store.Stats(gctx)
		if err != nil {
			db.Detail = err.Error()
			return nil
		}
		db.Ready = true
		users, games = stats.Users, stats.Games
		return nil
	})
	g.Go(func() error {
		if s.language == nil {
			lang.Detail = "not configured"
			return nil
		}
		if err := s.language.HealthCheck(gctx); err != nil {
			lang.Detail = "local fallback: " + err.Error()
			return nil
		}
		lang.Ready = true
		return nil
	})
	g.Go(func() error {
		switch {
		case s.tutor == nil:
			tutor.Detail = "not configured"
		case s.tutor.Configured():
			tutor.Ready = true
			tutor.Detail = s.tutor.Model()
		default:
			tutor.Detail = "no api key; canned replies"
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return Status{}, err
	}

	status := Status{
		Status:     "ok",
		Users:      users,
		Games:      games,
		Components: []ComponentStatus{db, lang, tutor},
		CheckedAt:  formatTime(s.now()),
	}
	switch {
	case !db.Ready:
		status.Status = "unavailable"
	case !lang.Ready || !tutor.Ready:
		status.Status = "degraded"
	}
	return status, nil
}
