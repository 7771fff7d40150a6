package api

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"strings"
	"sync"
	"time"

	"salita/internal/logging"
	"salita/internal/nlp"
	"salita/internal/nlp/chat"
	"salita/internal/progress"
	"salita/internal/services"
	"salita/internal/store"
)

const (
	defaultLeaderboardLimit = 10
	defaultHistoryLimit     = 20
	maxListLimit            = 100
)

// Store is the persistence the service needs.
type Store interface {
	Ping(ctx context.Context) error
	Stats(ctx context.Context) (store.Stats, error)
	CreateUser(ctx context.Context, displayName, timezone string) (*store.User, error)
	GetUser(ctx context.Context, id string) (*store.User, error)
	ListUsers(ctx context.Context) ([]*store.User, error)
	SetTimezone(ctx context.Context, id, timezone string) error
	LoadProgress(ctx context.Context, userID string) (*progress.Progress, error)
	SaveProgress(ctx context.Context, p *progress.Progress) error
	RecordResult(ctx context.Context, p *progress.Progress, record store.GameRecord) (store.GameRecord, error)
	History(ctx context.Context, userID string, limit int) ([]store.GameRecord, error)
	Leaderboard(ctx context.Context, limit int) ([]store.LeaderboardEntry, error)
}

// Language answers tagging and verification requests.
type Language interface {
	Tag(ctx context.Context, text string) (nlp.TagResult, error)
	Verify(ctx context.Context, sentence, expected string) (nlp.Verification, error)
	HealthCheck(ctx context.Context) error
}

// Tutor continues a chat conversation.
type Tutor interface {
	Reply(ctx context.Context, messages []chat.Message) (chat.Response, error)
	Configured() bool
	Model() string
}

// GameObserver receives a record of every accepted game.
type GameObserver interface {
	ObserveGame(game string, perfect bool, xp, questXP, questsCompleted int)
	ObserveUserCreated()
}

// Options wires a Service.
type Options struct {
	Store    Store
	Engine   *progress.Engine
	Language Language
	Tutor    Tutor
	Observer GameObserver
	Logger   *slog.Logger
	// Location is used for learners without a timezone.
	Location         *time.Location
	LeaderboardLimit int
	HistoryLimit     int
	// Now overrides the clock, for tests.
	Now func() time.Time
}

// Service exposes learner operations to the HTTP server and the CLI.
type Service struct {
	store    Store
	engine   *progress.Engine
	language Language
	tutor    Tutor
	observer GameObserver
	logger   *slog.Logger
	location *time.Location
	now      func() time.Time

	leaderboardLimit int
	historyLimit     int

	locksMu sync.Mutex
	locks   map[string]*userLock

	closer func() error
}

// NewService validates opts and returns a Service.
func NewService(opts Options) (*Service, error) {
	if opts.Store == nil {
		return nil, services.Wrap(services.ErrConfiguration, "api", "init", "store required", nil)
	}
	if opts.Engine == nil {
		return nil, services.Wrap(services.ErrConfiguration, "api", "init", "progress engine required", nil)
	}
	s := &Service{
		store:            opts.Store,
		engine:           opts.Engine,
		language:         opts.Language,
		tutor:            opts.Tutor,
		observer:         opts.Observer,
		logger:           logging.NewComponentLogger(opts.Logger, "api"),
		location:         opts.Location,
		now:              opts.Now,
		leaderboardLimit: opts.LeaderboardLimit,
		historyLimit:     opts.HistoryLimit,
		locks:            make(map[string]*userLock),
	}
	if s.location == nil {
		s.location = time.UTC
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.leaderboardLimit <= 0 {
		s.leaderboardLimit = defaultLeaderboardLimit
	}
	if s.historyLimit <= 0 {
		s.historyLimit = defaultHistoryLimit
	}
	return s, nil
}

// Close releases resources owned by the service.
func (s *Service) Close() error {
	if s == nil || s.closer == nil {
		return nil
	}
	return s.closer()
}

// Catalog returns the published curriculum.
func (s *Service) Catalog() CatalogView {
	return FromCatalog(s.engine.Catalog())
}

// CreateUser registers a learner. An empty timezone falls back to the
// configured default.
func (s *Service) CreateUser(ctx context.Context, req CreateUserRequest) (User, error) {
	tz := strings.TrimSpace(req.Timezone)
	if tz == "" {
		tz = s.location.String()
	}
	user, err := s.store.CreateUser(ctx, req.DisplayName, tz)
	if err != nil {
		return User{}, err
	}
	if s.observer != nil {
		s.observer.ObserveUserCreated()
	}
	logging.WithContext(services.WithUserID(ctx, user.ID), s.logger).Info("user created",
		logging.String("display_name", user.DisplayName),
		logging.String("timezone", user.Timezone),
	)
	return FromUser(user), nil
}

// GetUser returns a learner profile.
func (s *Service) GetUser(ctx context.Context, id string) (User, error) {
	user, err := s.lookupUser(ctx, id)
	if err != nil {
		return User{}, err
	}
	return FromUser(user), nil
}

// ListUsers returns every learner in creation order.
func (s *Service) ListUsers(ctx context.Context) ([]User, error) {
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	return FromUsers(users), nil
}

// SetTimezone changes the zone a learner's days roll over in.
func (s *Service) SetTimezone(ctx context.Context, id, timezone string) (User, error) {
	id = strings.TrimSpace(id)
	if err := s.store.SetTimezone(ctx, id, timezone); err != nil {
		return User{}, err
	}
	return s.GetUser(ctx, id)
}

// Progress returns a learner's progression with today's quests.
func (s *Service) Progress(ctx context.Context, userID string) (ProgressView, error) {
	user, p, err := s.loadFresh(ctx, userID)
	if err != nil {
		return ProgressView{}, err
	}
	now := s.now()
	loc := user.Location(s.location)
	current := fromPosition(s.engine.Current(p))
	view := ProgressView{
		UserID:          user.ID,
		TotalXP:         p.TotalXP,
		XP:              maps.Clone(p.XP),
		GamesPlayed:     p.GamesPlayed,
		PerfectGames:    p.PerfectGames,
		CompletedLevels: s.engine.CompletedLevels(p),
		TotalLevels:     s.engine.Catalog().LevelCount(),
		Current:         &current,
		Streak: StreakView{
			Current:    p.CurrentStreak(now, loc),
			Longest:    p.Streak.Longest,
			LastActive: p.Streak.LastActive,
		},
		Sections:  fromSections(s.engine.Catalog(), p),
		Quests:    fromQuestBoard(p, now, loc),
		UpdatedAt: formatTime(p.UpdatedAt),
	}
	if view.XP == nil {
		view.XP = map[string]int{}
	}
	return view, nil
}

// Quests returns today's quests and when they reset.
func (s *Service) Quests(ctx context.Context, userID string) (QuestBoard, error) {
	user, p, err := s.loadFresh(ctx, userID)
	if err != nil {
		return QuestBoard{}, err
	}
	return fromQuestBoard(p, s.now(), user.Location(s.location)), nil
}

// RecordGame applies a finished round and persists the result.
func (s *Service) RecordGame(ctx context.Context, userID string, req GameRequest) (GameOutcome, error) {
	user, err := s.lookupUser(ctx, userID)
	if err != nil {
		return GameOutcome{}, err
	}
	ctx = services.WithUserID(ctx, user.ID)
	unlock := s.lockUser(user.ID)
	defer unlock()

	p, err := s.loadProgress(ctx, user.ID)
	if err != nil {
		return GameOutcome{}, err
	}
	now := s.now()
	out, err := s.engine.Record(p, progress.GameResult{
		Section: req.Section,
		Level:   req.Level,
		Game:    strings.TrimSpace(req.Game),
		Correct: req.Correct,
		Total:   req.Total,
	}, now, user.Location(s.location))
	if err != nil {
		return GameOutcome{}, err
	}
	ctx = services.WithGame(ctx, out.Game)

	if _, err := s.store.RecordResult(ctx, p, store.GameRecord{
		Section:  req.Section,
		Level:    req.Level,
		Game:     out.Game,
		Correct:  req.Correct,
		Total:    req.Total,
		XP:       out.XPEarned,
		QuestXP:  out.QuestXP,
		PlayedAt: now,
	}); err != nil {
		return GameOutcome{}, err
	}

	if s.observer != nil {
		s.observer.ObserveGame(out.Game, out.Perfect, out.XPEarned, out.QuestXP, len(out.CompletedQuests))
	}
	logger := logging.WithContext(ctx, s.logger)
	logger.Info("game recorded",
		logging.Int("section", req.Section),
		logging.Int("level", req.Level),
		logging.Int("correct", req.Correct),
		logging.Int("total", req.Total),
		logging.Int("xp", out.XPEarned),
		logging.Int("streak", out.Streak),
	)
	for _, q := range out.CompletedQuests {
		logger.Info("quest completed", logging.String("quest", q.ID), logging.Int("reward_xp", q.RewardXP))
	}
	return FromOutcome(out), nil
}

// History returns the learner's most recent rounds, newest first.
func (s *Service) History(ctx context.Context, userID string, limit int) ([]HistoryEntry, error) {
	user, err := s.lookupUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	records, err := s.store.History(ctx, user.ID, clampLimit(limit, s.historyLimit))
	if err != nil {
		return nil, err
	}
	return FromGameRecords(records), nil
}

// Leaderboard ranks learners by total XP. Streaks that have lapsed read as zero.
func (s *Service) Leaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	entries, err := s.store.Leaderboard(ctx, clampLimit(limit, s.leaderboardLimit))
	if err != nil {
		return nil, err
	}
	now := s.now()
	out := make([]LeaderboardEntry, 0, len(entries))
	for _, e := range entries {
		snapshot := progress.Progress{Streak: progress.StreakState{Current: e.Streak, LastActive: e.LastActive}}
		out = append(out, LeaderboardEntry{
			Rank:        e.Rank,
			UserID:      e.UserID,
			DisplayName: e.DisplayName,
			TotalXP:     e.TotalXP,
			Streak:      snapshot.CurrentStreak(now, s.location),
		})
	}
	return out, nil
}

// Tag returns part-of-speech tags for text.
func (s *Service) Tag(ctx context.Context, req TagRequest) (TagResponse, error) {
	if s.language == nil {
		return TagResponse{}, services.Wrap(services.ErrUnavailable, "api", "tag", "language backend not configured", nil)
	}
	return s.language.Tag(ctx, req.Text)
}

// Verify checks a sentence, optionally against an expected answer.
func (s *Service) Verify(ctx context.Context, req VerifyRequest) (VerifyResponse, error) {
	if s.language == nil {
		return VerifyResponse{}, services.Wrap(services.ErrUnavailable, "api", "verify", "language backend not configured", nil)
	}
	return s.language.Verify(ctx, req.Sentence, req.Expected)
}

// Chat continues a tutor conversation.
func (s *Service) Chat(ctx context.Context, req ChatRequest) (ChatResponse, error) {
	if s.tutor == nil {
		return ChatResponse{}, services.Wrap(services.ErrUnavailable, "api", "chat", "tutor not configured", nil)
	}
	return s.tutor.Reply(ctx, req.Messages)
}

func (s *Service) lookupUser(ctx context.Context, id string) (*store.User, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, services.Wrap(services.ErrValidation, "api", "lookup user", "user id required", nil)
	}
	user, err := s.store.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, services.Wrap(services.ErrNotFound, "api", "lookup user", fmt.Sprintf("user %s", id), nil)
	}
	return user, nil
}

// loadProgress returns stored progress reconciled against the catalog, or
// fresh progress for a learner who has not played.
func (s *Service) loadProgress(ctx context.Context, userID string) (*progress.Progress, error) {
	p, err := s.store.LoadProgress(ctx, userID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return s.engine.New(userID), nil
	}
	s.engine.Reconcile(p)
	return p, nil
}

// loadFresh loads progress and redraws quests when the local day changed.
// Only learners with stored progress are written back.
func (s *Service) loadFresh(ctx context.Context, userID string) (*store.User, *progress.Progress, error) {
	user, err := s.lookupUser(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	unlock := s.lockUser(user.ID)
	defer unlock()

	stored, err := s.store.LoadProgress(ctx, user.ID)
	if err != nil {
		return nil, nil, err
	}
	p := stored
	if p == nil {
		p = s.engine.New(user.ID)
	} else {
		s.engine.Reconcile(p)
	}
	if s.engine.RefreshQuests(p, s.now(), user.Location(s.location)) && stored != nil {
		if err := s.store.SaveProgress(ctx, p); err != nil {
			return nil, nil, err
		}
		logging.WithContext(services.WithUserID(ctx, user.ID), s.logger).Debug("daily quests refreshed",
			logging.String("date", p.Quests.Date),
		)
	}
	return user, p, nil
}

type userLock struct {
	mu   sync.Mutex
	refs int
}

// lockUser serializes read-modify-write cycles on one learner's progress.
// Entries are dropped once no caller holds or waits on them.
func (s *Service) lockUser(userID string) func() {
	s.locksMu.Lock()
	l, ok := s.locks[userID]
	if !ok {
		l = &userLock{}
		s.locks[userID] = l
	}
	l.refs++
	s.locksMu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		s.locksMu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(s.locks, userID)
		}
		s.locksMu.Unlock()
	}
}

func clampLimit(limit, fallback int) int {
	if limit <= 0 {
		return fallback
	}
	return min(limit, maxListLimit)
}
