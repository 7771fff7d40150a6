package progress_test

import (
	"errors"
	"math"
	"testing"
	"time"

	"salita/internal/curriculum"
	"salita/internal/progress"
	"salita/internal/services"
)

func newEngine(t *testing.T) *progress.Engine {
	t.Helper()
	catalog, err := curriculum.Builtin()
	if err != nil {
		t.Fatalf("Builtin returned error: %v", err)
	}
	engine, err := progress.NewEngine(catalog, 3)
	if err != nil {
		t.Fatalf("NewEngine returned error: %v", err)
	}
	return engine
}

var day1 = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

func TestNewUnlocksOnlyFirstLevel(t *testing.T) {
	engine := newEngine(t)
	p := engine.New("user-1")

	for sectionID, section := range p.Sections {
		for levelID, level := range section.Levels {
			want := sectionID == 1 && levelID == 1
			if level.Unlocked != want {
				t.Fatalf("level %d-%d unlocked=%v, want %v", sectionID, levelID, level.Unlocked, want)
			}
		}
		if section.Unlocked != (sectionID == 1) {
			t.Fatalf("section %d unlocked=%v", sectionID, section.Unlocked)
		}
	}
	if pos := engine.Current(p); pos != (progress.Position{Section: 1, Level: 1}) {
		t.Fatalf("unexpected current position %+v", pos)
	}
}

func TestPerfectScoreUnlocksNextLevel(t *testing.T) {
	engine := newEngine(t)
	p := engine.New("user-1")

	out, err := engine.Record(p, progress.GameResult{Section: 1, Level: 1, Game: "vocabulary", Correct: 5, Total: 5}, day1, time.UTC)
	if err != nil {
		t.Fatalf("Record returned error: %v", err)
	}
	if !out.Perfect || !out.LevelCompleted || out.Stars != 3 {
		t.Fatalf("unexpected outcome %+v", out)
	}
	if len(out.UnlockedLevels) != 1 || out.UnlockedLevels[0] != (progress.Position{Section: 1, Level: 2}) {
		t.Fatalf("expected 1-2 unlocked, got %+v", out.UnlockedLevels)
	}
	if out.XPEarned != 5*10+20 {
		t.Fatalf("unexpected xp earned %d", out.XPEarned)
	}
	if p.XP["vocabulary"] != out.XPEarned {
		t.Fatalf("expected vocabulary xp %d, got %d", out.XPEarned, p.XP["vocabulary"])
	}
	if p.TotalXP != out.XPEarned+out.QuestXP {
		t.Fatalf("total xp %d does not match earned %d + quests %d", p.TotalXP, out.XPEarned, out.QuestXP)
	}
	if engine.CompletedLevels(p) != 1 {
		t.Fatalf("expected one completed level, got %d", engine.CompletedLevels(p))
	}

	replay, err := engine.Record(p, progress.GameResult{Section: 1, Level: 1, Correct: 5, Total: 5}, day1, time.UTC)
	if err != nil {
		t.Fatalf("replay returned error: %v", err)
	}
	if replay.LevelCompleted || len(replay.UnlockedLevels) != 0 {
		t.Fatalf("replay should not report new completions: %+v", replay)
	}
	if p.Sections[1].Levels[1].Attempts != 2 {
		t.Fatalf("expected two attempts, got %d", p.Sections[1].Levels[1].Attempts)
	}
}

func TestImperfectScoreKeepsNextLevelLocked(t *testing.T) {
	engine := newEngine(t)
	p := engine.New("user-1")

	out, err := engine.Record(p, progress.GameResult{Section: 1, Level: 1, Correct: 4, Total: 5}, day1, time.UTC)
	if err != nil {
		t.Fatalf("Record returned error: %v", err)
	}
	if out.Perfect || out.LevelCompleted {
		t.Fatalf("expected incomplete level, got %+v", out)
	}
	if out.Score != 80 || out.Stars != 2 {
		t.Fatalf("unexpected score/stars %d/%d", out.Score, out.Stars)
	}
	if out.XPEarned != 40 {
		t.Fatalf("expected 40 xp, got %d", out.XPEarned)
	}
	if p.Sections[1].Levels[2].Unlocked {
		t.Fatal("expected level 1-2 to stay locked")
	}

	if _, err := engine.Record(p, progress.GameResult{Section: 1, Level: 1, Correct: 1, Total: 5}, day1, time.UTC); err != nil {
		t.Fatalf("Record returned error: %v", err)
	}
	level := p.Sections[1].Levels[1]
	if level.BestScore != 80 || level.Stars != 2 {
		t.Fatalf("best score should be kept, got %d/%d", level.BestScore, level.Stars)
	}
}

func TestRecordRejectsInvalidResults(t *testing.T) {
	engine := newEngine(t)
	cases := []struct {
		name   string
		result progress.GameResult
		want   error
		marker error
	}{
		{"locked level", progress.GameResult{Section: 1, Level: 2, Correct: 1, Total: 5}, progress.ErrLevelLocked, services.ErrConflict},
		{"locked section", progress.GameResult{Section: 2, Level: 1, Correct: 1, Total: 5}, progress.ErrLevelLocked, services.ErrConflict},
		{"unknown section", progress.GameResult{Section: 6, Level: 1, Correct: 1, Total: 5}, progress.ErrUnknownLevel, services.ErrValidation},
		{"unknown level", progress.GameResult{Section: 1, Level: 99, Correct: 1, Total: 5}, progress.ErrUnknownLevel, services.ErrValidation},
		{"zero total", progress.GameResult{Section: 1, Level: 1, Correct: 0, Total: 0}, progress.ErrInvalidScore, services.ErrValidation},
		{"too many correct", progress.GameResult{Section: 1, Level: 1, Correct: 6, Total: 5}, progress.ErrInvalidScore, services.ErrValidation},
		{"round larger than level", progress.GameResult{Section: 1, Level: 1, Correct: 6, Total: 6}, progress.ErrInvalidScore, services.ErrValidation},
		{"overflowing round", progress.GameResult{Section: 1, Level: 1, Correct: math.MaxInt / 50, Total: math.MaxInt / 50}, progress.ErrInvalidScore, services.ErrValidation},
		{"negative correct", progress.GameResult{Section: 1, Level: 1, Correct: -1, Total: 5}, progress.ErrInvalidScore, services.ErrValidation},
		{"wrong game", progress.GameResult{Section: 1, Level: 1, Game: "conversation", Correct: 1, Total: 5}, progress.ErrGameMismatch, services.ErrValidation},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := engine.New("user-1")
			_, err := engine.Record(p, tc.result, day1, time.UTC)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			if !errors.Is(err, tc.marker) {
				t.Fatalf("expected marker %v, got %v", tc.marker, err)
			}
			if p.GamesPlayed != 0 || p.TotalXP != 0 {
				t.Fatalf("rejected result must not change progress: %+v", p)
			}
		})
	}
}

func TestCompletingSectionUnlocksNextSection(t *testing.T) {
	engine := newEngine(t)
	catalog := engine.Catalog()
	p := engine.New("user-1")

	var last progress.Outcome
	for _, level := range catalog.Sections[0].Levels {
		out, err := engine.Record(p, progress.GameResult{Section: 1, Level: level.ID, Correct: 3, Total: 3}, day1, time.UTC)
		if err != nil {
			t.Fatalf("Record level %d returned error: %v", level.ID, err)
		}
		last = out
	}
	if !last.SectionCompleted {
		t.Fatalf("expected section completion, got %+v", last)
	}
	if len(last.UnlockedSections) != 1 || last.UnlockedSections[0] != 2 {
		t.Fatalf("expected section 2 unlocked, got %+v", last.UnlockedSections)
	}
	if len(last.UnlockedLevels) != 1 || last.UnlockedLevels[0] != (progress.Position{Section: 2, Level: 1}) {
		t.Fatalf("expected 2-1 unlocked, got %+v", last.UnlockedLevels)
	}
	if !p.Sections[1].Completed || p.Sections[2].Completed {
		t.Fatal("unexpected section completion flags")
	}
	if pos := engine.Current(p); pos != (progress.Position{Section: 2, Level: 1}) {
		t.Fatalf("expected current 2-1, got %+v", pos)
	}
}

func TestFinalLevelUnlocksNothing(t *testing.T) {
	engine := newEngine(t)
	catalog := engine.Catalog()
	p := engine.New("user-1")

	var last progress.Outcome
	for _, section := range catalog.Sections {
		for _, level := range section.Levels {
			out, err := engine.Record(p, progress.GameResult{Section: section.ID, Level: level.ID, Correct: 1, Total: 1}, day1, time.UTC)
			if err != nil {
				t.Fatalf("Record %d-%d returned error: %v", section.ID, level.ID, err)
			}
			last = out
		}
	}
	if len(last.UnlockedLevels) != 0 || len(last.UnlockedSections) != 0 {
		t.Fatalf("final level should unlock nothing, got %+v", last)
	}
	if engine.CompletedLevels(p) != catalog.LevelCount() {
		t.Fatalf("expected all %d levels completed, got %d", catalog.LevelCount(), engine.CompletedLevels(p))
	}
}

func TestReconcileRestoresUnlocks(t *testing.T) {
	engine := newEngine(t)
	p := &progress.Progress{
		UserID: "user-1",
		Sections: map[int]*progress.SectionState{
			1: {Levels: map[int]*progress.LevelState{1: {Completed: true}}},
		},
	}
	engine.Reconcile(p)
	if !p.Sections[1].Levels[1].Unlocked || !p.Sections[1].Levels[2].Unlocked {
		t.Fatal("expected 1-1 and 1-2 unlocked after reconcile")
	}
	if p.Sections[5] == nil || p.Sections[5].Levels[1] == nil {
		t.Fatal("expected missing sections to be filled in")
	}
	if p.XP == nil {
		t.Fatal("expected xp map initialised")
	}
}

func TestNewEngineRequiresEnoughQuests(t *testing.T) {
	catalog, err := curriculum.Builtin()
	if err != nil {
		t.Fatalf("Builtin returned error: %v", err)
	}
	if _, err := progress.NewEngine(catalog, len(catalog.Quests)+1); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
	if _, err := progress.NewEngine(nil, 3); err == nil {
		t.Fatal("expected error for nil catalog")
	}
}
