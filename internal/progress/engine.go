package progress

import (
	"fmt"
	"time"

	"salita/internal/curriculum"
	"salita/internal/services"
)

var (
	ErrUnknownLevel = fmt.Errorf("%w: unknown level", services.ErrValidation)
	ErrInvalidScore = fmt.Errorf("%w: invalid score", services.ErrValidation)
	ErrGameMismatch = fmt.Errorf("%w: game does not match level", services.ErrValidation)
	ErrLevelLocked  = fmt.Errorf("%w: level is locked", services.ErrConflict)
)

// Engine applies catalog rules to learner progress. It holds no learner state
// and is safe for concurrent use.
type Engine struct {
	catalog    *curriculum.Catalog
	dailyCount int
}

// NewEngine returns an engine for catalog that draws dailyCount quests a day.
func NewEngine(catalog *curriculum.Catalog, dailyCount int) (*Engine, error) {
	if catalog == nil {
		return nil, fmt.Errorf("%w: catalog required", services.ErrConfiguration)
	}
	if dailyCount < 1 {
		return nil, fmt.Errorf("%w: daily quest count must be positive", services.ErrConfiguration)
	}
	if err := catalog.RequireQuests(dailyCount); err != nil {
		return nil, fmt.Errorf("%w: %w", services.ErrConfiguration, err)
	}
	return &Engine{catalog: catalog, dailyCount: dailyCount}, nil
}

// Catalog returns the catalog the engine plays by.
func (e *Engine) Catalog() *curriculum.Catalog {
	return e.catalog
}

// New returns fresh progress with only the first level of the first section open.
func (e *Engine) New(userID string) *Progress {
	p := &Progress{
		UserID:   userID,
		Sections: make(map[int]*SectionState, len(e.catalog.Sections)),
		XP:       make(map[string]int),
	}
	e.Reconcile(p)
	return p
}

// Reconcile fills in sections and levels missing from p, which happens after
// the catalog grows, and restores the unlock invariants: section 1 level 1 is
// always open and every completed level opens the one after it.
func (e *Engine) Reconcile(p *Progress) {
	if p.Sections == nil {
		p.Sections = make(map[int]*SectionState, len(e.catalog.Sections))
	}
	if p.XP == nil {
		p.XP = make(map[string]int)
	}
	for _, section := range e.catalog.Sections {
		state := p.Sections[section.ID]
		if state == nil {
			state = &SectionState{}
			p.Sections[section.ID] = state
		}
		if state.Levels == nil {
			state.Levels = make(map[int]*LevelState, len(section.Levels))
		}
		for _, level := range section.Levels {
			if state.Levels[level.ID] == nil {
				state.Levels[level.ID] = &LevelState{}
			}
		}
	}

	first := p.Sections[1]
	first.Unlocked = true
	first.Levels[1].Unlocked = true

	for _, section := range e.catalog.Sections {
		state := p.Sections[section.ID]
		allDone := true
		for _, level := range section.Levels {
			ls := state.Levels[level.ID]
			if !ls.Completed {
				allDone = false
				continue
			}
			if ns, nl, ok := e.catalog.NextLevel(section.ID, level.ID); ok {
				nextSection, nextLevel := p.level(ns, nl)
				nextSection.Unlocked = true
				nextLevel.Unlocked = true
			}
		}
		state.Completed = allDone
	}
}

// Record applies a finished game to p. now and loc decide which calendar day
// the game counts toward for streaks and daily quests.
func (e *Engine) Record(p *Progress, result GameResult, now time.Time, loc *time.Location) (Outcome, error) {
	var out Outcome

	level, ok := e.catalog.Level(result.Section, result.Level)
	if !ok {
		return out, fmt.Errorf("%w: section %d level %d", ErrUnknownLevel, result.Section, result.Level)
	}
	if result.Game != "" && result.Game != level.Game {
		return out, fmt.Errorf("%w: level %d-%d is played with %q, got %q", ErrGameMismatch, result.Section, result.Level, level.Game, result.Game)
	}
	if result.Total <= 0 || result.Correct < 0 || result.Correct > result.Total {
		return out, fmt.Errorf("%w: %d of %d", ErrInvalidScore, result.Correct, result.Total)
	}
	if result.Total > level.Questions {
		return out, fmt.Errorf("%w: level %d-%d has %d questions, got %d", ErrInvalidScore, result.Section, result.Level, level.Questions, result.Total)
	}
	game, ok := e.catalog.Game(level.Game)
	if !ok {
		return out, fmt.Errorf("%w: game %q", services.ErrConfiguration, level.Game)
	}

	e.Reconcile(p)
	sectionState, levelState := p.level(result.Section, result.Level)
	if !sectionState.Unlocked || !levelState.Unlocked {
		return out, fmt.Errorf("%w: section %d level %d", ErrLevelLocked, result.Section, result.Level)
	}

	if loc == nil {
		loc = time.UTC
	}
	e.RefreshQuests(p, now, loc)

	perfect := result.Correct == result.Total
	score := result.Correct * 100 / result.Total
	stars := starsFor(score)

	levelState.Attempts++
	levelState.BestScore = max(levelState.BestScore, score)
	levelState.Stars = max(levelState.Stars, stars)

	out.Game = game.ID
	out.Score = score
	out.Stars = stars
	out.Perfect = perfect

	if perfect {
		e.completeLevel(p, result.Section, result.Level, now, &out)
	}

	xp := result.Correct * game.XPPerCorrect
	if perfect {
		xp += game.PerfectBonus
	}
	p.XP[game.ID] += xp
	p.TotalXP += xp
	p.GamesPlayed++
	if perfect {
		p.PerfectGames++
	}
	out.XPEarned = xp

	out.Streak = p.touchStreak(now, loc)
	out.CompletedQuests, out.QuestXP = p.advanceQuests(result, game.ID, xp, perfect, now)

	p.UpdatedAt = now.UTC()
	out.TotalXP = p.TotalXP
	return out, nil
}

func (e *Engine) completeLevel(p *Progress, section, level int, now time.Time, out *Outcome) {
	sectionState, levelState := p.level(section, level)
	if !levelState.Completed {
		levelState.Completed = true
		completedAt := now.UTC()
		levelState.CompletedAt = &completedAt
		out.LevelCompleted = true
	}

	if !sectionState.Completed {
		allDone := true
		for _, ls := range sectionState.Levels {
			if !ls.Completed {
				allDone = false
				break
			}
		}
		if allDone {
			sectionState.Completed = true
			out.SectionCompleted = true
		}
	}

	ns, nl, ok := e.catalog.NextLevel(section, level)
	if !ok {
		return
	}
	nextSection, nextLevel := p.level(ns, nl)
	if !nextSection.Unlocked {
		nextSection.Unlocked = true
		out.UnlockedSections = append(out.UnlockedSections, ns)
	}
	if !nextLevel.Unlocked {
		nextLevel.Unlocked = true
		out.UnlockedLevels = append(out.UnlockedLevels, Position{Section: ns, Level: nl})
	}
}

// Current returns the first unlocked level that is not yet completed, or the
// final level when everything is done.
func (e *Engine) Current(p *Progress) Position {
	var last Position
	for _, section := range e.catalog.Sections {
		state := p.Sections[section.ID]
		for _, level := range section.Levels {
			last = Position{Section: section.ID, Level: level.ID}
			if state == nil {
				continue
			}
			ls := state.Levels[level.ID]
			if ls != nil && ls.Unlocked && !ls.Completed {
				return last
			}
		}
	}
	return last
}

// CompletedLevels counts completed levels.
func (e *Engine) CompletedLevels(p *Progress) int {
	count := 0
	for _, section := range e.catalog.Sections {
		state := p.Sections[section.ID]
		if state == nil {
			continue
		}
		for _, level := range section.Levels {
			if ls := state.Levels[level.ID]; ls != nil && ls.Completed {
				count++
			}
		}
	}
	return count
}

func starsFor(score int) int {
	switch {
	case score >= 100:
		return 3
	case score >= 80:
		return 2
	case score >= 50:
		return 1
	default:
		return 0
	}
}
