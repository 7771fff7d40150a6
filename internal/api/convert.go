package api

import (
	"time"

	"salita/internal/curriculum"
	"salita/internal/progress"
	"salita/internal/store"
)

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(dateTimeFormat)
}

func formatTimePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return formatTime(*t)
}

// FromUser converts a stored learner into its API representation.
func FromUser(u *store.User) User {
	if u == nil {
		return User{}
	}
	return User{
		ID:          u.ID,
		DisplayName: u.DisplayName,
		Timezone:    u.Timezone,
		CreatedAt:   formatTime(u.CreatedAt),
	}
}

// FromUsers converts a slice of stored learners.
func FromUsers(users []*store.User) []User {
	if len(users) == 0 {
		return []User{}
	}
	out := make([]User, 0, len(users))
	for _, u := range users {
		if u == nil {
			continue
		}
		out = append(out, FromUser(u))
	}
	return out
}

// FromCatalog converts the curriculum catalog.
func FromCatalog(c *curriculum.Catalog) CatalogView {
	view := CatalogView{Games: []GameView{}, Sections: []CatalogSection{}}
	if c == nil {
		return view
	}
	for _, g := range c.Games {
		view.Games = append(view.Games, GameView{
			ID:           g.ID,
			Title:        g.Title,
			XPPerCorrect: g.XPPerCorrect,
			PerfectBonus: g.PerfectBonus,
		})
	}
	for _, s := range c.Sections {
		section := CatalogSection{Section: s.ID, Title: s.Title, Levels: make([]CatalogLevel, 0, len(s.Levels))}
		for _, l := range s.Levels {
			section.Levels = append(section.Levels, CatalogLevel{
				Level:     l.ID,
				Title:     l.Title,
				Game:      l.Game,
				Questions: l.Questions,
			})
		}
		view.Sections = append(view.Sections, section)
	}
	return view
}

func fromSections(c *curriculum.Catalog, p *progress.Progress) []SectionView {
	out := make([]SectionView, 0, len(c.Sections))
	for _, s := range c.Sections {
		state := p.Sections[s.ID]
		view := SectionView{Section: s.ID, Title: s.Title, Levels: make([]LevelView, 0, len(s.Levels))}
		if state != nil {
			view.Unlocked = state.Unlocked
			view.Completed = state.Completed
		}
		for _, l := range s.Levels {
			lv := LevelView{Level: l.ID, Title: l.Title, Game: l.Game, Questions: l.Questions}
			if state != nil {
				if ls := state.Levels[l.ID]; ls != nil {
					lv.Unlocked = ls.Unlocked
					lv.Completed = ls.Completed
					lv.BestScore = ls.BestScore
					lv.Stars = ls.Stars
					lv.Attempts = ls.Attempts
					lv.CompletedAt = formatTimePtr(ls.CompletedAt)
				}
			}
			view.Levels = append(view.Levels, lv)
		}
		out = append(out, view)
	}
	return out
}

func fromQuest(q progress.Quest) QuestView {
	return QuestView{
		ID:          q.ID,
		Title:       q.Title,
		Kind:        string(q.Kind),
		Game:        q.Game,
		Target:      q.Target,
		Progress:    q.Progress,
		RewardXP:    q.RewardXP,
		Completed:   q.Completed,
		CompletedAt: formatTimePtr(q.CompletedAt),
	}
}

func fromQuests(quests []progress.Quest) []QuestView {
	out := make([]QuestView, 0, len(quests))
	for _, q := range quests {
		out = append(out, fromQuest(q))
	}
	return out
}

func fromQuestBoard(p *progress.Progress, now time.Time, loc *time.Location) QuestBoard {
	return QuestBoard{
		Date:      p.Quests.Date,
		Timezone:  loc.String(),
		NextReset: progress.NextReset(now, loc).Format(dateTimeFormat),
		Quests:    fromQuests(p.Quests.Quests),
	}
}

func fromPosition(p progress.Position) Position {
	return Position{Section: p.Section, Level: p.Level}
}

// FromOutcome converts an engine outcome into its API representation.
func FromOutcome(out progress.Outcome) GameOutcome {
	view := GameOutcome{
		Game:             out.Game,
		XPEarned:         out.XPEarned,
		QuestXP:          out.QuestXP,
		Score:            out.Score,
		Stars:            out.Stars,
		Perfect:          out.Perfect,
		LevelCompleted:   out.LevelCompleted,
		SectionCompleted: out.SectionCompleted,
		UnlockedLevels:   make([]Position, 0, len(out.UnlockedLevels)),
		UnlockedSections: append([]int{}, out.UnlockedSections...),
		CompletedQuests:  fromQuests(out.CompletedQuests),
		Streak:           out.Streak,
		TotalXP:          out.TotalXP,
	}
	for _, pos := range out.UnlockedLevels {
		view.UnlockedLevels = append(view.UnlockedLevels, fromPosition(pos))
	}
	return view
}

// FromGameRecords converts stored history rows.
func FromGameRecords(records []store.GameRecord) []HistoryEntry {
	out := make([]HistoryEntry, 0, len(records))
	for _, r := range records {
		out = append(out, HistoryEntry{
			ID:       r.ID,
			Section:  r.Section,
			Level:    r.Level,
			Game:     r.Game,
			Correct:  r.Correct,
			Total:    r.Total,
			XP:       r.XP,
			QuestXP:  r.QuestXP,
			PlayedAt: formatTime(r.PlayedAt),
		})
	}
	return out
}
