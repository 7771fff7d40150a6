package progress

import (
	"time"

	"salita/internal/curriculum"
)

// QuestXPKey is the XP bucket that collects daily quest rewards.
const QuestXPKey = "quests"

// LevelState tracks one level for one learner.
type LevelState struct {
	Unlocked  bool `json:"unlocked"`
	Completed bool `json:"completed"`
	// BestScore is the best percentage of correct answers, 0-100.
	BestScore   int        `json:"best_score"`
	Stars       int        `json:"stars"`
	Attempts    int        `json:"attempts"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// SectionState tracks a section and its levels, keyed by level id.
type SectionState struct {
	Unlocked  bool                `json:"unlocked"`
	Completed bool                `json:"completed"`
	Levels    map[int]*LevelState `json:"levels"`
}

// StreakState holds the consecutive-day counter. LastActive is a local
// calendar date in YYYY-MM-DD form.
type StreakState struct {
	Current    int    `json:"current"`
	Longest    int    `json:"longest"`
	LastActive string `json:"last_active,omitempty"`
}

// Quest is one of the learner's objectives for the day.
type Quest struct {
	ID          string               `json:"id"`
	Title       string               `json:"title"`
	Kind        curriculum.QuestKind `json:"kind"`
	Game        string               `json:"game,omitempty"`
	Target      int                  `json:"target"`
	Progress    int                  `json:"progress"`
	RewardXP    int                  `json:"reward_xp"`
	Completed   bool                 `json:"completed"`
	CompletedAt *time.Time           `json:"completed_at,omitempty"`
}

// DailyQuests is the quest set drawn for Date (local YYYY-MM-DD).
type DailyQuests struct {
	Date   string  `json:"date"`
	Quests []Quest `json:"quests"`
}

// Progress is the complete progression state for one learner.
type Progress struct {
	UserID       string                `json:"user_id"`
	Sections     map[int]*SectionState `json:"sections"`
	XP           map[string]int        `json:"xp"`
	TotalXP      int                   `json:"total_xp"`
	GamesPlayed  int                   `json:"games_played"`
	PerfectGames int                   `json:"perfect_games"`
	Streak       StreakState           `json:"streak"`
	Quests       DailyQuests           `json:"quests"`
	UpdatedAt    time.Time             `json:"updated_at"`
}

// Position addresses a level.
type Position struct {
	Section int `json:"section"`
	Level   int `json:"level"`
}

// GameResult is one finished round reported by a client.
type GameResult struct {
	Section int    `json:"section"`
	Level   int    `json:"level"`
	Game    string `json:"game,omitempty"`
	Correct int    `json:"correct"`
	Total   int    `json:"total"`
}

// Outcome describes everything a recorded game changed.
type Outcome struct {
	Game             string     `json:"game"`
	XPEarned         int        `json:"xp_earned"`
	QuestXP          int        `json:"quest_xp"`
	Score            int        `json:"score"`
	Stars            int        `json:"stars"`
	Perfect          bool       `json:"perfect"`
	LevelCompleted   bool       `json:"level_completed"`
	SectionCompleted bool       `json:"section_completed"`
	UnlockedLevels   []Position `json:"unlocked_levels,omitempty"`
	UnlockedSections []int      `json:"unlocked_sections,omitempty"`
	CompletedQuests  []Quest    `json:"completed_quests,omitempty"`
	Streak           int        `json:"streak"`
	TotalXP          int        `json:"total_xp"`
}

func (p *Progress) level(section, level int) (*SectionState, *LevelState) {
	s, ok := p.Sections[section]
	if !ok || s == nil {
		return nil, nil
	}
	return s, s.Levels[level]
}
