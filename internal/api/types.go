package api

import (
	"salita/internal/nlp"
	"salita/internal/nlp/chat"
)

// dateTimeFormat is used for RFC3339 timestamps in API payloads.
const dateTimeFormat = "2006-01-02T15:04:05.000Z07:00"

// User describes a learner profile.
type User struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	Timezone    string `json:"timezone"`
	CreatedAt   string `json:"createdAt,omitempty"`
}

// CreateUserRequest registers a learner. Timezone is optional.
type CreateUserRequest struct {
	DisplayName string `json:"displayName"`
	Timezone    string `json:"timezone,omitempty"`
}

// Position addresses a level.
type Position struct {
	Section int `json:"section"`
	Level   int `json:"level"`
}

// LevelView merges catalog data with a learner's state for one level.
type LevelView struct {
	Level       int    `json:"level"`
	Title       string `json:"title"`
	Game        string `json:"game"`
	Questions   int    `json:"questions"`
	Unlocked    bool   `json:"unlocked"`
	Completed   bool   `json:"completed"`
	BestScore   int    `json:"bestScore"`
	Stars       int    `json:"stars"`
	Attempts    int    `json:"attempts"`
	CompletedAt string `json:"completedAt,omitempty"`
}

// SectionView merges catalog data with a learner's state for one section.
type SectionView struct {
	Section   int         `json:"section"`
	Title     string      `json:"title"`
	Unlocked  bool        `json:"unlocked"`
	Completed bool        `json:"completed"`
	Levels    []LevelView `json:"levels"`
}

// StreakView reports the consecutive-day counter as of the request.
type StreakView struct {
	Current    int    `json:"current"`
	Longest    int    `json:"longest"`
	LastActive string `json:"lastActive,omitempty"`
}

// QuestView is one daily objective.
type QuestView struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Kind        string `json:"kind"`
	Game        string `json:"game,omitempty"`
	Target      int    `json:"target"`
	Progress    int    `json:"progress"`
	RewardXP    int    `json:"rewardXp"`
	Completed   bool   `json:"completed"`
	CompletedAt string `json:"completedAt,omitempty"`
}

// QuestBoard lists today's quests and when they reset.
type QuestBoard struct {
	Date      string      `json:"date"`
	Timezone  string      `json:"timezone"`
	NextReset string      `json:"nextReset"`
	Quests    []QuestView `json:"quests"`
}

// ProgressView is a learner's full progression snapshot.
type ProgressView struct {
	UserID          string         `json:"userId"`
	TotalXP         int            `json:"totalXp"`
	XP              map[string]int `json:"xp"`
	GamesPlayed     int            `json:"gamesPlayed"`
	PerfectGames    int            `json:"perfectGames"`
	CompletedLevels int            `json:"completedLevels"`
	TotalLevels     int            `json:"totalLevels"`
	Current         *Position      `json:"current,omitempty"`
	Streak          StreakView     `json:"streak"`
	Sections        []SectionView  `json:"sections"`
	Quests          QuestBoard     `json:"quests"`
	UpdatedAt       string         `json:"updatedAt,omitempty"`
}

// GameRequest reports one finished round.
type GameRequest struct {
	Section int    `json:"section"`
	Level   int    `json:"level"`
	Game    string `json:"game,omitempty"`
	Correct int    `json:"correct"`
	Total   int    `json:"total"`
}

// GameOutcome describes everything a recorded round changed.
type GameOutcome struct {
	Game             string      `json:"game"`
	XPEarned         int         `json:"xpEarned"`
	QuestXP          int         `json:"questXp"`
	Score            int         `json:"score"`
	Stars            int         `json:"stars"`
	Perfect          bool        `json:"perfect"`
	LevelCompleted   bool        `json:"levelCompleted"`
	SectionCompleted bool        `json:"sectionCompleted"`
	UnlockedLevels   []Position  `json:"unlockedLevels"`
	UnlockedSections []int       `json:"unlockedSections"`
	CompletedQuests  []QuestView `json:"completedQuests"`
	Streak           int         `json:"streak"`
	TotalXP          int         `json:"totalXp"`
}

// HistoryEntry is one recorded round.
type HistoryEntry struct {
	ID       int64  `json:"id"`
	Section  int    `json:"section"`
	Level    int    `json:"level"`
	Game     string `json:"game"`
	Correct  int    `json:"correct"`
	Total    int    `json:"total"`
	XP       int    `json:"xp"`
	QuestXP  int    `json:"questXp"`
	PlayedAt string `json:"playedAt"`
}

// LeaderboardEntry ranks a learner by total XP.
type LeaderboardEntry struct {
	Rank        int    `json:"rank"`
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
	TotalXP     int    `json:"totalXp"`
	Streak      int    `json:"streak"`
}

// GameView describes a game type and its XP rules.
type GameView struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	XPPerCorrect int    `json:"xpPerCorrect"`
	PerfectBonus int    `json:"perfectBonus"`
}

// CatalogLevel is a level as published in the catalog.
type CatalogLevel struct {
	Level     int    `json:"level"`
	Title     string `json:"title"`
	Game      string `json:"game"`
	Questions int    `json:"questions"`
}

// CatalogSection is a section as published in the catalog.
type CatalogSection struct {
	Section int            `json:"section"`
	Title   string         `json:"title"`
	Levels  []CatalogLevel `json:"levels"`
}

// CatalogView is the published curriculum.
type CatalogView struct {
	Games    []GameView       `json:"games"`
	Sections []CatalogSection `json:"sections"`
}

// ComponentStatus reports readiness of one dependency.
type ComponentStatus struct {
	Name   string `json:"name"`
	Ready  bool   `json:"ready"`
	Detail string `json:"detail,omitempty"`
}

// Status summarizes service health.
type Status struct {
	Status     string            `json:"status"`
	Users      int               `json:"users"`
	Games      int               `json:"games"`
	Components []ComponentStatus `json:"components"`
	CheckedAt  string            `json:"checkedAt"`
}

// TagRequest asks for part-of-speech tags.
type TagRequest struct {
	Text string `json:"text"`
}

// VerifyRequest asks for a sentence check.
type VerifyRequest struct {
	Sentence string `json:"sentence"`
	Expected string `json:"expected,omitempty"`
}

// ChatRequest continues a tutor conversation.
type ChatRequest struct {
	Messages []chat.Message `json:"messages"`
}

// TagResponse is the tagging answer.
type TagResponse = nlp.TagResult

// VerifyResponse is the verification answer.
type VerifyResponse = nlp.Verification

// ChatResponse is the tutor answer.
type ChatResponse = chat.Response
