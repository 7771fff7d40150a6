package curriculum

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var builtinCatalog []byte

// SectionCount is the number of sections every catalog must provide.
const SectionCount = 5

// QuestKind names the learner activity a daily quest counts.
type QuestKind string

const (
	QuestCompleteGames  QuestKind = "complete_games"
	QuestEarnXP         QuestKind = "earn_xp"
	QuestPerfectScores  QuestKind = "perfect_scores"
	QuestPlayGame       QuestKind = "play_game"
	QuestCorrectAnswers QuestKind = "correct_answers"
)

func (k QuestKind) valid() bool {
	switch k {
	case QuestCompleteGames, QuestEarnXP, QuestPerfectScores, QuestPlayGame, QuestCorrectAnswers:
		return true
	}
	return false
}

// Game describes a game type and its XP rules.
type Game struct {
	ID           string `yaml:"id" json:"id"`
	Title        string `yaml:"title" json:"title"`
	XPPerCorrect int    `yaml:"xp_per_correct" json:"xp_per_correct"`
	PerfectBonus int    `yaml:"perfect_bonus" json:"perfect_bonus"`
}

// Level is a single playable unit inside a section.
type Level struct {
	ID        int    `yaml:"id" json:"id"`
	Title     string `yaml:"title" json:"title"`
	Game      string `yaml:"game" json:"game"`
	Questions int    `yaml:"questions" json:"questions"`
}

// Section groups ordered levels.
type Section struct {
	ID     int     `yaml:"id" json:"id"`
	Title  string  `yaml:"title" json:"title"`
	Levels []Level `yaml:"levels" json:"levels"`
}

// QuestTemplate is a daily objective that can be drawn for a learner.
type QuestTemplate struct {
	ID       string    `yaml:"id" json:"id"`
	Title    string    `yaml:"title" json:"title"`
	Kind     QuestKind `yaml:"kind" json:"kind"`
	Game     string    `yaml:"game,omitempty" json:"game,omitempty"`
	Target   int       `yaml:"target" json:"target"`
	RewardXP int       `yaml:"reward_xp" json:"reward_xp"`
}

// Catalog is the full curriculum: games, sections in play order, and the
// daily quest pool.
type Catalog struct {
	Games    []Game          `yaml:"games" json:"games"`
	Sections []Section       `yaml:"sections" json:"sections"`
	Quests   []QuestTemplate `yaml:"quests" json:"quests"`

	games map[string]Game
}

// Builtin returns the embedded catalog.
func Builtin() (*Catalog, error) {
	return Parse(builtinCatalog)
}

// Load reads a catalog from path, or returns the embedded one when path is empty.
func Load(path string) (*Catalog, error) {
	if strings.TrimSpace(path) == "" {
		return Builtin()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates catalog YAML.
func Parse(data []byte) (*Catalog, error) {
	var catalog Catalog
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if err := catalog.validate(); err != nil {
		return nil, err
	}
	return &catalog, nil
}

func (c *Catalog) validate() error {
	if len(c.Games) == 0 {
		return errors.New("catalog: no games defined")
	}
	c.games = make(map[string]Game, len(c.Games))
	for _, game := range c.Games {
		if strings.TrimSpace(game.ID) == "" {
			return errors.New("catalog: game id required")
		}
		if _, dup := c.games[game.ID]; dup {
			return fmt.Errorf("catalog: duplicate game %q", game.ID)
		}
		if game.XPPerCorrect < 0 || game.PerfectBonus < 0 {
			return fmt.Errorf("catalog: game %q has negative xp", game.ID)
		}
		c.games[game.ID] = game
	}

	if len(c.Sections) != SectionCount {
		return fmt.Errorf("catalog: expected %d sections, got %d", SectionCount, len(c.Sections))
	}
	for i, section := range c.Sections {
		if section.ID != i+1 {
			return fmt.Errorf("catalog: section %d out of order (want id %d)", section.ID, i+1)
		}
		if len(section.Levels) == 0 {
			return fmt.Errorf("catalog: section %d has no levels", section.ID)
		}
		for j, level := range section.Levels {
			if level.ID != j+1 {
				return fmt.Errorf("catalog: section %d level %d out of order (want id %d)", section.ID, level.ID, j+1)
			}
			if _, ok := c.games[level.Game]; !ok {
				return fmt.Errorf("catalog: section %d level %d references unknown game %q", section.ID, level.ID, level.Game)
			}
			if level.Questions <= 0 {
				return fmt.Errorf("catalog: section %d level %d needs at least one question", section.ID, level.ID)
			}
		}
	}

	seen := make(map[string]struct{}, len(c.Quests))
	for _, quest := range c.Quests {
		if strings.TrimSpace(quest.ID) == "" {
			return errors.New("catalog: quest id required")
		}
		if _, dup := seen[quest.ID]; dup {
			return fmt.Errorf("catalog: duplicate quest %q", quest.ID)
		}
		seen[quest.ID] = struct{}{}
		if !quest.Kind.valid() {
			return fmt.Errorf("catalog: quest %q has unknown kind %q", quest.ID, quest.Kind)
		}
		if quest.Target <= 0 {
			return fmt.Errorf("catalog: quest %q target must be positive", quest.ID)
		}
		if quest.RewardXP < 0 {
			return fmt.Errorf("catalog: quest %q reward must not be negative", quest.ID)
		}
		if quest.Kind == QuestPlayGame {
			if _, ok := c.games[quest.Game]; !ok {
				return fmt.Errorf("catalog: quest %q references unknown game %q", quest.ID, quest.Game)
			}
		}
	}
	return nil
}

// RequireQuests checks the quest pool can fill a day of count quests.
func (c *Catalog) RequireQuests(count int) error {
	if len(c.Quests) < count {
		return fmt.Errorf("catalog: %d daily quests requested but only %d defined", count, len(c.Quests))
	}
	return nil
}

// Game returns the game with the given id.
func (c *Catalog) Game(id string) (Game, bool) {
	game, ok := c.games[id]
	return game, ok
}

// Section returns the section with the given id.
func (c *Catalog) Section(id int) (Section, bool) {
	if id < 1 || id > len(c.Sections) {
		return Section{}, false
	}
	return c.Sections[id-1], true
}

// Level returns the level at section/level.
func (c *Catalog) Level(section, level int) (Level, bool) {
	s, ok := c.Section(section)
	if !ok || level < 1 || level > len(s.Levels) {
		return Level{}, false
	}
	return s.Levels[level-1], true
}

// NextLevel returns the position that follows section/level in play order.
// The boolean is false after the final level of the final section.
func (c *Catalog) NextLevel(section, level int) (int, int, bool) {
	s, ok := c.Section(section)
	if !ok {
		return 0, 0, false
	}
	if level < len(s.Levels) {
		return section, level + 1, true
	}
	if section < len(c.Sections) {
		return section + 1, 1, true
	}
	return 0, 0, false
}

// LevelCount returns the total number of levels across all sections.
func (c *Catalog) LevelCount() int {
	total := 0
	for _, s := range c.Sections {
		total += len(s.Levels)
	}
	return total
}
