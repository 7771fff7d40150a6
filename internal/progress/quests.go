package progress

import (
	"hash/fnv"
	"sort"
	"time"

	"salita/internal/curriculum"
)

// RefreshQuests draws a new quest set when the local date has moved past the
// stored one. A date at or before the stored one keeps the current set, so a
// timezone change cannot reopen a day whose rewards were already paid. It
// reports whether the set changed.
func (e *Engine) RefreshQuests(p *Progress, now time.Time, loc *time.Location) bool {
	today := DateKey(now, loc)
	if len(p.Quests.Quests) > 0 {
		todayNum, _ := dayNumber(today)
		if drawnNum, ok := dayNumber(p.Quests.Date); ok && todayNum <= drawnNum {
			return false
		}
	}
	p.Quests = DailyQuests{Date: today, Quests: e.drawQuests(p.UserID, today)}
	return true
}

// drawQuests picks dailyCount templates ranked by a hash of user, date, and
// template id, so a learner sees the same quests all day and different
// learners see different mixes.
func (e *Engine) drawQuests(userID, date string) []Quest {
	type ranked struct {
		rank     uint64
		template curriculum.QuestTemplate
	}
	pool := make([]ranked, 0, len(e.catalog.Quests))
	for _, tmpl := range e.catalog.Quests {
		h := fnv.New64a()
		_, _ = h.Write([]byte(userID))
		_, _ = h.Write([]byte{0})
		_, _ = h.Write([]byte(date))
		_, _ = h.Write([]byte{0})
		_, _ = h.Write([]byte(tmpl.ID))
		pool = append(pool, ranked{rank: h.Sum64(), template: tmpl})
	}
	sort.Slice(pool, func(i, j int) bool {
		if pool[i].rank == pool[j].rank {
			return pool[i].template.ID < pool[j].template.ID
		}
		return pool[i].rank < pool[j].rank
	})

	count := min(e.dailyCount, len(pool))
	quests := make([]Quest, 0, count)
	for _, entry := range pool[:count] {
		tmpl := entry.template
		quests = append(quests, Quest{
			ID:       tmpl.ID,
			Title:    tmpl.Title,
			Kind:     tmpl.Kind,
			Game:     tmpl.Game,
			Target:   tmpl.Target,
			RewardXP: tmpl.RewardXP,
		})
	}
	return quests
}

// advanceQuests credits a finished game to the day's quests and pays out
// rewards for quests that reach their target. Rewards go to the quest XP
// bucket and do not feed earn_xp quests.
func (p *Progress) advanceQuests(result GameResult, game string, xp int, perfect bool, now time.Time) ([]Quest, int) {
	var (
		completed []Quest
		reward    int
	)
	for i := range p.Quests.Quests {
		q := &p.Quests.Quests[i]
		if q.Completed {
			continue
		}
		var delta int
		switch q.Kind {
		case curriculum.QuestCompleteGames:
			delta = 1
		case curriculum.QuestEarnXP:
			delta = xp
		case curriculum.QuestPerfectScores:
			if perfect {
				delta = 1
			}
		case curriculum.QuestPlayGame:
			if q.Game == game {
				delta = 1
			}
		case curriculum.QuestCorrectAnswers:
			delta = result.Correct
		}
		if delta == 0 {
			continue
		}
		q.Progress = min(q.Progress+delta, q.Target)
		if q.Progress < q.Target {
			continue
		}
		q.Completed = true
		completedAt := now.UTC()
		q.CompletedAt = &completedAt
		p.XP[QuestXPKey] += q.RewardXP
		p.TotalXP += q.RewardXP
		reward += q.RewardXP
		completed = append(completed, *q)
	}
	return completed, reward
}
