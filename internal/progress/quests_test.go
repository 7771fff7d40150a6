package progress_test

import (
	"testing"
	"time"

	"salita/internal/curriculum"
	"salita/internal/progress"
)

func TestRefreshQuestsIsStableWithinDay(t *testing.T) {
	engine := newEngine(t)
	p := engine.New("user-1")

	if !engine.RefreshQuests(p, day1, time.UTC) {
		t.Fatal("expected first refresh to draw quests")
	}
	if len(p.Quests.Quests) != 3 {
		t.Fatalf("expected 3 quests, got %d", len(p.Quests.Quests))
	}
	first := append([]progress.Quest(nil), p.Quests.Quests...)

	if engine.RefreshQuests(p, day1.Add(10*time.Hour), time.UTC) {
		t.Fatal("expected quests to be kept later the same day")
	}

	other := engine.New("user-1")
	engine.RefreshQuests(other, day1, time.UTC)
	for i := range first {
		if other.Quests.Quests[i].ID != first[i].ID {
			t.Fatalf("expected deterministic draw, got %s vs %s", other.Quests.Quests[i].ID, first[i].ID)
		}
	}

	seen := make(map[string]bool)
	for _, q := range first {
		if seen[q.ID] {
			t.Fatalf("quest %s drawn twice", q.ID)
		}
		seen[q.ID] = true
	}
}

func TestQuestsRollOverAtLocalMidnight(t *testing.T) {
	engine := newEngine(t)
	manila, err := time.LoadLocation("Asia/Manila")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	p := engine.New("user-1")

	// 23:30 and 00:30 Manila time.
	before := time.Date(2026, 3, 1, 15, 30, 0, 0, time.UTC)
	after := time.Date(2026, 3, 1, 16, 30, 0, 0, time.UTC)

	engine.RefreshQuests(p, before, manila)
	if p.Quests.Date != "2026-03-01" {
		t.Fatalf("unexpected quest date %s", p.Quests.Date)
	}
	p.Quests.Quests[0].Progress = 1

	if !engine.RefreshQuests(p, after, manila) {
		t.Fatal("expected quests to roll over after local midnight")
	}
	if p.Quests.Date != "2026-03-02" {
		t.Fatalf("unexpected quest date %s", p.Quests.Date)
	}
	for _, q := range p.Quests.Quests {
		if q.Progress != 0 || q.Completed {
			t.Fatalf("expected fresh quest, got %+v", q)
		}
	}

	reset := progress.NextReset(before, manila)
	if !reset.Equal(after.Add(-30 * time.Minute)) {
		t.Fatalf("expected reset at Manila midnight, got %s", reset)
	}
}

func TestQuestRewardGrantedOnce(t *testing.T) {
	engine := newEngine(t)
	p := engine.New("user-1")
	p.Quests = progress.DailyQuests{
		Date: progress.DateKey(day1, time.UTC),
		Quests: []progress.Quest{
			{ID: "play-two", Kind: curriculum.QuestCompleteGames, Target: 2, RewardXP: 30},
			{ID: "earn", Kind: curriculum.QuestEarnXP, Target: 1000, RewardXP: 50},
			{ID: "perfect", Kind: curriculum.QuestPerfectScores, Target: 1, RewardXP: 40},
			{ID: "words", Kind: curriculum.QuestPlayGame, Game: "pos_tagging", Target: 1, RewardXP: 10},
		},
	}

	result := progress.GameResult{Section: 1, Level: 1, Correct: 2, Total: 5}
	out, err := engine.Record(p, result, day1, time.UTC)
	if err != nil {
		t.Fatalf("Record returned error: %v", err)
	}
	if len(out.CompletedQuests) != 0 {
		t.Fatalf("no quest should be complete after one game: %+v", out.CompletedQuests)
	}

	out, err = engine.Record(p, result, day1, time.UTC)
	if err != nil {
		t.Fatalf("Record returned error: %v", err)
	}
	if len(out.CompletedQuests) != 1 || out.CompletedQuests[0].ID != "play-two" {
		t.Fatalf("expected play-two completed, got %+v", out.CompletedQuests)
	}
	if out.QuestXP != 30 {
		t.Fatalf("expected 30 quest xp, got %d", out.QuestXP)
	}

	out, err = engine.Record(p, result, day1, time.UTC)
	if err != nil {
		t.Fatalf("Record returned error: %v", err)
	}
	if out.QuestXP != 0 {
		t.Fatalf("reward must not be paid twice, got %d", out.QuestXP)
	}
	if p.XP[progress.QuestXPKey] != 30 {
		t.Fatalf("expected quests bucket 30, got %d", p.XP[progress.QuestXPKey])
	}

	earn := p.Quests.Quests[1]
	if earn.Progress != 3*20 {
		t.Fatalf("earn_xp quest should count only game xp, got %d", earn.Progress)
	}
	if p.Quests.Quests[2].Progress != 0 || p.Quests.Quests[3].Progress != 0 {
		t.Fatalf("perfect and pos_tagging quests should not advance: %+v", p.Quests.Quests)
	}
	if p.TotalXP != p.XP["vocabulary"]+p.XP[progress.QuestXPKey] {
		t.Fatalf("total xp %d does not sum buckets %v", p.TotalXP, p.XP)
	}
}

func TestTimezoneChangeDoesNotRepayQuests(t *testing.T) {
	pagoPago, err := time.LoadLocation("Pacific/Pago_Pago")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	kiritimati, err := time.LoadLocation("Pacific/Kiritimati")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	engine := newEngine(t)
	p := engine.New("user-1")

	// 09:00 UTC is still March 1 in Pago Pago and already March 2 in Kiritimati.
	paid := make(map[string]int)
	for i := range 24 {
		loc := pagoPago
		if (i/6)%2 == 1 {
			loc = kiritimati
		}
		at := day1.Add(time.Duration(i) * time.Minute)
		out, err := engine.Record(p, progress.GameResult{Section: 1, Level: 1, Correct: 5, Total: 5}, at, loc)
		if err != nil {
			t.Fatalf("round %d: Record returned error: %v", i, err)
		}
		for _, q := range out.CompletedQuests {
			key := p.Quests.Date + "/" + q.ID
			paid[key]++
			if paid[key] > 1 {
				t.Fatalf("round %d: quest %s paid %d times", i, key, paid[key])
			}
		}
	}
	if p.Quests.Date != "2026-03-02" {
		t.Fatalf("quest date should stay on the latest drawn day, got %s", p.Quests.Date)
	}

	reward := 0
	for _, q := range p.Quests.Quests {
		if q.Completed {
			reward += q.RewardXP
		}
	}
	if len(paid) == 0 {
		t.Fatal("expected some quests to complete")
	}
	if p.XP[progress.QuestXPKey] < reward {
		t.Fatalf("quest bucket %d smaller than today's rewards %d", p.XP[progress.QuestXPKey], reward)
	}
}

func TestRefreshQuestsKeepsSetWhenDateMovesBack(t *testing.T) {
	engine := newEngine(t)
	p := engine.New("user-1")
	engine.RefreshQuests(p, day1.AddDate(0, 0, 1), time.UTC)
	p.Quests.Quests[0].Completed = true

	if engine.RefreshQuests(p, day1, time.UTC) {
		t.Fatal("an earlier date must not redraw quests")
	}
	if p.Quests.Date != "2026-03-03" || !p.Quests.Quests[0].Completed {
		t.Fatalf("expected the March 3 set to be kept, got %+v", p.Quests)
	}
	if !engine.RefreshQuests(p, day1.AddDate(0, 0, 2), time.UTC) {
		t.Fatal("a later date should draw a new set")
	}
}

func TestCorrectAnswersQuestCountsAnswers(t *testing.T) {
	engine := newEngine(t)
	p := engine.New("user-1")
	p.Quests = progress.DailyQuests{
		Date: progress.DateKey(day1, time.UTC),
		Quests: []progress.Quest{
			{ID: "answers", Kind: curriculum.QuestCorrectAnswers, Target: 5, RewardXP: 25},
		},
	}

	steps := []struct {
		correct  int
		progress int
		reward   int
	}{
		{2, 2, 0},
		{0, 2, 0},
		{2, 4, 0},
		{3, 5, 25},
		{4, 5, 0},
	}
	for i, step := range steps {
		out, err := engine.Record(p, progress.GameResult{Section: 1, Level: 1, Correct: step.correct, Total: 5}, day1, time.UTC)
		if err != nil {
			t.Fatalf("step %d: Record returned error: %v", i, err)
		}
		if got := p.Quests.Quests[0].Progress; got != step.progress {
			t.Fatalf("step %d: progress %d, want %d", i, got, step.progress)
		}
		if out.QuestXP != step.reward {
			t.Fatalf("step %d: quest xp %d, want %d", i, out.QuestXP, step.reward)
		}
	}
}

func TestNextResetAcrossDST(t *testing.T) {
	newYork, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	cases := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{"before spring forward", time.Date(2026, 3, 8, 6, 30, 0, 0, time.UTC), time.Date(2026, 3, 9, 4, 0, 0, 0, time.UTC)},
		{"day before spring forward", time.Date(2026, 3, 7, 17, 0, 0, 0, time.UTC), time.Date(2026, 3, 8, 5, 0, 0, 0, time.UTC)},
		{"before fall back", time.Date(2026, 11, 1, 5, 30, 0, 0, time.UTC), time.Date(2026, 11, 2, 5, 0, 0, 0, time.UTC)},
		{"after fall back", time.Date(2026, 11, 1, 17, 0, 0, 0, time.UTC), time.Date(2026, 11, 2, 5, 0, 0, 0, time.UTC)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := progress.NextReset(tc.now, newYork)
			if !got.Equal(tc.want) {
				t.Fatalf("NextReset(%s) = %s, want %s", tc.now, got.UTC(), tc.want)
			}
			if got.In(newYork).Hour() != 0 {
				t.Fatalf("reset should land on local midnight, got %s", got)
			}
		})
	}
}
