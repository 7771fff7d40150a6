package progress

import "time"

const dateLayout = "2006-01-02"

// DateKey returns the calendar date of t in loc as YYYY-MM-DD.
func DateKey(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(dateLayout)
}

// NextReset returns the next local midnight after now, when daily quests
// roll over.
func NextReset(now time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := now.In(loc).Date()
	return time.Date(y, m, d+1, 0, 0, 0, 0, loc)
}

// dayNumber converts a YYYY-MM-DD date into a day count so that consecutive
// calendar dates differ by exactly one regardless of DST transitions.
func dayNumber(date string) (int64, bool) {
	parsed, err := time.ParseInLocation(dateLayout, date, time.UTC)
	if err != nil {
		return 0, false
	}
	return parsed.Unix() / 86400, true
}

func (p *Progress) touchStreak(now time.Time, loc *time.Location) int {
	today := DateKey(now, loc)
	todayNum, _ := dayNumber(today)
	lastNum, ok := dayNumber(p.Streak.LastActive)

	switch {
	case ok && todayNum == lastNum:
		if p.Streak.Current == 0 {
			p.Streak.Current = 1
		}
	case ok && todayNum-lastNum == 1:
		p.Streak.Current++
	case ok && todayNum < lastNum:
		// Clock moved backwards (device or timezone change); keep the streak.
		return p.Streak.Current
	default:
		p.Streak.Current = 1
	}
	p.Streak.LastActive = today
	p.Streak.Longest = max(p.Streak.Longest, p.Streak.Current)
	return p.Streak.Current
}

// CurrentStreak reports the streak as of now. A streak whose last active day
// is before yesterday has lapsed and reads as zero even though the stored
// counter is only reset on the next game.
func (p *Progress) CurrentStreak(now time.Time, loc *time.Location) int {
	lastNum, ok := dayNumber(p.Streak.LastActive)
	if !ok {
		return 0
	}
	todayNum, _ := dayNumber(DateKey(now, loc))
	if todayNum-lastNum > 1 {
		return 0
	}
	return p.Streak.Current
}
