package leaderboard

import "time"

// DayStreak counts consecutive calendar days with activity, ending today
// or yesterday in now's location. A gap of a full day resets it to zero.
func DayStreak(activity []time.Time, now time.Time) int {
	if len(activity) == 0 {
		return 0
	}
	loc := now.Location()
	seen := make(map[time.Time]bool, len(activity))
	for _, t := range activity {
		seen[day(t.In(loc))] = true
	}

	cursor := day(now)
	if !seen[cursor] {
		cursor = cursor.AddDate(0, 0, -1)
		if !seen[cursor] {
			return 0
		}
	}
	streak := 0
	for seen[cursor] {
		streak++
		cursor = cursor.AddDate(0, 0, -1)
	}
	return streak
}

func day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
