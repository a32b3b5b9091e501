package usecase

import (
	"main/utils"
	"sort"
	"time"
)

// PracticeDateLayout is the calendar-date format stored in
// ProgressRecord.PracticeDates.
const PracticeDateLayout = "2006-01-02"

// XPThresholds is the cumulative XP required to enter each level.
// Index i is the floor of level i+1; the ladder caps at level 5.
var XPThresholds = []int{0, 100, 300, 600, 1000}

// CalculateLevel maps cumulative XP to a level on the ladder.
func CalculateLevel(xp int) int {
	for level, threshold := range XPThresholds[1:] {
		if xp < threshold {
			return level + 1
		}
	}
	return len(XPThresholds)
}

// XPForNextLevel returns the XP threshold the user is working toward.
// At the top of the ladder it returns the final threshold.
func XPForNextLevel(xp int) int {
	for _, threshold := range XPThresholds[1:] {
		if xp < threshold {
			return threshold
		}
	}
	return XPThresholds[len(XPThresholds)-1]
}

// LevelProgress is the full progress-to-next-level breakdown.
type LevelProgress struct {
	CurrentLevel    int     `json:"current_level"`
	CurrentXP       int     `json:"current_xp"`
	NextLevel       int     `json:"next_level"`
	NextLevelXP     int     `json:"next_level_xp"`
	XPRemaining     int     `json:"xp_remaining"`
	ProgressPercent float64 `json:"progress_percent"`
	IsMaxLevel      bool    `json:"is_max_level"`
}

// XPProgress computes the detailed leveling breakdown for a given XP
// total. Pure function, safe for concurrent use.
func XPProgress(xp int) LevelProgress {
	currentLevel := CalculateLevel(xp)
	nextLevelXP := XPForNextLevel(xp)
	currentLevelXP := XPThresholds[currentLevel-1]

	xpInLevel := xp - currentLevelXP
	xpNeededForLevel := nextLevelXP - currentLevelXP

	// The final band has zero width; report it as complete.
	progressPercent := 100.0
	if xpNeededForLevel > 0 {
		progressPercent = float64(xpInLevel) / float64(xpNeededForLevel) * 100
	}

	nextLevel := currentLevel
	if currentLevel < len(XPThresholds) {
		nextLevel = currentLevel + 1
	}

	remaining := nextLevelXP - xp
	if remaining < 0 {
		remaining = 0
	}

	return LevelProgress{
		CurrentLevel:    currentLevel,
		CurrentXP:       xp,
		NextLevel:       nextLevel,
		NextLevelXP:     nextLevelXP,
		XPRemaining:     remaining,
		ProgressPercent: progressPercent,
		IsMaxLevel:      xp >= XPThresholds[len(XPThresholds)-1],
	}
}

// CalculateStreak derives (current, longest) consecutive-day streaks
// from a set of YYYY-MM-DD practice dates. The current streak is
// anchored to now: it survives if the most recent practice day is
// today or yesterday, otherwise it is 0. Unparseable dates break the
// whole computation soft, returning (0, 0), so a bad record can never
// take down the update path.
func CalculateStreak(practiceDates []string, now time.Time) (current, longest int) {
	if len(practiceDates) == 0 {
		return 0, 0
	}

	seen := make(map[string]struct{}, len(practiceDates))
	dates := make([]time.Time, 0, len(practiceDates))
	for _, d := range practiceDates {
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}

		parsed, err := time.Parse(PracticeDateLayout, d)
		if err != nil {
			utils.TrackMalformedHistory(1)
			return 0, 0
		}
		dates = append(dates, parsed)
	}

	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	longest = 1
	run := 1
	for i := 1; i < len(dates); i++ {
		diff := int(dates[i].Sub(dates[i-1]).Hours() / 24)
		if diff == 1 {
			run++
			if run > longest {
				longest = run
			}
		} else {
			run = 1
		}
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	lastPractice := dates[len(dates)-1]
	daysSince := int(today.Sub(lastPractice).Hours() / 24)

	if daysSince == 0 || daysSince == 1 {
		current = run
	}

	return current, longest
}

// GoalProgress describes how far a user is toward a periodic
// practice-count target.
type GoalProgress struct {
	Current         int     `json:"current"`
	Target          int     `json:"target"`
	ProgressPercent float64 `json:"progress_percent"`
	Remaining       int     `json:"remaining"`
	Achieved        bool    `json:"achieved"`
}

// CalculateGoalProgress computes percent-complete and remaining count
// toward a target. A zero target reports 0% and not achieved rather
// than dividing.
func CalculateGoalProgress(current, target int) GoalProgress {
	progressPercent := 0.0
	if target > 0 {
		progressPercent = float64(current) / float64(target) * 100
		if progressPercent > 100 {
			progressPercent = 100
		}
	}

	remaining := target - current
	if remaining < 0 {
		remaining = 0
	}

	return GoalProgress{
		Current:         current,
		Target:          target,
		ProgressPercent: progressPercent,
		Remaining:       remaining,
		Achieved:        target > 0 && current >= target,
	}
}

// CalculateImprovementRate compares the mean of the trailing window of
// scores against the mean of the window immediately before it.
// Positive means improving. With fewer than 2*window scores there is
// not enough history and the rate is exactly 0.
func CalculateImprovementRate(scores []float64, window int) float64 {
	if window <= 0 || len(scores) < window*2 {
		return 0.0
	}

	recent := scores[len(scores)-window:]
	previous := scores[len(scores)-window*2 : len(scores)-window]

	var recentSum, previousSum float64
	for _, s := range recent {
		recentSum += s
	}
	for _, s := range previous {
		previousSum += s
	}

	return recentSum/float64(window) - previousSum/float64(window)
}

// CountInteractionsBetween counts stored interaction timestamps that
// fall inside [start, end]. Unparseable entries are skipped and
// reported so callers can expose the malformed count instead of
// silently dropping data.
func CountInteractionsBetween(timestamps []string, start, end time.Time) (count, malformed int) {
	for _, ts := range timestamps {
		parsed, err := time.Parse(time.RFC3339, ts)
		if err != nil {
			malformed++
			continue
		}
		if !parsed.Before(start) && !parsed.After(end) {
			count++
		}
	}
	utils.TrackMalformedHistory(malformed)
	return count, malformed
}

// StartOfDay truncates a time to midnight in its location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// StartOfWeek returns the Monday midnight anchoring the week of t.
func StartOfWeek(t time.Time) time.Time {
	weekday := int(t.Weekday())
	if weekday == 0 {
		weekday = 7 // Sunday belongs to the week started the previous Monday
	}
	return StartOfDay(t).AddDate(0, 0, -(weekday - 1))
}
