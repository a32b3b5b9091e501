package usecase

import (
	"math"
	"testing"
	"time"
)

func TestCalculateLevel(t *testing.T) {
	cases := []struct {
		xp   int
		want int
	}{
		{0, 1},
		{99, 1},
		{100, 2},
		{299, 2},
		{300, 3},
		{599, 3},
		{600, 4},
		{999, 4},
		{1000, 5},
		{5000, 5},
	}

	for _, tc := range cases {
		if got := CalculateLevel(tc.xp); got != tc.want {
			t.Errorf("CalculateLevel(%d) = %d, want %d", tc.xp, got, tc.want)
		}
	}
}

func TestXPProgress(t *testing.T) {
	p := XPProgress(150)
	if p.CurrentLevel != 2 {
		t.Errorf("expected level 2, got %d", p.CurrentLevel)
	}
	if p.NextLevelXP != 300 {
		t.Errorf("expected next level XP 300, got %d", p.NextLevelXP)
	}
	if p.XPRemaining != 150 {
		t.Errorf("expected 150 XP remaining, got %d", p.XPRemaining)
	}
	if p.ProgressPercent != 25 {
		t.Errorf("expected 25%% progress, got %f", p.ProgressPercent)
	}
	if p.IsMaxLevel {
		t.Error("level 2 should not be max level")
	}

	max := XPProgress(1200)
	if !max.IsMaxLevel {
		t.Error("1200 XP should be max level")
	}
	if max.XPRemaining != 0 {
		t.Errorf("expected 0 XP remaining at max level, got %d", max.XPRemaining)
	}
	if max.NextLevel != 5 {
		t.Errorf("expected next level 5 at max level, got %d", max.NextLevel)
	}
}

func TestCalculateStreakConsecutiveRun(t *testing.T) {
	now := time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC)
	dates := []string{"2025-03-08", "2025-03-09", "2025-03-10"}

	current, longest := CalculateStreak(dates, now)
	if current != 3 {
		t.Errorf("expected current streak 3, got %d", current)
	}
	if longest != 3 {
		t.Errorf("expected longest streak 3, got %d", longest)
	}
}

func TestCalculateStreakEndedYesterdayStillCurrent(t *testing.T) {
	now := time.Date(2025, 3, 11, 8, 0, 0, 0, time.UTC)
	dates := []string{"2025-03-08", "2025-03-09", "2025-03-10"}

	current, longest := CalculateStreak(dates, now)
	if current != 3 {
		t.Errorf("streak ending yesterday should still count, got current %d", current)
	}
	if longest != 3 {
		t.Errorf("expected longest streak 3, got %d", longest)
	}
}

func TestCalculateStreakBrokenTwoDaysAgo(t *testing.T) {
	now := time.Date(2025, 3, 12, 8, 0, 0, 0, time.UTC)
	dates := []string{"2025-03-08", "2025-03-09", "2025-03-10"}

	current, longest := CalculateStreak(dates, now)
	if current != 0 {
		t.Errorf("streak broken two days ago should be 0, got %d", current)
	}
	if longest != 3 {
		t.Errorf("longest streak should survive the break, got %d", longest)
	}
}

func TestCalculateStreakGapResetsRun(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	dates := []string{"2025-03-01", "2025-03-02", "2025-03-03", "2025-03-04", "2025-03-09", "2025-03-10"}

	current, longest := CalculateStreak(dates, now)
	if current != 2 {
		t.Errorf("expected current streak 2 after gap, got %d", current)
	}
	if longest != 4 {
		t.Errorf("expected longest streak 4, got %d", longest)
	}
}

func TestCalculateStreakIsolatedDayToday(t *testing.T) {
	now := time.Date(2025, 3, 4, 10, 0, 0, 0, time.UTC)
	dates := []string{"2025-03-01", "2025-03-04"}

	current, longest := CalculateStreak(dates, now)
	if current != 1 {
		t.Errorf("practicing today alone should give current 1, got %d", current)
	}
	if longest != 1 {
		t.Errorf("no consecutive run longer than 1, got longest %d", longest)
	}
}

func TestCalculateStreakDuplicatesIgnored(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	dates := []string{"2025-03-09", "2025-03-09", "2025-03-10", "2025-03-10"}

	current, longest := CalculateStreak(dates, now)
	if current != 2 || longest != 2 {
		t.Errorf("duplicates should not inflate streaks, got current %d longest %d", current, longest)
	}
}

func TestCalculateStreakMalformedDateFailsSoft(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	dates := []string{"2025-03-09", "not-a-date", "2025-03-10"}

	current, longest := CalculateStreak(dates, now)
	if current != 0 || longest != 0 {
		t.Errorf("malformed date should yield (0, 0), got (%d, %d)", current, longest)
	}
}

func TestCalculateStreakEmpty(t *testing.T) {
	current, longest := CalculateStreak(nil, time.Now())
	if current != 0 || longest != 0 {
		t.Errorf("empty history should yield (0, 0), got (%d, %d)", current, longest)
	}
}

func TestCalculateGoalProgress(t *testing.T) {
	p := CalculateGoalProgress(2, 3)
	if p.Achieved {
		t.Error("2 of 3 should not be achieved")
	}
	if p.Remaining != 1 {
		t.Errorf("expected 1 remaining, got %d", p.Remaining)
	}
	if math.Abs(p.ProgressPercent-66.666) > 0.01 {
		t.Errorf("expected ~66.67%%, got %f", p.ProgressPercent)
	}

	done := CalculateGoalProgress(5, 3)
	if !done.Achieved {
		t.Error("5 of 3 should be achieved")
	}
	if done.Remaining != 0 {
		t.Errorf("expected 0 remaining when over target, got %d", done.Remaining)
	}
	if done.ProgressPercent != 100 {
		t.Errorf("percent should cap at 100, got %f", done.ProgressPercent)
	}
}

func TestCalculateGoalProgressZeroTarget(t *testing.T) {
	p := CalculateGoalProgress(0, 0)
	if p.ProgressPercent != 0 {
		t.Errorf("zero target should report 0%%, got %f", p.ProgressPercent)
	}
	if p.Achieved {
		t.Error("a zero target can never be achieved")
	}
	if p.Remaining != 0 {
		t.Errorf("expected 0 remaining, got %d", p.Remaining)
	}
}

func TestCalculateImprovementRate(t *testing.T) {
	scores := []float64{50, 55, 60, 50, 55, 90, 92, 95, 88, 90}

	got := CalculateImprovementRate(scores, 5)
	want := 37.0 // mean(90,92,95,88,90)=91, mean(50,55,60,50,55)=54
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("CalculateImprovementRate = %f, want %f", got, want)
	}

	rising := []float64{40, 50, 60, 70, 80, 90, 100, 100, 100, 100}
	if got := CalculateImprovementRate(rising, 5); math.Abs(got-38.0) > 1e-9 {
		t.Errorf("CalculateImprovementRate = %f, want 38.0", got)
	}
}

func TestCalculateImprovementRateInsufficientHistory(t *testing.T) {
	scores := []float64{50, 60, 70, 80, 90, 100, 100, 100, 100}
	if got := CalculateImprovementRate(scores, 5); got != 0.0 {
		t.Errorf("9 scores with window 5 should yield 0.0, got %f", got)
	}
	if got := CalculateImprovementRate(nil, 5); got != 0.0 {
		t.Errorf("empty scores should yield 0.0, got %f", got)
	}
}

func TestCalculateImprovementRateExactBoundary(t *testing.T) {
	scores := []float64{60, 60, 60, 60, 60, 70, 70, 70, 70, 70}
	if got := CalculateImprovementRate(scores, 5); got != 10.0 {
		t.Errorf("exactly 2*window scores should compute, got %f want 10.0", got)
	}
}

func TestCountInteractionsBetween(t *testing.T) {
	timestamps := []string{
		"2025-03-10T09:00:00Z",
		"2025-03-10T14:00:00Z",
		"2025-03-09T23:00:00Z",
		"garbage",
	}
	start := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 3, 10, 23, 59, 59, 0, time.UTC)

	count, malformed := CountInteractionsBetween(timestamps, start, end)
	if count != 2 {
		t.Errorf("expected 2 interactions in window, got %d", count)
	}
	if malformed != 1 {
		t.Errorf("expected 1 malformed entry, got %d", malformed)
	}
}

func TestStartOfWeekMondayAnchor(t *testing.T) {
	cases := []struct {
		day  time.Time
		want time.Time
	}{
		// Wednesday
		{time.Date(2025, 3, 12, 15, 30, 0, 0, time.UTC), time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)},
		// Monday itself
		{time.Date(2025, 3, 10, 1, 0, 0, 0, time.UTC), time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)},
		// Sunday belongs to the week that started the prior Monday
		{time.Date(2025, 3, 16, 23, 0, 0, 0, time.UTC), time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)},
	}

	for _, tc := range cases {
		if got := StartOfWeek(tc.day); !got.Equal(tc.want) {
			t.Errorf("StartOfWeek(%v) = %v, want %v", tc.day, got, tc.want)
		}
	}
}
