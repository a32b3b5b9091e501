package usecase

import (
	"context"
	"errors"
	"log"
	"sort"
	"sync"
	"time"

	"main/model"
	"main/repository"
	"main/utils"
)

// ProgressStore is the slice of the progress repository the service
// needs. Satisfied by *repository.ProgressRepo.
type ProgressStore interface {
	GetProgress(ctx context.Context, userID string) (*model.ProgressRecord, error)
	CreateProgress(ctx context.Context, record *model.ProgressRecord) error
	ReplaceProgress(ctx context.Context, record *model.ProgressRecord, expectedRevision int64) error
}

// SnapshotCache invalidates/serves cached read-side snapshots. May be
// nil when Redis is not configured.
type SnapshotCache interface {
	GetSnapshot(ctx context.Context, userID string) (*model.ProgressRecord, error)
	SetSnapshot(ctx context.Context, record *model.ProgressRecord) error
	Invalidate(ctx context.Context, userID string) error
}

// maxApplyAttempts bounds retries when a concurrent writer wins the
// conditional replace.
const maxApplyAttempts = 3

// ImprovementWindow is the trailing score window compared against the
// window before it for the improvement rate.
const ImprovementWindow = 5

// Interaction is one scored practice exchange to be folded into the
// user's progress record.
type Interaction struct {
	UserID          string
	Category        string
	PersonaID       string
	Score           float64
	OccurredAt      time.Time
	DurationSeconds int
}

// ProgressService owns all reads and writes of ProgressRecords.
type ProgressService struct {
	Store ProgressStore
	Cache SnapshotCache

	// Now is the clock used for streaks and goal windows; tests
	// override it. Defaults to time.Now.
	Now func() time.Time

	userLocks sync.Map // user_id -> *sync.Mutex
}

func (s *ProgressService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *ProgressService) lockUser(userID string) *sync.Mutex {
	lock, _ := s.userLocks.LoadOrStore(userID, &sync.Mutex{})
	return lock.(*sync.Mutex)
}

// ApplyInteraction folds one scored interaction into the user's
// progress record and returns any newly awarded milestones.
//
// The whole update is a single read-modify-write: the record is loaded
// once, a working copy is mutated in memory, and exactly one
// conditional replace persists it. Updates for the same user are
// serialized by a per-user mutex; a revision check on the write guards
// against other processes, retried from a fresh load a bounded number
// of times. Nothing is persisted on failure.
func (s *ProgressService) ApplyInteraction(ctx context.Context, interaction Interaction) ([]model.MilestoneAward, error) {
	if interaction.UserID == "" {
		return nil, errors.New("user ID is required")
	}

	lock := s.lockUser(interaction.UserID)
	lock.Lock()
	defer lock.Unlock()

	var awards []model.MilestoneAward
	var err error

	for attempt := 1; attempt <= maxApplyAttempts; attempt++ {
		awards, err = s.applyOnce(ctx, interaction)
		if err == nil {
			break
		}
		if !errors.Is(err, repository.ErrProgressConflict) {
			return nil, err
		}
		log.Printf("Progress write conflict for user %s (attempt %d), retrying from fresh load", interaction.UserID, attempt)
	}
	if err != nil {
		return nil, err
	}

	if s.Cache != nil {
		if cacheErr := s.Cache.Invalidate(ctx, interaction.UserID); cacheErr != nil {
			utils.TrackError("cache", "progress_invalidate_failed")
			log.Printf("Warning: failed to invalidate progress cache for user %s: %v", interaction.UserID, cacheErr)
		}
	}

	utils.TrackInteractionScored()
	return awards, nil
}

func (s *ProgressService) applyOnce(ctx context.Context, interaction Interaction) ([]model.MilestoneAward, error) {
	record, err := s.Store.GetProgress(ctx, interaction.UserID)
	if err != nil {
		return nil, err
	}
	loadedRevision := record.Revision

	now := s.now()
	occurredAt := interaction.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = now
	}

	record.TotalSessions++

	catStats := record.CategoryStats[interaction.Category]
	catStats.Count++
	catStats.TotalScore += interaction.Score
	catStats.AvgScore = catStats.TotalScore / float64(catStats.Count)
	record.CategoryStats[interaction.Category] = catStats

	persStats := record.PersonaStats[interaction.PersonaID]
	persStats.Count++
	persStats.TotalScore += interaction.Score
	persStats.AvgScore = persStats.TotalScore / float64(persStats.Count)
	record.PersonaStats[interaction.PersonaID] = persStats

	record.ScoresHistory = append(record.ScoresHistory, interaction.Score)
	record.ScoreTimestamps = append(record.ScoreTimestamps, occurredAt.Format(time.RFC3339))

	var total float64
	for _, score := range record.ScoresHistory {
		total += score
	}
	record.AverageScore = total / float64(len(record.ScoresHistory))

	today := now.Format(PracticeDateLayout)
	if !record.HasPracticeDate(today) {
		record.PracticeDates = append(record.PracticeDates, today)
	}
	record.TotalPracticeTimeMinutes += float64(interaction.DurationSeconds) / 60
	record.LastPracticeDate = now

	current, longest := CalculateStreak(record.PracticeDates, now)
	record.CurrentStreakDays = current
	// The longest streak is a running maximum; a broken streak or a
	// fail-soft (0,0) from malformed dates must never shrink it.
	if longest > record.LongestStreakDays {
		record.LongestStreakDays = longest
	}

	awards := EvaluateMilestones(record)

	record.Revision = loadedRevision + 1
	if err := s.Store.ReplaceProgress(ctx, record, loadedRevision); err != nil {
		return nil, err
	}

	return awards, nil
}

// GetSnapshot returns the stored progress record, served from cache
// when possible.
func (s *ProgressService) GetSnapshot(ctx context.Context, userID string) (*model.ProgressRecord, error) {
	if s.Cache != nil {
		if record, err := s.Cache.GetSnapshot(ctx, userID); err == nil && record != nil {
			utils.TrackCacheOperation("progress", true)
			return record, nil
		}
		utils.TrackCacheOperation("progress", false)
	}

	record, err := s.Store.GetProgress(ctx, userID)
	if err != nil {
		return nil, err
	}

	if s.Cache != nil {
		if err := s.Cache.SetSnapshot(ctx, record); err != nil {
			utils.TrackError("cache", "progress_cache_set_failed")
			log.Printf("Warning: failed to cache progress for user %s: %v", userID, err)
		}
	}

	return record, nil
}

// DetailedProgress is the read-side composition of the stored record
// with leveling, trend and goal calculations.
type DetailedProgress struct {
	*model.ProgressRecord
	LevelProgress      LevelProgress `json:"level_progress"`
	ImprovementRate    float64       `json:"improvement_rate"`
	SessionsToday      int           `json:"sessions_today"`
	SessionsThisWeek   int           `json:"sessions_this_week"`
	DailyGoalProgress  GoalProgress  `json:"daily_goal_progress"`
	WeeklyGoalProgress GoalProgress  `json:"weekly_goal_progress"`
	MalformedEntries   int           `json:"malformed_entries"`
}

// GetDetailedProgress enriches the snapshot with the leveling
// breakdown, improvement rate and goal progress. Goal counts are
// always derived fresh from the stored timestamps, never kept as
// separate counters that could drift.
func (s *ProgressService) GetDetailedProgress(ctx context.Context, userID string) (*DetailedProgress, error) {
	record, err := s.GetSnapshot(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	sessionsToday, malformedDay := CountInteractionsBetween(record.ScoreTimestamps, StartOfDay(now), now)
	sessionsThisWeek, _ := CountInteractionsBetween(record.ScoreTimestamps, StartOfWeek(now), now)

	return &DetailedProgress{
		ProgressRecord:     record,
		LevelProgress:      XPProgress(record.ExperiencePoints),
		ImprovementRate:    CalculateImprovementRate(record.ScoresHistory, ImprovementWindow),
		SessionsToday:      sessionsToday,
		SessionsThisWeek:   sessionsThisWeek,
		DailyGoalProgress:  CalculateGoalProgress(sessionsToday, record.DailyGoal),
		WeeklyGoalProgress: CalculateGoalProgress(sessionsThisWeek, record.WeeklyGoal),
		MalformedEntries:   malformedDay,
	}, nil
}

// TimelineEntry is one scored interaction in session order.
type TimelineEntry struct {
	SessionNumber int     `json:"session_number"`
	Score         float64 `json:"score"`
	Timestamp     string  `json:"timestamp"`
	Date          string  `json:"date"`
}

// GetTimeline derives the per-session score sequence from the parallel
// history arrays. A timestamp that fails to parse keeps its raw value
// and an empty date rather than dropping the session.
func (s *ProgressService) GetTimeline(ctx context.Context, userID string) ([]TimelineEntry, error) {
	record, err := s.GetSnapshot(ctx, userID)
	if err != nil {
		return nil, err
	}

	entries := make([]TimelineEntry, 0, len(record.ScoresHistory))
	malformed := 0
	for i, score := range record.ScoresHistory {
		entry := TimelineEntry{
			SessionNumber: i + 1,
			Score:         score,
		}
		if i < len(record.ScoreTimestamps) {
			entry.Timestamp = record.ScoreTimestamps[i]
			if parsed, err := time.Parse(time.RFC3339, entry.Timestamp); err == nil {
				entry.Date = parsed.Format(PracticeDateLayout)
			} else {
				malformed++
			}
		}
		entries = append(entries, entry)
	}
	utils.TrackMalformedHistory(malformed)

	return entries, nil
}

// HeatmapEntry is the interaction count for one calendar date.
type HeatmapEntry struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// GetHeatmap buckets stored interaction timestamps per calendar date,
// sorted ascending. Unparseable timestamps are skipped and counted.
func (s *ProgressService) GetHeatmap(ctx context.Context, userID string) ([]HeatmapEntry, error) {
	record, err := s.GetSnapshot(ctx, userID)
	if err != nil {
		return nil, err
	}

	counts := map[string]int{}
	malformed := 0
	for _, ts := range record.ScoreTimestamps {
		parsed, err := time.Parse(time.RFC3339, ts)
		if err != nil {
			malformed++
			continue
		}
		counts[parsed.Format(PracticeDateLayout)]++
	}
	utils.TrackMalformedHistory(malformed)

	entries := make([]HeatmapEntry, 0, len(counts))
	for date, count := range counts {
		entries = append(entries, HeatmapEntry{Date: date, Count: count})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Date < entries[j].Date })

	return entries, nil
}

// GetMilestones returns the full catalog flagged with the user's
// achievements.
func (s *ProgressService) GetMilestones(ctx context.Context, userID string) ([]model.MilestoneStatus, error) {
	record, err := s.GetSnapshot(ctx, userID)
	if err != nil {
		return nil, err
	}
	return MilestonesWithStatus(record.MilestonesAchieved), nil
}

// UpdateGoals sets the per-user daily/weekly targets through the same
// serialized read-modify-write path as interactions.
func (s *ProgressService) UpdateGoals(ctx context.Context, userID string, dailyGoal, weeklyGoal int) (*model.ProgressRecord, error) {
	if dailyGoal <= 0 || weeklyGoal <= 0 {
		return nil, errors.New("goal targets must be positive")
	}

	lock := s.lockUser(userID)
	lock.Lock()
	defer lock.Unlock()

	var record *model.ProgressRecord
	var err error
	for attempt := 1; attempt <= maxApplyAttempts; attempt++ {
		record, err = s.Store.GetProgress(ctx, userID)
		if err != nil {
			return nil, err
		}
		loadedRevision := record.Revision
		record.DailyGoal = dailyGoal
		record.WeeklyGoal = weeklyGoal
		record.Revision = loadedRevision + 1

		err = s.Store.ReplaceProgress(ctx, record, loadedRevision)
		if err == nil {
			break
		}
		if !errors.Is(err, repository.ErrProgressConflict) {
			return nil, err
		}
	}
	if err != nil {
		return nil, err
	}

	if s.Cache != nil {
		if cacheErr := s.Cache.Invalidate(ctx, userID); cacheErr != nil {
			log.Printf("Warning: failed to invalidate progress cache for user %s: %v", userID, cacheErr)
		}
	}

	return record, nil
}
