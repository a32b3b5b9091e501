package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"main/model"
	"main/repository"
)

// fakeProgressStore is an in-memory ProgressStore. GetProgress hands
// out copies so mutations only persist through ReplaceProgress, the
// same contract the database gives.
type fakeProgressStore struct {
	records      map[string]*model.ProgressRecord
	replaceErrs  []error
	replaceCalls int
}

func newFakeProgressStore() *fakeProgressStore {
	return &fakeProgressStore{records: map[string]*model.ProgressRecord{}}
}

func copyRecord(r *model.ProgressRecord) *model.ProgressRecord {
	c := *r
	c.CategoryStats = make(map[string]model.StatBucket, len(r.CategoryStats))
	for k, v := range r.CategoryStats {
		c.CategoryStats[k] = v
	}
	c.PersonaStats = make(map[string]model.StatBucket, len(r.PersonaStats))
	for k, v := range r.PersonaStats {
		c.PersonaStats[k] = v
	}
	c.ScoresHistory = append([]float64(nil), r.ScoresHistory...)
	c.ScoreTimestamps = append([]string(nil), r.ScoreTimestamps...)
	c.PracticeDates = append([]string(nil), r.PracticeDates...)
	c.MilestonesAchieved = append([]string(nil), r.MilestonesAchieved...)
	return &c
}

func (s *fakeProgressStore) GetProgress(ctx context.Context, userID string) (*model.ProgressRecord, error) {
	record, ok := s.records[userID]
	if !ok {
		return nil, repository.ErrProgressNotFound
	}
	return copyRecord(record), nil
}

func (s *fakeProgressStore) CreateProgress(ctx context.Context, record *model.ProgressRecord) error {
	s.records[record.UserID] = copyRecord(record)
	return nil
}

func (s *fakeProgressStore) ReplaceProgress(ctx context.Context, record *model.ProgressRecord, expectedRevision int64) error {
	s.replaceCalls++
	if len(s.replaceErrs) > 0 {
		err := s.replaceErrs[0]
		s.replaceErrs = s.replaceErrs[1:]
		if err != nil {
			return err
		}
	}
	stored, ok := s.records[record.UserID]
	if !ok {
		return repository.ErrProgressNotFound
	}
	if stored.Revision != expectedRevision {
		return repository.ErrProgressConflict
	}
	s.records[record.UserID] = copyRecord(record)
	return nil
}

func newTestService(store *fakeProgressStore, now time.Time) *ProgressService {
	return &ProgressService{
		Store: store,
		Now:   func() time.Time { return now },
	}
}

func TestApplyInteractionFirstSession(t *testing.T) {
	store := newFakeProgressStore()
	store.CreateProgress(context.Background(), model.NewProgressRecord("user-1"))

	now := time.Date(2025, 3, 10, 14, 0, 0, 0, time.UTC)
	service := newTestService(store, now)

	awards, err := service.ApplyInteraction(context.Background(), Interaction{
		UserID:          "user-1",
		Category:        "Cost & Value",
		PersonaID:       "p1",
		Score:           100,
		OccurredAt:      now,
		DurationSeconds: 300,
	})
	if err != nil {
		t.Fatalf("ApplyInteraction failed: %v", err)
	}

	if findAward(awards, "first_session") == nil {
		t.Error("first interaction should award first_session")
	}
	if findAward(awards, "perfect_score") == nil {
		t.Error("a score of 100 should award perfect_score")
	}

	record := store.records["user-1"]
	if record.TotalSessions != 1 {
		t.Errorf("expected 1 total session, got %d", record.TotalSessions)
	}
	if record.AverageScore != 100 {
		t.Errorf("expected average 100, got %f", record.AverageScore)
	}
	if record.ExperiencePoints != 250 {
		t.Errorf("expected 250 XP (50 + 200), got %d", record.ExperiencePoints)
	}
	if record.Level != 2 {
		t.Errorf("250 XP should be level 2, got %d", record.Level)
	}
	if record.CurrentStreakDays != 1 || record.LongestStreakDays != 1 {
		t.Errorf("expected streaks (1, 1), got (%d, %d)", record.CurrentStreakDays, record.LongestStreakDays)
	}
	if record.TotalPracticeTimeMinutes != 5 {
		t.Errorf("expected 5 practice minutes, got %f", record.TotalPracticeTimeMinutes)
	}
	if record.Revision != 1 {
		t.Errorf("expected revision 1 after first write, got %d", record.Revision)
	}

	stats, ok := record.CategoryStats["Cost & Value"]
	if !ok || stats.Count != 1 || stats.AvgScore != 100 {
		t.Errorf("unexpected category stats: %+v", stats)
	}
}

func TestApplyInteractionParallelArraysStayAligned(t *testing.T) {
	store := newFakeProgressStore()
	store.CreateProgress(context.Background(), model.NewProgressRecord("user-1"))

	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	service := newTestService(store, now)

	scores := []float64{60, 75, 90}
	for _, score := range scores {
		_, err := service.ApplyInteraction(context.Background(), Interaction{
			UserID:    "user-1",
			Category:  "Clinical Data & Evidence",
			PersonaID: "p2",
			Score:     score,
		})
		if err != nil {
			t.Fatalf("ApplyInteraction failed: %v", err)
		}
	}

	record := store.records["user-1"]
	if len(record.ScoresHistory) != record.TotalSessions {
		t.Errorf("scores history length %d != total sessions %d", len(record.ScoresHistory), record.TotalSessions)
	}
	if len(record.ScoreTimestamps) != record.TotalSessions {
		t.Errorf("timestamps length %d != total sessions %d", len(record.ScoreTimestamps), record.TotalSessions)
	}
	if record.AverageScore != 75 {
		t.Errorf("expected average 75, got %f", record.AverageScore)
	}
	// Three sessions on the same day collapse to one practice date.
	if len(record.PracticeDates) != 1 {
		t.Errorf("expected 1 practice date, got %d", len(record.PracticeDates))
	}
	if record.Revision != 3 {
		t.Errorf("expected revision 3 after three writes, got %d", record.Revision)
	}
}

func TestApplyInteractionRetriesOnConflict(t *testing.T) {
	store := newFakeProgressStore()
	store.CreateProgress(context.Background(), model.NewProgressRecord("user-1"))
	store.replaceErrs = []error{repository.ErrProgressConflict, nil}

	service := newTestService(store, time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC))

	_, err := service.ApplyInteraction(context.Background(), Interaction{
		UserID:    "user-1",
		Category:  "Cost & Value",
		PersonaID: "p1",
		Score:     80,
	})
	if err != nil {
		t.Fatalf("expected retry to succeed, got %v", err)
	}
	if store.replaceCalls != 2 {
		t.Errorf("expected 2 replace attempts, got %d", store.replaceCalls)
	}

	record := store.records["user-1"]
	if record.TotalSessions != 1 {
		t.Errorf("retry must not double-apply, got %d sessions", record.TotalSessions)
	}
}

func TestApplyInteractionGivesUpAfterMaxAttempts(t *testing.T) {
	store := newFakeProgressStore()
	store.CreateProgress(context.Background(), model.NewProgressRecord("user-1"))
	store.replaceErrs = []error{
		repository.ErrProgressConflict,
		repository.ErrProgressConflict,
		repository.ErrProgressConflict,
	}

	service := newTestService(store, time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC))

	_, err := service.ApplyInteraction(context.Background(), Interaction{
		UserID:    "user-1",
		Category:  "Cost & Value",
		PersonaID: "p1",
		Score:     80,
	})
	if !errors.Is(err, repository.ErrProgressConflict) {
		t.Fatalf("expected conflict error after exhausting retries, got %v", err)
	}
	if store.replaceCalls != maxApplyAttempts {
		t.Errorf("expected %d attempts, got %d", maxApplyAttempts, store.replaceCalls)
	}

	record := store.records["user-1"]
	if record.TotalSessions != 0 {
		t.Errorf("failed apply must not persist anything, got %d sessions", record.TotalSessions)
	}
}

func TestApplyInteractionLongestStreakNeverShrinks(t *testing.T) {
	store := newFakeProgressStore()
	record := model.NewProgressRecord("user-1")
	record.LongestStreakDays = 5
	record.PracticeDates = []string{"2025-02-01", "corrupted"}
	store.CreateProgress(context.Background(), record)

	service := newTestService(store, time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC))

	_, err := service.ApplyInteraction(context.Background(), Interaction{
		UserID:    "user-1",
		Category:  "Cost & Value",
		PersonaID: "p1",
		Score:     70,
	})
	if err != nil {
		t.Fatalf("ApplyInteraction failed: %v", err)
	}

	stored := store.records["user-1"]
	if stored.CurrentStreakDays != 0 {
		t.Errorf("corrupted dates should fail soft to current 0, got %d", stored.CurrentStreakDays)
	}
	if stored.LongestStreakDays != 5 {
		t.Errorf("longest streak shrank from 5 to %d", stored.LongestStreakDays)
	}
}

func TestApplyInteractionMissingUser(t *testing.T) {
	service := newTestService(newFakeProgressStore(), time.Now())

	_, err := service.ApplyInteraction(context.Background(), Interaction{
		UserID:    "nobody",
		Category:  "Cost & Value",
		PersonaID: "p1",
		Score:     70,
	})
	if !errors.Is(err, repository.ErrProgressNotFound) {
		t.Fatalf("expected ErrProgressNotFound, got %v", err)
	}
}

func TestGetDetailedProgress(t *testing.T) {
	store := newFakeProgressStore()
	record := model.NewProgressRecord("user-1")
	record.TotalSessions = 4
	record.ExperiencePoints = 150
	record.Level = 2
	record.ScoresHistory = []float64{60, 70, 80, 90}
	record.ScoreTimestamps = []string{
		"2025-03-04T10:00:00Z", // previous week
		"2025-03-10T09:00:00Z", // monday of this week
		"2025-03-12T09:00:00Z", // today
		"2025-03-12T15:00:00Z", // today
	}
	store.CreateProgress(context.Background(), record)

	now := time.Date(2025, 3, 12, 18, 0, 0, 0, time.UTC) // wednesday
	service := newTestService(store, now)

	detailed, err := service.GetDetailedProgress(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("GetDetailedProgress failed: %v", err)
	}

	if detailed.SessionsToday != 2 {
		t.Errorf("expected 2 sessions today, got %d", detailed.SessionsToday)
	}
	if detailed.SessionsThisWeek != 3 {
		t.Errorf("expected 3 sessions this week, got %d", detailed.SessionsThisWeek)
	}
	if detailed.LevelProgress.CurrentLevel != 2 {
		t.Errorf("expected level 2, got %d", detailed.LevelProgress.CurrentLevel)
	}
	if detailed.DailyGoalProgress.Achieved || detailed.DailyGoalProgress.Remaining != 1 {
		t.Errorf("expected 1 remaining toward daily goal of %d, got %+v", record.DailyGoal, detailed.DailyGoalProgress)
	}
	if detailed.ImprovementRate != 0 {
		t.Errorf("4 scores with window %d should yield rate 0, got %f", ImprovementWindow, detailed.ImprovementRate)
	}
}

func TestGetTimelineKeepsMalformedTimestamps(t *testing.T) {
	store := newFakeProgressStore()
	record := model.NewProgressRecord("user-1")
	record.ScoresHistory = []float64{60, 70}
	record.ScoreTimestamps = []string{"2025-03-10T09:00:00Z", "broken"}
	store.CreateProgress(context.Background(), record)

	service := newTestService(store, time.Now())

	timeline, err := service.GetTimeline(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("GetTimeline failed: %v", err)
	}
	if len(timeline) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(timeline))
	}
	if timeline[0].SessionNumber != 1 || timeline[0].Date != "2025-03-10" {
		t.Errorf("unexpected first entry: %+v", timeline[0])
	}
	if timeline[1].Timestamp != "broken" || timeline[1].Date != "" {
		t.Errorf("malformed timestamp should keep raw value with empty date, got %+v", timeline[1])
	}
}

func TestGetHeatmap(t *testing.T) {
	store := newFakeProgressStore()
	record := model.NewProgressRecord("user-1")
	record.ScoreTimestamps = []string{
		"2025-03-10T09:00:00Z",
		"2025-03-10T17:00:00Z",
		"2025-03-11T09:00:00Z",
		"junk",
	}
	store.CreateProgress(context.Background(), record)

	service := newTestService(store, time.Now())

	heatmap, err := service.GetHeatmap(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("GetHeatmap failed: %v", err)
	}
	if len(heatmap) != 2 {
		t.Fatalf("expected 2 heatmap entries, got %d", len(heatmap))
	}
	if heatmap[0].Date != "2025-03-10" || heatmap[0].Count != 2 {
		t.Errorf("unexpected first entry: %+v", heatmap[0])
	}
	if heatmap[1].Date != "2025-03-11" || heatmap[1].Count != 1 {
		t.Errorf("unexpected second entry: %+v", heatmap[1])
	}
}

func TestUpdateGoals(t *testing.T) {
	store := newFakeProgressStore()
	store.CreateProgress(context.Background(), model.NewProgressRecord("user-1"))

	service := newTestService(store, time.Now())

	record, err := service.UpdateGoals(context.Background(), "user-1", 5, 25)
	if err != nil {
		t.Fatalf("UpdateGoals failed: %v", err)
	}
	if record.DailyGoal != 5 || record.WeeklyGoal != 25 {
		t.Errorf("expected goals (5, 25), got (%d, %d)", record.DailyGoal, record.WeeklyGoal)
	}

	stored := store.records["user-1"]
	if stored.DailyGoal != 5 || stored.WeeklyGoal != 25 {
		t.Errorf("goals not persisted, stored (%d, %d)", stored.DailyGoal, stored.WeeklyGoal)
	}

	if _, err := service.UpdateGoals(context.Background(), "user-1", 0, 10); err == nil {
		t.Error("zero daily goal should be rejected")
	}
	if _, err := service.UpdateGoals(context.Background(), "user-1", 3, -1); err == nil {
		t.Error("negative weekly goal should be rejected")
	}
}
