package repository

import (
	"context"
	"errors"

	"main/model"
	"main/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	// ErrProgressNotFound means no progress record exists for the user.
	// Record creation is the registration flow's responsibility, so
	// this is surfaced, never retried.
	ErrProgressNotFound = errors.New("progress record not found")

	// ErrProgressConflict means a concurrent writer replaced the record
	// between our load and our write. The caller must retry the whole
	// update from a fresh load.
	ErrProgressConflict = errors.New("progress record was modified concurrently")
)

type ProgressRepo struct {
	MongoCollection *mongo.Collection
}

// Retrieves MongoDB collection for per-user progress records
func GetProgressRepo(client *mongo.Client) *ProgressRepo {
	dbName := utils.GetEnvAsString("MONGO_DB", "msl")
	collectionName := utils.GetEnvAsString("PROGRESS_COLLECTION", "user_progress")
	return &ProgressRepo{
		MongoCollection: client.Database(dbName).Collection(collectionName),
	}
}

// CreateProgress inserts the zeroed record at registration time. The
// unique index on user_id rejects duplicates.
func (r *ProgressRepo) CreateProgress(ctx context.Context, record *model.ProgressRecord) error {
	timer := utils.TrackDBOperation("insert", "user_progress")
	defer timer.ObserveDuration()

	if record.UserID == "" {
		utils.TrackError("database", "missing_user_id")
		return errors.New("user ID is required")
	}

	_, err := r.MongoCollection.InsertOne(ctx, record)
	if err != nil {
		utils.TrackError("database", "progress_creation_failed")
		return err
	}

	return nil
}

// GetProgress loads the one progress record for a user.
func (r *ProgressRepo) GetProgress(ctx context.Context, userID string) (*model.ProgressRecord, error) {
	timer := utils.TrackDBOperation("find", "user_progress")
	defer timer.ObserveDuration()

	var record model.ProgressRecord
	err := r.MongoCollection.FindOne(ctx, bson.M{"user_id": userID}).Decode(&record)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			utils.TrackError("database", "progress_not_found")
			return nil, ErrProgressNotFound
		}
		utils.TrackError("database", "progress_fetch_failed")
		return nil, err
	}

	if record.CategoryStats == nil {
		record.CategoryStats = map[string]model.StatBucket{}
	}
	if record.PersonaStats == nil {
		record.PersonaStats = map[string]model.StatBucket{}
	}

	return &record, nil
}

// ReplaceProgress writes the full updated record in one replace,
// conditional on the revision the caller loaded. A losing writer gets
// ErrProgressConflict and must restart from a fresh load, so two
// interleaved updates can never half-apply.
func (r *ProgressRepo) ReplaceProgress(ctx context.Context, record *model.ProgressRecord, expectedRevision int64) error {
	timer := utils.TrackDBOperation("replace", "user_progress")
	defer timer.ObserveDuration()

	filter := bson.M{
		"user_id":  record.UserID,
		"revision": expectedRevision,
	}

	result, err := r.MongoCollection.ReplaceOne(ctx, filter, record)
	if err != nil {
		utils.TrackError("database", "progress_replace_failed")
		return err
	}

	if result.MatchedCount == 0 {
		// Either the record vanished or someone else bumped the
		// revision; one more lookup tells them apart.
		count, countErr := r.MongoCollection.CountDocuments(ctx, bson.M{"user_id": record.UserID})
		if countErr == nil && count == 0 {
			utils.TrackError("database", "progress_not_found")
			return ErrProgressNotFound
		}
		utils.TrackProgressConflict()
		return ErrProgressConflict
	}

	return nil
}
