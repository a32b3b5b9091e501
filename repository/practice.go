package repository

import (
	"context"
	"errors"

	"main/model"
	"main/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// PracticeRepo stores the full detail of each scored interaction,
// separate from the aggregated progress record.
type PracticeRepo struct {
	MongoCollection *mongo.Collection
}

func GetPracticeRepo(client *mongo.Client) *PracticeRepo {
	dbName := utils.GetEnvAsString("MONGO_DB", "msl")
	collectionName := utils.GetEnvAsString("PRACTICE_COLLECTION", "practice_sessions")
	return &PracticeRepo{
		MongoCollection: client.Database(dbName).Collection(collectionName),
	}
}

func (r *PracticeRepo) CreatePracticeSession(ctx context.Context, session *model.PracticeSession) error {
	timer := utils.TrackDBOperation("insert", "practice_sessions")
	defer timer.ObserveDuration()

	if session.UserID == "" {
		utils.TrackError("database", "missing_user_id")
		return errors.New("user ID is required")
	}

	_, err := r.MongoCollection.InsertOne(ctx, session)
	if err != nil {
		utils.TrackError("database", "practice_creation_failed")
		return err
	}

	return nil
}

// GetUserPracticeSessions returns a user's practice history, most
// recent first, capped at limit (0 means no cap).
func (r *PracticeRepo) GetUserPracticeSessions(ctx context.Context, userID string, limit int) ([]*model.PracticeSession, error) {
	timer := utils.TrackDBOperation("find", "practice_sessions")
	defer timer.ObserveDuration()

	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cursor, err := r.MongoCollection.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		utils.TrackError("database", "practice_fetch_failed")
		return nil, err
	}
	defer cursor.Close(ctx)

	var sessions []*model.PracticeSession
	if err = cursor.All(ctx, &sessions); err != nil {
		utils.TrackError("database", "practice_decode_failed")
		return nil, err
	}

	return sessions, nil
}
