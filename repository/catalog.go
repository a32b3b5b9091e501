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

// ErrCatalogEntryNotFound means the requested question or persona does
// not exist in the catalog.
var ErrCatalogEntryNotFound = errors.New("catalog entry not found")

// CatalogRepo serves the static question/persona/category catalog.
// The collections are seeded out of band and read-only at runtime.
type CatalogRepo struct {
	Questions  *mongo.Collection
	Personas   *mongo.Collection
	Categories *mongo.Collection
}

func GetCatalogRepo(client *mongo.Client) *CatalogRepo {
	db := client.Database(utils.GetEnvAsString("MONGO_DB", "msl"))
	return &CatalogRepo{
		Questions:  db.Collection(utils.GetEnvAsString("QUESTIONS_COLLECTION", "questions")),
		Personas:   db.Collection(utils.GetEnvAsString("PERSONAS_COLLECTION", "personas")),
		Categories: db.Collection(utils.GetEnvAsString("CATEGORIES_COLLECTION", "categories")),
	}
}

// QuestionFilter narrows the question listing; zero values mean no
// filtering on that axis.
type QuestionFilter struct {
	PersonaID  string
	Difficulty string
	Category   string
}

func (r *CatalogRepo) GetQuestions(ctx context.Context, filter QuestionFilter) ([]*model.Question, error) {
	timer := utils.TrackDBOperation("find", "questions")
	defer timer.ObserveDuration()

	query := bson.M{}
	if filter.PersonaID != "" {
		query["personas"] = filter.PersonaID
	}
	if filter.Difficulty != "" {
		query["difficulty"] = filter.Difficulty
	}
	if filter.Category != "" {
		query["category"] = filter.Category
	}

	opts := options.Find().SetSort(bson.D{{Key: "question_id", Value: 1}})
	cursor, err := r.Questions.Find(ctx, query, opts)
	if err != nil {
		utils.TrackError("database", "question_fetch_failed")
		return nil, err
	}
	defer cursor.Close(ctx)

	var questions []*model.Question
	if err = cursor.All(ctx, &questions); err != nil {
		utils.TrackError("database", "question_decode_failed")
		return nil, err
	}

	return questions, nil
}

func (r *CatalogRepo) GetQuestionByID(ctx context.Context, questionID int) (*model.Question, error) {
	timer := utils.TrackDBOperation("find", "questions")
	defer timer.ObserveDuration()

	var question model.Question
	err := r.Questions.FindOne(ctx, bson.M{"question_id": questionID}).Decode(&question)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrCatalogEntryNotFound
		}
		utils.TrackError("database", "question_fetch_failed")
		return nil, err
	}

	return &question, nil
}

func (r *CatalogRepo) GetPersonas(ctx context.Context) ([]*model.Persona, error) {
	timer := utils.TrackDBOperation("find", "personas")
	defer timer.ObserveDuration()

	cursor, err := r.Personas.Find(ctx, bson.M{})
	if err != nil {
		utils.TrackError("database", "persona_fetch_failed")
		return nil, err
	}
	defer cursor.Close(ctx)

	var personas []*model.Persona
	if err = cursor.All(ctx, &personas); err != nil {
		utils.TrackError("database", "persona_decode_failed")
		return nil, err
	}

	return personas, nil
}

func (r *CatalogRepo) GetPersonaByID(ctx context.Context, personaID string) (*model.Persona, error) {
	timer := utils.TrackDBOperation("find", "personas")
	defer timer.ObserveDuration()

	var persona model.Persona
	err := r.Personas.FindOne(ctx, bson.M{"persona_id": personaID}).Decode(&persona)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrCatalogEntryNotFound
		}
		utils.TrackError("database", "persona_fetch_failed")
		return nil, err
	}

	return &persona, nil
}

func (r *CatalogRepo) GetCategories(ctx context.Context) ([]*model.Category, error) {
	timer := utils.TrackDBOperation("find", "categories")
	defer timer.ObserveDuration()

	cursor, err := r.Categories.Find(ctx, bson.M{})
	if err != nil {
		utils.TrackError("database", "category_fetch_failed")
		return nil, err
	}
	defer cursor.Close(ctx)

	var categories []*model.Category
	if err = cursor.All(ctx, &categories); err != nil {
		utils.TrackError("database", "category_decode_failed")
		return nil, err
	}

	return categories, nil
}
