package mongo

import (
	"context"
	"errors"
	"log"
	"time"

	"gym-coach-app/internal/domain"
	"gym-coach-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const bodyCompositionCollectionName = "body_compositions"

// mongoBodyCompositionRepository implements repository.BodyCompositionRepository.
type mongoBodyCompositionRepository struct {
	collection *mongo.Collection
}

// NewMongoBodyCompositionRepository creates a new BodyComposition repository.
func NewMongoBodyCompositionRepository(db *mongo.Database) repository.BodyCompositionRepository {
	return &mongoBodyCompositionRepository{
		collection: db.Collection(bodyCompositionCollectionName),
	}
}

// Create inserts a new body-composition entry. Multiple entries on the
// same date are allowed.
func (r *mongoBodyCompositionRepository) Create(ctx context.Context, entry *domain.BodyComposition) (primitive.ObjectID, error) {
	if entry.UserID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("body composition entry requires a user ID")
	}

	entry.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	if entry.Date.IsZero() {
		entry.Date = now
	}
	entry.CreatedAt = now

	result, err := r.collection.InsertOne(ctx, entry)
	if err != nil {
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}

	return insertedID, nil
}

// GetByUserIDAscending retrieves all entries for the user ordered by date ascending.
func (r *mongoBodyCompositionRepository) GetByUserIDAscending(ctx context.Context, userID primitive.ObjectID) ([]domain.BodyComposition, error) {
	filter := bson.M{"userId": userID}
	findOptions := options.Find().SetSort(bson.D{{Key: "date", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var entries []domain.BodyComposition
	if err = cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}

// GetLatestByUserID retrieves the single most recent entry for the user.
func (r *mongoBodyCompositionRepository) GetLatestByUserID(ctx context.Context, userID primitive.ObjectID) (*domain.BodyComposition, error) {
	filter := bson.M{"userId": userID}
	findOptions := options.FindOne().SetSort(bson.D{{Key: "date", Value: -1}})

	var entry domain.BodyComposition
	err := r.collection.FindOne(ctx, filter, findOptions).Decode(&entry)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &entry, nil
}

// EnsureBodyCompositionIndexes creates necessary indexes. Call during startup.
func EnsureBodyCompositionIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "date", Value: -1}},
			Options: options.Index(),
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		// Non-fatal: the app can run without indexes, at reduced perf.
		log.Printf("WARN: failed to create indexes for collection %s: %v", collection.Name(), err)
	}
}
