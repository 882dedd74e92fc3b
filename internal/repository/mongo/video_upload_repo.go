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

const videoUploadCollectionName = "video_uploads"

// mongoVideoUploadRepository implements repository.VideoUploadRepository.
type mongoVideoUploadRepository struct {
	collection *mongo.Collection
}

// NewMongoVideoUploadRepository creates a new VideoUpload repository.
func NewMongoVideoUploadRepository(db *mongo.Database) repository.VideoUploadRepository {
	return &mongoVideoUploadRepository{
		collection: db.Collection(videoUploadCollectionName),
	}
}

// Create inserts metadata for a confirmed demo-video upload.
func (r *mongoVideoUploadRepository) Create(ctx context.Context, upload *domain.VideoUpload) (primitive.ObjectID, error) {
	if upload.ExerciseID == primitive.NilObjectID || upload.S3ObjectKey == "" {
		return primitive.NilObjectID, errors.New("video upload requires an exercise ID and object key")
	}

	upload.ID = primitive.NewObjectID()
	upload.UploadedAt = time.Now().UTC()

	result, err := r.collection.InsertOne(ctx, upload)
	if err != nil {
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}

	return insertedID, nil
}

// GetByExerciseID retrieves the most recent upload for an exercise.
func (r *mongoVideoUploadRepository) GetByExerciseID(ctx context.Context, exerciseID primitive.ObjectID) (*domain.VideoUpload, error) {
	filter := bson.M{"exerciseId": exerciseID}
	findOptions := options.FindOne().SetSort(bson.D{{Key: "uploadedAt", Value: -1}})

	var upload domain.VideoUpload
	err := r.collection.FindOne(ctx, filter, findOptions).Decode(&upload)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &upload, nil
}

// EnsureVideoUploadIndexes creates necessary indexes. Call during startup.
func EnsureVideoUploadIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "exerciseId", Value: 1}, {Key: "uploadedAt", Value: -1}},
			Options: options.Index(),
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		// Non-fatal: the app can run without indexes, at reduced perf.
		log.Printf("WARN: failed to create indexes for collection %s: %v", collection.Name(), err)
	}
}
