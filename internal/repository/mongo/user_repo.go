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

const userCollectionName = "users"

// mongoUserRepository implements the repository.UserRepository interface using MongoDB.
type mongoUserRepository struct {
	collection *mongo.Collection
}

// NewMongoUserRepository creates a new instance of mongoUserRepository.
// It expects a connected *mongo.Database instance.
func NewMongoUserRepository(db *mongo.Database) repository.UserRepository {
	return &mongoUserRepository{
		collection: db.Collection(userCollectionName),
	}
}

// Create inserts a new user into the database.
func (r *mongoUserRepository) Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error) {
	if user.Email == "" || len(user.Roles) == 0 {
		return primitive.NilObjectID, errors.New("user email and at least one role are required")
	}

	user.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, user)
	if err != nil {
		// The unique email index turns races between the duplicate check in
		// the service and this insert into a conflict here.
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, repository.ErrConflict
		}
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}

	return insertedID, nil
}

// GetByEmail retrieves a user by their email address.
func (r *mongoUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	filter := bson.M{"email": email}

	err := r.collection.FindOne(ctx, filter).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// GetByID retrieves a user by their MongoDB ObjectID.
func (r *mongoUserRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	var user domain.User
	filter := bson.M{"_id": id}

	err := r.collection.FindOne(ctx, filter).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// AddRole unions a role into the user's role set.
func (r *mongoUserRepository) AddRole(ctx context.Context, userID primitive.ObjectID, role domain.Role) error {
	filter := bson.M{"_id": userID}
	update := bson.M{
		"$addToSet": bson.M{"roles": role}, // $addToSet keeps the set invariant
		"$set":      bson.M{"updatedAt": time.Now().UTC()},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	// ModifiedCount may be 0 when the role was already present, which is fine.
	return nil
}

// SetPrimaryTrainer sets the trainerId field on a trainee's record.
func (r *mongoUserRepository) SetPrimaryTrainer(ctx context.Context, traineeID, trainerID primitive.ObjectID) error {
	filter := bson.M{"_id": traineeID}
	update := bson.M{
		"$set": bson.M{
			"trainerId": trainerID,
			"updatedAt": time.Now().UTC(),
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// AddManagingTrainer links an additional trainer to a trainee.
func (r *mongoUserRepository) AddManagingTrainer(ctx context.Context, traineeID, trainerID primitive.ObjectID) error {
	filter := bson.M{"_id": traineeID}
	update := bson.M{
		"$addToSet": bson.M{"managingTrainerIds": trainerID},
		"$set":      bson.M{"updatedAt": time.Now().UTC()},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// GetTraineesByTrainerID retrieves all TRAINEE-role users whose primary
// trainer is the given trainer.
func (r *mongoUserRepository) GetTraineesByTrainerID(ctx context.Context, trainerID primitive.ObjectID) ([]domain.User, error) {
	filter := bson.M{
		"roles":     domain.RoleTrainee,
		"trainerId": trainerID,
	}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var trainees []domain.User
	if err = cursor.All(ctx, &trainees); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}

	return trainees, nil
}

// GetByRole retrieves all users holding the given role.
func (r *mongoUserRepository) GetByRole(ctx context.Context, role domain.Role) ([]domain.User, error) {
	filter := bson.M{"roles": role}
	findOptions := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []domain.User
	if err = cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}

	return users, nil
}

// GetUnassignedTrainees retrieves TRAINEE-role users with no primary trainer.
func (r *mongoUserRepository) GetUnassignedTrainees(ctx context.Context) ([]domain.User, error) {
	filter := bson.M{
		"roles": domain.RoleTrainee,
		"$or": []bson.M{
			{"trainerId": bson.M{"$exists": false}},
			{"trainerId": nil},
		},
	}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var trainees []domain.User
	if err = cursor.All(ctx, &trainees); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}

	return trainees, nil
}

// EnsureUserIndexes creates necessary indexes for the users collection.
// Call this once during application startup.
func EnsureUserIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true), // Email is globally unique
		},
		{
			Keys:    bson.D{{Key: "roles", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "trainerId", Value: 1}},
			Options: options.Index().SetSparse(true), // Not all users have a trainer
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		// Non-fatal: the app can run without indexes, at reduced perf.
		log.Printf("WARN: failed to create indexes for collection %s: %v", collection.Name(), err)
	}
}
