package mongo

import (
	"context"
	"errors"
	"hiroonarita/practice-planner/internal/domain"
	"hiroonarita/practice-planner/internal/repository"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const reflectionCollectionName = "reflections"

// mongoReflectionRepository implements repository.ReflectionRepository
type mongoReflectionRepository struct {
	collection *mongo.Collection
}

// NewMongoReflectionRepository creates a new Reflection repository.
func NewMongoReflectionRepository(db *mongo.Database) repository.ReflectionRepository {
	return &mongoReflectionRepository{
		collection: db.Collection(reflectionCollectionName),
	}
}

// Create inserts a player's reflection.
func (r *mongoReflectionRepository) Create(ctx context.Context, reflection *domain.Reflection) (string, error) {
	reflection.ID = primitive.NewObjectID().Hex()
	reflection.SubmittedAt = time.Now().UTC()

	if _, err := r.collection.InsertOne(ctx, reflection); err != nil {
		return "", err
	}
	return reflection.ID, nil
}

// GetByID retrieves a single reflection by its ID.
func (r *mongoReflectionRepository) GetByID(ctx context.Context, id string) (*domain.Reflection, error) {
	var reflection domain.Reflection
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&reflection)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &reflection, nil
}

// ListByPlan retrieves every reflection submitted for a plan, oldest first.
func (r *mongoReflectionRepository) ListByPlan(ctx context.Context, key domain.PlanKey) ([]domain.Reflection, error) {
	filter := bson.M{
		"teamId":     key.TeamID,
		"date":       key.Date,
		"gradeGroup": string(key.GradeGroup),
	}
	findOptions := options.Find().SetSort(bson.D{{Key: "submittedAt", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var reflections []domain.Reflection
	if err = cursor.All(ctx, &reflections); err != nil {
		return nil, err
	}
	return reflections, nil
}

// EnsureReflectionIndexes creates necessary indexes. Call during startup.
func EnsureReflectionIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "teamId", Value: 1}, {Key: "date", Value: 1}, {Key: "gradeGroup", Value: 1}},
			Options: options.Index(),
		},
	}
	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		log.Printf("WARN: Failed to create indexes for collection %s: %v", collection.Name(), err)
	}
}
