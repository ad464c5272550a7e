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

const voiceClipCollectionName = "voice_clips"

// mongoVoiceClipRepository implements repository.VoiceClipRepository
type mongoVoiceClipRepository struct {
	collection *mongo.Collection
}

// NewMongoVoiceClipRepository creates a new VoiceClip repository backed by MongoDB.
func NewMongoVoiceClipRepository(db *mongo.Database) repository.VoiceClipRepository {
	return &mongoVoiceClipRepository{
		collection: db.Collection(voiceClipCollectionName),
	}
}

// Create inserts new clip metadata into the database.
func (r *mongoVoiceClipRepository) Create(ctx context.Context, clip *domain.VoiceClip) (string, error) {
	if clip.ObjectKey == "" {
		return "", errors.New("voice clip requires an object key")
	}

	clip.ID = primitive.NewObjectID().Hex()
	clip.CreatedAt = time.Now().UTC()

	if _, err := r.collection.InsertOne(ctx, clip); err != nil {
		return "", err
	}
	return clip.ID, nil
}

// GetByID retrieves clip metadata by its ID.
func (r *mongoVoiceClipRepository) GetByID(ctx context.Context, id string) (*domain.VoiceClip, error) {
	var clip domain.VoiceClip
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&clip)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &clip, nil
}

// Delete removes clip metadata. The object itself is removed by the caller.
func (r *mongoVoiceClipRepository) Delete(ctx context.Context, id string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureVoiceClipIndexes creates necessary indexes. Call during startup.
func EnsureVoiceClipIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "objectKey", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		log.Printf("WARN: Failed to create indexes for collection %s: %v", collection.Name(), err)
	}
}
