// internal/repository/mongo/plan_repo.go
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

const planCollectionName = "plans"

// planDocument is the stored shape: key columns at the top level, drills and
// key factor embedded under "content". Only this file knows about it.
type planDocument struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	TeamID     string             `bson:"team_id"`
	Date       string             `bson:"date"`
	GradeGroup string             `bson:"grade_group"`
	Content    domain.PlanContent `bson:"content"`
	Status     string             `bson:"status"`
	CreatedBy  string             `bson:"created_by"`
	UpdatedAt  time.Time          `bson:"updated_at"`
}

// toRecord normalizes a stored document into the in-memory PlanRecord shape.
func (d *planDocument) toRecord() domain.PlanRecord {
	return domain.PlanRecord{
		ID: d.ID.Hex(),
		PlanKey: domain.PlanKey{
			TeamID:     d.TeamID,
			Date:       d.Date,
			GradeGroup: domain.GradeGroup(d.GradeGroup),
		},
		PlanContent:        d.Content,
		Status:             domain.PlanStatus(d.Status),
		CreatedByCoachName: d.CreatedBy,
		UpdatedAt:          d.UpdatedAt,
	}
}

func keyFilter(key domain.PlanKey) bson.M {
	return bson.M{
		"team_id":     key.TeamID,
		"date":        key.Date,
		"grade_group": string(key.GradeGroup),
	}
}

// mongoPlanRepository implements repository.PlanRepository
type mongoPlanRepository struct {
	collection *mongo.Collection
}

// NewMongoPlanRepository creates a new Plan repository.
func NewMongoPlanRepository(db *mongo.Database) repository.PlanRepository {
	return &mongoPlanRepository{
		collection: db.Collection(planCollectionName),
	}
}

// List retrieves every plan, newest date first.
func (r *mongoPlanRepository) List(ctx context.Context, publishedOnly bool) ([]domain.PlanRecord, error) {
	filter := bson.M{}
	if publishedOnly {
		filter["status"] = string(domain.StatusPublished)
	}
	findOptions := options.Find().SetSort(bson.D{{Key: "date", Value: -1}, {Key: "team_id", Value: 1}, {Key: "grade_group", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []planDocument
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	plans := make([]domain.PlanRecord, 0, len(docs))
	for i := range docs {
		plans = append(plans, docs[i].toRecord())
	}
	return plans, nil
}

// GetByKey retrieves the plan stored for a natural key.
func (r *mongoPlanRepository) GetByKey(ctx context.Context, key domain.PlanKey) (*domain.PlanRecord, error) {
	var doc planDocument
	err := r.collection.FindOne(ctx, keyFilter(key)).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	plan := doc.toRecord()
	return &plan, nil
}

// UpsertDraft writes a draft. The filter excludes published documents, so when
// one exists the upsert attempts an insert and trips the unique key index.
// Two first writes racing for the same key trip it too; the stored status
// tells the cases apart.
func (r *mongoPlanRepository) UpsertDraft(ctx context.Context, plan *domain.PlanRecord) (*domain.PlanRecord, error) {
	filter := keyFilter(plan.PlanKey)
	filter["status"] = bson.M{"$ne": string(domain.StatusPublished)}

	return retryOnDuplicate(
		func() (*domain.PlanRecord, error) { return r.upsert(ctx, filter, plan, domain.StatusDraft) },
		func() error {
			stored, err := r.GetByKey(ctx, plan.PlanKey)
			switch {
			case errors.Is(err, repository.ErrNotFound):
				return nil
			case err != nil:
				return err
			case stored.IsPublished():
				return repository.ErrPublishedPlan
			}
			return nil
		},
	)
}

// UpsertPublished inserts or replaces the plan for its key with status published.
func (r *mongoPlanRepository) UpsertPublished(ctx context.Context, plan *domain.PlanRecord) (*domain.PlanRecord, error) {
	return retryOnDuplicate(
		func() (*domain.PlanRecord, error) {
			return r.upsert(ctx, keyFilter(plan.PlanKey), plan, domain.StatusPublished)
		},
		nil,
	)
}

// retryOnDuplicate runs write a second time when it trips the unique key
// index, which happens when another insert for the key won the race. check,
// when set, runs first and ends the attempt if it returns an error. A second
// duplicate is reported as ErrDuplicateKey.
func retryOnDuplicate(write func() (*domain.PlanRecord, error), check func() error) (*domain.PlanRecord, error) {
	saved, err := write()
	if err == nil || !mongo.IsDuplicateKeyError(err) {
		return saved, err
	}
	if check != nil {
		if err := check(); err != nil {
			return nil, err
		}
	}
	log.Printf("WARN: plan upsert lost an insert race, retrying once")
	saved, err = write()
	if mongo.IsDuplicateKeyError(err) {
		return nil, repository.ErrDuplicateKey
	}
	return saved, err
}

// upsert relies on the key equality fields of filter being copied into a
// newly inserted document.
func (r *mongoPlanRepository) upsert(ctx context.Context, filter bson.M, plan *domain.PlanRecord, status domain.PlanStatus) (*domain.PlanRecord, error) {
	update := bson.M{
		"$set": bson.M{
			"content":    plan.PlanContent,
			"status":     string(status),
			"created_by": plan.CreatedByCoachName,
			"updated_at": time.Now().UTC(), // Always server-assigned
		},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var doc planDocument
	if err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc); err != nil {
		return nil, err
	}
	saved := doc.toRecord()
	return &saved, nil
}

// EnsurePlanIndexes creates necessary indexes. Call during startup.
func EnsurePlanIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			// One plan per natural key; upserts rely on this
			Keys: bson.D{
				{Key: "team_id", Value: 1},
				{Key: "date", Value: 1},
				{Key: "grade_group", Value: 1},
			},
			Options: options.Index().SetUnique(true).SetName("plan_natural_key"),
		},
		{
			Keys:    bson.D{{Key: "status", Value: 1}, {Key: "date", Value: -1}},
			Options: options.Index(),
		},
	}
	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		log.Printf("WARN: Failed to create indexes for collection %s: %v", collection.Name(), err)
	}
}
