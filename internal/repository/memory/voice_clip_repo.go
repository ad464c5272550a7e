package memory

import (
	"context"

	"github.com/google/uuid"

	"hiroonarita/practice-planner/internal/domain"
	"hiroonarita/practice-planner/internal/repository"
)

type voiceClipRepository struct {
	db *DB
}

// NewVoiceClipRepository creates a VoiceClipRepository backed by db.
func NewVoiceClipRepository(db *DB) repository.VoiceClipRepository {
	return &voiceClipRepository{db: db}
}

func (r *voiceClipRepository) Create(ctx context.Context, clip *domain.VoiceClip) (string, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	stored := *clip
	stored.ID = uuid.NewString()
	stored.CreatedAt = r.db.Now()
	r.db.clips[stored.ID] = &stored
	return stored.ID, nil
}

func (r *voiceClipRepository) GetByID(ctx context.Context, id string) (*domain.VoiceClip, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	clip, ok := r.db.clips[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := *clip
	return &out, nil
}

func (r *voiceClipRepository) Delete(ctx context.Context, id string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.clips[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.db.clips, id)
	return nil
}
