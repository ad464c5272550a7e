package service

import (
	"context"
	"errors"
	"hiroonarita/practice-planner/internal/domain"
	"hiroonarita/practice-planner/internal/repository"
	"hiroonarita/practice-planner/internal/storage"
	"log"
)

var (
	ErrVoiceDisabled      = errors.New("voice clip storage is not configured")
	ErrVoiceClipNotFound  = errors.New("voice clip not found")
	ErrInvalidObjectKey   = errors.New("object key was not issued by this server")
	ErrUploadURLError     = errors.New("failed to generate upload URL")
	ErrDownloadURLError   = errors.New("failed to generate download URL")
	ErrUploadConfirmation = errors.New("failed to confirm upload")
)

// UploadURLResponse structure for returning URL and object key
type UploadURLResponse struct {
	UploadURL string `json:"uploadUrl"`
	ObjectKey string `json:"objectKey"` // The key the client reports back on confirm
}

// VoiceService handles the two-step presigned upload of voice clips.
type VoiceService interface {
	RequestUpload(ctx context.Context, owner, contentType string) (*UploadURLResponse, error)
	ConfirmUpload(ctx context.Context, owner, objectKey, contentType string, size int64) (*domain.VoiceClip, error)
	DownloadURL(ctx context.Context, id string) (string, error)
	Delete(ctx context.Context, id string) error
}

type voiceService struct {
	clipRepo repository.VoiceClipRepository
	storage  storage.ClipStorage // nil when S3 is not configured
}

// NewVoiceService creates a VoiceService. clips may be nil, in which case
// every operation reports ErrVoiceDisabled.
func NewVoiceService(clipRepo repository.VoiceClipRepository, clips storage.ClipStorage) VoiceService {
	return &voiceService{clipRepo: clipRepo, storage: clips}
}

func (s *voiceService) RequestUpload(ctx context.Context, owner, contentType string) (*UploadURLResponse, error) {
	if s.storage == nil {
		return nil, ErrVoiceDisabled
	}
	objectKey, err := storage.NewClipKey(owner, contentType)
	if err != nil {
		return nil, err
	}
	uploadURL, err := s.storage.PresignUpload(ctx, objectKey, contentType, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return nil, ErrUploadURLError
	}
	return &UploadURLResponse{UploadURL: uploadURL, ObjectKey: objectKey}, nil
}

// ConfirmUpload records clip metadata after the client finished the PUT.
func (s *voiceService) ConfirmUpload(ctx context.Context, owner, objectKey, contentType string, size int64) (*domain.VoiceClip, error) {
	if s.storage == nil {
		return nil, ErrVoiceDisabled
	}
	if !storage.IsClipKey(objectKey) {
		return nil, ErrInvalidObjectKey
	}
	clip := &domain.VoiceClip{
		OwnerName:   owner,
		ObjectKey:   objectKey,
		ContentType: contentType,
		Size:        size,
	}
	id, err := s.clipRepo.Create(ctx, clip)
	if err != nil {
		log.Printf("ERROR: store voice clip metadata for %s: %v", objectKey, err)
		return nil, ErrUploadConfirmation
	}
	return s.clipRepo.GetByID(ctx, id)
}

func (s *voiceService) DownloadURL(ctx context.Context, id string) (string, error) {
	if s.storage == nil {
		return "", ErrVoiceDisabled
	}
	clip, err := s.getClip(ctx, id)
	if err != nil {
		return "", err
	}
	url, err := s.storage.PresignDownload(ctx, clip.ObjectKey, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return "", ErrDownloadURLError
	}
	return url, nil
}

// Delete removes the object first, then its metadata.
func (s *voiceService) Delete(ctx context.Context, id string) error {
	if s.storage == nil {
		return ErrVoiceDisabled
	}
	clip, err := s.getClip(ctx, id)
	if err != nil {
		return err
	}
	if err := s.storage.DeleteObject(ctx, clip.ObjectKey); err != nil {
		return err
	}
	if err := s.clipRepo.Delete(ctx, id); err != nil && !errors.Is(err, repository.ErrNotFound) {
		log.Printf("ERROR: delete voice clip metadata %s: %v", id, err)
		return err
	}
	return nil
}

func (s *voiceService) getClip(ctx context.Context, id string) (*domain.VoiceClip, error) {
	clip, err := s.clipRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrVoiceClipNotFound
		}
		return nil, err
	}
	return clip, nil
}
