package service

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"fitvibe/coach-app/internal/domain"
	"fitvibe/coach-app/internal/repository"
	"fitvibe/coach-app/internal/storage"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// --- Error Definitions ---
var (
	ErrVideoNotFound    = errors.New("video not found")
	ErrUploadURLError   = errors.New("failed to generate upload URL")
	ErrDownloadURLError = errors.New("failed to generate download URL")
	ErrNotSubscribed    = errors.New("no active relationship with this coach")
)

// VideoUploadGrant is a presigned PUT URL plus the key the video must be
// confirmed under.
type VideoUploadGrant struct {
	UploadURL string `json:"uploadUrl"`
	ObjectKey string `json:"objectKey"`
}

// VideoService manages a coach's exercise video library. Videos are visible
// to clients holding an active relationship with the coach; that gate lives
// here, not in the store.
type VideoService interface {
	// RequestUpload issues a presigned PUT URL so the video bytes go
	// straight to object storage.
	RequestUpload(ctx context.Context, coachID primitive.ObjectID, contentType string) (*VideoUploadGrant, error)
	// ConfirmUpload records the video metadata after the client finished
	// the presigned upload.
	ConfirmUpload(ctx context.Context, coachID primitive.ObjectID, name, tag, objectKey string) (*domain.VideoAsset, error)
	ListForCoach(ctx context.Context, coachID primitive.ObjectID) ([]domain.VideoAsset, error)
	// ListForClient returns a coach's library to a subscribed client.
	ListForClient(ctx context.Context, clientID, coachID primitive.ObjectID) ([]domain.VideoAsset, error)
	// PlaybackURL issues a short-lived presigned GET URL for a video's blob.
	// Coaches can play their own videos; clients need an active relationship
	// with the owning coach.
	PlaybackURL(ctx context.Context, userID primitive.ObjectID, role domain.Role, videoID primitive.ObjectID) (string, error)
	// Delete removes metadata and blob. A failed blob delete is logged and
	// does not resurrect the metadata.
	Delete(ctx context.Context, coachID, videoID primitive.ObjectID) error
}

// videoService implements the VideoService interface.
type videoService struct {
	videoRepo        repository.VideoRepository
	relationshipRepo repository.RelationshipRepository
	fileStorage      storage.FileStorage
	logger           *zap.Logger
}

// NewVideoService creates a new instance of videoService.
func NewVideoService(
	videoRepo repository.VideoRepository,
	relationshipRepo repository.RelationshipRepository,
	fileStorage storage.FileStorage,
	logger *zap.Logger,
) VideoService {
	return &videoService{
		videoRepo:        videoRepo,
		relationshipRepo: relationshipRepo,
		fileStorage:      fileStorage,
		logger:           logger,
	}
}

// RequestUpload issues a presigned upload URL under the coach's video prefix.
func (s *videoService) RequestUpload(ctx context.Context, coachID primitive.ObjectID, contentType string) (*VideoUploadGrant, error) {
	if coachID == primitive.NilObjectID {
		return nil, fmt.Errorf("%w: coach ID is required", ErrValidation)
	}
	if !strings.HasPrefix(strings.ToLower(contentType), "video/") {
		return nil, fmt.Errorf("%w: invalid or missing video content type", ErrValidation)
	}

	ext := ""
	if parts := strings.Split(contentType, "/"); len(parts) == 2 {
		ext = parts[1]
	}
	objectKey := path.Join("videos", coachID.Hex(), fmt.Sprintf("%s.%s", uuid.NewString(), ext))

	uploadURL, err := s.fileStorage.GeneratePresignedUploadURL(ctx, objectKey, contentType, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return nil, ErrUploadURLError
	}
	return &VideoUploadGrant{UploadURL: uploadURL, ObjectKey: objectKey}, nil
}

// ConfirmUpload stores the metadata once the bytes are in object storage.
func (s *videoService) ConfirmUpload(ctx context.Context, coachID primitive.ObjectID, name, tag, objectKey string) (*domain.VideoAsset, error) {
	if name == "" || objectKey == "" {
		return nil, fmt.Errorf("%w: video name and object key are required", ErrValidation)
	}
	// Only accept keys under the coach's own prefix; anything else could
	// claim another coach's blob.
	if !strings.HasPrefix(objectKey, path.Join("videos", coachID.Hex())+"/") {
		return nil, ErrAccessDenied
	}

	video := &domain.VideoAsset{
		CoachID:     coachID,
		Name:        name,
		Tag:         tag,
		MediaURL:    s.fileStorage.ObjectURL(objectKey),
		StoragePath: objectKey,
	}
	videoID, err := s.videoRepo.Create(ctx, video)
	if err != nil {
		return nil, err
	}
	video.ID = videoID
	return video, nil
}

// ListForCoach returns the coach's own library.
func (s *videoService) ListForCoach(ctx context.Context, coachID primitive.ObjectID) ([]domain.VideoAsset, error) {
	if coachID == primitive.NilObjectID {
		return nil, fmt.Errorf("%w: coach ID is required", ErrValidation)
	}
	return s.videoRepo.ListByCoach(ctx, coachID)
}

// ListForClient gates the coach's library on an active relationship.
func (s *videoService) ListForClient(ctx context.Context, clientID, coachID primitive.ObjectID) ([]domain.VideoAsset, error) {
	if clientID == primitive.NilObjectID || coachID == primitive.NilObjectID {
		return nil, fmt.Errorf("%w: client ID and coach ID are required", ErrValidation)
	}

	rel, err := s.relationshipRepo.GetByID(ctx, domain.DeriveRelationshipID(coachID, clientID))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotSubscribed
		}
		return nil, err
	}
	if rel.Status != domain.RelationshipActive {
		return nil, ErrNotSubscribed
	}

	return s.videoRepo.ListByCoach(ctx, coachID)
}

// PlaybackURL authorizes the caller against the video's owner, then presigns
// a GET on the blob so the bucket can stay private.
func (s *videoService) PlaybackURL(ctx context.Context, userID primitive.ObjectID, role domain.Role, videoID primitive.ObjectID) (string, error) {
	if userID == primitive.NilObjectID || videoID == primitive.NilObjectID {
		return "", fmt.Errorf("%w: user ID and video ID are required", ErrValidation)
	}

	video, err := s.videoRepo.GetByID(ctx, videoID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrVideoNotFound
		}
		return "", err
	}

	switch role {
	case domain.RoleCoach:
		if video.CoachID != userID {
			return "", ErrAccessDenied
		}
	case domain.RoleClient:
		rel, err := s.relationshipRepo.GetByID(ctx, domain.DeriveRelationshipID(video.CoachID, userID))
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return "", ErrNotSubscribed
			}
			return "", err
		}
		if rel.Status != domain.RelationshipActive {
			return "", ErrNotSubscribed
		}
	default:
		return "", ErrAccessDenied
	}

	url, err := s.fileStorage.GeneratePresignedDownloadURL(ctx, video.StoragePath, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return "", ErrDownloadURLError
	}
	return url, nil
}

// Delete removes the metadata, then the blob. The blob delete failing is a
// storage leak, logged and tolerated.
func (s *videoService) Delete(ctx context.Context, coachID, videoID primitive.ObjectID) error {
	if coachID == primitive.NilObjectID || videoID == primitive.NilObjectID {
		return fmt.Errorf("%w: coach ID and video ID are required", ErrValidation)
	}

	video, err := s.videoRepo.GetByID(ctx, videoID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrVideoNotFound
		}
		return err
	}
	if video.CoachID != coachID {
		return ErrAccessDenied
	}

	if err := s.videoRepo.Delete(ctx, videoID, coachID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrVideoNotFound
		}
		return err
	}

	if video.StoragePath != "" {
		if err := s.fileStorage.DeleteObject(ctx, video.StoragePath); err != nil {
			s.logger.Warn("failed to delete video blob, storage leaked",
				zap.String("videoId", videoID.Hex()),
				zap.String("storagePath", video.StoragePath),
				zap.Error(err),
			)
		}
	}
	return nil
}
