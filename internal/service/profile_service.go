package service

import (
	"context"
	"errors"
	"fmt"
	"io"
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
	ErrProfileNotFound = errors.New("coach profile not found")
	ErrImageNotFound   = errors.New("image not found on profile")
)

// ImageSlot selects which profile slot an upload targets.
type ImageSlot string

const (
	SlotProfile ImageSlot = "profile" // single slot, replaces prior image
	SlotGallery ImageSlot = "gallery" // append-only ordered gallery
)

// ProfileService manages the coach-facing editable profile and its image
// attachments. Writes are restricted to the owning coach.
type ProfileService interface {
	GetProfile(ctx context.Context, coachID primitive.ObjectID) (*domain.CoachProfile, error)
	ListCoaches(ctx context.Context) ([]domain.CoachProfile, error)
	SaveProfile(ctx context.Context, coachID primitive.ObjectID, profile *domain.CoachProfile) (*domain.CoachProfile, error)
	// UploadImage stores the blob and attaches it to the chosen slot. For
	// the profile slot the superseded blob is deleted afterwards; a failed
	// delete is logged and the upload still succeeds.
	UploadImage(ctx context.Context, coachID primitive.ObjectID, slot ImageSlot, contentType string, body io.Reader) (*domain.ImageRef, error)
	// RemoveImage detaches the image and deletes its blob.
	RemoveImage(ctx context.Context, coachID primitive.ObjectID, storagePath string) error
}

// profileService implements the ProfileService interface.
type profileService struct {
	profileRepo repository.CoachProfileRepository
	fileStorage storage.FileStorage
	logger      *zap.Logger
}

// NewProfileService creates a new instance of profileService.
func NewProfileService(profileRepo repository.CoachProfileRepository, fileStorage storage.FileStorage, logger *zap.Logger) ProfileService {
	return &profileService{
		profileRepo: profileRepo,
		fileStorage: fileStorage,
		logger:      logger,
	}
}

// GetProfile retrieves a coach's profile.
func (s *profileService) GetProfile(ctx context.Context, coachID primitive.ObjectID) (*domain.CoachProfile, error) {
	if coachID == primitive.NilObjectID {
		return nil, fmt.Errorf("%w: coach ID is required", ErrValidation)
	}
	profile, err := s.profileRepo.GetByCoachID(ctx, coachID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return profile, nil
}

// ListCoaches returns all coach profiles for client-side browsing.
func (s *profileService) ListCoaches(ctx context.Context) ([]domain.CoachProfile, error) {
	return s.profileRepo.List(ctx)
}

// SaveProfile upserts the coach-editable text fields. Image slots are left
// untouched; they change only through UploadImage/RemoveImage.
func (s *profileService) SaveProfile(ctx context.Context, coachID primitive.ObjectID, profile *domain.CoachProfile) (*domain.CoachProfile, error) {
	if coachID == primitive.NilObjectID {
		return nil, fmt.Errorf("%w: coach ID is required", ErrValidation)
	}
	if profile.FirstName == "" || profile.Email == "" {
		return nil, fmt.Errorf("%w: first name and email are required", ErrValidation)
	}

	profile.CoachID = coachID
	if err := s.profileRepo.Upsert(ctx, profile); err != nil {
		return nil, err
	}
	return s.profileRepo.GetByCoachID(ctx, coachID)
}

// UploadImage writes the blob first, then attaches it. If the profile slot
// already held an image, the old blob is deleted after the swap; losing that
// delete leaks a blob, which is accepted over failing the user's upload.
func (s *profileService) UploadImage(ctx context.Context, coachID primitive.ObjectID, slot ImageSlot, contentType string, body io.Reader) (*domain.ImageRef, error) {
	if coachID == primitive.NilObjectID {
		return nil, fmt.Errorf("%w: coach ID is required", ErrValidation)
	}
	if !strings.HasPrefix(strings.ToLower(contentType), "image/") {
		return nil, fmt.Errorf("%w: invalid or missing image content type", ErrValidation)
	}
	if slot != SlotProfile && slot != SlotGallery {
		return nil, fmt.Errorf("%w: unknown image slot %q", ErrValidation, slot)
	}

	var prior *domain.ImageRef
	if slot == SlotProfile {
		profile, err := s.GetProfile(ctx, coachID)
		if err != nil {
			return nil, err
		}
		prior = profile.ProfilePicture
	}

	objectKey := imageObjectKey(coachID, slot, contentType)
	url, err := s.fileStorage.UploadObject(ctx, objectKey, contentType, body)
	if err != nil {
		return nil, err
	}
	img := domain.ImageRef{URL: url, StoragePath: objectKey}

	switch slot {
	case SlotProfile:
		if err := s.profileRepo.SetProfilePicture(ctx, coachID, &img); err != nil {
			return nil, s.failAttach(ctx, coachID, objectKey, err)
		}
		if prior != nil && prior.StoragePath != "" {
			if err := s.fileStorage.DeleteObject(ctx, prior.StoragePath); err != nil {
				s.logger.Warn("failed to delete superseded profile picture, blob leaked",
					zap.String("coachId", coachID.Hex()),
					zap.String("storagePath", prior.StoragePath),
					zap.Error(err),
				)
			}
		}
	case SlotGallery:
		if err := s.profileRepo.AddGalleryImage(ctx, coachID, img); err != nil {
			return nil, s.failAttach(ctx, coachID, objectKey, err)
		}
	}

	return &img, nil
}

// failAttach cleans up an uploaded blob whose slot attach failed, so the
// failed request does not leak storage. A missing profile surfaces as
// ErrProfileNotFound rather than a bare store error.
func (s *profileService) failAttach(ctx context.Context, coachID primitive.ObjectID, objectKey string, attachErr error) error {
	if err := s.fileStorage.DeleteObject(ctx, objectKey); err != nil {
		s.logger.Warn("failed to delete unattached image blob",
			zap.String("coachId", coachID.Hex()),
			zap.String("storagePath", objectKey),
			zap.Error(err),
		)
	}
	if errors.Is(attachErr, repository.ErrNotFound) {
		return ErrProfileNotFound
	}
	return attachErr
}

// RemoveImage detaches an image from whichever slot holds it and deletes the
// blob. A failed blob delete is logged; the detach still stands.
func (s *profileService) RemoveImage(ctx context.Context, coachID primitive.ObjectID, storagePath string) error {
	if storagePath == "" {
		return fmt.Errorf("%w: storage path is required", ErrValidation)
	}

	profile, err := s.GetProfile(ctx, coachID)
	if err != nil {
		return err
	}

	detached := false
	if profile.ProfilePicture != nil && profile.ProfilePicture.StoragePath == storagePath {
		if err := s.profileRepo.SetProfilePicture(ctx, coachID, nil); err != nil {
			return err
		}
		detached = true
	} else {
		for _, img := range profile.Gallery {
			if img.StoragePath == storagePath {
				if err := s.profileRepo.RemoveGalleryImage(ctx, coachID, storagePath); err != nil {
					return err
				}
				detached = true
				break
			}
		}
	}
	if !detached {
		return ErrImageNotFound
	}

	if err := s.fileStorage.DeleteObject(ctx, storagePath); err != nil {
		s.logger.Warn("failed to delete removed image blob",
			zap.String("coachId", coachID.Hex()),
			zap.String("storagePath", storagePath),
			zap.Error(err),
		)
	}
	return nil
}

// imageObjectKey builds a unique S3 key under the coach's image prefix.
func imageObjectKey(coachID primitive.ObjectID, slot ImageSlot, contentType string) string {
	ext := ""
	if parts := strings.Split(contentType, "/"); len(parts) == 2 {
		ext = parts[1]
	}
	return path.Join("images", coachID.Hex(), string(slot), fmt.Sprintf("%s.%s", uuid.NewString(), ext))
}
