package service

import (
	"context"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"fitvibe/coach-app/internal/domain"
	"fitvibe/coach-app/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// fakeFileStorage records uploads and deletes in memory.
type fakeFileStorage struct {
	objects    map[string]string // key -> content type
	deleted    []string
	failDelete bool
}

func newFakeFileStorage() *fakeFileStorage {
	return &fakeFileStorage{objects: make(map[string]string)}
}

func (f *fakeFileStorage) UploadObject(ctx context.Context, objectKey, contentType string, body io.Reader) (string, error) {
	f.objects[objectKey] = contentType
	return f.ObjectURL(objectKey), nil
}

func (f *fakeFileStorage) GeneratePresignedUploadURL(ctx context.Context, objectKey, contentType string, expires time.Duration) (string, error) {
	return "https://storage.test/presigned-put/" + objectKey, nil
}

func (f *fakeFileStorage) GeneratePresignedDownloadURL(ctx context.Context, objectKey string, expires time.Duration) (string, error) {
	return "https://storage.test/presigned-get/" + objectKey, nil
}

func (f *fakeFileStorage) ObjectURL(objectKey string) string {
	return "https://storage.test/bucket/" + objectKey
}

func (f *fakeFileStorage) DeleteObject(ctx context.Context, objectKey string) error {
	if f.failDelete {
		return fmt.Errorf("storage unavailable")
	}
	delete(f.objects, objectKey)
	f.deleted = append(f.deleted, objectKey)
	return nil
}

func profileFixture(t *testing.T) (ProfileService, *fakeCoachProfileRepo, *fakeFileStorage, primitive.ObjectID) {
	t.Helper()
	coachID := primitive.NewObjectID()
	profileRepo := newFakeCoachProfileRepo()
	fs := newFakeFileStorage()
	svc := NewProfileService(profileRepo, fs, zap.NewNop())

	_, err := svc.SaveProfile(context.Background(), coachID, &domain.CoachProfile{
		FirstName: "Carla",
		LastName:  "Coach",
		Email:     "carla@example.com",
	})
	require.NoError(t, err)
	return svc, profileRepo, fs, coachID
}

func TestSaveProfile(t *testing.T) {
	ctx := context.Background()
	svc, _, _, coachID := profileFixture(t)

	t.Run("text updates keep image slots", func(t *testing.T) {
		img, err := svc.UploadImage(ctx, coachID, SlotProfile, "image/png", strings.NewReader("png"))
		require.NoError(t, err)

		_, err = svc.SaveProfile(ctx, coachID, &domain.CoachProfile{
			FirstName: "Carla",
			Email:     "carla@example.com",
			AboutMe:   "Strength and conditioning.",
		})
		require.NoError(t, err)

		profile, err := svc.GetProfile(ctx, coachID)
		require.NoError(t, err)
		assert.Equal(t, "Strength and conditioning.", profile.AboutMe)
		require.NotNil(t, profile.ProfilePicture)
		assert.Equal(t, img.StoragePath, profile.ProfilePicture.StoragePath)
	})

	t.Run("validation", func(t *testing.T) {
		_, err := svc.SaveProfile(ctx, coachID, &domain.CoachProfile{LastName: "NoFirst"})
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("missing profile", func(t *testing.T) {
		_, err := svc.GetProfile(ctx, primitive.NewObjectID())
		assert.ErrorIs(t, err, ErrProfileNotFound)
	})
}

func TestUploadImage(t *testing.T) {
	ctx := context.Background()

	t.Run("profile slot replaces and deletes prior blob", func(t *testing.T) {
		svc, _, fs, coachID := profileFixture(t)

		first, err := svc.UploadImage(ctx, coachID, SlotProfile, "image/png", strings.NewReader("one"))
		require.NoError(t, err)
		second, err := svc.UploadImage(ctx, coachID, SlotProfile, "image/jpeg", strings.NewReader("two"))
		require.NoError(t, err)

		profile, err := svc.GetProfile(ctx, coachID)
		require.NoError(t, err)
		assert.Equal(t, second.StoragePath, profile.ProfilePicture.StoragePath)
		assert.Contains(t, fs.deleted, first.StoragePath)
	})

	t.Run("gallery appends", func(t *testing.T) {
		svc, _, _, coachID := profileFixture(t)

		_, err := svc.UploadImage(ctx, coachID, SlotGallery, "image/png", strings.NewReader("a"))
		require.NoError(t, err)
		_, err = svc.UploadImage(ctx, coachID, SlotGallery, "image/png", strings.NewReader("b"))
		require.NoError(t, err)

		profile, err := svc.GetProfile(ctx, coachID)
		require.NoError(t, err)
		assert.Len(t, profile.Gallery, 2)
	})

	t.Run("rejects non-image content type", func(t *testing.T) {
		svc, _, _, coachID := profileFixture(t)

		_, err := svc.UploadImage(ctx, coachID, SlotProfile, "application/pdf", strings.NewReader("pdf"))
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("gallery upload without profile cleans up blob", func(t *testing.T) {
		profileRepo := newFakeCoachProfileRepo()
		fs := newFakeFileStorage()
		svc := NewProfileService(profileRepo, fs, zap.NewNop())

		_, err := svc.UploadImage(ctx, primitive.NewObjectID(), SlotGallery, "image/png", strings.NewReader("a"))
		assert.ErrorIs(t, err, ErrProfileNotFound)
		assert.Empty(t, fs.objects, "unattached blob should be deleted")
	})

	t.Run("failed old-blob delete does not fail the upload", func(t *testing.T) {
		svc, _, fs, coachID := profileFixture(t)

		_, err := svc.UploadImage(ctx, coachID, SlotProfile, "image/png", strings.NewReader("one"))
		require.NoError(t, err)

		fs.failDelete = true
		second, err := svc.UploadImage(ctx, coachID, SlotProfile, "image/png", strings.NewReader("two"))
		require.NoError(t, err)

		profile, err := svc.GetProfile(ctx, coachID)
		require.NoError(t, err)
		assert.Equal(t, second.StoragePath, profile.ProfilePicture.StoragePath)
	})
}

func TestRemoveImage(t *testing.T) {
	ctx := context.Background()

	t.Run("detaches gallery image and deletes blob", func(t *testing.T) {
		svc, _, fs, coachID := profileFixture(t)

		img, err := svc.UploadImage(ctx, coachID, SlotGallery, "image/png", strings.NewReader("a"))
		require.NoError(t, err)

		require.NoError(t, svc.RemoveImage(ctx, coachID, img.StoragePath))

		profile, err := svc.GetProfile(ctx, coachID)
		require.NoError(t, err)
		assert.Empty(t, profile.Gallery)
		assert.Contains(t, fs.deleted, img.StoragePath)
	})

	t.Run("unknown path", func(t *testing.T) {
		svc, _, _, coachID := profileFixture(t)

		err := svc.RemoveImage(ctx, coachID, "images/unknown.png")
		assert.ErrorIs(t, err, ErrImageNotFound)
	})
}

var _ repository.CoachProfileRepository = (*fakeCoachProfileRepo)(nil)
