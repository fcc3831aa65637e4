package service

import (
	"context"
	"path"
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

type fakeVideoRepo struct {
	videos []*domain.VideoAsset
}

func (r *fakeVideoRepo) Create(ctx context.Context, video *domain.VideoAsset) (primitive.ObjectID, error) {
	cp := *video
	cp.ID = primitive.NewObjectID()
	cp.CreatedAt = time.Now().UTC()
	r.videos = append(r.videos, &cp)
	return cp.ID, nil
}

func (r *fakeVideoRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.VideoAsset, error) {
	for _, v := range r.videos {
		if v.ID == id {
			cp := *v
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeVideoRepo) ListByCoach(ctx context.Context, coachID primitive.ObjectID) ([]domain.VideoAsset, error) {
	out := []domain.VideoAsset{}
	for _, v := range r.videos {
		if v.CoachID == coachID {
			out = append(out, *v)
		}
	}
	return out, nil
}

func (r *fakeVideoRepo) Delete(ctx context.Context, id, coachID primitive.ObjectID) error {
	for i, v := range r.videos {
		if v.ID == id && v.CoachID == coachID {
			r.videos = append(r.videos[:i], r.videos[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func videoFixture(t *testing.T) (VideoService, *fakeRelationshipRepo, *fakeFileStorage, primitive.ObjectID) {
	t.Helper()
	coachID := primitive.NewObjectID()
	relRepo := newFakeRelationshipRepo()
	fs := newFakeFileStorage()
	svc := NewVideoService(&fakeVideoRepo{}, relRepo, fs, zap.NewNop())
	return svc, relRepo, fs, coachID
}

func TestRequestUpload(t *testing.T) {
	ctx := context.Background()
	svc, _, _, coachID := videoFixture(t)

	t.Run("grants a key under the coach prefix", func(t *testing.T) {
		grant, err := svc.RequestUpload(ctx, coachID, "video/mp4")
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(grant.ObjectKey, path.Join("videos", coachID.Hex())+"/"))
		assert.NotEmpty(t, grant.UploadURL)
	})

	t.Run("rejects non-video content type", func(t *testing.T) {
		_, err := svc.RequestUpload(ctx, coachID, "image/png")
		assert.ErrorIs(t, err, ErrValidation)
	})
}

func TestConfirmUpload(t *testing.T) {
	ctx := context.Background()
	svc, _, _, coachID := videoFixture(t)

	t.Run("stores metadata for own key", func(t *testing.T) {
		grant, err := svc.RequestUpload(ctx, coachID, "video/mp4")
		require.NoError(t, err)

		video, err := svc.ConfirmUpload(ctx, coachID, "Deadlift Form", "technique", grant.ObjectKey)
		require.NoError(t, err)
		assert.Equal(t, coachID, video.CoachID)
		assert.NotEmpty(t, video.MediaURL)
	})

	t.Run("rejects keys outside the coach prefix", func(t *testing.T) {
		otherKey := path.Join("videos", primitive.NewObjectID().Hex(), "stolen.mp4")
		_, err := svc.ConfirmUpload(ctx, coachID, "Stolen", "", otherKey)
		assert.ErrorIs(t, err, ErrAccessDenied)
	})
}

func TestListForClient(t *testing.T) {
	ctx := context.Background()
	svc, relRepo, _, coachID := videoFixture(t)
	clientID := primitive.NewObjectID()
	relID := domain.DeriveRelationshipID(coachID, clientID)

	grant, err := svc.RequestUpload(ctx, coachID, "video/mp4")
	require.NoError(t, err)
	_, err = svc.ConfirmUpload(ctx, coachID, "Squat Basics", "", grant.ObjectKey)
	require.NoError(t, err)

	t.Run("unsubscribed client is denied", func(t *testing.T) {
		_, err := svc.ListForClient(ctx, clientID, coachID)
		assert.ErrorIs(t, err, ErrNotSubscribed)
	})

	t.Run("active subscriber sees the library", func(t *testing.T) {
		require.NoError(t, relRepo.UpsertActive(ctx, &domain.Relationship{ID: relID, CoachID: coachID, ClientID: clientID}))

		videos, err := svc.ListForClient(ctx, clientID, coachID)
		require.NoError(t, err)
		require.Len(t, videos, 1)
		assert.Equal(t, "Squat Basics", videos[0].Name)
	})

	t.Run("cancellation revokes access", func(t *testing.T) {
		require.NoError(t, relRepo.Cancel(ctx, relID))

		_, err := svc.ListForClient(ctx, clientID, coachID)
		assert.ErrorIs(t, err, ErrNotSubscribed)
	})
}

func TestPlaybackURL(t *testing.T) {
	ctx := context.Background()
	svc, relRepo, _, coachID := videoFixture(t)
	clientID := primitive.NewObjectID()

	grant, err := svc.RequestUpload(ctx, coachID, "video/mp4")
	require.NoError(t, err)
	video, err := svc.ConfirmUpload(ctx, coachID, "Hip Hinge", "", grant.ObjectKey)
	require.NoError(t, err)

	t.Run("owner gets a presigned URL", func(t *testing.T) {
		url, err := svc.PlaybackURL(ctx, coachID, domain.RoleCoach, video.ID)
		require.NoError(t, err)
		assert.Contains(t, url, grant.ObjectKey)
	})

	t.Run("other coach is denied", func(t *testing.T) {
		_, err := svc.PlaybackURL(ctx, primitive.NewObjectID(), domain.RoleCoach, video.ID)
		assert.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("unsubscribed client is denied", func(t *testing.T) {
		_, err := svc.PlaybackURL(ctx, clientID, domain.RoleClient, video.ID)
		assert.ErrorIs(t, err, ErrNotSubscribed)
	})

	t.Run("active subscriber can play", func(t *testing.T) {
		relID := domain.DeriveRelationshipID(coachID, clientID)
		require.NoError(t, relRepo.UpsertActive(ctx, &domain.Relationship{ID: relID, CoachID: coachID, ClientID: clientID}))

		url, err := svc.PlaybackURL(ctx, clientID, domain.RoleClient, video.ID)
		require.NoError(t, err)
		assert.Contains(t, url, grant.ObjectKey)
	})

	t.Run("unknown video", func(t *testing.T) {
		_, err := svc.PlaybackURL(ctx, coachID, domain.RoleCoach, primitive.NewObjectID())
		assert.ErrorIs(t, err, ErrVideoNotFound)
	})
}

func TestDeleteVideo(t *testing.T) {
	ctx := context.Background()
	svc, _, fs, coachID := videoFixture(t)

	grant, err := svc.RequestUpload(ctx, coachID, "video/mp4")
	require.NoError(t, err)
	video, err := svc.ConfirmUpload(ctx, coachID, "Old Demo", "", grant.ObjectKey)
	require.NoError(t, err)

	t.Run("other coach cannot delete", func(t *testing.T) {
		err := svc.Delete(ctx, primitive.NewObjectID(), video.ID)
		assert.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("owner deletes metadata and blob", func(t *testing.T) {
		require.NoError(t, svc.Delete(ctx, coachID, video.ID))
		assert.Contains(t, fs.deleted, grant.ObjectKey)

		err := svc.Delete(ctx, coachID, video.ID)
		assert.ErrorIs(t, err, ErrVideoNotFound)
	})
}
