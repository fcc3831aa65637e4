package service

import (
	"context"
	"time"

	"fitvibe/coach-app/internal/domain"
	"fitvibe/coach-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory repository fakes mirroring the Mongo implementations' contracts,
// including ErrNotFound sentinels and the upsert merge semantics.

type fakeUserRepo struct {
	users map[primitive.ObjectID]*domain.User
}

func newFakeUserRepo(users ...*domain.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[primitive.ObjectID]*domain.User)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error) {
	user.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now
	user.SearchKey = domain.BuildSearchKey(user.FirstName, user.LastName)
	cp := *user
	r.users[user.ID] = &cp
	return user.ID, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) UpdateName(ctx context.Context, id primitive.ObjectID, firstName, lastName, searchKey string) error {
	u, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.FirstName, u.LastName, u.SearchKey = firstName, lastName, searchKey
	u.UpdatedAt = time.Now().UTC()
	return nil
}

type fakeRelationshipRepo struct {
	rels map[string]*domain.Relationship
}

func newFakeRelationshipRepo() *fakeRelationshipRepo {
	return &fakeRelationshipRepo{rels: make(map[string]*domain.Relationship)}
}

func (r *fakeRelationshipRepo) UpsertActive(ctx context.Context, rel *domain.Relationship) error {
	now := time.Now().UTC()
	if existing, ok := r.rels[rel.ID]; ok {
		existing.Status = domain.RelationshipActive
		existing.ClientSearchKey = rel.ClientSearchKey
		existing.UpdatedAt = now
		return nil
	}
	cp := *rel
	cp.Status = domain.RelationshipActive
	cp.CreatedAt = now
	cp.UpdatedAt = now
	r.rels[cp.ID] = &cp
	return nil
}

func (r *fakeRelationshipRepo) Cancel(ctx context.Context, relationshipID string) error {
	rel, ok := r.rels[relationshipID]
	if !ok {
		return repository.ErrNotFound
	}
	rel.Status = domain.RelationshipCanceled
	rel.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *fakeRelationshipRepo) GetByID(ctx context.Context, relationshipID string) (*domain.Relationship, error) {
	rel, ok := r.rels[relationshipID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *rel
	return &cp, nil
}

func (r *fakeRelationshipRepo) ListActiveByCoach(ctx context.Context, coachID primitive.ObjectID) ([]domain.Relationship, error) {
	var out []domain.Relationship
	for _, rel := range r.rels {
		if rel.CoachID == coachID && rel.Status == domain.RelationshipActive {
			out = append(out, *rel)
		}
	}
	return out, nil
}

func (r *fakeRelationshipRepo) ListActiveByClient(ctx context.Context, clientID primitive.ObjectID) ([]domain.Relationship, error) {
	var out []domain.Relationship
	for _, rel := range r.rels {
		if rel.ClientID == clientID && rel.Status == domain.RelationshipActive {
			out = append(out, *rel)
		}
	}
	return out, nil
}

type fakePlanRepo struct {
	plans []*domain.Plan
}

func (r *fakePlanRepo) Create(ctx context.Context, plan *domain.Plan) (primitive.ObjectID, error) {
	cp := *plan
	cp.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	cp.CreatedAt = now
	cp.UpdatedAt = now
	r.plans = append(r.plans, &cp)
	return cp.ID, nil
}

func (r *fakePlanRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Plan, error) {
	for _, p := range r.plans {
		if p.ID == id {
			cp := *p
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakePlanRepo) ListByRelationship(ctx context.Context, relationshipID string, kind domain.PlanKind) ([]domain.Plan, error) {
	out := []domain.Plan{}
	for _, p := range r.plans {
		if p.RelationshipID == relationshipID && p.Kind == kind {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakePlanRepo) Update(ctx context.Context, plan *domain.Plan) error {
	for i, p := range r.plans {
		if p.ID == plan.ID {
			cp := *plan
			cp.UpdatedAt = time.Now().UTC()
			r.plans[i] = &cp
			return nil
		}
	}
	return repository.ErrNotFound
}

type fakeProgressRepo struct {
	entries map[string]*domain.ProgressEntry // keyed clientHex+"/"+date
}

func newFakeProgressRepo() *fakeProgressRepo {
	return &fakeProgressRepo{entries: make(map[string]*domain.ProgressEntry)}
}

func progressKey(clientID primitive.ObjectID, date string) string {
	return clientID.Hex() + "/" + date
}

func (r *fakeProgressRepo) AppendToDay(ctx context.Context, clientID primitive.ObjectID, date string, meals []domain.Meal, workouts []domain.WorkoutLog, weight *float64) error {
	key := progressKey(clientID, date)
	entry, ok := r.entries[key]
	if !ok {
		entry = &domain.ProgressEntry{
			ID:        primitive.NewObjectID(),
			ClientID:  clientID,
			Date:      date,
			Meals:     []domain.Meal{},
			Workouts:  []domain.WorkoutLog{},
			CreatedAt: time.Now().UTC(),
		}
		r.entries[key] = entry
	}
	domain.MergeProgress(entry, meals, workouts, weight)
	return nil
}

func (r *fakeProgressRepo) ListByClient(ctx context.Context, clientID primitive.ObjectID) ([]domain.ProgressEntry, error) {
	var out []domain.ProgressEntry
	for _, e := range r.entries {
		if e.ClientID == clientID {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (r *fakeProgressRepo) GetByDate(ctx context.Context, clientID primitive.ObjectID, date string) (*domain.ProgressEntry, error) {
	entry, ok := r.entries[progressKey(clientID, date)]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *entry
	return &cp, nil
}

type fakeMessageRepo struct {
	messages []*domain.Message
	now      time.Time
}

func (r *fakeMessageRepo) Create(ctx context.Context, msg *domain.Message) (primitive.ObjectID, error) {
	cp := *msg
	cp.ID = primitive.NewObjectID()
	cp.Seen = false
	// Monotonic server clock so ordering assertions are stable.
	r.now = r.now.Add(time.Millisecond)
	cp.SentAt = r.now
	r.messages = append(r.messages, &cp)
	msg.ID = cp.ID
	msg.SentAt = cp.SentAt
	return cp.ID, nil
}

func (r *fakeMessageRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Message, error) {
	for _, m := range r.messages {
		if m.ID == id {
			cp := *m
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeMessageRepo) ListByRelationship(ctx context.Context, relationshipID string) ([]domain.Message, error) {
	out := []domain.Message{}
	for _, m := range r.messages {
		if m.RelationshipID == relationshipID {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (r *fakeMessageRepo) MarkSeen(ctx context.Context, relationshipID string, messageID primitive.ObjectID) error {
	for _, m := range r.messages {
		if m.ID == messageID && m.RelationshipID == relationshipID {
			m.Seen = true
			return nil
		}
	}
	return repository.ErrNotFound
}

type fakeCoachProfileRepo struct {
	profiles map[primitive.ObjectID]*domain.CoachProfile
}

func newFakeCoachProfileRepo() *fakeCoachProfileRepo {
	return &fakeCoachProfileRepo{profiles: make(map[primitive.ObjectID]*domain.CoachProfile)}
}

func (r *fakeCoachProfileRepo) Upsert(ctx context.Context, profile *domain.CoachProfile) error {
	cp := *profile
	if existing, ok := r.profiles[profile.CoachID]; ok {
		cp.ID = existing.ID
		cp.ProfilePicture = existing.ProfilePicture
		cp.Gallery = existing.Gallery
		cp.CreatedAt = existing.CreatedAt
	} else {
		cp.ID = primitive.NewObjectID()
		cp.CreatedAt = time.Now().UTC()
	}
	cp.UpdatedAt = time.Now().UTC()
	r.profiles[cp.CoachID] = &cp
	return nil
}

func (r *fakeCoachProfileRepo) GetByCoachID(ctx context.Context, coachID primitive.ObjectID) (*domain.CoachProfile, error) {
	p, ok := r.profiles[coachID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakeCoachProfileRepo) List(ctx context.Context) ([]domain.CoachProfile, error) {
	out := []domain.CoachProfile{}
	for _, p := range r.profiles {
		out = append(out, *p)
	}
	return out, nil
}

func (r *fakeCoachProfileRepo) SetProfilePicture(ctx context.Context, coachID primitive.ObjectID, img *domain.ImageRef) error {
	p, ok := r.profiles[coachID]
	if !ok {
		return repository.ErrNotFound
	}
	p.ProfilePicture = img
	return nil
}

func (r *fakeCoachProfileRepo) AddGalleryImage(ctx context.Context, coachID primitive.ObjectID, img domain.ImageRef) error {
	p, ok := r.profiles[coachID]
	if !ok {
		return repository.ErrNotFound
	}
	p.Gallery = append(p.Gallery, img)
	return nil
}

func (r *fakeCoachProfileRepo) RemoveGalleryImage(ctx context.Context, coachID primitive.ObjectID, storagePath string) error {
	p, ok := r.profiles[coachID]
	if !ok {
		return repository.ErrNotFound
	}
	kept := p.Gallery[:0]
	for _, img := range p.Gallery {
		if img.StoragePath != storagePath {
			kept = append(kept, img)
		}
	}
	p.Gallery = kept
	return nil
}

type fakeMealBankRepo struct {
	entries []*domain.MealBankEntry
}

func (r *fakeMealBankRepo) Create(ctx context.Context, entry *domain.MealBankEntry) (primitive.ObjectID, error) {
	cp := *entry
	cp.ID = primitive.NewObjectID()
	cp.CreatedAt = time.Now().UTC()
	r.entries = append(r.entries, &cp)
	return cp.ID, nil
}

func (r *fakeMealBankRepo) ListByClient(ctx context.Context, clientID primitive.ObjectID) ([]domain.MealBankEntry, error) {
	out := []domain.MealBankEntry{}
	for _, e := range r.entries {
		if e.ClientID == clientID {
			out = append(out, *e)
		}
	}
	return out, nil
}
