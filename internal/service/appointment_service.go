package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fitvibe/coach-app/internal/domain"
	"fitvibe/coach-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrAppointmentNotFound = errors.New("appointment not found")
)

// AppointmentService manages a coach's schedule entries.
type AppointmentService interface {
	Create(ctx context.Context, coachID primitive.ObjectID, clientID *primitive.ObjectID, title string, startsAt, endsAt time.Time, notes string) (*domain.Appointment, error)
	List(ctx context.Context, coachID primitive.ObjectID) ([]domain.Appointment, error)
	Update(ctx context.Context, coachID, apptID primitive.ObjectID, clientID *primitive.ObjectID, title string, startsAt, endsAt time.Time, notes string) (*domain.Appointment, error)
	Delete(ctx context.Context, coachID, apptID primitive.ObjectID) error
}

// appointmentService implements the AppointmentService interface.
type appointmentService struct {
	appointmentRepo repository.AppointmentRepository
}

// NewAppointmentService creates a new instance of appointmentService.
func NewAppointmentService(appointmentRepo repository.AppointmentRepository) AppointmentService {
	return &appointmentService{appointmentRepo: appointmentRepo}
}

func validateAppointment(title string, startsAt, endsAt time.Time) error {
	if title == "" {
		return fmt.Errorf("%w: appointment title is required", ErrValidation)
	}
	if startsAt.IsZero() || endsAt.IsZero() || !endsAt.After(startsAt) {
		return fmt.Errorf("%w: appointment must end after it starts", ErrValidation)
	}
	return nil
}

// Create adds a schedule entry for the coach.
func (s *appointmentService) Create(ctx context.Context, coachID primitive.ObjectID, clientID *primitive.ObjectID, title string, startsAt, endsAt time.Time, notes string) (*domain.Appointment, error) {
	if coachID == primitive.NilObjectID {
		return nil, fmt.Errorf("%w: coach ID is required", ErrValidation)
	}
	if err := validateAppointment(title, startsAt, endsAt); err != nil {
		return nil, err
	}

	appt := &domain.Appointment{
		CoachID:  coachID,
		ClientID: clientID,
		Title:    title,
		StartsAt: startsAt,
		EndsAt:   endsAt,
		Notes:    notes,
	}
	apptID, err := s.appointmentRepo.Create(ctx, appt)
	if err != nil {
		return nil, err
	}
	appt.ID = apptID
	return appt, nil
}

// List returns the coach's schedule ordered by start time.
func (s *appointmentService) List(ctx context.Context, coachID primitive.ObjectID) ([]domain.Appointment, error) {
	if coachID == primitive.NilObjectID {
		return nil, fmt.Errorf("%w: coach ID is required", ErrValidation)
	}
	return s.appointmentRepo.ListByCoach(ctx, coachID)
}

// Update overwrites a schedule entry. Ownership is enforced by the
// repository filter.
func (s *appointmentService) Update(ctx context.Context, coachID, apptID primitive.ObjectID, clientID *primitive.ObjectID, title string, startsAt, endsAt time.Time, notes string) (*domain.Appointment, error) {
	if coachID == primitive.NilObjectID || apptID == primitive.NilObjectID {
		return nil, fmt.Errorf("%w: coach ID and appointment ID are required", ErrValidation)
	}
	if err := validateAppointment(title, startsAt, endsAt); err != nil {
		return nil, err
	}

	appt := &domain.Appointment{
		ID:       apptID,
		CoachID:  coachID,
		ClientID: clientID,
		Title:    title,
		StartsAt: startsAt,
		EndsAt:   endsAt,
		Notes:    notes,
	}
	if err := s.appointmentRepo.Update(ctx, appt); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAppointmentNotFound
		}
		return nil, err
	}
	return appt, nil
}

// Delete removes a schedule entry.
func (s *appointmentService) Delete(ctx context.Context, coachID, apptID primitive.ObjectID) error {
	if coachID == primitive.NilObjectID || apptID == primitive.NilObjectID {
		return fmt.Errorf("%w: coach ID and appointment ID are required", ErrValidation)
	}
	if err := s.appointmentRepo.Delete(ctx, apptID, coachID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrAppointmentNotFound
		}
		return err
	}
	return nil
}
