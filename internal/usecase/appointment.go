package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"astrologer-service/internal/domain"
)

type AppointmentUsecase struct {
	store  AppointmentStore
	cache  Cache
	events Publisher
	mailer Mailer
	ttl    time.Duration
}

func NewAppointmentUsecase(store AppointmentStore, cache Cache, events Publisher, mailer Mailer, ttl time.Duration) *AppointmentUsecase {
	return &AppointmentUsecase{store: store, cache: cache, events: events, mailer: mailer, ttl: ttl}
}

// AppointmentInput is a booking request. Status is not accepted from the
// caller; every appointment starts out pending.
type AppointmentInput struct {
	UserID          string    `json:"userId"`
	AstroID         string    `json:"astroId"`
	AppointmentDate time.Time `json:"appointmentDate"`
}

func (in *AppointmentInput) validate() error {
	if in.UserID == "" {
		return fmt.Errorf("%w: userId is required", domain.ErrValidation)
	}
	if in.AstroID == "" {
		return fmt.Errorf("%w: astroId is required", domain.ErrValidation)
	}
	if in.AppointmentDate.IsZero() {
		return fmt.Errorf("%w: appointmentDate is required", domain.ErrValidation)
	}
	return nil
}

func (uc *AppointmentUsecase) Create(ctx context.Context, in AppointmentInput) (*domain.Appointment, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	userID, err := primitive.ObjectIDFromHex(in.UserID)
	if err != nil {
		return nil, domain.ErrInvalidID
	}
	astroID, err := primitive.ObjectIDFromHex(in.AstroID)
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	created, err := uc.store.Insert(ctx, &domain.Appointment{
		UserID:          userID,
		AstroID:         astroID,
		AppointmentDate: in.AppointmentDate,
		Status:          domain.StatusPending,
	})
	if err != nil {
		return nil, err
	}
	uc.cache.Delete(ctx, allAppointmentsKey)
	uc.publish("appointments", "created", created.ID.Hex())
	return created, nil
}

func (uc *AppointmentUsecase) GetAll(ctx context.Context) ([]domain.PopulatedAppointment, error) {
	if raw, ok := uc.cache.Get(ctx, allAppointmentsKey); ok {
		var appts []domain.PopulatedAppointment
		if err := json.Unmarshal([]byte(raw), &appts); err == nil {
			return appts, nil
		}
		uc.cache.Delete(ctx, allAppointmentsKey)
	}

	appts, err := uc.store.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	uc.cacheSet(ctx, allAppointmentsKey, appts)
	return appts, nil
}

func (uc *AppointmentUsecase) GetByID(ctx context.Context, id string) (*domain.PopulatedAppointment, error) {
	key := AppointmentKey(id)
	if raw, ok := uc.cache.Get(ctx, key); ok {
		var a domain.PopulatedAppointment
		if err := json.Unmarshal([]byte(raw), &a); err == nil {
			return &a, nil
		}
		uc.cache.Delete(ctx, key)
	}

	a, err := uc.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, domain.ErrNotFound
	}
	uc.cacheSet(ctx, key, a)
	return a, nil
}

// UpdateStatus rejects anything outside the status enum before the store
// or the cache is touched. On success the single-entity snapshot is
// refreshed eagerly and the list cache invalidated, and the booking user
// is notified by email.
func (uc *AppointmentUsecase) UpdateStatus(ctx context.Context, id, status string) (*domain.PopulatedAppointment, error) {
	if !domain.ValidStatus(status) {
		return nil, domain.ErrInvalidStatus
	}

	updated, err := uc.store.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, domain.ErrNotFound
	}

	// drop the old snapshot first so a failed refresh cannot leave it behind
	uc.cache.Delete(ctx, AppointmentKey(id))
	populated, err := uc.store.FindByID(ctx, id)
	if err == nil && populated != nil {
		uc.cacheSet(ctx, AppointmentKey(id), populated)
		if uc.mailer != nil {
			uc.mailer.SendStatusUpdate(populated.User.Email, populated.User.Name, status, populated.AppointmentDate)
		}
	} else {
		populated = updated.Populate(
			domain.AppointmentUser{ID: updated.UserID},
			domain.AppointmentAstro{ID: updated.AstroID},
		)
	}
	uc.cache.Delete(ctx, allAppointmentsKey)
	uc.publish("appointments", "updated", id)
	return populated, nil
}

func (uc *AppointmentUsecase) Delete(ctx context.Context, id string) error {
	deleted, err := uc.store.DeleteByID(ctx, id)
	if err != nil {
		return err
	}
	if deleted == nil {
		return domain.ErrNotFound
	}
	uc.cache.Delete(ctx, AppointmentKey(id), allAppointmentsKey)
	uc.publish("appointments", "deleted", id)
	return nil
}

func (uc *AppointmentUsecase) cacheSet(ctx context.Context, key string, v any) {
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	uc.cache.Set(ctx, key, string(raw), uc.ttl)
}

func (uc *AppointmentUsecase) publish(entity, action, id string) {
	if uc.events != nil {
		uc.events.Publish(entity, action, id)
	}
}
