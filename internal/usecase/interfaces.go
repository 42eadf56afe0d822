package usecase

import (
	"context"
	"time"

	"astrologer-service/internal/domain"
)

// Cache is the side-cache contract. Implementations must treat a down
// connection as absence: Get misses and Set is silently skipped. Delete
// must still be attempted so invalidation is never lost to a connection
// that only looks down. The cache is disposable; dropping it entirely
// loses no data.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, value string, ttl time.Duration)
	Delete(ctx context.Context, keys ...string)
}

// Publisher emits entity events after successful writes. Publishing
// must never fail the write that triggered it.
type Publisher interface {
	Publish(entity, action, entityID string)
}

// TokenIssuer mints a bearer credential for a caller identity.
type TokenIssuer interface {
	GenerateToken(userID, role string) (string, error)
}

// Mailer notifies a user about an appointment status change.
type Mailer interface {
	SendStatusUpdate(toEmail, toName, status string, date time.Time)
}

// UserStore is the persistent collection for users. Find methods return
// nil without error when no record matches.
type UserStore interface {
	Insert(ctx context.Context, u *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.PopulatedUser, error)
	FindAll(ctx context.Context) ([]domain.PopulatedUser, error)
	UpdateByID(ctx context.Context, id string, upd domain.UserUpdate) (*domain.User, error)
	DeleteByID(ctx context.Context, id string) (*domain.User, error)
}

// AstrologerStore is the persistent collection for astrologers.
type AstrologerStore interface {
	Insert(ctx context.Context, a *domain.Astrologer) (*domain.Astrologer, error)
	FindByEmail(ctx context.Context, email string) (*domain.Astrologer, error)
	FindByID(ctx context.Context, id string) (*domain.PopulatedAstrologer, error)
	FindAll(ctx context.Context, filter map[string]any) ([]domain.PopulatedAstrologer, error)
	UpdateByID(ctx context.Context, id string, upd domain.AstrologerUpdate) (*domain.Astrologer, error)
	DeleteByID(ctx context.Context, id string) (*domain.Astrologer, error)
}

// AppointmentStore is the persistent collection for appointments.
type AppointmentStore interface {
	Insert(ctx context.Context, a *domain.Appointment) (*domain.Appointment, error)
	FindByID(ctx context.Context, id string) (*domain.PopulatedAppointment, error)
	FindAll(ctx context.Context) ([]domain.PopulatedAppointment, error)
	UpdateStatus(ctx context.Context, id, status string) (*domain.Appointment, error)
	DeleteByID(ctx context.Context, id string) (*domain.Appointment, error)
}
