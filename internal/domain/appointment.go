package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// ValidStatus reports whether status is one of the enumerated values.
// There is no transition graph: any member of the set is accepted.
func ValidStatus(status string) bool {
	switch status {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

type Appointment struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID          primitive.ObjectID `bson:"userId" json:"userId"`
	AstroID         primitive.ObjectID `bson:"astroId" json:"astroId"`
	AppointmentDate time.Time          `bson:"appointmentDate" json:"appointmentDate"`
	Status          string             `bson:"status" json:"status"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// AppointmentUser is the projection of the booking user embedded on reads.
type AppointmentUser struct {
	ID    primitive.ObjectID `json:"id"`
	Name  string             `json:"name"`
	Email string             `json:"email"`
}

// AppointmentAstro is the projection of the astrologer embedded on reads.
type AppointmentAstro struct {
	ID             primitive.ObjectID `json:"id"`
	Name           string             `json:"name"`
	Specialization string             `json:"specialization"`
}

// PopulatedAppointment embeds the referenced user and astrologer projections
// under the reference field names, the way list and by-id reads return them.
type PopulatedAppointment struct {
	ID              primitive.ObjectID `json:"id"`
	User            AppointmentUser    `json:"userId"`
	Astro           AppointmentAstro   `json:"astroId"`
	AppointmentDate time.Time          `json:"appointmentDate"`
	Status          string             `json:"status"`
	CreatedAt       time.Time          `json:"createdAt"`
	UpdatedAt       time.Time          `json:"updatedAt"`
}

func (a *Appointment) Populate(user AppointmentUser, astro AppointmentAstro) *PopulatedAppointment {
	return &PopulatedAppointment{
		ID:              a.ID,
		User:            user,
		Astro:           astro,
		AppointmentDate: a.AppointmentDate,
		Status:          a.Status,
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}
}
