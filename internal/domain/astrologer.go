package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Astrologer struct {
	ID             primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Name           string              `bson:"name" json:"name"`
	Email          string              `bson:"email" json:"email"`
	Specialization string              `bson:"specialization" json:"specialization"`
	Experience     int                 `bson:"experience" json:"experience"`
	IsTopAstro     bool                `bson:"isTopAstro" json:"isTopAstro"`
	Availability   bool                `bson:"availability" json:"availability"`
	FlowMultiplier float64             `bson:"flow_multiplier" json:"flow_multiplier"`
	CurrConnection *primitive.ObjectID `bson:"curr_connections,omitempty" json:"curr_connections,omitempty"`
	CreatedAt      time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time           `bson:"updatedAt" json:"updatedAt"`
}

// PopulatedAstrologer resolves curr_connections into the appointment itself.
type PopulatedAstrologer struct {
	ID             primitive.ObjectID `json:"id"`
	Name           string             `json:"name"`
	Email          string             `json:"email"`
	Specialization string             `json:"specialization"`
	Experience     int                `json:"experience"`
	IsTopAstro     bool               `json:"isTopAstro"`
	Availability   bool               `json:"availability"`
	FlowMultiplier float64            `json:"flow_multiplier"`
	CurrConnection *Appointment       `json:"curr_connections,omitempty"`
	CreatedAt      time.Time          `json:"createdAt"`
	UpdatedAt      time.Time          `json:"updatedAt"`
}

func (a *Astrologer) Populate(conn *Appointment) *PopulatedAstrologer {
	return &PopulatedAstrologer{
		ID:             a.ID,
		Name:           a.Name,
		Email:          a.Email,
		Specialization: a.Specialization,
		Experience:     a.Experience,
		IsTopAstro:     a.IsTopAstro,
		Availability:   a.Availability,
		FlowMultiplier: a.FlowMultiplier,
		CurrConnection: conn,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}
}

// AstrologerUpdate carries a partial update; nil fields are left untouched.
type AstrologerUpdate struct {
	Name           *string  `json:"name"`
	Email          *string  `json:"email"`
	Specialization *string  `json:"specialization"`
	Experience     *int     `json:"experience"`
	IsTopAstro     *bool    `json:"isTopAstro"`
	Availability   *bool    `json:"availability"`
	FlowMultiplier *float64 `json:"flow_multiplier"`
	CurrConnection *string  `json:"curr_connections"`
}
