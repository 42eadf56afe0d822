package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// ValidRole reports whether role is one of the enumerated roles.
func ValidRole(role string) bool {
	return role == RoleUser || role == RoleAdmin
}

type User struct {
	ID                 primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Name               string              `bson:"name" json:"name"`
	Email              string              `bson:"email" json:"email"`
	Password           string              `bson:"password" json:"-"`
	Role               string              `bson:"role" json:"role"`
	AssignedAstrologer *primitive.ObjectID `bson:"assignedAstrologer,omitempty" json:"assignedAstrologer,omitempty"`
	CreatedAt          time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt          time.Time           `bson:"updatedAt" json:"updatedAt"`
}

// PopulatedUser is a User with the assignedAstrologer reference resolved.
// This is the shape served to clients and snapshotted into the cache.
type PopulatedUser struct {
	ID                 primitive.ObjectID `json:"id"`
	Name               string             `json:"name"`
	Email              string             `json:"email"`
	Role               string             `json:"role"`
	AssignedAstrologer *Astrologer        `json:"assignedAstrologer,omitempty"`
	CreatedAt          time.Time          `json:"createdAt"`
	UpdatedAt          time.Time          `json:"updatedAt"`
}

// Populate resolves the user's astrologer reference. astro may be nil.
func (u *User) Populate(astro *Astrologer) *PopulatedUser {
	return &PopulatedUser{
		ID:                 u.ID,
		Name:               u.Name,
		Email:              u.Email,
		Role:               u.Role,
		AssignedAstrologer: astro,
		CreatedAt:          u.CreatedAt,
		UpdatedAt:          u.UpdatedAt,
	}
}

// UserUpdate carries a partial update; nil fields are left untouched.
type UserUpdate struct {
	Name               *string `json:"name"`
	Email              *string `json:"email"`
	Password           *string `json:"password"`
	Role               *string `json:"role"`
	AssignedAstrologer *string `json:"assignedAstrologer"`
}
