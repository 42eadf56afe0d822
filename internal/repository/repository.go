package repository

import (
	"astrologer-service/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	usersCollection        = "users"
	astrologersCollection  = "astrologers"
	appointmentsCollection = "appointments"
)

// objectID parses a hex id from the request path. A malformed id maps to
// ErrInvalidID so handlers can answer 400 instead of a store error.
func objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, domain.ErrInvalidID
	}
	return oid, nil
}
