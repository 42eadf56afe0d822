package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"astrologer-service/internal/domain"
)

type UserRepo struct {
	users  *mongo.Collection
	astros *mongo.Collection
}

func NewUserRepo(db *mongo.Database) *UserRepo {
	return &UserRepo{
		users:  db.Collection(usersCollection),
		astros: db.Collection(astrologersCollection),
	}
}

func (r *UserRepo) Insert(ctx context.Context, u *domain.User) (*domain.User, error) {
	now := time.Now()
	u.CreatedAt = now
	u.UpdatedAt = now
	if u.Role == "" {
		u.Role = domain.RoleUser
	}

	res, err := r.users.InsertOne(ctx, u)
	if err != nil {
		return nil, err
	}
	u.ID = res.InsertedID.(primitive.ObjectID)
	return u, nil
}

// FindByEmail returns nil without error when no user matches.
func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	err := r.users.FindOne(ctx, bson.M{"email": email}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// FindByID resolves the assignedAstrologer reference before returning.
func (r *UserRepo) FindByID(ctx context.Context, id string) (*domain.PopulatedUser, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	var u domain.User
	err = r.users.FindOne(ctx, bson.M{"_id": oid}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var astro *domain.Astrologer
	if u.AssignedAstrologer != nil {
		var a domain.Astrologer
		err = r.astros.FindOne(ctx, bson.M{"_id": *u.AssignedAstrologer}).Decode(&a)
		if err == nil {
			astro = &a
		} else if !errors.Is(err, mongo.ErrNoDocuments) {
			return nil, err
		}
		// a dangling reference is served unpopulated
	}
	return u.Populate(astro), nil
}

func (r *UserRepo) FindAll(ctx context.Context) ([]domain.PopulatedUser, error) {
	cur, err := r.users.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	var users []domain.User
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}

	astros, err := r.referencedAstrologers(ctx, users)
	if err != nil {
		return nil, err
	}

	out := make([]domain.PopulatedUser, 0, len(users))
	for i := range users {
		var astro *domain.Astrologer
		if ref := users[i].AssignedAstrologer; ref != nil {
			astro = astros[*ref]
		}
		out = append(out, *users[i].Populate(astro))
	}
	return out, nil
}

// referencedAstrologers loads every assigned astrologer in one $in query.
func (r *UserRepo) referencedAstrologers(ctx context.Context, users []domain.User) (map[primitive.ObjectID]*domain.Astrologer, error) {
	ids := make([]primitive.ObjectID, 0)
	seen := make(map[primitive.ObjectID]bool)
	for i := range users {
		if ref := users[i].AssignedAstrologer; ref != nil && !seen[*ref] {
			seen[*ref] = true
			ids = append(ids, *ref)
		}
	}
	byID := make(map[primitive.ObjectID]*domain.Astrologer, len(ids))
	if len(ids) == 0 {
		return byID, nil
	}

	cur, err := r.astros.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	var astros []domain.Astrologer
	if err := cur.All(ctx, &astros); err != nil {
		return nil, err
	}
	for i := range astros {
		byID[astros[i].ID] = &astros[i]
	}
	return byID, nil
}

// UpdateByID applies a partial $set and returns the post-update record,
// or nil when the id does not exist.
func (r *UserRepo) UpdateByID(ctx context.Context, id string, upd domain.UserUpdate) (*domain.User, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	set := bson.M{"updatedAt": time.Now()}
	if upd.Name != nil {
		set["name"] = *upd.Name
	}
	if upd.Email != nil {
		set["email"] = *upd.Email
	}
	if upd.Password != nil {
		set["password"] = *upd.Password
	}
	if upd.Role != nil {
		set["role"] = *upd.Role
	}
	if upd.AssignedAstrologer != nil {
		astroID, err := objectID(*upd.AssignedAstrologer)
		if err != nil {
			return nil, err
		}
		set["assignedAstrologer"] = astroID
	}

	var u domain.User
	err = r.users.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// DeleteByID removes the record and returns it, or nil when absent.
func (r *UserRepo) DeleteByID(ctx context.Context, id string) (*domain.User, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	var u domain.User
	err = r.users.FindOneAndDelete(ctx, bson.M{"_id": oid}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}
