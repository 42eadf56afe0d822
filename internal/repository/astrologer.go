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

type AstrologerRepo struct {
	astros       *mongo.Collection
	appointments *mongo.Collection
}

func NewAstrologerRepo(db *mongo.Database) *AstrologerRepo {
	return &AstrologerRepo{
		astros:       db.Collection(astrologersCollection),
		appointments: db.Collection(appointmentsCollection),
	}
}

func (r *AstrologerRepo) Insert(ctx context.Context, a *domain.Astrologer) (*domain.Astrologer, error) {
	now := time.Now()
	a.CreatedAt = now
	a.UpdatedAt = now

	res, err := r.astros.InsertOne(ctx, a)
	if err != nil {
		return nil, err
	}
	a.ID = res.InsertedID.(primitive.ObjectID)
	return a, nil
}

// FindByEmail returns nil without error when no astrologer matches.
func (r *AstrologerRepo) FindByEmail(ctx context.Context, email string) (*domain.Astrologer, error) {
	var a domain.Astrologer
	err := r.astros.FindOne(ctx, bson.M{"email": email}).Decode(&a)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// FindByID resolves the curr_connections reference before returning.
func (r *AstrologerRepo) FindByID(ctx context.Context, id string) (*domain.PopulatedAstrologer, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	var a domain.Astrologer
	err = r.astros.FindOne(ctx, bson.M{"_id": oid}).Decode(&a)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	conn, err := r.currentConnection(ctx, &a)
	if err != nil {
		return nil, err
	}
	return a.Populate(conn), nil
}

// FindAll returns astrologers matching the optional isTopAstro filter.
// filter is a bson.M so additional dimensions slot in without a new method.
func (r *AstrologerRepo) FindAll(ctx context.Context, filter map[string]any) ([]domain.PopulatedAstrologer, error) {
	q := bson.M{}
	for k, v := range filter {
		q[k] = v
	}

	cur, err := r.astros.Find(ctx, q)
	if err != nil {
		return nil, err
	}
	var astros []domain.Astrologer
	if err := cur.All(ctx, &astros); err != nil {
		return nil, err
	}

	conns, err := r.referencedAppointments(ctx, astros)
	if err != nil {
		return nil, err
	}

	out := make([]domain.PopulatedAstrologer, 0, len(astros))
	for i := range astros {
		var conn *domain.Appointment
		if ref := astros[i].CurrConnection; ref != nil {
			conn = conns[*ref]
		}
		out = append(out, *astros[i].Populate(conn))
	}
	return out, nil
}

func (r *AstrologerRepo) currentConnection(ctx context.Context, a *domain.Astrologer) (*domain.Appointment, error) {
	if a.CurrConnection == nil {
		return nil, nil
	}
	var appt domain.Appointment
	err := r.appointments.FindOne(ctx, bson.M{"_id": *a.CurrConnection}).Decode(&appt)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &appt, nil
}

func (r *AstrologerRepo) referencedAppointments(ctx context.Context, astros []domain.Astrologer) (map[primitive.ObjectID]*domain.Appointment, error) {
	ids := make([]primitive.ObjectID, 0)
	seen := make(map[primitive.ObjectID]bool)
	for i := range astros {
		if ref := astros[i].CurrConnection; ref != nil && !seen[*ref] {
			seen[*ref] = true
			ids = append(ids, *ref)
		}
	}
	byID := make(map[primitive.ObjectID]*domain.Appointment, len(ids))
	if len(ids) == 0 {
		return byID, nil
	}

	cur, err := r.appointments.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	var appts []domain.Appointment
	if err := cur.All(ctx, &appts); err != nil {
		return nil, err
	}
	for i := range appts {
		byID[appts[i].ID] = &appts[i]
	}
	return byID, nil
}

func (r *AstrologerRepo) UpdateByID(ctx context.Context, id string, upd domain.AstrologerUpdate) (*domain.Astrologer, error) {
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
	if upd.Specialization != nil {
		set["specialization"] = *upd.Specialization
	}
	if upd.Experience != nil {
		set["experience"] = *upd.Experience
	}
	if upd.IsTopAstro != nil {
		set["isTopAstro"] = *upd.IsTopAstro
	}
	if upd.Availability != nil {
		set["availability"] = *upd.Availability
	}
	if upd.FlowMultiplier != nil {
		set["flow_multiplier"] = *upd.FlowMultiplier
	}
	if upd.CurrConnection != nil {
		connID, err := objectID(*upd.CurrConnection)
		if err != nil {
			return nil, err
		}
		set["curr_connections"] = connID
	}

	var a domain.Astrologer
	err = r.astros.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&a)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AstrologerRepo) DeleteByID(ctx context.Context, id string) (*domain.Astrologer, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	var a domain.Astrologer
	err = r.astros.FindOneAndDelete(ctx, bson.M{"_id": oid}).Decode(&a)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}
