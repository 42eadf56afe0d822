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

type AppointmentRepo struct {
	appointments *mongo.Collection
	users        *mongo.Collection
	astros       *mongo.Collection
}

func NewAppointmentRepo(db *mongo.Database) *AppointmentRepo {
	return &AppointmentRepo{
		appointments: db.Collection(appointmentsCollection),
		users:        db.Collection(usersCollection),
		astros:       db.Collection(astrologersCollection),
	}
}

func (r *AppointmentRepo) Insert(ctx context.Context, a *domain.Appointment) (*domain.Appointment, error) {
	now := time.Now()
	a.CreatedAt = now
	a.UpdatedAt = now
	if a.Status == "" {
		a.Status = domain.StatusPending
	}

	res, err := r.appointments.InsertOne(ctx, a)
	if err != nil {
		return nil, err
	}
	a.ID = res.InsertedID.(primitive.ObjectID)
	return a, nil
}

// FindByID embeds the user (name, email) and astrologer (name,
// specialization) projections. Nothing else from either record leaks out.
func (r *AppointmentRepo) FindByID(ctx context.Context, id string) (*domain.PopulatedAppointment, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	var a domain.Appointment
	err = r.appointments.FindOne(ctx, bson.M{"_id": oid}).Decode(&a)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	populated, err := r.populate(ctx, []domain.Appointment{a})
	if err != nil {
		return nil, err
	}
	return &populated[0], nil
}

func (r *AppointmentRepo) FindAll(ctx context.Context) ([]domain.PopulatedAppointment, error) {
	cur, err := r.appointments.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	var appts []domain.Appointment
	if err := cur.All(ctx, &appts); err != nil {
		return nil, err
	}
	return r.populate(ctx, appts)
}

// populate resolves both reference fields for a batch of appointments
// with one $in query per collection, projected down to the embedded fields.
func (r *AppointmentRepo) populate(ctx context.Context, appts []domain.Appointment) ([]domain.PopulatedAppointment, error) {
	userIDs := make([]primitive.ObjectID, 0, len(appts))
	astroIDs := make([]primitive.ObjectID, 0, len(appts))
	for i := range appts {
		userIDs = append(userIDs, appts[i].UserID)
		astroIDs = append(astroIDs, appts[i].AstroID)
	}

	users := make(map[primitive.ObjectID]domain.AppointmentUser, len(userIDs))
	if len(userIDs) > 0 {
		cur, err := r.users.Find(ctx,
			bson.M{"_id": bson.M{"$in": userIDs}},
			options.Find().SetProjection(bson.M{"name": 1, "email": 1}),
		)
		if err != nil {
			return nil, err
		}
		var docs []struct {
			ID    primitive.ObjectID `bson:"_id"`
			Name  string             `bson:"name"`
			Email string             `bson:"email"`
		}
		if err := cur.All(ctx, &docs); err != nil {
			return nil, err
		}
		for _, d := range docs {
			users[d.ID] = domain.AppointmentUser{ID: d.ID, Name: d.Name, Email: d.Email}
		}
	}

	astros := make(map[primitive.ObjectID]domain.AppointmentAstro, len(astroIDs))
	if len(astroIDs) > 0 {
		cur, err := r.astros.Find(ctx,
			bson.M{"_id": bson.M{"$in": astroIDs}},
			options.Find().SetProjection(bson.M{"name": 1, "specialization": 1}),
		)
		if err != nil {
			return nil, err
		}
		var docs []struct {
			ID             primitive.ObjectID `bson:"_id"`
			Name           string             `bson:"name"`
			Specialization string             `bson:"specialization"`
		}
		if err := cur.All(ctx, &docs); err != nil {
			return nil, err
		}
		for _, d := range docs {
			astros[d.ID] = domain.AppointmentAstro{ID: d.ID, Name: d.Name, Specialization: d.Specialization}
		}
	}

	out := make([]domain.PopulatedAppointment, 0, len(appts))
	for i := range appts {
		out = append(out, *appts[i].Populate(users[appts[i].UserID], astros[appts[i].AstroID]))
	}
	return out, nil
}

// UpdateStatus sets only the status field. Set-membership is validated
// upstream; the store applies whatever it is given.
func (r *AppointmentRepo) UpdateStatus(ctx context.Context, id, status string) (*domain.Appointment, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	var a domain.Appointment
	err = r.appointments.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{"status": status, "updatedAt": time.Now()}},
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

func (r *AppointmentRepo) DeleteByID(ctx context.Context, id string) (*domain.Appointment, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	var a domain.Appointment
	err = r.appointments.FindOneAndDelete(ctx, bson.M{"_id": oid}).Decode(&a)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}
