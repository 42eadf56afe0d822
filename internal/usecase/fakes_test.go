package usecase

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"astrologer-service/internal/domain"
)

// fakeCache is an in-memory Cache. It records TTLs and every delete so
// tests can assert invalidation, and can play dead like a dropped
// Redis connection.
type fakeCache struct {
	mu      sync.Mutex
	data    map[string]string
	ttls    map[string]time.Duration
	deleted []string
	sets    int
	down    bool
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (f *fakeCache) Get(_ context.Context, key string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.down {
		return "", false
	}
	v, ok := f.data[key]
	return v, ok
}

func (f *fakeCache) Set(_ context.Context, key, value string, ttl time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.down {
		return
	}
	f.data[key] = value
	f.ttls[key] = ttl
	f.sets++
}

// Delete lands even in down mode: invalidation is attempted regardless
// of how the connection looks, matching the Cache contract.
func (f *fakeCache) Delete(_ context.Context, keys ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, keys...)
	for _, k := range keys {
		delete(f.data, k)
	}
}

func (f *fakeCache) has(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.data[key]
	return ok
}

func (f *fakeCache) raw(key string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.data[key]
}

func (f *fakeCache) deleteCount(key string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, k := range f.deleted {
		if k == key {
			n++
		}
	}
	return n
}

type fakeTokens struct{}

func (fakeTokens) GenerateToken(userID, role string) (string, error) {
	return "token-" + userID, nil
}

type fakeEvents struct {
	mu     sync.Mutex
	events []string
}

func (f *fakeEvents) Publish(entity, action, entityID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, entity+"."+action)
}

func (f *fakeEvents) has(subject string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.events {
		if e == subject {
			return true
		}
	}
	return false
}

type sentMail struct {
	To     string
	Status string
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []sentMail
}

func (f *fakeMailer) SendStatusUpdate(toEmail, _, status string, _ time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentMail{To: toEmail, Status: status})
}

// fakeUserStore implements UserStore in memory. finds counts the reads
// a cache hit is supposed to short-circuit.
type fakeUserStore struct {
	mu      sync.Mutex
	users   map[string]*domain.User
	astros  map[string]*domain.Astrologer
	finds   int
	inserts int
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: map[string]*domain.User{}, astros: map[string]*domain.Astrologer{}}
}

func (f *fakeUserStore) Insert(_ context.Context, u *domain.User) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	now := time.Now()
	u.ID = primitive.NewObjectID()
	u.CreatedAt = now
	u.UpdatedAt = now
	if u.Role == "" {
		u.Role = domain.RoleUser
	}
	cp := *u
	f.users[u.ID.Hex()] = &cp
	f.inserts++
	return u, nil
}

func (f *fakeUserStore) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeUserStore) FindByID(_ context.Context, id string) (*domain.PopulatedUser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.finds++
	u, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	var astro *domain.Astrologer
	if u.AssignedAstrologer != nil {
		astro = f.astros[u.AssignedAstrologer.Hex()]
	}
	return u.Populate(astro), nil
}

func (f *fakeUserStore) FindAll(_ context.Context) ([]domain.PopulatedUser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.finds++
	out := make([]domain.PopulatedUser, 0, len(f.users))
	for _, u := range f.users {
		var astro *domain.Astrologer
		if u.AssignedAstrologer != nil {
			astro = f.astros[u.AssignedAstrologer.Hex()]
		}
		out = append(out, *u.Populate(astro))
	}
	return out, nil
}

func (f *fakeUserStore) UpdateByID(_ context.Context, id string, upd domain.UserUpdate) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	if upd.Name != nil {
		u.Name = *upd.Name
	}
	if upd.Email != nil {
		u.Email = *upd.Email
	}
	if upd.Password != nil {
		u.Password = *upd.Password
	}
	if upd.Role != nil {
		u.Role = *upd.Role
	}
	if upd.AssignedAstrologer != nil {
		oid, err := primitive.ObjectIDFromHex(*upd.AssignedAstrologer)
		if err != nil {
			return nil, domain.ErrInvalidID
		}
		u.AssignedAstrologer = &oid
	}
	u.UpdatedAt = time.Now()
	cp := *u
	return &cp, nil
}

func (f *fakeUserStore) DeleteByID(_ context.Context, id string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	delete(f.users, id)
	return u, nil
}

// fakeAstrologerStore implements AstrologerStore in memory.
type fakeAstrologerStore struct {
	mu      sync.Mutex
	astros  map[string]*domain.Astrologer
	finds   int
	inserts int
}

func newFakeAstrologerStore() *fakeAstrologerStore {
	return &fakeAstrologerStore{astros: map[string]*domain.Astrologer{}}
}

func (f *fakeAstrologerStore) Insert(_ context.Context, a *domain.Astrologer) (*domain.Astrologer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	now := time.Now()
	a.ID = primitive.NewObjectID()
	a.CreatedAt = now
	a.UpdatedAt = now
	cp := *a
	f.astros[a.ID.Hex()] = &cp
	f.inserts++
	return a, nil
}

func (f *fakeAstrologerStore) FindByEmail(_ context.Context, email string) (*domain.Astrologer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.astros {
		if a.Email == email {
			cp := *a
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeAstrologerStore) FindByID(_ context.Context, id string) (*domain.PopulatedAstrologer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.finds++
	a, ok := f.astros[id]
	if !ok {
		return nil, nil
	}
	return a.Populate(nil), nil
}

func (f *fakeAstrologerStore) FindAll(_ context.Context, filter map[string]any) ([]domain.PopulatedAstrologer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.finds++
	out := make([]domain.PopulatedAstrologer, 0, len(f.astros))
	for _, a := range f.astros {
		if top, ok := filter["isTopAstro"]; ok && a.IsTopAstro != top.(bool) {
			continue
		}
		out = append(out, *a.Populate(nil))
	}
	return out, nil
}

func (f *fakeAstrologerStore) UpdateByID(_ context.Context, id string, upd domain.AstrologerUpdate) (*domain.Astrologer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.astros[id]
	if !ok {
		return nil, nil
	}
	if upd.Name != nil {
		a.Name = *upd.Name
	}
	if upd.Email != nil {
		a.Email = *upd.Email
	}
	if upd.Specialization != nil {
		a.Specialization = *upd.Specialization
	}
	if upd.Experience != nil {
		a.Experience = *upd.Experience
	}
	if upd.IsTopAstro != nil {
		a.IsTopAstro = *upd.IsTopAstro
	}
	if upd.Availability != nil {
		a.Availability = *upd.Availability
	}
	if upd.FlowMultiplier != nil {
		a.FlowMultiplier = *upd.FlowMultiplier
	}
	a.UpdatedAt = time.Now()
	cp := *a
	return &cp, nil
}

func (f *fakeAstrologerStore) DeleteByID(_ context.Context, id string) (*domain.Astrologer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.astros[id]
	if !ok {
		return nil, nil
	}
	delete(f.astros, id)
	return a, nil
}

// fakeAppointmentStore implements AppointmentStore in memory, with
// user and astrologer projections registered up front for populate.
type fakeAppointmentStore struct {
	mu            sync.Mutex
	appts         map[string]*domain.Appointment
	users         map[string]domain.AppointmentUser
	astros        map[string]domain.AppointmentAstro
	finds         int
	statusUpdates int
}

func newFakeAppointmentStore() *fakeAppointmentStore {
	return &fakeAppointmentStore{
		appts:  map[string]*domain.Appointment{},
		users:  map[string]domain.AppointmentUser{},
		astros: map[string]domain.AppointmentAstro{},
	}
}

func (f *fakeAppointmentStore) addUser(name, email string) primitive.ObjectID {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := primitive.NewObjectID()
	f.users[id.Hex()] = domain.AppointmentUser{ID: id, Name: name, Email: email}
	return id
}

func (f *fakeAppointmentStore) addAstro(name, specialization string) primitive.ObjectID {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := primitive.NewObjectID()
	f.astros[id.Hex()] = domain.AppointmentAstro{ID: id, Name: name, Specialization: specialization}
	return id
}

func (f *fakeAppointmentStore) Insert(_ context.Context, a *domain.Appointment) (*domain.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	now := time.Now()
	a.ID = primitive.NewObjectID()
	a.CreatedAt = now
	a.UpdatedAt = now
	if a.Status == "" {
		a.Status = domain.StatusPending
	}
	cp := *a
	f.appts[a.ID.Hex()] = &cp
	return a, nil
}

func (f *fakeAppointmentStore) FindByID(_ context.Context, id string) (*domain.PopulatedAppointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.finds++
	a, ok := f.appts[id]
	if !ok {
		return nil, nil
	}
	return a.Populate(f.users[a.UserID.Hex()], f.astros[a.AstroID.Hex()]), nil
}

func (f *fakeAppointmentStore) FindAll(_ context.Context) ([]domain.PopulatedAppointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.finds++
	out := make([]domain.PopulatedAppointment, 0, len(f.appts))
	for _, a := range f.appts {
		out = append(out, *a.Populate(f.users[a.UserID.Hex()], f.astros[a.AstroID.Hex()]))
	}
	return out, nil
}

func (f *fakeAppointmentStore) UpdateStatus(_ context.Context, id, status string) (*domain.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.appts[id]
	if !ok {
		return nil, nil
	}
	a.Status = status
	a.UpdatedAt = time.Now()
	f.statusUpdates++
	cp := *a
	return &cp, nil
}

func (f *fakeAppointmentStore) DeleteByID(_ context.Context, id string) (*domain.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.appts[id]
	if !ok {
		return nil, nil
	}
	delete(f.appts, id)
	return a, nil
}
