package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"astrologer-service/internal/domain"
)

type UserUsecase struct {
	store  UserStore
	cache  Cache
	tokens TokenIssuer
	events Publisher
	ttl    time.Duration
}

func NewUserUsecase(store UserStore, cache Cache, tokens TokenIssuer, events Publisher, ttl time.Duration) *UserUsecase {
	return &UserUsecase{store: store, cache: cache, tokens: tokens, events: events, ttl: ttl}
}

// UserInput is one candidate record for registration or batch generation.
type UserInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func (in *UserInput) validate() error {
	if in.Name == "" {
		return fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	if in.Email == "" {
		return fmt.Errorf("%w: email is required", domain.ErrValidation)
	}
	if in.Password == "" {
		return fmt.Errorf("%w: password is required", domain.ErrValidation)
	}
	if in.Role != "" && !domain.ValidRole(in.Role) {
		return domain.ErrInvalidRole
	}
	return nil
}

// UserBatchResult aggregates per-item outcomes of a batch registration.
type UserBatchResult struct {
	Created []domain.User `json:"users"`
	Failed  []string      `json:"failed"`
}

// Register creates a single user and issues a token for it.
func (uc *UserUsecase) Register(ctx context.Context, in UserInput) (*domain.User, string, error) {
	if err := in.validate(); err != nil {
		return nil, "", err
	}

	created, err := uc.registerOne(ctx, in)
	if err != nil {
		return nil, "", err
	}
	uc.cache.Delete(ctx, allUsersKey)

	token, err := uc.tokens.GenerateToken(created.ID.Hex(), created.Role)
	if err != nil {
		return nil, "", err
	}
	return created, token, nil
}

// registerOne is the shared per-record path for Register and Generate.
// It checks email uniqueness and persists, but leaves cache invalidation
// to the caller so a batch invalidates once.
func (uc *UserUsecase) registerOne(ctx context.Context, in UserInput) (*domain.User, error) {
	existing, err := uc.store.FindByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("user with email %s already exists: %w", in.Email, domain.ErrEmailTaken)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	created, err := uc.store.Insert(ctx, &domain.User{
		Name:     in.Name,
		Email:    in.Email,
		Password: string(hash),
		Role:     in.Role,
	})
	if err != nil {
		return nil, err
	}
	uc.publish("users", "created", created.ID.Hex())
	return created, nil
}

// Generate registers a batch of users. Items fail or succeed
// independently; the list cache is invalidated once for the whole batch.
func (uc *UserUsecase) Generate(ctx context.Context, items []UserInput) (*UserBatchResult, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: expected a non-empty array of user objects", domain.ErrValidation)
	}
	for i := range items {
		if err := items[i].validate(); err != nil {
			return nil, err
		}
	}

	result := &UserBatchResult{Created: []domain.User{}, Failed: []string{}}
	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	for i := range items {
		wg.Add(1)
		go func(in UserInput) {
			defer wg.Done()
			created, err := uc.registerOne(ctx, in)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				result.Failed = append(result.Failed, err.Error())
				return
			}
			result.Created = append(result.Created, *created)
		}(items[i])
	}
	wg.Wait()

	uc.cache.Delete(ctx, allUsersKey)
	return result, nil
}

// Login checks credentials and issues a token. An unknown email is
// not-found; a wrong password is a credentials failure.
func (uc *UserUsecase) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	u, err := uc.store.FindByEmail(ctx, email)
	if err != nil {
		return nil, "", err
	}
	if u == nil {
		return nil, "", domain.ErrNotFound
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) != nil {
		return nil, "", domain.ErrBadCredentials
	}

	token, err := uc.tokens.GenerateToken(u.ID.Hex(), u.Role)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

// GetByID serves the cached snapshot when present; otherwise it reads
// through the store, caches the populated result and returns it.
func (uc *UserUsecase) GetByID(ctx context.Context, id string) (*domain.PopulatedUser, error) {
	key := UserKey(id)
	if raw, ok := uc.cache.Get(ctx, key); ok {
		var u domain.PopulatedUser
		if err := json.Unmarshal([]byte(raw), &u); err == nil {
			return &u, nil
		}
		// unreadable snapshot: the store wins, drop the entry
		uc.cache.Delete(ctx, key)
	}

	u, err := uc.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		// never cache a negative result
		return nil, domain.ErrNotFound
	}
	uc.cacheSet(ctx, key, u)
	return u, nil
}

func (uc *UserUsecase) GetAll(ctx context.Context) ([]domain.PopulatedUser, error) {
	if raw, ok := uc.cache.Get(ctx, allUsersKey); ok {
		var users []domain.PopulatedUser
		if err := json.Unmarshal([]byte(raw), &users); err == nil {
			return users, nil
		}
		uc.cache.Delete(ctx, allUsersKey)
	}

	users, err := uc.store.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	uc.cacheSet(ctx, allUsersKey, users)
	return users, nil
}

// Update applies a partial merge, refreshes the single-entity snapshot
// with the fresh value and invalidates the list cache.
func (uc *UserUsecase) Update(ctx context.Context, id string, upd domain.UserUpdate) (*domain.PopulatedUser, error) {
	if upd.Role != nil && !domain.ValidRole(*upd.Role) {
		return nil, domain.ErrInvalidRole
	}
	if upd.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*upd.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		hashed := string(hash)
		upd.Password = &hashed
	}

	updated, err := uc.store.UpdateByID(ctx, id, upd)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, domain.ErrNotFound
	}

	// drop the old snapshot first: if the refresh write cannot land,
	// the entry must be gone rather than stale
	uc.cache.Delete(ctx, UserKey(id))
	populated, err := uc.store.FindByID(ctx, id)
	if err == nil && populated != nil {
		uc.cacheSet(ctx, UserKey(id), populated)
	} else {
		populated = updated.Populate(nil)
	}
	uc.cache.Delete(ctx, allUsersKey)
	uc.publish("users", "updated", id)
	return populated, nil
}

func (uc *UserUsecase) Delete(ctx context.Context, id string) error {
	deleted, err := uc.store.DeleteByID(ctx, id)
	if err != nil {
		return err
	}
	if deleted == nil {
		return domain.ErrNotFound
	}
	uc.cache.Delete(ctx, UserKey(id), allUsersKey)
	uc.publish("users", "deleted", id)
	return nil
}

func (uc *UserUsecase) cacheSet(ctx context.Context, key string, v any) {
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	uc.cache.Set(ctx, key, string(raw), uc.ttl)
}

func (uc *UserUsecase) publish(entity, action, id string) {
	if uc.events != nil {
		uc.events.Publish(entity, action, id)
	}
}
