package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
	"time"

	"astrologer-service/internal/domain"
)

type AstrologerUsecase struct {
	store  AstrologerStore
	cache  Cache
	events Publisher
	ttl    time.Duration
}

func NewAstrologerUsecase(store AstrologerStore, cache Cache, events Publisher, ttl time.Duration) *AstrologerUsecase {
	return &AstrologerUsecase{store: store, cache: cache, events: events, ttl: ttl}
}

// AstrologerInput is one candidate record for creation or batch generation.
type AstrologerInput struct {
	Name           string   `json:"name"`
	Email          string   `json:"email"`
	Specialization string   `json:"specialization"`
	Experience     int      `json:"experience"`
	IsTopAstro     bool     `json:"isTopAstro"`
	Availability   *bool    `json:"availability"`
	FlowMultiplier *float64 `json:"flow_multiplier"`
}

func (in *AstrologerInput) validate() error {
	if in.Name == "" {
		return fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	if in.Email == "" {
		return fmt.Errorf("%w: email is required", domain.ErrValidation)
	}
	return nil
}

type AstrologerBatchResult struct {
	Created []domain.Astrologer `json:"astrologers"`
	Failed  []string            `json:"failed"`
}

func (uc *AstrologerUsecase) Create(ctx context.Context, in AstrologerInput) (*domain.Astrologer, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	created, err := uc.createOne(ctx, in)
	if err != nil {
		return nil, err
	}
	uc.cache.Delete(ctx, astrologerListKeys()...)
	return created, nil
}

func (uc *AstrologerUsecase) createOne(ctx context.Context, in AstrologerInput) (*domain.Astrologer, error) {
	existing, err := uc.store.FindByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("astrologer with email %s already exists: %w", in.Email, domain.ErrEmailTaken)
	}

	availability := true
	if in.Availability != nil {
		availability = *in.Availability
	}
	flow := 1.0
	if in.FlowMultiplier != nil {
		flow = *in.FlowMultiplier
	}

	created, err := uc.store.Insert(ctx, &domain.Astrologer{
		Name:           in.Name,
		Email:          in.Email,
		Specialization: in.Specialization,
		Experience:     in.Experience,
		IsTopAstro:     in.IsTopAstro,
		Availability:   availability,
		FlowMultiplier: flow,
	})
	if err != nil {
		return nil, err
	}
	uc.publish("astrologers", "created", created.ID.Hex())
	return created, nil
}

// Generate registers a batch of astrologers with per-item outcomes and a
// single list invalidation at the end.
func (uc *AstrologerUsecase) Generate(ctx context.Context, items []AstrologerInput) (*AstrologerBatchResult, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: expected a non-empty array of astrologer objects", domain.ErrValidation)
	}
	for i := range items {
		if err := items[i].validate(); err != nil {
			return nil, err
		}
	}

	result := &AstrologerBatchResult{Created: []domain.Astrologer{}, Failed: []string{}}
	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	for i := range items {
		wg.Add(1)
		go func(in AstrologerInput) {
			defer wg.Done()
			created, err := uc.createOne(ctx, in)
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

	uc.cache.Delete(ctx, astrologerListKeys()...)
	return result, nil
}

// GetAll serves the list for the given optional isTopAstro filter.
// Each filter variant has its own cache key.
func (uc *AstrologerUsecase) GetAll(ctx context.Context, isTopAstro *bool) ([]domain.PopulatedAstrologer, error) {
	key := allAstrologersKey
	storeFilter := map[string]any{}
	if isTopAstro != nil {
		key = ListKey(allAstrologersKey, map[string]string{"isTopAstro": strconv.FormatBool(*isTopAstro)})
		storeFilter["isTopAstro"] = *isTopAstro
	}

	if raw, ok := uc.cache.Get(ctx, key); ok {
		var astros []domain.PopulatedAstrologer
		if err := json.Unmarshal([]byte(raw), &astros); err == nil {
			return astros, nil
		}
		uc.cache.Delete(ctx, key)
	}

	astros, err := uc.store.FindAll(ctx, storeFilter)
	if err != nil {
		return nil, err
	}
	uc.cacheSet(ctx, key, astros)
	return astros, nil
}

func (uc *AstrologerUsecase) GetByID(ctx context.Context, id string) (*domain.PopulatedAstrologer, error) {
	key := AstrologerKey(id)
	if raw, ok := uc.cache.Get(ctx, key); ok {
		var a domain.PopulatedAstrologer
		if err := json.Unmarshal([]byte(raw), &a); err == nil {
			return &a, nil
		}
		uc.cache.Delete(ctx, key)
	}

	a, err := uc.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, domain.ErrNotFound
	}
	uc.cacheSet(ctx, key, a)
	return a, nil
}

// Update applies a partial merge, then drops the single-entity key and
// every list variant so the next read recomputes.
func (uc *AstrologerUsecase) Update(ctx context.Context, id string, upd domain.AstrologerUpdate) (*domain.Astrologer, error) {
	updated, err := uc.store.UpdateByID(ctx, id, upd)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, domain.ErrNotFound
	}

	keys := append([]string{AstrologerKey(id)}, astrologerListKeys()...)
	uc.cache.Delete(ctx, keys...)
	uc.publish("astrologers", "updated", id)
	return updated, nil
}

func (uc *AstrologerUsecase) Delete(ctx context.Context, id string) (*domain.Astrologer, error) {
	deleted, err := uc.store.DeleteByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if deleted == nil {
		return nil, domain.ErrNotFound
	}

	keys := append([]string{AstrologerKey(id)}, astrologerListKeys()...)
	uc.cache.Delete(ctx, keys...)
	uc.publish("astrologers", "deleted", id)
	return deleted, nil
}

func (uc *AstrologerUsecase) cacheSet(ctx context.Context, key string, v any) {
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	uc.cache.Set(ctx, key, string(raw), uc.ttl)
}

func (uc *AstrologerUsecase) publish(entity, action, id string) {
	if uc.events != nil {
		uc.events.Publish(entity, action, id)
	}
}
