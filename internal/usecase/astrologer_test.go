package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"astrologer-service/internal/domain"
)

func newAstrologerFixture() (*AstrologerUsecase, *fakeAstrologerStore, *fakeCache, *fakeEvents) {
	store := newFakeAstrologerStore()
	cache := newFakeCache()
	events := &fakeEvents{}
	uc := NewAstrologerUsecase(store, cache, events, time.Hour)
	return uc, store, cache, events
}

func createAstrologer(t *testing.T, uc *AstrologerUsecase, name, email string, top bool) *domain.Astrologer {
	t.Helper()
	a, err := uc.Create(context.Background(), AstrologerInput{
		Name:           name,
		Email:          email,
		Specialization: "Vedic",
		Experience:     5,
		IsTopAstro:     top,
	})
	require.NoError(t, err)
	return a
}

func TestAstrologerCreateDefaults(t *testing.T) {
	uc, _, _, events := newAstrologerFixture()

	a := createAstrologer(t, uc, "Guru", "guru@example.com", false)
	assert.True(t, a.Availability, "availability defaults to true")
	assert.Equal(t, 1.0, a.FlowMultiplier, "flow multiplier defaults to 1.0")
	assert.True(t, events.has("astrologers.created"))
}

func TestAstrologerCreateDuplicateEmail(t *testing.T) {
	uc, store, _, _ := newAstrologerFixture()
	createAstrologer(t, uc, "Guru", "guru@example.com", false)

	_, err := uc.Create(context.Background(), AstrologerInput{Name: "Other", Email: "guru@example.com"})
	assert.ErrorIs(t, err, domain.ErrEmailTaken)
	assert.Equal(t, 1, store.inserts)
}

func TestAstrologerCreateInvalidatesEveryListVariant(t *testing.T) {
	uc, _, cache, _ := newAstrologerFixture()
	for _, key := range astrologerListKeys() {
		cache.Set(context.Background(), key, "[]", time.Hour)
	}

	createAstrologer(t, uc, "Guru", "guru@example.com", true)

	for _, key := range astrologerListKeys() {
		assert.False(t, cache.has(key), "list variant %q must be invalidated", key)
	}
}

func TestAstrologerGetAllFilterVariantsAreIndependent(t *testing.T) {
	uc, store, cache, _ := newAstrologerFixture()
	createAstrologer(t, uc, "Guru", "guru@example.com", true)
	createAstrologer(t, uc, "Pandit", "pandit@example.com", false)

	all, err := uc.GetAll(context.Background(), nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	top := true
	tops, err := uc.GetAll(context.Background(), &top)
	require.NoError(t, err)
	require.Len(t, tops, 1)
	assert.Equal(t, "Guru", tops[0].Name)
	assert.Equal(t, 2, store.finds, "each filter variant computes its own snapshot")

	// both variants now live under distinct keys and serve from cache
	assert.True(t, cache.has(allAstrologersKey))
	assert.True(t, cache.has(ListKey(allAstrologersKey, map[string]string{"isTopAstro": "true"})))

	_, err = uc.GetAll(context.Background(), nil)
	require.NoError(t, err)
	_, err = uc.GetAll(context.Background(), &top)
	require.NoError(t, err)
	assert.Equal(t, 2, store.finds)
}

func TestAstrologerGetByIDCacheAside(t *testing.T) {
	uc, store, cache, _ := newAstrologerFixture()
	created := createAstrologer(t, uc, "Guru", "guru@example.com", false)
	id := created.ID.Hex()

	got, err := uc.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "Guru", got.Name)
	assert.True(t, cache.has(AstrologerKey(id)))
	assert.Equal(t, time.Hour, cache.ttls[AstrologerKey(id)])

	_, err = uc.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, 1, store.finds)
}

func TestAstrologerUpdateDropsSnapshots(t *testing.T) {
	uc, store, cache, events := newAstrologerFixture()
	created := createAstrologer(t, uc, "Guru", "guru@example.com", false)
	id := created.ID.Hex()

	_, err := uc.GetByID(context.Background(), id)
	require.NoError(t, err)
	_, err = uc.GetAll(context.Background(), nil)
	require.NoError(t, err)

	top := true
	updated, err := uc.Update(context.Background(), id, domain.AstrologerUpdate{IsTopAstro: &top})
	require.NoError(t, err)
	assert.True(t, updated.IsTopAstro)

	assert.False(t, cache.has(AstrologerKey(id)))
	assert.False(t, cache.has(allAstrologersKey))
	assert.True(t, events.has("astrologers.updated"))

	// the next read recomputes from the store
	findsBefore := store.finds
	got, err := uc.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.True(t, got.IsTopAstro)
	assert.Equal(t, findsBefore+1, store.finds)
}

func TestAstrologerUpdateNotFound(t *testing.T) {
	uc, _, _, _ := newAstrologerFixture()
	name := "Nobody"
	_, err := uc.Update(context.Background(), "bffffffffffffffffffffff1", domain.AstrologerUpdate{Name: &name})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAstrologerDelete(t *testing.T) {
	uc, _, cache, events := newAstrologerFixture()
	created := createAstrologer(t, uc, "Guru", "guru@example.com", true)
	id := created.ID.Hex()

	_, err := uc.GetByID(context.Background(), id)
	require.NoError(t, err)
	top := true
	_, err = uc.GetAll(context.Background(), &top)
	require.NoError(t, err)

	deleted, err := uc.Delete(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, created.ID, deleted.ID)
	assert.False(t, cache.has(AstrologerKey(id)))
	for _, key := range astrologerListKeys() {
		assert.False(t, cache.has(key))
	}
	assert.True(t, events.has("astrologers.deleted"))

	_, err = uc.GetByID(context.Background(), id)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = uc.Delete(context.Background(), id)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAstrologerGenerateBatch(t *testing.T) {
	uc, store, cache, _ := newAstrologerFixture()
	createAstrologer(t, uc, "Guru", "guru@example.com", false)
	deletesBefore := cache.deleteCount(allAstrologersKey)

	result, err := uc.Generate(context.Background(), []AstrologerInput{
		{Name: "Pandit", Email: "pandit@example.com"},
		{Name: "Dup", Email: "guru@example.com"},
	})
	require.NoError(t, err)
	assert.Len(t, result.Created, 1)
	require.Len(t, result.Failed, 1)
	assert.Contains(t, result.Failed[0], "guru@example.com")
	assert.Equal(t, 2, store.inserts)
	assert.Equal(t, deletesBefore+1, cache.deleteCount(allAstrologersKey))
}

func TestAstrologerGenerateRejectsEmpty(t *testing.T) {
	uc, _, _, _ := newAstrologerFixture()
	_, err := uc.Generate(context.Background(), []AstrologerInput{})
	assert.ErrorIs(t, err, domain.ErrValidation)
}
