package catalog

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lukecc25/Flowershop/internal/domain"
)

type mockRepository struct {
	m       sync.RWMutex
	flowers map[int64]*domain.Flower
	err     error
}

func newMockRepository(flowers ...*domain.Flower) *mockRepository {
	m := &mockRepository{flowers: map[int64]*domain.Flower{}}
	for _, f := range flowers {
		m.flowers[f.ID] = f
	}
	return m
}

func (m *mockRepository) GetAll(_ context.Context, category string) ([]*domain.Flower, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	if m.err != nil {
		return nil, m.err
	}
	var result []*domain.Flower
	for _, f := range m.flowers {
		if category == "" || f.Category == category {
			result = append(result, f)
		}
	}
	return result, nil
}

func (m *mockRepository) GetByID(_ context.Context, id int64) (*domain.Flower, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	if m.err != nil {
		return nil, m.err
	}
	f, ok := m.flowers[id]
	if !ok {
		return nil, ErrFlowerNotFound
	}
	return f, nil
}

func (m *mockRepository) Categories(context.Context) ([]string, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	seen := map[string]bool{}
	var result []string
	for _, f := range m.flowers {
		if !seen[f.Category] {
			seen[f.Category] = true
			result = append(result, f.Category)
		}
	}
	return result, m.err
}

func (m *mockRepository) Add(_ context.Context, flower *domain.Flower) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	flower.ID = int64(len(m.flowers) + 1)
	m.flowers[flower.ID] = flower
	return nil
}

func (m *mockRepository) Update(_ context.Context, flower *domain.Flower) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	if _, ok := m.flowers[flower.ID]; !ok {
		return ErrFlowerNotFound
	}
	m.flowers[flower.ID] = flower
	return nil
}

func (m *mockRepository) Delete(_ context.Context, id int64) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	if _, ok := m.flowers[id]; !ok {
		return ErrFlowerNotFound
	}
	delete(m.flowers, id)
	return nil
}

type mockCache struct {
	m       sync.RWMutex
	flowers map[int64]*domain.Flower
}

func newMockCache() *mockCache {
	return &mockCache{flowers: map[int64]*domain.Flower{}}
}

func (m *mockCache) Get(_ context.Context, id int64) (*domain.Flower, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	f, ok := m.flowers[id]
	if !ok {
		return nil, ErrCacheMiss
	}
	return f, nil
}

func (m *mockCache) Set(_ context.Context, flower *domain.Flower) error {
	m.m.Lock()
	defer m.m.Unlock()
	m.flowers[flower.ID] = flower
	return nil
}

func (m *mockCache) Delete(_ context.Context, id int64) error {
	m.m.Lock()
	defer m.m.Unlock()
	delete(m.flowers, id)
	return nil
}

func (m *mockCache) get(id int64) *domain.Flower {
	m.m.RLock()
	defer m.m.RUnlock()
	return m.flowers[id]
}

func gardenia() *domain.Flower {
	return &domain.Flower{ID: 3, Name: "Gardenia", Category: "shrub", Price: 19.95, Photo: "/images/gardenia.jpg"}
}

func TestGetFlowerByID_CacheMissPopulatesCache(t *testing.T) {
	repo := newMockRepository(gardenia())
	c := newMockCache()
	sut := NewService(repo, c)

	flower, err := sut.GetFlowerByID(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, "Gardenia", flower.Name)

	require.Eventually(t, func() bool {
		return c.get(3) != nil
	}, 100*time.Millisecond, 10*time.Millisecond, "flower was not set in cache")
}

func TestGetFlowerByID_CacheHitSkipsRepo(t *testing.T) {
	repo := newMockRepository() // repo empty, would return not found
	c := newMockCache()
	c.flowers[3] = gardenia()
	sut := NewService(repo, c)

	flower, err := sut.GetFlowerByID(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, "Gardenia", flower.Name)
}

func TestGetFlowerByID_NotFound(t *testing.T) {
	sut := NewService(newMockRepository(), newMockCache())

	_, err := sut.GetFlowerByID(context.Background(), 999)
	require.ErrorIs(t, err, ErrFlowerNotFound)
}

func TestListFlowers_FiltersByCategory(t *testing.T) {
	repo := newMockRepository(
		gardenia(),
		&domain.Flower{ID: 4, Name: "Tulip", Category: "classic", Price: 9.95, Photo: "/images/tulip.jpg"},
	)
	sut := NewService(repo, newMockCache())

	all, err := sut.ListFlowers(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	shrubs, err := sut.ListFlowers(context.Background(), "shrub")
	require.NoError(t, err)
	require.Len(t, shrubs, 1)
	assert.Equal(t, "Gardenia", shrubs[0].Name)
}

func TestAddFlower_Validation(t *testing.T) {
	cases := []struct {
		name   string
		flower *domain.Flower
	}{
		{"missing name", &domain.Flower{Category: "shrub", Price: 1, Photo: "x"}},
		{"missing category", &domain.Flower{Name: "x", Price: 1, Photo: "x"}},
		{"zero price", &domain.Flower{Name: "x", Category: "shrub", Photo: "x"}},
		{"negative price", &domain.Flower{Name: "x", Category: "shrub", Price: -1, Photo: "x"}},
		{"missing photo", &domain.Flower{Name: "x", Category: "shrub", Price: 1}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sut := NewService(newMockRepository(), newMockCache())
			err := sut.AddFlower(context.Background(), tc.flower)
			require.ErrorIs(t, err, ErrInvalidFlower)
		})
	}
}

func TestUpdateFlower_InvalidatesCache(t *testing.T) {
	repo := newMockRepository(gardenia())
	c := newMockCache()
	c.flowers[3] = gardenia()
	sut := NewService(repo, c)

	updated := gardenia()
	updated.Price = 21.95
	require.NoError(t, sut.UpdateFlower(context.Background(), updated))

	assert.Nil(t, c.get(3), "stale cache entry must be dropped")
	assert.Equal(t, 21.95, repo.flowers[3].Price)
}

func TestDeleteFlower_InvalidatesCache(t *testing.T) {
	repo := newMockRepository(gardenia())
	c := newMockCache()
	c.flowers[3] = gardenia()
	sut := NewService(repo, c)

	require.NoError(t, sut.DeleteFlower(context.Background(), 3))
	assert.Nil(t, c.get(3))

	err := sut.DeleteFlower(context.Background(), 3)
	require.ErrorIs(t, err, ErrFlowerNotFound)
}

func TestAddFlower_RepoError(t *testing.T) {
	repo := newMockRepository()
	repo.err = fmt.Errorf("database error")
	sut := NewService(repo, newMockCache())

	err := sut.AddFlower(context.Background(), gardenia())
	require.ErrorContains(t, err, "database error")
}
