package catalog

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/lukecc25/Flowershop/internal/domain"
)

// Service fronts the flower repository with a read cache. Writes go straight
// to the repository and invalidate the cached entry.
type Service struct {
	repo  FlowerRepository
	cache FlowerCache
	sfg   singleflight.Group // Prevents cache stampede
}

func NewService(repo FlowerRepository, cache FlowerCache) *Service {
	return &Service{
		repo:  repo,
		cache: cache,
	}
}

func (s *Service) GetFlowerByID(ctx context.Context, id int64) (*domain.Flower, error) {
	// Use singleflight to prevent multiple concurrent cache misses for same key
	v, err, _ := s.sfg.Do(strconv.FormatInt(id, 10), func() (interface{}, error) {

		flower, err := s.cache.Get(ctx, id)
		if err == nil {
			return flower, nil // flower is in cache
		}

		if !errors.Is(err, ErrCacheMiss) {
			log.Printf("cache get error: %v \n", err) // log cache error but continue
		}

		flower, errGet := s.repo.GetByID(ctx, id)
		if errGet != nil {
			return nil, errGet // includes ErrFlowerNotFound
		}

		// set cache
		go func() {
			errSet := s.cache.Set(context.Background(), flower)
			if errSet != nil {
				log.Printf("cache set error: %v \n", errSet)
			}
		}()

		return flower, nil
	})

	if err != nil {
		return nil, err
	}

	return v.(*domain.Flower), nil
}

func (s *Service) ListFlowers(ctx context.Context, category string) ([]*domain.Flower, error) {
	return s.repo.GetAll(ctx, category)
}

func (s *Service) Categories(ctx context.Context) ([]string, error) {
	return s.repo.Categories(ctx)
}

func (s *Service) AddFlower(ctx context.Context, flower *domain.Flower) error {
	if err := validateFlower(flower); err != nil {
		return err
	}
	if err := s.repo.Add(ctx, flower); err != nil {
		log.Printf("repo add flower error: %v \n", err)
		return err
	}
	return nil
}

func (s *Service) UpdateFlower(ctx context.Context, flower *domain.Flower) error {
	if err := validateFlower(flower); err != nil {
		return err
	}
	if err := s.repo.Update(ctx, flower); err != nil {
		log.Printf("repo update flower error: %v \n", err)
		return err
	}

	s.invalidateCache(flower.ID)
	return nil
}

func (s *Service) DeleteFlower(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		log.Printf("repo delete flower error: %v \n", err)
		return err
	}

	s.invalidateCache(id)
	return nil
}

var ErrInvalidFlower = errors.New("invalid flower data")

func validateFlower(f *domain.Flower) error {
	if f.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidFlower)
	}
	if f.Category == "" {
		return fmt.Errorf("%w: category is required", ErrInvalidFlower)
	}
	if f.Price <= 0 {
		return fmt.Errorf("%w: price must be positive", ErrInvalidFlower)
	}
	if f.Photo == "" {
		return fmt.Errorf("%w: photo URL is required", ErrInvalidFlower)
	}
	return nil
}

func (s *Service) invalidateCache(id int64) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.cache.Delete(ctx, id); err != nil {
		log.Printf("cache invalidate error: %v \n", err)
	}
}
