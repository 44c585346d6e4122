package cart

import (
	"context"
	"errors"
	"log"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/lukecc25/Flowershop/internal/domain"
)

// Store owns the cart aggregate for the lifetime of one session. Reads are
// cache-aside over the repository; a missing cart is lazily initialized to
// the single-empty-bouquet state, so callers never see an absent cart.
type Store struct {
	repo  CartRepository
	cache CartCache
	sfg   singleflight.Group // Prevents cache stampede
}

func NewStore(repo CartRepository, cache CartCache) *Store {
	return &Store{
		repo:  repo,
		cache: cache,
	}
}

// Get returns the session's cart with its total recomputed. Calling it on a
// session without a cart creates one; calling it again is a no-op.
func (s *Store) Get(ctx context.Context, sessionID string) (*domain.Cart, error) {
	// Use singleflight to prevent multiple concurrent cache misses for same key
	v, err, _ := s.sfg.Do(sessionID, func() (interface{}, error) {

		cached, err := s.cache.Get(ctx, sessionID)
		if err == nil {
			cached.RecalculateTotal()
			return cached, nil // cart is in cache
		}

		if !errors.Is(err, ErrCacheMiss) {
			log.Printf("cache get error: %v \n", err) // log cache error but continue
		}

		cart, errGet := s.repo.GetCart(ctx, sessionID)
		if errGet != nil && errors.Is(errGet, ErrCartNotFound) {
			return domain.NewCart(sessionID), nil
		}
		if errGet != nil {
			return nil, errGet
		}

		cart.RecalculateTotal()

		// set cache
		go func() {
			errSet := s.cache.Set(context.Background(), sessionID, cart)
			if errSet != nil {
				log.Printf("cache set error: %v \n", errSet)
			}
		}()

		return cart, nil
	})

	if err != nil {
		return nil, err
	}

	return v.(*domain.Cart), nil
}

// Replace overwrites the stored cart with the given one.
func (s *Store) Replace(ctx context.Context, sessionID string, cart *domain.Cart) error {
	cart.SessionID = sessionID
	if err := s.repo.UpsertCart(ctx, cart); err != nil {
		log.Printf("repo upsert cart error: %v \n", err)
		return err
	}

	s.invalidateCache(sessionID)
	return nil
}

// Delete removes the cart entirely; used when the owning session is destroyed.
func (s *Store) Delete(ctx context.Context, sessionID string) error {
	if err := s.repo.DeleteCart(ctx, sessionID); err != nil && !errors.Is(err, ErrCartNotFound) {
		log.Printf("repo delete cart error: %v \n", err)
		return err
	}

	s.invalidateCache(sessionID)
	return nil
}

func (s *Store) invalidateCache(sessionID string) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.cache.Delete(ctx, sessionID); err != nil {
		log.Printf("cache invalidate error: %v \n", err)
	}
}
