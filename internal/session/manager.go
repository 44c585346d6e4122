// Package session keeps per-browser session documents in Redis, keyed by an
// opaque session ID carried in an HTTP-only cookie. Anonymous sessions exist
// so guests can build a cart before logging in.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/lukecc25/Flowershop/internal/domain"
)

var ErrSessionNotFound = errors.New("session not found")

const DefaultTTL = 30 * 24 * time.Hour

type Manager struct {
	client *redis.Client
	ttl    time.Duration
}

func NewManager(client *redis.Client) *Manager {
	return &Manager{
		client: client,
		ttl:    DefaultTTL,
	}
}

// Create starts an anonymous session.
func (m *Manager) Create(ctx context.Context) (*domain.Session, error) {
	sess := &domain.Session{
		ID:        uuid.NewString(),
		CreatedAt: time.Now(),
	}
	if err := m.write(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// Get loads a session by ID, refreshing its TTL.
func (m *Manager) Get(ctx context.Context, id string) (*domain.Session, error) {
	data, err := m.client.Get(ctx, sessionKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var sess domain.Session
	if e2 := json.Unmarshal(data, &sess); e2 != nil {
		return nil, fmt.Errorf("unmarshal session failed: %w", e2)
	}

	// Sliding expiry: active sessions stay alive.
	if e2 := m.client.Expire(ctx, sessionKey(id), m.ttl).Err(); e2 != nil {
		return nil, fmt.Errorf("redis expire failed: %w", e2)
	}

	return &sess, nil
}

// Login binds an authenticated user to the session.
func (m *Manager) Login(ctx context.Context, sess *domain.Session, user *domain.User) error {
	sess.UserID = user.ID
	sess.Email = user.Email
	sess.RoleID = user.RoleID
	sess.LoginAt = time.Now()
	return m.write(ctx, sess)
}

// Destroy removes the session document. The caller is responsible for
// discarding anything else keyed by the session, such as the cart.
func (m *Manager) Destroy(ctx context.Context, id string) error {
	if err := m.client.Del(ctx, sessionKey(id)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func (m *Manager) write(ctx context.Context, sess *domain.Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session failed: %w", err)
	}
	if e2 := m.client.Set(ctx, sessionKey(sess.ID), string(data), m.ttl).Err(); e2 != nil {
		return fmt.Errorf("redis set failed: %w", e2)
	}
	return nil
}

func sessionKey(id string) string {
	return fmt.Sprintf("session:%s", id)
}
