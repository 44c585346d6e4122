package domain

import "time"

// Session is the per-browser state document. Anonymous sessions carry a zero
// UserID so guests can build a cart before (or without) logging in.
type Session struct {
	ID        string    `json:"id"`
	UserID    int64     `json:"user_id"`
	Email     string    `json:"email"`
	RoleID    int       `json:"role_id"`
	CreatedAt time.Time `json:"created_at"`
	LoginAt   time.Time `json:"login_at,omitempty"`
}

func (s *Session) IsLoggedIn() bool {
	return s.UserID != 0
}

func (s *Session) IsAdmin() bool {
	return s.IsLoggedIn() && s.RoleID == RoleAdmin
}
