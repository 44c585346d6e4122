package domain

import "time"

const (
	RoleGuest int = 1
	RoleUser  int = 2
	RoleAdmin int = 3
)

type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	RoleID       int       `json:"role_id"`
	CreatedAt    time.Time `json:"created_at"`
}

func (u *User) IsAdmin() bool {
	return u.RoleID == RoleAdmin
}
