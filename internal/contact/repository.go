package contact

import (
	"context"
	"errors"

	"github.com/lukecc25/Flowershop/internal/domain"
)

var ErrMessageNotFound = errors.New("contact message not found")

type MessageRepository interface {
	Save(ctx context.Context, msg *domain.ContactMessage) error
	GetAll(ctx context.Context) ([]*domain.ContactMessage, error)
	MarkAsRead(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64) error
	UnreadCount(ctx context.Context) (int, error)
}
