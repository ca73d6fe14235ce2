package notifications

import (
	"time"

	"github.com/google/uuid"

	"github.com/skillbridge/skillbridge-backend/pkg/db/models"
)

// NotificationDTO is the transport shape for one in-app notification.
type NotificationDTO struct {
	ID        uuid.UUID `json:"id"`
	OrderID   int64     `json:"order_id"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

// ListParams configures recipient-scoped notification listing.
type ListParams struct {
	RecipientID uuid.UUID
	Limit       int
	Cursor      string
	UnreadOnly  bool
}

// ListResult wraps returned notifications and the cursor for the next page.
type ListResult struct {
	Notifications []NotificationDTO `json:"notifications"`
	NextCursor    string            `json:"next_cursor,omitempty"`
}

// NewNotificationDTO builds a DTO from the persisted model.
func NewNotificationDTO(n *models.Notification) NotificationDTO {
	return NotificationDTO{
		ID:        n.ID,
		OrderID:   n.OrderID,
		Message:   n.Message,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt,
	}
}
