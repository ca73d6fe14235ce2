package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Notification is an in-app message to a user, created when one of
// their services' orders is paid. Persistence is the only delivery.
type Notification struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	RecipientID uuid.UUID `gorm:"column:recipient_id;type:uuid;not null;index" json:"recipient"`
	OrderID     int64     `gorm:"column:order_id;not null" json:"order"`
	Order       *Order    `gorm:"foreignKey:OrderID" json:"-"`
	Message     string    `gorm:"type:text;not null" json:"message"`
	IsRead      bool      `gorm:"column:is_read;not null;default:false" json:"is_read"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}
