package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Review is a buyer's rating of a completed order. Uniqueness is
// order-scoped: buying the same service twice unlocks a second review.
type Review struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	BuyerID   uuid.UUID `gorm:"column:buyer_id;type:uuid;not null;uniqueIndex:idx_reviews_order_buyer" json:"-"`
	Buyer     *User     `gorm:"foreignKey:BuyerID" json:"buyer,omitempty"`
	ServiceID uuid.UUID `gorm:"column:service_id;type:uuid;not null;index" json:"service_id"`
	Service   *Service  `gorm:"foreignKey:ServiceID" json:"-"`
	OrderID   int64     `gorm:"column:order_id;not null;uniqueIndex:idx_reviews_order_buyer" json:"order_id"`
	Order     *Order    `gorm:"foreignKey:OrderID" json:"-"`
	Rating    int       `gorm:"not null" json:"rating"`
	Comment   string    `gorm:"type:text" json:"comment"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (r *Review) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
