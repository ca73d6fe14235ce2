package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/skillbridge/skillbridge-backend/pkg/enums"
)

// Order is a buyer's purchase of a service. The sequential id stays
// internal; UUID is the public handle used in processor metadata and
// redirect URLs so sequential ids never leak.
type Order struct {
	ID        int64             `gorm:"primaryKey;autoIncrement" json:"id"`
	UUID      uuid.UUID         `gorm:"type:uuid;not null;uniqueIndex" json:"uuid"`
	BuyerID   uuid.UUID         `gorm:"column:buyer_id;type:uuid;not null;index" json:"buyer"`
	Buyer     *User             `gorm:"foreignKey:BuyerID" json:"-"`
	ServiceID uuid.UUID         `gorm:"column:service_id;type:uuid;not null;index" json:"service_id"`
	Service   *Service          `gorm:"foreignKey:ServiceID" json:"service,omitempty"`
	Status    enums.OrderStatus `gorm:"type:text;not null;default:'pending'" json:"status"`
	IsPaid    bool              `gorm:"column:is_paid;not null;default:false" json:"is_paid"`
	OrderDate time.Time         `gorm:"column:order_date;autoCreateTime" json:"order_date"`
	CreatedAt time.Time         `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time         `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// BeforeCreate assigns the external identifier; gorm invokes it for every
// dialect, so sqlite-backed tests get a UUID too.
func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.UUID == uuid.Nil {
		o.UUID = uuid.New()
	}
	return nil
}
