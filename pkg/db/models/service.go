package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Service is a seller's listing. Price is a currency-less decimal; the
// payment bridge converts it to minor units when talking to the processor.
type Service struct {
	ID           uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	SellerID     uuid.UUID       `gorm:"column:seller_id;type:uuid;not null;index" json:"-"`
	Seller       *User           `gorm:"foreignKey:SellerID" json:"seller,omitempty"`
	CategoryID   uuid.UUID       `gorm:"column:category_id;type:uuid;not null;index" json:"category_id"`
	Category     *Category       `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Title        string          `gorm:"type:text;not null" json:"title"`
	Description  string          `gorm:"type:text" json:"description"`
	Price        decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"price"`
	DeliveryTime int             `gorm:"column:delivery_time;not null;default:1" json:"delivery_time"`
	Images       []ServiceImage  `gorm:"foreignKey:ServiceID;constraint:OnDelete:CASCADE" json:"images"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"-"`
}

// BeforeCreate assigns the primary key so sqlite-backed tests get one too.
func (s *Service) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// ServiceImage stores the public URL of an uploaded listing image.
// The upload pipeline itself lives outside this service.
type ServiceImage struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ServiceID uuid.UUID `gorm:"column:service_id;type:uuid;not null;index" json:"-"`
	URL       string    `gorm:"type:text;not null" json:"url"`
	Position  int       `gorm:"not null;default:0" json:"position"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"-"`
}

func (si *ServiceImage) BeforeCreate(tx *gorm.DB) error {
	if si.ID == uuid.Nil {
		si.ID = uuid.New()
	}
	return nil
}
