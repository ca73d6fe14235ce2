package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/skillbridge/skillbridge-backend/pkg/db"
	"github.com/skillbridge/skillbridge-backend/pkg/db/models"
	pkgerrors "github.com/skillbridge/skillbridge-backend/pkg/errors"
)

// Service exposes catalog browsing plus seller listing management.
type Service interface {
	ListCategories(ctx context.Context) ([]CategoryDTO, error)
	ListServices(ctx context.Context, input ListServicesInput) (*ServiceListResult, error)
	GetService(ctx context.Context, id uuid.UUID) (*ServiceDTO, error)
	ListMyServices(ctx context.Context, sellerID uuid.UUID) ([]ServiceDTO, error)
	CreateService(ctx context.Context, sellerID uuid.UUID, input CreateServiceInput) (*ServiceDTO, error)
	UpdateService(ctx context.Context, sellerID, serviceID uuid.UUID, input UpdateServiceInput) (*ServiceDTO, error)
	DeleteService(ctx context.Context, sellerID, serviceID uuid.UUID) error
}

// CreateServiceInput holds the validated payload to create a listing.
type CreateServiceInput struct {
	Title        string
	Description  string
	Price        decimal.Decimal
	DeliveryTime int
	CategoryID   uuid.UUID
	ImageURLs    []string
}

// UpdateServiceInput holds optional mutation values for a listing.
type UpdateServiceInput struct {
	Title        *string
	Description  *string
	Price        *decimal.Decimal
	DeliveryTime *int
	CategoryID   *uuid.UUID
	ImageURLs    *[]string
}

type service struct {
	repo     *Repository
	dbClient *db.Client
}

// NewService constructs a catalog service instance.
func NewService(repo *Repository, dbClient *db.Client) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &service{
		repo:     repo,
		dbClient: dbClient,
	}, nil
}

func (s *service) ListCategories(ctx context.Context) ([]CategoryDTO, error) {
	rows, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list categories")
	}
	out := make([]CategoryDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, categoryDTO(row))
	}
	return out, nil
}

func (s *service) ListServices(ctx context.Context, input ListServicesInput) (*ServiceListResult, error) {
	result, err := s.repo.ListServices(ctx, input)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list services")
	}
	return result, nil
}

func (s *service) GetService(ctx context.Context, id uuid.UUID) (*ServiceDTO, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "service id required")
	}
	svc, err := s.repo.GetServiceDetail(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "service not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load service")
	}
	return NewServiceDTO(svc), nil
}

func (s *service) ListMyServices(ctx context.Context, sellerID uuid.UUID) ([]ServiceDTO, error) {
	if sellerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	rows, err := s.repo.ListServicesBySeller(ctx, sellerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list seller services")
	}
	out := make([]ServiceDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *NewServiceDTO(&rows[i]))
	}
	return out, nil
}

func (s *service) CreateService(ctx context.Context, sellerID uuid.UUID, input CreateServiceInput) (*ServiceDTO, error) {
	if sellerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if err := validateListing(input.Title, input.Price, input.DeliveryTime); err != nil {
		return nil, err
	}
	if input.CategoryID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category id required")
	}

	var created *models.Service
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		if _, err := repo.FindCategoryByID(ctx, input.CategoryID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeValidation, "unknown category")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load category")
		}

		svc := &models.Service{
			SellerID:     sellerID,
			CategoryID:   input.CategoryID,
			Title:        strings.TrimSpace(input.Title),
			Description:  input.Description,
			Price:        input.Price,
			DeliveryTime: input.DeliveryTime,
		}
		if _, err := repo.CreateService(ctx, svc); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create service")
		}

		if len(input.ImageURLs) > 0 {
			images := buildImages(svc.ID, input.ImageURLs)
			if err := repo.ReplaceServiceImages(ctx, svc.ID, images); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save images")
			}
		}

		created = svc
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetService(ctx, created.ID)
}

func (s *service) UpdateService(ctx context.Context, sellerID, serviceID uuid.UUID, input UpdateServiceInput) (*ServiceDTO, error) {
	if sellerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if serviceID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "service id required")
	}

	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		svc, err := repo.FindServiceByID(ctx, serviceID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "service not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load service")
		}
		if svc.SellerID != sellerID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "service does not belong to seller")
		}

		if input.Title != nil {
			svc.Title = strings.TrimSpace(*input.Title)
		}
		if input.Description != nil {
			svc.Description = *input.Description
		}
		if input.Price != nil {
			svc.Price = *input.Price
		}
		if input.DeliveryTime != nil {
			svc.DeliveryTime = *input.DeliveryTime
		}
		if input.CategoryID != nil {
			if _, err := repo.FindCategoryByID(ctx, *input.CategoryID); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return pkgerrors.New(pkgerrors.CodeValidation, "unknown category")
				}
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load category")
			}
			svc.CategoryID = *input.CategoryID
		}

		if err := validateListing(svc.Title, svc.Price, svc.DeliveryTime); err != nil {
			return err
		}

		if _, err := repo.UpdateService(ctx, svc); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update service")
		}

		if input.ImageURLs != nil {
			images := buildImages(svc.ID, *input.ImageURLs)
			if err := repo.ReplaceServiceImages(ctx, svc.ID, images); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save images")
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetService(ctx, serviceID)
}

func (s *service) DeleteService(ctx context.Context, sellerID, serviceID uuid.UUID) error {
	if sellerID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if serviceID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "service id required")
	}

	return s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		svc, err := repo.FindServiceByID(ctx, serviceID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "service not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load service")
		}
		if svc.SellerID != sellerID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "service does not belong to seller")
		}

		if err := repo.ReplaceServiceImages(ctx, serviceID, nil); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete images")
		}
		if err := repo.DeleteService(ctx, serviceID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete service")
		}
		return nil
	})
}

func validateListing(title string, price decimal.Decimal, deliveryTime int) error {
	if strings.TrimSpace(title) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "title is required")
	}
	if !price.IsPositive() {
		return pkgerrors.New(pkgerrors.CodeValidation, "price must be positive")
	}
	if deliveryTime < 1 {
		return pkgerrors.New(pkgerrors.CodeValidation, "delivery_time must be at least 1 day")
	}
	return nil
}

func buildImages(serviceID uuid.UUID, urls []string) []models.ServiceImage {
	images := make([]models.ServiceImage, 0, len(urls))
	for i, url := range urls {
		url = strings.TrimSpace(url)
		if url == "" {
			continue
		}
		images = append(images, models.ServiceImage{
			ServiceID: serviceID,
			URL:       url,
			Position:  i,
		})
	}
	return images
}
