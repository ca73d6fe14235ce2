package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillbridge/skillbridge-backend/pkg/db"
	pkgerrors "github.com/skillbridge/skillbridge-backend/pkg/errors"
)

func newCatalogTestService(t *testing.T) (Service, *Repository, context.Context) {
	t.Helper()
	conn := setupCatalogTestDB(t)
	repo := NewRepository(conn)
	svc, err := NewService(repo, db.NewWithConn(conn))
	require.NoError(t, err)
	return svc, repo, context.Background()
}

func TestCreateServiceHappyPath(t *testing.T) {
	svc, repo, ctx := newCatalogTestService(t)
	seller := mustCreateTestUser(t, repo.db)
	category := mustCreateTestCategory(t, repo.db, "Design")

	created, err := svc.CreateService(ctx, seller.ID, CreateServiceInput{
		Title:        "Logo design",
		Description:  "Three concepts, two revisions",
		Price:        decimal.NewFromInt(120),
		DeliveryTime: 4,
		CategoryID:   category.ID,
		ImageURLs:    []string{"https://cdn.example.com/a.png", " ", "https://cdn.example.com/b.png"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Logo design", created.Title)
	assert.Equal(t, category.ID, created.Category.ID)
	assert.Equal(t, seller.ID, created.Seller.ID)
	require.Len(t, created.Images, 2)
}

func TestCreateServiceValidation(t *testing.T) {
	svc, repo, ctx := newCatalogTestService(t)
	seller := mustCreateTestUser(t, repo.db)
	category := mustCreateTestCategory(t, repo.db, "Design")

	cases := []struct {
		name  string
		input CreateServiceInput
	}{
		{
			name: "empty title",
			input: CreateServiceInput{
				Title:        "  ",
				Price:        decimal.NewFromInt(10),
				DeliveryTime: 1,
				CategoryID:   category.ID,
			},
		},
		{
			name: "zero price",
			input: CreateServiceInput{
				Title:        "Something",
				Price:        decimal.Zero,
				DeliveryTime: 1,
				CategoryID:   category.ID,
			},
		},
		{
			name: "bad delivery time",
			input: CreateServiceInput{
				Title:        "Something",
				Price:        decimal.NewFromInt(10),
				DeliveryTime: 0,
				CategoryID:   category.ID,
			},
		},
		{
			name: "unknown category",
			input: CreateServiceInput{
				Title:        "Something",
				Price:        decimal.NewFromInt(10),
				DeliveryTime: 1,
				CategoryID:   uuid.New(),
			},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateService(ctx, seller.ID, tc.input)
			typed := pkgerrors.As(err)
			require.NotNil(t, typed, "expected typed error, got %v", err)
			assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
		})
	}
}

func TestUpdateServiceOwnershipEnforced(t *testing.T) {
	svc, repo, ctx := newCatalogTestService(t)
	owner := mustCreateTestUser(t, repo.db)
	other := mustCreateTestUser(t, repo.db)
	category := mustCreateTestCategory(t, repo.db, "Writing")

	created, err := svc.CreateService(ctx, owner.ID, CreateServiceInput{
		Title:        "Blog post",
		Price:        decimal.NewFromInt(45),
		DeliveryTime: 2,
		CategoryID:   category.ID,
	})
	require.NoError(t, err)

	newTitle := "Hijacked"
	_, err = svc.UpdateService(ctx, other.ID, created.ID, UpdateServiceInput{Title: &newTitle})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeForbidden, typed.Code())

	newPrice := decimal.NewFromInt(60)
	updated, err := svc.UpdateService(ctx, owner.ID, created.ID, UpdateServiceInput{Price: &newPrice})
	require.NoError(t, err)
	assert.True(t, updated.Price.Equal(newPrice))
	assert.Equal(t, "Blog post", updated.Title)
}

func TestDeleteServiceRemovesListing(t *testing.T) {
	svc, repo, ctx := newCatalogTestService(t)
	owner := mustCreateTestUser(t, repo.db)
	category := mustCreateTestCategory(t, repo.db, "Video")

	created, err := svc.CreateService(ctx, owner.ID, CreateServiceInput{
		Title:        "Intro animation",
		Price:        decimal.NewFromInt(200),
		DeliveryTime: 7,
		CategoryID:   category.ID,
		ImageURLs:    []string{"https://cdn.example.com/frame.png"},
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteService(ctx, owner.ID, created.ID))

	_, err = svc.GetService(ctx, created.ID)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestListMyServicesScopedToSeller(t *testing.T) {
	svc, repo, ctx := newCatalogTestService(t)
	mine := mustCreateTestUser(t, repo.db)
	theirs := mustCreateTestUser(t, repo.db)
	category := mustCreateTestCategory(t, repo.db, "Audio")

	_, err := svc.CreateService(ctx, mine.ID, CreateServiceInput{
		Title:        "Podcast edit",
		Price:        decimal.NewFromInt(35),
		DeliveryTime: 1,
		CategoryID:   category.ID,
	})
	require.NoError(t, err)
	_, err = svc.CreateService(ctx, theirs.ID, CreateServiceInput{
		Title:        "Mixing",
		Price:        decimal.NewFromInt(50),
		DeliveryTime: 2,
		CategoryID:   category.ID,
	})
	require.NoError(t, err)

	listed, err := svc.ListMyServices(ctx, mine.ID)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "Podcast edit", listed[0].Title)
}
