package orders

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/skillbridge/skillbridge-backend/pkg/db/models"
	"github.com/skillbridge/skillbridge-backend/pkg/enums"
	"github.com/skillbridge/skillbridge-backend/pkg/pagination"
)

func setupOrdersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  first_name TEXT NOT NULL DEFAULT '',
  last_name TEXT NOT NULL DEFAULT '',
  is_staff INTEGER NOT NULL DEFAULT 0,
  last_login_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS categories (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL UNIQUE,
  description TEXT NOT NULL DEFAULT ''
);`,
		`CREATE TABLE IF NOT EXISTS services (
  id TEXT PRIMARY KEY,
  seller_id TEXT NOT NULL,
  category_id TEXT NOT NULL,
  title TEXT NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  price NUMERIC NOT NULL,
  delivery_time INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS orders (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  uuid TEXT NOT NULL UNIQUE,
  buyer_id TEXT NOT NULL,
  service_id TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending',
  is_paid INTEGER NOT NULL DEFAULT 0,
  order_date DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`,
	}
	for _, stmt := range statements {
		require.NoError(t, conn.Exec(stmt).Error)
	}
	return conn
}

func seedOrderFixtures(t *testing.T, conn *gorm.DB) (*models.User, *models.User, *models.Service) {
	t.Helper()

	buyer := &models.User{ID: uuid.New(), Email: fmt.Sprintf("buyer_%s@example.com", uuid.NewString()), PasswordHash: "hash", FirstName: "Blake"}
	seller := &models.User{ID: uuid.New(), Email: fmt.Sprintf("seller_%s@example.com", uuid.NewString()), PasswordHash: "hash", FirstName: "Sage"}
	require.NoError(t, conn.Create(buyer).Error)
	require.NoError(t, conn.Create(seller).Error)

	category := &models.Category{ID: uuid.New(), Name: fmt.Sprintf("cat-%s", uuid.NewString())}
	require.NoError(t, conn.Create(category).Error)

	listing := &models.Service{
		SellerID:     seller.ID,
		CategoryID:   category.ID,
		Title:        "Resume review",
		Price:        decimal.NewFromInt(40),
		DeliveryTime: 2,
	}
	require.NoError(t, conn.Create(listing).Error)
	return buyer, seller, listing
}

func TestOrderRepoCreateAndFind(t *testing.T) {
	conn := setupOrdersTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	buyer, seller, listing := seedOrderFixtures(t, conn)

	order := &models.Order{BuyerID: buyer.ID, ServiceID: listing.ID, Status: enums.OrderStatusPending}
	_, err := repo.Create(ctx, order)
	require.NoError(t, err)
	require.NotZero(t, order.ID)
	require.NotEqual(t, uuid.Nil, order.UUID)

	loaded, err := repo.FindByUUID(ctx, order.UUID)
	require.NoError(t, err)
	assert.Equal(t, order.ID, loaded.ID)
	require.NotNil(t, loaded.Service)
	assert.Equal(t, listing.Title, loaded.Service.Title)
	require.NotNil(t, loaded.Service.Seller)
	assert.Equal(t, seller.Email, loaded.Service.Seller.Email)
	require.NotNil(t, loaded.Buyer)
	assert.Equal(t, buyer.Email, loaded.Buyer.Email)
}

func TestOrderRepoMarkPaid(t *testing.T) {
	conn := setupOrdersTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	buyer, _, listing := seedOrderFixtures(t, conn)
	order := &models.Order{BuyerID: buyer.ID, ServiceID: listing.ID, Status: enums.OrderStatusPending}
	_, err := repo.Create(ctx, order)
	require.NoError(t, err)

	require.NoError(t, repo.MarkPaid(ctx, order.ID, enums.OrderStatusCompleted))

	loaded, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.True(t, loaded.IsPaid)
	assert.Equal(t, enums.OrderStatusCompleted, loaded.Status)
}

func TestOrderRepoListByBuyerPaginates(t *testing.T) {
	conn := setupOrdersTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	buyer, _, listing := seedOrderFixtures(t, conn)
	base := time.Now().Add(-time.Hour)
	for i := 0; i < 3; i++ {
		order := &models.Order{
			BuyerID:   buyer.ID,
			ServiceID: listing.ID,
			Status:    enums.OrderStatusPending,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		_, err := repo.Create(ctx, order)
		require.NoError(t, err)
	}

	first, err := repo.ListByBuyer(ctx, buyer.ID, pagination.Params{Limit: 2})
	require.NoError(t, err)
	require.Len(t, first.Orders, 2)
	require.NotEmpty(t, first.NextCursor)

	second, err := repo.ListByBuyer(ctx, buyer.ID, pagination.Params{Limit: 2, Cursor: first.NextCursor})
	require.NoError(t, err)
	require.Len(t, second.Orders, 1)
	assert.Empty(t, second.NextCursor)

	// newest first and no overlap between pages
	assert.True(t, first.Orders[0].CreatedAt.After(second.Orders[0].CreatedAt))
	for _, o := range first.Orders {
		assert.NotEqual(t, o.ID, second.Orders[0].ID)
	}
}

func TestOrderRepoListBySellerScopes(t *testing.T) {
	conn := setupOrdersTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	buyer, seller, listing := seedOrderFixtures(t, conn)
	otherBuyer, _, otherListing := seedOrderFixtures(t, conn)

	_, err := repo.Create(ctx, &models.Order{BuyerID: buyer.ID, ServiceID: listing.ID, Status: enums.OrderStatusPending})
	require.NoError(t, err)
	_, err = repo.Create(ctx, &models.Order{BuyerID: otherBuyer.ID, ServiceID: otherListing.ID, Status: enums.OrderStatusPending})
	require.NoError(t, err)

	list, err := repo.ListBySeller(ctx, seller.ID, pagination.Params{})
	require.NoError(t, err)
	require.Len(t, list.Orders, 1)
	assert.Equal(t, listing.ID, list.Orders[0].Service.ID)

	all, err := repo.ListAll(ctx, pagination.Params{})
	require.NoError(t, err)
	assert.Len(t, all.Orders, 2)
}

func TestOrderRepoCompletedLookupAndExists(t *testing.T) {
	conn := setupOrdersTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	buyer, _, listing := seedOrderFixtures(t, conn)

	_, err := repo.Create(ctx, &models.Order{BuyerID: buyer.ID, ServiceID: listing.ID, Status: enums.OrderStatusPending})
	require.NoError(t, err)

	_, err = repo.FindCompletedByBuyerAndService(ctx, buyer.ID, listing.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	ok, err := repo.ExistsByBuyerAndService(ctx, buyer.ID, listing.ID)
	require.NoError(t, err)
	assert.False(t, ok, "pending order should not count")

	completed := &models.Order{BuyerID: buyer.ID, ServiceID: listing.ID, Status: enums.OrderStatusCompleted, IsPaid: true}
	_, err = repo.Create(ctx, completed)
	require.NoError(t, err)

	found, err := repo.FindCompletedByBuyerAndService(ctx, buyer.ID, listing.ID)
	require.NoError(t, err)
	assert.Equal(t, completed.ID, found.ID)

	ok, err = repo.ExistsByBuyerAndService(ctx, buyer.ID, listing.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.ExistsByBuyerAndService(ctx, buyer.ID, uuid.New())
	require.NoError(t, err)
	assert.False(t, ok)
}
