package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/optica-neyra/backend/internal/domain/catalog"
	"github.com/optica-neyra/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockProductRepository creates a GormProductRepository with a mocked SQL connection
func newMockProductRepository(t *testing.T) (*GormProductRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormProductRepository(gormDB), mock, mockDB
}

func productRows(id uuid.UUID) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "code", "name", "category", "supplier", "unit_price", "currency", "stock_on_hand", "reorder_threshold"}).
		AddRow(id, "TR-5521", "Armazón Ray-Ban RB5521", "Armazones", "Luxottica", decimal.NewFromFloat(350.00), "PEN", 8, 3)
}

func TestGormProductRepository_FindByID(t *testing.T) {
	t.Run("finds existing product", func(t *testing.T) {
		repo, mock, mockDB := newMockProductRepository(t)
		defer mockDB.Close()

		productID := uuid.New()
		mock.ExpectQuery(`SELECT \* FROM "products" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(productID, 1).
			WillReturnRows(productRows(productID))

		product, err := repo.FindByID(context.Background(), productID)

		require.NoError(t, err)
		assert.Equal(t, "TR-5521", product.Code)
		assert.Equal(t, 8, product.StockOnHand)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns ErrNotFound for missing product", func(t *testing.T) {
		repo, mock, mockDB := newMockProductRepository(t)
		defer mockDB.Close()

		productID := uuid.New()
		mock.ExpectQuery(`SELECT \* FROM "products"`).
			WithArgs(productID, 1).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, err := repo.FindByID(context.Background(), productID)

		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormProductRepository_FindByCode(t *testing.T) {
	repo, mock, mockDB := newMockProductRepository(t)
	defer mockDB.Close()

	productID := uuid.New()
	mock.ExpectQuery(`SELECT \* FROM "products" WHERE code = \$1`).
		WithArgs("TR-5521", 1).
		WillReturnRows(productRows(productID))

	// lookup is case-insensitive, codes are stored uppercase
	product, err := repo.FindByCode(context.Background(), " tr-5521 ")

	require.NoError(t, err)
	assert.Equal(t, productID, product.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormProductRepository_DecrementStock(t *testing.T) {
	t.Run("decrements when balance is sufficient", func(t *testing.T) {
		repo, mock, mockDB := newMockProductRepository(t)
		defer mockDB.Close()

		productID := uuid.New()
		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE "products" SET "stock_on_hand"=stock_on_hand - \$1 WHERE id = \$2 AND stock_on_hand >= \$3`).
			WithArgs(2, productID, 2).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(`SELECT "stock_on_hand" FROM "products" WHERE id = \$1`).
			WithArgs(productID).
			WillReturnRows(sqlmock.NewRows([]string{"stock_on_hand"}).AddRow(6))
		mock.ExpectCommit()

		remaining, err := repo.DecrementStock(context.Background(), productID, 2)

		require.NoError(t, err)
		assert.Equal(t, 6, remaining)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("short balance fails without changing anything", func(t *testing.T) {
		repo, mock, mockDB := newMockProductRepository(t)
		defer mockDB.Close()

		productID := uuid.New()
		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE "products" SET`).
			WithArgs(5, productID, 5).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT count\(\*\) FROM "products" WHERE id = \$1`).
			WithArgs(productID).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
		mock.ExpectRollback()

		_, err := repo.DecrementStock(context.Background(), productID, 5)

		assert.ErrorIs(t, err, catalog.ErrInsufficientStock)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing product", func(t *testing.T) {
		repo, mock, mockDB := newMockProductRepository(t)
		defer mockDB.Close()

		productID := uuid.New()
		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE "products" SET`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT count\(\*\) FROM "products"`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectRollback()

		_, err := repo.DecrementStock(context.Background(), productID, 1)

		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("rejects non-positive quantity before touching the database", func(t *testing.T) {
		repo, mock, mockDB := newMockProductRepository(t)
		defer mockDB.Close()

		_, err := repo.DecrementStock(context.Background(), uuid.New(), 0)

		assert.Error(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormProductRepository_FindLowStock(t *testing.T) {
	repo, mock, mockDB := newMockProductRepository(t)
	defer mockDB.Close()

	rows := sqlmock.NewRows([]string{"id", "code", "name", "category", "supplier", "unit_price", "currency", "stock_on_hand", "reorder_threshold"}).
		AddRow(uuid.New(), "ACV-100", "Líquido de limpieza", "Accesorios", "", decimal.NewFromFloat(15.00), "PEN", 1, 5)

	mock.ExpectQuery(`SELECT \* FROM "products" WHERE stock_on_hand <= reorder_threshold`).
		WillReturnRows(rows)

	products, err := repo.FindLowStock(context.Background())

	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.True(t, products[0].IsLowStock())
}

func TestGormProductRepository_Delete(t *testing.T) {
	t.Run("deletes existing product", func(t *testing.T) {
		repo, mock, mockDB := newMockProductRepository(t)
		defer mockDB.Close()

		productID := uuid.New()
		mock.ExpectExec(`DELETE FROM "products" WHERE id = \$1`).
			WithArgs(productID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.Delete(context.Background(), productID))
	})

	t.Run("missing product", func(t *testing.T) {
		repo, mock, mockDB := newMockProductRepository(t)
		defer mockDB.Close()

		productID := uuid.New()
		mock.ExpectExec(`DELETE FROM "products"`).
			WithArgs(productID).
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.Delete(context.Background(), productID), shared.ErrNotFound)
	})
}
