package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresRepository_ListStores(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`SELECT name, segment, image_url\s+FROM stores`).
		WillReturnRows(pgxmock.NewRows([]string{"name", "segment", "image_url"}).
			AddRow("Loja Azul", "Moda", "https://img/azul.png").
			AddRow("Casa & Cia", "Casa", ""))

	repo := NewPostgresRepository(mock)
	stores, err := repo.ListStores(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []Store{
		{Name: "Loja Azul", Segment: "Moda", ImageURL: "https://img/azul.png"},
		{Name: "Casa & Cia", Segment: "Casa"},
	}, stores)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_ListStoresError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`FROM stores`).WillReturnError(errors.New("connection reset"))

	_, err = NewPostgresRepository(mock).ListStores(context.Background())
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_ListProducts(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`FROM products\s+WHERE store_name = \$1`).
		WithArgs("Loja Azul").
		WillReturnRows(pgxmock.NewRows([]string{"name", "price", "image_url", "category"}).
			AddRow("Camiseta", "R$ 59,90", "https://img/c.png", "Roupas").
			AddRow("Boné", "R$ 39,90", "", "Acessórios"))

	products, err := NewPostgresRepository(mock).ListProducts(context.Background(), "Loja Azul")
	require.NoError(t, err)

	assert.Equal(t, []Product{
		{Name: "Camiseta", Price: "R$ 59,90", ImageURL: "https://img/c.png", Category: "Roupas"},
		{Name: "Boné", Price: "R$ 39,90", Category: "Acessórios"},
	}, products)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_ListProductsUnknownStore(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`FROM products`).
		WithArgs("nope").
		WillReturnRows(pgxmock.NewRows([]string{"name", "price", "image_url", "category"}))

	products, err := NewPostgresRepository(mock).ListProducts(context.Background(), "nope")
	require.NoError(t, err)
	assert.NotNil(t, products)
	assert.Empty(t, products)
}
