package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jovincart/storefront/models"
)

type mockAPI struct {
	mock.Mock
}

func (m *mockAPI) Products(ctx context.Context) ([]models.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Product), args.Error(1)
}

func (m *mockAPI) CreateProduct(ctx context.Context, p models.Product) (models.Product, error) {
	args := m.Called(ctx, p)
	return args.Get(0).(models.Product), args.Error(1)
}

func (m *mockAPI) DeleteProduct(ctx context.Context, productID string) error {
	args := m.Called(ctx, productID)
	return args.Error(0)
}

func (m *mockAPI) UploadImage(ctx context.Context, path string) (string, error) {
	args := m.Called(ctx, path)
	return args.String(0), args.Error(1)
}

func TestListSortsByName(t *testing.T) {
	api := new(mockAPI)
	api.On("Products", mock.Anything).Return([]models.Product{
		{ID: "2", Name: "Zebra Cake", PriceCents: 300},
		{ID: "1", Name: "Apple Tart", PriceCents: 250},
	}, nil).Once()

	svc := NewService(api, zap.NewNop())
	products, err := svc.List(context.Background())
	require.NoError(t, err)

	require.Len(t, products, 2)
	assert.Equal(t, "Apple Tart", products[0].Name)
	api.AssertExpectations(t)
}

func TestCreateUploadsImageFirst(t *testing.T) {
	api := new(mockAPI)
	api.On("UploadImage", mock.Anything, "cake.png").Return("http://cdn/cake.png", nil).Once()
	api.On("CreateProduct", mock.Anything, mock.MatchedBy(func(p models.Product) bool {
		return p.ImageURL == "http://cdn/cake.png"
	})).Return(models.Product{ID: "p1", Name: "Cake", PriceCents: 500, ImageURL: "http://cdn/cake.png"}, nil).Once()

	svc := NewService(api, zap.NewNop())
	created, err := svc.Create(context.Background(), models.Product{Name: "Cake", PriceCents: 500}, "cake.png")
	require.NoError(t, err)
	assert.Equal(t, "p1", created.ID)
	api.AssertExpectations(t)
}

func TestCreateRejectsInvalidProduct(t *testing.T) {
	svc := NewService(new(mockAPI), zap.NewNop())

	_, err := svc.Create(context.Background(), models.Product{Name: "", PriceCents: 100}, "")
	assert.ErrorIs(t, err, ErrInvalidProduct)

	_, err = svc.Create(context.Background(), models.Product{Name: "Free Cake", PriceCents: 0}, "")
	assert.ErrorIs(t, err, ErrInvalidProduct)
}

func TestDelete(t *testing.T) {
	api := new(mockAPI)
	api.On("DeleteProduct", mock.Anything, "p1").Return(nil).Once()

	svc := NewService(api, zap.NewNop())
	require.NoError(t, svc.Delete(context.Background(), "p1"))
	assert.ErrorIs(t, svc.Delete(context.Background(), ""), ErrInvalidProduct)
	api.AssertExpectations(t)
}
