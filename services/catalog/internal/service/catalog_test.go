package service

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/oss_shop/pkg/db/dbtest"
	"github.com/Skotchmaster/oss_shop/pkg/events"
	"github.com/Skotchmaster/oss_shop/services/catalog/internal/models"
	"github.com/Skotchmaster/oss_shop/services/catalog/internal/repo"
	"github.com/Skotchmaster/oss_shop/services/catalog/internal/transport"
)

type fakeSearcher struct {
	indexed []uint
	deleted []uint
	ids     []uint
	err     error
}

func (f *fakeSearcher) Index(_ context.Context, p *models.Product) error {
	f.indexed = append(f.indexed, p.ID)
	return nil
}

func (f *fakeSearcher) Delete(_ context.Context, id uint) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeSearcher) Search(context.Context, string, int, int) (int64, []uint, error) {
	return int64(len(f.ids)), f.ids, f.err
}

type fakeStore struct {
	key  string
	body []byte
}

func (f *fakeStore) Put(_ context.Context, key, _ string, body io.Reader) (string, error) {
	f.key = key
	f.body, _ = io.ReadAll(body)
	return "https://cdn.example.com/" + key, nil
}

func newService(t *testing.T) (*CatalogService, *events.MemoryPublisher) {
	t.Helper()
	pub := &events.MemoryPublisher{}
	return &CatalogService{
		Repo:   &repo.GormRepo{DB: dbtest.New(t, models.All()...)},
		Events: pub,
	}, pub
}

func create(t *testing.T, s *CatalogService, sku string, stock int) *models.Product {
	t.Helper()
	p, err := s.CreateProduct(context.Background(), transport.CreateProductRequest{
		SKU:        sku,
		Name:       "Product " + sku,
		Price:      decimal.RequireFromString("10.00"),
		Stock:      stock,
		Categories: []string{"misc"},
	})
	require.NoError(t, err)
	return p
}

func eventTypes(pub *events.MemoryPublisher) []string {
	var out []string
	for _, m := range pub.Messages() {
		out = append(out, m.Event.(ProductEvent).Type)
	}
	return out
}

func TestCreateProduct(t *testing.T) {
	s, pub := newService(t)

	p := create(t, s, "SKU-1", 4)
	assert.Equal(t, models.LowStock, p.AvailabilityStatus)
	assert.Equal(t, "USD", p.Currency)
	require.Len(t, p.Categories, 1)

	msgs := pub.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, events.TopicProducts, msgs[0].Topic)
	assert.Equal(t, "product_created", msgs[0].Event.(ProductEvent).Type)
}

func TestCreateProduct_Validation(t *testing.T) {
	s, _ := newService(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  transport.CreateProductRequest
	}{
		{name: "missing sku", req: transport.CreateProductRequest{Name: "x"}},
		{name: "negative price", req: transport.CreateProductRequest{SKU: "a", Name: "x", Price: decimal.NewFromInt(-1)}},
		{name: "negative stock", req: transport.CreateProductRequest{SKU: "a", Name: "x", Stock: -1}},
		{name: "bad currency", req: transport.CreateProductRequest{SKU: "a", Name: "x", Currency: "EURO"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.CreateProduct(ctx, tt.req)
			require.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestCreateProduct_DuplicateSKU(t *testing.T) {
	s, _ := newService(t)
	create(t, s, "SKU-1", 1)

	_, err := s.CreateProduct(context.Background(), transport.CreateProductRequest{SKU: "SKU-1", Name: "again"})
	require.ErrorIs(t, err, ErrConflict)
}

func TestPatchProduct_RecomputesAvailability(t *testing.T) {
	s, pub := newService(t)
	p := create(t, s, "SKU-1", 50)
	assert.Equal(t, models.InStock, p.AvailabilityStatus)

	zero := 0
	name := "Renamed"
	patched, err := s.PatchProduct(context.Background(), p.ID, transport.PatchProductRequest{Stock: &zero, Name: &name})
	require.NoError(t, err)
	assert.Equal(t, models.OutOfStock, patched.AvailabilityStatus)
	assert.Equal(t, "Renamed", patched.Name)
	assert.Equal(t, []string{"product_created", "product_updated"}, eventTypes(pub))

	_, err = s.PatchProduct(context.Background(), 999, transport.PatchProductRequest{Name: &name})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestGetProduct_IncludesReviewStats(t *testing.T) {
	s, _ := newService(t)
	ctx := context.Background()
	p := create(t, s, "SKU-1", 10)

	for _, rating := range []int{5, 4, 4} {
		_, err := s.CreateReview(ctx, p.ID, transport.CreateReviewRequest{UserID: 1, Rating: rating})
		require.NoError(t, err)
	}

	detail, err := s.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, detail.ID)
	assert.EqualValues(t, 3, detail.ReviewCount)
	assert.InDelta(t, 4.33, detail.AverageRating, 0.01)
	assert.Len(t, detail.Reviews, 3)

	avg, err := s.AverageRating(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 4.33, avg)

	_, err = s.GetProduct(ctx, 999)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestCreateReview_Validation(t *testing.T) {
	s, _ := newService(t)
	p := create(t, s, "SKU-1", 10)

	_, err := s.CreateReview(context.Background(), p.ID, transport.CreateReviewRequest{UserID: 1, Rating: 6})
	require.ErrorIs(t, err, ErrValidation)

	_, err = s.CreateReview(context.Background(), 999, transport.CreateReviewRequest{UserID: 1, Rating: 3})
	require.ErrorIs(t, err, ErrNotFound)

	n, err := s.CountReviews(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestCheckStock(t *testing.T) {
	s, _ := newService(t)
	ctx := context.Background()
	p := create(t, s, "SKU-1", 3)
	empty := create(t, s, "SKU-2", 0)

	assert.True(t, s.CheckStock(ctx, p.ID, 3))
	assert.False(t, s.CheckStock(ctx, p.ID, 4))
	assert.False(t, s.CheckStock(ctx, empty.ID, 0))
	assert.False(t, s.CheckStock(ctx, 999, 1))
}

func TestReduceStock(t *testing.T) {
	s, pub := newService(t)
	ctx := context.Background()
	p := create(t, s, "SKU-1", 6)

	got, err := s.ReduceStock(ctx, p.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, 5, got.Stock)
	assert.Equal(t, models.LowStock, got.AvailabilityStatus)

	got, err = s.ReduceStock(ctx, p.ID, 5)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Stock)
	assert.Equal(t, models.OutOfStock, got.AvailabilityStatus)

	_, err = s.ReduceStock(ctx, p.ID, 1)
	require.ErrorIs(t, err, ErrInsufficientStock)

	_, err = s.ReduceStock(ctx, p.ID, 0)
	require.ErrorIs(t, err, ErrValidation)

	_, err = s.ReduceStock(ctx, 999, 1)
	require.ErrorIs(t, err, ErrNotFound)

	assert.Equal(t, []string{"product_created", "stock_reduced", "stock_reduced"}, eventTypes(pub))
}

func TestDeleteProduct(t *testing.T) {
	s, pub := newService(t)
	search := &fakeSearcher{}
	s.Search = search
	p := create(t, s, "SKU-1", 1)

	require.NoError(t, s.DeleteProduct(context.Background(), p.ID))
	require.ErrorIs(t, s.DeleteProduct(context.Background(), p.ID), ErrNotFound)

	assert.Equal(t, []uint{p.ID}, search.indexed)
	assert.Equal(t, []uint{p.ID}, search.deleted)
	assert.Equal(t, []string{"product_created", "product_deleted"}, eventTypes(pub))
}

func TestSearchProducts(t *testing.T) {
	ctx := context.Background()

	t.Run("uses the index", func(t *testing.T) {
		s, _ := newService(t)
		a := create(t, s, "A", 1)
		b := create(t, s, "B", 1)
		s.Search = &fakeSearcher{ids: []uint{b.ID, a.ID}}

		total, items, err := s.SearchProducts(ctx, "anything", 0, 10)
		require.NoError(t, err)
		assert.EqualValues(t, 2, total)
		require.Len(t, items, 2)
		assert.Equal(t, b.ID, items[0].ID)
	})

	t.Run("falls back to sql when the index fails", func(t *testing.T) {
		s, _ := newService(t)
		create(t, s, "A", 1)
		create(t, s, "B", 1)
		s.Search = &fakeSearcher{err: errors.New("cluster down")}

		total, items, err := s.SearchProducts(ctx, "product b", 0, 10)
		require.NoError(t, err)
		assert.EqualValues(t, 1, total)
		require.Len(t, items, 1)
		assert.Equal(t, "B", items[0].SKU)
	})

	t.Run("empty query", func(t *testing.T) {
		s, _ := newService(t)
		_, _, err := s.SearchProducts(ctx, "  ", 0, 10)
		require.ErrorIs(t, err, ErrValidation)
	})
}

func TestUploadImage(t *testing.T) {
	ctx := context.Background()

	t.Run("database", func(t *testing.T) {
		s, _ := newService(t)
		p := create(t, s, "A", 1)

		img, err := s.UploadImage(ctx, p.ID, "a.png", "image/png", []byte("png"))
		require.NoError(t, err)
		assert.Equal(t, ImagePath(img.ID), img.ImageURL)

		got, err := s.GetImage(ctx, img.ID)
		require.NoError(t, err)
		assert.Equal(t, []byte("png"), got.Data)
		assert.Equal(t, img.ImageURL, got.ImageURL)
	})

	t.Run("object store", func(t *testing.T) {
		s, _ := newService(t)
		store := &fakeStore{}
		s.Images = store
		p := create(t, s, "A", 1)

		img, err := s.UploadImage(ctx, p.ID, "a.png", "image/png", []byte("png"))
		require.NoError(t, err)
		assert.Equal(t, "https://cdn.example.com/"+store.key, img.ImageURL)
		assert.Equal(t, []byte("png"), store.body)

		got, err := s.GetImage(ctx, img.ID)
		require.NoError(t, err)
		assert.Empty(t, got.Data)
	})

	t.Run("rejects non images", func(t *testing.T) {
		s, _ := newService(t)
		p := create(t, s, "A", 1)

		_, err := s.UploadImage(ctx, p.ID, "a.txt", "text/plain", []byte("x"))
		require.ErrorIs(t, err, ErrValidation)

		_, err = s.GetImage(ctx, 999)
		require.ErrorIs(t, err, ErrNotFound)
	})
}
