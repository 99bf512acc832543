package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/marketplace/internal/model"
	"github.com/d60-Lab/marketplace/internal/repository"
)

func TestProductCreateSanitizes(t *testing.T) {
	env := newTestEnv(t, OrderServiceConfig{}, nil)
	ctx := context.Background()

	p, err := env.products.Create(ctx, ProductInput{
		SellerID:    env.seller.UserID,
		Title:       `<b>Bike</b><script>alert(1)</script>`,
		Description: `<a href="javascript:x">cheap</a>`,
		Price:       50,
	})
	require.NoError(t, err)
	assert.Equal(t, "Bike", p.Title)
	assert.Equal(t, "cheap", p.Description)
	assert.Equal(t, model.ProductStatusOnSale, p.Status)
	assert.Nil(t, p.BuyerID)

	_, err = env.products.Create(ctx, ProductInput{SellerID: env.seller.UserID, Title: "x", Price: 0})
	assert.ErrorIs(t, err, ErrMissingInput)

	_, err = env.products.Create(ctx, ProductInput{SellerID: 999, Title: "x", Price: 1})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProductUpdateRules(t *testing.T) {
	env := newTestEnv(t, OrderServiceConfig{}, nil)
	ctx := context.Background()
	p := env.mustProduct(t, "old title", 10)

	_, err := env.products.Update(ctx, p.ProductID, ProductInput{SellerID: env.buyer1.UserID, Title: "hijack", Price: 1})
	assert.ErrorIs(t, err, ErrForbidden)

	updated, err := env.products.Update(ctx, p.ProductID, ProductInput{SellerID: env.seller.UserID, Title: "new title", Price: 12})
	require.NoError(t, err)
	assert.Equal(t, "new title", updated.Title)
	assert.Equal(t, 12.0, updated.Price)

	o, err := env.orders.Create(ctx, env.buyer1.UserID, p.ProductID)
	require.NoError(t, err)
	_, err = env.orders.Confirm(ctx, o.OrderID, env.seller.UserID)
	require.NoError(t, err)

	_, err = env.products.Update(ctx, p.ProductID, ProductInput{SellerID: env.seller.UserID, Title: "after sale", Price: 99})
	assert.ErrorIs(t, err, ErrConflict)

	_, err = env.products.Update(ctx, 999, ProductInput{SellerID: env.seller.UserID, Title: "x", Price: 1})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProductDelete(t *testing.T) {
	env := newTestEnv(t, OrderServiceConfig{}, nil)
	ctx := context.Background()
	free := env.mustProduct(t, "free", 10)
	ordered := env.mustProduct(t, "ordered", 10)

	_, err := env.orders.Create(ctx, env.buyer1.UserID, ordered.ProductID)
	require.NoError(t, err)

	err = env.products.Delete(ctx, ordered.ProductID, env.seller.UserID)
	assert.ErrorIs(t, err, ErrConflict)

	err = env.products.Delete(ctx, free.ProductID, env.buyer1.UserID)
	assert.ErrorIs(t, err, ErrForbidden)

	require.NoError(t, env.products.Delete(ctx, free.ProductID, env.seller.UserID))
	_, err = env.products.Get(ctx, free.ProductID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProductList(t *testing.T) {
	env := newTestEnv(t, OrderServiceConfig{}, nil)
	ctx := context.Background()
	env.mustProduct(t, "red bike", 100)
	env.mustProduct(t, "blue bike", 120)
	sold := env.mustProduct(t, "keyboard", 30)

	o, err := env.orders.Create(ctx, env.buyer1.UserID, sold.ProductID)
	require.NoError(t, err)
	_, err = env.orders.Confirm(ctx, o.OrderID, env.seller.UserID)
	require.NoError(t, err)

	page, err := env.products.List(ctx, repository.ProductFilter{Query: "bike"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)
	assert.Equal(t, "blue bike", page.Items[0].Title)
	assert.Equal(t, "seller1", page.Items[0].SellerUsername)

	page, err = env.products.List(ctx, repository.ProductFilter{Status: model.ProductStatusOnSale, Page: repository.Page{Limit: 1}})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)
	assert.Len(t, page.Items, 1)

	page, err = env.products.List(ctx, repository.ProductFilter{Status: model.ProductStatusSold})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	require.NotNil(t, page.Items[0].BuyerID)
	assert.Equal(t, env.buyer1.UserID, *page.Items[0].BuyerID)

	_, err = env.products.List(ctx, repository.ProductFilter{Status: "gone"})
	assert.ErrorIs(t, err, ErrMissingInput)
}
