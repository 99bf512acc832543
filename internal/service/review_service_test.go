package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReviewFlow(t *testing.T) {
	env := newTestEnv(t, OrderServiceConfig{}, nil)
	ctx := context.Background()
	p := env.mustProduct(t, "monitor", 260)

	o, err := env.orders.Create(ctx, env.buyer1.UserID, p.ProductID)
	require.NoError(t, err)

	_, err = env.reviews.Create(ctx, ReviewInput{OrderID: o.OrderID, BuyerID: env.buyer1.UserID, Rating: 5})
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = env.orders.Confirm(ctx, o.OrderID, env.seller.UserID)
	require.NoError(t, err)
	_, err = env.orders.Finish(ctx, o.OrderID, env.seller.UserID)
	require.NoError(t, err)

	_, err = env.reviews.Create(ctx, ReviewInput{OrderID: o.OrderID, BuyerID: env.buyer2.UserID, Rating: 5})
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = env.reviews.Create(ctx, ReviewInput{OrderID: o.OrderID, BuyerID: env.buyer1.UserID, Rating: 6})
	assert.ErrorIs(t, err, ErrMissingInput)

	r, err := env.reviews.Create(ctx, ReviewInput{OrderID: o.OrderID, BuyerID: env.buyer1.UserID, Rating: 4, Comment: "<i>good</i>"})
	require.NoError(t, err)
	assert.Equal(t, env.seller.UserID, r.SellerID)
	assert.Equal(t, "good", r.Comment)

	_, err = env.reviews.Create(ctx, ReviewInput{OrderID: o.OrderID, BuyerID: env.buyer1.UserID, Rating: 1})
	assert.ErrorIs(t, err, ErrConflict)

	mine, err := env.reviews.ListByBuyer(ctx, env.buyer1.UserID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "monitor", mine[0].ProductTitle)
	assert.Equal(t, p.ProductID, mine[0].ProductID)

	theirs, err := env.reviews.ListBySeller(ctx, env.seller.UserID)
	require.NoError(t, err)
	require.Len(t, theirs, 1)
	assert.Equal(t, "buyer1", theirs[0].BuyerName)
}

func TestMessages(t *testing.T) {
	env := newTestEnv(t, OrderServiceConfig{}, nil)
	ctx := context.Background()
	p := env.mustProduct(t, "books", 15)
	o, err := env.orders.Create(ctx, env.buyer1.UserID, p.ProductID)
	require.NoError(t, err)

	m, err := env.messages.Send(ctx, o.OrderID, env.buyer1.UserID, "still available?")
	require.NoError(t, err)
	assert.Equal(t, env.seller.UserID, m.ReceiverID)

	m, err = env.messages.Send(ctx, o.OrderID, env.seller.UserID, "yes")
	require.NoError(t, err)
	assert.Equal(t, env.buyer1.UserID, m.ReceiverID)

	_, err = env.messages.Send(ctx, o.OrderID, env.buyer2.UserID, "me too")
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = env.messages.Send(ctx, o.OrderID, env.buyer1.UserID, "<script></script>")
	assert.ErrorIs(t, err, ErrMissingInput)

	msgs, err := env.messages.List(ctx, o.OrderID, env.seller.UserID)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "still available?", msgs[0].Content)

	_, err = env.messages.List(ctx, o.OrderID, env.buyer2.UserID)
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = env.messages.List(ctx, 999, env.buyer1.UserID)
	assert.ErrorIs(t, err, ErrNotFound)
}
