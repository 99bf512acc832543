package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/marketplace/internal/model"
	"github.com/d60-Lab/marketplace/internal/repository"
)

func TestReportCreate(t *testing.T) {
	env := newTestEnv(t, OrderServiceConfig{}, nil)
	ctx := context.Background()
	p := env.mustProduct(t, "phone", 900)

	_, err := env.reports.Create(ctx, ReportInput{ReporterID: env.buyer1.UserID, TargetType: model.ReportTargetProduct, TargetID: p.ProductID})
	assert.ErrorIs(t, err, ErrMissingInput)
	assert.Equal(t, "Missing fields", Message(err))

	_, err = env.reports.Create(ctx, ReportInput{ReporterID: env.buyer1.UserID, TargetType: "comment", TargetID: 1, ReasonCode: "spam"})
	assert.ErrorIs(t, err, ErrMissingInput)
	assert.Equal(t, "invalid target_type", Message(err))

	_, err = env.reports.Create(ctx, ReportInput{ReporterID: 999, TargetType: model.ReportTargetProduct, TargetID: p.ProductID, ReasonCode: "fraud"})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, "Reporter not found", Message(err))

	_, err = env.reports.Create(ctx, ReportInput{ReporterID: env.buyer1.UserID, TargetType: model.ReportTargetOrder, TargetID: 999, ReasonCode: "fraud"})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, "Report target not found", Message(err))

	r, err := env.reports.Create(ctx, ReportInput{
		ReporterID: env.buyer1.UserID,
		TargetType: model.ReportTargetProduct,
		TargetID:   p.ProductID,
		ReasonCode: "fraud",
		ReasonText: "<script>x</script>卖家疑似诈骗",
	})
	require.NoError(t, err)
	assert.Equal(t, model.ReportPending, r.Status)
	require.NotNil(t, r.ReasonText)
	assert.Equal(t, "卖家疑似诈骗", *r.ReasonText)

	// 检举不改变商品状态
	assert.Equal(t, model.ProductStatusOnSale, env.reloadProduct(t, p.ProductID).Status)

	r, err = env.reports.Create(ctx, ReportInput{ReporterID: env.buyer2.UserID, TargetType: model.ReportTargetUser, TargetID: env.seller.UserID, ReasonCode: "abuse"})
	require.NoError(t, err)
	assert.Nil(t, r.ReasonText)
}

func TestReportReview(t *testing.T) {
	env := newTestEnv(t, OrderServiceConfig{}, nil)
	ctx := context.Background()

	var ids []int64
	for _, reason := range []string{"fraud", "spam", "fake"} {
		r, err := env.reports.Create(ctx, ReportInput{ReporterID: env.buyer1.UserID, TargetType: model.ReportTargetUser, TargetID: env.seller.UserID, ReasonCode: reason})
		require.NoError(t, err)
		ids = append(ids, r.ReportID)
	}

	r, err := env.reports.UpdateStatus(ctx, ids[0], model.ReportInReview)
	require.NoError(t, err)
	assert.Equal(t, model.ReportInReview, r.Status)

	r, err = env.reports.UpdateStatus(ctx, ids[0], model.ReportResolved)
	require.NoError(t, err)
	assert.Equal(t, model.ReportResolved, r.Status)

	_, err = env.reports.UpdateStatus(ctx, ids[0], model.ReportRejected)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, "Report is already closed", Message(err))

	_, err = env.reports.UpdateStatus(ctx, ids[1], model.ReportPending)
	assert.ErrorIs(t, err, ErrMissingInput)
	_, err = env.reports.UpdateStatus(ctx, ids[1], "")
	assert.Equal(t, "Missing id or status", Message(err))
	_, err = env.reports.UpdateStatus(ctx, 999, model.ReportRejected)
	assert.ErrorIs(t, err, ErrNotFound)

	page, err := env.reports.List(ctx, "", "", repository.Page{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)
	assert.Equal(t, ids[2], page.Items[0].ReportID)

	page, err = env.reports.List(ctx, ReportStatusAll, model.ReportTargetUser, repository.Page{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Total)

	page, err = env.reports.List(ctx, string(model.ReportResolved), "", repository.Page{})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, ids[0], page.Items[0].ReportID)

	_, err = env.reports.List(ctx, "reviewed", "", repository.Page{})
	assert.ErrorIs(t, err, ErrMissingInput)
}
