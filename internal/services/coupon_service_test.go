package services

import (
	"context"
	"testing"
	"time"

	"goshop/internal/models"
	"goshop/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newCouponServiceFixture(t *testing.T) (CouponService, *fakeCouponRepo) {
	t.Helper()

	log, err := logger.NewLogger(&logger.Config{Level: logger.ErrorLevel, Format: "json", Output: "stderr"})
	require.NoError(t, err)

	repo := &fakeCouponRepo{
		coupons:     make(map[string]*models.Coupon),
		redemptions: make(map[primitive.ObjectID]int64),
	}
	return NewCouponService(repo, log), repo
}

func validCouponRequest() *CreateCouponRequest {
	return &CreateCouponRequest{
		Code:      "welcome50",
		Kind:      models.CouponKindFlat,
		Value:     50,
		ExpiresAt: time.Now().Add(30 * 24 * time.Hour),
	}
}

func TestCouponCreateNormalizesAndDefaults(t *testing.T) {
	svc, repo := newCouponServiceFixture(t)

	created, err := svc.Create(context.Background(), validCouponRequest())
	require.NoError(t, err)

	assert.Equal(t, "WELCOME50", created.Code, "codes are stored uppercase")
	assert.True(t, created.IsActive)
	assert.Equal(t, 1, created.PerUserUsageLimit, "per-user limit defaults to one redemption")
	assert.Equal(t, models.CouponAudiencePublic, created.Audience)
	assert.Contains(t, repo.coupons, "WELCOME50")
}

func TestCouponCreateRejections(t *testing.T) {
	svc, _ := newCouponServiceFixture(t)

	tests := []struct {
		name   string
		mutate func(req *CreateCouponRequest)
		field  string
	}{
		{
			name:   "malformed code",
			mutate: func(r *CreateCouponRequest) { r.Code = "no spaces allowed" },
			field:  "code",
		},
		{
			name:   "percentage over 100",
			mutate: func(r *CreateCouponRequest) { r.Kind = models.CouponKindPercentage; r.Value = 150; r.MaxDiscountAmount = 100 },
			field:  "value",
		},
		{
			name:   "percentage without a cap",
			mutate: func(r *CreateCouponRequest) { r.Kind = models.CouponKindPercentage; r.Value = 20 },
			field:  "max_discount_amount",
		},
		{
			name:   "unknown kind",
			mutate: func(r *CreateCouponRequest) { r.Kind = "bogof" },
			field:  "kind",
		},
		{
			name:   "already expired",
			mutate: func(r *CreateCouponRequest) { r.ExpiresAt = time.Now().Add(-time.Hour) },
			field:  "expires_at",
		},
		{
			name:   "allow list without users",
			mutate: func(r *CreateCouponRequest) { r.Audience = models.CouponAudienceAllowList },
			field:  "audience_users",
		},
		{
			name:   "malformed audience user id",
			mutate: func(r *CreateCouponRequest) { r.Audience = models.CouponAudienceAllowList; r.AudienceUsers = []string{"not-an-object-id"} },
			field:  "audience_users",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validCouponRequest()
			tt.mutate(req)

			_, err := svc.Create(context.Background(), req)

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestCouponDeleteWithoutHistory(t *testing.T) {
	svc, repo := newCouponServiceFixture(t)

	created, err := svc.Create(context.Background(), validCouponRequest())
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), created.ID))
	assert.Contains(t, repo.deleted, created.ID)
}

func TestCouponDeleteBlockedByHistory(t *testing.T) {
	svc, repo := newCouponServiceFixture(t)

	created, err := svc.Create(context.Background(), validCouponRequest())
	require.NoError(t, err)

	repo.hasHistory = true
	err = svc.Delete(context.Background(), created.ID)

	assert.ErrorIs(t, err, ErrCouponHasHistory)
	assert.Empty(t, repo.deleted)
}
