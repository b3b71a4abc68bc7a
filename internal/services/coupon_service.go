package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"goshop/internal/models"
	"goshop/internal/repositories/interfaces"
	"goshop/internal/utils"
	"goshop/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrCouponHasHistory is returned when deleting a coupon that settled orders
// still reference. Those snapshots must stay resolvable.
var ErrCouponHasHistory = errors.New("coupon has redemption history and cannot be deleted")

type CreateCouponRequest struct {
	Code              string                `json:"code" validate:"required,coupon_code"`
	Kind              models.CouponKind     `json:"kind" validate:"required,oneof=flat percentage"`
	Value             float64               `json:"value" validate:"required,gt=0"`
	MinPurchaseAmount float64               `json:"min_purchase_amount" validate:"min=0"`
	MaxDiscountAmount float64               `json:"max_discount_amount" validate:"min=0"`
	ExpiresAt         time.Time             `json:"expires_at" validate:"required"`
	GlobalUsageLimit  int                   `json:"global_usage_limit" validate:"min=0"`
	PerUserUsageLimit int                   `json:"per_user_usage_limit" validate:"min=0"`
	Audience          models.CouponAudience `json:"audience"`
	AudienceUsers     []string              `json:"audience_users"`
}

type CouponService interface {
	// Admin operations
	Create(ctx context.Context, req *CreateCouponRequest) (*models.Coupon, error)
	Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error
	Delete(ctx context.Context, id primitive.ObjectID) error

	// Read operations
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Coupon, error)
	GetByCode(ctx context.Context, code string) (*models.Coupon, error)
	List(ctx context.Context, params *utils.PaginationParams) ([]*models.Coupon, int64, error)
}

type couponService struct {
	couponRepo interfaces.CouponRepository
	logger     *logger.Logger
}

func NewCouponService(couponRepo interfaces.CouponRepository, log *logger.Logger) CouponService {
	return &couponService{
		couponRepo: couponRepo,
		logger:     log,
	}
}

// Admin operations
func (s *couponService) Create(ctx context.Context, req *CreateCouponRequest) (*models.Coupon, error) {
	code := strings.ToUpper(strings.TrimSpace(req.Code))
	if !utils.IsValidCouponCode(code) {
		return nil, &ValidationError{Field: "code", Message: "invalid coupon code format"}
	}

	switch req.Kind {
	case models.CouponKindFlat:
		if req.Value <= 0 {
			return nil, &ValidationError{Field: "value", Message: "flat discount must be positive"}
		}
	case models.CouponKindPercentage:
		if req.Value <= 0 || req.Value > 100 {
			return nil, &ValidationError{Field: "value", Message: "percentage must be in (0, 100]"}
		}
		// An uncapped percentage coupon is an unbounded liability.
		if req.MaxDiscountAmount <= 0 {
			return nil, &ValidationError{Field: "max_discount_amount", Message: "percentage coupons require a discount cap"}
		}
	default:
		return nil, &ValidationError{Field: "kind", Message: "kind must be flat or percentage"}
	}

	if !req.ExpiresAt.After(time.Now()) {
		return nil, &ValidationError{Field: "expires_at", Message: "expiry must be in the future"}
	}

	audience := req.Audience
	if audience == "" {
		audience = models.CouponAudiencePublic
	}

	audienceUsers, err := parseAudienceUsers(req.AudienceUsers)
	if err != nil {
		return nil, err
	}
	if audience != models.CouponAudiencePublic && len(audienceUsers) == 0 {
		return nil, &ValidationError{Field: "audience_users", Message: "audience lists require at least one user"}
	}

	perUserLimit := req.PerUserUsageLimit
	if perUserLimit <= 0 {
		perUserLimit = 1
	}

	coupon := &models.Coupon{
		Code:              code,
		Kind:              req.Kind,
		Value:             req.Value,
		MinPurchaseAmount: req.MinPurchaseAmount,
		MaxDiscountAmount: req.MaxDiscountAmount,
		ExpiresAt:         req.ExpiresAt,
		GlobalUsageLimit:  req.GlobalUsageLimit,
		PerUserUsageLimit: perUserLimit,
		IsActive:          true,
		Audience:          audience,
		AudienceUsers:     audienceUsers,
	}

	if err := s.couponRepo.Create(ctx, coupon); err != nil {
		return nil, err
	}

	s.logger.LogCouponEvent(coupon.Code, "created", map[string]interface{}{
		"kind":  string(coupon.Kind),
		"value": coupon.Value,
	})

	return coupon, nil
}

func (s *couponService) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	return s.couponRepo.Update(ctx, id, updates)
}

func (s *couponService) Delete(ctx context.Context, id primitive.ObjectID) error {
	hasHistory, err := s.couponRepo.HasRedemptionHistory(ctx, id)
	if err != nil {
		return err
	}
	if hasHistory {
		return ErrCouponHasHistory
	}

	if err := s.couponRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.WithField("coupon_id", id.Hex()).Info("Coupon deleted")
	return nil
}

// Read operations
func (s *couponService) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Coupon, error) {
	return s.couponRepo.GetByID(ctx, id)
}

func (s *couponService) GetByCode(ctx context.Context, code string) (*models.Coupon, error) {
	return s.couponRepo.GetByCode(ctx, code)
}

func (s *couponService) List(ctx context.Context, params *utils.PaginationParams) ([]*models.Coupon, int64, error) {
	return s.couponRepo.List(ctx, params)
}

func parseAudienceUsers(hexIDs []string) ([]primitive.ObjectID, error) {
	if len(hexIDs) == 0 {
		return nil, nil
	}

	ids := make([]primitive.ObjectID, 0, len(hexIDs))
	for _, raw := range hexIDs {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			return nil, &ValidationError{Field: "audience_users", Message: fmt.Sprintf("invalid user id %q", raw)}
		}
		ids = append(ids, id)
	}

	return ids, nil
}
