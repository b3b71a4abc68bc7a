package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"goshop/internal/config"
	"goshop/internal/coupon"
	"goshop/internal/models"
	"goshop/internal/pricing"
	"goshop/internal/repositories/interfaces"
	"goshop/internal/utils"
	"goshop/pkg/logger"
	"goshop/pkg/payment"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Settlement states, logged as the transaction advances.
const (
	stateStarted         = "started"
	stateCartLoaded      = "cart_loaded"
	stateStockValidated  = "stock_validated"
	stateCouponsApplied  = "coupons_evaluated"
	stateTotalsComputed  = "totals_computed"
	statePaymentVerified = "payment_verified"
	stateOrderPersisted  = "order_persisted"
	stateCartCleared     = "cart_cleared"
	stateReplayed        = "replayed"
)

// SettlementRequest is everything the client submits to settle a checkout.
type SettlementRequest struct {
	UserID          primitive.ObjectID   `json:"-"`
	CouponCodes     []string             `json:"coupon_codes" validate:"max=3,dive,coupon_code"`
	PaymentMethod   models.PaymentMethod `json:"payment_method" validate:"required"`
	ClaimedTotal    float64              `json:"claimed_total" validate:"required,min=0"`
	Confirmation    payment.Confirmation `json:"confirmation"`
	ShippingAddress models.Address       `json:"shipping_address" validate:"required"`
}

type SettlementService interface {
	// Settle runs the full settlement transaction and returns the persisted
	// order. Replaying a confirmation the same user already settled returns
	// the original order.
	Settle(ctx context.Context, req *SettlementRequest) (*models.Order, error)
}

type settlementService struct {
	cartRepo    interfaces.CartRepository
	productRepo interfaces.ProductRepository
	couponRepo  interfaces.CouponRepository
	orderRepo   interfaces.OrderRepository
	userRepo    interfaces.UserRepository
	providers   map[models.PaymentMethod]payment.Provider
	lock        SettlementLocker
	cfg         *config.CheckoutConfig
	currency    string
	logger      *logger.Logger
	audit       *logger.AuditLogger
}

// SettlementLocker is the redis slice used to serialize concurrent attempts
// on the same payment confirmation reference.
type SettlementLocker interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) (bool, error)
	Delete(ctx context.Context, keys ...string) error
}

func NewSettlementService(
	cartRepo interfaces.CartRepository,
	productRepo interfaces.ProductRepository,
	couponRepo interfaces.CouponRepository,
	orderRepo interfaces.OrderRepository,
	userRepo interfaces.UserRepository,
	providers map[models.PaymentMethod]payment.Provider,
	lock SettlementLocker,
	cfg *config.CheckoutConfig,
	currency string,
	log *logger.Logger,
	audit *logger.AuditLogger,
) SettlementService {
	return &settlementService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		couponRepo:  couponRepo,
		orderRepo:   orderRepo,
		userRepo:    userRepo,
		providers:   providers,
		lock:        lock,
		cfg:         cfg,
		currency:    currency,
		logger:      log,
		audit:       audit,
	}
}

func (s *settlementService) Settle(ctx context.Context, req *SettlementRequest) (*models.Order, error) {
	paymentRef := req.Confirmation.ProviderPaymentID

	if err := s.validateRequest(req); err != nil {
		return nil, err
	}

	s.logger.LogSettlementEvent(paymentRef, stateStarted, map[string]interface{}{
		"user_id":        req.UserID.Hex(),
		"payment_method": req.PaymentMethod,
	})

	// Idempotency pre-check: a confirmation that already settled short-circuits
	// the whole transaction.
	if existing, err := s.orderRepo.GetByPaymentRef(ctx, paymentRef); err == nil {
		return s.resolveReplay(req, existing)
	} else if !errors.Is(err, interfaces.ErrOrderNotFound) {
		return nil, &TransientStoreError{Op: "idempotency check", Err: err}
	}

	// One settlement per confirmation at a time.
	lockKey := fmt.Sprintf("settlement_lock_%s", paymentRef)
	if s.lock != nil {
		acquired, err := s.lock.SetNX(ctx, lockKey, utils.GenerateRandomString(16), utils.SettlementLockTTL)
		if err != nil {
			return nil, &TransientStoreError{Op: "settlement lock", Err: err}
		}
		if !acquired {
			return nil, ErrSettlementInProgress
		}
		defer s.lock.Delete(ctx, lockKey)
	}

	cart, err := s.cartRepo.GetByUser(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, interfaces.ErrCartNotFound) {
			return nil, &ValidationError{Field: "cart", Message: "cart is empty"}
		}
		return nil, &TransientStoreError{Op: "cart load", Err: err}
	}
	if cart.IsEmpty() {
		return nil, &ValidationError{Field: "cart", Message: "cart is empty"}
	}
	s.logSettlementState(paymentRef, stateCartLoaded, len(cart.Items))

	items, err := s.buildLineItems(ctx, cart)
	if err != nil {
		return nil, err
	}
	s.logSettlementState(paymentRef, stateStockValidated, len(items))

	subtotal := pricing.Subtotal(items)

	applied, totalDiscount, err := s.evaluateCoupons(ctx, req, subtotal)
	if err != nil {
		return nil, err
	}
	s.logSettlementState(paymentRef, stateCouponsApplied, len(applied))

	rules := pricing.Rules{
		FreeShippingThreshold: s.cfg.FreeShippingThreshold,
		FlatShippingFee:       s.cfg.FlatShippingFee,
		TaxRatePercent:        s.cfg.TaxRatePercent,
	}
	totals := pricing.ComputeTotal(items, rules, totalDiscount)

	// The client's claimed total must reconcile with ours before any money
	// is trusted.
	if rec := pricing.Reconcile(totals.Total, req.ClaimedTotal, s.currency, s.cfg.AmountToleranceMinor); !rec.Matches {
		s.logger.WithPaymentRef(paymentRef).
			WithUserID(req.UserID).
			WithFields(map[string]interface{}{
				"computed_minor": rec.ComputedMinor,
				"claimed_minor":  rec.ClaimedMinor,
			}).
			Warn("Claimed total does not reconcile with computed total")
		return nil, &AmountMismatchError{ComputedMinor: rec.ComputedMinor, ClaimedMinor: rec.ClaimedMinor}
	}
	s.logSettlementState(paymentRef, stateTotalsComputed, totals.Total)

	if err := s.verifyPayment(ctx, req, totals.Total); err != nil {
		return nil, err
	}
	s.logSettlementState(paymentRef, statePaymentVerified, req.PaymentMethod)

	order, err := s.persistOrder(ctx, req, cart, items, applied, totals)
	if err != nil {
		return nil, err
	}
	s.logSettlementState(paymentRef, stateOrderPersisted, order.ID.Hex())

	s.finishSettlement(ctx, cart, order)

	return order, nil
}

func (s *settlementService) validateRequest(req *SettlementRequest) error {
	if req.UserID.IsZero() {
		return &ValidationError{Field: "user_id", Message: "settlement requires an authenticated user"}
	}
	if _, ok := s.providers[req.PaymentMethod]; !ok && req.PaymentMethod != models.PaymentMethodCOD {
		return &ValidationError{Field: "payment_method", Message: "unsupported payment method"}
	}
	if req.PaymentMethod != models.PaymentMethodCOD {
		if req.Confirmation.ProviderPaymentID == "" || req.Confirmation.ProviderOrderID == "" || req.Confirmation.ProviderSignature == "" {
			return &ValidationError{Field: "confirmation", Message: "incomplete payment confirmation"}
		}
	} else if req.Confirmation.ProviderPaymentID == "" {
		return &ValidationError{Field: "confirmation", Message: "missing payment confirmation reference"}
	}
	if len(req.CouponCodes) > s.cfg.MaxCouponsPerOrder {
		return &ValidationError{Field: "coupon_codes", Message: fmt.Sprintf("at most %d coupons per order", s.cfg.MaxCouponsPerOrder)}
	}
	if !s.cfg.AllowCouponStacking && len(req.CouponCodes) > 1 {
		return &ValidationError{Field: "coupon_codes", Message: "coupon stacking is disabled"}
	}
	return nil
}

// resolveReplay decides what an already-settled confirmation means: the same
// user retrying is an idempotent success, anyone else is rejected.
func (s *settlementService) resolveReplay(req *SettlementRequest, existing *models.Order) (*models.Order, error) {
	if existing.UserID == req.UserID {
		s.logSettlementState(req.Confirmation.ProviderPaymentID, stateReplayed, existing.ID.Hex())
		return existing, nil
	}

	s.logger.LogSecurityEvent("settlement_replay_foreign_user", "high", map[string]interface{}{
		"payment_ref":       req.Confirmation.ProviderPaymentID,
		"requesting_user":   req.UserID.Hex(),
		"existing_order_id": existing.ID.Hex(),
	})
	return nil, &DuplicateSettlementError{Existing: existing}
}

// buildLineItems snapshots the cart against the live catalog, validating
// availability as it goes. Prices come from the catalog, never the cart.
func (s *settlementService) buildLineItems(ctx context.Context, cart *models.Cart) ([]models.LineItem, error) {
	ids := make([]primitive.ObjectID, 0, len(cart.Items))
	for _, item := range cart.Items {
		ids = append(ids, item.ProductID)
	}

	products, err := s.productRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, &TransientStoreError{Op: "product load", Err: err}
	}

	byID := make(map[primitive.ObjectID]*models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	items := make([]models.LineItem, 0, len(cart.Items))
	for _, ci := range cart.Items {
		product, ok := byID[ci.ProductID]
		if !ok {
			return nil, &ValidationError{Field: "cart", Message: fmt.Sprintf("product %s no longer exists", ci.ProductID.Hex())}
		}
		if ci.Quantity < 1 {
			return nil, &ValidationError{Field: "cart", Message: "line item quantity must be at least 1"}
		}
		if !product.IsAvailable(ci.Size, ci.Color) {
			return nil, &StockError{ProductID: product.ID, Name: product.Name, Requested: ci.Quantity}
		}

		items = append(items, models.LineItem{
			ProductID: product.ID,
			Name:      product.Name,
			SKU:       product.SKU,
			Quantity:  ci.Quantity,
			UnitPrice: product.Price,
			Size:      ci.Size,
			Color:     ci.Color,
		})
	}

	return items, nil
}

// evaluateCoupons runs the pure evaluator over each requested code and
// combines the resulting discounts under the stacking policy.
func (s *settlementService) evaluateCoupons(ctx context.Context, req *SettlementRequest, subtotal float64) ([]models.AppliedCoupon, float64, error) {
	if len(req.CouponCodes) == 0 {
		return nil, 0, nil
	}

	now := time.Now()
	seen := make(map[string]bool, len(req.CouponCodes))
	applied := make([]models.AppliedCoupon, 0, len(req.CouponCodes))
	discounts := make([]float64, 0, len(req.CouponCodes))

	for _, rawCode := range req.CouponCodes {
		code := strings.ToUpper(strings.TrimSpace(rawCode))
		if seen[code] {
			return nil, 0, &ValidationError{Field: "coupon_codes", Message: fmt.Sprintf("coupon %s listed twice", code)}
		}
		seen[code] = true

		c, err := s.couponRepo.GetByCode(ctx, code)
		if err != nil {
			if errors.Is(err, interfaces.ErrCouponNotFound) {
				return nil, 0, &CouponError{Code: code, Reason: coupon.ReasonNotFound}
			}
			return nil, 0, &TransientStoreError{Op: "coupon load", Err: err}
		}

		prior, err := s.couponRepo.CountUserRedemptions(ctx, c.ID, req.UserID)
		if err != nil {
			return nil, 0, &TransientStoreError{Op: "redemption count", Err: err}
		}

		eval := coupon.Evaluate(c, subtotal, req.UserID, int(prior), now)
		if !eval.Applicable {
			s.logger.LogCouponEvent(code, "rejected", map[string]interface{}{
				"reason":  string(eval.Reason),
				"user_id": req.UserID.Hex(),
			})
			return nil, 0, &CouponError{Code: code, Reason: eval.Reason}
		}

		discounts = append(discounts, eval.DiscountAmount)
		applied = append(applied, models.AppliedCoupon{
			CouponID:       c.ID,
			Code:           c.Code,
			Kind:           c.Kind,
			Value:          c.Value,
			DiscountAmount: eval.DiscountAmount,
			AppliedAt:      now,
		})
	}

	return applied, coupon.CombineDiscounts(subtotal, discounts), nil
}

// verifyPayment checks the confirmation signature, then confirms capture and
// amount directly with the provider. COD orders skip provider verification.
func (s *settlementService) verifyPayment(ctx context.Context, req *SettlementRequest, computedTotal float64) error {
	if req.PaymentMethod == models.PaymentMethodCOD {
		return nil
	}

	provider := s.providers[req.PaymentMethod]
	paymentRef := req.Confirmation.ProviderPaymentID

	if !provider.VerifyConfirmationSignature(&req.Confirmation) {
		s.logger.LogSecurityEvent("settlement_signature_mismatch", "high", map[string]interface{}{
			"payment_ref": paymentRef,
			"provider":    provider.Name(),
			"user_id":     req.UserID.Hex(),
		})
		return &SignatureError{PaymentRef: paymentRef, Reason: "confirmation signature mismatch"}
	}

	fetchCtx, cancel := context.WithTimeout(ctx, s.cfg.ProviderVerifyTimeout)
	defer cancel()

	p, err := provider.FetchPayment(fetchCtx, paymentRef)
	if err != nil {
		// An unreachable provider means the payment stays unverified; the
		// client may retry once the provider recovers.
		s.logger.WithPaymentRef(paymentRef).WithError(err).Warn("Provider payment fetch failed")
		return &SignatureError{PaymentRef: paymentRef, Reason: "provider verification unavailable"}
	}

	if p.Status != payment.StatusCaptured {
		return &SignatureError{PaymentRef: paymentRef, Reason: fmt.Sprintf("payment not captured (status %s)", p.Status)}
	}
	if p.OrderID != "" && p.OrderID != req.Confirmation.ProviderOrderID {
		return &SignatureError{PaymentRef: paymentRef, Reason: "payment belongs to a different provider order"}
	}

	if rec := pricing.ReconcileMinor(computedTotal, p.AmountMinor, s.currency, s.cfg.AmountToleranceMinor); !rec.Matches {
		s.logger.WithPaymentRef(paymentRef).
			WithFields(map[string]interface{}{
				"computed_minor": rec.ComputedMinor,
				"captured_minor": rec.ClaimedMinor,
			}).
			Warn("Captured amount does not reconcile with computed total")
		return &AmountMismatchError{ComputedMinor: rec.ComputedMinor, ClaimedMinor: rec.ClaimedMinor}
	}

	return nil
}

// persistOrder reserves coupon usage and stock, then inserts the order,
// retrying transient store failures. Each side effect is compensated if a
// later step fails.
func (s *settlementService) persistOrder(
	ctx context.Context,
	req *SettlementRequest,
	cart *models.Cart,
	items []models.LineItem,
	applied []models.AppliedCoupon,
	totals pricing.Totals,
) (*models.Order, error) {
	reserved, err := s.reserveCoupons(ctx, applied)
	if err != nil {
		return nil, err
	}

	decremented, err := s.reserveStock(ctx, items)
	if err != nil {
		s.releaseCoupons(ctx, reserved)
		return nil, err
	}

	paymentStatus := models.PaymentStatusPaid
	if req.PaymentMethod == models.PaymentMethodCOD {
		paymentStatus = models.PaymentStatusPending
	}

	order := &models.Order{
		UserID:                 req.UserID,
		Items:                  items,
		Subtotal:               totals.Subtotal,
		ShippingCost:           totals.ShippingCost,
		Tax:                    totals.Tax,
		AppliedCoupons:         applied,
		TotalDiscount:          totals.TotalDiscount,
		Total:                  totals.Total,
		Currency:               s.currency,
		PaymentMethod:          req.PaymentMethod,
		PaymentStatus:          paymentStatus,
		OrderStatus:            models.OrderStatusConfirmed,
		PaymentConfirmationRef: req.Confirmation.ProviderPaymentID,
		ProviderOrderID:        req.Confirmation.ProviderOrderID,
		ShippingAddress:        req.ShippingAddress,
	}

	var insertErr error
	for attempt := 1; attempt <= s.cfg.SettleMaxRetries; attempt++ {
		insertErr = s.orderRepo.Create(ctx, order)
		if insertErr == nil {
			return order, nil
		}

		if errors.Is(insertErr, interfaces.ErrDuplicatePaymentRef) {
			// Lost the insert race to a concurrent settlement. Undo our
			// reservations and resolve against the winner.
			s.releaseCoupons(ctx, reserved)
			s.releaseStock(ctx, decremented)

			existing, err := s.orderRepo.GetByPaymentRef(ctx, req.Confirmation.ProviderPaymentID)
			if err != nil {
				return nil, &TransientStoreError{Op: "duplicate resolution", Err: err}
			}
			return s.resolveReplay(req, existing)
		}

		s.logger.WithPaymentRef(req.Confirmation.ProviderPaymentID).
			WithError(insertErr).
			Warnf("Order insert failed, attempt %d of %d", attempt, s.cfg.SettleMaxRetries)

		select {
		case <-ctx.Done():
			s.releaseCoupons(ctx, reserved)
			s.releaseStock(ctx, decremented)
			return nil, &TransientStoreError{Op: "order insert", Err: ctx.Err()}
		case <-time.After(time.Duration(attempt) * 100 * time.Millisecond):
		}
	}

	s.releaseCoupons(ctx, reserved)
	s.releaseStock(ctx, decremented)
	return nil, &TransientStoreError{Op: "order insert", Err: insertErr}
}

// reserveCoupons atomically claims one usage per applied coupon. The store
// rejects the claim when the global limit is spent, which is where the
// last-coupon race between concurrent settlements is decided.
func (s *settlementService) reserveCoupons(ctx context.Context, applied []models.AppliedCoupon) ([]primitive.ObjectID, error) {
	reserved := make([]primitive.ObjectID, 0, len(applied))
	for _, ac := range applied {
		ok, err := s.couponRepo.IncrementUsage(ctx, ac.CouponID)
		if err != nil {
			s.releaseCoupons(ctx, reserved)
			return nil, &TransientStoreError{Op: "coupon reservation", Err: err}
		}
		if !ok {
			s.releaseCoupons(ctx, reserved)
			return nil, &CouponError{Code: ac.Code, Reason: coupon.ReasonGlobalLimit}
		}
		reserved = append(reserved, ac.CouponID)
	}
	return reserved, nil
}

func (s *settlementService) releaseCoupons(ctx context.Context, reserved []primitive.ObjectID) {
	for _, id := range reserved {
		if err := s.couponRepo.DecrementUsage(ctx, id); err != nil {
			s.logger.WithError(err).WithField("coupon_id", id.Hex()).Error("Failed to release coupon reservation")
		}
	}
}

type stockReservation struct {
	item models.LineItem
}

func (s *settlementService) reserveStock(ctx context.Context, items []models.LineItem) ([]stockReservation, error) {
	decremented := make([]stockReservation, 0, len(items))
	for _, item := range items {
		ok, err := s.productRepo.DecrementStock(ctx, item.ProductID, item.Size, item.Color, item.Quantity)
		if err != nil {
			s.releaseStock(ctx, decremented)
			return nil, &TransientStoreError{Op: "stock reservation", Err: err}
		}
		if !ok {
			s.releaseStock(ctx, decremented)
			return nil, &StockError{ProductID: item.ProductID, Name: item.Name, Requested: item.Quantity}
		}
		decremented = append(decremented, stockReservation{item: item})
	}
	return decremented, nil
}

func (s *settlementService) releaseStock(ctx context.Context, decremented []stockReservation) {
	for _, res := range decremented {
		item := res.item
		if err := s.productRepo.RestoreStock(ctx, item.ProductID, item.Size, item.Color, item.Quantity); err != nil {
			s.logger.WithError(err).WithField("product_id", item.ProductID.Hex()).Error("Failed to restore stock reservation")
		}
	}
}

// finishSettlement runs the post-commit steps. The order is already durable,
// so failures here are logged rather than surfaced.
func (s *settlementService) finishSettlement(ctx context.Context, cart *models.Cart, order *models.Order) {
	if err := s.cartRepo.Clear(ctx, cart.ID); err != nil {
		s.logger.WithError(err).WithOrderID(order.ID).Error("Failed to clear cart after settlement")
	} else {
		s.logSettlementState(order.PaymentConfirmationRef, stateCartCleared, cart.ID.Hex())
	}

	if err := s.userRepo.IncrementOrderCount(ctx, order.UserID); err != nil {
		s.logger.WithError(err).WithUserID(order.UserID).Error("Failed to increment user order count")
	}

	if s.audit != nil {
		s.audit.LogSettlementAudit(order.ID, order.PaymentConfirmationRef, order.Total, order.Currency, "settled")
		for _, ac := range order.AppliedCoupons {
			s.audit.LogCouponRedemption(ac.CouponID, ac.Code, order.UserID, ac.DiscountAmount)
		}
	}
}

func (s *settlementService) logSettlementState(paymentRef, state string, detail interface{}) {
	s.logger.LogSettlementEvent(paymentRef, state, map[string]interface{}{
		"detail": detail,
	})
}
