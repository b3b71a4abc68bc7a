package services

import (
	"context"
	"errors"

	"goshop/internal/models"
	"goshop/internal/repositories/interfaces"
	"goshop/internal/utils"
	"goshop/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrOrderAccessDenied is returned when a user reads an order they do not own.
var ErrOrderAccessDenied = errors.New("order belongs to a different user")

type OrderService interface {
	GetByID(ctx context.Context, orderID, userID primitive.ObjectID, isAdmin bool) (*models.Order, error)
	ListByUser(ctx context.Context, userID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Order, int64, error)
	GetByPaymentRef(ctx context.Context, paymentRef string) (*models.Order, error)
}

type orderService struct {
	orderRepo interfaces.OrderRepository
	logger    *logger.Logger
}

func NewOrderService(orderRepo interfaces.OrderRepository, log *logger.Logger) OrderService {
	return &orderService{
		orderRepo: orderRepo,
		logger:    log,
	}
}

func (s *orderService) GetByID(ctx context.Context, orderID, userID primitive.ObjectID, isAdmin bool) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if !isAdmin && order.UserID != userID {
		s.logger.LogSecurityEvent("order_access_denied", "medium", map[string]interface{}{
			"order_id":        orderID.Hex(),
			"requesting_user": userID.Hex(),
		})
		return nil, ErrOrderAccessDenied
	}

	return order, nil
}

func (s *orderService) ListByUser(ctx context.Context, userID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Order, int64, error) {
	return s.orderRepo.GetByUser(ctx, userID, params)
}

func (s *orderService) GetByPaymentRef(ctx context.Context, paymentRef string) (*models.Order, error) {
	return s.orderRepo.GetByPaymentRef(ctx, paymentRef)
}
