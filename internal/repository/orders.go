package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/storefront/internal/models"
	"github.com/example/storefront/internal/utils"
)

// OrderRepository wraps parameterized queries over the orders table.
type OrderRepository struct {
	db *gorm.DB
}

// NewOrderRepository constructs an OrderRepository.
func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// Create inserts an order with its items. A duplicate idempotency key
// resolves to the order already created for that checkout attempt, so a
// retried submission never yields a second order.
func (r *OrderRepository) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	if order.OrderNumber == "" {
		order.OrderNumber = generateOrderNumber()
	}

	err := r.db.WithContext(ctx).Create(order).Error
	if err == nil {
		return order, nil
	}

	if isUniqueViolation(err) && order.IdempotencyKey != "" {
		var existing models.Order
		ferr := r.db.WithContext(ctx).Preload("Items").
			Where("idempotency_key = ?", order.IdempotencyKey).
			First(&existing).Error
		if ferr == nil {
			return &existing, nil
		}
	}

	return nil, err
}

// CreatePaidOrder persists an order that has already passed payment
// verification. Satisfies the reconciler's OrderWriter.
func (r *OrderRepository) CreatePaidOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	return r.Create(ctx, order)
}

// RecordTransaction logs a provider verification outcome. A repeat of the
// same reference is a no-op. Satisfies the reconciler's TransactionRecorder.
func (r *OrderRepository) RecordTransaction(ctx context.Context, txn *models.PaymentTransaction) error {
	err := r.db.WithContext(ctx).Create(txn).Error
	if err != nil && isUniqueViolation(err) {
		return nil
	}
	return err
}

// FindByID loads an order with its items.
func (r *OrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).Preload("Items").First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// OrderFilter narrows FindAll results.
type OrderFilter struct {
	UserID        *uuid.UUID
	OrderStatus   string
	PaymentStatus string
}

// FindAll returns orders matching the filter with bounded pagination.
func (r *OrderRepository) FindAll(ctx context.Context, filter OrderFilter, limit, offset int) ([]models.Order, int64, error) {
	limit = utils.ClampLimit(limit)
	offset = utils.ClampOffset(offset)

	query := r.db.WithContext(ctx).Model(&models.Order{})

	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.OrderStatus != "" {
		query = query.Where("order_status = ?", filter.OrderStatus)
	}
	if filter.PaymentStatus != "" {
		query = query.Where("payment_status = ?", filter.PaymentStatus)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var orders []models.Order
	if err := query.Preload("Items").
		Order("created_at desc").
		Limit(limit).Offset(offset).
		Find(&orders).Error; err != nil {
		return nil, 0, err
	}

	return orders, total, nil
}

// UpdateStatus transitions an order between statuses, enforcing the
// pending → processing → delivered ladder with cancellation from any
// non-terminal status.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, newStatus string) (*models.Order, error) {
	order, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !models.ValidOrderTransition(order.OrderStatus, newStatus) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, order.OrderStatus, newStatus)
	}

	updates := map[string]any{"order_status": newStatus}
	if newStatus == models.OrderDelivered {
		now := time.Now()
		updates["delivered_at"] = &now
		order.DeliveredAt = &now
	}

	if err := r.db.WithContext(ctx).Model(&models.Order{}).
		Where("id = ?", id).
		Updates(updates).Error; err != nil {
		return nil, err
	}

	order.OrderStatus = newStatus
	return order, nil
}

// MarkPaid records a verified payment against an existing pending order.
func (r *OrderRepository) MarkPaid(ctx context.Context, id uuid.UUID, reference string, paidAt time.Time) error {
	return r.db.WithContext(ctx).Model(&models.Order{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"payment_status":    models.PaymentPaid,
			"payment_reference": reference,
			"paid_at":           &paidAt,
		}).Error
}

// Delete removes an order and its items permanently.
func (r *OrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", id).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Order{}, "id = ?", id).Error
	})
}

// generateOrderNumber mints the human-visible order reference. Random
// rather than clock-derived so concurrent checkouts cannot mint the same
// number and trip the unique index.
func generateOrderNumber() string {
	return "SF-" + strings.ToUpper(uuid.NewString()[:8])
}
