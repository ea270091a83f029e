package ledger

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var (
	ErrPaymentNotFound = errors.New("payment not found")
)

// Repository is the persistence layer of the payment ledger.
type Repository interface {
	Create(ctx context.Context, payment *Payment) error
	FindByID(ctx context.Context, id string) (*Payment, error)
	FindByReservationID(ctx context.Context, reservationID string) ([]*Payment, error)
	HasCompletedPayment(ctx context.Context, reservationID string) (bool, error)
	Update(ctx context.Context, payment *Payment) error
	CreateTransaction(ctx context.Context, tx *Transaction) error
}

type gormRepository struct {
	db *gorm.DB
}

func NewGormRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

// Migrate creates or updates the ledger tables.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&Payment{}, &Transaction{}); err != nil {
		return fmt.Errorf("migrating payment ledger: %w", err)
	}
	return nil
}

func (r *gormRepository) Create(ctx context.Context, payment *Payment) error {
	if err := r.db.WithContext(ctx).Create(payment).Error; err != nil {
		return fmt.Errorf("creating payment: %w", err)
	}
	return nil
}

func (r *gormRepository) FindByID(ctx context.Context, id string) (*Payment, error) {
	var payment Payment
	err := r.db.WithContext(ctx).Preload("Transactions").First(&payment, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, fmt.Errorf("finding payment: %w", err)
	}
	return &payment, nil
}

func (r *gormRepository) FindByReservationID(ctx context.Context, reservationID string) ([]*Payment, error) {
	var payments []*Payment
	err := r.db.WithContext(ctx).
		Preload("Transactions").
		Where("reservation_id = ?", reservationID).
		Order("created_at DESC").
		Find(&payments).Error
	if err != nil {
		return nil, fmt.Errorf("finding payments by reservation: %w", err)
	}
	return payments, nil
}

func (r *gormRepository) HasCompletedPayment(ctx context.Context, reservationID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Payment{}).
		Where("reservation_id = ? AND status = ?", reservationID, PaymentCompleted).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("counting completed payments: %w", err)
	}
	return count > 0, nil
}

func (r *gormRepository) Update(ctx context.Context, payment *Payment) error {
	if err := r.db.WithContext(ctx).Save(payment).Error; err != nil {
		return fmt.Errorf("updating payment: %w", err)
	}
	return nil
}

func (r *gormRepository) CreateTransaction(ctx context.Context, tx *Transaction) error {
	if err := r.db.WithContext(ctx).Create(tx).Error; err != nil {
		return fmt.Errorf("creating payment transaction: %w", err)
	}
	return nil
}
