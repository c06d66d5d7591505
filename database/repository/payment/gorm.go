package paymentRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"marche/models"
	"marche/utils"

	"gorm.io/gorm"
)

type gormPaymentRepo struct {
	db *gorm.DB
}

func NewGormPaymentRepo(db *gorm.DB) PaymentRepository {
	return &gormPaymentRepo{db: db}
}

func (r *gormPaymentRepo) Create(ctx context.Context, res *models.PaymentReservation) error {
	if err := r.db.WithContext(ctx).Create(res).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("reservation %s or payment intent %s: %w", res.ID, res.StripePaymentIntentID, utils.ErrDuplicate)
		}
		return fmt.Errorf("failed to record reservation %s: %w", res.ID, err)
	}
	return nil
}

func (r *gormPaymentRepo) GetByID(ctx context.Context, id string) (*models.PaymentReservation, error) {
	var res models.PaymentReservation
	if err := r.db.WithContext(ctx).First(&res, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("reservation %s: %w", id, utils.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch reservation %s: %w", id, err)
	}
	return &res, nil
}

func (r *gormPaymentRepo) ListByUser(ctx context.Context, userID string) ([]models.PaymentReservation, error) {
	out := []models.PaymentReservation{}
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at desc").Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list reservations of %s: %w", userID, err)
	}
	return out, nil
}

func (r *gormPaymentRepo) UpdateStatus(ctx context.Context, id string, from, to models.PaymentStatus) error {
	tx := r.db.WithContext(ctx).Model(&models.PaymentReservation{}).Where("id = ? AND status = ?", id, from).
		Updates(map[string]interface{}{"status": to, "updated_at": time.Now().UTC()})
	if tx.Error != nil {
		return fmt.Errorf("failed to update reservation %s: %w", id, tx.Error)
	}
	if tx.RowsAffected == 0 {
		return fmt.Errorf("reservation %s in status %s: %w", id, from, utils.ErrNotFound)
	}
	return nil
}
