package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/Skotchmaster/oss_shop/services/order/internal/models"
)

func itemsByID(db *gorm.DB) *gorm.DB {
	return db.Order("id ASC")
}

func (r *GormRepo) CreateOrder(ctx context.Context, order *models.Order) error {
	return r.DB.WithContext(ctx).Create(order).Error
}

func (r *GormRepo) GetOrder(ctx context.Context, orderID string) (*models.Order, error) {
	var order models.Order
	if err := r.DB.WithContext(ctx).
		Preload("Items", itemsByID).
		Where("order_id = ?", orderID).
		First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *GormRepo) ListByCustomer(ctx context.Context, customerID uint, limit, offset int) ([]models.Order, error) {
	orders := make([]models.Order, 0)
	q := r.DB.WithContext(ctx).
		Preload("Items", itemsByID).
		Where("customer_id = ?", customerID).
		Order("order_date DESC, id DESC")
	if limit > 0 {
		q = q.Limit(limit).Offset(offset)
	}
	if err := q.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// ReplaceItems swaps the order's lines and total in one transaction.
func (r *GormRepo) ReplaceItems(ctx context.Context, order *models.Order, items []models.OrderItem) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", order.ID).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}
		for i := range items {
			items[i].ID = 0
			items[i].OrderID = order.ID
		}
		if len(items) > 0 {
			if err := tx.Create(&items).Error; err != nil {
				return err
			}
		}
		if err := tx.Model(&models.Order{}).Where("id = ?", order.ID).Update("total_amount", order.TotalAmount).Error; err != nil {
			return err
		}
		order.Items = items
		return nil
	})
}

// SetStatus moves the order from one status to another; it fails with
// gorm.ErrRecordNotFound when the order is no longer in status from.
func (r *GormRepo) SetStatus(ctx context.Context, id uint, from, to models.OrderStatus) error {
	res := r.DB.WithContext(ctx).Model(&models.Order{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
