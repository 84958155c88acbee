package repo

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/oss_shop/services/cart/internal/models"
)

func loadCart(db *gorm.DB, userID uint) (*models.Cart, error) {
	var cart models.Cart
	err := db.Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Where("user_id = ?", userID).
		First(&cart).Error
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// getOrCreate inserts the cart row unless one exists. A concurrent insert is
// absorbed by ON CONFLICT, so a surrounding transaction is never aborted.
func getOrCreate(db *gorm.DB, userID uint) (*models.Cart, error) {
	cart := models.Cart{UserID: userID, UpdatedAt: time.Now().UTC()}
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoNothing: true,
	}).Create(&cart).Error
	if err != nil {
		return nil, err
	}
	return loadCart(db, userID)
}

func touch(tx *gorm.DB, cartID uint) error {
	return tx.Model(&models.Cart{}).Where("id = ?", cartID).Update("updated_at", time.Now().UTC()).Error
}

func (r *GormRepo) GetOrCreate(ctx context.Context, userID uint) (*models.Cart, error) {
	return getOrCreate(r.DB.WithContext(ctx), userID)
}

// AddItem merges quantity into the line with the same product and variant, or appends a new line.
func (r *GormRepo) AddItem(ctx context.Context, userID, productID uint, quantity int, variant string) (*models.Cart, error) {
	var out *models.Cart
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cart, err := getOrCreate(tx, userID)
		if err != nil {
			return err
		}

		res := tx.Model(&models.CartItem{}).
			Where("cart_id = ? AND product_id = ? AND variant = ?", cart.ID, productID, variant).
			Update("quantity", gorm.Expr("quantity + ?", quantity))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			item := models.CartItem{CartID: cart.ID, ProductID: productID, Quantity: quantity, Variant: variant}
			if err := tx.Create(&item).Error; err != nil {
				return err
			}
		}

		if err := touch(tx, cart.ID); err != nil {
			return err
		}
		out, err = loadCart(tx, userID)
		return err
	})
	return out, err
}

func (r *GormRepo) UpdateItem(ctx context.Context, userID, itemID uint, quantity int) (*models.Cart, error) {
	var out *models.Cart
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cart, err := getOrCreate(tx, userID)
		if err != nil {
			return err
		}

		res := tx.Model(&models.CartItem{}).
			Where("id = ? AND cart_id = ?", itemID, cart.ID).
			Update("quantity", quantity)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		if err := touch(tx, cart.ID); err != nil {
			return err
		}
		out, err = loadCart(tx, userID)
		return err
	})
	return out, err
}

func (r *GormRepo) RemoveItem(ctx context.Context, userID, itemID uint) (*models.Cart, error) {
	var out *models.Cart
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cart, err := getOrCreate(tx, userID)
		if err != nil {
			return err
		}

		res := tx.Where("id = ? AND cart_id = ?", itemID, cart.ID).Delete(&models.CartItem{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		if err := touch(tx, cart.ID); err != nil {
			return err
		}
		out, err = loadCart(tx, userID)
		return err
	})
	return out, err
}

func (r *GormRepo) Clear(ctx context.Context, userID uint) (*models.Cart, error) {
	var out *models.Cart
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cart, err := getOrCreate(tx, userID)
		if err != nil {
			return err
		}
		if err := tx.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		if err := touch(tx, cart.ID); err != nil {
			return err
		}
		out, err = loadCart(tx, userID)
		return err
	})
	return out, err
}
