package repo

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/oss_shop/services/catalog/internal/models"
)

type ProductFilter struct {
	Q        string
	Brand    string
	Category string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
	Sort     string
}

func (r *GormRepo) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	if err := r.DB.WithContext(ctx).
		Preload("Categories").
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order ASC, id ASC") }).
		First(&product, id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func applyFilter(db *gorm.DB, f ProductFilter) *gorm.DB {
	if q := strings.TrimSpace(f.Q); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		db = db.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ? OR LOWER(brand) LIKE ?", like, like, like)
	}
	if f.Brand != "" {
		db = db.Where("LOWER(brand) = ?", strings.ToLower(f.Brand))
	}
	if f.Category != "" {
		sub := db.Session(&gorm.Session{NewDB: true}).
			Table("product_categories").
			Select("product_categories.product_id").
			Joins("JOIN categories ON categories.id = product_categories.category_id").
			Where("LOWER(categories.name) = ?", strings.ToLower(f.Category))
		db = db.Where("id IN (?)", sub)
	}
	if f.MinPrice != nil {
		db = db.Where("price >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		db = db.Where("price <= ?", *f.MaxPrice)
	}
	return db
}

func orderBy(sort string) string {
	switch sort {
	case "price_asc":
		return "price ASC, id ASC"
	case "price_desc":
		return "price DESC, id ASC"
	case "name":
		return "name ASC, id ASC"
	case "newest":
		return "created_at DESC, id DESC"
	default:
		return "id ASC"
	}
}

func (r *GormRepo) ListProducts(ctx context.Context, f ProductFilter, offset, limit int) (int64, []models.Product, error) {
	var total int64
	if err := applyFilter(r.DB.WithContext(ctx).Model(&models.Product{}), f).Count(&total).Error; err != nil {
		return 0, nil, err
	}

	items := make([]models.Product, 0, limit)
	if err := applyFilter(r.DB.WithContext(ctx).Model(&models.Product{}), f).
		Preload("Categories").
		Preload("Images").
		Order(orderBy(f.Sort)).
		Offset(offset).
		Limit(limit).
		Find(&items).Error; err != nil {
		return 0, nil, err
	}

	return total, items, nil
}

// GetProductsByIDs returns the products in ids order, skipping unknown ids.
func (r *GormRepo) GetProductsByIDs(ctx context.Context, ids []uint) ([]models.Product, error) {
	if len(ids) == 0 {
		return []models.Product{}, nil
	}

	var found []models.Product
	if err := r.DB.WithContext(ctx).
		Preload("Categories").
		Preload("Images").
		Where("id IN ?", ids).
		Find(&found).Error; err != nil {
		return nil, err
	}

	byID := make(map[uint]models.Product, len(found))
	for _, p := range found {
		byID[p.ID] = p
	}
	out := make([]models.Product, 0, len(found))
	seen := make(map[uint]bool, len(ids))
	for _, id := range ids {
		if p, ok := byID[id]; ok && !seen[id] {
			out = append(out, p)
			seen[id] = true
		}
	}
	return out, nil
}

func upsertCategories(tx *gorm.DB, names []string) ([]models.Category, error) {
	out := make([]models.Category, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		cat := models.Category{Name: name}
		if err := tx.Where("name = ?", name).FirstOrCreate(&cat).Error; err != nil {
			return nil, err
		}
		out = append(out, cat)
	}
	return out, nil
}

func (r *GormRepo) CreateProduct(ctx context.Context, prod *models.Product, categories []string) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cats, err := upsertCategories(tx, categories)
		if err != nil {
			return err
		}
		prod.Categories = cats
		return tx.Create(prod).Error
	})
}

// SaveProduct persists scalar fields and, when categories is non-nil, replaces the category set.
func (r *GormRepo) SaveProduct(ctx context.Context, prod *models.Product, categories []string) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(prod).Error; err != nil {
			return err
		}
		if categories == nil {
			return nil
		}
		cats, err := upsertCategories(tx, categories)
		if err != nil {
			return err
		}
		if err := tx.Model(prod).Association("Categories").Replace(cats); err != nil {
			return err
		}
		prod.Categories = cats
		return nil
	})
}

func (r *GormRepo) DeleteProduct(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var prod models.Product
		if err := tx.First(&prod, id).Error; err != nil {
			return err
		}
		if err := tx.Where("product_id = ?", id).Delete(&models.Review{}).Error; err != nil {
			return err
		}
		return tx.Select("Categories", "Images").Delete(&prod).Error
	})
}

// ReduceStock decrements stock under a row lock and recomputes availability.
func (r *GormRepo) ReduceStock(ctx context.Context, id uint, quantity int) (*models.Product, error) {
	var prod models.Product
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&prod, id).Error; err != nil {
			return err
		}
		if prod.Stock < quantity {
			return ErrInsufficientStock
		}

		prod.Stock -= quantity
		prod.AvailabilityStatus = models.AvailabilityFor(prod.Stock)
		return tx.Model(&prod).Updates(map[string]any{
			"stock":               prod.Stock,
			"availability_status": prod.AvailabilityStatus,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return &prod, nil
}
