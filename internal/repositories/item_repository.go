package repositories

import (
	"errors"

	"jobconnect_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrItemNotFound = errors.New("item not found")
)

type ItemRepository interface {
	Create(item *models.Item) error
	FindByID(id string) (*models.Item, error)
	FindAll(search string, page, pageSize int) ([]models.Item, int64, error)
	FindBySeller(sellerID string) ([]models.Item, error)
	Delete(itemID string) error
}

type ItemRepositoryImpl struct {
	db *gorm.DB
}

func NewItemRepository(db *gorm.DB) ItemRepository {
	return &ItemRepositoryImpl{db: db}
}

func (r *ItemRepositoryImpl) Create(item *models.Item) error {
	return r.db.Create(item).Error
}

func (r *ItemRepositoryImpl) FindByID(id string) (*models.Item, error) {
	var item models.Item
	err := r.db.First(&item, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}
	return &item, nil
}

func (r *ItemRepositoryImpl) FindAll(search string, page, pageSize int) ([]models.Item, int64, error) {
	var items []models.Item
	query := r.db.Model(&models.Item{})

	if search != "" {
		pattern := "%" + search + "%"
		query = query.Where("name ILIKE ? OR description ILIKE ? OR location ILIKE ?", pattern, pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&items).Error

	return items, total, err
}

func (r *ItemRepositoryImpl) FindBySeller(sellerID string) ([]models.Item, error) {
	var items []models.Item
	err := r.db.Where("seller_id = ?", sellerID).Order("created_at DESC").Find(&items).Error
	return items, err
}

func (r *ItemRepositoryImpl) Delete(itemID string) error {
	result := r.db.Where("id = ?", itemID).Delete(&models.Item{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrItemNotFound
	}
	return nil
}
