package services

import (
	"errors"

	"jobconnect_backend/internal/models"
	"jobconnect_backend/internal/repositories"
	"jobconnect_backend/internal/services/dto"
	"jobconnect_backend/pkg/apperrors"
)

type ItemService interface {
	Create(sellerID string, req *dto.CreateItemRequest) (*models.Item, error)
	GetByID(itemID string) (*models.Item, error)
	List(search string, page, pageSize int) ([]models.Item, int64, error)
	ListBySeller(sellerID string) ([]models.Item, error)
	Delete(itemID, sellerID string) error
}

type ItemServiceImpl struct {
	itemRepo repositories.ItemRepository
}

func NewItemService(itemRepo repositories.ItemRepository) ItemService {
	return &ItemServiceImpl{itemRepo: itemRepo}
}

func (s *ItemServiceImpl) Create(sellerID string, req *dto.CreateItemRequest) (*models.Item, error) {
	item := &models.Item{
		Name:        req.Name,
		Description: req.Description,
		Location:    req.Location,
		Price:       req.Price,
		Phone:       req.Phone,
		Image:       req.Image,
		Video:       req.Video,
		SellerID:    sellerID,
	}
	if err := s.itemRepo.Create(item); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return item, nil
}

func (s *ItemServiceImpl) GetByID(itemID string) (*models.Item, error) {
	item, err := s.itemRepo.FindByID(itemID)
	if err != nil {
		if errors.Is(err, repositories.ErrItemNotFound) {
			return nil, apperrors.ErrItemNotFound
		}
		return nil, apperrors.InternalError(err)
	}
	return item, nil
}

func (s *ItemServiceImpl) List(search string, page, pageSize int) ([]models.Item, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	items, total, err := s.itemRepo.FindAll(search, page, pageSize)
	if err != nil {
		return nil, 0, apperrors.InternalError(err)
	}
	return items, total, nil
}

func (s *ItemServiceImpl) ListBySeller(sellerID string) ([]models.Item, error) {
	items, err := s.itemRepo.FindBySeller(sellerID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return items, nil
}

// Delete удаляет объявление. Разрешено только продавцу.
func (s *ItemServiceImpl) Delete(itemID, sellerID string) error {
	item, err := s.itemRepo.FindByID(itemID)
	if err != nil {
		if errors.Is(err, repositories.ErrItemNotFound) {
			return apperrors.ErrItemNotFound
		}
		return apperrors.InternalError(err)
	}
	if item.SellerID != sellerID {
		return apperrors.NewForbiddenError("You can only delete your own items")
	}

	if err := s.itemRepo.Delete(itemID); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}
