package handlers

import (
	"net/http"

	"jobconnect_backend/internal/services"
	"jobconnect_backend/internal/services/dto"
	"jobconnect_backend/internal/validator"

	"github.com/gin-gonic/gin"
)

type ItemHandler struct {
	*BaseHandler
	itemService services.ItemService
}

func NewItemHandler(v *validator.Validator, itemService services.ItemService) *ItemHandler {
	return &ItemHandler{
		BaseHandler: NewBaseHandler(v),
		itemService: itemService,
	}
}

// Create - POST /api/v1/items
func (h *ItemHandler) Create(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreateItemRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	item, err := h.itemService.Create(userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, item)
}

// List - GET /api/v1/items
func (h *ItemHandler) List(c *gin.Context) {
	page, pageSize := ParsePagination(c)
	items, total, err := h.itemService.List(c.Query("search"), page, pageSize)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items":     items,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

// GetByID - GET /api/v1/items/:itemID
func (h *ItemHandler) GetByID(c *gin.Context) {
	item, err := h.itemService.GetByID(c.Param("itemID"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, item)
}

// ListMine - GET /api/v1/items/mine
func (h *ItemHandler) ListMine(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	items, err := h.itemService.ListBySeller(userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}

// Delete - DELETE /api/v1/items/:itemID (продавец)
func (h *ItemHandler) Delete(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.itemService.Delete(c.Param("itemID"), userID); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Item deleted"})
}
