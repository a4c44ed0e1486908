package controllers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/dressmake/tailorshop-api/config"
	"github.com/dressmake/tailorshop-api/models"
	"github.com/dressmake/tailorshop-api/services"
	"github.com/dressmake/tailorshop-api/utils"
)

// CreateOrderItemRequest represents the request body for adding a line item
// to an order. SelectedProperties carries the order-specific customization
// choices as a property-id → value map.
type CreateOrderItemRequest struct {
	Order              uint                   `json:"order" binding:"required"`
	Customer           uint                   `json:"customer" binding:"required"`
	Product            uint                   `json:"product" binding:"required"`
	Quantity           *int                   `json:"quantity"`
	Note               *string                `json:"note"`
	SelectedProperties map[string]interface{} `json:"selected_properties"`
}

// UpdateOrderItemRequest represents the request body for updating a line
// item. SelectedProperties replaces the whole map when provided.
type UpdateOrderItemRequest struct {
	Quantity           *int                    `json:"quantity"`
	Note               *string                 `json:"note"`
	SelectedProperties *map[string]interface{} `json:"selected_properties"`
}

// ListOrderItems handles GET /api/v1/order-items, filtered by order and/or
// customer. Search matches the product name or the customer's name.
func ListOrderItems(c *gin.Context) {
	db := config.GetDB()
	params := utils.ParseListParams(c.Request.URL.Query())

	query := db.Model(&models.OrderItem{})
	if orderID := c.Query("order"); orderID != "" {
		query = query.Where("order_id = ?", orderID)
	}
	if customerID := c.Query("customer"); customerID != "" {
		query = query.Where("customer_id = ?", customerID)
	}
	if params.Search != "" {
		query = query.Where("product_id IN (?) OR customer_id IN (?)",
			utils.ApplySearch(db.Model(&models.Product{}).Select("id"), params.Search, "name"),
			utils.ApplySearch(db.Model(&models.Customer{}).Select("id"), params.Search, "first_name", "last_name"),
		)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		respondDatabaseError(c, "Failed to count order items")
		return
	}

	var items []models.OrderItem
	if err := utils.Paginate(query.Order("id ASC"), params).Find(&items).Error; err != nil {
		respondDatabaseError(c, "Failed to list order items")
		return
	}
	for i := range items {
		attachImageURL(&items[i])
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"count":   count,
			"results": items,
		},
	})
}

// GetOrderItem handles GET /api/v1/order-items/:id
func GetOrderItem(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	db := config.GetDB()
	var item models.OrderItem
	if err := db.First(&item, id).Error; err != nil {
		respondNotFound(c, "ORDER_ITEM_NOT_FOUND", "Order item not found")
		return
	}
	attachImageURL(&item)

	c.JSON(http.StatusOK, gin.H{"success": true, "data": item})
}

// CreateOrderItem handles POST /api/v1/order-items. Selected properties are
// resolved, scope-checked and type-checked inside the same transaction as
// the insert; the item is rejected as a whole if any entry fails.
func CreateOrderItem(c *gin.Context) {
	var req CreateOrderItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	db := config.GetDB()
	var order models.Order
	if err := db.First(&order, req.Order).Error; err != nil {
		respondNotFound(c, "ORDER_NOT_FOUND", "Order not found")
		return
	}
	var customer models.Customer
	if err := db.First(&customer, req.Customer).Error; err != nil {
		respondNotFound(c, "CUSTOMER_NOT_FOUND", "Customer not found")
		return
	}
	var product models.Product
	if err := db.First(&product, req.Product).Error; err != nil {
		respondNotFound(c, "PRODUCT_NOT_FOUND", "Product not found")
		return
	}

	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	item := models.OrderItem{
		OrderID:    req.Order,
		CustomerID: req.Customer,
		ProductID:  req.Product,
		Quantity:   quantity,
		Note:       req.Note,
	}

	if errs := item.Validate(); errs != nil {
		respondFieldErrors(c, errs)
		return
	}

	var validationErrs models.FieldErrors
	err := db.Transaction(func(tx *gorm.DB) error {
		selected, errs, err := services.ValidateSelectedProperties(tx, req.Product, req.SelectedProperties)
		if err != nil {
			return err
		}
		if errs != nil {
			validationErrs = errs
			return errs
		}
		item.SelectedProperties = selected
		return tx.Create(&item).Error
	})
	if err != nil {
		if validationErrs != nil {
			respondFieldErrors(c, validationErrs)
			return
		}
		respondDatabaseError(c, "Failed to create order item")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "data": item})
}

// UpdateOrderItem handles PUT /api/v1/order-items/:id - partial update.
// Providing selected_properties re-runs the full scope and type validation
// against the item's product.
func UpdateOrderItem(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req UpdateOrderItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	db := config.GetDB()
	var item models.OrderItem
	if err := db.First(&item, id).Error; err != nil {
		respondNotFound(c, "ORDER_ITEM_NOT_FOUND", "Order item not found")
		return
	}

	if req.Quantity != nil {
		item.Quantity = *req.Quantity
	}
	if req.Note != nil {
		item.Note = req.Note
	}

	if errs := item.Validate(); errs != nil {
		respondFieldErrors(c, errs)
		return
	}

	var validationErrs models.FieldErrors
	err := db.Transaction(func(tx *gorm.DB) error {
		if req.SelectedProperties != nil {
			selected, errs, err := services.ValidateSelectedProperties(tx, item.ProductID, *req.SelectedProperties)
			if err != nil {
				return err
			}
			if errs != nil {
				validationErrs = errs
				return errs
			}
			item.SelectedProperties = selected
		}
		return tx.Save(&item).Error
	})
	if err != nil {
		if validationErrs != nil {
			respondFieldErrors(c, validationErrs)
			return
		}
		respondDatabaseError(c, "Failed to update order item")
		return
	}
	attachImageURL(&item)

	c.JSON(http.StatusOK, gin.H{"success": true, "data": item})
}

// DeleteOrderItem handles DELETE /api/v1/order-items/:id
func DeleteOrderItem(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	db := config.GetDB()
	var item models.OrderItem
	if err := db.First(&item, id).Error; err != nil {
		respondNotFound(c, "ORDER_ITEM_NOT_FOUND", "Order item not found")
		return
	}

	if err := db.Delete(&models.OrderItem{}, id).Error; err != nil {
		respondDatabaseError(c, "Failed to delete order item")
		return
	}

	// Clean up the reference photo after the row is gone
	if item.ImageS3Key != nil {
		if imageService := services.GetImageService(); imageService != nil {
			if err := imageService.DeleteImage(*item.ImageS3Key); err != nil {
				log.Printf("warning: failed to delete reference photo %s: %v", *item.ImageS3Key, err)
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Order item deleted",
	})
}

// UploadOrderItemImage handles POST /api/v1/order-items/:id/image - attaches
// a reference photo (design picture, fabric swatch) to a line item
func UploadOrderItemImage(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	db := config.GetDB()
	var item models.OrderItem
	if err := db.First(&item, id).Error; err != nil {
		respondNotFound(c, "ORDER_ITEM_NOT_FOUND", "Order item not found")
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		respondBadRequest(c, "MISSING_FILE", "An image file is required in the 'image' form field")
		return
	}

	imageService := services.GetImageService()
	if imageService == nil {
		respondDatabaseError(c, "Image storage is not configured")
		return
	}

	imageKey, err := imageService.UploadImage(fileHeader)
	if err != nil {
		if uploadErr, ok := err.(*utils.FileUploadError); ok {
			respondBadRequest(c, uploadErr.Code, uploadErr.Message)
			return
		}
		respondDatabaseError(c, "Failed to upload image")
		return
	}

	// Replace an existing photo; remove the old object once the new key is
	// persisted
	oldKey := item.ImageS3Key
	item.ImageS3Key = &imageKey
	if err := db.Save(&item).Error; err != nil {
		respondDatabaseError(c, "Failed to save image reference")
		return
	}
	if oldKey != nil && *oldKey != imageKey {
		if err := imageService.DeleteImage(*oldKey); err != nil {
			log.Printf("warning: failed to delete replaced reference photo %s: %v", *oldKey, err)
		}
	}
	attachImageURL(&item)

	c.JSON(http.StatusOK, gin.H{"success": true, "data": item})
}

// attachImageURL fills the computed presigned URL when the item has a
// reference photo and an image service is configured
func attachImageURL(item *models.OrderItem) {
	if item.ImageS3Key == nil || *item.ImageS3Key == "" {
		return
	}
	imageService := services.GetImageService()
	if imageService == nil {
		return
	}
	url, err := imageService.GetImageURL(*item.ImageS3Key)
	if err != nil {
		log.Printf("warning: failed to presign reference photo %s: %v", *item.ImageS3Key, err)
		return
	}
	item.ImageURL = &url
}
