package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/dressmake/tailorshop-api/config"
	"github.com/dressmake/tailorshop-api/models"
	"github.com/dressmake/tailorshop-api/utils"
)

// CreateOrderRequest represents the request body for creating an order
type CreateOrderRequest struct {
	PlacedBy uint   `json:"placed_by" binding:"required"`
	Price    int64  `json:"price"`
	Payed    int64  `json:"payed"`
	Status   string `json:"status"`
}

// UpdateOrderRequest represents the request body for updating an order.
// Updates act partially even over PUT.
type UpdateOrderRequest struct {
	Price  *int64  `json:"price"`
	Payed  *int64  `json:"payed"`
	Status *string `json:"status"`
}

var orderOrderingFields = map[string]bool{
	"created_at": true,
	"price":      true,
}

// ListOrders handles GET /api/v1/orders with placed_by/status filters,
// search by customer name, and pagination. Newest first by default.
func ListOrders(c *gin.Context) {
	db := config.GetDB()
	params := utils.ParseListParams(c.Request.URL.Query())

	query := db.Model(&models.Order{})
	if placedBy := c.Query("placed_by"); placedBy != "" {
		query = query.Where("placed_by_id = ?", placedBy)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if params.Search != "" {
		query = query.Where("placed_by_id IN (?)",
			utils.ApplySearch(
				db.Model(&models.Customer{}).Select("id"),
				params.Search, "first_name", "last_name",
			),
		)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		respondDatabaseError(c, "Failed to count orders")
		return
	}

	query = utils.ApplyOrdering(query, params.Ordering, orderOrderingFields, "created_at DESC")

	var orders []models.Order
	if err := utils.Paginate(query.Preload("Items"), params).Find(&orders).Error; err != nil {
		respondDatabaseError(c, "Failed to list orders")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"count":   count,
			"results": orders,
		},
	})
}

// GetOrder handles GET /api/v1/orders/:id, items included
func GetOrder(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	db := config.GetDB()
	var order models.Order
	if err := db.Preload("Items").First(&order, id).Error; err != nil {
		respondNotFound(c, "ORDER_NOT_FOUND", "Order not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": order})
}

// CreateOrder handles POST /api/v1/orders
func CreateOrder(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	db := config.GetDB()
	var customer models.Customer
	if err := db.First(&customer, req.PlacedBy).Error; err != nil {
		respondNotFound(c, "CUSTOMER_NOT_FOUND", "Customer not found")
		return
	}

	status := req.Status
	if status == "" {
		status = models.OrderStatusInProgress
	}

	order := models.Order{
		PlacedByID: req.PlacedBy,
		Price:      req.Price,
		Payed:      req.Payed,
		Status:     status,
	}

	if errs := order.Validate(); errs != nil {
		respondFieldErrors(c, errs)
		return
	}

	if err := db.Create(&order).Error; err != nil {
		respondDatabaseError(c, "Failed to create order")
		return
	}
	// a fresh order has no items yet; keep the JSON shape stable
	order.Items = []models.OrderItem{}

	c.JSON(http.StatusCreated, gin.H{"success": true, "data": order})
}

// UpdateOrder handles PUT /api/v1/orders/:id - partial update of price,
// payed and status. The payment invariants are re-checked against the merged
// state, so lowering the price below what is already payed is rejected.
func UpdateOrder(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req UpdateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	db := config.GetDB()
	var order models.Order
	if err := db.First(&order, id).Error; err != nil {
		respondNotFound(c, "ORDER_NOT_FOUND", "Order not found")
		return
	}

	if req.Price != nil {
		order.Price = *req.Price
	}
	if req.Payed != nil {
		order.Payed = *req.Payed
	}
	if req.Status != nil {
		order.Status = *req.Status
	}

	if errs := order.Validate(); errs != nil {
		respondFieldErrors(c, errs)
		return
	}

	if err := db.Save(&order).Error; err != nil {
		respondDatabaseError(c, "Failed to update order")
		return
	}

	if err := db.Preload("Items").First(&order, order.ID).Error; err != nil {
		respondDatabaseError(c, "Failed to load order")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": order})
}

// DeleteOrder handles DELETE /api/v1/orders/:id, deleting the order's items
// with it
func DeleteOrder(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	db := config.GetDB()
	var order models.Order
	if err := db.First(&order, id).Error; err != nil {
		respondNotFound(c, "ORDER_NOT_FOUND", "Order not found")
		return
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", id).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Order{}, id).Error
	})
	if err != nil {
		respondDatabaseError(c, "Failed to delete order")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Order deleted",
	})
}
