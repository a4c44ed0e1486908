package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/dressmake/tailorshop-api/config"
	"github.com/dressmake/tailorshop-api/models"
	"github.com/dressmake/tailorshop-api/utils"
)

// CreateProductRequest represents the request body for creating a product
type CreateProductRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description *string `json:"description"`
}

// UpdateProductRequest represents the request body for updating a product
type UpdateProductRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

var productOrderingFields = map[string]bool{
	"created_at": true,
	"updated_at": true,
}

// ListProducts handles GET /api/v1/products with name search, ordering and
// pagination. Newest first by default.
func ListProducts(c *gin.Context) {
	db := config.GetDB()
	params := utils.ParseListParams(c.Request.URL.Query())

	query := db.Model(&models.Product{})
	query = utils.ApplySearch(query, params.Search, "name")

	var count int64
	if err := query.Count(&count).Error; err != nil {
		respondDatabaseError(c, "Failed to count products")
		return
	}

	query = utils.ApplyOrdering(query, params.Ordering, productOrderingFields, "created_at DESC")

	var products []models.Product
	if err := utils.Paginate(query, params).Find(&products).Error; err != nil {
		respondDatabaseError(c, "Failed to list products")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"count":   count,
			"results": products,
		},
	})
}

// GetProduct handles GET /api/v1/products/:id
func GetProduct(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	db := config.GetDB()
	var product models.Product
	if err := db.First(&product, id).Error; err != nil {
		respondNotFound(c, "PRODUCT_NOT_FOUND", "Product not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": product})
}

// CreateProduct handles POST /api/v1/products
func CreateProduct(c *gin.Context) {
	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	product := models.Product{
		Name:        req.Name,
		Description: req.Description,
	}

	if errs := product.Validate(); errs != nil {
		respondFieldErrors(c, errs)
		return
	}

	db := config.GetDB()
	if err := db.Create(&product).Error; err != nil {
		respondDatabaseError(c, "Failed to create product")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "data": product})
}

// UpdateProduct handles PUT /api/v1/products/:id - partial update
func UpdateProduct(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	db := config.GetDB()
	var product models.Product
	if err := db.First(&product, id).Error; err != nil {
		respondNotFound(c, "PRODUCT_NOT_FOUND", "Product not found")
		return
	}

	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Description != nil {
		product.Description = req.Description
	}

	if errs := product.Validate(); errs != nil {
		respondFieldErrors(c, errs)
		return
	}

	if err := db.Save(&product).Error; err != nil {
		respondDatabaseError(c, "Failed to update product")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": product})
}

// DeleteProduct handles DELETE /api/v1/products/:id. Cascades to the
// product's properties, the persisted customer values for those properties,
// and the order items referencing the product.
func DeleteProduct(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	db := config.GetDB()
	var product models.Product
	if err := db.First(&product, id).Error; err != nil {
		respondNotFound(c, "PRODUCT_NOT_FOUND", "Product not found")
		return
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("property_id IN (?)",
			tx.Model(&models.Property{}).Select("id").Where("product_id = ?", id),
		).Delete(&models.CustomerProperty{}).Error; err != nil {
			return err
		}
		if err := tx.Where("product_id = ?", id).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}
		if err := tx.Where("product_id = ?", id).Delete(&models.Property{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Product{}, id).Error
	})
	if err != nil {
		respondDatabaseError(c, "Failed to delete product")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Product deleted",
	})
}
