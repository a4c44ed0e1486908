package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/dressmake/tailorshop-api/config"
	"github.com/dressmake/tailorshop-api/models"
	"github.com/dressmake/tailorshop-api/utils"
)

// CreatePropertyRequest represents the request body for creating a property
// definition
type CreatePropertyRequest struct {
	Product            uint     `json:"product" binding:"required"`
	Name               string   `json:"name" binding:"required"`
	ValueType          string   `json:"value_type" binding:"required"`
	PossibleValues     []string `json:"possible_values"`
	IsCustomerSpecific bool     `json:"is_customer_specific"`
}

// UpdatePropertyRequest represents the request body for updating a property
// definition. PossibleValues replaces the whole list when provided.
type UpdatePropertyRequest struct {
	Name               *string   `json:"name"`
	ValueType          *string   `json:"value_type"`
	PossibleValues     *[]string `json:"possible_values"`
	IsCustomerSpecific *bool     `json:"is_customer_specific"`
}

// ListProperties handles GET /api/v1/properties, optionally filtered by
// product
func ListProperties(c *gin.Context) {
	db := config.GetDB()
	params := utils.ParseListParams(c.Request.URL.Query())

	query := db.Model(&models.Property{})
	if productID := c.Query("product"); productID != "" {
		query = query.Where("product_id = ?", productID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		respondDatabaseError(c, "Failed to count properties")
		return
	}

	var properties []models.Property
	if err := utils.Paginate(query.Order("id ASC"), params).Find(&properties).Error; err != nil {
		respondDatabaseError(c, "Failed to list properties")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"count":   count,
			"results": properties,
		},
	})
}

// GetProperty handles GET /api/v1/properties/:id
func GetProperty(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	db := config.GetDB()
	var property models.Property
	if err := db.First(&property, id).Error; err != nil {
		respondNotFound(c, "PROPERTY_NOT_FOUND", "Property not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": property})
}

// CreateProperty handles POST /api/v1/properties. The dropdown /
// possible_values pairing is enforced here, at definition time.
func CreateProperty(c *gin.Context) {
	var req CreatePropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	db := config.GetDB()
	var product models.Product
	if err := db.First(&product, req.Product).Error; err != nil {
		respondNotFound(c, "PRODUCT_NOT_FOUND", "Product not found")
		return
	}

	property := models.Property{
		ProductID:          req.Product,
		Name:               req.Name,
		ValueType:          req.ValueType,
		PossibleValues:     req.PossibleValues,
		IsCustomerSpecific: req.IsCustomerSpecific,
	}

	if errs := property.Validate(); errs != nil {
		respondFieldErrors(c, errs)
		return
	}

	if err := db.Create(&property).Error; err != nil {
		respondDatabaseError(c, "Failed to create property")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "data": property})
}

// UpdateProperty handles PUT /api/v1/properties/:id - partial update. The
// pairing invariant is re-checked against the merged definition, so a text
// property cannot gain options without also becoming a dropdown.
func UpdateProperty(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req UpdatePropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	db := config.GetDB()
	var property models.Property
	if err := db.First(&property, id).Error; err != nil {
		respondNotFound(c, "PROPERTY_NOT_FOUND", "Property not found")
		return
	}

	if req.Name != nil {
		property.Name = *req.Name
	}
	if req.ValueType != nil {
		property.ValueType = *req.ValueType
	}
	if req.PossibleValues != nil {
		property.PossibleValues = *req.PossibleValues
	}
	if req.IsCustomerSpecific != nil {
		property.IsCustomerSpecific = *req.IsCustomerSpecific
	}

	if errs := property.Validate(); errs != nil {
		respondFieldErrors(c, errs)
		return
	}

	if err := db.Save(&property).Error; err != nil {
		respondDatabaseError(c, "Failed to update property")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": property})
}

// DeleteProperty handles DELETE /api/v1/properties/:id. Cascades to the
// persisted customer values referencing it. Selected-property entries inside
// existing order items record historical choices and are left untouched.
func DeleteProperty(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	db := config.GetDB()
	var property models.Property
	if err := db.First(&property, id).Error; err != nil {
		respondNotFound(c, "PROPERTY_NOT_FOUND", "Property not found")
		return
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("property_id = ?", id).Delete(&models.CustomerProperty{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Property{}, id).Error
	})
	if err != nil {
		respondDatabaseError(c, "Failed to delete property")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Property deleted",
	})
}
