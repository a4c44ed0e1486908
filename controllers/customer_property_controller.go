package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/dressmake/tailorshop-api/config"
	"github.com/dressmake/tailorshop-api/models"
	"github.com/dressmake/tailorshop-api/services"
	"github.com/dressmake/tailorshop-api/utils"
)

// CreateCustomerPropertyRequest represents the request body for storing a
// customer's persisted value for a customer-specific property. Value is
// loosely typed on the wire (string, integer, or float) and validated
// against the property's declared type.
type CreateCustomerPropertyRequest struct {
	Customer uint        `json:"customer" binding:"required"`
	Property uint        `json:"property" binding:"required"`
	Value    interface{} `json:"value" binding:"required"`
}

// UpdateCustomerPropertyRequest represents the request body for updating a
// persisted value
type UpdateCustomerPropertyRequest struct {
	Value interface{} `json:"value" binding:"required"`
}

// ListCustomerProperties handles GET /api/v1/customer-properties, filtered
// by customer and/or product (via the owning property)
func ListCustomerProperties(c *gin.Context) {
	db := config.GetDB()
	params := utils.ParseListParams(c.Request.URL.Query())

	query := db.Model(&models.CustomerProperty{})
	if customerID := c.Query("customer"); customerID != "" {
		query = query.Where("customer_id = ?", customerID)
	}
	if productID := c.Query("product"); productID != "" {
		query = query.Where("property_id IN (?)",
			db.Model(&models.Property{}).Select("id").Where("product_id = ?", productID),
		)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		respondDatabaseError(c, "Failed to count customer properties")
		return
	}

	var values []models.CustomerProperty
	if err := utils.Paginate(query.Preload("Property").Order("id ASC"), params).Find(&values).Error; err != nil {
		respondDatabaseError(c, "Failed to list customer properties")
		return
	}
	for i := range values {
		values[i].FillPropertyInfo()
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"count":   count,
			"results": values,
		},
	})
}

// GetCustomerProperty handles GET /api/v1/customer-properties/:id
func GetCustomerProperty(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	db := config.GetDB()
	var value models.CustomerProperty
	if err := db.Preload("Property").First(&value, id).Error; err != nil {
		respondNotFound(c, "CUSTOMER_PROPERTY_NOT_FOUND", "Customer property not found")
		return
	}
	value.FillPropertyInfo()

	c.JSON(http.StatusOK, gin.H{"success": true, "data": value})
}

// CreateCustomerProperty handles POST /api/v1/customer-properties. The
// property is resolved, scope-checked and the value validated inside the
// same transaction as the insert; the unique (customer, property) index
// closes the race between check and write.
func CreateCustomerProperty(c *gin.Context) {
	var req CreateCustomerPropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	db := config.GetDB()
	var customer models.Customer
	if err := db.First(&customer, req.Customer).Error; err != nil {
		respondNotFound(c, "CUSTOMER_NOT_FOUND", "Customer not found")
		return
	}

	value := models.CustomerProperty{
		CustomerID: req.Customer,
		PropertyID: req.Property,
	}

	var validationErrs models.FieldErrors
	err := db.Transaction(func(tx *gorm.DB) error {
		normalized, errs, err := services.ValidateProfileValue(tx, req.Property, req.Value)
		if err != nil {
			return err
		}
		if errs != nil {
			validationErrs = errs
			return errs
		}
		value.Value = normalized
		return tx.Create(&value).Error
	})
	if err != nil {
		if validationErrs != nil {
			respondFieldErrors(c, validationErrs)
			return
		}
		if models.IsUniqueViolation(err) {
			respondFieldErrors(c, duplicateError("property", "This customer already has a value for this property"))
			return
		}
		respondDatabaseError(c, "Failed to create customer property")
		return
	}

	if err := db.Preload("Property").First(&value, value.ID).Error; err != nil {
		respondDatabaseError(c, "Failed to load customer property")
		return
	}
	value.FillPropertyInfo()

	c.JSON(http.StatusCreated, gin.H{"success": true, "data": value})
}

// UpdateCustomerProperty handles PUT /api/v1/customer-properties/:id. Only
// the value can change; the (customer, property) pair is fixed at creation.
func UpdateCustomerProperty(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req UpdateCustomerPropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	db := config.GetDB()
	var value models.CustomerProperty
	if err := db.First(&value, id).Error; err != nil {
		respondNotFound(c, "CUSTOMER_PROPERTY_NOT_FOUND", "Customer property not found")
		return
	}

	var validationErrs models.FieldErrors
	err := db.Transaction(func(tx *gorm.DB) error {
		normalized, errs, err := services.ValidateProfileValue(tx, value.PropertyID, req.Value)
		if err != nil {
			return err
		}
		if errs != nil {
			validationErrs = errs
			return errs
		}
		value.Value = normalized
		return tx.Save(&value).Error
	})
	if err != nil {
		if validationErrs != nil {
			respondFieldErrors(c, validationErrs)
			return
		}
		respondDatabaseError(c, "Failed to update customer property")
		return
	}

	if err := db.Preload("Property").First(&value, value.ID).Error; err != nil {
		respondDatabaseError(c, "Failed to load customer property")
		return
	}
	value.FillPropertyInfo()

	c.JSON(http.StatusOK, gin.H{"success": true, "data": value})
}

// DeleteCustomerProperty handles DELETE /api/v1/customer-properties/:id
func DeleteCustomerProperty(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	db := config.GetDB()
	var value models.CustomerProperty
	if err := db.First(&value, id).Error; err != nil {
		respondNotFound(c, "CUSTOMER_PROPERTY_NOT_FOUND", "Customer property not found")
		return
	}

	if err := db.Delete(&models.CustomerProperty{}, id).Error; err != nil {
		respondDatabaseError(c, "Failed to delete customer property")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Customer property deleted",
	})
}
