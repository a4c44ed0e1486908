package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/dressmake/tailorshop-api/config"
	"github.com/dressmake/tailorshop-api/models"
	"github.com/dressmake/tailorshop-api/utils"
)

// CreateCustomerRequest represents the request body for creating a customer
type CreateCustomerRequest struct {
	FirstName string  `json:"first_name" binding:"required"`
	LastName  string  `json:"last_name" binding:"required"`
	Phone     *string `json:"phone"`
}

// UpdateCustomerRequest represents the request body for updating a customer.
// All fields are optional; only provided fields are changed.
type UpdateCustomerRequest struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Phone     *string `json:"phone"`
}

var customerOrderingFields = map[string]bool{
	"first_name": true,
	"created_at": true,
	"updated_at": true,
}

// ListCustomers handles GET /api/v1/customers with search over names and
// phone, exact phone filtering, ordering and pagination
func ListCustomers(c *gin.Context) {
	db := config.GetDB()
	params := utils.ParseListParams(c.Request.URL.Query())

	query := db.Model(&models.Customer{})
	if phone := c.Query("phone"); phone != "" {
		query = query.Where("phone = ?", phone)
	}
	query = utils.ApplySearch(query, params.Search, "first_name", "last_name", "phone")

	var count int64
	if err := query.Count(&count).Error; err != nil {
		respondDatabaseError(c, "Failed to count customers")
		return
	}

	query = utils.ApplyOrdering(query, params.Ordering, customerOrderingFields, "first_name ASC")

	var customers []models.Customer
	if err := utils.Paginate(query, params).Find(&customers).Error; err != nil {
		respondDatabaseError(c, "Failed to list customers")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"count":   count,
			"results": customers,
		},
	})
}

// GetCustomer handles GET /api/v1/customers/:id
func GetCustomer(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	db := config.GetDB()
	var customer models.Customer
	if err := db.First(&customer, id).Error; err != nil {
		respondNotFound(c, "CUSTOMER_NOT_FOUND", "Customer not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": customer})
}

// CreateCustomer handles POST /api/v1/customers
func CreateCustomer(c *gin.Context) {
	var req CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	customer := models.Customer{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     normalizePhone(req.Phone),
	}

	if errs := customer.Validate(); errs != nil {
		respondFieldErrors(c, errs)
		return
	}

	db := config.GetDB()
	if err := db.Create(&customer).Error; err != nil {
		if models.IsUniqueViolation(err) {
			respondFieldErrors(c, duplicateError("phone", "A customer with this phone number already exists"))
			return
		}
		respondDatabaseError(c, "Failed to create customer")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "data": customer})
}

// UpdateCustomer handles PUT /api/v1/customers/:id - partial update
func UpdateCustomer(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req UpdateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	db := config.GetDB()
	var customer models.Customer
	if err := db.First(&customer, id).Error; err != nil {
		respondNotFound(c, "CUSTOMER_NOT_FOUND", "Customer not found")
		return
	}

	if req.FirstName != nil {
		customer.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		customer.LastName = *req.LastName
	}
	if req.Phone != nil {
		customer.Phone = normalizePhone(req.Phone)
	}

	if errs := customer.Validate(); errs != nil {
		respondFieldErrors(c, errs)
		return
	}

	if err := db.Save(&customer).Error; err != nil {
		if models.IsUniqueViolation(err) {
			respondFieldErrors(c, duplicateError("phone", "A customer with this phone number already exists"))
			return
		}
		respondDatabaseError(c, "Failed to update customer")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": customer})
}

// DeleteCustomer handles DELETE /api/v1/customers/:id. Deleting a customer
// cascades to their persisted attribute values and placed orders (with
// items), all inside one transaction.
func DeleteCustomer(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	db := config.GetDB()
	var customer models.Customer
	if err := db.First(&customer, id).Error; err != nil {
		respondNotFound(c, "CUSTOMER_NOT_FOUND", "Customer not found")
		return
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("customer_id = ?", id).Delete(&models.CustomerProperty{}).Error; err != nil {
			return err
		}
		if err := tx.Where("order_id IN (?)",
			tx.Model(&models.Order{}).Select("id").Where("placed_by_id = ?", id),
		).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}
		if err := tx.Where("customer_id = ?", id).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}
		if err := tx.Where("placed_by_id = ?", id).Delete(&models.Order{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Customer{}, id).Error
	})
	if err != nil {
		respondDatabaseError(c, "Failed to delete customer")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Customer deleted",
	})
}

// normalizePhone treats an empty string as no phone so the unique index only
// applies to customers that actually have one
func normalizePhone(phone *string) *string {
	if phone == nil || *phone == "" {
		return nil
	}
	return phone
}
