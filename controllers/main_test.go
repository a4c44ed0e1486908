package controllers

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/dressmake/tailorshop-api/config"
	"github.com/dressmake/tailorshop-api/middleware"
	"github.com/dressmake/tailorshop-api/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.Staff{},
		&models.Customer{},
		&models.Product{},
		&models.Property{},
		&models.CustomerProperty{},
		&models.Order{},
		&models.OrderItem{},
	); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	config.SetDB(db)
	return db
}

func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

// mockAuthMiddleware simulates the JWT middleware for testing. It sets up
// the context exactly as the real EnsureValidToken middleware does.
func mockAuthMiddleware(auth0ID, role, accessToken string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", auth0ID)
		c.Set("access_token", accessToken)

		mockClaims := &validator.ValidatedClaims{
			CustomClaims: &middleware.CustomClaims{Role: role},
		}
		c.Set("validated_claims", mockClaims)

		c.Next()
	}
}

// doJSON performs a request with a JSON body against the router and returns
// the recorder
func doJSON(router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// decodeBody parses the response envelope into a generic map
func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to decode response body %q: %v", w.Body.String(), err)
	}
	return body
}

// fieldCode digs the error code for one field out of the envelope
func fieldCode(t *testing.T, body map[string]interface{}, field string) string {
	t.Helper()
	errObj, ok := body["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("response has no error object: %v", body)
	}
	fields, ok := errObj["fields"].(map[string]interface{})
	if !ok {
		t.Fatalf("error has no fields map: %v", errObj)
	}
	fieldErr, ok := fields[field].(map[string]interface{})
	if !ok {
		t.Fatalf("no error recorded for field %q: %v", field, fields)
	}
	code, _ := fieldErr["code"].(string)
	return code
}

func assertSuccess(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int) map[string]interface{} {
	t.Helper()
	assert.Equal(t, expectedStatus, w.Code, w.Body.String())
	body := decodeBody(t, w)
	assert.Equal(t, true, body["success"])
	return body
}

// seedCustomer inserts a valid customer directly
func seedCustomer(t *testing.T, db *gorm.DB, firstName, lastName, phone string) models.Customer {
	t.Helper()
	customer := models.Customer{FirstName: firstName, LastName: lastName}
	if phone != "" {
		customer.Phone = &phone
	}
	if err := db.Create(&customer).Error; err != nil {
		t.Fatalf("Failed to seed customer: %v", err)
	}
	return customer
}

// seedProduct inserts a product directly
func seedProduct(t *testing.T, db *gorm.DB, name string) models.Product {
	t.Helper()
	product := models.Product{Name: name}
	if err := db.Create(&product).Error; err != nil {
		t.Fatalf("Failed to seed product: %v", err)
	}
	return product
}

// seedProperty inserts a property definition directly
func seedProperty(t *testing.T, db *gorm.DB, productID uint, name, valueType string, options []string, customerSpecific bool) models.Property {
	t.Helper()
	property := models.Property{
		ProductID:          productID,
		Name:               name,
		ValueType:          valueType,
		PossibleValues:     models.StringList(options),
		IsCustomerSpecific: customerSpecific,
	}
	if err := db.Create(&property).Error; err != nil {
		t.Fatalf("Failed to seed property: %v", err)
	}
	return property
}

// idString formats a record ID for use in a request path
func idString(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

// seedOrder inserts an order directly
func seedOrder(t *testing.T, db *gorm.DB, customerID uint, price, payed int64) models.Order {
	t.Helper()
	order := models.Order{PlacedByID: customerID, Price: price, Payed: payed, Status: models.OrderStatusInProgress}
	if err := db.Create(&order).Error; err != nil {
		t.Fatalf("Failed to seed order: %v", err)
	}
	return order
}
