package controllers

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/dressmake/tailorshop-api/models"
	"github.com/dressmake/tailorshop-api/services"
)

func orderItemRoutes() *gin.Engine {
	router := setupTestRouter()
	router.Use(mockAuthMiddleware("auth0|staff-1", "staff", "token-1"))
	router.GET("/order-items", ListOrderItems)
	router.POST("/order-items", CreateOrderItem)
	router.GET("/order-items/:id", GetOrderItem)
	router.PUT("/order-items/:id", UpdateOrderItem)
	router.DELETE("/order-items/:id", DeleteOrderItem)
	router.POST("/order-items/:id/image", UploadOrderItemImage)
	return router
}

type orderItemFixture struct {
	db       *gorm.DB
	customer models.Customer
	product  models.Product
	order    models.Order
	color    models.Property // dropdown, order-specific
	note     models.Property // text, order-specific
	length   models.Property // number, customer-specific
}

func setupOrderItemFixture(t *testing.T) *orderItemFixture {
	db := setupTestDB(t)
	f := &orderItemFixture{db: db}
	f.customer = seedCustomer(t, db, "Ali", "Karimi", "09123456789")
	f.product = seedProduct(t, db, "Pants")
	f.order = seedOrder(t, db, f.customer.ID, 1000, 0)
	f.color = seedProperty(t, db, f.product.ID, "Color", models.ValueTypeDropdown, []string{"Red", "Blue"}, false)
	f.note = seedProperty(t, db, f.product.ID, "Embroidery", models.ValueTypeText, nil, false)
	f.length = seedProperty(t, db, f.product.ID, "Length", models.ValueTypeNumber, nil, true)
	return f
}

func TestCreateOrderItem(t *testing.T) {
	f := setupOrderItemFixture(t)
	router := orderItemRoutes()

	w := doJSON(router, http.MethodPost, "/order-items", map[string]interface{}{
		"order":    f.order.ID,
		"customer": f.customer.ID,
		"product":  f.product.ID,
		"quantity": 2,
		"selected_properties": map[string]interface{}{
			idString(f.color.ID): "Red",
			idString(f.note.ID):  "initials on cuff",
		},
	})
	body := assertSuccess(t, w, http.StatusCreated)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, float64(2), data["quantity"])
	selected := data["selected_properties"].(map[string]interface{})
	assert.Equal(t, "Red", selected[idString(f.color.ID)])
	assert.Equal(t, "initials on cuff", selected[idString(f.note.ID)])
}

func TestCreateOrderItemDefaultQuantity(t *testing.T) {
	f := setupOrderItemFixture(t)
	router := orderItemRoutes()

	w := doJSON(router, http.MethodPost, "/order-items", map[string]interface{}{
		"order":    f.order.ID,
		"customer": f.customer.ID,
		"product":  f.product.ID,
	})
	body := assertSuccess(t, w, http.StatusCreated)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, float64(1), data["quantity"])
}

func TestCreateOrderItemZeroQuantity(t *testing.T) {
	f := setupOrderItemFixture(t)
	router := orderItemRoutes()

	w := doJSON(router, http.MethodPost, "/order-items", map[string]interface{}{
		"order":    f.order.ID,
		"customer": f.customer.ID,
		"product":  f.product.ID,
		"quantity": 0,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, models.ErrCodeOutOfRange, fieldCode(t, body, "quantity"))
}

func TestCreateOrderItemInvalidChoice(t *testing.T) {
	f := setupOrderItemFixture(t)
	router := orderItemRoutes()

	w := doJSON(router, http.MethodPost, "/order-items", map[string]interface{}{
		"order":    f.order.ID,
		"customer": f.customer.ID,
		"product":  f.product.ID,
		"selected_properties": map[string]interface{}{
			idString(f.color.ID): "Green",
		},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, models.ErrCodeInvalidChoice, fieldCode(t, body, "selected_properties"))

	// the whole item was rejected
	var count int64
	f.db.Model(&models.OrderItem{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestCreateOrderItemWrongScope(t *testing.T) {
	f := setupOrderItemFixture(t)
	router := orderItemRoutes()

	// a customer-specific property cannot be set per order
	w := doJSON(router, http.MethodPost, "/order-items", map[string]interface{}{
		"order":    f.order.ID,
		"customer": f.customer.ID,
		"product":  f.product.ID,
		"selected_properties": map[string]interface{}{
			idString(f.length.ID): 100,
		},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, models.ErrCodeWrongScope, fieldCode(t, body, "selected_properties"))
}

func TestCreateOrderItemUnknownProperty(t *testing.T) {
	f := setupOrderItemFixture(t)
	router := orderItemRoutes()

	w := doJSON(router, http.MethodPost, "/order-items", map[string]interface{}{
		"order":    f.order.ID,
		"customer": f.customer.ID,
		"product":  f.product.ID,
		"selected_properties": map[string]interface{}{
			"99999": "Red",
		},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, models.ErrCodeUnknownProperty, fieldCode(t, body, "selected_properties"))
}

func TestCreateOrderItemMissingParents(t *testing.T) {
	f := setupOrderItemFixture(t)
	router := orderItemRoutes()

	tests := []struct {
		name     string
		body     map[string]interface{}
		wantCode string
	}{
		{
			name:     "unknown order",
			body:     map[string]interface{}{"order": 999, "customer": f.customer.ID, "product": f.product.ID},
			wantCode: "ORDER_NOT_FOUND",
		},
		{
			name:     "unknown customer",
			body:     map[string]interface{}{"order": f.order.ID, "customer": 999, "product": f.product.ID},
			wantCode: "CUSTOMER_NOT_FOUND",
		},
		{
			name:     "unknown product",
			body:     map[string]interface{}{"order": f.order.ID, "customer": f.customer.ID, "product": 999},
			wantCode: "PRODUCT_NOT_FOUND",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(router, http.MethodPost, "/order-items", tt.body)
			assert.Equal(t, http.StatusNotFound, w.Code)
			body := decodeBody(t, w)
			errObj := body["error"].(map[string]interface{})
			assert.Equal(t, tt.wantCode, errObj["code"])
		})
	}
}

func TestListOrderItemsFilters(t *testing.T) {
	f := setupOrderItemFixture(t)
	router := orderItemRoutes()

	other := seedCustomer(t, f.db, "Sara", "Ahmadi", "09387654321")
	otherOrder := seedOrder(t, f.db, other.ID, 2000, 0)

	for _, item := range []models.OrderItem{
		{OrderID: f.order.ID, CustomerID: f.customer.ID, ProductID: f.product.ID, Quantity: 1},
		{OrderID: f.order.ID, CustomerID: f.customer.ID, ProductID: f.product.ID, Quantity: 2},
		{OrderID: otherOrder.ID, CustomerID: other.ID, ProductID: f.product.ID, Quantity: 1},
	} {
		i := item
		assert.NoError(t, f.db.Create(&i).Error)
	}

	w := doJSON(router, http.MethodGet, "/order-items?order="+idString(f.order.ID), nil)
	body := assertSuccess(t, w, http.StatusOK)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, float64(2), data["count"])

	w = doJSON(router, http.MethodGet, "/order-items?customer="+idString(other.ID), nil)
	body = assertSuccess(t, w, http.StatusOK)
	data = body["data"].(map[string]interface{})
	assert.Equal(t, float64(1), data["count"])

	w = doJSON(router, http.MethodGet, "/order-items?search=pants", nil)
	body = assertSuccess(t, w, http.StatusOK)
	data = body["data"].(map[string]interface{})
	assert.Equal(t, float64(3), data["count"])

	// search also reaches the customer's name
	w = doJSON(router, http.MethodGet, "/order-items?search=ahmadi", nil)
	body = assertSuccess(t, w, http.StatusOK)
	data = body["data"].(map[string]interface{})
	assert.Equal(t, float64(1), data["count"])

	w = doJSON(router, http.MethodGet, "/order-items?search=karimi", nil)
	body = assertSuccess(t, w, http.StatusOK)
	data = body["data"].(map[string]interface{})
	assert.Equal(t, float64(2), data["count"])

	w = doJSON(router, http.MethodGet, "/order-items?search=velvet", nil)
	body = assertSuccess(t, w, http.StatusOK)
	data = body["data"].(map[string]interface{})
	assert.Equal(t, float64(0), data["count"])
}

func TestUpdateOrderItemReplacesSelection(t *testing.T) {
	f := setupOrderItemFixture(t)
	router := orderItemRoutes()

	item := models.OrderItem{
		OrderID: f.order.ID, CustomerID: f.customer.ID, ProductID: f.product.ID, Quantity: 1,
		SelectedProperties: models.SelectedProperties{
			idString(f.color.ID): models.ChoiceValue("Red"),
		},
	}
	assert.NoError(t, f.db.Create(&item).Error)

	w := doJSON(router, http.MethodPut, "/order-items/"+idString(item.ID), map[string]interface{}{
		"selected_properties": map[string]interface{}{
			idString(f.color.ID): "Blue",
		},
	})
	body := assertSuccess(t, w, http.StatusOK)
	data := body["data"].(map[string]interface{})
	selected := data["selected_properties"].(map[string]interface{})
	assert.Equal(t, "Blue", selected[idString(f.color.ID)])

	// an invalid replacement leaves the stored selection untouched
	w = doJSON(router, http.MethodPut, "/order-items/"+idString(item.ID), map[string]interface{}{
		"selected_properties": map[string]interface{}{
			idString(f.color.ID): "Green",
		},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var reloaded models.OrderItem
	assert.NoError(t, f.db.First(&reloaded, item.ID).Error)
	assert.Equal(t, "Blue", reloaded.SelectedProperties[idString(f.color.ID)].Str)
}

// doMultipart posts a single file under the "image" form field
func doMultipart(router *gin.Engine, path, filename string, content []byte) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, _ := writer.CreateFormFile("image", filename)
	part.Write(content)
	writer.Close()

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestUploadOrderItemImage(t *testing.T) {
	f := setupOrderItemFixture(t)
	router := orderItemRoutes()

	mock := services.NewMockImageService()
	mock.SetAsMockForTesting()
	defer services.SetImageService(nil)

	item := models.OrderItem{OrderID: f.order.ID, CustomerID: f.customer.ID, ProductID: f.product.ID, Quantity: 1}
	assert.NoError(t, f.db.Create(&item).Error)

	w := doMultipart(router, "/order-items/"+idString(item.ID)+"/image", "design.png", []byte("png-bytes"))
	body := assertSuccess(t, w, http.StatusOK)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "reference-photos/mock_design.png", data["image_s3_key"])
	assert.Contains(t, data["image_url"], "reference-photos/mock_design.png")
	assert.True(t, mock.ImageExists("reference-photos/mock_design.png"))
}

func TestUploadOrderItemImageReplacesOld(t *testing.T) {
	f := setupOrderItemFixture(t)
	router := orderItemRoutes()

	mock := services.NewMockImageService()
	mock.SetAsMockForTesting()
	defer services.SetImageService(nil)

	item := models.OrderItem{OrderID: f.order.ID, CustomerID: f.customer.ID, ProductID: f.product.ID, Quantity: 1}
	assert.NoError(t, f.db.Create(&item).Error)

	w := doMultipart(router, "/order-items/"+idString(item.ID)+"/image", "first.png", []byte("one"))
	assertSuccess(t, w, http.StatusOK)
	w = doMultipart(router, "/order-items/"+idString(item.ID)+"/image", "second.png", []byte("two"))
	assertSuccess(t, w, http.StatusOK)

	assert.False(t, mock.ImageExists("reference-photos/mock_first.png"), "replaced photo is removed")
	assert.True(t, mock.ImageExists("reference-photos/mock_second.png"))
}

func TestUploadOrderItemImageWrongFormat(t *testing.T) {
	f := setupOrderItemFixture(t)
	router := orderItemRoutes()

	mock := services.NewMockImageService()
	mock.SetAsMockForTesting()
	defer services.SetImageService(nil)

	item := models.OrderItem{OrderID: f.order.ID, CustomerID: f.customer.ID, ProductID: f.product.ID, Quantity: 1}
	assert.NoError(t, f.db.Create(&item).Error)

	w := doMultipart(router, "/order-items/"+idString(item.ID)+"/image", "design.jpg", []byte("jpg-bytes"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeBody(t, w)
	errObj := body["error"].(map[string]interface{})
	assert.Equal(t, "INVALID_FILE_FORMAT", errObj["code"])
}

func TestDeleteOrderItemRemovesImage(t *testing.T) {
	f := setupOrderItemFixture(t)
	router := orderItemRoutes()

	mock := services.NewMockImageService()
	mock.SetAsMockForTesting()
	defer services.SetImageService(nil)

	item := models.OrderItem{OrderID: f.order.ID, CustomerID: f.customer.ID, ProductID: f.product.ID, Quantity: 1}
	assert.NoError(t, f.db.Create(&item).Error)
	w := doMultipart(router, "/order-items/"+idString(item.ID)+"/image", "design.png", []byte("png-bytes"))
	assertSuccess(t, w, http.StatusOK)

	w = doJSON(router, http.MethodDelete, "/order-items/"+idString(item.ID), nil)
	assertSuccess(t, w, http.StatusOK)

	var count int64
	f.db.Model(&models.OrderItem{}).Count(&count)
	assert.Equal(t, int64(0), count)
	assert.False(t, mock.ImageExists("reference-photos/mock_design.png"))
}
