package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/dressmake/tailorshop-api/models"
)

// respondFieldErrors maps a field-keyed validation result to the client.
// Everything is a 400 except uniqueness conflicts, which surface as 409 so a
// race loser gets a structured conflict instead of a crash or a raw driver
// error.
func respondFieldErrors(c *gin.Context, errs models.FieldErrors) {
	status := http.StatusBadRequest
	code := "VALIDATION_ERROR"
	if errs.HasCode(models.ErrCodeDuplicate) {
		status = http.StatusConflict
		code = "CONFLICT"
	}
	c.JSON(status, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": errs.Error(),
			"fields":  errs,
		},
	})
}

func respondNotFound(c *gin.Context, code, message string) {
	c.JSON(http.StatusNotFound, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

func respondBadRequest(c *gin.Context, code, message string) {
	c.JSON(http.StatusBadRequest, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

func respondDatabaseError(c *gin.Context, message string) {
	c.JSON(http.StatusInternalServerError, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "DATABASE_ERROR",
			"message": message,
		},
	})
}

func respondBindingError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "VALIDATION_ERROR",
			"message": "Invalid request data",
			"details": err.Error(),
		},
	})
}

// parseIDParam reads the :id path parameter. Responds with 400 and returns
// false when it is not a positive integer.
func parseIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		respondBadRequest(c, "INVALID_ID", "ID must be a positive integer")
		return 0, false
	}
	return uint(id), true
}

// duplicateError builds the field-keyed shape for a storage-layer uniqueness
// violation on the given field
func duplicateError(field, message string) models.FieldErrors {
	return models.FieldErrors{
		field: {
			Code:    models.ErrCodeDuplicate,
			Message: message,
		},
	}
}
