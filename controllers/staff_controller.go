package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dressmake/tailorshop-api/config"
	"github.com/dressmake/tailorshop-api/middleware"
	"github.com/dressmake/tailorshop-api/models"
	"github.com/dressmake/tailorshop-api/services"
)

// CreateStaffProfile handles POST /api/v1/users - bootstraps a staff record
// from the IdP's userinfo data for the authenticated caller
func CreateStaffProfile(c *gin.Context) {
	auth0ID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UNAUTHORIZED",
				"message": "Could not extract user ID from token",
			},
		})
		return
	}

	accessToken, err := middleware.GetAccessToken(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "MISSING_TOKEN",
				"message": "Access token not found",
			},
		})
		return
	}

	cfg := config.GetConfig()
	identityService := services.NewIdentityService(cfg)
	userInfo, err := identityService.GetUserInfo(accessToken)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "IDENTITY_ERROR",
				"message": "Failed to fetch user information from the identity provider",
			},
		})
		return
	}

	if userInfo.Email == "" {
		respondBadRequest(c, "MISSING_EMAIL", "Email not provided by the identity provider")
		return
	}
	if userInfo.Name == "" {
		respondBadRequest(c, "MISSING_NAME", "Name not provided by the identity provider")
		return
	}

	// Role comes from the token's custom claims when present
	role := "staff"
	if claims, err := middleware.GetClaims(c); err == nil {
		if customClaims, ok := claims.CustomClaims.(*middleware.CustomClaims); ok && customClaims.Role != "" {
			role = customClaims.Role
		}
	}

	staff := models.Staff{
		Auth0ID: auth0ID,
		Name:    userInfo.Name,
		Email:   userInfo.Email,
		Role:    role,
	}

	db := config.GetDB()
	if err := db.Create(&staff).Error; err != nil {
		if models.IsUniqueViolation(err) {
			c.JSON(http.StatusConflict, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "USER_EXISTS",
					"message": "A staff member with this identity or email already exists",
				},
			})
			return
		}
		respondDatabaseError(c, "Failed to create staff profile")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "data": staff})
}

// GetMyProfile handles GET /api/v1/users/me - returns the caller's staff
// record
func GetMyProfile(c *gin.Context) {
	auth0ID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UNAUTHORIZED",
				"message": "Could not extract user information",
			},
		})
		return
	}

	db := config.GetDB()
	var staff models.Staff
	if err := db.Where("auth0_id = ?", auth0ID).First(&staff).Error; err != nil {
		respondNotFound(c, "USER_NOT_FOUND", "Staff profile not found. Please create a profile first.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": staff})
}
