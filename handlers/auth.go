package handlers

import (
	"errors"
	"net/http"
	"strings"

	"resto-pos-api/config"
	"resto-pos-api/middleware"
	"resto-pos-api/models"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type RegisterRequest struct {
	Name     string          `json:"name" binding:"required"`
	Email    string          `json:"email" binding:"required,email"`
	Password string          `json:"password" binding:"required,min=6"`
	Role     models.UserRole `json:"role" binding:"required"`
	Phone    string          `json:"phone"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Register creates a new staff account
func Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErrorBody(c, http.StatusBadRequest, "validation", err.Error())
		return
	}

	if req.Role != models.RoleStaff && req.Role != models.RoleAdmin {
		respondErrorBody(c, http.StatusBadRequest, "validation", "Invalid role. Must be: staff or admin")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		respondError(c, err)
		return
	}

	user := models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         req.Role,
		Phone:        req.Phone,
	}

	// The unique index on email is the arbiter; a pre-check would race with
	// concurrent registrations.
	if err := config.DB.Create(&user).Error; err != nil {
		if isDuplicateEmail(err) {
			respondErrorBody(c, http.StatusConflict, "conflict", "Email already registered")
			return
		}
		respondError(c, err)
		return
	}

	token, err := middleware.GenerateToken(&user)
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusCreated, gin.H{
		"token": token,
		"user": gin.H{
			"id":    user.ID,
			"name":  user.Name,
			"email": user.Email,
			"role":  user.Role,
		},
	})
}

func isDuplicateEmail(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey) ||
		strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// Login authenticates a user and returns a JWT
func Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErrorBody(c, http.StatusBadRequest, "validation", err.Error())
		return
	}

	var user models.User
	if err := config.DB.Where("email = ?", req.Email).First(&user).Error; err != nil {
		respondErrorBody(c, http.StatusUnauthorized, "auth", "Invalid email or password")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		respondErrorBody(c, http.StatusUnauthorized, "auth", "Invalid email or password")
		return
	}

	token, err := middleware.GenerateToken(&user)
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusOK, gin.H{
		"token": token,
		"user": gin.H{
			"id":    user.ID,
			"name":  user.Name,
			"email": user.Email,
			"role":  user.Role,
		},
	})
}

// GetProfile returns the authenticated user's profile
func GetProfile(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var user models.User
	if err := config.DB.First(&user, userID).Error; err != nil {
		respondErrorBody(c, http.StatusNotFound, "not_found", "user not found")
		return
	}
	respondData(c, http.StatusOK, gin.H{"user": user})
}
