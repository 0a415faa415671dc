package controllers

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/mdrafiul/localmart_backend/config"
	"github.com/mdrafiul/localmart_backend/middleware"
	"github.com/mdrafiul/localmart_backend/models"
	"github.com/mdrafiul/localmart_backend/security"
	"github.com/mdrafiul/localmart_backend/utils"
)

// AuthController handles signup, login and session management
type AuthController struct {
	Client *mongo.Client
	DB     *mongo.Database
}

// NewAuthController creates a new auth controller
func NewAuthController(client *mongo.Client, db *mongo.Database) *AuthController {
	return &AuthController{Client: client, DB: db}
}

// Signup registers a new user account
func (ac *AuthController) Signup(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var req models.SignupRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request data",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "A valid email, a password of at least 8 characters and a full name are required",
		})
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	count, err := ac.DB.Collection("users").CountDocuments(ctx, bson.M{"email": email})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to check existing accounts",
		})
	}
	if count > 0 {
		return c.JSON(http.StatusConflict, models.Response{
			Status:  http.StatusConflict,
			Message: "An account with this email already exists",
		})
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to process password",
		})
	}

	now := time.Now()
	user := models.User{
		ID:             primitive.NewObjectID(),
		Email:          email,
		Password:       hash,
		FullName:       req.FullName,
		UserType:       "user",
		Phone:          req.Phone,
		IsActive:       true,
		LastActivityAt: now,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	_, err = ac.DB.Collection("users").InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return c.JSON(http.StatusConflict, models.Response{
				Status:  http.StatusConflict,
				Message: "An account with this email already exists",
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to create account",
		})
	}

	accessToken, refreshToken, err := middleware.GenerateJWT(user.ID.Hex(), user.Email, user.UserType)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Account created but failed to generate token",
		})
	}

	user.Password = ""
	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Account created successfully",
		Data: map[string]interface{}{
			"accessToken":  accessToken,
			"refreshToken": refreshToken,
			"user":         user,
		},
	})
}

// Login authenticates a user and issues JWT tokens. With rememberMe set
// an encrypted credential token is stored in redis for 30 days.
func (ac *AuthController) Login(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var req models.LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request data",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "email and password are required",
		})
	}

	var user models.User
	err := ac.DB.Collection("users").
		FindOne(ctx, bson.M{"email": strings.ToLower(strings.TrimSpace(req.Email))}).
		Decode(&user)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid credentials",
		})
	}
	if !utils.CheckPassword(user.Password, req.Password) {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid credentials",
		})
	}

	accessToken, refreshToken, err := middleware.GenerateJWT(user.ID.Hex(), user.Email, user.UserType)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to generate token",
		})
	}

	data := map[string]interface{}{
		"accessToken":  accessToken,
		"refreshToken": refreshToken,
	}

	if req.RememberMe {
		token, err := utils.GenerateRememberMeToken()
		if err == nil {
			err = utils.StoreRememberedCredentials(config.RedisClient, token, utils.RememberedCredentials{
				Email:    user.Email,
				UserType: user.UserType,
				UserID:   user.ID.Hex(),
			})
		}
		if err != nil {
			log.Printf("remember-me store failed for %s: %v", user.Email, err)
		} else {
			data["rememberMeToken"] = token
		}
	}

	user.Password = ""
	data["user"] = user

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Login successful",
		Data:    data,
	})
}

// LoginWithRememberToken exchanges a stored remember-me token for a
// fresh JWT pair
func (ac *AuthController) LoginWithRememberToken(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var body struct {
		Token string `json:"rememberMeToken"`
	}
	if err := c.Bind(&body); err != nil || body.Token == "" {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "rememberMeToken is required",
		})
	}

	credentials, err := utils.GetRememberedCredentials(config.RedisClient, body.Token)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid or expired remember-me token",
		})
	}

	userID, err := primitive.ObjectIDFromHex(credentials.UserID)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid or expired remember-me token",
		})
	}

	var user models.User
	err = ac.DB.Collection("users").FindOne(ctx, bson.M{"_id": userID}).Decode(&user)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Account no longer exists",
		})
	}

	accessToken, refreshToken, err := middleware.GenerateJWT(user.ID.Hex(), user.Email, user.UserType)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to generate token",
		})
	}

	user.Password = ""
	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Login successful",
		Data: map[string]interface{}{
			"accessToken":  accessToken,
			"refreshToken": refreshToken,
			"user":         user,
		},
	})
}

// Logout blacklists the presented token until its natural expiry and
// drops any remember-me token sent alongside
func (ac *AuthController) Logout(c echo.Context) error {
	auth := c.Request().Header.Get("Authorization")
	raw := strings.TrimPrefix(auth, "Bearer ")
	if raw == "" {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "No token provided",
		})
	}

	expiry := time.Now().Add(24 * time.Hour)
	if claims := middleware.GetUserFromToken(c); claims != nil && claims.ExpiresAt > 0 {
		expiry = time.Unix(claims.ExpiresAt, 0)
	}
	middleware.BlacklistToken(raw, expiry)

	if token := c.Request().Header.Get("X-Remember-Token"); token != "" {
		if err := utils.DeleteRememberMeToken(config.RedisClient, token); err != nil {
			log.Printf("failed to delete remember-me token: %v", err)
		}
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Logged out successfully",
	})
}

// ValidateToken lets the frontend check whether a session is still valid
func (ac *AuthController) ValidateToken(c echo.Context) error {
	auth := c.Request().Header.Get("Authorization")
	raw := strings.TrimPrefix(auth, "Bearer ")

	if middleware.IsTokenBlacklisted(raw) {
		return c.JSON(http.StatusOK, utils.ValidateTokenResponse{
			Valid:   false,
			Message: "Token has been invalidated",
		})
	}

	resp, err := utils.ValidateToken(raw, ac.Client)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to validate token",
		})
	}
	return c.JSON(http.StatusOK, resp)
}

// CSRFToken issues a random token that browser clients echo back on
// mutating form submissions
func (ac *AuthController) CSRFToken(c echo.Context) error {
	token, err := security.GenerateCSRFToken()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to generate token",
		})
	}
	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Token generated",
		Data:    map[string]string{"csrfToken": token},
	})
}

// RefreshToken exchanges a valid refresh token for a new token pair
func (ac *AuthController) RefreshToken(c echo.Context) error {
	var body struct {
		RefreshToken string `json:"refreshToken"`
	}
	if err := c.Bind(&body); err != nil || body.RefreshToken == "" {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "refreshToken is required",
		})
	}
	if middleware.IsTokenBlacklisted(body.RefreshToken) {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Token has been invalidated",
		})
	}

	claims := &middleware.JwtCustomClaims{}
	token, err := jwt.ParseWithClaims(body.RefreshToken, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(middleware.GetJWTSecret()), nil
	})
	if err != nil || !token.Valid {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid refresh token",
		})
	}

	accessToken, refreshToken, err := middleware.GenerateJWT(claims.UserID, claims.Email, claims.UserType)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to generate token",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Token refreshed successfully",
		Data: map[string]interface{}{
			"accessToken":  accessToken,
			"refreshToken": refreshToken,
		},
	})
}
