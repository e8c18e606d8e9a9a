package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sccbd/catalog-api/src/logging"
	"github.com/sccbd/catalog-api/src/middleware"
	"github.com/sccbd/catalog-api/src/models"
	"github.com/sccbd/catalog-api/src/services"
)

// UserHandler handles account endpoints
type UserHandler struct {
	users *services.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(users *services.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// CreateUserRequest is the body of POST /api/create-users.
// Role and Phone are pointers so an absent field can be told apart from an empty one.
type CreateUserRequest struct {
	Username string  `json:"username" form:"username"`
	Email    string  `json:"email" form:"email"`
	Password string  `json:"password" form:"password"`
	Role     *string `json:"role" form:"role"`
	Phone    *string `json:"phone" form:"phone"`
}

// isStudentSignup reports whether the request is a self-signup rather than staff creation
func (r CreateUserRequest) isStudentSignup() bool {
	return r.Phone != nil && r.Role == nil
}

// ActivationRequest is the body of POST /api/account-activation
type ActivationRequest struct {
	Token string `json:"email_activation_token" form:"email_activation_token" validate:"required"`
}

// LoginRequest is the body of POST /api/login
type LoginRequest struct {
	Email    string `json:"email" form:"email" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

// ResetRequest is the body of POST /api/reset
type ResetRequest struct {
	Email string `json:"email" form:"email" validate:"required,email"`
}

// ResetPasswordRequest is the body of POST /api/reset-password
type ResetPasswordRequest struct {
	Token    string `json:"token" form:"token"`
	Password string `json:"password" form:"password"`
}

// HandleCreateUser handles POST /api/create-users.
// A body with phone and no role is a student signup; anything else creates staff.
func (h *UserHandler) HandleCreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c)
		return
	}

	if req.isStudentSignup() {
		h.registerStudent(c, req)
		return
	}
	h.createStaff(c, req)
}

func (h *UserHandler) registerStudent(c *gin.Context, req CreateUserRequest) {
	user, apiKey, err := h.users.RegisterStudent(c.Request.Context(), services.StudentInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Phone:    *req.Phone,
	})
	if err != nil {
		if user != nil {
			// account exists, only the activation email failed
			logger := middleware.Logger(c, "users")
			logger.Error().Err(err).Int64("user_id", user.ID).Msg("student registered without activation email")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to send activation email"})
			return
		}
		respondError(c, "users", err)
		return
	}

	logger := middleware.Logger(c, "users")
	logger.Info().
		Int64("user_id", user.ID).
		Str("email", logging.MaskEmail(user.Email)).
		Msg("student registered")

	c.JSON(http.StatusCreated, gin.H{
		"status":  "success",
		"message": "You have signed up successfully! An activation email was sent to your email address",
		"api_key": apiKey,
	})
}

func (h *UserHandler) createStaff(c *gin.Context, req CreateUserRequest) {
	ctx := c.Request.Context()

	hasUsers, err := h.users.HasUsers(ctx)
	if err != nil {
		respondError(c, "users", err)
		return
	}
	if hasUsers {
		caller := middleware.CurrentUser(c)
		if caller == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "api-key missing!"})
			return
		}
		if !caller.HasRole(models.RoleAdmin) {
			c.JSON(http.StatusForbidden, gin.H{"error": "insufficient permissions"})
			return
		}
	}

	in := services.StaffInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	}
	if req.Role != nil {
		in.Role = models.Role(*req.Role)
	}

	image, _ := c.FormFile("profile_image")

	user, apiKey, err := h.users.CreateStaff(ctx, in, image)
	if err != nil {
		respondError(c, "users", err)
		return
	}

	logger := middleware.Logger(c, "users")
	logger.Info().
		Int64("user_id", user.ID).
		Str("role", string(user.Role)).
		Msg("staff user created")

	c.JSON(http.StatusCreated, gin.H{
		"status":  "success",
		"message": "User was created successfully!",
		"api_key": apiKey,
	})
}

// HandleActivate handles POST /api/account-activation
func (h *UserHandler) HandleActivate(c *gin.Context) {
	var req ActivationRequest
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c)
		return
	}
	if err := services.ValidateStruct(req); err != nil {
		respondError(c, "users", err)
		return
	}

	if _, err := h.users.Activate(c.Request.Context(), req.Token); err != nil {
		respondError(c, "users", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Account has activated successfully!",
	})
}

// HandleLogin handles POST /api/login and returns the user's API key
func (h *UserHandler) HandleLogin(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c)
		return
	}
	if err := services.ValidateStruct(req); err != nil {
		respondError(c, "users", err)
		return
	}

	user, apiKey, err := h.users.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, "users", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user": gin.H{
			"username":      user.Username,
			"profile_image": user.ProfileImage,
			"email":         user.Email,
			"role":          user.Role,
			"api_key":       apiKey,
		},
		"message": "login successfully!",
	})
}

// HandleRequestReset handles POST /api/reset. The response does not reveal whether the email is registered.
func (h *UserHandler) HandleRequestReset(c *gin.Context) {
	var req ResetRequest
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c)
		return
	}
	if err := services.ValidateStruct(req); err != nil {
		respondError(c, "users", err)
		return
	}

	if err := h.users.RequestPasswordReset(c.Request.Context(), req.Email); err != nil {
		respondError(c, "users", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "A reset email has been sent to your email address",
	})
}

// HandleResetPassword handles POST /api/reset-password
func (h *UserHandler) HandleResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c)
		return
	}

	if err := h.users.ResetPassword(c.Request.Context(), req.Token, req.Password); err != nil {
		respondError(c, "users", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Password has been reset successfully!",
	})
}

// HandleListUsers handles GET /api/users
func (h *UserHandler) HandleListUsers(c *gin.Context) {
	users, err := h.users.List(c.Request.Context())
	if err != nil {
		respondError(c, "users", err)
		return
	}
	if users == nil {
		users = []models.User{}
	}
	c.JSON(http.StatusOK, users)
}

// HandleDeleteUser handles DELETE /api/users/:id after middleware.LoadUser
func (h *UserHandler) HandleDeleteUser(c *gin.Context) {
	target := middleware.LoadedUser(c)
	if caller := middleware.CurrentUser(c); caller != nil && caller.ID == target.ID {
		c.JSON(http.StatusConflict, gin.H{"error": "you cannot delete your own account"})
		return
	}

	rows, err := h.users.Delete(c.Request.Context(), target)
	if err != nil {
		respondError(c, "users", err)
		return
	}

	logger := middleware.Logger(c, "users")
	logger.Info().Int64("user_id", target.ID).Msg("user deleted")
	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "User was deleted!",
		"rows":    rows,
	})
}
