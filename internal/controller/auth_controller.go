package controller

import (
	"net/http"

	"tachyon_backend/internal/service"
	"tachyon_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	AuthService *service.AuthService
	OTPService  *service.OTPService
}

func NewAuthController(authService *service.AuthService, otpService *service.OTPService) *AuthController {
	return &AuthController{
		AuthService: authService,
		OTPService:  otpService,
	}
}

// Register godoc
// @Summary Register a student account
// @Description Creates a student account with email and password
// @Tags auth
// @Accept json
// @Produce json
// @Param body body service.RegisterRequest true "registration payload"
// @Success 201 {object} util.Response
// @Failure 400 {object} util.Response
// @Failure 409 {object} util.Response
// @Router /api/auth/register [post]
func (c *AuthController) Register(ctx *gin.Context) {
	var req service.RegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.Error(ctx, http.StatusBadRequest, err.Error())
		return
	}

	user, err := c.AuthService.Register(req)
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Created(ctx, gin.H{"id": user.ID})
}

// Login godoc
// @Summary Log in with email and password
// @Tags auth
// @Accept json
// @Produce json
// @Param body body service.LoginRequest true "credentials"
// @Success 200 {object} util.Response{data=service.LoginResponse}
// @Failure 401 {object} util.Response
// @Router /api/auth/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req service.LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.Error(ctx, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := c.AuthService.Login(req)
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, resp)
}

// RequestOTP godoc
// @Summary Request a one-time login code
// @Description Sends a short-lived code to the given email or phone
// @Tags auth
// @Accept json
// @Produce json
// @Param body body service.RequestOTPRequest true "identifier"
// @Success 200 {object} util.Response
// @Failure 409 {object} util.Response "send limit reached"
// @Router /api/auth/otp/request [post]
func (c *AuthController) RequestOTP(ctx *gin.Context) {
	var req service.RequestOTPRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.Error(ctx, http.StatusBadRequest, err.Error())
		return
	}

	if err := c.OTPService.Request(ctx.Request.Context(), req); err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"sent": true})
}

// VerifyOTP godoc
// @Summary Verify a one-time login code
// @Tags auth
// @Accept json
// @Produce json
// @Param body body service.VerifyOTPRequest true "identifier and code"
// @Success 200 {object} util.Response{data=service.LoginResponse}
// @Failure 401 {object} util.Response
// @Router /api/auth/otp/verify [post]
func (c *AuthController) VerifyOTP(ctx *gin.Context) {
	var req service.VerifyOTPRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.Error(ctx, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := c.OTPService.Verify(req)
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, resp)
}

// Profile godoc
// @Summary Get the caller's profile
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=model.User}
// @Router /api/profile [get]
func (c *AuthController) Profile(ctx *gin.Context) {
	claims, _ := util.GetUserFromContext(ctx)
	user, err := c.AuthService.Profile(claims.UserID)
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, user)
}

// UpdateProfile godoc
// @Summary Update the caller's profile
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.UpdateProfileRequest true "profile fields"
// @Success 200 {object} util.Response{data=model.User}
// @Router /api/profile [put]
func (c *AuthController) UpdateProfile(ctx *gin.Context) {
	var req service.UpdateProfileRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.Error(ctx, http.StatusBadRequest, err.Error())
		return
	}

	claims, _ := util.GetUserFromContext(ctx)
	user, err := c.AuthService.UpdateProfile(claims.UserID, req)
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, user)
}
