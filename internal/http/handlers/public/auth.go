package public

import (
	"errors"

	handlershared "github.com/daishou-next/internal/http/handlers/shared"
	"github.com/daishou-next/internal/http/response"
	"github.com/daishou-next/internal/service"

	"github.com/gin-gonic/gin"
)

// RegisterRequest 注册请求
type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role" binding:"required"` // SHOP / SHIPPER
	Phone    string `json:"phone"`
	Address  string `json:"address"`
}

// Register 注册商家或配送员账号
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handlershared.RespondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}

	user, err := h.AuthService.Register(service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
		Phone:    req.Phone,
		Address:  req.Address,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidRole):
			handlershared.RespondError(c, response.CodeBadRequest, "角色仅限商家或配送员", nil)
		case errors.Is(err, service.ErrEmailExists):
			handlershared.RespondError(c, response.CodeBadRequest, "邮箱已被注册", nil)
		case errors.Is(err, service.ErrInvalidCredentials):
			handlershared.RespondError(c, response.CodeBadRequest, "注册信息不完整或不合法", nil)
		default:
			handlershared.RespondError(c, response.CodeInternal, "注册失败", err)
		}
		return
	}

	response.Success(c, gin.H{
		"id":    user.ID,
		"email": user.Email,
		"name":  user.Name,
		"role":  user.Role,
	})
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login 登录并下发 JWT
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handlershared.RespondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}

	user, token, expiresAt, err := h.AuthService.Login(req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			handlershared.RespondError(c, response.CodeUnauthorized, "邮箱或密码错误", nil)
		case errors.Is(err, service.ErrUserDisabled):
			handlershared.RespondError(c, response.CodeForbidden, "账号已被停用", nil)
		default:
			handlershared.RespondError(c, response.CodeInternal, "登录失败", err)
		}
		return
	}

	response.Success(c, gin.H{
		"token":      token,
		"expires_at": expiresAt,
		"user": gin.H{
			"id":    user.ID,
			"email": user.Email,
			"name":  user.Name,
			"role":  user.Role,
		},
	})
}

// Me 返回当前登录用户
func (h *Handler) Me(c *gin.Context) {
	userID, ok := handlershared.CurrentUserID(c)
	if !ok {
		return
	}
	user, err := h.AuthService.GetUser(userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			handlershared.RespondError(c, response.CodeNotFound, "用户不存在", nil)
			return
		}
		handlershared.RespondError(c, response.CodeInternal, "查询用户失败", err)
		return
	}
	response.Success(c, gin.H{
		"id":      user.ID,
		"email":   user.Email,
		"name":    user.Name,
		"role":    user.Role,
		"phone":   user.Phone,
		"address": user.Address,
	})
}
