package handlers

import (
	"foodgram-backend/helper"
	"foodgram-backend/middleware"
	"foodgram-backend/models"
	"foodgram-backend/services"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	authService services.AuthService
	userService services.UserService
	Helper      *helper.HTTPHelper
}

func NewUserHandler(authService services.AuthService, userService services.UserService, h *helper.HTTPHelper) *UserHandler {
	return &UserHandler{authService: authService, userService: userService, Helper: h}
}

func (h *UserHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := h.Helper.Bind(c, &req); err != nil {
		h.Helper.SendError(c, err)
		return
	}

	user, err := h.authService.Register(c.Request.Context(), req)
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}

	h.Helper.SendCreated(c, "Register success", user)
}

func (h *UserHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := h.Helper.Bind(c, &req); err != nil {
		h.Helper.SendError(c, err)
		return
	}

	token, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Login success", token)
}

func (h *UserHandler) Logout(c *gin.Context) {
	if err := h.authService.Logout(c.Request.Context(), middleware.Claims(c)); err != nil {
		h.Helper.SendError(c, err)
		return
	}
	h.Helper.SendNoContent(c)
}

func (h *UserHandler) GetUsers(c *gin.Context) {
	var params models.PageParams
	if err := h.Helper.BindQuery(c, &params); err != nil {
		h.Helper.SendError(c, err)
		return
	}

	users, total, err := h.userService.GetUsers(c.Request.Context(), middleware.UserID(c), &params)
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}

	h.Helper.SendPage(c, "Success", users, params.Page, params.Limit, total)
}

func (h *UserHandler) GetUser(c *gin.Context) {
	id, err := parseID(c, "id", "user")
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}

	user, err := h.userService.GetUser(c.Request.Context(), middleware.UserID(c), id)
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Success", user)
}

func (h *UserHandler) Me(c *gin.Context) {
	userID := middleware.UserID(c)
	user, err := h.userService.GetUser(c.Request.Context(), userID, userID)
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Profile loaded", user)
}

func (h *UserHandler) SetPassword(c *gin.Context) {
	var req models.SetPasswordRequest
	if err := h.Helper.Bind(c, &req); err != nil {
		h.Helper.SendError(c, err)
		return
	}

	if err := h.userService.SetPassword(c.Request.Context(), middleware.UserID(c), req); err != nil {
		h.Helper.SendError(c, err)
		return
	}
	h.Helper.SendNoContent(c)
}

func (h *UserHandler) UpdateAvatar(c *gin.Context) {
	var req models.AvatarRequest
	if err := h.Helper.Bind(c, &req); err != nil {
		h.Helper.SendError(c, err)
		return
	}

	avatar, err := h.userService.UpdateAvatar(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Avatar updated", avatar)
}

func (h *UserHandler) DeleteAvatar(c *gin.Context) {
	if err := h.userService.DeleteAvatar(c.Request.Context(), middleware.UserID(c)); err != nil {
		h.Helper.SendError(c, err)
		return
	}
	h.Helper.SendNoContent(c)
}

func (h *UserHandler) Subscribe(c *gin.Context) {
	id, err := parseID(c, "id", "user")
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}

	var params models.SubscriptionListParams
	if err := h.Helper.BindQuery(c, &params); err != nil {
		h.Helper.SendError(c, err)
		return
	}

	sub, err := h.userService.Subscribe(c.Request.Context(), middleware.UserID(c), id, params.RecipesLimit)
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}

	h.Helper.SendCreated(c, "Subscribed", sub)
}

func (h *UserHandler) Unsubscribe(c *gin.Context) {
	id, err := parseID(c, "id", "user")
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}

	if err := h.userService.Unsubscribe(c.Request.Context(), middleware.UserID(c), id); err != nil {
		h.Helper.SendError(c, err)
		return
	}
	h.Helper.SendNoContent(c)
}

func (h *UserHandler) GetSubscriptions(c *gin.Context) {
	var params models.SubscriptionListParams
	if err := h.Helper.BindQuery(c, &params); err != nil {
		h.Helper.SendError(c, err)
		return
	}

	subs, total, err := h.userService.GetSubscriptions(c.Request.Context(), middleware.UserID(c), &params)
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}

	h.Helper.SendPage(c, "Success", subs, params.Page, params.Limit, total)
}
