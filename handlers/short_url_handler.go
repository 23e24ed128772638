package handlers

import (
	"net/http"

	"foodgram-backend/helper"
	"foodgram-backend/services"

	"github.com/gin-gonic/gin"
)

type ShortURLHandler struct {
	shortURLService services.ShortURLService
	Helper          *helper.HTTPHelper
}

func NewShortURLHandler(shortURLService services.ShortURLService, h *helper.HTTPHelper) *ShortURLHandler {
	return &ShortURLHandler{shortURLService: shortURLService, Helper: h}
}

// Redirect sends the client to the full url behind a short code.
func (h *ShortURLHandler) Redirect(c *gin.Context) {
	target, err := h.shortURLService.Resolve(c.Request.Context(), c.Param("shortcode"))
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}
	c.Redirect(http.StatusFound, target)
}
