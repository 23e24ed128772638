package helper

import (
	"errors"
	"math"
	"net/http"
	"net/url"
	"strconv"

	"foodgram-backend/logger"
	"foodgram-backend/models"

	"github.com/gin-gonic/gin"
	ut "github.com/go-playground/universal-translator"
	"gopkg.in/go-playground/validator.v9"
)

const (
	codeTypeSuccess      = `success`
	codeTypeCreated      = `created`
	codeTypeValidation   = `validationError`
	codeTypeBadRequest   = `badRequest`
	codeTypeUnauthorized = `unAuthorized`
	codeTypeForbidden    = `forbidden`
	codeTypeNotFound     = `notFound`
	codeTypeInternal     = `internalServerError`

	nonFieldErrors = "non_field_errors"
)

// HTTPHelper writes every JSON response in the same envelope:
// {"code", "code_type", "code_message", "data"}.
type HTTPHelper struct {
	Validate   *validator.Validate
	Translator ut.Translator
}

// GetStatusCode maps domain errors to HTTP statuses.
func (u *HTTPHelper) GetStatusCode(err error) int {
	if err == nil {
		return http.StatusOK
	}

	var (
		validation   models.ErrorValidation
		conflict     models.ErrorConflict
		notFound     models.ErrorNotFound
		unauthorized models.ErrorUnauthorized
		forbidden    models.ErrorForbidden
	)
	switch {
	case errors.As(err, &validation), errors.As(err, &conflict):
		return http.StatusBadRequest
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &unauthorized):
		return http.StatusUnauthorized
	case errors.As(err, &forbidden):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// SendError writes err with the status GetStatusCode picks for it. Unknown
// errors are logged and hidden behind a generic message.
func (u *HTTPHelper) SendError(c *gin.Context, err error) {
	var validation models.ErrorValidation
	if errors.As(err, &validation) {
		u.SendResponse(c, http.StatusBadRequest, codeTypeValidation, validation.Fields, u.EmptyJsonMap())
		return
	}

	status := u.GetStatusCode(err)
	switch status {
	case http.StatusBadRequest:
		u.SendResponse(c, status, codeTypeBadRequest, err.Error(), u.EmptyJsonMap())
	case http.StatusNotFound:
		u.SendResponse(c, status, codeTypeNotFound, err.Error(), u.EmptyJsonMap())
	case http.StatusUnauthorized:
		u.SendResponse(c, status, codeTypeUnauthorized, err.Error(), u.EmptyJsonMap())
	case http.StatusForbidden:
		u.SendResponse(c, status, codeTypeForbidden, err.Error(), u.EmptyJsonMap())
	default:
		logger.Error("request failed",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"error", err,
		)
		u.SendResponse(c, status, codeTypeInternal, "internal server error", u.EmptyJsonMap())
	}
}

func (u *HTTPHelper) SendUnauthorizedError(c *gin.Context, message string) {
	u.SendResponse(c, http.StatusUnauthorized, codeTypeUnauthorized, message, u.EmptyJsonMap())
}

func (u *HTTPHelper) SendForbiddenError(c *gin.Context, message string) {
	u.SendResponse(c, http.StatusForbidden, codeTypeForbidden, message, u.EmptyJsonMap())
}

func (u *HTTPHelper) SendNotFoundError(c *gin.Context, message string) {
	u.SendResponse(c, http.StatusNotFound, codeTypeNotFound, message, u.EmptyJsonMap())
}

func (u *HTTPHelper) SendSuccess(c *gin.Context, message string, data interface{}) {
	u.SendResponse(c, http.StatusOK, codeTypeSuccess, message, data)
}

func (u *HTTPHelper) SendCreated(c *gin.Context, message string, data interface{}) {
	u.SendResponse(c, http.StatusCreated, codeTypeCreated, message, data)
}

func (u *HTTPHelper) SendNoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// SendPage wraps a page of results together with its pagination block.
func (u *HTTPHelper) SendPage(c *gin.Context, message string, results interface{}, page, limit int, total int64) {
	u.SendSuccess(c, message, map[string]interface{}{
		"results":    results,
		"pagination": u.GeneratePaging(c, limit, page, int(total)),
	})
}

func (u *HTTPHelper) SendResponse(c *gin.Context, status int, codeType string, message interface{}, data interface{}) {
	if s, ok := message.(string); ok && s == "" {
		message = `success`
	}

	c.JSON(status, map[string]interface{}{
		"code":         status,
		"code_type":    codeType,
		"code_message": message,
		"data":         data,
	})
}

func (u *HTTPHelper) EmptyJsonMap() map[string]interface{} {
	return make(map[string]interface{})
}

// IsSecure reports whether the client reached us over https, directly or
// through a proxy that sets X-Forwarded-Proto.
func IsSecure(c *gin.Context) bool {
	return c.Request.TLS != nil || c.GetHeader("X-Forwarded-Proto") == "https"
}

// GetPagingUrl rebuilds the current url for another page, keeping the other
// query parameters (filters) as they are.
func (u *HTTPHelper) GetPagingUrl(c *gin.Context, page, limit int) string {
	r := c.Request
	scheme := "http"
	if IsSecure(c) {
		scheme = "https"
	}

	query := url.Values{}
	for key, values := range r.URL.Query() {
		query[key] = values
	}
	query.Set("page", strconv.Itoa(page))
	query.Set("limit", strconv.Itoa(limit))

	return scheme + "://" + r.Host + r.URL.Path + "?" + query.Encode()
}

// GeneratePaging builds the pagination block. Links that do not apply are empty.
func (u *HTTPHelper) GeneratePaging(c *gin.Context, limit, page, totalRecord int) map[string]interface{} {
	prevURL, nextURL, firstURL, lastURL := "", "", "", ""

	totalPages := 0
	if limit > 0 {
		totalPages = int(math.Ceil(float64(totalRecord) / float64(limit)))
	}

	if page > 1 && page <= totalPages {
		prevURL = u.GetPagingUrl(c, page-1, limit)
		firstURL = u.GetPagingUrl(c, 1, limit)
	}
	if page < totalPages {
		nextURL = u.GetPagingUrl(c, page+1, limit)
		lastURL = u.GetPagingUrl(c, totalPages, limit)
	}

	return map[string]interface{}{
		"total_records": totalRecord,
		"per_page":      limit,
		"current_page":  page,
		"total_pages":   totalPages,
		"links": map[string]interface{}{
			"previous": prevURL,
			"next":     nextURL,
			"first":    firstURL,
			"last":     lastURL,
		},
	}
}
