package helper

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"foodgram-backend/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Code        int             `json:"code"`
	CodeType    string          `json:"code_type"`
	CodeMessage json.RawMessage `json:"code_message"`
	Data        json.RawMessage `json:"data"`
}

func newHelper(t *testing.T) *HTTPHelper {
	t.Helper()
	h, err := NewHTTPHelper()
	require.NoError(t, err)
	return h
}

func newContext(method, target, body string) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, target, strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	return c, w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func TestGetStatusCode(t *testing.T) {
	h := newHelper(t)

	cases := []struct {
		err  error
		want int
	}{
		{nil, http.StatusOK},
		{models.NewValidationError("name", "required"), http.StatusBadRequest},
		{models.ErrorConflict{Message: "dup"}, http.StatusBadRequest},
		{models.ErrorNotFound{Message: "gone"}, http.StatusNotFound},
		{models.ErrorUnauthorized{Message: "who"}, http.StatusUnauthorized},
		{models.ErrorForbidden{Message: "no"}, http.StatusForbidden},
		{fmt.Errorf("wrapped: %w", models.ErrorNotFound{Message: "gone"}), http.StatusNotFound},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, h.GetStatusCode(tc.err), "%v", tc.err)
	}
}

func TestSendErrorHidesInternalErrors(t *testing.T) {
	h := newHelper(t)
	c, w := newContext(http.MethodGet, "/api/recipes/", "")

	h.SendError(c, errors.New("pq: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	env := decode(t, w)
	assert.Equal(t, "internalServerError", env.CodeType)
	assert.JSONEq(t, `"internal server error"`, string(env.CodeMessage))
}

func TestSendErrorValidationFields(t *testing.T) {
	h := newHelper(t)
	c, w := newContext(http.MethodPost, "/api/recipes/", "")

	h.SendError(c, models.NewValidationError("tags", "tag 9 does not exist"))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	env := decode(t, w)
	assert.Equal(t, "validationError", env.CodeType)
	assert.JSONEq(t, `{"tags":["tag 9 does not exist"]}`, string(env.CodeMessage))
}

func TestBindTranslatesValidationErrors(t *testing.T) {
	h := newHelper(t)
	c, _ := newContext(http.MethodPost, "/api/recipes/",
		`{"ingredients":[{"id":1,"amount":0}],"tags":[],"image":"x","name":"Борщ","text":"t","cooking_time":0}`)

	var req models.CreateRecipeRequest
	err := h.Bind(c, &req)

	var verr models.ErrorValidation
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "ingredients")
	assert.Contains(t, verr.Fields, "tags")
	assert.Contains(t, verr.Fields, "cooking_time")
	assert.NotContains(t, verr.Fields, "name")
	assert.Contains(t, verr.Fields["cooking_time"][0], "cooking_time")
}

func TestBindRejectsMalformedBodies(t *testing.T) {
	h := newHelper(t)

	c, _ := newContext(http.MethodPost, "/api/tags/", "")
	var verr models.ErrorValidation
	require.ErrorAs(t, h.Bind(c, &models.CreateTagRequest{}), &verr)
	assert.Equal(t, []string{"request body is required"}, verr.Fields["non_field_errors"])

	c, _ = newContext(http.MethodPost, "/api/tags/", `{"name":`)
	require.ErrorAs(t, h.Bind(c, &models.CreateTagRequest{}), &verr)
	assert.Equal(t, []string{"invalid JSON body"}, verr.Fields["non_field_errors"])

	c, _ = newContext(http.MethodPost, "/api/recipes/", `{"cooking_time":"soon"}`)
	require.ErrorAs(t, h.Bind(c, &models.CreateRecipeRequest{}), &verr)
	assert.Contains(t, verr.Fields, "cooking_time")
}

func TestCustomRules(t *testing.T) {
	h := newHelper(t)

	err := h.ValidateStruct(&models.CreateTagRequest{Name: "Завтрак", Slug: "завтрак"})
	var verr models.ErrorValidation
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields["slug"][0], "latin letters")

	assert.NoError(t, h.ValidateStruct(&models.CreateTagRequest{Name: "Завтрак", Slug: "breakfast_1"}))

	req := models.RegisterRequest{Email: "a@b.c", Username: "me", FirstName: "A", LastName: "B", Password: "secret1"}
	require.ErrorAs(t, h.ValidateStruct(&req), &verr)
	assert.Contains(t, verr.Fields, "username")

	req.Username = "bad name"
	require.ErrorAs(t, h.ValidateStruct(&req), &verr)
	assert.Contains(t, verr.Fields, "username")

	req.Username = "good.name+1@x"
	assert.NoError(t, h.ValidateStruct(&req))
}

func TestGeneratePagingKeepsFilters(t *testing.T) {
	h := newHelper(t)
	c, _ := newContext(http.MethodGet, "http://foodgram.test/api/recipes/?tags=lunch&tags=dinner&page=2&limit=2", "")

	paging := h.GeneratePaging(c, 2, 2, 5)
	assert.Equal(t, 3, paging["total_pages"])

	links := paging["links"].(map[string]interface{})
	assert.Equal(t, "http://foodgram.test/api/recipes/?limit=2&page=1&tags=lunch&tags=dinner", links["previous"])
	assert.Equal(t, "http://foodgram.test/api/recipes/?limit=2&page=3&tags=lunch&tags=dinner", links["next"])
	assert.Equal(t, "http://foodgram.test/api/recipes/?limit=2&page=3&tags=lunch&tags=dinner", links["last"])
	assert.Equal(t, "http://foodgram.test/api/recipes/?limit=2&page=1&tags=lunch&tags=dinner", links["first"])

	paging = h.GeneratePaging(c, 6, 1, 0)
	links = paging["links"].(map[string]interface{})
	assert.Equal(t, 0, paging["total_pages"])
	assert.Empty(t, links["next"])
	assert.Empty(t, links["previous"])
}

func TestTopLevelField(t *testing.T) {
	assert.Equal(t, "ingredients", topLevelField("CreateRecipeRequest.ingredients[0].amount"))
	assert.Equal(t, "name", topLevelField("CreateTagRequest.name"))
}
