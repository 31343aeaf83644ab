package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/churchmanager/scheduler/internal/app/models/dto"
	"github.com/churchmanager/scheduler/internal/pkg/apperrors"
	"github.com/churchmanager/scheduler/internal/pkg/auth"
)

func init() {
	gin.SetMode(gin.TestMode)
	if err := RegisterValidators(); err != nil {
		panic(err)
	}
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) dto.ErrorResponse {
	t.Helper()
	var body dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.NotNil(t, body.Error)
	return body
}

func TestHandleAPIError(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   dto.ErrorCode
	}{
		{"not found", apperrors.NewResourceNotFoundError("user not found"), http.StatusNotFound, dto.ErrorCodeResourceNotFound},
		{"unknown field", fmt.Errorf("%w: nickname", apperrors.ErrUnknownField), http.StatusBadRequest, dto.ErrorCodeUnknownField},
		{"validation", fmt.Errorf("%w: end before start", apperrors.ErrValidationFailed), http.StatusBadRequest, dto.ErrorCodeValidationFailed},
		{"uniqueness", fmt.Errorf("%w: user_email_key", apperrors.ErrUniquenessViolation), http.StatusConflict, dto.ErrorCodeResourceAlreadyExists},
		{"transition", &apperrors.TransitionError{From: "COMPLETED", To: "ASSIGNED"}, http.StatusConflict, dto.ErrorCodeInvalidTransition},
		{"inactive ministry", fmt.Errorf("%w: Worship", apperrors.ErrMinistryInactive), http.StatusConflict, dto.ErrorCodeResourceAlreadyExists},
		{"storage", fmt.Errorf("%w: boom", apperrors.ErrStorage), http.StatusInternalServerError, dto.ErrorCodeDatabaseError},
		{"anything else", errors.New("boom"), http.StatusInternalServerError, dto.ErrorCodeInternalServer},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			HandleAPIError(c, tc.err)

			assert.Equal(t, tc.status, w.Code)
			body := decodeError(t, w)
			assert.False(t, body.Success)
			assert.Equal(t, tc.code, body.Error.Code)
			assert.True(t, c.IsAborted())
		})
	}
}

func TestHandleAPIError_ReportsField(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		field  string
	}{
		{"unknown field", apperrors.NewUnknownFieldError("user", "nickname"), http.StatusBadRequest, "nickname"},
		{"duplicate", fmt.Errorf("create user: %w", apperrors.NewDuplicateError("phoneNumber", "phone number is taken")), http.StatusConflict, "phoneNumber"},
		{"no field", apperrors.NewResourceNotFoundError("user not found"), http.StatusNotFound, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			HandleAPIError(c, tc.err)

			assert.Equal(t, tc.status, w.Code)
			assert.Equal(t, tc.field, decodeError(t, w).Error.Field)
		})
	}
}

func TestHandleAPIError_HidesInternalDetails(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	HandleAPIError(c, fmt.Errorf("%w: password=secret", apperrors.ErrStorage))

	assert.NotContains(t, w.Body.String(), "secret")
}

type bindTarget struct {
	Role   string `json:"roleCode" binding:"required,rolecode"`
	Status string `json:"statusCode" binding:"omitempty,statuscode"`
}

func bindRequest(body string) *httptest.ResponseRecorder {
	r := gin.New()
	r.POST("/", func(c *gin.Context) {
		var req bindTarget
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleBindingError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body)))
	return w
}

func TestCodeValidators(t *testing.T) {
	assert.Equal(t, http.StatusNoContent, bindRequest(`{"roleCode":"SOUND_TECH"}`).Code)
	assert.Equal(t, http.StatusNoContent, bindRequest(`{"roleCode":"GREETER","statusCode":"NO_SHOW"}`).Code)

	w := bindRequest(`{"roleCode":"JANITOR"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeError(t, w)
	assert.Equal(t, dto.ErrorCodeValidationFailed, body.Error.Code)
	assert.Contains(t, w.Body.String(), "SOUND_TECH")

	assert.Equal(t, http.StatusBadRequest, bindRequest(`{"roleCode":"GREETER","statusCode":"MAYBE"}`).Code)
	assert.Equal(t, http.StatusBadRequest, bindRequest(`not json`).Code)
}

func TestAuthMiddleware(t *testing.T) {
	jwtService := auth.NewJWTService(auth.JWTConfig{SecretKey: "secret", AccessTokenExp: time.Hour, TokenIssuer: "test"})
	m := NewAuthMiddleware(jwtService)

	r := gin.New()
	r.GET("/admin", m.JWTAuth(), m.RoleRequired(auth.RoleAdmin), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(ContextSubject))
	})

	call := func(header string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	adminToken, _, err := jwtService.GenerateToken("pastor", auth.RoleAdmin)
	require.NoError(t, err)
	memberToken, _, err := jwtService.GenerateToken("volunteer", "member")
	require.NoError(t, err)

	w := call("Bearer " + adminToken)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pastor", w.Body.String())

	assert.Equal(t, http.StatusUnauthorized, call("").Code)
	assert.Equal(t, http.StatusUnauthorized, call("Bearer not-a-token").Code)
	assert.Equal(t, http.StatusForbidden, call("Bearer "+memberToken).Code)
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	lgr := zerolog.New(&buf)

	r := gin.New()
	r.Use(RequestLogger(lgr))
	r.GET("/missing", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/missing", nil))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "/missing", entry["path"])
	assert.EqualValues(t, 404, entry["status"])
}
