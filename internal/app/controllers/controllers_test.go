package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/churchmanager/scheduler/internal/app/models"
	"github.com/churchmanager/scheduler/internal/app/models/dto"
	"github.com/churchmanager/scheduler/internal/middleware"
	"github.com/churchmanager/scheduler/internal/pkg/apperrors"
	"github.com/churchmanager/scheduler/internal/pkg/helpers"
)

func init() {
	gin.SetMode(gin.TestMode)
	if err := middleware.RegisterValidators(); err != nil {
		panic(err)
	}
}

func perform(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		_ = json.NewEncoder(&buf).Encode(b)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// envelope decodes an APIResponse keeping data raw
type envelope struct {
	Success bool             `json:"success"`
	Data    json.RawMessage  `json:"data"`
	Error   *dto.ErrorDetail `json:"error"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder, data any) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	if data != nil {
		require.NoError(t, json.Unmarshal(env.Data, data))
	}
	return env
}

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := helpers.ParseDate(s)
	require.NoError(t, err)
	return d
}

func userRouter(svc *mockUserService) *gin.Engine {
	c := NewUserController(svc)
	r := gin.New()
	g := r.Group("/users")
	g.POST("", c.CreateUser)
	g.GET("", c.ListUsers)
	g.GET("/search", c.SearchUsers)
	g.GET("/available", c.GetAvailableUsers)
	g.GET("/:id", c.GetUser)
	g.PUT("/:id", c.UpdateUser)
	g.DELETE("/:id", c.DeleteUser)
	g.PUT("/:id/availability", c.UpdateAvailability)
	g.POST("/:id/deactivate", c.DeactivateUser)
	g.GET("/:id/assignments", c.GetUserAssignments)
	return r
}

func TestUserController_CreateUser(t *testing.T) {
	svc := &mockUserService{}
	user := &models.User{Base: models.Base{ID: uuid.New()}, Username: "jdoe"}
	svc.On("CreateUser", mock.Anything, mock.MatchedBy(func(req *dto.CreateUserRequest) bool {
		return req.Username == "jdoe" && req.Email == "jdoe@example.com"
	})).Return(user, nil)

	w := perform(userRouter(svc), http.MethodPost, "/users", map[string]any{
		"username": "jdoe", "email": "jdoe@example.com", "phoneNumber": "+1 555 0100",
		"firstName": "John", "lastName": "Doe",
	})

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var got models.User
	env := decode(t, w, &got)
	assert.True(t, env.Success)
	assert.Equal(t, user.ID, got.ID)
	svc.AssertExpectations(t)
}

func TestUserController_CreateUserRejectsInvalidBody(t *testing.T) {
	svc := &mockUserService{}

	w := perform(userRouter(svc), http.MethodPost, "/users", map[string]any{"username": "jdoe", "email": "not-an-email"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	env := decode(t, w, nil)
	require.NotNil(t, env.Error)
	assert.Equal(t, dto.ErrorCodeValidationFailed, env.Error.Code)
	svc.AssertNumberOfCalls(t, "CreateUser", 0)
}

func TestUserController_CreateUserConflict(t *testing.T) {
	svc := &mockUserService{}
	svc.On("CreateUser", mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("%w: user_email_key", apperrors.ErrUniquenessViolation))

	w := perform(userRouter(svc), http.MethodPost, "/users", map[string]any{
		"username": "jdoe", "email": "jdoe@example.com", "phoneNumber": "1",
		"firstName": "John", "lastName": "Doe",
	})

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestUserController_GetUser(t *testing.T) {
	t.Run("malformed id", func(t *testing.T) {
		svc := &mockUserService{}
		w := perform(userRouter(svc), http.MethodGet, "/users/not-a-uuid", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		svc.AssertNumberOfCalls(t, "GetUser", 0)
	})

	t.Run("not found", func(t *testing.T) {
		svc := &mockUserService{}
		id := uuid.New()
		svc.On("GetUser", mock.Anything, id).Return(nil, apperrors.NewResourceNotFoundError("user not found"))

		w := perform(userRouter(svc), http.MethodGet, "/users/"+id.String(), nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
		env := decode(t, w, nil)
		assert.False(t, env.Success)
		assert.Equal(t, dto.ErrorCodeResourceNotFound, env.Error.Code)
	})
}

func TestUserController_ListUsersPaginates(t *testing.T) {
	svc := &mockUserService{}
	users := []*models.User{{Username: "a"}, {Username: "b"}}
	svc.On("ListUsers", mock.Anything, mock.MatchedBy(func(f *dto.UserFilterRequest) bool {
		return f.Skip == 10 && f.Limit == 2 && f.IsActive != nil && *f.IsActive
	})).Return(users, nil)

	w := perform(userRouter(svc), http.MethodGet, "/users?skip=10&limit=2&is_active=true", nil)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var page struct {
		Items      []models.User      `json:"items"`
		Pagination dto.PaginationInfo `json:"pagination"`
	}
	decode(t, w, &page)
	assert.Len(t, page.Items, 2)
	assert.Equal(t, dto.PaginationInfo{Skip: 10, Limit: 2, Count: 2}, page.Pagination)
}

func TestUserController_GetAvailableUsers(t *testing.T) {
	svc := &mockUserService{}
	ministryID := uuid.New()
	svc.On("GetAvailableUsers", mock.Anything, mustDate(t, "2024-06-02"), &ministryID).Return([]*models.User{}, nil)

	w := perform(userRouter(svc), http.MethodGet, "/users/available?date=2024-06-02&ministry_id="+ministryID.String(), nil)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = perform(userRouter(svc), http.MethodGet, "/users/available?date=06/02/2024", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNumberOfCalls(t, "GetAvailableUsers", 1)
}

func TestUserController_UpdateAvailabilityRequiresFlag(t *testing.T) {
	svc := &mockUserService{}
	id := uuid.New()
	svc.On("SetAvailability", mock.Anything, id, false).Return(&models.User{IsAvailable: false}, nil)

	w := perform(userRouter(svc), http.MethodPut, "/users/"+id.String()+"/availability", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = perform(userRouter(svc), http.MethodPut, "/users/"+id.String()+"/availability", map[string]any{"isAvailable": false})
	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestUserController_GetUserAssignments(t *testing.T) {
	svc := &mockUserService{}
	id := uuid.New()
	start := mustDate(t, "2024-06-01")
	svc.On("GetUserAssignments", mock.Anything, id,
		mock.MatchedBy(func(s *time.Time) bool { return s != nil && s.Equal(start) }),
		(*time.Time)(nil),
		[]models.StatusCode{models.StatusAssigned, models.StatusConfirmed},
	).Return([]*models.ScheduleAssignment{}, nil)

	w := perform(userRouter(svc), http.MethodGet,
		"/users/"+id.String()+"/assignments?start=2024-06-01&status=ASSIGNED&status=CONFIRMED", nil)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = perform(userRouter(svc), http.MethodGet, "/users/"+id.String()+"/assignments?status=MAYBE", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNumberOfCalls(t, "GetUserAssignments", 1)
}
