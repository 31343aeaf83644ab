package routes

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/churchmanager/scheduler/internal/app/controllers"
	"github.com/churchmanager/scheduler/internal/middleware"
	"github.com/churchmanager/scheduler/internal/pkg/auth"
)

func newTestRouter(t *testing.T) (*gin.Engine, *auth.JWTService) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	jwtService := auth.NewJWTService(auth.JWTConfig{SecretKey: "test-secret", AccessTokenExp: time.Hour, TokenIssuer: "test"})

	// Services stay nil: every request below is answered before a service is reached.
	router := gin.New()
	SetupRouter(router,
		controllers.NewUserController(nil),
		controllers.NewMinistryController(nil),
		controllers.NewScheduleController(nil),
		controllers.NewOccurrenceController(nil),
		controllers.NewAssignmentController(nil),
		controllers.NewWahaController(nil),
		middleware.NewAuthMiddleware(jwtService),
	)
	SetupSwagger(router)
	return router, jwtService
}

func get(router http.Handler, path, token string) int {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w.Code
}

func TestAdminAPIRequiresAdminToken(t *testing.T) {
	router, jwtService := newTestRouter(t)

	admin, _, err := jwtService.GenerateToken("ops", auth.RoleAdmin)
	require.NoError(t, err)
	member, _, err := jwtService.GenerateToken("someone", "member")
	require.NoError(t, err)

	paths := []string{
		"/api/v1/users/not-a-uuid",
		"/api/v1/ministries/not-a-uuid",
		"/api/v1/schedules/not-a-uuid",
		"/api/v1/occurrences/not-a-uuid",
	}
	for _, path := range paths {
		t.Run(path, func(t *testing.T) {
			assert.Equal(t, http.StatusUnauthorized, get(router, path, ""))
			assert.Equal(t, http.StatusUnauthorized, get(router, path, "garbage"))
			assert.Equal(t, http.StatusForbidden, get(router, path, member))
			// admin reaches the handler, which rejects the malformed id
			assert.Equal(t, http.StatusBadRequest, get(router, path, admin))
		})
	}
}

func TestWahaRoutesArePublic(t *testing.T) {
	router, _ := newTestRouter(t)

	assert.Equal(t, http.StatusOK, get(router, "/waha/health", ""))
}

func TestSwaggerServesDocument(t *testing.T) {
	router, _ := newTestRouter(t)

	assert.Equal(t, http.StatusOK, get(router, "/swagger/doc.json", ""))
}
