//go:build unit

package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"event-notifier/internal/handler/middleware"
	"event-notifier/internal/pkg/jwt"
	middlewaremock "event-notifier/tests/mock/middleware"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func TestAuthMiddleware_RequireAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	userID := uuid.New()

	testCases := []struct {
		name       string
		header     string
		setupMock  func(m *middlewaremock.MockTokenValidator)
		expectCode int
	}{
		{
			name:   "success: valid bearer token",
			header: "Bearer good-token",
			setupMock: func(m *middlewaremock.MockTokenValidator) {
				m.EXPECT().ValidateToken("good-token").Return(&jwt.Claims{UserID: userID, Service: "event-crud"}, nil)
			},
			expectCode: http.StatusOK,
		},
		{
			name:       "error: no header",
			setupMock:  func(*middlewaremock.MockTokenValidator) {},
			expectCode: http.StatusUnauthorized,
		},
		{
			name:       "error: not a bearer scheme",
			header:     "Basic dXNlcjpwYXNz",
			setupMock:  func(*middlewaremock.MockTokenValidator) {},
			expectCode: http.StatusUnauthorized,
		},
		{
			name:   "error: token rejected",
			header: "Bearer expired-token",
			setupMock: func(m *middlewaremock.MockTokenValidator) {
				m.EXPECT().ValidateToken("expired-token").Return(nil, jwt.ErrExpiredToken)
			},
			expectCode: http.StatusUnauthorized,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			validator := middlewaremock.NewMockTokenValidator(ctrl)
			tc.setupMock(validator)

			var seen uuid.UUID
			router := gin.New()
			router.GET("/protected", middleware.NewAuthMiddleware(validator).RequireAuth(), func(c *gin.Context) {
				seen, _ = middleware.GetUserID(c)
				c.Status(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tc.expectCode, w.Code)
			if tc.expectCode == http.StatusOK {
				assert.Equal(t, userID, seen)
			}
		})
	}
}
