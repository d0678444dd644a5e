package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cart-shop/models"
	"cart-shop/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(tokens *utils.TokenManager) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", AuthMiddleware(tokens), func(c *gin.Context) {
		actor, ok := CurrentActor(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, gin.H{"user_id": actor.UserID, "admin": actor.IsAdmin()})
	})
	r.GET("/admin", AuthMiddleware(tokens), AdminMiddleware(), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func request(r http.Handler, path, auth string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	tokens := utils.NewTokenManager("secret", time.Hour)
	r := newTestRouter(tokens)

	customer, err := tokens.GenerateToken(5, "c@example.com", models.RoleCustomer)
	require.NoError(t, err)

	tests := []struct {
		name string
		auth string
		want int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + customer, http.StatusUnauthorized},
		{"garbage token", "Bearer nope", http.StatusUnauthorized},
		{"valid token", "Bearer " + customer, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, request(r, "/me", tt.auth).Code)
		})
	}

	w := request(r, "/me", "Bearer "+customer)
	assert.JSONEq(t, `{"user_id":5,"admin":false}`, w.Body.String())
}

func TestAdminMiddleware(t *testing.T) {
	tokens := utils.NewTokenManager("secret", time.Hour)
	r := newTestRouter(tokens)

	customer, err := tokens.GenerateToken(5, "c@example.com", models.RoleCustomer)
	require.NoError(t, err)
	admin, err := tokens.GenerateToken(1, "a@example.com", models.RoleAdmin)
	require.NoError(t, err)

	assert.Equal(t, http.StatusForbidden, request(r, "/admin", "Bearer "+customer).Code)
	assert.Equal(t, http.StatusNoContent, request(r, "/admin", "Bearer "+admin).Code)
}
