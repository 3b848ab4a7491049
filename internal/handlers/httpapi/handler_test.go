package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jianghu-rpg/jianghu-api/internal/auth/initdata"
	"github.com/jianghu-rpg/jianghu-api/internal/pkg/clock"
	"github.com/jianghu-rpg/jianghu-api/internal/repositories/merchant"
	"github.com/jianghu-rpg/jianghu-api/internal/testutils"
)

const (
	testBotToken      = "12345:test-token"
	testJWTSecret     = "jwt-secret"
	testAdminPassword = "admin-password"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(t *testing.T) (*gin.Engine, merchant.Repository) {
	t.Helper()
	client, cleanup := testutils.CreateTestRedisClient(t)
	t.Cleanup(cleanup)

	repo, err := merchant.NewRedis(&merchant.RedisConfig{
		Client: client,
		Clock:  clock.NewFixed(testutils.TestTime),
	})
	require.NoError(t, err)

	h, err := New(&Config{
		Merchants:     repo,
		BotToken:      testBotToken,
		JWTSecret:     testJWTSecret,
		AdminPassword: testAdminPassword,
		Clock:         clock.NewFixed(testutils.TestTime),
	})
	require.NoError(t, err)
	return h.Router(), repo
}

func doJSON(t *testing.T, router *gin.Engine, method, path, token string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var parsed map[string]interface{}
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &parsed))
	}
	return w, parsed
}

func adminToken(t *testing.T, router *gin.Engine) string {
	t.Helper()
	w, body := doJSON(t, router, http.MethodPost, "/admin/login", "", gin.H{"password": testAdminPassword})
	require.Equal(t, http.StatusOK, w.Code)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestAdminLogin(t *testing.T) {
	router, _ := newTestRouter(t)

	t.Run("wrong password", func(t *testing.T) {
		w, body := doJSON(t, router, http.MethodPost, "/admin/login", "", gin.H{"password": "nope"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, false, body["ok"])
	})

	t.Run("success", func(t *testing.T) {
		token := adminToken(t, router)
		assert.NotEmpty(t, token)
	})
}

func TestMerchantManagement(t *testing.T) {
	router, _ := newTestRouter(t)
	token := adminToken(t, router)

	t.Run("requires admin token", func(t *testing.T) {
		w, _ := doJSON(t, router, http.MethodPost, "/admin/merchants", "", gin.H{"name": "悦来客栈", "slug": "yuelai", "password": "x"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("create and list", func(t *testing.T) {
		w, body := doJSON(t, router, http.MethodPost, "/admin/merchants", token, gin.H{"name": "悦来客栈", "slug": "yuelai", "password": "secret"})
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, float64(1), body["id"])

		w, body = doJSON(t, router, http.MethodGet, "/admin/merchants", token, nil)
		require.Equal(t, http.StatusOK, w.Code)
		rows, ok := body["merchants"].([]interface{})
		require.True(t, ok)
		require.Len(t, rows, 1)
		row := rows[0].(map[string]interface{})
		assert.Equal(t, "yuelai", row["slug"])
		assert.NotContains(t, row, "password")
	})

	t.Run("duplicate slug", func(t *testing.T) {
		w, _ := doJSON(t, router, http.MethodPost, "/admin/merchants", token, gin.H{"name": "别家", "slug": "yuelai", "password": "x"})
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("missing fields", func(t *testing.T) {
		w, _ := doJSON(t, router, http.MethodPost, "/admin/merchants", token, gin.H{"name": "残缺"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestMerchantLoginAndProducts(t *testing.T) {
	router, repo := newTestRouter(t)
	_, err := repo.CreateMerchant(context.Background(), merchant.CreateMerchantInput{
		Name: "悦来客栈", Slug: "yuelai", Password: "secret",
	})
	require.NoError(t, err)

	t.Run("bad credentials", func(t *testing.T) {
		w, _ := doJSON(t, router, http.MethodPost, "/merchant/login", "", gin.H{"slug": "yuelai", "password": "wrong"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	w, body := doJSON(t, router, http.MethodPost, "/merchant/login", "", gin.H{"slug": "yuelai", "password": "secret"})
	require.Equal(t, http.StatusOK, w.Code)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)

	t.Run("create product requires merchant token", func(t *testing.T) {
		w, _ := doJSON(t, router, http.MethodPost, "/api/products", "", gin.H{"title": "女儿红", "price": 10})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("create and list products", func(t *testing.T) {
		w, _ := doJSON(t, router, http.MethodPost, "/api/products", token, gin.H{"title": "女儿红", "description": "十年陈酿", "price": 10})
		require.Equal(t, http.StatusOK, w.Code)

		w, body := doJSON(t, router, http.MethodGet, "/api/products?merchant_id=1", "", nil)
		require.Equal(t, http.StatusOK, w.Code)
		products, ok := body["products"].([]interface{})
		require.True(t, ok)
		require.Len(t, products, 1)
		p := products[0].(map[string]interface{})
		assert.Equal(t, "女儿红", p["title"])
	})

	t.Run("admin token cannot create products", func(t *testing.T) {
		w, _ := doJSON(t, router, http.MethodPost, "/api/products", adminToken(t, router), gin.H{"title": "牛肉", "price": 5})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("products need merchant_id", func(t *testing.T) {
		w, _ := doJSON(t, router, http.MethodGet, "/api/products", "", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestCreateOrder(t *testing.T) {
	router, _ := newTestRouter(t)

	t.Run("missing buyer", func(t *testing.T) {
		w, _ := doJSON(t, router, http.MethodPost, "/api/orders", "", gin.H{"merchant_id": 1})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	w, body := doJSON(t, router, http.MethodPost, "/api/orders", "", gin.H{
		"merchant_id":   1,
		"telegram_user": gin.H{"id": 777, "first_name": "令狐冲"},
		"items":         []gin.H{{"product_id": 1, "quantity": 2}},
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, float64(1), body["id"])
}

func TestValidateInit(t *testing.T) {
	router, _ := newTestRouter(t)
	fields := map[string]string{"user_id": "777", "auth_date": "1748779200"}
	payload := "user_id=777\nauth_date=1748779200\nhash=" + initdata.Sign(fields, testBotToken)

	t.Run("valid payload", func(t *testing.T) {
		w, body := doJSON(t, router, http.MethodPost, "/api/validate_init", "", gin.H{"init_data": payload})
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, true, body["valid"])
		data := body["data"].(map[string]interface{})
		assert.Equal(t, "777", data["user_id"])
	})

	t.Run("tampered payload", func(t *testing.T) {
		w, body := doJSON(t, router, http.MethodPost, "/api/validate_init", "", gin.H{
			"init_data": "user_id=666\nauth_date=1748779200\nhash=" + initdata.Sign(fields, testBotToken),
		})
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, false, body["valid"])
		assert.NotEmpty(t, body["expected"])
		assert.NotEmpty(t, body["provided"])
	})

	t.Run("missing hash", func(t *testing.T) {
		w, _ := doJSON(t, router, http.MethodPost, "/api/validate_init", "", gin.H{"init_data": "user_id=777"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestTokenTampering(t *testing.T) {
	router, _ := newTestRouter(t)
	token := adminToken(t, router)

	w, _ := doJSON(t, router, http.MethodGet, "/admin/merchants", token+"x", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = doJSON(t, router, http.MethodGet, "/admin/merchants", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
