package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"tradepost/internal/config"
	"tradepost/internal/database"
	"tradepost/internal/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupIntegrationApp(t *testing.T) *fiber.App {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(database.PersistentModels()...))

	media, err := storage.NewLocalMediaStore(t.TempDir())
	require.NoError(t, err)

	cfg := &config.Config{
		JWTSecret: "integration_test_secret",
		Port:      "0",
		Env:       "test",
		MediaDir:  media.Dir(),
	}

	s, err := NewServerWithDeps(cfg, db, nil, media)
	require.NoError(t, err)

	app := fiber.New()
	s.SetupRoutes(app)
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body any) (*http.Response, map[string]any) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var payload map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&payload)
	_ = resp.Body.Close()
	return resp, payload
}

func registerUser(t *testing.T, app *fiber.App, username string) string {
	t.Helper()
	resp, payload := doJSON(t, app, http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": username,
		"password": "password123",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	token, _ := payload["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestMarketplaceLifecycle(t *testing.T) {
	app := setupIntegrationApp(t)

	alice := registerUser(t, app, "alice")
	bob := registerUser(t, app, "bob")

	t.Run("duplicate registration conflicts", func(t *testing.T) {
		resp, payload := doJSON(t, app, http.MethodPost, "/api/auth/register", "", map[string]string{
			"username": "alice",
			"password": "password123",
		})
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
		assert.Equal(t, "CONFLICT", payload["code"])
	})

	// Alice lists a desk with only the required fields.
	var goodsID uint
	t.Run("create goods applies defaults", func(t *testing.T) {
		resp, payload := doJSON(t, app, http.MethodPost, "/api/goods", alice, map[string]any{
			"name":  "Desk",
			"price": 50,
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		goods := payload["goods"].(map[string]any)
		goodsID = uint(goods["id"].(float64))
		assert.Equal(t, "other", goods["category"])
		assert.Equal(t, "good", goods["condition"])
		assert.NotEmpty(t, goods["contact"])
		assert.Equal(t, false, goods["is_sold"])
	})

	t.Run("anonymous browse sees the listing", func(t *testing.T) {
		resp, payload := doJSON(t, app, http.MethodGet, "/api/goods", "", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, float64(1), payload["count"])
	})

	t.Run("likes are unique per user", func(t *testing.T) {
		resp, _ := doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/goods/%d/like", goodsID), bob, nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		resp, payload := doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/goods/%d/like", goodsID), bob, nil)
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
		assert.Equal(t, "CONFLICT", payload["code"])
	})

	t.Run("favorite shows up in user-goods", func(t *testing.T) {
		resp, _ := doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/goods/%d/favorite", goodsID), bob, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		resp, payload := doJSON(t, app, http.MethodGet, "/api/user-goods/favorites", bob, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, float64(1), payload["count"])
	})

	t.Run("comment and counts", func(t *testing.T) {
		resp, _ := doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/goods/%d/comments", goodsID), bob, map[string]any{
			"content": "Is the height adjustable?",
			"rating":  5,
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		resp, payload := doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/goods/%d/comments", goodsID), "", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, float64(1), payload["count"])

		resp, payload = doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/goods/%d", goodsID), bob, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		goods := payload["goods"].(map[string]any)
		assert.Equal(t, float64(1), goods["comments_count"])
		assert.Equal(t, float64(1), goods["likes_count"])
		assert.Equal(t, true, goods["is_liked"])
		assert.Equal(t, true, goods["is_favorited"])
	})

	t.Run("message goes to the seller", func(t *testing.T) {
		resp, _ := doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/goods/%d/messages", goodsID), bob, map[string]any{
			"content": "Would you take 40?",
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		resp, payload := doJSON(t, app, http.MethodGet, "/api/user/messages", alice, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.Equal(t, float64(1), payload["count"])

		messages := payload["messages"].([]any)
		msg := messages[0].(map[string]any)
		msgID := uint(msg["id"].(float64))
		assert.Equal(t, false, msg["is_read"])

		// Bob did not receive it, so he cannot mark it read.
		resp, _ = doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/messages/%d/read", msgID), bob, nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)

		resp, payload = doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/messages/%d/read", msgID), alice, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		read := payload["message"].(map[string]any)
		assert.Equal(t, true, read["is_read"])
	})

	t.Run("seller cannot buy own listing", func(t *testing.T) {
		resp, payload := doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/goods/%d/purchase", goodsID), alice, nil)
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
		assert.Equal(t, "CONFLICT", payload["code"])
	})

	t.Run("purchase sells exactly once", func(t *testing.T) {
		resp, payload := doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/goods/%d/purchase", goodsID), bob, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		goods := payload["goods"].(map[string]any)
		assert.Equal(t, true, goods["is_sold"])
		assert.NotNil(t, goods["sold_at"])

		resp, payload = doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/goods/%d/purchase", goodsID), bob, nil)
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
		assert.Equal(t, "CONFLICT", payload["code"])
	})

	t.Run("sold listing leaves the browse feed", func(t *testing.T) {
		resp, payload := doJSON(t, app, http.MethodGet, "/api/goods", "", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, float64(0), payload["count"])

		resp, payload = doJSON(t, app, http.MethodGet, "/api/user-goods/my-purchases", bob, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, float64(1), payload["count"])
	})

	t.Run("only the seller can delete, and only after sale", func(t *testing.T) {
		resp, _ := doJSON(t, app, http.MethodDelete, fmt.Sprintf("/api/goods/%d", goodsID), bob, nil)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)

		resp, _ = doJSON(t, app, http.MethodDelete, fmt.Sprintf("/api/goods/%d", goodsID), alice, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		resp, _ = doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/goods/%d", goodsID), bob, nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestUpdateGoodsAuthorization(t *testing.T) {
	app := setupIntegrationApp(t)

	alice := registerUser(t, app, "carol")
	bob := registerUser(t, app, "dave")

	resp, payload := doJSON(t, app, http.MethodPost, "/api/goods", alice, map[string]any{
		"name":     "Road bike",
		"price":    120,
		"category": "sports",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	goodsID := uint(payload["goods"].(map[string]any)["id"].(float64))

	t.Run("non-seller cannot update", func(t *testing.T) {
		resp, _ := doJSON(t, app, http.MethodPut, fmt.Sprintf("/api/goods/%d", goodsID), bob, map[string]any{
			"price": 1,
		})
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("partial update leaves other fields alone", func(t *testing.T) {
		resp, payload := doJSON(t, app, http.MethodPut, fmt.Sprintf("/api/goods/%d", goodsID), alice, map[string]any{
			"price": 100,
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		goods := payload["goods"].(map[string]any)
		assert.Equal(t, float64(100), goods["price"])
		assert.Equal(t, "Road bike", goods["name"])
		assert.Equal(t, "sports", goods["category"])
	})

	t.Run("negative price rejected", func(t *testing.T) {
		resp, payload := doJSON(t, app, http.MethodPut, fmt.Sprintf("/api/goods/%d", goodsID), alice, map[string]any{
			"price": -5,
		})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "VALIDATION_ERROR", payload["code"])
	})

	t.Run("unauthenticated write rejected", func(t *testing.T) {
		resp, _ := doJSON(t, app, http.MethodPut, fmt.Sprintf("/api/goods/%d", goodsID), "", map[string]any{
			"price": 10,
		})
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

func TestSellerEditDoesNotRevertSale(t *testing.T) {
	app := setupIntegrationApp(t)

	eve := registerUser(t, app, "eve")
	frank := registerUser(t, app, "frank")

	resp, payload := doJSON(t, app, http.MethodPost, "/api/goods", eve, map[string]any{
		"name":  "Bookshelf",
		"price": 30,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	goodsID := uint(payload["goods"].(map[string]any)["id"].(float64))

	resp, _ = doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/goods/%d/purchase", goodsID), frank, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Eve saves an edit she started before the sale went through. The sale
	// must survive the write.
	resp, payload = doJSON(t, app, http.MethodPut, fmt.Sprintf("/api/goods/%d", goodsID), eve, map[string]any{
		"price": 25,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	goods := payload["goods"].(map[string]any)
	assert.Equal(t, float64(25), goods["price"])
	assert.Equal(t, true, goods["is_sold"], "edit must not revert the sale")
	assert.NotNil(t, goods["sold_at"])

	resp, payload = doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/goods/%d/purchase", goodsID), frank, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode, "a listing sells at most once")
	assert.Equal(t, "CONFLICT", payload["code"])
}

func TestUploadImage(t *testing.T) {
	app := setupIntegrationApp(t)
	token := registerUser(t, app, "heidi")

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("image", "desk.jpg")
	require.NoError(t, err)
	_, err = fw.Write([]byte("fake jpeg bytes"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var payload map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	imageURL, _ := payload["image_url"].(string)
	assert.True(t, strings.HasPrefix(imageURL, storage.MediaBasePath), "image_url %q", imageURL)
	assert.True(t, strings.HasSuffix(imageURL, ".jpg"))
}
