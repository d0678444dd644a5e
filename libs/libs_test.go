package libs

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"cart-shop/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fileHeader(t *testing.T, name string, content []byte) *multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("avatar", name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))
	return req.MultipartForm.File["avatar"][0]
}

func TestLocalStorage_Save(t *testing.T) {
	dir := t.TempDir()
	storage := &LocalStorage{Dir: dir, SubDir: "avatars", URLPrefix: "/uploads"}

	url, err := storage.Save(context.Background(), fileHeader(t, "Me.PNG", []byte("png-bytes")))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "/uploads/avatars/"))
	assert.True(t, strings.HasSuffix(url, ".png"))

	saved, err := os.ReadFile(filepath.Join(dir, "avatars", filepath.Base(url)))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(saved))
}

func TestNewMailer_RequiresCredentials(t *testing.T) {
	_, err := NewMailer("", 587, "user", "pass", "from@example.com")
	assert.Error(t, err)

	m, err := NewMailer("smtp.example.com", 0, "user", "pass", "from@example.com")
	require.NoError(t, err)
	assert.Equal(t, 587, m.dialer.Port)
}

func TestOrderBody(t *testing.T) {
	order := &models.Order{
		Number:    42,
		State:     "SP",
		ShippedAt: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		Items: []models.OrderItem{
			{ProductName: "Mouse", Quantity: 2, UnitCost: decimal.RequireFromString("99.99"), Subtotal: decimal.RequireFromString("199.98")},
		},
	}

	body := orderBody(order)
	assert.Contains(t, body, "#42")
	assert.Contains(t, body, "2026-03-01")
	assert.Contains(t, body, "<td>Mouse</td>")
	assert.Contains(t, body, "Total: 199.98")
}
