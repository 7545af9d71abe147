package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warefront/catalog_api/internal/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestWriteErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"missing sku", utils.ErrSKURequired, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"missing stock", utils.ErrStockRequired, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"missing query", utils.ErrQueryRequired, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"unknown product", utils.ErrProductNotFound, http.StatusNotFound, "PRODUCT_NOT_FOUND"},
		{"store failure", assert.AnError, http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	h := NewCatalogHandler(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			h.writeError(c, tt.err, "fallback message")

			assert.Equal(t, tt.wantStatus, w.Code)

			var resp utils.Response
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
		})
	}
}

func TestFilterProductsRejectsBadBody(t *testing.T) {
	h := NewCatalogHandler(nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/v1/catalog/products/filter",
		strings.NewReader(`{"filters": not json`))
	c.Request.Header.Set("Content-Type", "application/json")

	h.FilterProducts(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateStockRejectsBadBody(t *testing.T) {
	h := NewCatalogHandler(nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "sku", Value: "B15453"}}
	c.Request = httptest.NewRequest(http.MethodPut, "/v1/catalog/products/B15453/stock",
		strings.NewReader(`{"stock": "many"}`))
	c.Request.Header.Set("Content-Type", "application/json")

	h.UpdateStock(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestIntQuery(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/?limit=25&bad=abc", nil)

	assert.Equal(t, 25, intQuery(c, "limit", 10))
	assert.Equal(t, 10, intQuery(c, "bad", 10))
	assert.Equal(t, 10, intQuery(c, "absent", 10))
}
