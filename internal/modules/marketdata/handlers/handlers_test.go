package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/axiome/analytics/internal/modules/marketdata"
	testingpkg "github.com/axiome/analytics/internal/testing"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRouter(t *testing.T) http.Handler {
	t.Helper()
	db, cleanup := testingpkg.NewTestDB(t, "market")
	t.Cleanup(cleanup)

	store := marketdata.NewHistoryStore(db.Conn(), zerolog.Nop())
	router := chi.NewRouter()
	NewHandler(store, zerolog.Nop()).RegisterRoutes(router)
	return router
}

func do(h http.Handler, method, path, contentType, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestPrices_JSONRoundTrip(t *testing.T) {
	router := setupRouter(t)

	w := do(router, http.MethodPut, "/market-data/aapl/prices", "application/json", `[
		{"date": "2024-01-03", "close": 101},
		{"date": "2024-01-02", "close": 100, "adjusted_close": 99.5},
		{"date": "2024-01-04", "close": -1}
	]`)
	require.Equal(t, http.StatusOK, w.Code)

	var upload UploadResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &upload))
	assert.Equal(t, "AAPL", upload.Symbol)
	assert.Equal(t, 2, upload.Saved)
	require.Len(t, upload.Rejected, 1)
	assert.Equal(t, "non_positive_close", upload.Rejected[0].Reason)

	w = do(router, http.MethodGet, "/market-data/AAPL/prices?start=2024-01-01", "", "")
	require.Equal(t, http.StatusOK, w.Code)

	var got struct {
		Symbol string        `json:"symbol"`
		Prices []PriceOutput `json:"prices"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got.Prices, 2)
	assert.Equal(t, "2024-01-02", got.Prices[0].Date)
	require.NotNil(t, got.Prices[0].AdjustedClose)
	assert.Equal(t, 99.5, *got.Prices[0].AdjustedClose)

	w = do(router, http.MethodGet, "/market-data/symbols", "", "")
	assert.JSONEq(t, `{"symbols":["AAPL"]}`, w.Body.String())
}

func TestPrices_CSVUpload(t *testing.T) {
	router := setupRouter(t)

	w := do(router, http.MethodPut, "/market-data/MSFT/prices", "text/csv; charset=utf-8",
		"Date,Close,Symbol\n2024-01-02,300,MSFT\n2024-01-03,301,AAPL\n")
	require.Equal(t, http.StatusOK, w.Code)

	var upload UploadResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &upload))
	assert.Equal(t, 1, upload.Saved)
	require.Len(t, upload.Rejected, 1)
	assert.Equal(t, "symbol_mismatch", upload.Rejected[0].Reason)
}

func TestPrices_BadRequests(t *testing.T) {
	router := setupRouter(t)

	tests := []struct {
		name        string
		method      string
		path        string
		contentType string
		body        string
	}{
		{"bad json", http.MethodPut, "/market-data/A/prices", "application/json", `{`},
		{"bad date", http.MethodPut, "/market-data/A/prices", "application/json", `[{"date": "2024/01/02", "close": 1}]`},
		{"bad csv header", http.MethodPut, "/market-data/A/prices", "text/csv", "when,price\n"},
		{"bad query", http.MethodGet, "/market-data/A/prices?end=tomorrow", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(router, tt.method, tt.path, tt.contentType, tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestMetadata(t *testing.T) {
	router := setupRouter(t)

	w := do(router, http.MethodGet, "/market-data/SAP/metadata", "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(router, http.MethodPut, "/market-data/sap/metadata", "application/json",
		`{"symbol": "ignored", "name": "SAP SE", "sector": "Software", "country": "DE", "currency": "EUR"}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = do(router, http.MethodGet, "/market-data/SAP/metadata", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"symbol":"SAP","name":"SAP SE","asset_class":"Equity","sector":"Software","country":"DE","currency":"EUR"}`, w.Body.String())
}
