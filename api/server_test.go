package api

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"dira-price/internal/config"
)

type calculateResponse struct {
	RequestID string `json:"request_id"`
	Result    struct {
		FinalPrice     string `json:"final_price_including_vat"`
		DiscountAmount string `json:"discount_amount"`
		EffectiveArea  string `json:"effective_area"`
		DiscountType   string `json:"discount_type"`
	} `json:"result"`
	Summary []struct {
		Parameter string `json:"parameter"`
		Value     string `json:"value"`
	} `json:"summary"`
	Metadata struct {
		InputHash string `json:"input_hash"`
	} `json:"metadata"`
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	return NewServer(config.Default(), zap.NewNop())
}

func do(t *testing.T, s *Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorBody {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Error
}

func TestHealthAndVersion(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"healthy"`)

	rec = do(t, s, http.MethodGet, "/version", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"name":"dira-price"`)
}

func TestCalculate_Post(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/api/v1/calculate",
		`{"main_price_per_meter": 25000, "current_price_per_meter": 23000}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp calculateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "3163900", resp.Result.FinalPrice)
	assert.Equal(t, "500000", resp.Result.DiscountAmount)
	assert.Equal(t, "135", resp.Result.EffectiveArea)
	assert.Equal(t, "capped", resp.Result.DiscountType)
	assert.NotEmpty(t, resp.RequestID)
	assert.Len(t, resp.Metadata.InputHash, 64)

	require.Len(t, resp.Summary, 11)
	assert.Equal(t, "Final Price", resp.Summary[9].Parameter)
	assert.Equal(t, "₪3,163,900", resp.Summary[9].Value)
}

func TestCalculate_PostFullInput(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/api/v1/calculate", `{
		"main_price_per_meter": 20000,
		"current_price_per_meter": "25000",
		"apartment_size": 100,
		"balcony_size": 0,
		"storage_size": 0,
		"parking_spaces": 0,
		"area_type": "demand",
		"vat_rate": 0
	}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp calculateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "main_price_limit", resp.Result.DiscountType)
	assert.Equal(t, "2000000", resp.Result.FinalPrice)
	assert.Equal(t, "500000", resp.Result.DiscountAmount)
}

func TestCalculate_SameInputSameHash(t *testing.T) {
	s := newTestServer(t)
	body := `{"main_price_per_meter": 25000, "current_price_per_meter": 23000, "area_type": "periphery"}`

	var first, second calculateResponse
	require.NoError(t, json.Unmarshal(do(t, s, http.MethodPost, "/api/v1/calculate", body).Body.Bytes(), &first))
	require.NoError(t, json.Unmarshal(do(t, s, http.MethodPost, "/api/v1/calculate", body).Body.Bytes(), &second))

	assert.Equal(t, "3063900", first.Result.FinalPrice)
	assert.Equal(t, first.Result, second.Result)
	assert.Equal(t, first.Metadata.InputHash, second.Metadata.InputHash)
	assert.NotEqual(t, first.RequestID, second.RequestID)
}

func TestCalculate_PostErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"invalid json", `{"main_price_per_meter": `},
		{"unknown field", `{"main_price_per_meter": 1, "current_price_per_meter": 1, "floor": 3}`},
		{"missing current price", `{"main_price_per_meter": 25000}`},
		{"zero price", `{"main_price_per_meter": 0, "current_price_per_meter": 23000}`},
		{"negative apartment", `{"main_price_per_meter": 25000, "current_price_per_meter": 23000, "apartment_size": -1}`},
		{"negative vat", `{"main_price_per_meter": 25000, "current_price_per_meter": 23000, "vat_rate": -0.1}`},
		{"unknown area", `{"main_price_per_meter": 25000, "current_price_per_meter": 23000, "area_type": "coastal"}`},
	}

	s := newTestServer(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, http.MethodPost, "/api/v1/calculate", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)

			body := decodeError(t, rec)
			assert.Equal(t, "INVALID_INPUT", body.Code)
			assert.NotEmpty(t, body.Message)
			assert.NotEmpty(t, body.RequestID)
		})
	}
}

func TestCalculate_RejectsExtremeDecimals(t *testing.T) {
	tests := []struct {
		name    string
		method  string
		target  string
		body    string
		message string
	}{
		{"tiny apartment", http.MethodPost, "/api/v1/calculate",
			`{"main_price_per_meter":"25000","current_price_per_meter":"23000","apartment_size":"1e-20000000"}`,
			"apartment_size must have at most 10 decimal places"},
		{"huge price", http.MethodPost, "/api/v1/calculate",
			`{"main_price_per_meter":"1e20000000","current_price_per_meter":"23000"}`,
			"main_price_per_meter is out of range"},
		{"zero with huge exponent", http.MethodPost, "/api/v1/calculate",
			`{"main_price_per_meter":"25000","current_price_per_meter":"23000","balcony_size":"0e20000000"}`,
			"balcony_size is out of range"},
		{"tiny vat", http.MethodPost, "/api/v1/calculate",
			`{"main_price_per_meter":"25000","current_price_per_meter":"23000","vat_rate":"1e-20000000"}`,
			"vat_rate must have at most 10 decimal places"},
		{"query storage", http.MethodGet,
			"/api/v1/calculate?main_price_per_meter=25000&current_price_per_meter=23000&storage_size=1e-20000000", "",
			"storage_size must have at most 10 decimal places"},
		{"export", http.MethodGet, "/export.csv?apartment_size=1e-20000000", "",
			"Apartment size must have at most 10 decimal places"},
	}

	s := newTestServer(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start := time.Now()
			rec := do(t, s, tt.method, tt.target, tt.body)
			assert.Less(t, time.Since(start), 2*time.Second)

			require.Equal(t, http.StatusBadRequest, rec.Code)
			body := decodeError(t, rec)
			assert.Equal(t, "INVALID_INPUT", body.Code)
			assert.Equal(t, tt.message, body.Message)
		})
	}
}

func TestCalculate_Query(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/api/v1/calculate?main_price_per_meter=25000&current_price_per_meter=20000", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp calculateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "percent", resp.Result.DiscountType)
	assert.Equal(t, "2986875", resp.Result.FinalPrice)

	rec = do(t, s, http.MethodGet, "/api/v1/calculate?main_price_per_meter=abc&current_price_per_meter=20000", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s, http.MethodGet, "/api/v1/calculate?main_price_per_meter=25000&current_price_per_meter=20000&parking_spaces=1.5", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRequestID_Propagated(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/calculate",
		strings.NewReader(`{"main_price_per_meter": 25000, "current_price_per_meter": 23000}`))
	req.Header.Set(RequestIDHeader, "req-42")
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	assert.Equal(t, "req-42", rec.Header().Get(RequestIDHeader))
	var resp calculateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "req-42", resp.RequestID)
}

func TestRequestLogging(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	s := NewServer(config.Default(), zap.New(core))

	do(t, s, http.MethodGet, "/health", "")

	entries := logs.FilterMessage("request").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "/health", fields["path"])
	assert.Equal(t, int64(http.StatusOK), fields["status"])
	assert.NotEmpty(t, fields["request_id"])
}

func TestDashboard_Defaults(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))

	body := rec.Body.String()
	assert.Contains(t, body, "Dira Behanaha Price Calculator")
	assert.Contains(t, body, "₪3,163,900")
	assert.Contains(t, body, "135.0 m²")
	assert.Contains(t, body, "13.6% of current price")
	assert.Contains(t, body, "Capped at Maximum")
	assert.Contains(t, body, "Price Comparison")
	assert.Contains(t, body, "Area Breakdown")
	assert.Contains(t, body, "Download CSV")
	assert.Contains(t, body, "/export.xlsx?")
	assert.Contains(t, body, `<option value="demand" selected>`)
	assert.NotContains(t, body, `role="alert"`)
}

func TestDashboard_Periphery(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/?area_type=periphery", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "₪3,063,900")
	assert.Contains(t, rec.Body.String(), `<option value="periphery" selected>`)
}

func TestDashboard_AreaTypeIgnoresCase(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/?area_type=Periphery", "")
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, "₪3,063,900")
	assert.Contains(t, body, `<option value="periphery" selected>`)
	assert.NotContains(t, body, `<option value="demand" selected>`)
	assert.Contains(t, body, "area_type=periphery")
}

func TestDashboard_InvalidInputIsInline(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		message string
	}{
		{"below range", "main_price=500", "Main price per m² must be between 1000 and 100000"},
		{"above range", "parking_spaces=5", "Parking spaces must be between 0 and 4"},
		{"not a number", "apartment_size=big", "Apartment size must be a number"},
		{"fractional parking", "parking_spaces=1.5", "Parking spaces must be a whole number"},
		{"vat too high", "vat_percent=30", "VAT rate must be between 0 and 25"},
		{"unknown area", "area_type=coastal", "area type must be"},
		{"tiny parking", "parking_spaces=1e-20000000", "Parking spaces must have at most 10 decimal places"},
		{"huge apartment", "apartment_size=1e20000000", "Apartment size is out of range"},
	}

	s := newTestServer(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, http.MethodGet, "/?"+tt.query, "")
			require.Equal(t, http.StatusOK, rec.Code)

			body := rec.Body.String()
			assert.Contains(t, body, `role="alert"`)
			assert.Contains(t, body, "Error in calculation: ")
			assert.Contains(t, body, tt.message)
			assert.NotContains(t, body, "Download CSV")
		})
	}
}

func TestExportCSV(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/export.csv?main_price=25000&current_price=23000&area_type=demand", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "apartment_price_calculation.csv")

	records, err := csv.NewReader(rec.Body).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 12)
	assert.Equal(t, []string{"Parameter", "Value"}, records[0])
	assert.Equal(t, []string{"Main Price per m² (excl. VAT)", "₪25,000"}, records[1])
	assert.Equal(t, []string{"Total Discount", "₪500,000"}, records[11])
}

func TestExportXLSX(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/export.xlsx?area_type=periphery", "")
	require.Equal(t, http.StatusOK, rec.Code)

	book, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	defer book.Close()

	rows, err := book.GetRows("Summary")
	require.NoError(t, err)
	require.Len(t, rows, 12)
	assert.Equal(t, []string{"Final Price", "₪3,063,900"}, rows[10])
}

func TestExport_InvalidInput(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/export.csv?main_price=0", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_INPUT", decodeError(t, rec).Code)
}

func TestRun_GracefulShutdown(t *testing.T) {
	cfg := config.Default()
	cfg.Server.Addr = "127.0.0.1:0"
	cfg.Server.ShutdownTimeoutSeconds = 1

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- NewServer(cfg, zap.NewNop()).Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
