package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/username/tradeperf/src/processors"
	"github.com/username/tradeperf/src/services"
	"golang.org/x/time/rate"
)

const tradesCSV = `Settle Date,Instrument,Trans Code,Quantity,Price,Amount,Description
1/4/2024,XYZ,Buy,10,$100.00,"($1,000.00)",XYZ Corp
1/11/2024,XYZ,Sell,10,$120.00,"$1,200.00",XYZ Corp
1/11/2024,PLTR,BTO,1,$2.50,($250.00),PLTR 01/19/24 C 25
1/16/2024,PLTR,STO,1,$4.00,$400.00,PLTR 01/19/24 C 25
`

func newTestRouter(t *testing.T, limiter *rate.Limiter) http.Handler {
	t.Helper()
	svc := services.NewUploadService(
		processors.NewTransactionProcessor(),
		processors.NewReconciler(nil, processors.AggregatePropagate),
		processors.NewCashMovementProcessor(),
		cache.New(time.Minute, time.Minute),
		services.UploadOptions{Currency: "USD"},
	)
	h := NewUploadHandler(svc, UploadHandlerOptions{MaxUploadSizeBytes: 1 << 20, AllowedExtensions: []string{"csv"}})
	return NewRouter(h, RouterOptions{Limiter: limiter, AllowedOrigins: []string{"http://localhost:3000"}})
}

func multipartBody(t *testing.T, field, filename, contentType, content string) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if field != "" {
		hdr := make(textproto.MIMEHeader)
		hdr.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+filename+`"`)
		hdr.Set("Content-Type", contentType)
		part, err := mw.CreatePart(hdr)
		require.NoError(t, err)
		_, err = part.Write([]byte(content))
		require.NoError(t, err)
	} else {
		require.NoError(t, mw.WriteField("note", "nothing here"))
	}
	require.NoError(t, mw.Close())
	return &body, mw.FormDataContentType()
}

func doUpload(t *testing.T, router http.Handler, path, filename, content string) *httptest.ResponseRecorder {
	t.Helper()
	body, ct := multipartBody(t, "file", filename, "text/csv", content)
	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestIndexPage(t *testing.T) {
	router := newTestRouter(t, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Upload your Robinhood Trade Report")
	assert.Contains(t, rec.Body.String(), "1.0 MiB")
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestUploadPageRendersReport(t *testing.T) {
	rec := doUpload(t, newTestRouter(t, nil), "/", "trades.csv", tradesCSV)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	page := rec.Body.String()
	assert.Contains(t, page, "File trades.csv uploaded successfully!")
	assert.Contains(t, page, "Portfolio Performance Summary")
	assert.Contains(t, page, "$201.50")
	assert.Contains(t, page, "Trade Data:")
	assert.Contains(t, page, "<table>")
}

func TestUploadStoresSafeFilenameWithoutEscaping(t *testing.T) {
	router := newTestRouter(t, nil)
	rec := doUpload(t, router, "/api/upload", "my a&b.csv", tradesCSV)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var result struct {
		ID       string `json:"id"`
		Filename string `json:"filename"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, "my_ab.csv", result.Filename)

	page := httptest.NewRecorder()
	router.ServeHTTP(page, httptest.NewRequest(http.MethodGet, "/reports/"+result.ID, nil))
	require.Equal(t, http.StatusOK, page.Code)
	assert.Contains(t, page.Body.String(), "File my_ab.csv uploaded successfully!")
	assert.NotContains(t, page.Body.String(), "ampb")
}

func TestAPIUploadAndFetchReport(t *testing.T) {
	router := newTestRouter(t, nil)
	rec := doUpload(t, router, "/api/upload", "trades.csv", tradesCSV)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var result struct {
		ID     string `json:"id"`
		Result struct {
			Performance []struct {
				Key             string `json:"key"`
				TotalProfitLoss string `json:"total_profit_loss"`
			} `json:"performance"`
			Unresolved []string `json:"unresolved"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	require.Len(t, result.Result.Performance, 2)
	assert.Equal(t, "XYZ", result.Result.Performance[0].Key)
	assert.Equal(t, "PLTR 01/19/24 C 25", result.Result.Performance[1].Key)
	assert.Empty(t, result.Result.Unresolved)

	get := httptest.NewRecorder()
	router.ServeHTTP(get, httptest.NewRequest(http.MethodGet, "/api/reports/"+result.ID, nil))
	require.Equal(t, http.StatusOK, get.Code)
	etag := get.Header().Get("ETag")
	require.NotEmpty(t, etag)

	req := httptest.NewRequest(http.MethodGet, "/api/reports/"+result.ID, nil)
	req.Header.Set("If-None-Match", etag)
	notModified := httptest.NewRecorder()
	router.ServeHTTP(notModified, req)
	assert.Equal(t, http.StatusNotModified, notModified.Code)

	page := httptest.NewRecorder()
	router.ServeHTTP(page, httptest.NewRequest(http.MethodGet, "/reports/"+result.ID, nil))
	assert.Equal(t, http.StatusOK, page.Code)
	assert.Contains(t, page.Body.String(), "Portfolio Performance Summary")
}

func TestReportLookupErrors(t *testing.T) {
	router := newTestRouter(t, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/reports/not-a-uuid", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/reports/6f1c1c4e-4f1f-4d6e-9a57-1e2b3c4d5e6f", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Report not found.")
}

func TestUploadValidation(t *testing.T) {
	router := newTestRouter(t, nil)

	tests := []struct {
		name     string
		path     string
		field    string
		filename string
		ctype    string
		content  string
		status   int
		message  string
	}{
		{"no file part", "/", "", "", "", "", http.StatusBadRequest, msgNoFilePart},
		{"wrong extension", "/", "file", "trades.xlsx", "text/csv", tradesCSV, http.StatusBadRequest, msgInvalidFormat},
		{"binary content", "/api/upload", "file", "trades.csv", "text/csv", "\x00\x01\x02", http.StatusBadRequest, msgInvalidFormat},
		{"disallowed content type", "/api/upload", "file", "trades.csv", "image/png", tradesCSV, http.StatusBadRequest, msgInvalidFormat},
		{"missing columns", "/", "file", "trades.csv", "text/csv", "Instrument,Trans Code\nXYZ,Buy\n", http.StatusBadRequest, msgMissingColumns},
		{"missing columns json", "/api/upload", "file", "trades.csv", "text/csv", "Instrument,Trans Code\nXYZ,Buy\n", http.StatusBadRequest, msgMissingColumns},
		{"blank csv", "/api/upload", "file", "trades.csv", "text/csv", "\n\n\n", http.StatusBadRequest, msgParseError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, ct := multipartBody(t, tt.field, tt.filename, tt.ctype, tt.content)
			req := httptest.NewRequest(http.MethodPost, tt.path, body)
			req.Header.Set("Content-Type", ct)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.message)
			if strings.HasPrefix(tt.path, "/api") {
				assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			}
		})
	}
}

func TestUploadTooLarge(t *testing.T) {
	router := newTestRouter(t, nil)
	big := tradesCSV + strings.Repeat("1/16/2024,PLTR,STO,1,$4.00,$400.00,PLTR 01/19/24 C 25\n", 30000)
	rec := doUpload(t, router, "/api/upload", "trades.csv", big)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestRateLimit(t *testing.T) {
	router := newTestRouter(t, rate.NewLimiter(rate.Every(time.Hour), 1))

	first := httptest.NewRecorder()
	router.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, first.Code)

	second := httptest.NewRecorder()
	router.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
}

func TestCORSPreflight(t *testing.T) {
	router := newTestRouter(t, nil)
	req := httptest.NewRequest(http.MethodOptions, "/api/upload", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
}
