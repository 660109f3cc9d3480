package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gorilla/mux"
	"github.com/megalink-ti/fatura-tracker/internal/config"
	"github.com/megalink-ti/fatura-tracker/internal/models"
	"github.com/megalink-ti/fatura-tracker/internal/registry"
	"github.com/megalink-ti/fatura-tracker/internal/stats"
	"github.com/megalink-ti/fatura-tracker/internal/storage"
	"github.com/megalink-ti/fatura-tracker/internal/tracking"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type testEnv struct {
	router   *mux.Router
	db       *gorm.DB
	imageDir string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	tmp := t.TempDir()
	db, err := gorm.Open(sqlite.Open(filepath.Join(tmp, "tracker.db")), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.ImageView{}, &models.BoletoView{}))

	imageDir := filepath.Join(tmp, "images")
	require.NoError(t, os.Mkdir(imageDir, 0o755))

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	cfg := &config.Config{
		Companies: map[string]config.Company{
			"megalink": {Name: "Megalink Telecom", BaseURL: "https://api.megalinktelecom.hubsoft.com.br/pdf/fatura/"},
			"bjfibra":  {Name: "BJ Fibra", BaseURL: "https://api.bjfibra.hubsoft.com.br/pdf/fatura/"},
		},
	}

	handler := NewTrackerHandler(
		logger,
		cfg,
		registry.New(cfg.Companies),
		tracking.New(logger, db),
		stats.New(db),
		storage.NewLocalStorage(imageDir),
		db,
	)

	router := mux.NewRouter()
	RegisterRoutes(router, handler)

	return &testEnv{router: router, db: db, imageDir: imageDir}
}

func (e *testEnv) get(path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("GET", path, nil)
	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)
	return rr
}

func (e *testEnv) imageViewCount(t *testing.T) int64 {
	t.Helper()
	var n int64
	require.NoError(t, e.db.Model(&models.ImageView{}).Count(&n).Error)
	return n
}

func (e *testEnv) boletoViewCount(t *testing.T) int64 {
	t.Helper()
	var n int64
	require.NoError(t, e.db.Model(&models.BoletoView{}).Count(&n).Error)
	return n
}

func decodeJSON(t *testing.T, rr *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
	return body
}

func TestImageServed(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, os.WriteFile(filepath.Join(env.imageDir, "logo.png"), []byte("png-bytes"), 0o644))

	rr := env.get("/image/logo.png?invoiceId=FAT001")

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "image/png", rr.Header().Get("Content-Type"))
	assert.Equal(t, "png-bytes", rr.Body.String())
	assert.EqualValues(t, 1, env.imageViewCount(t))

	var view models.ImageView
	require.NoError(t, env.db.First(&view).Error)
	assert.Equal(t, "FAT001", view.InvoiceID)
}

func TestImageMissingInvoiceID(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, os.WriteFile(filepath.Join(env.imageDir, "logo.png"), []byte("png-bytes"), 0o644))

	rr := env.get("/image/logo.png")

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.EqualValues(t, 0, env.imageViewCount(t))
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
}

func TestImageNotFoundStillLogged(t *testing.T) {
	env := newTestEnv(t)

	rr := env.get("/image/doesnotexist.png?invoiceId=FAT001")

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.EqualValues(t, 1, env.imageViewCount(t))
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.Equal(t, "Imagem não encontrada", decodeJSON(t, rr)["error"])
}

func TestImageLegacyParamName(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, os.WriteFile(filepath.Join(env.imageDir, "logo.png"), []byte("png-bytes"), 0o644))

	rr := env.get("/image/logo.png?id_fatura=FAT002")

	assert.Equal(t, http.StatusOK, rr.Code)

	var view models.ImageView
	require.NoError(t, env.db.First(&view).Error)
	assert.Equal(t, "FAT002", view.InvoiceID)
}

func TestBoletoRedirect(t *testing.T) {
	env := newTestEnv(t)

	rr := env.get("/boleto?empresa=megalink&codigo=ABC")

	assert.Equal(t, http.StatusFound, rr.Code)
	assert.Equal(t, "https://api.megalinktelecom.hubsoft.com.br/pdf/fatura/ABC", rr.Header().Get("Location"))
	assert.EqualValues(t, 1, env.boletoViewCount(t))

	var view models.BoletoView
	require.NoError(t, env.db.First(&view).Error)
	assert.Equal(t, "megalink", view.Company)
	assert.Equal(t, "ABC", view.Code)
	assert.Nil(t, view.InvoiceID)
}

func TestBoletoRedirectUppercaseCompany(t *testing.T) {
	env := newTestEnv(t)

	rr := env.get("/boleto?empresa=MEGALINK&codigo=ABC")

	assert.Equal(t, http.StatusFound, rr.Code)
	assert.Equal(t, "https://api.megalinktelecom.hubsoft.com.br/pdf/fatura/ABC", rr.Header().Get("Location"))

	var view models.BoletoView
	require.NoError(t, env.db.First(&view).Error)
	assert.Equal(t, "megalink", view.Company)
}

func TestBoletoRedirectWithInvoice(t *testing.T) {
	env := newTestEnv(t)

	rr := env.get("/boleto?empresa=bjfibra&codigo=XYZ&idFatura=FAT001")

	assert.Equal(t, http.StatusFound, rr.Code)

	var view models.BoletoView
	require.NoError(t, env.db.First(&view).Error)
	require.NotNil(t, view.InvoiceID)
	assert.Equal(t, "FAT001", *view.InvoiceID)
}

func TestBoletoUnknownCompany(t *testing.T) {
	env := newTestEnv(t)

	rr := env.get("/boleto?empresa=bogus&codigo=ABC")

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.EqualValues(t, 0, env.boletoViewCount(t))

	body := decodeJSON(t, rr)
	assert.Contains(t, body, "error")
	assert.ElementsMatch(t, []interface{}{"bjfibra", "megalink"}, body["validCompanies"])
	assert.Contains(t, body, "example")
}

func TestBoletoMissingParams(t *testing.T) {
	env := newTestEnv(t)

	rr := env.get("/boleto?empresa=megalink")

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.EqualValues(t, 0, env.boletoViewCount(t))

	body := decodeJSON(t, rr)
	assert.Equal(t, []interface{}{"empresa", "codigo"}, body["requiredParams"])
	assert.Equal(t, []interface{}{"idFatura"}, body["optionalParams"])
}

func TestAPIStats(t *testing.T) {
	env := newTestEnv(t)
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		require.NoError(t, env.db.Create(&models.ImageView{InvoiceID: "FAT001", Timestamp: base}).Error)
	}
	require.NoError(t, env.db.Create(&models.ImageView{InvoiceID: "FAT002", Timestamp: base}).Error)
	require.NoError(t, env.db.Create(&models.BoletoView{Company: "megalink", Code: "C1", Timestamp: base}).Error)

	rr := env.get("/api/stats")
	require.Equal(t, http.StatusOK, rr.Code)

	body := decodeJSON(t, rr)
	images := body["images"].(map[string]interface{})
	assert.EqualValues(t, 4, images["totalViews"])

	invoiceStats := images["invoiceStats"].([]interface{})
	require.Len(t, invoiceStats, 2)
	first := invoiceStats[0].(map[string]interface{})
	assert.Equal(t, "FAT001", first["invoiceId"])
	assert.EqualValues(t, 3, first["views"])

	boletos := body["boletos"].(map[string]interface{})
	assert.EqualValues(t, 1, boletos["totalViews"])
	companyStats := boletos["companyStats"].([]interface{})
	require.Len(t, companyStats, 1)
	assert.Equal(t, "megalink", companyStats[0].(map[string]interface{})["company"])
}

func TestAPIInvoiceViews(t *testing.T) {
	env := newTestEnv(t)
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, env.db.Create(&models.ImageView{InvoiceID: "FAT001", IPAddress: "10.0.0.1", Timestamp: base}).Error)
	require.NoError(t, env.db.Create(&models.ImageView{InvoiceID: "FAT001", IPAddress: "10.0.0.2", Timestamp: base.Add(time.Minute)}).Error)
	require.NoError(t, env.db.Create(&models.ImageView{InvoiceID: "FAT002", Timestamp: base}).Error)

	rr := env.get("/api/views/FAT001")
	require.Equal(t, http.StatusOK, rr.Code)

	body := decodeJSON(t, rr)
	assert.Equal(t, "FAT001", body["invoiceId"])

	views := body["views"].([]interface{})
	require.Len(t, views, 2)

	newest := views[0].(map[string]interface{})
	assert.Equal(t, "10.0.0.2", newest["ipAddress"])
	assert.Equal(t, base.Add(time.Minute).Format(time.RFC3339), newest["timestamp"])
}

func TestAPICompanies(t *testing.T) {
	env := newTestEnv(t)

	rr := env.get("/api/empresas")
	require.Equal(t, http.StatusOK, rr.Code)

	body := decodeJSON(t, rr)
	empresas := body["empresas"].(map[string]interface{})
	require.Len(t, empresas, 2)

	megalink := empresas["megalink"].(map[string]interface{})
	assert.Equal(t, "Megalink Telecom", megalink["nome"])
	assert.Equal(t, "https://api.megalinktelecom.hubsoft.com.br/pdf/fatura/", megalink["baseUrl"])
	assert.Contains(t, body, "usage")
	assert.Contains(t, body, "example")
}

func TestAPICompanyBoletos(t *testing.T) {
	env := newTestEnv(t)
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	invoiceID := "FAT001"
	require.NoError(t, env.db.Create(&models.BoletoView{Company: "megalink", Code: "C1", InvoiceID: &invoiceID, Timestamp: base}).Error)
	require.NoError(t, env.db.Create(&models.BoletoView{Company: "megalink", Code: "C2", Timestamp: base.Add(time.Minute)}).Error)
	require.NoError(t, env.db.Create(&models.BoletoView{Company: "bjfibra", Code: "C3", Timestamp: base}).Error)

	rr := env.get("/api/boletos/megalink")
	require.Equal(t, http.StatusOK, rr.Code)

	body := decodeJSON(t, rr)
	assert.Equal(t, "megalink", body["empresa"])
	assert.EqualValues(t, 2, body["totalCount"])

	boletos := body["boletos"].([]interface{})
	require.Len(t, boletos, 2)
	newest := boletos[0].(map[string]interface{})
	assert.Equal(t, "C2", newest["code"])
	assert.Nil(t, newest["invoiceId"])
}

func TestAPICompanyBoletosUnknownCompany(t *testing.T) {
	env := newTestEnv(t)

	rr := env.get("/api/boletos/bogus")

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	body := decodeJSON(t, rr)
	assert.ElementsMatch(t, []interface{}{"bjfibra", "megalink"}, body["validCompanies"])
}

func TestDashboard(t *testing.T) {
	env := newTestEnv(t)
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, env.db.Create(&models.ImageView{InvoiceID: "FAT001", Timestamp: base}).Error)

	rr := env.get("/")

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rr.Body.String(), "FAT001")
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)

	rr := env.get("/health")

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "ok", decodeJSON(t, rr)["status"])
}

func TestHealthDegraded(t *testing.T) {
	env := newTestEnv(t)

	sqlDB, err := env.db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	rr := env.get("/health")

	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}
