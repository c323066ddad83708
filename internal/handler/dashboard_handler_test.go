package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kursverwaltung/dashboard-api/internal/dto"
	appErrors "github.com/kursverwaltung/dashboard-api/pkg/errors"
)

type responseEnvelope struct {
	Data  map[string]interface{} `json:"data"`
	Error *appErrors.Error       `json:"error"`
	Meta  map[string]interface{} `json:"meta"`
}

type fakeDashboardSrv struct {
	overview    *dto.DashboardOverview
	overviewErr error
	overviewHit bool
	exportBody  []byte
	exportType  string
	exportName  string
	exportErr   error
	lastFormat  string
}

func (f *fakeDashboardSrv) Overview(context.Context) (*dto.DashboardOverview, bool, error) {
	return f.overview, f.overviewHit, f.overviewErr
}

func (f *fakeDashboardSrv) Export(_ context.Context, req dto.ExportRequest) ([]byte, string, string, error) {
	f.lastFormat = req.Format
	return f.exportBody, f.exportType, f.exportName, f.exportErr
}

func TestDashboardHandlerOverviewSuccess(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewDashboardHandler(&fakeDashboardSrv{
		overview:    &dto.DashboardOverview{State: dto.DashboardStateLoaded},
		overviewHit: true,
	}, true)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/dashboard", nil)

	handler.Overview(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	var envelope responseEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, "loaded", envelope.Data["state"])
	assert.Equal(t, true, envelope.Meta["cache_hit"])
}

func TestDashboardHandlerOverviewServiceError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewDashboardHandler(&fakeDashboardSrv{
		overviewErr: appErrors.Clone(appErrors.ErrInternal, "cache backend down"),
	}, true)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/dashboard", nil)

	handler.Overview(c)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestDashboardHandlerOverviewNilService(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewDashboardHandler(nil, true)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/dashboard", nil)

	handler.Overview(c)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestDashboardHandlerExportSuccess(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := &fakeDashboardSrv{
		exportBody: []byte("ID,Participant\n"),
		exportType: "text/csv",
		exportName: "dashboard-2026-08-26.csv",
	}
	handler := NewDashboardHandler(srv, true)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/dashboard/export?format=CSV", nil)

	handler.Export(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "csv", srv.lastFormat)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "dashboard-2026-08-26.csv")
}

func TestDashboardHandlerExportDisabled(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewDashboardHandler(&fakeDashboardSrv{}, false)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/dashboard/export?format=csv", nil)

	handler.Export(c)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDashboardHandlerExportValidationError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewDashboardHandler(&fakeDashboardSrv{
		exportErr: appErrors.Clone(appErrors.ErrValidation, "invalid export format"),
	}, true)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/dashboard/export?format=xlsx", nil)

	handler.Export(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
