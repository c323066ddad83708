package handler

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kursverwaltung/dashboard-api/internal/dto"
	"github.com/kursverwaltung/dashboard-api/internal/middleware"
	appErrors "github.com/kursverwaltung/dashboard-api/pkg/errors"
	"github.com/kursverwaltung/dashboard-api/pkg/response"
)

type dashboardService interface {
	Overview(ctx context.Context) (*dto.DashboardOverview, bool, error)
	Export(ctx context.Context, req dto.ExportRequest) ([]byte, string, string, error)
}

// DashboardHandler wires the dashboard service to HTTP endpoints.
type DashboardHandler struct {
	service       dashboardService
	exportEnabled bool
}

// NewDashboardHandler constructs the handler.
func NewDashboardHandler(service dashboardService, exportEnabled bool) *DashboardHandler {
	return &DashboardHandler{service: service, exportEnabled: exportEnabled}
}

// Overview godoc
// @Summary Aggregated admin dashboard overview
// @Tags Dashboard
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /dashboard [get]
func (h *DashboardHandler) Overview(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	start := time.Now()
	summary, cacheHit, err := h.service.Overview(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cacheHit)
	meta := middleware.ExtractMeta(c)
	if meta == nil {
		meta = map[string]interface{}{}
	}
	meta["processing_time_ms"] = time.Since(start).Milliseconds()
	response.JSON(c, http.StatusOK, summary, meta)
}

// Export godoc
// @Summary Export the dashboard overview as CSV or PDF
// @Tags Dashboard
// @Produce text/csv
// @Produce application/pdf
// @Param format query string true "Export format (csv|pdf)"
// @Success 200 {file} file
// @Router /dashboard/export [get]
func (h *DashboardHandler) Export(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	if !h.exportEnabled {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "export is disabled"))
		return
	}
	req := dto.ExportRequest{Format: strings.ToLower(strings.TrimSpace(c.Query("format")))}
	payload, contentType, filename, err := h.service.Export(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, payload)
}
