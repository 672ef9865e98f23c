package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/biomax/dashboard/internal/domain/models"
	"github.com/biomax/dashboard/internal/export"
	"github.com/biomax/dashboard/internal/service/reporting"
)

// Reporter renders dashboards.
type Reporter interface {
	Stock(ctx context.Context, q reporting.Query) (reporting.Dashboard, error)
	Billing(ctx context.Context, q reporting.Query) (reporting.Dashboard, error)
	Refresh(ctx context.Context) ([]reporting.SourceStatus, error)
}

type dashboardRoute struct {
	kind     string
	title    string
	path     string
	api      string
	filename string
	render   func(ctx context.Context, q reporting.Query) (reporting.Dashboard, error)
}

// DashboardHandler serves the dashboard pages, their JSON and exports.
type DashboardHandler struct {
	svc    Reporter
	loc    *time.Location
	now    func() time.Time
	logger *zap.Logger
	stock  dashboardRoute
	bill   dashboardRoute
}

// NewDashboardHandler constructs the HTTP handler adapter.
func NewDashboardHandler(svc Reporter, loc *time.Location, logger *zap.Logger) *DashboardHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.Local
	}
	return &DashboardHandler{
		svc:    svc,
		loc:    loc,
		now:    time.Now,
		logger: logger,
		stock: dashboardRoute{
			kind: reporting.DashboardStock, title: "Estoque", path: "/", api: "/api/stock",
			filename: "lancamentos", render: svc.Stock,
		},
		bill: dashboardRoute{
			kind: reporting.DashboardBilling, title: "Faturamento", path: "/billing", api: "/api/billing",
			filename: "saidas", render: svc.Billing,
		},
	}
}

func (h *DashboardHandler) StockPage(c *gin.Context)   { h.page(c, h.stock) }
func (h *DashboardHandler) BillingPage(c *gin.Context) { h.page(c, h.bill) }
func (h *DashboardHandler) StockJSON(c *gin.Context)   { h.json(c, h.stock) }
func (h *DashboardHandler) BillingJSON(c *gin.Context) { h.json(c, h.bill) }

// StockExport serves the movements table as "xlsx" or "pdf".
func (h *DashboardHandler) StockExport(format string) gin.HandlerFunc {
	return func(c *gin.Context) { h.export(c, h.stock, format) }
}

// BillingExport serves the invoices table as "xlsx" or "pdf".
func (h *DashboardHandler) BillingExport(format string) gin.HandlerFunc {
	return func(c *gin.Context) { h.export(c, h.bill, format) }
}

// Refresh refetches both snapshots.
func (h *DashboardHandler) Refresh(c *gin.Context) {
	statuses, err := h.svc.Refresh(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"sources": statuses, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"sources": statuses})
}

func (h *DashboardHandler) render(c *gin.Context, route dashboardRoute) (reporting.Dashboard, bool) {
	q := reporting.ParseQuery(c.Request.URL.Query(), h.loc)
	d, err := route.render(c.Request.Context(), q)
	if err != nil {
		// a missing column is a wiring defect, not a data problem
		h.logger.Error("dashboard pipeline failed", zap.String("dashboard", route.kind), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return reporting.Dashboard{}, false
	}
	return d, true
}

func (h *DashboardHandler) page(c *gin.Context, route dashboardRoute) {
	d, ok := h.render(c, route)
	if !ok {
		return
	}
	page, err := newDashboardPage(route.title, c.GetString(ContextUserKey), route.path, route.api, c.Request.URL.RawQuery, d, h.loc)
	if err != nil {
		h.logger.Error("dashboard page failed", zap.Error(err))
		c.String(http.StatusInternalServerError, "internal error")
		return
	}
	c.HTML(http.StatusOK, "dashboard.html", page)
}

func (h *DashboardHandler) json(c *gin.Context, route dashboardRoute) {
	d, ok := h.render(c, route)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *DashboardHandler) export(c *gin.Context, route dashboardRoute, format string) {
	d, ok := h.render(c, route)
	if !ok {
		return
	}
	if d.State == models.StateUnavailable {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": d.Message})
		return
	}

	var (
		body        []byte
		err         error
		contentType string
	)
	now := h.now().In(h.loc)
	switch format {
	case "xlsx":
		body, err = export.XLSX(d.Table)
		contentType = export.ContentTypeXLSX
	case "pdf":
		body, err = export.PDF(d.Table, now)
		contentType = export.ContentTypePDF
	default:
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown export format"})
		return
	}
	if err != nil {
		h.logger.Error("export failed", zap.String("dashboard", route.kind), zap.String("format", format), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "export failed"})
		return
	}

	filename := fmt.Sprintf("%s-%s.%s", route.filename, now.Format("20060102"), format)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, body)
}
