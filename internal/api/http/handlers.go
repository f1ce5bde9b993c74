package apihttp

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	coordinator "dominion-bridge/internal/coordinator/application"
	"dominion-bridge/internal/observability/metrics"
	"dominion-bridge/internal/report"
)

// SnapshotSource exposes the latest pipeline snapshot.
type SnapshotSource interface {
	Snapshot() *coordinator.Snapshot
}

// Runner triggers an on-demand pipeline run.
type Runner interface {
	RunOnce(ctx context.Context) (*coordinator.Snapshot, error)
}

// UsageHandler serves interval readings from the latest snapshot.
type UsageHandler struct {
	source SnapshotSource
}

// NewUsageHandler constructs a UsageHandler.
func NewUsageHandler(source SnapshotSource) *UsageHandler {
	return &UsageHandler{source: source}
}

// ServeHTTP handles GET /api/v1/usage.
func (h *UsageHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	snap, ok := currentSnapshot(w, h.source)
	if !ok {
		return
	}
	writeJSON(w, map[string]any{
		"account":    snap.Account,
		"fetched_at": snap.FetchedAt,
		"readings":   snap.Readings,
	})
}

// HourlyHandler serves hourly aggregates from the latest snapshot.
type HourlyHandler struct {
	source SnapshotSource
}

// NewHourlyHandler constructs a HourlyHandler.
func NewHourlyHandler(source SnapshotSource) *HourlyHandler {
	return &HourlyHandler{source: source}
}

// ServeHTTP handles GET /api/v1/usage/hourly.
func (h *HourlyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	snap, ok := currentSnapshot(w, h.source)
	if !ok {
		return
	}
	writeJSON(w, map[string]any{
		"account":    snap.Account,
		"fetched_at": snap.FetchedAt,
		"hourly":     snap.Hourly,
	})
}

// BillHandler serves the bill summary from the latest snapshot.
type BillHandler struct {
	source SnapshotSource
}

// NewBillHandler constructs a BillHandler.
func NewBillHandler(source SnapshotSource) *BillHandler {
	return &BillHandler{source: source}
}

// ServeHTTP handles GET /api/v1/bill.
func (h *BillHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	snap, ok := currentSnapshot(w, h.source)
	if !ok {
		return
	}
	writeJSON(w, snap.Bill)
}

// RunHandler triggers an on-demand pipeline run.
type RunHandler struct {
	runner Runner
}

// NewRunHandler constructs a RunHandler.
func NewRunHandler(runner Runner) *RunHandler {
	return &RunHandler{runner: runner}
}

// ServeHTTP handles POST /api/v1/run.
func (h *RunHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if h == nil || h.runner == nil {
		http.Error(w, "server not ready", http.StatusServiceUnavailable)
		return
	}
	snap, err := h.runner.RunOnce(r.Context())
	if err != nil {
		http.Error(w, "pipeline run failed", http.StatusBadGateway)
		return
	}
	writeJSON(w, map[string]any{
		"completed_at":  snap.CompletedAt,
		"readings":      len(snap.Readings),
		"hours":         len(snap.Hourly),
		"merged_points": snap.MergedPoints,
	})
}

// ReportsHandler serves daily, weekly and billing period reports.
type ReportsHandler struct {
	source SnapshotSource
}

// NewReportsHandler constructs a ReportsHandler.
func NewReportsHandler(source SnapshotSource) *ReportsHandler {
	return &ReportsHandler{source: source}
}

// ServeHTTP handles GET /api/v1/reports/{daily,weekly,billing[.xlsx|.pdf]}.
func (h *ReportsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	snap, ok := currentSnapshot(w, h.source)
	if !ok {
		return
	}

	switch r.URL.Path {
	case "/api/v1/reports/daily":
		stats, ok := report.NewDailyStats(snap.Readings)
		if !ok {
			http.Error(w, "no usage data", http.StatusNotFound)
			return
		}
		writeJSON(w, stats)
	case "/api/v1/reports/weekly":
		analysis, ok := report.NewWeeklyAnalysis(snap.Readings)
		if !ok {
			http.Error(w, "no usage data", http.StatusNotFound)
			return
		}
		writeJSON(w, analysis)
	case "/api/v1/reports/billing":
		stats, ok := report.NewBillingPeriodStats(snap.Readings, snap.Bill)
		if !ok {
			http.Error(w, "billing period unknown", http.StatusNotFound)
			return
		}
		writeJSON(w, stats)
	case "/api/v1/reports/billing.xlsx":
		h.export(w, snap, "xlsx")
	case "/api/v1/reports/billing.pdf":
		h.export(w, snap, "pdf")
	default:
		http.NotFound(w, r)
	}
}

func (h *ReportsHandler) export(w http.ResponseWriter, snap *coordinator.Snapshot, format string) {
	stats, ok := report.NewBillingPeriodStats(snap.Readings, snap.Bill)
	if !ok {
		http.Error(w, "billing period unknown", http.StatusNotFound)
		return
	}

	start := time.Now()
	var (
		body        []byte
		contentType string
		filename    string
		err         error
	)
	switch format {
	case "xlsx":
		body, err = report.BuildBillingPeriodXLSX(stats, snap.Bill)
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
		filename = "billing-period.xlsx"
	case "pdf":
		body, err = report.BuildBillingPeriodPDF(stats, snap.Bill)
		contentType = "application/pdf"
		filename = "billing-period.pdf"
	}
	if err != nil {
		metrics.ObserveReportExport(format, metrics.ResultError, time.Since(start))
		http.Error(w, "export failed", http.StatusInternalServerError)
		return
	}
	metrics.ObserveReportExport(format, metrics.ResultSuccess, time.Since(start))

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	_, _ = w.Write(body)
}

// HealthzHandler reports process liveness.
type HealthzHandler struct{}

// ServeHTTP handles GET /healthz.
func (HealthzHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

func currentSnapshot(w http.ResponseWriter, source SnapshotSource) (*coordinator.Snapshot, bool) {
	if source == nil {
		http.Error(w, "server not ready", http.StatusServiceUnavailable)
		return nil, false
	}
	snap := source.Snapshot()
	if snap == nil {
		http.Error(w, "no data yet", http.StatusServiceUnavailable)
		return nil, false
	}
	return snap, true
}

func writeJSON(w http.ResponseWriter, value any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(value)
}
