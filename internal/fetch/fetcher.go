package fetch

import (
	"context"
	"time"

	billing "dominion-bridge/internal/billing/domain"
)

// DownloadResult describes one fetched export: the workbook on disk and the
// bill summary captured during the same session. The caller owns Path and
// removes it once processed.
type DownloadResult struct {
	Path      string
	FetchedAt time.Time
	Bill      billing.BillSummary
}

// Fetcher acquires the raw usage export from the utility. Implementations
// own authentication, browser automation and retries; the pipeline only
// consumes the downloaded file.
type Fetcher interface {
	FetchUsageData(ctx context.Context) (DownloadResult, error)
}
