package fetch

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	billing "dominion-bridge/internal/billing/domain"
)

// ErrNoExport is returned when the spool directory holds no workbook.
var ErrNoExport = errors.New("fetch: no export in spool")

// billSidecar is the optional file holding the bill summary captured
// alongside the export.
const billSidecar = "bill.json"

// SpoolFetcher picks up pre-downloaded usage exports from a spool
// directory. The newest workbook is claimed by moving it into a work
// directory, so a repeat run does not process the same file twice.
type SpoolFetcher struct {
	spoolDir string
	workDir  string
}

// NewSpoolFetcher constructs a SpoolFetcher.
func NewSpoolFetcher(spoolDir, workDir string) (*SpoolFetcher, error) {
	if spoolDir == "" {
		return nil, errors.New("fetch: spool dir required")
	}
	if workDir == "" {
		workDir = os.TempDir()
	}
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return nil, err
	}
	return &SpoolFetcher{spoolDir: spoolDir, workDir: workDir}, nil
}

// FetchUsageData claims the newest workbook from the spool.
func (f *SpoolFetcher) FetchUsageData(ctx context.Context) (DownloadResult, error) {
	if err := ctx.Err(); err != nil {
		return DownloadResult{}, err
	}

	path, err := f.newestWorkbook()
	if err != nil {
		return DownloadResult{}, err
	}

	claimed := filepath.Join(f.workDir, filepath.Base(path))
	if err := moveFile(path, claimed); err != nil {
		return DownloadResult{}, err
	}

	result := DownloadResult{Path: claimed, FetchedAt: time.Now()}
	if bill, ok := f.readBill(); ok {
		result.Bill = bill
	}
	return result, nil
}

func (f *SpoolFetcher) newestWorkbook() (string, error) {
	entries, err := os.ReadDir(f.spoolDir)
	if err != nil {
		return "", err
	}

	var newest string
	var newestMod time.Time
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(strings.ToLower(entry.Name()), ".xlsx") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if newest == "" || info.ModTime().After(newestMod) {
			newest = filepath.Join(f.spoolDir, entry.Name())
			newestMod = info.ModTime()
		}
	}
	if newest == "" {
		return "", ErrNoExport
	}
	return newest, nil
}

func (f *SpoolFetcher) readBill() (billing.BillSummary, bool) {
	data, err := os.ReadFile(filepath.Join(f.spoolDir, billSidecar))
	if err != nil {
		return billing.BillSummary{}, false
	}
	var bill billing.BillSummary
	if err := json.Unmarshal(data, &bill); err != nil {
		return billing.BillSummary{}, false
	}
	return bill, true
}

// moveFile renames, falling back to copy+remove across filesystems.
func moveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	return os.Remove(src)
}
