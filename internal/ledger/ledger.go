// Package ledger keeps committed inventory tags in an Excel workbook, one
// row per tag, in the order they were committed.
package ledger

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/ironsheep/inventory-tag-scanner/internal/tag"
)

// ErrNoLedger is returned when the workbook has not been created yet.
var ErrNoLedger = errors.New("ledger: no workbook yet")

// DownloadName is the file name offered when the workbook is downloaded.
const DownloadName = "inventory_count.xlsx"

// Header is the first row of the ledger sheet.
var Header = []string{"Book No", "Tag No", "Part No", "Qty", "Location", "Scan ID", "Recorded At"}

// Entry is one committed tag.
type Entry struct {
	Row        int        `json:"row"` // 1-based sheet row
	Record     tag.Record `json:"record"`
	ScanID     string     `json:"scan_id"`
	RecordedAt time.Time  `json:"recorded_at"`
}

// Ledger appends records to a single workbook file. Calls on one Ledger are
// serialized; the file is rewritten through a temporary file and rename so
// a crash mid-save never leaves a truncated workbook.
type Ledger struct {
	path   string
	sheet  string
	logger *slog.Logger
	now    func() time.Time

	mu sync.Mutex
}

// New returns a ledger backed by the workbook at path. The file is created
// on the first Append.
func New(path, sheet string, logger *slog.Logger) *Ledger {
	if logger == nil {
		logger = slog.Default()
	}
	if sheet == "" {
		sheet = "Inventory"
	}
	return &Ledger{path: path, sheet: sheet, logger: logger, now: time.Now}
}

// Path returns the workbook location.
func (l *Ledger) Path() string { return l.path }

// Sheet returns the sheet rows are written to.
func (l *Ledger) Sheet() string { return l.sheet }

// Append writes rec after the last row of the sheet and returns the stored
// entry. An empty scanID gets a fresh UUID. The record is stored as given:
// empty fields stay empty for someone to fill in later.
func (l *Ledger) Append(rec tag.Record, scanID string) (Entry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if scanID == "" {
		scanID = uuid.NewString()
	}
	rec = rec.Trimmed()

	f, created, err := l.open()
	if err != nil {
		return Entry{}, err
	}
	defer f.Close()

	if err := l.ensureSheet(f); err != nil {
		return Entry{}, err
	}
	rows, err := f.GetRows(l.sheet)
	if err != nil {
		return Entry{}, fmt.Errorf("failed to read ledger rows: %w", err)
	}
	if len(rows) == 0 {
		if err := writeRow(f, l.sheet, 1, Header); err != nil {
			return Entry{}, err
		}
		rows = [][]string{Header}
	}

	entry := Entry{
		Row:        len(rows) + 1,
		Record:     rec,
		ScanID:     scanID,
		RecordedAt: l.now().UTC().Truncate(time.Second),
	}
	values := append(rec.Values(), entry.ScanID, entry.RecordedAt.Format(time.RFC3339))
	if err := writeRow(f, l.sheet, entry.Row, values); err != nil {
		return Entry{}, err
	}

	if err := l.save(f); err != nil {
		return Entry{}, err
	}

	l.logger.Info("ledger.append",
		"path", l.path,
		"row", entry.Row,
		"scan_id", entry.ScanID,
		"created", created,
	)
	return entry, nil
}

// Count returns the number of committed tags. A missing workbook counts as
// zero.
func (l *Ledger) Count() (int, error) {
	entries, err := l.List()
	if errors.Is(err, ErrNoLedger) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return len(entries), nil
}

// List returns every committed tag in sheet order. Rows written by other
// tools with fewer columns are padded with empty values.
func (l *Ledger) List() ([]Entry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := excelize.OpenFile(l.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNoLedger
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger: %w", err)
	}
	defer f.Close()

	if idx, _ := f.GetSheetIndex(l.sheet); idx == -1 {
		return nil, nil
	}
	rows, err := f.GetRows(l.sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read ledger rows: %w", err)
	}

	var out []Entry
	for i, row := range rows {
		if i == 0 || isBlank(row) {
			continue
		}
		out = append(out, parseRow(i+1, row))
	}
	return out, nil
}

// Bytes returns the workbook file contents for download.
func (l *Ledger) Bytes() ([]byte, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	data, err := os.ReadFile(l.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNoLedger
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read ledger: %w", err)
	}
	return data, nil
}

// Export copies the workbook to dst.
func (l *Ledger) Export(dst string) error {
	data, err := l.Bytes()
	if err != nil {
		return err
	}
	if err := os.WriteFile(dst, data, 0o644); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	return nil
}

func (l *Ledger) open() (*excelize.File, bool, error) {
	f, err := excelize.OpenFile(l.path)
	if err == nil {
		return f, false, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, false, fmt.Errorf("failed to open ledger: %w", err)
	}
	return excelize.NewFile(), true, nil
}

// ensureSheet creates the ledger sheet if missing. In a new workbook the
// default sheet is renamed so the file holds a single sheet.
func (l *Ledger) ensureSheet(f *excelize.File) error {
	if idx, _ := f.GetSheetIndex(l.sheet); idx != -1 {
		return nil
	}
	sheets := f.GetSheetList()
	if len(sheets) == 1 && sheets[0] == "Sheet1" {
		if rows, _ := f.GetRows("Sheet1"); len(rows) == 0 {
			if err := f.SetSheetName("Sheet1", l.sheet); err != nil {
				return fmt.Errorf("failed to name ledger sheet: %w", err)
			}
			l.formatSheet(f)
			return nil
		}
	}
	idx, err := f.NewSheet(l.sheet)
	if err != nil {
		return fmt.Errorf("failed to create ledger sheet: %w", err)
	}
	f.SetActiveSheet(idx)
	l.formatSheet(f)
	return nil
}

func (l *Ledger) formatSheet(f *excelize.File) {
	_ = f.SetColWidth(l.sheet, "A", "B", 12) // book, tag
	_ = f.SetColWidth(l.sheet, "C", "C", 20) // part
	_ = f.SetColWidth(l.sheet, "D", "D", 8)  // qty
	_ = f.SetColWidth(l.sheet, "E", "E", 16) // location
	_ = f.SetColWidth(l.sheet, "F", "F", 38) // scan id
	_ = f.SetColWidth(l.sheet, "G", "G", 22) // recorded at
}

func (l *Ledger) save(f *excelize.File) error {
	dir := filepath.Dir(l.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create ledger directory: %w", err)
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		return fmt.Errorf("xlsx write: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".ledger-*.xlsx")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := buf.WriteTo(tmp); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write ledger: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write ledger: %w", err)
	}
	if err := os.Rename(tmpPath, l.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace ledger: %w", err)
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	cells := make([]any, len(values))
	for i, v := range values {
		cells[i] = v
	}
	if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
		return fmt.Errorf("failed to write ledger row %d: %w", row, err)
	}
	return nil
}

func parseRow(n int, row []string) Entry {
	col := func(i int) string {
		if i < len(row) {
			return row[i]
		}
		return ""
	}
	e := Entry{Row: n, ScanID: col(5)}
	for i, field := range tag.Fields {
		e.Record.Set(field, col(i))
	}
	if ts, err := time.Parse(time.RFC3339, col(6)); err == nil {
		e.RecordedAt = ts
	}
	return e
}

func isBlank(row []string) bool {
	for _, c := range row {
		if c != "" {
			return false
		}
	}
	return true
}
