package service

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/pkordes/mileage-tracker/internal/domain"
	"github.com/pkordes/mileage-tracker/internal/repo"
)

// tripExportHeader is the fixed 13-column header of every month sheet in a
// trip export workbook.
var tripExportHeader = []any{
	"ID", "Date", "Time", "Sport", "Venue", "Home Team", "Away Team",
	"Odometer Start", "Odometer End", "Miles", "Level of Play", "Amount Paid", "Status",
}

// workExportHeader is the fixed 10-column header of every month sheet in a
// work-day export workbook.
var workExportHeader = []any{
	"Date", "Start Odo", "End Odo", "Total Miles", "Start Location",
	"Segments", "Trip Explanation", "Created At", "Updated At", "Status",
}

// ExportService serializes completed trips and work days into xlsx workbooks.
type ExportService struct {
	trips    repo.TripRepo
	workDays repo.WorkDayRepo
	dir      string // where trip export workbooks are written
}

// NewExportService constructs an ExportService writing trip workbooks into dir.
func NewExportService(trips repo.TripRepo, workDays repo.WorkDayRepo, dir string) *ExportService {
	return &ExportService{trips: trips, workDays: workDays, dir: dir}
}

// ExportTrips writes one workbook per calendar year of completed trips and
// returns the paths written, oldest year first.
//
// With year == nil the current (non-archived) completed trips are exported.
// With a year, trips archived under it are selected, plus, as a fallback for
// rows archived before the archived_year column existed, completed trips
// whose date string starts with that year.
//
// Each workbook holds a Summary sheet (year, total miles, total revenue) and
// one sheet per month name encountered, each starting with the fixed header.
// Returns (nil, nil) when no completed trips match.
func (s *ExportService) ExportTrips(ctx context.Context, year *int) ([]string, error) {
	var entries []domain.Trip
	var err error
	if year == nil {
		entries, err = s.trips.ListCompletedCurrent(ctx)
	} else {
		entries, err = s.trips.ListCompletedForYear(ctx, *year)
	}
	if err != nil {
		return nil, fmt.Errorf("service.ExportService.ExportTrips: %w", err)
	}
	if len(entries) == 0 {
		return nil, nil
	}

	// Group by the calendar year parsed from each trip's date. Entries come
	// back date-ordered, so first-seen order is ascending by year.
	byYear := make(map[int][]domain.Trip)
	var years []int
	for _, e := range entries {
		y := e.Year()
		if _, seen := byYear[y]; !seen {
			years = append(years, y)
		}
		byYear[y] = append(byYear[y], e)
	}

	var paths []string
	for _, y := range years {
		path := filepath.Join(s.dir, fmt.Sprintf("mileage_data_%d.xlsx", y))
		if err := writeTripWorkbook(path, y, byYear[y]); err != nil {
			return nil, fmt.Errorf("service.ExportService.ExportTrips: %w", err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// writeTripWorkbook builds and saves a single year's workbook.
func writeTripWorkbook(path string, year int, entries []domain.Trip) error {
	f := excelize.NewFile()
	defer f.Close() //nolint:errcheck

	if err := f.SetSheetName("Sheet1", "Summary"); err != nil {
		return err
	}

	var totalMiles, totalRevenue float64
	for _, e := range entries {
		if e.Miles != nil {
			totalMiles += *e.Miles
		}
		if e.AmountPaid != nil {
			totalRevenue += *e.AmountPaid
		}
	}

	summary := [][]any{
		{"Year", year},
		{"Total Miles", totalMiles},
		{"Total Revenue", totalRevenue},
	}
	for i, row := range summary {
		if err := setRow(f, "Summary", i+1, row); err != nil {
			return err
		}
	}

	// One sheet per month name, created in first-encounter order with the
	// header row, then one row per trip.
	nextRow := make(map[string]int)
	for _, e := range entries {
		sheet := e.MonthName()
		if sheet == "" {
			continue // unparseable date; nothing sensible to file it under
		}
		if _, ok := nextRow[sheet]; !ok {
			if _, err := f.NewSheet(sheet); err != nil {
				return err
			}
			if err := setRow(f, sheet, 1, tripExportHeader); err != nil {
				return err
			}
			nextRow[sheet] = 2
		}

		row := []any{
			e.ID.String(), e.Date, e.Time, e.Sport, e.Venue, e.HomeTeam, e.AwayTeam,
			e.OdometerStart, optFloat(e.OdometerEnd), optFloat(e.Miles),
			optString(e.LevelOfPlay), optFloat(e.AmountPaid), e.Status,
		}
		if err := setRow(f, sheet, nextRow[sheet], row); err != nil {
			return err
		}
		nextRow[sheet]++
	}

	return f.SaveAs(path)
}

// ExportWorkDays builds a single workbook of all work days, one sheet per
// YYYY-MM month, and returns it with a timestamped attachment filename.
// Nothing is written to disk; the caller streams the workbook to the client.
func (s *ExportService) ExportWorkDays(ctx context.Context) (string, *excelize.File, error) {
	days, err := s.workDays.ListAll(ctx)
	if err != nil {
		return "", nil, fmt.Errorf("service.ExportService.ExportWorkDays: %w", err)
	}

	f := excelize.NewFile()

	// Days come back ascending, so months appear in chronological order.
	nextRow := make(map[string]int)
	widths := make(map[string][]float64)
	for _, d := range days {
		sheet := d.Day.Format("2006-01")
		if _, ok := nextRow[sheet]; !ok {
			if _, err := f.NewSheet(sheet); err != nil {
				return "", nil, fmt.Errorf("service.ExportService.ExportWorkDays: %w", err)
			}
			if err := setRow(f, sheet, 1, workExportHeader); err != nil {
				return "", nil, fmt.Errorf("service.ExportService.ExportWorkDays: %w", err)
			}
			nextRow[sheet] = 2
			widths[sheet] = rowWidths(nil, workExportHeader)
		}

		row := []any{
			d.Day.Format("2006-01-02"),
			optInt(d.StartOdo),
			optInt(d.EndOdo),
			d.ComputeTotalMiles(),
			optString(d.StartLocation),
			d.SegmentPath(),
			optString(d.TripExplanation),
			d.CreatedAt.Format("2006-01-02 15:04:05"),
			d.UpdatedAt.Format("2006-01-02 15:04:05"),
			d.Status,
		}
		if err := setRow(f, sheet, nextRow[sheet], row); err != nil {
			return "", nil, fmt.Errorf("service.ExportService.ExportWorkDays: %w", err)
		}
		nextRow[sheet]++
		widths[sheet] = rowWidths(widths[sheet], row)
	}

	// Auto-size columns to the widest rendered cell, plus a little padding.
	for sheet, cols := range widths {
		for i, w := range cols {
			name, err := excelize.ColumnNumberToName(i + 1)
			if err != nil {
				return "", nil, fmt.Errorf("service.ExportService.ExportWorkDays: %w", err)
			}
			if err := f.SetColWidth(sheet, name, name, w+2); err != nil {
				return "", nil, fmt.Errorf("service.ExportService.ExportWorkDays: %w", err)
			}
		}
	}

	// The default sheet is only useful when there was no data at all.
	if len(nextRow) > 0 {
		if err := f.DeleteSheet("Sheet1"); err != nil {
			return "", nil, fmt.Errorf("service.ExportService.ExportWorkDays: %w", err)
		}
	}

	filename := fmt.Sprintf("work_mileage_%s.xlsx", time.Now().Format("20060102_150405"))
	return filename, f, nil
}

// setRow writes values as a horizontal row starting at column A of rowNum.
func setRow(f *excelize.File, sheet string, rowNum int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

// rowWidths folds the rendered length of each cell into the running maxima.
func rowWidths(current []float64, row []any) []float64 {
	for len(current) < len(row) {
		current = append(current, 0)
	}
	for i, v := range row {
		var n int
		if v != nil {
			n = len(fmt.Sprint(v))
		}
		if w := float64(n); w > current[i] {
			current[i] = w
		}
	}
	return current
}

func optFloat(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}

func optInt(p *int) any {
	if p == nil {
		return nil
	}
	return *p
}

func optString(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}
