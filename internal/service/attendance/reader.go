package attendance

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/validator"
	"github.com/xuri/excelize/v2"
)

const (
	codeHeader = "no."
	timeHeader = "date/time"
)

// Layouts tried in order for text timestamps. Numeric day/month layouts are
// day-first; month-first exports carry an AM/PM marker.
var punchLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006/01/02 15:04:05",
	"2006/01/02 15:04",
	"02/01/2006 15:04:05",
	"02/01/2006 15:04",
	"2/1/2006 15:04:05",
	"2/1/2006 15:04",
	"02-01-2006 15:04:05",
	"02-01-2006 15:04",
	"1/2/2006 3:04:05 PM",
	"1/2/2006 3:04 PM",
	"01/02/2006 03:04:05 PM",
	"01/02/2006 03:04 PM",
}

// Punch is one biometric event, truncated to the minute.
type Punch struct {
	Row  int
	Code string
	At   time.Time
}

type ParsedUpload struct {
	Punches     []Punch
	RowsRead    int
	RowsSkipped int
}

// ReadPunches parses an export by extension. Rows with a missing code or an
// unparseable timestamp are skipped with a warning.
func ReadPunches(r io.Reader, ext string, loc *time.Location) (ParsedUpload, error) {
	var (
		rows [][]string
		err  error
	)
	switch ext {
	case ".xlsx", ".xlsm":
		rows, err = readWorkbook(r)
	case ".csv":
		rows, err = readCSV(r)
	default:
		return ParsedUpload{}, attendance.ErrUnsupportedFileType
	}
	if err != nil {
		return ParsedUpload{}, err
	}

	headerRow, codeIdx, timeIdx := findHeader(rows)
	if headerRow < 0 {
		return ParsedUpload{}, attendance.ErrMissingColumns
	}

	var out ParsedUpload
	for i := headerRow + 1; i < len(rows); i++ {
		row := rows[i]
		if isBlank(row) {
			continue
		}
		out.RowsRead++
		rowNumber := i + 1

		code := normalizeCode(cellValue(row, codeIdx))
		if code == "" || !validator.IsValidEmployeeCode(code) {
			slog.Warn("Skipping attendance row", "row", rowNumber, "reason", "missing or invalid employee code")
			out.RowsSkipped++
			continue
		}

		at, err := parsePunchTime(cellValue(row, timeIdx), loc)
		if err != nil {
			slog.Warn("Skipping attendance row", "row", rowNumber, "reason", err.Error())
			out.RowsSkipped++
			continue
		}

		out.Punches = append(out.Punches, Punch{Row: rowNumber, Code: code, At: at})
	}

	if len(out.Punches) == 0 && out.RowsRead == 0 {
		return ParsedUpload{}, attendance.ErrEmptyUpload
	}

	return out, nil
}

func readWorkbook(r io.Reader) ([][]string, error) {
	file, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer func() { _ = file.Close() }()

	sheetName := file.GetSheetName(0)
	if sheetName == "" {
		return nil, attendance.ErrEmptyUpload
	}

	// Raw values keep date cells as serial numbers instead of locale text.
	rows, err := file.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read worksheet %q: %w", sheetName, err)
	}
	if len(rows) == 0 {
		return nil, attendance.ErrEmptyUpload
	}
	return rows, nil
}

func readCSV(r io.Reader) ([][]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var rows [][]string
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return nil, attendance.ErrEmptyUpload
	}
	return rows, nil
}

// findHeader returns the index of the first row naming both columns.
func findHeader(rows [][]string) (row, codeIdx, timeIdx int) {
	for i, r := range rows {
		codeIdx, timeIdx = -1, -1
		for j, cell := range r {
			switch normalizeHeader(cell) {
			case codeHeader:
				if codeIdx < 0 {
					codeIdx = j
				}
			case timeHeader:
				if timeIdx < 0 {
					timeIdx = j
				}
			}
		}
		if codeIdx >= 0 && timeIdx >= 0 {
			return i, codeIdx, timeIdx
		}
	}
	return -1, -1, -1
}

func normalizeHeader(header string) string {
	return strings.ToLower(strings.Join(strings.Fields(header), ""))
}

func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// normalizeCode turns spreadsheet numbers such as "12.0" into "12".
func normalizeCode(raw string) string {
	raw = strings.TrimSpace(raw)
	if f, err := strconv.ParseFloat(raw, 64); err == nil && f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return strconv.FormatInt(int64(f), 10)
	}
	return raw
}

func parsePunchTime(value string, loc *time.Location) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("missing timestamp")
	}

	// Excel serial date-time
	if serial, err := strconv.ParseFloat(value, 64); err == nil {
		if serial < 1 || serial > 2958465 {
			return time.Time{}, fmt.Errorf("timestamp %q out of range", value)
		}
		t, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			return time.Time{}, fmt.Errorf("timestamp %q: %w", value, err)
		}
		// Serials carry wall-clock time with no zone.
		t = t.Round(time.Second)
		return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), 0, 0, loc), nil
	}

	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.In(loc).Truncate(time.Minute), nil
	}

	for _, layout := range punchLayouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t.Truncate(time.Minute), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp %q", value)
}
