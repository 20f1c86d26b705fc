// Package excel handles workbook parsing, account-ID extraction, and styled
// result exports.
package excel

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/meganfung38/SFDC-Shell-Account-Assessment/internal/errors"
)

// Brand palette used for export styling.
const (
	colorCerulean  = "0684BC"
	colorOcean     = "002855"
	colorAsh       = "C8C2B4"
	colorWhiteText = "FFFFFF"
)

const previewRows = 10

// WorkbookSummary describes an uploaded workbook: its sheets and a preview
// of the first sheet.
type WorkbookSummary struct {
	SheetNames  []string   `json:"sheet_names"`
	Headers     []string   `json:"headers"`
	PreviewData [][]string `json:"preview_data"`
	TotalRows   int        `json:"total_rows"`
}

// ParseWorkbook reads an uploaded workbook and summarizes the first sheet:
// header row, up to ten preview rows, and the total data row count.
func ParseWorkbook(r io.Reader) (*WorkbookSummary, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, errors.InvalidInput("could not open Excel file", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.InvalidInput("workbook contains no sheets", nil)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}

	summary := &WorkbookSummary{
		SheetNames:  sheets,
		Headers:     []string{},
		PreviewData: [][]string{},
	}
	if len(rows) == 0 {
		return summary, nil
	}

	for i, cell := range rows[0] {
		if cell == "" {
			cell = fmt.Sprintf("Column_%d", i+1)
		}
		summary.Headers = append(summary.Headers, cell)
	}

	for _, row := range rows[1:] {
		if len(summary.PreviewData) >= previewRows {
			break
		}
		summary.PreviewData = append(summary.PreviewData, padRow(row, len(summary.Headers)))
	}
	summary.TotalRows = len(rows) - 1

	return summary, nil
}

// Extraction is the result of pulling account IDs out of one column.
// OriginalData retains every row keyed by header so exports can merge the
// caller's own columns back in.
type Extraction struct {
	AccountIDs   []string            `json:"account_ids"`
	OriginalData []map[string]string `json:"original_data"`
	TotalRows    int                 `json:"total_rows"`
}

// ExtractAccountIDs reads one column of a sheet as identifier strings.
// Blank and null-ish cells are dropped, and numbers that spreadsheet
// tooling collapsed into scientific notation are expanded back out.
func ExtractAccountIDs(r io.Reader, sheetName, idColumn string) (*Extraction, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, errors.InvalidInput("could not open Excel file", err)
	}
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, errors.InvalidInput(fmt.Sprintf("sheet %q not found", sheetName), err)
	}
	if len(rows) == 0 {
		return nil, errors.InvalidInput(fmt.Sprintf("sheet %q is empty", sheetName), nil)
	}

	headers := rows[0]
	idIdx := -1
	for i, header := range headers {
		if header == idColumn {
			idIdx = i
			break
		}
	}
	if idIdx == -1 {
		return nil, errors.InvalidInput(
			fmt.Sprintf("column %q not found in sheet %q", idColumn, sheetName), nil)
	}

	extraction := &Extraction{
		AccountIDs:   []string{},
		OriginalData: []map[string]string{},
		TotalRows:    len(rows) - 1,
	}

	for _, row := range rows[1:] {
		padded := padRow(row, len(headers))

		record := make(map[string]string, len(headers))
		for i, header := range headers {
			record[header] = padded[i]
		}
		extraction.OriginalData = append(extraction.OriginalData, record)

		id := cleanCellID(padded[idIdx])
		if id != "" {
			extraction.AccountIDs = append(extraction.AccountIDs, id)
		}
	}

	return extraction, nil
}

// cleanCellID normalizes one spreadsheet cell into an identifier candidate.
func cleanCellID(raw string) string {
	id := strings.TrimSpace(raw)
	switch strings.ToLower(id) {
	case "", "nan", "none", "null":
		return ""
	}
	// Numeric cells can arrive as "1.23456789012345e+17".
	if strings.Contains(strings.ToLower(id), "e+") {
		if f, err := strconv.ParseFloat(id, 64); err == nil {
			id = strconv.FormatFloat(f, 'f', 0, 64)
		}
	}
	return id
}

func padRow(row []string, width int) []string {
	padded := make([]string, width)
	copy(padded, row)
	return padded
}

// Export is a rendered workbook ready to send to the caller.
type Export struct {
	Content  []byte
	Filename string
}

// BuildExport renders rows under a styled title, timestamp, and header
// band, the house format for every download this service produces.
func BuildExport(title, filenamePrefix string, headers []string, data [][]interface{}) (*Export, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Data"
	f.SetSheetName("Sheet1", sheet)

	lastCol, err := excelize.ColumnNumberToName(len(headers))
	if err != nil {
		return nil, fmt.Errorf("resolve column name: %w", err)
	}

	titleStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 16, Color: colorOcean},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("build title style: %w", err)
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: colorWhiteText},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{colorCerulean}},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    thinBorder(),
	})
	if err != nil {
		return nil, fmt.Errorf("build header style: %w", err)
	}
	cellStyle, err := f.NewStyle(&excelize.Style{Border: thinBorder()})
	if err != nil {
		return nil, fmt.Errorf("build cell style: %w", err)
	}

	f.MergeCell(sheet, "A1", lastCol+"1")
	f.SetCellValue(sheet, "A1", title)
	f.SetCellStyle(sheet, "A1", lastCol+"1", titleStyle)

	now := time.Now()
	f.MergeCell(sheet, "A2", lastCol+"2")
	f.SetCellValue(sheet, "A2", "Generated: "+now.Format("2006-01-02 15:04:05"))

	const headerRow = 4
	for i, header := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, headerRow)
		if err != nil {
			return nil, fmt.Errorf("resolve header cell: %w", err)
		}
		f.SetCellValue(sheet, cell, header)
		f.SetCellStyle(sheet, cell, cell, headerStyle)
	}

	for r, row := range data {
		for c, value := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, headerRow+1+r)
			if err != nil {
				return nil, fmt.Errorf("resolve data cell: %w", err)
			}
			f.SetCellValue(sheet, cell, value)
			f.SetCellStyle(sheet, cell, cell, cellStyle)
		}
	}

	f.SetColWidth(sheet, "A", lastCol, 20)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, errors.InternalError("failed to render workbook", err)
	}

	return &Export{
		Content:  buf.Bytes(),
		Filename: fmt.Sprintf("%s_%s.xlsx", filenamePrefix, now.Format("20060102_150405")),
	}, nil
}

func thinBorder() []excelize.Border {
	sides := []string{"left", "right", "top", "bottom"}
	borders := make([]excelize.Border, len(sides))
	for i, side := range sides {
		borders[i] = excelize.Border{Type: side, Color: colorAsh, Style: 1}
	}
	return borders
}
