package services

import (
	"fmt"
	"io"
	"strings"

	"github.com/pocketbase/pocketbase"
	"github.com/spf13/cast"
	"github.com/xuri/excelize/v2"
)

// PriceRow is one parsed price entry from an uploaded spreadsheet.
type PriceRow struct {
	Code      string  `json:"sap"`
	UnitPrice float64 `json:"unit_price"`
}

// PriceImportIssue flags a spreadsheet row that could not be parsed and
// needs manual attention.
type PriceImportIssue struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// PriceImportResult is the outcome of parsing a price sheet.
type PriceImportResult struct {
	Rows   []PriceRow         `json:"rows"`
	Issues []PriceImportIssue `json:"issues"`
}

// ParsePriceSheet extracts {code, unit price} pairs from an uploaded Excel
// workbook. It looks for a sheet whose name contains both "custo" and
// "materiais", locates the SAP/code and price columns from the header row,
// and collects every parsable data row. Rows with a code but an unreadable
// price are flagged as issues rather than dropped silently.
func ParsePriceSheet(r io.Reader) (PriceImportResult, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return PriceImportResult{}, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheetName := ""
	for _, name := range f.GetSheetList() {
		lower := strings.ToLower(name)
		if strings.Contains(lower, "custo") && strings.Contains(lower, "materiais") {
			sheetName = name
			break
		}
	}
	if sheetName == "" {
		return PriceImportResult{}, fmt.Errorf(`sheet "Custo Materiais" not found`)
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return PriceImportResult{}, fmt.Errorf("failed to read sheet %q: %w", sheetName, err)
	}
	if len(rows) < 2 {
		return PriceImportResult{}, fmt.Errorf("sheet %q has no data rows", sheetName)
	}

	codeCol, priceCol := detectPriceColumns(rows[0])
	if codeCol == -1 || priceCol == -1 {
		return PriceImportResult{}, fmt.Errorf("SAP or price column not found in header row")
	}

	var result PriceImportResult
	for i, row := range rows[1:] {
		rowNum := i + 2 // 1-based, after header

		code := ""
		if codeCol < len(row) {
			code = strings.TrimSpace(row[codeCol])
		}
		if code == "" {
			continue
		}

		raw := ""
		if priceCol < len(row) {
			raw = strings.TrimSpace(row[priceCol])
		}
		price, err := parsePrice(raw)
		if err != nil {
			result.Issues = append(result.Issues, PriceImportIssue{
				Row:     rowNum,
				Message: fmt.Sprintf("unreadable price %q for code %s", raw, code),
			})
			continue
		}

		result.Rows = append(result.Rows, PriceRow{Code: code, UnitPrice: price})
	}

	return result, nil
}

// detectPriceColumns finds the code and price column indexes from header
// names. Both Portuguese header variants seen in the field are accepted.
func detectPriceColumns(header []string) (codeCol, priceCol int) {
	codeCol, priceCol = -1, -1
	for i, h := range header {
		lower := strings.ToLower(strings.TrimSpace(h))
		if codeCol == -1 && (strings.Contains(lower, "sap") || strings.Contains(lower, "código") || strings.Contains(lower, "codigo")) {
			codeCol = i
		}
		if priceCol == -1 && (strings.Contains(lower, "preço") || strings.Contains(lower, "preco") || strings.Contains(lower, "valor")) {
			priceCol = i
		}
	}
	return codeCol, priceCol
}

// parsePrice accepts both decimal-comma and decimal-dot notation.
func parsePrice(raw string) (float64, error) {
	if raw == "" {
		return 0, fmt.Errorf("empty price")
	}
	normalized := strings.ReplaceAll(strings.ReplaceAll(raw, "R$", ""), " ", "")
	if strings.Contains(normalized, ",") {
		normalized = strings.ReplaceAll(normalized, ".", "")
		normalized = strings.ReplaceAll(normalized, ",", ".")
	}
	price, err := cast.ToFloat64E(normalized)
	if err != nil {
		return 0, err
	}
	if price < 0 {
		return 0, fmt.Errorf("negative price")
	}
	return price, nil
}

// PriceImportSummary reports what a commit of parsed rows did.
type PriceImportSummary struct {
	Updated int      `json:"updated"`
	Created int      `json:"created"`
	Total   int      `json:"total"`
	Unknown []string `json:"unknown,omitempty"`
}

// ApplyPriceImport upserts the parsed prices into the materials collection.
// Known codes get their unit price updated; unknown codes are reported but
// not created (a price alone is not a complete catalog entry).
func ApplyPriceImport(app *pocketbase.PocketBase, rows []PriceRow) (PriceImportSummary, error) {
	summary := PriceImportSummary{Total: len(rows)}

	for _, row := range rows {
		records, err := app.FindRecordsByFilter(
			"materials", "sap = {:sap}", "", 1, 0,
			map[string]any{"sap": row.Code},
		)
		if err != nil {
			return summary, fmt.Errorf("lookup material %s: %w", row.Code, err)
		}
		if len(records) == 0 {
			summary.Unknown = append(summary.Unknown, row.Code)
			continue
		}

		record := records[0]
		record.Set("unit_price", row.UnitPrice)
		if err := app.Save(record); err != nil {
			return summary, fmt.Errorf("update material %s: %w", row.Code, err)
		}
		summary.Updated++
	}

	return summary, nil
}

