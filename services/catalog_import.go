package services

import (
	"encoding/csv"
	"fmt"
	"io"
	"mime/multipart"
	"strings"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"github.com/xuri/excelize/v2"
)

// ValidationError represents a single field-level error on one row.
type ValidationError struct {
	Row     int    `json:"row"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// CatalogImportResult is returned after parsing and validating an uploaded
// materials catalog file.
type CatalogImportResult struct {
	TotalRows int               `json:"total_rows"`
	ValidRows int               `json:"valid_rows"`
	ErrorRows int               `json:"error_rows"`
	Errors    []ValidationError `json:"errors"`
	Rows      []CatalogRow      `json:"-"`
}

// CatalogRow is one validated material entry from an uploaded file.
type CatalogRow struct {
	Sap         string
	Description string
	Unit        string
	UnitPrice   float64
}

// parseCSV reads a CSV file and returns headers + data rows.
func parseCSV(file io.Reader) ([]string, [][]string, error) {
	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true
	reader.LazyQuotes = true

	allRows, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	if len(allRows) < 2 {
		return nil, nil, fmt.Errorf("file must contain a header row and at least one data row")
	}

	headers := allRows[0]
	dataRows := allRows[1:]
	return headers, dataRows, nil
}

// parseExcel reads an xlsx file and returns headers + data rows from the first sheet.
func parseExcel(file multipart.File) ([]string, [][]string, error) {
	f, err := excelize.OpenReader(file)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read sheet: %w", err)
	}
	if len(rows) < 2 {
		return nil, nil, fmt.Errorf("file must contain a header row and at least one data row")
	}

	headers := rows[0]
	dataRows := rows[1:]
	return headers, dataRows, nil
}

// catalogColumns maps uploaded headers to catalog fields. Recognized
// headers (case-insensitive): sap/código, descrição, unidade, preço/valor.
func catalogColumns(headers []string) (sap, desc, unit, price int) {
	sap, desc, unit, price = -1, -1, -1, -1
	for i, h := range headers {
		lower := strings.ToLower(strings.TrimSpace(h))
		switch {
		case sap == -1 && (strings.Contains(lower, "sap") || strings.Contains(lower, "código") || strings.Contains(lower, "codigo")):
			sap = i
		case desc == -1 && (strings.Contains(lower, "descrição") || strings.Contains(lower, "descricao")):
			desc = i
		case unit == -1 && (strings.Contains(lower, "unidade") || lower == "un" || strings.Contains(lower, "unid")):
			unit = i
		case price == -1 && (strings.Contains(lower, "preço") || strings.Contains(lower, "preco") || strings.Contains(lower, "valor")):
			price = i
		}
	}
	return sap, desc, unit, price
}

// ValidateCatalogFile parses and validates an uploaded materials file
// (.csv or .xlsx). Every row needs a code and a description; a missing or
// unreadable price is an error on that row, not a parse failure.
func ValidateCatalogFile(file multipart.File, fileName string) (*CatalogImportResult, error) {
	var headers []string
	var dataRows [][]string
	var err error

	lowerName := strings.ToLower(fileName)
	if strings.HasSuffix(lowerName, ".csv") {
		headers, dataRows, err = parseCSV(file)
	} else if strings.HasSuffix(lowerName, ".xlsx") {
		headers, dataRows, err = parseExcel(file)
	} else {
		return nil, fmt.Errorf("unsupported file format: must be .csv or .xlsx")
	}
	if err != nil {
		return nil, err
	}

	sapCol, descCol, unitCol, priceCol := catalogColumns(headers)
	if sapCol == -1 || descCol == -1 {
		return nil, fmt.Errorf("SAP and description columns are required")
	}

	result := &CatalogImportResult{TotalRows: len(dataRows)}

	cell := func(row []string, idx int) string {
		if idx >= 0 && idx < len(row) {
			return strings.TrimSpace(row[idx])
		}
		return ""
	}

	for rowIdx, row := range dataRows {
		rowNum := rowIdx + 2 // 1-indexed, +1 for header row
		var rowErrors []ValidationError

		sap := cell(row, sapCol)
		desc := cell(row, descCol)
		if sap == "" {
			rowErrors = append(rowErrors, ValidationError{Row: rowNum, Field: "SAP", Message: "SAP code is required"})
		}
		if desc == "" {
			rowErrors = append(rowErrors, ValidationError{Row: rowNum, Field: "Descrição", Message: "description is required"})
		}

		var unitPrice float64
		if raw := cell(row, priceCol); raw != "" {
			unitPrice, err = parsePrice(raw)
			if err != nil {
				rowErrors = append(rowErrors, ValidationError{
					Row:     rowNum,
					Field:   "Preço",
					Message: fmt.Sprintf("unreadable price %q", raw),
				})
			}
		}

		if len(rowErrors) > 0 {
			result.Errors = append(result.Errors, rowErrors...)
			result.ErrorRows++
			continue
		}

		result.ValidRows++
		result.Rows = append(result.Rows, CatalogRow{
			Sap:         sap,
			Description: desc,
			Unit:        cell(row, unitCol),
			UnitPrice:   unitPrice,
		})
	}

	return result, nil
}

// CommitCatalogImport upserts validated catalog rows into the materials
// collection and returns how many records were created vs updated.
func CommitCatalogImport(app *pocketbase.PocketBase, rows []CatalogRow) (created, updated int, err error) {
	for _, row := range rows {
		wasCreated, err := upsertMaterial(app, row)
		if err != nil {
			return created, updated, err
		}
		if wasCreated {
			created++
		} else {
			updated++
		}
	}
	return created, updated, nil
}

func upsertMaterial(app *pocketbase.PocketBase, row CatalogRow) (created bool, err error) {
	records, err := app.FindRecordsByFilter(
		"materials", "sap = {:sap}", "", 1, 0,
		map[string]any{"sap": row.Sap},
	)
	if err != nil {
		return false, fmt.Errorf("lookup material %s: %w", row.Sap, err)
	}

	var record *core.Record
	if len(records) > 0 {
		record = records[0]
	} else {
		col, err := app.FindCollectionByNameOrId("materials")
		if err != nil {
			return false, fmt.Errorf("materials collection: %w", err)
		}
		record = core.NewRecord(col)
		record.Set("sap", row.Sap)
		created = true
	}

	record.Set("description", row.Description)
	unit := row.Unit
	if unit == "" {
		unit = "UN"
	}
	record.Set("unit", unit)
	record.Set("unit_price", row.UnitPrice)

	if err := app.Save(record); err != nil {
		return created, fmt.Errorf("save material %s: %w", row.Sap, err)
	}
	return created, nil
}
