package services

import (
	"fmt"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

// GenerateBudgetPDF creates a PDF document for a budget using maroto/v2.
// It returns the raw PDF bytes or an error.
func GenerateBudgetPDF(data BudgetExportData) ([]byte, error) {
	cfg := config.NewBuilder().
		WithOrientation(orientation.Vertical).
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).
		WithTopMargin(10).
		WithRightMargin(10).
		WithPageNumber(props.PageNumber{
			Pattern: "Página {current} de {total}",
			Place:   props.RightBottom,
			Size:    7,
			Color:   &props.Color{Red: 120, Green: 120, Blue: 120},
		}).
		Build()

	m := maroto.New(cfg)

	addBudgetHeader(m, data)
	addBudgetMaterialsTable(m, data)
	addBudgetTotals(m, data)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate budget PDF: %w", err)
	}

	return doc.GetBytes(), nil
}

// addBudgetHeader adds the budget name, the "ORÇAMENTO" title and the date.
func addBudgetHeader(m core.Maroto, data BudgetExportData) {
	m.AddRows(
		row.New(10).Add(
			col.New(6).Add(
				text.New(data.Name, props.Text{
					Size:  14,
					Style: fontstyle.Bold,
					Align: align.Left,
				}),
			),
			col.New(6).Add(
				text.New("ORÇAMENTO", props.Text{
					Size:  14,
					Style: fontstyle.Bold,
					Align: align.Right,
				}),
			),
		),
		row.New(6).Add(
			col.New(12).Add(
				text.New("Data: "+data.CreatedDate, props.Text{
					Size:  9,
					Align: align.Left,
				}),
			),
		),
		row.New(2),
	)
}

// addBudgetMaterialsTable adds the consolidated material table with header
// and body rows.
func addBudgetMaterialsTable(m core.Maroto, data BudgetExportData) {
	headerBg := &props.Color{Red: 33, Green: 37, Blue: 41}
	headerText := props.Text{
		Size:  7,
		Style: fontstyle.Bold,
		Align: align.Center,
		Color: &props.Color{Red: 255, Green: 255, Blue: 255},
	}
	headerTextLeft := headerText
	headerTextLeft.Align = align.Left
	headerCell := props.Cell{BackgroundColor: headerBg}

	// Table header
	m.AddRows(
		row.New(8).Add(
			col.New(2).Add(text.New("SAP", headerTextLeft)).WithStyle(&headerCell),
			col.New(4).Add(text.New("Descrição", headerTextLeft)).WithStyle(&headerCell),
			col.New(1).Add(text.New("Unid.", headerText)).WithStyle(&headerCell),
			col.New(1).Add(text.New("Qtd.", headerText)).WithStyle(&headerCell),
			col.New(2).Add(text.New("Preço Unit.", headerText)).WithStyle(&headerCell),
			col.New(2).Add(text.New("Subtotal", headerText)).WithStyle(&headerCell),
		),
	)

	// Table body with alternating backgrounds
	altBg := &props.Color{Red: 248, Green: 249, Blue: 250}

	for i, item := range data.Materials {
		bodyTextLeft := props.Text{Size: 7, Align: align.Left}
		bodyTextRight := props.Text{Size: 7, Align: align.Right}
		if item.Category == CategoryPole || item.Category == CategoryKit {
			bodyTextLeft.Style = fontstyle.Bold
			bodyTextRight.Style = fontstyle.Bold
		}

		var cellStyle *props.Cell
		if i%2 == 1 {
			cellStyle = &props.Cell{BackgroundColor: altBg}
		}

		colCode := col.New(2).Add(text.New(item.Code, bodyTextLeft))
		colDesc := col.New(4).Add(text.New(item.Description, bodyTextLeft))
		colUnit := col.New(1).Add(text.New(item.Unit, bodyTextLeft))
		colQty := col.New(1).Add(text.New(FormatQuantity(item.Quantity), bodyTextRight))
		colPrice := col.New(2).Add(text.New(FormatBRL(item.UnitPrice), bodyTextRight))
		colSubtotal := col.New(2).Add(text.New(FormatBRL(item.Subtotal), bodyTextRight))

		if cellStyle != nil {
			colCode = colCode.WithStyle(cellStyle)
			colDesc = colDesc.WithStyle(cellStyle)
			colUnit = colUnit.WithStyle(cellStyle)
			colQty = colQty.WithStyle(cellStyle)
			colPrice = colPrice.WithStyle(cellStyle)
			colSubtotal = colSubtotal.WithStyle(cellStyle)
		}

		m.AddRows(
			row.New(6).Add(
				colCode, colDesc, colUnit, colQty, colPrice, colSubtotal,
			),
		)
	}

	m.AddRows(row.New(2))
}

// addBudgetTotals adds right-aligned total rows.
func addBudgetTotals(m core.Maroto, data BudgetExportData) {
	summaryBg := &props.Color{Red: 245, Green: 245, Blue: 245}
	summaryCell := &props.Cell{BackgroundColor: summaryBg}

	labelStyle := props.Text{
		Size:  8,
		Style: fontstyle.Bold,
		Align: align.Right,
	}
	valueStyle := props.Text{
		Size:  8,
		Align: align.Right,
	}
	grandStyle := props.Text{
		Size:  9,
		Style: fontstyle.Bold,
		Align: align.Right,
	}

	addTotal := func(label string, value float64, labelText, valueText props.Text) {
		m.AddRows(
			row.New(6).Add(
				col.New(8),
				col.New(2).Add(text.New(label, labelText)).WithStyle(summaryCell),
				col.New(2).Add(text.New(FormatBRL(value), valueText)).WithStyle(summaryCell),
			),
		)
	}

	addTotal("Material:", data.TotalMaterial, labelStyle, valueStyle)
	addTotal("Mão de Obra:", data.TotalService, labelStyle, valueStyle)
	addTotal("TOTAL GERAL:", data.TotalGeneral, grandStyle, grandStyle)
}
