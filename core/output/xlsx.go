package output

import (
	"io"

	"github.com/xuri/excelize/v2"

	"dira-price/internal/errors"
)

const (
	summarySheet = "Summary"
	detailsSheet = "Details"
)

// XLSXFormatter renders a workbook with a Summary and a Details sheet
type XLSXFormatter struct {
	opts Options
}

// Format returns FormatXLSX
func (f *XLSXFormatter) Format() Format {
	return FormatXLSX
}

// Render writes the workbook to w
func (f *XLSXFormatter) Render(w io.Writer, report *Report) error {
	book := excelize.NewFile()
	defer book.Close()

	if err := book.SetSheetName("Sheet1", summarySheet); err != nil {
		return errors.Export("failed to create summary sheet", err)
	}
	if _, err := book.NewSheet(detailsSheet); err != nil {
		return errors.Export("failed to create details sheet", err)
	}

	bold, err := book.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return errors.Export("failed to create style", err)
	}

	style := f.opts.Style

	grid := style.SummaryGrid(report.Entries)
	if err := writeRows(book, summarySheet, 1, grid); err != nil {
		return err
	}
	last, _ := excelize.CoordinatesToCellName(len(grid[0]), 1)
	if err := book.SetCellStyle(summarySheet, "A1", last, bold); err != nil {
		return errors.Export("failed to style summary header", err)
	}
	if err := book.SetColWidth(summarySheet, "A", "A", 34); err != nil {
		return errors.Export("failed to size summary columns", err)
	}

	row := 1
	for _, e := range report.Entries {
		if len(report.Entries) > 1 {
			if err := writeTitle(book, row, e.Name, bold); err != nil {
				return err
			}
			row++
		}
		for _, section := range style.DetailSections(e.Result) {
			if err := writeTitle(book, row, section.Title, bold); err != nil {
				return err
			}
			row++

			rows := append([][]string{section.Headers}, section.Rows...)
			if err := writeRows(book, detailsSheet, row, rows); err != nil {
				return err
			}
			row += len(rows) + 1
		}
	}
	if err := book.SetColWidth(detailsSheet, "A", "D", 26); err != nil {
		return errors.Export("failed to size detail columns", err)
	}

	book.SetActiveSheet(0)
	if err := book.Write(w); err != nil {
		return errors.Export("failed to write workbook", err)
	}
	return nil
}

// writeRows writes a block of cells starting at column A of startRow
func writeRows(book *excelize.File, sheet string, startRow int, rows [][]string) error {
	for r, cells := range rows {
		for c, value := range cells {
			cell, err := excelize.CoordinatesToCellName(c+1, startRow+r)
			if err != nil {
				return errors.Export("invalid cell coordinates", err)
			}
			if err := book.SetCellValue(sheet, cell, value); err != nil {
				return errors.Export("failed to write cell", err)
			}
		}
	}
	return nil
}

// writeTitle writes a bold title into column A of the details sheet
func writeTitle(book *excelize.File, row int, title string, bold int) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return errors.Export("invalid cell coordinates", err)
	}
	if err := book.SetCellValue(detailsSheet, cell, title); err != nil {
		return errors.Export("failed to write cell", err)
	}
	if err := book.SetCellStyle(detailsSheet, cell, cell, bold); err != nil {
		return errors.Export("failed to style cell", err)
	}
	return nil
}
