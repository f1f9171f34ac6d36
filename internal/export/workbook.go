package export

import (
	"fmt"
	"path/filepath"

	"bench-graphs/internal/charts"
	"bench-graphs/internal/infra/fs"

	"github.com/xuri/excelize/v2"
)

// WriteWorkbook saves an .xlsx file with one sheet per chart: a header row,
// the data, any reference series as extra columns, and a native Excel chart
// of the same kind as the PNG.
func WriteWorkbook(path string, specs []charts.Spec) error {
	if err := charts.Validate(specs); err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := fs.EnsureDir(dir); err != nil {
			return err
		}
	}

	f := excelize.NewFile()
	defer f.Close()

	for i, spec := range specs {
		sheet := sheetName(spec.Name)
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheet); err != nil {
				return fmt.Errorf("failed to rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(sheet); err != nil {
			return fmt.Errorf("failed to create sheet %s: %w", sheet, err)
		}
		if err := writeSheet(f, sheet, spec); err != nil {
			return fmt.Errorf("sheet %s: %w", sheet, err)
		}
	}
	f.SetActiveSheet(0)

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	if _, err := fs.VerifyNonEmpty(path); err != nil {
		return err
	}
	return nil
}

// Excel limits sheet names to 31 characters.
func sheetName(name string) string {
	if len(name) > 31 {
		return name[:31]
	}
	return name
}

// column is one header plus its values.
type column struct {
	header string
	values []interface{}
}

func sheetColumns(spec charts.Spec) []column {
	n := spec.Data.Len()
	x := column{header: spec.XLabel, values: make([]interface{}, n)}
	if x.header == "" {
		x.header = "Category"
	}
	for i := 0; i < n; i++ {
		if spec.Data.Categories != nil {
			x.values[i] = spec.Data.Categories[i]
		} else {
			x.values[i] = spec.Data.X[i]
		}
	}

	y := column{header: spec.YLabel, values: make([]interface{}, n)}
	for i, v := range spec.Data.Y {
		y.values[i] = v
	}
	cols := []column{x, y}

	if ref := spec.Reference; ref != nil {
		c := column{header: ref.Label, values: make([]interface{}, n)}
		for i, v := range ref.Y {
			c.values[i] = v
		}
		cols = append(cols, c)
	}
	if hl := spec.HLine; hl != nil {
		c := column{header: hl.Label, values: make([]interface{}, n)}
		for i := range c.values {
			c.values[i] = hl.Y
		}
		cols = append(cols, c)
	}
	return cols
}

func writeSheet(f *excelize.File, sheet string, spec charts.Spec) error {
	cols := sheetColumns(spec)
	n := spec.Data.Len()

	for c, col := range cols {
		cell, err := excelize.CoordinatesToCellName(c+1, 1)
		if err != nil {
			return err
		}
		values := append([]interface{}{col.header}, col.values...)
		if err := setColumn(f, sheet, cell, values); err != nil {
			return err
		}
	}
	last, _ := excelize.ColumnNumberToName(len(cols))
	if err := f.SetColWidth(sheet, "A", last, 22); err != nil {
		return err
	}

	chart := &excelize.Chart{
		Type:   excelize.Line,
		Title:  []excelize.RichTextRun{{Text: spec.Title}},
		Legend: excelize.ChartLegend{Position: "bottom"},
		XAxis:  excelize.ChartAxis{Title: []excelize.RichTextRun{{Text: spec.XLabel}}},
		YAxis:  excelize.ChartAxis{MajorGridLines: true, Title: []excelize.RichTextRun{{Text: spec.YLabel}}},
		Dimension: excelize.ChartDimension{
			Width:  uint(spec.Width * 64),
			Height: uint(spec.Height * 64),
		},
	}
	if spec.Kind == charts.Bar {
		chart.Type = excelize.Col
		chart.PlotArea.ShowVal = true
	}
	if spec.YRange != nil {
		lo, hi := spec.YRange.Min, spec.YRange.Max
		chart.YAxis.Minimum, chart.YAxis.Maximum = &lo, &hi
	}

	categories := fmt.Sprintf("%s!$A$2:$A$%d", sheet, n+1)
	for c := 1; c < len(cols); c++ {
		colName, _ := excelize.ColumnNumberToName(c + 1)
		chart.Series = append(chart.Series, excelize.ChartSeries{
			Name:       fmt.Sprintf("%s!$%s$1", sheet, colName),
			Categories: categories,
			Values:     fmt.Sprintf("%s!$%s$2:$%s$%d", sheet, colName, colName, n+1),
		})
	}
	// Only the measured series is drawn for bar charts.
	if spec.Kind == charts.Bar {
		chart.Series = chart.Series[:1]
	}

	anchor, _ := excelize.CoordinatesToCellName(len(cols)+2, 2)
	return f.AddChart(sheet, anchor, chart)
}

func setColumn(f *excelize.File, sheet, topCell string, values []interface{}) error {
	col, row, err := excelize.CellNameToCoordinates(topCell)
	if err != nil {
		return err
	}
	for i, v := range values {
		cell, err := excelize.CoordinatesToCellName(col, row+i)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return err
		}
	}
	return nil
}
