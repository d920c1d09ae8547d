package internlog

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

var (
	zipMagic = []byte("PK\x03\x04")
	oleMagic = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}
)

// cell is one spreadsheet value. Numbers keep their raw text as well so
// that non-date columns can be rendered as written.
type cell struct {
	text     string
	number   float64
	isNumber bool
}

func textCell(s string) cell {
	return cell{text: s}
}

func numberCell(s string, v float64) cell {
	return cell{text: s, number: v, isNumber: true}
}

func (c cell) blank() bool {
	if c.isNumber {
		return c.number == 0
	}
	return strings.TrimSpace(c.text) == ""
}

type row []cell

func (r row) at(col int) cell {
	if col < 0 || col >= len(r) {
		return cell{}
	}
	return r[col]
}

type grid []row

func (g grid) at(r, col int) cell {
	if r < 0 || r >= len(g) {
		return cell{}
	}
	return g[r].at(col)
}

// book is the positional view of a workbook: its sheets in order.
type book struct {
	sheets   []grid
	date1904 bool
}

func readBook(data []byte, maxSheets int) (*book, error) {
	switch {
	case bytes.HasPrefix(data, zipMagic):
		return readXLSX(data, maxSheets)
	case bytes.HasPrefix(data, oleMagic):
		return readXLS(data, maxSheets)
	default:
		return nil, errors.New("not a spreadsheet")
	}
}

func readXLSX(data []byte, maxSheets int) (*book, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var b book
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		b.date1904 = *props.Date1904
	}

	for i, sheet := range f.GetSheetList() {
		if i == maxSheets {
			break
		}
		rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, fmt.Errorf("sheet %q: %w", sheet, err)
		}
		g := make(grid, len(rows))
		for r, values := range rows {
			g[r] = make(row, len(values))
			for c, v := range values {
				g[r][c], err = xlsxCell(f, sheet, r, c, v)
				if err != nil {
					return nil, fmt.Errorf("sheet %q: %w", sheet, err)
				}
			}
		}
		b.sheets = append(b.sheets, g)
	}
	return &b, nil
}

// xlsxCell types a raw value. Only values that look numeric need the cell
// type lookup, to tell a number from digits stored as text.
func xlsxCell(f *excelize.File, sheet string, r, c int, v string) (cell, error) {
	n, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return textCell(v), nil
	}
	name, err := excelize.CoordinatesToCellName(c+1, r+1)
	if err != nil {
		return cell{}, err
	}
	typ, err := f.GetCellType(sheet, name)
	if err != nil {
		return cell{}, err
	}
	switch typ {
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString, excelize.CellTypeFormula, excelize.CellTypeBool:
		return textCell(v), nil
	default:
		return numberCell(v, n), nil
	}
}

// readXLS reads legacy BIFF workbooks. The xls package has no cell types,
// so anything that parses as a number is treated as one.
func readXLS(data []byte, maxSheets int) (b *book, err error) {
	defer func() {
		// The decoder panics on some malformed streams.
		if r := recover(); r != nil {
			b, err = nil, fmt.Errorf("xls: %v", r)
		}
	}()

	wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, err
	}
	if wb == nil {
		return nil, errors.New("xls: no workbook stream")
	}
	// Without cell formats the package returns date cells as their serial
	// number instead of a partial formatted date.
	wb.Xfs = nil

	b = &book{}
	for i := 0; i < wb.NumSheets() && i < maxSheets; i++ {
		sheet := wb.GetSheet(i)
		if sheet == nil {
			return nil, fmt.Errorf("xls: sheet %d unreadable", i)
		}
		g := make(grid, 0, int(sheet.MaxRow)+1)
		for r := 0; r <= int(sheet.MaxRow); r++ {
			xr := xlsRow(sheet, r)
			if xr == nil {
				g = append(g, nil)
				continue
			}
			// Rows stored without a row record report no columns.
			last := max(xr.LastCol(), xlsColumns)
			cells := make(row, 0, last)
			for c := 0; c < last; c++ {
				v := xr.Col(c)
				if n, err := strconv.ParseFloat(v, 64); err == nil {
					cells = append(cells, numberCell(v, n))
				} else {
					cells = append(cells, textCell(v))
				}
			}
			g = append(g, cells)
		}
		b.sheets = append(b.sheets, g)
	}
	return b, nil
}

// xlsColumns is the widest row of the template.
const xlsColumns = 6

// xlsRow returns nil for rows without cells, which the package does not
// guard against.
func xlsRow(sheet *xls.WorkSheet, r int) (xr *xls.Row) {
	defer func() {
		if recover() != nil {
			xr = nil
		}
	}()
	return sheet.Row(r)
}
