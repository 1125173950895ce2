package export

import (
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/hyperifyio/betsbrasileiras/internal/bet"
)

// SheetName is the worksheet holding the records.
const SheetName = "Bets"

// WriteXLSX writes a single-sheet workbook with a display header row.
func WriteXLSX(w io.Writer, bets []bet.Bet) error {
	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return err
	}
	for i, name := range bet.DisplayNames() {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(SheetName, cell, name); err != nil {
			return err
		}
	}
	for r, b := range bets {
		for i, c := range bet.Columns {
			cell, err := excelize.CoordinatesToCellName(i+1, r+2)
			if err != nil {
				return err
			}
			if err := f.SetCellStr(SheetName, cell, c.Value(b)); err != nil {
				return err
			}
		}
	}
	if err := f.SetPanes(SheetName, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
		return err
	}
	return f.Write(w)
}
