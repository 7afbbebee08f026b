package rawsource

import (
	"github.com/xuri/excelize/v2"

	"github.com/osamaaldaas2/Invoice2E-sub003/internal/mapper"
	"github.com/osamaaldaas2/Invoice2E-sub003/internal/model"
)

// LoadXLSX decodes a raw invoice from the first sheet of an XLSX workbook.
// The sheet layout matches the CSV one: a header row followed by line-item
// rows, with invoice-level columns read from the first data row.
func LoadXLSX(path string) (*mapper.RawInvoice, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, model.NewInputError("xlsx", "opening XLSX workbook failed", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, model.NewInputError("xlsx", "workbook has no sheets", nil)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, model.NewInputError("xlsx", "reading XLSX rows failed", err)
	}
	return fromRows(rows)
}
