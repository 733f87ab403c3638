package source

import (
	"fmt"
	"io"

	"github.com/huangsam/sunspot/schema"
	"github.com/xuri/excelize/v2"
)

// ReadXLSX reads the first worksheet of a workbook. The first row is the header;
// short rows are padded so every record has one cell per column.
func ReadXLSX(r io.Reader) (schema.RawTable, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return schema.RawTable{}, fmt.Errorf("open xlsx: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return schema.RawTable{}, fmt.Errorf("%w: workbook has no sheets", ErrUnsupportedSource)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return schema.RawTable{}, fmt.Errorf("read sheet %s: %w", sheets[0], err)
	}

	table, err := tableFromRecords(rows)
	if err != nil {
		return schema.RawTable{}, err
	}
	width := len(table.Columns)
	for i, rec := range table.Records {
		if len(rec) < width {
			padded := make([]string, width)
			copy(padded, rec)
			table.Records[i] = padded
		}
	}
	return table, nil
}
