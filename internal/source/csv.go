package source

import (
	"fmt"
	"io"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/huangsam/sunspot/schema"
)

// ReadCSV reads a CSV table with a header row. Every column is kept as text;
// numeric parsing happens when tables are merged.
func ReadCSV(r io.Reader) (schema.RawTable, error) {
	df := dataframe.ReadCSV(r,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
	)
	if df.Err != nil {
		return schema.RawTable{}, fmt.Errorf("read csv: %w", df.Err)
	}
	return tableFromRecords(df.Records())
}

// tableFromRecords splits a header row from the data rows.
func tableFromRecords(records [][]string) (schema.RawTable, error) {
	if len(records) == 0 {
		return schema.RawTable{}, fmt.Errorf("%w: table has no header", ErrUnsupportedSource)
	}
	return schema.RawTable{Columns: records[0], Records: records[1:]}, nil
}
