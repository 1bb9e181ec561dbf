package ingest

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// DecodeXLSX 解析 Excel 格式的人群数据（取第一个工作表）
func DecodeXLSX(r io.Reader) (*Batch, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Excel file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("Excel file has no sheets")
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	return decodeRows(rows)
}
