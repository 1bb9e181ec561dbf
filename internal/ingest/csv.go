package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
)

// DecodeCSV 解析 CSV 格式的人群数据
func DecodeCSV(r io.Reader) (*Batch, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // 行长不一致时按行处理而不是整体失败
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV file: %w", err)
	}
	return decodeRows(rows)
}
