package export

import (
	"fmt"
	"sort"

	"github.com/xuri/excelize/v2"

	"wisefido-risk-engine/internal/models"
)

// PopulationXLSX 生成人群汇总统计的 Excel 导出
func PopulationXLSX(summary *models.PopulationSummary) ([]byte, error) {
	f := excelize.NewFile()
	// 注意：不要在这里 defer Close()，WriteToBuffer 需要文件保持打开

	sheetName := "Population Summary"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6F3FF"},
			Pattern: 1,
		},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create style: %w", err)
	}

	row := 1
	setRow := func(values ...any) {
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			f.SetCellValue(sheetName, cell, v)
		}
		row++
	}
	setHeaderRow := func(values ...any) {
		start, _ := excelize.CoordinatesToCellName(1, row)
		end, _ := excelize.CoordinatesToCellName(len(values), row)
		f.SetCellStyle(sheetName, start, end, headerStyle)
		setRow(values...)
	}
	statCell := func(s models.Stat) any {
		if s.IsUndefined() {
			return "n/a"
		}
		return float64(s)
	}

	// 概览
	setHeaderRow("Overview")
	setRow("Total Patients", summary.TotalPatients)
	setRow("High Risk Patients", summary.HighRiskPatients)
	setRow("Low / Medium / High",
		summary.RiskDistribution[models.RiskLow],
		summary.RiskDistribution[models.RiskMedium],
		summary.RiskDistribution[models.RiskHigh],
	)
	row++

	// 指标统计
	setHeaderRow("Metric", "Count", "Mean", "Std Dev")
	names := make([]string, 0, len(summary.Metrics))
	for name := range summary.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		m := summary.Metrics[name]
		setRow(name, m.Count, statCell(m.Mean), statCell(m.StdDev))
	}
	row++

	// 年龄段平均风险
	setHeaderRow("Age Band", "Patients", "Diabetes", "Heart Disease", "Hypertension")
	for _, band := range summary.AgeBands {
		setRow(band.Band, band.Patients,
			statCell(band.DiabetesRisk), statCell(band.HeartDiseaseRisk), statCell(band.HypertensionRisk))
	}
	row++

	// 相关矩阵
	header := make([]any, 0, len(summary.CorrelationMetrics)+1)
	header = append(header, "Correlation")
	for _, name := range summary.CorrelationMetrics {
		header = append(header, name)
	}
	setHeaderRow(header...)
	for i, name := range summary.CorrelationMetrics {
		line := make([]any, 0, len(summary.CorrelationMetrics)+1)
		line = append(line, name)
		for j := range summary.CorrelationMetrics {
			line = append(line, statCell(summary.Correlation[i][j]))
		}
		setRow(line...)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("failed to close Excel file: %w", err)
	}
	return buf.Bytes(), nil
}
