// Package ingest 解析上传的人群表格数据（CSV / XLSX）
//
// 表头按列名定位字段（与样本 CSV 的列名一致），列顺序不敏感。
// 缺少必需列时整个文件拒绝（*SchemaError）；单行数据不合法时按行标记并跳过，
// 合法行继续参与人群分析。
package ingest

import (
	"fmt"
	"strconv"
	"strings"

	"wisefido-risk-engine/internal/models"
)

// 必需列（patient_id / current_medications / allergies 为可选列）
var requiredColumns = []string{
	"age", "gender", "height_cm", "weight_kg",
	"systolic_bp", "diastolic_bp", "resting_hr",
	"glucose", "cholesterol", "hdl", "ldl",
	"smoking", "exercise_days", "alcohol_drinks",
	"family_diabetes", "family_heart_disease", "family_hypertension",
}

// SchemaError 上传文件缺少必需列（整批拒绝）
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("upload is missing required columns: %s", strings.Join(e.Missing, ", "))
}

// RowError 单行数据问题（标记该行并跳过，不影响其它行）
type RowError struct {
	Row    int    `json:"row"` // 1-based，含表头（即文件中的实际行号）
	Reason string `json:"reason"`
}

// Batch 解析结果：合法记录 + 被标记跳过的行
type Batch struct {
	Records []models.PatientRecord
	Flagged []RowError
}

// decodeRows 表头 + 数据行的通用解析（CSV 与 XLSX 共用）
func decodeRows(rows [][]string) (*Batch, error) {
	if len(rows) == 0 {
		return nil, &SchemaError{Missing: requiredColumns}
	}

	headerIdx := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		headerIdx[strings.TrimSpace(strings.ToLower(name))] = i
	}

	var missing []string
	for _, col := range requiredColumns {
		if _, ok := headerIdx[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, &SchemaError{Missing: missing}
	}

	batch := &Batch{}
	for i := 1; i < len(rows); i++ {
		rowNum := i + 1
		if isEmptyRow(rows[i]) {
			continue
		}
		record, err := parseRow(headerIdx, rows[i])
		if err != nil {
			batch.Flagged = append(batch.Flagged, RowError{Row: rowNum, Reason: err.Error()})
			continue
		}
		if err := record.Validate(); err != nil {
			batch.Flagged = append(batch.Flagged, RowError{Row: rowNum, Reason: err.Error()})
			continue
		}
		batch.Records = append(batch.Records, *record)
	}
	return batch, nil
}

func parseRow(headerIdx map[string]int, row []string) (*models.PatientRecord, error) {
	r := &models.PatientRecord{}
	var err error

	r.PatientID = cell(headerIdx, row, "patient_id")
	r.Gender = cell(headerIdx, row, "gender")
	r.Smoking = cell(headerIdx, row, "smoking")
	r.Medications = cell(headerIdx, row, "current_medications")
	r.Allergies = cell(headerIdx, row, "allergies")

	if r.Age, err = parseIntCell(headerIdx, row, "age"); err != nil {
		return nil, err
	}
	if r.HeightCM, err = parseFloatCell(headerIdx, row, "height_cm"); err != nil {
		return nil, err
	}
	if r.WeightKG, err = parseFloatCell(headerIdx, row, "weight_kg"); err != nil {
		return nil, err
	}
	if r.SystolicBP, err = parseIntCell(headerIdx, row, "systolic_bp"); err != nil {
		return nil, err
	}
	if r.DiastolicBP, err = parseIntCell(headerIdx, row, "diastolic_bp"); err != nil {
		return nil, err
	}
	if r.RestingHR, err = parseIntCell(headerIdx, row, "resting_hr"); err != nil {
		return nil, err
	}
	if r.Glucose, err = parseFloatCell(headerIdx, row, "glucose"); err != nil {
		return nil, err
	}
	if r.Cholesterol, err = parseFloatCell(headerIdx, row, "cholesterol"); err != nil {
		return nil, err
	}
	if r.HDL, err = parseFloatCell(headerIdx, row, "hdl"); err != nil {
		return nil, err
	}
	if r.LDL, err = parseFloatCell(headerIdx, row, "ldl"); err != nil {
		return nil, err
	}
	if r.ExerciseDays, err = parseIntCell(headerIdx, row, "exercise_days"); err != nil {
		return nil, err
	}
	if r.AlcoholDrinks, err = parseIntCell(headerIdx, row, "alcohol_drinks"); err != nil {
		return nil, err
	}
	if r.FamilyDiabetes, err = parseBoolCell(headerIdx, row, "family_diabetes"); err != nil {
		return nil, err
	}
	if r.FamilyHeartDisease, err = parseBoolCell(headerIdx, row, "family_heart_disease"); err != nil {
		return nil, err
	}
	if r.FamilyHypertension, err = parseBoolCell(headerIdx, row, "family_hypertension"); err != nil {
		return nil, err
	}
	return r, nil
}

func cell(headerIdx map[string]int, row []string, col string) string {
	idx, ok := headerIdx[col]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func parseIntCell(headerIdx map[string]int, row []string, col string) (int, error) {
	raw := cell(headerIdx, row, col)
	if raw == "" {
		return 0, fmt.Errorf("column %s: empty value", col)
	}
	// 允许 Excel 中的小数格式整数（如 "120.0"）
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("column %s: %q is not a number", col, raw)
	}
	return int(f), nil
}

func parseFloatCell(headerIdx map[string]int, row []string, col string) (float64, error) {
	raw := cell(headerIdx, row, col)
	if raw == "" {
		return 0, fmt.Errorf("column %s: empty value", col)
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("column %s: %q is not a number", col, raw)
	}
	return f, nil
}

func parseBoolCell(headerIdx map[string]int, row []string, col string) (bool, error) {
	raw := cell(headerIdx, row, col)
	if raw == "" {
		return false, fmt.Errorf("column %s: empty value", col)
	}
	b, err := strconv.ParseBool(strings.ToLower(raw))
	if err != nil {
		return false, fmt.Errorf("column %s: %q is not a boolean", col, raw)
	}
	return b, nil
}

func isEmptyRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
