package models

import (
	"fmt"
	"math"
)

// ValidationError 输入越界错误（评分前抛出，阻断整次评估）
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid patient record: %s: %s", e.Field, e.Reason)
}

func invalid(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// Validate 校验记录是否在文档化的临床范围内
//
// 范围与上游问诊表单的校验策略保持一致。返回第一个命中的 *ValidationError，
// 引擎在任何评分之前调用，缺失必填字段同样在这里报错（绝不默默代入默认值）。
func (r *PatientRecord) Validate() error {
	if r.Gender == "" {
		return invalid("gender", "missing required field")
	}
	if r.Gender != GenderMale && r.Gender != GenderFemale && r.Gender != GenderOther {
		return invalid("gender", "must be one of Male/Female/Other, got %q", r.Gender)
	}
	if r.Smoking == "" {
		return invalid("smoking", "missing required field")
	}
	if r.Smoking != SmokingNever && r.Smoking != SmokingFormer && r.Smoking != SmokingCurrent {
		return invalid("smoking", "must be one of Never/Former/Current, got %q", r.Smoking)
	}
	if r.Age < 18 || r.Age > 120 {
		return invalid("age", "must be between 18 and 120 years, got %d", r.Age)
	}
	if r.HeightCM <= 0 || r.WeightKG <= 0 {
		return invalid("height_cm/weight_kg", "missing required field")
	}
	if bmi := r.BMI(); bmi < 10 || bmi > 100 {
		return invalid("bmi", "derived BMI %.1f outside plausible range (10-100)", bmi)
	}
	if r.SystolicBP < 70 || r.SystolicBP > 250 {
		return invalid("systolic_bp", "must be between 70-250 mmHg, got %d", r.SystolicBP)
	}
	if r.DiastolicBP < 40 || r.DiastolicBP > 150 {
		return invalid("diastolic_bp", "must be between 40-150 mmHg, got %d", r.DiastolicBP)
	}
	if r.SystolicBP <= r.DiastolicBP {
		return invalid("systolic_bp", "systolic pressure must be higher than diastolic pressure (%d <= %d)", r.SystolicBP, r.DiastolicBP)
	}
	if r.Glucose < 50 || r.Glucose > 500 {
		return invalid("glucose", "must be between 50-500 mg/dL, got %.0f", r.Glucose)
	}
	if r.Cholesterol < 100 || r.Cholesterol > 500 {
		return invalid("cholesterol", "must be between 100-500 mg/dL, got %.0f", r.Cholesterol)
	}
	if r.HDL < 20 || r.HDL > 150 {
		return invalid("hdl", "must be between 20-150 mg/dL, got %.0f", r.HDL)
	}
	if r.LDL < 50 || r.LDL > 300 {
		return invalid("ldl", "must be between 50-300 mg/dL, got %.0f", r.LDL)
	}
	if r.ExerciseDays < 0 || r.ExerciseDays > 7 {
		return invalid("exercise_days", "must be between 0 and 7, got %d", r.ExerciseDays)
	}
	if r.AlcoholDrinks < 0 || r.AlcoholDrinks > 20 {
		return invalid("alcohol_drinks", "must be between 0 and 20, got %d", r.AlcoholDrinks)
	}
	// 实验室数据一致性检查：总胆固醇应约等于 HDL+LDL（±50 启发式，拦截录入错误）
	if math.Abs(r.Cholesterol-(r.HDL+r.LDL)) > 50 {
		return invalid("cholesterol", "total cholesterol doesn't match HDL + LDL values (approximate check)")
	}
	return nil
}
