package models

// 性别类别（与上游问诊表单一致）
const (
	GenderMale   = "Male"
	GenderFemale = "Female"
	GenderOther  = "Other"
)

// 吸烟状态
const (
	SmokingNever   = "Never"
	SmokingFormer  = "Former"
	SmokingCurrent = "Current"
)

// PatientRecord 患者问诊记录（评分引擎的唯一输入）
//
// 所有数值字段的临床范围由上游表单校验，引擎侧 Validate() 再做一次防御性检查
// （超出范围时拒绝评分而不是给出误导性结果）。
// Medications / Allergies 为自由文本，引擎不解析。
type PatientRecord struct {
	PatientID          string  `json:"patient_id,omitempty"` // 批量上传时的不透明标识
	Age                int     `json:"age"`
	Gender             string  `json:"gender"`
	HeightCM           float64 `json:"height_cm"`
	WeightKG           float64 `json:"weight_kg"`
	SystolicBP         int     `json:"systolic_bp"`
	DiastolicBP        int     `json:"diastolic_bp"`
	RestingHR          int     `json:"resting_hr"`
	Glucose            float64 `json:"glucose"`     // 空腹血糖 mg/dL
	Cholesterol        float64 `json:"cholesterol"` // 总胆固醇 mg/dL
	HDL                float64 `json:"hdl"`
	LDL                float64 `json:"ldl"`
	Smoking            string  `json:"smoking"`
	ExerciseDays       int     `json:"exercise_days"`  // 每周运动天数 0-7
	AlcoholDrinks      int     `json:"alcohol_drinks"` // 每周饮酒杯数 0-20
	FamilyDiabetes     bool    `json:"family_diabetes"`
	FamilyHeartDisease bool    `json:"family_heart_disease"`
	FamilyHypertension bool    `json:"family_hypertension"`
	Medications        string  `json:"current_medications,omitempty"`
	Allergies          string  `json:"allergies,omitempty"`
}

// BMI 由身高体重推导（kg / m^2）
func (r *PatientRecord) BMI() float64 {
	if r.HeightCM <= 0 {
		return 0
	}
	heightM := r.HeightCM / 100
	return r.WeightKG / (heightM * heightM)
}
