package scoring

import "wisefido-risk-engine/internal/models"

// 心脏病阈值表
var (
	heartAgeMaleLadder     = ladder{{55, 3}, {45, 2}}
	heartAgeFemaleLadder   = ladder{{65, 3}, {55, 2}}
	heartCholesterolLadder = ladder{{240, 3}, {200, 2}}
	heartLDLLadder         = ladder{{160, 3}, {130, 2}, {100, 1}}
	heartBPLadder          = ladder{{160, 4}, {140, 3}, {130, 2}, {120, 1}}
	heartGlucoseLadder     = ladder{{126, 3}, {100, 1.5}}
	heartBMILadder         = ladder{{30, 2}, {25, 1}}
)

// ScoreHeartDisease 心脏病风险评分
// HDL 和运动是保护性因素，可产生负贡献。
func ScoreHeartDisease(r *models.PatientRecord) models.ConditionAssessment {
	factors := models.RiskFactorBreakdown{}

	// 年龄×性别联合规则（男性风险前移 10 年；Other 按女性阈值处理）
	if r.Gender == models.GenderMale {
		factors["age_gender_risk"] = heartAgeMaleLadder.weight(float64(r.Age))
	} else {
		factors["age_gender_risk"] = heartAgeFemaleLadder.weight(float64(r.Age))
	}

	factors["cholesterol_risk"] = heartCholesterolLadder.weight(r.Cholesterol)
	factors["ldl_risk"] = heartLDLLadder.weight(r.LDL)

	// HDL：过低加分，>=60 为保护性因素
	switch {
	case r.HDL < 35:
		factors["hdl_risk"] = 3
	case r.HDL < 40:
		factors["hdl_risk"] = 2
	case r.HDL >= 60:
		factors["hdl_risk"] = -1
	default:
		factors["hdl_risk"] = 0
	}

	factors["bp_risk"] = heartBPLadder.weight(float64(r.SystolicBP))

	switch r.Smoking {
	case models.SmokingCurrent:
		factors["smoking_risk"] = 4
	case models.SmokingFormer:
		factors["smoking_risk"] = 1.5
	default:
		factors["smoking_risk"] = 0
	}

	// 血糖作为糖尿病代理指标
	factors["diabetes_risk"] = heartGlucoseLadder.weight(r.Glucose)

	if r.FamilyHeartDisease {
		factors["family_history_risk"] = 2.5
	} else {
		factors["family_history_risk"] = 0
	}

	factors["bmi_risk"] = heartBMILadder.weight(r.BMI())

	// 运动：>=5 天与 3-4 天为保护性因素，<2 天加分
	switch {
	case r.ExerciseDays >= 5:
		factors["exercise_risk"] = -1
	case r.ExerciseDays >= 3:
		factors["exercise_risk"] = -0.5
	case r.ExerciseDays < 2:
		factors["exercise_risk"] = 1.5
	default:
		factors["exercise_risk"] = 0
	}

	total := factors.Sum()
	pct := Normalize(total, heartDiseaseScale)
	return models.ConditionAssessment{
		RiskFactors:    factors,
		TotalScore:     total,
		RiskPercentage: pct,
		RiskLevel:      Classify(pct),
	}
}
