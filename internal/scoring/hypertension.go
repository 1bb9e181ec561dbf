package scoring

import "wisefido-risk-engine/internal/models"

// 高血压阈值表
var (
	hypertensionAgeLadder     = ladder{{65, 3}, {55, 2}, {45, 1}}
	hypertensionBMILadder     = ladder{{35, 3.5}, {30, 2.5}, {25, 1.5}}
	hypertensionGlucoseLadder = ladder{{126, 2}, {100, 1}}
)

// ScoreHypertension 高血压风险评分
// 当前血压状态权重最高（已达高血压标准直接取 5 分）。
func ScoreHypertension(r *models.PatientRecord) models.ConditionAssessment {
	factors := models.RiskFactorBreakdown{}

	// 当前血压状态（收缩压/舒张压联合判断）
	switch {
	case r.SystolicBP >= 140 || r.DiastolicBP >= 90:
		factors["current_bp_risk"] = 5 // 已达高血压标准
	case r.SystolicBP >= 130 || r.DiastolicBP >= 80:
		factors["current_bp_risk"] = 3 // 一期
	case r.SystolicBP >= 120:
		factors["current_bp_risk"] = 1.5 // 血压偏高
	default:
		factors["current_bp_risk"] = 0
	}

	factors["age_risk"] = hypertensionAgeLadder.weight(float64(r.Age))
	factors["bmi_risk"] = hypertensionBMILadder.weight(r.BMI())

	// 饮酒作为钠摄入的代理指标
	switch {
	case r.AlcoholDrinks > 14:
		factors["alcohol_risk"] = 2
	case r.AlcoholDrinks > 7:
		factors["alcohol_risk"] = 1
	default:
		factors["alcohol_risk"] = 0
	}

	switch r.Smoking {
	case models.SmokingCurrent:
		factors["smoking_risk"] = 2.5
	case models.SmokingFormer:
		factors["smoking_risk"] = 1
	default:
		factors["smoking_risk"] = 0
	}

	if r.FamilyHypertension {
		factors["family_history_risk"] = 2.5
	} else {
		factors["family_history_risk"] = 0
	}

	// 运动保护性因素
	switch {
	case r.ExerciseDays >= 5:
		factors["exercise_risk"] = -1.5
	case r.ExerciseDays >= 3:
		factors["exercise_risk"] = -1
	case r.ExerciseDays < 2:
		factors["exercise_risk"] = 1.5
	default:
		factors["exercise_risk"] = 0
	}

	factors["diabetes_risk"] = hypertensionGlucoseLadder.weight(r.Glucose)

	total := factors.Sum()
	pct := Normalize(total, hypertensionScale)
	return models.ConditionAssessment{
		RiskFactors:    factors,
		TotalScore:     total,
		RiskPercentage: pct,
		RiskLevel:      Classify(pct),
	}
}
