package scoring

import "wisefido-risk-engine/internal/models"

// 糖尿病阈值表（断点与权重为既有评分行为，不可改动）
var (
	diabetesAgeLadder     = ladder{{65, 3}, {45, 2}, {35, 1}}
	diabetesBMILadder     = ladder{{35, 4}, {30, 3}, {25, 2}}
	diabetesGlucoseLadder = ladder{{126, 5}, {100, 3}, {90, 1}}
	diabetesBPLadder      = ladder{{140, 2}, {130, 1.5}, {120, 1}}
)

// ScoreDiabetes 糖尿病风险评分
func ScoreDiabetes(r *models.PatientRecord) models.ConditionAssessment {
	factors := models.RiskFactorBreakdown{}

	factors["age_risk"] = diabetesAgeLadder.weight(float64(r.Age))
	factors["bmi_risk"] = diabetesBMILadder.weight(r.BMI())
	factors["glucose_risk"] = diabetesGlucoseLadder.weight(r.Glucose)
	factors["bp_risk"] = diabetesBPLadder.weight(float64(r.SystolicBP))

	// 运动不足（每周 <2 天风险最高，>=4 天无风险）
	switch {
	case r.ExerciseDays < 2:
		factors["exercise_risk"] = 2
	case r.ExerciseDays < 4:
		factors["exercise_risk"] = 1
	default:
		factors["exercise_risk"] = 0
	}

	switch r.Smoking {
	case models.SmokingCurrent:
		factors["smoking_risk"] = 2.5
	case models.SmokingFormer:
		factors["smoking_risk"] = 1
	default:
		factors["smoking_risk"] = 0
	}

	if r.FamilyDiabetes {
		factors["family_history_risk"] = 3
	} else {
		factors["family_history_risk"] = 0
	}

	// 低 HDL
	switch {
	case r.HDL < 35:
		factors["hdl_risk"] = 2
	case r.HDL < 40:
		factors["hdl_risk"] = 1
	default:
		factors["hdl_risk"] = 0
	}

	total := factors.Sum()
	pct := Normalize(total, diabetesScale)
	return models.ConditionAssessment{
		RiskFactors:    factors,
		TotalScore:     total,
		RiskPercentage: pct,
		RiskLevel:      Classify(pct),
	}
}
