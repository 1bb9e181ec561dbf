package models

// RiskLevel 风险等级
type RiskLevel string

const (
	RiskLow    RiskLevel = "Low"
	RiskMedium RiskLevel = "Medium"
	RiskHigh   RiskLevel = "High"
)

// RiskFactorBreakdown 风险因子分解：因子名 -> 带符号的贡献值
// 负值表示保护性因素（如规律运动、高 HDL）。
// 因子名在同一病种下跨运行稳定，用于审计和测试。
type RiskFactorBreakdown map[string]float64

// Sum 所有因子贡献之和
func (b RiskFactorBreakdown) Sum() float64 {
	var total float64
	for _, v := range b {
		total += v
	}
	return total
}

// ConditionAssessment 单病种评估结果
// 完全由 PatientRecord + 固定规则表推导，每次调用重新计算（无缓存、无状态）。
type ConditionAssessment struct {
	RiskFactors    RiskFactorBreakdown `json:"risk_factors"`
	TotalScore     float64             `json:"total_score"`
	RiskPercentage float64             `json:"risk_percentage"`
	RiskLevel      RiskLevel           `json:"risk_level"`
}

// RiskAssessment 单患者三病种综合评估结果
type RiskAssessment struct {
	Diabetes     ConditionAssessment `json:"diabetes"`
	HeartDisease ConditionAssessment `json:"heart_disease"`
	Hypertension ConditionAssessment `json:"hypertension"`
}

// MaxRiskPercentage 三病种中的最高风险百分比
func (a *RiskAssessment) MaxRiskPercentage() float64 {
	max := a.Diabetes.RiskPercentage
	if a.HeartDisease.RiskPercentage > max {
		max = a.HeartDisease.RiskPercentage
	}
	if a.Hypertension.RiskPercentage > max {
		max = a.Hypertension.RiskPercentage
	}
	return max
}

// OverallLevel 患者整体风险等级 = 最高风险病种的等级
// 百分比相等时等级必然相同，无需额外平局规则。
func (a *RiskAssessment) OverallLevel() RiskLevel {
	switch {
	case a.MaxRiskPercentage() >= 70:
		return RiskHigh
	case a.MaxRiskPercentage() >= 40:
		return RiskMedium
	default:
		return RiskLow
	}
}
