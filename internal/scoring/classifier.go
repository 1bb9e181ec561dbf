package scoring

import "wisefido-risk-engine/internal/models"

// 风险等级阈值（下界闭区间：70.0 为 High，40.0 为 Medium）
const (
	highRiskThreshold   = 70.0
	mediumRiskThreshold = 40.0
)

// Classify 把风险百分比映射为风险等级
func Classify(percentage float64) models.RiskLevel {
	switch {
	case percentage >= highRiskThreshold:
		return models.RiskHigh
	case percentage >= mediumRiskThreshold:
		return models.RiskMedium
	default:
		return models.RiskLow
	}
}
