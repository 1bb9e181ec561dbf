// Package careplan 根据评估结果生成人可读的护理计划文本
//
// 纯规则生成，输入相同则输出逐字一致。引擎不依赖本包的输出，
// 它是评估结果的下游消费方（(PatientRecord, RiskAssessment) -> 计划文本）。
package careplan

import (
	"fmt"
	"strings"

	"wisefido-risk-engine/internal/models"
)

// Generator 护理计划生成器
type Generator struct{}

// NewGenerator 创建生成器
func NewGenerator() *Generator {
	return &Generator{}
}

// Generate 生成护理计划文本
func (g *Generator) Generate(record *models.PatientRecord, assessment *models.RiskAssessment) string {
	var lines []string

	lines = append(lines, "CARE PLAN")
	lines = append(lines, strings.Repeat("=", 30))

	lines = append(lines, fmt.Sprintf("Diabetes: %.1f%% (%s Risk)",
		assessment.Diabetes.RiskPercentage, assessment.Diabetes.RiskLevel))
	lines = append(lines, fmt.Sprintf("Heart Disease: %.1f%% (%s Risk)",
		assessment.HeartDisease.RiskPercentage, assessment.HeartDisease.RiskLevel))
	lines = append(lines, fmt.Sprintf("Hypertension: %.1f%% (%s Risk)",
		assessment.Hypertension.RiskPercentage, assessment.Hypertension.RiskLevel))
	lines = append(lines, "")

	switch assessment.OverallLevel() {
	case models.RiskHigh:
		lines = append(lines, "HIGH PRIORITY: Immediate medical consultation recommended")
	case models.RiskMedium:
		lines = append(lines, "MEDIUM PRIORITY: Regular monitoring and lifestyle changes needed")
	default:
		lines = append(lines, "LOW RISK: Continue healthy lifestyle practices")
	}
	lines = append(lines, "")

	if actions := g.actions(record, assessment); len(actions) > 0 {
		lines = append(lines, "Recommended actions:")
		for _, action := range actions {
			lines = append(lines, "- "+action)
		}
	}

	return strings.Join(lines, "\n")
}

// actions 按风险因子生成行动项
func (g *Generator) actions(record *models.PatientRecord, assessment *models.RiskAssessment) []string {
	var actions []string

	if record.Smoking == models.SmokingCurrent {
		actions = append(actions, "Enroll in a smoking cessation program")
	}
	if record.BMI() >= 30 {
		actions = append(actions, "Start a structured weight management program")
	} else if record.BMI() >= 25 {
		actions = append(actions, "Adopt portion control and regular meal planning")
	}
	if record.ExerciseDays < 3 {
		actions = append(actions, "Build up to at least 150 minutes of moderate exercise per week")
	}
	if record.AlcoholDrinks > 14 {
		actions = append(actions, "Reduce alcohol intake to within recommended limits")
	}

	if assessment.Diabetes.RiskLevel != models.RiskLow {
		actions = append(actions, "Schedule fasting glucose and HbA1c testing")
	}
	if assessment.HeartDisease.RiskLevel != models.RiskLow {
		actions = append(actions, "Request a full lipid panel and cardiovascular evaluation")
	}
	if assessment.Hypertension.RiskLevel != models.RiskLow {
		actions = append(actions, "Begin home blood pressure monitoring with a log")
	}

	return actions
}
