// Package enrich 提供可选的 NLU 洞察增强
//
// 评分引擎不依赖增强结果：Enricher 以注入能力的形式存在，启动时在
// 在线客户端（Client）和降级实现（Noop）之间二选一。任何服务故障都在
// 本包边界内转换为降级结果，绝不向引擎公共接口抛出。
package enrich

import (
	"context"
	"fmt"
	"strings"

	"wisefido-risk-engine/internal/models"
)

// Enricher NLU 增强能力
type Enricher interface {
	// EnrichAssessment 为单患者评估生成洞察，总是返回可用结果
	EnrichAssessment(ctx context.Context, record *models.PatientRecord, assessment *models.RiskAssessment) *Insights
	// EnrichPopulation 为人群汇总生成趋势洞察，总是返回可用结果
	EnrichPopulation(ctx context.Context, summary *models.PopulationSummary) *PopulationInsights
}

// HealthEntity NLU 识别出的健康实体
type HealthEntity struct {
	Entity    string  `json:"entity"`
	Type      string  `json:"type"`
	Relevance float64 `json:"relevance"`
	Sentiment string  `json:"sentiment"`
}

// RiskKeyword NLU 识别出的风险关键词
type RiskKeyword struct {
	Factor    string  `json:"factor"`
	Relevance float64 `json:"relevance"`
	Sentiment string  `json:"sentiment"`
}

// SentimentAnalysis 整体情感
type SentimentAnalysis struct {
	OverallSentiment string  `json:"overall_sentiment"`
	Confidence       float64 `json:"confidence"`
}

// Insights 单患者洞察
type Insights struct {
	AISummary               string            `json:"ai_summary"`
	KeyHealthEntities       []HealthEntity    `json:"key_health_entities"`
	PriorityRecommendations []string          `json:"priority_recommendations"`
	Sentiment               SentimentAnalysis `json:"sentiment_analysis"`
	RiskFactorsIdentified   []RiskKeyword     `json:"risk_factors_identified"`
	PersonalizedAdvice      []string          `json:"personalized_advice"`
}

// PopulationInsights 人群趋势洞察
type PopulationInsights struct {
	TrendAnalysis   string   `json:"trend_analysis"`
	Recommendations []string `json:"recommendations"`
	RiskPatterns    []string `json:"risk_patterns"`
}

// healthSummaryText 把记录与评估结果拼成给 NLU 分析的叙述文本
func healthSummaryText(record *models.PatientRecord, assessment *models.RiskAssessment) string {
	var parts []string

	parts = append(parts, fmt.Sprintf("Patient is a %d-year-old %s",
		record.Age, strings.ToLower(record.Gender)))
	parts = append(parts, fmt.Sprintf("with BMI of %.1f (%s)", record.BMI(), bmiCategory(record.BMI())))
	parts = append(parts, fmt.Sprintf("Blood pressure is %d/%d (%s)",
		record.SystolicBP, record.DiastolicBP, bpCategory(record.SystolicBP, record.DiastolicBP)))
	parts = append(parts, fmt.Sprintf("Fasting glucose level is %.0f mg/dL", record.Glucose))
	parts = append(parts, fmt.Sprintf("Total cholesterol is %.0f mg/dL with HDL of %.0f mg/dL",
		record.Cholesterol, record.HDL))

	if record.Smoking != models.SmokingNever {
		parts = append(parts, fmt.Sprintf("Patient is a %s smoker", strings.ToLower(record.Smoking)))
	}
	if record.ExerciseDays < 3 {
		parts = append(parts, "Patient has limited physical activity")
	} else {
		parts = append(parts, fmt.Sprintf("Patient exercises %d days per week", record.ExerciseDays))
	}

	var family []string
	if record.FamilyDiabetes {
		family = append(family, "diabetes")
	}
	if record.FamilyHeartDisease {
		family = append(family, "heart disease")
	}
	if record.FamilyHypertension {
		family = append(family, "hypertension")
	}
	if len(family) > 0 {
		parts = append(parts, "Family history includes "+strings.Join(family, ", "))
	}

	parts = append(parts, fmt.Sprintf("Risk assessment shows %.1f%% diabetes risk",
		assessment.Diabetes.RiskPercentage))
	parts = append(parts, fmt.Sprintf("%.1f%% cardiovascular disease risk",
		assessment.HeartDisease.RiskPercentage))
	parts = append(parts, fmt.Sprintf("%.1f%% hypertension risk",
		assessment.Hypertension.RiskPercentage))

	return strings.Join(parts, ". ") + "."
}

// priorityRecommendations 基于风险画像的优先建议（最多 5 条，规则确定性生成）
func priorityRecommendations(record *models.PatientRecord, assessment *models.RiskAssessment) []string {
	var recommendations []string

	if assessment.MaxRiskPercentage() >= 70 {
		recommendations = append(recommendations, "Immediate medical consultation recommended due to high risk profile")
	}
	if record.BMI() >= 30 {
		recommendations = append(recommendations, "Weight management should be primary focus - consider structured program")
	}
	if record.Smoking == models.SmokingCurrent {
		recommendations = append(recommendations, "Smoking cessation is critical - significant impact on all risk factors")
	}
	if record.ExerciseDays < 3 {
		recommendations = append(recommendations, "Increase physical activity to minimum 150 minutes moderate exercise per week")
	}
	if record.Glucose >= 126 {
		recommendations = append(recommendations, "Diabetes management protocol needed - dietary and medication evaluation")
	}
	if record.Cholesterol >= 240 {
		recommendations = append(recommendations, "Cholesterol management essential - consider lipid-lowering therapy")
	}

	if len(recommendations) > 5 {
		recommendations = recommendations[:5]
	}
	return recommendations
}

// personalizedAdvice 按年龄/性别/风险生成个性化建议
func personalizedAdvice(record *models.PatientRecord, assessment *models.RiskAssessment) []string {
	var advice []string

	switch {
	case record.Age >= 65:
		advice = append(advice, "Focus on fall prevention, bone health, and regular health screenings")
	case record.Age >= 50:
		advice = append(advice, "Prioritize preventive screenings and cardiovascular health monitoring")
	case record.Age >= 35:
		advice = append(advice, "Establish healthy lifestyle patterns to prevent chronic disease development")
	}

	if record.Gender == models.GenderFemale && record.Age >= 50 {
		advice = append(advice, "Consider bone density screening and discuss hormone-related health changes")
	} else if record.Gender == models.GenderMale && record.Age >= 40 {
		advice = append(advice, "Regular cardiovascular monitoring is especially important")
	}

	if assessment.Diabetes.RiskPercentage >= 40 {
		advice = append(advice, "Monitor blood glucose regularly and focus on carbohydrate management")
	}
	if assessment.HeartDisease.RiskPercentage >= 40 {
		advice = append(advice, "Heart-healthy diet with omega-3 fatty acids and regular cardio exercise")
	}
	if assessment.Hypertension.RiskPercentage >= 40 {
		advice = append(advice, "Sodium reduction and stress management techniques are essential")
	}

	return advice
}

func bmiCategory(bmi float64) string {
	switch {
	case bmi < 18.5:
		return "underweight"
	case bmi < 25:
		return "normal weight"
	case bmi < 30:
		return "overweight"
	default:
		return "obese"
	}
}

func bpCategory(systolic, diastolic int) string {
	switch {
	case systolic < 120 && diastolic < 80:
		return "normal"
	case systolic < 130 && diastolic < 80:
		return "elevated"
	case systolic < 140 || diastolic < 90:
		return "stage 1 hypertension"
	default:
		return "stage 2 hypertension"
	}
}
