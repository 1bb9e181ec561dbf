package enrich

import (
	"context"
	"fmt"

	"wisefido-risk-engine/internal/models"
)

// Noop 降级实现：NLU 服务未配置或不可用时的固定洞察
// 评分结果本身不受影响，只缺少在线分析的实体/关键词部分。
type Noop struct{}

// NewNoop 创建降级实现
func NewNoop() *Noop {
	return &Noop{}
}

func (n *Noop) EnrichAssessment(_ context.Context, record *models.PatientRecord, assessment *models.RiskAssessment) *Insights {
	return &Insights{
		AISummary: fmt.Sprintf(
			"Standard analysis shows %.1f%% maximum risk. Enhanced insights require NLU service configuration.",
			assessment.MaxRiskPercentage()),
		KeyHealthEntities:       []HealthEntity{},
		PriorityRecommendations: priorityRecommendations(record, assessment),
		Sentiment:               SentimentAnalysis{OverallSentiment: "neutral", Confidence: 0.5},
		RiskFactorsIdentified:   []RiskKeyword{},
		PersonalizedAdvice:      personalizedAdvice(record, assessment),
	}
}

func (n *Noop) EnrichPopulation(_ context.Context, summary *models.PopulationSummary) *PopulationInsights {
	return &PopulationInsights{
		TrendAnalysis: fmt.Sprintf(
			"Standard analysis of %d patients completed. NLU service required for trend analysis.",
			summary.TotalPatients),
		Recommendations: []string{
			"Regular health monitoring recommended",
			"Lifestyle modifications based on identified risk factors",
		},
		RiskPatterns: []string{},
	}
}
