package enrich

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"wisefido-risk-engine/internal/models"
)

// analyzeRequest NLU 分析请求
type analyzeRequest struct {
	Text     string          `json:"text"`
	Features analyzeFeatures `json:"features"`
}

type analyzeFeatures struct {
	Entities  *entitiesOptions `json:"entities,omitempty"`
	Keywords  *keywordsOptions `json:"keywords,omitempty"`
	Sentiment *struct{}        `json:"sentiment,omitempty"`
}

type entitiesOptions struct {
	Limit     int  `json:"limit"`
	Sentiment bool `json:"sentiment"`
}

type keywordsOptions struct {
	Limit     int  `json:"limit"`
	Sentiment bool `json:"sentiment"`
}

// analyzeResponse NLU 分析响应
type analyzeResponse struct {
	Entities []struct {
		Text      string  `json:"text"`
		Type      string  `json:"type"`
		Relevance float64 `json:"relevance"`
		Sentiment struct {
			Label string `json:"label"`
		} `json:"sentiment"`
	} `json:"entities"`
	Keywords []struct {
		Text      string  `json:"text"`
		Relevance float64 `json:"relevance"`
		Sentiment struct {
			Label string `json:"label"`
		} `json:"sentiment"`
	} `json:"keywords"`
	Sentiment struct {
		Document struct {
			Label string  `json:"label"`
			Score float64 `json:"score"`
		} `json:"document"`
	} `json:"sentiment"`
}

// Client NLU 服务客户端
// 调用失败时返回与 Noop 相同的降级结果（错误只记日志，不向上传播）。
type Client struct {
	httpClient *resty.Client
	fallback   *Noop
	logger     *zap.Logger
}

// NewClient 创建 NLU 客户端
func NewClient(baseURL, apiKey string, timeout time.Duration, logger *zap.Logger) *Client {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(2 * time.Second).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	if apiKey != "" {
		client.SetHeader("Authorization", "Bearer "+apiKey)
	}
	return &Client{
		httpClient: client,
		fallback:   NewNoop(),
		logger:     logger,
	}
}

func (c *Client) EnrichAssessment(ctx context.Context, record *models.PatientRecord, assessment *models.RiskAssessment) *Insights {
	response, err := c.analyze(ctx, healthSummaryText(record, assessment), true)
	if err != nil {
		c.logger.Warn("NLU analysis unavailable, using fallback insights", zap.Error(err))
		return c.fallback.EnrichAssessment(ctx, record, assessment)
	}

	insights := &Insights{
		KeyHealthEntities:       []HealthEntity{},
		PriorityRecommendations: priorityRecommendations(record, assessment),
		RiskFactorsIdentified:   []RiskKeyword{},
		PersonalizedAdvice:      personalizedAdvice(record, assessment),
		Sentiment: SentimentAnalysis{
			OverallSentiment: response.Sentiment.Document.Label,
			Confidence:       response.Sentiment.Document.Score,
		},
	}

	for _, entity := range response.Entities {
		if entity.Type == "HealthCondition" || entity.Type == "Medicine" || entity.Type == "Anatomy" || entity.Relevance > 0.7 {
			insights.KeyHealthEntities = append(insights.KeyHealthEntities, HealthEntity{
				Entity:    entity.Text,
				Type:      entity.Type,
				Relevance: entity.Relevance,
				Sentiment: sentimentLabel(entity.Sentiment.Label),
			})
		}
	}
	for _, keyword := range response.Keywords {
		if keyword.Relevance > 0.5 {
			insights.RiskFactorsIdentified = append(insights.RiskFactorsIdentified, RiskKeyword{
				Factor:    keyword.Text,
				Relevance: keyword.Relevance,
				Sentiment: sentimentLabel(keyword.Sentiment.Label),
			})
		}
	}

	insights.AISummary = c.buildSummary(record, assessment, insights)
	return insights
}

func (c *Client) EnrichPopulation(ctx context.Context, summary *models.PopulationSummary) *PopulationInsights {
	text := populationSummaryText(summary)
	response, err := c.analyze(ctx, text, false)
	if err != nil {
		c.logger.Warn("NLU population analysis unavailable, using fallback", zap.Error(err))
		return c.fallback.EnrichPopulation(ctx, summary)
	}

	insights := &PopulationInsights{
		TrendAnalysis: "NLU-assisted population analysis completed",
		Recommendations: []string{
			"Implement targeted interventions based on identified risk patterns",
			"Focus on high-prevalence conditions in population",
			"Develop preventive care programs for at-risk groups",
		},
		RiskPatterns: []string{},
	}
	for _, keyword := range response.Keywords {
		if keyword.Relevance > 0.6 {
			insights.RiskPatterns = append(insights.RiskPatterns, keyword.Text)
		}
	}
	return insights
}

func (c *Client) analyze(ctx context.Context, text string, withEntities bool) (*analyzeResponse, error) {
	request := analyzeRequest{
		Text: text,
		Features: analyzeFeatures{
			Keywords:  &keywordsOptions{Limit: 15, Sentiment: true},
			Sentiment: &struct{}{},
		},
	}
	if withEntities {
		request.Features.Entities = &entitiesOptions{Limit: 10, Sentiment: true}
		request.Features.Keywords.Limit = 10
	}

	var response analyzeResponse
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(request).
		SetResult(&response).
		Post("/v1/analyze")
	if err != nil {
		return nil, fmt.Errorf("failed to call NLU service: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("NLU service returned status %d", resp.StatusCode())
	}
	return &response, nil
}

func (c *Client) buildSummary(record *models.PatientRecord, assessment *models.RiskAssessment, insights *Insights) string {
	overall := "low"
	switch {
	case assessment.MaxRiskPercentage() >= 70:
		overall = "high"
	case assessment.MaxRiskPercentage() >= 40:
		overall = "moderate"
	}

	summary := fmt.Sprintf("NLU analysis: this %d-year-old %s presents with %s overall health risk. ",
		record.Age, strings.ToLower(record.Gender), overall)

	switch insights.Sentiment.OverallSentiment {
	case "negative":
		summary += "Multiple concerning risk factors identified requiring immediate attention. "
	case "positive":
		summary += "Generally positive health profile with opportunities for optimization. "
	}

	var entities []string
	for i, entity := range insights.KeyHealthEntities {
		if i == 3 {
			break
		}
		entities = append(entities, entity.Entity)
	}
	if len(entities) > 0 {
		summary += "Key health factors identified: " + strings.Join(entities, ", ") + ". "
	}

	summary += fmt.Sprintf("Primary recommendations focus on %d critical areas for health improvement.",
		len(insights.PriorityRecommendations))
	return summary
}

func populationSummaryText(summary *models.PopulationSummary) string {
	text := fmt.Sprintf("Population health analysis of %d patients. ", summary.TotalPatients)
	if bmi, ok := summary.Metrics["bmi"]; ok && !bmi.Mean.IsUndefined() {
		text += fmt.Sprintf("Average BMI is %.1f. ", float64(bmi.Mean))
	}
	if glucose, ok := summary.Metrics["glucose"]; ok && !glucose.Mean.IsUndefined() {
		text += fmt.Sprintf("Average glucose level is %.1f mg/dL. ", float64(glucose.Mean))
	}
	text += fmt.Sprintf("%d patients show a high risk profile.", summary.HighRiskPatients)
	return text
}

func sentimentLabel(label string) string {
	if label == "" {
		return "neutral"
	}
	return label
}
