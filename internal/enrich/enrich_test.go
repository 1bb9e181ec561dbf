package enrich

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"wisefido-risk-engine/internal/models"
	"wisefido-risk-engine/internal/scoring"
	"wisefido-risk-engine/internal/synth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func assessedPatient(t *testing.T) (*models.PatientRecord, *models.RiskAssessment) {
	t.Helper()
	records := synth.Generate(1, 42)
	assessment, err := scoring.NewAssessor(zap.NewNop()).Assess(&records[0])
	require.NoError(t, err)
	return &records[0], assessment
}

func TestNoop_EnrichAssessment(t *testing.T) {
	record, assessment := assessedPatient(t)

	insights := NewNoop().EnrichAssessment(context.Background(), record, assessment)
	require.NotNil(t, insights)
	assert.Contains(t, insights.AISummary, "maximum risk")
	assert.Equal(t, "neutral", insights.Sentiment.OverallSentiment)
	assert.NotNil(t, insights.KeyHealthEntities)
	assert.Empty(t, insights.KeyHealthEntities)
	// 规则建议仍然生成（不依赖在线服务）
	assert.NotNil(t, insights.PriorityRecommendations)
}

func TestClient_EnrichAssessment(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/analyze", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"entities": [
				{"text": "hypertension", "type": "HealthCondition", "relevance": 0.9, "sentiment": {"label": "negative"}},
				{"text": "weather", "type": "Other", "relevance": 0.1, "sentiment": {"label": "neutral"}}
			],
			"keywords": [
				{"text": "blood pressure", "relevance": 0.8, "sentiment": {"label": "negative"}},
				{"text": "walk", "relevance": 0.2, "sentiment": {"label": "positive"}}
			],
			"sentiment": {"document": {"label": "negative", "score": 0.7}}
		}`))
	}))
	defer server.Close()

	record, assessment := assessedPatient(t)
	client := NewClient(server.URL, "test-key", 5*time.Second, zap.NewNop())

	insights := client.EnrichAssessment(context.Background(), record, assessment)
	require.NotNil(t, insights)

	// 低相关度且非健康类型的实体被过滤
	require.Len(t, insights.KeyHealthEntities, 1)
	assert.Equal(t, "hypertension", insights.KeyHealthEntities[0].Entity)
	assert.Equal(t, "negative", insights.KeyHealthEntities[0].Sentiment)

	require.Len(t, insights.RiskFactorsIdentified, 1)
	assert.Equal(t, "blood pressure", insights.RiskFactorsIdentified[0].Factor)

	assert.Equal(t, "negative", insights.Sentiment.OverallSentiment)
	assert.Contains(t, insights.AISummary, "hypertension")
}

func TestClient_FallsBackOnServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	record, assessment := assessedPatient(t)
	client := NewClient(server.URL, "", 2*time.Second, zap.NewNop())

	// 服务故障不向上抛错，返回与 Noop 一致的降级结果
	insights := client.EnrichAssessment(context.Background(), record, assessment)
	require.NotNil(t, insights)
	assert.Contains(t, insights.AISummary, "Enhanced insights require NLU service configuration")

	want := NewNoop().EnrichAssessment(context.Background(), record, assessment)
	assert.Equal(t, want, insights)
}

func TestClient_FallsBackWhenUnreachable(t *testing.T) {
	record, assessment := assessedPatient(t)
	client := NewClient("http://127.0.0.1:1", "", 500*time.Millisecond, zap.NewNop())

	insights := client.EnrichAssessment(context.Background(), record, assessment)
	require.NotNil(t, insights)
	assert.Contains(t, insights.AISummary, "Standard analysis")
}

func TestClient_EnrichPopulation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"keywords": [
				{"text": "obesity", "relevance": 0.9},
				{"text": "minor note", "relevance": 0.3}
			],
			"sentiment": {"document": {"label": "negative", "score": 0.6}}
		}`))
	}))
	defer server.Close()

	summary := &models.PopulationSummary{
		TotalPatients: 10,
		Metrics: map[string]models.MetricStats{
			"bmi":     {Count: 10, Mean: 27.5},
			"glucose": {Count: 10, Mean: 98},
		},
	}
	client := NewClient(server.URL, "", 2*time.Second, zap.NewNop())

	insights := client.EnrichPopulation(context.Background(), summary)
	require.NotNil(t, insights)
	assert.Equal(t, []string{"obesity"}, insights.RiskPatterns)
	assert.NotEmpty(t, insights.Recommendations)
}

func TestHealthSummaryText(t *testing.T) {
	record, assessment := assessedPatient(t)
	record.Smoking = models.SmokingCurrent
	record.FamilyDiabetes = true

	text := healthSummaryText(record, assessment)
	assert.Contains(t, text, "current smoker")
	assert.Contains(t, text, "Family history includes diabetes")
	assert.Contains(t, text, "diabetes risk")
}
