package population

import (
	"math/rand"
	"testing"

	"wisefido-risk-engine/internal/models"
	"wisefido-risk-engine/internal/scoring"
	"wisefido-risk-engine/internal/synth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newAggregator(workers int) *Aggregator {
	return NewAggregator(scoring.NewAssessor(zap.NewNop()), workers, zap.NewNop())
}

func TestAggregate_EmptyBatch(t *testing.T) {
	summary, err := newAggregator(4).Aggregate(nil)
	require.NoError(t, err)

	assert.Equal(t, 0, summary.TotalPatients)
	assert.Equal(t, 0, summary.HighRiskPatients)
	assert.Equal(t, 0, summary.RiskDistribution[models.RiskLow])
	assert.Equal(t, 0, summary.RiskDistribution[models.RiskMedium])
	assert.Equal(t, 0, summary.RiskDistribution[models.RiskHigh])

	// 空批次的统计量显式无定义，而不是报错
	for name, m := range summary.Metrics {
		assert.Equal(t, 0, m.Count, name)
		assert.True(t, m.Mean.IsUndefined(), name)
		assert.True(t, m.StdDev.IsUndefined(), name)
	}
	for _, band := range summary.AgeBands {
		assert.Equal(t, 0, band.Patients)
		assert.True(t, band.DiabetesRisk.IsUndefined())
	}
	for _, row := range summary.Correlation {
		for _, v := range row {
			assert.True(t, v.IsUndefined())
		}
	}
}

func TestAggregate_Statistics(t *testing.T) {
	records := synth.Generate(100, 42)
	summary, err := newAggregator(8).Aggregate(records)
	require.NoError(t, err)

	assert.Equal(t, 100, summary.TotalPatients)

	// 等级分布覆盖全部患者
	total := summary.RiskDistribution[models.RiskLow] +
		summary.RiskDistribution[models.RiskMedium] +
		summary.RiskDistribution[models.RiskHigh]
	assert.Equal(t, 100, total)
	assert.GreaterOrEqual(t, summary.HighRiskPatients, summary.RiskDistribution[models.RiskHigh])

	// 描述统计
	age := summary.Metrics["age"]
	assert.Equal(t, 100, age.Count)
	assert.False(t, age.Mean.IsUndefined())
	assert.InDelta(t, 45, float64(age.Mean), 15)
	assert.False(t, age.StdDev.IsUndefined())

	// 年龄段覆盖全部患者
	var banded int
	for _, band := range summary.AgeBands {
		banded += band.Patients
	}
	assert.Equal(t, 100, banded)

	// 相关矩阵：5x5、对称、对角线为 1
	require.Len(t, summary.Correlation, 5)
	assert.Equal(t, []string{"age", "bmi", "systolic_bp", "glucose", "cholesterol"}, summary.CorrelationMetrics)
	for i := range summary.Correlation {
		require.Len(t, summary.Correlation[i], 5)
		assert.InDelta(t, 1.0, float64(summary.Correlation[i][i]), 1e-9)
		for j := range summary.Correlation[i] {
			assert.InDelta(t, float64(summary.Correlation[j][i]), float64(summary.Correlation[i][j]), 1e-9)
			assert.GreaterOrEqual(t, float64(summary.Correlation[i][j]), -1.0-1e-9)
			assert.LessOrEqual(t, float64(summary.Correlation[i][j]), 1.0+1e-9)
		}
	}
}

func TestAggregate_OrderIndependent(t *testing.T) {
	records := synth.Generate(60, 7)
	straight, err := newAggregator(4).Aggregate(records)
	require.NoError(t, err)

	shuffled := make([]models.PatientRecord, len(records))
	copy(shuffled, records)
	rand.New(rand.NewSource(1)).Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	permuted, err := newAggregator(4).Aggregate(shuffled)
	require.NoError(t, err)

	assert.Equal(t, straight.TotalPatients, permuted.TotalPatients)
	assert.Equal(t, straight.HighRiskPatients, permuted.HighRiskPatients)
	assert.Equal(t, straight.RiskDistribution, permuted.RiskDistribution)
	for name, m := range straight.Metrics {
		assert.InDelta(t, float64(m.Mean), float64(permuted.Metrics[name].Mean), 1e-9, name)
		assert.InDelta(t, float64(m.StdDev), float64(permuted.Metrics[name].StdDev), 1e-9, name)
	}
	for i := range straight.Correlation {
		for j := range straight.Correlation[i] {
			assert.InDelta(t, float64(straight.Correlation[i][j]), float64(permuted.Correlation[i][j]), 1e-9)
		}
	}
}

func TestAggregate_ZeroVarianceColumnYieldsUndefined(t *testing.T) {
	// 所有患者年龄相同：age 列零方差，相关性无定义但不报错
	records := synth.Generate(20, 9)
	for i := range records {
		records[i].Age = 40
	}
	summary, err := newAggregator(2).Aggregate(records)
	require.NoError(t, err)

	// age 行与列（含对角线）全部 NaN
	for j := range summary.Correlation[0] {
		assert.True(t, summary.Correlation[0][j].IsUndefined(), "col %d", j)
		assert.True(t, summary.Correlation[j][0].IsUndefined(), "row %d", j)
	}
	// 其余指标之间仍有定义
	assert.False(t, summary.Correlation[1][2].IsUndefined())

	// 均值仍有定义
	assert.InDelta(t, 40, float64(summary.Metrics["age"].Mean), 1e-9)
	assert.InDelta(t, 0, float64(summary.Metrics["age"].StdDev), 1e-9)
}

func TestAggregate_InvalidRecordFailsBatch(t *testing.T) {
	records := synth.Generate(5, 3)
	records[3].SystolicBP = 40 // 越界

	_, err := newAggregator(2).Aggregate(records)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "record 3")
	var verr *models.ValidationError
	assert.ErrorAs(t, err, &verr)
}
