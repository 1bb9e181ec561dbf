// Package population 实现人群批量评分与汇总统计
//
// 流程：逐条记录跑单患者评估（worker pool 并行，按下标写入，结果与输入顺序无关），
// 然后做一次顺序归约：描述统计、风险等级分布、年龄段平均风险、相关矩阵。
// 每次调用整批重算，不做增量。
package population

import (
	"fmt"
	"sync"

	"wisefido-risk-engine/internal/models"
	"wisefido-risk-engine/internal/scoring"

	"go.uber.org/zap"
)

// 相关矩阵的固定指标集（顺序即矩阵行列顺序）
var correlationMetrics = []string{"age", "bmi", "systolic_bp", "glucose", "cholesterol"}

// 描述统计的关注指标集
var summaryMetrics = []string{
	"age", "bmi", "systolic_bp", "diastolic_bp", "resting_hr",
	"glucose", "cholesterol", "hdl", "ldl", "exercise_days",
}

// 四个固定年龄段：左闭右开，最高段开放
var ageBands = []struct {
	label    string
	min, max int // max 为开区间上界，-1 表示开放
}{
	{"<30", 0, 30},
	{"30-50", 30, 50},
	{"50-70", 50, 70},
	{"70+", 70, -1},
}

// Aggregator 人群聚合器
type Aggregator struct {
	assessor *scoring.Assessor
	workers  int
	logger   *zap.Logger
}

// NewAggregator 创建聚合器
// workers 为批量评分的并发度，<=0 时取 1
func NewAggregator(assessor *scoring.Assessor, workers int, logger *zap.Logger) *Aggregator {
	if workers <= 0 {
		workers = 1
	}
	return &Aggregator{assessor: assessor, workers: workers, logger: logger}
}

// Aggregate 对一批患者记录做整体评估
// 空批次是合法输入：返回零计数、NaN 统计量的汇总，不报错。
// 任一记录评分失败（越界）时整批失败并返回该记录的下标与原因。
func (a *Aggregator) Aggregate(records []models.PatientRecord) (*models.PopulationSummary, error) {
	assessments, err := a.assessAll(records)
	if err != nil {
		return nil, err
	}
	summary := reduce(records, assessments)

	a.logger.Info("population aggregated",
		zap.Int("total_patients", summary.TotalPatients),
		zap.Int("high_risk_patients", summary.HighRiskPatients),
	)
	return summary, nil
}

// assessAll 并行评分，结果按输入下标写入（无锁、顺序无关）
func (a *Aggregator) assessAll(records []models.PatientRecord) ([]*models.RiskAssessment, error) {
	results := make([]*models.RiskAssessment, len(records))
	errs := make([]error, len(records))

	workers := a.workers
	if workers > len(records) {
		workers = len(records)
	}
	if workers == 0 {
		return results, nil
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i], errs[i] = a.assessor.Assess(&records[i])
			}
		}()
	}
	for i := range records {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
	}
	return results, nil
}

// reduce 顺序归约：所有统计量都是顺序无关的标准归约
func reduce(records []models.PatientRecord, assessments []*models.RiskAssessment) *models.PopulationSummary {
	summary := &models.PopulationSummary{
		TotalPatients: len(records),
		RiskDistribution: map[models.RiskLevel]int{
			models.RiskLow:    0,
			models.RiskMedium: 0,
			models.RiskHigh:   0,
		},
		Metrics:            make(map[string]models.MetricStats, len(summaryMetrics)),
		CorrelationMetrics: correlationMetrics,
	}

	// 按指标名抽取列
	columns := make(map[string][]float64, len(summaryMetrics))
	for _, r := range records {
		columns["age"] = append(columns["age"], float64(r.Age))
		columns["bmi"] = append(columns["bmi"], r.BMI())
		columns["systolic_bp"] = append(columns["systolic_bp"], float64(r.SystolicBP))
		columns["diastolic_bp"] = append(columns["diastolic_bp"], float64(r.DiastolicBP))
		columns["resting_hr"] = append(columns["resting_hr"], float64(r.RestingHR))
		columns["glucose"] = append(columns["glucose"], r.Glucose)
		columns["cholesterol"] = append(columns["cholesterol"], r.Cholesterol)
		columns["hdl"] = append(columns["hdl"], r.HDL)
		columns["ldl"] = append(columns["ldl"], r.LDL)
		columns["exercise_days"] = append(columns["exercise_days"], float64(r.ExerciseDays))
	}
	for _, name := range summaryMetrics {
		col := columns[name]
		summary.Metrics[name] = models.MetricStats{
			Count:  len(col),
			Mean:   models.Stat(mean(col)),
			StdDev: models.Stat(stdDev(col)),
		}
	}

	// 风险等级分布与高危人数
	for _, assessment := range assessments {
		summary.RiskDistribution[assessment.OverallLevel()]++
		if assessment.MaxRiskPercentage() >= 70 {
			summary.HighRiskPatients++
		}
	}

	// 年龄段平均风险
	for _, band := range ageBands {
		var diabetes, heart, hypertension []float64
		for i, r := range records {
			if r.Age < band.min || (band.max >= 0 && r.Age >= band.max) {
				continue
			}
			diabetes = append(diabetes, assessments[i].Diabetes.RiskPercentage)
			heart = append(heart, assessments[i].HeartDisease.RiskPercentage)
			hypertension = append(hypertension, assessments[i].Hypertension.RiskPercentage)
		}
		summary.AgeBands = append(summary.AgeBands, models.AgeBandRisk{
			Band:             band.label,
			Patients:         len(diabetes),
			DiabetesRisk:     models.Stat(mean(diabetes)),
			HeartDiseaseRisk: models.Stat(mean(heart)),
			HypertensionRisk: models.Stat(mean(hypertension)),
		})
	}

	// 固定五项指标的 Pearson 相关矩阵
	summary.Correlation = make([][]models.Stat, len(correlationMetrics))
	for i, mi := range correlationMetrics {
		summary.Correlation[i] = make([]models.Stat, len(correlationMetrics))
		for j, mj := range correlationMetrics {
			summary.Correlation[i][j] = models.Stat(pearson(columns[mi], columns[mj]))
		}
	}
	return summary
}
