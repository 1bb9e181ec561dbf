package scoring

import (
	"fmt"
	"sync"

	"wisefido-risk-engine/internal/models"

	"go.uber.org/zap"
)

// Assessor 单患者综合评估器
// 运行三个病种评分器并组装统一结果。评分器之间无共享状态，直接并发执行。
type Assessor struct {
	logger *zap.Logger
}

// NewAssessor 创建评估器
func NewAssessor(logger *zap.Logger) *Assessor {
	return &Assessor{logger: logger}
}

// Assess 评估单个患者
// 记录越界时返回 *models.ValidationError，不做任何评分（绝不代入默认值产生误导分数）。
// 对同一记录重复调用结果逐位一致（纯函数，无隐藏状态）。
func (a *Assessor) Assess(record *models.PatientRecord) (*models.RiskAssessment, error) {
	if record == nil {
		return nil, fmt.Errorf("assess: record is nil")
	}
	if err := record.Validate(); err != nil {
		return nil, err
	}

	result := &models.RiskAssessment{}

	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		result.Diabetes = ScoreDiabetes(record)
	}()
	go func() {
		defer wg.Done()
		result.HeartDisease = ScoreHeartDisease(record)
	}()
	go func() {
		defer wg.Done()
		result.Hypertension = ScoreHypertension(record)
	}()
	wg.Wait()

	a.logger.Debug("patient assessed",
		zap.Float64("diabetes_pct", result.Diabetes.RiskPercentage),
		zap.Float64("heart_disease_pct", result.HeartDisease.RiskPercentage),
		zap.Float64("hypertension_pct", result.Hypertension.RiskPercentage),
		zap.String("overall_level", string(result.OverallLevel())),
	)

	return result, nil
}
