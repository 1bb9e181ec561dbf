package models

import (
	"math"
	"strconv"
)

// Stat 可能无定义的统计量
// 空批次的均值、零方差列的相关系数没有定义，内部用 NaN 表示；
// JSON 序列化为 null（encoding/json 不接受 NaN），反序列化时 null 还原为 NaN。
type Stat float64

// IsUndefined 统计量是否无定义
func (s Stat) IsUndefined() bool {
	return math.IsNaN(float64(s))
}

// UndefinedStat 无定义的统计量
func UndefinedStat() Stat {
	return Stat(math.NaN())
}

func (s Stat) MarshalJSON() ([]byte, error) {
	if s.IsUndefined() {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatFloat(float64(s), 'g', -1, 64)), nil
}

func (s *Stat) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*s = UndefinedStat()
		return nil
	}
	v, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return err
	}
	*s = Stat(v)
	return nil
}

// MetricStats 单项指标的描述统计
type MetricStats struct {
	Count  int  `json:"count"`
	Mean   Stat `json:"mean"`
	StdDev Stat `json:"std_dev"`
}

// AgeBandRisk 年龄段平均风险
// 四个固定年龄段：<30、30-50、50-70、70+（左闭右开，最高段开放）
type AgeBandRisk struct {
	Band             string `json:"band"`
	Patients         int    `json:"patients"`
	DiabetesRisk     Stat   `json:"diabetes_risk"`
	HeartDiseaseRisk Stat   `json:"heart_disease_risk"`
	HypertensionRisk Stat   `json:"hypertension_risk"`
}

// PopulationSummary 人群汇总统计
// 每次上传整批重算，不做增量。
type PopulationSummary struct {
	TotalPatients    int `json:"total_patients"`
	HighRiskPatients int `json:"high_risk_patients"` // 任一病种 >=70% 的患者数

	// 整体风险等级分布（每位患者取最高风险病种的等级）
	RiskDistribution map[RiskLevel]int `json:"risk_distribution"`

	// 各关注指标的描述统计
	Metrics map[string]MetricStats `json:"metrics"`

	// 年龄段平均风险
	AgeBands []AgeBandRisk `json:"age_bands"`

	// 固定五项指标的 Pearson 相关矩阵（顺序与 CorrelationMetrics 对应）
	CorrelationMetrics []string `json:"correlation_metrics"`
	Correlation        [][]Stat `json:"correlation"`
}
