// Package export 把评估结果渲染为可下载的结构化文本 / Excel
//
// 文本格式为缩进的 key/value，字段名与内部 JSON 名一致且跨运行稳定，
// 数值按最短精确形式输出，便于对导出结果做往返核对。
package export

import (
	"fmt"
	"io"
	"sort"
	"strconv"

	"wisefido-risk-engine/internal/models"
)

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func formatStat(s models.Stat) string {
	if s.IsUndefined() {
		return "n/a"
	}
	return formatFloat(float64(s))
}

// WriteAssessment 按稳定字段名输出单患者评估结果
func WriteAssessment(w io.Writer, assessment *models.RiskAssessment) error {
	if _, err := fmt.Fprintln(w, "risk_assessment:"); err != nil {
		return err
	}
	conditions := []struct {
		name string
		c    models.ConditionAssessment
	}{
		{"diabetes", assessment.Diabetes},
		{"heart_disease", assessment.HeartDisease},
		{"hypertension", assessment.Hypertension},
	}
	for _, cond := range conditions {
		fmt.Fprintf(w, "  %s:\n", cond.name)
		fmt.Fprintln(w, "    risk_factors:")
		names := make([]string, 0, len(cond.c.RiskFactors))
		for name := range cond.c.RiskFactors {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(w, "      %s: %s\n", name, formatFloat(cond.c.RiskFactors[name]))
		}
		fmt.Fprintf(w, "    total_score: %s\n", formatFloat(cond.c.TotalScore))
		fmt.Fprintf(w, "    risk_percentage: %s\n", formatFloat(cond.c.RiskPercentage))
		fmt.Fprintf(w, "    risk_level: %s\n", cond.c.RiskLevel)
	}
	return nil
}

// WritePopulationSummary 按稳定字段名输出人群汇总统计
func WritePopulationSummary(w io.Writer, summary *models.PopulationSummary) error {
	if _, err := fmt.Fprintln(w, "population_summary:"); err != nil {
		return err
	}
	fmt.Fprintf(w, "  total_patients: %d\n", summary.TotalPatients)
	fmt.Fprintf(w, "  high_risk_patients: %d\n", summary.HighRiskPatients)

	fmt.Fprintln(w, "  risk_distribution:")
	for _, level := range []models.RiskLevel{models.RiskLow, models.RiskMedium, models.RiskHigh} {
		fmt.Fprintf(w, "    %s: %d\n", level, summary.RiskDistribution[level])
	}

	fmt.Fprintln(w, "  metrics:")
	names := make([]string, 0, len(summary.Metrics))
	for name := range summary.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		m := summary.Metrics[name]
		fmt.Fprintf(w, "    %s:\n", name)
		fmt.Fprintf(w, "      count: %d\n", m.Count)
		fmt.Fprintf(w, "      mean: %s\n", formatStat(m.Mean))
		fmt.Fprintf(w, "      std_dev: %s\n", formatStat(m.StdDev))
	}

	fmt.Fprintln(w, "  age_bands:")
	for _, band := range summary.AgeBands {
		fmt.Fprintf(w, "    %s:\n", band.Band)
		fmt.Fprintf(w, "      patients: %d\n", band.Patients)
		fmt.Fprintf(w, "      diabetes_risk: %s\n", formatStat(band.DiabetesRisk))
		fmt.Fprintf(w, "      heart_disease_risk: %s\n", formatStat(band.HeartDiseaseRisk))
		fmt.Fprintf(w, "      hypertension_risk: %s\n", formatStat(band.HypertensionRisk))
	}

	fmt.Fprintln(w, "  correlation:")
	for i, mi := range summary.CorrelationMetrics {
		for j, mj := range summary.CorrelationMetrics {
			fmt.Fprintf(w, "    %s/%s: %s\n", mi, mj, formatStat(summary.Correlation[i][j]))
		}
	}
	return nil
}
