// Package scoring 实现确定性的规则加权风险评分
//
// 评分流程：
// - 三个病种评分器（糖尿病/心脏病/高血压）各自把患者记录映射为一组带权子分
// - 子分求和后经 sigmoid 归一化为 0-100 的风险百分比
// - 百分比按固定阈值（>=70 High，>=40 Medium，否则 Low）分级
//
// 所有函数均为纯函数，无共享可变状态，可安全并发调用。
package scoring

import "math"

// 各病种的 sigmoid 陡峭度（与既有评分行为对齐，不可改动）
const (
	diabetesScale     = 8.0
	heartDiseaseScale = 10.0
	hypertensionScale = 8.0
)

// Normalize 把无界的原始分映射为 [0,100) 的百分比
// 公式：100 / (1 + e^(-score/scale))。score=0 映射为 50，单调递增。
// 使用分段形式避免大负分时 e^x 上溢。
func Normalize(score, scale float64) float64 {
	x := score / scale
	if x >= 0 {
		return 100 / (1 + math.Exp(-x))
	}
	// x < 0 时 e^(-x) 可能上溢，改用等价形式 100*e^x / (1+e^x)
	ex := math.Exp(x)
	return 100 * ex / (1 + ex)
}
