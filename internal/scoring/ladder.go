package scoring

// rung 阶梯规则的一级：值达到 atLeast 时取 weight
type rung struct {
	atLeast float64
	weight  float64
}

// ladder 有序阈值表（从高到低声明），取值满足的最高一级
// 把嵌套 if/elif 的阈值判断改写成数据驱动的查表，便于逐级核对断点和权重。
type ladder []rung

// weight 返回 v 满足的最高一级的权重，全部不满足时为 0
func (l ladder) weight(v float64) float64 {
	for _, r := range l {
		if v >= r.atLeast {
			return r.weight
		}
	}
	return 0
}
