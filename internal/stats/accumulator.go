package stats

import "math"

// accumulator keeps running moments for one group.
type accumulator struct {
	n     int64
	sum   float64
	sumSq float64
}

func (a *accumulator) add(x float64) {
	a.n++
	a.sum += x
	a.sumSq += x * x
}

func (a *accumulator) mean() float64 {
	return a.sum / float64(a.n)
}

// std returns the standard deviation with ddof delta degrees of freedom.
// Too few observations yield NaN.
func (a *accumulator) std(ddof int) float64 {
	n := float64(a.n)
	ss := a.sumSq - n*a.mean()*a.mean()
	if ss < 0 {
		// rounding noise on constant input
		ss = 0
	}
	return math.Sqrt(ss / (n - float64(ddof)))
}
