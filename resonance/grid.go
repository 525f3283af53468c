// grid.go
package resonance

import "math"

// 既定の波長グリッド [nm]
const (
	GridStart  = 300.0
	GridStop   = 700.0
	GridPoints = 401
)

// Grid は等間隔の波長サンプル列 [nm]。
type Grid []float64

// DefaultGrid は 300〜700 nm を 401 点で返す。毎回新しい slice を返す。
func DefaultGrid() Grid {
	g, err := NewGrid(GridStart, GridStop, GridPoints)
	if err != nil {
		panic(err)
	}
	return g
}

// NewGrid は start から stop まで（両端含む）n 点の等間隔グリッドを作る。
// 値は start + i*step、最後の点だけは stop をそのまま入れる。
func NewGrid(start, stop float64, n int) (Grid, error) {
	if !finite(start) {
		return nil, invalid("grid_start", start, "must be finite")
	}
	if !finite(stop) {
		return nil, invalid("grid_stop", stop, "must be finite")
	}
	if n < 2 {
		return nil, invalid("grid_points", float64(n), "need at least 2 points")
	}
	if stop <= start {
		return nil, invalid("grid_stop", stop, "must be greater than start %g", start)
	}

	step := (stop - start) / float64(n-1)
	g := make(Grid, n)
	for i := range g {
		g[i] = start + float64(i)*step
	}
	g[n-1] = stop
	return g, nil
}

// NearestIndex は w に最も近いサンプルの添字を返す。同距離なら小さい方。
func NearestIndex(g Grid, w float64) int {
	best := -1
	bestD := math.Inf(1)
	for i, x := range g {
		d := math.Abs(x - w)
		if d < bestD {
			best, bestD = i, d
		}
	}
	return best
}

func (g Grid) validate() error {
	if len(g) == 0 {
		return invalid("grid", 0, "empty wavelength grid")
	}
	for _, w := range g {
		if !finite(w) {
			return invalid("grid", w, "wavelength must be finite")
		}
	}
	return nil
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
