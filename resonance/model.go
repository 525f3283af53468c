// model.go
package resonance

import "math"

// 他構造のスペクトル幅 [nm]
const fixedWidth = 15.0

// Result は1回の計算結果。Reflectance[i] + Transmittance[i] == 1。
type Result struct {
	Wavelengths    Grid
	Reflectance    []float64
	Transmittance  []float64
	PeakWavelength float64 // nm
	Width          float64 // nm（ガウス幅）
}

// ParameterSet は UI 側で集めた入力一式。計算前に組み立てて渡す。
type ParameterSet struct {
	Structure       Structure
	Analyte         string
	RefractiveIndex float64
}

// NewParameterSet は検体名を屈折率に解決して ParameterSet を作る。
func NewParameterSet(s Structure, analyte string) (ParameterSet, error) {
	ri, ok := LookupAnalyte(analyte)
	if !ok {
		return ParameterSet{}, invalid("analyte", math.NaN(), "unknown analyte %q", analyte)
	}
	return ParameterSet{Structure: s, Analyte: analyte, RefractiveIndex: ri}, nil
}

// Compute は ps の内容で Compute を呼ぶ。
func (ps ParameterSet) Compute(g Grid) (Result, error) {
	return Compute(g, ps.RefractiveIndex, ps.Structure)
}

// Compute はピーク波長を求め、その周りのガウス型反射率と透過率を返す。
// 入力が不正なら ErrInvalidParameter を包んだエラーを返し、結果は作らない。
func Compute(g Grid, ri float64, s Structure) (Result, error) {
	if err := g.validate(); err != nil {
		return Result{}, err
	}
	peak, width, err := Peak(ri, s)
	if err != nil {
		return Result{}, err
	}

	wl := make(Grid, len(g))
	copy(wl, g)
	refl := make([]float64, len(g))
	trans := make([]float64, len(g))
	den := 2 * (width * width)
	for i, w := range wl {
		d := w - peak
		refl[i] = math.Exp(-(d * d) / den)
		trans[i] = 1 - refl[i]
	}

	return Result{
		Wavelengths:    wl,
		Reflectance:    refl,
		Transmittance:  trans,
		PeakWavelength: peak,
		Width:          width,
	}, nil
}

// Peak はピーク波長 [nm] とスペクトル幅 [nm] を返す。
//
// Bragg は ri を使わない（屈折率依存を足すかは未決）。
func Peak(ri float64, s Structure) (peak, width float64, err error) {
	if !finite(ri) || ri <= 0 {
		return 0, 0, invalid("refractive_index", ri, "must be positive and finite")
	}
	if s == nil {
		return 0, 0, invalid("structure", math.NaN(), "no structure given")
	}

	switch v := s.(type) {
	case Grating:
		if err := v.Validate(); err != nil {
			return 0, 0, err
		}
		return v.Periodicity * (ri / 1.5), 10 + v.Periodicity*0.02, nil
	case Ring:
		if err := v.Validate(); err != nil {
			return 0, 0, err
		}
		return (2 * math.Pi * v.RingRadius * ri) / (1 + v.CouplingCoefficient), fixedWidth, nil
	case FabryPerot:
		if err := v.Validate(); err != nil {
			return 0, 0, err
		}
		return 2 * v.CavityLength * ri / (1 - v.MirrorReflectivity), fixedWidth, nil
	case Bragg:
		if err := v.Validate(); err != nil {
			return 0, 0, err
		}
		return 4 * v.LayerThickness * v.IndexContrast, fixedWidth, nil
	default:
		return 0, 0, invalid("structure", math.NaN(), "unrecognized structure variant %T", s)
	}
}

// PeakIndex は反射率が最大のサンプル添字（同値なら先頭）。空なら -1。
func (r Result) PeakIndex() int {
	best := -1
	for i, v := range r.Reflectance {
		if best < 0 || v > r.Reflectance[best] {
			best = i
		}
	}
	return best
}

// InGrid はピーク波長がグリッド範囲内かどうか。
func (r Result) InGrid() bool {
	n := len(r.Wavelengths)
	if n == 0 {
		return false
	}
	return r.Wavelengths[0] <= r.PeakWavelength && r.PeakWavelength <= r.Wavelengths[n-1]
}
