// structure.go
package resonance

import (
	"fmt"
	"math"
	"strings"
)

// Kind は光学構造の種類。
type Kind int

const (
	KindGrating Kind = iota
	KindRing
	KindFabryPerot
	KindBragg
)

// Kinds は全種類（表示順）。
var Kinds = []Kind{KindGrating, KindRing, KindFabryPerot, KindBragg}

func (k Kind) String() string {
	switch k {
	case KindGrating:
		return "1D Grating"
	case KindRing:
		return "Ring Resonator"
	case KindFabryPerot:
		return "Fabry-Pérot Resonator"
	case KindBragg:
		return "Bragg Stack"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Short は CLI 用の短い名前。
func (k Kind) Short() string {
	switch k {
	case KindGrating:
		return "grating"
	case KindRing:
		return "ring"
	case KindFabryPerot:
		return "fabry-perot"
	case KindBragg:
		return "bragg"
	default:
		return ""
	}
}

// ParseKind は短い名前・表示名のどちらも受け付ける（大文字小文字は無視）。
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "grating", "1d grating", "1d-grating":
		return KindGrating, nil
	case "ring", "ring resonator", "ring-resonator":
		return KindRing, nil
	case "fabry-perot", "fp", "fabry-pérot resonator", "fabry-perot resonator", "fabry-pérot":
		return KindFabryPerot, nil
	case "bragg", "bragg stack", "bragg-stack":
		return KindBragg, nil
	}
	return 0, fmt.Errorf("%w: unknown structure %q", ErrInvalidParameter, s)
}

// Param はスライダー1本分のメタ情報（範囲・既定値・刻み）。
type Param struct {
	Key     string
	Label   string
	Min     float64
	Max     float64
	Default float64
	Step    float64
	// Max を含まない（反射率 1.0 はゼロ割になる）
	MaxExclusive bool
	Integer      bool
}

// パラメータキー
const (
	KeyGratingHeight       = "grating_height"
	KeyWaveguideThickness  = "waveguide_thickness"
	KeyPeriodicity         = "periodicity"
	KeyRingRadius          = "ring_radius"
	KeyCouplingCoefficient = "coupling_coefficient"
	KeyWaveguideWidth      = "waveguide_width"
	KeyCavityLength        = "cavity_length"
	KeyMirrorReflectivity  = "mirror_reflectivity"
	KeyLayerCount          = "layer_count"
	KeyLayerThickness      = "layer_thickness"
	KeyRIContrast          = "ri_contrast"
)

var params = map[Kind][]Param{
	KindGrating: {
		{Key: KeyGratingHeight, Label: "Grating Height (µm)", Min: 0.1, Max: 2.0, Default: 0.3, Step: 0.05},
		{Key: KeyWaveguideThickness, Label: "Waveguide Thickness (µm)", Min: 0.2, Max: 2.0, Default: 0.5, Step: 0.1},
		{Key: KeyPeriodicity, Label: "Periodicity (nm)", Min: 200, Max: 1200, Default: 500, Step: 50},
	},
	KindRing: {
		{Key: KeyRingRadius, Label: "Ring Radius (µm)", Min: 2.0, Max: 20.0, Default: 5.0, Step: 0.5},
		{Key: KeyCouplingCoefficient, Label: "Coupling Coefficient", Min: 0.1, Max: 1.0, Default: 0.5, Step: 0.05},
		{Key: KeyWaveguideWidth, Label: "Waveguide Width (µm)", Min: 0.2, Max: 2.0, Default: 0.5, Step: 0.1},
	},
	KindFabryPerot: {
		{Key: KeyCavityLength, Label: "Cavity Length (µm)", Min: 1.0, Max: 10.0, Default: 5.0, Step: 0.5},
		{Key: KeyMirrorReflectivity, Label: "Mirror Reflectivity", Min: 0.5, Max: 1.0, Default: 0.95, Step: 0.01, MaxExclusive: true},
		{Key: KeyWaveguideThickness, Label: "Waveguide Thickness (µm)", Min: 0.2, Max: 2.0, Default: 0.5, Step: 0.1},
	},
	KindBragg: {
		{Key: KeyLayerCount, Label: "Number of Layers", Min: 2, Max: 10, Default: 5, Step: 1, Integer: true},
		{Key: KeyLayerThickness, Label: "Layer Thickness (nm)", Min: 50, Max: 500, Default: 200, Step: 10},
		{Key: KeyRIContrast, Label: "Refractive Index Contrast", Min: 0.1, Max: 1.0, Default: 0.5, Step: 0.05},
	},
}

// Params は kind のパラメータ一覧のコピーを返す。未知の kind なら nil。
func Params(k Kind) []Param {
	ps, ok := params[k]
	if !ok {
		return nil
	}
	out := make([]Param, len(ps))
	copy(out, ps)
	return out
}

func lookupParam(k Kind, key string) Param {
	for _, p := range params[k] {
		if p.Key == key {
			return p
		}
	}
	panic("no param " + key + " for " + k.String())
}

// check は範囲・有限性・整数性を確かめる。
func (p Param) check(v float64) error {
	if !finite(v) {
		return invalid(p.Key, v, "must be finite")
	}
	if v < p.Min {
		return invalid(p.Key, v, "below minimum %g", p.Min)
	}
	if p.MaxExclusive && v >= p.Max {
		return invalid(p.Key, v, "must be strictly less than %g", p.Max)
	}
	if v > p.Max {
		return invalid(p.Key, v, "above maximum %g", p.Max)
	}
	if p.Integer && v != math.Trunc(v) {
		return invalid(p.Key, v, "must be an integer")
	}
	return nil
}

// Structure は4種類の光学構造のどれか。実装はこのパッケージ内の型だけ。
type Structure interface {
	Kind() Kind
	Validate() error
	Values() map[string]float64
	isStructure()
}

// Grating は 1D グレーティング。
type Grating struct {
	GratingHeight      float64 // µm
	WaveguideThickness float64 // µm
	Periodicity        float64 // nm
}

// Ring はリング共振器。
type Ring struct {
	RingRadius          float64 // µm
	CouplingCoefficient float64
	WaveguideWidth      float64 // µm
}

// FabryPerot はファブリ・ペロー共振器。
type FabryPerot struct {
	CavityLength       float64 // µm
	MirrorReflectivity float64 // < 1
	WaveguideThickness float64 // µm
}

// Bragg はブラッグ積層。
type Bragg struct {
	LayerCount     int
	LayerThickness float64 // nm
	IndexContrast  float64
}

func (Grating) Kind() Kind    { return KindGrating }
func (Ring) Kind() Kind       { return KindRing }
func (FabryPerot) Kind() Kind { return KindFabryPerot }
func (Bragg) Kind() Kind      { return KindBragg }

func (Grating) isStructure()    {}
func (Ring) isStructure()       {}
func (FabryPerot) isStructure() {}
func (Bragg) isStructure()      {}

func (s Grating) Values() map[string]float64 {
	return map[string]float64{
		KeyGratingHeight:      s.GratingHeight,
		KeyWaveguideThickness: s.WaveguideThickness,
		KeyPeriodicity:        s.Periodicity,
	}
}

func (s Ring) Values() map[string]float64 {
	return map[string]float64{
		KeyRingRadius:          s.RingRadius,
		KeyCouplingCoefficient: s.CouplingCoefficient,
		KeyWaveguideWidth:      s.WaveguideWidth,
	}
}

func (s FabryPerot) Values() map[string]float64 {
	return map[string]float64{
		KeyCavityLength:       s.CavityLength,
		KeyMirrorReflectivity: s.MirrorReflectivity,
		KeyWaveguideThickness: s.WaveguideThickness,
	}
}

func (s Bragg) Values() map[string]float64 {
	return map[string]float64{
		KeyLayerCount:     float64(s.LayerCount),
		KeyLayerThickness: s.LayerThickness,
		KeyRIContrast:     s.IndexContrast,
	}
}

func (s Grating) Validate() error    { return validateValues(KindGrating, s.Values()) }
func (s Ring) Validate() error       { return validateValues(KindRing, s.Values()) }
func (s FabryPerot) Validate() error { return validateValues(KindFabryPerot, s.Values()) }
func (s Bragg) Validate() error      { return validateValues(KindBragg, s.Values()) }

// パラメータ表の順に検査する（エラーは最初の1件だけ）
func validateValues(k Kind, x map[string]float64) error {
	for _, p := range params[k] {
		if err := p.check(x[p.Key]); err != nil {
			return err
		}
	}
	return nil
}

// Build は key→値 の map から構造を組み立てて検証する。
// 余分なキーは無視、足りないキーはエラー。
func Build(k Kind, x map[string]float64) (Structure, error) {
	ps, ok := params[k]
	if !ok {
		return nil, invalid("structure", float64(k), "unrecognized structure variant")
	}
	for _, p := range ps {
		if _, ok := x[p.Key]; !ok {
			return nil, invalid(p.Key, math.NaN(), "missing for %s", k)
		}
	}

	var s Structure
	switch k {
	case KindGrating:
		s = Grating{
			GratingHeight:      x[KeyGratingHeight],
			WaveguideThickness: x[KeyWaveguideThickness],
			Periodicity:        x[KeyPeriodicity],
		}
	case KindRing:
		s = Ring{
			RingRadius:          x[KeyRingRadius],
			CouplingCoefficient: x[KeyCouplingCoefficient],
			WaveguideWidth:      x[KeyWaveguideWidth],
		}
	case KindFabryPerot:
		s = FabryPerot{
			CavityLength:       x[KeyCavityLength],
			MirrorReflectivity: x[KeyMirrorReflectivity],
			WaveguideThickness: x[KeyWaveguideThickness],
		}
	case KindBragg:
		// int に落とす前に整数性を見ておく（2.5 層が 2 層に化けないように）
		n := x[KeyLayerCount]
		if err := lookupParam(KindBragg, KeyLayerCount).check(n); err != nil {
			return nil, err
		}
		s = Bragg{
			LayerCount:     int(n),
			LayerThickness: x[KeyLayerThickness],
			IndexContrast:  x[KeyRIContrast],
		}
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Defaults は UI 既定値で埋めた構造を返す。
func Defaults(k Kind) (Structure, error) {
	ps, ok := params[k]
	if !ok {
		return nil, invalid("structure", float64(k), "unrecognized structure variant")
	}
	x := make(map[string]float64, len(ps))
	for _, p := range ps {
		x[p.Key] = p.Default
	}
	return Build(k, x)
}
