// config.go
package main

import (
	"time"

	"github.com/ichijohodaka/ri-sensor/resonance"
)

// KeyRI は探索で屈折率を扱うときのキー。
const KeyRI = "refractive_index"

type Scale int

const (
	Linear Scale = iota
	Log
)

// ParamSpec は探索1変数の範囲と表示メタ。
// DisplayScale は表示時に掛ける倍率（xlsx には元の値を保存）。
type ParamSpec struct {
	Key          string
	Label        string
	Min          float64
	Max          float64
	Scale        Scale
	DisplayScale float64
	Integer      bool
}

type Range struct {
	Min float64
	Max float64
}

// Get: ユーザー関数でキー打ち間違いしたら即気づけるようにする
func Get(x map[string]float64, key string) float64 {
	v, ok := x[key]
	if !ok {
		panic("missing key in x: " + key)
	}
	return v
}

// Config は「ユーザー設定」をまとめたもの
type Config struct {
	Structure resonance.Kind
	Analyte   string
	Reference string // shift の基準検体

	GridStart  float64
	GridStop   float64
	GridPoints int
	Every      int // スペクトル表の間引き（0 なら表示しない）

	// 構造ごとの探索範囲
	Params map[resonance.Kind][]ParamSpec
	// 屈折率も振るときの範囲（Max == 0 なら検体の値で固定）
	RIRange Range

	YRange     Range
	MaxIters   int64
	MaxOKSave  int
	MaxNGSave  int
	PrintEvery int64
	Seed       int64
	MaxPrint   int // コンソールに表示する最大件数（0なら制限なし）

	XLSXFile  string // "" なら保存しない
	TSVFile   string // "" なら保存しない
	OKTSVFile string // "" なら保存しない
	NGTSVFile string // "" なら保存しない

	LogLevel string
}

// LocalOverride は config_local.go で差し替える（nil なら何もしない）
var LocalOverride func(cfg *Config)

// ============================================================
// ユーザー設定（ここから）
// ============================================================

func DefaultConfig() Config {
	// 探索範囲はスライダーの範囲そのまま
	params := make(map[resonance.Kind][]ParamSpec, len(resonance.Kinds))
	for _, k := range resonance.Kinds {
		params[k] = specsFor(k)
	}

	return Config{
		Structure: resonance.KindGrating,
		Analyte:   "Blood Plasma",
		Reference: "Serum",

		GridStart:  resonance.GridStart,
		GridStop:   resonance.GridStop,
		GridPoints: resonance.GridPoints,
		Every:      0,

		Params: params,

		// ピークがグリッド内（300〜700 nm）に入れば OK
		YRange:     Range{Min: resonance.GridStart, Max: resonance.GridStop},
		MaxIters:   int64(1_000_000),
		MaxOKSave:  100,
		MaxNGSave:  10,
		PrintEvery: int64(100_000),
		Seed:       time.Now().UnixNano(),
		MaxPrint:   20,

		LogLevel: "info",
	}
}

// ============================================================
// ユーザー設定（ここまで）
// ============================================================

// LoadConfig は DefaultConfig に LocalOverride を当てたもの。
func LoadConfig() Config {
	cfg := DefaultConfig()
	if LocalOverride != nil {
		LocalOverride(&cfg)
	}
	return cfg
}

// specsFor はスライダー定義から探索用 ParamSpec を作る。
func specsFor(k resonance.Kind) []ParamSpec {
	ps := resonance.Params(k)
	out := make([]ParamSpec, 0, len(ps))
	for _, p := range ps {
		out = append(out, ParamSpec{
			Key:          p.Key,
			Label:        p.Label,
			Min:          p.Min,
			Max:          p.Max,
			Scale:        Linear,
			DisplayScale: 1.0,
			Integer:      p.Integer,
		})
	}
	return out
}

// searchSpecs は屈折率を先頭に足した探索変数一覧。
func (cfg Config) searchSpecs(k resonance.Kind, ri float64) []ParamSpec {
	riSpec := ParamSpec{Key: KeyRI, Label: "RI", Min: ri, Max: ri, Scale: Linear, DisplayScale: 1.0}
	if cfg.RIRange.Max > 0 {
		riSpec.Min, riSpec.Max = cfg.RIRange.Min, cfg.RIRange.Max
	}
	return append([]ParamSpec{riSpec}, cfg.Params[k]...)
}

func (cfg Config) grid() (resonance.Grid, error) {
	return resonance.NewGrid(cfg.GridStart, cfg.GridStop, cfg.GridPoints)
}
