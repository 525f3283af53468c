// search.go
// ランダム探索
// - 線形一様 / 対数一様で各パラメータをサンプリング
// - ピーク波長が範囲に入れば OK、入らなければ NG（構造が組めない値も NG）
// - OK/NG をそれぞれ最大 N 件保存（保存枠が埋まっても探索は継続）
// - 終了条件：繰り返し回数到達 or ctx キャンセル（Ctrl-C）
package main

import (
	"context"
	"fmt"
	"math"
	"math/rand"

	"github.com/ichijohodaka/ri-sensor/resonance"
)

type Sample struct {
	Values map[string]float64
	Y      float64
	OK     bool
}

// SearchResult は探索1回分の集計。
type SearchResult struct {
	Kind   resonance.Kind
	Specs  []ParamSpec
	OK     []Sample
	NG     []Sample
	Iters  int64
	OKHits int64
	NGHits int64
	// ctx で止まったとき true
	Interrupted bool
}

func inRange(x float64, r Range) bool {
	return r.Min <= x && x <= r.Max
}

func sampleOne(rng *rand.Rand, p ParamSpec) (float64, error) {
	if p.Max < p.Min {
		return 0, fmt.Errorf("param %s: Max < Min", p.Key)
	}
	var v float64
	switch p.Scale {
	case Linear:
		u := rng.Float64()
		v = p.Min + u*(p.Max-p.Min)
	case Log:
		if p.Min <= 0 || p.Max <= 0 {
			return 0, fmt.Errorf("param %s: log sampling requires Min>0 and Max>0 (got Min=%g Max=%g)", p.Key, p.Min, p.Max)
		}
		lnMin := math.Log(p.Min)
		lnMax := math.Log(p.Max)
		u := rng.Float64()
		v = math.Exp(lnMin + u*(lnMax-lnMin))
	default:
		return 0, fmt.Errorf("param %s: unknown scale", p.Key)
	}
	if p.Integer {
		v = math.Round(v)
	}
	return v, nil
}

// evalPeak は1サンプルのピーク波長。組めない値なら NaN。
func evalPeak(k resonance.Kind, x map[string]float64) float64 {
	s, err := resonance.Build(k, x)
	if err != nil {
		return math.NaN()
	}
	peak, _, err := resonance.Peak(Get(x, KeyRI), s)
	if err != nil {
		return math.NaN()
	}
	return peak
}

// Search は specs に従ってランダムに構造を作り、ピーク波長が yRange に入るかを数える。
// progress は printEvery 回ごとに呼ばれる（nil 可）。
func Search(ctx context.Context, k resonance.Kind, specs []ParamSpec, cfg Config, progress func(i, okHits, ngHits int64)) (SearchResult, error) {
	res := SearchResult{Kind: k, Specs: specs}

	seen := map[string]bool{}
	for _, p := range specs {
		if seen[p.Key] {
			return res, fmt.Errorf("duplicate param key: %s", p.Key)
		}
		seen[p.Key] = true
	}
	if !seen[KeyRI] {
		return res, fmt.Errorf("param %s is required", KeyRI)
	}

	rng := rand.New(rand.NewSource(cfg.Seed))

	res.OK = make([]Sample, 0, max(cfg.MaxOKSave, 0))
	res.NG = make([]Sample, 0, max(cfg.MaxNGSave, 0))

	for res.Iters < cfg.MaxIters {
		select {
		case <-ctx.Done():
			res.Interrupted = true
			return res, nil
		default:
		}

		vals := make(map[string]float64, len(specs))
		for _, p := range specs {
			v, err := sampleOne(rng, p)
			if err != nil {
				return res, err
			}
			vals[p.Key] = v
		}

		y := evalPeak(k, vals)
		ok := !math.IsNaN(y) && !math.IsInf(y, 0) && inRange(y, cfg.YRange)

		// 保存は「枠が空いているときだけ」。枠が埋まっても探索は続行。
		s := Sample{Values: vals, Y: y, OK: ok}
		if ok {
			res.OKHits++
			if cfg.MaxOKSave > 0 && len(res.OK) < cfg.MaxOKSave {
				res.OK = append(res.OK, s)
			}
		} else {
			res.NGHits++
			if cfg.MaxNGSave > 0 && len(res.NG) < cfg.MaxNGSave {
				res.NG = append(res.NG, s)
			}
		}

		res.Iters++
		if progress != nil && cfg.PrintEvery > 0 && res.Iters%cfg.PrintEvery == 0 {
			progress(res.Iters, res.OKHits, res.NGHits)
		}
	}
	return res, nil
}

// Ratios は iters に対する OK/NG の割合。
func (r SearchResult) Ratios() (okRatio, ngRatio float64) {
	if r.Iters > 0 {
		okRatio = float64(r.OKHits) / float64(r.Iters)
		ngRatio = float64(r.NGHits) / float64(r.Iters)
	}
	return okRatio, ngRatio
}
