// main.go
// Copyright (c) 2026 Ichijo Hodaka
// Refractive Index Sensor（共振ピークの簡易シミュレーション）
// - 光学構造・検体・形状パラメータからピーク波長を閉形式で計算
// - ピーク周りのガウス型 反射率 / 透過率（= 1 - 反射率）を 300〜700 nm で出す
// - search: 形状パラメータをランダムに振り、ピークが範囲に入る組を集める
// - shift: 全検体についてピーク波長と基準検体からのずれを並べる
//
// 表示は有効数字4桁（%.4g）、サマリは小数2桁

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"github.com/ichijohodaka/ri-sensor/resonance"
)

func main() {
	app := newApp(os.Stdout, os.Stderr)
	if err := app.Run(os.Args); err != nil {
		log.Error().Err(err).Msg("ri-sensor failed")
		os.Exit(1)
	}
}

func newApp(stdout, stderr io.Writer) *cli.App {
	cfg := LoadConfig()

	return &cli.App{
		Name:      "ri-sensor",
		Usage:     "Refractive index sensor: resonance shift simulation",
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Value:   cfg.LogLevel,
				Usage:   "trace, debug, info, warn, error, disabled",
				EnvVars: []string{"RI_SENSOR_LOG_LEVEL"},
			},
			&cli.BoolFlag{
				Name:    "log-json",
				Usage:   "JSON logs instead of console format",
				EnvVars: []string{"RI_SENSOR_LOG_JSON"},
			},
		},
		Before: func(c *cli.Context) error {
			return setupLogger(stderr, c.String("log-level"), c.Bool("log-json"))
		},
		Commands: []*cli.Command{
			computeCommand(cfg),
			searchCommand(cfg),
			shiftCommand(cfg),
			analytesCommand(),
			structuresCommand(),
		},
	}
}

func structureFlags(cfg Config) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "structure",
			Aliases: []string{"s"},
			Value:   cfg.Structure.Short(),
			Usage:   "grating, ring, fabry-perot, bragg",
		},
		&cli.StringSliceFlag{
			Name:    "param",
			Aliases: []string{"p"},
			Usage:   "structure parameter key=value (unset keys use slider defaults)",
		},
	}
}

func analyteFlags(cfg Config) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "analyte",
			Aliases: []string{"a"},
			Value:   cfg.Analyte,
			Usage:   "analyte name (see `analytes`)",
		},
		&cli.Float64Flag{
			Name:  "ri",
			Usage: "refractive index, overrides the analyte table",
		},
	}
}

func computeCommand(cfg Config) *cli.Command {
	flags := append(structureFlags(cfg), analyteFlags(cfg)...)
	flags = append(flags,
		&cli.Float64Flag{Name: "grid-start", Value: cfg.GridStart, Usage: "first wavelength [nm]"},
		&cli.Float64Flag{Name: "grid-stop", Value: cfg.GridStop, Usage: "last wavelength [nm]"},
		&cli.IntFlag{Name: "grid-points", Value: cfg.GridPoints, Usage: "number of samples"},
		&cli.IntFlag{Name: "every", Value: cfg.Every, Usage: "print every N-th sample of the spectrum (0: no table)"},
		&cli.StringFlag{Name: "xlsx", Value: cfg.XLSXFile, Usage: "save spectrum workbook with chart"},
		&cli.StringFlag{Name: "tsv", Value: cfg.TSVFile, Usage: "save spectrum as TSV"},
	)
	return &cli.Command{
		Name:   "compute",
		Usage:  "Compute the resonance peak and reflectance/transmittance spectrum",
		Flags:  flags,
		Action: func(c *cli.Context) error { return runCompute(c, cfg) },
	}
}

func runCompute(c *cli.Context, cfg Config) error {
	ps, err := parameterSet(c)
	if err != nil {
		return err
	}

	cfg.GridStart = c.Float64("grid-start")
	cfg.GridStop = c.Float64("grid-stop")
	cfg.GridPoints = c.Int("grid-points")
	grid, err := cfg.grid()
	if err != nil {
		return err
	}

	r, err := ps.Compute(grid)
	if err != nil {
		return fmt.Errorf("compute %s: %w", ps.Structure.Kind(), err)
	}
	log.Debug().
		Str("structure", ps.Structure.Kind().Short()).
		Str("analyte", ps.Analyte).
		Float64("ri", ps.RefractiveIndex).
		Float64("peak_nm", r.PeakWavelength).
		Float64("width_nm", r.Width).
		Bool("in_grid", r.InGrid()).
		Msg("resonance computed")

	out := c.App.Writer
	PrintResonance(out, ps, r)
	PrintSpectrumTable(out, r, c.Int("every"))

	if file := c.String("xlsx"); file != "" {
		if err := SaveSpectrumXLSX(file, ps, r); err != nil {
			return fmt.Errorf("xlsx save: %w", err)
		}
		log.Info().Str("file", file).Msg("xlsx saved")
	}
	if file := c.String("tsv"); file != "" {
		if err := SaveSpectrumTSV(file, r); err != nil {
			return fmt.Errorf("tsv save: %w", err)
		}
		log.Info().Str("file", file).Msg("tsv saved")
	}
	return nil
}

func searchCommand(cfg Config) *cli.Command {
	return &cli.Command{
		Name:  "search",
		Usage: "Random search over structure parameters for peaks inside a wavelength window",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "structure", Aliases: []string{"s"}, Value: cfg.Structure.Short(), Usage: "grating, ring, fabry-perot, bragg"},
			&cli.StringFlag{Name: "analyte", Aliases: []string{"a"}, Value: cfg.Analyte, Usage: "analyte name (fixes the refractive index)"},
			&cli.Float64Flag{Name: "ri-min", Value: cfg.RIRange.Min, Usage: "sweep refractive index from (needs --ri-max)"},
			&cli.Float64Flag{Name: "ri-max", Value: cfg.RIRange.Max, Usage: "sweep refractive index to (0: use analyte)"},
			&cli.Float64Flag{Name: "min", Value: cfg.YRange.Min, Usage: "accepted peak minimum [nm]"},
			&cli.Float64Flag{Name: "max", Value: cfg.YRange.Max, Usage: "accepted peak maximum [nm]"},
			&cli.Int64Flag{Name: "iters", Value: cfg.MaxIters, Usage: "number of samples"},
			&cli.Int64Flag{Name: "seed", Value: cfg.Seed, Usage: "random seed"},
			&cli.IntFlag{Name: "ok-save", Value: cfg.MaxOKSave, Usage: "max OK samples kept"},
			&cli.IntFlag{Name: "ng-save", Value: cfg.MaxNGSave, Usage: "max NG samples kept"},
			&cli.IntFlag{Name: "print", Value: cfg.MaxPrint, Usage: "max rows printed per table (0: all)"},
			&cli.Int64Flag{Name: "print-every", Value: cfg.PrintEvery, Usage: "progress interval (0: quiet)"},
			&cli.StringFlag{Name: "xlsx", Value: cfg.XLSXFile, Usage: "save OK/NG workbook"},
			&cli.StringFlag{Name: "ok-tsv", Value: cfg.OKTSVFile, Usage: "save OK samples as TSV"},
			&cli.StringFlag{Name: "ng-tsv", Value: cfg.NGTSVFile, Usage: "save NG samples as TSV"},
		},
		Action: func(c *cli.Context) error { return runSearch(c, cfg) },
	}
}

func runSearch(c *cli.Context, cfg Config) error {
	kind, err := resonance.ParseKind(c.String("structure"))
	if err != nil {
		return err
	}
	analyte := c.String("analyte")
	ri, ok := resonance.LookupAnalyte(analyte)
	if !ok {
		return fmt.Errorf("%w: unknown analyte %q", resonance.ErrInvalidParameter, analyte)
	}

	cfg.RIRange = Range{Min: c.Float64("ri-min"), Max: c.Float64("ri-max")}
	cfg.YRange = Range{Min: c.Float64("min"), Max: c.Float64("max")}
	cfg.MaxIters = c.Int64("iters")
	cfg.Seed = c.Int64("seed")
	cfg.MaxOKSave = c.Int("ok-save")
	cfg.MaxNGSave = c.Int("ng-save")
	cfg.MaxPrint = c.Int("print")
	cfg.PrintEvery = c.Int64("print-every")
	specs := cfg.searchSpecs(kind, ri)

	// Ctrl-C 対応
	ctx, cancel := context.WithCancel(c.Context)
	defer cancel()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			log.Warn().Msg("interrupt received, stopping")
			cancel()
		case <-ctx.Done():
		}
	}()

	out := c.App.Writer

	// 進捗表示（固定幅・行の残りを消す）
	progress := func(i, okh, ngh int64) {
		var pct float64
		if cfg.MaxIters > 0 {
			pct = float64(i) / float64(cfg.MaxIters) * 100.0
		}
		fmt.Fprintf(c.App.ErrWriter, "\riter=%12d (%6.2f%%)  OK_hits=%12d  NG_hits=%12d      ", i, pct, okh, ngh)
	}

	log.Info().Str("structure", kind.Short()).Int64("iters", cfg.MaxIters).Int64("seed", cfg.Seed).Msg("search started")
	res, err := Search(ctx, kind, specs, cfg, progress)
	if cfg.PrintEvery > 0 {
		fmt.Fprintln(c.App.ErrWriter)
	}
	if err != nil {
		return err
	}
	if res.Interrupted {
		log.Warn().Int64("iters", res.Iters).Msg("search interrupted")
	}

	PrintSummary(out, cfg.Seed, cfg.YRange, res)
	PrintSampleTable(out, "=== OK (saved) ===", specs, res.OK, cfg.MaxPrint)
	PrintSampleTable(out, "=== NG (saved) ===", specs, res.NG, cfg.MaxPrint)

	if file := c.String("xlsx"); file != "" {
		if err := SaveSearchXLSX(file, res); err != nil {
			return fmt.Errorf("xlsx save: %w", err)
		}
		log.Info().Str("file", file).Msg("xlsx saved")
	}
	if err := SaveListToTSV(c.String("ok-tsv"), specs, res.OK); err != nil {
		return fmt.Errorf("ok tsv save: %w", err)
	}
	if err := SaveListToTSV(c.String("ng-tsv"), specs, res.NG); err != nil {
		return fmt.Errorf("ng tsv save: %w", err)
	}
	return nil
}

func shiftCommand(cfg Config) *cli.Command {
	flags := append(structureFlags(cfg),
		&cli.StringFlag{Name: "reference", Aliases: []string{"r"}, Value: cfg.Reference, Usage: "reference analyte for the shift column"},
	)
	return &cli.Command{
		Name:  "shift",
		Usage: "Peak wavelength of every analyte and its shift from a reference",
		Flags: flags,
		Action: func(c *cli.Context) error {
			s, err := structureFromFlags(c)
			if err != nil {
				return err
			}
			ref := c.String("reference")
			rows, err := ResonanceShift(s, ref)
			if err != nil {
				return err
			}
			PrintShiftTable(c.App.Writer, s, ref, rows)
			return nil
		},
	}
}

func analytesCommand() *cli.Command {
	return &cli.Command{
		Name:  "analytes",
		Usage: "List analytes and their refractive indices",
		Action: func(c *cli.Context) error {
			list := resonance.Analytes()
			rows := make([][]string, len(list))
			for i, a := range list {
				rows[i] = []string{a.Name, fmt.Sprintf("%.2f", a.RI)}
			}
			printTable(c.App.Writer, []string{"Analyte", "RI"}, rows)
			return nil
		},
	}
}

func structuresCommand() *cli.Command {
	return &cli.Command{
		Name:  "structures",
		Usage: "List optical structures and their parameters",
		Action: func(c *cli.Context) error {
			out := c.App.Writer
			for _, k := range resonance.Kinds {
				fmt.Fprintf(out, "%s (%s)\n", k, k.Short())
				rows := [][]string{}
				for _, p := range resonance.Params(k) {
					hi := fmt.Sprintf("%g", p.Max)
					if p.MaxExclusive {
						hi = "<" + hi
					}
					rows = append(rows, []string{p.Key, p.Label, fmt.Sprintf("%g", p.Min), hi, fmt.Sprintf("%g", p.Default), fmt.Sprintf("%g", p.Step)})
				}
				printTable(out, []string{"Key", "Label", "Min", "Max", "Default", "Step"}, rows)
			}
			return nil
		},
	}
}

// parameterSet は CLI 入力から ParameterSet を組み立てる。
func parameterSet(c *cli.Context) (resonance.ParameterSet, error) {
	s, err := structureFromFlags(c)
	if err != nil {
		return resonance.ParameterSet{}, err
	}

	if c.IsSet("ri") && !c.IsSet("analyte") {
		return resonance.ParameterSet{Structure: s, Analyte: "custom", RefractiveIndex: c.Float64("ri")}, nil
	}
	ps, err := resonance.NewParameterSet(s, c.String("analyte"))
	if err != nil {
		return ps, err
	}
	if c.IsSet("ri") {
		ps.RefractiveIndex = c.Float64("ri")
	}
	return ps, nil
}

// structureFromFlags はスライダー既定値に --param を上書きして構造を作る。
func structureFromFlags(c *cli.Context) (resonance.Structure, error) {
	kind, err := resonance.ParseKind(c.String("structure"))
	if err != nil {
		return nil, err
	}
	overrides, err := parseParams(c.StringSlice("param"))
	if err != nil {
		return nil, err
	}

	d, err := resonance.Defaults(kind)
	if err != nil {
		return nil, err
	}
	x := d.Values()
	for k, v := range overrides {
		if _, ok := x[k]; !ok {
			return nil, fmt.Errorf("%w: %s has no parameter %q (valid: %s)", resonance.ErrInvalidParameter, kind, k, strings.Join(keysOf(x), ", "))
		}
		x[k] = v
	}
	return resonance.Build(kind, x)
}

// parseParams は "key=value" の並びを map にする。
func parseParams(list []string) (map[string]float64, error) {
	out := make(map[string]float64, len(list))
	for _, kv := range list {
		k, v, ok := strings.Cut(kv, "=")
		if !ok {
			return nil, fmt.Errorf("param %q: want key=value", kv)
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return nil, fmt.Errorf("param %q: %w", kv, err)
		}
		out[strings.TrimSpace(k)] = f
	}
	return out, nil
}

func keysOf(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
