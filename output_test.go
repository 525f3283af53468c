package main

import (
	"bytes"
	"context"
	"encoding/csv"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/ichijohodaka/ri-sensor/resonance"
)

func bloodPlasmaGrating(t *testing.T) (resonance.ParameterSet, resonance.Result) {
	t.Helper()
	ps, err := resonance.NewParameterSet(resonance.Grating{GratingHeight: 0.3, WaveguideThickness: 0.5, Periodicity: 500}, "Blood Plasma")
	if err != nil {
		t.Fatal(err)
	}
	r, err := ps.Compute(resonance.DefaultGrid())
	if err != nil {
		t.Fatal(err)
	}
	return ps, r
}

func parseF(t *testing.T, s string) float64 {
	t.Helper()
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return v
}

func TestPrintResonance(t *testing.T) {
	ps, r := bloodPlasmaGrating(t)
	var buf bytes.Buffer
	PrintResonance(&buf, ps, r)
	got := buf.String()
	for _, want := range []string{
		"Resonance Shift for Blood Plasma (1D Grating)",
		"Refractive Index (RI): 1.35",
		"Predicted Resonance Peak: 450.00 nm",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("output missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "outside") {
		t.Fatalf("in-grid peak flagged as outside:\n%s", got)
	}

	ring := resonance.Ring{RingRadius: 5, CouplingCoefficient: 0.5, WaveguideWidth: 0.5}
	ps = resonance.ParameterSet{Structure: ring, Analyte: "DNA Solution", RefractiveIndex: 1.46}
	r, err := ps.Compute(resonance.DefaultGrid())
	if err != nil {
		t.Fatal(err)
	}
	buf.Reset()
	PrintResonance(&buf, ps, r)
	if !strings.Contains(buf.String(), "Predicted Resonance Peak: 30.58 nm") || !strings.Contains(buf.String(), "outside [300, 700]") {
		t.Fatalf("ring output:\n%s", buf.String())
	}
}

func TestPrintSpectrumTable(t *testing.T) {
	_, r := bloodPlasmaGrating(t)
	var buf bytes.Buffer
	PrintSpectrumTable(&buf, r, 0)
	if buf.Len() != 0 {
		t.Fatal("every=0 should print nothing")
	}
	PrintSpectrumTable(&buf, r, 50)
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	// 罫線3 + ヘッダ1 + データ9（300,350,...,700）
	if len(lines) != 13 {
		t.Fatalf("%d lines:\n%s", len(lines), buf.String())
	}
	if !strings.Contains(buf.String(), "Wavelength (nm)") {
		t.Fatalf("missing header:\n%s", buf.String())
	}
}

func TestPrintSampleTable(t *testing.T) {
	specs := []ParamSpec{
		{Key: KeyRI, Label: "RI", DisplayScale: 1},
		{Key: resonance.KeyPeriodicity, Label: "Periodicity (µm)", DisplayScale: 1e-3},
	}
	list := []Sample{
		{Values: map[string]float64{KeyRI: 1.35, resonance.KeyPeriodicity: 500}, Y: 450, OK: true},
		{Values: map[string]float64{KeyRI: 1.35, resonance.KeyPeriodicity: 600}, Y: 540, OK: true},
		{Values: map[string]float64{KeyRI: 1.35, resonance.KeyPeriodicity: 700}, Y: 630, OK: true},
	}
	var buf bytes.Buffer
	PrintSampleTable(&buf, "=== OK ===", specs, list, 2)
	got := buf.String()
	if !strings.Contains(got, "Periodicity (µm)") || !strings.Contains(got, "0.5") {
		t.Fatalf("display scale not applied:\n%s", got)
	}
	if strings.Contains(got, "630") {
		t.Fatalf("maxPrint not honoured:\n%s", got)
	}

	buf.Reset()
	PrintSampleTable(&buf, "=== NG ===", specs, nil, 0)
	if !strings.Contains(buf.String(), "(none)") {
		t.Fatalf("empty list:\n%s", buf.String())
	}
}

func TestPrintTableAlignsMultibyte(t *testing.T) {
	var buf bytes.Buffer
	printTable(&buf, []string{"Label", "v"}, [][]string{{"Ring Radius (µm)", "5"}, {"x", "10"}})
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	n := len([]rune(lines[0]))
	for _, l := range lines {
		if len([]rune(l)) != n {
			t.Fatalf("ragged table:\n%s", buf.String())
		}
	}
}

func TestSaveSpectrumXLSX(t *testing.T) {
	ps, r := bloodPlasmaGrating(t)
	file := filepath.Join(t.TempDir(), "spectrum.xlsx")
	if err := SaveSpectrumXLSX(file, ps, r); err != nil {
		t.Fatal(err)
	}

	f, err := excelize.OpenFile(file)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	if got := f.GetSheetList(); len(got) != 2 || got[0] != "Summary" || got[1] != "Spectrum" {
		t.Fatalf("sheets = %v", got)
	}
	name, _ := f.GetCellValue("Summary", "B1")
	if name != "1D Grating" {
		t.Fatalf("structure cell = %q", name)
	}
	peak, _ := f.GetCellValue("Summary", "B4")
	if math.Abs(parseF(t, peak)-450) > 1e-9 {
		t.Fatalf("peak cell = %q", peak)
	}

	rows, err := f.GetRows("Spectrum")
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != resonance.GridPoints+1 {
		t.Fatalf("%d rows", len(rows))
	}
	if rows[0][1] != "Reflectance" || rows[0][2] != "Transmittance" {
		t.Fatalf("header = %v", rows[0])
	}
	row := rows[151] // 450 nm
	if parseF(t, row[0]) != 450 || math.Abs(parseF(t, row[1])-1) > 1e-9 {
		t.Fatalf("row at 450nm = %v", row)
	}
}

func TestSaveSpectrumTSV(t *testing.T) {
	_, r := bloodPlasmaGrating(t)
	file := filepath.Join(t.TempDir(), "spectrum.tsv")
	if err := SaveSpectrumTSV(file, r); err != nil {
		t.Fatal(err)
	}
	fp, err := os.Open(file)
	if err != nil {
		t.Fatal(err)
	}
	defer fp.Close()
	cr := csv.NewReader(fp)
	cr.Comma = '\t'
	recs, err := cr.ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != resonance.GridPoints+1 {
		t.Fatalf("%d records", len(recs))
	}
	for _, rec := range recs[1:] {
		if s := parseF(t, rec[1]) + parseF(t, rec[2]); math.Abs(s-1) > 1e-9 {
			t.Fatalf("R+T = %v in %v", s, rec)
		}
	}

	if err := SaveSpectrumTSV("", r); err != nil {
		t.Fatalf("empty filename: %v", err)
	}
}

func TestSaveSearchOutputs(t *testing.T) {
	cfg := testConfig()
	cfg.MaxOKSave = 4
	cfg.MaxNGSave = 2
	specs := cfg.searchSpecs(resonance.KindFabryPerot, 1.33)
	res, err := Search(context.Background(), resonance.KindFabryPerot, specs, cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	dir := t.TempDir()

	xlsx := filepath.Join(dir, "search.xlsx")
	if err := SaveSearchXLSX(xlsx, res); err != nil {
		t.Fatal(err)
	}
	f, err := excelize.OpenFile(xlsx)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	all, _ := f.GetCellValue("Summary", "B4")
	if parseF(t, all) != float64(cfg.MaxIters) {
		t.Fatalf("ALL = %q", all)
	}
	okRows, _ := f.GetRows("OK")
	if len(okRows) != len(res.OK)+1 {
		t.Fatalf("OK sheet rows = %d, saved %d", len(okRows), len(res.OK))
	}
	if okRows[0][1] != KeyRI || okRows[0][len(okRows[0])-1] != "peak_nm" {
		t.Fatalf("OK header = %v", okRows[0])
	}

	tsv := filepath.Join(dir, "ok.tsv")
	if err := SaveListToTSV(tsv, specs, res.OK); err != nil {
		t.Fatal(err)
	}
	b, err := os.ReadFile(tsv)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	if len(lines) != len(res.OK)+1 {
		t.Fatalf("%d tsv lines", len(lines))
	}
	if !strings.HasPrefix(lines[0], KeyRI+"\t") {
		t.Fatalf("tsv header = %q", lines[0])
	}
	if err := SaveListToTSV("", specs, res.OK); err != nil {
		t.Fatal(err)
	}
}
