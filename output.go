// output.go
package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ichijohodaka/ri-sensor/resonance"
)

// 表示は有効数字4桁（%.4g）
func fmt4(x float64) string { return fmt.Sprintf("%10.4g", x) }

// 表示用：DisplayScale を掛けてから固定幅で文字列化する
func fmtParam(p ParamSpec, x float64) string {
	if p.DisplayScale == 0 {
		return fmt4(x)
	}
	return fmt4(x * p.DisplayScale)
}

// 表のヘッダ用（単位ラベル）
func labelFor(p ParamSpec) string {
	if p.Label != "" {
		return p.Label
	}
	return p.Key
}

// PrintResonance は画面の「Predicted Values」と同じ内容を出す。
func PrintResonance(w io.Writer, ps resonance.ParameterSet, r resonance.Result) {
	fmt.Fprintf(w, "Resonance Shift for %s (%s)\n", ps.Analyte, ps.Structure.Kind())
	fmt.Fprintf(w, "Refractive Index (RI): %.2f\n", ps.RefractiveIndex)
	fmt.Fprintf(w, "Predicted Resonance Peak: %.2f nm\n", r.PeakWavelength)
	if !r.InGrid() && len(r.Wavelengths) > 0 {
		fmt.Fprintf(w, "(peak outside [%g, %g] nm)\n", r.Wavelengths[0], r.Wavelengths[len(r.Wavelengths)-1])
	}
}

// PrintSpectrumTable は every 点ごとに間引いてスペクトルを表にする。
func PrintSpectrumTable(w io.Writer, r resonance.Result, every int) {
	if every <= 0 {
		return
	}
	headers := []string{"Wavelength (nm)", "Reflectance", "Transmittance"}
	var rows [][]string
	for i := 0; i < len(r.Wavelengths); i += every {
		rows = append(rows, []string{fmt4(r.Wavelengths[i]), fmt4(r.Reflectance[i]), fmt4(r.Transmittance[i])})
	}
	printTable(w, headers, rows)
}

// PrintShiftTable は検体ごとのピークとずれ。
func PrintShiftTable(w io.Writer, s resonance.Structure, reference string, rows []ShiftRow) {
	fmt.Fprintf(w, "=== %s : shift vs %s ===\n", s.Kind(), reference)
	headers := []string{"Analyte", "RI", "Peak [nm]", "Shift [nm]"}
	cells := make([][]string, len(rows))
	for i, r := range rows {
		cells[i] = []string{r.Analyte, fmt.Sprintf("%.2f", r.RI), fmt.Sprintf("%.2f", r.Peak), fmt.Sprintf("%+.2f", r.Shift)}
	}
	printTable(w, headers, cells)
}

func PrintSummary(w io.Writer, seed int64, yRange Range, res SearchResult) {
	okRatio, ngRatio := res.Ratios()

	fmt.Fprintf(w, "\nstructure=%s\n", res.Kind)
	fmt.Fprintf(w, "seed=%d\n", seed)
	fmt.Fprintf(w, "peakRange=[%s, %s] nm\n", fmt4(yRange.Min), fmt4(yRange.Max))
	fmt.Fprintf(w, "iters=%d  OK_hits=%d  NG_hits=%d\n", res.Iters, res.OKHits, res.NGHits)
	fmt.Fprintf(w, "OK_ratio=%s  NG_ratio=%s\n\n", fmt4(okRatio), fmt4(ngRatio))
}

// PrintSampleTable は保存済みサンプルを表にする。maxPrint>0 なら先頭だけ。
func PrintSampleTable(w io.Writer, title string, specs []ParamSpec, list []Sample, maxPrint int) {
	fmt.Fprintln(w, title)
	if len(list) == 0 {
		fmt.Fprintln(w, "(none)")
		return
	}
	if maxPrint > 0 && len(list) > maxPrint {
		list = list[:maxPrint]
	}

	// ヘッダ（No + params + peak）
	headers := make([]string, 0, len(specs)+2)
	headers = append(headers, "No")
	for _, p := range specs {
		headers = append(headers, labelFor(p))
	}
	headers = append(headers, "peak [nm]")

	// 各セルの文字列を先に作る
	rows := make([][]string, len(list))
	for i, s := range list {
		row := make([]string, 0, len(headers))
		row = append(row, fmt.Sprintf("%d", i+1))
		for _, p := range specs {
			row = append(row, fmtParam(p, s.Values[p.Key]))
		}
		row = append(row, fmt4(s.Y))
		rows[i] = row
	}
	printTable(w, headers, rows)
}

func printTable(w io.Writer, headers []string, rows [][]string) {
	// 列幅を決定（ヘッダ or 中身の最大）。µ などがあるので rune 数で数える
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = runeLen(h)
	}
	for _, row := range rows {
		for j, cell := range row {
			if n := runeLen(cell); n > widths[j] {
				widths[j] = n
			}
		}
	}

	printLine := func() {
		fmt.Fprint(w, "+")
		for _, width := range widths {
			fmt.Fprint(w, strings.Repeat("-", width+2)+"+")
		}
		fmt.Fprintln(w)
	}

	// ヘッダ行
	printLine()
	fmt.Fprint(w, "|")
	for i, h := range headers {
		fmt.Fprintf(w, " %s%s |", h, strings.Repeat(" ", widths[i]-runeLen(h)))
	}
	fmt.Fprintln(w)
	printLine()

	// データ行（右寄せ）
	for _, row := range rows {
		fmt.Fprint(w, "|")
		for j, cell := range row {
			fmt.Fprintf(w, " %s%s |", strings.Repeat(" ", widths[j]-runeLen(cell)), cell)
		}
		fmt.Fprintln(w)
	}
	printLine()
	fmt.Fprintln(w)
}

func runeLen(s string) int { return len([]rune(s)) }

// SaveSpectrumXLSX は Summary シートと Spectrum シート（グラフ付き）を保存する。
func SaveSpectrumXLSX(filename string, ps resonance.ParameterSet, r resonance.Result) error {
	f := excelize.NewFile()
	defer f.Close()

	// Summary
	summary := "Summary"
	if err := f.SetSheetName("Sheet1", summary); err != nil {
		return err
	}
	rows := [][]any{
		{"Structure", ps.Structure.Kind().String()},
		{"Analyte", ps.Analyte},
		{"Refractive Index", ps.RefractiveIndex},
		{"Peak Wavelength (nm)", r.PeakWavelength},
		{"Width (nm)", r.Width},
	}
	for _, p := range resonance.Params(ps.Structure.Kind()) {
		rows = append(rows, []any{p.Label, ps.Structure.Values()[p.Key]})
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(summary, cell, &row); err != nil {
			return err
		}
	}

	// Spectrum
	sheet := "Spectrum"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, "A1", &[]any{"Wavelength (nm)", "Reflectance", "Transmittance"}); err != nil {
		return err
	}
	for i := range r.Wavelengths {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheet, cell, &[]any{r.Wavelengths[i], r.Reflectance[i], r.Transmittance[i]}); err != nil {
			return err
		}
	}

	n := len(r.Wavelengths) + 1
	x := fmt.Sprintf("%s!$A$2:$A$%d", sheet, n)
	title := fmt.Sprintf("Resonance Shift for %s (%s)", ps.Analyte, ps.Structure.Kind())
	err := f.AddChart(sheet, "E2", &excelize.Chart{
		Type: excelize.Scatter,
		Series: []excelize.ChartSeries{
			{
				Name:       sheet + "!$B$1",
				Categories: x,
				Values:     fmt.Sprintf("%s!$B$2:$B$%d", sheet, n),
				Marker:     excelize.ChartMarker{Symbol: "none"},
				Line:       excelize.ChartLine{Width: 2},
			},
			{
				Name:       sheet + "!$C$1",
				Categories: x,
				Values:     fmt.Sprintf("%s!$C$2:$C$%d", sheet, n),
				Marker:     excelize.ChartMarker{Symbol: "none"},
				Line:       excelize.ChartLine{Width: 2},
			},
		},
		Title:     []excelize.RichTextRun{{Text: title}},
		XAxis:     excelize.ChartAxis{Title: []excelize.RichTextRun{{Text: "Wavelength (nm)"}}},
		YAxis:     excelize.ChartAxis{Title: []excelize.RichTextRun{{Text: "Reflectance / Transmittance"}}},
		Legend:    excelize.ChartLegend{Position: "top"},
		Dimension: excelize.ChartDimension{Width: 720, Height: 400},
	})
	if err != nil {
		return fmt.Errorf("add chart: %w", err)
	}

	return f.SaveAs(filename)
}

// SaveSpectrumTSV はスペクトルを TSV で保存する（値はそのまま）。
func SaveSpectrumTSV(filename string, r resonance.Result) error {
	if filename == "" {
		return nil
	}
	fp, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer fp.Close()

	w := csv.NewWriter(fp)
	w.Comma = '\t'
	if err := w.Write([]string{"wavelength_nm", "reflectance", "transmittance"}); err != nil {
		return err
	}
	for i := range r.Wavelengths {
		row := []string{
			fmt.Sprintf("%g", r.Wavelengths[i]),
			fmt.Sprintf("%.10g", r.Reflectance[i]),
			fmt.Sprintf("%.10g", r.Transmittance[i]),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return fp.Close()
}

// SaveSearchXLSX は探索結果を Summary / OK / NG の3シートで保存する。
func SaveSearchXLSX(filename string, res SearchResult) error {
	f := excelize.NewFile()
	defer f.Close()

	okRatio, ngRatio := res.Ratios()

	// Summary
	summary := "Summary"
	if err := f.SetSheetName("Sheet1", summary); err != nil {
		return err
	}
	f.SetCellValue(summary, "A1", "Type")
	f.SetCellValue(summary, "B1", "Count")
	f.SetCellValue(summary, "C1", "Ratio")

	f.SetCellValue(summary, "A2", "OK")
	f.SetCellValue(summary, "B2", res.OKHits)
	f.SetCellValue(summary, "C2", okRatio)

	f.SetCellValue(summary, "A3", "NG")
	f.SetCellValue(summary, "B3", res.NGHits)
	f.SetCellValue(summary, "C3", ngRatio)

	f.SetCellValue(summary, "A4", "ALL")
	f.SetCellValue(summary, "B4", res.Iters)
	f.SetCellValue(summary, "C4", 1.0)

	f.SetCellValue(summary, "A6", "Structure")
	f.SetCellValue(summary, "B6", res.Kind.String())

	// OK / NG
	writeList := func(sheet string, list []Sample) error {
		if _, err := f.NewSheet(sheet); err != nil {
			return err
		}

		col := 1
		f.SetCellValue(sheet, "A1", "No")
		col++

		for _, p := range res.Specs {
			cell, _ := excelize.CoordinatesToCellName(col, 1)
			f.SetCellValue(sheet, cell, p.Key)
			col++
		}
		cell, _ := excelize.CoordinatesToCellName(col, 1)
		f.SetCellValue(sheet, cell, "peak_nm")

		for i, s := range list {
			row := i + 2
			col = 1

			cell, _ := excelize.CoordinatesToCellName(col, row)
			f.SetCellValue(sheet, cell, i+1)
			col++

			for _, p := range res.Specs {
				cell, _ := excelize.CoordinatesToCellName(col, row)
				f.SetCellValue(sheet, cell, s.Values[p.Key]) // xlsx は元単位で保存
				col++
			}
			// NaN はセルに入らないので空欄
			cell, _ = excelize.CoordinatesToCellName(col, row)
			if !math.IsNaN(s.Y) {
				f.SetCellValue(sheet, cell, s.Y)
			}
		}
		return nil
	}

	if err := writeList("OK", res.OK); err != nil {
		return err
	}
	if err := writeList("NG", res.NG); err != nil {
		return err
	}

	return f.SaveAs(filename)
}

// SaveListToTSV は list を TSV で保存する（specs の列順で出力）
func SaveListToTSV(filename string, specs []ParamSpec, list []Sample) error {
	if filename == "" {
		return nil
	}

	fp, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer fp.Close()

	w := csv.NewWriter(fp)
	w.Comma = '\t'

	header := make([]string, 0, len(specs)+1)
	for _, p := range specs {
		header = append(header, p.Key)
	}
	header = append(header, "peak_nm")
	if err := w.Write(header); err != nil {
		return err
	}

	for _, s := range list {
		row := make([]string, 0, len(specs)+1)
		for _, p := range specs {
			row = append(row, strings.TrimSpace(fmtParam(p, s.Values[p.Key])))
		}
		row = append(row, strings.TrimSpace(fmt4(s.Y)))
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return fp.Close()
}
