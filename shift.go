// shift.go
package main

import (
	"fmt"

	"github.com/ichijohodaka/ri-sensor/resonance"
)

// ShiftRow は検体1件分のピーク波長と基準からのずれ [nm]。
type ShiftRow struct {
	Analyte string
	RI      float64
	Peak    float64
	Shift   float64
}

// ResonanceShift は同じ構造で全検体のピーク波長を並べ、reference との差を付ける。
func ResonanceShift(s resonance.Structure, reference string) ([]ShiftRow, error) {
	refRI, ok := resonance.LookupAnalyte(reference)
	if !ok {
		return nil, fmt.Errorf("%w: unknown reference analyte %q", resonance.ErrInvalidParameter, reference)
	}
	refPeak, _, err := resonance.Peak(refRI, s)
	if err != nil {
		return nil, err
	}

	list := resonance.Analytes()
	rows := make([]ShiftRow, 0, len(list))
	for _, a := range list {
		peak, _, err := resonance.Peak(a.RI, s)
		if err != nil {
			return nil, fmt.Errorf("analyte %s: %w", a.Name, err)
		}
		rows = append(rows, ShiftRow{Analyte: a.Name, RI: a.RI, Peak: peak, Shift: peak - refPeak})
	}
	return rows, nil
}
