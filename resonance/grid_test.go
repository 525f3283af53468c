package resonance

import (
	"errors"
	"math"
	"testing"
)

func TestDefaultGrid(t *testing.T) {
	g := DefaultGrid()
	if len(g) != 401 {
		t.Fatalf("len = %d, want 401", len(g))
	}
	if g[0] != 300 || g[400] != 700 {
		t.Fatalf("ends = %v..%v", g[0], g[400])
	}
	for i := 1; i < len(g); i++ {
		if d := g[i] - g[i-1]; math.Abs(d-1) > 1e-9 {
			t.Fatalf("step at %d = %v", i, d)
		}
	}
	g[0] = 0
	if DefaultGrid()[0] != 300 {
		t.Fatal("DefaultGrid shares storage between calls")
	}
}

func TestNewGrid(t *testing.T) {
	g, err := NewGrid(400, 500, 5)
	if err != nil {
		t.Fatal(err)
	}
	want := []float64{400, 425, 450, 475, 500}
	for i := range want {
		if g[i] != want[i] {
			t.Fatalf("g = %v, want %v", g, want)
		}
	}

	bad := []struct {
		start, stop float64
		n           int
	}{
		{300, 700, 1},
		{700, 300, 10},
		{300, 300, 10},
		{math.NaN(), 700, 10},
		{300, math.Inf(1), 10},
	}
	for _, tc := range bad {
		if _, err := NewGrid(tc.start, tc.stop, tc.n); !errors.Is(err, ErrInvalidParameter) {
			t.Fatalf("NewGrid(%v, %v, %d) err = %v", tc.start, tc.stop, tc.n, err)
		}
	}
}

func TestNearestIndex(t *testing.T) {
	g := DefaultGrid()
	cases := []struct {
		w    float64
		want int
	}{
		{300, 0},
		{10, 0},
		{450.2, 150},
		{450.5, 150}, // 同距離は小さい添字
		{699.9, 400},
		{1e6, 400},
	}
	for _, tc := range cases {
		if got := NearestIndex(g, tc.w); got != tc.want {
			t.Fatalf("NearestIndex(%v) = %d, want %d", tc.w, got, tc.want)
		}
	}
	if NearestIndex(nil, 400) != -1 {
		t.Fatal("empty grid should give -1")
	}
}

func TestAnalytes(t *testing.T) {
	list := Analytes()
	if len(list) != 30 {
		t.Fatalf("%d analytes, want 30", len(list))
	}
	if list[0].Name != "Blood Plasma" || list[len(list)-1].Name != "Formaldehyde" {
		t.Fatalf("order changed: first %q last %q", list[0].Name, list[len(list)-1].Name)
	}
	for _, a := range list {
		if a.RI < 1.30 || a.RI > 1.50 {
			t.Fatalf("%s RI %v out of typical range", a.Name, a.RI)
		}
		ri, ok := LookupAnalyte(a.Name)
		if !ok || ri != a.RI {
			t.Fatalf("LookupAnalyte(%q) = %v, %v", a.Name, ri, ok)
		}
	}
	list[0].RI = 9
	if ri, _ := LookupAnalyte("Blood Plasma"); ri != 1.35 {
		t.Fatal("Analytes returned shared storage")
	}
	if _, ok := LookupAnalyte("blood plasma"); ok {
		t.Fatal("lookup should be exact")
	}
}
