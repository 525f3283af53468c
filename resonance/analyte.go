// analyte.go
package resonance

// Analyte は検体名と屈折率の組。
type Analyte struct {
	Name string
	RI   float64
}

// 表示順を保つため slice で持つ（map だと順序が毎回変わる）
var analytes = []Analyte{
	// Biosensing
	{"Blood Plasma", 1.35}, {"DNA Solution", 1.46}, {"Glucose Solution", 1.37}, {"Hemoglobin", 1.41},
	{"Protein Solution", 1.40}, {"Antibody Solution", 1.38}, {"Enzyme Solution", 1.39}, {"RNA Solution", 1.44},
	{"Lipid Solution", 1.42}, {"Cell Cytoplasm", 1.36}, {"Serum", 1.34}, {"Urine", 1.33},
	{"Saliva", 1.32}, {"Tear Fluid", 1.31}, {"Cerebrospinal Fluid", 1.34},

	// Chemical sensing
	{"Ethanol", 1.36}, {"Methanol", 1.33}, {"Acetone", 1.35}, {"Chloroform", 1.44},
	{"Benzene", 1.50}, {"Toluene", 1.49}, {"Xylene", 1.48}, {"Ammonia", 1.32},
	{"Sulfuric Acid", 1.43}, {"Hydrochloric Acid", 1.42}, {"Nitric Acid", 1.40},
	{"Hydrogen Peroxide", 1.38}, {"Sodium Hydroxide", 1.36}, {"Potassium Hydroxide", 1.37},
	{"Formaldehyde", 1.39},
}

var analyteIndex = func() map[string]float64 {
	m := make(map[string]float64, len(analytes))
	for _, a := range analytes {
		if _, dup := m[a.Name]; dup {
			panic("duplicate analyte: " + a.Name)
		}
		m[a.Name] = a.RI
	}
	return m
}()

// Analytes は検体表のコピーを返す（呼び出し側が書き換えても表は変わらない）。
func Analytes() []Analyte {
	out := make([]Analyte, len(analytes))
	copy(out, analytes)
	return out
}

// LookupAnalyte は名前（完全一致）から屈折率を引く。
func LookupAnalyte(name string) (float64, bool) {
	ri, ok := analyteIndex[name]
	return ri, ok
}
