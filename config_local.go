// config.go を直接さわらずにここで差し替え

package main

import "github.com/ichijohodaka/ri-sensor/resonance"

func init() {
	LocalOverride = func(cfg *Config) {

		// コメントアウトでデフォルト値が使われる。

		// 結果表示を制限。ファイルには全部保存される。
		cfg.MaxPrint = 10
		// 保存する正解・不正解の数（多くするとファイルサイズ増）
		// cfg.MaxOKSave = 1000
		// cfg.MaxNGSave = 10
		// 乱数 seed（固定したいとき）
		// cfg.Seed = 1771046723902691400
		// xlsx 出力のファイル名（"" なら保存しない）
		// cfg.XLSXFile = "result.xlsx"

		// --- 変数範囲 ---
		// リング半径と共振器長は桁で効くので対数一様で振る
		setScale(cfg, resonance.KindRing, resonance.KeyRingRadius, Log)
		setScale(cfg, resonance.KindFabryPerot, resonance.KeyCavityLength, Log)
	}
}

func setScale(cfg *Config, k resonance.Kind, key string, s Scale) {
	for i := range cfg.Params[k] {
		if cfg.Params[k][i].Key == key {
			cfg.Params[k][i].Scale = s
		}
	}
}
