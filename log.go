// log.go
package main

import (
	"io"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// setupLogger はログを w（通常 stderr）へ出す。表や結果は stdout 側に出すので混ざらない。
func setupLogger(w io.Writer, level string, jsonOut bool) error {
	lv, err := zerolog.ParseLevel(level)
	if err != nil {
		return err
	}
	zerolog.SetGlobalLevel(lv)
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	if jsonOut {
		log.Logger = zerolog.New(w).With().Timestamp().Logger()
	} else {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: w})
	}
	return nil
}
