// errors.go
package resonance

import (
	"errors"
	"fmt"
)

// ErrInvalidParameter は入力検証エラーすべてに共通の sentinel。
// errors.Is(err, ErrInvalidParameter) で判定する。
var ErrInvalidParameter = errors.New("invalid parameter")

// InvalidParameterError はどのパラメータがなぜ不正かを保持する。
type InvalidParameterError struct {
	Param  string
	Value  float64
	Reason string
}

func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf("invalid parameter %s=%g: %s", e.Param, e.Value, e.Reason)
}

func (e *InvalidParameterError) Is(target error) bool {
	return target == ErrInvalidParameter
}

func invalid(param string, v float64, format string, args ...any) error {
	return &InvalidParameterError{Param: param, Value: v, Reason: fmt.Sprintf(format, args...)}
}
