package app

import (
	"fmt"
	"runtime/debug"
	"strings"

	"grafcalc/hal"
)

// guard wraps step so that a panic is written to the HAL logger, stack
// included, and returned as an error instead of killing the host loop
// mid-frame.
func guard(h hal.HAL, step func() error) func() error {
	return func() (err error) {
		defer func() {
			v := recover()
			if v == nil {
				return
			}
			err = fmt.Errorf("app panic: %v", v)
			l := h.Logger()
			if l == nil {
				return
			}
			l.WriteLineString(err.Error())
			for _, line := range strings.Split(string(debug.Stack()), "\n") {
				if line == "" {
					continue
				}
				l.WriteLineString(line)
			}
		}()
		return step()
	}
}
