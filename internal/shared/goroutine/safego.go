// Package goroutine launches background work that must never crash the process.
package goroutine

import (
	"fmt"
	"runtime/debug"

	"github.com/samvyt/rifa/internal/shared/logger"
)

// SafeGo runs fn in a goroutine and logs a recovered panic with its stack.
func SafeGo(log logger.Interface, name string, fn func()) {
	go Recover(log, name, fn)
}

// Recover runs fn synchronously, converting a panic into an error log.
// Timer callbacks use it directly since they already run on their own goroutine.
func Recover(log logger.Interface, name string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			log.Errorw("goroutine panicked",
				"goroutine", name,
				"panic", fmt.Sprintf("%v", r),
				"stack", string(debug.Stack()),
			)
		}
	}()
	fn()
}
