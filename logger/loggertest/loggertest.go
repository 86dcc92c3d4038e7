/*
loggertest.go - Test logger construction

PURPOSE:
  Builds logger.Logger values that write through testing.TB, so test
  output stays attached to the test that produced it. Lives in its
  own package to keep the testing import out of production binaries.

USAGE:
  log := loggertest.NewLogger(t)
*/
package loggertest

import (
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/coverly/compare-engine/logger"
)

// NewLogger creates a Logger that writes through t.
func NewLogger(t testing.TB) logger.Logger {
	return logger.NewZapAdapter(zaptest.NewLogger(t))
}
