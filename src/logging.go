package nanosynth

/*------------------------------------------------------------------
 *
 * Purpose:	Structured diagnostics for the compiler pipeline. One
 *		Debug line per pass, emitted from Builder.Build.
 *
 *------------------------------------------------------------------*/

import (
	"os"

	"github.com/charmbracelet/log"
)

var logger = log.New(os.Stderr)

func init() {
	logger.SetLevel(log.InfoLevel)
	logger.SetReportTimestamp(false)
}

// SetVerbose raises or lowers the package logger's level. CLI tools call
// this from a -v/--verbose flag.
func SetVerbose(verbose bool) {
	if verbose {
		logger.SetLevel(log.DebugLevel)
	} else {
		logger.SetLevel(log.InfoLevel)
	}
}
