package main

import (
	"fmt"
	"os"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/joshuapare/heapkit/pkg/trace"
)

var printer = message.NewPrinter(language.English)

// emitReport prints rep in the selected format and passes runErr through.
func emitReport(rep *trace.Report, runErr error) error {
	if rep == nil {
		return runErr
	}
	if jsonOut {
		if err := printJSON(rep); err != nil {
			return err
		}
		return runErr
	}
	if !quiet {
		if err := rep.WriteText(os.Stdout); err != nil {
			return err
		}
	}
	return runErr
}

// formatBytes renders n with a binary unit, e.g. "3.0 MiB".
func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

// formatNumber groups digits, e.g. "1,048,576".
func formatNumber(n int64) string {
	return printer.Sprintf("%d", n)
}
