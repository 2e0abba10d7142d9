package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/DrSkyle/digraph/pkg/report"
)

func writeSummary(w io.Writer, s report.Summary) error {
	switch strings.ToLower(outputFormat) {
	case "", "text":
		return report.Render(w, s)
	case "json":
		return report.WriteJSON(w, s)
	case "csv":
		return report.WriteCSV(w, s)
	default:
		return fmt.Errorf("unknown output format %q (want text, json or csv)", outputFormat)
	}
}
