// Package output formats benchmark reports for the console.
package output

import (
	"encoding/json"
	"fmt"
	"strings"

	"blkbench/internal/bench"
)

// OutputFormat represents the supported output format types
type OutputFormat string

// supported output format constants
const (
	// flat format outputs one plain line per report
	FlatFormat OutputFormat = "flat"

	// table format outputs results in a human-readable table
	TableFormat OutputFormat = "table"

	// json format outputs results as a json array
	JSONFormat OutputFormat = "json"
)

// FormatReports formats benchmark reports according to the specified format
func FormatReports(reports []bench.Report, format OutputFormat) (string, error) {
	switch format {
	case FlatFormat:
		// one line per report, job-prefixed only when there are
		// several workers to tell apart
		var sb strings.Builder
		for _, r := range reports {
			if r.Job >= 0 && len(reports) > 1 {
				sb.WriteString(fmt.Sprintf("%d: ", r.Job))
			}
			sb.WriteString(fmt.Sprintf("throughput %.2fMB/s, avg latency %dns\n", r.ThroughputMBps, r.AvgLatencyNs))
		}
		return sb.String(), nil

	case TableFormat:
		// create string builder for table output
		var sb strings.Builder

		// write table header
		sb.WriteString(fmt.Sprintf("\n%8s  %14s  %14s\n", "job", "BW (MB/s)", "lat (ns)"))

		// write one row per report
		for _, r := range reports {
			job := "all"
			if r.Job >= 0 {
				job = fmt.Sprintf("%d", r.Job)
			}
			sb.WriteString(fmt.Sprintf("%8s  %14.2f  %14d\n", job, r.ThroughputMBps, r.AvgLatencyNs))
		}
		return sb.String(), nil

	case JSONFormat:
		// marshal the reports to json
		jsonBytes, err := json.MarshalIndent(reports, "", "  ")
		if err != nil {
			return "", fmt.Errorf("failed to marshal json: %w", err)
		}
		return string(jsonBytes) + "\n", nil

	default:
		// return error for unsupported format
		return "", fmt.Errorf("unsupported output format: %s", format)
	}
}

// ValidateFormat checks if the provided format string is a valid output format
func ValidateFormat(format string) (OutputFormat, error) {
	// convert format to OutputFormat type
	f := OutputFormat(strings.ToLower(format))

	// check if format is supported
	switch f {
	case FlatFormat, TableFormat, JSONFormat:
		return f, nil
	default:
		return "", fmt.Errorf("invalid format '%s'. supported formats are: flat, table, json", format)
	}
}
