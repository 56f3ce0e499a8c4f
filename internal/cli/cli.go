package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"

	"nbkit/internal/errhandling"
	"nbkit/internal/stats"
	"nbkit/internal/virtdata"
	"nbkit/internal/workload"
)

const rule = "======================================================================"

// PrintWorkloads writes one table row per workload.
func PrintWorkloads(w io.Writer, descs []workload.Desc, withTemplates bool) {
	if len(descs) == 0 {
		fmt.Fprintln(w, "No workloads found")
		return
	}

	table := tablewriter.NewWriter(w)
	if withTemplates {
		table.Header("Workload", "Scenarios", "Templates")
	} else {
		table.Header("Workload", "Scenarios")
	}

	for _, d := range descs {
		row := []string{d.YAMLPath(), strings.Join(d.ScenarioNames(), ", ")}
		if withTemplates {
			row = append(row, strings.Join(d.Templates().Sorted(), ", "))
		}
		table.Append(row)
	}

	table.Render()
	fmt.Fprintf(w, "\nTotal workloads: %d\n", len(descs))
}

// PrintMapped writes each input next to its mapped value.
func PrintMapped(w io.Writer, op virtdata.LongUnaryOperator, inputs []int64) {
	table := tablewriter.NewWriter(w)
	table.Header("Input", "Output")
	for _, in := range inputs {
		table.Append([]string{
			strconv.FormatInt(in, 10),
			strconv.FormatInt(op.ApplyAsLong(in), 10),
		})
	}
	table.Render()
}

func PrintFetchSummary(w io.Writer, url string, n int64, elapsed time.Duration) {
	fmt.Fprintf(w, "Fetched %s (%s) in %s\n", url, humanize.Bytes(uint64(n)), elapsed.Round(time.Millisecond))
}

// PrintFailure reports the final status of a failed operation and the
// error counts gathered while handling it.
func PrintFailure(w io.Writer, status errhandling.Status, err error, summaries []stats.Summary) {
	fmt.Fprintf(w, "\nFAILURE SUMMARY\n")
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "Error       : %v\n", err)
	fmt.Fprintf(w, "Response    : %s\n", status.Response())
	fmt.Fprintf(w, "Retryable   : %t\n", status.Retryable())
	fmt.Fprintf(w, "Result Code : %d\n", status.ResultCode())

	if len(summaries) > 0 {
		fmt.Fprintln(w)
		table := tablewriter.NewWriter(w)
		table.Header("Error", "Count", "Timed", "P50 (ms)", "P99 (ms)", "Max (ms)")
		for _, s := range summaries {
			table.Append([]string{
				s.Name,
				strconv.FormatUint(s.Count, 10),
				strconv.FormatInt(s.Timed, 10),
				fmt.Sprintf("%.2f", s.P50Ms),
				fmt.Sprintf("%.2f", s.P99Ms),
				fmt.Sprintf("%.2f", s.MaxMs),
			})
		}
		table.Render()
	}
	fmt.Fprintln(w, rule)
}
