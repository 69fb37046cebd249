package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/arcsight-connector/pkg/domain/model"
	"github.com/secmon-lab/arcsight-connector/pkg/domain/types"
)

var (
	statusOK    = color.New(color.FgGreen, color.Bold)
	statusNG    = color.New(color.FgRed, color.Bold)
	summaryKey  = color.New(color.FgHiCyan)
	actionLabel = color.New(color.FgHiWhite, color.Bold)
)

// printResult writes a colored summary to stderr and the full result as JSON to w
func printResult(w io.Writer, result *model.ActionResult) error {
	printSummary(os.Stderr, result)

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		return goerr.Wrap(err, "failed to write action result")
	}
	return nil
}

func printSummary(w io.Writer, result *model.ActionResult) {
	status := statusOK
	if result.Status != types.ActionStatusSuccess {
		status = statusNG
	}

	_, _ = actionLabel.Fprintf(w, "%s ", result.Action)
	_, _ = status.Fprintf(w, "[%s]", result.Status)
	_, _ = fmt.Fprintf(w, " %s\n", result.Message)

	keys := make([]string, 0, len(result.Summary))
	for k := range result.Summary {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		_, _ = summaryKey.Fprintf(w, "  %s", k)
		_, _ = fmt.Fprintf(w, ": %v\n", result.Summary[k])
	}
}
