package dispatch

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hupe1980/agentcore/core"
)

// Digest renders a batch result as the compact textual report fed back to
// the model: one line per outcome followed by a success/failure summary.
func Digest(result core.ToolBatchResult) string {
	var sb strings.Builder

	for _, outcome := range result.Outcomes {
		if outcome.Succeeded {
			fmt.Fprintf(&sb, "✅ %s: %s\n", outcome.Name, renderResult(outcome.Result))
		} else {
			fmt.Fprintf(&sb, "❌ %s: %s\n", outcome.Name, outcome.Error)
		}
	}

	fmt.Fprintf(&sb, "\nTool execution summary: %d successful, %d failed", result.SuccessCount, result.FailureCount)

	return sb.String()
}

func renderResult(v any) string {
	switch value := v.(type) {
	case nil:
		return "(no result)"
	case string:
		return value
	default:
		data, err := json.Marshal(value)
		if err != nil {
			return fmt.Sprintf("%v", value)
		}

		return string(data)
	}
}
