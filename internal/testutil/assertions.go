package testutil

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// PlanIDs decodes the identifiers of a JSON plan or resolve report.
func PlanIDs(t *testing.T, result *HarnessResult) []string {
	t.Helper()
	var rows []struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal([]byte(result.Output), &rows), "output is not a JSON list")
	ids := make([]string, len(rows))
	for i, r := range rows {
		ids[i] = r.ID
	}
	return ids
}

// Statuses decodes a JSON resolve report into id -> status.
func Statuses(t *testing.T, result *HarnessResult) map[string]string {
	t.Helper()
	var rows []struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	require.NoError(t, json.Unmarshal([]byte(result.Output), &rows), "output is not a JSON list")
	out := make(map[string]string, len(rows))
	for _, r := range rows {
		out[r.ID] = r.Status
	}
	return out
}

// Lines splits text output into non-empty lines.
func Lines(result *HarnessResult) []string {
	var out []string
	for _, l := range strings.Split(result.Output, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return out
}

// AssertBefore checks that every pair (a, b) has a listed before b in order.
func AssertBefore(t *testing.T, order []string, pairs ...[2]string) {
	t.Helper()
	pos := make(map[string]int, len(order))
	for i, id := range order {
		pos[id] = i
	}
	for _, p := range pairs {
		a, okA := pos[p[0]]
		b, okB := pos[p[1]]
		require.True(t, okA, "%q missing from order", p[0])
		require.True(t, okB, "%q missing from order", p[1])
		require.Less(t, a, b, "expected %q before %q in %v", p[0], p[1], order)
	}
}
