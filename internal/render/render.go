// Package render writes query results as text tables, JSON or YAML.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/specialistvlad/suiteplan/internal/executor"
	"github.com/specialistvlad/suiteplan/internal/resolver"
	"gopkg.in/yaml.v3"
)

// Format is an output encoding.
type Format string

const (
	Text Format = "text"
	JSON Format = "json"
	YAML Format = "yaml"
)

// ParseFormat validates an output format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case Text, JSON, YAML:
		return f, nil
	}
	return "", fmt.Errorf("unknown output format %q (want text, json or yaml)", s)
}

// List is an ordered set of identifiers computed for one target.
type List struct {
	Query  string   `json:"query" yaml:"query"`
	Target string   `json:"target" yaml:"target"`
	Items  []string `json:"items" yaml:"items"`
}

// OverlapResult is the overlap check of one distribution.
type OverlapResult struct {
	Distribution string   `json:"distribution" yaml:"distribution"`
	OK           bool     `json:"ok" yaml:"ok"`
	OverlapsWith string   `json:"overlaps_with,omitempty" yaml:"overlaps_with,omitempty"`
	Missing      []string `json:"missing,omitempty" yaml:"missing,omitempty"`
}

// NodeStatus is one line of a resolve report.
type NodeStatus struct {
	ID     string `json:"id" yaml:"id"`
	Kind   string `json:"kind" yaml:"kind"`
	Status string `json:"status" yaml:"status"`
	Cause  string `json:"cause,omitempty" yaml:"cause,omitempty"`
	Digest string `json:"digest,omitempty" yaml:"digest,omitempty"`
	Error  string `json:"error,omitempty" yaml:"error,omitempty"`
}

// Plan writes the build plan.
func Plan(w io.Writer, f Format, entries []resolver.Entry) error {
	if f != Text {
		return encode(w, f, entries)
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tID\tKIND\tCOMPLIANCE\tNOTE")
	for i, e := range entries {
		note := ""
		if e.Native {
			note = "native"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", i+1, e.ID, e.Kind, e.Compliance, note)
	}
	return tw.Flush()
}

// IDs writes an ordered identifier list.
func IDs(w io.Writer, f Format, l List) error {
	if l.Items == nil {
		l.Items = []string{}
	}
	if f != Text {
		return encode(w, f, l)
	}
	for _, id := range l.Items {
		if _, err := fmt.Fprintln(w, id); err != nil {
			return err
		}
	}
	return nil
}

// Overlaps writes overlap check results.
func Overlaps(w io.Writer, f Format, results []OverlapResult) error {
	if f != Text {
		return encode(w, f, results)
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "DISTRIBUTION\tRESULT\tOVERLAPS\tMISSING")
	for _, r := range results {
		result := "ok"
		if !r.OK {
			result = "violation"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.Distribution, result, r.OverlapsWith, strings.Join(r.Missing, ","))
	}
	return tw.Flush()
}

// Report writes a resolve report.
func Report(w io.Writer, f Format, r *executor.Report) error {
	rows := make([]NodeStatus, 0, len(r.Results))
	for _, res := range r.Results {
		row := NodeStatus{ID: res.ID, Kind: res.Kind.String(), Status: res.Status.String(), Cause: res.Cause}
		if res.Verified != nil {
			row.Digest = res.Verified.Digest.String()
		}
		if res.Status == executor.Failed && res.Err != nil {
			row.Error = res.Err.Error()
		}
		rows = append(rows, row)
	}
	if f != Text {
		return encode(w, f, rows)
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tKIND\tSTATUS\tDETAIL")
	for _, row := range rows {
		detail := row.Digest
		switch {
		case row.Cause != "":
			detail = "waiting on " + row.Cause
		case row.Error != "":
			detail = row.Error
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", row.ID, row.Kind, row.Status, detail)
	}
	return tw.Flush()
}

func encode(w io.Writer, f Format, v any) error {
	switch f {
	case JSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("unknown output format %q", f)
}
