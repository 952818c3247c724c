package hcl

import (
	"fmt"
	"strings"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// stringList decodes an attribute that may be absent, a single string or a
// list of strings.
func stringList(name string, val cty.Value) ([]string, error) {
	if val.IsNull() {
		return nil, nil
	}
	if !val.IsWhollyKnown() {
		return nil, fmt.Errorf("%s: value must be known", name)
	}
	if val.Type().Equals(cty.String) {
		return []string{val.AsString()}, nil
	}

	listTy := cty.List(cty.String)
	converted, err := convert.Convert(val, listTy)
	if err != nil {
		return nil, fmt.Errorf("%s: cannot convert %s to %s: %w", name, val.Type().FriendlyName(), listTy.FriendlyName(), err)
	}
	var out []string
	if err := gocty.FromCtyValue(converted, &out); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return out, nil
}

// splitList splits a comma-separated attribute, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
