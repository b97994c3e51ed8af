// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Personal Wings Contributors

package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/samber/oops"
	"gopkg.in/yaml.v3"
)

// Output formats.
const (
	outputJSON = "json"
	outputYAML = "yaml"
)

func validateOutput(format string) error {
	if format != outputJSON && format != outputYAML {
		return oops.Code("CLI_INVALID_OUTPUT").With("output", format).Errorf("output must be 'json' or 'yaml', got %q", format)
	}
	return nil
}

// printValue writes v to w as indented JSON or YAML. Values pass through
// JSON first so both formats use the json field names.
func printValue(w io.Writer, format string, v any) error {
	raw, ok := v.(json.RawMessage)
	if !ok {
		var err error
		if raw, err = json.Marshal(v); err != nil {
			return oops.Code("CLI_OUTPUT_FAILED").Wrap(err)
		}
	}
	if len(raw) == 0 {
		raw = json.RawMessage("null")
	}
	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return oops.Code("CLI_OUTPUT_FAILED").Wrapf(err, "decode response")
	}
	v = decoded

	switch format {
	case outputYAML:
		data, err := yaml.Marshal(v)
		if err != nil {
			return oops.Code("CLI_OUTPUT_FAILED").Wrap(err)
		}
		_, err = w.Write(data)
		return err
	default:
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return oops.Code("CLI_OUTPUT_FAILED").Wrap(err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	}
}
