package lang

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-yaml"
)

// Format writes the specification in canonical DSL syntax to the writer.
func (s *Spec) Format(_ context.Context, w io.Writer) error {
	_, err := fmt.Fprintln(w, s.String())

	return err
}

// FormatJSON writes a description of the specification as JSON.
func (s *Spec) FormatJSON(_ context.Context, w io.Writer, indent int) error {
	var (
		jsonData []byte
		err      error
	)

	if indent > 0 {
		jsonData, err = json.MarshalIndent(s.ToMap(), "", strings.Repeat(" ", indent))
	} else {
		jsonData, err = json.Marshal(s.ToMap())
	}

	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(jsonData))

	return err
}

// FormatYAML writes a description of the specification as YAML.
func (s *Spec) FormatYAML(ctx context.Context, w io.Writer, indent int) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	yamlData, err := yaml.MarshalContext(ctx, s.ToMap(), opts...)
	if err != nil {
		return err
	}

	_, err = fmt.Fprint(w, string(yamlData))

	return err
}

// ToMap describes the specification as nested maps and slices suitable for
// serialization.
func (s *Spec) ToMap() map[string]any {
	params := make([]map[string]any, len(s.Params))
	for i, p := range s.Params {
		params[i] = map[string]any{
			"name":      p.Name,
			"low":       p.Low,
			"high":      p.High,
			"exclusive": p.Exclusive,
			"count":     p.Count(),
		}
	}

	m := map[string]any{
		"params":      params,
		"return_type": s.ReturnType.Text,
		"body":        s.Body.Text,
		"shape":       s.Shape(),
	}

	if cells, ok := s.Cells(); ok {
		m["cells"] = cells
	}

	return m
}
