// Package export writes the benchmark data in formats other tools can read.
package export

import (
	"fmt"
	"io"

	"bench-graphs/internal/bench"

	"gopkg.in/yaml.v3"
)

// WriteYAML writes each dataset as its own YAML document.
func WriteYAML(w io.Writer, datasets []bench.Dataset) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	for _, d := range datasets {
		if err := d.Validate(); err != nil {
			return err
		}
		if err := enc.Encode(d); err != nil {
			return fmt.Errorf("failed to encode %s: %w", d.Name, err)
		}
	}
	return enc.Close()
}

// ReadYAML decodes documents written by WriteYAML and validates each one.
func ReadYAML(r io.Reader) ([]bench.Dataset, error) {
	dec := yaml.NewDecoder(r)
	var out []bench.Dataset
	for {
		var d bench.Dataset
		err := dec.Decode(&d)
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to decode dataset %d: %w", len(out)+1, err)
		}
		if err := d.Validate(); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
}
