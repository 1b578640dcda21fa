package encode

import (
	"fmt"

	"github.com/goccy/go-yaml"

	strain "github.com/strain-format/strain"
)

// YAML encodes a patch set in YAML, structurally identical to the JSON
// wire form.
func YAML(ps *strain.PatchSet) ([]byte, error) {
	d, err := JSON(ps)
	if err != nil {
		return nil, err
	}
	y, err := yaml.JSONToYAML(d)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", strain.ErrSerialization, err)
	}
	return y, nil
}

// FromYAML decodes a YAML patch set.
func FromYAML(d []byte, opts ...DecodeOption) (*strain.PatchSet, error) {
	j, err := yaml.YAMLToJSON(d)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", strain.ErrSerialization, err)
	}
	return FromJSON(j, opts...)
}
