package docset

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dhamidi/asdoc/asdoc"
)

// descriptorFile is the document form of a descriptor stream. A bare list
// of descriptors is accepted as well.
type descriptorFile struct {
	Descriptors []asdoc.Descriptor `yaml:"descriptors"`
}

// LoadDescriptors decodes a descriptor stream written as YAML or JSON.
func LoadDescriptors(r io.Reader) ([]asdoc.Descriptor, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read descriptors: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("decode descriptors: %w", err)
	}
	doc := &root
	if doc.Kind == yaml.DocumentNode && len(doc.Content) > 0 {
		doc = doc.Content[0]
	}

	var descs []asdoc.Descriptor
	switch doc.Kind {
	case yaml.SequenceNode:
		err = doc.Decode(&descs)
	case yaml.MappingNode:
		var f descriptorFile
		err = doc.Decode(&f)
		descs = f.Descriptors
	default:
		return nil, fmt.Errorf("decode descriptors: expected a list or a mapping, line %d", doc.Line)
	}
	if err != nil {
		return nil, fmt.Errorf("decode descriptors: %w", err)
	}
	return descs, nil
}

// LoadDescriptorFile reads a descriptor stream from path.
func LoadDescriptorFile(path string) ([]asdoc.Descriptor, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open descriptors: %w", err)
	}
	defer f.Close()
	return LoadDescriptors(f)
}
