package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jakoblorz/go-buildkit/internal/project"
	"gopkg.in/yaml.v3"
)

const metadataKey = "buildMetadata"

// metadataShape lists the build metadata fields whose wrong type is reported
// with the same kind as a missing or invalid value. Paths are relative to
// buildMetadata. Nested entries also claim the values below them.
var metadataShape = []struct {
	path   string
	node   yaml.Kind
	kind   error
	nested bool
}{
	{path: "projectType", node: yaml.ScalarNode, kind: project.ErrInvalidProjectType},
	{path: "language", node: yaml.ScalarNode, kind: project.ErrInvalidLanguage},
	{path: "aws", node: yaml.MappingNode, kind: project.ErrMissingAwsConfig},
	{path: "aws.stacks", node: yaml.MappingNode, kind: project.ErrMissingAwsStacks, nested: true},
	{path: "privateNpm", node: yaml.MappingNode, kind: project.ErrMissingPrivateNpmParams},
	{path: "privateNpm.params", node: yaml.SequenceNode, kind: project.ErrMissingPrivateNpmParams, nested: true},
}

// kindForField returns the error kind for a mistyped buildMetadata field, or
// ErrInvalidConfig when the field carries no specific kind.
func kindForField(path string) error {
	for _, field := range metadataShape {
		if path == field.path || (field.nested && strings.HasPrefix(path, field.path+".")) {
			return field.kind
		}
	}
	return project.ErrInvalidConfig
}

// packageDecodeError classifies a package.json decode failure.
func packageDecodeError(path string, err error) error {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && strings.HasPrefix(typeErr.Field, metadataKey+".") {
		return &project.Error{
			Kind:  kindForField(strings.TrimPrefix(typeErr.Field, metadataKey+".")),
			Field: typeErr.Field,
			Msg:   err.Error(),
		}
	}
	return &project.Error{Kind: project.ErrInvalidConfig, Field: path, Msg: err.Error()}
}

// checkOverrideShape reports the first known override field holding a value
// of the wrong YAML kind. Null and absent fields are left to validation.
func checkOverrideShape(doc *yaml.Node) error {
	root := doc
	if root.Kind == yaml.DocumentNode {
		if len(root.Content) == 0 {
			return nil
		}
		root = root.Content[0]
	}
	if root.Kind != yaml.MappingNode {
		return nil
	}

	for _, field := range metadataShape {
		node := lookupNode(root, strings.Split(field.path, "."))
		if node == nil || node.Tag == "!!null" || node.Kind == field.node {
			continue
		}
		return &project.Error{
			Kind:  field.kind,
			Field: metadataKey + "." + field.path,
			Msg:   fmt.Sprintf("line %d: expected %s, found %s", node.Line, nodeKindName(field.node), nodeKindName(node.Kind)),
		}
	}
	return nil
}

func lookupNode(node *yaml.Node, segments []string) *yaml.Node {
	for _, segment := range segments {
		node = resolveAlias(node)
		if node.Kind != yaml.MappingNode {
			return nil
		}
		var next *yaml.Node
		for i := 0; i+1 < len(node.Content); i += 2 {
			if node.Content[i].Value == segment {
				next = node.Content[i+1]
				break
			}
		}
		if next == nil {
			return nil
		}
		node = next
	}
	return resolveAlias(node)
}

func resolveAlias(node *yaml.Node) *yaml.Node {
	for node.Kind == yaml.AliasNode && node.Alias != nil {
		node = node.Alias
	}
	return node
}

func nodeKindName(kind yaml.Kind) string {
	switch kind {
	case yaml.ScalarNode:
		return "scalar"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	default:
		return "node"
	}
}
