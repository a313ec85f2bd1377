// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package emit

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"math"
	"strconv"

	"github.com/dacolabs/testgen/internal/generation"
	"github.com/dacolabs/testgen/internal/preserial"
	"gopkg.in/yaml.v3"
)

// YAMLEmitter writes the container as a YAML document keeping the property order.
type YAMLEmitter struct{}

// Name returns the emitter identifier.
func (e *YAMLEmitter) Name() string { return "yaml" }

// FileExtension returns the file extension for YAML files.
func (e *YAMLEmitter) FileExtension() string { return ".yaml" }

// Emit renders the container of the case.
func (e *YAMLEmitter) Emit(c *generation.Case) ([]byte, error) {
	node, err := yamlNode(c.Container)
	if err != nil {
		return nil, fmt.Errorf("failed to convert %s: %w", c.Identity(), err)
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(node); err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", c.Identity(), err)
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func yamlNode(n preserial.Node) (*yaml.Node, error) {
	switch v := n.(type) {
	case *preserial.Object:
		node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		node.Content = append(node.Content, scalar("!!str", preserial.ModelTypeKey), scalar("!!str", v.ClassName))
		for _, f := range v.Properties {
			child, err := yamlNode(f.Value)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", f.Key, err)
			}
			node.Content = append(node.Content, scalar("!!str", f.Key), child)
		}
		return node, nil
	case *preserial.List:
		node := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for i, item := range v.Items {
			child, err := yamlNode(item)
			if err != nil {
				return nil, fmt.Errorf("%d: %w", i, err)
			}
			node.Content = append(node.Content, child)
		}
		return node, nil
	case preserial.Primitive:
		return primitiveNode(v.Value)
	case preserial.Null:
		return scalar("!!null", "null"), nil
	default:
		return nil, fmt.Errorf("unexpected node %T", n)
	}
}

func primitiveNode(v any) (*yaml.Node, error) {
	switch tv := v.(type) {
	case string:
		return scalar("!!str", tv), nil
	case bool:
		return scalar("!!bool", strconv.FormatBool(tv)), nil
	case int64:
		return scalar("!!int", strconv.FormatInt(tv, 10)), nil
	case float64:
		return scalar("!!float", formatFloat(tv)), nil
	case []byte:
		return scalar("!!binary", base64.StdEncoding.EncodeToString(tv)), nil
	default:
		return nil, fmt.Errorf("unexpected primitive %T", v)
	}
}

func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return ".nan"
	case math.IsInf(f, 1):
		return ".inf"
	case math.IsInf(f, -1):
		return "-.inf"
	default:
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
}

func scalar(tag, value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value}
}
