// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package preserial

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ModelTypeKey is the key under which the class name of an object is rendered.
const ModelTypeKey = "modelType"

// MarshalJSON renders the object with its class name first and the keys in order.
func (o *Object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := writeNode(&buf, o); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Dump renders a tree as indented JSON for debugging and error reports.
func Dump(n Node) string {
	var compact bytes.Buffer
	if err := writeNode(&compact, n); err != nil {
		return fmt.Sprintf("<unrenderable tree: %v>", err)
	}
	var out bytes.Buffer
	if err := json.Indent(&out, compact.Bytes(), "", "  "); err != nil {
		return compact.String()
	}
	return out.String()
}

func writeNode(buf *bytes.Buffer, n Node) error {
	switch v := n.(type) {
	case *Object:
		buf.WriteByte('{')
		if err := writeKey(buf, ModelTypeKey); err != nil {
			return err
		}
		if err := writeScalar(buf, v.ClassName); err != nil {
			return err
		}
		for _, f := range v.Properties {
			buf.WriteByte(',')
			if err := writeKey(buf, f.Key); err != nil {
				return err
			}
			if err := writeNode(buf, f.Value); err != nil {
				return fmt.Errorf("%s: %w", f.Key, err)
			}
		}
		buf.WriteByte('}')
	case *List:
		buf.WriteByte('[')
		for i, item := range v.Items {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeNode(buf, item); err != nil {
				return fmt.Errorf("%d: %w", i, err)
			}
		}
		buf.WriteByte(']')
	case Primitive:
		return writeScalar(buf, v.Value)
	case Null:
		buf.WriteString("null")
	default:
		return fmt.Errorf("unexpected node %T", n)
	}
	return nil
}

func writeKey(buf *bytes.Buffer, key string) error {
	if err := writeScalar(buf, key); err != nil {
		return err
	}
	buf.WriteByte(':')
	return nil
}

func writeScalar(buf *bytes.Buffer, v any) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return err
	}
	// Encode terminates every value with a newline.
	buf.Truncate(buf.Len() - 1)
	return nil
}
