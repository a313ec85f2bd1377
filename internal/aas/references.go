// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package aas

import (
	"fmt"
	"slices"

	"github.com/dacolabs/testgen/internal/instance"
	"github.com/dacolabs/testgen/internal/pathhash"
	"github.com/dacolabs/testgen/internal/synth"
)

const (
	externalReference = "ExternalReference"
	modelReference    = "ModelReference"

	globalReference   = "GlobalReference"
	fragmentReference = "FragmentReference"
)

var (
	aasIdentifiables = []string{
		"AssetAdministrationShell",
		"ConceptDescription",
		"Identifiable",
		"Submodel",
	}

	globallyIdentifiables = append([]string{globalReference}, aasIdentifiables...)

	fragmentKeys = []string{
		"AnnotatedRelationshipElement",
		"BasicEventElement",
		"Blob",
		"DataElement",
		"Entity",
		"File",
		fragmentReference,
		"MultiLanguageProperty",
		"Property",
		"Range",
		"ReferenceElement",
		"SubmodelElement",
		"SubmodelElementCollection",
		"SubmodelElementList",
	}
)

func (p *Profile) key(keyType, value string) *instance.Instance {
	return p.newInstance("Key").
		Set("type", instance.Literal(keyType)).
		Set("value", value)
}

func (p *Profile) reference(refType string, keys ...*instance.Instance) *instance.Instance {
	return p.newInstance("Reference").
		Set("type", instance.Literal(refType)).
		Set("keys", keys)
}

func keyValueHash(h *pathhash.Hash, i int) *pathhash.Hash {
	return pathhash.Extend(h, pathhash.Prop("keys"), pathhash.Index(i), pathhash.Prop("value"))
}

// modelReferenceTo derives a model reference to an instance of the key type.
// Identifiables are referred to directly, anything else as an element of a submodel.
func (p *Profile) modelReferenceTo(h *pathhash.Hash, keyType string) *instance.Instance {
	if slices.Contains(aasIdentifiables, keyType) {
		return p.reference(modelReference, p.key(keyType, synth.URN(keyValueHash(h, 0))))
	}
	return p.reference(modelReference,
		p.key("Submodel", synth.URN(keyValueHash(h, 0))),
		p.key(keyType, synth.IDShort(keyValueHash(h, 1))))
}

// globalReferenceAt derives an external reference with a single global key.
func (p *Profile) globalReferenceAt(h *pathhash.Hash) *instance.Instance {
	return p.reference(externalReference, p.key(globalReference, synth.URN(keyValueHash(h, 0))))
}

func keyTypes(ref *instance.Instance) ([]string, []string) {
	keys := ref.Items("keys")
	types := make([]string, len(keys))
	values := make([]string, len(keys))
	for i, k := range keys {
		t, _ := k.Literal("type")
		types[i] = string(t)
		values[i], _ = k.String("value")
	}
	return types, values
}

// isModelReferenceTo reports whether ref is a model reference whose first key
// is of the key type.
func isModelReferenceTo(ref *instance.Instance, keyType string) bool {
	if ref == nil {
		return false
	}
	if t, _ := ref.Literal("type"); t != modelReference {
		return false
	}
	types, _ := keyTypes(ref)
	return len(types) > 0 && types[0] == keyType
}

func isReferenceOfType(ref *instance.Instance, refType string) bool {
	if ref == nil {
		return false
	}
	t, _ := ref.Literal("type")
	return string(t) == refType
}

// keyChainViolations lists the broken rules on the keys of a reference.
func keyChainViolations(ref *instance.Instance) []string {
	types, values := keyTypes(ref)
	if len(types) == 0 {
		return nil
	}
	refType, _ := ref.Literal("type")
	first, last := types[0], types[len(types)-1]

	var out []string
	if !slices.Contains(globallyIdentifiables, first) {
		out = append(out, fmt.Sprintf("AASd-121: the first key must be globally identifiable, got %s", first))
	}

	switch string(refType) {
	case externalReference:
		if first != globalReference {
			out = append(out, fmt.Sprintf("AASd-122: an external reference must start with a %s key, got %s", globalReference, first))
		}
		if last != globalReference && last != fragmentReference {
			out = append(out, fmt.Sprintf("AASd-124: an external reference must end with a %s or %s key, got %s", globalReference, fragmentReference, last))
		}
	case modelReference:
		if !slices.Contains(aasIdentifiables, first) {
			out = append(out, fmt.Sprintf("AASd-123: a model reference must start with an identifiable key, got %s", first))
		}
		for i := 1; i < len(types); i++ {
			if !slices.Contains(fragmentKeys, types[i]) {
				out = append(out, fmt.Sprintf("AASd-125: key %d must be a fragment key, got %s", i, types[i]))
			}
		}
		for i := 0; i < len(types)-1; i++ {
			if types[i] == fragmentReference {
				out = append(out, fmt.Sprintf("AASd-126: key %d is a %s but not the last key", i, fragmentReference))
			}
		}
		if len(types) > 1 && last == fragmentReference {
			if before := types[len(types)-2]; before != "File" && before != "Blob" {
				out = append(out, fmt.Sprintf("AASd-127: a %s must follow a File or a Blob key, got %s", fragmentReference, before))
			}
		}
		for i := 0; i < len(types)-1; i++ {
			if types[i] == "SubmodelElementList" && !indexRe.MatchString(values[i+1]) {
				out = append(out, fmt.Sprintf("AASd-128: key %d after a list must be an index, got %q", i+1, values[i+1]))
			}
		}
	}
	return out
}

// sameReference compares two references by type, keys and referred semantic id.
func sameReference(a, b *instance.Instance) bool {
	if a == nil || b == nil {
		return a == b
	}
	at, _ := a.Literal("type")
	bt, _ := b.Literal("type")
	if at != bt {
		return false
	}
	aTypes, aValues := keyTypes(a)
	bTypes, bValues := keyTypes(b)
	if !slices.Equal(aTypes, bTypes) || !slices.Equal(aValues, bValues) {
		return false
	}
	return sameReference(a.Child("referredSemanticId"), b.Child("referredSemanticId"))
}
