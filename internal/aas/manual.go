// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package aas

import (
	"github.com/dacolabs/testgen/internal/generation"
	"github.com/dacolabs/testgen/internal/instance"
	"github.com/dacolabs/testgen/internal/pathhash"
)

var elementPath = instance.Path{
	pathhash.Prop("submodels"), pathhash.Index(0),
	pathhash.Prop("submodelElements"), pathhash.Index(0),
}

// inSubmodel places the element as the only element of a submodel in an environment.
func (p *Profile) inSubmodel(element *instance.Instance) *instance.Instance {
	submodel := p.newInstance("Submodel").
		Set("id", "https://example.com/some-submodel").
		Set("idShort", "someSubmodel").
		Set("submodelElements", []*instance.Instance{element})
	return p.newInstance(RootClass).Set("submodels", []*instance.Instance{submodel})
}

func (p *Profile) booleanProperty(semanticID *instance.Instance) *instance.Instance {
	prop := p.newInstance("Property").Set("valueType", instance.Literal("xs:boolean"))
	if semanticID != nil {
		prop.Set("semanticId", semanticID.Clone())
	}
	return prop
}

// listSetup is a consistent list of two boolean properties sharing the
// semantic id of the list.
type listSetup struct {
	env        *instance.Instance
	list       *instance.Instance
	semanticID *instance.Instance
}

func (p *Profile) newListSetup() listSetup {
	h := pathhash.Of(elementPath...)
	semanticID := p.globalReferenceAt(pathhash.Extend(h, pathhash.Prop("semanticIdListElement")))
	list := p.newInstance("SubmodelElementList").
		Set("idShort", "someList").
		Set("typeValueListElement", instance.Literal("Property")).
		Set("valueTypeListElement", instance.Literal("xs:boolean")).
		Set("semanticIdListElement", semanticID.Clone()).
		Set("value", []*instance.Instance{p.booleanProperty(semanticID), p.booleanProperty(semanticID)})
	return listSetup{env: p.inSubmodel(list), list: list, semanticID: semanticID}
}

func (s listSetup) values() []*instance.Instance {
	return s.list.Items("value")
}

// scenario is a hand-built environment and whether it should be accepted.
type scenario struct {
	name     string
	expected bool
	env      *instance.Instance
}

func manualCases(className string, scenarios []scenario) []*generation.Case {
	out := make([]*generation.Case, len(scenarios))
	for i, sc := range scenarios {
		out[i] = generation.NewManualCase(className, sc.name, sc.expected, sc.env)
	}
	return out
}

func (p *Profile) listCases() ([]*generation.Case, error) {
	return manualCases("SubmodelElementList", p.listScenarios()), nil
}

// listScenarios cover the rules binding the items of a submodel element list.
func (p *Profile) listScenarios() []scenario {
	h := pathhash.Of(elementPath...)
	itemSemanticID := func(i int) *instance.Instance {
		return p.globalReferenceAt(pathhash.Extend(h, pathhash.Prop("value"), pathhash.Index(i), pathhash.Prop("semanticId")))
	}
	var out []scenario
	add := func(name string, expected bool, s listSetup) {
		out = append(out, scenario{name: name, expected: expected, env: s.env})
	}

	s := p.newListSetup()
	s.values()[0].Unset("semanticId")
	add("oneChildWithoutSemanticId", true, s)

	s = p.newListSetup()
	s.list.Unset("semanticIdListElement")
	add("noSemanticIdListElement", true, s)

	s = p.newListSetup()
	rng := p.newInstance("Range").
		Set("valueType", instance.Literal("xs:boolean")).
		Set("semanticId", s.semanticID.Clone())
	s.list.Set("value", []*instance.Instance{rng})
	add("againstTypeValueListElement", false, s)

	s = p.newListSetup()
	first := s.values()[0]
	first.Set("valueType", instance.Literal("xs:int"))
	s.list.Set("value", []*instance.Instance{first})
	add("againstValueTypeListElement", false, s)

	s = p.newListSetup()
	first = s.values()[0]
	first.Set("semanticId", itemSemanticID(0))
	s.list.Set("value", []*instance.Instance{first})
	add("againstSemanticIdListElement", false, s)

	s = p.newListSetup()
	s.list.Unset("semanticIdListElement")
	for i, item := range s.values() {
		item.Set("semanticId", itemSemanticID(i))
	}
	add("noSemanticIdListElementButSemanticIdMismatchInValue", false, s)

	s = p.newListSetup()
	first = s.values()[0]
	first.Set("idShort", "unexpected")
	s.list.Set("value", []*instance.Instance{first})
	add("idShortInAValue", false, s)

	return out
}

const (
	someIdentifiable = "https://example.com/something-identifiable"
	someGlobal       = "https://example.com/something-global"
	something        = "https://example.com/something"
)

type keySpec struct {
	keyType string
	value   string
}

type referenceCase struct {
	name     string
	expected bool
	refType  string
	keys     []keySpec
}

// keyChainCases cover the rules on the key chains of references.
var keyChainCases = []referenceCase{
	{"firstKeyNotInGloballyIdentifiablesForModelReference", false, modelReference, []keySpec{{"Blob", something}}},
	{"firstKeyNotInGloballyIdentifiablesForExternalReference", false, externalReference, []keySpec{{"Blob", something}}},
	{"firstKeyNotInAasIdentifiables", false, modelReference, []keySpec{{globalReference, something}}},
	{"lastKeyNotGenericGloballyIdentifiableNorFragment", false, externalReference, []keySpec{{globalReference, something}, {"Blob", "something_more"}}},
	{"secondKeyNotInFragmentKeys", false, modelReference, []keySpec{{"Submodel", something}, {globalReference, "something_more"}}},
	{"fragmentReferenceNotAtTheEnd", false, modelReference, []keySpec{{"Submodel", something}, {fragmentReference, "something_more"}, {"Property", "yet_something_more"}}},
	{"fragmentReferenceAfterNeitherFileNorBlob", false, modelReference, []keySpec{{"Submodel", something}, {"Property", "something_more"}, {fragmentReference, "yet_something_more"}}},
	{"invalidIndexAfterSubmodelElementList", false, modelReference, []keySpec{{"Submodel", something}, {"SubmodelElementList", "something_more"}, {"Property", "-1"}}},
	{"externalReferenceToGlobalReference", true, externalReference, []keySpec{{globalReference, something}}},
	{"modelReferenceToSubmodel", true, modelReference, []keySpec{{"Submodel", something}}},
	{"externalReferenceWithTwoGlobalReferences", true, externalReference, []keySpec{{globalReference, something}, {globalReference, "something-more"}}},
	{"externalReferenceWithFragmentReference", true, externalReference, []keySpec{{globalReference, something}, {fragmentReference, "something-more"}}},
	{"fragmentReferenceAfterBlob", true, modelReference, []keySpec{{"Submodel", something}, {"Blob", "something_more"}, {fragmentReference, "yet_something_more"}}},
	{"indexAfterSubmodelElementList", true, modelReference, []keySpec{{"Submodel", something}, {"SubmodelElementList", "something_more"}, {"Property", "123"}}},
}

func (p *Profile) referenceCases() ([]*generation.Case, error) {
	return manualCases("Reference", p.keyChainScenarios()), nil
}

// keyChainScenarios place each key chain in a reference element, replacing
// the keys of a valid model or external reference.
func (p *Profile) keyChainScenarios() []scenario {
	out := make([]scenario, 0, len(keyChainCases))
	for _, rc := range keyChainCases {
		keys := make([]*instance.Instance, len(rc.keys))
		for i, k := range rc.keys {
			keys[i] = p.key(k.keyType, k.value)
		}
		ref := p.baseReference(rc.refType).Set("keys", keys)
		element := p.newInstance("ReferenceElement").
			Set("idShort", "someElement").
			Set("value", ref)
		out = append(out, scenario{name: rc.name, expected: rc.expected, env: p.inSubmodel(element)})
	}
	return out
}

// baseReference is the valid reference of the given type the cases start from.
func (p *Profile) baseReference(refType string) *instance.Instance {
	if refType == externalReference {
		return p.reference(externalReference, p.key(globalReference, someGlobal))
	}
	return p.reference(modelReference, p.key("Identifiable", someIdentifiable))
}
