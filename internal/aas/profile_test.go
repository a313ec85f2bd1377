// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package aas

import (
	"context"
	"strings"
	"testing"

	"github.com/dacolabs/testgen/internal/catalog"
	"github.com/dacolabs/testgen/internal/generation"
	"github.com/dacolabs/testgen/internal/instance"
	"github.com/dacolabs/testgen/internal/pathhash"
	"github.com/dacolabs/testgen/internal/repair"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProfile(t *testing.T) *Profile {
	t.Helper()
	cat, err := catalog.Default()
	require.NoError(t, err)
	p, err := New(cat)
	require.NoError(t, err)
	return p
}

func causes(violations []repair.Violation) string {
	lines := make([]string, len(violations))
	for i, v := range violations {
		lines[i] = v.String()
	}
	return strings.Join(lines, "\n")
}

func TestLoad(t *testing.T) {
	s, err := Load()
	require.NoError(t, err)

	element := s.MustClass("SubmodelElement")
	assert.True(t, element.Abstract)
	assert.Contains(t, element.Variants(), "SubmodelElementList")
	assert.NotContains(t, element.Variants(), "DataElement")
	assert.True(t, s.MustClass("Referable").Abstract)
	assert.False(t, s.MustClass(RootClass).Abstract)

	list := s.MustClass("SubmodelElementList")
	idShort, err := list.Property("idShort")
	require.NoError(t, err)
	assert.Equal(t, "Referable", idShort.SpecifiedFor)
	assert.True(t, idShort.Optional())

	_, ok := s.ConstrainedPrimitive(dateTimeUtc)
	assert.True(t, ok)
}

func TestOptions_FitTheCatalog(t *testing.T) {
	p := newProfile(t)
	require.NoError(t, p.Handyman().Check())

	cat, err := catalog.Default()
	require.NoError(t, err)
	require.NoError(t, cat.CheckPatterns(p.Schema().Patterns()))

	_, err = generation.New(p.Options())
	require.NoError(t, err)
}

func TestBases_AreRepaired(t *testing.T) {
	p := newProfile(t)
	g, err := generation.New(p.Options())
	require.NoError(t, err)

	for _, class := range g.Classes() {
		t.Run(class.Name, func(t *testing.T) {
			for _, maximal := range []bool{false, true} {
				replica, err := g.Base(class, maximal)
				require.NoError(t, err)
				assert.Equal(t, class.Name, replica.Instance.ClassName())
				assert.Empty(t, causes(p.Verify(replica.Container)))
			}
		})
	}
}

func TestEmbedders(t *testing.T) {
	p := newProfile(t)

	ref, err := p.embedReference(false)
	require.NoError(t, err)
	assert.Equal(t, "assetAdministrationShells/0/derivedFrom", ref.Path.String())
	assert.False(t, ref.Instance.Has("referredSemanticId"))
	assert.True(t, isModelReferenceTo(ref.Instance, "AssetAdministrationShell"))

	maximal, err := p.embedReference(true)
	require.NoError(t, err)
	assert.True(t, isReferenceOfType(maximal.Instance.Child("referredSemanticId"), externalReference))

	key, err := p.embedKey(false)
	require.NoError(t, err)
	assert.Equal(t, "assetAdministrationShells/0/derivedFrom/keys/0", key.Path.String())
	assert.Equal(t, "Key", key.Instance.ClassName())
}

func TestScenarios_AgreeWithVerify(t *testing.T) {
	p := newProfile(t)
	rules := map[string]string{
		"againstTypeValueListElement":                            "AASd-108",
		"againstValueTypeListElement":                            "AASd-109",
		"againstSemanticIdListElement":                           "AASd-107",
		"noSemanticIdListElementButSemanticIdMismatchInValue":    "AASd-114",
		"idShortInAValue":                                        "AASd-120",
		"firstKeyNotInGloballyIdentifiablesForModelReference":    "AASd-121",
		"firstKeyNotInGloballyIdentifiablesForExternalReference": "AASd-122",
		"firstKeyNotInAasIdentifiables":                          "AASd-123",
		"lastKeyNotGenericGloballyIdentifiableNorFragment":       "AASd-124",
		"secondKeyNotInFragmentKeys":                             "AASd-125",
		"fragmentReferenceNotAtTheEnd":                           "AASd-126",
		"fragmentReferenceAfterNeitherFileNorBlob":               "AASd-127",
		"invalidIndexAfterSubmodelElementList":                   "AASd-128",
	}

	scenarios := append(p.listScenarios(), p.keyChainScenarios()...)
	require.Len(t, scenarios, 21)
	for _, sc := range scenarios {
		t.Run(sc.name, func(t *testing.T) {
			got := causes(p.Verify(sc.env))
			if sc.expected {
				assert.Empty(t, got)
				return
			}
			rule, ok := rules[sc.name]
			require.True(t, ok)
			assert.Contains(t, got, rule)
		})
	}
}

func TestManualCases(t *testing.T) {
	p := newProfile(t)

	cases, err := p.listCases()
	require.NoError(t, err)
	require.Len(t, cases, 7)
	assert.Equal(t, "ContainedInEnvironment/Expected/SubmodelElementList/oneChildWithoutSemanticId", cases[0].Identity())
	assert.Equal(t, "ContainedInEnvironment/Unexpected/Invalid/ConstraintViolation/SubmodelElementList/idShortInAValue", cases[6].Identity())

	refs, err := p.referenceCases()
	require.NoError(t, err)
	require.Len(t, refs, 14)
	var expected int
	for _, c := range refs {
		assert.Equal(t, "Reference", c.Class)
		if c.Expected {
			expected++
		}
	}
	assert.Equal(t, 6, expected)
}

func TestGenerate_ValueExamples(t *testing.T) {
	p := newProfile(t)
	opts := p.Options()
	opts.Filter = func(className string) bool { return className == "Property" }
	g, err := generation.New(opts)
	require.NoError(t, err)

	cases, err := g.Collect(context.Background(), 2)
	require.NoError(t, err)

	identities := make(map[string]bool, len(cases))
	for _, c := range cases {
		identities[c.Identity()] = true
		assert.Equal(t, "Property", c.Class)
	}
	assert.True(t, identities["ContainedInEnvironment/Expected/Property/OverValueExamples/Boolean/true_in_letters"])
	assert.True(t, identities["ContainedInEnvironment/Unexpected/Invalid/InvalidValueExample/Property/Int/max_plus_one"])
	assert.True(t, identities["ContainedInEnvironment/Expected/Property/idShortOverPatternExamples/fuzzed_01"])
}

func TestFixList(t *testing.T) {
	p := newProfile(t)
	s := p.newListSetup()
	s.list.Set("typeValueListElement", instance.Literal("Range"))
	s.list.Unset("valueTypeListElement")
	s.values()[0].Set("idShort", "unexpected")
	s.values()[1].Set("semanticId", p.globalReferenceAt(pathhash.Of(pathhash.Prop("other"))))

	require.NoError(t, p.Handyman().Fix(s.env))

	assert.Equal(t, instance.Literal("xs:int"), mustLiteral(t, s.list, "valueTypeListElement"))
	for _, item := range s.values() {
		assert.Equal(t, "Range", item.ClassName())
		assert.False(t, item.Has("idShort"))
		assert.Equal(t, instance.Literal("xs:int"), mustLiteral(t, item, "valueType"))
	}
}

func TestFixAssetInformation(t *testing.T) {
	p := newProfile(t)
	site := &repair.Site{Hash: pathhash.New(), Handyman: p.Handyman()}

	info := p.newInstance("AssetInformation").Set("assetKind", instance.Literal("Type"))
	require.NoError(t, fixAssetInformation(site, info))
	assert.True(t, info.Has("globalAssetId"))

	specific := p.newInstance("SpecificAssetId").Set("name", "serial").Set("value", "1234")
	info.Set("specificAssetIds", []*instance.Instance{specific})
	require.NoError(t, fixAssetInformation(site, info))
	assert.True(t, info.Has("globalAssetId"))
	assert.False(t, info.Has("specificAssetIds"))
}

func TestFixEntity(t *testing.T) {
	p := newProfile(t)
	site := &repair.Site{Hash: pathhash.New(), Handyman: p.Handyman()}

	entity := p.newInstance("Entity").
		Set("entityType", instance.Literal("CoManagedEntity")).
		Set("globalAssetId", "urn:x")
	require.NoError(t, fixEntity(site, entity))
	assert.False(t, entity.Has("globalAssetId"))

	entity.Set("entityType", instance.Literal("SelfManagedEntity"))
	require.NoError(t, fixEntity(site, entity))
	assert.True(t, entity.Has("globalAssetId"))
}

func TestFixReference(t *testing.T) {
	p := newProfile(t)
	site := &repair.Site{Hash: pathhash.Of(pathhash.Prop("semanticId")), Handyman: p.Handyman()}

	ref := p.reference(externalReference, p.key("Blob", "x"))
	require.NoError(t, p.fixReference(site, ref))
	assert.Empty(t, keyChainViolations(ref))

	ref = p.reference(modelReference, p.key(globalReference, "x"))
	require.NoError(t, p.fixReference(site, ref))
	assert.True(t, isModelReferenceTo(ref, "Submodel"))
}

func mustLiteral(t *testing.T, inst *instance.Instance, name string) instance.Literal {
	t.Helper()
	l, ok := inst.Literal(name)
	require.True(t, ok, name)
	return l
}
