// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package aas

import (
	"fmt"

	"github.com/dacolabs/testgen/internal/instance"
	"github.com/dacolabs/testgen/internal/pathhash"
	"github.com/dacolabs/testgen/internal/repair"
	"github.com/dacolabs/testgen/internal/synth"
)

// elementContainers are the properties holding child submodel elements.
var elementContainers = []string{"submodelElements", "value", "statements", "annotations"}

func (p *Profile) registerHooks() {
	h := p.handyman
	h.Register("AdministrativeInformation", fixAdministration)
	h.Register("AnnotatedRelationshipElement", withIDShorts("annotations"))
	h.Register("AssetAdministrationShell", p.fixShell)
	h.Register("AssetInformation", fixAssetInformation)
	h.Register("BasicEventElement", p.fixEvent)
	h.Register("Blob", repair.Noop)
	h.Register("ConceptDescription", repair.Noop)
	h.Register("Entity", fixEntity)
	h.Register("Environment", repair.Noop)
	h.Register("Extension", p.fixExtension)
	h.Register("File", repair.Noop)
	h.Register("Key", repair.Noop)
	h.Register("LangStringNameType", repair.Noop)
	h.Register("LangStringTextType", repair.Noop)
	h.Register("MultiLanguageProperty", repair.Noop)
	h.Register("Property", p.valueFixer("valueType", "value"))
	h.Register("Qualifier", p.valueFixer("valueType", "value"))
	h.Register("Range", p.valueFixer("valueType", "min", "max"))
	h.Register("Reference", p.fixReference)
	h.Register("ReferenceElement", repair.Noop)
	h.Register("Resource", repair.Noop)
	h.Register("SpecificAssetId", p.fixSpecificAssetID)
	h.Register("Submodel", fixSubmodel)
	h.Register("SubmodelElementCollection", withIDShorts("value"))
	h.Register("SubmodelElementList", p.fixList)
}

func propHash(site *repair.Site, segs ...pathhash.Segment) *pathhash.Hash {
	return pathhash.Extend(site.Hash, segs...)
}

// xsValue picks a catalogued value consistent with the value type.
func (p *Profile) xsValue(h *pathhash.Hash, valueType string) (string, error) {
	examples, ok := p.catalog.ByValueType(valueType)
	if !ok || len(examples.Positives) == 0 {
		return "", fmt.Errorf("no catalogued values of %s", valueType)
	}
	return synth.Choose(h, examples.PositiveValues()), nil
}

// valueFixer regenerates the values inconsistent with the value type. An
// absent value type stands for xs:string.
func (p *Profile) valueFixer(valueTypeProp string, valueProps ...string) repair.Hook {
	return func(site *repair.Site, inst *instance.Instance) error {
		valueType := "xs:string"
		if l, ok := inst.Literal(valueTypeProp); ok {
			valueType = string(l)
		}
		for _, name := range valueProps {
			v, ok := inst.String(name)
			if !ok || ValueConsistent(valueType, v) {
				continue
			}
			fixed, err := p.xsValue(propHash(site, pathhash.Prop(name)), valueType)
			if err != nil {
				return err
			}
			inst.Set(name, fixed)
		}
		return nil
	}
}

// withIDShorts gives every child element in the property a derived id-short.
func withIDShorts(property string) repair.Hook {
	return func(site *repair.Site, inst *instance.Instance) error {
		setIDShorts(site, inst, property)
		return nil
	}
}

func setIDShorts(site *repair.Site, inst *instance.Instance, property string) {
	for i, item := range inst.Items(property) {
		item.Set("idShort", synth.IDShort(propHash(site, pathhash.Prop(property), pathhash.Index(i), pathhash.Prop("idShort"))))
	}
}

func fixAdministration(_ *repair.Site, inst *instance.Instance) error {
	if inst.Has("revision") && !inst.Has("version") {
		inst.Unset("revision")
	}
	return nil
}

func (p *Profile) fixShell(site *repair.Site, inst *instance.Instance) error {
	if ref := inst.Child("derivedFrom"); ref != nil && !isModelReferenceTo(ref, "AssetAdministrationShell") {
		inst.Set("derivedFrom", p.modelReferenceTo(propHash(site, pathhash.Prop("derivedFrom")), "AssetAdministrationShell"))
	}
	refs := inst.Items("submodels")
	for i, ref := range refs {
		if !isModelReferenceTo(ref, "Submodel") {
			refs[i] = p.modelReferenceTo(propHash(site, pathhash.Prop("submodels"), pathhash.Index(i)), "Submodel")
		}
	}
	return nil
}

func fixAssetInformation(site *repair.Site, inst *instance.Instance) error {
	switch {
	case inst.Has("globalAssetId") && inst.Has("specificAssetIds"):
		inst.Unset("specificAssetIds")
	case !inst.Has("globalAssetId") && !inst.Has("specificAssetIds"):
		inst.Set("globalAssetId", synth.URN(propHash(site, pathhash.Prop("globalAssetId"))))
	}
	return nil
}

func (p *Profile) fixEvent(site *repair.Site, inst *instance.Instance) error {
	if ref := inst.Child("observed"); !isReferenceOfType(ref, modelReference) {
		inst.Set("observed", p.modelReferenceTo(propHash(site, pathhash.Prop("observed")), "SubmodelElement"))
	}
	if ref := inst.Child("messageBroker"); ref != nil && !isReferenceOfType(ref, modelReference) {
		inst.Set("messageBroker", p.modelReferenceTo(propHash(site, pathhash.Prop("messageBroker")), "Submodel"))
	}
	return nil
}

func fixEntity(site *repair.Site, inst *instance.Instance) error {
	setIDShorts(site, inst, "statements")

	entityType, _ := inst.Literal("entityType")
	if entityType != "SelfManagedEntity" {
		inst.Unset("globalAssetId")
		inst.Unset("specificAssetIds")
		return nil
	}
	return fixAssetInformation(site, inst)
}

func (p *Profile) fixExtension(site *repair.Site, inst *instance.Instance) error {
	refs := inst.Items("refersTo")
	for i, ref := range refs {
		if !isReferenceOfType(ref, modelReference) {
			refs[i] = p.modelReferenceTo(propHash(site, pathhash.Prop("refersTo"), pathhash.Index(i)), "Submodel")
		}
	}
	return p.valueFixer("valueType", "value")(site, inst)
}

func (p *Profile) fixReference(site *repair.Site, inst *instance.Instance) error {
	if len(keyChainViolations(inst)) == 0 {
		return nil
	}
	first := keyValueHash(site.Hash, 0)
	if isReferenceOfType(inst, externalReference) {
		inst.Set("keys", []*instance.Instance{p.key(globalReference, synth.URN(first))})
	} else {
		inst.Set("keys", []*instance.Instance{p.key("Submodel", synth.URN(first))})
	}
	return nil
}

func (p *Profile) fixSpecificAssetID(site *repair.Site, inst *instance.Instance) error {
	if ref := inst.Child("externalSubjectId"); ref != nil && !isReferenceOfType(ref, externalReference) {
		inst.Set("externalSubjectId", p.globalReferenceAt(propHash(site, pathhash.Prop("externalSubjectId"))))
	}
	return nil
}

func fixSubmodel(site *repair.Site, inst *instance.Instance) error {
	setIDShorts(site, inst, "submodelElements")
	if hasTemplateQualifier(inst) || descendantHasTemplateQualifier(inst) {
		inst.Set("kind", instance.Literal("Template"))
	}
	return nil
}

func hasTemplateQualifier(inst *instance.Instance) bool {
	for _, q := range inst.Items("qualifiers") {
		if kind, _ := q.Literal("kind"); kind == "TemplateQualifier" {
			return true
		}
	}
	return false
}

// descendantHasTemplateQualifier looks through the nested submodel elements.
func descendantHasTemplateQualifier(inst *instance.Instance) bool {
	for _, name := range elementContainers {
		if !inst.Class().HasProperty(name) {
			continue
		}
		for _, child := range inst.Items(name) {
			if child.Class().HasProperty("qualifiers") && hasTemplateQualifier(child) {
				return true
			}
			if descendantHasTemplateQualifier(child) {
				return true
			}
		}
	}
	return false
}

// fixList makes the items agree with the list: their type, value type and
// semantic id follow the list and they carry no id-short.
func (p *Profile) fixList(site *repair.Site, list *instance.Instance) error {
	items := list.Items("value")
	typeValue, _ := list.Literal("typeValueListElement")
	itemSite := func(i int) (*pathhash.Hash, instance.Path) {
		segs := []pathhash.Segment{pathhash.Prop("value"), pathhash.Index(i)}
		return propHash(site, segs...), site.Path.Append(segs...)
	}

	for i, item := range items {
		if p.schema.IsA(item.ClassName(), string(typeValue)) {
			continue
		}
		h, path := itemSite(i)
		class := p.schema.MustClass(string(typeValue))
		if class.Abstract {
			class = p.schema.MustClass(synth.Choose(h, class.Variants()))
		}
		fresh, err := site.Handyman.Fresh(class, h, path)
		if err != nil {
			return err
		}
		items[i] = fresh
	}

	if typeValue == "Property" || typeValue == "Range" {
		valueType, ok := list.Literal("valueTypeListElement")
		if !ok {
			valueType = "xs:int"
			list.Set("valueTypeListElement", valueType)
		}
		for i, item := range items {
			if l, _ := item.Literal("valueType"); l == valueType {
				continue
			}
			item.Set("valueType", valueType)
			h, path := itemSite(i)
			if err := site.Handyman.Repair(item, h, path); err != nil {
				return err
			}
		}
	}

	for _, item := range items {
		item.Unset("idShort")
	}

	if id := list.Child("semanticIdListElement"); id != nil {
		for _, item := range items {
			if item.Has("semanticId") {
				item.Set("semanticId", id.Clone())
			}
		}
		return nil
	}
	var first *instance.Instance
	for _, item := range items {
		switch sid := item.Child("semanticId"); {
		case sid == nil:
		case first == nil:
			first = sid
		default:
			item.Set("semanticId", first.Clone())
		}
	}
	return nil
}
