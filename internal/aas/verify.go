// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package aas

import (
	"fmt"

	"github.com/dacolabs/testgen/internal/instance"
	"github.com/dacolabs/testgen/internal/pathhash"
	"github.com/dacolabs/testgen/internal/repair"
	"github.com/dacolabs/testgen/internal/schema"
)

// Verify lists the constraints of the meta-model the tree does not satisfy.
// Lengths, patterns and enumerations hold by construction and are not checked.
func (p *Profile) Verify(root *instance.Instance) []repair.Violation {
	v := &verifier{schema: p.schema}
	v.walk(root, nil, false)
	return v.violations
}

type verifier struct {
	schema     *schema.Schema
	violations []repair.Violation
}

func (v *verifier) report(path instance.Path, format string, args ...any) {
	v.violations = append(v.violations, repair.Violation{
		Path:  append(instance.Path(nil), path...),
		Cause: fmt.Sprintf(format, args...),
	})
}

func (v *verifier) walk(inst *instance.Instance, path instance.Path, inList bool) {
	v.check(inst, path, inList)
	isList := inst.ClassName() == "SubmodelElementList"
	for _, prop := range inst.Class().Properties {
		value, _ := inst.Get(prop.Name)
		switch child := value.(type) {
		case *instance.Instance:
			v.walk(child, path.Append(pathhash.Prop(prop.Name)), false)
		case []*instance.Instance:
			for i, item := range child {
				v.walk(item, path.Append(pathhash.Prop(prop.Name), pathhash.Index(i)), isList && prop.Name == "value")
			}
		}
	}
}

func (v *verifier) check(inst *instance.Instance, path instance.Path, inList bool) {
	name := inst.ClassName()
	if v.schema.IsA(name, "Referable") {
		v.uniqueLanguages(inst, path, "displayName")
		v.uniqueLanguages(inst, path, "description")
	}
	if v.schema.IsA(name, "SubmodelElement") {
		switch has := inst.Has("idShort"); {
		case inList && has:
			v.report(path, "AASd-120: an item of a submodel element list must not have an id-short")
		case !inList && !has:
			v.report(path, "AASd-117: a submodel element outside a list must have an id-short")
		}
	}
	for _, container := range elementContainers {
		if inst.Class().HasProperty(container) {
			v.uniqueIDShorts(inst, path, container)
		}
	}

	switch name {
	case "AdministrativeInformation":
		if inst.Has("revision") && !inst.Has("version") {
			v.report(path, "AASd-005: a revision requires a version")
		}
	case "AssetAdministrationShell":
		v.checkShell(inst, path)
	case "AssetInformation":
		if !inst.Has("globalAssetId") && !inst.Has("specificAssetIds") {
			v.report(path, "AASd-131: either the global asset id or specific asset ids must be set")
		}
	case "BasicEventElement":
		v.checkEvent(inst, path)
	case "Entity":
		v.checkEntity(inst, path)
	case "Extension":
		v.checkValues(inst, path, "value")
		for i, ref := range inst.Items("refersTo") {
			if !isReferenceOfType(ref, modelReference) {
				v.report(path.Append(pathhash.Prop("refersTo"), pathhash.Index(i)), "an extension must refer to model references only")
			}
		}
	case "MultiLanguageProperty":
		v.uniqueLanguages(inst, path, "value")
	case "Property", "Qualifier":
		v.checkValues(inst, path, "value")
	case "Range":
		v.checkValues(inst, path, "min", "max")
	case "Reference":
		for _, cause := range keyChainViolations(inst) {
			v.report(path, "%s", cause)
		}
	case "SpecificAssetId":
		if ref := inst.Child("externalSubjectId"); ref != nil && !isReferenceOfType(ref, externalReference) {
			v.report(path.Append(pathhash.Prop("externalSubjectId")), "AASd-133: the external subject id must be an external reference")
		}
	case "Submodel":
		kind, _ := inst.Literal("kind")
		if kind != "Template" && hasTemplateQualifier(inst) {
			v.report(path, "AASd-119: a template qualifier requires the kind Template")
		}
		if kind != "Template" && descendantHasTemplateQualifier(inst) {
			v.report(path, "AASd-129: a template qualifier on an element requires a submodel of kind Template")
		}
	case "SubmodelElementList":
		v.checkList(inst, path)
	}
}

func (v *verifier) uniqueLanguages(inst *instance.Instance, path instance.Path, property string) {
	seen := make(map[string]bool)
	for i, item := range inst.Items(property) {
		lang, _ := item.String("language")
		if seen[lang] {
			v.report(path.Append(pathhash.Prop(property), pathhash.Index(i)), "the language %q is specified twice", lang)
		}
		seen[lang] = true
	}
}

func (v *verifier) uniqueIDShorts(inst *instance.Instance, path instance.Path, property string) {
	seen := make(map[string]bool)
	for i, item := range inst.Items(property) {
		idShort, ok := item.String("idShort")
		if !ok {
			continue
		}
		if seen[idShort] {
			v.report(path.Append(pathhash.Prop(property), pathhash.Index(i)), "AASd-022: the id-short %q is used twice among siblings", idShort)
		}
		seen[idShort] = true
	}
}

// checkValues checks the values against the value type, xs:string when absent.
func (v *verifier) checkValues(inst *instance.Instance, path instance.Path, properties ...string) {
	valueType := "xs:string"
	if l, ok := inst.Literal("valueType"); ok {
		valueType = string(l)
	}
	for _, name := range properties {
		value, ok := inst.String(name)
		if ok && !ValueConsistent(valueType, value) {
			v.report(path.Append(pathhash.Prop(name)), "the value %q is not consistent with %s", value, valueType)
		}
	}
}

func (v *verifier) checkShell(inst *instance.Instance, path instance.Path) {
	if ref := inst.Child("derivedFrom"); ref != nil && !isModelReferenceTo(ref, "AssetAdministrationShell") {
		v.report(path.Append(pathhash.Prop("derivedFrom")), "derivedFrom must be a model reference to a shell")
	}
	for i, ref := range inst.Items("submodels") {
		if !isModelReferenceTo(ref, "Submodel") {
			v.report(path.Append(pathhash.Prop("submodels"), pathhash.Index(i)), "submodels must be model references to submodels")
		}
	}
}

func (v *verifier) checkEvent(inst *instance.Instance, path instance.Path) {
	if ref := inst.Child("observed"); ref != nil && !isReferenceOfType(ref, modelReference) {
		v.report(path.Append(pathhash.Prop("observed")), "observed must be a model reference")
	}
	if ref := inst.Child("messageBroker"); ref != nil && !isReferenceOfType(ref, modelReference) {
		v.report(path.Append(pathhash.Prop("messageBroker")), "messageBroker must be a model reference")
	}
	if stamp, ok := inst.String("lastUpdate"); ok && !isDateTimeUtc(stamp) {
		v.report(path.Append(pathhash.Prop("lastUpdate")), "%q is not a valid date-time in UTC", stamp)
	}
}

func (v *verifier) checkEntity(inst *instance.Instance, path instance.Path) {
	entityType, _ := inst.Literal("entityType")
	hasIDs := inst.Has("globalAssetId") || inst.Has("specificAssetIds")
	switch {
	case entityType == "SelfManagedEntity" && !hasIDs:
		v.report(path, "AASd-014: a self-managed entity needs the global asset id or specific asset ids")
	case entityType == "SelfManagedEntity" && inst.Has("globalAssetId") && inst.Has("specificAssetIds"):
		v.report(path, "AASd-014: a self-managed entity has either the global asset id or specific asset ids")
	case entityType != "SelfManagedEntity" && hasIDs:
		v.report(path, "AASd-014: a co-managed entity must not have asset ids")
	}
}

func (v *verifier) checkList(list *instance.Instance, path instance.Path) {
	items := list.Items("value")
	typeValue, _ := list.Literal("typeValueListElement")
	valueType, hasValueType := list.Literal("valueTypeListElement")
	listID := list.Child("semanticIdListElement")
	at := func(i int) instance.Path {
		return path.Append(pathhash.Prop("value"), pathhash.Index(i))
	}

	if (typeValue == "Property" || typeValue == "Range") && !hasValueType {
		v.report(path, "AASd-109: a list of %s needs valueTypeListElement", typeValue)
	}

	var first *instance.Instance
	for i, item := range items {
		if !v.schema.IsA(item.ClassName(), string(typeValue)) {
			v.report(at(i), "AASd-108: a %s in a list of %s", item.ClassName(), typeValue)
		}
		if hasValueType && (typeValue == "Property" || typeValue == "Range") {
			if l, _ := item.Literal("valueType"); l != valueType {
				v.report(at(i), "AASd-109: the value type %s differs from %s", l, valueType)
			}
		}
		sid := item.Child("semanticId")
		if sid == nil {
			continue
		}
		if listID != nil && !sameReference(sid, listID) {
			v.report(at(i), "AASd-107: the semantic id differs from semanticIdListElement")
		}
		if first == nil {
			first = sid
		} else if !sameReference(sid, first) {
			v.report(at(i), "AASd-114: the semantic id differs from the one of a previous item")
		}
	}
}
