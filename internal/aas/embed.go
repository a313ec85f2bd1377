// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package aas

import (
	"github.com/dacolabs/testgen/internal/instance"
	"github.com/dacolabs/testgen/internal/pathhash"
)

// embedDerivedFrom builds an environment with a repaired minimal shell whose
// derivedFrom is a model reference to another shell. Any reference placed
// through the containment path would be rewritten by the shell repair.
func (p *Profile) embedDerivedFrom(maximal bool) (*instance.Instance, *instance.Instance, instance.Path, error) {
	env := p.newInstance(RootClass)

	shellPath := instance.Path{pathhash.Prop("assetAdministrationShells"), pathhash.Index(0)}
	shellHash := pathhash.Of(shellPath...)
	shell, err := p.handyman.Fresh(p.schema.MustClass("AssetAdministrationShell"), shellHash, shellPath)
	if err != nil {
		return nil, nil, nil, err
	}
	env.Set("assetAdministrationShells", []*instance.Instance{shell})

	refHash := pathhash.Extend(shellHash, pathhash.Prop("derivedFrom"))
	ref := p.modelReferenceTo(refHash, "AssetAdministrationShell")
	if maximal {
		ref.Set("referredSemanticId", p.globalReferenceAt(pathhash.Extend(refHash, pathhash.Prop("referredSemanticId"))))
	}
	shell.Set("derivedFrom", ref)

	if err := p.handyman.Verify(env); err != nil {
		return nil, nil, nil, err
	}
	return env, ref, shellPath.Append(pathhash.Prop("derivedFrom")), nil
}

func (p *Profile) embedReference(maximal bool) (*instance.Replica, error) {
	env, ref, path, err := p.embedDerivedFrom(maximal)
	if err != nil {
		return nil, err
	}
	return instance.NewReplica(env, ref, path)
}

func (p *Profile) embedKey(maximal bool) (*instance.Replica, error) {
	env, ref, path, err := p.embedDerivedFrom(maximal)
	if err != nil {
		return nil, err
	}
	return instance.NewReplica(env, ref.Items("keys")[0], path.Append(pathhash.Prop("keys"), pathhash.Index(0)))
}
