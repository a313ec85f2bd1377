// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package instance

import (
	"errors"
	"fmt"
)

var (
	// ErrBadPath indicates a path that does not lead to an instance.
	ErrBadPath = errors.New("path does not lead to an instance")

	// ErrFocusDetached indicates the focus instance is no longer at its recorded path.
	ErrFocusDetached = errors.New("focus instance is not at its path")
)

// Replica is a container owning a focus instance found at Path.
type Replica struct {
	Container *Instance
	Instance  *Instance
	Path      Path
}

// NewReplica checks that focus resides at path inside container, by identity.
func NewReplica(container, focus *Instance, path Path) (*Replica, error) {
	found, err := Dereference(container, path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFocusDetached, err)
	}
	if found != focus {
		return nil, fmt.Errorf("%w: %s holds another %s", ErrFocusDetached, path, found.ClassName())
	}
	return &Replica{Container: container, Instance: focus, Path: path}, nil
}

// Replicate deep-copies the container and re-locates the focus in the copy.
func (r *Replica) Replicate() (*Replica, error) {
	container := r.Container.Clone()
	focus, err := Dereference(container, r.Path)
	if err != nil {
		return nil, err
	}
	return &Replica{Container: container, Instance: focus, Path: append(Path(nil), r.Path...)}, nil
}
