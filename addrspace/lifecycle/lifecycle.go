/*
 * uacore
 *
 * Copyright 2016 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

/*
Package lifecycle holds the per-type constructor/destructor registry
invoked by the instantiator when an object or variable is materialized
or deleted.
*/
package lifecycle

import (
	"sync"

	"github.com/krotik/uacore/addrspace"
	"github.com/krotik/uacore/addrspace/typeresolve"
	"github.com/krotik/uacore/ids"
)

/*
Hooks bundles the constructor and destructor registered for a type.
Either may be nil. H is the handle type a constructor hands back and a
destructor receives - callers choose a concrete type instead of the
core threading an untyped pointer through the API.
*/
type Hooks[H any] struct {
	Constructor func(instance ids.NodeId) (H, error)
	Destructor  func(instance ids.NodeId, handle H)
}

/*
Registry maps a type's NodeId to the Hooks registered for it, and
separately remembers which handle each instantiated instance produced
so DeleteNode can hand it back to the destructor without the caller
threading it through.
*/
type Registry[H any] struct {
	mutex   sync.RWMutex
	hooks   map[string]Hooks[H]
	handles map[string]H
}

/*
NewRegistry creates an empty lifecycle registry.
*/
func NewRegistry[H any]() *Registry[H] {
	return &Registry[H]{
		hooks:   make(map[string]Hooks[H]),
		handles: make(map[string]H),
	}
}

/*
Register attaches hooks to typeId, replacing whatever was registered
for it before.
*/
func (r *Registry[H]) Register(typeId ids.NodeId, hooks Hooks[H]) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.hooks[typeId.Key()] = hooks
}

/*
Unregister removes any hooks attached to typeId.
*/
func (r *Registry[H]) Unregister(typeId ids.NodeId) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	delete(r.hooks, typeId.Key())
}

/*
MostDerivedHooks walks the subtype chain starting at typeId and
returns the first ancestor (most-derived first, typeId itself included)
that has any hooks registered, together with that ancestor's id. It
returns ok=false if no ancestor in the chain has hooks - instantiation
then proceeds without invoking a constructor, exactly as spec.md §4.6
describes for an unregistered type.
*/
func (r *Registry[H]) MostDerivedHooks(store *addrspace.Store, typeId ids.NodeId) (Hooks[H], ids.NodeId, bool) {
	store.RLock()
	defer store.RUnlock()

	r.mutex.RLock()
	defer r.mutex.RUnlock()

	current := typeId
	for {
		if h, ok := r.hooks[current.Key()]; ok {
			return h, current, true
		}

		super, ok := typeresolve.SuperTypeLocked(store, current)
		if !ok {
			break
		}
		current = super
	}

	var zero Hooks[H]
	return zero, ids.NullNodeId, false
}

/*
InvokeConstructor resolves the most-derived constructor for typeId (if
any), calls it with instance, and - if it returned no error - records
the handle it produced for later retrieval by InvokeDestructor.
invoked reports whether any constructor was found and called;
constructor errors are returned to the caller but never block the
instance from having already been inserted into the store, matching
spec.md §4.6's "constructors cannot veto creation" rule.
*/
func (r *Registry[H]) InvokeConstructor(store *addrspace.Store, instance, typeId ids.NodeId) (invoked bool, err error) {
	hooks, _, ok := r.MostDerivedHooks(store, typeId)
	if !ok || hooks.Constructor == nil {
		return false, nil
	}

	handle, cerr := hooks.Constructor(instance)
	if cerr != nil {
		return true, cerr
	}

	r.mutex.Lock()
	r.handles[instance.Key()] = handle
	r.mutex.Unlock()

	return true, nil
}

/*
InvokeDestructor resolves the most-derived destructor for typeId (if
any) and calls it with instance and whatever handle its constructor
produced (the zero value of H if none was recorded), then forgets the
handle.
*/
func (r *Registry[H]) InvokeDestructor(store *addrspace.Store, instance, typeId ids.NodeId) {
	hooks, _, ok := r.MostDerivedHooks(store, typeId)

	r.mutex.Lock()
	handle := r.handles[instance.Key()]
	delete(r.handles, instance.Key())
	r.mutex.Unlock()

	if ok && hooks.Destructor != nil {
		hooks.Destructor(instance, handle)
	}
}

/*
HandleFor returns the handle recorded for instance, if any.
*/
func (r *Registry[H]) HandleFor(instance ids.NodeId) (H, bool) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	h, ok := r.handles[instance.Key()]
	return h, ok
}
