/*
 * uacore
 *
 * Copyright 2016 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package addrspace

import (
	"github.com/krotik/uacore/ids"
	"github.com/krotik/uacore/uaerrors"
)

/*
Direction selects which end of a reference pair to look at, matching
spec.md §4.3's "source id S, reference type R, and direction D".
*/
type Direction int

const (
	DirForward Direction = iota
	DirInverse
	DirBoth
)

/*
SubtypeChecker decides whether a is a transitive subtype of b. The
refindex contract is parameterized over it instead of importing
typeresolve directly, so this file has no dependency on the type
hierarchy walk it is itself used by.
*/
type SubtypeChecker func(store *Store, a, b ids.NodeId) bool

/*
Neighbors yields every node reachable from source by a reference of
type refType (or, if includeSubtypes is true and isSubtype is
non-nil, any transitive subtype of refType) in the given direction,
taking the read lock for the whole lookup.
*/
func Neighbors(store *Store, source ids.NodeId, refType ids.NodeId, dir Direction,
	includeSubtypes bool, isSubtype SubtypeChecker) ([]ids.NodeId, *uaerrors.Error) {

	store.mutex.RLock()
	defer store.mutex.RUnlock()

	return NeighborsLocked(store, source, refType, dir, includeSubtypes, isSubtype)
}

/*
NeighborsLocked is Neighbors for a caller that already holds at least
the store's read lock - used by callers (such as
service.TranslateBrowsePathToNodeId) that walk several hops under one
lock acquisition.
*/
func NeighborsLocked(store *Store, source ids.NodeId, refType ids.NodeId, dir Direction,
	includeSubtypes bool, isSubtype SubtypeChecker) ([]ids.NodeId, *uaerrors.Error) {

	node, err := store.GetLocked(source)
	if err != nil {
		return nil, err
	}

	matches := func(candidate ids.NodeId) bool {
		if candidate.Equals(refType) {
			return true
		}
		return includeSubtypes && isSubtype != nil && isSubtype(store, candidate, refType)
	}

	var out []ids.NodeId

	for _, r := range node.References {
		if dir == DirForward && !r.IsForward {
			continue
		}
		if dir == DirInverse && r.IsForward {
			continue
		}
		if matches(r.ReferenceType) {
			out = append(out, r.TargetId)
		}
	}

	return out, nil
}

/*
AddReferencePair installs a reference record with direction isForward
on source and the matching opposite-direction record on target (a
forward reference on source and its inverse on target when isForward
is true), as one atomic update under the
write lock - spec.md §3 invariant 2. Rejects the call if the pair
already exists (spec.md §8's idempotence property).
*/
func AddReferencePair(store *Store, source, refType, target ids.NodeId, isForward bool) *uaerrors.Error {
	store.mutex.Lock()
	defer store.mutex.Unlock()

	srcNode, err := store.GetLocked(source)
	if err != nil {
		return err
	}

	tgtNode, err := store.GetLocked(target)
	if err != nil {
		return err
	}

	if srcNode.HasReference(refType, target, isForward) {
		return uaerrors.New(uaerrors.BadDuplicateReferenceNotAllowed, source.String())
	}

	fwd := Reference{OwnerId: source, ReferenceType: refType, TargetId: target, IsForward: isForward}

	srcNode.References = append(srcNode.References, fwd)
	tgtNode.References = append(tgtNode.References, fwd.Invert())

	return nil
}

/*
RemoveReferencePair removes a reference from source and its matching
inverse from target, as one atomic update under the write lock. It is
not an error for the inverse to be already absent (the target may
already have been removed by a cascading delete in the same
transaction) - only the forward-side removal must succeed.
*/
func RemoveReferencePair(store *Store, source, refType, target ids.NodeId, isForward bool) *uaerrors.Error {
	store.mutex.Lock()
	defer store.mutex.Unlock()

	srcNode, err := store.GetLocked(source)
	if err != nil {
		return err
	}

	idx := srcNode.findReference(refType, target, isForward)
	if idx < 0 {
		return uaerrors.New(uaerrors.BadNotFound, "reference not found on source")
	}

	srcNode.References = append(srcNode.References[:idx], srcNode.References[idx+1:]...)

	if tgtNode, tErr := store.GetLocked(target); tErr == nil {
		inv := Reference{OwnerId: source, ReferenceType: refType, TargetId: target, IsForward: isForward}.Invert()
		if j := tgtNode.findReference(inv.ReferenceType, inv.TargetId, inv.IsForward); j >= 0 {
			tgtNode.References = append(tgtNode.References[:j], tgtNode.References[j+1:]...)
		}
	}

	return nil
}

/*
RemoveReferenceSingleSide removes a reference record from owner's own
list without touching the other endpoint, leaving a one-sided
reference behind. Used by DeleteReference when the caller explicitly
asks not to remove the inverse side.
*/
func RemoveReferenceSingleSide(store *Store, owner, refType, target ids.NodeId, isForward bool) *uaerrors.Error {
	store.mutex.Lock()
	defer store.mutex.Unlock()

	node, err := store.GetLocked(owner)
	if err != nil {
		return err
	}

	idx := node.findReference(refType, target, isForward)
	if idx < 0 {
		return uaerrors.New(uaerrors.BadNotFound, "reference not found on owner")
	}

	node.References = append(node.References[:idx], node.References[idx+1:]...)

	return nil
}

/*
removeAllReferencesToLocked strips every reference (either direction)
that mentions id from every other node currently in the store. Callers
must hold the write lock. Nothing calls it at present: the service
layer's DeleteNode detaches references pair by pair through
RemoveReferencePair instead.
*/
func removeAllReferencesToLocked(store *Store, id ids.NodeId) {
	for _, n := range store.nodes {
		if n.Id.Equals(id) {
			continue
		}

		kept := n.References[:0]
		for _, r := range n.References {
			if !r.TargetId.Equals(id) {
				kept = append(kept, r)
			}
		}
		n.References = kept
	}
}
