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
	"testing"

	"github.com/krotik/uacore/ids"
	"github.com/krotik/uacore/uaerrors"
)

func newTestNode(store *Store, name string) ids.NodeId {
	id := ids.NewNumericNodeId(0, uint32(store.Count()+1000))
	store.Insert(NewNode(id, ClassObject, ids.NewQualifiedName(0, name)))
	return id
}

func TestAddReferencePairInstallsBothEndpoints(t *testing.T) {
	store := NewStore()

	a := newTestNode(store, "A")
	b := newTestNode(store, "B")
	refType := ids.NewNumericNodeId(0, 47) // HasComponent

	if err := AddReferencePair(store, a, refType, b, true); err != nil {
		t.Fatal(err)
	}

	nodeA, _ := store.Get(a)
	nodeB, _ := store.Get(b)

	if !nodeA.HasReference(refType, b, true) {
		t.Error("expected A to carry the forward reference")
	}
	if !nodeB.HasReference(refType, a, false) {
		t.Error("expected B to carry the inverse reference")
	}
}

func TestAddReferencePairRejectsDuplicate(t *testing.T) {
	store := NewStore()

	a := newTestNode(store, "A")
	b := newTestNode(store, "B")
	refType := ids.NewNumericNodeId(0, 47)

	if err := AddReferencePair(store, a, refType, b, true); err != nil {
		t.Fatal(err)
	}

	err := AddReferencePair(store, a, refType, b, true)
	if err == nil || !err.Is(uaerrors.New(uaerrors.BadDuplicateReferenceNotAllowed, "")) {
		t.Errorf("expected BadDuplicateReferenceNotAllowed, got %v", err)
	}
}

func TestNeighborsRespectsDirection(t *testing.T) {
	store := NewStore()

	parent := newTestNode(store, "Parent")
	child := newTestNode(store, "Child")
	refType := ids.NewNumericNodeId(0, 47)

	if err := AddReferencePair(store, parent, refType, child, true); err != nil {
		t.Fatal(err)
	}

	forward, err := Neighbors(store, parent, refType, DirForward, false, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(forward) != 1 || !forward[0].Equals(child) {
		t.Errorf("expected [child] forward from parent, got %v", forward)
	}

	none, err := Neighbors(store, parent, refType, DirInverse, false, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(none) != 0 {
		t.Errorf("expected no inverse references from parent, got %v", none)
	}

	back, err := Neighbors(store, child, refType, DirInverse, false, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(back) != 1 || !back[0].Equals(parent) {
		t.Errorf("expected [parent] inverse from child, got %v", back)
	}
}

func TestNeighborsExpandsSubtypes(t *testing.T) {
	store := NewStore()

	parent := newTestNode(store, "Parent")
	child := newTestNode(store, "Child")
	baseType := ids.NewNumericNodeId(0, 47)
	subType := ids.NewNumericNodeId(0, 48)

	if err := AddReferencePair(store, parent, subType, child, true); err != nil {
		t.Fatal(err)
	}

	isSubtype := func(store *Store, a, b ids.NodeId) bool {
		return a.Equals(subType) && b.Equals(baseType)
	}

	withoutExpansion, err := Neighbors(store, parent, baseType, DirForward, false, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(withoutExpansion) != 0 {
		t.Errorf("expected no exact match for the base type, got %v", withoutExpansion)
	}

	withExpansion, err := Neighbors(store, parent, baseType, DirForward, true, isSubtype)
	if err != nil {
		t.Fatal(err)
	}
	if len(withExpansion) != 1 || !withExpansion[0].Equals(child) {
		t.Errorf("expected [child] once subtypes are expanded, got %v", withExpansion)
	}
}

func TestNeighborsFailsForUnknownSource(t *testing.T) {
	store := NewStore()

	_, err := Neighbors(store, ids.NewNumericNodeId(0, 999), ids.NewNumericNodeId(0, 47), DirForward, false, nil)
	if err == nil {
		t.Error("expected an error for an unknown source node")
	}
}

func TestRemoveReferencePairRemovesBothEndpoints(t *testing.T) {
	store := NewStore()

	a := newTestNode(store, "A")
	b := newTestNode(store, "B")
	refType := ids.NewNumericNodeId(0, 47)

	if err := AddReferencePair(store, a, refType, b, true); err != nil {
		t.Fatal(err)
	}

	if err := RemoveReferencePair(store, a, refType, b, true); err != nil {
		t.Fatal(err)
	}

	nodeA, _ := store.Get(a)
	nodeB, _ := store.Get(b)

	if nodeA.HasReference(refType, b, true) {
		t.Error("expected forward reference to be gone from A")
	}
	if nodeB.HasReference(refType, a, false) {
		t.Error("expected inverse reference to be gone from B")
	}
}

func TestRemoveReferencePairToleratesMissingInverse(t *testing.T) {
	store := NewStore()

	a := newTestNode(store, "A")
	b := newTestNode(store, "B")
	refType := ids.NewNumericNodeId(0, 47)

	if err := AddReferencePair(store, a, refType, b, true); err != nil {
		t.Fatal(err)
	}

	nodeB, _ := store.Get(b)
	nodeB.References = nil

	if err := RemoveReferencePair(store, a, refType, b, true); err != nil {
		t.Fatalf("expected removal to succeed even with the inverse already gone, got %v", err)
	}

	nodeA, _ := store.Get(a)
	if nodeA.HasReference(refType, b, true) {
		t.Error("expected forward reference to be gone from A")
	}
}

func TestRemoveReferencePairFailsWhenForwardSideMissing(t *testing.T) {
	store := NewStore()

	a := newTestNode(store, "A")
	b := newTestNode(store, "B")
	refType := ids.NewNumericNodeId(0, 47)

	err := RemoveReferencePair(store, a, refType, b, true)
	if err == nil || !err.Is(uaerrors.New(uaerrors.BadNotFound, "")) {
		t.Errorf("expected BadNotFound, got %v", err)
	}
}

func TestRemoveReferenceSingleSideLeavesOtherEndpointUntouched(t *testing.T) {
	store := NewStore()

	a := newTestNode(store, "A")
	b := newTestNode(store, "B")
	refType := ids.NewNumericNodeId(0, 47)

	if err := AddReferencePair(store, a, refType, b, true); err != nil {
		t.Fatal(err)
	}

	if err := RemoveReferenceSingleSide(store, a, refType, b, true); err != nil {
		t.Fatal(err)
	}

	nodeA, _ := store.Get(a)
	nodeB, _ := store.Get(b)

	if nodeA.HasReference(refType, b, true) {
		t.Error("expected the forward reference to be gone from A")
	}
	if !nodeB.HasReference(refType, a, false) {
		t.Error("expected B's inverse reference to survive a single-side removal")
	}
}
