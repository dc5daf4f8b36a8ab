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

func TestInsertAssignsServerNamespaceIdWhenNull(t *testing.T) {
	store := NewStore()

	n1 := NewNode(ids.NullNodeId, ClassObject, ids.NewQualifiedName(0, "First"))
	id1, err := store.Insert(n1)
	if err != nil {
		t.Fatal(err)
	}
	if id1.Namespace != ServerNamespace {
		t.Errorf("expected a server-assigned id in namespace %d, got %v", ServerNamespace, id1)
	}

	n2 := NewNode(ids.NullNodeId, ClassObject, ids.NewQualifiedName(0, "Second"))
	id2, err := store.Insert(n2)
	if err != nil {
		t.Fatal(err)
	}
	if id1.Equals(id2) {
		t.Error("expected two distinct server-assigned ids")
	}
}

func TestInsertRejectsDuplicateId(t *testing.T) {
	store := NewStore()

	id := ids.NewNumericNodeId(0, 1)

	if _, err := store.Insert(NewNode(id, ClassObject, ids.NewQualifiedName(0, "A"))); err != nil {
		t.Fatal(err)
	}

	_, err := store.Insert(NewNode(id, ClassObject, ids.NewQualifiedName(0, "B")))
	if err == nil || !err.Is(uaerrors.New(uaerrors.BadNodeIdExists, "")) {
		t.Errorf("expected BadNodeIdExists, got %v", err)
	}
}

func TestGetExistsRemoveRoundTrip(t *testing.T) {
	store := NewStore()

	id := ids.NewNumericNodeId(0, 7)
	store.Insert(NewNode(id, ClassObject, ids.NewQualifiedName(0, "Gadget")))

	if !store.Exists(id) {
		t.Fatal("expected node to exist after insert")
	}

	got, err := store.Get(id)
	if err != nil {
		t.Fatal(err)
	}
	if got.BrowseName.Name != "Gadget" {
		t.Errorf("unexpected browse name: %v", got.BrowseName)
	}

	if _, err := store.Remove(id); err != nil {
		t.Fatal(err)
	}

	if store.Exists(id) {
		t.Error("expected node to be gone after remove")
	}

	if _, err := store.Get(id); err == nil {
		t.Error("expected Get to fail for a removed node")
	}
}

func TestCountAndAll(t *testing.T) {
	store := NewStore()

	store.Insert(NewNode(ids.NewNumericNodeId(0, 1), ClassObject, ids.NewQualifiedName(0, "A")))
	store.Insert(NewNode(ids.NewNumericNodeId(0, 2), ClassObject, ids.NewQualifiedName(0, "B")))

	if store.Count() != 2 {
		t.Errorf("expected 2 nodes, got %d", store.Count())
	}
	if len(store.All()) != 2 {
		t.Errorf("expected All() to return 2 nodes, got %d", len(store.All()))
	}
}
