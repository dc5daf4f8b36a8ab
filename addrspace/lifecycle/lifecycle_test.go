/*
 * uacore
 *
 * Copyright 2016 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package lifecycle

import (
	"errors"
	"testing"

	"github.com/krotik/uacore/addrspace"
	"github.com/krotik/uacore/ids"
)

func TestConstructorFiresOnMostDerivedType(t *testing.T) {
	store := addrspace.NewStore()

	base, _ := store.Insert(addrspace.NewNode(ids.NullNodeId, addrspace.ClassObjectType, ids.NewQualifiedName(0, "Base")))
	sub, _ := store.Insert(addrspace.NewNode(ids.NullNodeId, addrspace.ClassObjectType, ids.NewQualifiedName(0, "Sub")))
	if err := addrspace.AddReferencePair(store, base, ids.HasSubtypeId, sub, true); err != nil {
		t.Fatal(err)
	}

	registry := NewRegistry[int]()

	baseCalls := 0
	registry.Register(base, Hooks[int]{
		Constructor: func(instance ids.NodeId) (int, error) {
			baseCalls++
			return 1, nil
		},
	})

	subCalls := 0
	registry.Register(sub, Hooks[int]{
		Constructor: func(instance ids.NodeId) (int, error) {
			subCalls++
			return 42, nil
		},
	})

	instance, _ := store.Insert(addrspace.NewNode(ids.NullNodeId, addrspace.ClassObject, ids.NewQualifiedName(0, "Instance")))

	invoked, err := registry.InvokeConstructor(store, instance, sub)
	if err != nil {
		t.Fatal(err)
	}
	if !invoked {
		t.Fatal("expected a constructor to be invoked")
	}
	if subCalls != 1 || baseCalls != 0 {
		t.Errorf("expected only the most-derived constructor to fire, got sub=%d base=%d", subCalls, baseCalls)
	}

	handle, ok := registry.HandleFor(instance)
	if !ok || handle != 42 {
		t.Errorf("expected recorded handle 42, got %v (ok=%v)", handle, ok)
	}
}

func TestDestructorReceivesRecordedHandle(t *testing.T) {
	store := addrspace.NewStore()

	typ, _ := store.Insert(addrspace.NewNode(ids.NullNodeId, addrspace.ClassObjectType, ids.NewQualifiedName(0, "T")))
	instance, _ := store.Insert(addrspace.NewNode(ids.NullNodeId, addrspace.ClassObject, ids.NewQualifiedName(0, "I")))

	registry := NewRegistry[string]()
	registry.Register(typ, Hooks[string]{
		Constructor: func(ids.NodeId) (string, error) { return "opened", nil },
		Destructor: func(instance ids.NodeId, handle string) {
			if handle != "opened" {
				t.Errorf("expected destructor handle %q, got %q", "opened", handle)
			}
		},
	})

	if _, err := registry.InvokeConstructor(store, instance, typ); err != nil {
		t.Fatal(err)
	}

	registry.InvokeDestructor(store, instance, typ)

	if _, ok := registry.HandleFor(instance); ok {
		t.Error("expected handle to be forgotten after InvokeDestructor")
	}
}

func TestUnregisteredTypeSkipsConstructor(t *testing.T) {
	store := addrspace.NewStore()
	typ, _ := store.Insert(addrspace.NewNode(ids.NullNodeId, addrspace.ClassObjectType, ids.NewQualifiedName(0, "NoHooks")))
	instance, _ := store.Insert(addrspace.NewNode(ids.NullNodeId, addrspace.ClassObject, ids.NewQualifiedName(0, "I")))

	registry := NewRegistry[int]()

	invoked, err := registry.InvokeConstructor(store, instance, typ)
	if err != nil {
		t.Fatal(err)
	}
	if invoked {
		t.Error("did not expect a constructor to be invoked for an unregistered type")
	}
}

func TestConstructorErrorIsReportedNotVetoed(t *testing.T) {
	store := addrspace.NewStore()
	typ, _ := store.Insert(addrspace.NewNode(ids.NullNodeId, addrspace.ClassObjectType, ids.NewQualifiedName(0, "T")))
	instance, _ := store.Insert(addrspace.NewNode(ids.NullNodeId, addrspace.ClassObject, ids.NewQualifiedName(0, "I")))

	registry := NewRegistry[int]()
	wantErr := errors.New("boom")
	registry.Register(typ, Hooks[int]{
		Constructor: func(ids.NodeId) (int, error) { return 0, wantErr },
	})

	invoked, err := registry.InvokeConstructor(store, instance, typ)
	if !invoked {
		t.Error("expected the constructor to have been invoked")
	}
	if err != wantErr {
		t.Errorf("expected constructor error to propagate, got %v", err)
	}

	if !store.Exists(instance) {
		t.Error("a failing constructor must not cause the already-inserted instance to disappear")
	}
}
