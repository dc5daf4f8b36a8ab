/*
 * uacore
 *
 * Copyright 2016 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package instantiate

import (
	"errors"
	"testing"

	"github.com/krotik/uacore/addrspace"
	"github.com/krotik/uacore/addrspace/lifecycle"
	"github.com/krotik/uacore/ids"
)

/*
buildFolderHierarchy creates:

	FolderType (ObjectType)
	  +- MandatoryChild (Variable, modelling rule Mandatory)
	  +- OptionalChild   (Variable, modelling rule Optional)

plus the Mandatory/Optional modelling-rule objects the members link
to, and returns the type id plus the two member ids.
*/
func buildFolderHierarchy(t *testing.T, store *addrspace.Store) (typeId, mandatoryId, optionalId ids.NodeId) {
	for _, rule := range []ids.NodeId{ids.ModellingRuleMandatoryId, ids.ModellingRuleOptionalId} {
		if _, err := store.Insert(addrspace.NewNode(rule, addrspace.ClassObject, ids.NewQualifiedName(0, rule.String()))); err != nil {
			t.Fatal(err)
		}
	}

	typeId, err := store.Insert(addrspace.NewNode(ids.NullNodeId, addrspace.ClassObjectType, ids.NewQualifiedName(0, "FolderType")))
	if err != nil {
		t.Fatal(err)
	}

	mandatoryId, err = store.Insert(addrspace.NewNode(ids.NullNodeId, addrspace.ClassVariable, ids.NewQualifiedName(0, "MandatoryChild")))
	if err != nil {
		t.Fatal(err)
	}
	if err := addrspace.AddReferencePair(store, typeId, ids.HasComponentId, mandatoryId, true); err != nil {
		t.Fatal(err)
	}
	if err := addrspace.AddReferencePair(store, mandatoryId, ids.HasModellingRuleId, ids.ModellingRuleMandatoryId, true); err != nil {
		t.Fatal(err)
	}

	optionalId, err = store.Insert(addrspace.NewNode(ids.NullNodeId, addrspace.ClassVariable, ids.NewQualifiedName(0, "OptionalChild")))
	if err != nil {
		t.Fatal(err)
	}
	if err := addrspace.AddReferencePair(store, typeId, ids.HasComponentId, optionalId, true); err != nil {
		t.Fatal(err)
	}
	if err := addrspace.AddReferencePair(store, optionalId, ids.HasModellingRuleId, ids.ModellingRuleOptionalId, true); err != nil {
		t.Fatal(err)
	}

	return typeId, mandatoryId, optionalId
}

func TestInstantiateMaterializesOnlyMandatoryMembers(t *testing.T) {
	store := addrspace.NewStore()

	parent, _ := store.Insert(addrspace.NewNode(ids.NullNodeId, addrspace.ClassObject, ids.NewQualifiedName(0, "Parent")))
	typeId, mandatoryId, _ := buildFolderHierarchy(t, store)

	registry := lifecycle.NewRegistry[int]()

	var callbacks []ids.NodeId
	root := addrspace.NewNode(ids.NullNodeId, addrspace.ClassObject, ids.NewQualifiedName(0, "Instance"))

	instanceId, err := Instantiate(store, Request[int]{
		Root:                  root,
		ParentId:               parent,
		ReferenceTypeToParent: ids.OrganizesId,
		TypeDefinitionId:      typeId,
		Registry:              registry,
		Callback: func(newId, templateId ids.NodeId, handle int) {
			callbacks = append(callbacks, newId)
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	children, gerr := addrspace.Neighbors(store, instanceId, ids.HasComponentId, addrspace.DirForward, false, nil)
	if gerr != nil {
		t.Fatal(gerr)
	}
	if len(children) != 1 {
		t.Fatalf("expected exactly one mandatory child to be materialized, got %d", len(children))
	}

	childNode, _ := store.Get(children[0])
	if childNode.BrowseName.Name != "MandatoryChild" {
		t.Errorf("expected the materialized child to be MandatoryChild, got %s", childNode.BrowseName.Name)
	}

	if len(callbacks) != 1 {
		t.Errorf("expected exactly one instantiation callback, got %d", len(callbacks))
	}

	typeDefs, gerr := addrspace.Neighbors(store, instanceId, ids.HasTypeDefinitionId, addrspace.DirForward, false, nil)
	if gerr != nil || len(typeDefs) != 1 || !typeDefs[0].Equals(typeId) {
		t.Errorf("expected instance to be typed to %v", typeId)
	}

	_ = mandatoryId
}

func TestInstantiateRejectsAbstractType(t *testing.T) {
	store := addrspace.NewStore()

	parent, _ := store.Insert(addrspace.NewNode(ids.NullNodeId, addrspace.ClassObject, ids.NewQualifiedName(0, "Parent")))

	abstractType, _ := store.Insert(addrspace.NewNode(ids.NullNodeId, addrspace.ClassObjectType, ids.NewQualifiedName(0, "AbstractType")))
	node, _ := store.Get(abstractType)
	node.Type = &addrspace.TypeAttributes{IsAbstract: true}

	registry := lifecycle.NewRegistry[int]()
	root := addrspace.NewNode(ids.NullNodeId, addrspace.ClassObject, ids.NewQualifiedName(0, "Instance"))

	_, err := Instantiate(store, Request[int]{
		Root:                  root,
		ParentId:               parent,
		ReferenceTypeToParent: ids.OrganizesId,
		TypeDefinitionId:      abstractType,
		Registry:              registry,
	})
	if err == nil {
		t.Fatal("expected instantiation of an abstract type to fail")
	}
}

func TestInstantiateRollsBackOnReferenceFailure(t *testing.T) {
	store := addrspace.NewStore()

	typeId, _, _ := buildFolderHierarchy(t, store)
	registry := lifecycle.NewRegistry[int]()
	root := addrspace.NewNode(ids.NullNodeId, addrspace.ClassObject, ids.NewQualifiedName(0, "Instance"))

	missingParent := ids.NewNumericNodeId(99, 999)

	before := store.Count()

	_, err := Instantiate(store, Request[int]{
		Root:                  root,
		ParentId:               missingParent,
		ReferenceTypeToParent: ids.OrganizesId,
		TypeDefinitionId:      typeId,
		Registry:              registry,
	})
	if err == nil {
		t.Fatal("expected instantiation against a missing parent to fail")
	}

	if store.Count() != before {
		t.Errorf("expected rollback to leave the store unchanged, had %d now have %d", before, store.Count())
	}
}

func TestConstructorFailureDoesNotRollBackInstantiation(t *testing.T) {
	store := addrspace.NewStore()

	parent, _ := store.Insert(addrspace.NewNode(ids.NullNodeId, addrspace.ClassObject, ids.NewQualifiedName(0, "Parent")))
	typeId, _ := store.Insert(addrspace.NewNode(ids.NullNodeId, addrspace.ClassObjectType, ids.NewQualifiedName(0, "FlakyType")))

	registry := lifecycle.NewRegistry[int]()
	registry.Register(typeId, lifecycle.Hooks[int]{
		Constructor: func(ids.NodeId) (int, error) { return 0, errors.New("boom") },
	})

	root := addrspace.NewNode(ids.NullNodeId, addrspace.ClassObject, ids.NewQualifiedName(0, "Instance"))

	instanceId, err := Instantiate(store, Request[int]{
		Root:                  root,
		ParentId:               parent,
		ReferenceTypeToParent: ids.OrganizesId,
		TypeDefinitionId:      typeId,
		Registry:              registry,
	})
	if err != nil {
		t.Fatalf("expected instantiation to succeed despite the failing constructor, got %v", err)
	}
	if !store.Exists(instanceId) {
		t.Error("expected the instance to remain in the store after a constructor failure")
	}
}
