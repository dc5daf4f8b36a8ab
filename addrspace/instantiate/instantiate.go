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
Package instantiate implements type instantiation: materializing an
object or variable together with the mandatory members its type (and
its type's ancestors) require, recursively.
*/
package instantiate

import (
	"log"

	"github.com/krotik/uacore/addrspace"
	"github.com/krotik/uacore/addrspace/lifecycle"
	"github.com/krotik/uacore/addrspace/typeresolve"
	"github.com/krotik/uacore/ids"
	"github.com/krotik/uacore/uaerrors"
)

/*
Callback is invoked once for every mandatory member materialized during
instantiation, in depth-first order. For a member that is itself typed
it runs after that member's own subtree (and InvokeConstructor for the
member) is complete; an untyped member gets no constructor call and
its handle argument is the zero value of H.
*/
type Callback[H any] func(newNodeId, templateId ids.NodeId, handle H)

/*
Request describes one call to Instantiate.
*/
type Request[H any] struct {
	Root                  *addrspace.Node // Id may be NULL; Class/BrowseName/attributes preset by the caller
	ParentId              ids.NodeId
	ReferenceTypeToParent ids.NodeId
	TypeDefinitionId      ids.NodeId
	Registry              *lifecycle.Registry[H]
	Callback              Callback[H] // optional
	Logger                *log.Logger // optional, for constructor failures that do not roll back

	// OnConstructorInvoked, if set, is called once for every node whose
	// constructor actually ran, immediately after it returns - even if
	// the constructor itself failed, since a constructor cannot veto
	// creation of the instance it was invoked for.
	OnConstructorInvoked func(instance, typeDefinitionId ids.NodeId)
}

type createdEntry struct {
	NodeId ids.NodeId
	TypeId ids.NodeId // NULL if this node was not itself typed
}

/*
Instantiate materializes Root under ParentId, typed to TypeDefinitionId,
together with every HasComponent/HasProperty member TypeDefinitionId
(or one of its ancestors) marks Mandatory, recursing into any member
that is itself typed. On any failure it rolls back every node it
created, in reverse order, together with every reference record those
nodes took part in, invoking destructors for whichever sub-instances
had already been constructed successfully. Constructor failures
are logged but never roll back instantiation, matching the rule that a
constructor cannot veto creation of the instance it was invoked for.
*/
func Instantiate[H any](store *addrspace.Store, req Request[H]) (ids.NodeId, *uaerrors.Error) {
	typeNode, err := store.Get(req.TypeDefinitionId)
	if err != nil {
		return ids.NullNodeId, uaerrors.New(uaerrors.BadTypeDefinitionInvalid, req.TypeDefinitionId.String())
	}

	var wantClass addrspace.NodeClass
	switch req.Root.Class {
	case addrspace.ClassObject:
		wantClass = addrspace.ClassObjectType
	case addrspace.ClassVariable:
		wantClass = addrspace.ClassVariableType
	default:
		return ids.NullNodeId, uaerrors.New(uaerrors.BadTypeDefinitionInvalid,
			"typed instantiation only applies to Object and Variable nodes")
	}

	if typeNode.Class != wantClass {
		return ids.NullNodeId, uaerrors.New(uaerrors.BadTypeDefinitionInvalid, req.TypeDefinitionId.String())
	}
	if typeNode.Type != nil && typeNode.Type.IsAbstract {
		return ids.NullNodeId, uaerrors.New(uaerrors.BadTypeDefinitionInvalid, req.TypeDefinitionId.String())
	}

	rootId, ierr := store.Insert(req.Root)
	if ierr != nil {
		return ids.NullNodeId, ierr
	}

	created := []createdEntry{{NodeId: rootId, TypeId: req.TypeDefinitionId}}

	rollback := func(parentLinked bool) {
		for i := len(created) - 1; i >= 0; i-- {
			e := created[i]
			if _, constructed := req.Registry.HandleFor(e.NodeId); constructed && !e.TypeId.IsNull() {
				req.Registry.InvokeDestructor(store, e.NodeId, e.TypeId)
			}
			if n, gerr := store.Get(e.NodeId); gerr == nil {
				for _, r := range append([]addrspace.Reference(nil), n.References...) {
					addrspace.RemoveReferencePair(store, e.NodeId, r.ReferenceType, r.TargetId, r.IsForward)
				}
			}
			store.Remove(e.NodeId)
		}
		if parentLinked {
			addrspace.RemoveReferencePair(store, req.ParentId, req.ReferenceTypeToParent, rootId, true)
		}
	}

	if rerr := addrspace.AddReferencePair(store, req.ParentId, req.ReferenceTypeToParent, rootId, true); rerr != nil {
		rollback(false)
		return ids.NullNodeId, rerr
	}

	if merr := materialize(store, req.Registry, rootId, req.TypeDefinitionId, req.Callback, req.Logger, req.OnConstructorInvoked, &created); merr != nil {
		rollback(true)
		return ids.NullNodeId, merr
	}

	return rootId, nil
}

/*
materialize installs instanceId's HasTypeDefinition reference, invokes
its constructor, then walks typeDefinitionId's mandatory members,
cloning each as a child of instanceId and recursing if the member is
itself typed.
*/
func materialize[H any](store *addrspace.Store, registry *lifecycle.Registry[H], instanceId, typeDefinitionId ids.NodeId,
	callback Callback[H], logger *log.Logger, onConstructorInvoked func(instance, typeDefinitionId ids.NodeId),
	created *[]createdEntry) *uaerrors.Error {

	if rerr := addrspace.AddReferencePair(store, instanceId, ids.HasTypeDefinitionId, typeDefinitionId, true); rerr != nil {
		return rerr
	}

	invoked, cerr := registry.InvokeConstructor(store, instanceId, typeDefinitionId)
	if cerr != nil && logger != nil {
		logger.Printf("constructor for %v failed on %v: %v", typeDefinitionId, instanceId, cerr)
	}
	if invoked && onConstructorInvoked != nil {
		onConstructorInvoked(instanceId, typeDefinitionId)
	}

	members := typeresolve.TypeChildren(store, typeDefinitionId, typeresolve.RuleMandatory)

	for _, member := range members {
		templateNode, terr := store.Get(member.NodeId)
		if terr != nil {
			continue
		}

		childClone := templateNode.Clone(ids.NullNodeId)
		childId, ierr := store.Insert(childClone)
		if ierr != nil {
			return ierr
		}
		*created = append(*created, createdEntry{NodeId: childId})

		linkType := linkReferenceType(templateNode)
		if rerr := addrspace.AddReferencePair(store, instanceId, linkType, childId, true); rerr != nil {
			return rerr
		}

		childType, tderr := typeresolve.TypeDefinition(store, member.NodeId)
		if tderr == nil {
			(*created)[len(*created)-1].TypeId = childType

			if merr := materialize(store, registry, childId, childType, callback, logger, onConstructorInvoked, created); merr != nil {
				return merr
			}

			if callback != nil {
				handle, _ := registry.HandleFor(childId)
				callback(childId, templateNode.Id, handle)
			}
			continue
		}

		if callback != nil {
			var zero H
			callback(childId, templateNode.Id, zero)
		}
	}

	return nil
}

/*
linkReferenceType returns the HasComponent/HasProperty reference type
that links template to its owning type, read off template's inverse
reference to that ancestor. Falls back to HasComponent if none is
found, which should not happen for a member produced by
typeresolve.TypeChildren.
*/
func linkReferenceType(template *addrspace.Node) ids.NodeId {
	for _, r := range template.References {
		if r.IsForward {
			continue
		}
		if r.ReferenceType.Equals(ids.HasComponentId) || r.ReferenceType.Equals(ids.HasPropertyId) {
			return r.ReferenceType
		}
	}
	return ids.HasComponentId
}
