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
Package service exposes the node-management operations a client
issues against the address space: AddNode, AddReference, DeleteNode,
DeleteReference, Browse and the attribute read/write pair, all
serialized against each other so the address space is never observed
half-mutated.
*/
package service

import (
	"log"

	"github.com/krotik/uacore/addrspace"
	"github.com/krotik/uacore/addrspace/instantiate"
	"github.com/krotik/uacore/addrspace/lifecycle"
	"github.com/krotik/uacore/addrspace/typeresolve"
	"github.com/krotik/uacore/ids"
	"github.com/krotik/uacore/uaerrors"
	"github.com/krotik/uacore/values"
)

/*
EventSink receives a notification for every node/reference mutation
the server performs, so an embedder (e.g. package monitor) can fan
them out without the service layer knowing who is listening.
*/
type EventSink interface {
	NodeCreated(id ids.NodeId)
	NodeUpdated(id ids.NodeId)
	NodeDeleted(id ids.NodeId)
	ReferenceAdded(source, refType, target ids.NodeId, isForward bool)
	ReferenceRemoved(source, refType, target ids.NodeId, isForward bool)
	ConstructorInvoked(instance, typeDefinitionId ids.NodeId)
}

/*
Server is the node-management service over one address space. H is the
lifecycle handle type the embedder's constructors/destructors produce
and consume.
*/
type Server[H any] struct {
	writeSerializer
	store    *addrspace.Store
	registry *lifecycle.Registry[H]
	logger   *log.Logger
	sink     EventSink
}

/*
NewServer creates a service over an existing store and lifecycle
registry. logger and sink may both be nil.
*/
func NewServer[H any](store *addrspace.Store, registry *lifecycle.Registry[H], logger *log.Logger, sink EventSink) *Server[H] {
	return &Server[H]{
		store:    store,
		registry: registry,
		logger:   logger,
		sink:     sink,
	}
}

/*
Store returns the underlying node store, for callers (such as
bootstrap) that need to populate it directly before any client
connects.
*/
func (s *Server[H]) Store() *addrspace.Store {
	return s.store
}

/*
Registry returns the server's lifecycle registry.
*/
func (s *Server[H]) Registry() *lifecycle.Registry[H] {
	return s.registry
}

func (s *Server[H]) notifyNodeCreated(id ids.NodeId) {
	if s.sink != nil {
		s.sink.NodeCreated(id)
	}
}

func (s *Server[H]) notifyNodeUpdated(id ids.NodeId) {
	if s.sink != nil {
		s.sink.NodeUpdated(id)
	}
}

func (s *Server[H]) notifyNodeDeleted(id ids.NodeId) {
	if s.sink != nil {
		s.sink.NodeDeleted(id)
	}
}

func (s *Server[H]) notifyReferenceAdded(source, refType, target ids.NodeId, isForward bool) {
	if s.sink != nil {
		s.sink.ReferenceAdded(source, refType, target, isForward)
	}
}

func (s *Server[H]) notifyReferenceRemoved(source, refType, target ids.NodeId, isForward bool) {
	if s.sink != nil {
		s.sink.ReferenceRemoved(source, refType, target, isForward)
	}
}

func (s *Server[H]) notifyConstructorInvoked(instance, typeDefinitionId ids.NodeId) {
	if s.sink != nil {
		s.sink.ConstructorInvoked(instance, typeDefinitionId)
	}
}

/*
AddNodeRequest carries the arguments of an AddNode call.
*/
type AddNodeRequest[H any] struct {
	ParentId              ids.NodeId
	ReferenceTypeToParent ids.NodeId
	RequestedId           ids.NodeId // NULL to have the store assign one
	BrowseName            ids.QualifiedName
	Class                 addrspace.NodeClass
	TypeDefinitionId      ids.NodeId // NULL unless Class is Object or Variable

	DisplayName values.LocalizedText
	Description values.LocalizedText
	Variable    *addrspace.VariableAttributes
	Type        *addrspace.TypeAttributes
	Method      *addrspace.MethodAttributes

	Callback instantiate.Callback[H]
}

/*
AddNode validates and installs a new node per spec.md §4.7's ordered
checks, delegating to the instantiator when the new node carries a
type definition and inserting a single node otherwise.
*/
func (s *Server[H]) AddNode(req AddNodeRequest[H]) (ids.NodeId, *uaerrors.Error) {
	defer s.beginWrite()()

	if _, err := s.store.Get(req.ParentId); err != nil {
		return ids.NullNodeId, uaerrors.New(uaerrors.BadParentNodeIdInvalid, req.ParentId.String())
	}

	refTypeNode, err := s.store.Get(req.ReferenceTypeToParent)
	if err != nil || refTypeNode.Class != addrspace.ClassReferenceType {
		return ids.NullNodeId, uaerrors.New(uaerrors.BadReferenceTypeIdInvalid, req.ReferenceTypeToParent.String())
	}

	if !req.RequestedId.IsNull() && s.store.Exists(req.RequestedId) {
		return ids.NullNodeId, uaerrors.New(uaerrors.BadNodeIdExists, req.RequestedId.String())
	}

	needsType := req.Class == addrspace.ClassObject || req.Class == addrspace.ClassVariable
	if needsType {
		if req.TypeDefinitionId.IsNull() {
			return ids.NullNodeId, uaerrors.New(uaerrors.BadTypeDefinitionInvalid, "no type definition supplied")
		}
		typeNode, terr := s.store.Get(req.TypeDefinitionId)
		wantClass := addrspace.ClassObjectType
		if req.Class == addrspace.ClassVariable {
			wantClass = addrspace.ClassVariableType
		}
		if terr != nil || typeNode.Class != wantClass || (typeNode.Type != nil && typeNode.Type.IsAbstract) {
			return ids.NullNodeId, uaerrors.New(uaerrors.BadTypeDefinitionInvalid, req.TypeDefinitionId.String())
		}
	}

	siblings, _ := addrspace.Neighbors(s.store, req.ParentId, req.ReferenceTypeToParent, addrspace.DirForward, false, nil)
	for _, sibling := range siblings {
		if siblingNode, serr := s.store.Get(sibling); serr == nil && siblingNode.BrowseName.Equals(req.BrowseName) {
			return ids.NullNodeId, uaerrors.New(uaerrors.BadBrowseNameDuplicated, req.BrowseName.String())
		}
	}

	root := addrspace.NewNode(req.RequestedId, req.Class, req.BrowseName)
	root.DisplayName = req.DisplayName
	root.Description = req.Description
	root.Variable = req.Variable
	root.Type = req.Type
	root.Method = req.Method

	if needsType {
		newId, ierr := instantiate.Instantiate(s.store, instantiate.Request[H]{
			Root:                  root,
			ParentId:              req.ParentId,
			ReferenceTypeToParent: req.ReferenceTypeToParent,
			TypeDefinitionId:      req.TypeDefinitionId,
			Registry:              s.registry,
			Callback:              req.Callback,
			Logger:                s.logger,
			OnConstructorInvoked:  s.notifyConstructorInvoked,
		})
		if ierr != nil {
			return ids.NullNodeId, ierr
		}
		s.notifyNodeCreated(newId)
		return newId, nil
	}

	newId, ierr := s.store.Insert(root)
	if ierr != nil {
		return ids.NullNodeId, ierr
	}

	if rerr := addrspace.AddReferencePair(s.store, req.ParentId, req.ReferenceTypeToParent, newId, true); rerr != nil {
		s.store.Remove(newId)
		return ids.NullNodeId, rerr
	}

	s.notifyNodeCreated(newId)
	return newId, nil
}

/*
AddReference validates and installs one reference pair, rejecting a
HasSubtype (or subtype-of-HasSubtype) link that would create a cycle
in the type hierarchy.
*/
func (s *Server[H]) AddReference(sourceId, refTypeId, targetId ids.NodeId, isForward bool) *uaerrors.Error {
	defer s.beginWrite()()

	if _, err := s.store.Get(sourceId); err != nil {
		return uaerrors.New(uaerrors.BadNodeIdInvalid, sourceId.String())
	}
	if _, err := s.store.Get(targetId); err != nil {
		return uaerrors.New(uaerrors.BadNodeIdInvalid, targetId.String())
	}
	if _, err := s.store.Get(refTypeId); err != nil {
		return uaerrors.New(uaerrors.BadReferenceTypeIdInvalid, refTypeId.String())
	}

	if refTypeId.Equals(ids.HasSubtypeId) || typeresolve.IsSubtypeOf(s.store, refTypeId, ids.HasSubtypeId) {
		child, parent := targetId, sourceId
		if !isForward {
			child, parent = sourceId, targetId
		}
		if typeresolve.WouldCycle(s.store, child, parent) {
			return uaerrors.New(uaerrors.BadReferenceTypeIdInvalid, "would create a subtype cycle")
		}
	}

	if err := addrspace.AddReferencePair(s.store, sourceId, refTypeId, targetId, isForward); err != nil {
		return err
	}

	s.notifyReferenceAdded(sourceId, refTypeId, targetId, isForward)
	return nil
}

/*
DeleteNode removes id from the store, invoking its destructor first,
detaching it from every neighbor, and - if deleteTargetReferences is
set - also detaching the nodes that referenced it. Any HasComponent/
HasProperty child that is left with no remaining incoming
HasComponent/HasProperty reference is deleted the same way, recursively.
*/
func (s *Server[H]) DeleteNode(id ids.NodeId, deleteTargetReferences bool) *uaerrors.Error {
	defer s.beginWrite()()

	return s.deleteNodeLocked(id, deleteTargetReferences)
}

func (s *Server[H]) deleteNodeLocked(id ids.NodeId, deleteTargetReferences bool) *uaerrors.Error {
	node, err := s.store.Get(id)
	if err != nil {
		return err
	}

	if typeId, tderr := typeresolve.TypeDefinition(s.store, id); tderr == nil {
		s.registry.InvokeDestructor(s.store, id, typeId)
	}

	var componentChildren []ids.NodeId

	for _, ref := range append([]addrspace.Reference(nil), node.References...) {
		if ref.IsForward {
			if ref.ReferenceType.Equals(ids.HasComponentId) || ref.ReferenceType.Equals(ids.HasPropertyId) {
				componentChildren = append(componentChildren, ref.TargetId)
			}
			addrspace.RemoveReferencePair(s.store, id, ref.ReferenceType, ref.TargetId, true)
			s.notifyReferenceRemoved(id, ref.ReferenceType, ref.TargetId, true)
			continue
		}

		if deleteTargetReferences {
			addrspace.RemoveReferencePair(s.store, ref.TargetId, ref.ReferenceType, id, true)
			s.notifyReferenceRemoved(ref.TargetId, ref.ReferenceType, id, true)
		}
	}

	if _, rerr := s.store.Remove(id); rerr != nil {
		return rerr
	}
	s.notifyNodeDeleted(id)

	for _, child := range componentChildren {
		if s.isOrphanedComponent(child) {
			s.deleteNodeLocked(child, deleteTargetReferences)
		}
	}

	return nil
}

/*
isOrphanedComponent reports whether child has no remaining incoming
HasComponent/HasProperty reference from any other node.
*/
func (s *Server[H]) isOrphanedComponent(child ids.NodeId) bool {
	node, err := s.store.Get(child)
	if err != nil {
		return false
	}

	for _, ref := range node.References {
		if !ref.IsForward && (ref.ReferenceType.Equals(ids.HasComponentId) || ref.ReferenceType.Equals(ids.HasPropertyId)) {
			return false
		}
	}

	return true
}

/*
DeleteReference removes one reference. When deleteBidirectional is
false, only the side held by sourceId is removed, leaving a one-sided
reference on targetId - the same escape hatch open62541 exposes.
*/
func (s *Server[H]) DeleteReference(sourceId, refTypeId, targetId ids.NodeId, isForward, deleteBidirectional bool) *uaerrors.Error {
	defer s.beginWrite()()

	if deleteBidirectional {
		if err := addrspace.RemoveReferencePair(s.store, sourceId, refTypeId, targetId, isForward); err != nil {
			return err
		}
		s.notifyReferenceRemoved(sourceId, refTypeId, targetId, isForward)
		return nil
	}

	if err := addrspace.RemoveReferenceSingleSide(s.store, sourceId, refTypeId, targetId, isForward); err != nil {
		return err
	}
	s.notifyReferenceRemoved(sourceId, refTypeId, targetId, isForward)
	return nil
}

/*
BrowseDirection selects which side of a node's reference list Browse
considers.
*/
type BrowseDirection int

const (
	BrowseForward BrowseDirection = iota
	BrowseInverse
	BrowseBoth
)

/*
BrowseDescription is the filter Browse applies to one node's
reference list.
*/
type BrowseDescription struct {
	NodeId          ids.NodeId
	ReferenceTypeId ids.NodeId // NULL matches every reference type
	IncludeSubtypes bool
	Direction       BrowseDirection
	NodeClassMask   uint32 // 0 matches every class; otherwise a bitmask of 1<<NodeClass
}

/*
ReferenceDescription is one row of a Browse result.
*/
type ReferenceDescription struct {
	ReferenceTypeId ids.NodeId
	IsForward       bool
	NodeId          ids.NodeId
	BrowseName      ids.QualifiedName
	DisplayName     values.LocalizedText
	NodeClass       addrspace.NodeClass
	TypeDefinition  ids.NodeId // NULL if the target carries none
}

/*
Browse returns the filtered reference descriptions for one node.
sessionId is accepted for interface symmetry with the OPC UA Browse
service; this core has no session/access-control layer, so it is not
otherwise consulted.
*/
func (s *Server[H]) Browse(sessionId string, desc BrowseDescription) ([]ReferenceDescription, *uaerrors.Error) {
	s.store.RLock()
	defer s.store.RUnlock()

	node, err := s.store.GetLocked(desc.NodeId)
	if err != nil {
		return nil, err
	}

	var out []ReferenceDescription

	for _, ref := range node.References {
		switch desc.Direction {
		case BrowseForward:
			if !ref.IsForward {
				continue
			}
		case BrowseInverse:
			if ref.IsForward {
				continue
			}
		}

		if !desc.ReferenceTypeId.IsNull() {
			if !ref.ReferenceType.Equals(desc.ReferenceTypeId) &&
				!(desc.IncludeSubtypes && typeresolve.IsSubtypeOfLocked(s.store, ref.ReferenceType, desc.ReferenceTypeId)) {
				continue
			}
		}

		targetNode, terr := s.store.GetLocked(ref.TargetId)
		if terr != nil {
			continue
		}

		if desc.NodeClassMask != 0 && desc.NodeClassMask&(1<<uint(targetNode.Class)) == 0 {
			continue
		}

		typeDef := ids.NullNodeId
		if td, tderr := typeresolve.TypeDefinitionLocked(s.store, ref.TargetId); tderr == nil {
			typeDef = td
		}

		out = append(out, ReferenceDescription{
			ReferenceTypeId: ref.ReferenceType,
			IsForward:       ref.IsForward,
			NodeId:          ref.TargetId,
			BrowseName:      targetNode.BrowseName,
			DisplayName:     targetNode.DisplayName,
			NodeClass:       targetNode.Class,
			TypeDefinition:  typeDef,
		})
	}

	return out, nil
}

/*
BrowsePathHop is one step of a relative path: follow referenceTypeId
(or any of its subtypes, if includeSubtypes) in the given direction
and select the unique neighbor named targetName.
*/
type BrowsePathHop struct {
	ReferenceTypeId ids.NodeId
	IsInverse       bool
	IncludeSubtypes bool
	TargetName      ids.QualifiedName
}

/*
TranslateBrowsePathToNodeId walks a sequence of relative-path hops
from startingId and returns the node reached at the end, or BadNoMatch
if any hop fails to resolve to exactly one neighbor.
*/
func (s *Server[H]) TranslateBrowsePathToNodeId(startingId ids.NodeId, hops []BrowsePathHop) (ids.NodeId, *uaerrors.Error) {
	s.store.RLock()
	defer s.store.RUnlock()

	current := startingId

	for _, hop := range hops {
		dir := addrspace.DirForward
		if hop.IsInverse {
			dir = addrspace.DirInverse
		}

		var checker addrspace.SubtypeChecker
		if hop.IncludeSubtypes {
			checker = typeresolve.IsSubtypeOfLocked
		}

		neighbors, err := addrspace.NeighborsLocked(s.store, current, hop.ReferenceTypeId, dir, hop.IncludeSubtypes, checker)
		if err != nil {
			return ids.NullNodeId, uaerrors.New(uaerrors.BadNoMatch, current.String())
		}

		matched := ids.NullNodeId
		found := false
		for _, n := range neighbors {
			node, gerr := s.store.GetLocked(n)
			if gerr != nil {
				continue
			}
			if node.BrowseName.Equals(hop.TargetName) {
				if found {
					return ids.NullNodeId, uaerrors.New(uaerrors.BadNoMatch, hop.TargetName.String())
				}
				matched = n
				found = true
			}
		}

		if !found {
			return ids.NullNodeId, uaerrors.New(uaerrors.BadNoMatch, hop.TargetName.String())
		}

		current = matched
	}

	return current, nil
}

/*
Attribute identifies a readable/writable node attribute.
*/
type Attribute int

const (
	AttrBrowseName Attribute = iota
	AttrDisplayName
	AttrDescription
	AttrValue
)

/*
GetNode returns a snapshot of the full node record for id, for callers
that need more than a single attribute. The snapshot (including its
own copy of References) is taken under the read lock and is safe to
keep and read after GetNode returns - it is decoupled from the live
node, so it will not observe any mutation a concurrent AddNode,
AddReference or SetNodeAttribute makes afterwards.
*/
func (s *Server[H]) GetNode(id ids.NodeId) (*addrspace.Node, *uaerrors.Error) {
	s.store.RLock()
	defer s.store.RUnlock()

	node, err := s.store.GetLocked(id)
	if err != nil {
		return nil, err
	}

	snapshot := node.Clone(node.Id)
	snapshot.References = append([]addrspace.Reference(nil), node.References...)

	return snapshot, nil
}

/*
GetNodeAttribute reads a single attribute of a node.
*/
func (s *Server[H]) GetNodeAttribute(id ids.NodeId, attr Attribute) (values.Variant, *uaerrors.Error) {
	s.store.RLock()
	defer s.store.RUnlock()

	node, err := s.store.GetLocked(id)
	if err != nil {
		return values.Variant{}, err
	}

	switch attr {
	case AttrBrowseName:
		return values.NewString(node.BrowseName.String()), nil
	case AttrDisplayName:
		return values.NewLocalizedText(node.DisplayName.Locale, node.DisplayName.Text), nil
	case AttrDescription:
		return values.NewLocalizedText(node.Description.Locale, node.Description.Text), nil
	case AttrValue:
		if node.Variable == nil {
			return values.Variant{}, uaerrors.New(uaerrors.BadNodeIdInvalid, "node has no Value attribute")
		}
		return node.Variable.Value, nil
	}

	return values.Variant{}, uaerrors.New(uaerrors.BadNodeIdInvalid, "unknown attribute")
}

/*
SetNodeAttribute writes a single attribute of a node. Value (on a node
that carries Variable attributes), DisplayName and Description are
writable; BrowseName is not. This core has no access-level
enforcement, which belongs to the session layer.
*/
func (s *Server[H]) SetNodeAttribute(id ids.NodeId, attr Attribute, value values.Variant) *uaerrors.Error {
	defer s.beginWrite()()

	s.store.Lock()
	defer s.store.Unlock()

	node, err := s.store.GetLocked(id)
	if err != nil {
		return err
	}

	switch attr {
	case AttrValue:
		if node.Variable == nil {
			return uaerrors.New(uaerrors.BadNodeIdInvalid, "node has no Value attribute")
		}
		node.Variable.Value = value
	case AttrDisplayName:
		text, ok := value.Scalar.(values.LocalizedText)
		if !ok {
			return uaerrors.New(uaerrors.BadNodeIdInvalid, "DisplayName requires a LocalizedText value")
		}
		node.DisplayName = text
	case AttrDescription:
		text, ok := value.Scalar.(values.LocalizedText)
		if !ok {
			return uaerrors.New(uaerrors.BadNodeIdInvalid, "Description requires a LocalizedText value")
		}
		node.Description = text
	default:
		return uaerrors.New(uaerrors.BadNodeIdInvalid, "attribute is not writable")
	}

	s.notifyNodeUpdated(id)
	return nil
}
