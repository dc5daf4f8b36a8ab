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
Package addrspace contains the typed, referenced, multi-namespace node
graph an OPC UA server exposes: the node store, the reference index
and the node/reference types themselves.
*/
package addrspace

import (
	"github.com/krotik/uacore/ids"
	"github.com/krotik/uacore/values"
)

/*
NodeClass identifies the kind of a node. Every service operation
switches on this tag rather than relying on language-level inheritance
(spec.md §9's "deep polymorphism over NodeClass" note).
*/
type NodeClass int

const (
	ClassObject NodeClass = iota
	ClassObjectType
	ClassVariable
	ClassVariableType
	ClassReferenceType
	ClassDataType
	ClassMethod
	ClassView
)

/*
String returns a human-readable name for the node class.
*/
func (c NodeClass) String() string {
	switch c {
	case ClassObject:
		return "Object"
	case ClassObjectType:
		return "ObjectType"
	case ClassVariable:
		return "Variable"
	case ClassVariableType:
		return "VariableType"
	case ClassReferenceType:
		return "ReferenceType"
	case ClassDataType:
		return "DataType"
	case ClassMethod:
		return "Method"
	case ClassView:
		return "View"
	}
	return "Unknown"
}

/*
HasTypeDefinition returns true if instances of this class carry a
HasTypeDefinition reference (Object and Variable).
*/
func (c NodeClass) HasTypeDefinition() bool {
	return c == ClassObject || c == ClassVariable
}

/*
IsTypeClass returns true if this class is itself a "type" class that
can be subtyped and instantiated from (ObjectType, VariableType,
ReferenceType, DataType).
*/
func (c NodeClass) IsTypeClass() bool {
	switch c {
	case ClassObjectType, ClassVariableType, ClassReferenceType, ClassDataType:
		return true
	}
	return false
}

/*
VariableAttributes carries the class-specific attributes of a Variable
or VariableType node.
*/
type VariableAttributes struct {
	Value                   values.Variant
	DataType                ids.NodeId
	ValueRank               int
	ArrayDimensions         []uint32
	AccessLevel             byte
	MinimumSamplingInterval float64
	Historizing             bool
}

/*
TypeAttributes carries the class-specific attributes shared by
ObjectType, VariableType, ReferenceType and DataType nodes.
*/
type TypeAttributes struct {
	IsAbstract bool

	// ReferenceType-only
	Symmetric   bool
	InverseName string
}

/*
MethodAttributes carries the class-specific attributes of a Method node.
*/
type MethodAttributes struct {
	Executable     bool
	UserExecutable bool
	Invoke         InvocationHandler
}

/*
InvocationHandler is the embedder-supplied handler for a Method node.
*/
type InvocationHandler func(objectId ids.NodeId, inputArgs []values.Variant) ([]values.Variant, error)

/*
Node is a single entry in the address space. It has a common header
plus, depending on Class, exactly one populated class-specific payload
(spec.md §9: "Node as a tagged variant with a common header").
*/
type Node struct {
	Id            ids.NodeId
	Class         NodeClass
	BrowseName    ids.QualifiedName
	DisplayName   values.LocalizedText
	Description   values.LocalizedText
	WriteMask     uint32
	UserWriteMask uint32
	References    []Reference

	Variable *VariableAttributes // Variable, VariableType
	Type     *TypeAttributes     // ObjectType, VariableType, ReferenceType, DataType
	Method   *MethodAttributes   // Method
}

/*
NewNode creates a node header of the given class with no references
and no class-specific payload attached. Callers populate Variable/
Type/Method afterwards as appropriate for Class.
*/
func NewNode(id ids.NodeId, class NodeClass, browseName ids.QualifiedName) *Node {
	return &Node{
		Id:         id,
		Class:      class,
		BrowseName: browseName,
	}
}

/*
Clone returns a deep-enough copy of n suitable for use as a freshly
materialized instance: references are not copied (the instantiator
installs its own), but the class-specific payload is copied by value
so mutating the clone never mutates the template.
*/
func (n *Node) Clone(newId ids.NodeId) *Node {
	clone := &Node{
		Id:            newId,
		Class:         n.Class,
		BrowseName:    n.BrowseName,
		DisplayName:   n.DisplayName,
		Description:   n.Description,
		WriteMask:     n.WriteMask,
		UserWriteMask: n.UserWriteMask,
	}

	if n.Variable != nil {
		v := *n.Variable
		v.ArrayDimensions = append([]uint32(nil), n.Variable.ArrayDimensions...)
		clone.Variable = &v
	}

	if n.Type != nil {
		ty := *n.Type
		clone.Type = &ty
	}

	if n.Method != nil {
		m := *n.Method
		clone.Method = &m
	}

	return clone
}

/*
findReference returns the index of a matching reference, or -1.
*/
func (n *Node) findReference(refType, target ids.NodeId, isForward bool) int {
	for i, r := range n.References {
		if r.ReferenceType.Equals(refType) && r.Target().Equals(target) && r.IsForward == isForward {
			return i
		}
	}
	return -1
}

/*
HasReference returns true if n already holds the given reference.
*/
func (n *Node) HasReference(refType, target ids.NodeId, isForward bool) bool {
	return n.findReference(refType, target, isForward) >= 0
}

/*
ForwardReferencesOfType returns the targets of every forward reference
of exactly refType held by n (no subtype expansion; see Neighbors
for subtype-aware neighbor lookups).
*/
func (n *Node) ForwardReferencesOfType(refType ids.NodeId) []ids.NodeId {
	var out []ids.NodeId
	for _, r := range n.References {
		if r.IsForward && r.ReferenceType.Equals(refType) {
			out = append(out, r.TargetId)
		}
	}
	return out
}
