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
Package ids contains the namespaced identifiers used throughout the
address space: NodeId and QualifiedName.
*/
package ids

import (
	"encoding/base64"
	"fmt"
	"hash/fnv"

	"github.com/google/uuid"
)

/*
IdType is the discriminant of a NodeId's variant payload.
*/
type IdType uint8

const (
	IdTypeNumeric IdType = iota
	IdTypeString
	IdTypeGUID
	IdTypeOpaque
)

/*
String returns a human-readable name for the id type tag.
*/
func (t IdType) String() string {
	switch t {
	case IdTypeNumeric:
		return "i"
	case IdTypeString:
		return "s"
	case IdTypeGUID:
		return "g"
	case IdTypeOpaque:
		return "b"
	}
	return "?"
}

/*
NodeId is a namespaced, variant-tagged identifier for a node. The zero
value is the NULL NodeId which means "server-assigned".
*/
type NodeId struct {
	Namespace uint16
	Type      IdType
	Numeric   uint32
	Text      string
	GUID      uuid.UUID
	Opaque    []byte
}

/*
NullNodeId is the distinguished NodeId meaning "server-assigned".
*/
var NullNodeId = NodeId{}

/*
NewNumericNodeId creates a NodeId with a numeric identifier.
*/
func NewNumericNodeId(ns uint16, id uint32) NodeId {
	return NodeId{Namespace: ns, Type: IdTypeNumeric, Numeric: id}
}

/*
NewStringNodeId creates a NodeId with a string identifier.
*/
func NewStringNodeId(ns uint16, id string) NodeId {
	return NodeId{Namespace: ns, Type: IdTypeString, Text: id}
}

/*
NewGUIDNodeId creates a NodeId with a GUID identifier.
*/
func NewGUIDNodeId(ns uint16, id uuid.UUID) NodeId {
	return NodeId{Namespace: ns, Type: IdTypeGUID, GUID: id}
}

/*
NewOpaqueNodeId creates a NodeId with an opaque byte-string identifier.
*/
func NewOpaqueNodeId(ns uint16, id []byte) NodeId {
	return NodeId{Namespace: ns, Type: IdTypeOpaque, Opaque: append([]byte(nil), id...)}
}

/*
IsNull returns true if this is the NULL NodeId.
*/
func (n NodeId) IsNull() bool {
	return n.Equals(NullNodeId)
}

/*
Equals returns true iff n and other name the same node. The NULL
sentinel is only equal to itself.
*/
func (n NodeId) Equals(other NodeId) bool {
	if n.Namespace != other.Namespace || n.Type != other.Type {
		return false
	}

	switch n.Type {
	case IdTypeNumeric:
		return n.Numeric == other.Numeric
	case IdTypeString:
		return n.Text == other.Text
	case IdTypeGUID:
		return n.GUID == other.GUID
	case IdTypeOpaque:
		return string(n.Opaque) == string(other.Opaque)
	}

	return false
}

/*
Less gives the lexicographic order over NodeIds: namespace, then variant
tag, then variant payload.
*/
func (n NodeId) Less(other NodeId) bool {
	if n.Namespace != other.Namespace {
		return n.Namespace < other.Namespace
	}
	if n.Type != other.Type {
		return n.Type < other.Type
	}

	switch n.Type {
	case IdTypeNumeric:
		return n.Numeric < other.Numeric
	case IdTypeString:
		return n.Text < other.Text
	case IdTypeGUID:
		return n.GUID.String() < other.GUID.String()
	case IdTypeOpaque:
		return string(n.Opaque) < string(other.Opaque)
	}

	return false
}

/*
String renders the textual NodeId form from OPC UA Part 6:
ns=<n>;<tag>=<value>. The default namespace (0) omits the ns= prefix,
matching the published convention for well-known ids.
*/
func (n NodeId) String() string {
	var val string

	switch n.Type {
	case IdTypeNumeric:
		val = fmt.Sprintf("i=%d", n.Numeric)
	case IdTypeString:
		val = fmt.Sprintf("s=%s", n.Text)
	case IdTypeGUID:
		val = fmt.Sprintf("g=%s", n.GUID.String())
	case IdTypeOpaque:
		val = fmt.Sprintf("b=%s", base64.StdEncoding.EncodeToString(n.Opaque))
	}

	if n.Namespace == 0 {
		return val
	}

	return fmt.Sprintf("ns=%d;%s", n.Namespace, val)
}

/*
Key returns the string used as the node store's map key. It is the
textual form: collision-free because it round-trips every field, and a
Go map keyed by string is already an O(1) amortized lookup, so no
separate hash table is needed on top of it.
*/
func (n NodeId) Key() string {
	return n.String()
}

/*
Hash returns a stable 64 bit hash of this NodeId, for embedders that
want their own hash-based indexes over node identifiers.
*/
func (n NodeId) Hash() uint64 {
	h := fnv.New64a()
	h.Write([]byte(n.String()))
	return h.Sum64()
}
