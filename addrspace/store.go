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
	"sync"

	"github.com/krotik/uacore/ids"
	"github.com/krotik/uacore/uaerrors"
)

/*
ServerNamespace is the dedicated namespace index into which the store
assigns fresh numeric ids for nodes inserted with the NULL NodeId.
*/
const ServerNamespace = 1

/*
Store is the in-memory, namespace-independent set of nodes that makes
up the address space. It owns the single sync.RWMutex that implements
spec.md §5's "reader-writer protected store" concurrency option:
readers take RLock, and each mutating primitive (Insert, Remove,
AddReferencePair, RemoveReferencePair, ...) takes Lock for its own
duration. Whole AddNode/AddReference/DeleteNode/DeleteReference calls
are serialized against each other by the service layer's own write
mutex, not by holding this lock.
*/
type Store struct {
	mutex   sync.RWMutex
	nodes   map[string]*Node
	counter uint32 // Next free numeric id in ServerNamespace
}

/*
NewStore creates an empty node store.
*/
func NewStore() *Store {
	return &Store{
		nodes:   make(map[string]*Node),
		counter: 1,
	}
}

/*
Lock acquires the store's exclusive (writer) capability.
*/
func (s *Store) Lock() {
	s.mutex.Lock()
}

/*
Unlock releases the store's exclusive (writer) capability.
*/
func (s *Store) Unlock() {
	s.mutex.Unlock()
}

/*
RLock acquires the store's shared (reader) capability.
*/
func (s *Store) RLock() {
	s.mutex.RLock()
}

/*
RUnlock releases the store's shared (reader) capability.
*/
func (s *Store) RUnlock() {
	s.mutex.RUnlock()
}

/*
AllocateId assigns a fresh numeric NodeId in ServerNamespace. Callers
must hold the write lock.
*/
func (s *Store) AllocateId() ids.NodeId {
	id := ids.NewNumericNodeId(ServerNamespace, s.counter)
	s.counter++
	return id
}

/*
insertLocked adds node to the store. Callers must hold the write lock.
A NULL node.Id is replaced with a freshly allocated id.
*/
func (s *Store) insertLocked(node *Node) (ids.NodeId, *uaerrors.Error) {
	if node.Id.IsNull() {
		node.Id = s.AllocateId()
	}

	key := node.Id.Key()

	if _, exists := s.nodes[key]; exists {
		return ids.NullNodeId, uaerrors.New(uaerrors.BadNodeIdExists, node.Id.String())
	}

	s.nodes[key] = node

	return node.Id, nil
}

/*
Insert adds node to the store under the write lock, assigning a fresh
id if node.Id is NULL. Returns the (possibly newly assigned) id.
*/
func (s *Store) Insert(node *Node) (ids.NodeId, *uaerrors.Error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	return s.insertLocked(node)
}

/*
Get looks up a node for reading, taking the read lock for the duration
of the lookup only. The returned pointer is the live node: a caller
that keeps dereferencing it after Get returns - walking References,
reading Variable.Value - is no longer protected by any lock and must
hold RLock (or Lock, to write) itself for as long as it keeps using the
pointer. Use GetLocked instead when the lock is already held.
*/
func (s *Store) Get(id ids.NodeId) (*Node, *uaerrors.Error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	return s.GetLocked(id)
}

/*
GetLocked looks up a node for reading without taking any lock itself.
Callers must hold at least the read lock for as long as they keep using
the returned pointer.
*/
func (s *Store) GetLocked(id ids.NodeId) (*Node, *uaerrors.Error) {
	node, ok := s.nodes[id.Key()]
	if !ok {
		return nil, uaerrors.New(uaerrors.BadNotFound, id.String())
	}
	return node, nil
}

/*
existsLocked returns true if a node with the given id is present.
Callers must hold at least the read lock.
*/
func (s *Store) existsLocked(id ids.NodeId) bool {
	_, ok := s.nodes[id.Key()]
	return ok
}

/*
Exists returns true if a node with the given id is present.
*/
func (s *Store) Exists(id ids.NodeId) bool {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	return s.existsLocked(id)
}

/*
removeLocked removes and returns a node. Callers must hold the write
lock.
*/
func (s *Store) removeLocked(id ids.NodeId) (*Node, *uaerrors.Error) {
	key := id.Key()

	node, ok := s.nodes[key]
	if !ok {
		return nil, uaerrors.New(uaerrors.BadNotFound, id.String())
	}

	delete(s.nodes, key)

	return node, nil
}

/*
Remove removes a node from the store under the write lock. It does
not touch any references that mention the node - callers are expected
to clean those up first (see addrspace/service.DeleteNode).
*/
func (s *Store) Remove(id ids.NodeId) (*Node, *uaerrors.Error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	return s.removeLocked(id)
}

/*
All returns every node currently in the store. Iteration order is
insertion-order-independent, matching spec.md §4.2's contract.
*/
func (s *Store) All() []*Node {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	out := make([]*Node, 0, len(s.nodes))
	for _, n := range s.nodes {
		out = append(out, n)
	}
	return out
}

/*
Count returns the number of nodes currently in the store.
*/
func (s *Store) Count() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	return len(s.nodes)
}
