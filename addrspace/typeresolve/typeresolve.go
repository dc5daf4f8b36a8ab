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
Package typeresolve answers questions about the HasSubtype hierarchy
and type-to-instance relationships: is a a subtype of b, what type is
an instance of, what members does a type contribute to its instances.
*/
package typeresolve

import (
	"github.com/krotik/uacore/addrspace"
	"github.com/krotik/uacore/ids"
	"github.com/krotik/uacore/uaerrors"
)

/*
ModellingRule identifies how a type member should be treated by the
instantiator.
*/
type ModellingRule int

const (
	RuleNone ModellingRule = iota
	RuleMandatory
	RuleOptional
	RuleMandatoryPlaceholder
	RuleOptionalPlaceholder
)

/*
TypeMember is one HasComponent/HasProperty child contributed by a type
or one of its ancestors, together with the modelling rule that governs
whether the instantiator must, may, or never materializes it.
*/
type TypeMember struct {
	NodeId ids.NodeId
	Rule   ModellingRule
}

/*
IsSubtypeOfLocked is IsSubtypeOf for a caller that already holds the
store's read lock - used by other functions in this package that walk
several nodes under one lock acquisition, and by cross-package callers
(such as service.Browse) composing their own read with this one.
*/
func IsSubtypeOfLocked(store *addrspace.Store, a, b ids.NodeId) bool {
	if a.Equals(b) {
		return true
	}

	visited := map[string]bool{b.Key(): true}
	queue := []ids.NodeId{b}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		node, err := store.GetLocked(current)
		if err != nil {
			continue
		}

		for _, child := range node.ForwardReferencesOfType(ids.HasSubtypeId) {
			if child.Equals(a) {
				return true
			}
			key := child.Key()
			if !visited[key] {
				visited[key] = true
				queue = append(queue, child)
			}
		}
	}

	return false
}

/*
IsSubtypeOf reports whether a is b itself or a transitive HasSubtype
descendant of b, holding the store's read lock for the whole walk.
*/
func IsSubtypeOf(store *addrspace.Store, a, b ids.NodeId) bool {
	store.RLock()
	defer store.RUnlock()

	return IsSubtypeOfLocked(store, a, b)
}

/*
WouldCycle reports whether linking parent --HasSubtype--> child would
create a cycle in the subtype hierarchy, i.e. whether parent is already
reachable from child by following existing HasSubtype edges. Called
from service.AddReference before any HasSubtype (or a subtype of it)
reference is installed.
*/
func WouldCycle(store *addrspace.Store, child, parent ids.NodeId) bool {
	store.RLock()
	defer store.RUnlock()

	if child.Equals(parent) {
		return true
	}
	return IsSubtypeOfLocked(store, parent, child)
}

/*
TypeDefinitionLocked is TypeDefinition for a caller that already holds
the store's read lock.
*/
func TypeDefinitionLocked(store *addrspace.Store, instance ids.NodeId) (ids.NodeId, *uaerrors.Error) {
	node, err := store.GetLocked(instance)
	if err != nil {
		return ids.NullNodeId, err
	}

	targets := node.ForwardReferencesOfType(ids.HasTypeDefinitionId)
	if len(targets) == 0 {
		return ids.NullNodeId, uaerrors.New(uaerrors.BadTypeDefinitionInvalid, instance.String())
	}

	return targets[0], nil
}

/*
TypeDefinition returns the unique HasTypeDefinition forward-reference
target of instance.
*/
func TypeDefinition(store *addrspace.Store, instance ids.NodeId) (ids.NodeId, *uaerrors.Error) {
	store.RLock()
	defer store.RUnlock()

	return TypeDefinitionLocked(store, instance)
}

/*
modellingRuleOfLocked reads the ModellingRule off member's
HasModellingRule forward reference target, returning RuleNone if it
has none. Callers must hold at least the store's read lock.
*/
func modellingRuleOfLocked(store *addrspace.Store, member ids.NodeId) ModellingRule {
	node, err := store.GetLocked(member)
	if err != nil {
		return RuleNone
	}

	targets := node.ForwardReferencesOfType(ids.HasModellingRuleId)
	if len(targets) == 0 {
		return RuleNone
	}

	switch {
	case targets[0].Equals(ids.ModellingRuleMandatoryId):
		return RuleMandatory
	case targets[0].Equals(ids.ModellingRuleOptionalId):
		return RuleOptional
	case targets[0].Equals(ids.ModellingRuleMandatoryPlaceholderId):
		return RuleMandatoryPlaceholder
	case targets[0].Equals(ids.ModellingRuleOptionalPlaceholderId):
		return RuleOptionalPlaceholder
	}

	return RuleNone
}

/*
TypeChildren walks the subtype chain from typeId up to its root
ancestor, collecting every HasComponent/HasProperty child along the
way. A BrowseName contributed by a more-derived type suppresses the
same BrowseName inherited from an ancestor - the walk runs
most-derived first and only adds a child the first time its BrowseName
is seen. If filter is not RuleNone, only members carrying that exact
modelling rule are returned. The store's read lock is held for the
entire walk, so the result reflects one consistent snapshot of the
hierarchy rather than racing a concurrent AddReference/DeleteNode call.
*/
func TypeChildren(store *addrspace.Store, typeId ids.NodeId, filter ModellingRule) []TypeMember {
	store.RLock()
	defer store.RUnlock()

	seenNames := map[string]bool{}
	var out []TypeMember

	current := typeId
	for {
		node, err := store.GetLocked(current)
		if err != nil {
			break
		}

		children := node.ForwardReferencesOfType(ids.HasComponentId)
		children = append(children, node.ForwardReferencesOfType(ids.HasPropertyId)...)

		for _, child := range children {
			childNode, err := store.GetLocked(child)
			if err != nil {
				continue
			}

			name := childNode.BrowseName.String()
			if seenNames[name] {
				continue
			}
			seenNames[name] = true

			rule := modellingRuleOfLocked(store, child)
			if filter != RuleNone && rule != filter {
				continue
			}

			out = append(out, TypeMember{NodeId: child, Rule: rule})
		}

		superType, ok := SuperTypeLocked(store, current)
		if !ok {
			break
		}
		current = superType
	}

	return out
}

/*
SuperTypeLocked is SuperType for a caller that already holds the
store's read lock.
*/
func SuperTypeLocked(store *addrspace.Store, id ids.NodeId) (ids.NodeId, bool) {
	node, err := store.GetLocked(id)
	if err != nil {
		return ids.NullNodeId, false
	}

	for _, r := range node.References {
		if !r.IsForward && r.ReferenceType.Equals(ids.HasSubtypeId) {
			return r.TargetId, true
		}
	}

	return ids.NullNodeId, false
}

/*
SuperType returns id's immediate HasSubtype ancestor, if any, taking
the read lock for the single lookup. Exported for callers that need to
inspect one hop of the hierarchy rather than collecting members; a
caller walking several hops under one lock (such as
lifecycle.MostDerivedHooks) should use SuperTypeLocked instead.
*/
func SuperType(store *addrspace.Store, id ids.NodeId) (ids.NodeId, bool) {
	store.RLock()
	defer store.RUnlock()

	return SuperTypeLocked(store, id)
}
