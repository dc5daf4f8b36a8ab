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
Package bootstrap populates namespace 0 - the standard reference
types, data types, object/variable types and root folders every OPC
UA server starts from - directly in the store, bypassing the
node-management service the way a real server's own startup code does.
*/
package bootstrap

import (
	"github.com/krotik/uacore/addrspace"
	"github.com/krotik/uacore/ids"
	"github.com/krotik/uacore/uaerrors"
)

func referenceType(id ids.NodeId, name string, abstract, symmetric bool, inverseName string) *addrspace.Node {
	node := addrspace.NewNode(id, addrspace.ClassReferenceType, ids.NewQualifiedName(ids.NamespaceZero, name))
	node.DisplayName.Text = name
	node.Type = &addrspace.TypeAttributes{IsAbstract: abstract, Symmetric: symmetric, InverseName: inverseName}
	return node
}

func dataType(id ids.NodeId, name string, abstract bool) *addrspace.Node {
	node := addrspace.NewNode(id, addrspace.ClassDataType, ids.NewQualifiedName(ids.NamespaceZero, name))
	node.DisplayName.Text = name
	node.Type = &addrspace.TypeAttributes{IsAbstract: abstract}
	return node
}

func objectType(id ids.NodeId, name string, abstract bool) *addrspace.Node {
	node := addrspace.NewNode(id, addrspace.ClassObjectType, ids.NewQualifiedName(ids.NamespaceZero, name))
	node.DisplayName.Text = name
	node.Type = &addrspace.TypeAttributes{IsAbstract: abstract}
	return node
}

func variableType(id ids.NodeId, name string, abstract bool) *addrspace.Node {
	node := addrspace.NewNode(id, addrspace.ClassVariableType, ids.NewQualifiedName(ids.NamespaceZero, name))
	node.DisplayName.Text = name
	node.Type = &addrspace.TypeAttributes{IsAbstract: abstract}
	return node
}

func object(id ids.NodeId, name string) *addrspace.Node {
	node := addrspace.NewNode(id, addrspace.ClassObject, ids.NewQualifiedName(ids.NamespaceZero, name))
	node.DisplayName.Text = name
	return node
}

type subtypeLink struct {
	super, sub ids.NodeId
}

/*
Populate inserts the standard namespace-0 nodes into store. It is
meant to run once, against an empty store, before any client or the
node-management service touches it.
*/
func Populate(store *addrspace.Store) *uaerrors.Error {
	nodes := []*addrspace.Node{
		referenceType(ids.ReferencesId, "References", true, true, "References"),
		referenceType(ids.HierarchicalReferencesId, "HierarchicalReferences", true, false, "HierarchicalReferences"),
		referenceType(ids.HasChildId, "HasChild", true, false, "ChildOf"),
		referenceType(ids.AggregatesId, "Aggregates", true, false, "AggregatedBy"),
		referenceType(ids.HasComponentId, "HasComponent", false, false, "ComponentOf"),
		referenceType(ids.HasPropertyId, "HasProperty", false, false, "PropertyOf"),
		referenceType(ids.HasSubtypeId, "HasSubtype", false, false, "SubtypeOf"),
		referenceType(ids.OrganizesId, "Organizes", false, false, "OrganizedBy"),
		referenceType(ids.HasTypeDefinitionId, "HasTypeDefinition", false, false, "TypeDefinitionOf"),
		referenceType(ids.HasModellingRuleId, "HasModellingRule", false, false, "ModellingRuleOf"),

		dataType(ids.BaseDataTypeId, "BaseDataType", true),
		dataType(ids.BooleanId, "Boolean", false),
		dataType(ids.Int32Id, "Int32", false),
		dataType(ids.UInt32Id, "UInt32", false),
		dataType(ids.Int64Id, "Int64", false),
		dataType(ids.DoubleId, "Double", false),
		dataType(ids.StringId, "String", false),
		dataType(ids.LocalizedTextId, "LocalizedText", false),

		objectType(ids.BaseObjectTypeId, "BaseObjectType", true),
		objectType(ids.FolderTypeId, "FolderType", false),

		variableType(ids.BaseVariableTypeId, "BaseVariableType", true),
		variableType(ids.BaseDataVariableTypeId, "BaseDataVariableType", false),
		variableType(ids.PropertyTypeId, "PropertyType", false),

		object(ids.ModellingRuleMandatoryId, "Mandatory"),
		object(ids.ModellingRuleOptionalId, "Optional"),
		object(ids.ModellingRuleMandatoryPlaceholderId, "MandatoryPlaceholder"),
		object(ids.ModellingRuleOptionalPlaceholderId, "OptionalPlaceholder"),

		object(ids.RootFolderId, "Root"),
		object(ids.ObjectsFolderId, "Objects"),
		object(ids.TypesFolderId, "Types"),
	}

	for _, n := range nodes {
		if _, err := store.Insert(n); err != nil {
			return err
		}
	}

	subtypes := []subtypeLink{
		{ids.ReferencesId, ids.HierarchicalReferencesId},
		{ids.HierarchicalReferencesId, ids.HasChildId},
		{ids.HierarchicalReferencesId, ids.OrganizesId},
		{ids.HasChildId, ids.AggregatesId},
		{ids.HasChildId, ids.HasSubtypeId},
		{ids.AggregatesId, ids.HasComponentId},
		{ids.AggregatesId, ids.HasPropertyId},
		{ids.ReferencesId, ids.HasTypeDefinitionId},
		{ids.ReferencesId, ids.HasModellingRuleId},

		{ids.BaseDataTypeId, ids.BooleanId},
		{ids.BaseDataTypeId, ids.Int32Id},
		{ids.BaseDataTypeId, ids.UInt32Id},
		{ids.BaseDataTypeId, ids.Int64Id},
		{ids.BaseDataTypeId, ids.DoubleId},
		{ids.BaseDataTypeId, ids.StringId},
		{ids.BaseDataTypeId, ids.LocalizedTextId},

		{ids.BaseObjectTypeId, ids.FolderTypeId},
		{ids.BaseVariableTypeId, ids.BaseDataVariableTypeId},
		{ids.BaseVariableTypeId, ids.PropertyTypeId},
	}

	for _, link := range subtypes {
		if err := addrspace.AddReferencePair(store, link.super, ids.HasSubtypeId, link.sub, true); err != nil {
			return err
		}
	}

	typedFolders := []ids.NodeId{ids.RootFolderId, ids.ObjectsFolderId, ids.TypesFolderId}
	for _, f := range typedFolders {
		if err := addrspace.AddReferencePair(store, f, ids.HasTypeDefinitionId, ids.FolderTypeId, true); err != nil {
			return err
		}
	}

	if err := addrspace.AddReferencePair(store, ids.RootFolderId, ids.OrganizesId, ids.ObjectsFolderId, true); err != nil {
		return err
	}
	if err := addrspace.AddReferencePair(store, ids.RootFolderId, ids.OrganizesId, ids.TypesFolderId, true); err != nil {
		return err
	}

	return nil
}
