/*
 * uacore
 *
 * Copyright 2016 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package ids

/*
NamespaceZero is the namespace index reserved for the standard OPC UA
information model, populated once at server bootstrap.
*/
const NamespaceZero uint16 = 0

/*
Well-known numeric identifiers in NamespaceZero, as published in OPC UA
Part 6. These are the only NodeIds the address-space core itself ever
hard-codes; everything else is created through the node-management
service.
*/
var (
	ReferencesId             = NewNumericNodeId(NamespaceZero, 31)
	HierarchicalReferencesId = NewNumericNodeId(NamespaceZero, 33)
	HasChildId                = NewNumericNodeId(NamespaceZero, 34)
	OrganizesId               = NewNumericNodeId(NamespaceZero, 35)
	HasModellingRuleId        = NewNumericNodeId(NamespaceZero, 37)
	HasTypeDefinitionId       = NewNumericNodeId(NamespaceZero, 40)
	HasSubtypeId              = NewNumericNodeId(NamespaceZero, 45)
	AggregatesId              = NewNumericNodeId(NamespaceZero, 44)
	HasPropertyId             = NewNumericNodeId(NamespaceZero, 46)
	HasComponentId            = NewNumericNodeId(NamespaceZero, 47)

	BooleanId      = NewNumericNodeId(NamespaceZero, 1)
	Int32Id        = NewNumericNodeId(NamespaceZero, 6)
	UInt32Id       = NewNumericNodeId(NamespaceZero, 7)
	Int64Id        = NewNumericNodeId(NamespaceZero, 8)
	DoubleId       = NewNumericNodeId(NamespaceZero, 11)
	StringId       = NewNumericNodeId(NamespaceZero, 12)
	LocalizedTextId = NewNumericNodeId(NamespaceZero, 21)
	BaseDataTypeId = NewNumericNodeId(NamespaceZero, 24)

	BaseObjectTypeId       = NewNumericNodeId(NamespaceZero, 58)
	BaseVariableTypeId     = NewNumericNodeId(NamespaceZero, 62)
	BaseDataVariableTypeId = NewNumericNodeId(NamespaceZero, 63)
	PropertyTypeId         = NewNumericNodeId(NamespaceZero, 68)
	FolderTypeId           = NewNumericNodeId(NamespaceZero, 61)

	ModellingRuleMandatoryId            = NewNumericNodeId(NamespaceZero, 78)
	ModellingRuleOptionalId             = NewNumericNodeId(NamespaceZero, 80)
	ModellingRuleMandatoryPlaceholderId = NewNumericNodeId(NamespaceZero, 77)
	ModellingRuleOptionalPlaceholderId  = NewNumericNodeId(NamespaceZero, 79)

	RootFolderId    = NewNumericNodeId(NamespaceZero, 84)
	ObjectsFolderId = NewNumericNodeId(NamespaceZero, 85)
	TypesFolderId   = NewNumericNodeId(NamespaceZero, 86)
)
