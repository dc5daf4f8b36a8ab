/*
 * uacore
 *
 * Copyright 2016 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package bootstrap

import (
	"testing"

	"github.com/krotik/uacore/addrspace"
	"github.com/krotik/uacore/addrspace/typeresolve"
	"github.com/krotik/uacore/ids"
)

func TestPopulateBuildsExpectedHierarchy(t *testing.T) {
	store := addrspace.NewStore()

	if err := Populate(store); err != nil {
		t.Fatal(err)
	}

	if !typeresolve.IsSubtypeOf(store, ids.HasComponentId, ids.ReferencesId) {
		t.Error("expected HasComponent to be a transitive subtype of References")
	}

	if !typeresolve.IsSubtypeOf(store, ids.Int32Id, ids.BaseDataTypeId) {
		t.Error("expected Int32 to be a subtype of BaseDataType")
	}

	typeDef, err := typeresolve.TypeDefinition(store, ids.ObjectsFolderId)
	if err != nil || !typeDef.Equals(ids.FolderTypeId) {
		t.Errorf("expected the Objects folder to be typed to FolderType, got %v (err=%v)", typeDef, err)
	}

	children, gerr := addrspace.Neighbors(store, ids.RootFolderId, ids.OrganizesId, addrspace.DirForward, false, nil)
	if gerr != nil {
		t.Fatal(gerr)
	}
	if len(children) != 2 {
		t.Errorf("expected Root to organize exactly Objects and Types, got %d children", len(children))
	}
}

func TestPopulateRejectsSecondCall(t *testing.T) {
	store := addrspace.NewStore()

	if err := Populate(store); err != nil {
		t.Fatal(err)
	}

	if err := Populate(store); err == nil {
		t.Error("expected populating an already-bootstrapped store to fail on the first duplicate id")
	}
}
