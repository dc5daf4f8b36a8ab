/*
 * uacore
 *
 * Copyright 2016 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package values

import "testing"

func TestScalarVariant(t *testing.T) {
	v := NewInt32(42)

	if !v.IsScalar() {
		t.Error("Int32 variant should be scalar")
		return
	}

	if v.ValueRank != ScalarRank {
		t.Error("Unexpected value rank:", v.ValueRank)
		return
	}

	if res := v.String(); res != "42" {
		t.Error("Unexpected string form:", res)
		return
	}
}

func TestArrayVariant(t *testing.T) {
	v := NewArray(VariantInt32, 1, []any{int32(1), int32(2), int32(3)})

	if v.IsScalar() {
		t.Error("Array variant should not be scalar")
		return
	}

	if len(v.Array) != 3 {
		t.Error("Unexpected array length:", len(v.Array))
		return
	}
}

func TestLocalizedText(t *testing.T) {
	v := NewLocalizedText("en", "Pump")

	lt, ok := v.Scalar.(LocalizedText)
	if !ok {
		t.Error("Expected LocalizedText scalar")
		return
	}

	if lt.String() != "Pump" {
		t.Error("Unexpected text:", lt.String())
		return
	}
}

func TestNullVariant(t *testing.T) {
	if res := NewNull().String(); res != "<null>" {
		t.Error("Unexpected string form:", res)
		return
	}
}
