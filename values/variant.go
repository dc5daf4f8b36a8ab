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
Package values holds the tagged attribute-value variant used by
Variable and VariableType nodes.
*/
package values

import "fmt"

/*
VariantType identifies the built-in OPC UA type carried by a Variant.
*/
type VariantType int

const (
	VariantNull VariantType = iota
	VariantBoolean
	VariantInt32
	VariantUInt32
	VariantInt64
	VariantDouble
	VariantString
	VariantLocalizedText
	VariantNodeId
	VariantByteString
)

/*
String returns a human-readable name for the variant type.
*/
func (t VariantType) String() string {
	switch t {
	case VariantNull:
		return "Null"
	case VariantBoolean:
		return "Boolean"
	case VariantInt32:
		return "Int32"
	case VariantUInt32:
		return "UInt32"
	case VariantInt64:
		return "Int64"
	case VariantDouble:
		return "Double"
	case VariantString:
		return "String"
	case VariantLocalizedText:
		return "LocalizedText"
	case VariantNodeId:
		return "NodeId"
	case VariantByteString:
		return "ByteString"
	}
	return "Unknown"
}

/*
ScalarRank is the valueRank convention for a scalar value (OPC UA Part 3).
*/
const ScalarRank = -1

/*
LocalizedText pairs a locale identifier with its translated text.
*/
type LocalizedText struct {
	Locale string
	Text   string
}

/*
String returns the text component, ignoring the locale.
*/
func (l LocalizedText) String() string {
	return l.Text
}

/*
Variant is a tagged attribute value: either a single scalar or an
array, never both. ValueRank determines which field is populated:
ScalarRank (-1) for Scalar, any value >= 0 for Array.
*/
type Variant struct {
	Type      VariantType
	ValueRank int
	Scalar    any
	Array     []any
}

func newScalar(t VariantType, v any) Variant {
	return Variant{Type: t, ValueRank: ScalarRank, Scalar: v}
}

/*
NewNull creates the null variant.
*/
func NewNull() Variant {
	return Variant{Type: VariantNull, ValueRank: ScalarRank}
}

/*
NewBoolean creates a scalar Boolean variant.
*/
func NewBoolean(v bool) Variant {
	return newScalar(VariantBoolean, v)
}

/*
NewInt32 creates a scalar Int32 variant.
*/
func NewInt32(v int32) Variant {
	return newScalar(VariantInt32, v)
}

/*
NewUInt32 creates a scalar UInt32 variant.
*/
func NewUInt32(v uint32) Variant {
	return newScalar(VariantUInt32, v)
}

/*
NewInt64 creates a scalar Int64 variant.
*/
func NewInt64(v int64) Variant {
	return newScalar(VariantInt64, v)
}

/*
NewDouble creates a scalar Double variant.
*/
func NewDouble(v float64) Variant {
	return newScalar(VariantDouble, v)
}

/*
NewString creates a scalar String variant.
*/
func NewString(v string) Variant {
	return newScalar(VariantString, v)
}

/*
NewLocalizedText creates a scalar LocalizedText variant.
*/
func NewLocalizedText(locale, text string) Variant {
	return newScalar(VariantLocalizedText, LocalizedText{Locale: locale, Text: text})
}

/*
NewByteString creates a scalar ByteString variant.
*/
func NewByteString(v []byte) Variant {
	return newScalar(VariantByteString, append([]byte(nil), v...))
}

/*
NewArray creates an array variant of the given built-in type and
dimensionality (ValueRank must be >= 0; 1 for a simple list).
*/
func NewArray(t VariantType, valueRank int, elems []any) Variant {
	if valueRank < 0 {
		valueRank = 1
	}
	return Variant{Type: t, ValueRank: valueRank, Array: append([]any(nil), elems...)}
}

/*
IsScalar returns true if this variant carries a single value rather
than an array.
*/
func (v Variant) IsScalar() bool {
	return v.ValueRank == ScalarRank
}

/*
String renders a best-effort representation of the variant, following
the same best-effort-printing convention node attribute values use
elsewhere in this module.
*/
func (v Variant) String() string {
	if v.Type == VariantNull {
		return "<null>"
	}

	if v.IsScalar() {
		return fmt.Sprintf("%v", v.Scalar)
	}

	return fmt.Sprintf("%v", v.Array)
}
