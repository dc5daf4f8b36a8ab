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
Package uaerrors contains the address space's error taxonomy, aligned
with the OPC UA status code space.
*/
package uaerrors

import "fmt"

/*
StatusCode is a status drawn from the OPC UA status code space.
*/
type StatusCode int

const (
	Good StatusCode = iota
	BadNodeIdExists
	BadNodeIdInvalid
	BadParentNodeIdInvalid
	BadReferenceTypeIdInvalid
	BadTypeDefinitionInvalid
	BadBrowseNameDuplicated
	BadNotFound
	BadOutOfMemory
	BadInternalError
	BadDuplicateReferenceNotAllowed
	BadReferenceLocalOnly
	BadNoMatch
)

/*
String returns the canonical OPC UA status code name.
*/
func (c StatusCode) String() string {
	switch c {
	case Good:
		return "Good"
	case BadNodeIdExists:
		return "BadNodeIdExists"
	case BadNodeIdInvalid:
		return "BadNodeIdInvalid"
	case BadParentNodeIdInvalid:
		return "BadParentNodeIdInvalid"
	case BadReferenceTypeIdInvalid:
		return "BadReferenceTypeIdInvalid"
	case BadTypeDefinitionInvalid:
		return "BadTypeDefinitionInvalid"
	case BadBrowseNameDuplicated:
		return "BadBrowseNameDuplicated"
	case BadNotFound:
		return "BadNotFound"
	case BadOutOfMemory:
		return "BadOutOfMemory"
	case BadInternalError:
		return "BadInternalError"
	case BadDuplicateReferenceNotAllowed:
		return "BadDuplicateReferenceNotAllowed"
	case BadReferenceLocalOnly:
		return "BadReferenceLocalOnly"
	case BadNoMatch:
		return "BadNoMatch"
	}
	return "Unknown"
}

/*
Error is an address-space related error.
*/
type Error struct {
	Code   StatusCode // Status code (to be used for equality checks)
	Detail string     // Details of this error
}

/*
New creates a new Error with the given status code and detail string.
*/
func New(code StatusCode, detail string) *Error {
	return &Error{Code: code, Detail: detail}
}

/*
Error returns a human-readable string representation of this error.
*/
func (e *Error) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%v: %v", e.Code, e.Detail)
	}
	return e.Code.String()
}

/*
Is returns true if target is an *Error with the same status code,
allowing callers to use errors.Is against a sentinel built with New.
*/
func (e *Error) Is(target error) bool {
	other, ok := target.(*Error)
	return ok && other.Code == e.Code
}
