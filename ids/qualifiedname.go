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

import "fmt"

/*
QualifiedName is a namespaced browse name.
*/
type QualifiedName struct {
	NamespaceIndex uint16
	Name           string
}

/*
NewQualifiedName creates a QualifiedName in the given namespace.
*/
func NewQualifiedName(ns uint16, name string) QualifiedName {
	return QualifiedName{NamespaceIndex: ns, Name: name}
}

/*
Equals returns true iff q and other name the same qualified name.
*/
func (q QualifiedName) Equals(other QualifiedName) bool {
	return q.NamespaceIndex == other.NamespaceIndex && q.Name == other.Name
}

/*
String renders the qualified name as "<ns>:<name>", omitting the
namespace prefix for namespace 0.
*/
func (q QualifiedName) String() string {
	if q.NamespaceIndex == 0 {
		return q.Name
	}
	return fmt.Sprintf("%d:%s", q.NamespaceIndex, q.Name)
}
