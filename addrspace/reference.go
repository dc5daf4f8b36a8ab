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

import "github.com/krotik/uacore/ids"

/*
Reference is a typed directed edge held by one endpoint. A reference
pair consists of two such records, one on each endpoint, with opposing
IsForward - spec.md §3's "(sourceId, referenceTypeId, targetId,
isForward)", stored redundantly in both endpoints' reference lists
(spec.md §9: adjacency lists live inside each node, not in a separate
ownership graph).
*/
type Reference struct {
	OwnerId       ids.NodeId // The node this record is attached to
	ReferenceType ids.NodeId
	TargetId      ids.NodeId // The node at the other end
	IsForward     bool
}

/*
Target returns the id of the node at the other end of this reference
record.
*/
func (r Reference) Target() ids.NodeId {
	return r.TargetId
}

/*
Invert returns the matching reference record that the other endpoint
of this reference pair should hold.
*/
func (r Reference) Invert() Reference {
	return Reference{
		OwnerId:       r.TargetId,
		ReferenceType: r.ReferenceType,
		TargetId:      r.OwnerId,
		IsForward:     !r.IsForward,
	}
}
