/*
 * uacore
 *
 * Copyright 2016 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package service

import "sync"

/*
writeSerializer enforces that at most one AddNode/AddReference/
DeleteNode/DeleteReference call runs at a time, independent of the
Store's own RWMutex, which protects the node map itself: each store
primitive takes it briefly, and Browse and the attribute reads hold
its read side for the whole of their call. A mutating call holds
writeSerializer for its
entire duration so two writers can never interleave their validation
and mutation steps - this is what makes "mid-operation failure must
leave the address space exactly as it was before the call" true for
operations, like instantiation, that touch several nodes one at a
time rather than through a single locked region.
*/
type writeSerializer struct {
	mutex sync.Mutex
}

func (w *writeSerializer) beginWrite() func() {
	w.mutex.Lock()
	return w.mutex.Unlock
}
