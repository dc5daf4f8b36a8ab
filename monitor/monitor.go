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
Package monitor fans out address-space mutations to connected debug
clients over a websocket, without the node-management service ever
knowing who, if anyone, is listening.
*/
package monitor

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/krotik/uacore/ids"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

/*
conn wraps one websocket connection. Reads and writes each need their
own mutex since gorilla/websocket only supports one concurrent reader
and one concurrent writer per connection.
*/
type conn struct {
	id     string
	ws     *websocket.Conn
	rmutex sync.Mutex
	wmutex sync.Mutex
}

func (c *conn) write(v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}

	c.wmutex.Lock()
	defer c.wmutex.Unlock()

	return c.ws.WriteMessage(websocket.TextMessage, data)
}

func (c *conn) readLoop() {
	for {
		c.rmutex.Lock()
		_, _, err := c.ws.ReadMessage()
		c.rmutex.Unlock()

		if err != nil {
			return
		}
	}
}

/*
Hub tracks every connected debug client and implements
service.EventSink, broadcasting each mutation as a JSON event to all
of them.
*/
type Hub struct {
	mutex sync.RWMutex
	conns map[string]*conn
}

/*
NewHub creates an empty Hub.
*/
func NewHub() *Hub {
	return &Hub{conns: make(map[string]*conn)}
}

/*
Handler upgrades an incoming HTTP request to a websocket and keeps the
connection registered in the hub until the client disconnects. It is
meant to be mounted under a single path on the demo's http.Server.
*/
func (h *Hub) Handler(w http.ResponseWriter, r *http.Request) {
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	c := &conn{id: uuid.NewString(), ws: ws}

	h.mutex.Lock()
	h.conns[c.id] = c
	h.mutex.Unlock()

	defer func() {
		h.mutex.Lock()
		delete(h.conns, c.id)
		h.mutex.Unlock()
		ws.Close()
	}()

	c.readLoop()
}

func (h *Hub) broadcast(v interface{}) {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	for _, c := range h.conns {
		go c.write(v)
	}
}

/*
NodeCreated implements service.EventSink.
*/
func (h *Hub) NodeCreated(id ids.NodeId) {
	h.broadcast(map[string]string{"type": "NodeCreated", "nodeId": id.String()})
}

/*
NodeUpdated implements service.EventSink.
*/
func (h *Hub) NodeUpdated(id ids.NodeId) {
	h.broadcast(map[string]string{"type": "NodeUpdated", "nodeId": id.String()})
}

/*
NodeDeleted implements service.EventSink.
*/
func (h *Hub) NodeDeleted(id ids.NodeId) {
	h.broadcast(map[string]string{"type": "NodeDeleted", "nodeId": id.String()})
}

/*
ReferenceAdded implements service.EventSink.
*/
func (h *Hub) ReferenceAdded(source, refType, target ids.NodeId, isForward bool) {
	h.broadcast(map[string]interface{}{
		"type":      "ReferenceAdded",
		"source":    source.String(),
		"refType":   refType.String(),
		"target":    target.String(),
		"isForward": isForward,
	})
}

/*
ReferenceRemoved implements service.EventSink.
*/
func (h *Hub) ReferenceRemoved(source, refType, target ids.NodeId, isForward bool) {
	h.broadcast(map[string]interface{}{
		"type":      "ReferenceRemoved",
		"source":    source.String(),
		"refType":   refType.String(),
		"target":    target.String(),
		"isForward": isForward,
	})
}

/*
ConstructorInvoked implements service.EventSink.
*/
func (h *Hub) ConstructorInvoked(instance, typeDefinitionId ids.NodeId) {
	h.broadcast(map[string]string{
		"type":     "ConstructorInvoked",
		"instance": instance.String(),
		"typeId":   typeDefinitionId.String(),
	})
}
