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
Package scripting lets an embedder implement lifecycle constructors
and destructors as ECAL scripts instead of Go closures: constructing
or destroying an instance of a scripted type fires an ECAL event the
entry script can subscribe a sink to.
*/
package scripting

import (
	"fmt"
	"io/ioutil"
	"path/filepath"
	"sync"

	"github.com/krotik/common/fileutil"
	"github.com/krotik/ecal/cli/tool"
	"github.com/krotik/ecal/engine"
	"github.com/krotik/ecal/parser"
	"github.com/krotik/ecal/stdlib"

	"github.com/krotik/uacore/addrspace/lifecycle"
	"github.com/krotik/uacore/ids"
)

/*
Handle is the lifecycle handle a scripted constructor hands back:
whatever fields the constructing sink passed to uacore.setResult,
unconverted from their ECAL representation.
*/
type Handle map[string]interface{}

const dummyEntryFile = `0 # Write your lifecycle scripts here
`

/*
Session runs one ECAL interpreter instance and exposes its event
processor as a source of lifecycle.Hooks.
*/
type Session struct {
	Dir       string
	EntryFile string
	LogLevel  string
	LogFile   string

	interpreter *tool.CLIInterpreter

	mutex   sync.Mutex
	results map[string]Handle
}

/*
NewSession creates a scripting session rooted at scriptDir. scriptDir
is expected to contain (or will be seeded with) main.ecal, the entry
script that subscribes sinks to the constructed/destructed events
Hooks fires.
*/
func NewSession(scriptDir string) *Session {
	return &Session{
		Dir:       scriptDir,
		EntryFile: filepath.Join(scriptDir, "main.ecal"),
		LogLevel:  "Info",
		results:   make(map[string]Handle),
	}
}

/*
Start ensures an entry script exists, then loads and runs it,
registering the uacore stdlib function scripts use to hand a
constructor's result back to Go.
*/
func (s *Session) Start() error {
	if ok, _ := fileutil.PathExists(s.EntryFile); !ok {
		if err := ioutil.WriteFile(s.EntryFile, []byte(dummyEntryFile), 0600); err != nil {
			return err
		}
	}

	i := tool.NewCLIInterpreter()
	s.interpreter = i

	i.Dir = &s.Dir
	i.LogFile = &s.LogFile
	i.LogLevel = &s.LogLevel
	i.EntryFile = s.EntryFile
	i.LoadPlugins = true

	i.CreateRuntimeProvider("uacore-runtime")

	addStdlibFunctions(s)

	return i.Interpret(false)
}

func (s *Session) processor() engine.Processor {
	return s.interpreter.RuntimeProvider.Processor
}

func (s *Session) setResult(nodeId string, h Handle) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.results[nodeId] = h
}

func (s *Session) takeResult(nodeId string) Handle {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	h := s.results[nodeId]
	delete(s.results, nodeId)
	return h
}

/*
Hooks returns the lifecycle.Hooks a Registry should install for
typeName: construction fires a "uacore.node.<typeName>.constructed"
event and waits for every sink to finish; if a sink called
uacore.setResult for this node, that becomes its Handle. Destruction
fires the matching "...destructed" event with the Handle back in
scope and does not wait for or report sink errors, matching the rule
that destructors are best-effort notifications.
*/
func (s *Session) Hooks(typeName string) lifecycle.Hooks[Handle] {
	constructedKind := []string{"uacore", "node", typeName, "constructed"}
	destructedKind := []string{"uacore", "node", typeName, "destructed"}

	return lifecycle.Hooks[Handle]{
		Constructor: func(instance ids.NodeId) (Handle, error) {
			nodeId := instance.String()

			event := engine.NewEvent(fmt.Sprintf("uacore: %v constructed", typeName),
				constructedKind, map[interface{}]interface{}{"nodeId": nodeId})

			m, err := s.processor().AddEventAndWait(event, nil)
			if err != nil {
				return nil, err
			}

			if errs := m.(*engine.RootMonitor).AllErrors(); len(errs) > 0 {
				return nil, fmt.Errorf("constructor script for %v failed on %v: %v", typeName, nodeId, errs)
			}

			return s.takeResult(nodeId), nil
		},
		Destructor: func(instance ids.NodeId, handle Handle) {
			nodeId := instance.String()

			state := map[interface{}]interface{}{"nodeId": nodeId}
			for k, v := range handle {
				state[k] = v
			}

			event := engine.NewEvent(fmt.Sprintf("uacore: %v destructed", typeName), destructedKind, state)

			s.processor().AddEvent(event, nil)
		},
	}
}

func addStdlibFunctions(s *Session) {
	// Scripts call uacore.setResult(nodeId, map) from inside a
	// "...constructed" sink to hand their result back as the instance's
	// lifecycle handle; Hooks' constructor closure picks it up once
	// AddEventAndWait returns.
	setResultFunc.session = s

	stdlib.AddStdlibPkg("uacore", "Lifecycle scripting functions")
	stdlib.AddStdlibFunc("uacore", "setResult", setResultFunc)
}

/*
setResultFunc implements the ECAL stdlib function uacore.setResult,
mirroring the instanceID/vs/is/tid/args shape EliasDB's own dbfunc
package uses to expose Go state to scripts.
*/
type uacoreSetResultFunc struct {
	session *Session
}

var setResultFunc = &uacoreSetResultFunc{}

/*
Run executes the ECAL function.
*/
func (f *uacoreSetResultFunc) Run(instanceID string, vs parser.Scope, is map[string]interface{}, tid uint64, args []interface{}) (interface{}, error) {
	if len(args) != 2 {
		return nil, fmt.Errorf("uacore.setResult requires 2 parameters: node id and a result map")
	}

	nodeId := fmt.Sprint(args[0])

	resultMap, ok := args[1].(map[interface{}]interface{})
	if !ok {
		return nil, fmt.Errorf("uacore.setResult's second parameter must be a map")
	}

	handle := make(Handle, len(resultMap))
	for k, v := range resultMap {
		handle[fmt.Sprint(k)] = v
	}

	f.session.setResult(nodeId, handle)

	return nil, nil
}

/*
DocString returns a descriptive string.
*/
func (f *uacoreSetResultFunc) DocString() (string, error) {
	return "Records the lifecycle handle for a node constructed by a scripted constructor.", nil
}
