/*
 * uacore
 *
 * Copyright 2016 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package config

import (
	"fmt"
	"io/ioutil"
	"os"
	"testing"
)

const testconf = "testconfig"

func TestConfig(t *testing.T) {

	Config = nil

	ioutil.WriteFile(testconf, []byte(`{
    "EnableMonitor": false
}`), 0644)

	defer func() {
		if err := os.Remove(testconf); err != nil {
			fmt.Print("Could not remove test config file:", err.Error())
		}
	}()

	if err := LoadConfigFile(testconf); err != nil {
		t.Error(err)
		return
	}

	if res := Str("EnableMonitor"); res != "false" {
		t.Error("Unexpected result:", res)
		return
	}

	if res := Bool("EnableMonitor"); res {
		t.Error("Unexpected result:", res)
		return
	}

	if res := Str("ListenAddress"); res != DefaultConfig[ListenAddress] {
		t.Error("Unexpected result:", res)
		return
	}

	LoadDefaultConfig()

	if res := Bool("EnableMonitor"); !res {
		t.Error("Unexpected result:", res)
		return
	}

	Config[ListenAddress] = "localhost:1234"

	if res := Str(ListenAddress); res == DefaultConfig[ListenAddress] {
		t.Error("Unexpected result:", res)
		return
	}

	if res := Str(LifecycleScriptDir); res != DefaultConfig[LifecycleScriptDir] {
		t.Error("Unexpected result:", res)
		return
	}
}
