/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package syncengine

import "fmt"

// Error records one failure encountered mid-sync; sync continues past it.
type Error struct {
	Path    string
	Message string
}

func (e Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// Result tallies what one Sync run did.
type Result struct {
	Downloaded    int
	Uploaded      int
	DeletedLocal  int
	DeletedRemote int
	Errors        []Error
}
