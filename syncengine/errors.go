/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */

// Package syncengine drives bidirectional synchronization between a local
// vdir and one configured CardDAV remote: pull changed/new/deleted remote
// contacts down, then push changed/new/deleted local contacts up, tracking
// per-(path, remote) ETag state in index.SyncMetadata. Grounded on
// original_source/src/sync.rs::SyncEngine.
package syncengine

import "errors"

// ErrRemoteRequired is returned when Sync is called with a nil Remote.
var ErrRemoteRequired = errors.New("syncengine: remote is required")
