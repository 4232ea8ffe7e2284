/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package maildir

import (
	"sync"

	"github.com/alitto/pond"
)

// parseEmailsParallel processes every mail file across a bounded worker
// pool and folds the resulting address hits into one contact map. Grounded
// on original_source/src/import/maildir.rs::parse_emails_parallel, whose
// rayon::par_iter chunked fan-out has no direct Go stdlib analog; ported to
// github.com/alitto/pond (pond.New/Submit/StopAndWait), the pack's pooled
// worker-group library (rcowham-gitp4transfer/main.go), rather than
// hand-rolled goroutines+WaitGroup.
func parseEmailsParallel(files []string, workers int) map[string]*ExtractedContact {
	if workers <= 0 {
		workers = 1
	}

	pool := pond.New(workers, 0, pond.MinWorkers(1))

	var mu sync.Mutex
	contacts := make(map[string]*ExtractedContact)

	for _, path := range files {
		path := path
		pool.Submit(func() {
			hits := processSingleEmail(path)
			if len(hits) == 0 {
				return
			}
			mu.Lock()
			for _, hit := range hits {
				mergeContactEntry(contacts, hit)
			}
			mu.Unlock()
		})
	}

	pool.StopAndWait()
	return contacts
}
