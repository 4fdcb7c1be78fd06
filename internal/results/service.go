// Copyright 2025 Esteban Alvarez. All Rights Reserved.
//
// Created: October 2025
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package results

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// ServiceOptions configure the background recording service.
type ServiceOptions struct {
	// Buffer is the bounded capacity of the ingress channel. Default 256.
	Buffer int
	// FlushInterval is the periodic flush cadence, bounding how long a
	// completed run sits in memory before it reaches the backend.
	// Default 500ms.
	FlushInterval time.Duration
}

// Service is a single-worker service that ingests run records, batches them
// in-memory, and periodically flushes through a Recorder. It keeps recording
// off the benchmark path: a slow backend delays durability, never a run.
type Service struct {
	rec    Recorder
	in     chan RunRecord
	stopCh chan struct{}
	doneCh chan struct{}
	opts   ServiceOptions
	once   sync.Once
	// flushNowCh allows external callers to request an immediate flush on the service goroutine
	flushNowCh chan struct{}

	pending []RunRecord
}

// NewService constructs a new service around a backend. The pending batch is
// exclusive to the service goroutine; callers should only interact via
// Ingest/TryIngest.
func NewService(rec Recorder, opts ServiceOptions) *Service {
	if opts.Buffer <= 0 {
		opts.Buffer = 256
	}
	if opts.FlushInterval <= 0 {
		opts.FlushInterval = 500 * time.Millisecond
	}
	return &Service{
		rec:        rec,
		in:         make(chan RunRecord, opts.Buffer),
		stopCh:     make(chan struct{}),
		doneCh:     make(chan struct{}),
		opts:       opts,
		flushNowCh: make(chan struct{}, 1),
	}
}

// Start launches the background worker.
func (s *Service) Start() {
	s.once.Do(func() {
		go s.run()
	})
}

// Stop asks the worker to stop, performs a final flush, and waits for completion.
func (s *Service) Stop() {
	close(s.stopCh)
	<-s.doneCh
}

// Flush requests an immediate best-effort flush on the service goroutine.
// It is non-blocking: if a prior flush request is still pending, this call is a no-op.
func (s *Service) Flush() {
	select {
	case s.flushNowCh <- struct{}{}:
		// enqueued
	default:
		// a previous flush request is still pending; skip to avoid blocking
	}
}

// Ingest enqueues a run record. It blocks if the buffer is full.
func (s *Service) Ingest(rec RunRecord) {
	s.in <- rec
}

// TryIngest attempts to enqueue without blocking. Returns false if the buffer is full.
func (s *Service) TryIngest(rec RunRecord) bool {
	select {
	case s.in <- rec:
		return true
	default:
		return false
	}
}

func (s *Service) run() {
	defer close(s.doneCh)
	ticker := time.NewTicker(s.opts.FlushInterval)
	defer ticker.Stop()
	flush := func() {
		if len(s.pending) == 0 || s.rec == nil {
			return
		}
		if err := s.rec.Record(context.Background(), s.pending); err != nil {
			slog.Error("record runs", "count", len(s.pending), "err", err)
		}
		s.pending = s.pending[:0]
	}
	for {
		select {
		case rec := <-s.in:
			s.pending = append(s.pending, rec)
		case <-ticker.C:
			flush()
		case <-s.flushNowCh:
			// Best-effort immediate flush requested by caller
			flush()
		case <-s.stopCh:
			// Drain remaining queued items without blocking
			for {
				select {
				case rec := <-s.in:
					s.pending = append(s.pending, rec)
				default:
					flush()
					return
				}
			}
		}
	}
}
