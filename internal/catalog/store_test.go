// Animestats - Anime Watch List Franchise Statistics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animestats

package catalog

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"

	"github.com/tomtom215/animestats/internal/frame"
	"github.com/tomtom215/animestats/internal/models"
	"github.com/tomtom215/animestats/internal/resolve"
)

// fakeReader serves a fixed catalog and counts reads.
type fakeReader struct {
	reads   atomic.Int32
	entries []models.CatalogEntry
	err     error
	gate    chan struct{}

	mu       sync.Mutex
	fields   []frame.Field
	required []string
}

func (r *fakeReader) ReadFile(ctx context.Context, _ string, fields []frame.Field, required []string) (*frame.Frame, error) {
	r.reads.Add(1)
	r.mu.Lock()
	r.fields, r.required = fields, required
	r.mu.Unlock()
	if r.gate != nil {
		select {
		case <-r.gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if r.err != nil {
		return nil, r.err
	}
	return models.CatalogFrame(r.entries)
}

func entries() []models.CatalogEntry {
	return []models.CatalogEntry{
		{AnimeID: 1, Title: "Cowboy Bebop"},
		{AnimeID: 2, Title: "Trigun"},
	}
}

func quiet() Option {
	return WithLogger(zerolog.Nop())
}

func TestScan(t *testing.T) {
	t.Parallel()

	r := &fakeReader{entries: entries()}
	s := NewStore(r, quiet())

	f, err := s.Scan(context.Background(), "catalog.parquet")
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if f.Height() != 2 {
		t.Errorf("height = %d, want 2", f.Height())
	}
	if diff := cmp.Diff(models.CatalogRequired, r.required); diff != "" {
		t.Errorf("required mismatch (-want +got):\n%s", diff)
	}
	if len(r.fields) != len(models.CatalogSchema) {
		t.Errorf("requested %d fields, want %d", len(r.fields), len(models.CatalogSchema))
	}
}

func TestScan_Cached(t *testing.T) {
	t.Parallel()

	r := &fakeReader{entries: entries()}
	s := NewStore(r, quiet())
	ctx := context.Background()

	first, err := s.Scan(ctx, "catalog.parquet")
	if err != nil {
		t.Fatal(err)
	}
	second, err := s.Scan(ctx, "catalog.parquet")
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Error("second scan did not return the cached frame")
	}
	if got := r.reads.Load(); got != 1 {
		t.Errorf("reads = %d, want 1", got)
	}

	s.Invalidate("catalog.parquet")
	if _, err := s.Scan(ctx, "catalog.parquet"); err != nil {
		t.Fatal(err)
	}
	if got := r.reads.Load(); got != 2 {
		t.Errorf("reads after Invalidate = %d, want 2", got)
	}
}

func TestScan_CacheDisabled(t *testing.T) {
	t.Parallel()

	r := &fakeReader{entries: entries()}
	s := NewStore(r, quiet(), WithCache(0, 0))
	for i := 0; i < 3; i++ {
		if _, err := s.Scan(context.Background(), "catalog.parquet"); err != nil {
			t.Fatal(err)
		}
	}
	if got := r.reads.Load(); got != 3 {
		t.Errorf("reads = %d, want 3", got)
	}
	s.Invalidate("catalog.parquet")
}

func TestScan_ConcurrentScansShareOneRead(t *testing.T) {
	t.Parallel()

	r := &fakeReader{entries: entries(), gate: make(chan struct{})}
	s := NewStore(r, quiet(), WithCache(0, 0))

	const n = 8
	var wg sync.WaitGroup
	frames := make([]*frame.Frame, n)
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			frames[i], errs[i] = s.Scan(context.Background(), "catalog.parquet")
		}(i)
	}

	// Let the first read start, then release it once the others are queued.
	for r.reads.Load() == 0 {
		time.Sleep(time.Millisecond)
	}
	time.Sleep(20 * time.Millisecond)
	close(r.gate)
	wg.Wait()

	for i := range errs {
		if errs[i] != nil {
			t.Fatalf("scan %d error = %v", i, errs[i])
		}
		if frames[i].Height() != 2 {
			t.Errorf("scan %d height = %d", i, frames[i].Height())
		}
	}
	if got := r.reads.Load(); got < 1 || got > n {
		t.Errorf("reads = %d", got)
	}
}

func TestScan_CallerCancelDoesNotFailSharedScan(t *testing.T) {
	t.Parallel()

	r := &fakeReader{entries: entries(), gate: make(chan struct{})}
	s := NewStore(r, quiet())

	ctxA, cancelA := context.WithCancel(context.Background())
	errA := make(chan error, 1)
	go func() {
		_, err := s.Scan(ctxA, "catalog.parquet")
		errA <- err
	}()
	for r.reads.Load() == 0 {
		time.Sleep(time.Millisecond)
	}

	type result struct {
		f   *frame.Frame
		err error
	}
	resB := make(chan result, 1)
	go func() {
		f, err := s.Scan(context.Background(), "catalog.parquet")
		resB <- result{f, err}
	}()

	cancelA()
	select {
	case err := <-errA:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("canceled caller error = %v, want context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("canceled caller kept waiting on the shared scan")
	}

	close(r.gate)
	got := <-resB
	if got.err != nil {
		t.Fatalf("second caller error = %v, want the shared scan to finish", got.err)
	}
	if got.f.Height() != 2 {
		t.Errorf("height = %d, want 2", got.f.Height())
	}
	if _, ok := s.cache.Get("catalog.parquet"); !ok {
		t.Error("completed scan should be cached")
	}
}

func TestScan_ScanTimeout(t *testing.T) {
	t.Parallel()

	r := &fakeReader{entries: entries(), gate: make(chan struct{})}
	s := NewStore(r, quiet(), WithScanTimeout(10*time.Millisecond))

	_, err := s.Scan(context.Background(), "catalog.parquet")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Scan() error = %v, want context.DeadlineExceeded", err)
	}
}

func TestScan_Error(t *testing.T) {
	t.Parallel()

	boom := errors.New("disk on fire")
	r := &fakeReader{err: boom}
	s := NewStore(r, quiet())

	_, err := s.Scan(context.Background(), "catalog.parquet")
	if !errors.Is(err, boom) {
		t.Errorf("error = %v, want %v", err, boom)
	}

	r.err = nil
	r.entries = entries()
	if _, err := s.Scan(context.Background(), "catalog.parquet"); err != nil {
		t.Errorf("failed scans must not be cached: %v", err)
	}
}

func TestRefresh(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	r := &fakeReader{entries: entries()}
	s := NewStore(r, quiet())

	if _, err := s.Scan(ctx, "catalog.parquet"); err != nil {
		t.Fatalf("Scan() error = %v", err)
	}

	r.entries = append(entries(), models.CatalogEntry{AnimeID: 3, Title: "Planetes"})
	if err := s.Refresh(ctx, "catalog.parquet"); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	f, err := s.Scan(ctx, "catalog.parquet")
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if f.Height() != 3 {
		t.Errorf("height after refresh = %d, want 3", f.Height())
	}

	r.err = errors.New("file vanished")
	if err := s.Refresh(ctx, "catalog.parquet"); err == nil {
		t.Fatal("Refresh() should fail")
	}
	f, err = s.Scan(ctx, "catalog.parquet")
	if err != nil {
		t.Fatalf("cached catalog should survive a failed refresh: %v", err)
	}
	if f.Height() != 3 {
		t.Errorf("height = %d, want 3", f.Height())
	}
	if got := r.reads.Load(); got != 3 {
		t.Errorf("reads = %d, want 3", got)
	}
}

func TestStore_IsCatalogScanner(t *testing.T) {
	t.Parallel()

	var _ resolve.CatalogScanner = NewStore(&fakeReader{})
}
