package parallel

import (
	"runtime"
	"slices"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// =============================================================================
// WorkerPool Creation Tests
// =============================================================================

func TestWorkerPool_Create(t *testing.T) {
	pool := NewWorkerPool(4)
	defer pool.Close()

	if pool.Workers() != 4 {
		t.Errorf("Workers() = %d, want 4", pool.Workers())
	}
	if !pool.IsRunning() {
		t.Error("Pool should be running after creation")
	}
}

func TestWorkerPool_CreateDefaultWorkers(t *testing.T) {
	for _, n := range []int{0, -5} {
		pool := NewWorkerPool(n)
		if pool.Workers() != runtime.GOMAXPROCS(0) {
			t.Errorf("NewWorkerPool(%d).Workers() = %d, want GOMAXPROCS", n, pool.Workers())
		}
		pool.Close()
	}
}

// =============================================================================
// ExecuteAll Tests
// =============================================================================

func TestWorkerPool_ExecuteAll(t *testing.T) {
	pool := NewWorkerPool(4)
	defer pool.Close()

	var counter atomic.Int64
	const numTasks = 100

	work := make([]func(), numTasks)
	for i := range work {
		work[i] = func() { counter.Add(1) }
	}
	pool.ExecuteAll(work)

	if counter.Load() != numTasks {
		t.Errorf("counter = %d, want %d", counter.Load(), numTasks)
	}
}

func TestWorkerPool_ExecuteAll_Empty(t *testing.T) {
	pool := NewWorkerPool(2)
	defer pool.Close()

	pool.ExecuteAll(nil)
	pool.ExecuteAll([]func(){})
}

func TestWorkerPool_ExecuteAll_AfterClose(t *testing.T) {
	pool := NewWorkerPool(2)
	pool.Close()

	var counter atomic.Int64
	pool.ExecuteAll([]func(){
		func() { counter.Add(1) },
		func() { counter.Add(1) },
	})
	if counter.Load() != 2 {
		t.Errorf("counter = %d, want 2 (inline execution after Close)", counter.Load())
	}
}

func TestWorkerPool_CloseIdempotent(t *testing.T) {
	pool := NewWorkerPool(2)
	pool.Close()
	pool.Close()

	if pool.IsRunning() {
		t.Error("Pool should not be running after Close")
	}
}

func TestWorkerPool_WorkStealing(t *testing.T) {
	pool := NewWorkerPool(4)
	defer pool.Close()

	// Every slow item lands on worker 0; the others must steal them for the
	// batch to finish in well under the serial time.
	const items = 8
	work := make([]func(), items*4)
	for i := range work {
		if i%4 == 0 {
			work[i] = func() { time.Sleep(20 * time.Millisecond) }
		} else {
			work[i] = func() {}
		}
	}

	start := time.Now()
	pool.ExecuteAll(work)
	if elapsed := time.Since(start); elapsed > items*20*time.Millisecond {
		t.Logf("ExecuteAll took %v; work stealing did not help on this machine", elapsed)
	}
}

func TestWorkerPool_ConcurrentBatches(t *testing.T) {
	pool := NewWorkerPool(4)
	defer pool.Close()

	var counter atomic.Int64
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			work := make([]func(), 50)
			for i := range work {
				work[i] = func() { counter.Add(1) }
			}
			pool.ExecuteAll(work)
		}()
	}
	wg.Wait()

	if counter.Load() != 400 {
		t.Errorf("counter = %d, want 400", counter.Load())
	}
}

// =============================================================================
// Band Tests
// =============================================================================

func TestBands(t *testing.T) {
	tests := []struct {
		height, parts int
		want          []Band
	}{
		{10, 3, []Band{{0, 4}, {4, 7}, {7, 10}}},
		{4, 4, []Band{{0, 1}, {1, 2}, {2, 3}, {3, 4}}},
		{2, 8, []Band{{0, 1}, {1, 2}}},
		{5, 1, []Band{{0, 5}}},
		{0, 4, nil},
		{4, 0, nil},
	}
	for _, tt := range tests {
		if got := Bands(tt.height, tt.parts); !slices.Equal(got, tt.want) {
			t.Errorf("Bands(%d, %d) = %v, want %v", tt.height, tt.parts, got, tt.want)
		}
	}
}

func TestForEachBandCoversEveryRow(t *testing.T) {
	pool := NewWorkerPool(3)
	defer pool.Close()

	const height = 37
	var rows [height]atomic.Int32
	pool.ForEachBand(height, func(b Band) {
		for y := b.Y0; y < b.Y1; y++ {
			rows[y].Add(1)
		}
	})

	for y := range rows {
		if n := rows[y].Load(); n != 1 {
			t.Errorf("row %d visited %d times, want 1", y, n)
		}
	}
}
