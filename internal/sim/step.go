package sim

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/chewxy/math32"
)

// DefaultBatchSize is the default number of bodies per dispatched batch.
const DefaultBatchSize = 64

// Kernel tuning defaults. MinDistance is the distance floor that keeps the
// inverse-square falloff finite for near-coincident bodies; Damping scales
// velocity after each integration so the system stays bounded.
const (
	defaultDamping     = 0.98
	defaultMinDistance = 0.01
)

// Stepper advances a Store by one time step per call. It partitions the body
// range into fixed-size batches and runs them on a pool of goroutines, each
// lane reading the shared immutable snapshot (current positions, velocities,
// types, matrix) and writing only its own body's next-position and velocity
// slots. A WaitGroup barrier separates consecutive steps: step k+1 never reads
// the buffer step k wrote until every lane of step k has finished.
type Stepper struct {
	batch   int
	Workers int // goroutines draining the batch queue; defaults to NumCPU

	Damping     float32 // velocity retained per step, in (0,1]
	MinDistance float32 // falloff distance floor, > 0
}

// NewStepper builds a stepper with the given batch size and kernel defaults.
// Batch size is validated here, not per step; any positive value works because
// the kernel clamps the final batch to the body count rather than assuming an
// even division. Returns ErrInvalidBatch for batch <= 0.
func NewStepper(batch int) (*Stepper, error) {
	if batch <= 0 {
		return nil, fmt.Errorf("batch=%d: %w", batch, ErrInvalidBatch)
	}
	return &Stepper{
		batch:       batch,
		Workers:     runtime.NumCPU(),
		Damping:     defaultDamping,
		MinDistance: defaultMinDistance,
	}, nil
}

// BatchSize returns the configured batch size.
func (st *Stepper) BatchSize() int { return st.batch }

// Step advances the store by one step of dt. For each body it sums forces
// from all other bodies (dense all-pairs, O(N²)), weighted by the interaction
// matrix and an inverse-square falloff floored at MinDistance, integrates
// velocity then position, writes the new position into the next-role buffer,
// and finally swaps the buffer roles. Velocities update in place.
//
// Each lane iterates partners in index order, so the result is bit-identical
// across runs regardless of batch size or worker count.
//
// Returns ErrNotInitialized if store is nil.
func (st *Stepper) Step(store *Store, dt float32) error {
	if store == nil {
		return ErrNotInitialized
	}

	n := store.Len()
	cur := store.Current()
	next := store.Next()
	vel := store.Velocities()
	types := store.Types()
	matrix := store.Matrix()
	typeCount := store.TypeCount()

	batches := make(chan int)
	var wg sync.WaitGroup
	workers := st.Workers
	if workers < 1 {
		workers = 1
	}
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for start := range batches {
				end := start + st.batch
				if end > n {
					end = n
				}
				st.kernel(start, end, n, typeCount, dt, cur, next, vel, types, matrix)
			}
		}()
	}
	for start := 0; start < n; start += st.batch {
		batches <- start
	}
	close(batches)
	wg.Wait()

	store.Swap()
	return nil
}

// kernel processes bodies [start,end). It reads only shared immutable input
// and writes only slots owned by those indices, so no synchronization is
// needed beyond the step barrier.
func (st *Stepper) kernel(start, end, n, typeCount int, dt float32, cur, next, vel []float32, types []int32, matrix []float32) {
	for i := start; i < end; i++ {
		base := i * Stride
		px := cur[base]
		py := cur[base+1]
		pz := cur[base+2]
		row := matrix[int(types[i])*typeCount : (int(types[i])+1)*typeCount]

		var fx, fy, fz float32
		for j := 0; j < n; j++ {
			if j == i {
				continue
			}
			jb := j * Stride
			dx := cur[jb] - px
			dy := cur[jb+1] - py
			dz := cur[jb+2] - pz
			dist := math32.Sqrt(dx*dx + dy*dy + dz*dz)
			if dist < st.MinDistance {
				dist = st.MinDistance
			}
			// direction(d) scaled by A/dist² collapses to d * A/dist³.
			f := row[types[j]] / (dist * dist * dist)
			fx += dx * f
			fy += dy * f
			fz += dz * f
		}

		vx := (vel[base] + fx*dt) * st.Damping
		vy := (vel[base+1] + fy*dt) * st.Damping
		vz := (vel[base+2] + fz*dt) * st.Damping
		vel[base] = vx
		vel[base+1] = vy
		vel[base+2] = vz

		next[base] = px + vx*dt
		next[base+1] = py + vy*dt
		next[base+2] = pz + vz*dt
		next[base+3] = cur[base+3]
	}
}
