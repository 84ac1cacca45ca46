package sim

import (
	"fmt"
	"time"

	"golang.org/x/exp/rand"
)

// Stride is the number of float32 lanes per body in the position and velocity
// buffers: x, y, z plus a fourth lane (sprite size for positions, padding for
// velocities). The layout matches a vec4 vertex buffer so the current position
// buffer can be handed to the renderer as one instance per body, no repacking.
const Stride = 4

// Interaction matrix cells are drawn uniformly from [matrixMin, matrixMax).
const (
	matrixMin = -100.0
	matrixMax = 100.0
)

// Store owns all per-body state: two position buffers that alternate the
// "current" and "next" roles each step, one velocity buffer, one type buffer,
// and the dense T×T interaction matrix. Everything is allocated together by
// NewStore and replaced together on the next reset; there is no partial reset.
//
// Matrix[i*T+j] scales the force a body of type j exerts on a body of type i.
// The matrix is not symmetric. Matrix and types are never written after init,
// so the step kernel may read them from any goroutine without locking.
type Store struct {
	bodies    int
	typeCount int

	positions  [2][]float32 // stride 4: x, y, z, size
	current    int          // which of the two buffers holds the current role
	velocities []float32    // stride 4: vx, vy, vz, 0
	types      []int32
	matrix     []float32 // row-major T×T
}

// NewStore allocates and populates state for the given body and type counts.
// Positions are uniform in [0,1) per axis with size 1; velocities are zero;
// types are assigned round robin (body i gets type i mod T); matrix cells are
// uniform in [-100,100). A nil rng gets a time-based seed.
//
// Returns ErrInvalidConfig if either count is not positive. On error the
// caller's previous store, if any, is untouched and remains usable.
func NewStore(bodies, typeCount int, rng *rand.Rand) (*Store, error) {
	if bodies <= 0 || typeCount <= 0 {
		return nil, fmt.Errorf("bodies=%d types=%d: %w", bodies, typeCount, ErrInvalidConfig)
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(uint64(time.Now().UnixNano())))
	}

	s := &Store{
		bodies:     bodies,
		typeCount:  typeCount,
		velocities: make([]float32, bodies*Stride),
		types:      make([]int32, bodies),
		matrix:     make([]float32, typeCount*typeCount),
	}
	s.positions[0] = make([]float32, bodies*Stride)
	s.positions[1] = make([]float32, bodies*Stride)

	for i := 0; i < bodies; i++ {
		base := i * Stride
		s.positions[0][base+0] = rng.Float32()
		s.positions[0][base+1] = rng.Float32()
		s.positions[0][base+2] = rng.Float32()
		s.positions[0][base+3] = 1.0
		s.types[i] = int32(i % typeCount)
	}
	// The size lane of the off buffer is rewritten by every step, but seed it
	// anyway so both buffers are valid vertex input from frame zero.
	copy(s.positions[1], s.positions[0])

	for i := range s.matrix {
		s.matrix[i] = float32(matrixMin + rng.Float64()*(matrixMax-matrixMin))
	}
	return s, nil
}

// Len returns the body count N.
func (s *Store) Len() int { return s.bodies }

// TypeCount returns the type count T.
func (s *Store) TypeCount() int { return s.typeCount }

// Current returns the position buffer holding the current role. The renderer
// and the step kernel read it; nothing writes it until after the next Swap.
func (s *Store) Current() []float32 { return s.positions[s.current] }

// Next returns the position buffer holding the next role, the step kernel's
// write target.
func (s *Store) Next() []float32 { return s.positions[1-s.current] }

// Velocities returns the velocity buffer. Updated in place by the step kernel;
// each lane writes only its own body's slot.
func (s *Store) Velocities() []float32 { return s.velocities }

// Types returns the per-body type buffer. Read-only after init.
func (s *Store) Types() []int32 { return s.types }

// Matrix returns the row-major T×T interaction matrix. Read-only after init.
func (s *Store) Matrix() []float32 { return s.matrix }

// Swap exchanges the current and next roles of the two position buffers. No
// data moves, only the role index flips. Called by the stepper once all lanes
// of a step have completed, never concurrently with a render pass.
func (s *Store) Swap() { s.current = 1 - s.current }

// Snapshot is a deep copy of all simulation state at one instant, used to
// verify that pausing leaves state untouched and that stepping is
// deterministic.
type Snapshot struct {
	Positions  []float32
	Velocities []float32
	Types      []int32
	Matrix     []float32
}

// Snapshot deep-copies the current-role positions, velocities, types and
// matrix. The off-role position buffer is scratch and deliberately excluded.
func (s *Store) Snapshot() Snapshot {
	snap := Snapshot{
		Positions:  make([]float32, len(s.positions[s.current])),
		Velocities: make([]float32, len(s.velocities)),
		Types:      make([]int32, len(s.types)),
		Matrix:     make([]float32, len(s.matrix)),
	}
	copy(snap.Positions, s.positions[s.current])
	copy(snap.Velocities, s.velocities)
	copy(snap.Types, s.types)
	copy(snap.Matrix, s.matrix)
	return snap
}

// Equal reports whether two snapshots are bit-identical.
func (a Snapshot) Equal(b Snapshot) bool {
	if len(a.Positions) != len(b.Positions) || len(a.Velocities) != len(b.Velocities) ||
		len(a.Types) != len(b.Types) || len(a.Matrix) != len(b.Matrix) {
		return false
	}
	for i := range a.Positions {
		if a.Positions[i] != b.Positions[i] {
			return false
		}
	}
	for i := range a.Velocities {
		if a.Velocities[i] != b.Velocities[i] {
			return false
		}
	}
	for i := range a.Types {
		if a.Types[i] != b.Types[i] {
			return false
		}
	}
	for i := range a.Matrix {
		if a.Matrix[i] != b.Matrix[i] {
			return false
		}
	}
	return true
}
