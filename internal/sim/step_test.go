package sim_test

import (
	"errors"
	"testing"

	"github.com/chewxy/math32"

	"particle-life/internal/sim"
)

func mustStore(t *testing.T, bodies, types int) *sim.Store {
	t.Helper()
	s, err := sim.NewStore(bodies, types, newRand())
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func mustStepper(t *testing.T, batch int) *sim.Stepper {
	t.Helper()
	st, err := sim.NewStepper(batch)
	if err != nil {
		t.Fatal(err)
	}
	return st
}

func TestNewStepperInvalidBatch(t *testing.T) {
	for _, batch := range []int{0, -1, -64} {
		if _, err := sim.NewStepper(batch); !errors.Is(err, sim.ErrInvalidBatch) {
			t.Errorf("NewStepper(%d): got %v, want ErrInvalidBatch", batch, err)
		}
	}
}

func TestStepUninitialized(t *testing.T) {
	st := mustStepper(t, 64)
	if err := st.Step(nil, 1e-4); !errors.Is(err, sim.ErrNotInitialized) {
		t.Fatalf("got %v, want ErrNotInitialized", err)
	}
}

func TestSingleBodyStaysPut(t *testing.T) {
	s := mustStore(t, 1, 10)
	st := mustStepper(t, 64)

	x, y, z := s.Current()[0], s.Current()[1], s.Current()[2]
	for i := 0; i < 10; i++ {
		if err := st.Step(s, 1e-3); err != nil {
			t.Fatal(err)
		}
	}
	pos, vel := s.Current(), s.Velocities()
	if vel[0] != 0 || vel[1] != 0 || vel[2] != 0 {
		t.Fatalf("lone body gained velocity (%g, %g, %g)", vel[0], vel[1], vel[2])
	}
	if pos[0] != x || pos[1] != y || pos[2] != z {
		t.Fatalf("lone body moved")
	}
}

// Two runs from identical state must produce bit-identical results, whatever
// the batch size and worker count: each lane sums its partners in index order
// and owns its output slots, so scheduling cannot leak into the numbers.
func TestStepDeterminism(t *testing.T) {
	const bodies, types = 100, 7

	a := mustStore(t, bodies, types)
	b := mustStore(t, bodies, types)
	if !a.Snapshot().Equal(b.Snapshot()) {
		t.Fatal("seeded stores differ before stepping")
	}

	stA := mustStepper(t, 7) // does not divide 100; final batch is short
	stA.Workers = 1
	stB := mustStepper(t, 64)
	stB.Workers = 8

	for i := 0; i < 3; i++ {
		if err := stA.Step(a, 5e-5); err != nil {
			t.Fatal(err)
		}
		if err := stB.Step(b, 5e-5); err != nil {
			t.Fatal(err)
		}
	}
	if !a.Snapshot().Equal(b.Snapshot()) {
		t.Fatal("step results depend on batch size or worker count")
	}
}

// A batch size that does not divide N must still update exactly N bodies: the
// final short batch is clamped, and no lane runs past the end.
func TestStepCoversAllBodiesWithRaggedBatch(t *testing.T) {
	const bodies = 10
	s := mustStore(t, bodies, 3)
	st := mustStepper(t, 3)

	// Poison the write target's size lanes; the kernel rewrites every one.
	next := s.Next()
	for i := 0; i < bodies; i++ {
		next[i*sim.Stride+3] = -5
	}
	if err := st.Step(s, 1e-4); err != nil {
		t.Fatal(err)
	}
	cur := s.Current() // the buffer just written
	for i := 0; i < bodies; i++ {
		if cur[i*sim.Stride+3] != 1.0 {
			t.Fatalf("body %d not written by ragged batch", i)
		}
	}
}

// After k steps the current role belongs to the buffer written by step k,
// alternating between the two buffers.
func TestPingPongRoles(t *testing.T) {
	s := mustStore(t, 16, 4)
	st := mustStepper(t, 8)

	first := s.Current()
	second := s.Next()
	want := [][]float32{first, second, first, second}
	for k := 1; k <= 3; k++ {
		if err := st.Step(s, 1e-4); err != nil {
			t.Fatal(err)
		}
		if !sameBuffer(s.Current(), want[k]) {
			t.Fatalf("after %d steps the wrong buffer holds the current role", k)
		}
	}
}

// Four bodies on the unit square corners, two types, matrix [[1,-1],[-1,1]]:
// after one step every body's velocity must point toward its same-type
// partner and away from both cross-type neighbors.
func TestSquareScenarioForceSigns(t *testing.T) {
	s := mustStore(t, 4, 2) // round-robin types are already [0,1,0,1]
	st := mustStepper(t, 64)
	st.MinDistance = 0.01

	corners := [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {1, 1, 0}}
	pos := s.Current()
	for i, c := range corners {
		base := i * sim.Stride
		pos[base], pos[base+1], pos[base+2], pos[base+3] = c[0], c[1], c[2], 1
	}
	m := s.Matrix()
	m[0], m[1], m[2], m[3] = 1, -1, -1, 1

	if err := st.Step(s, 1e-3); err != nil {
		t.Fatal(err)
	}

	vel := s.Velocities()
	types := s.Types()
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			if i == j {
				continue
			}
			dx := corners[j][0] - corners[i][0]
			dy := corners[j][1] - corners[i][1]
			norm := math32.Sqrt(dx*dx + dy*dy)
			along := (vel[i*sim.Stride]*dx + vel[i*sim.Stride+1]*dy) / norm

			if types[i] == types[j] && along <= 0 {
				t.Errorf("same-type pair (%d,%d): not approaching, v·dir = %g", i, j, along)
			}
			if types[i] != types[j] && along >= 0 {
				t.Errorf("cross-type pair (%d,%d): not receding, v·dir = %g", i, j, along)
			}
		}
	}
}
