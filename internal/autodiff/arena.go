package autodiff

import (
	"fmt"
	"math"

	"github.com/born-ml/autograd/internal/tensor"
	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"k8s.io/klog/v2"
)

// VarID identifies a variable within one Arena.
type VarID int32

// NoVarID is the sentinel for "no variable".
const NoVarID VarID = -1

// IsValid returns true if the id may name a variable.
func (id VarID) IsValid() bool { return id >= 0 }

// anyRecord is the erased view of a *record[T] stored in a slot.
type anyRecord interface {
	dataType() tensor.DataType
	payload() tensor.AnyTensor
	gradID() VarID
	dropGrad()
}

type slot struct {
	gen      uint32 // arena generation at allocation time
	borrowed bool   // exclusively borrowed by a running accessor
	rec      anyRecord
}

// ArenaConfig configures a new Arena.
type ArenaConfig struct {
	Capacity int    // Initial number of slots to reserve.
	Engine   Engine // Traversal used by Backward. Nil means a new ExecutionEngine.
}

// DefaultArenaConfig returns the configuration used by NewArena without options.
func DefaultArenaConfig() ArenaConfig {
	return ArenaConfig{
		Capacity: 256,
	}
}

// ArenaOption configures an Arena.
type ArenaOption func(*ArenaConfig)

// WithCapacity reserves room for n variables.
func WithCapacity(n int) ArenaOption {
	return func(c *ArenaConfig) {
		c.Capacity = n
	}
}

// WithEngine sets the traversal engine used by Backward.
func WithEngine(e Engine) ArenaOption {
	return func(c *ArenaConfig) {
		c.Engine = e
	}
}

// Arena stores variable records, indexed by VarID.
//
// An Arena is owned by a single goroutine and is not safe for concurrent use.
// It grows until Reset truncates it; there is no per-variable reclamation.
type Arena struct {
	tag        uuid.UUID
	slots      []slot
	generation uint32
	engine     Engine
}

// NewArena creates an empty arena.
func NewArena(opts ...ArenaOption) *Arena {
	cfg := DefaultArenaConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Engine == nil {
		cfg.Engine = NewExecutionEngine()
	}
	return &Arena{
		tag:    uuid.New(),
		slots:  make([]slot, 0, max(cfg.Capacity, 0)),
		engine: cfg.Engine,
	}
}

// Tag returns the arena's unique tag, used in logs.
func (a *Arena) Tag() uuid.UUID {
	return a.tag
}

// Len returns the number of live slots.
func (a *Arena) Len() int {
	return len(a.slots)
}

// Generation returns the number of Reset calls that discarded slots.
func (a *Arena) Generation() uint32 {
	return a.generation
}

// Engine returns the traversal engine used by Backward.
func (a *Arena) Engine() Engine {
	return a.engine
}

func (a *Arena) allocate(rec anyRecord) (VarID, uint32) {
	if len(a.slots) >= math.MaxInt32 {
		Fatalf(ErrOutOfBounds, "arena %s is full (%d variables)", a.tag, len(a.slots))
	}
	id := VarID(len(a.slots))
	a.slots = append(a.slots, slot{gen: a.generation, rec: rec})
	return id, a.generation
}

// slotAt returns the slot for (id, gen). The pointer is only valid until the
// next allocation, so callers must not keep it.
func (a *Arena) slotAt(id VarID, gen uint32) *slot {
	if id < 0 || int(id) >= len(a.slots) {
		Fatalf(ErrOutOfBounds, "variable %d out of bounds: arena holds %d", id, len(a.slots))
	}
	s := &a.slots[id]
	if s.gen != gen {
		Fatalf(ErrStaleHandle, "variable %d is from generation %d, slot holds generation %d", id, gen, s.gen)
	}
	return s
}

func (a *Arena) release(id VarID) {
	if int(id) < len(a.slots) {
		a.slots[id].borrowed = false
	}
}

// Reset truncates the arena to maxID+1 variables, discarding the rest.
//
// Handles with id > maxID become invalid: later use fails with ErrOutOfBounds,
// or ErrStaleHandle once the id is allocated again. Surviving variables whose
// gradient lived in the discarded suffix lose that gradient.
// Reset(NoVarID) empties the arena.
func (a *Arena) Reset(maxID VarID) {
	if maxID < NoVarID {
		Fatalf(ErrOutOfBounds, "reset to variable %d", maxID)
	}
	n := int(maxID) + 1
	if n >= len(a.slots) {
		return
	}
	for i := n; i < len(a.slots); i++ {
		if a.slots[i].borrowed {
			Fatalf(ErrAliasedAccess, "reset would discard variable %d while it is borrowed", i)
		}
	}
	discarded := len(a.slots) - n
	clear(a.slots[n:])
	a.slots = a.slots[:n]
	a.generation++

	severed := 0
	for i := range a.slots {
		if a.slots[i].rec.gradID() >= VarID(n) {
			a.slots[i].rec.dropGrad()
			severed++
		}
	}
	klog.V(1).Infof("arena %s: reset to %d variables (discarded %d, severed %d gradients, generation %d)",
		a.tag, n, discarded, severed, a.generation)
}

// ArenaStats summarizes arena contents.
type ArenaStats struct {
	Variables   int
	Float32     int
	Int64       int
	TensorBytes int // Bytes of distinct tensors referenced by live records.
}

// Stats counts live variables per kind and the memory of their tensors.
func (a *Arena) Stats() ArenaStats {
	stats := ArenaStats{Variables: len(a.slots)}
	seen := make(map[tensor.TensorID]struct{}, len(a.slots))
	for i := range a.slots {
		rec := a.slots[i].rec
		switch rec.dataType() {
		case tensor.Float32:
			stats.Float32++
		case tensor.Int64:
			stats.Int64++
		}
		t := rec.payload()
		if _, ok := seen[t.ID()]; ok {
			continue
		}
		seen[t.ID()] = struct{}{}
		stats.TensorBytes += t.ByteSize()
	}
	return stats
}

// String returns a short summary of the arena.
func (a *Arena) String() string {
	stats := a.Stats()
	return fmt.Sprintf("Arena(%s: %s variables, %s, generation %d)",
		a.tag.String()[:8], humanize.Comma(int64(stats.Variables)),
		humanize.Bytes(uint64(stats.TensorBytes)), a.generation)
}
