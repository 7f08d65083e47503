package circuit

import (
	"fmt"
	"strconv"
)

// WireID is a dense handle for a wire. Bus bits live in reserved blocks so
// that bus values can be read by direct indexing.
type WireID int

// BusBlock is the number of identifiers reserved for each bus.
const BusBlock = 64

// Bus identifies one of the three named buses
type Bus int

const (
	BusX Bus = iota
	BusY
	BusZ
	NoBus // Internal wire
)

// String returns the name prefix of the bus
func (b Bus) String() string {
	switch b {
	case BusX:
		return "x"
	case BusY:
		return "y"
	case BusZ:
		return "z"
	default:
		return "-"
	}
}

// firstInternal is the first identifier handed to a non-bus wire
const firstInternal = WireID(3 * BusBlock)

// BusWire returns the reserved identifier of bit i of bus b
func BusWire(b Bus, i int) WireID {
	return WireID(int(b)*BusBlock + i)
}

// BusOf reports which bus a wire belongs to and its bit index
func BusOf(id WireID) (Bus, int) {
	if id < 0 || id >= firstInternal {
		return NoBus, -1
	}
	return Bus(int(id) / BusBlock), int(id) % BusBlock
}

// WireRegistry maps wire names to identifiers and back
type WireRegistry struct {
	nextID   WireID
	idToName map[WireID]string
	nameToID map[string]WireID
	widths   [3]int // Highest bit index seen + 1, per bus
}

// NewWireRegistry creates an empty registry
func NewWireRegistry() *WireRegistry {
	return &WireRegistry{
		nextID:   firstInternal,
		idToName: make(map[WireID]string, 256),
		nameToID: make(map[string]WireID, 256),
	}
}

// Register returns the identifier for name, allocating one if needed.
// Names of the form x<N>, y<N> and z<N> with N below BusBlock land in the
// reserved bus blocks; everything else becomes an internal wire.
func (r *WireRegistry) Register(name string) WireID {
	if id, ok := r.nameToID[name]; ok {
		return id
	}

	var id WireID
	if bus, bit, ok := parseBusName(name); ok {
		id = BusWire(bus, bit)
		if bit+1 > r.widths[bus] {
			r.widths[bus] = bit + 1
		}
	} else {
		id = r.nextID
		r.nextID++
	}

	r.idToName[id] = name
	r.nameToID[name] = id
	return id
}

// parseBusName splits a bus wire name into bus and bit index
func parseBusName(name string) (Bus, int, bool) {
	if len(name) < 2 {
		return NoBus, 0, false
	}

	var bus Bus
	switch name[0] {
	case 'x':
		bus = BusX
	case 'y':
		bus = BusY
	case 'z':
		bus = BusZ
	default:
		return NoBus, 0, false
	}

	bit, err := strconv.Atoi(name[1:])
	if err != nil || bit < 0 || bit >= BusBlock {
		return NoBus, 0, false
	}
	return bus, bit, true
}

// BusWidth returns the observed width of a bus
func (r *WireRegistry) BusWidth(b Bus) int {
	if b < BusX || b > BusZ {
		return 0
	}
	return r.widths[b]
}

// IDFor looks up a wire by name
func (r *WireRegistry) IDFor(name string) (WireID, bool) {
	id, ok := r.nameToID[name]
	return id, ok
}

// NameFor returns the name of a wire
func (r *WireRegistry) NameFor(id WireID) string {
	if name, ok := r.idToName[id]; ok {
		return name
	}
	return fmt.Sprintf("#%d", id)
}

// Len returns the size a WireState must have to hold every registered wire
func (r *WireRegistry) Len() int {
	return int(r.nextID)
}

// Count returns the number of registered wires
func (r *WireRegistry) Count() int {
	return len(r.nameToID)
}

// IsInput reports whether id is a bit of bus X or Y
func (r *WireRegistry) IsInput(id WireID) bool {
	return id >= 0 && id < BusWire(BusZ, 0)
}

// WireState holds one boolean level per wire for a single evaluation
type WireState []bool

// NewState allocates an all-false state sized for the registry
func (r *WireRegistry) NewState() WireState {
	return make(WireState, r.Len())
}

// Reset clears every wire to false
func (s WireState) Reset() {
	for i := range s {
		s[i] = false
	}
}

// SetBus writes the low width bits of v onto bus b
func (s WireState) SetBus(b Bus, width int, v uint64) {
	for i := 0; i < width; i++ {
		s[BusWire(b, i)] = v&(1<<uint(i)) != 0
	}
}

// Bus packs the first width bits of bus b into an integer
func (s WireState) Bus(b Bus, width int) uint64 {
	var v uint64
	for i := 0; i < width; i++ {
		if s[BusWire(b, i)] {
			v |= 1 << uint(i)
		}
	}
	return v
}
