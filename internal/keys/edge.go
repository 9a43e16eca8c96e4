package keys

// Edge is a key transition. Values match the kernel's input event
// values so an Edge can be written to a virtual device verbatim.
type Edge int32

const (
	EdgeUp     Edge = 0
	EdgeDown   Edge = 1
	EdgeRepeat Edge = 2
)

// EdgeFromValue converts a raw event value to an Edge.
func EdgeFromValue(v int32) (Edge, bool) {
	switch v {
	case 0, 1, 2:
		return Edge(v), true
	default:
		return 0, false
	}
}

func (e Edge) String() string {
	switch e {
	case EdgeUp:
		return "up"
	case EdgeDown:
		return "down"
	case EdgeRepeat:
		return "repeat"
	default:
		return "unknown"
	}
}
