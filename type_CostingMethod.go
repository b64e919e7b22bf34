package cointax

import "fmt"

// CostingMethod defines the order in which lots are consumed on disposal.
type CostingMethod int

const (
	// FIFO (First-In, First-Out) consumes the oldest lots first.
	FIFO CostingMethod = iota
	// LIFO (Last-In, First-Out) consumes the newest lots first.
	LIFO
)

func (m CostingMethod) String() string {
	switch m {
	case FIFO:
		return "fifo"
	case LIFO:
		return "lifo"
	default:
		return "unknown"
	}
}

// ParseCostingMethod parses a string into a CostingMethod.
//
// The numeric aliases "1" and "2" (LIFO) and "3" and "4" (FIFO) are accepted
// for compatibility with older command lines.
func ParseCostingMethod(s string) (CostingMethod, error) {
	switch s {
	case "fifo", "3", "4":
		return FIFO, nil
	case "lifo", "1", "2":
		return LIFO, nil
	default:
		return 0, fmt.Errorf("unknown costing method: %q", s)
	}
}
