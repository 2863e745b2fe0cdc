package economics

import "fmt"

// Mode is a transport mode for delivering chips to the plant.
type Mode string

const (
	// ModeTractor is a tractor pulling a chip box.
	ModeTractor Mode = "tractor"
	// ModeTruck is a truck with a semi-trailer.
	ModeTruck Mode = "truck"
)

// Modes returns every transport mode in reporting order.
func Modes() []Mode {
	return []Mode{ModeTractor, ModeTruck}
}

// ParseMode converts a string into a Mode.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeTractor, ModeTruck:
		return Mode(s), nil
	default:
		return "", fmt.Errorf("unknown transport mode %q, expected %s or %s", s, ModeTractor, ModeTruck)
	}
}

// OrderedModes filters modes into reporting order and drops duplicates.
// An empty selection means every mode.
func OrderedModes(selected []Mode) []Mode {
	if len(selected) == 0 {
		return Modes()
	}
	want := make(map[Mode]bool, len(selected))
	for _, m := range selected {
		want[m] = true
	}
	var ordered []Mode
	for _, m := range Modes() {
		if want[m] {
			ordered = append(ordered, m)
		}
	}
	return ordered
}
