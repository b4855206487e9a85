package camelot

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Mode identifies the ring of the Camelot wheel a key sits on.
type Mode string

const (
	ModeMinor Mode = "A"
	ModeMajor Mode = "B"
)

// Key is a position on the Camelot wheel, e.g. 8A (A minor) or 3B (Db major).
type Key struct {
	Number int  `json:"number"` // 1-12
	Mode   Mode `json:"mode"`   // A (minor) or B (major)
}

var keyPattern = regexp.MustCompile(`^(\d{1,2})([ABab])$`)

// Parse converts a Camelot notation string such as "8A" into a Key.
func Parse(s string) (Key, error) {
	matches := keyPattern.FindStringSubmatch(strings.TrimSpace(s))
	if matches == nil {
		return Key{}, fmt.Errorf("invalid camelot key: %q", s)
	}

	number, err := strconv.Atoi(matches[1])
	if err != nil || number < 1 || number > 12 {
		return Key{}, fmt.Errorf("camelot key number out of range: %q", s)
	}

	return Key{Number: number, Mode: Mode(strings.ToUpper(matches[2]))}, nil
}

func (k Key) String() string {
	if k.Number == 0 {
		return ""
	}
	return fmt.Sprintf("%d%s", k.Number, string(k.Mode))
}

// Valid reports whether k holds a real wheel position.
func (k Key) Valid() bool {
	return k.Number >= 1 && k.Number <= 12 && (k.Mode == ModeMinor || k.Mode == ModeMajor)
}

// Relative returns the relative major/minor of k, the same wheel position on
// the other ring.
func (k Key) Relative() Key {
	other := ModeMajor
	if k.Mode == ModeMajor {
		other = ModeMinor
	}
	return Key{Number: k.Number, Mode: other}
}

// Distance is the circular distance between two wheel positions, 0..6.
// The ring (mode) is ignored.
func Distance(a, b Key) int {
	d := a.Number - b.Number
	if d < 0 {
		d = -d
	}
	if d > 6 {
		d = 12 - d
	}
	return d
}

// IsRelative reports whether a and b are a relative major/minor pair.
func IsRelative(a, b Key) bool {
	return a.Number == b.Number && a.Mode != b.Mode
}

// IsAdjacent reports whether a and b are one step apart on the same ring,
// wrapping 12 back to 1.
func IsAdjacent(a, b Key) bool {
	return a.Mode == b.Mode && Distance(a, b) == 1
}

// CompatibleKeys lists the harmonically mixable neighbours of k in preference
// order: the key itself, its relative, one step down and up on the same ring,
// then one step down and up on the other ring.
func CompatibleKeys(k Key) []Key {
	if !k.Valid() {
		return nil
	}

	prev := k.Number - 1
	if prev < 1 {
		prev = 12
	}
	next := k.Number + 1
	if next > 12 {
		next = 1
	}
	other := k.Relative().Mode

	return []Key{
		k,
		k.Relative(),
		{Number: prev, Mode: k.Mode},
		{Number: next, Mode: k.Mode},
		{Number: prev, Mode: other},
		{Number: next, Mode: other},
	}
}
