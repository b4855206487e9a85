package camelot

import "strings"

// wheelByName maps the 24 musical key names onto their wheel positions,
// spelled the way the Camelot chart spells them (flats on the major ring
// where conventional). Lookup is case-insensitive exact match; enharmonic
// respellings are separate analyzer concerns, not handled here.
var wheelByName = map[string]Key{
	// Major ring (B)
	"b major":  {1, ModeMajor},
	"f# major": {2, ModeMajor},
	"db major": {3, ModeMajor},
	"ab major": {4, ModeMajor},
	"eb major": {5, ModeMajor},
	"bb major": {6, ModeMajor},
	"f major":  {7, ModeMajor},
	"c major":  {8, ModeMajor},
	"g major":  {9, ModeMajor},
	"d major":  {10, ModeMajor},
	"a major":  {11, ModeMajor},
	"e major":  {12, ModeMajor},

	// Minor ring (A)
	"ab minor": {1, ModeMinor},
	"eb minor": {2, ModeMinor},
	"bb minor": {3, ModeMinor},
	"f minor":  {4, ModeMinor},
	"c minor":  {5, ModeMinor},
	"g minor":  {6, ModeMinor},
	"d minor":  {7, ModeMinor},
	"a minor":  {8, ModeMinor},
	"e minor":  {9, ModeMinor},
	"b minor":  {10, ModeMinor},
	"f# minor": {11, ModeMinor},
	"db minor": {12, ModeMinor},
}

// Normalize resolves an analyzer key string to a wheel position. Strings
// already in Camelot notation pass through unchanged; musical names are
// looked up in the 24-entry wheel table. The second return is false when the
// key cannot be resolved.
func Normalize(s string) (Key, bool) {
	if k, err := Parse(s); err == nil {
		return k, true
	}

	name := strings.ToLower(strings.Join(strings.Fields(s), " "))
	k, ok := wheelByName[name]
	return k, ok
}
