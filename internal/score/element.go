package score

import (
	"strconv"
	"strings"
)

// Element is a single event in a part: a note, a rest, or a clef change.
type Element interface {
	element()
}

// Note is a pitched event.
type Note struct {
	Name    string  // step letter, "C".."B"
	Octave  int     // scientific pitch notation octave, C4 = middle C
	Alter   int     // chromatic alteration in semitones, -1 = flat, 1 = sharp
	Quarter float64 // duration in quarter lengths
}

// Rest is an unpitched duration.
type Rest struct {
	Quarter float64
}

// Clef marks a clef change within a part.
type Clef struct {
	Name string // "treble", "bass", ...
}

func (Note) element() {}
func (Rest) element() {}
func (Clef) element() {}

// noteLetters maps step letters to diatonic indices and pitch classes.
var noteLetters = map[string]struct {
	diatonic int
	chroma   int
}{
	"C": {0, 0},
	"D": {1, 2},
	"E": {2, 4},
	"F": {3, 5},
	"G": {4, 7},
	"A": {5, 9},
	"B": {6, 11},
}

// MIDI returns the MIDI note number (C4 = 60).
func (n Note) MIDI() int {
	letter, ok := noteLetters[n.Name]
	if !ok {
		return 0
	}
	return letter.chroma + n.Alter + 12*(n.Octave+1)
}

// diatonicStep returns the absolute diatonic step index across octaves.
func (n Note) diatonicStep() int {
	letter, ok := noteLetters[n.Name]
	if !ok {
		return 0
	}
	return letter.diatonic + 7*n.Octave
}

// Pitch returns the note's pitch name with accidental and octave, e.g. "F#4".
func (n Note) Pitch() string {
	accidental := ""
	if n.Alter > 0 {
		accidental = strings.Repeat("#", n.Alter)
	} else if n.Alter < 0 {
		accidental = strings.Repeat("-", -n.Alter)
	}
	return n.Name + accidental + strconv.Itoa(n.Octave)
}
