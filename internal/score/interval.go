package score

import (
	"fmt"
	"strconv"
)

// Interval is the melodic interval between two notes.
type Interval struct {
	Semitones int // signed, positive = ascending
	Generic   int // undirected generic interval number, 1 = unison
	Quality   string
}

// semitone sizes of perfect/major simple intervals by generic number.
var simpleSizes = [...]int{0, 0, 2, 4, 5, 7, 9, 11, 12}

// perfectGeneric marks generic numbers whose base quality is perfect.
var perfectGeneric = map[int]bool{1: true, 4: true, 5: true, 8: true}

// NewInterval computes the interval from n1 to n2.
func NewInterval(n1, n2 Note) (Interval, error) {
	if _, ok := noteLetters[n1.Name]; !ok {
		return Interval{}, fmt.Errorf("invalid note name: %q", n1.Name)
	}
	if _, ok := noteLetters[n2.Name]; !ok {
		return Interval{}, fmt.Errorf("invalid note name: %q", n2.Name)
	}

	semitones := n2.MIDI() - n1.MIDI()
	steps := n2.diatonicStep() - n1.diatonicStep()

	generic := abs(steps) + 1
	chromatic := abs(semitones)

	// Reduce compound intervals to their simple equivalents for naming.
	simpleGeneric := generic
	simpleChromatic := chromatic
	for simpleGeneric > 8 {
		simpleGeneric -= 7
		simpleChromatic -= 12
	}
	if simpleGeneric == 1 && generic > 1 {
		// Octave multiples read as octaves, not unisons.
		simpleGeneric = 8
		simpleChromatic += 12
	}

	q, err := quality(simpleGeneric, simpleChromatic)
	if err != nil {
		return Interval{}, err
	}

	return Interval{
		Semitones: semitones,
		Generic:   generic,
		Quality:   q,
	}, nil
}

// Name returns the undirected simple interval name, e.g. "M2", "P5".
func (iv Interval) Name() string {
	simple := iv.Generic
	for simple > 8 {
		simple -= 7
	}
	return iv.Quality + strconv.Itoa(simple)
}

// Directed returns the signed generic number, negative for descending.
func (iv Interval) Directed() int {
	if iv.Semitones < 0 {
		return -iv.Generic
	}
	return iv.Generic
}

func quality(generic, chromatic int) (string, error) {
	if generic < 1 || generic > 8 {
		return "", fmt.Errorf("generic interval out of range: %d", generic)
	}
	diff := chromatic - simpleSizes[generic]

	if perfectGeneric[generic] {
		switch diff {
		case 0:
			return "P", nil
		case 1:
			return "A", nil
		case -1:
			return "d", nil
		}
	} else {
		switch diff {
		case 0:
			return "M", nil
		case -1:
			return "m", nil
		case 1:
			return "A", nil
		case -2:
			return "d", nil
		}
	}
	return "", fmt.Errorf("unnameable interval: generic %d, %d semitones", generic, chromatic)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
