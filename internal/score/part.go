package score

// Part is an ordered sequence of elements, one voice of a work.
type Part struct {
	TimeSignature string // "4/4", empty when unspecified
	Elements      []Element
}

// Append adds an element to the end of the part.
func (p *Part) Append(e Element) {
	p.Elements = append(p.Elements, e)
}

// Notes returns the pitched elements of the part in order.
func (p *Part) Notes() []Note {
	var notes []Note
	for _, e := range p.Elements {
		if n, ok := e.(Note); ok {
			notes = append(notes, n)
		}
	}
	return notes
}

// Len returns the number of elements in the part.
func (p *Part) Len() int {
	return len(p.Elements)
}

// MIDIPitches returns the MIDI numbers of the part's notes as floats,
// the shape statistical routines consume.
func (p *Part) MIDIPitches() []float64 {
	notes := p.Notes()
	pitches := make([]float64, len(notes))
	for i, n := range notes {
		pitches[i] = float64(n.MIDI())
	}
	return pitches
}
