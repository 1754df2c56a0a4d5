package notation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/cantuslab/cantus/internal/score"
)

// Prefix tags a tiny notation string. It is optional on input.
const Prefix = "tinyNotation:"

var (
	timeSigRe = regexp.MustCompile(`^\d+/\d+$`)
	noteRe    = regexp.MustCompile(`^([A-G]+|[a-g])('*)([#\-]*)(\d*)(\.*)$`)
	restRe    = regexp.MustCompile(`^r(\d*)(\.*)$`)
)

// Parse converts a tiny notation string into a part.
//
// The grammar follows the common tiny notation conventions: an optional
// "tinyNotation:" tag, an optional time signature ("4/4"), then whitespace
// separated tokens. "r" is a rest. Pitch tokens use case and octave marks
// (CC = C2, C = C3, c = C4, c' = C5), optional accidentals ("#", "-") and
// optional duration digits (4 = quarter, 8 = eighth). Durations are sticky:
// a token without digits reuses the previous token's duration.
func Parse(input string) (*score.Part, error) {
	text := strings.TrimSpace(input)
	text = strings.TrimPrefix(text, Prefix)
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("empty notation string")
	}

	part := &score.Part{}
	quarter := 1.0 // sticky duration, quarter note by default

	tokens := strings.Fields(text)
	for i, token := range tokens {
		if i == 0 && timeSigRe.MatchString(token) {
			part.TimeSignature = token
			continue
		}

		if m := restRe.FindStringSubmatch(token); m != nil {
			q, err := duration(m[1], m[2], quarter)
			if err != nil {
				return nil, fmt.Errorf("token %q: %w", token, err)
			}
			quarter = q
			part.Append(score.Rest{Quarter: q})
			continue
		}

		if m := noteRe.FindStringSubmatch(token); m != nil {
			note, err := parseNote(m, quarter)
			if err != nil {
				return nil, fmt.Errorf("token %q: %w", token, err)
			}
			quarter = note.Quarter
			part.Append(note)
			continue
		}

		return nil, fmt.Errorf("unrecognized token: %q", token)
	}

	return part, nil
}

func parseNote(m []string, sticky float64) (score.Note, error) {
	letters, ticks, accidentals, digits, dots := m[1], m[2], m[3], m[4], m[5]

	name := strings.ToUpper(letters[:1])
	octave := 0
	if letters[0] >= 'a' && letters[0] <= 'g' {
		// Lowercase starts at C4; each apostrophe raises an octave.
		octave = 4 + len(ticks)
	} else {
		// Uppercase starts at C3; each doubled letter drops an octave.
		for i := 1; i < len(letters); i++ {
			if letters[i] != letters[0] {
				return score.Note{}, fmt.Errorf("mixed letters in pitch")
			}
		}
		if ticks != "" {
			return score.Note{}, fmt.Errorf("octave marks on uppercase pitch")
		}
		octave = 3 - (len(letters) - 1)
	}

	alter := 0
	for _, r := range accidentals {
		switch r {
		case '#':
			alter++
		case '-':
			alter--
		}
	}

	q, err := duration(digits, dots, sticky)
	if err != nil {
		return score.Note{}, err
	}

	return score.Note{Name: name, Octave: octave, Alter: alter, Quarter: q}, nil
}

func duration(digits, dots string, sticky float64) (float64, error) {
	q := sticky
	if digits != "" {
		var denom int
		if _, err := fmt.Sscanf(digits, "%d", &denom); err != nil || denom == 0 {
			return 0, fmt.Errorf("invalid duration %q", digits)
		}
		switch denom {
		case 1, 2, 4, 8, 16, 32, 64:
			q = 4.0 / float64(denom)
		default:
			return 0, fmt.Errorf("unsupported duration %d", denom)
		}
	}
	// Each dot adds half of the preceding value.
	add := q / 2
	for range dots {
		q += add
		add /= 2
	}
	return q, nil
}
