// Package gesture turns hand landmarks into one of a closed set of gesture labels.
package gesture

import "fmt"

// Label is a recognized gesture. Every classified hand yields exactly one Label;
// input that matches no rule resolves to Neutral.
type Label int

const (
	// Neutral is the resting pose and the fallback when no rule matches.
	Neutral Label = iota
	// FingerMouth is the index finger held at the corner of the mouth.
	FingerMouth
	// FingerUp is the index finger pointing straight up.
	FingerUp
	// HandChest is an open hand resting on the chest.
	HandChest

	// NumLabels is the number of labels.
	NumLabels = 4
)

var labelNames = [NumLabels]string{
	Neutral:     "neutral",
	FingerMouth: "finger_mouth",
	FingerUp:    "finger_up",
	HandChest:   "hand_chest",
}

// Labels returns every label in declaration order.
func Labels() []Label {
	return []Label{Neutral, FingerMouth, FingerUp, HandChest}
}

// Valid reports whether l is one of the declared labels.
func (l Label) Valid() bool {
	return l >= 0 && l < NumLabels
}

func (l Label) String() string {
	if !l.Valid() {
		return fmt.Sprintf("Label(%d)", int(l))
	}
	return labelNames[l]
}

// ParseLabel returns the label with the given name.
func ParseLabel(name string) (Label, error) {
	for i, n := range labelNames {
		if n == name {
			return Label(i), nil
		}
	}
	return Neutral, fmt.Errorf("unknown gesture label %q", name)
}

// MarshalText implements encoding.TextMarshaler.
func (l Label) MarshalText() ([]byte, error) {
	if !l.Valid() {
		return nil, fmt.Errorf("invalid gesture label %d", int(l))
	}
	return []byte(labelNames[l]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *Label) UnmarshalText(text []byte) error {
	parsed, err := ParseLabel(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}
