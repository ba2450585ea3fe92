package proportion

import (
	"fmt"
	"strings"
)

// Alternative is the direction of the alternative hypothesis.
type Alternative int

const (
	// Greater tests that the treatment converts better than the control.
	Greater Alternative = iota
	// Less tests that the treatment converts worse than the control.
	Less
	// TwoSided tests that the rates differ in either direction.
	TwoSided
)

func (a Alternative) String() string {
	switch a {
	case Greater:
		return "greater"
	case Less:
		return "less"
	case TwoSided:
		return "two-sided"
	}
	return fmt.Sprintf("Alternative(%d)", int(a))
}

// Valid reports whether a is one of the defined alternatives.
func (a Alternative) Valid() bool {
	return a >= Greater && a <= TwoSided
}

// ParseAlternative accepts the names returned by String. An empty string
// means Greater.
func ParseAlternative(s string) (Alternative, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "greater", "one-sided":
		return Greater, nil
	case "less":
		return Less, nil
	case "two-sided", "twosided", "two_sided":
		return TwoSided, nil
	}
	return Greater, domainErrorf("alternative", "unknown alternative %q", s)
}

func (a Alternative) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *Alternative) UnmarshalText(text []byte) error {
	v, err := ParseAlternative(string(text))
	if err != nil {
		return err
	}
	*a = v
	return nil
}
