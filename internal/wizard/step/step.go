// Package step implements the top-level wizard controller: which of the seven
// steps is active and which steps may be reached from it.
package step

import (
	"strings"

	dErrors "intake/pkg/domain-errors"
)

// Step is one stage of the wizard, in order.
type Step int

const (
	Owner Step = iota
	Coverage
	Medical
	Beneficiary
	Payment
	Review
	Submission
)

// Count is the number of wizard steps.
const Count = int(Submission) + 1

var stepNames = [Count]string{"owner", "coverage", "medical", "beneficiary", "payment", "review", "submission"}

// All returns every step in order.
func All() []Step {
	out := make([]Step, Count)
	for i := range out {
		out[i] = Step(i)
	}
	return out
}

func (s Step) Valid() bool { return s >= Owner && s <= Submission }

func (s Step) String() string {
	if !s.Valid() {
		return "unknown"
	}
	return stepNames[s]
}

// Parse accepts a step name.
func Parse(name string) (Step, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for i, candidate := range stepNames {
		if candidate == n {
			return Step(i), nil
		}
	}
	return 0, dErrors.New(dErrors.CodeInvalidInput, "unknown step: "+name)
}

func (s Step) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Step) UnmarshalText(b []byte) error {
	parsed, err := Parse(string(b))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
