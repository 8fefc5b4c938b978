package step

import "fmt"

// Refusal is returned when a navigation request is not allowed.
type Refusal struct {
	From    Step   `json:"from"`
	To      Step   `json:"to"`
	Message string `json:"message"`
}

// Status is the externally visible state of one step.
type Status struct {
	Step      Step `json:"step"`
	Complete  bool `json:"complete"`
	Active    bool `json:"active"`
	Reachable bool `json:"reachable"`
}

// Controller holds the wizard position and the completion flags.
//
// Invariants:
//   - 0 <= Active < Count
//   - Active > 0 implies every earlier step has EverCompleted set
//   - completion is only lowered by an explicit report or ForceRevoke
type Controller struct {
	Active        Step     `json:"active"`
	Complete      []bool   `json:"complete"`
	EverCompleted []bool   `json:"everCompleted"`
	LastRefusal   *Refusal `json:"lastRefusal,omitempty"`
}

type Option func(*Controller)

// WithUngated marks steps that have no gating requirement; they start complete.
// Without this option Review and Submission are ungated.
func WithUngated(steps ...Step) Option {
	return func(c *Controller) {
		for i := range c.Complete {
			c.Complete[i] = false
			c.EverCompleted[i] = false
		}
		for _, s := range steps {
			if s.Valid() {
				c.Complete[s] = true
				c.EverCompleted[s] = true
			}
		}
	}
}

func New(opts ...Option) *Controller {
	c := &Controller{
		Active:        Owner,
		Complete:      make([]bool, Count),
		EverCompleted: make([]bool, Count),
	}
	WithUngated(Review, Submission)(c)
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GoNext advances one step when the active step is complete.
func (c *Controller) GoNext() *Refusal {
	c.normalize()
	if c.Active == Submission {
		return c.refuse(c.Active, "already at the last step")
	}
	if !c.Complete[c.Active] {
		return c.refuse(c.Active+1, fmt.Sprintf("complete the %s step before continuing", c.Active))
	}
	c.Active++
	c.LastRefusal = nil
	return nil
}

// GoBack moves to the previous step. Completion flags are kept. It reports
// whether the position changed.
func (c *Controller) GoBack() bool {
	if c.Active == Owner {
		return false
	}
	c.Active--
	c.LastRefusal = nil
	return true
}

// JumpTo moves to any step at or before the active one, or to the next step
// when the active one is complete.
func (c *Controller) JumpTo(target Step) *Refusal {
	c.normalize()
	switch {
	case !target.Valid():
		return c.refuse(c.Active, "unknown step")
	case target <= c.Active:
		c.Active = target
	case target == c.Active+1 && c.Complete[c.Active]:
		c.Active = target
	case target == c.Active+1:
		return c.refuse(target, fmt.Sprintf("complete the %s step before continuing", c.Active))
	default:
		return c.refuse(target, fmt.Sprintf("cannot skip ahead from %s to %s", c.Active, target))
	}
	c.LastRefusal = nil
	return nil
}

// ReportCompletion records the step's own verdict. An explicit false lowers
// the flag.
func (c *Controller) ReportCompletion(s Step, complete bool) {
	c.normalize()
	if !s.Valid() {
		return
	}
	c.Complete[s] = complete
	if complete {
		c.EverCompleted[s] = true
	}
}

// ObserveValidity is the edit-driven report: it raises completion when the
// step's data becomes valid and never lowers it.
func (c *Controller) ObserveValidity(s Step, valid bool) {
	if valid {
		c.ReportCompletion(s, true)
	}
}

// ForceRevoke clears a step's completion flag.
func (c *Controller) ForceRevoke(s Step) {
	c.normalize()
	if s.Valid() {
		c.Complete[s] = false
	}
}

func (c *Controller) IsComplete(s Step) bool {
	c.normalize()
	return s.Valid() && c.Complete[s]
}

// CanReach reports whether JumpTo(s) would succeed.
func (c *Controller) CanReach(s Step) bool {
	c.normalize()
	return s.Valid() && (s <= c.Active || (s == c.Active+1 && c.Complete[c.Active]))
}

// Statuses returns the state of every step.
func (c *Controller) Statuses() []Status {
	c.normalize()
	out := make([]Status, 0, Count)
	for _, s := range All() {
		out = append(out, Status{
			Step:      s,
			Complete:  c.Complete[s],
			Active:    s == c.Active,
			Reachable: c.CanReach(s),
		})
	}
	return out
}

// OrderHolds checks that every step before the active one was complete at
// some point.
func (c *Controller) OrderHolds() bool {
	c.normalize()
	for s := Owner; s < c.Active; s++ {
		if !c.EverCompleted[s] {
			return false
		}
	}
	return true
}

// Clone returns a deep copy.
func (c *Controller) Clone() *Controller {
	cp := *c
	cp.Complete = append([]bool(nil), c.Complete...)
	cp.EverCompleted = append([]bool(nil), c.EverCompleted...)
	if c.LastRefusal != nil {
		r := *c.LastRefusal
		cp.LastRefusal = &r
	}
	return &cp
}

func (c *Controller) refuse(to Step, msg string) *Refusal {
	r := &Refusal{From: c.Active, To: to, Message: msg}
	c.LastRefusal = r
	return r
}

// normalize repairs slices decoded from an older or truncated document.
func (c *Controller) normalize() {
	for len(c.Complete) < Count {
		c.Complete = append(c.Complete, false)
	}
	for len(c.EverCompleted) < Count {
		c.EverCompleted = append(c.EverCompleted, false)
	}
}
