package step

import (
	"encoding/json"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGoNext_RefusedWhileIncomplete(t *testing.T) {
	c := New()
	r := c.GoNext()
	require.NotNil(t, r)
	assert.Equal(t, Owner, c.Active)
	assert.Equal(t, Owner, r.From)
	assert.Equal(t, r, c.LastRefusal)
}

func TestGoNext_AdvancesWhenComplete(t *testing.T) {
	c := New()
	c.ReportCompletion(Owner, true)
	require.Nil(t, c.GoNext())
	assert.Equal(t, Coverage, c.Active)
	assert.Nil(t, c.LastRefusal)
}

func TestGoBack_KeepsCompletion(t *testing.T) {
	c := New()
	assert.False(t, c.GoBack(), "no-op on the first step")

	c.ReportCompletion(Owner, true)
	require.Nil(t, c.GoNext())
	assert.True(t, c.GoBack())
	assert.Equal(t, Owner, c.Active)
	assert.True(t, c.IsComplete(Owner))
}

func TestJumpTo(t *testing.T) {
	tests := []struct {
		name      string
		setup     func(c *Controller)
		target    Step
		wantStep  Step
		wantRefus bool
	}{
		{"backwards is always allowed", func(c *Controller) {
			c.ReportCompletion(Owner, true)
			c.ReportCompletion(Coverage, true)
			c.GoNext()
			c.GoNext()
		}, Owner, Owner, false},
		{"current step", func(c *Controller) {}, Owner, Owner, false},
		{"next step when complete", func(c *Controller) { c.ReportCompletion(Owner, true) }, Coverage, Coverage, false},
		{"next step when incomplete", func(c *Controller) {}, Coverage, Owner, true},
		{"two ahead even when complete", func(c *Controller) {
			c.ReportCompletion(Owner, true)
			c.ReportCompletion(Coverage, true)
		}, Medical, Owner, true},
		{"invalid step", func(c *Controller) {}, Step(42), Owner, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New()
			tt.setup(c)
			r := c.JumpTo(tt.target)
			assert.Equal(t, tt.wantRefus, r != nil)
			assert.Equal(t, tt.wantStep, c.Active)
		})
	}
}

func TestCompletionReports(t *testing.T) {
	c := New()
	c.ObserveValidity(Owner, true)
	assert.True(t, c.IsComplete(Owner))

	c.ObserveValidity(Owner, false)
	assert.True(t, c.IsComplete(Owner), "edit-driven reports never lower completion")

	c.ReportCompletion(Owner, false)
	assert.False(t, c.IsComplete(Owner), "explicit reports do")

	c.ReportCompletion(Owner, true)
	c.ForceRevoke(Owner)
	assert.False(t, c.IsComplete(Owner))
	assert.True(t, c.EverCompleted[Owner])
}

func TestUngatedSteps(t *testing.T) {
	c := New()
	assert.True(t, c.IsComplete(Review))
	assert.True(t, c.IsComplete(Submission))

	custom := New(WithUngated(Medical))
	assert.True(t, custom.IsComplete(Medical))
	assert.False(t, custom.IsComplete(Review))
}

func TestGoNext_StopsAtSubmission(t *testing.T) {
	c := New()
	for _, s := range All() {
		c.ReportCompletion(s, true)
	}
	for range Count - 1 {
		require.Nil(t, c.GoNext())
	}
	assert.Equal(t, Submission, c.Active)
	assert.NotNil(t, c.GoNext())
}

func TestStepOrderInvariant_RandomWalk(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	c := New()
	for range 2000 {
		s := Step(rng.IntN(Count))
		switch rng.IntN(6) {
		case 0:
			c.GoNext()
		case 1:
			c.GoBack()
		case 2:
			c.JumpTo(s)
		case 3:
			c.ReportCompletion(s, rng.IntN(2) == 0)
		case 4:
			c.ObserveValidity(s, rng.IntN(2) == 0)
		case 5:
			c.ForceRevoke(s)
		}
		require.True(t, c.OrderHolds(), "active=%s complete=%v", c.Active, c.EverCompleted)
	}
}

func TestController_JSON(t *testing.T) {
	c := New()
	c.ReportCompletion(Owner, true)
	require.Nil(t, c.GoNext())

	raw, err := json.Marshal(c)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"active":"coverage"`)

	var decoded Controller
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, Coverage, decoded.Active)
	assert.True(t, decoded.IsComplete(Owner))
}

func TestParse(t *testing.T) {
	s, err := Parse("Beneficiary")
	require.NoError(t, err)
	assert.Equal(t, Beneficiary, s)
	_, err = Parse("checkout")
	require.Error(t, err)
}
