package agent

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/crewmesh/core"
	"github.com/hupe1980/crewmesh/model"
)

// MockCompleter records requests through testify's mock package.
type MockCompleter struct{ mock.Mock }

func (m *MockCompleter) Complete(ctx context.Context, req model.Request) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func TestNew(t *testing.T) {
	c := &MockCompleter{}
	a, err := New("Game Designer", "Design Snake", "Arcade veteran", c)
	require.NoError(t, err)

	assert.Equal(t, "Game Designer", a.Role())
	assert.Equal(t, "Design Snake", a.Goal())
	assert.Equal(t, "Arcade veteran", a.Backstory())
	assert.False(t, a.AllowDelegation())
	assert.Equal(t, "Agent(Game Designer)", a.String())
}

func TestNew_AllowDelegation(t *testing.T) {
	a, err := New("Lead", "", "", &MockCompleter{}, func(o *Options) { o.AllowDelegation = true })
	require.NoError(t, err)
	assert.True(t, a.AllowDelegation())
}

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name      string
		role      string
		completer model.Completer
	}{
		{"empty role", "", &MockCompleter{}},
		{"blank role", "   ", &MockCompleter{}},
		{"nil completer", "Tester", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := New(tt.role, "g", "b", tt.completer)
			assert.Nil(t, a)
			assert.ErrorIs(t, err, core.ErrValidation)
		})
	}
}

func TestAgent_Complete(t *testing.T) {
	c := &MockCompleter{}
	a, err := New("Tester", "Find bugs", "Meticulous", c)
	require.NoError(t, err)

	items := []model.ContextItem{{Source: "develop", Output: "<html>"}}
	want := model.Request{Role: "Tester", Goal: "Find bugs", Backstory: "Meticulous", Prompt: "Review", Context: items}
	c.On("Complete", mock.Anything, want).Return("report", nil)

	out, err := a.Complete(context.Background(), "Review", items)
	require.NoError(t, err)
	assert.Equal(t, "report", out)
	c.AssertExpectations(t)
}

func TestAgent_IdentityByReference(t *testing.T) {
	c := &MockCompleter{}
	a1, _ := New("Developer", "g", "b", c)
	a2, _ := New("Developer", "g", "b", c)

	assert.NotSame(t, a1, a2)
	assert.Equal(t, a1.Role(), a2.Role())
}
