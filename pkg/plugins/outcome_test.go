package plugins

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantKind OutcomeKind
	}{
		{"nil error is success", nil, OutcomeSuccess},
		{"skip signal", Skipf("no 'src' specified"), OutcomeSkipped},
		{"config error signal", ConfigErrorf("no account specified"), OutcomeConfigError},
		{"anything else is fatal", fmt.Errorf("disk full"), OutcomeFatal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind, reason := Classify(tt.err)
			assert.Equal(t, tt.wantKind, kind)
			if tt.err == nil {
				assert.Empty(t, reason)
			} else {
				assert.NotEmpty(t, reason)
			}
		})
	}
}

func TestControlSignals(t *testing.T) {
	skip := Skipf("drive %s not mounted", "/mnt/backup")
	assert.True(t, IsSkip(skip))
	assert.False(t, IsConfigError(skip))

	cfgErr := ConfigErrorf("expected a table")
	assert.True(t, IsConfigError(cfgErr))
	assert.False(t, IsSkip(cfgErr))

	assert.False(t, IsSkip(fmt.Errorf("plain")))
}

func TestOutcomeDegrading(t *testing.T) {
	assert.False(t, Outcome{Kind: OutcomeSuccess}.Degrading())
	assert.True(t, Outcome{Kind: OutcomeSkipped}.Degrading())
	assert.True(t, Outcome{Kind: OutcomeConfigError}.Degrading())
	assert.False(t, Outcome{Kind: OutcomeFatal}.Degrading())
}

func TestAnyDegraded(t *testing.T) {
	clean := []Outcome{{Kind: OutcomeSuccess}, {Kind: OutcomeSuccess}}
	assert.False(t, AnyDegraded(clean))

	mixed := []Outcome{{Kind: OutcomeSuccess}, {Kind: OutcomeConfigError}}
	assert.True(t, AnyDegraded(mixed))

	assert.False(t, AnyDegraded(nil))
}
