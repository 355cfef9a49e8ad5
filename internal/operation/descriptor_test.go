package operation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDescriptor_Validate(t *testing.T) {
	require.NoError(t, testDescriptor().Validate())

	tests := []struct {
		name   string
		mutate func(d *Descriptor)
		errMsg string
	}{
		{
			name:   "missing command",
			mutate: func(d *Descriptor) { d.Command = "" },
			errMsg: "needs both Name and Command",
		},
		{
			name: "duplicate parameter",
			mutate: func(d *Descriptor) {
				d.Params = append(d.Params, ParameterSpec{Name: "thingid", Position: NoPosition})
			},
			errMsg: "duplicate parameter",
		},
		{
			name: "shared position",
			mutate: func(d *Descriptor) {
				d.Params[1].Position = 0
			},
			errMsg: "share position",
		},
		{
			name: "gap in positions",
			mutate: func(d *Descriptor) {
				d.Params[0].Position = 1
			},
			errMsg: "not contiguous",
		},
		{
			name: "two pipeline value parameters",
			mutate: func(d *Descriptor) {
				d.Params[1].PipelineValue = true
			},
			errMsg: "at most one parameter",
		},
		{
			name:   "unknown pass-through",
			mutate: func(d *Descriptor) { d.PassThrough = "Nope" },
			errMsg: "pass-through parameter",
		},
		{
			name:   "unknown target",
			mutate: func(d *Descriptor) { d.Target = "Nope" },
			errMsg: "confirmation target",
		},
		{
			name:   "bad default select",
			mutate: func(d *Descriptor) { d.DefaultSelect = "Nope" },
			errMsg: "default select",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := testDescriptor()
			tt.mutate(d)
			err := d.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestDescriptor_Positional(t *testing.T) {
	d := &Descriptor{
		Params: []ParameterSpec{
			{Name: "B", Position: 1},
			{Name: "Named", Position: NoPosition},
			{Name: "A", Position: 0},
		},
	}

	pos := d.Positional()
	require.Len(t, pos, 2)
	assert.Equal(t, "A", pos[0].Name)
	assert.Equal(t, "B", pos[1].Name)
}

func TestState_Terminal(t *testing.T) {
	assert.False(t, StateBound.Terminal())
	assert.False(t, StateInvoked.Terminal())
	assert.True(t, StateDeclined.Terminal())
	assert.True(t, StateSucceeded.Terminal())
	assert.True(t, StateFailed.Terminal())
	assert.Equal(t, "declined", StateDeclined.String())
	assert.Equal(t, "unknown", State(99).String())
}

func TestResult_ExactlyOnePopulated(t *testing.T) {
	r := &Result{Operation: "UpdateThing"}

	r.Succeed("out", "resp")
	assert.True(t, r.Succeeded())
	assert.Nil(t, r.Err)

	r.Fail(assert.AnError)
	assert.True(t, r.Failed())
	assert.Nil(t, r.Output)
	assert.Nil(t, r.Response)

	r.Decline()
	assert.True(t, r.Declined())
	assert.Nil(t, r.Err)
	assert.Nil(t, r.Output)
}
