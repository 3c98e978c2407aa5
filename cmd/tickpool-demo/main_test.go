package main

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_Examples(t *testing.T) {
	for name := range examples {
		t.Run(name, func(t *testing.T) {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			err := run(ctx, config{
				Workers:  2,
				Tick:     time.Millisecond,
				Jobs:     4,
				MaxDelay: time.Millisecond,
				Example:  name,
			})
			require.NoError(t, err)
			assert.NoError(t, ctx.Err(), "example did not finish before the deadline")
		})
	}
}

func TestRun_UnknownExample(t *testing.T) {
	err := run(context.Background(), config{Workers: 1, Tick: time.Millisecond, Example: "nope"})
	assert.ErrorContains(t, err, `unknown example "nope"`)
}

func TestRootCmd_EnvOverridesDefaults(t *testing.T) {
	t.Setenv("TICKPOOL_EXAMPLE", "nope")

	cmd := newRootCmd()
	cmd.SetArgs([]string{})
	cmd.SilenceErrors = true
	err := cmd.ExecuteContext(context.Background())
	assert.ErrorContains(t, err, `unknown example "nope"`)
}
