package commands

import (
	"bytes"
	"flag"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRegistry(ran *string, model *string) *Registry {
	r := NewRegistry()
	runFS := flag.NewFlagSet("run", flag.ContinueOnError)
	runFS.StringVar(model, "model", "", "model source")
	r.Register("run", "open the viewer window", runFS, func() error {
		*ran = "run"
		return nil
	})
	pickFS := flag.NewFlagSet("pick", flag.ContinueOnError)
	r.Register("pick", "headless lasso pick", pickFS, func() error {
		*ran = "pick:" + pickFS.Arg(0)
		return nil
	})
	return r
}

func TestExecute(t *testing.T) {
	var ran, model string
	r := newRegistry(&ran, &model)

	require.NoError(t, r.Execute([]string{"run", "-model", "hand.obj"}))
	assert.Equal(t, "run", ran)
	assert.Equal(t, "hand.obj", model)

	require.NoError(t, r.Execute([]string{"pick", "10,10"}))
	assert.Equal(t, "pick:10,10", ran)
}

func TestExecuteDefaultAndErrors(t *testing.T) {
	var ran, model string
	r := newRegistry(&ran, &model)

	assert.ErrorIs(t, r.Execute(nil), ErrUsage)
	assert.ErrorIs(t, r.Execute([]string{"fly"}), ErrUsage)

	r.SetDefault("run")
	require.NoError(t, r.Execute(nil))
	assert.Equal(t, "run", ran)

	var out bytes.Buffer
	r.cmds["run"].FlagSet.SetOutput(&out)
	assert.Error(t, r.Execute([]string{"run", "-nope"}))
}

func TestUsage(t *testing.T) {
	var ran, model string
	var out bytes.Buffer
	newRegistry(&ran, &model).Usage(&out)
	assert.Equal(t, "commands:\n  pick       headless lasso pick\n  run        open the viewer window\n", out.String())
}
