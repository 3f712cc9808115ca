package viewer

import (
	"context"
	"testing"

	"acupoint-viewer/internal/config"
	"acupoint-viewer/internal/lasso"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePoints(t *testing.T) {
	pts, err := ParsePoints("10,20; 30.5,40\n50,60")
	require.NoError(t, err)
	assert.Equal(t, []lasso.Point{{X: 10, Y: 20}, {X: 30.5, Y: 40}, {X: 50, Y: 60}}, pts)

	_, err = ParsePoints("10;20")
	assert.Error(t, err)
	_, err = ParsePoints("a,1")
	assert.Error(t, err)
}

func headlessPrefs() config.Prefs {
	p := config.Default()
	p.Window.Width, p.Window.Height = 320, 200
	return p
}

func TestPickDemoHand(t *testing.T) {
	prefs := headlessPrefs()
	whole, err := ParsePoints("1,1 4,4 316,4 316,196 4,196 4,4")
	require.NoError(t, err)
	got, err := Pick(context.Background(), prefs, whole, nil)
	require.NoError(t, err)
	require.NotEmpty(t, got)
	for i := 1; i < len(got); i++ {
		assert.Less(t, got[i-1].ID, got[i].ID)
	}

	corner, err := ParsePoints("1,1 4,4 20,4 20,12 4,12")
	require.NoError(t, err)
	got, err = Pick(context.Background(), prefs, corner, nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestPickNeedsAGesture(t *testing.T) {
	_, err := Pick(context.Background(), headlessPrefs(), []lasso.Point{{X: 1, Y: 1}, {X: 9, Y: 9}}, nil)
	assert.Error(t, err)
}
