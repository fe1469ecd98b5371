package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLifecycle_HappyPath(t *testing.T) {
	l := NewLifecycle()
	assert.Equal(t, PhaseIdle, l.Phase())

	require.NoError(t, l.StartSearch())
	assert.Equal(t, PhaseSearching, l.Phase())

	require.NoError(t, l.Display(1))
	assert.Equal(t, PhaseDisplayed, l.Phase())
	assert.Equal(t, 1, l.Page())

	// Page navigation stays in Displayed.
	require.NoError(t, l.GoToPage(3))
	assert.Equal(t, PhaseDisplayed, l.Phase())
	assert.Equal(t, 3, l.Page())

	l.Clear()
	assert.Equal(t, PhaseIdle, l.Phase())
	assert.Equal(t, 0, l.Page())
}

func TestLifecycle_ErrorDoesNotBlockNewSearch(t *testing.T) {
	l := NewLifecycle()
	require.NoError(t, l.StartSearch())
	require.NoError(t, l.Fail())
	assert.Equal(t, PhaseError, l.Phase())

	require.NoError(t, l.StartSearch())
	assert.Equal(t, PhaseSearching, l.Phase())
}

func TestLifecycle_NewSearchSupersedesDisplayed(t *testing.T) {
	l := NewLifecycle()
	require.NoError(t, l.StartSearch())
	require.NoError(t, l.Display(2))

	require.NoError(t, l.StartSearch())
	assert.Equal(t, PhaseSearching, l.Phase())
	assert.Equal(t, 0, l.Page())
}

func TestLifecycle_IllegalTransitions(t *testing.T) {
	l := NewLifecycle()

	assert.Error(t, l.Display(1), "cannot display without searching")
	assert.Error(t, l.GoToPage(2), "cannot page from idle")
	assert.Error(t, l.Fail(), "cannot fail from idle")

	require.NoError(t, l.StartSearch())
	assert.Error(t, l.StartSearch(), "double start is rejected")

	require.NoError(t, l.Display(1))
	assert.Error(t, l.GoToPage(0), "page must be positive")
}
