package services

import (
	"testing"

	"github.com/AliShafique28/task-management-system-1/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCasOutcomeMatchedWrite(t *testing.T) {
	assert.NoError(t, casOutcome(1, nil))
}

func TestCasOutcomeConcurrentWriteIsConflict(t *testing.T) {
	// The update matched nothing but the project still exists: a concurrent
	// writer bumped the version first.
	err := casOutcome(0, nil)
	require.Error(t, err)
	assert.Equal(t, errs.KindConflict, errs.KindOf(err))
}

func TestCasOutcomeVanishedProject(t *testing.T) {
	err := casOutcome(0, errs.NotFound("Project not found"))
	require.Error(t, err)
	assert.Equal(t, errs.KindNotFound, errs.KindOf(err))
}
