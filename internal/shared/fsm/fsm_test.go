package fsm

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "github.com/e2ecommerce/server/internal/shared/errors"
)

type testState string

const (
	stateA testState = "a"
	stateB testState = "b"
	stateC testState = "c"
)

var testTable = Table[testState]{
	stateA: {stateB},
	stateB: {stateC},
	stateC: {},
}

func TestTableCan(t *testing.T) {
	assert.True(t, testTable.Can(stateA, stateB))
	assert.False(t, testTable.Can(stateA, stateC))
	assert.False(t, testTable.Can(stateC, stateA))
	assert.False(t, testTable.Can("unknown", stateA))
}

func TestTableTerminal(t *testing.T) {
	assert.False(t, testTable.Terminal(stateA))
	assert.True(t, testTable.Terminal(stateC))
	assert.True(t, testTable.Terminal("unknown"))
}

func TestTableValidate(t *testing.T) {
	assert.NoError(t, testTable.Validate(stateA, stateB))

	err := testTable.Validate(stateB, stateA)
	assert.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidTransition))

	appErr, ok := apperrors.AsAppError(err)
	assert.True(t, ok)
	assert.Contains(t, appErr.Message, "b -> a")
}

func TestTableAllowedIsCopy(t *testing.T) {
	allowed := testTable.Allowed(stateA)
	assert.Equal(t, []testState{stateB}, allowed)

	allowed[0] = stateC
	assert.Equal(t, []testState{stateB}, testTable.Allowed(stateA))
}
