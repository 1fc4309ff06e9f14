package resultx

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOfWrapsValueAndError(t *testing.T) {
	t.Run("value and no error", func(t *testing.T) {
		r := Of(42, nil)
		v, err := r.Unwrap()
		assert.Equal(t, 42, v)
		assert.NoError(t, err)
		assert.True(t, r.IsOk())
	})

	t.Run("value and error", func(t *testing.T) {
		testErr := errors.New("boom")
		r := Of(42, testErr)
		v, err := r.Unwrap()
		assert.Equal(t, 42, v)
		assert.Equal(t, testErr, err)
		assert.False(t, r.IsOk())
	})
}

func TestOkAndErrConstructors(t *testing.T) {
	ok := Ok("hello")
	assert.True(t, ok.IsOk())
	assert.Equal(t, "hello", ok.Value())
	assert.NoError(t, ok.Error())

	testErr := errors.New("failed")
	failed := Err[string](testErr)
	assert.False(t, failed.IsOk())
	assert.Equal(t, "", failed.Value())
	assert.Equal(t, testErr, failed.Error())
}

func TestResultString(t *testing.T) {
	assert.Equal(t, "value: 7", Ok(7).String())
	assert.Equal(t, "error: boom", Err[int](errors.New("boom")).String())
}

func TestMapTransformsOnlyOnSuccess(t *testing.T) {
	mapped := Map(Ok(3), func(v int) string { return "n=3" })
	assert.True(t, mapped.IsOk())
	assert.Equal(t, "n=3", mapped.Value())

	testErr := errors.New("bad input")
	failedMap := Map(Err[int](testErr), func(v int) string { return "unreachable" })
	assert.False(t, failedMap.IsOk())
	assert.Equal(t, testErr, failedMap.Error())
}
