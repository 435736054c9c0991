package imgerr

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKinds(t *testing.T) {
	t.Run("constructors wrap their kind", func(t *testing.T) {
		assert.ErrorIs(t, InvalidArgument("width %d", -1), ErrInvalidArgument)
		assert.ErrorIs(t, Range("offset %d", 12), ErrRange)
		assert.ErrorIs(t, IllegalState("immutable"), ErrIllegalState)
		assert.Equal(t, "invalid argument: width -1", InvalidArgument("width %d", -1).Error())
	})

	t.Run("load keeps the cause", func(t *testing.T) {
		err := Load(io.ErrUnexpectedEOF)
		assert.ErrorIs(t, err, ErrLoad)
		assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
		assert.False(t, errors.Is(err, ErrDecode))
	})

	t.Run("load without cause", func(t *testing.T) {
		assert.Equal(t, ErrLoad, Load(nil))
	})
}
