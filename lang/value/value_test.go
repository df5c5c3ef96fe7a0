package value_test

import (
	"testing"

	"github.com/mna/nenuphar/lang/token"
	"github.com/mna/nenuphar/lang/value"
	"github.com/stretchr/testify/require"
)

func TestBoxFixnum(t *testing.T) {
	got, err := value.BoxFixnum(0, 0)
	require.NoError(t, err)
	require.EqualValues(t, 0, got)

	got, err = value.BoxFixnum(0, 42)
	require.NoError(t, err)
	require.EqualValues(t, 42<<2, got)

	got, err = value.BoxFixnum(0, value.MaxFixnum)
	require.NoError(t, err)
	require.EqualValues(t, uint64(value.MaxFixnum)<<2, got)
}

func TestBoxFixnumOverflow(t *testing.T) {
	_, err := value.BoxFixnum(token.MakePos(1, 1), value.MaxFixnum+1)
	require.Error(t, err)
}

func TestBoxBool(t *testing.T) {
	require.EqualValues(t, 0x1F, value.BoxBool(false))
	require.EqualValues(t, 1<<7|0x1F, value.BoxBool(true))
}

func TestBoxChar(t *testing.T) {
	require.EqualValues(t, 'a'<<8|0x0F, value.BoxChar('a'))
}

func TestBoxEmptyList(t *testing.T) {
	require.EqualValues(t, 0x2F, value.BoxEmptyList())
}
