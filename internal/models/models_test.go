package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONMap_ValueScan(t *testing.T) {
	m := JSONMap{"reversalOf": "line-1", "n": float64(2)}
	v, err := m.Value()
	require.NoError(t, err)

	var out JSONMap
	require.NoError(t, out.Scan(v))
	assert.Equal(t, m, out)

	require.NoError(t, out.Scan([]byte(`{"a":true}`)))
	assert.Equal(t, true, out["a"])

	require.NoError(t, out.Scan(nil))
	assert.Nil(t, out)

	assert.Error(t, out.Scan(42))
}

func TestStringList_ValueScan(t *testing.T) {
	l := StringList{"coach", "front-desk"}
	v, err := l.Value()
	require.NoError(t, err)

	var out StringList
	require.NoError(t, out.Scan(v))
	assert.Equal(t, l, out)

	var empty StringList
	v, err = empty.Value()
	require.NoError(t, err)
	assert.Equal(t, "[]", v)
}
