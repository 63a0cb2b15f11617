package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemDB_PutGetDelete(t *testing.T) {
	db := NewMemDB()
	require.NoError(t, db.Put([]byte("k1"), []byte("v1")))

	value, err := db.Get([]byte("k1"))
	require.NoError(t, err)
	assert.Equal(t, []byte("v1"), value)

	ok, err := db.Has([]byte("k1"))
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, db.Delete([]byte("k1")))
	_, err = db.Get([]byte("k1"))
	assert.ErrorIs(t, err, ErrKeyNotFound)
}

func TestMemDB_GetReturnsCopy(t *testing.T) {
	db := NewMemDB()
	require.NoError(t, db.Put([]byte("k"), []byte("abc")))

	value, err := db.Get([]byte("k"))
	require.NoError(t, err)
	value[0] = 'x'

	again, err := db.Get([]byte("k"))
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), again)
}

func TestMemDB_IteratePrefixOrdered(t *testing.T) {
	db := NewMemDB()
	require.NoError(t, db.Put([]byte("a/2"), []byte("2")))
	require.NoError(t, db.Put([]byte("a/1"), []byte("1")))
	require.NoError(t, db.Put([]byte("b/1"), []byte("x")))

	var keys []string
	err := db.IteratePrefix([]byte("a/"), func(key, value []byte) error {
		keys = append(keys, string(key))
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a/1", "a/2"}, keys)
}

func TestMemDB_IteratePrefixStopsOnError(t *testing.T) {
	db := NewMemDB()
	require.NoError(t, db.Put([]byte("a/1"), []byte("1")))
	require.NoError(t, db.Put([]byte("a/2"), []byte("2")))

	calls := 0
	err := db.IteratePrefix([]byte("a/"), func(key, value []byte) error {
		calls++
		return assert.AnError
	})
	assert.Error(t, err)
	assert.Equal(t, 1, calls)
}
