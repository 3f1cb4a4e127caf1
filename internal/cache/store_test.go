package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type exampleStruct struct {
	ID   int
	Name string
}

func TestInMemoryStore_GetExistingValue_StructType(t *testing.T) {
	s := NewInMemoryStore[exampleStruct]("test", DefaultExpiration, DefaultCleanupInterval)
	s.Set("ex:1", exampleStruct{ID: 1, Name: "apple"}, DefaultExpiration)

	got, ok := s.Get("ex:1")

	require.True(t, ok)
	require.Equal(t, "apple", got.Name)
}

func TestInMemoryStore_GetMissing(t *testing.T) {
	s := NewInMemoryStore[int]("test", DefaultExpiration, DefaultCleanupInterval)

	got, ok := s.Get("nope")

	require.False(t, ok)
	require.Zero(t, got)
}

func TestInMemoryStore_GetWithWrongType(t *testing.T) {
	s := NewInMemoryStore[int]("test", DefaultExpiration, DefaultCleanupInterval)
	s.cache.Set("k", "not an int", DefaultExpiration)

	_, ok := s.Get("k")

	require.False(t, ok)
}

func TestInMemoryStore_Expiry(t *testing.T) {
	s := NewInMemoryStore[int]("test", DefaultExpiration, DefaultCleanupInterval)
	s.Set("k", 1, time.Millisecond)

	require.Eventually(t, func() bool {
		_, ok := s.Get("k")
		return !ok
	}, time.Second, 5*time.Millisecond)
}

func TestInMemoryStore_DeleteAndFlush(t *testing.T) {
	s := NewInMemoryStore[int]("test", DefaultExpiration, DefaultCleanupInterval)
	s.Set("a", 1, 0)
	s.Set("b", 2, 0)
	s.Set("c", 3, 0)

	s.Delete("a")
	_, ok := s.Get("a")
	require.False(t, ok)
	require.Equal(t, 2, s.Len())

	s.Delete()
	require.Equal(t, 2, s.Len())

	s.Flush()
	require.Equal(t, 0, s.Len())
}
