package terminology

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_LookupBuildsOnce(t *testing.T) {
	r := NewRegistry()
	calls := 0
	r.Register("mods", func() (*Terminology, error) {
		calls++
		return NewBuilder().Add(modsSpecs(modsNamespace)...).Build()
	})

	first, err := r.Lookup("mods")
	require.NoError(t, err)
	second, err := r.Lookup("mods")
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, calls)
}

func TestRegistry_Concurrent(t *testing.T) {
	r := NewRegistry()
	var mu sync.Mutex
	calls := 0
	r.Register("mods", func() (*Terminology, error) {
		mu.Lock()
		calls++
		mu.Unlock()
		return NewBuilder().Add(modsSpecs(modsNamespace)...).Build()
	})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := r.Lookup("mods")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, calls)
}

func TestRegistry_Errors(t *testing.T) {
	r := NewRegistry()

	_, err := r.Lookup("missing")
	assert.Error(t, err)

	r.Register("broken", func() (*Terminology, error) {
		return NewBuilder().Add(Define("person", WithRef("missing"))).Build()
	})
	_, err = r.Lookup("broken")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownRef))
}

func TestRegistry_ReplaceDropsCache(t *testing.T) {
	r := NewRegistry()
	r.Register("t", func() (*Terminology, error) {
		return NewBuilder().Add(Define("a")).Build()
	})
	first, err := r.Lookup("t")
	require.NoError(t, err)
	assert.True(t, first.HasTerm("a"))

	r.Register("t", func() (*Terminology, error) {
		return NewBuilder().Add(Define("b")).Build()
	})
	second, err := r.Lookup("t")
	require.NoError(t, err)
	assert.True(t, second.HasTerm("b"))
	assert.False(t, second.HasTerm("a"))
}

func TestRegistry_Names(t *testing.T) {
	r := NewRegistry()
	r.Register("zeta", func() (*Terminology, error) { return nil, nil })
	r.Register("alpha", func() (*Terminology, error) { return nil, nil })
	assert.Equal(t, []string{"alpha", "zeta"}, r.Names())
}
