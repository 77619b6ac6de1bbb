package debugger

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/risor-io/risordbg/vm"
)

func TestRegistryAdd(t *testing.T) {
	r := NewRegistry(nil)
	a, err := r.Add("main", 3, "")
	require.Nil(t, err)
	b, err := r.Add("lib.rsr", 10, "x > 1")
	require.Nil(t, err)
	assert.Equal(t, 1, a.ID)
	assert.Equal(t, 2, b.ID)
	assert.Equal(t, "#2 lib.rsr:10 if x > 1 (hits 0)", b.String())

	_, err = r.Add("main", 0, "")
	assert.NotNil(t, err)
	assert.Equal(t, 2, r.Len())
}

func TestRegistryDuplicateUpdatesCondition(t *testing.T) {
	r := NewRegistry(nil)
	first, err := r.Add("main", 5, "")
	require.Nil(t, err)
	again, err := r.Add("main", 5, "n == 2")
	assert.True(t, errors.Is(err, ErrDuplicateBreakpoint))
	assert.Same(t, first, again)
	assert.Equal(t, "n == 2", first.Condition)
	assert.Equal(t, 1, r.Len())
}

func TestRegistryConcurrentAdd(t *testing.T) {
	const n = 50
	r := NewRegistry(nil)
	ids := make([]int, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			bp, err := r.Add("main", i+1, "")
			assert.Nil(t, err)
			ids[i] = bp.ID
		}(i)
	}
	wg.Wait()
	sort.Ints(ids)
	for i, id := range ids {
		assert.Equal(t, i+1, id)
	}
	assert.Equal(t, n, r.Len())

	same := NewRegistry(nil)
	got := make([]*Breakpoint, n)
	var dups sync.WaitGroup
	for i := 0; i < n; i++ {
		dups.Add(1)
		go func(i int) {
			defer dups.Done()
			bp, err := same.Add("main", 7, "")
			if err != nil {
				assert.True(t, errors.Is(err, ErrDuplicateBreakpoint))
			}
			got[i] = bp
		}(i)
	}
	dups.Wait()
	assert.Equal(t, 1, same.Len())
	for _, bp := range got {
		assert.Same(t, got[0], bp)
	}
}

func TestRegistryRemove(t *testing.T) {
	r := NewRegistry(nil)
	r.Add("main", 1, "")
	r.Add("main", 2, "")
	r.Add("main", 3, "")
	require.Nil(t, r.Remove("main", 2))
	assert.True(t, errors.Is(r.Remove("main", 2), ErrNotFound))

	var lines []int
	for bp := range r.List() {
		lines = append(lines, bp.Line)
	}
	assert.Equal(t, []int{1, 3}, lines)

	r.Clear()
	assert.Equal(t, 0, r.Len())
	_, ok := r.Lookup("main", 1)
	assert.False(t, ok)
}

func TestRegistryListStopsEarly(t *testing.T) {
	r := NewRegistry(nil)
	for line := 1; line <= 5; line++ {
		r.Add("main", line, "")
	}
	count := 0
	for range r.List() {
		count++
		if count == 2 {
			break
		}
	}
	assert.Equal(t, 2, count)
}

func TestRegistryLookupByBaseName(t *testing.T) {
	r := NewRegistry(nil)
	r.Add("script.rsr", 4, "")
	bp, ok := r.Lookup("/home/dev/script.rsr", 4)
	require.True(t, ok)
	assert.Equal(t, "script.rsr", bp.Source)
	_, ok = r.Lookup("/home/dev/other.rsr", 4)
	assert.False(t, ok)
}

func TestRegistryMatches(t *testing.T) {
	machine := vm.New(vm.WithGlobals(map[string]any{"limit": 3}))
	r := NewRegistry(NewEvaluator(machine))
	ctx := context.Background()

	_, matched, err := r.Matches(ctx, "main", 1, nil)
	require.Nil(t, err)
	assert.False(t, matched)

	r.Add("main", 1, "")
	bp, matched, err := r.Matches(ctx, "main", 1, nil)
	require.Nil(t, err)
	assert.True(t, matched)
	assert.Equal(t, 1, bp.HitCount)

	r.Add("main", 2, "limit > 5")
	bp, matched, err = r.Matches(ctx, "main", 2, nil)
	require.Nil(t, err)
	assert.False(t, matched)
	assert.Equal(t, 0, bp.HitCount)

	r.Add("main", 3, "limit == 3")
	_, matched, err = r.Matches(ctx, "main", 3, nil)
	require.Nil(t, err)
	assert.True(t, matched)

	r.Add("main", 4, "nope")
	bp, matched, err = r.Matches(ctx, "main", 4, nil)
	var evalErr *EvalError
	assert.True(t, errors.As(err, &evalErr))
	assert.False(t, matched)
	assert.Equal(t, 0, bp.HitCount)

	r.Add("main", 5, "limit >")
	_, matched, err = r.Matches(ctx, "main", 5, nil)
	var compileErr *CompileError
	assert.True(t, errors.As(err, &compileErr))
	assert.False(t, matched)
}
