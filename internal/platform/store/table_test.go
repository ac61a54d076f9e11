package store

import (
	"errors"
	"sort"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/memorycare/memorycare/internal/platform/errs"
)

type row struct {
	Name string
	Tags []string
}

func cloneRow(r row) row {
	if r.Tags != nil {
		r.Tags = append([]string(nil), r.Tags...)
	}
	return r
}

func TestTable_InsertGet(t *testing.T) {
	tbl := NewTable(cloneRow)
	id := uuid.New()
	tbl.Insert(id, row{Name: "a", Tags: []string{"x"}})

	got, err := tbl.Get(id)
	require.NoError(t, err)
	assert.Equal(t, "a", got.Name)

	// Mutating the copy must not leak into the table.
	got.Tags[0] = "changed"
	again, _ := tbl.Get(id)
	assert.Equal(t, "x", again.Tags[0])
}

func TestTable_GetMissing(t *testing.T) {
	tbl := NewTable[row](nil)
	_, err := tbl.Get(uuid.New())
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestTable_ReplaceMissing(t *testing.T) {
	tbl := NewTable[row](nil)
	err := tbl.Replace(uuid.New(), row{})
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestTable_Modify(t *testing.T) {
	tbl := NewTable[row](nil)
	id := uuid.New()
	tbl.Insert(id, row{Name: "a"})

	got, err := tbl.Modify(id, func(r row) (row, error) {
		r.Name = "b"
		return r, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "b", got.Name)

	boom := errors.New("boom")
	_, err = tbl.Modify(id, func(r row) (row, error) { return r, boom })
	assert.ErrorIs(t, err, boom)
	stored, _ := tbl.Get(id)
	assert.Equal(t, "b", stored.Name)
}

func TestTable_SelectSorted(t *testing.T) {
	tbl := NewTable[row](nil)
	for _, n := range []string{"c", "a", "b", "skip"} {
		tbl.Insert(uuid.New(), row{Name: n})
	}

	got := tbl.Select(
		func(r row) bool { return r.Name != "skip" },
		func(a, b row) bool { return a.Name < b.Name },
	)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"a", "b", "c"}, []string{got[0].Name, got[1].Name, got[2].Name})
}

func TestTable_DeleteWhere(t *testing.T) {
	tbl := NewTable[row](nil)
	tbl.Insert(uuid.New(), row{Name: "a"})
	tbl.Insert(uuid.New(), row{Name: "a"})
	tbl.Insert(uuid.New(), row{Name: "b"})

	n := tbl.DeleteWhere(func(r row) bool { return r.Name == "a" })
	assert.Equal(t, 2, n)
	assert.Equal(t, 1, tbl.Len())
}

func TestTable_ConcurrentModify(t *testing.T) {
	type counter struct{ N int }
	tbl := NewTable[counter](nil)
	id := uuid.New()
	tbl.Insert(id, counter{})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = tbl.Modify(id, func(c counter) (counter, error) {
				c.N++
				return c, nil
			})
		}()
	}
	wg.Wait()

	got, _ := tbl.Get(id)
	assert.Equal(t, 50, got.N)
}

func TestCloneHelpers(t *testing.T) {
	assert.Nil(t, Ptr[string](nil))
	s := "a"
	p := Ptr(&s)
	*p = "b"
	assert.Equal(t, "a", s)

	assert.Nil(t, Slice[string](nil))
	src := []string{"x"}
	dst := Slice(src)
	dst[0] = "y"
	assert.Equal(t, "x", src[0])
}

func TestNameLess(t *testing.T) {
	names := []string{"bob", "Carol", "alice", "Alice", "Bob"}
	sort.Slice(names, func(i, j int) bool { return NameLess(names[i], names[j]) })
	assert.Equal(t, []string{"Alice", "alice", "Bob", "bob", "Carol"}, names)
}
