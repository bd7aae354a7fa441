package cache

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	ID   string
	Name string
}

func itemKey(i item) string { return i.ID }

func newTestCollection(ttl time.Duration) (*Collection[string, item], *time.Time) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	c := NewCollection(ttl, itemKey)
	c.now = func() time.Time { return now }
	return c, &now
}

func TestCollection_Validity(t *testing.T) {
	c, now := newTestCollection(5 * time.Minute)

	items, ok := c.Items()
	assert.False(t, ok)
	assert.Empty(t, items)

	c.Replace([]item{{ID: "1"}, {ID: "2"}})
	assert.True(t, c.Valid())

	*now = now.Add(4 * time.Minute)
	assert.True(t, c.Valid())

	*now = now.Add(time.Minute)
	assert.False(t, c.Valid())

	items, ok = c.Items()
	assert.False(t, ok)
	assert.Len(t, items, 2)
}

func TestCollection_ZeroTTL(t *testing.T) {
	c, _ := newTestCollection(0)
	c.Replace([]item{{ID: "1"}})
	assert.False(t, c.Valid())
}

func TestCollection_Invalidate(t *testing.T) {
	c, _ := newTestCollection(time.Minute)
	c.Replace([]item{{ID: "1"}})
	c.Invalidate()

	items, ok := c.Items()
	assert.False(t, ok)
	assert.Len(t, items, 1)
}

func TestCollection_ItemsIsACopy(t *testing.T) {
	c, _ := newTestCollection(time.Minute)
	c.Replace([]item{{ID: "1", Name: "a"}})

	items, _ := c.Items()
	items[0].Name = "changed"

	got, ok := c.Get("1")
	require.True(t, ok)
	assert.Equal(t, "a", got.Name)
}

func TestCollection_Upsert(t *testing.T) {
	t.Run("append and undo", func(t *testing.T) {
		c, _ := newTestCollection(time.Minute)
		c.Replace([]item{{ID: "1"}})

		undo := c.Upsert(item{ID: "2", Name: "new"})
		items, _ := c.Items()
		assert.Equal(t, []item{{ID: "1"}, {ID: "2", Name: "new"}}, items)

		undo()
		items, _ = c.Items()
		assert.Equal(t, []item{{ID: "1"}}, items)
	})

	t.Run("replace and undo", func(t *testing.T) {
		c, _ := newTestCollection(time.Minute)
		c.Replace([]item{{ID: "1", Name: "old"}, {ID: "2"}})

		undo := c.Upsert(item{ID: "1", Name: "new"})
		got, _ := c.Get("1")
		assert.Equal(t, "new", got.Name)

		undo()
		items, _ := c.Items()
		assert.Equal(t, []item{{ID: "1", Name: "old"}, {ID: "2"}}, items)
	})
}

func TestCollection_Remove(t *testing.T) {
	c, _ := newTestCollection(time.Minute)
	c.Replace([]item{{ID: "1"}, {ID: "2"}, {ID: "3"}})

	undo := c.Remove("2")
	_, ok := c.Get("2")
	assert.False(t, ok)

	undo()
	items, _ := c.Items()
	assert.Equal(t, []item{{ID: "1"}, {ID: "2"}, {ID: "3"}}, items)

	// Removing a missing key is a no-op with a no-op undo.
	c.Remove("9")()
	items, _ = c.Items()
	assert.Len(t, items, 3)
}

func TestCollection_Concurrent(t *testing.T) {
	c := NewCollection(time.Minute, itemKey)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := string(rune('a' + i%26))
			undo := c.Upsert(item{ID: id})
			c.Items()
			c.Get(id)
			if i%2 == 0 {
				undo()
			}
		}(i)
	}
	wg.Wait()
}

func TestCollection_InsertTracksSlot(t *testing.T) {
	c, _ := newTestCollection(time.Minute)
	c.Replace([]item{{ID: "1"}})

	// Two pending items share the empty key.
	undoA := c.Insert(item{Name: "a"})
	undoB := c.Insert(item{Name: "b"})

	items, _ := c.Items()
	assert.Equal(t, []item{{ID: "1"}, {Name: "a"}, {Name: "b"}}, items)

	undoA()
	items, _ = c.Items()
	assert.Equal(t, []item{{ID: "1"}, {Name: "b"}}, items)

	undoB()
	undoB()
	items, _ = c.Items()
	assert.Equal(t, []item{{ID: "1"}}, items)
}
