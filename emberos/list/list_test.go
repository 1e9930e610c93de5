package list

import (
	"testing"

	"ember/emberos/critical"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	Node
	id  string
	key int
}

func newItems(ids ...string) []*item {
	out := make([]*item, len(ids))
	for i, id := range ids {
		out[i] = &item{id: id}
	}
	return out
}

func ids(t *testing.T, l *List) []string {
	t.Helper()
	var out []string
	var it Iterator
	require.True(t, it.Set(l, nil, Forward))
	for e := it.Next(); e != nil; e = it.Next() {
		out = append(out, e.(*item).id)
	}

	var back []string
	require.True(t, it.Set(l, nil, Backward))
	for e := it.Next(); e != nil; e = it.Next() {
		back = append([]string{e.(*item).id}, back...)
	}
	require.Equal(t, out, back, "forward and backward links disagree")
	require.Equal(t, len(out), l.Len())
	return out
}

func TestInsertFrontBack(t *testing.T) {
	l := New(nil)
	it := newItems("A", "B", "C")

	require.True(t, l.Insert(it[0], AtBack))
	require.True(t, l.Insert(it[1], AtFront))
	require.True(t, l.Insert(it[2], AtBack))

	assert.Equal(t, []string{"B", "A", "C"}, ids(t, l))
	assert.Equal(t, 3, l.Len())
	assert.Same(t, it[1], l.Front())
	assert.Same(t, it[2], l.Back())
	assert.True(t, l.IsMember(it[0]))
	assert.Same(t, l, it[0].Container())
}

func TestInsertAlreadyLinked(t *testing.T) {
	a, b := New(nil), New(nil)
	x := &item{id: "X"}
	require.True(t, a.Insert(x, AtBack))
	assert.False(t, a.Insert(x, AtBack))
	assert.False(t, b.Insert(x, AtFront))
	assert.Equal(t, 1, a.Len())
	assert.Zero(t, b.Len())
}

func TestInsertAtIndex(t *testing.T) {
	l := New(nil)
	it := newItems("A", "B", "C", "D", "E", "F")
	for _, x := range it[:3] {
		require.True(t, l.Insert(x, AtBack))
	}

	require.True(t, l.Insert(it[3], 0))
	assert.Equal(t, []string{"A", "D", "B", "C"}, ids(t, l))

	require.True(t, l.Insert(it[4], -3))
	assert.Equal(t, []string{"A", "D", "B", "E", "C"}, ids(t, l))

	require.True(t, l.Insert(it[5], 100))
	assert.Equal(t, []string{"A", "D", "B", "E", "C", "F"}, ids(t, l))
}

func TestRemove(t *testing.T) {
	l := New(nil)
	it := newItems("A", "B", "C", "D")
	for _, x := range it {
		require.True(t, l.Insert(x, AtBack))
	}

	assert.Same(t, it[1], l.Remove(it[1], AtFront))
	assert.False(t, it[1].Linked())
	assert.Equal(t, []string{"A", "C", "D"}, ids(t, l))

	assert.Nil(t, l.Remove(it[1], AtFront), "not a member")

	assert.Same(t, it[3], l.Remove(nil, AtBack))
	assert.Same(t, it[0], l.Remove(nil, AtFront))
	assert.Same(t, it[2], l.Remove(nil, 5))
	assert.True(t, l.IsEmpty())
	assert.Nil(t, l.Remove(nil, AtFront))
	assert.Nil(t, l.Front())
	assert.Nil(t, l.Back())
}

func TestRemoveItself(t *testing.T) {
	l := New(nil)
	x := &item{id: "X"}
	assert.False(t, RemoveItself(x))
	require.True(t, l.Insert(x, AtBack))
	assert.True(t, RemoveItself(x))
	assert.True(t, l.IsEmpty())
	assert.False(t, RemoveItself(x))
	assert.False(t, RemoveItself(nil))
}

func TestMove(t *testing.T) {
	dst, src := New(nil), New(nil)
	it := newItems("A", "B", "X", "Y")
	require.True(t, dst.Insert(it[0], AtBack))
	require.True(t, dst.Insert(it[1], AtBack))
	require.True(t, src.Insert(it[2], AtBack))
	require.True(t, src.Insert(it[3], AtBack))

	require.True(t, dst.Move(src, 0))
	assert.Equal(t, []string{"A", "X", "Y", "B"}, ids(t, dst))
	assert.True(t, src.IsEmpty())
	assert.Same(t, dst, it[2].Container())
	assert.Same(t, dst, it[3].Container())

	assert.False(t, dst.Move(src, AtBack), "empty source")
	assert.False(t, dst.Move(dst, AtBack))

	require.True(t, src.Insert(&item{id: "Z"}, AtBack))
	require.True(t, dst.Move(src, AtFront))
	assert.Equal(t, []string{"Z", "A", "X", "Y", "B"}, ids(t, dst))
}

func TestMoveIntoEmpty(t *testing.T) {
	dst, src := New(nil), New(nil)
	require.True(t, src.Insert(&item{id: "A"}, AtBack))
	require.True(t, src.Insert(&item{id: "B"}, AtBack))
	require.True(t, dst.Move(src, AtBack))
	assert.Equal(t, []string{"A", "B"}, ids(t, dst))
}

func TestSortStable(t *testing.T) {
	l := New(nil)
	in := []*item{
		{id: "a3", key: 3},
		{id: "b1", key: 1},
		{id: "c3", key: 3},
		{id: "d2", key: 2},
		{id: "e1", key: 1},
	}
	for _, x := range in {
		require.True(t, l.Insert(x, AtBack))
	}

	moved := l.Sort(func(a, b Element) bool { return a.(*item).key < b.(*item).key })
	assert.True(t, moved)
	assert.Equal(t, []string{"b1", "e1", "d2", "a3", "c3"}, ids(t, l))

	moved = l.Sort(func(a, b Element) bool { return a.(*item).key < b.(*item).key })
	assert.False(t, moved, "already sorted")
}

func TestForEach(t *testing.T) {
	l := New(nil)
	for _, x := range newItems("A", "B", "C") {
		require.True(t, l.Insert(x, AtBack))
	}

	var stages []Stage
	var seen []string
	stopped := l.ForEach(func(h *WalkHandle) bool {
		stages = append(stages, h.Stage)
		if h.Stage == WalkThrough {
			seen = append(seen, h.Node.(*item).id)
			assert.Equal(t, "arg", h.Arg)
		} else {
			assert.Nil(t, h.Node)
		}
		return false
	}, "arg", Backward, nil)

	assert.False(t, stopped)
	assert.Equal(t, []string{"C", "B", "A"}, seen)
	assert.Equal(t, []Stage{WalkInit, WalkThrough, WalkThrough, WalkThrough, WalkEnd}, stages)
}

func TestForEachBreak(t *testing.T) {
	l := New(nil)
	it := newItems("A", "B", "C")
	for _, x := range it {
		require.True(t, l.Insert(x, AtBack))
	}

	var seen []string
	ended := false
	stopped := l.ForEach(func(h *WalkHandle) bool {
		switch h.Stage {
		case WalkThrough:
			seen = append(seen, h.Node.(*item).id)
			return h.Node.(*item).id == "B"
		case WalkEnd:
			ended = true
		}
		return false
	}, nil, Forward, nil)

	assert.True(t, stopped)
	assert.True(t, ended)
	assert.Equal(t, []string{"A", "B"}, seen)

	seen = nil
	l.ForEach(func(h *WalkHandle) bool {
		if h.Stage == WalkThrough {
			seen = append(seen, h.Node.(*item).id)
		}
		return false
	}, nil, Forward, it[1])
	assert.Equal(t, []string{"B", "C"}, seen)

	assert.True(t, l.ForEach(func(h *WalkHandle) bool { return h.Stage == WalkInit }, nil, Forward, nil))
}

func TestForEachRemovesCurrent(t *testing.T) {
	l := New(nil)
	for _, x := range newItems("A", "B", "C") {
		require.True(t, l.Insert(x, AtBack))
	}
	l.ForEach(func(h *WalkHandle) bool {
		if h.Stage == WalkThrough {
			RemoveItself(h.Node)
		}
		return false
	}, nil, Forward, nil)
	assert.True(t, l.IsEmpty())
}

func TestForEachEmpty(t *testing.T) {
	l := New(nil)
	called := false
	assert.False(t, l.ForEach(func(*WalkHandle) bool { called = true; return false }, nil, Forward, nil))
	assert.False(t, called)
	assert.False(t, l.ForEach(nil, nil, Forward, nil))
}

func TestSwap(t *testing.T) {
	t.Run("adjacent", func(t *testing.T) {
		l := New(nil)
		it := newItems("A", "B", "C")
		for _, x := range it {
			require.True(t, l.Insert(x, AtBack))
		}
		require.True(t, Swap(it[0], it[1]))
		assert.Equal(t, []string{"B", "A", "C"}, ids(t, l))
		require.True(t, Swap(it[2], it[0]))
		assert.Equal(t, []string{"B", "C", "A"}, ids(t, l))
	})

	t.Run("apart", func(t *testing.T) {
		l := New(nil)
		it := newItems("A", "B", "C", "D")
		for _, x := range it {
			require.True(t, l.Insert(x, AtBack))
		}
		require.True(t, Swap(it[0], it[3]))
		assert.Equal(t, []string{"D", "B", "C", "A"}, ids(t, l))
	})

	t.Run("across lists", func(t *testing.T) {
		a, b := New(nil), New(nil)
		x := newItems("A1", "A2")
		y := newItems("B1", "B2")
		for i := range x {
			require.True(t, a.Insert(x[i], AtBack))
			require.True(t, b.Insert(y[i], AtBack))
		}
		require.True(t, Swap(x[0], y[1]))
		assert.Equal(t, []string{"B2", "A2"}, ids(t, a))
		assert.Equal(t, []string{"B1", "A1"}, ids(t, b))
		assert.Same(t, b, x[0].Container())
		assert.Same(t, a, y[1].Container())
	})

	t.Run("invalid", func(t *testing.T) {
		l := New(nil)
		x := &item{id: "X"}
		require.True(t, l.Insert(x, AtBack))
		assert.False(t, Swap(x, x))
		assert.False(t, Swap(x, &item{}))
		assert.False(t, Swap(nil, x))
	})
}

func TestListOfLists(t *testing.T) {
	outer := New(nil)
	inner := New(nil)
	require.True(t, inner.Insert(&item{id: "A"}, AtBack))
	require.True(t, outer.Insert(inner, AtBack))
	assert.Same(t, inner, outer.Front())
	assert.Same(t, outer, inner.Container())
	assert.Equal(t, 1, inner.Len())
}

func TestCriticalSectionBracketsMutations(t *testing.T) {
	depth, entries := 0, 0
	cs := critical.New(
		func(uint32) { depth-- },
		func() uint32 { depth++; entries++; return 0 },
	)
	l := New(cs)
	x := &item{id: "X"}
	require.True(t, l.Insert(x, AtBack))
	require.NotNil(t, l.Remove(x, AtFront))
	assert.Zero(t, depth)
	assert.Equal(t, 2, entries)
}

func TestNilList(t *testing.T) {
	var l *List
	assert.False(t, l.Insert(&item{}, AtBack))
	assert.Nil(t, l.Remove(nil, AtBack))
	assert.Zero(t, l.Len())
	assert.True(t, l.IsEmpty())
	assert.Nil(t, l.Front())
	assert.False(t, l.Sort(func(a, b Element) bool { return false }))
	assert.False(t, l.ForEach(func(*WalkHandle) bool { return false }, nil, Forward, nil))
	var it Iterator
	assert.False(t, it.Set(nil, nil, Forward))
	assert.Nil(t, it.Next())
}
