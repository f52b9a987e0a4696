package zset_test

import (
	"errors"
	"testing"

	"github.com/Hakuto4838/ZSet.git/zset"
)

func TestIteratorWalksInOrder(t *testing.T) {
	z := zset.NewStringZSet(zset.Asc())
	z.Add(1, "a")
	z.Add(2, "b")
	z.Add(3, "c")

	it := z.Scan(0)
	var got []zset.Member[string]
	for it.HasNext() {
		m, err := it.Next()
		if err != nil {
			t.Fatalf("Next error: %v", err)
		}
		got = append(got, m)
	}
	mustEqualMembers(t, got, []zset.Member[string]{
		{Key: "a", Score: 1}, {Key: "b", Score: 2}, {Key: "c", Score: 3},
	})

	if _, err := it.Next(); !errors.Is(err, zset.ErrEndOfIteration) {
		t.Fatalf("exhausted Next: got %v, want ErrEndOfIteration", err)
	}
}

func TestIteratorFailFast(t *testing.T) {
	z := zset.NewStringZSet(zset.Asc())
	z.Add(1, "a")
	z.Add(2, "b")
	z.Add(3, "c")

	it := z.Scan(0)
	if m, err := it.Next(); err != nil || m.Key != "a" {
		t.Fatalf("first Next: got (%+v,%v), want a", m, err)
	}

	// 迭代期間經由其它路徑修改容器
	z.Remove("c")

	if _, err := it.Next(); !errors.Is(err, zset.ErrConcurrentModification) {
		t.Fatalf("Next after external mutation: got %v, want ErrConcurrentModification", err)
	}
	if err := it.Remove(); !errors.Is(err, zset.ErrConcurrentModification) {
		t.Fatalf("Remove after external mutation: got %v, want ErrConcurrentModification", err)
	}
}

func TestIteratorQueryDoesNotInvalidate(t *testing.T) {
	z := zset.NewStringZSet(zset.Asc())
	z.Add(1, "a")
	z.Add(2, "b")

	it := z.Scan(0)
	if _, err := it.Next(); err != nil {
		t.Fatalf("Next error: %v", err)
	}

	// 查詢不是修改，迭代必須繼續有效
	z.Rank("b")
	z.Score("a")
	z.RangeByRank(0, -1)

	m, err := it.Next()
	if err != nil || m.Key != "b" {
		t.Fatalf("Next after queries: got (%+v,%v), want b", m, err)
	}
}

func TestIteratorRemove(t *testing.T) {
	z := zset.NewStringZSet(zset.Asc())
	z.Add(1, "a")
	z.Add(2, "b")
	z.Add(3, "c")

	it := z.Scan(0)

	if err := it.Remove(); !errors.Is(err, zset.ErrIteratorState) {
		t.Fatalf("Remove before Next: got %v, want ErrIteratorState", err)
	}

	if _, err := it.Next(); err != nil {
		t.Fatalf("Next error: %v", err)
	}
	if err := it.Remove(); err != nil {
		t.Fatalf("Remove error: %v", err)
	}
	if err := it.Remove(); !errors.Is(err, zset.ErrIteratorState) {
		t.Fatalf("second Remove: got %v, want ErrIteratorState", err)
	}

	// 透過迭代器刪除後，迭代繼續有效
	m, err := it.Next()
	if err != nil || m.Key != "b" {
		t.Fatalf("Next after Remove: got (%+v,%v), want b", m, err)
	}

	if z.Len() != 2 {
		t.Fatalf("Len after iterator removal: got %d, want %d", z.Len(), 2)
	}
	if _, ok := z.Score("a"); ok {
		t.Fatalf("a must be removed from both indexes")
	}
}
