package analyTool

import (
	"strings"
	"testing"

	"github.com/Hakuto4838/ZSet.git/zset"
)

func TestCheckOnValidZSet(t *testing.T) {
	z := zset.NewStringZSet(zset.Asc())
	if err := Check(z); err != nil {
		t.Fatalf("empty zset must pass: %v", err)
	}

	z.Add(3, "c")
	z.Add(1, "a")
	z.Add(2, "b")
	z.Add(2, "a")
	if err := Check(z); err != nil {
		t.Fatalf("valid zset must pass: %v", err)
	}

	z.Remove("b")
	if err := Check(z); err != nil {
		t.Fatalf("valid zset after removal must pass: %v", err)
	}
}

func TestCountLevel(t *testing.T) {
	z := zset.NewInt64ZSet(zset.Asc())
	for i := int64(0); i < 100; i++ {
		z.Add(i, i)
	}

	counts := CountLevel(z)
	if len(counts) == 0 {
		t.Fatalf("CountLevel returned no levels")
	}
	if counts[0] != 100 {
		t.Fatalf("level 0 count: got %d, want %d", counts[0], 100)
	}
	for i := 1; i < len(counts); i++ {
		if counts[i] > counts[i-1] {
			t.Fatalf("level %d count %d exceeds level %d count %d", i, counts[i], i-1, counts[i-1])
		}
	}
}

func TestRenderTable(t *testing.T) {
	z := zset.NewStringZSet(zset.Asc())
	z.Add(1, "a")
	z.Add(2, "b")

	var sb strings.Builder
	RenderTable(&sb, z, 10)
	out := sb.String()
	for _, want := range []string{"RANK", "KEY", "SCORE", "a", "b"} {
		if !strings.Contains(out, want) {
			t.Fatalf("table output missing %q:\n%s", want, out)
		}
	}
}
