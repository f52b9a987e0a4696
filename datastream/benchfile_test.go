package datastream

import (
	"math"
	"path/filepath"
	"testing"
)

func TestWriteAndReadBenchFileFromZipf(t *testing.T) {
	n := 8
	a := 1.2
	b := 0.0
	seed := int64(42)
	k := 200

	tmp := t.TempDir()
	file := filepath.Join(tmp, "bench.bin")

	cfg := DefaultGenConfig()
	bf, err := WriteBenchFileFromZipf(n, a, b, seed, k, cfg, file)
	if err != nil {
		t.Fatalf("WriteBenchFileFromZipf error: %v", err)
	}

	got, err := ReadBenchFile(file)
	if err != nil {
		t.Fatalf("ReadBenchFile error: %v", err)
	}

	// 驗證分布 map
	if len(got.Dist) != len(bf.Dist) {
		t.Fatalf("dist len mismatch: got %d, want %d", len(got.Dist), len(bf.Dist))
	}
	for member, want := range bf.Dist {
		w, ok := got.Dist[member]
		if !ok {
			t.Fatalf("missing member in dist: %v", member)
		}
		if !floatAlmostEqual(w, want, 1e-12) {
			t.Fatalf("weight mismatch for member %v: got %v, want %v", member, w, want)
		}
	}

	// 驗證操作序列
	if len(got.Ops) != k {
		t.Fatalf("ops len mismatch: got %d, want %d", len(got.Ops), k)
	}
	for i := range got.Ops {
		if got.Ops[i] != bf.Ops[i] {
			t.Fatalf("op[%d] mismatch: got %+v, want %+v", i, got.Ops[i], bf.Ops[i])
		}
	}
}

func TestGenOpsFirstOccurrenceIsAdd(t *testing.T) {
	gen := NewZipfMemberGenerator(16, 1.2, 0.0, 7)
	ops := GenOps(gen, 500, DefaultGenConfig(), 7)
	if len(ops) != 500 {
		t.Fatalf("ops len mismatch: got %d, want %d", len(ops), 500)
	}

	present := map[int64]bool{}
	for i, op := range ops {
		if !present[op.Member] {
			if op.Type != OpAdd {
				t.Fatalf("op[%d] first occurrence of %d must be Add, got %v", i, op.Member, op.Type)
			}
		}
		switch op.Type {
		case OpAdd, OpIncrBy:
			present[op.Member] = true
		case OpRemove:
			present[op.Member] = false
		case OpRank, OpRangeByScore:
			if !present[op.Member] {
				t.Fatalf("op[%d] queries absent member %d", i, op.Member)
			}
		}
	}
}

func TestSequenceModelReplay(t *testing.T) {
	gen := NewUniformMemberGenerator(8, 42)
	ops := GenOps(gen, 100, DefaultGenConfig(), 42)

	m := NewSequenceModelFromOps(ops)
	count := 0
	for {
		op, ok := m.Next()
		if !ok {
			break
		}
		if op != ops[count] {
			t.Fatalf("replay mismatch at %d: got %+v, want %+v", count, op, ops[count])
		}
		count++
	}
	if count != len(ops) {
		t.Fatalf("sequence model length mismatch: got %d, want %d", count, len(ops))
	}

	m.Reset()
	batch := m.NextN(10)
	if len(batch) != 10 {
		t.Fatalf("NextN length mismatch: got %d, want %d", len(batch), 10)
	}
}

func TestZipfWeightsNormalized(t *testing.T) {
	gen := NewZipfMemberGenerator(32, 1.07, 0.0, 1)
	sum := 0.0
	for _, w := range gen.Weights() {
		sum += w
	}
	if !floatAlmostEqual(sum, 1.0, 1e-9) {
		t.Fatalf("weights must sum to 1, got %v", sum)
	}
	if gen.Entropy() <= 0 {
		t.Fatalf("entropy must be positive, got %v", gen.Entropy())
	}
}

func floatAlmostEqual(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}
