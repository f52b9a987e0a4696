package main

import (
	"fmt"
	"os"

	"github.com/Hakuto4838/ZSet.git/datastream"
	"github.com/Hakuto4838/ZSet.git/zset"
	"github.com/Hakuto4838/ZSet.git/zset/analyTool"
)

// 以同一份負載分別餵給升冪與降冪的 zset，印出兩者的排序結果與結構檢查
func main() {
	const n = 64
	const k = 600
	const seed = 42

	gen := datastream.NewZipfMemberGenerator(n, 1.07, 0.0, seed)
	ops := datastream.GenOps(gen, k, datastream.DefaultGenConfig(), seed)

	asc := zset.NewInt64ZSet(zset.Asc())
	desc := zset.NewInt64ZSet(zset.Desc())
	for _, op := range ops {
		apply(asc, op)
		apply(desc, op)
	}

	fmt.Printf("members: %d (asc) / %d (desc)\n\n", asc.Len(), desc.Len())

	fmt.Println("=== ascending ===")
	analyTool.Print(asc, 20)
	if err := analyTool.Check(asc); err != nil {
		fmt.Printf("structure check FAILED: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("structure check ok")

	fmt.Println("\n=== descending ===")
	analyTool.Print(desc, 20)
	if err := analyTool.Check(desc); err != nil {
		fmt.Printf("structure check FAILED: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("structure check ok")
}

func apply(z *zset.ZSet[int64], op datastream.Operation) {
	switch op.Type {
	case datastream.OpAdd:
		z.Add(op.Value, op.Member)
	case datastream.OpIncrBy:
		z.IncrBy(op.Value, op.Member)
	case datastream.OpRemove:
		z.Remove(op.Member)
	case datastream.OpRank:
		z.Rank(op.Member)
	case datastream.OpRangeByScore:
		if score, ok := z.Score(op.Member); ok {
			z.Count(score, score+op.Value)
		}
	}
}
