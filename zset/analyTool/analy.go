package analyTool

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/Hakuto4838/ZSet.git/zset"
	"github.com/olekukonko/tablewriter"
)

// Check 檢查 zset 的結構是否正確
// 依序驗證：level 0 的複合鍵排序、回溯鏈、字典與跳表的耦合、
// 成員數量、tail 指標，以及每一層的 span 是否等於 level 0 的實際距離。
// 耦合只自跳表方向檢查（跳表中的每個成員都在字典中且分數相同），
// 只存在於字典中的成員不會被發現。
// 回傳第一個發現的違規，結構正確時回傳 nil
func Check[K comparable](z *zset.ZSet[K]) error {
	length, level := z.Stats()
	head := z.Head()
	handler := z.Handler()

	// 走訪 level 0，記錄每個節點的排名
	pos := map[zset.Nodelike[K]]int{head: 0}
	var prev zset.Nodelike[K]
	count := 0
	for node := head.NextAt(0); node != nil; node = node.NextAt(0) {
		count++
		pos[node] = count

		if prev != nil {
			c := handler.Compare(prev.Score(), node.Score())
			if c > 0 || (c == 0 && z.CompareKeys(prev.Key(), node.Key()) >= 0) {
				return fmt.Errorf("order violation at rank %d: (%v,%d) before (%v,%d)",
					count-1, prev.Key(), prev.Score(), node.Key(), node.Score())
			}
		}

		if prev == nil {
			if node.Backward() != nil {
				return fmt.Errorf("first node %v has non-nil backward", node.Key())
			}
		} else if node.Backward() != prev {
			return fmt.Errorf("backward of %v does not point to %v", node.Key(), prev.Key())
		}

		score, ok := z.Score(node.Key())
		if !ok {
			return fmt.Errorf("key %v is in the skip list but not in the dict", node.Key())
		}
		if score != node.Score() {
			return fmt.Errorf("score mismatch for %v: dict %d, skip list %d", node.Key(), score, node.Score())
		}

		prev = node
	}

	if count != length {
		return fmt.Errorf("length mismatch: traversed %d, recorded %d", count, length)
	}
	if z.Len() != length {
		return fmt.Errorf("Len() %d != skip list length %d", z.Len(), length)
	}

	if prev == nil {
		if z.Tail() != nil {
			return fmt.Errorf("empty zset has non-nil tail")
		}
	} else if z.Tail() != prev {
		return fmt.Errorf("tail does not point to the last node %v", prev.Key())
	}

	// 每一層的 span 必須等於 level 0 的步數
	for l := 0; l < level; l++ {
		node := head
		for node != nil {
			next := node.NextAt(l)
			if next == nil {
				break
			}
			want := pos[next] - pos[node]
			if got := node.SpanAt(l); got != want {
				return fmt.Errorf("span mismatch at level %d after rank %d: got %d, want %d",
					l, pos[node], got, want)
			}
			node = next
		}
	}
	return nil
}

// CountLevel 計算每層的節點數量
func CountLevel[K comparable](z *zset.ZSet[K]) []int {
	_, level := z.Stats()
	levelCounts := make([]int, level)

	head := z.Head()
	for node := head.NextAt(0); node != nil; node = node.NextAt(0) {
		for i := 0; i < node.Level() && i < len(levelCounts); i++ {
			levelCounts[i]++
		}
	}
	return levelCounts
}

// RenderTable 將前 maxRows 個成員以表格形式輸出
func RenderTable[K comparable](w io.Writer, z *zset.ZSet[K], maxRows int) {
	head := z.Head()

	rows := make([][]string, 0, maxRows)
	rank := 0
	for node := head.NextAt(0); node != nil && rank < maxRows; node = node.NextAt(0) {
		rows = append(rows, []string{
			strconv.Itoa(rank),
			fmt.Sprintf("%v", node.Key()),
			strconv.FormatInt(node.Score(), 10),
			strconv.Itoa(node.Level()),
		})
		rank++
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Rank", "Key", "Score", "Level"})
	table.SetAlignment(tablewriter.ALIGN_CENTER)
	table.SetAutoWrapText(false)
	table.AppendBulk(rows)
	table.Render()
}

// Print 將前 maxRows 個成員印到標準輸出
func Print[K comparable](z *zset.ZSet[K], maxRows int) {
	RenderTable(os.Stdout, z, maxRows)
}
