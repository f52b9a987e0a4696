package main

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/Hakuto4838/ZSet.git/datastream"
	"github.com/Hakuto4838/ZSet.git/zset"
	"github.com/chen3feng/stl4go"
	"github.com/cockroachdb/swiss"
	"github.com/jessevdk/go-flags"
	"github.com/olekukonko/tablewriter"
)

type options struct {
	File  string `short:"f" long:"file" description:"existing bench streamfile (ZSBENCH1 format)" required:"true"`
	Runs  int    `long:"runs" default:"5" description:"how many times to repeat each benchmark"`
	Impls string `long:"impl" default:"all" description:"implementations to run: all or comma list (zset,baseline)"`
}

// container 統一 zset 與 baseline 的操作面，供重播使用
type container interface {
	Add(score, member int64)
	IncrBy(delta, member int64) int64
	Remove(member int64)
	Rank(member int64) int
	RangeCount(member, width int64) int
}

// zsetContainer 本 repo 的 zset
type zsetContainer struct {
	z *zset.ZSet[int64]
}

func newZSetContainer() *zsetContainer {
	return &zsetContainer{z: zset.NewInt64ZSet(zset.Asc())}
}

func (c *zsetContainer) Add(score, member int64)    { c.z.Add(score, member) }
func (c *zsetContainer) IncrBy(delta, member int64) int64 { return c.z.IncrBy(delta, member) }
func (c *zsetContainer) Remove(member int64)        { c.z.Remove(member) }
func (c *zsetContainer) Rank(member int64) int      { return c.z.Rank(member) }

func (c *zsetContainer) RangeCount(member, width int64) int {
	score, ok := c.z.Score(member)
	if !ok {
		return 0
	}
	return c.z.Count(score, score+width)
}

// baselineContainer swiss 字典加上 stl4go 跳表，排名與範圍統計走線性遍歷
type baselineContainer struct {
	m   *swiss.Map[int64, int64]
	skl *stl4go.SkipList[baseNode, struct{}]
}

type baseNode struct {
	member int64
	score  int64
}

func baseNodeCompare(a, b baseNode) int {
	if a.score != b.score {
		if a.score < b.score {
			return -1
		}
		return 1
	}
	if a.member != b.member {
		if a.member < b.member {
			return -1
		}
		return 1
	}
	return 0
}

func newBaselineContainer() *baselineContainer {
	return &baselineContainer{
		m:   swiss.New[int64, int64](8),
		skl: stl4go.NewSkipListFunc[baseNode, struct{}](baseNodeCompare),
	}
}

func (c *baselineContainer) Add(score, member int64) {
	old, ok := c.m.Get(member)
	if ok {
		if old == score {
			return
		}
		c.skl.Remove(baseNode{member, old})
	}
	c.m.Put(member, score)
	c.skl.Insert(baseNode{member, score}, struct{}{})
}

func (c *baselineContainer) IncrBy(delta, member int64) int64 {
	old, ok := c.m.Get(member)
	score := delta
	if ok {
		score = old + delta
	}
	c.Add(score, member)
	return score
}

func (c *baselineContainer) Remove(member int64) {
	old, ok := c.m.Get(member)
	if !ok {
		return
	}
	c.m.Delete(member)
	c.skl.Remove(baseNode{member, old})
}

func (c *baselineContainer) Rank(member int64) int {
	score, ok := c.m.Get(member)
	if !ok {
		return -1
	}
	rank := -1
	index := 0
	c.skl.ForEachIf(func(n baseNode, _ struct{}) bool {
		if n.member == member && n.score == score {
			rank = index
			return false
		}
		index++
		return true
	})
	return rank
}

func (c *baselineContainer) RangeCount(member, width int64) int {
	score, ok := c.m.Get(member)
	if !ok {
		return 0
	}
	count := 0
	c.skl.ForEachIf(func(n baseNode, _ struct{}) bool {
		if n.score > score+width {
			return false
		}
		if n.score >= score {
			count++
		}
		return true
	})
	return count
}

func main() {
	var opts options
	if _, err := flags.Parse(&opts); err != nil {
		os.Exit(1)
	}

	bf, err := datastream.ReadBenchFile(opts.File)
	if err != nil {
		fmt.Printf("讀取 bench file 失敗: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("bench_file: %s\n", opts.File)
	fmt.Printf("ops: %d\n", len(bf.Ops))
	fmt.Printf("entropy: %.6f\n", bf.Entropy())

	toRun := parseImpls(opts.Impls)
	fmt.Printf("implementations to test: %s\n", strings.Join(toRun, ","))
	fmt.Println(strings.Repeat("=", 80))

	rows := make([][]string, 0, len(toRun))
	for _, impl := range toRun {
		fmt.Printf("benchmarking %s...\n", impl)
		stats := benchmarkImpl(bf, impl, opts.Runs)
		thr := float64(len(bf.Ops)) / (stats.avgMs / 1000.0)
		rows = append(rows, []string{
			impl,
			fmt.Sprintf("%d", opts.Runs),
			fmt.Sprintf("%.3f", stats.avgMs),
			fmt.Sprintf("%.3f", stats.minMs),
			fmt.Sprintf("%.3f", stats.maxMs),
			fmt.Sprintf("%.2f", thr),
		})
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Impl", "Runs", "Avg(ms)", "Min(ms)", "Max(ms)", "Ops/s"})
	table.SetAlignment(tablewriter.ALIGN_CENTER)
	table.SetAutoWrapText(false)
	table.AppendBulk(rows)
	table.Render()
}

type benchStats struct {
	avgMs float64
	minMs float64
	maxMs float64
}

func benchmarkImpl(bf *datastream.BenchFile, impl string, runs int) benchStats {
	durations := make([]float64, 0, runs)
	for i := 0; i < runs; i++ {
		c := newImpl(impl)
		elapsed := runOpsAndTime(c, bf)
		durations = append(durations, float64(elapsed.Microseconds())/1000.0)
	}
	sort.Float64s(durations)
	sum := 0.0
	for _, v := range durations {
		sum += v
	}
	return benchStats{
		avgMs: sum / float64(len(durations)),
		minMs: durations[0],
		maxMs: durations[len(durations)-1],
	}
}

func newImpl(impl string) container {
	switch impl {
	case "zset":
		return newZSetContainer()
	case "baseline":
		return newBaselineContainer()
	default:
		fmt.Printf("unknown -impl: %s\n", impl)
		os.Exit(1)
		return nil
	}
}

func runOpsAndTime(c container, bf *datastream.BenchFile) time.Duration {
	start := time.Now()
	for _, op := range bf.Ops {
		switch op.Type {
		case datastream.OpAdd:
			c.Add(op.Value, op.Member)
		case datastream.OpIncrBy:
			c.IncrBy(op.Value, op.Member)
		case datastream.OpRemove:
			c.Remove(op.Member)
		case datastream.OpRank:
			c.Rank(op.Member)
		case datastream.OpRangeByScore:
			c.RangeCount(op.Member, op.Value)
		}
	}
	return time.Since(start)
}

func parseImpls(s string) []string {
	if s == "" || s == "all" {
		return []string{"zset", "baseline"}
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	seen := map[string]bool{}
	for _, p := range parts {
		t := strings.TrimSpace(strings.ToLower(p))
		if t == "" || seen[t] {
			continue
		}
		switch t {
		case "zset", "baseline":
			out = append(out, t)
			seen[t] = true
		}
	}
	if len(out) == 0 {
		return []string{"zset", "baseline"}
	}
	return out
}
