package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Hakuto4838/ZSet.git/datastream"
	"github.com/jessevdk/go-flags"
)

type options struct {
	Out         string  `short:"o" long:"out" description:"output filename prefix (留空則自動生成)"`
	Path        string  `long:"path" default:"." description:"output directory path"`
	N           int     `short:"n" long:"members" default:"1000" description:"number of distinct members"`
	A           float64 `long:"a" default:"1.07" description:"Zipf parameter a (設為 0 時使用均勻分布)"`
	B           float64 `long:"b" default:"0.0" description:"Zipf parameter b (當 a > 0 時有效)"`
	K           int     `short:"k" long:"ops" default:"100000" description:"number of operations to generate"`
	Seed        int64   `long:"seed" description:"seed for generators (預設為當前時間)"`
	Nums        int     `long:"nums" default:"1" description:"number of files to generate"`
	AddRatio    float64 `long:"addRatio" default:"0.4" description:"ratio of Add operations"`
	IncrRatio   float64 `long:"incrRatio" default:"0.2" description:"ratio of IncrBy operations"`
	RemoveRatio float64 `long:"removeRatio" default:"0.1" description:"ratio of Remove operations"`
	ScoreSpan   int64   `long:"scoreSpan" default:"1000" description:"scores drawn from [-span, span]"`
}

func main() {
	var opts options
	if _, err := flags.Parse(&opts); err != nil {
		os.Exit(1)
	}
	if opts.Seed == 0 {
		opts.Seed = time.Now().UnixNano()
	}

	cfg := datastream.GenConfig{
		AddRatio:    opts.AddRatio,
		IncrRatio:   opts.IncrRatio,
		RemoveRatio: opts.RemoveRatio,
		ScoreSpan:   opts.ScoreSpan,
	}

	// 如果沒有指定輸出檔名，則根據參數自動生成
	out := opts.Out
	if out == "" {
		out = fmt.Sprintf("zsbench_n%d_k%d_a%.2f_b%.2f", opts.N, opts.K, opts.A, opts.B)
	}

	// 確保輸出目錄存在
	if opts.Path != "." && opts.Path != "" {
		if err := os.MkdirAll(opts.Path, 0755); err != nil {
			fmt.Printf("建立輸出目錄失敗: %v\n", err)
			os.Exit(1)
		}
	}

	fmt.Printf("生成參數:\n")
	fmt.Printf("  n (members): %d\n", opts.N)
	fmt.Printf("  k (operations): %d\n", opts.K)
	fmt.Printf("  a: %.2f\n", opts.A)
	fmt.Printf("  b: %.2f\n", opts.B)
	fmt.Printf("  addRatio: %.2f, incrRatio: %.2f, removeRatio: %.2f\n",
		opts.AddRatio, opts.IncrRatio, opts.RemoveRatio)
	fmt.Printf("  seed: %d\n", opts.Seed)
	fmt.Printf("  檔案數量: %d\n\n", opts.Nums)

	for i := 0; i < opts.Nums; i++ {
		var filename string
		if opts.Nums == 1 {
			filename = fmt.Sprintf("%s.bin", out)
		} else {
			filename = fmt.Sprintf("%s_%d.bin", out, i)
		}
		outfile := filepath.Join(opts.Path, filename)
		fmt.Printf("正在生成 %s...\n", outfile)

		seed := opts.Seed + int64(i)
		var bf *datastream.BenchFile
		var err error
		if opts.A > 0 {
			bf, err = datastream.WriteBenchFileFromZipf(opts.N, opts.A, opts.B, seed, opts.K, cfg, outfile)
		} else {
			gen := datastream.NewUniformMemberGenerator(opts.N, seed)
			bf = &datastream.BenchFile{
				Dist: gen.Weights(),
				Ops:  datastream.GenOps(gen, opts.K, cfg, seed),
			}
			err = datastream.WriteBenchFile(bf, outfile)
		}
		if err != nil {
			fmt.Printf("錯誤: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("  ops: %d, entropy: %.6f\n", len(bf.Ops), bf.Entropy())
	}
	fmt.Println("完成!")
}
