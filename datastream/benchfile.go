package datastream

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand"
	"os"
)

// 檔案格式（LittleEndian）：
// [8]byte  Magic: "ZSBENCH1"
// uint16   Version: 1
// uint16   Reserved: 0
// uint32   DistCount
// 重複 DistCount 次：
//   int64   Member
//   float64 Weight
// uint64   OpCount
// 重複 OpCount 次：
//   uint8   OperationType (0=Add,1=IncrBy,2=Remove,3=Rank,4=RangeByScore)
//   int64   Member
//   int64   Value

var (
	benchMagic   = [8]byte{'Z', 'S', 'B', 'E', 'N', 'C', 'H', '1'}
	benchVersion = uint16(1)
)

// BenchFile 一份可重播的 zset 操作負載
type BenchFile struct {
	Dist map[int64]float64
	Ops  []Operation
}

// ToSequenceModel 將操作序列包成重播模型
func (bf *BenchFile) ToSequenceModel() *SequenceModel {
	return NewSequenceModelFromOps(bf.Ops)
}

// Entropy 回傳分布的熵
func (bf *BenchFile) Entropy() float64 {
	h := 0.0
	for _, p := range bf.Dist {
		if p > 0 {
			h -= p * math.Log2(p)
		}
	}
	return h
}

// GenConfig 操作序列的生成參數
// AddRatio + IncrRatio + RemoveRatio 的剩餘部分為查詢（Rank 與 RangeByScore 各半）
type GenConfig struct {
	AddRatio    float64
	IncrRatio   float64
	RemoveRatio float64
	// ScoreSpan 分數與增量自 [-ScoreSpan, ScoreSpan] 均勻抽出
	ScoreSpan int64
}

// DefaultGenConfig 預設生成參數
func DefaultGenConfig() GenConfig {
	return GenConfig{
		AddRatio:    0.4,
		IncrRatio:   0.2,
		RemoveRatio: 0.1,
		ScoreSpan:   1000,
	}
}

// GenOps 依成員抽樣流生成 k 筆操作
// 成員首次出現（或被刪除後再次出現）時強制為 Add，其餘依比例抽出操作種類
func GenOps(stream MemberStream, k int, cfg GenConfig, seed int64) []Operation {
	rng := rand.New(rand.NewSource(seed))
	present := make(map[int64]bool)

	ops := make([]Operation, 0, k)
	for i := 0; i < k; i++ {
		member := int64(stream.Next())
		if !present[member] {
			present[member] = true
			ops = append(ops, Operation{Type: OpAdd, Member: member, Value: randScore(rng, cfg.ScoreSpan)})
			continue
		}

		r := rng.Float64()
		switch {
		case r < cfg.AddRatio:
			ops = append(ops, Operation{Type: OpAdd, Member: member, Value: randScore(rng, cfg.ScoreSpan)})
		case r < cfg.AddRatio+cfg.IncrRatio:
			ops = append(ops, Operation{Type: OpIncrBy, Member: member, Value: randScore(rng, cfg.ScoreSpan)})
		case r < cfg.AddRatio+cfg.IncrRatio+cfg.RemoveRatio:
			delete(present, member)
			ops = append(ops, Operation{Type: OpRemove, Member: member})
		default:
			if rng.Intn(2) == 0 {
				ops = append(ops, Operation{Type: OpRank, Member: member})
			} else {
				width := rng.Int63n(cfg.ScoreSpan + 1)
				ops = append(ops, Operation{Type: OpRangeByScore, Member: member, Value: width})
			}
		}
	}
	return ops
}

func randScore(rng *rand.Rand, span int64) int64 {
	return rng.Int63n(2*span+1) - span
}

// WriteBenchFileFromZipf 以 Zipf 分布生成操作序列並寫入檔案
func WriteBenchFileFromZipf(n int, a, b float64, seed int64, k int, cfg GenConfig, path string) (*BenchFile, error) {
	gen := NewZipfMemberGenerator(n, a, b, seed)
	bf := &BenchFile{
		Dist: gen.Weights(),
		Ops:  GenOps(gen, k, cfg, seed),
	}
	if err := WriteBenchFile(bf, path); err != nil {
		return nil, err
	}
	return bf, nil
}

// WriteBenchFile 將負載寫入檔案
func WriteBenchFile(bf *BenchFile, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create bench file: %w", err)
	}
	defer f.Close()

	if err := binary.Write(f, binary.LittleEndian, benchMagic); err != nil {
		return err
	}
	if err := binary.Write(f, binary.LittleEndian, benchVersion); err != nil {
		return err
	}
	if err := binary.Write(f, binary.LittleEndian, uint16(0)); err != nil {
		return err
	}

	if err := binary.Write(f, binary.LittleEndian, uint32(len(bf.Dist))); err != nil {
		return err
	}
	for member, weight := range bf.Dist {
		if err := binary.Write(f, binary.LittleEndian, member); err != nil {
			return err
		}
		if err := binary.Write(f, binary.LittleEndian, weight); err != nil {
			return err
		}
	}

	if err := binary.Write(f, binary.LittleEndian, uint64(len(bf.Ops))); err != nil {
		return err
	}
	for _, op := range bf.Ops {
		if err := binary.Write(f, binary.LittleEndian, uint8(op.Type)); err != nil {
			return err
		}
		if err := binary.Write(f, binary.LittleEndian, op.Member); err != nil {
			return err
		}
		if err := binary.Write(f, binary.LittleEndian, op.Value); err != nil {
			return err
		}
	}
	return nil
}

// ReadBenchFile 自檔案讀回負載
func ReadBenchFile(path string) (*BenchFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open bench file: %w", err)
	}
	defer f.Close()

	var magic [8]byte
	if err := binary.Read(f, binary.LittleEndian, &magic); err != nil {
		return nil, err
	}
	if magic != benchMagic {
		return nil, errors.New("bad magic, not a ZSBENCH1 file")
	}
	var version, reserved uint16
	if err := binary.Read(f, binary.LittleEndian, &version); err != nil {
		return nil, err
	}
	if version != benchVersion {
		return nil, fmt.Errorf("unsupported version: %d", version)
	}
	if err := binary.Read(f, binary.LittleEndian, &reserved); err != nil {
		return nil, err
	}

	var distCount uint32
	if err := binary.Read(f, binary.LittleEndian, &distCount); err != nil {
		return nil, err
	}
	dist := make(map[int64]float64, distCount)
	for i := uint32(0); i < distCount; i++ {
		var member int64
		var weight float64
		if err := binary.Read(f, binary.LittleEndian, &member); err != nil {
			return nil, err
		}
		if err := binary.Read(f, binary.LittleEndian, &weight); err != nil {
			return nil, err
		}
		dist[member] = weight
	}

	var opCount uint64
	if err := binary.Read(f, binary.LittleEndian, &opCount); err != nil {
		return nil, err
	}
	ops := make([]Operation, 0, opCount)
	for i := uint64(0); i < opCount; i++ {
		var kind uint8
		var member, value int64
		if err := binary.Read(f, binary.LittleEndian, &kind); err != nil {
			if err == io.EOF {
				return nil, io.ErrUnexpectedEOF
			}
			return nil, err
		}
		if err := binary.Read(f, binary.LittleEndian, &member); err != nil {
			return nil, err
		}
		if err := binary.Read(f, binary.LittleEndian, &value); err != nil {
			return nil, err
		}
		ops = append(ops, Operation{Type: OperationType(kind), Member: member, Value: value})
	}

	return &BenchFile{Dist: dist, Ops: ops}, nil
}
