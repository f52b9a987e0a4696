package datastream

import (
	"math"
	"math/rand"
)

// ZipfMemberGenerator 產生符合 Zipf 分布的成員抽樣序列
type ZipfMemberGenerator struct {
	n       int
	a, b    float64
	weights []float64
	cdf     []float64
	rng     *rand.Rand
}

func NewZipfMemberGenerator(n int, a, b float64, seed int64) *ZipfMemberGenerator {
	rng := rand.New(rand.NewSource(seed))
	weights := make([]float64, n)
	var sum float64
	for i := 1; i <= n; i++ {
		weights[i-1] = 1.0 / math.Pow(float64(i)+b, a)
		sum += weights[i-1]
	}
	// 正規化
	for i := range weights {
		weights[i] /= sum
	}
	rng.Shuffle(len(weights), func(i, j int) {
		weights[i], weights[j] = weights[j], weights[i]
	})
	// 建立累積分布函數 (CDF)
	cdf := make([]float64, n)
	cdf[0] = weights[0]
	for i := 1; i < n; i++ {
		cdf[i] = cdf[i-1] + weights[i]
	}
	return &ZipfMemberGenerator{
		n:       n,
		a:       a,
		b:       b,
		weights: weights,
		cdf:     cdf,
		rng:     rng,
	}
}

// Next 抽出一個成員 (回傳索引 0~n-1)
func (z *ZipfMemberGenerator) Next() int {
	r := z.rng.Float64()
	// 二分搜尋 cdf
	lo, hi := 0, z.n-1
	for lo < hi {
		mid := (lo + hi) / 2
		if r > z.cdf[mid] {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}

// Weights 回傳成員 id 到出現機率的映射
func (z *ZipfMemberGenerator) Weights() map[int64]float64 {
	m := make(map[int64]float64, z.n)
	for i, w := range z.weights {
		m[int64(i)] = w
	}
	return m
}

// Entropy 回傳分布的熵
func (z *ZipfMemberGenerator) Entropy() float64 {
	h := 0.0
	for _, p := range z.weights {
		if p > 0 {
			h -= p * math.Log2(p)
		}
	}
	return h
}
