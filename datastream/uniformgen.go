package datastream

import (
	"math"
	"math/rand"
)

// UniformMemberGenerator 產生平均分布的成員抽樣序列
// 每個成員出現機率皆相同
type UniformMemberGenerator struct {
	n   int
	rng *rand.Rand
}

func NewUniformMemberGenerator(n int, seed int64) *UniformMemberGenerator {
	return &UniformMemberGenerator{
		n:   n,
		rng: rand.New(rand.NewSource(seed)),
	}
}

// Next 抽出一個成員 (回傳索引 0~n-1)
func (u *UniformMemberGenerator) Next() int {
	return u.rng.Intn(u.n)
}

// Weights 回傳成員 id 到出現機率的映射
func (u *UniformMemberGenerator) Weights() map[int64]float64 {
	m := make(map[int64]float64, u.n)
	p := 1.0 / float64(u.n)
	for i := 0; i < u.n; i++ {
		m[int64(i)] = p
	}
	return m
}

// Entropy 回傳分布的熵
func (u *UniformMemberGenerator) Entropy() float64 {
	return math.Log2(float64(u.n))
}
