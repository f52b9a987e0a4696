// Package zset 實作 key 為泛型、score 為 int64 的 sorted set，參考 redis 的 zset
//
// 排序規則：分數為第一排序條件，鍵為第二排序條件。成員唯一，分數可以重複。
// 排名一律從 0 開始。分數的順序由 ScoreHandler 決定，允許由大到小，
// 不必總是繞道 zrev 系列介面。
//
// 依分數查找或刪除時不要求 start 小於等於 end，容器會處理兩者的大小關係。
//
// 非執行緒安全，單一 goroutine 使用。
package zset

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/swiss"
	"golang.org/x/exp/constraints"
)

const dictSizeHint = 128

// ZSet 成員到分數的字典加上以 (score, key) 排序的跳表，兩個索引同步更新
type ZSet[K comparable] struct {
	dict *swiss.Map[K, int64]
	zsl  *skipList[K]
}

// New 建立一個自訂鍵比較器的 zset
// keyCmp 必須保證當且僅當兩個鍵相同時回傳 0
func New[K comparable](keyCmp KeyComparator[K], handler ScoreHandler) *ZSet[K] {
	return &ZSet[K]{
		dict: swiss.New[K, int64](dictSizeHint),
		zsl:  newSkipList(keyCmp, handler),
	}
}

// NewOrderedZSet 建立一個鍵為可排序型別的 zset，使用自然順序比較鍵
func NewOrderedZSet[K constraints.Ordered](handler ScoreHandler) *ZSet[K] {
	return New[K](func(a, b K) int {
		switch {
		case a < b:
			return -1
		case a > b:
			return 1
		default:
			return 0
		}
	}, handler)
}

// NewStringZSet 建立一個鍵為 string 的 zset
func NewStringZSet(handler ScoreHandler) *ZSet[string] {
	return NewOrderedZSet[string](handler)
}

// NewInt64ZSet 建立一個鍵為 int64 的 zset
func NewInt64ZSet(handler ScoreHandler) *ZSet[int64] {
	return NewOrderedZSet[int64](handler)
}

// NewInt32ZSet 建立一個鍵為 int32 的 zset
func NewInt32ZSet(handler ScoreHandler) *ZSet[int32] {
	return NewOrderedZSet[int32](handler)
}

// ------------------------------------------------------------------ insert

// Add 新增成員；成員已存在時更新分數並移到正確的排序位置，分數相同則不動作
func (z *ZSet[K]) Add(score int64, member K) {
	oldScore, ok := z.dict.Get(member)
	z.dict.Put(member, score)
	if ok {
		if !z.zsl.scoreEquals(oldScore, score) {
			z.zsl.delete(oldScore, member)
			z.zsl.insert(score, member)
		}
	} else {
		z.zsl.insert(score, member)
	}
}

// AddIfAbsent 當且僅當成員不存在時新增，回傳是否新增成功
func (z *ZSet[K]) AddIfAbsent(score int64, member K) bool {
	if _, ok := z.dict.Get(member); ok {
		return false
	}
	z.dict.Put(member, score)
	z.zsl.insert(score, member)
	return true
}

// IncrBy 為成員的分數加上增量並移到正確的排序位置
// 成員不存在時視為新增，新分數即為增量。回傳新分數
func (z *ZSet[K]) IncrBy(increment int64, member K) int64 {
	oldScore, ok := z.dict.Get(member)
	score := increment
	if ok {
		score = z.zsl.sum(oldScore, increment)
	}
	z.Add(score, member)
	return score
}

// ------------------------------------------------------------------ remove

// Remove 刪除成員，成員存在時回傳其分數與 true
func (z *ZSet[K]) Remove(member K) (int64, bool) {
	oldScore, ok := z.dict.Get(member)
	if !ok {
		return 0, false
	}
	z.dict.Delete(member)
	z.zsl.delete(oldScore, member)
	return oldScore, true
}

// RemoveRangeByScore 刪除分數介於 start 和 end 之間（含端點）的所有成員，回傳刪除數量
func (z *ZSet[K]) RemoveRangeByScore(start, end int64) int {
	return z.zsl.deleteRangeByScore(z.zsl.newRange(start, false, end, false), z.dict)
}

// RemoveRangeBySpec 刪除分數落在範圍內的所有成員，回傳刪除數量
func (z *ZSet[K]) RemoveRangeBySpec(spec ScoreRangeSpec) int {
	return z.zsl.deleteRangeByScore(z.zsl.newRangeFromSpec(spec), z.dict)
}

// RemoveByRank 刪除指定排名的成員，排名從 0 開始
func (z *ZSet[K]) RemoveByRank(rank int) (Member[K], bool) {
	if rank < 0 || rank >= z.zsl.length {
		return Member[K]{}, false
	}
	node := z.zsl.deleteByRank(rank+1, z.dict)
	return Member[K]{Key: node.key, Score: node.score}, true
}

// PopFirst 刪除並回傳第一個成員
func (z *ZSet[K]) PopFirst() (Member[K], bool) {
	return z.RemoveByRank(0)
}

// PopLast 刪除並回傳最後一個成員
func (z *ZSet[K]) PopLast() (Member[K], bool) {
	return z.RemoveByRank(z.zsl.length - 1)
}

// RemoveRangeByRank 刪除排名區間內的全部成員，start 和 end 從 0 開始、皆含
// 兩者皆可為負數，表示自尾端起算的偏移量，-1 為最後一名
func (z *ZSet[K]) RemoveRangeByRank(start, end int) int {
	length := z.zsl.length
	start = convertStartRank(start, length)
	end = convertEndRank(end, length)
	if isRankRangeEmpty(start, end, length) {
		return 0
	}
	return z.zsl.deleteRangeByRank(start+1, end+1, z.dict)
}

// Limit 保留排序在前的 count 個成員，刪除其餘尾部成員，回傳刪除數量
func (z *ZSet[K]) Limit(count int) int {
	if z.zsl.length <= count {
		return 0
	}
	return z.zsl.deleteRangeByRank(count+1, z.zsl.length, z.dict)
}

// RevLimit 保留排序在後的 count 個成員，刪除其餘頭部成員，回傳刪除數量
func (z *ZSet[K]) RevLimit(count int) int {
	if z.zsl.length <= count {
		return 0
	}
	return z.zsl.deleteRangeByRank(1, z.zsl.length-count, z.dict)
}

// ------------------------------------------------------------------ query

// Score 回傳成員的分數，成員不存在時回傳 (0, false)
func (z *ZSet[K]) Score(member K) (int64, bool) {
	return z.dict.Get(member)
}

// Rank 回傳成員的排名，從 0 開始，成員不存在時回傳 -1
func (z *ZSet[K]) Rank(member K) int {
	score, ok := z.dict.Get(member)
	if !ok {
		return -1
	}
	// 0 < getRank <= length
	return z.zsl.getRank(score, member) - 1
}

// RevRank 回傳成員自尾端起算的排名，從 0 開始，成員不存在時回傳 -1
func (z *ZSet[K]) RevRank(member K) int {
	score, ok := z.dict.Get(member)
	if !ok {
		return -1
	}
	return z.zsl.length - z.zsl.getRank(score, member)
}

// MemberByRank 回傳指定排名的成員，排名從 0 開始，超出範圍時回傳 false
func (z *ZSet[K]) MemberByRank(rank int) (Member[K], bool) {
	if rank < 0 || rank >= z.zsl.length {
		return Member[K]{}, false
	}
	node := z.zsl.getElementByRank(rank + 1)
	return Member[K]{Key: node.key, Score: node.score}, true
}

// RevMemberByRank 回傳指定逆序排名的成員，排名從 0 開始，超出範圍時回傳 false
func (z *ZSet[K]) RevMemberByRank(rank int) (Member[K], bool) {
	if rank < 0 || rank >= z.zsl.length {
		return Member[K]{}, false
	}
	node := z.zsl.getElementByRank(z.zsl.length - rank)
	return Member[K]{Key: node.key, Score: node.score}, true
}

// RangeByScore 回傳分數介於 start 和 end 之間（含端點）的所有成員，順序由低到高
func (z *ZSet[K]) RangeByScore(start, end int64) []Member[K] {
	result, _ := z.rangeByScoreWithOptions(z.zsl.newRange(start, false, end, false), 0, -1, false)
	return result
}

// RangeBySpec 回傳分數落在範圍內的所有成員，順序由低到高
func (z *ZSet[K]) RangeBySpec(spec ScoreRangeSpec) []Member[K] {
	result, _ := z.rangeByScoreWithOptions(z.zsl.newRangeFromSpec(spec), 0, -1, false)
	return result
}

// RevRangeByScore 回傳分數介於 start 和 end 之間（含端點）的所有成員，順序由高到低
func (z *ZSet[K]) RevRangeByScore(start, end int64) []Member[K] {
	result, _ := z.rangeByScoreWithOptions(z.zsl.newRange(start, false, end, false), 0, -1, true)
	return result
}

// RevRangeBySpec 回傳分數落在範圍內的所有成員，順序由高到低
func (z *ZSet[K]) RevRangeBySpec(spec ScoreRangeSpec) []Member[K] {
	result, _ := z.rangeByScoreWithOptions(z.zsl.newRangeFromSpec(spec), 0, -1, true)
	return result
}

// RangeByScoreWithOptions 回傳分數範圍內的成員並依指定順序排列
// offset 為偏移量，必須大於等於 0，否則回傳 ErrNegativeOffset
// limit 為回傳的成員數量上限，小於 0 表示不限制
func (z *ZSet[K]) RangeByScoreWithOptions(spec ScoreRangeSpec, offset, limit int, reverse bool) ([]Member[K], error) {
	return z.rangeByScoreWithOptions(z.zsl.newRangeFromSpec(spec), offset, limit, reverse)
}

func (z *ZSet[K]) rangeByScoreWithOptions(r scoreRange, offset, limit int, reverse bool) ([]Member[K], error) {
	if offset < 0 {
		return nil, fmt.Errorf("%w: %d", ErrNegativeOffset, offset)
	}

	var node *skipListNode[K]
	if reverse {
		node = z.zsl.lastInRange(r)
	} else {
		node = z.zsl.firstInRange(r)
	}
	if node == nil {
		return []Member[K]{}, nil
	}

	// 先走掉 offset 個節點，是否仍在範圍內交給下面的迴圈判斷
	for node != nil && offset != 0 {
		offset--
		if reverse {
			node = node.backward
		} else {
			node = node.levelInfo[0].forward
		}
	}

	result := make([]Member[K], 0)
	// 以 != 0 判斷，limit 為負時不限制
	for node != nil && limit != 0 {
		limit--
		if reverse {
			if !z.zsl.gteMin(node.score, r) {
				break
			}
		} else {
			if !z.zsl.lteMax(node.score, r) {
				break
			}
		}

		result = append(result, Member[K]{Key: node.key, Score: node.score})

		if reverse {
			node = node.backward
		} else {
			node = node.levelInfo[0].forward
		}
	}
	return result, nil
}

// RangeByRank 回傳排名區間內的成員，結果由低到高
// start 和 end 從 0 開始、皆含，可為負數表示自尾端起算
func (z *ZSet[K]) RangeByRank(start, end int) []Member[K] {
	return z.rangeByRank(start, end, false)
}

// RevRangeByRank 回傳逆序排名區間內的成員，結果由高到低
// start 和 end 從 0 開始、皆含，可為負數表示自尾端起算
func (z *ZSet[K]) RevRangeByRank(start, end int) []Member[K] {
	return z.rangeByRank(start, end, true)
}

func (z *ZSet[K]) rangeByRank(start, end int, reverse bool) []Member[K] {
	length := z.zsl.length
	start = convertStartRank(start, length)
	end = convertEndRank(end, length)
	if isRankRangeEmpty(start, end, length) {
		return []Member[K]{}
	}

	rangeLen := end - start + 1
	var node *skipListNode[K]

	// 起點為 0 時不必做 log(N) 查找
	if reverse {
		if start > 0 {
			node = z.zsl.getElementByRank(length - start)
		} else {
			node = z.zsl.tail
		}
	} else {
		if start > 0 {
			node = z.zsl.getElementByRank(start + 1)
		} else {
			node = z.zsl.header.directForward()
		}
	}

	result := make([]Member[K], 0, rangeLen)
	for ; rangeLen > 0 && node != nil; rangeLen-- {
		result = append(result, Member[K]{Key: node.key, Score: node.score})
		if reverse {
			node = node.backward
		} else {
			node = node.levelInfo[0].forward
		}
	}
	return result
}

// Count 回傳分數介於 start 和 end 之間（含端點）的成員數量
func (z *ZSet[K]) Count(start, end int64) int {
	return z.countInRange(z.zsl.newRange(start, false, end, false))
}

// CountSpec 回傳分數落在範圍內的成員數量
func (z *ZSet[K]) CountSpec(spec ScoreRangeSpec) int {
	return z.countInRange(z.zsl.newRangeFromSpec(spec))
}

func (z *ZSet[K]) countInRange(r scoreRange) int {
	firstNode := z.zsl.firstInRange(r)
	if firstNode == nil {
		return 0
	}
	firstRank := z.zsl.getRank(firstNode.score, firstNode.key)

	// firstNode 存在時 lastNode 必然存在，最壞情況下兩者相同
	lastNode := z.zsl.lastInRange(r)
	lastRank := z.zsl.getRank(lastNode.score, lastNode.key)
	return lastRank - firstRank + 1
}

// Len 回傳成員數量
func (z *ZSet[K]) Len() int {
	return z.zsl.length
}

// ------------------------------------------------------------------ scan

// Scan 從指定偏移量開始迭代所有成員，偏移量小於等於 0 時從頭開始
func (z *ZSet[K]) Scan(offset int) *Iterator[K] {
	if offset <= 0 {
		return newIterator(z, z.zsl.header.directForward())
	}
	if offset >= z.zsl.length {
		return newIterator(z, nil)
	}
	return newIterator(z, z.zsl.getElementByRank(offset+1))
}

// Dump 回傳成員的文字形式，用於測試
func (z *ZSet[K]) Dump() string {
	var sb strings.Builder
	sb.WriteString("{level = 0, nodeArray:[\n")
	node := z.zsl.header.directForward()
	rank := 0
	for node != nil {
		fmt.Fprintf(&sb, "{rank:%d,key:%v,score:%d}", rank, node.key, node.score)
		rank++
		node = node.directForward()
		if node != nil {
			sb.WriteString(",\n")
		} else {
			sb.WriteString("\n")
		}
	}
	sb.WriteString("]}")
	return sb.String()
}

// ------------------------------------------------------------------ inspect

// Head 回傳 Ordered Index 的哨兵節點，僅供結構檢視
func (z *ZSet[K]) Head() Nodelike[K] {
	return z.zsl.header
}

// Tail 回傳 Ordered Index 的尾端節點，空集合時為 nil
func (z *ZSet[K]) Tail() Nodelike[K] {
	if z.zsl.tail == nil {
		return nil
	}
	return z.zsl.tail
}

// Stats 回傳成員數量與跳表當前層數
func (z *ZSet[K]) Stats() (length int, level int) {
	return z.zsl.length, z.zsl.level
}

// Handler 回傳建構時提供的 ScoreHandler
func (z *ZSet[K]) Handler() ScoreHandler {
	return z.zsl.handler
}

// CompareKeys 以建構時提供的鍵比較器比較兩個鍵
func (z *ZSet[K]) CompareKeys(a, b K) int {
	return z.zsl.keyCmp(a, b)
}

// ------------------------------------------------------------------ rank util

// convertStartRank 負數排名轉為自尾端起算，並夾在 0 以上
func convertStartRank(start, length int) int {
	if start < 0 {
		start += length
	}
	if start < 0 {
		start = 0
	}
	return start
}

// convertEndRank 負數排名轉為自尾端起算，並夾在 length-1 以下
func convertEndRank(end, length int) int {
	if end < 0 {
		end += length
	}
	if end >= length {
		end = length - 1
	}
	return end
}

// start >= 0 在此已成立，end < 0 時 start > end 必然為真
func isRankRangeEmpty(start, end, length int) bool {
	return start > end || start >= length
}
