package zset

// Iterator 依排序順序走訪 zset 的成員
// 建立時記下容器的修改次數，期間若容器被其它路徑修改，
// 後續的 Next 和 Remove 都會回傳 ErrConcurrentModification
//
// 迭代器不在跳表內實作，因為 Remove 需要同時更新字典
type Iterator[K comparable] struct {
	z                *ZSet[K]
	lastReturned     *skipListNode[K]
	next             *skipListNode[K]
	expectedModCount int
}

func newIterator[K comparable](z *ZSet[K], next *skipListNode[K]) *Iterator[K] {
	return &Iterator[K]{
		z:                z,
		next:             next,
		expectedModCount: z.zsl.modCount,
	}
}

// HasNext 是否還有下一個成員
func (it *Iterator[K]) HasNext() bool {
	return it.next != nil
}

// Next 回傳下一個成員
// 已走完時回傳 ErrEndOfIteration
func (it *Iterator[K]) Next() (Member[K], error) {
	if err := it.checkForComodification(); err != nil {
		return Member[K]{}, err
	}
	if it.next == nil {
		return Member[K]{}, ErrEndOfIteration
	}

	it.lastReturned = it.next
	it.next = it.next.directForward()
	return Member[K]{Key: it.lastReturned.key, Score: it.lastReturned.score}, nil
}

// Remove 刪除最近一次 Next 回傳的成員
// 尚未呼叫 Next 或連續呼叫兩次 Remove 時回傳 ErrIteratorState
func (it *Iterator[K]) Remove() error {
	if it.lastReturned == nil {
		return ErrIteratorState
	}
	if err := it.checkForComodification(); err != nil {
		return err
	}

	it.z.dict.Delete(it.lastReturned.key)
	it.z.zsl.delete(it.lastReturned.score, it.lastReturned.key)

	it.lastReturned = nil
	it.expectedModCount = it.z.zsl.modCount
	return nil
}

func (it *Iterator[K]) checkForComodification() error {
	if it.z.zsl.modCount != it.expectedModCount {
		return ErrConcurrentModification
	}
	return nil
}
