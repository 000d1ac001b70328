package service

import "sync"

// keyedMutex 以 key 为粒度的互斥锁
// 同一 (用户, 货币) 或 (用户, 证券) 的并发更新必须串行，不同 key 完全并行
type keyedMutex struct {
	locks sync.Map
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{}
}

// Lock 锁定指定 key，返回解锁函数
func (k *keyedMutex) Lock(key string) func() {
	v, _ := k.locks.LoadOrStore(key, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}
