package optimistic

import (
	"context"
	"errors"
	"sync"
)

// State 单个 key 的状态机状态
// Settled(x) --toggle--> Pending(!x) --success--> Settled(!x)
// Pending(!x) --failure--> RollingBack --> Settled(x)
type State int

const (
	StateUnknown State = iota
	StateSettled
	StatePending
	StateRollingBack
)

var (
	// ErrMutationInFlight 同一 key 已有一个未完成的变更
	ErrMutationInFlight = errors.New("已有一个进行中的变更")
)

// FetchFunc 从数据源读取当前真实状态
type FetchFunc func(ctx context.Context) (bool, error)

// MutationFunc 执行服务端变更，入参为期望达到的状态，返回变更后的真实状态
type MutationFunc func(ctx context.Context, next bool) (bool, error)

type entry struct {
	state State
	value bool
	prior bool
}

// Store 乐观布尔状态缓存
// 每个 key 同一时刻只允许一个进行中的变更；变更先本地翻转，失败回滚到翻转前的快照
type Store struct {
	mu      sync.Mutex
	entries map[string]*entry
}

// NewStore 创建空的状态缓存
func NewStore() *Store {
	return &Store{entries: make(map[string]*entry)}
}

// Seed 写入已知的初始状态（Settled）
func (s *Store) Seed(key string, value bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = &entry{state: StateSettled, value: value}
}

// Peek 读取本地缓存状态，不触发任何网络调用
func (s *Store) Peek(key string) (value bool, state State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	if !ok {
		return false, StateUnknown
	}
	return e.value, e.state
}

// Get 读取状态，本地没有时用 fetch 回源并缓存
func (s *Store) Get(ctx context.Context, key string, fetch FetchFunc) (bool, error) {
	s.mu.Lock()
	if e, ok := s.entries[key]; ok {
		v := e.value
		s.mu.Unlock()
		return v, nil
	}
	s.mu.Unlock()

	value, err := fetch(ctx)
	if err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// 回源期间可能有并发写入，已有的条目（含投机值）优先
	if e, ok := s.entries[key]; ok {
		return e.value, nil
	}
	s.entries[key] = &entry{state: StateSettled, value: value}
	return value, nil
}

// Toggle 翻转状态：先投机翻转本地值，再执行 mutate；失败则回滚并返回错误
// key 处于 Pending 时直接拒绝（单一进行中变更约束）
func (s *Store) Toggle(ctx context.Context, key string, fetch FetchFunc, mutate MutationFunc) (bool, error) {
	s.mu.Lock()
	e, ok := s.entries[key]
	if ok && e.state == StatePending {
		// 解锁前取快照，进行中的变更随时可能改写 e.value
		v := e.value
		s.mu.Unlock()
		return v, ErrMutationInFlight
	}
	if !ok {
		// 占住槽位再回源，避免同 key 并发首次 Toggle 各自回源
		e = &entry{state: StatePending}
		s.entries[key] = e
		s.mu.Unlock()

		value, err := fetch(ctx)

		s.mu.Lock()
		if err != nil {
			delete(s.entries, key)
			s.mu.Unlock()
			return false, err
		}
		e.value = value
		e.state = StateSettled
	}

	// 投机翻转
	e.prior = e.value
	e.value = !e.value
	e.state = StatePending
	next := e.value
	s.mu.Unlock()

	confirmed, err := mutate(ctx, next)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		e.state = StateRollingBack
		e.value = e.prior
		e.state = StateSettled
		return e.value, err
	}

	// 以服务端确认的真实状态为准
	e.value = confirmed
	e.state = StateSettled
	return e.value, nil
}

// Invalidate 丢弃本地缓存，下次读取时回源
func (s *Store) Invalidate(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
}
