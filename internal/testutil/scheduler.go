//go:build !production

package testutil

import (
	"slices"
	"sync"
	"time"
)

type manualTask struct {
	delay time.Duration
	fn    func()
}

// ManualScheduler 手动触发的调度器，用于确定性的计时测试
type ManualScheduler struct {
	mu    sync.Mutex
	tasks map[string]manualTask
}

// NewManualScheduler 创建手动调度器
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{tasks: make(map[string]manualTask)}
}

func (s *ManualScheduler) Schedule(key string, delay time.Duration, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks[key] = manualTask{delay: delay, fn: fn}
}

func (s *ManualScheduler) Cancel(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.tasks[key]
	delete(s.tasks, key)
	return ok
}

func (s *ManualScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.tasks)
}

// Fire 立即执行 key 对应的任务，不存在时返回 false
func (s *ManualScheduler) Fire(key string) bool {
	s.mu.Lock()
	task, ok := s.tasks[key]
	delete(s.tasks, key)
	s.mu.Unlock()

	if !ok {
		return false
	}
	task.fn()
	return true
}

// Delay 返回待执行任务的延时
func (s *ManualScheduler) Delay(key string) (time.Duration, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	task, ok := s.tasks[key]
	return task.delay, ok
}

// Keys 返回所有待执行任务的 key
func (s *ManualScheduler) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := make([]string, 0, len(s.tasks))
	for k := range s.tasks {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
