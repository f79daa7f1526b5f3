// Package scheduler 提供按 key 管理的可取消延时任务。
//
// 同一个 key 同时最多只有一个待执行任务，重复调度会替换旧任务。
// 回调在调度器锁之外执行，回调内可以安全地再次调度或取消。
package scheduler

import (
	"sync"
	"time"
)

// Scheduler 延时任务调度器
type Scheduler interface {
	Schedule(key string, delay time.Duration, fn func())
	Cancel(key string) bool
	Stop()
}

type entry struct {
	timer *time.Timer
	gen   uint64
}

// TimerScheduler 基于 time.AfterFunc 的实现
type TimerScheduler struct {
	mu      sync.Mutex
	tasks   map[string]*entry
	gen     uint64
	stopped bool
}

// New 创建调度器
func New() *TimerScheduler {
	return &TimerScheduler{tasks: make(map[string]*entry)}
}

// Schedule 在 delay 后执行 fn，替换同 key 的旧任务
func (s *TimerScheduler) Schedule(key string, delay time.Duration, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return
	}
	if old, ok := s.tasks[key]; ok {
		old.timer.Stop()
	}

	s.gen++
	gen := s.gen
	e := &entry{gen: gen}
	e.timer = time.AfterFunc(delay, func() {
		s.mu.Lock()
		cur, ok := s.tasks[key]
		// 已被取消或替换
		if !ok || cur.gen != gen {
			s.mu.Unlock()
			return
		}
		delete(s.tasks, key)
		s.mu.Unlock()

		fn()
	})
	s.tasks[key] = e
}

// Cancel 取消任务，返回是否存在待执行任务
func (s *TimerScheduler) Cancel(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.tasks[key]
	if !ok {
		return false
	}
	e.timer.Stop()
	delete(s.tasks, key)
	return true
}

// Pending 返回待执行任务数量
func (s *TimerScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

// Stop 取消所有任务，之后的调度被忽略
func (s *TimerScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopped = true
	for key, e := range s.tasks {
		e.timer.Stop()
		delete(s.tasks, key)
	}
}
