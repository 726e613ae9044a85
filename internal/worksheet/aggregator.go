package worksheet

import (
	"sync"
	"time"

	"github.com/sysu-ecnc-dev/staff-worksheet/internal/domain"
)

// DefaultFlushDelay 是 debounce 窗口的默认时长
const DefaultFlushDelay = 2 * time.Second

// Timer 与 Clock 把计时器抽出来，测试里可以换成假时钟
type Timer interface {
	Stop() bool
}

type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realClock struct{}

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// RealClock 返回基于 time.AfterFunc 的时钟
func RealClock() Clock {
	return realClock{}
}

type changeKey struct {
	employeeID string
	weekStart  string
}

// Aggregator 聚合还未同步的单元格编辑。同一个 (员工, 周) 的多次编辑合并成
// 一条 PendingChange，同一天 last-write-wins；每次入队都重置唯一的共享
// debounce 计时器，窗口到期或者显式 Flush（翻周、退出）时把全部条目按
// 入队顺序作为一个批量请求交给 flush 回调。
//
// 队列在回调执行前就已清空：同步是 at-most-once 的 fire-and-forget，
// 失败只由回调方记日志，不会重新入队。
type Aggregator struct {
	mu      sync.Mutex
	delay   time.Duration
	clock   Clock
	timer   Timer
	entries map[changeKey]*domain.PendingChange
	order   []changeKey
	flush   func([]domain.PendingChange)
}

// NewAggregator 创建聚合器，flush 回调在计时器的 goroutine 或调用 Flush 的
// goroutine 里执行
func NewAggregator(delay time.Duration, clock Clock, flush func([]domain.PendingChange)) *Aggregator {
	if delay <= 0 {
		delay = DefaultFlushDelay
	}
	if clock == nil {
		clock = RealClock()
	}
	return &Aggregator{
		delay:   delay,
		clock:   clock,
		entries: make(map[changeKey]*domain.PendingChange),
		order:   make([]changeKey, 0),
		flush:   flush,
	}
}

// Enqueue 入队某一天的编辑并重置 debounce 计时器
func (a *Aggregator) Enqueue(employeeID, weekStart, day string, schedule domain.DaySchedule) {
	a.enqueue(employeeID, weekStart, day, domain.PendingDay{
		Start: &schedule.Start,
		End:   &schedule.End,
	})
}

// EnqueueClear 入队一次清空操作（start/end 均为 null）。
// 这是清空某天排班的唯一途径。
func (a *Aggregator) EnqueueClear(employeeID, weekStart, day string) {
	a.enqueue(employeeID, weekStart, day, domain.PendingDay{})
}

func (a *Aggregator) enqueue(employeeID, weekStart, day string, pd domain.PendingDay) {
	a.mu.Lock()
	defer a.mu.Unlock()

	key := changeKey{employeeID: employeeID, weekStart: weekStart}
	entry, exists := a.entries[key]
	if !exists {
		entry = &domain.PendingChange{
			EmployeeID: employeeID,
			WeekStart:  weekStart,
			Days:       make(map[string]domain.PendingDay),
		}
		a.entries[key] = entry
		a.order = append(a.order, key)
	}
	entry.Days[day] = pd

	if a.timer != nil {
		a.timer.Stop()
	}
	a.timer = a.clock.AfterFunc(a.delay, a.Flush)
}

// Flush 取出并清空全部排队条目，然后交给 flush 回调。
// 队列为空时什么都不做。
func (a *Aggregator) Flush() {
	a.mu.Lock()
	changes := a.drain()
	a.mu.Unlock()

	if len(changes) == 0 {
		return
	}
	a.flush(changes)
}

// Cancel 停止计时器并丢弃队列里的全部条目
func (a *Aggregator) Cancel() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.drain()
}

// Pending 返回当前排队的条目数
func (a *Aggregator) Pending() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.entries)
}

// drain 必须在持锁状态下调用
func (a *Aggregator) drain() []domain.PendingChange {
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}

	changes := make([]domain.PendingChange, 0, len(a.order))
	for _, key := range a.order {
		changes = append(changes, *a.entries[key])
	}

	a.entries = make(map[changeKey]*domain.PendingChange)
	a.order = a.order[:0]

	return changes
}
