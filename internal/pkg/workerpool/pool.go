// Package workerpool 提供固定 worker 数量、无界 FIFO 队列的任务池。
//
// 池的形状与参考策略一致：并发上限由 worker 数量决定，
// 饱和时新任务排队而不是被拒绝。Submit 永不阻塞调用方。
package workerpool

import (
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Pool 在固定数量的 worker 上执行任务。
type Pool struct {
	mu     sync.Mutex
	cond   *sync.Cond
	queue  []func()
	closed bool

	g *errgroup.Group
}

// New 创建并启动一个任务池。size 最小为 1。
func New(size int) *Pool {
	if size <= 0 {
		size = 1
	}
	p := &Pool{g: new(errgroup.Group)}
	p.cond = sync.NewCond(&p.mu)
	for i := 0; i < size; i++ {
		p.g.Go(p.work)
	}
	return p
}

// Submit 将任务加入队列并立即返回。
// 返回 false 表示池已关闭、任务未被接收。
func (p *Pool) Submit(task func()) bool {
	if task == nil {
		return false
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return false
	}
	p.queue = append(p.queue, task)
	p.cond.Signal()
	return true
}

// Depth 返回当前排队中（尚未开始执行）的任务数。
func (p *Pool) Depth() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.queue)
}

// Shutdown 停止接收新任务，排空已入队任务后等待全部 worker 退出。
func (p *Pool) Shutdown() {
	p.mu.Lock()
	p.closed = true
	p.cond.Broadcast()
	p.mu.Unlock()
	_ = p.g.Wait()
}

func (p *Pool) work() error {
	for {
		p.mu.Lock()
		for len(p.queue) == 0 && !p.closed {
			p.cond.Wait()
		}
		if len(p.queue) == 0 {
			p.mu.Unlock()
			return nil
		}
		task := p.queue[0]
		p.queue = p.queue[1:]
		p.mu.Unlock()

		p.run(task)
	}
}

// run 隔离单个任务的 panic，保证 worker 本身不会因任务失败而退出。
func (p *Pool) run(task func()) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("workerpool: task panicked")
		}
	}()
	task()
}
