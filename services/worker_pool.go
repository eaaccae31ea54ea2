/*
 * @Author: AsisYu 2773943729@qq.com
 * @Date: 2025-04-10 16:08:00
 * @Description: 工作池模式实现
 */
package services

import (
	"context"
	"sync"
)

// WorkerPool 工作池结构体
type WorkerPool struct {
	tasks   chan func()
	wg      sync.WaitGroup
	workers int
}

// NewWorkerPool 创建一个指定工作者数量的工作池
func NewWorkerPool(workers int) *WorkerPool {
	if workers < 1 {
		workers = 1
	}
	return &WorkerPool{
		tasks:   make(chan func(), workers*2), // 缓冲大小为工作者数量的两倍
		workers: workers,
	}
}

// Start 启动工作池
func (p *WorkerPool) Start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for task := range p.tasks {
				task()
			}
		}()
	}
}

// Submit 提交任务到工作池，队列已满时返回 false
func (p *WorkerPool) Submit(task func()) bool {
	select {
	case p.tasks <- task:
		return true
	default:
		return false
	}
}

// SubmitWithContext 等待队列空位，ctx 结束前未能提交时返回 false
func (p *WorkerPool) SubmitWithContext(ctx context.Context, task func()) bool {
	select {
	case p.tasks <- task:
		return true
	case <-ctx.Done():
		return false
	}
}

// RunAll 提交全部任务并等待完成；未能提交的任务不会执行，返回 ctx 的错误
func (p *WorkerPool) RunAll(ctx context.Context, tasks ...func()) error {
	var wg sync.WaitGroup
	for _, task := range tasks {
		task := task
		wg.Add(1)
		if !p.SubmitWithContext(ctx, func() {
			defer wg.Done()
			task()
		}) {
			wg.Done()
			wg.Wait()
			return ctx.Err()
		}
	}
	wg.Wait()
	return nil
}

// Stop 停止工作池
func (p *WorkerPool) Stop() {
	close(p.tasks)
	p.wg.Wait()
}
