package storage

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/d60-Lab/yatube/pkg/logger"
)

// Janitor 异步清理不再被帖子引用的图片文件
type Janitor struct {
	store     *ImageStore
	ch        chan string
	onRemoved func(path string)
}

type JanitorOption func(*Janitor)

// WithRemovedHook 每成功删除一个文件回调一次，在 worker 协程里执行
func WithRemovedHook(fn func(path string)) JanitorOption {
	return func(j *Janitor) { j.onRemoved = fn }
}

func NewJanitor(store *ImageStore, queueSize int, opts ...JanitorOption) *Janitor {
	if queueSize <= 0 {
		queueSize = 1024
	}
	j := &Janitor{store: store, ch: make(chan string, queueSize)}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

// Start 启动 workers 个协程；返回的 stop 会先等待队列排空（受 ctx 约束）
func (j *Janitor) Start(workers int) func(context.Context) error {
	if workers <= 0 {
		workers = 2
	}
	stopCh := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for {
				select {
				case p := <-j.ch:
					j.remove(p)
				case <-stopCh:
					return
				}
			}
		}()
	}
	return func(ctx context.Context) error {
		defer wg.Wait()
		defer close(stopCh)
		for len(j.ch) > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(20 * time.Millisecond):
			}
		}
		return nil
	}
}

func (j *Janitor) remove(p string) {
	if err := j.store.Remove(p); err != nil {
		logger.Warn("remove image failed", zap.String("path", p), zap.Error(err))
		return
	}
	if j.onRemoved != nil {
		j.onRemoved(p)
	}
}

// Enqueue 投递待删除的图片；队列满时丢弃并告警
func (j *Janitor) Enqueue(paths ...string) {
	for _, p := range paths {
		if p == "" {
			continue
		}
		select {
		case j.ch <- p:
		default:
			logger.Warn("janitor queue full, drop image", zap.String("path", p))
		}
	}
}

// QueueLen 当前队列长度（采样值）
func (j *Janitor) QueueLen() int { return len(j.ch) }
