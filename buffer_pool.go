package eshttp

import (
	"sync"
)

// maxPooledBuffer is the largest buffer kept for reuse.
const maxPooledBuffer = 64 << 10

// byteBufferPool recycles the buffers request documents are encoded into.
type byteBufferPool struct {
	pool sync.Pool
}

func newByteBufferPool(initialSize int) *byteBufferPool {
	return &byteBufferPool{
		pool: sync.Pool{
			New: func() any {
				buf := make([]byte, 0, initialSize)
				return &buf
			},
		},
	}
}

func (p *byteBufferPool) Get() *[]byte {
	return p.pool.Get().(*[]byte)
}

func (p *byteBufferPool) Put(buf *[]byte) {
	if cap(*buf) > maxPooledBuffer {
		return
	}
	*buf = (*buf)[:0]
	p.pool.Put(buf)
}
