package codec

import (
	"bytes"
	"sync"
)

const (
	// Pool limits to prevent memory bloat
	poolMaxCap  = 1 << 20 // buffers grown past 1 MiB are dropped
	poolInitCap = 64
)

// scratch buffer pool for the uncompressed tagged layout
var bufPool = sync.Pool{
	New: func() any {
		return bytes.NewBuffer(make([]byte, 0, poolInitCap))
	},
}

func getBuf() *bytes.Buffer {
	return bufPool.Get().(*bytes.Buffer)
}

func putBuf(buf *bytes.Buffer) {
	if buf == nil || buf.Cap() > poolMaxCap {
		return // reject oversized
	}
	buf.Reset()
	bufPool.Put(buf)
}
