package codec

import (
	"bytes"
	"sync"

	"github.com/palemoky/road-race/internal/protocol"
)

// 超过该容量的缓冲区不回收，避免偶发的大消息长期占用内存
const maxPooledBufferCap = 64 << 10

var (
	messagePool = sync.Pool{New: func() any { return new(protocol.Message) }}
	bufferPool  = sync.Pool{New: func() any { return new(bytes.Buffer) }}
)

// GetMessage 从池中取出一个空消息
func GetMessage() *protocol.Message {
	return messagePool.Get().(*protocol.Message)
}

// PutMessage 清空后归还消息，调用方之后不得再引用它
func PutMessage(msg *protocol.Message) {
	if msg == nil {
		return
	}
	*msg = protocol.Message{}
	messagePool.Put(msg)
}

// GetBuffer 从池中取出一个空缓冲区
func GetBuffer() *bytes.Buffer {
	return bufferPool.Get().(*bytes.Buffer)
}

// PutBuffer 归还缓冲区，保留容量
func PutBuffer(buf *bytes.Buffer) {
	if buf == nil || buf.Cap() > maxPooledBufferCap {
		return
	}
	buf.Reset()
	bufferPool.Put(buf)
}
