package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/palemoky/road-race/internal/protocol"
)

// Format 传输编码
type Format int

const (
	FormatJSON   Format = iota // 文本帧
	FormatBinary               // 二进制帧（protobuf wire 格式信封）
)

// ParseFormat 解析连接参数中的编码名称，未知值回退到 JSON
func ParseFormat(name string) Format {
	if name == "binary" || name == "protobuf" {
		return FormatBinary
	}
	return FormatJSON
}

func (f Format) String() string {
	if f == FormatBinary {
		return "binary"
	}
	return "json"
}

// 二进制信封字段号
const (
	fieldType    protowire.Number = 1
	fieldPayload protowire.Number = 2
)

var ErrMalformedEnvelope = errors.New("malformed binary envelope")

// NewMessage 创建一个新消息，payload 统一以 JSON 编码
func NewMessage(msgType protocol.MessageType, payload any) (*protocol.Message, error) {
	msg := &protocol.Message{Type: msgType}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		msg.Payload = data
	}
	return msg, nil
}

// MustNewMessage 创建消息，失败时 panic
func MustNewMessage(msgType protocol.MessageType, payload any) *protocol.Message {
	msg, err := NewMessage(msgType, payload)
	if err != nil {
		panic(err)
	}
	return msg
}

// ParsePayload 解析消息的 Payload 到指定类型
func ParsePayload[T any](msg *protocol.Message) (*T, error) {
	var payload T
	if len(msg.Payload) == 0 {
		return &payload, nil
	}
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// NewErrorMessage 创建错误消息
func NewErrorMessage(code int) *protocol.Message {
	return NewErrorMessageWithText(code, protocol.ErrorMessages[code])
}

// NewErrorMessageWithText 创建带自定义文本的错误消息
func NewErrorMessageWithText(code int, text string) *protocol.Message {
	return MustNewMessage(protocol.MsgError, protocol.ErrorPayload{
		Code:    code,
		Message: text,
	})
}

// Encode 按格式编码消息
func Encode(f Format, m *protocol.Message) ([]byte, error) {
	if f == FormatBinary {
		return encodeBinary(m), nil
	}
	return encodeJSON(m)
}

// Decode 按格式解码消息
// 注意: 使用完毕后应调用 PutMessage 归还对象到池
func Decode(f Format, data []byte) (*protocol.Message, error) {
	if f == FormatBinary {
		return decodeBinary(data)
	}
	return decodeJSON(data)
}

func encodeJSON(m *protocol.Message) ([]byte, error) {
	buf := GetBuffer()
	defer PutBuffer(buf)

	if err := json.NewEncoder(buf).Encode(m); err != nil {
		return nil, err
	}
	// Encoder 会追加换行
	out := bytes.TrimSuffix(buf.Bytes(), []byte{'\n'})
	return append([]byte(nil), out...), nil
}

func decodeJSON(data []byte) (*protocol.Message, error) {
	msg := GetMessage()
	if err := json.Unmarshal(data, msg); err != nil {
		PutMessage(msg)
		return nil, err
	}
	return msg, nil
}

func encodeBinary(m *protocol.Message) []byte {
	b := make([]byte, 0, len(m.Type)+len(m.Payload)+8)
	b = protowire.AppendTag(b, fieldType, protowire.BytesType)
	b = protowire.AppendString(b, string(m.Type))
	if len(m.Payload) > 0 {
		b = protowire.AppendTag(b, fieldPayload, protowire.BytesType)
		b = protowire.AppendBytes(b, m.Payload)
	}
	return b
}

func decodeBinary(data []byte) (*protocol.Message, error) {
	msg := GetMessage()
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			PutMessage(msg)
			return nil, fmt.Errorf("%w: %v", ErrMalformedEnvelope, protowire.ParseError(n))
		}
		data = data[n:]

		switch {
		case num == fieldType && typ == protowire.BytesType:
			v, m := protowire.ConsumeString(data)
			if m < 0 {
				PutMessage(msg)
				return nil, fmt.Errorf("%w: %v", ErrMalformedEnvelope, protowire.ParseError(m))
			}
			msg.Type = protocol.MessageType(v)
			n = m
		case num == fieldPayload && typ == protowire.BytesType:
			v, m := protowire.ConsumeBytes(data)
			if m < 0 {
				PutMessage(msg)
				return nil, fmt.Errorf("%w: %v", ErrMalformedEnvelope, protowire.ParseError(m))
			}
			msg.Payload = append([]byte(nil), v...) // 复制 payload 避免引用
			n = m
		default:
			n = protowire.ConsumeFieldValue(num, typ, data)
			if n < 0 {
				PutMessage(msg)
				return nil, fmt.Errorf("%w: %v", ErrMalformedEnvelope, protowire.ParseError(n))
			}
		}
		data = data[n:]
	}
	if msg.Type == "" {
		PutMessage(msg)
		return nil, fmt.Errorf("%w: missing type", ErrMalformedEnvelope)
	}
	return msg, nil
}
