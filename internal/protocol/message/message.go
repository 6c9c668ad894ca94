package message

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/spaolacci/murmur3"
)

// MaxSize 单条消息负载的最大字节数（300 KiB）
//
// 同时作为 gossip 的最大传输大小。
const MaxSize = 300 * 1024

// Validate 校验消息负载
//
// 长度恰好为 MaxSize 的负载合法，多一个字节即返回 ErrMessageTooLarge。
func Validate(data []byte) error {
	if len(data) > MaxSize {
		return fmt.Errorf("%w: size=%d, max=%d", ErrMessageTooLarge, len(data), MaxSize)
	}
	return nil
}

// ValidateString 校验字符串形式的消息，按 UTF-8 字节数计算长度
func ValidateString(msg string) error {
	if len(msg) > MaxSize {
		return fmt.Errorf("%w: size=%d, max=%d", ErrMessageTooLarge, len(msg), MaxSize)
	}
	return nil
}

// ID 计算负载的消息 ID
//
// 64 位 murmur3 摘要的十进制表示，只依赖负载字节。
func ID(data []byte) string {
	return strconv.FormatUint(murmur3.Sum64(data), 10)
}

// Text 以有损方式将负载解码为 UTF-8 文本
//
// 每个非法字节替换为一个 U+FFFD，连续的非法字节不合并。
func Text(data []byte) string {
	if utf8.Valid(data) {
		return string(data)
	}

	var b strings.Builder
	b.Grow(len(data) + 8)
	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		if r == utf8.RuneError && size == 1 {
			b.WriteRune(utf8.RuneError)
		} else {
			b.Write(data[:size])
		}
		data = data[size:]
	}
	return b.String()
}
