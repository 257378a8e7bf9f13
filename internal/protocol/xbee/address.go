package xbee

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

// 地址长度
const (
	Addr64Len = 8
	Addr16Len = 2
)

var (
	ErrInvalidAddress = errors.New("invalid address")
	ErrAddressTooLong = errors.New("address too long")
)

// Address 目标地址的三种输入形式：RawAddress | HexAddress | DecimalAddress，
// 以及解码得到的 Addr（按 Raw -> Hex -> Dec 的顺序取第一个非空表示）
type Address interface {
	toBytes(size int) ([]byte, error)
}

// RawAddress 原始字节形式（大端）
type RawAddress []byte

// HexAddress 十六进制字符串形式，如 "0013A20040A6299D"，允许 0x 前缀
type HexAddress string

// DecimalAddress 数值形式
type DecimalAddress uint64

// Addr 解码后的地址，三种表示指向同一数值
type Addr struct {
	Raw []byte
	Hex string
	Dec uint64
}

// 常用地址
var (
	Coordinator64 = Addr{Raw: []byte{0, 0, 0, 0, 0, 0, 0, 0}, Hex: "0000000000000000", Dec: 0}
	Broadcast64   = Addr{Raw: []byte{0, 0, 0, 0, 0, 0, 0xFF, 0xFF}, Hex: "000000000000FFFF", Dec: 0xFFFF}
	Unknown16     = Addr{Raw: []byte{0xFF, 0xFE}, Hex: "FFFE", Dec: 0xFFFE}
)

// AddressFromBytes 由原始字节构造地址：Hex 每字节两位大写补零，Dec 按大端累加
// 超过 8 字节时 Dec 只保留低 64 位
func AddressFromBytes(b []byte) Addr {
	raw := make([]byte, len(b))
	copy(raw, b)
	var dec uint64
	for _, v := range raw {
		dec = dec<<8 | uint64(v)
	}
	return Addr{Raw: raw, Hex: fmt.Sprintf("%X", raw), Dec: dec}
}

// AddressToBytes 将地址转换为 size 字节（大端，左侧补零）
// 超出 size 的输入返回 ErrAddressTooLong，不做截断
func AddressToBytes(a Address, size int) ([]byte, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: size %d", ErrInvalidAddress, size)
	}
	if a == nil {
		return nil, fmt.Errorf("%w: nil address", ErrInvalidAddress)
	}
	return a.toBytes(size)
}

// String 返回十六进制表示
func (a Addr) String() string { return a.Hex }

// Equal 比较两个地址的原始字节
func (a Addr) Equal(o Addr) bool { return a.Hex == o.Hex }

func (a Addr) toBytes(size int) ([]byte, error) {
	switch {
	case len(a.Raw) > 0:
		return RawAddress(a.Raw).toBytes(size)
	case a.Hex != "":
		return HexAddress(a.Hex).toBytes(size)
	default:
		return DecimalAddress(a.Dec).toBytes(size)
	}
}

func (r RawAddress) toBytes(size int) ([]byte, error) {
	if len(r) > size {
		return nil, fmt.Errorf("%w: %d bytes, want %d", ErrAddressTooLong, len(r), size)
	}
	return padLeft(r, size), nil
}

func (h HexAddress) toBytes(size int) ([]byte, error) {
	s := strings.TrimSpace(string(h))
	if len(s) >= 2 && (s[:2] == "0x" || s[:2] == "0X") {
		s = s[2:]
	}
	if s == "" {
		return nil, fmt.Errorf("%w: empty hex", ErrInvalidAddress)
	}
	if len(s)%2 == 1 {
		s = "0" + s
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidAddress, string(h), err)
	}
	// 多出的高位只允许是 0
	for len(b) > size {
		if b[0] != 0 {
			return nil, fmt.Errorf("%w: %q does not fit %d bytes", ErrAddressTooLong, string(h), size)
		}
		b = b[1:]
	}
	return padLeft(b, size), nil
}

func (d DecimalAddress) toBytes(size int) ([]byte, error) {
	if size < 8 && uint64(d)>>(8*uint(size)) != 0 {
		return nil, fmt.Errorf("%w: %d does not fit %d bytes", ErrAddressTooLong, uint64(d), size)
	}
	out := make([]byte, size)
	v := uint64(d)
	for i := size - 1; i >= 0 && v != 0; i-- {
		out[i] = byte(v)
		v >>= 8
	}
	return out, nil
}

func padLeft(b []byte, size int) []byte {
	out := make([]byte, size)
	copy(out[size-len(b):], b)
	return out
}
