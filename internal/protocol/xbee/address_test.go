package xbee

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddressFromBytes(t *testing.T) {
	tests := []struct {
		name string
		raw  []byte
		hex  string
		dec  uint64
	}{
		{name: "64位地址", raw: []byte{0x00, 0x13, 0xA2, 0x00, 0x40, 0xA6, 0x29, 0x9D}, hex: "0013A20040A6299D", dec: 0x0013A20040A6299D},
		{name: "16位地址", raw: []byte{0xFF, 0xFE}, hex: "FFFE", dec: 0xFFFE},
		{name: "低位补零", raw: []byte{0x01, 0x0A}, hex: "010A", dec: 0x010A},
		{name: "全零", raw: []byte{0, 0}, hex: "0000", dec: 0},
		{name: "最高位", raw: []byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}, hex: "FFFFFFFFFFFFFFFF", dec: ^uint64(0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := AddressFromBytes(tt.raw)
			assert.Equal(t, tt.hex, a.Hex)
			assert.Equal(t, tt.dec, a.Dec)
			assert.Equal(t, tt.raw, a.Raw)
		})
	}
}

func TestAddressFromBytes_CopiesInput(t *testing.T) {
	raw := []byte{0xAB, 0xCD}
	a := AddressFromBytes(raw)
	raw[0] = 0x00
	assert.Equal(t, "ABCD", a.Hex)
	assert.Equal(t, byte(0xAB), a.Raw[0])
}

func TestAddressToBytes(t *testing.T) {
	tests := []struct {
		name string
		in   Address
		size int
		want []byte
	}{
		{name: "原始字节等长", in: RawAddress{0xFF, 0xFE}, size: 2, want: []byte{0xFF, 0xFE}},
		{name: "原始字节左补零", in: RawAddress{0xFE}, size: 2, want: []byte{0x00, 0xFE}},
		{name: "十六进制", in: HexAddress("0013A20040A6299D"), size: 8, want: []byte{0x00, 0x13, 0xA2, 0x00, 0x40, 0xA6, 0x29, 0x9D}},
		{name: "十六进制小写与前缀", in: HexAddress("0xfffe"), size: 2, want: []byte{0xFF, 0xFE}},
		{name: "十六进制补足8字节", in: HexAddress("FFFF"), size: 8, want: []byte{0, 0, 0, 0, 0, 0, 0xFF, 0xFF}},
		{name: "十六进制短串", in: HexAddress("abc"), size: 2, want: []byte{0x0A, 0xBC}},
		{name: "十六进制高位零可截去", in: HexAddress("0000FFFE"), size: 2, want: []byte{0xFF, 0xFE}},
		{name: "数值", in: DecimalAddress(0xFFFE), size: 2, want: []byte{0xFF, 0xFE}},
		{name: "数值补零", in: DecimalAddress(1), size: 8, want: []byte{0, 0, 0, 0, 0, 0, 0, 1}},
		{name: "结构优先原始字节", in: Addr{Raw: []byte{0x12, 0x34}, Hex: "FFFF", Dec: 7}, size: 2, want: []byte{0x12, 0x34}},
		{name: "结构其次十六进制", in: Addr{Hex: "1234", Dec: 7}, size: 2, want: []byte{0x12, 0x34}},
		{name: "结构最后数值", in: Addr{Dec: 0x1234}, size: 2, want: []byte{0x12, 0x34}},
		{name: "零值结构", in: Addr{}, size: 2, want: []byte{0, 0}},
		{name: "常用地址", in: Broadcast64, size: 8, want: []byte{0, 0, 0, 0, 0, 0, 0xFF, 0xFF}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := AddressToBytes(tt.in, tt.size)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAddressToBytes_Errors(t *testing.T) {
	tests := []struct {
		name string
		in   Address
		size int
		want error
	}{
		{name: "原始字节过长", in: RawAddress{1, 2, 3}, size: 2, want: ErrAddressTooLong},
		{name: "十六进制过长", in: HexAddress("123456"), size: 2, want: ErrAddressTooLong},
		{name: "非十六进制字符", in: HexAddress("FFZZ"), size: 2, want: ErrInvalidAddress},
		{name: "空串", in: HexAddress(""), size: 2, want: ErrInvalidAddress},
		{name: "数值过大", in: DecimalAddress(0x10000), size: 2, want: ErrAddressTooLong},
		{name: "nil", in: nil, size: 2, want: ErrInvalidAddress},
		{name: "size非法", in: RawAddress{1}, size: 0, want: ErrInvalidAddress},
		{name: "结构中原始字节过长", in: Addr{Raw: []byte{1, 2, 3}}, size: 2, want: ErrAddressTooLong},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := AddressToBytes(tt.in, tt.size)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

// AddressFromBytes(AddressToBytes(x, n)).Hex 为 2n 位大写补零十六进制
func TestAddress_CanonicalHex(t *testing.T) {
	inputs := []struct {
		in   Address
		size int
		hex  string
	}{
		{HexAddress("13a20040a6299d"), 8, "0013A20040A6299D"},
		{HexAddress("fffe"), 2, "FFFE"},
		{DecimalAddress(10), 2, "000A"},
		{RawAddress{0x7E}, 8, "000000000000007E"},
		{AddressFromBytes([]byte{0x12, 0x34}), 2, "1234"},
	}
	for _, tt := range inputs {
		b, err := AddressToBytes(tt.in, tt.size)
		require.NoError(t, err)
		a := AddressFromBytes(b)
		assert.Len(t, a.Hex, 2*tt.size)
		assert.Equal(t, tt.hex, a.Hex)

		// raw -> hex/dec -> raw 稳定
		fromHex, err := AddressToBytes(HexAddress(a.Hex), tt.size)
		require.NoError(t, err)
		assert.Equal(t, b, fromHex)
		fromDec, err := AddressToBytes(DecimalAddress(a.Dec), tt.size)
		require.NoError(t, err)
		assert.Equal(t, b, fromDec)
	}
}
