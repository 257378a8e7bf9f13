package xbee

import (
	"testing"
)

func TestCalculateChecksum(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		expected byte
	}{
		{
			name:     "空数据",
			data:     []byte{},
			expected: 0xFF,
		},
		{
			name:     "模块状态",
			data:     []byte{0x8A, 0x06},
			expected: 0x6F,
		},
		{
			name:     "AT命令NJ",
			data:     []byte{0x08, 0x52, 0x4E, 0x4A},
			expected: 0x0D,
		},
		{
			name:     "累加溢出",
			data:     []byte{0xFF, 0xFF, 0x02},
			expected: 0xFF - 0x00,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CalculateChecksum(tt.data)
			if result != tt.expected {
				t.Errorf("CalculateChecksum() = 0x%02X, expected 0x%02X", result, tt.expected)
			}
		})
	}
}

func TestVerifyChecksum(t *testing.T) {
	tests := []struct {
		name    string
		data    []byte
		wantErr error
	}{
		{
			name:    "空数据",
			data:    []byte{},
			wantErr: ErrShortFrame,
		},
		{
			name:    "正确的校验和",
			data:    []byte{0x08, 0x52, 0x4E, 0x4A, 0x0D},
			wantErr: nil,
		},
		{
			name:    "错误的校验和",
			data:    []byte{0x08, 0x52, 0x4E, 0x4A, 0x0E},
			wantErr: ErrChecksumMismatch,
		},
		{
			name:    "仅校验和",
			data:    []byte{0xFF},
			wantErr: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := VerifyChecksum(tt.data)
			if err != tt.wantErr {
				t.Errorf("VerifyChecksum() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// 任意长度内容追加自身校验和后都能通过校验
func TestChecksum_RoundTrip(t *testing.T) {
	for _, n := range []int{1, 2, 255, 256, 1024, MaxContentLen} {
		content := make([]byte, n)
		for i := range content {
			content[i] = byte(i*31 + n)
		}
		withSum := append(content, CalculateChecksum(content))
		if err := VerifyChecksum(withSum); err != nil {
			t.Fatalf("len=%d: %v", n, err)
		}
	}
}
