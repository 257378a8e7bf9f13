package xbee

import "errors"

var (
	// ErrChecksumMismatch 校验和不匹配
	ErrChecksumMismatch = errors.New("checksum mismatch")
)

// CalculateChecksum 计算 API 帧校验和：0xFF - (内容累加和 % 256)
// 内容区：从 type 字节开始到最后一个数据字节（不含起始符与长度字段）
func CalculateChecksum(content []byte) byte {
	var sum byte
	for _, b := range content {
		sum += b
	}
	return 0xFF - sum
}

// VerifyChecksum 校验内容区（末字节为校验和）：累加和（含校验和）低 8 位必须为 0xFF
func VerifyChecksum(contentWithChecksum []byte) error {
	if len(contentWithChecksum) < 1 {
		return ErrShortFrame
	}
	var sum byte
	for _, b := range contentWithChecksum {
		sum += b
	}
	if sum != 0xFF {
		return ErrChecksumMismatch
	}
	return nil
}
