package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_FileAndDefaults(t *testing.T) {
	tmp := filepath.Join(t.TempDir(), "xbeed.yaml")
	doc := `
link:
  kind: serial
  device: /dev/ttyS3
  baudRate: 115200
xbee:
  maxFrameLen: 256
  startupCommands: ["CH", "ID", "MY"]
`
	require.NoError(t, os.WriteFile(tmp, []byte(doc), 0o644))

	cfg, err := Load(tmp)
	require.NoError(t, err)
	assert.Equal(t, "/dev/ttyS3", cfg.Link.Device)
	assert.Equal(t, 115200, cfg.Link.BaudRate)
	assert.Equal(t, 256, cfg.XBee.MaxFrameLen)
	assert.Equal(t, []string{"CH", "ID", "MY"}, cfg.XBee.StartupCommands)
	// 默认值
	assert.Equal(t, "xbeed", cfg.App.Name)
	assert.Equal(t, 2*time.Second, cfg.Link.WriteTimeout)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
}

func TestLoad_EnvOverride(t *testing.T) {
	tmp := filepath.Join(t.TempDir(), "xbeed.yaml")
	require.NoError(t, os.WriteFile(tmp, []byte("link:\n  kind: tcp\n  addr: 127.0.0.1:4001\n"), 0o644))
	t.Setenv("XBEE_LOGGING_LEVEL", "debug")
	t.Setenv("XBEE_LINK_ADDR", "10.0.0.5:4001")

	cfg, err := Load(tmp)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "10.0.0.5:4001", cfg.Link.Addr)
	assert.Equal(t, LinkTCP, cfg.Link.Kind)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		link    LinkConfig
		wantErr bool
	}{
		{name: "串口", link: LinkConfig{Kind: LinkSerial, Device: "/dev/ttyUSB0", BaudRate: 9600}},
		{name: "串口缺设备", link: LinkConfig{Kind: LinkSerial, BaudRate: 9600}, wantErr: true},
		{name: "串口波特率非法", link: LinkConfig{Kind: LinkSerial, Device: "/dev/ttyUSB0"}, wantErr: true},
		{name: "TCP", link: LinkConfig{Kind: "TCP", Addr: "localhost:4001"}},
		{name: "TCP缺地址", link: LinkConfig{Kind: LinkTCP}, wantErr: true},
		{name: "未知类型", link: LinkConfig{Kind: "usb"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Link: tt.link}
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
