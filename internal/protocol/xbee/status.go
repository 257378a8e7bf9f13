package xbee

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// StatusKind 状态码类别
type StatusKind string

const (
	KindCommand   StatusKind = "command"
	KindModem     StatusKind = "modem"
	KindDelivery  StatusKind = "delivery"
	KindDiscovery StatusKind = "discovery"
)

// AT 命令状态
const (
	CommandOK               byte = 0
	CommandError            byte = 1
	CommandInvalidCommand   byte = 2
	CommandInvalidParameter byte = 3
	CommandTxFailure        byte = 4
)

// 模块状态
const (
	ModemHardwareReset      byte = 0
	ModemWatchdogReset      byte = 1
	ModemJoinedNetwork      byte = 2
	ModemDisassociated      byte = 3
	ModemCoordinatorStarted byte = 6
	ModemStackError         byte = 0x80
)

// 投递状态
const (
	DeliverySuccess       byte = 0x00
	DeliveryMACAckFailure byte = 0x01
	DeliveryNetworkAck    byte = 0x21
	DeliveryRouteNotFound byte = 0x25
)

// 发现状态
const (
	DiscoveryNone            byte = 0x00
	DiscoveryAddress         byte = 0x01
	DiscoveryRoute           byte = 0x02
	DiscoveryAddressAndRoute byte = 0x03
	DiscoveryExtendedTimeout byte = 0x40
)

// Status 状态码及其名称；未知码 Name 为空，不视为错误
type Status struct {
	Kind StatusKind
	Code byte
	Name string
}

// Known 是否在名称表中
func (s Status) Known() bool { return s.Name != "" }

// String 返回名称，未知码返回 "unknown code N"
func (s Status) String() string {
	if s.Name != "" {
		return s.Name
	}
	return fmt.Sprintf("unknown code %d", s.Code)
}

// StatusNames 各类状态码名称表
type StatusNames struct {
	Command   map[byte]string `yaml:"command"`
	Modem     map[byte]string `yaml:"modem"`
	Delivery  map[byte]string `yaml:"delivery"`
	Discovery map[byte]string `yaml:"discovery"`
}

// DefaultStatusNames 返回内置名称表（每次返回新副本）
func DefaultStatusNames() *StatusNames {
	return &StatusNames{
		Command: map[byte]string{
			0: "OK",
			1: "ERROR",
			2: "Invalid Command",
			3: "Invalid Parameter",
			4: "Tx Failure",
		},
		Modem: map[byte]string{
			0:    "Hardware reset",
			1:    "Watchdog timer reset",
			2:    "Joined network",
			3:    "Disassociated",
			6:    "Coordinator started",
			7:    "Network security key was updated",
			13:   "Voltage supply limit exceeded",
			17:   "Modem configuration changed while join in progress",
			0x80: "Stack error",
		},
		Delivery: map[byte]string{
			0:   "Success",
			1:   "MAC ACK Failure",
			2:   "CCA Failure",
			21:  "Invalid destination endpoint",
			33:  "Network ACK Failure",
			34:  "Not Joined to Network",
			35:  "Self-addressed",
			36:  "Address Not Found",
			37:  "Route Not Found",
			38:  "Broadcast source failed to hear a neighbor relay the message",
			43:  "Invalid binding table index",
			44:  "Resource error lack of free buffers, timers, etc.",
			45:  "Attempted broadcast with APS transmission",
			46:  "Attempted unicast with APS transmission, but EE=0",
			50:  "Resource error lack of free buffers, timers, etc.",
			116: "Data payload too large",
			117: "Indirect message unrequested",
		},
		Discovery: map[byte]string{
			0:  "No Discovery Overhead",
			1:  "Address Discovery",
			2:  "Route Discovery",
			3:  "Address and Route Discovery",
			64: "Extended Timeout Discovery",
		},
	}
}

// LoadStatusNames 从 YAML 读取名称覆盖表，并合并到内置表之上
func LoadStatusNames(path string) (*StatusNames, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read status names: %w", err)
	}
	var overlay StatusNames
	if err := yaml.Unmarshal(b, &overlay); err != nil {
		return nil, fmt.Errorf("unmarshal status names: %w", err)
	}
	names := DefaultStatusNames()
	names.Merge(&overlay)
	return names, nil
}

// Merge 合并另一份名称表（只增改，不删除）
func (n *StatusNames) Merge(other *StatusNames) {
	if n == nil || other == nil {
		return
	}
	n.Command = mergeNames(n.Command, other.Command)
	n.Modem = mergeNames(n.Modem, other.Modem)
	n.Delivery = mergeNames(n.Delivery, other.Delivery)
	n.Discovery = mergeNames(n.Discovery, other.Discovery)
}

func mergeNames(dst, src map[byte]string) map[byte]string {
	if dst == nil {
		dst = make(map[byte]string, len(src))
	}
	for k, v := range src {
		if v != "" {
			dst[k] = v
		}
	}
	return dst
}

// Lookup 查找状态码名称
// 模块状态 >= 0x80 一律映射为通用的 "Stack error"
func (n *StatusNames) Lookup(kind StatusKind, code byte) Status {
	s := Status{Kind: kind, Code: code}
	if n == nil {
		return s
	}
	switch kind {
	case KindCommand:
		s.Name = n.Command[code]
	case KindModem:
		if code >= ModemStackError {
			s.Name = n.Modem[ModemStackError]
		} else {
			s.Name = n.Modem[code]
		}
	case KindDelivery:
		s.Name = n.Delivery[code]
	case KindDiscovery:
		s.Name = n.Discovery[code]
	}
	return s
}
