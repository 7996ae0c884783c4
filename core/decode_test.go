package core

import (
	"errors"
	"net"
	"syscall"
	"testing"

	"github.com/0xef53/networkctl/internal/rtnl"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func TestDecodeLink(t *testing.T) {
	rec := linkRecord{
		index:  2,
		iftype: unix.ARPHRD_ETHER,
		name:   "eth0",
		hw:     net.HardwareAddr{0x52, 0x54, 0x00, 0x12, 0x34, 0x56},
		mtu:    1500,
		minMTU: 68,
		maxMTU: 9000,
		txq:    4,
		rxq:    2,
	}
	m := rec.message()

	info, ok, err := decodeLink(&m, nil)
	require.NoError(t, err)
	require.True(t, ok)

	assert.Equal(t, &LinkInfo{
		Index:        2,
		Name:         "eth0",
		Type:         unix.ARPHRD_ETHER,
		HardwareAddr: rec.hw,
		MTU:          1500,
		MinMTU:       68,
		MaxMTU:       9000,
		TxQueues:     4,
		RxQueues:     2,
	}, info)
}

func TestDecodeLinkZeroHardwareAddr(t *testing.T) {
	m := (&linkRecord{
		index: 5,
		name:  "tun0",
		hw:    net.HardwareAddr{0, 0, 0, 0, 0, 0},
		mtu:   1400,
	}).message()

	info, ok, err := decodeLink(&m, nil)
	require.NoError(t, err)
	require.True(t, ok)

	assert.False(t, info.HasHardwareAddr())
	assert.Nil(t, info.HardwareAddr)
	assert.True(t, info.HasMTU())
	assert.False(t, info.HasQueues())
}

func TestDecodeLinkMinMaxWithoutMTU(t *testing.T) {
	m := (&linkRecord{
		index:  3,
		name:   "dummy0",
		minMTU: 68,
		maxMTU: 65535,
	}).message()

	info, ok, err := decodeLink(&m, nil)
	require.NoError(t, err)
	require.True(t, ok)

	assert.Zero(t, info.MTU)
	assert.Zero(t, info.MinMTU)
	assert.Zero(t, info.MaxMTU)
}

func TestDecodeLinkMissingName(t *testing.T) {
	m := (&linkRecord{index: 4, mtu: 1500}).message()

	info, ok, err := decodeLink(&m, nil)
	require.Error(t, err)
	assert.False(t, ok)
	assert.Nil(t, info)

	var decErr *DecodeError
	require.True(t, errors.As(err, &decErr))
	assert.Equal(t, "IFLA_IFNAME", decErr.Field)
}

func TestDecodeLinkInvalidIndex(t *testing.T) {
	m := (&linkRecord{index: 0, name: "eth0"}).message()

	_, _, err := decodeLink(&m, nil)
	assert.ErrorIs(t, err, ErrBadMessage)
}

func TestDecodeLinkTruncatedHeader(t *testing.T) {
	m := rtnl.Message{Type: unix.RTM_NEWLINK, Data: []byte{0, 0, 1}}

	_, _, err := decodeLink(&m, nil)
	assert.ErrorIs(t, err, ErrBadMessage)
}

func TestDecodeLinkOtherType(t *testing.T) {
	m := (&linkRecord{index: 1, name: "lo"}).message()
	m.Type = unix.RTM_DELLINK

	info, ok, err := decodeLink(&m, nil)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, info)
}

func TestDecodeLinkFiltered(t *testing.T) {
	m := (&linkRecord{index: 7, name: "wlan0", mtu: 1500}).message()

	_, ok, err := decodeLink(&m, []string{"eth*"})
	require.NoError(t, err)
	assert.False(t, ok)

	info, ok, err := decodeLink(&m, []string{"eth*", "7"})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "wlan0", info.Name)
}

func TestDecodeNeighbor(t *testing.T) {
	hw := net.HardwareAddr{0x00, 0x1b, 0x21, 0xaa, 0xbb, 0xcc}
	m := neighborMessage(AF_INET, 2, net.ParseIP("192.168.1.1"), hw)

	n, ok, err := decodeNeighbor(&m)
	require.NoError(t, err)
	require.True(t, ok)

	assert.Equal(t, AF_INET, n.Family)
	assert.Equal(t, 2, n.LinkIndex)
	assert.Equal(t, net.IP{192, 168, 1, 1}, n.IP)
	assert.Equal(t, hw, n.HardwareAddr)
}

func TestDecodeNeighborWithoutHardwareAddr(t *testing.T) {
	m := neighborMessage(AF_INET6, 3, net.ParseIP("fe80::1"), nil)

	n, ok, err := decodeNeighbor(&m)
	require.NoError(t, err)
	require.True(t, ok)

	assert.Equal(t, net.ParseIP("fe80::1"), n.IP)
	assert.Nil(t, n.HardwareAddr)
}

func TestDecodeNeighborUnsupportedFamily(t *testing.T) {
	m := neighborMessage(AF_INET, 2, net.ParseIP("10.0.0.1"), nil)
	m.Data[0] = unix.AF_PACKET

	_, _, err := decodeNeighbor(&m)
	assert.ErrorIs(t, err, syscall.EAFNOSUPPORT)
}

func TestDecodeNeighborAddressLengthMismatch(t *testing.T) {
	// An IPv6 destination inside an AF_INET record
	m := neighborMessage(AF_INET6, 2, net.ParseIP("fe80::1"), nil)
	m.Data[0] = unix.AF_INET

	_, _, err := decodeNeighbor(&m)
	assert.ErrorIs(t, err, ErrBadMessage)
}

func TestDecodeAddressLabel(t *testing.T) {
	m := addrLabelMessage(net.ParseIP("2001:db8::"), 32, 6)

	lbl, ok, err := decodeAddressLabel(&m)
	require.NoError(t, err)
	require.True(t, ok)

	assert.Equal(t, uint32(6), lbl.Label)
	assert.Equal(t, 32, lbl.PrefixLen)
	assert.Equal(t, net.ParseIP("2001:db8::"), lbl.Prefix)
}

func TestMatchLink(t *testing.T) {
	tests := []struct {
		patterns []string
		index    int
		name     string
		want     bool
	}{
		{[]string{"2", "eth*"}, 1, "lo", false},
		{[]string{"2", "eth*"}, 2, "wlan0", true},
		{[]string{"2", "eth*"}, 3, "eth0", true},
		{[]string{"ETH*"}, 3, "eth0", false},
		{[]string{"en?1"}, 4, "enp1", true},
		{[]string{"[0-9]"}, 12, "br0", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, matchLink(tt.patterns, tt.index, tt.name), "%v %d %s", tt.patterns, tt.index, tt.name)
	}
}
