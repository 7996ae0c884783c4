package core

import (
	"encoding/json"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinkInfoJSON(t *testing.T) {
	li := LinkInfo{
		Index:        2,
		Name:         "eth0",
		HardwareAddr: net.HardwareAddr{0x00, 0x11, 0x22, 0x33, 0x44, 0x55},
		MTU:          1500,
	}

	b, err := json.Marshal(&li)
	require.NoError(t, err)

	var v map[string]interface{}
	require.NoError(t, json.Unmarshal(b, &v))

	assert.Equal(t, "00:11:22:33:44:55", v["hwaddr"])
	assert.Equal(t, "eth0", v["name"])
	assert.Equal(t, float64(1500), v["mtu"])

	b, err = json.Marshal(LinkInfo{Index: 1, Name: "lo"})
	require.NoError(t, err)
	assert.NotContains(t, string(b), "hwaddr")
}

func TestGatewayInfoJSON(t *testing.T) {
	gw := GatewayInfo{
		LocalAddress: LocalAddress{LinkIndex: 2, Family: AF_INET, IP: net.ParseIP("192.168.1.1")},
		HardwareAddr: net.HardwareAddr{0x00, 0x1b, 0x21, 0xaa, 0xbb, 0xcc},
		Description:  "Intel Corporate",
	}

	b, err := json.Marshal(&gw)
	require.NoError(t, err)

	var v map[string]interface{}
	require.NoError(t, json.Unmarshal(b, &v))

	assert.Equal(t, "00:1b:21:aa:bb:cc", v["hwaddr"])
	assert.Equal(t, "192.168.1.1", v["address"])
	assert.Equal(t, float64(2), v["ifindex"])
	assert.Equal(t, "Intel Corporate", v["description"])
}
