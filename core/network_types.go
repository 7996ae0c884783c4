package core

import (
	"encoding/json"
	"fmt"
	"net"
	"syscall"
)

type InetFamily uint16

const (
	AF_UNSPEC InetFamily = syscall.AF_UNSPEC
	AF_INET   InetFamily = syscall.AF_INET
	AF_INET6  InetFamily = syscall.AF_INET6
)

func (f InetFamily) String() string {
	switch f {
	case AF_INET:
		return "inet"
	case AF_INET6:
		return "inet6"
	case AF_UNSPEC:
		return "unspec"
	}

	return fmt.Sprintf("af(%d)", uint16(f))
}

// addrLen returns the size of a protocol address of the family,
// or zero for families that are not supported.
func (f InetFamily) addrLen() int {
	switch f {
	case AF_INET:
		return net.IPv4len
	case AF_INET6:
		return net.IPv6len
	}

	return 0
}

// LinkInfo describes one kernel network interface as decoded
// from a RTM_NEWLINK record. Zero values of the optional numeric
// fields and a nil HardwareAddr mean "not reported".
type LinkInfo struct {
	Index        int              `json:"index"`
	Name         string           `json:"name"`
	Type         uint16           `json:"type"`
	HardwareAddr net.HardwareAddr `json:"hwaddr,omitempty"`
	MTU          uint32           `json:"mtu,omitempty"`
	MinMTU       uint32           `json:"min_mtu,omitempty"`
	MaxMTU       uint32           `json:"max_mtu,omitempty"`
	TxQueues     uint32           `json:"tx_queues,omitempty"`
	RxQueues     uint32           `json:"rx_queues,omitempty"`
}

func (li *LinkInfo) HasHardwareAddr() bool {
	return len(li.HardwareAddr) != 0
}

func (li *LinkInfo) HasMTU() bool {
	return li.MTU > 0
}

func (li *LinkInfo) HasQueues() bool {
	return li.TxQueues > 0 || li.RxQueues > 0
}

// MarshalJSON writes the hardware address in its colon-separated form.
func (li LinkInfo) MarshalJSON() ([]byte, error) {
	type plain LinkInfo

	return json.Marshal(struct {
		plain
		HardwareAddr string `json:"hwaddr,omitempty"`
	}{plain(li), hwaddrString(li.HardwareAddr)})
}

// Neighbor is one entry of the kernel neighbor (ARP/NDP) cache.
type Neighbor struct {
	Family       InetFamily
	LinkIndex    int
	IP           net.IP
	HardwareAddr net.HardwareAddr
}

// LocalAddress is an address assigned to an interface or a gateway
// of a default route, depending on where it came from.
type LocalAddress struct {
	LinkIndex int        `json:"ifindex"`
	Family    InetFamily `json:"family"`
	IP        net.IP     `json:"address"`
	PrefixLen int        `json:"prefixlen,omitempty"`
	Metric    int        `json:"metric,omitempty"`
}

type GatewayInfo struct {
	LocalAddress

	HardwareAddr net.HardwareAddr `json:"hwaddr,omitempty"`
	Description  string           `json:"description,omitempty"`
}

func (gw GatewayInfo) MarshalJSON() ([]byte, error) {
	type plain GatewayInfo

	return json.Marshal(struct {
		plain
		HardwareAddr string `json:"hwaddr,omitempty"`
	}{plain(gw), hwaddrString(gw.HardwareAddr)})
}

func hwaddrString(hw net.HardwareAddr) string {
	if len(hw) == 0 {
		return ""
	}

	return hw.String()
}

type AddressLabel struct {
	Label     uint32 `json:"label"`
	Prefix    net.IP `json:"prefix"`
	PrefixLen int    `json:"prefixlen"`
}

// DeviceInfo holds the properties the device database knows
// about a network interface. Every field is optional.
type DeviceInfo struct {
	DevType  string `json:"devtype,omitempty"`
	Driver   string `json:"driver,omitempty"`
	Path     string `json:"path,omitempty"`
	Vendor   string `json:"vendor,omitempty"`
	Model    string `json:"model,omitempty"`
	LinkFile string `json:"link_file,omitempty"`
}

// LLDPNeighbor is a summary of one cached LLDP frame.
type LLDPNeighbor struct {
	ChassisID       string `json:"chassis_id,omitempty"`
	PortID          string `json:"port_id,omitempty"`
	PortDescription string `json:"port_description,omitempty"`
	SystemName      string `json:"system_name,omitempty"`

	// EnabledCapabilities is the IEEE 802.1AB enabled capabilities
	// bitmask. Valid only when HasCapabilities is set.
	EnabledCapabilities uint16 `json:"enabled_capabilities,omitempty"`
	HasCapabilities     bool   `json:"-"`
}

type LinkLLDPNeighbor struct {
	LinkName string `json:"link"`

	*LLDPNeighbor
}

type LinkSummary struct {
	Index            int    `json:"index"`
	Name             string `json:"name"`
	Type             string `json:"type"`
	OperationalState string `json:"operational_state"`
	SetupState       string `json:"setup_state"`
}

// LinkStatus is the full view of one interface. Every field except
// Link may be empty when the corresponding source had nothing to say.
type LinkStatus struct {
	Link *LinkInfo `json:"link"`

	Type             string `json:"type,omitempty"`
	OperationalState string `json:"operational_state,omitempty"`
	SetupState       string `json:"setup_state,omitempty"`
	NetworkFile      string `json:"network_file,omitempty"`

	Device         DeviceInfo `json:"device"`
	HardwareVendor string     `json:"hwaddr_vendor,omitempty"`

	Addresses      []*LocalAddress `json:"addresses,omitempty"`
	Gateways       []*GatewayInfo  `json:"gateways,omitempty"`
	DNS            []string        `json:"dns,omitempty"`
	SearchDomains  []string        `json:"search_domains,omitempty"`
	RouteDomains   []string        `json:"route_domains,omitempty"`
	NTP            []string        `json:"ntp,omitempty"`
	CarrierBoundTo []int           `json:"carrier_bound_to,omitempty"`
	CarrierBoundBy []int           `json:"carrier_bound_by,omitempty"`
	Timezone       string          `json:"timezone,omitempty"`

	LLDPNeighbors []*LLDPNeighbor `json:"lldp_neighbors,omitempty"`
}

type SystemStatus struct {
	OperationalState string `json:"operational_state,omitempty"`

	Addresses     []*LocalAddress `json:"addresses,omitempty"`
	Gateways      []*GatewayInfo  `json:"gateways,omitempty"`
	DNS           []string        `json:"dns,omitempty"`
	SearchDomains []string        `json:"search_domains,omitempty"`
	RouteDomains  []string        `json:"route_domains,omitempty"`
	NTP           []string        `json:"ntp,omitempty"`
}
