// Package lldp decodes the Ethernet frames carrying IEEE 802.1AB
// (LLDP) data units that systemd-networkd caches for each interface.
package lldp

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"net"
	"strings"
	"unicode"

	"github.com/0xef53/networkctl/core"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
)

// Bits of the enabled capabilities mask, in the order of
// IEEE 802.1AB-2009 section 8.5.8.1
const (
	CapOther uint16 = 1 << iota
	CapRepeater
	CapBridge
	CapWLANAccessPoint
	CapRouter
	CapTelephone
	CapDOCSIS
	CapStation
	CapCVLAN
	CapSVLAN
	CapTPMR
)

const (
	chassisIDSubtypeNetworkAddr layers.LLDPChassisIDSubType = 5
	portIDSubtypeNetworkAddr    layers.LLDPPortIDSubType    = 4

	// IANA address family numbers
	ianaFamilyIPv4 = 1
	ianaFamilyIPv6 = 2
)

type Decoder struct{}

func NewDecoder() *Decoder {
	return &Decoder{}
}

// Decode parses a raw Ethernet frame and returns the summary
// of the LLDP data unit it carries.
func (d *Decoder) Decode(raw []byte) (*core.LLDPNeighbor, error) {
	pkt := gopacket.NewPacket(raw, layers.LayerTypeEthernet, gopacket.Default)

	l := pkt.Layer(layers.LayerTypeLinkLayerDiscovery)
	if l == nil {
		if errLayer := pkt.ErrorLayer(); errLayer != nil {
			return nil, fmt.Errorf("%w: %s", core.ErrBadMessage, errLayer.Error())
		}
		return nil, fmt.Errorf("%w: not an LLDP frame", core.ErrBadMessage)
	}

	lldp := l.(*layers.LinkLayerDiscovery)

	n := core.LLDPNeighbor{
		ChassisID: formatChassisID(&lldp.ChassisID),
		PortID:    formatPortID(&lldp.PortID),
	}

	if l := pkt.Layer(layers.LayerTypeLinkLayerDiscoveryInfo); l != nil {
		info := l.(*layers.LinkLayerDiscoveryInfo)

		n.PortDescription = info.PortDescription
		n.SystemName = info.SysName

		for _, v := range lldp.Values {
			if v.Type == layers.LLDPTLVSysCapabilities {
				n.EnabledCapabilities = capabilitiesMask(&info.SysCapabilities.EnabledCap)
				n.HasCapabilities = true
				break
			}
		}
	} else {
		// The optional TLVs could not be decoded, take the plain strings as they are
		for _, v := range lldp.Values {
			switch v.Type {
			case layers.LLDPTLVPortDescription:
				n.PortDescription = string(v.Value)
			case layers.LLDPTLVSysName:
				n.SystemName = string(v.Value)
			case layers.LLDPTLVSysCapabilities:
				if len(v.Value) == 4 {
					n.EnabledCapabilities = binary.BigEndian.Uint16(v.Value[2:4])
					n.HasCapabilities = true
				}
			}
		}
	}

	return &n, nil
}

func capabilitiesMask(c *layers.LLDPCapabilities) uint16 {
	var mask uint16

	for bit, ok := range map[uint16]bool{
		CapOther:           c.Other,
		CapRepeater:        c.Repeater,
		CapBridge:          c.Bridge,
		CapWLANAccessPoint: c.WLANAP,
		CapRouter:          c.Router,
		CapTelephone:       c.Phone,
		CapDOCSIS:          c.DocSis,
		CapStation:         c.StationOnly,
		CapCVLAN:           c.CVLAN,
		CapSVLAN:           c.SVLAN,
		CapTPMR:            c.TMPR,
	} {
		if ok {
			mask |= bit
		}
	}

	return mask
}

func formatChassisID(id *layers.LLDPChassisID) string {
	switch id.Subtype {
	case layers.LLDPChassisIDSubTypeMACAddr:
		return formatMAC(id.ID)
	case chassisIDSubtypeNetworkAddr:
		return formatNetworkAddr(id.ID)
	}

	return formatString(id.ID)
}

func formatPortID(id *layers.LLDPPortID) string {
	switch id.Subtype {
	case layers.LLDPPortIDSubtypeMACAddr:
		return formatMAC(id.ID)
	case portIDSubtypeNetworkAddr:
		return formatNetworkAddr(id.ID)
	}

	return formatString(id.ID)
}

func formatMAC(b []byte) string {
	if len(b) != 6 {
		return hex.EncodeToString(b)
	}

	return net.HardwareAddr(b).String()
}

func formatNetworkAddr(b []byte) string {
	if len(b) > 0 {
		switch {
		case b[0] == ianaFamilyIPv4 && len(b) == 1+net.IPv4len:
			return net.IP(b[1:]).String()
		case b[0] == ianaFamilyIPv6 && len(b) == 1+net.IPv6len:
			return net.IP(b[1:]).String()
		}
	}

	return hex.EncodeToString(b)
}

// formatString returns the ID as text if it is printable
// and as a hex dump otherwise.
func formatString(b []byte) string {
	s := strings.TrimSpace(string(b))

	if len(s) == 0 {
		return hex.EncodeToString(b)
	}

	for _, c := range s {
		if !unicode.IsPrint(c) {
			return hex.EncodeToString(b)
		}
	}

	return s
}
