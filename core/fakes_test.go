package core

import (
	"fmt"
	"net"

	"github.com/0xef53/networkctl/internal/rtnl"

	"github.com/vishvananda/netlink"
	"github.com/vishvananda/netlink/nl"
	"golang.org/x/sys/unix"
)

type fakeTransport struct {
	replies  map[uint16][]rtnl.Message
	err      error
	requests []*nl.NetlinkRequest
}

func (t *fakeTransport) Dump(req *nl.NetlinkRequest) ([]rtnl.Message, error) {
	t.requests = append(t.requests, req)

	if t.err != nil {
		return nil, t.err
	}

	return t.replies[req.Type], nil
}

type linkRecord struct {
	index  int32
	iftype uint16
	name   string
	hw     net.HardwareAddr
	mtu    uint32
	minMTU uint32
	maxMTU uint32
	txq    uint32
	rxq    uint32
}

func (r *linkRecord) message() rtnl.Message {
	msg := nl.NewIfInfomsg(unix.AF_UNSPEC)
	msg.Index = r.index
	msg.Type = r.iftype

	b := msg.Serialize()

	if len(r.name) > 0 {
		b = append(b, nl.NewRtAttr(unix.IFLA_IFNAME, nl.ZeroTerminated(r.name)).Serialize()...)
	}
	if r.hw != nil {
		b = append(b, nl.NewRtAttr(unix.IFLA_ADDRESS, []byte(r.hw)).Serialize()...)
	}
	if r.mtu > 0 {
		b = append(b, nl.NewRtAttr(unix.IFLA_MTU, nl.Uint32Attr(r.mtu)).Serialize()...)
	}
	if r.minMTU > 0 {
		b = append(b, nl.NewRtAttr(unix.IFLA_MIN_MTU, nl.Uint32Attr(r.minMTU)).Serialize()...)
	}
	if r.maxMTU > 0 {
		b = append(b, nl.NewRtAttr(unix.IFLA_MAX_MTU, nl.Uint32Attr(r.maxMTU)).Serialize()...)
	}
	if r.txq > 0 {
		b = append(b, nl.NewRtAttr(unix.IFLA_NUM_TX_QUEUES, nl.Uint32Attr(r.txq)).Serialize()...)
	}
	if r.rxq > 0 {
		b = append(b, nl.NewRtAttr(unix.IFLA_NUM_RX_QUEUES, nl.Uint32Attr(r.rxq)).Serialize()...)
	}

	return rtnl.Message{Type: unix.RTM_NEWLINK, Flags: unix.NLM_F_MULTI, Data: b}
}

func linkMessages(records ...*linkRecord) []rtnl.Message {
	mm := make([]rtnl.Message, 0, len(records))

	for _, r := range records {
		mm = append(mm, r.message())
	}

	return mm
}

func neighborMessage(family InetFamily, ifindex int, ip net.IP, hw net.HardwareAddr) rtnl.Message {
	ndm := netlink.Ndmsg{
		Family: uint8(family),
		Index:  uint32(ifindex),
	}

	b := ndm.Serialize()

	if family == AF_INET {
		ip = ip.To4()
	}

	b = append(b, nl.NewRtAttr(unix.NDA_DST, []byte(ip)).Serialize()...)

	if hw != nil {
		b = append(b, nl.NewRtAttr(unix.NDA_LLADDR, []byte(hw)).Serialize()...)
	}

	return rtnl.Message{Type: unix.RTM_NEWNEIGH, Flags: unix.NLM_F_MULTI, Data: b}
}

func addrLabelMessage(prefix net.IP, plen uint8, label uint32) rtnl.Message {
	msg := ifAddrLblMsg{
		Family:    unix.AF_INET6,
		PrefixLen: plen,
	}

	b := msg.Serialize()

	b = append(b, nl.NewRtAttr(ifalAddress, []byte(prefix.To16())).Serialize()...)
	b = append(b, nl.NewRtAttr(ifalLabel, nl.Uint32Attr(label)).Serialize()...)

	return rtnl.Message{Type: rtmNewAddrLabel, Flags: unix.NLM_F_MULTI, Data: b}
}

type fakeHwdb struct {
	vendors map[string]string
	lookups []string
}

func (db *fakeHwdb) Vendor(key string) (string, error) {
	db.lookups = append(db.lookups, key)

	if v, ok := db.vendors[key]; ok {
		return v, nil
	}

	return "", ErrNoData
}

// fakeStateDB answers from per-interface maps. Interfaces
// without an entry are unknown to the daemon.
type fakeStateDB struct {
	oper  map[int]string
	setup map[int]string
	dns   map[int][]string
	bound map[int][]int
	tz    map[int]string
}

func (db *fakeStateDB) OperationalState(ifindex int) (string, error) {
	if v, ok := db.oper[ifindex]; ok {
		return v, nil
	}
	return "", ErrNoData
}

func (db *fakeStateDB) SetupState(ifindex int) (string, error) {
	if v, ok := db.setup[ifindex]; ok {
		return v, nil
	}
	return "", ErrNoData
}

func (db *fakeStateDB) DNS(ifindex int) ([]string, error) {
	if v, ok := db.dns[ifindex]; ok {
		return v, nil
	}
	return nil, ErrNoData
}

func (db *fakeStateDB) NTP(ifindex int) ([]string, error) {
	return nil, fmt.Errorf("broken state file")
}

func (db *fakeStateDB) SearchDomains(ifindex int) ([]string, error) {
	return nil, ErrNoData
}

func (db *fakeStateDB) RouteDomains(ifindex int) ([]string, error) {
	return nil, ErrNoData
}

func (db *fakeStateDB) CarrierBoundTo(ifindex int) ([]int, error) {
	if v, ok := db.bound[ifindex]; ok {
		return v, nil
	}
	return nil, ErrNoData
}

func (db *fakeStateDB) CarrierBoundBy(ifindex int) ([]int, error) {
	return nil, ErrNoData
}

func (db *fakeStateDB) NetworkFile(ifindex int) (string, error) {
	return "", ErrNoData
}

func (db *fakeStateDB) Timezone(ifindex int) (string, error) {
	if v, ok := db.tz[ifindex]; ok {
		return v, nil
	}
	return "", ErrNoData
}

type fakeDeviceDB struct {
	devices map[int]*DeviceInfo
}

func (db *fakeDeviceDB) Device(ifindex int, ifname string) (*DeviceInfo, error) {
	if d, ok := db.devices[ifindex]; ok {
		return d, nil
	}
	return nil, ErrNoData
}

type fakeAddressSource struct {
	addrs    []*LocalAddress
	gateways []*LocalAddress
	names    map[int]string

	deleted []int
	failOn  int
}

func (a *fakeAddressSource) filter(list []*LocalAddress, ifindex int) []*LocalAddress {
	var out []*LocalAddress

	for _, x := range list {
		if ifindex == 0 || x.LinkIndex == ifindex {
			out = append(out, x)
		}
	}

	return out
}

func (a *fakeAddressSource) Addresses(ifindex int, family InetFamily) ([]*LocalAddress, error) {
	return a.filter(a.addrs, ifindex), nil
}

func (a *fakeAddressSource) Gateways(ifindex int, family InetFamily) ([]*LocalAddress, error) {
	return a.filter(a.gateways, ifindex), nil
}

func (a *fakeAddressSource) LinkName(ifindex int) (string, error) {
	if name, ok := a.names[ifindex]; ok {
		return name, nil
	}
	return "", ErrNotFound
}

func (a *fakeAddressSource) LinkIndex(name string) (int, error) {
	for idx, n := range a.names {
		if n == name {
			return idx, nil
		}
	}
	return 0, ErrNotFound
}

func (a *fakeAddressSource) DeleteLink(ifindex int) error {
	if ifindex == a.failOn {
		return unix.EOPNOTSUPP
	}

	a.deleted = append(a.deleted, ifindex)

	return nil
}

type fakeFrameDecoder struct{}

// Decode treats the whole frame as the system name.
func (fakeFrameDecoder) Decode(raw []byte) (*LLDPNeighbor, error) {
	if len(raw) == 0 {
		return nil, ErrBadMessage
	}

	return &LLDPNeighbor{SystemName: string(raw)}, nil
}
