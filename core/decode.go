package core

import (
	"bytes"
	"errors"
	"net"
	"path"
	"strconv"
	"syscall"

	"github.com/0xef53/networkctl/internal/rtnl"

	"github.com/vishvananda/netlink/nl"
	"golang.org/x/sys/unix"
)

const sizeofNdmsg = 12

var errNoAttr = errors.New("attribute missing")

// decodeLink turns a RTM_NEWLINK record into LinkInfo.
// The boolean result is false when the record is of another type
// or does not match any of the patterns. Optional attributes that
// cannot be read are left unset.
func decodeLink(m *rtnl.Message, patterns []string) (*LinkInfo, bool, error) {
	if m.Type != unix.RTM_NEWLINK {
		return nil, false, nil
	}

	if len(m.Data) < unix.SizeofIfInfomsg {
		return nil, false, &DecodeError{Kind: "link", Field: "ifinfomsg", Err: ErrBadMessage}
	}

	hdr := nl.DeserializeIfInfomsg(m.Data[:unix.SizeofIfInfomsg])

	if hdr.Index <= 0 {
		return nil, false, &DecodeError{Kind: "link", Field: "ifindex", Err: ErrBadMessage}
	}

	attrs, err := parseAttrs(m.Data[unix.SizeofIfInfomsg:])
	if err != nil {
		return nil, false, &DecodeError{Kind: "link", Field: "attributes", Err: err}
	}

	name, err := attrString(attrs, unix.IFLA_IFNAME)
	if err != nil {
		return nil, false, &DecodeError{Kind: "link", Field: "IFLA_IFNAME", Err: err}
	}
	if len(name) == 0 || len(name) >= unix.IFNAMSIZ {
		return nil, false, &DecodeError{Kind: "link", Field: "IFLA_IFNAME", Err: ErrBadMessage}
	}

	if len(patterns) > 0 && !matchLink(patterns, int(hdr.Index), name) {
		return nil, false, nil
	}

	info := LinkInfo{
		Index: int(hdr.Index),
		Name:  name,
		Type:  hdr.Type,
	}

	if hw, err := attrEtherAddr(attrs, unix.IFLA_ADDRESS); err == nil && !isZeroAddr(hw) {
		info.HardwareAddr = hw
	}

	if v, err := attrUint32(attrs, unix.IFLA_MTU); err == nil && v > 0 {
		info.MTU = v

		if v, err := attrUint32(attrs, unix.IFLA_MIN_MTU); err == nil {
			info.MinMTU = v
		}
		if v, err := attrUint32(attrs, unix.IFLA_MAX_MTU); err == nil {
			info.MaxMTU = v
		}
	}

	if v, err := attrUint32(attrs, unix.IFLA_NUM_TX_QUEUES); err == nil && v > 0 {
		info.TxQueues = v
	}
	if v, err := attrUint32(attrs, unix.IFLA_NUM_RX_QUEUES); err == nil && v > 0 {
		info.RxQueues = v
	}

	return &info, true, nil
}

// decodeNeighbor turns a RTM_NEWNEIGH record into Neighbor.
// A missing link-layer address is not an error.
func decodeNeighbor(m *rtnl.Message) (*Neighbor, bool, error) {
	if m.Type != unix.RTM_NEWNEIGH {
		return nil, false, nil
	}

	if len(m.Data) < sizeofNdmsg {
		return nil, false, &DecodeError{Kind: "neighbor", Field: "ndmsg", Err: ErrBadMessage}
	}

	n := Neighbor{
		Family:    InetFamily(m.Data[0]),
		LinkIndex: int(int32(nl.NativeEndian().Uint32(m.Data[4:8]))),
	}

	alen := n.Family.addrLen()
	if alen == 0 {
		return nil, false, &DecodeError{Kind: "neighbor", Field: "family", Err: syscall.EAFNOSUPPORT}
	}

	attrs, err := parseAttrs(m.Data[sizeofNdmsg:])
	if err != nil {
		return nil, false, &DecodeError{Kind: "neighbor", Field: "attributes", Err: err}
	}

	dst, ok := attrs[unix.NDA_DST]
	if !ok {
		return nil, false, &DecodeError{Kind: "neighbor", Field: "NDA_DST", Err: errNoAttr}
	}
	if len(dst) != alen {
		return nil, false, &DecodeError{Kind: "neighbor", Field: "NDA_DST", Err: ErrBadMessage}
	}

	n.IP = net.IP(append([]byte(nil), dst...))

	if hw, err := attrEtherAddr(attrs, unix.NDA_LLADDR); err == nil {
		n.HardwareAddr = hw
	}

	return &n, true, nil
}

// ifAddrLblMsg is struct ifaddrlblmsg from linux/if_addrlabel.h
type ifAddrLblMsg struct {
	Family    uint8
	Reserved  uint8
	PrefixLen uint8
	Flags     uint8
	Index     uint32
	Seq       uint32
}

const (
	sizeofIfAddrLblMsg = 12

	rtmNewAddrLabel = 0x48
	rtmGetAddrLabel = 0x4a

	ifalAddress = 0x1
	ifalLabel   = 0x2
)

func (msg *ifAddrLblMsg) Len() int {
	return sizeofIfAddrLblMsg
}

func (msg *ifAddrLblMsg) Serialize() []byte {
	b := make([]byte, sizeofIfAddrLblMsg)

	b[0] = msg.Family
	b[1] = msg.Reserved
	b[2] = msg.PrefixLen
	b[3] = msg.Flags

	nl.NativeEndian().PutUint32(b[4:8], msg.Index)
	nl.NativeEndian().PutUint32(b[8:12], msg.Seq)

	return b
}

func decodeAddressLabel(m *rtnl.Message) (*AddressLabel, bool, error) {
	if m.Type != rtmNewAddrLabel {
		return nil, false, nil
	}

	if len(m.Data) < sizeofIfAddrLblMsg {
		return nil, false, &DecodeError{Kind: "addrlabel", Field: "ifaddrlblmsg", Err: ErrBadMessage}
	}

	attrs, err := parseAttrs(m.Data[sizeofIfAddrLblMsg:])
	if err != nil {
		return nil, false, &DecodeError{Kind: "addrlabel", Field: "attributes", Err: err}
	}

	prefix, ok := attrs[ifalAddress]
	if !ok || len(prefix) != net.IPv6len {
		return nil, false, &DecodeError{Kind: "addrlabel", Field: "IFAL_ADDRESS", Err: ErrBadMessage}
	}

	lbl := AddressLabel{
		Prefix:    net.IP(append([]byte(nil), prefix...)),
		PrefixLen: int(m.Data[2]),
	}

	switch v, err := attrUint32(attrs, ifalLabel); {
	case err == nil:
		lbl.Label = v
	case errors.Is(err, errNoAttr):
	default:
		return nil, false, &DecodeError{Kind: "addrlabel", Field: "IFAL_LABEL", Err: err}
	}

	return &lbl, true, nil
}

// matchLink reports whether the textual index or the name
// matches at least one of the shell patterns.
func matchLink(patterns []string, ifindex int, ifname string) bool {
	idx := strconv.Itoa(ifindex)

	for _, p := range patterns {
		if ok, _ := path.Match(p, idx); ok {
			return true
		}
		if ok, _ := path.Match(p, ifname); ok {
			return true
		}
	}

	return false
}

type attrSet map[uint16][]byte

func parseAttrs(b []byte) (attrSet, error) {
	list, err := nl.ParseRouteAttr(b)
	if err != nil {
		return nil, err
	}

	attrs := make(attrSet, len(list))

	for _, a := range list {
		t := a.Attr.Type &^ (unix.NLA_F_NESTED | unix.NLA_F_NET_BYTEORDER)

		// The first occurrence wins
		if _, ok := attrs[t]; !ok {
			attrs[t] = a.Value
		}
	}

	return attrs, nil
}

func attrString(attrs attrSet, t uint16) (string, error) {
	v, ok := attrs[t]
	if !ok {
		return "", errNoAttr
	}

	if i := bytes.IndexByte(v, 0); i >= 0 {
		v = v[:i]
	}

	return string(v), nil
}

func attrUint32(attrs attrSet, t uint16) (uint32, error) {
	v, ok := attrs[t]
	if !ok {
		return 0, errNoAttr
	}

	if len(v) != 4 {
		return 0, ErrBadMessage
	}

	return nl.NativeEndian().Uint32(v), nil
}

func attrEtherAddr(attrs attrSet, t uint16) (net.HardwareAddr, error) {
	v, ok := attrs[t]
	if !ok {
		return nil, errNoAttr
	}

	if len(v) != 6 {
		return nil, ErrBadMessage
	}

	return net.HardwareAddr(append([]byte(nil), v...)), nil
}

func isZeroAddr(hw net.HardwareAddr) bool {
	for _, b := range hw {
		if b != 0 {
			return false
		}
	}

	return true
}
