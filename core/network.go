package core

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"sort"

	log "github.com/sirupsen/logrus"
	"github.com/vishvananda/netlink"
	"github.com/vishvananda/netlink/nl"
	"golang.org/x/sys/unix"
)

// CollectLinks dumps all kernel links and returns those matching
// the patterns (all of them if none given), ordered by index.
// A record that cannot be decoded fails the whole collection.
func (s *Server) CollectLinks(ctx context.Context, patterns []string) ([]*LinkInfo, error) {
	req := nl.NewNetlinkRequest(unix.RTM_GETLINK, unix.NLM_F_DUMP)
	req.AddData(nl.NewIfInfomsg(unix.AF_UNSPEC))

	reply, err := s.rtnl.Dump(req)
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate links: %w", err)
	}

	links := make([]*LinkInfo, 0, len(reply))

	for i := range reply {
		if reply[i].Errno != 0 {
			return nil, fmt.Errorf("failed to enumerate links: %w", reply[i].Errno)
		}

		info, ok, err := decodeLink(&reply[i], patterns)
		if err != nil {
			return nil, err
		}
		if ok {
			links = append(links, info)
		}
	}

	sort.SliceStable(links, func(i, j int) bool {
		return links[i].Index < links[j].Index
	})

	return links, nil
}

// ResolveGateway looks up the neighbor cache entry of the gateway
// and returns its link-layer address together with the vendor name
// found in the hardware database. If ifindex is positive, only
// entries of that interface are considered. The first entry
// carrying a link-layer address wins.
func (s *Server) ResolveGateway(ctx context.Context, ifindex int, family InetFamily, gw net.IP) (net.HardwareAddr, string, error) {
	switch family {
	case AF_INET:
		gw = gw.To4()
	case AF_INET6:
		gw = gw.To16()
	default:
		return nil, "", fmt.Errorf("unsupported address family: %s", family)
	}
	if gw == nil {
		return nil, "", fmt.Errorf("gateway address does not belong to %s family", family)
	}

	req := nl.NewNetlinkRequest(unix.RTM_GETNEIGH, unix.NLM_F_DUMP)
	req.AddData(&netlink.Ndmsg{
		Family: uint8(family),
		Index:  uint32(ifindex),
	})

	reply, err := s.rtnl.Dump(req)
	if err != nil {
		return nil, "", fmt.Errorf("failed to dump neighbors: %w", err)
	}

	for i := range reply {
		m := &reply[i]

		if m.Errno != 0 {
			log.Debugf("neighbor dump: got error: %s", m.Errno)
			continue
		}

		if m.Type != unix.RTM_NEWNEIGH {
			log.Debugf("neighbor dump: unexpected record type %d", m.Type)
			continue
		}

		n, _, err := decodeNeighbor(m)
		if err != nil {
			log.Debugf("neighbor dump: %s", err)
			continue
		}

		if n.Family != family {
			log.Debugf("neighbor dump: unexpected family %s", n.Family)
			continue
		}

		if ifindex > 0 && n.LinkIndex != ifindex {
			continue
		}

		if !bytes.Equal(n.IP, gw) {
			continue
		}

		if n.HardwareAddr == nil {
			continue
		}

		vendor, err := s.hardwareVendor(n.HardwareAddr)
		if err != nil {
			log.Debugf("could not get vendor of %s: %s", n.HardwareAddr, err)
		}

		return n.HardwareAddr, vendor, nil
	}

	return nil, "", ErrNotFound
}

// hardwareVendor returns the IEEE OUI vendor string for the address.
// The 00:00:00 (Xerox) prefix is commonly misused and never looked up.
func (s *Server) hardwareVendor(hw net.HardwareAddr) (string, error) {
	if s.hwdb == nil {
		return "", ErrNoData
	}

	if len(hw) != 6 {
		return "", fmt.Errorf("invalid hardware address: %s", hw)
	}

	if hw[0] == 0 && hw[1] == 0 && hw[2] == 0 {
		return "", fmt.Errorf("skipping misused OUI prefix of %s: %w", hw, ErrNoData)
	}

	return s.hwdb.Vendor(fmt.Sprintf("OUI:%02X%02X%02X%02X%02X%02X", hw[0], hw[1], hw[2], hw[3], hw[4], hw[5]))
}

// AddressLabels dumps the IPv6 address label table.
func (s *Server) AddressLabels(ctx context.Context) ([]*AddressLabel, error) {
	req := nl.NewNetlinkRequest(rtmGetAddrLabel, unix.NLM_F_DUMP)
	req.AddData(&ifAddrLblMsg{Family: unix.AF_INET6})

	reply, err := s.rtnl.Dump(req)
	if err != nil {
		return nil, fmt.Errorf("failed to dump address labels: %w", err)
	}

	labels := make([]*AddressLabel, 0, len(reply))

	for i := range reply {
		if reply[i].Errno != 0 {
			log.Errorf("got error: %s", reply[i].Errno)
			continue
		}

		lbl, ok, err := decodeAddressLabel(&reply[i])
		if err != nil {
			log.Debugf("ignoring address label record: %s", err)
			continue
		}
		if ok {
			labels = append(labels, lbl)
		}
	}

	sort.SliceStable(labels, func(i, j int) bool {
		return labels[i].Label < labels[j].Label
	})

	return labels, nil
}

// DeleteLinks removes the given links. Each argument is either
// an interface index or an interface name.
func (s *Server) DeleteLinks(ctx context.Context, d LinkDeleter, args []string) error {
	indexes := make([]int, 0, len(args))
	seen := make(map[int]struct{})

	for _, arg := range args {
		idx, err := parseIfindex(arg)
		if err != nil {
			idx, err = d.LinkIndex(arg)
			if err != nil {
				return fmt.Errorf("failed to resolve interface %s: %w", arg, err)
			}
		}

		if _, ok := seen[idx]; ok {
			continue
		}
		seen[idx] = struct{}{}

		indexes = append(indexes, idx)
	}

	for _, idx := range indexes {
		if err := d.DeleteLink(idx); err != nil {
			if name, err2 := s.LinkName(idx); err2 == nil {
				return fmt.Errorf("failed to delete interface %s: %w", name, err)
			}

			return fmt.Errorf("failed to delete interface %d: %w", idx, err)
		}

		log.Debugf("interface %d deleted", idx)
	}

	return nil
}

func (s *Server) LinkName(ifindex int) (string, error) {
	if s.addrs == nil {
		return "", ErrNoData
	}

	return s.addrs.LinkName(ifindex)
}

// NetlinkAddressSource enumerates addresses and default routes
// and deletes links using a netlink handle.
type NetlinkAddressSource struct {
	h *netlink.Handle
}

func NewNetlinkAddressSource(h *netlink.Handle) *NetlinkAddressSource {
	return &NetlinkAddressSource{h: h}
}

func (a *NetlinkAddressSource) Addresses(ifindex int, family InetFamily) ([]*LocalAddress, error) {
	var link netlink.Link

	if ifindex > 0 {
		l, err := a.h.LinkByIndex(ifindex)
		if err != nil {
			return nil, rtnlError(err)
		}
		link = l
	}

	tmp, err := a.h.AddrList(link, int(family))
	if err != nil {
		return nil, rtnlError(err)
	}

	return localAddresses(tmp), nil
}

func (a *NetlinkAddressSource) Gateways(ifindex int, family InetFamily) ([]*LocalAddress, error) {
	filter := netlink.Route{
		Table:     unix.RT_TABLE_MAIN,
		LinkIndex: ifindex,
	}
	mask := netlink.RT_FILTER_TABLE

	if ifindex > 0 {
		mask |= netlink.RT_FILTER_OIF
	}

	routes, err := a.h.RouteListFiltered(int(family), &filter, mask)
	if err != nil {
		return nil, rtnlError(err)
	}

	return defaultGateways(routes, ifindex), nil
}

func (a *NetlinkAddressSource) LinkName(ifindex int) (string, error) {
	link, err := a.h.LinkByIndex(ifindex)
	if err != nil {
		return "", rtnlError(err)
	}

	return link.Attrs().Name, nil
}

func (a *NetlinkAddressSource) LinkIndex(name string) (int, error) {
	link, err := a.h.LinkByName(name)
	if err != nil {
		return 0, rtnlError(err)
	}

	return link.Attrs().Index, nil
}

func (a *NetlinkAddressSource) DeleteLink(ifindex int) error {
	link := &netlink.Device{
		LinkAttrs: netlink.LinkAttrs{Index: ifindex},
	}

	if err := a.h.LinkDel(link); err != nil {
		return rtnlError(err)
	}

	return nil
}

// localAddresses converts netlink addresses skipping host-scope
// and deprecated ones.
func localAddresses(tmp []netlink.Addr) []*LocalAddress {
	addrs := make([]*LocalAddress, 0, len(tmp))

	for _, x := range tmp {
		if x.IPNet == nil {
			continue
		}

		// Skip host-scope addresses (e.g. 127.0.0.1, ::1)
		if x.Scope >= unix.RT_SCOPE_HOST {
			continue
		}

		if x.Flags&unix.IFA_F_DEPRECATED != 0 {
			continue
		}

		ones, _ := x.Mask.Size()

		addrs = append(addrs, &LocalAddress{
			LinkIndex: x.LinkIndex,
			Family:    InetFamily(nl.GetIPFamily(x.IP)),
			IP:        x.IP,
			PrefixLen: ones,
		})
	}

	sortAddresses(addrs, false)

	return addrs
}

// defaultGateways collects the next hops of default routes,
// expanding multipath routes. A positive ifindex keeps only
// the hops leaving through that link.
func defaultGateways(routes []netlink.Route, ifindex int) []*LocalAddress {
	var gws []*LocalAddress

	add := func(linkIndex, metric int, gw net.IP) {
		if gw == nil {
			return
		}
		if ifindex > 0 && linkIndex != ifindex {
			return
		}

		gws = append(gws, &LocalAddress{
			LinkIndex: linkIndex,
			Family:    InetFamily(nl.GetIPFamily(gw)),
			IP:        gw,
			Metric:    metric,
		})
	}

	for i := range routes {
		r := &routes[i]

		if !isDefaultRoute(r) {
			continue
		}

		if len(r.MultiPath) > 0 {
			for _, nh := range r.MultiPath {
				add(nh.LinkIndex, r.Priority, nh.Gw)
			}
			continue
		}

		add(r.LinkIndex, r.Priority, r.Gw)
	}

	sortAddresses(gws, true)

	return gws
}

func isDefaultRoute(r *netlink.Route) bool {
	if r.Dst == nil {
		return true
	}

	ones, _ := r.Dst.Mask.Size()

	return ones == 0 && r.Dst.IP.IsUnspecified()
}

func sortAddresses(addrs []*LocalAddress, byMetric bool) {
	sort.SliceStable(addrs, func(i, j int) bool {
		a, b := addrs[i], addrs[j]

		if byMetric && a.Metric != b.Metric {
			return a.Metric < b.Metric
		}
		if a.Family != b.Family {
			return a.Family < b.Family
		}
		if a.LinkIndex != b.LinkIndex {
			return a.LinkIndex < b.LinkIndex
		}

		return bytes.Compare(a.IP, b.IP) < 0
	})
}
