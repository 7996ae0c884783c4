package core

import (
	"context"
	"errors"

	log "github.com/sirupsen/logrus"
)

const SetupStateUnmanaged = "unmanaged"

// ListLinks returns a short summary of every link matching the patterns.
func (s *Server) ListLinks(ctx context.Context, patterns []string) ([]*LinkSummary, error) {
	links, err := s.CollectLinks(ctx, patterns)
	if err != nil {
		return nil, err
	}

	summaries := make([]*LinkSummary, 0, len(links))

	for _, link := range links {
		summaries = append(summaries, &LinkSummary{
			Index:            link.Index,
			Name:             link.Name,
			Type:             LinkTypeString(link.Type, s.deviceInfo(link)),
			OperationalState: s.operationalState(link.Index),
			SetupState:       s.setupState(link.Index),
		})
	}

	return summaries, nil
}

// LinkStatuses collects the links matching the patterns (or all links
// if ShowAll is set) and assembles the full status of each one.
func (s *Server) LinkStatuses(ctx context.Context, patterns []string) ([]*LinkStatus, error) {
	if s.opts.ShowAll {
		patterns = nil
	}

	links, err := s.CollectLinks(ctx, patterns)
	if err != nil {
		return nil, err
	}

	statuses := make([]*LinkStatus, 0, len(links))

	for _, link := range links {
		statuses = append(statuses, s.LinkStatus(ctx, link))
	}

	return statuses, nil
}

// LinkStatus assembles everything known about the link. Every
// source is optional: a failed lookup leaves its field empty.
func (s *Server) LinkStatus(ctx context.Context, link *LinkInfo) *LinkStatus {
	st := LinkStatus{
		Link:             link,
		OperationalState: s.operationalState(link.Index),
		SetupState:       s.setupState(link.Index),
	}

	dev := s.deviceInfo(link)
	if dev != nil {
		st.Device = *dev
	}

	st.Type = LinkTypeString(link.Type, dev)

	if link.HasHardwareAddr() {
		if v, err := s.hardwareVendor(link.HardwareAddr); err == nil {
			st.HardwareVendor = v
		} else {
			log.Debugf("%s: no vendor for %s: %s", link.Name, link.HardwareAddr, err)
		}
	}

	st.Addresses = s.localAddresses(link.Index)
	st.Gateways = s.gateways(ctx, link.Index)

	if s.state != nil {
		st.NetworkFile = lookupString(link.Name, "network file", s.state.NetworkFile, link.Index)
		st.DNS = lookupList(link.Name, "DNS", s.state.DNS, link.Index)
		st.SearchDomains = lookupList(link.Name, "search domains", s.state.SearchDomains, link.Index)
		st.RouteDomains = lookupList(link.Name, "route domains", s.state.RouteDomains, link.Index)
		st.NTP = lookupList(link.Name, "NTP", s.state.NTP, link.Index)
		st.CarrierBoundTo = lookupIndexes(link.Name, "carrier bound to", s.state.CarrierBoundTo, link.Index)
		st.CarrierBoundBy = lookupIndexes(link.Name, "carrier bound by", s.state.CarrierBoundBy, link.Index)
		st.Timezone = lookupString(link.Name, "timezone", s.state.Timezone, link.Index)
	}

	if s.spool != nil {
		nn, err := s.spool.ReadAll(link.Index)
		if err != nil {
			log.Warnf("%s: failed to read LLDP neighbors: %s", link.Name, err)
		}
		st.LLDPNeighbors = nn
	}

	return &st
}

// SystemStatus assembles the system-wide view: addresses, gateways
// and name/time servers of all links together.
func (s *Server) SystemStatus(ctx context.Context) *SystemStatus {
	st := SystemStatus{
		OperationalState: s.operationalState(0),
		Addresses:        s.localAddresses(0),
		Gateways:         s.gateways(ctx, 0),
	}

	if s.state != nil {
		st.DNS = lookupList("system", "DNS", s.state.DNS, 0)
		st.SearchDomains = lookupList("system", "search domains", s.state.SearchDomains, 0)
		st.RouteDomains = lookupList("system", "route domains", s.state.RouteDomains, 0)
		st.NTP = lookupList("system", "NTP", s.state.NTP, 0)
	}

	return &st
}

func (s *Server) operationalState(ifindex int) string {
	if s.state == nil {
		return ""
	}

	v, err := s.state.OperationalState(ifindex)
	if err != nil {
		log.Debugf("could not get operational state of %d: %s", ifindex, err)
		return ""
	}

	return v
}

// setupState substitutes "unmanaged" when the daemon knows nothing
// about the interface.
func (s *Server) setupState(ifindex int) string {
	if s.state == nil {
		return SetupStateUnmanaged
	}

	v, err := s.state.SetupState(ifindex)
	switch {
	case errors.Is(err, ErrNoData):
		return SetupStateUnmanaged
	case err != nil:
		log.Debugf("could not get setup state of %d: %s", ifindex, err)
		return ""
	}

	return v
}

func (s *Server) deviceInfo(link *LinkInfo) *DeviceInfo {
	if s.devices == nil {
		return nil
	}

	dev, err := s.devices.Device(link.Index, link.Name)
	if err != nil {
		log.Debugf("%s: no device information: %s", link.Name, err)
		return nil
	}

	return dev
}

func (s *Server) localAddresses(ifindex int) []*LocalAddress {
	if s.addrs == nil {
		return nil
	}

	addrs, err := s.addrs.Addresses(ifindex, AF_UNSPEC)
	if err != nil {
		log.Debugf("could not get addresses of %d: %s", ifindex, err)
		return nil
	}

	return addrs
}

func (s *Server) gateways(ctx context.Context, ifindex int) []*GatewayInfo {
	if s.addrs == nil {
		return nil
	}

	tmp, err := s.addrs.Gateways(ifindex, AF_UNSPEC)
	if err != nil {
		log.Debugf("could not get gateways of %d: %s", ifindex, err)
		return nil
	}

	gws := make([]*GatewayInfo, 0, len(tmp))

	for _, x := range tmp {
		gw := GatewayInfo{LocalAddress: *x}

		hw, vendor, err := s.ResolveGateway(ctx, x.LinkIndex, x.Family, x.IP)
		if err == nil {
			gw.HardwareAddr = hw
			gw.Description = vendor
		} else {
			log.Debugf("could not get description of gateway %s: %s", x.IP, err)
		}

		gws = append(gws, &gw)
	}

	return gws
}

func lookupString(who, what string, fn func(int) (string, error), ifindex int) string {
	v, err := fn(ifindex)
	if err != nil {
		if !errors.Is(err, ErrNoData) {
			log.Debugf("%s: could not get %s: %s", who, what, err)
		}
		return ""
	}

	return v
}

func lookupList(who, what string, fn func(int) ([]string, error), ifindex int) []string {
	v, err := fn(ifindex)
	if err != nil {
		if !errors.Is(err, ErrNoData) {
			log.Debugf("%s: could not get %s: %s", who, what, err)
		}
		return nil
	}

	return v
}

func lookupIndexes(who, what string, fn func(int) ([]int, error), ifindex int) []int {
	v, err := fn(ifindex)
	if err != nil {
		if !errors.Is(err, ErrNoData) {
			log.Debugf("%s: could not get %s: %s", who, what, err)
		}
		return nil
	}

	return v
}
