package client

import (
	"context"
	"fmt"
	"strconv"

	"github.com/0xef53/networkctl/core"

	"github.com/olekukonko/tablewriter"
)

func (c *Client) ShowLinks(ctx context.Context, patterns []string) error {
	links, err := c.srv.ListLinks(ctx, patterns)
	if err != nil {
		return err
	}

	if c.opts.JSON {
		return PrintJSON(c.out, links)
	}

	l := newListing(c.opts.Legend,
		column{header: "IDX", minWidth: 3, align: tablewriter.ALIGN_RIGHT},
		column{header: "LINK", minWidth: 16},
		column{header: "TYPE", minWidth: 18},
		column{header: "OPERATIONAL", minWidth: 16},
		column{header: "SETUP"},
	)

	for _, link := range links {
		operOn, operOff := c.operationalStateColor(link.OperationalState)
		setupOn, setupOff := c.setupStateColor(link.SetupState)

		l.append(
			strconv.Itoa(link.Index),
			link.Name,
			strna(link.Type),
			operOn+strna(link.OperationalState)+operOff,
			setupOn+strna(link.SetupState)+setupOff,
		)
	}

	l.render(c.out)

	if c.opts.Legend {
		fmt.Fprintf(c.out, "\n%d links listed.\n", len(links))
	}

	return nil
}

// ShowStatus prints the system status if no patterns are given,
// otherwise the status of every matching link.
func (c *Client) ShowStatus(ctx context.Context, patterns []string) error {
	if len(patterns) == 0 && !c.opts.ShowAll {
		st := c.srv.SystemStatus(ctx)

		if c.opts.JSON {
			return PrintJSON(c.out, st)
		}

		c.printSystemStatus(st)

		return nil
	}

	statuses, err := c.srv.LinkStatuses(ctx, patterns)
	if err != nil {
		return err
	}

	if c.opts.JSON {
		return PrintJSON(c.out, statuses)
	}

	for i, st := range statuses {
		if i > 0 {
			fmt.Fprintln(c.out)
		}
		c.printLinkStatus(st)
	}

	return nil
}

func (c *Client) printSystemStatus(st *core.SystemStatus) {
	on, off := c.operationalStateColor(st.OperationalState)

	t := statusTable{}

	t.add("State:", on+strna(st.OperationalState)+off)

	addrs := make([]string, 0, len(st.Addresses))
	for _, a := range st.Addresses {
		addrs = append(addrs, a.IP.String()+" on "+c.linkName(a.LinkIndex))
	}
	t.addList("Address:", addrs)

	gws := make([]string, 0, len(st.Gateways))
	for _, gw := range st.Gateways {
		gws = append(gws, gatewayString(gw)+" on "+c.linkName(gw.LinkIndex))
	}
	t.addList("Gateway:", gws)

	t.addList("DNS:", st.DNS)
	t.addList("Search Domains:", st.SearchDomains)
	t.addList("Route Domains:", st.RouteDomains)
	t.addList("NTP:", st.NTP)

	t.print(c.out, on, off)
}

func (c *Client) printLinkStatus(st *core.LinkStatus) {
	operOn, operOff := c.operationalStateColor(st.OperationalState)
	setupOn, setupOff := c.setupStateColor(st.SetupState)

	t := statusTable{
		title: []string{fmt.Sprintf("%d: %s", st.Link.Index, st.Link.Name)},
	}

	t.add("Link File:", strna(st.Device.LinkFile))
	t.add("Network File:", strna(st.NetworkFile))
	t.add("Type:", strna(st.Type))
	t.add("State:", fmt.Sprintf("%s%s%s (%s%s%s)",
		operOn, strna(st.OperationalState), operOff,
		setupOn, strna(st.SetupState), setupOff,
	))

	for _, x := range []struct{ key, value string }{
		{"Path:", st.Device.Path},
		{"Driver:", st.Device.Driver},
		{"Vendor:", st.Device.Vendor},
		{"Model:", st.Device.Model},
	} {
		if len(x.value) > 0 {
			t.add(x.key, x.value)
		}
	}

	if st.Link.HasHardwareAddr() {
		v := st.Link.HardwareAddr.String()
		if len(st.HardwareVendor) > 0 {
			v += " (" + st.HardwareVendor + ")"
		}
		t.add("HW Address:", v)
	}

	if st.Link.HasMTU() {
		t.add("MTU:", fmt.Sprintf("%d (Minimum: %d, Maximum: %d)", st.Link.MTU, st.Link.MinMTU, st.Link.MaxMTU))
	}

	if st.Link.HasQueues() {
		t.add("Queue Length (Tx/Rx):", fmt.Sprintf("%d/%d", st.Link.TxQueues, st.Link.RxQueues))
	}

	addrs := make([]string, 0, len(st.Addresses))
	for _, a := range st.Addresses {
		addrs = append(addrs, a.IP.String())
	}
	t.addList("Address:", addrs)

	gws := make([]string, 0, len(st.Gateways))
	for _, gw := range st.Gateways {
		gws = append(gws, gatewayString(gw))
	}
	t.addList("Gateway:", gws)

	t.addList("DNS:", st.DNS)
	t.addList("Search Domains:", st.SearchDomains)
	t.addList("Route Domains:", st.RouteDomains)
	t.addList("NTP:", st.NTP)

	t.addList("Carrier Bound To:", c.linkNames(st.CarrierBoundTo))
	t.addList("Carrier Bound By:", c.linkNames(st.CarrierBoundBy))

	if len(st.Timezone) > 0 {
		t.add("Time Zone:", st.Timezone)
	}

	neighbors := make([]string, 0, len(st.LLDPNeighbors))
	for _, n := range st.LLDPNeighbors {
		s := fmt.Sprintf("%s on port %s", strna(n.SystemName), strna(n.PortID))
		if len(n.PortDescription) > 0 {
			s += " (" + n.PortDescription + ")"
		}
		neighbors = append(neighbors, s)
	}
	t.addList("Connected To:", neighbors)

	t.print(c.out, operOn, operOff)
}

func (c *Client) ShowAddressLabels(ctx context.Context) error {
	labels, err := c.srv.AddressLabels(ctx)
	if err != nil {
		return err
	}

	if c.opts.JSON {
		return PrintJSON(c.out, labels)
	}

	l := newListing(c.opts.Legend,
		column{header: "Label", minWidth: 10, align: tablewriter.ALIGN_RIGHT},
		column{header: "Prefix/Prefixlen"},
	)
	l.table.SetHeaderAlignment(tablewriter.ALIGN_RIGHT)

	for _, lbl := range labels {
		l.append(strconv.FormatUint(uint64(lbl.Label), 10), fmt.Sprintf("%s/%d", lbl.Prefix, lbl.PrefixLen))
	}

	l.render(c.out)

	return nil
}

func (c *Client) DeleteLinks(ctx context.Context, d core.LinkDeleter, args []string) error {
	return c.srv.DeleteLinks(ctx, d, args)
}

func gatewayString(gw *core.GatewayInfo) string {
	if len(gw.Description) > 0 {
		return gw.IP.String() + " (" + gw.Description + ")"
	}

	return gw.IP.String()
}

// linkName returns the interface name or "%IDX" if it is unknown.
func (c *Client) linkName(ifindex int) string {
	if name, err := c.srv.LinkName(ifindex); err == nil {
		return name
	}

	return "%" + strconv.Itoa(ifindex)
}

func (c *Client) linkNames(indexes []int) []string {
	names := make([]string, 0, len(indexes))

	for _, idx := range indexes {
		names = append(names, c.linkName(idx))
	}

	return names
}
