package client

import (
	"context"
	"fmt"
	"strings"
)

const capabilityChars = "opbwrtdacsm"

var capabilityNames = []string{
	"o - Other",
	"p - Repeater",
	"b - Bridge",
	"w - WLAN Access Point",
	"r - Router",
	"t - Telephone",
	"d - DOCSIS cable device",
	"a - Station",
	"c - Customer VLAN",
	"s - Service VLAN",
	"m - Two-port MAC Relay (TPMR)",
}

// CapabilitiesString renders the enabled capabilities mask as one
// character per known capability, '.' for the disabled ones.
func CapabilitiesString(mask uint16) string {
	b := make([]byte, len(capabilityChars))

	for i := range capabilityChars {
		if mask&(1<<i) != 0 {
			b[i] = capabilityChars[i]
		} else {
			b[i] = '.'
		}
	}

	return string(b)
}

func (c *Client) ShowLLDPNeighbors(ctx context.Context, patterns []string) error {
	neighbors, err := c.srv.LLDPNeighbors(ctx, patterns)
	if err != nil {
		return err
	}

	if c.opts.JSON {
		return PrintJSON(c.out, neighbors)
	}

	l := newListing(c.opts.Legend,
		column{header: "LINK", minWidth: 16},
		column{header: "CHASSIS ID", minWidth: 17},
		column{header: "SYSTEM NAME", minWidth: 16},
		column{header: "CAPS", minWidth: 11},
		column{header: "PORT ID", minWidth: 17},
		column{header: "PORT DESCRIPTION", minWidth: 16},
	)

	var all uint16

	for _, n := range neighbors {
		caps := ""
		if n.HasCapabilities {
			caps = CapabilitiesString(n.EnabledCapabilities)
			all |= n.EnabledCapabilities
		}

		l.append(
			n.LinkName,
			strna(ellipsize(n.ChassisID, 17)),
			strna(ellipsize(n.SystemName, 16)),
			strna(caps),
			strna(ellipsize(n.PortID, 17)),
			strna(ellipsize(n.PortDescription, 16)),
		)
	}

	l.render(c.out)

	if c.opts.Legend {
		c.printCapabilitiesLegend(all)
		fmt.Fprintf(c.out, "\n%d neighbors listed.\n", len(neighbors))
	}

	return nil
}

// printCapabilitiesLegend explains the flags present in mask
// (all of them with ShowAll), wrapped at the terminal width.
func (c *Client) printCapabilitiesLegend(mask uint16) {
	if mask == 0 {
		return
	}

	var sb strings.Builder

	sb.WriteString("\nCapability Flags:\n")

	var w int

	for i, name := range capabilityNames {
		if mask&(1<<i) == 0 && !c.opts.ShowAll {
			continue
		}

		sep := "; "
		if w == 0 {
			sep = ""
		}

		if w > 0 && w+len(sep)+len(name) > c.opts.Columns {
			sb.WriteString("\n")
			w, sep = 0, ""
		}

		sb.WriteString(sep + name)
		w += len(sep) + len(name)
	}

	fmt.Fprintln(c.out, sb.String())
}
