package main

import (
	"context"
	"fmt"
	"os"

	"github.com/0xef53/networkctl/client"
	"github.com/0xef53/networkctl/core"
	"github.com/0xef53/networkctl/internal/config"
	"github.com/0xef53/networkctl/internal/hwdb"
	"github.com/0xef53/networkctl/internal/lldp"
	"github.com/0xef53/networkctl/internal/networkd"
	"github.com/0xef53/networkctl/internal/rtnl"
	"github.com/0xef53/networkctl/internal/udevdb"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"
	"github.com/vishvananda/netlink"
	"github.com/vishvananda/netns"
)

type App struct {
	client *client.Client
	addrs  *core.NetlinkAddressSource

	conn   *rtnl.Conn
	handle *netlink.Handle
	ns     netns.NsHandle
}

func newApp(ctx context.Context, c *cli.Command) (_ *App, err error) {
	if c.Bool("verbose") {
		log.SetLevel(log.DebugLevel)
	}

	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if !networkd.Running(ctx, cfg.NetifDir) {
		fmt.Fprintf(os.Stderr, "WARNING: systemd-networkd is not running, output will be incomplete.\n\n")
	}

	a := App{
		ns: netns.None(),
	}

	defer func() {
		if err != nil {
			a.Close()
		}
	}()

	if name := c.String("netns"); len(name) > 0 {
		a.ns, err = netns.GetFromName(name)
		if err != nil {
			return nil, fmt.Errorf("failed to open network namespace %s: %w", name, err)
		}
	}

	a.conn, err = rtnl.Dial(a.ns)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to netlink: %w", err)
	}

	if a.ns.IsOpen() {
		a.handle, err = netlink.NewHandleAt(a.ns)
	} else {
		a.handle, err = netlink.NewHandle()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to netlink: %w", err)
	}

	a.addrs = core.NewNetlinkAddressSource(a.handle)

	collaborators := core.Collaborators{
		Transport: a.conn,
		Addresses: a.addrs,
		State:     networkd.NewStateDB(cfg.NetifDir),
		Devices:   udevdb.NewDeviceDB(cfg.UdevDataDir, cfg.SysfsNetDir),
		Spool:     core.NewNeighborSpool(cfg.LLDPDir(), lldp.NewDecoder()),
	}

	if db, err := hwdb.Open(cfg.OUIDatabases...); err == nil {
		collaborators.Hwdb = db
	} else {
		log.Debugf("Failed to open hardware database: %s", err)
	}

	srv, err := core.NewServer(&collaborators, core.Options{ShowAll: c.Bool("all")})
	if err != nil {
		return nil, err
	}

	a.client = client.NewClient(srv, client.Options{
		JSON:    c.Bool("json"),
		Legend:  !c.Bool("no-legend"),
		ShowAll: c.Bool("all"),
		Colors:  client.ColorsEnabled(os.Stdout),
		Columns: client.TerminalColumns(os.Stdout),
	})

	return &a, nil
}

func (a *App) Close() {
	if a.handle != nil {
		a.handle.Close()
	}

	if a.conn != nil {
		a.conn.Close()
	}

	if a.ns.IsOpen() {
		a.ns.Close()
	}
}
