package core

import (
	"errors"
	"fmt"

	"github.com/0xef53/networkctl/internal/rtnl"

	"github.com/vishvananda/netlink/nl"
)

const Version = "0.3.0"

var (
	ErrNoData     = errors.New("no data available")
	ErrNotFound   = errors.New("not found")
	ErrBadMessage = errors.New("bad message")
)

// DecodeError reports a kernel record whose mandatory part
// could not be decoded.
type DecodeError struct {
	Kind  string
	Field string
	Err   error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode %s record: %s: %s", e.Kind, e.Field, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Transport performs dump-style rtnetlink exchanges.
type Transport interface {
	Dump(req *nl.NetlinkRequest) ([]rtnl.Message, error)
}

// StateDB answers questions about the state the network daemon
// keeps for each interface. An ifindex of 0 asks for the
// system-wide value where that makes sense. Lookups that have
// nothing to report return an error wrapping ErrNoData.
type StateDB interface {
	OperationalState(ifindex int) (string, error)
	SetupState(ifindex int) (string, error)
	DNS(ifindex int) ([]string, error)
	NTP(ifindex int) ([]string, error)
	SearchDomains(ifindex int) ([]string, error)
	RouteDomains(ifindex int) ([]string, error)
	CarrierBoundTo(ifindex int) ([]int, error)
	CarrierBoundBy(ifindex int) ([]int, error)
	NetworkFile(ifindex int) (string, error)
	Timezone(ifindex int) (string, error)
}

type HardwareDB interface {
	Vendor(key string) (string, error)
}

type DeviceDB interface {
	Device(ifindex int, ifname string) (*DeviceInfo, error)
}

type FrameDecoder interface {
	Decode(raw []byte) (*LLDPNeighbor, error)
}

// AddressSource enumerates local addresses and default gateways.
// An ifindex of 0 means all interfaces.
type AddressSource interface {
	Addresses(ifindex int, family InetFamily) ([]*LocalAddress, error)
	Gateways(ifindex int, family InetFamily) ([]*LocalAddress, error)
	LinkName(ifindex int) (string, error)
}

type LinkDeleter interface {
	DeleteLink(ifindex int) error
	LinkIndex(name string) (int, error)
}

type Options struct {
	// ShowAll makes status report every link instead of the
	// system summary, and makes the LLDP legend list every flag.
	ShowAll bool
}

type Server struct {
	rtnl    Transport
	addrs   AddressSource
	state   StateDB
	hwdb    HardwareDB
	devices DeviceDB
	spool   *NeighborSpool

	opts Options
}

type Collaborators struct {
	Transport Transport
	Addresses AddressSource
	State     StateDB
	Hwdb      HardwareDB
	Devices   DeviceDB
	Spool     *NeighborSpool
}

func NewServer(c *Collaborators, opts Options) (*Server, error) {
	if c.Transport == nil {
		return nil, fmt.Errorf("no rtnetlink transport defined")
	}

	srv := Server{
		rtnl:    c.Transport,
		addrs:   c.Addresses,
		state:   c.State,
		hwdb:    c.Hwdb,
		devices: c.Devices,
		spool:   c.Spool,
		opts:    opts,
	}

	return &srv, nil
}
