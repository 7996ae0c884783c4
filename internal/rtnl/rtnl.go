package rtnl

import (
	"errors"
	"fmt"
	"os"
	"syscall"

	"github.com/vishvananda/netlink/nl"
	"github.com/vishvananda/netns"
	"golang.org/x/sys/unix"
)

// ErrDumpInterrupted means the kernel state changed while the dump
// was in progress and the reply may be inconsistent.
var ErrDumpInterrupted = errors.New("rtnetlink: dump interrupted")

// Message is one record of a dump reply. Errno is non-zero when
// the kernel answered with an error instead of a record.
type Message struct {
	Type  uint16
	Flags uint16
	Errno syscall.Errno
	Data  []byte
}

type Conn struct {
	sock *nl.NetlinkSocket
	pid  uint32
}

// Dial opens a NETLINK_ROUTE socket. If ns is open, the socket
// is created inside that network namespace.
func Dial(ns netns.NsHandle) (*Conn, error) {
	var sock *nl.NetlinkSocket
	var err error

	if ns.IsOpen() {
		cur, err := netns.Get()
		if err != nil {
			return nil, fmt.Errorf("failed to get current netns: %w", err)
		}
		defer cur.Close()

		sock, err = nl.GetNetlinkSocketAt(ns, cur, unix.NETLINK_ROUTE)
		if err != nil {
			return nil, os.NewSyscallError("rtnetlink", err)
		}
	} else {
		sock, err = nl.GetNetlinkSocketAt(netns.None(), netns.None(), unix.NETLINK_ROUTE)
		if err != nil {
			return nil, os.NewSyscallError("rtnetlink", err)
		}
	}

	pid, err := sock.GetPid()
	if err != nil {
		sock.Close()

		return nil, os.NewSyscallError("rtnetlink", err)
	}

	return &Conn{sock: sock, pid: pid}, nil
}

func (c *Conn) Close() error {
	if c.sock != nil {
		c.sock.Close()
		c.sock = nil
	}

	return nil
}

// Dump sends req and collects every record of the reply until
// the end of the dump. An error reported by the kernel ends the
// reply and is returned as the last record.
func (c *Conn) Dump(req *nl.NetlinkRequest) ([]Message, error) {
	if c.sock == nil {
		return nil, fmt.Errorf("rtnetlink: connection closed")
	}

	if err := c.sock.Send(req); err != nil {
		return nil, os.NewSyscallError("rtnetlink", err)
	}

	d := dump{seq: req.Seq, pid: c.pid}

	for {
		msgs, from, err := c.sock.Receive()
		if err != nil {
			return nil, os.NewSyscallError("rtnetlink", err)
		}

		// Messages from anybody but the kernel are not ours
		if from.Pid != 0 {
			continue
		}

		for i := range msgs {
			done, err := d.add(&msgs[i])
			if err != nil {
				return nil, err
			}
			if done {
				return d.records, nil
			}
		}
	}
}

// dump accumulates the reply to one request.
type dump struct {
	seq uint32
	pid uint32

	records     []Message
	interrupted bool
}

// add consumes one message and reports whether the reply is complete.
func (d *dump) add(m *syscall.NetlinkMessage) (bool, error) {
	if m.Header.Seq != d.seq || m.Header.Pid != d.pid {
		return false, nil
	}

	if m.Header.Flags&unix.NLM_F_DUMP_INTR != 0 {
		d.interrupted = true
	}

	switch m.Header.Type {
	case unix.NLMSG_DONE:
		if len(m.Data) >= 4 {
			if errno := int32(nl.NativeEndian().Uint32(m.Data[0:4])); errno < 0 {
				return true, os.NewSyscallError("rtnetlink", syscall.Errno(-errno))
			}
		}

		if d.interrupted {
			return true, ErrDumpInterrupted
		}

		return true, nil
	case unix.NLMSG_ERROR:
		if len(m.Data) < 4 {
			return true, fmt.Errorf("rtnetlink: truncated error message")
		}

		errno := int32(nl.NativeEndian().Uint32(m.Data[0:4]))
		if errno == 0 {
			// Just an acknowledgement
			return true, nil
		}

		d.records = append(d.records, Message{
			Type:  m.Header.Type,
			Flags: m.Header.Flags,
			Errno: syscall.Errno(-errno),
		})

		return true, nil
	}

	d.records = append(d.records, Message{
		Type:  m.Header.Type,
		Flags: m.Header.Flags,
		Data:  m.Data,
	})

	return m.Header.Flags&unix.NLM_F_MULTI == 0, nil
}
