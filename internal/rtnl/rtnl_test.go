package rtnl

import (
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vishvananda/netlink/nl"
	"golang.org/x/sys/unix"
)

func message(typ, flags uint16, seq uint32, data []byte) *syscall.NetlinkMessage {
	return &syscall.NetlinkMessage{
		Header: syscall.NlMsghdr{
			Type:  typ,
			Flags: flags,
			Seq:   seq,
			Pid:   100,
		},
		Data: data,
	}
}

func errnoPayload(errno int32) []byte {
	b := make([]byte, 4)
	nl.NativeEndian().PutUint32(b, uint32(errno))

	return b
}

func TestDumpCollectsRecords(t *testing.T) {
	d := dump{seq: 7, pid: 100}

	done, err := d.add(message(unix.RTM_NEWLINK, unix.NLM_F_MULTI, 7, []byte{1}))
	require.NoError(t, err)
	assert.False(t, done)

	// Reply to another request
	done, err = d.add(message(unix.RTM_NEWLINK, unix.NLM_F_MULTI, 8, []byte{2}))
	require.NoError(t, err)
	assert.False(t, done)

	done, err = d.add(message(unix.RTM_NEWLINK, unix.NLM_F_MULTI, 7, []byte{3}))
	require.NoError(t, err)
	assert.False(t, done)

	done, err = d.add(message(unix.NLMSG_DONE, unix.NLM_F_MULTI, 7, errnoPayload(0)))
	require.NoError(t, err)
	assert.True(t, done)

	require.Len(t, d.records, 2)
	assert.Equal(t, []byte{1}, d.records[0].Data)
	assert.Equal(t, []byte{3}, d.records[1].Data)
}

func TestDumpSingleRecord(t *testing.T) {
	d := dump{seq: 1, pid: 100}

	done, err := d.add(message(unix.RTM_NEWNEIGH, 0, 1, []byte{1}))
	require.NoError(t, err)
	assert.True(t, done)
	assert.Len(t, d.records, 1)
}

func TestDumpDoneWithErrno(t *testing.T) {
	d := dump{seq: 1, pid: 100}

	done, err := d.add(message(unix.NLMSG_DONE, unix.NLM_F_MULTI, 1, errnoPayload(-int32(unix.ENOBUFS))))
	assert.True(t, done)
	assert.ErrorIs(t, err, syscall.ENOBUFS)
}

func TestDumpInterrupted(t *testing.T) {
	d := dump{seq: 1, pid: 100}

	_, err := d.add(message(unix.RTM_NEWLINK, unix.NLM_F_MULTI|unix.NLM_F_DUMP_INTR, 1, []byte{1}))
	require.NoError(t, err)

	done, err := d.add(message(unix.NLMSG_DONE, unix.NLM_F_MULTI, 1, errnoPayload(0)))
	assert.True(t, done)
	assert.ErrorIs(t, err, ErrDumpInterrupted)
}

func TestDumpKernelError(t *testing.T) {
	d := dump{seq: 1, pid: 100}

	done, err := d.add(message(unix.NLMSG_ERROR, 0, 1, errnoPayload(-int32(unix.EOPNOTSUPP))))
	require.NoError(t, err)
	assert.True(t, done)

	require.Len(t, d.records, 1)
	assert.Equal(t, syscall.EOPNOTSUPP, d.records[0].Errno)
}

func TestDumpAcknowledgement(t *testing.T) {
	d := dump{seq: 1, pid: 100}

	done, err := d.add(message(unix.NLMSG_ERROR, 0, 1, errnoPayload(0)))
	require.NoError(t, err)
	assert.True(t, done)
	assert.Empty(t, d.records)

	_, err = (&dump{seq: 1, pid: 100}).add(message(unix.NLMSG_ERROR, 0, 1, []byte{0}))
	assert.Error(t, err)
}
