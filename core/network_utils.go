package core

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"golang.org/x/sys/unix"
)

var arphrdNames = map[uint16]string{
	unix.ARPHRD_ETHER:              "ETHER",
	unix.ARPHRD_LOOPBACK:           "LOOPBACK",
	unix.ARPHRD_NONE:               "NONE",
	unix.ARPHRD_VOID:               "VOID",
	unix.ARPHRD_PPP:                "PPP",
	unix.ARPHRD_SIT:                "SIT",
	unix.ARPHRD_TUNNEL:             "TUNNEL",
	unix.ARPHRD_TUNNEL6:            "TUNNEL6",
	unix.ARPHRD_IPGRE:              "IPGRE",
	unix.ARPHRD_IP6GRE:             "IP6GRE",
	unix.ARPHRD_INFINIBAND:         "INFINIBAND",
	unix.ARPHRD_IEEE80211:          "IEEE80211",
	unix.ARPHRD_IEEE80211_RADIOTAP: "IEEE80211_RADIOTAP",
	unix.ARPHRD_IEEE802154:         "IEEE802154",
	unix.ARPHRD_CAN:                "CAN",
	unix.ARPHRD_NETLINK:            "NETLINK",
	unix.ARPHRD_RAWIP:              "RAWIP",
	unix.ARPHRD_6LOWPAN:            "6LOWPAN",
}

// LinkTypeString returns the type of the link as shown to the user.
// The device type reported by the device database takes precedence
// over the name of the ARPHRD code.
func LinkTypeString(iftype uint16, dev *DeviceInfo) string {
	if dev != nil && len(dev.DevType) != 0 {
		return dev.DevType
	}

	if name, ok := arphrdNames[iftype]; ok {
		return strings.ToLower(name)
	}

	return ""
}

func parseIfindex(s string) (int, error) {
	idx, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}

	if idx <= 0 {
		return 0, fmt.Errorf("invalid interface index: %d", idx)
	}

	return idx, nil
}

func rtnlError(err error) error {
	return os.NewSyscallError("rtnetlink", err)
}
