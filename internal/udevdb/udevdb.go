package udevdb

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/0xef53/networkctl/core"
)

// DeviceDB reads the properties udev stores for network devices
// (<dataDir>/n<ifindex>) and the kernel uevent attributes
// (<sysfsDir>/<ifname>/uevent).
type DeviceDB struct {
	dataDir  string
	sysfsDir string
}

func NewDeviceDB(dataDir, sysfsDir string) *DeviceDB {
	return &DeviceDB{
		dataDir:  dataDir,
		sysfsDir: sysfsDir,
	}
}

// Device returns whatever is known about the interface.
// If neither source exists, the error wraps core.ErrNoData.
func (db *DeviceDB) Device(ifindex int, ifname string) (*core.DeviceInfo, error) {
	var found bool

	props, err := db.Properties(ifindex)
	switch {
	case err == nil:
		found = true
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, err
	}

	uevent := make(map[string]string)

	if len(ifname) > 0 {
		switch m, err := readUevent(filepath.Join(db.sysfsDir, ifname, "uevent")); {
		case err == nil:
			uevent = m
			found = true
		case errors.Is(err, os.ErrNotExist):
		default:
			return nil, err
		}
	}

	if !found {
		return nil, fmt.Errorf("%s: %w", ifname, core.ErrNoData)
	}

	first := func(keys ...string) string {
		for _, k := range keys {
			if v, ok := props[k]; ok && len(v) > 0 {
				return v
			}
		}
		return ""
	}

	dev := core.DeviceInfo{
		DevType:  uevent["DEVTYPE"],
		Driver:   first("ID_NET_DRIVER"),
		Path:     first("ID_PATH"),
		Vendor:   first("ID_VENDOR_FROM_DATABASE", "ID_VENDOR"),
		Model:    first("ID_MODEL_FROM_DATABASE", "ID_MODEL"),
		LinkFile: first("ID_NET_LINK_FILE"),
	}

	if len(dev.DevType) == 0 {
		dev.DevType = first("DEVTYPE")
	}

	return &dev, nil
}

// Properties returns the E: records of the udev database entry
// of the network interface.
func (db *DeviceDB) Properties(ifindex int) (map[string]string, error) {
	fd, err := os.Open(filepath.Join(db.dataDir, fmt.Sprintf("n%d", ifindex)))
	if err != nil {
		return nil, err
	}
	defer fd.Close()

	props := make(map[string]string)

	scanner := bufio.NewScanner(fd)

	for scanner.Scan() {
		line := scanner.Text()

		if !strings.HasPrefix(line, "E:") {
			continue
		}

		if k, v, ok := strings.Cut(line[2:], "="); ok {
			props[k] = v
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return props, nil
}

func readUevent(fname string) (map[string]string, error) {
	b, err := os.ReadFile(fname)
	if err != nil {
		return nil, err
	}

	m := make(map[string]string)

	for _, line := range strings.Split(string(b), "\n") {
		if k, v, ok := strings.Cut(strings.TrimSpace(line), "="); ok {
			m[k] = v
		}
	}

	return m, nil
}
