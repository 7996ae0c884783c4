package networkd

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"

	systemd_dbus "github.com/coreos/go-systemd/v22/dbus"
)

const UnitName = "systemd-networkd.service"

// Running reports whether systemd-networkd is active. The unit state
// is asked over the system bus; when the bus is not reachable the
// presence of the daemon's state file is taken as the answer.
func Running(ctx context.Context, dir string) bool {
	viaSystemd := func() (bool, error) {
		conn, err := systemd_dbus.NewSystemConnectionContext(ctx)
		if err != nil {
			return false, err
		}
		defer conn.Close()

		prop, err := conn.GetUnitPropertyContext(ctx, UnitName, "ActiveState")
		if err != nil {
			return false, err
		}

		state := strings.Trim(prop.Value.String(), "\"")

		return state == "active" || state == "reloading", nil
	}

	if ok, err := viaSystemd(); err == nil {
		return ok
	} else {
		log.Debugf("Could not get the state of %s via D-Bus: %s", UnitName, err)
	}

	return stateFileExists(dir)
}

func stateFileExists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, "state"))

	return err == nil
}
