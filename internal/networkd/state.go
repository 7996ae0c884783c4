package networkd

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/0xef53/networkctl/core"
)

// StateDB reads the runtime state files written by systemd-networkd:
// <dir>/state for the system-wide view and <dir>/links/<ifindex>
// for each interface.
type StateDB struct {
	dir string
}

func NewStateDB(dir string) *StateDB {
	return &StateDB{dir: dir}
}

func (db *StateDB) stateFile(ifindex int) string {
	if ifindex > 0 {
		return filepath.Join(db.dir, "links", strconv.Itoa(ifindex))
	}

	return filepath.Join(db.dir, "state")
}

// lookup returns the value of the key from the state file.
// A missing file, a missing key or an empty value are all
// reported as core.ErrNoData.
func (db *StateDB) lookup(ifindex int, key string) (string, error) {
	fname := db.stateFile(ifindex)

	values, err := ReadEnvFile(fname)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%s: %w", fname, core.ErrNoData)
		}
		return "", err
	}

	v, ok := values[key]
	if !ok || len(v) == 0 {
		return "", fmt.Errorf("%s: %s: %w", fname, key, core.ErrNoData)
	}

	return v, nil
}

func (db *StateDB) lookupList(ifindex int, key string) ([]string, error) {
	v, err := db.lookup(ifindex, key)
	if err != nil {
		return nil, err
	}

	return strings.Fields(v), nil
}

func (db *StateDB) lookupIndexes(ifindex int, key string) ([]int, error) {
	ff, err := db.lookupList(ifindex, key)
	if err != nil {
		return nil, err
	}

	indexes := make([]int, 0, len(ff))

	for _, f := range ff {
		idx, err := strconv.Atoi(f)
		if err != nil || idx <= 0 {
			return nil, fmt.Errorf("%s: invalid interface index: %q", key, f)
		}
		indexes = append(indexes, idx)
	}

	return indexes, nil
}

func (db *StateDB) OperationalState(ifindex int) (string, error) {
	return db.lookup(ifindex, "OPER_STATE")
}

// SetupState is not defined for the system as a whole.
func (db *StateDB) SetupState(ifindex int) (string, error) {
	if ifindex <= 0 {
		return "", core.ErrNoData
	}

	return db.lookup(ifindex, "ADMIN_STATE")
}

func (db *StateDB) DNS(ifindex int) ([]string, error) {
	return db.lookupList(ifindex, "DNS")
}

func (db *StateDB) NTP(ifindex int) ([]string, error) {
	return db.lookupList(ifindex, "NTP")
}

func (db *StateDB) SearchDomains(ifindex int) ([]string, error) {
	return db.lookupList(ifindex, "DOMAINS")
}

func (db *StateDB) RouteDomains(ifindex int) ([]string, error) {
	return db.lookupList(ifindex, "ROUTE_DOMAINS")
}

func (db *StateDB) CarrierBoundTo(ifindex int) ([]int, error) {
	if ifindex <= 0 {
		return nil, core.ErrNoData
	}

	return db.lookupIndexes(ifindex, "CARRIER_BOUND_TO")
}

func (db *StateDB) CarrierBoundBy(ifindex int) ([]int, error) {
	if ifindex <= 0 {
		return nil, core.ErrNoData
	}

	return db.lookupIndexes(ifindex, "CARRIER_BOUND_BY")
}

func (db *StateDB) NetworkFile(ifindex int) (string, error) {
	if ifindex <= 0 {
		return "", core.ErrNoData
	}

	return db.lookup(ifindex, "NETWORK_FILE")
}

func (db *StateDB) Timezone(ifindex int) (string, error) {
	if ifindex <= 0 {
		return "", core.ErrNoData
	}

	return db.lookup(ifindex, "TIMEZONE")
}

// ReadEnvFile parses a file of KEY=VALUE lines. Empty lines and
// lines starting with '#' or ';' are ignored; surrounding quotes
// of a value are removed. Later assignments override earlier ones.
func ReadEnvFile(fname string) (map[string]string, error) {
	fd, err := os.Open(fname)
	if err != nil {
		return nil, err
	}
	defer fd.Close()

	values := make(map[string]string)

	scanner := bufio.NewScanner(fd)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if len(line) == 0 || line[0] == '#' || line[0] == ';' {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}

		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		if len(value) >= 2 {
			if (value[0] == '"' || value[0] == '\'') && value[len(value)-1] == value[0] {
				value = value[1 : len(value)-1]
			}
		}

		values[key] = value
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return values, nil
}
