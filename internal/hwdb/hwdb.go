package hwdb

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/0xef53/networkctl/core"

	log "github.com/sirupsen/logrus"
)

var DefaultDatabases = []string{
	"/etc/udev/hwdb.d/20-OUI.hwdb",
	"/usr/lib/udev/hwdb.d/20-OUI.hwdb",
	"/lib/udev/hwdb.d/20-OUI.hwdb",
	"/usr/share/hwdata/oui.txt",
	"/usr/share/ieee-data/oui.txt",
	"/usr/share/misc/oui.txt",
}

const keyPrefix = "OUI:"

// Database maps hardware address prefixes to vendor names.
// Prefixes are upper-case hex digits of variable length
// (MA-L, MA-M and MA-S assignments), the longest one wins.
type Database struct {
	vendors map[string]string
	lengths []int
}

func New() *Database {
	return &Database{vendors: make(map[string]string)}
}

// Open loads every existing file from the list. A prefix defined
// in several files keeps the value from the first one.
func Open(fnames ...string) (*Database, error) {
	db := New()

	var loaded int

	for _, fname := range fnames {
		err := func() error {
			fd, err := os.Open(fname)
			if err != nil {
				return err
			}
			defer fd.Close()

			return db.Load(fd)
		}()

		switch {
		case err == nil:
			loaded++
		case errors.Is(err, os.ErrNotExist):
			continue
		default:
			return nil, fmt.Errorf("%s: %w", fname, err)
		}

		log.Debugf("Hardware database loaded: %s", fname)
	}

	if loaded == 0 {
		return nil, fmt.Errorf("no hardware database found: %w", core.ErrNoData)
	}

	return db, nil
}

// Load reads entries either in the IEEE oui.txt format
//
//	00-50-C2   (hex)		IEEE REGISTRATION AUTHORITY
//
// or in the udev hwdb source format
//
//	OUI:0050C2000*
//	 ID_OUI_FROM_DATABASE=T.L.S. Corp.
func (db *Database) Load(r io.Reader) error {
	scanner := bufio.NewScanner(r)

	var matches []string

	for scanner.Scan() {
		line := scanner.Text()

		switch {
		case strings.HasPrefix(line, keyPrefix):
			matches = append(matches, strings.TrimSuffix(strings.TrimSpace(line[len(keyPrefix):]), "*"))
		case strings.HasPrefix(line, " ID_OUI_FROM_DATABASE="):
			vendor := strings.TrimSpace(strings.TrimPrefix(line, " ID_OUI_FROM_DATABASE="))
			for _, m := range matches {
				db.add(m, vendor)
			}
			matches = matches[:0]
		case strings.Contains(line, "(hex)"):
			ff := strings.SplitN(line, "(hex)", 2)

			prefix := strings.ReplaceAll(strings.TrimSpace(ff[0]), "-", "")
			if len(prefix) != 6 {
				continue
			}

			db.add(prefix, strings.TrimSpace(ff[1]))
		case len(strings.TrimSpace(line)) == 0:
			matches = matches[:0]
		}
	}

	return scanner.Err()
}

func (db *Database) add(prefix, vendor string) {
	prefix = strings.ToUpper(prefix)

	if len(prefix) == 0 || len(vendor) == 0 || !isHex(prefix) {
		return
	}

	if _, ok := db.vendors[prefix]; ok {
		return
	}

	db.vendors[prefix] = vendor

	for _, l := range db.lengths {
		if l == len(prefix) {
			return
		}
	}

	db.lengths = append(db.lengths, len(prefix))

	sort.Sort(sort.Reverse(sort.IntSlice(db.lengths)))
}

// Vendor returns the vendor name for a key of the form
// "OUI:" followed by the 12 hex digits of a hardware address.
func (db *Database) Vendor(key string) (string, error) {
	if !strings.HasPrefix(key, keyPrefix) {
		return "", fmt.Errorf("invalid hardware database key: %q", key)
	}

	addr := strings.ToUpper(key[len(keyPrefix):])

	for _, l := range db.lengths {
		if l > len(addr) {
			continue
		}
		if v, ok := db.vendors[addr[:l]]; ok {
			return v, nil
		}
	}

	return "", fmt.Errorf("%s: %w", key, core.ErrNoData)
}

func (db *Database) Len() int {
	return len(db.vendors)
}

func isHex(s string) bool {
	for _, c := range s {
		if !strings.ContainsRune("0123456789ABCDEF", c) {
			return false
		}
	}

	return true
}
