package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/0xef53/networkctl/internal/hwdb"

	"gopkg.in/yaml.v2"
)

type Config struct {
	NetifDir     string   `json:"netif_dir" yaml:"netif_dir"`
	UdevDataDir  string   `json:"udev_data_dir" yaml:"udev_data_dir"`
	SysfsNetDir  string   `json:"sysfs_net_dir" yaml:"sysfs_net_dir"`
	OUIDatabases []string `json:"oui_databases" yaml:"oui_databases"`
}

func Default() *Config {
	return &Config{
		NetifDir:     "/run/systemd/netif",
		UdevDataDir:  "/run/udev/data",
		SysfsNetDir:  "/sys/class/net",
		OUIDatabases: append([]string(nil), hwdb.DefaultDatabases...),
	}
}

// Load reads the configuration file. Keys not set in the file
// keep their default values; a missing file means all defaults.
func Load(fname string) (*Config, error) {
	cfg := Default()

	if len(fname) == 0 {
		return cfg, nil
	}

	b, err := os.ReadFile(fname)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.UnmarshalStrict(b, cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", fname, err)
	}

	for _, p := range []*string{&cfg.NetifDir, &cfg.UdevDataDir, &cfg.SysfsNetDir} {
		if !filepath.IsAbs(*p) {
			return nil, fmt.Errorf("%s: path must be absolute: %q", fname, *p)
		}
	}

	return cfg, nil
}

func (c *Config) LinksDir() string {
	return filepath.Join(c.NetifDir, "links")
}

func (c *Config) LLDPDir() string {
	return filepath.Join(c.NetifDir, "lldp")
}
