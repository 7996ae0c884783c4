package networkd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/0xef53/networkctl/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeStateFiles(t *testing.T) string {
	dir := t.TempDir()

	require.NoError(t, os.MkdirAll(filepath.Join(dir, "links"), 0755))

	system := `# This is private data. Do not parse.
OPER_STATE=routable
DNS=10.0.0.1 10.0.0.2
NTP=
DOMAINS=example.org
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "state"), []byte(system), 0644))

	link := `# This is private data. Do not parse.
ADMIN_STATE=configured
OPER_STATE=routable
NETWORK_FILE=/etc/systemd/network/10-eth0.network
DNS=192.168.1.1
ROUTE_DOMAINS=~corp
CARRIER_BOUND_TO=3 4
TIMEZONE="Europe/Berlin"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "links", "2"), []byte(link), 0644))

	return dir
}

func TestStateDBLink(t *testing.T) {
	db := NewStateDB(writeStateFiles(t))

	v, err := db.SetupState(2)
	require.NoError(t, err)
	assert.Equal(t, "configured", v)

	v, err = db.OperationalState(2)
	require.NoError(t, err)
	assert.Equal(t, "routable", v)

	v, err = db.NetworkFile(2)
	require.NoError(t, err)
	assert.Equal(t, "/etc/systemd/network/10-eth0.network", v)

	v, err = db.Timezone(2)
	require.NoError(t, err)
	assert.Equal(t, "Europe/Berlin", v)

	dns, err := db.DNS(2)
	require.NoError(t, err)
	assert.Equal(t, []string{"192.168.1.1"}, dns)

	rd, err := db.RouteDomains(2)
	require.NoError(t, err)
	assert.Equal(t, []string{"~corp"}, rd)

	idx, err := db.CarrierBoundTo(2)
	require.NoError(t, err)
	assert.Equal(t, []int{3, 4}, idx)

	_, err = db.CarrierBoundBy(2)
	assert.ErrorIs(t, err, core.ErrNoData)
}

func TestStateDBSystem(t *testing.T) {
	db := NewStateDB(writeStateFiles(t))

	v, err := db.OperationalState(0)
	require.NoError(t, err)
	assert.Equal(t, "routable", v)

	dns, err := db.DNS(0)
	require.NoError(t, err)
	assert.Equal(t, []string{"10.0.0.1", "10.0.0.2"}, dns)

	domains, err := db.SearchDomains(0)
	require.NoError(t, err)
	assert.Equal(t, []string{"example.org"}, domains)

	// Empty value
	_, err = db.NTP(0)
	assert.ErrorIs(t, err, core.ErrNoData)

	_, err = db.SetupState(0)
	assert.ErrorIs(t, err, core.ErrNoData)
}

func TestStateDBUnknownLink(t *testing.T) {
	db := NewStateDB(writeStateFiles(t))

	_, err := db.SetupState(42)
	assert.ErrorIs(t, err, core.ErrNoData)

	_, err = db.DNS(42)
	assert.ErrorIs(t, err, core.ErrNoData)
}

func TestStateDBInvalidIndexList(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, os.MkdirAll(filepath.Join(dir, "links"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "links", "5"), []byte("CARRIER_BOUND_BY=2 x\n"), 0644))

	_, err := NewStateDB(dir).CarrierBoundBy(5)
	require.Error(t, err)
	assert.NotErrorIs(t, err, core.ErrNoData)
}

func TestStateFileExists(t *testing.T) {
	assert.True(t, stateFileExists(writeStateFiles(t)))
	assert.False(t, stateFileExists(t.TempDir()))
}
