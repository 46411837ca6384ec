package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mugiliam/hatchworkbench/internal/dataimport"
	"github.com/mugiliam/hatchworkbench/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	return p
}

func TestLoadConfigTOML(t *testing.T) {
	p := writeFile(t, "workbench.toml", `
listen_address = ":9000"
handle_cors = true
log_level = "debug"

[session]
url = "http://session:8787"
timeout = "5s"
retry_count = 2

[[baseline]]
label = "read.csv"
header = true
sep = ","
quote = '"'

[[baseline]]
label = "read.delim"
header = true
sep = "\t"
quote = '"'
`)
	c, err := LoadConfig(p)
	require.Nil(t, err)
	assert.Equal(t, ":9000", c.ListenAddress)
	assert.True(t, c.HandleCORS)
	assert.Equal(t, DefaultCORSOrigin, c.CORSOrigin)
	assert.Equal(t, "debug", c.LogLevel)
	assert.Equal(t, DefaultLogFormat, c.LogFormat)
	assert.Equal(t, "http://session:8787", c.Session.URL)
	assert.Equal(t, 5*time.Second, c.Session.Timeout.Duration)
	assert.Equal(t, 2, c.Session.RetryCount)
	assert.Equal(t, []types.BaselineProfile{
		{Label: "read.csv", FormatProfile: types.FormatProfile{Header: true, Sep: ",", Quote: "\""}},
		{Label: "read.delim", FormatProfile: types.FormatProfile{Header: true, Sep: "\t", Quote: "\""}},
	}, c.BaselineProfiles())
}

func TestLoadConfigYAML(t *testing.T) {
	p := writeFile(t, "workbench.yaml", `
session:
  url: http://session:8787
  timeout: 1m
baseline:
  - label: read.table
    header: false
    sep: ""
    quote: "\"'"
`)
	c, err := LoadConfig(p)
	require.Nil(t, err)
	assert.Equal(t, DefaultListenAddress, c.ListenAddress)
	assert.Equal(t, time.Minute, c.Session.Timeout.Duration)
	assert.Equal(t, []types.BaselineProfile{
		{Label: "read.table", FormatProfile: types.FormatProfile{Header: false, Sep: "", Quote: "\"'"}},
	}, c.BaselineProfiles())
}

func TestLoadConfigErrors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorIs(t, err, ErrConfigRead)

	_, err = LoadConfig(writeFile(t, "bad.toml", "listen_address = "))
	assert.ErrorIs(t, err, ErrConfigDecode)

	_, err = LoadConfig(writeFile(t, "dup.toml", `
[[baseline]]
label = "read.csv"
[[baseline]]
label = "read.csv"
`))
	assert.ErrorIs(t, err, ErrConfigBaseline)
}

func TestConfigDefaults(t *testing.T) {
	c := Default()
	assert.Equal(t, DefaultListenAddress, c.ListenAddress)
	assert.Equal(t, DefaultSessionTimeout, c.Session.Timeout.Duration)
	assert.Empty(t, c.BaselineProfiles())
	assert.NotNil(t, Config())
}

func TestSampleConfigMatchesDefaultBaselines(t *testing.T) {
	c, err := LoadConfig(filepath.Join("..", "..", "workbench.toml"))
	require.Nil(t, err)
	assert.Equal(t, []types.BaselineProfile(dataimport.DefaultBaselines()), c.BaselineProfiles())
	assert.Equal(t, 30*time.Second, c.Session.Timeout.Duration)
}
