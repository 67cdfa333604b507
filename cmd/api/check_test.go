package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCheckConfig(t *testing.T) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs([]string{"check-config", "--offline"})
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		skipConnectivity = false
	})
	err := rootCmd.Execute()
	return out.String(), err
}

func TestCheckConfigOfflineWithDefaults(t *testing.T) {
	out, err := runCheckConfig(t)
	require.NoError(t, err)

	assert.Contains(t, out, "Max upload size:  100 MiB")
	assert.Contains(t, out, "Per-user quota:   2.0 GiB")
	assert.Contains(t, out, "warning: JWT secrets use development defaults")
	assert.Contains(t, out, "configuration OK")
}

func TestCheckConfigReportsErrors(t *testing.T) {
	t.Setenv("MINIO_BUCKET", "")

	out, err := runCheckConfig(t)
	require.Error(t, err)
	assert.Contains(t, out, "error:   missing environment variable: MINIO_BUCKET")
	assert.NotContains(t, out, "configuration OK")
}
