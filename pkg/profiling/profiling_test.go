package profiling

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfilesWritten(t *testing.T) {
	dir := t.TempDir()
	cpu := filepath.Join(dir, "cpu.pprof")
	mem := filepath.Join(dir, "mem.pprof")

	ran := false
	cmd := &cobra.Command{Use: "x", Run: func(*cobra.Command, []string) { ran = true }}
	New(nil).AddFlags(cmd)
	cmd.SetArgs([]string{"--cpu-profile", cpu, "--mem-profile", mem})
	require.NoError(t, cmd.Execute())

	assert.True(t, ran)
	for _, path := range []string{cpu, mem} {
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.NotZero(t, info.Size())
	}
}

func TestNoFlagsNoFiles(t *testing.T) {
	p := New(nil)
	require.NoError(t, p.Start())
	p.Stop()
	assert.Nil(t, p.cpuFile)
}
