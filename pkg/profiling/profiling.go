// Package profiling adds CPU and heap profile flags to a command tree.
package profiling

import (
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// Profiler holds the profile destinations chosen on the command line.
type Profiler struct {
	cpuPath string
	memPath string
	cpuFile *os.File
	logger  *logrus.Entry
}

// New creates a Profiler that reports where profiles were written.
func New(logger *logrus.Entry) *Profiler {
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Profiler{logger: logger}
}

// AddFlags registers --cpu-profile and --mem-profile and installs the
// start and stop hooks on cmd.
func (p *Profiler) AddFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&p.cpuPath, "cpu-profile", "", "Write a CPU profile to this file")
	cmd.PersistentFlags().StringVar(&p.memPath, "mem-profile", "", "Write a heap profile to this file on exit")
	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return p.Start()
	}
	cmd.PersistentPostRun = func(cmd *cobra.Command, args []string) {
		p.Stop()
	}
}

// Start begins CPU profiling when a destination was given.
func (p *Profiler) Start() error {
	if p.cpuPath == "" {
		return nil
	}
	f, err := os.Create(p.cpuPath)
	if err != nil {
		return fmt.Errorf("could not create CPU profile: %w", err)
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		f.Close()
		return fmt.Errorf("could not start CPU profile: %w", err)
	}
	p.cpuFile = f
	return nil
}

// Stop finishes the CPU profile and writes the heap profile.
func (p *Profiler) Stop() {
	if p.cpuFile != nil {
		pprof.StopCPUProfile()
		p.cpuFile.Close()
		p.cpuFile = nil
		p.logger.WithField("path", p.cpuPath).Info("CPU profile written")
	}

	if p.memPath == "" {
		return
	}
	f, err := os.Create(p.memPath)
	if err != nil {
		p.logger.WithError(err).Warn("Could not create heap profile")
		return
	}
	defer f.Close()
	runtime.GC()
	if err := pprof.WriteHeapProfile(f); err != nil {
		p.logger.WithError(err).Warn("Could not write heap profile")
		return
	}
	p.logger.WithField("path", p.memPath).Info("Heap profile written")
}
