package cli

import (
	"bytes"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
)

func plainStyles() helpStyles {
	p := lipgloss.NewStyle()
	return helpStyles{title: p, section: p, command: p, flag: p, muted: p}
}

func TestWrapText(t *testing.T) {
	assert.Equal(t, "one two\nthree", wrapText("one two three", 8))
	assert.Equal(t, "keep\nbreaks", wrapText("keep\nbreaks", 8))
}

func TestSplitExamples(t *testing.T) {
	desc, ex := splitExamples("Does things.\n\nExamples:\n  tool run\n")
	assert.Equal(t, "Does things.", desc)
	assert.Equal(t, "tool run", ex)

	desc, ex = splitExamples("No examples here.")
	assert.Equal(t, "No examples here.", desc)
	assert.Empty(t, ex)
}

func TestRenderHelp(t *testing.T) {
	root := NewStandardCommand("cellconsole", "Operator console")
	job := &cobra.Command{
		Use:       "start <pick|sort>",
		Short:     "Start a job",
		Long:      "Start a job.\n\nExamples:\n  cellconsole job start pick --json",
		ValidArgs: []string{"pick", "sort"},
		Run:       func(*cobra.Command, []string) {},
	}
	job.Flags().Bool("dry-run", false, "Only print the request")
	root.AddCommand(job)

	var buf bytes.Buffer
	renderHelp(&buf, job, plainStyles(), 60)
	out := buf.String()

	assert.Contains(t, out, "CELLCONSOLE START")
	assert.Contains(t, out, "USAGE")
	assert.Contains(t, out, "pick | sort")
	assert.Contains(t, out, "--dry-run  Only print the request")
	assert.Contains(t, out, "Global flags: --config, --json, --verbose")
	assert.Contains(t, out, "cellconsole job start pick --json")

	buf.Reset()
	renderHelp(&buf, root, plainStyles(), 60)
	assert.Contains(t, buf.String(), "COMMANDS")
	assert.Contains(t, buf.String(), "start  Start a job")
}
