package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/grovetools/cellconsole/tui/theme"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/term"
)

const (
	maxWidth = 72
	minWidth = 40
)

// helpStyles are the styles of one help rendering.
type helpStyles struct {
	title, section, command, flag, muted lipgloss.Style
}

func newHelpStyles(t *theme.Theme) helpStyles {
	return helpStyles{
		title:   lipgloss.NewStyle().Bold(true).Foreground(t.Colors.Orange),
		section: lipgloss.NewStyle().Italic(true).Foreground(t.Colors.Orange),
		command: lipgloss.NewStyle().Bold(true).Foreground(t.Colors.Blue),
		flag:    lipgloss.NewStyle().Foreground(t.Colors.Violet),
		muted:   t.Muted,
	}
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width < minWidth || width > maxWidth {
		return maxWidth
	}
	return width
}

// wrapText wraps text to width, keeping existing line breaks.
func wrapText(text string, width int) string {
	if width <= 0 {
		width = maxWidth
	}
	var out []string
	for _, paragraph := range strings.Split(text, "\n") {
		if len(paragraph) <= width {
			out = append(out, paragraph)
			continue
		}
		line := ""
		for _, word := range strings.Fields(paragraph) {
			switch {
			case line == "":
				line = word
			case len(line)+1+len(word) <= width:
				line += " " + word
			default:
				out = append(out, line)
				line = word
			}
		}
		if line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}

// SetStyledHelp installs the styled help on cmd.
func SetStyledHelp(cmd *cobra.Command) {
	cmd.SetHelpFunc(styledHelpFunc)
}

// ApplyStyledHelpRecursive installs styled help on cmd and every
// subcommand. Call it once the tree is built.
func ApplyStyledHelpRecursive(cmd *cobra.Command) {
	cmd.SetHelpFunc(styledHelpFunc)
	cmd.SetUsageFunc(func(*cobra.Command) error { return nil })
	for _, sub := range cmd.Commands() {
		ApplyStyledHelpRecursive(sub)
	}
}

// splitExamples separates an "Examples:" block from a long description.
func splitExamples(long string) (description, examples string) {
	for _, marker := range []string{"\nExamples:\n", "\nExample:\n"} {
		if idx := strings.Index(long, marker); idx != -1 {
			return strings.TrimSpace(long[:idx]), strings.TrimSpace(long[idx+len(marker):])
		}
	}
	return long, ""
}

// styleExample colors the program name, the subcommand path and the flags of
// one example line.
func styleExample(line, root string, s helpStyles) string {
	parts := strings.Fields(line)
	for i, part := range parts {
		switch {
		case i == 0 && part == root:
			parts[i] = s.command.Render(part)
		case strings.HasPrefix(part, "-"):
			parts[i] = s.flag.Render(part)
		}
	}
	return strings.Join(parts, " ")
}

func styledHelpFunc(cmd *cobra.Command, _ []string) {
	renderHelp(cmd.OutOrStdout(), cmd, newHelpStyles(theme.DefaultTheme), terminalWidth()-2)
}

func renderHelp(w io.Writer, cmd *cobra.Command, s helpStyles, width int) {
	fmt.Fprintln(w, " "+s.title.Render(strings.ToUpper(cmd.CommandPath())))

	description, examples := splitExamples(cmd.Long)
	if cmd.Short != "" {
		fmt.Fprintln(w, " "+cmd.Short)
	}
	if description != "" && description != cmd.Short {
		fmt.Fprintln(w)
		for _, line := range strings.Split(wrapText(description, width), "\n") {
			fmt.Fprintln(w, " "+line)
		}
	}

	section := func(name string) { fmt.Fprintln(w, "\n "+s.section.Render(name)) }

	if cmd.Runnable() || cmd.HasAvailableSubCommands() {
		section("USAGE")
		if cmd.Runnable() {
			fmt.Fprintln(w, " "+cmd.UseLine())
		}
		if cmd.HasAvailableSubCommands() {
			fmt.Fprintf(w, " %s [command]\n", cmd.CommandPath())
		}
	}

	if len(cmd.ValidArgs) > 0 {
		section("ARGUMENTS")
		fmt.Fprintln(w, " "+strings.Join(cmd.ValidArgs, " | "))
	}

	if cmd.HasAvailableSubCommands() {
		section("COMMANDS")
		width := 0
		for _, sub := range cmd.Commands() {
			if sub.IsAvailableCommand() && len(sub.Name()) > width {
				width = len(sub.Name())
			}
		}
		for _, sub := range cmd.Commands() {
			if !sub.IsAvailableCommand() {
				continue
			}
			pad := strings.Repeat(" ", width-len(sub.Name()))
			fmt.Fprintf(w, " %s%s  %s\n", s.command.Render(sub.Name()), pad, sub.Short)
		}
	}

	renderFlags(w, "FLAGS", cmd.LocalFlags(), s)
	if cmd.HasParent() {
		renderInherited(w, cmd.InheritedFlags(), s)
	}

	if cmd.Example != "" {
		examples = cmd.Example
	}
	if examples != "" {
		section("EXAMPLES")
		root := cmd.Root().Name()
		for _, line := range strings.Split(examples, "\n") {
			trimmed := strings.TrimSpace(line)
			switch {
			case trimmed == "":
				fmt.Fprintln(w)
			case strings.HasPrefix(trimmed, "#"):
				fmt.Fprintln(w, "   "+s.muted.Render(trimmed))
			default:
				fmt.Fprintln(w, "   "+styleExample(trimmed, root, s))
			}
		}
	}

	if cmd.HasAvailableSubCommands() {
		fmt.Fprintf(w, "\n Use \"%s [command] --help\" for more information.\n", cmd.CommandPath())
	}
}

func visible(fs *pflag.FlagSet) []*pflag.Flag {
	var flags []*pflag.Flag
	fs.VisitAll(func(f *pflag.Flag) {
		if !f.Hidden && f.Name != "help" {
			flags = append(flags, f)
		}
	})
	return flags
}

func renderFlags(w io.Writer, title string, fs *pflag.FlagSet, s helpStyles) {
	flags := visible(fs)
	if len(flags) == 0 {
		return
	}
	fmt.Fprintln(w, "\n "+s.section.Render(title))
	width := 0
	for _, f := range flags {
		if n := len(flagName(f)); n > width {
			width = n
		}
	}
	for _, f := range flags {
		name := flagName(f)
		usage := f.Usage
		if f.DefValue != "" && f.DefValue != "false" && f.DefValue != "[]" && f.DefValue != "0" {
			usage += s.muted.Render(fmt.Sprintf(" (default: %s)", f.DefValue))
		}
		fmt.Fprintf(w, " %s%s  %s\n", s.flag.Render(name), strings.Repeat(" ", width-len(name)), usage)
	}
}

// renderInherited lists global flags on one line.
func renderInherited(w io.Writer, fs *pflag.FlagSet, s helpStyles) {
	flags := visible(fs)
	if len(flags) == 0 {
		return
	}
	names := make([]string, len(flags))
	for i, f := range flags {
		names[i] = "--" + f.Name
	}
	fmt.Fprintln(w, "\n "+s.muted.Render("Global flags: "+strings.Join(names, ", ")))
}

func flagName(f *pflag.Flag) string {
	if f.Shorthand != "" {
		return fmt.Sprintf("-%s, --%s", f.Shorthand, f.Name)
	}
	return "    --" + f.Name
}
