// synqd: peer-to-peer scroll-wheel and clipboard sharing daemon.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"go.klb.dev/synq/internal/errs"
	"go.klb.dev/synq/internal/logging"
)

// Version is set at build time via -ldflags "-X main.Version=x.y.z".
var Version = "dev"

func main() {
	root := &cobra.Command{
		Use:   "synqd",
		Short: "Share a scroll wheel and clipboard across trusted hosts",
		Long: `synqd shares one host's scroll-wheel input and text clipboard
with a set of trusted peers over an authenticated, encrypted connection.

Run "synqd run" with a synq.toml describing this host's role flags and
its peers. Use "synqd devices" and "synqd detect" to find the evdev path
for the scroll_input_devices entry.`,
		SilenceUsage: true,
	}

	root.PersistentFlags().Bool("debug", false, "print error backtraces and enable debug logging")

	root.AddCommand(
		newRunCmd(),
		newDevicesCmd(),
		newDetectCmd(),
		newVersionCmd(),
	)

	if err := root.Execute(); err != nil {
		if debug, _ := root.PersistentFlags().GetBool("debug"); debug {
			if bt := errs.Backtrace(err); bt != "" {
				fmt.Fprintln(os.Stderr, bt)
			}
		}
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Printf("synqd %s\n", Version)
		},
	}
}

// resolveLogging sets up the global slog logger after flags are parsed.
func resolveLogging(interactive, debug bool, formatStr, levelStr string) {
	format := logging.ParseFormat(formatStr)
	level := logging.ParseLevel(levelStr)
	if levelStr == "" {
		switch {
		case debug:
			level = logging.ParseLevel("debug")
		case interactive:
			level = logging.ParseLevel("debug")
		default:
			level = logging.ParseLevel("info")
		}
	}
	logging.Setup(format, level)
}
