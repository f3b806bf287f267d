package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"constlit/internal/prof"
	"constlit/internal/version"
)

// errCheckFailed signals a finished run with invalid literals; the report is
// already printed.
var errCheckFailed = errors.New("check failed")

var rootCmd = &cobra.Command{
	Use:           "constlit",
	Short:         "Scope checker for constant function literals",
	Long:          `constlit validates that constant function literals only reference declarations available in a constant context`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var traceCleanup = func() {}

func init() {
	// Устанавливаем версию для автоматического флага --version
	rootCmd.Version = version.Version

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(scopesCmd)
	rootCmd.AddCommand(versionCmd)

	// Глобальные флаги
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().String("config", "", "path to constlit.toml (default: discovered upwards)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "log operational details")
	rootCmd.PersistentFlags().String("trace", "", "trace output file (\"-\" for stderr)")
	rootCmd.PersistentFlags().String("trace-level", "", "trace level (off|run|file|literal); file when --trace is set")
	rootCmd.PersistentFlags().String("trace-format", "auto", "trace format (auto|text|ndjson)")
	rootCmd.PersistentFlags().String("cpuprofile", "", "write a CPU profile to file")
	rootCmd.PersistentFlags().String("memprofile", "", "write a heap profile to file on exit")
	rootCmd.PersistentFlags().String("runtime-trace", "", "write a Go runtime trace to file")

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		log.SetOutput(cmd.ErrOrStderr())
		if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
			log.SetLevel(log.DebugLevel)
		} else {
			log.SetLevel(log.WarnLevel)
		}
		cleanup, err := setupTracing(cmd)
		if err != nil {
			return err
		}
		session, err := startProfiling(cmd)
		if err != nil {
			cleanup()
			return err
		}
		traceCleanup = func() {
			if err := session.Stop(); err != nil {
				log.Warnf("profiling: %v", err)
			}
			cleanup()
		}
		return nil
	}
	rootCmd.PersistentPostRun = func(*cobra.Command, []string) {
		traceCleanup()
		traceCleanup = func() {}
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		traceCleanup()
		if !errors.Is(err, errCheckFailed) {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		os.Exit(1)
	}
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// colorEnabled resolves --color for the given stream.
func colorEnabled(cmd *cobra.Command, f *os.File) (bool, error) {
	mode, err := cmd.Flags().GetString("color")
	if err != nil {
		return false, err
	}
	switch strings.ToLower(mode) {
	case "on", "always":
		return true, nil
	case "off", "never":
		return false, nil
	case "auto", "":
		return os.Getenv("NO_COLOR") == "" && isTerminal(f), nil
	default:
		return false, fmt.Errorf("invalid --color value %q (expected auto|on|off)", mode)
	}
}

func startProfiling(cmd *cobra.Command) (*prof.Session, error) {
	var opts prof.Options
	var err error
	flags := cmd.Flags()
	if opts.CPU, err = flags.GetString("cpuprofile"); err != nil {
		return nil, err
	}
	if opts.Mem, err = flags.GetString("memprofile"); err != nil {
		return nil, err
	}
	if opts.Trace, err = flags.GetString("runtime-trace"); err != nil {
		return nil, err
	}
	return prof.Start(opts)
}
