package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"constlit/internal/diag"
	"constlit/internal/diagfmt"
	"constlit/internal/driver"
	"constlit/internal/ui"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] [files|dirs...]",
	Short: "Validate constant function literals in AST documents",
	Long: `Check loads AST documents (YAML or JSON), resolves their scopes and validates
every constant function literal. Directories are searched for *.yaml, *.yml
and *.json files. The exit status is 1 when a literal is invalid or a document
has errors.`,
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().String("format", "pretty", "output format (pretty|short|json)")
	checkCmd.Flags().IntP("jobs", "j", 0, "documents checked in parallel (0 = GOMAXPROCS)")
	checkCmd.Flags().Int("literal-jobs", 0, "literal workers per document (0 = GOMAXPROCS)")
	checkCmd.Flags().Int("max-diagnostics", 100, "maximum number of diagnostics to show (0 = unlimited)")
	checkCmd.Flags().Bool("no-cache", false, "ignore and do not update the verdict cache")
	checkCmd.Flags().Bool("hoist", false, "report structurally identical literals that can share one instance")
	checkCmd.Flags().String("ui", "off", "progress UI (auto|on|off)")
	checkCmd.Flags().Bool("timings", false, "show timing information")
	checkCmd.Flags().String("path-mode", "auto", "how to print paths (auto|absolute|relative|basename)")
	checkCmd.Flags().Bool("validate-tables", false, "check symbol table invariants after resolution")
}

type checkFlags struct {
	format         string
	pathMode       diagfmt.PathMode
	noCache        bool
	hoist          bool
	timings        bool
	ui             uiMode
	jobs           int
	literalJobs    int
	maxDiagnostics int
	validateTables bool
}

func readCheckFlags(cmd *cobra.Command) (checkFlags, error) {
	var f checkFlags
	var err error
	flags := cmd.Flags()
	if f.format, err = flags.GetString("format"); err != nil {
		return f, err
	}
	f.format = strings.ToLower(f.format)
	switch f.format {
	case "pretty", "short", "json":
	default:
		return f, fmt.Errorf("unsupported format %q (must be pretty, short or json)", f.format)
	}
	pathMode, err := flags.GetString("path-mode")
	if err != nil {
		return f, err
	}
	f.pathMode = diagfmt.ParsePathMode(pathMode)
	uiValue, err := flags.GetString("ui")
	if err != nil {
		return f, err
	}
	if f.ui, err = readUIMode(uiValue); err != nil {
		return f, err
	}
	if f.noCache, err = flags.GetBool("no-cache"); err != nil {
		return f, err
	}
	if f.hoist, err = flags.GetBool("hoist"); err != nil {
		return f, err
	}
	if f.timings, err = flags.GetBool("timings"); err != nil {
		return f, err
	}
	if f.jobs, err = flags.GetInt("jobs"); err != nil {
		return f, err
	}
	if f.literalJobs, err = flags.GetInt("literal-jobs"); err != nil {
		return f, err
	}
	if f.maxDiagnostics, err = flags.GetInt("max-diagnostics"); err != nil {
		return f, err
	}
	if f.validateTables, err = flags.GetBool("validate-tables"); err != nil {
		return f, err
	}
	return f, nil
}

// checkOptions merges defaults, the project config and explicit flags, in
// that order of precedence from lowest to highest.
func checkOptions(cmd *cobra.Command, f checkFlags, cfg projectConfig) (driver.Options, bool) {
	opts := driver.DefaultOptions()
	opts.MaxDiagnostics = f.maxDiagnostics
	useCache := cfg.apply(&opts)

	flags := cmd.Flags()
	if flags.Changed("jobs") {
		opts.Jobs = f.jobs
	}
	if flags.Changed("max-diagnostics") {
		opts.MaxDiagnostics = f.maxDiagnostics
	}
	opts.LiteralJobs = f.literalJobs
	opts.EnableTimings = f.timings
	opts.ValidateTables = f.validateTables
	if f.noCache {
		useCache = false
	}
	return opts, useCache
}

func runCheck(cmd *cobra.Command, args []string) error {
	f, err := readCheckFlags(cmd)
	if err != nil {
		return err
	}
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return err
	}
	cfg, foundConfig, err := loadConfig(configPath, ".")
	if err != nil {
		return err
	}
	if foundConfig != "" {
		log.Debugf("using config %s", foundConfig)
	}

	if len(args) == 0 {
		args = []string{"."}
	}
	inputs, err := driver.CollectInputs(args)
	if err != nil {
		return err
	}
	log.Debugf("checking %d documents", len(inputs))

	opts, useCache := checkOptions(cmd, f, cfg)
	if wd, err := os.Getwd(); err == nil {
		opts.BaseDir = wd
	}
	if useCache {
		cache, err := driver.OpenDiskCache("constlit")
		if err != nil {
			log.Warnf("verdict cache disabled: %v", err)
		} else {
			log.Debugf("verdict cache at %s", cache.Dir())
			opts.Cache = cache
		}
	}

	var res *driver.Result
	if shouldUseTUI(f.ui, isTerminal(os.Stderr), len(inputs)) {
		res, err = runCheckWithUI(cmd.Context(), "constlit check", inputs, opts)
	} else {
		res, err = driver.Check(cmd.Context(), inputs, opts)
	}
	if err != nil {
		return err
	}

	outColor, err := colorEnabled(cmd, os.Stdout)
	if err != nil {
		return err
	}
	errColor, err := colorEnabled(cmd, os.Stderr)
	if err != nil {
		return err
	}
	if err := printCheckResult(cmd.OutOrStdout(), res, f, outColor); err != nil {
		return err
	}
	if f.timings {
		printTimings(cmd.ErrOrStderr(), res, f.format == "json")
	}
	if f.format == "pretty" {
		fmt.Fprintln(cmd.ErrOrStderr(), ui.Summary(summaryStats(res), errColor))
	}
	if res.Failed() {
		return errCheckFailed
	}
	return nil
}

func printCheckResult(w io.Writer, res *driver.Result, f checkFlags, color bool) error {
	switch f.format {
	case "json":
		opts := diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         f.pathMode,
			IncludeNotes:     true,
			Literals:         literalEntries(res),
		}
		if f.hoist {
			opts.Hoist = hoistEntries(res)
		}
		return diagfmt.JSON(w, res.Bag, res.FileSet, opts)
	case "short":
		if err := diagfmt.Short(w, res.Bag, res.FileSet, true); err != nil {
			return err
		}
	default:
		diagfmt.Pretty(w, res.Bag, res.FileSet, diagfmt.PrettyOpts{
			Color:     color,
			Context:   1,
			PathMode:  f.pathMode,
			ShowNotes: true,
		})
	}
	if f.hoist {
		if res.Bag.Len() > 0 {
			fmt.Fprintln(w)
		}
		diagfmt.Hoist(w, hoistEntries(res), res.FileSet, diagfmt.PrettyOpts{Color: color, PathMode: f.pathMode})
	}
	return nil
}

func literalEntries(res *driver.Result) []diagfmt.LiteralEntry {
	entries := make([]diagfmt.LiteralEntry, 0)
	for i := range res.Files {
		for _, lit := range res.Files[i].Literals {
			entries = append(entries, diagfmt.LiteralEntry{
				Span:       lit.Span,
				Status:     lit.Status.String(),
				Violations: lit.Violations,
			})
		}
	}
	return entries
}

func hoistEntries(res *driver.Result) []diagfmt.HoistEntry {
	groups := res.Hoistable()
	entries := make([]diagfmt.HoistEntry, 0, len(groups))
	for _, g := range groups {
		entries = append(entries, diagfmt.HoistEntry{Fingerprint: g.Fingerprint, Spans: g.Spans})
	}
	return entries
}

func summaryStats(res *driver.Result) ui.SummaryStats {
	total, invalid := res.Stats()
	s := ui.SummaryStats{Files: len(res.Files), Literals: total, Invalid: invalid}
	for i := range res.Files {
		if res.Files[i].Cached {
			s.Cached++
		}
	}
	for _, d := range res.Bag.Items() {
		if d.Severity >= diag.SevError {
			s.Errors++
		}
	}
	return s
}

func printTimings(w io.Writer, res *driver.Result, asJSON bool) {
	if asJSON {
		data, err := res.TimingsJSON()
		if err != nil {
			log.Warnf("timings: %v", err)
			return
		}
		fmt.Fprintln(w, string(data))
		return
	}
	fmt.Fprint(w, res.Timer.Summary())
}
