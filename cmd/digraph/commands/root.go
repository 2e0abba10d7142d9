package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/DrSkyle/digraph/pkg/config"
	"github.com/DrSkyle/digraph/pkg/engine"
	"github.com/DrSkyle/digraph/pkg/logging"
	"github.com/DrSkyle/digraph/pkg/version"
)

var (
	cfgFile      string
	outputFormat string
)

var rootCmd = &cobra.Command{
	Use:   "digraph",
	Short: "Directed graph statistics",
	Long: `digraph - directed graph statistics

Build graphs from vertex and edge lists, snapshot them to disk or S3, and
compute vertex counts, edge counts and degrees over containers too large
to hold in memory.`,
	Version:       version.Current,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "Config file (default $HOME/.digraph.yaml)")
	pf.StringVar(&outputFormat, "format", "text", "Output format: text, json or csv")
	pf.String("log-format", "text", "Log format: text or json")
	pf.String("log-level", "info", "Log level: debug, info, warn or error")
	pf.String("log-dir", "", "Write a dated log file here instead of stderr")
	pf.String("otel-endpoint", "", "OTLP HTTP endpoint for traces")
	pf.Bool("no-telemetry", false, "Disable tracing")

	viper.BindPFlag("log.format", pf.Lookup("log-format"))
	viper.BindPFlag("log.level", pf.Lookup("log-level"))
	viper.BindPFlag("log.dir", pf.Lookup("log-dir"))
	viper.BindPFlag("telemetry.endpoint", pf.Lookup("otel-endpoint"))
	viper.BindPFlag("telemetry.disabled", pf.Lookup("no-telemetry"))

	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		renderHelp(cmd.OutOrStdout(), cmd)
	})

	rootCmd.AddCommand(BuildCmd)
	rootCmd.AddCommand(LoadCmd)
	rootCmd.AddCommand(StreamCmd)
	rootCmd.AddCommand(SplitCmd)
	rootCmd.AddCommand(VersionCmd)
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.SetConfigFile(filepath.Join(home, config.FileName+".yaml"))
			viper.SetConfigType("yaml")
		}
	}
	viper.SetEnvPrefix(config.EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	config.SetDefaults(viper.GetViper())
	// A missing config file is fine; defaults and env still apply.
	viper.ReadInConfig()
}

// newEngine builds an engine from the merged configuration. The returned
// func releases the log file and flushes telemetry.
func newEngine(cmd *cobra.Command) (*engine.Engine, func(), error) {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return nil, nil, err
	}

	var logOut io.Writer = cmd.ErrOrStderr()
	var logFile *os.File
	if cfg.Log.Dir != "" {
		logFile, err = logging.OpenDailyFile(cfg.Log.Dir)
		if err != nil {
			return nil, nil, err
		}
		logOut = logFile
	}
	logger := logging.New(cfg.Log.Format, cfg.Log.Level, logOut)

	eng, err := engine.New(cmd.Context(),
		engine.WithConfig(cfg),
		engine.WithLogger(logger),
	)
	if err != nil {
		if logFile != nil {
			logFile.Close()
		}
		return nil, nil, err
	}

	cleanup := func() {
		if err := eng.Close(context.Background()); err != nil {
			logger.Warn("telemetry shutdown failed", "error", err)
		}
		if logFile != nil {
			logFile.Close()
		}
	}
	return eng, cleanup, nil
}

func renderHelp(w io.Writer, cmd *cobra.Command) {
	r := lipgloss.NewRenderer(w)
	titleStyle := r.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#00FF99"))
	flagStyle := r.NewStyle().
		Foreground(lipgloss.Color("#AAAAAA"))

	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("DIGRAPH %s", version.Current)))
	fmt.Fprintln(w, cmd.Short)
	if cmd.Long != "" && cmd != rootCmd {
		fmt.Fprintf(w, "\n%s\n", cmd.Long)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, titleStyle.Render("USAGE"))
	fmt.Fprintf(w, "  %s\n\n", cmd.UseLine())

	if cmd.HasAvailableSubCommands() {
		fmt.Fprintln(w, titleStyle.Render("COMMANDS"))
		for _, c := range cmd.Commands() {
			if c.IsAvailableCommand() {
				fmt.Fprintf(w, "  %-12s %s\n", c.Name(), c.Short)
			}
		}
		fmt.Fprintln(w)

		fmt.Fprintln(w, titleStyle.Render("EXAMPLES"))
		fmt.Fprintln(w, "  digraph build                            # sample graph, snapshot to ./tmp")
		fmt.Fprintln(w, "  digraph build --file graph.yaml --format json")
		fmt.Fprintln(w, "  digraph load --latest tmp")
		fmt.Fprintln(w, "  digraph stream s3://graphs/big.msgpack.zst")
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, titleStyle.Render("FLAGS"))
	visit := func(f *pflag.Flag) {
		if f.Hidden {
			return
		}
		output := fmt.Sprintf("  --%-15s %s", f.Name, f.Usage)
		if f.DefValue != "" && f.DefValue != "false" && f.DefValue != "0" && f.DefValue != "[]" {
			output += fmt.Sprintf(" (default %s)", f.DefValue)
		}
		fmt.Fprintln(w, flagStyle.Render(output))
	}
	cmd.LocalFlags().VisitAll(visit)
	cmd.InheritedFlags().VisitAll(visit)
	fmt.Fprintln(w)
}
