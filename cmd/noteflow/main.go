package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sonigraph/noteflow/analyze"
	"github.com/sonigraph/noteflow/export"
	"github.com/sonigraph/noteflow/logging"
)

var version = "0.1.0"

var (
	flagConfig  string
	flagStart   float64
	flagEnd     float64
	flagMono    string
	flagFormat  string
	flagOutput  string
	flagVerbose bool
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:     "noteflow",
		Short:   "Per-note musical feature extraction for audio clips",
		Version: version,
	}

	root.PersistentFlags().StringVarP(&flagConfig, "config", "c", "", "path to YAML config file")
	root.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(newAnalyzeCmd())
	return root
}

func newAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze <file.wav>",
		Short: "Segment a clip into notes and estimate pitch, envelope, key, and affect",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(args[0])
		},
	}

	cmd.Flags().Float64Var(&flagStart, "start", -1, "analysis window start in seconds")
	cmd.Flags().Float64Var(&flagEnd, "end", -1, "analysis window end in seconds")
	cmd.Flags().StringVar(&flagMono, "mono", "", "override monophonic detection (true|false)")
	cmd.Flags().StringVarP(&flagFormat, "format", "f", "json", "output format (json|csv)")
	cmd.Flags().StringVarP(&flagOutput, "output", "o", "", "output file path (default stdout)")

	return cmd
}

func runAnalyze(path string) error {
	logger := setupLogger()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	format, err := export.ParseFormat(flagFormat)
	if err != nil {
		return err
	}

	opts := analyze.DefaultOptions()
	opts.Start = flagStart
	opts.End = flagEnd
	if flagMono != "" {
		mono := flagMono == "true"
		opts.Monophonic = &mono
	}

	analyzer := analyze.NewAnalyzer(cfg)
	result, err := analyzer.AnalyzeFile(path, opts)
	if err != nil {
		return err
	}

	logger.WithFields(logging.Fields{
		"file":  result.FilePath,
		"notes": result.NoteCount,
		"mono":  result.Monophonic,
	}).Info("analysis complete")

	if flagOutput != "" {
		return export.WriteFile(result, flagOutput, format)
	}
	return export.Write(result, os.Stdout, format)
}

func setupLogger() logging.Logger {
	logger := logging.NewDefaultLogger()
	if flagVerbose {
		logger.SetLevel(logging.DebugLevel)
	}
	logging.SetGlobalLogger(logger)
	return logger
}

// loadConfig layers an optional YAML file over the defaults
func loadConfig() (analyze.Config, error) {
	cfg := analyze.DefaultConfig()
	if flagConfig == "" {
		return cfg, nil
	}

	v := viper.New()
	v.SetConfigFile(flagConfig)
	if err := v.ReadInConfig(); err != nil {
		return cfg, fmt.Errorf("reading config %s: %w", flagConfig, err)
	}
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", flagConfig, err)
	}
	return cfg, nil
}
