package commands

import (
	"fmt"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/sonemaro/lsopt/pkg/lister"
	"github.com/sonemaro/lsopt/pkg/logger"
	"github.com/sonemaro/lsopt/pkg/options"
	"github.com/sonemaro/lsopt/pkg/output"
)

type listOptions struct {
	*Options
	dirs         bool
	files        bool
	hidden       bool
	unhidden     bool
	recursive    bool
	depth        uint
	exts         []string
	suffixes     []string
	outputFormat string
	outputFile   string
	workers      int
	rateLimit    int
	count        bool
}

func newListCommand(opts *Options) *cobra.Command {
	lo := &listOptions{
		Options: opts,
	}

	cmd := &cobra.Command{
		Use:   "list [flags] <path>",
		Short: "List matching files and directories",
		Long: `List every file and directory under the given path that passes the
configured filters. A path that does not exist yields an empty listing,
not an error.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return cmd.Help()
			}
			applyFlagDefaults(cmd, lo)
			return runList(cmd, args[0], lo)
		},
	}

	cmd.Flags().BoolVar(&lo.dirs, "dirs", true, "include directories")
	cmd.Flags().BoolVar(&lo.files, "files", true, "include files")
	cmd.Flags().BoolVar(&lo.hidden, "hidden", false, "include hidden names")
	cmd.Flags().BoolVar(&lo.unhidden, "unhidden", true, "include unhidden names")
	cmd.Flags().BoolVarP(&lo.recursive, "recursive", "r", false,
		"descend without bound (ignores --depth)")
	cmd.Flags().UintVarP(&lo.depth, "depth", "d", 1,
		"levels of descent when not recursive")
	cmd.Flags().StringSliceVarP(&lo.exts, "ext", "e", nil,
		"extension filter, dot inserted (repeatable)")
	cmd.Flags().StringSliceVarP(&lo.suffixes, "suffix", "s", nil,
		"literal suffix filter (repeatable)")
	cmd.Flags().StringVarP(&lo.outputFormat, "output", "o", "",
		"output format: plain|json|yaml")
	cmd.Flags().StringVarP(&lo.outputFile, "file", "f", "",
		"write output to file instead of stdout")
	cmd.Flags().IntVarP(&lo.workers, "workers", "w", 0,
		"concurrent subtree walkers (0 = sequential)")
	cmd.Flags().IntVar(&lo.rateLimit, "rate-limit", 0,
		"subtree walks per second (0 = unlimited)")
	cmd.Flags().BoolVarP(&lo.count, "count", "c", false,
		"append an entry count to plain output")

	return cmd
}

// applyFlagDefaults fills unset flags from the environment configuration, so
// LSOPT_* variables act as defaults that explicit flags override.
func applyFlagDefaults(cmd *cobra.Command, lo *listOptions) {
	cfg := lo.Config

	if !cmd.Flags().Changed("dirs") {
		lo.dirs = cfg.Dirs
	}
	if !cmd.Flags().Changed("files") {
		lo.files = cfg.Files
	}
	if !cmd.Flags().Changed("hidden") {
		lo.hidden = cfg.Hidden
	}
	if !cmd.Flags().Changed("unhidden") {
		lo.unhidden = cfg.Unhidden
	}
	if !cmd.Flags().Changed("recursive") {
		lo.recursive = cfg.Recursive
	}
	if !cmd.Flags().Changed("depth") {
		lo.depth = cfg.Depth
	}
	if !cmd.Flags().Changed("suffix") {
		lo.suffixes = cfg.Suffixes
	}
	if lo.outputFormat == "" {
		lo.outputFormat = cfg.Output
	}
	if lo.outputFile == "" {
		lo.outputFile = cfg.OutputFile
	}
	if !cmd.Flags().Changed("workers") {
		lo.workers = cfg.Workers
	}
	if !cmd.Flags().Changed("rate-limit") {
		lo.rateLimit = cfg.RateLimit
	}
}

func runList(cmd *cobra.Command, path string, lo *listOptions) error {
	log := lo.Log
	fs := afero.NewOsFs()

	opts := options.Default().
		WithDirs(lo.dirs).
		WithFiles(lo.files).
		WithHidden(lo.hidden).
		WithUnhidden(lo.unhidden).
		WithRecursive(lo.recursive).
		WithDepth(lo.depth)
	for _, ext := range lo.exts {
		opts = opts.AddSuffix(ext)
	}
	for _, suf := range lo.suffixes {
		opts = opts.AddRawSuffix(suf)
	}

	var l lister.Lister
	if lo.workers > 1 {
		l = lister.NewConcurrent(fs, log, lister.Config{
			Workers:   lo.workers,
			RateLimit: lo.rateLimit,
		})
	} else {
		l = lister.New(fs, log)
	}

	paths, err := l.List(cmd.Context(), opts, path)
	if err != nil {
		return err
	}

	formatter := output.NewFormatter(output.Config{
		Format:     output.Format(lo.outputFormat),
		WithCount:  lo.count,
		WithColors: !lo.Config.NoColor,
	}, fs, log)

	text, err := formatter.Format(paths)
	if err != nil {
		return err
	}

	if lo.outputFile != "" {
		if err := afero.WriteFile(fs, lo.outputFile, []byte(text), 0644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		log.WithFields(logger.Fields{
			"file":    lo.outputFile,
			"entries": len(paths),
		}).Info("Listing written")
		return nil
	}

	_, err = fmt.Fprint(os.Stdout, text)
	return err
}
