package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/inonprince/zmk-glorious-lefty/pkg/pipeline"
)

// syncOpts holds the command-line flags for the sync command. Each path can
// also come from the config file; an explicitly set flag wins.
type syncOpts struct {
	oldKeymap  string // reference keymap the diagrams were drawn for
	newKeymap  string // edited working-copy keymap
	layoutsIn  string // directory of reference KLE JSON files
	layoutsOut string // directory for updated KLE JSON files
	configPath string
}

// newSyncCmd creates the sync command.
//
// The keymap format is detected by extension: .json files are treated as
// layout-editor exports, anything else as devicetree .keymap files.
func newSyncCmd() *cobra.Command {
	opts := syncOpts{
		oldKeymap:  "sunaku/Glorious Engrammer v42-rc9 (unmodified-reference).keymap",
		newKeymap:  "config/glove80.keymap",
		layoutsIn:  "sunaku/kle-layouts-unmodified-reference",
		layoutsOut: "kle_layouts",
		configPath: defaultConfigFile,
	}

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Update KLE diagrams to track keymap changes",
		Long: `Sync diffs the old and new keymaps and rewrites each KLE diagram so key
content (legend + style) follows its binding. Files whose names cannot be
mapped to a layer are skipped; a malformed file only fails itself.

Examples:
  klesync sync
  klesync sync --new-keymap config/glove80.keymap --kle-out kle_layouts
  klesync sync --old-keymap reference.json --new-keymap working.json`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			if err := opts.applyConfig(c); err != nil {
				return err
			}
			return runSync(c, opts)
		},
	}

	cmd.Flags().StringVar(&opts.oldKeymap, "old-keymap", opts.oldKeymap, "reference keymap (unmodified)")
	cmd.Flags().StringVar(&opts.newKeymap, "new-keymap", opts.newKeymap, "updated keymap (working copy)")
	cmd.Flags().StringVar(&opts.layoutsIn, "kle-in", opts.layoutsIn, "directory with reference KLE JSON files")
	cmd.Flags().StringVar(&opts.layoutsOut, "kle-out", opts.layoutsOut, "directory to write updated KLE JSON files")
	cmd.Flags().StringVar(&opts.configPath, "config", opts.configPath, "config file with path defaults")

	return cmd
}

// applyConfig fills in options from the config file for every flag the user
// did not set explicitly.
func (o *syncOpts) applyConfig(cmd *cobra.Command) error {
	cfg, err := loadConfig(o.configPath, cmd.Flags().Changed("config"))
	if err != nil {
		return err
	}

	set := func(flag string, dst *string, value string) {
		if value != "" && !cmd.Flags().Changed(flag) {
			*dst = value
		}
	}
	set("old-keymap", &o.oldKeymap, cfg.OldKeymap)
	set("new-keymap", &o.newKeymap, cfg.NewKeymap)
	set("kle-in", &o.layoutsIn, cfg.LayoutsIn)
	set("kle-out", &o.layoutsOut, cfg.LayoutsOut)
	return nil
}

// runSync executes the pipeline and prints the per-file summary.
func runSync(cmd *cobra.Command, opts syncOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	logger.Debug("sync options",
		"old", opts.oldKeymap, "new", opts.newKeymap,
		"in", opts.layoutsIn, "out", opts.layoutsOut)

	prog := newProgress(logger)
	runner := pipeline.NewRunner(logger)
	summary, err := runner.Run(ctx, pipeline.Options{
		OldKeymap:  opts.oldKeymap,
		NewKeymap:  opts.newKeymap,
		LayoutsIn:  opts.layoutsIn,
		LayoutsOut: opts.layoutsOut,
	})
	if err != nil {
		return err
	}

	printTitle("KLE update summary:")
	failed := 0
	for i := range summary.Files {
		fr := &summary.Files[i]
		switch {
		case fr.Err != nil:
			failed++
			printError("%s: %v", fr.Name, fr.Err)
		case fr.Skipped != "":
			printInfo("%s: skipped (%s)", fr.Name, fr.Skipped)
		default:
			printFileStats(fr)
			for _, warning := range fr.Warnings {
				printDetail(warning)
			}
		}
	}

	prog.done(fmt.Sprintf("Updated %d of %d layout files", summary.Processed(), len(summary.Files)))
	if failed > 0 {
		return fmt.Errorf("%d layout file(s) failed", failed)
	}
	return nil
}
