package cli

import (
	"context"
	"fmt"

	"github.com/devbush/ytlingo/internal/adapters/cli/tui"
	"github.com/devbush/ytlingo/internal/config"
	"github.com/spf13/cobra"
)

var (
	clearAllFlag    bool
	sweepMaxAgeFlag string
)

// NewStoreCmd creates the store subcommand
func NewStoreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "store",
		Short: "Manage extracted audio files",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStoreStatus(cmd.Context())
		},
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "Remove audio files older than the max age",
		RunE:  runStoreSweep,
	}
	sweepCmd.Flags().StringVar(&sweepMaxAgeFlag, "max-age", "", "Override store.max_age (e.g. 30m, 24h, 7d)")

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove all audio files",
		RunE:  runStoreClear,
	}
	clearCmd.Flags().BoolVar(&clearAllFlag, "all", false, "Confirm removal of every audio file")

	cmd.AddCommand(sweepCmd, clearCmd)

	return cmd
}

func runStoreStatus(ctx context.Context) error {
	app, err := GetApp(ctx)
	if err != nil {
		return err
	}

	stats, err := app.ArtifactSvc.Stats(ctx)
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(tui.Title("Audio Store"))
	fmt.Println(tui.KeyValue("Directory:", app.Store.Dir()))
	fmt.Println(tui.KeyValue("Items:", tui.FormatCount(int64(stats.ItemCount))))
	fmt.Println(tui.KeyValue("Size:", tui.FormatSize(stats.TotalSize)))
	fmt.Println(tui.KeyValue("Max age:", app.Config.Store.MaxAge))
	fmt.Println(tui.KeyValue("Cache:", app.Config.Cache.Backend))
	fmt.Println()

	return nil
}

func runStoreSweep(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	app, err := GetApp(ctx)
	if err != nil {
		return err
	}

	maxAge := app.Config.Store.MaxAge
	if sweepMaxAgeFlag != "" {
		maxAge = sweepMaxAgeFlag
	}
	d, err := config.ParseDuration(maxAge)
	if err != nil {
		return err
	}

	removed, err := app.ArtifactSvc.Sweep(app.cliContext(ctx), d)
	if err != nil {
		return err
	}

	fmt.Println(tui.Success(fmt.Sprintf("Removed %d audio files older than %s", removed, maxAge)))
	return nil
}

func runStoreClear(cmd *cobra.Command, args []string) error {
	if !clearAllFlag {
		return fmt.Errorf("refusing to clear the store without --all (use 'ytlingo store sweep' for expired files)")
	}

	ctx := cmd.Context()
	app, err := GetApp(ctx)
	if err != nil {
		return err
	}

	if err := app.ArtifactSvc.Clear(ctx); err != nil {
		return err
	}

	fmt.Println(tui.Success("All audio files removed"))
	return nil
}
