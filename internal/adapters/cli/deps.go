package cli

import (
	"context"
	"fmt"

	"github.com/devbush/ytlingo/internal/adapters/cli/tui"
	"github.com/devbush/ytlingo/internal/adapters/ffmpeg"
	"github.com/spf13/cobra"
)

// NewDepsCmd creates the deps subcommand
func NewDepsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deps",
		Short: "Manage external tools (yt-dlp, ffmpeg)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDepsStatus(cmd.Context())
		},
	}

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show dependency status",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDepsStatus(cmd.Context())
		},
	}

	updateCmd := &cobra.Command{
		Use:   "update",
		Short: "Update yt-dlp to the latest version",
		RunE:  runDepsUpdate,
	}

	installCmd := &cobra.Command{
		Use:   "install",
		Short: "Install missing tools",
		RunE:  runDepsInstall,
	}

	cmd.AddCommand(statusCmd, updateCmd, installCmd)
	return cmd
}

func runDepsStatus(ctx context.Context) error {
	app, err := GetApp(ctx)
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(tui.Title("Dependency Status"))
	fmt.Println(tui.KeyValue("backend:", app.Config.YouTube.Backend))

	if app.Downloader.IsAvailable() {
		version, _ := app.Downloader.Version(ctx)
		fmt.Println(tui.KeyValue("yt-dlp:", fmt.Sprintf("%s (%s)", version, app.Downloader.GetBinaryPath())))
	} else {
		fmt.Println(tui.KeyValue("yt-dlp:", tui.Muted("not found")))
	}

	if app.Transcoder.IsAvailable() {
		version, _ := app.Transcoder.Version(ctx)
		fmt.Println(tui.KeyValue("ffmpeg:", fmt.Sprintf("%s (%s)", version, app.Transcoder.GetBinaryPath())))
	} else {
		fmt.Println(tui.KeyValue("ffmpeg:", tui.Muted("not found"))+"  "+tui.Muted(ffmpeg.Instructions()))
	}
	fmt.Println()

	return nil
}

func runDepsUpdate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	app, err := GetApp(ctx)
	if err != nil {
		return err
	}

	if !app.Downloader.IsAvailable() {
		return fmt.Errorf("yt-dlp is not installed. Run 'ytlingo deps install' first")
	}

	if err := tui.RunWithSpinner(ctx, "Updating yt-dlp", quietFlag, app.Downloader.Update); err != nil {
		return err
	}

	fmt.Println(tui.Success("yt-dlp updated"))
	return nil
}

func runDepsInstall(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	app, err := GetApp(ctx)
	if err != nil {
		return err
	}

	type tool struct {
		name    string
		present bool
		install func(context.Context, func(int64, int64)) error
	}
	tools := []tool{{"yt-dlp", app.Downloader.IsAvailable(), app.Downloader.Install}}
	if ffmpeg.CanInstall() {
		tools = append(tools, tool{"ffmpeg", app.Transcoder.IsAvailable(), app.Transcoder.Install})
	} else if !app.Transcoder.IsAvailable() {
		fmt.Println(tui.KeyValue("ffmpeg:", ffmpeg.Instructions()))
	}

	var pending []tool
	var steps []string
	for _, t := range tools {
		if t.present {
			fmt.Println(tui.Success(t.name + " is already installed"))
			continue
		}
		pending = append(pending, t)
		steps = append(steps, "Installing "+t.name)
	}
	if len(pending) == 0 {
		return nil
	}

	progress := tui.NewProgressDisplay(steps, quietFlag)
	for i, t := range pending {
		progress.StartStep(i)
		if err := t.install(ctx, func(d, total int64) { progress.UpdateProgress(i, d, total) }); err != nil {
			progress.FailStep(i, err.Error())
			return err
		}
		progress.CompleteStep(i)
	}

	return nil
}
