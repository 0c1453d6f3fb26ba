package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
)

// exportAudio copies a stored MP3 artifact to dst
func exportAudio(ctx context.Context, app *App, jobID, dst string) error {
	src, _, err := app.ArtifactSvc.Open(ctx, jobID)
	if err != nil {
		return err
	}
	defer src.Close()

	return copyTo(src, dst)
}

// copyTo writes r to dst, creating parent directories
func copyTo(r io.Reader, dst string) error {
	if dir := filepath.Dir(dst); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	destFile, err := os.Create(dst)
	if err != nil {
		return err
	}

	_, err = io.Copy(destFile, r)
	if closeErr := destFile.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(dst)
	}
	return err
}
