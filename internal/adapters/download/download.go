// Package download fetches release binaries for the external tools.
package download

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
)

// ProgressFunc receives the running byte count. total is -1 when unknown.
type ProgressFunc func(downloaded, total int64)

// ToFile downloads url into dest. On failure nothing is left at dest.
func ToFile(ctx context.Context, client *http.Client, url, dest string, progress ProgressFunc) error {
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to download %s: %w", filepath.Base(dest), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to download %s: HTTP %d", filepath.Base(dest), resp.StatusCode)
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return err
	}

	tmp := dest + ".download"
	out, err := os.Create(tmp)
	if err != nil {
		return err
	}

	success := false
	defer func() {
		out.Close()
		if !success {
			os.Remove(tmp)
		}
	}()

	w := io.Writer(out)
	if progress != nil {
		w = &progressWriter{w: out, total: resp.ContentLength, fn: progress}
	}
	if _, err := io.Copy(w, &ctxReader{ctx: ctx, r: resp.Body}); err != nil {
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmp, dest); err != nil {
		return err
	}

	success = true
	return nil
}

type progressWriter struct {
	w          io.Writer
	downloaded int64
	total      int64
	fn         ProgressFunc
}

func (p *progressWriter) Write(b []byte) (int, error) {
	n, err := p.w.Write(b)
	p.downloaded += int64(n)
	p.fn(p.downloaded, p.total)
	return n, err
}

type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
