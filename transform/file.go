package transform

import (
	"bytes"
	"context"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"go.uber.org/zap"

	"github.com/timeax/fortiplugin-bundle-adapter/errors"
)

// RewriteFile rewrites the module at URL in place. Skipped files are not
// rewritten to disk.
func RewriteFile(ctx context.Context, fs afs.Service, URL string, cfg Config) error {
	src, err := fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return errors.IO(errors.PhaseTransform, URL, err)
	}

	out, err := rewrite(src, cfg, URL)
	if err != nil {
		return err
	}
	if bytes.Equal(out, src) {
		Logger().Debug("file unchanged", zap.String("url", URL))
		return nil
	}

	if err := fs.Upload(ctx, URL, file.DefaultFileOsMode, bytes.NewReader(out)); err != nil {
		return errors.IO(errors.PhaseEmit, URL, err)
	}
	return nil
}
