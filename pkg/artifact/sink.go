package artifact

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/boattime/portfolio/pkg/errors"
)

// Sink publishes a finished artifact set.
type Sink interface {
	// Publish makes the set available to consumers. Implementations must
	// not leave a partially published set visible on error.
	Publish(ctx context.Context, set Set) error

	// Name identifies the sink in logs.
	Name() string
}

// DirSink writes the artifact pair to a directory as index.html and
// index.txt. Files are written to temporary paths first and renamed into
// place so readers never observe a half-written document.
type DirSink struct {
	dir string
}

// NewDirSink creates a sink writing into dir, creating it if needed.
func NewDirSink(dir string) (*DirSink, error) {
	if dir == "" {
		return nil, errors.New(errors.ErrCodePublish, "output directory is empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(errors.ErrCodePublish, "creating output directory", err)
	}
	return &DirSink{dir: dir}, nil
}

func (s *DirSink) Name() string { return "dir:" + s.dir }

// Dir returns the output directory.
func (s *DirSink) Dir() string { return s.dir }

func (s *DirSink) Publish(ctx context.Context, set Set) error {
	if err := ctx.Err(); err != nil {
		return errors.Wrap(errors.ErrCodePublish, "publish canceled", err)
	}

	files := []struct {
		name string
		data []byte
	}{
		{HTMLFileName, set.HTML},
		{TextFileName, set.Text},
	}

	for _, f := range files {
		if err := s.writeAtomic(f.name, f.data); err != nil {
			return err
		}
	}

	slog.Debug("artifact set published",
		"sink", s.Name(), "cycle", set.CycleID, "bytes", set.Size())
	return nil
}

func (s *DirSink) writeAtomic(name string, data []byte) error {
	final := filepath.Join(s.dir, name)

	tmp, err := os.CreateTemp(s.dir, name+".tmp-*")
	if err != nil {
		return errors.Wrap(errors.ErrCodePublish, "creating temp file", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errors.Wrap(errors.ErrCodePublish, "writing "+name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return errors.Wrap(errors.ErrCodePublish, "closing "+name, err)
	}
	if err := os.Rename(tmpName, final); err != nil {
		os.Remove(tmpName)
		return errors.Wrap(errors.ErrCodePublish, "renaming "+name, err)
	}
	return nil
}
