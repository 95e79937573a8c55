package wipe

import (
	"crypto/rand"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
)

// DefaultBufferSize is the overwrite buffer size used when none is configured.
const DefaultBufferSize = 8 * 1024 // 8KiB

// Overwriter destroys a single regular file: three overwrite passes with
// distinct patterns across the file's full original length, each forced to
// durable storage before the next, then deletion. A zero-length file has no
// content to overwrite and is deleted directly.
type Overwriter struct {
	bufSize int
	logger  *zap.Logger

	// afterPass runs after each pass has been synced. Test seam; nil in
	// production.
	afterPass func(path string, pass Pass)
}

func NewOverwriter(bufSize int, logger *zap.Logger) *Overwriter {
	if bufSize <= 0 {
		bufSize = DefaultBufferSize
	}
	return &Overwriter{
		bufSize: bufSize,
		logger:  logger.Named("overwriter"),
	}
}

// Destroy overwrites and deletes one regular file. On a mid-pass failure the
// file is abandoned in place, partially overwritten but not deleted, and the
// failure is reported upward.
func (o *Overwriter) Destroy(path string) (int64, error) {
	info, err := os.Lstat(path)
	if err != nil {
		return 0, &OverwriteError{Path: path, Stage: "stat", Err: err}
	}

	size := info.Size()

	if info.Mode().IsRegular() && size > 0 {
		for _, pass := range passOrder {
			if err := o.writePass(path, size, pass); err != nil {
				return 0, &OverwriteError{Path: path, Stage: "pass", Pass: pass, Err: err}
			}
			if o.afterPass != nil {
				o.afterPass(path, pass)
			}
		}
	}

	if err := os.Remove(path); err != nil {
		return 0, &OverwriteError{Path: path, Stage: "delete", Err: err}
	}

	o.logger.Debug("File destroyed",
		zap.String("path", path),
		zap.Int64("size", size))

	return size, nil
}

// writePass writes one full-length pattern pass and syncs it to disk. The
// file length is never changed: the pass covers exactly the original size.
func (o *Overwriter) writePass(path string, size int64, pass Pass) error {
	f, err := os.OpenFile(path, os.O_WRONLY, 0)
	if err != nil {
		return fmt.Errorf("open for pass %s: %w", pass, err)
	}
	defer f.Close()

	buf := make([]byte, o.bufSize)
	switch pass {
	case PassZero:
		// make() already zeroed the buffer
	case PassOne:
		fillPattern(buf, 0xFF)
	}

	var written int64
	for written < size {
		chunk := int64(len(buf))
		if remaining := size - written; remaining < chunk {
			chunk = remaining
		}

		if pass == PassRandom {
			if _, err := rand.Read(buf[:chunk]); err != nil {
				return fmt.Errorf("random pattern: %w", err)
			}
		}

		n, err := f.Write(buf[:chunk])
		if n > 0 {
			written += int64(n)
		}
		if err != nil {
			return fmt.Errorf("write at %d: %w", written, err)
		}
		if n == 0 {
			return fmt.Errorf("write at %d: %w", written, io.ErrShortWrite)
		}
	}

	// Force the pass to durable storage before the next pattern goes down.
	if err := f.Sync(); err != nil {
		return fmt.Errorf("sync pass %s: %w", pass, err)
	}

	return f.Close()
}

// fillPattern fills buf with the given byte.
func fillPattern(buf []byte, pattern byte) {
	for i := range buf {
		buf[i] = pattern
	}
}
