package copydata

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/dirlink/pkg/errors"
	"github.com/arthur-debert/dirlink/pkg/filesystem"
	"github.com/arthur-debert/dirlink/pkg/logging"
	"github.com/arthur-debert/dirlink/pkg/types"
	"github.com/rs/zerolog"
)

// CopyOptions defines the options for the CopyData command
type CopyOptions struct {
	// From is the durable directory being copied out of. It is never modified.
	From string
	// To receives the copy and is created when missing.
	To string
	// FS is the filesystem to operate on. Nil means the OS filesystem.
	FS types.FS
}

// CopyData copies every top-level entry of From into To. Directories are
// merged into existing ones; files already present in To are skipped and
// never overwritten. A failing entry is recorded and the copy moves on.
func CopyData(ctx context.Context, opts CopyOptions) (*types.CopyResult, error) {
	log := logging.GetLogger("commands.copydata")
	log.Debug().Str("command", "CopyData").Str("from", opts.From).Str("to", opts.To).Msg("Executing command")

	if err := validate(opts.From, opts.To); err != nil {
		return nil, err
	}
	fsys := opts.FS
	if fsys == nil {
		fsys = filesystem.NewOS()
	}

	result := &types.CopyResult{
		From:  filepath.Clean(opts.From),
		To:    filepath.Clean(opts.To),
		Items: []types.CopyItem{},
	}

	entries, err := fsys.ReadDir(result.From)
	if err != nil && !os.IsNotExist(err) {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to list %s", result.From).
			WithDetail("path", result.From)
	}
	if len(entries) == 0 {
		log.Info().Str("from", result.From).Msg("Nothing to copy, origin is empty or missing")
		result.Empty = true
		return result, nil
	}

	if err := fsys.MkdirAll(result.To, 0755); err != nil {
		return nil, errors.Wrapf(err, errors.ErrDirCreate, "failed to create %s", result.To).
			WithDetail("path", result.To)
	}

	c := &copier{fs: fsys, log: log}
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return result, errors.Wrapf(err, errors.ErrCanceled, "copy stopped before %s", entry.Name())
		}

		item := c.copyItem(filepath.Join(result.From, entry.Name()), filepath.Join(result.To, entry.Name()))
		if item.Status == types.CopyCopied {
			result.Copied++
		} else {
			result.Skipped++
		}
		result.Items = append(result.Items, item)
	}

	log.Info().
		Str("command", "CopyData").
		Int("copied", result.Copied).
		Int("skipped", result.Skipped).
		Msg("Command finished")
	return result, nil
}

func validate(from, to string) error {
	if from == "" || to == "" {
		return errors.New(errors.ErrInvalidInput, "both origin and destination are required")
	}
	from = filepath.Clean(from)
	to = filepath.Clean(to)
	rel, err := filepath.Rel(from, to)
	if err == nil && (rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))) {
		return errors.Newf(errors.ErrInvalidInput, "destination %s must not be inside origin %s", to, from).
			WithDetail("path", to)
	}
	return nil
}

type copier struct {
	fs  types.FS
	log zerolog.Logger
}

func (c *copier) copyItem(src, dst string) types.CopyItem {
	item := types.CopyItem{Name: filepath.Base(src)}

	info, err := c.fs.Lstat(src)
	if err != nil {
		return c.failed(item, err)
	}
	item.IsDir = info.IsDir()

	if item.IsDir {
		skipped, err := c.mergeDir(src, dst)
		item.FilesSkipped = skipped
		if err != nil {
			return c.failed(item, err)
		}
		c.log.Info().Str("item", item.Name).Int("files_skipped", skipped).Msg("Copied directory")
		item.Status = types.CopyCopied
		return item
	}

	if _, err := c.fs.Lstat(dst); err == nil {
		c.log.Info().Str("item", item.Name).Msg("Item already exists in destination, skipping")
		item.Status = types.CopyExists
		return item
	}
	if err := filesystem.CopyTree(c.fs, src, dst); err != nil {
		return c.failed(item, err)
	}
	c.log.Info().Str("item", item.Name).Msg("Copied file")
	item.Status = types.CopyCopied
	return item
}

func (c *copier) failed(item types.CopyItem, err error) types.CopyItem {
	c.log.Warn().Err(err).Str("item", item.Name).Msg("Could not copy item")
	item.Status = types.CopyFailed
	item.Error = err.Error()
	return item
}

// mergeDir copies src into dst, descending into directories that exist on
// both sides. It returns how many files were left alone because dst
// already had them.
func (c *copier) mergeDir(src, dst string) (int, error) {
	dstInfo, err := c.fs.Lstat(dst)
	if os.IsNotExist(err) {
		return 0, filesystem.CopyTree(c.fs, src, dst)
	}
	if err != nil {
		return 0, err
	}
	if !dstInfo.IsDir() {
		return 0, errors.Newf(errors.ErrFileCopy, "%s exists and is not a directory", dst).
			WithDetail("path", dst)
	}

	entries, err := c.fs.ReadDir(src)
	if err != nil {
		return 0, err
	}

	skipped := 0
	for _, entry := range entries {
		childSrc := filepath.Join(src, entry.Name())
		childDst := filepath.Join(dst, entry.Name())

		if entry.IsDir() {
			n, err := c.mergeDir(childSrc, childDst)
			skipped += n
			if err != nil {
				return skipped, err
			}
			continue
		}

		if _, err := c.fs.Lstat(childDst); err == nil {
			c.log.Debug().Str("path", childDst).Msg("File exists in destination, skipping")
			skipped++
			continue
		}
		if err := filesystem.CopyTree(c.fs, childSrc, childDst); err != nil {
			return skipped, err
		}
	}
	return skipped, nil
}
