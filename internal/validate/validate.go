// Package validate checks a catalog and its run parameters before any
// executable is built or run.
package validate

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/vk/powerspec/internal/ctxlog"
	"github.com/vk/powerspec/internal/model"
	"github.com/vk/powerspec/internal/pipeerr"
)

// CommentMarker starts a header line the numerical executables cannot skip.
const CommentMarker = "#"

// MinRedshiftSpaceColumns is the column count needed for redshift space
// distortions: three positions plus the velocity columns.
const MinRedshiftSpaceColumns = 6

// Catalog runs every precondition in order: the catalog exists, the
// axis/space pair is consistent, the first line is not a comment, and there
// are enough columns for the requested line of sight.
func Catalog(ctx context.Context, p model.Parameters) error {
	logger := ctxlog.FromContext(ctx).With("mock_file", p.MockFile)
	logger.Debug("Validating catalog.")

	if err := checkExists(p.MockFile); err != nil {
		return err
	}
	if err := p.Validate(); err != nil {
		return err
	}

	columns, err := firstLineColumns(p.MockFile)
	if err != nil {
		return err
	}
	logger.Debug("Catalog first line parsed.", "columns", columns)

	if columns < MinRedshiftSpaceColumns && p.ObserverAxisCode() > 0 {
		return pipeerr.Insufficient(p.MockFile,
			"redshift space distortions along %s need at least %d columns (positions and velocities), found %d",
			p.Axis, MinRedshiftSpaceColumns, columns)
	}

	logger.Debug("Catalog validation passed.")
	return nil
}

func checkExists(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return pipeerr.NotFound(path, nil)
		}
		return pipeerr.NotFound(path, err)
	}
	if info.IsDir() {
		return pipeerr.NotFound(path, fmt.Errorf("path is a directory"))
	}
	return nil
}

// firstLineColumns reads only the first line of path and counts its numeric
// fields.
func firstLineColumns(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, pipeerr.NotFound(path, err)
	}
	defer f.Close()

	line, err := bufio.NewReader(f).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return 0, fmt.Errorf("read catalog %s: %w", path, err)
	}
	if line == "" {
		return 0, pipeerr.Unsupported(path, "catalog is empty")
	}
	if strings.HasPrefix(line, CommentMarker) {
		return 0, pipeerr.Unsupported(path, "catalog starts with a comment line; the executables cannot skip header comments")
	}

	fields := strings.Fields(line)
	for i, field := range fields {
		if _, err := strconv.ParseFloat(field, 64); err != nil {
			return 0, pipeerr.Unsupported(path, "column %d of the first line is not numeric: %q", i+1, field)
		}
	}
	return len(fields), nil
}
