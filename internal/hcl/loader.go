package hcl

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/powerspec/internal/config"
	"github.com/vk/powerspec/internal/ctxlog"
	"github.com/vk/powerspec/internal/executable"
	"github.com/vk/powerspec/internal/fsutil"
	"github.com/vk/powerspec/internal/pipeerr"
)

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct{}

// NewLoader creates a new HCL configuration loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load discovers every .hcl file under paths, decodes their blocks and
// merges them into one model. Each block may be declared only once across
// all files. Relative paths are resolved against the declaring file's
// directory.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	var files []string
	for _, path := range paths {
		found, err := fsutil.FindFilesByExtension(path, ".hcl")
		if err != nil {
			return nil, configError(path, "cannot read configuration path", err)
		}
		files = append(files, found...)
	}
	if len(files) == 0 {
		return nil, pipeerr.Configuration("no .hcl files found in %v", paths)
	}
	logger.Debug("Discovered HCL files.", "count", len(files))

	m := &config.Model{
		Executables: make(map[executable.Kind]*config.Executable),
	}
	t := &translator{model: m, evalCtx: newEvalContext(), seen: make(map[string]string)}
	parser := hclparse.NewParser()

	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, configError(file, "failed to parse HCL file", diags)
		}

		var root fileRoot
		diags = gohcl.DecodeBody(hclFile.Body, t.evalCtx, &root)
		if diags.HasErrors() {
			return nil, configError(file, "failed to decode HCL file", diags)
		}

		if err := t.translate(ctx, file, &root); err != nil {
			return nil, configError(file, "invalid configuration", err)
		}
	}

	if m.OutputDir == "" {
		m.OutputDir = filepath.Dir(files[0])
	}
	if m.Toolchain.Compiler == "" {
		m.Toolchain.Compiler = executable.DefaultToolchain().Compiler
	}

	logger.Debug("HCL loading complete.",
		"files", len(files),
		"executables", len(m.Executables),
		"output_dir", m.OutputDir,
		"publish", m.Publish != nil,
	)
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

func configError(file, msg string, err error) *pipeerr.Error {
	return &pipeerr.Error{Kind: pipeerr.ConfigurationError, Path: file, Msg: msg, Err: err}
}

// resolvePath anchors a relative path at dir.
func resolvePath(dir, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}

// mustBeUnique records that block was declared in file.
func (t *translator) mustBeUnique(block, file string) error {
	if prev, ok := t.seen[block]; ok {
		return fmt.Errorf("%s block already declared in %s", block, prev)
	}
	t.seen[block] = file
	return nil
}
