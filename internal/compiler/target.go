package compiler

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/lhaig/braid/internal/backend"
)

// OutputPath returns the default output file for an input and target: the
// input's base name with the target's extension.
func OutputPath(inputPath, target string) string {
	base := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	return base + backend.FileExtension(target)
}

// EmitToTarget compiles the IR file at irPath for target and writes the
// output to outPath.
func EmitToTarget(irPath, target, outPath string) error {
	c, err := Load(irPath)
	if err != nil {
		return err
	}

	res := Compile(c, target)
	if res.Diagnostics.HasErrors() {
		return fmt.Errorf("compilation errors:\n%s", res.Diagnostics.Format(irPath))
	}

	if err := os.WriteFile(outPath, []byte(res.Output), 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}
