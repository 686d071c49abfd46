package seal

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"sealbox/internal/block"
	"sealbox/internal/marker"
	"sealbox/pkg/lines"
)

// SealFile seals the file at path. When write is true the file is replaced
// atomically (a sibling temp file is written and renamed over the original);
// otherwise the sealed content goes to out, with a final newline appended if
// the content lacks one.
func SealFile(path string, write bool, out io.Writer) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("The input does not exist: %s", path)
		}
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("The input is not a file: %s", path)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	sealed, err := Content(string(raw))
	if err != nil {
		return fmt.Errorf("There was an error while sealing the file %s:\n%w", path, err)
	}

	if write {
		return replaceFile(path, sealed)
	}

	if _, err := io.WriteString(out, sealed); err != nil {
		return err
	}
	if !strings.HasSuffix(sealed, "\n") {
		if _, err := io.WriteString(out, "\n"); err != nil {
			return err
		}
	}
	return nil
}

// VerifyFile re-computes the fingerprints of the sealed blocks in the file
// at path and reports one error per block whose stored fingerprint does not
// match. The returned count is the number of blocks found.
func VerifyFile(path string) (int, []error, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	ls := lines.Split(string(raw))
	blocks, err := block.Assemble(marker.Extract(ls))
	if err != nil {
		return 0, nil, err
	}

	_, errs := block.Verify(ls, blocks)
	return len(blocks), errs, nil
}

// replaceFile writes content to a temp file in the same directory and
// renames it over dest, so readers never observe a partial write.
func replaceFile(dest, content string) error {
	dir := filepath.Dir(dest)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(dest)+".*")
	if err != nil {
		return fmt.Errorf("failed to create temp file in %s: %w", dir, err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write %s: %w", tmpPath, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close %s: %w", tmpPath, err)
	}

	if err := os.Rename(tmpPath, dest); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace %s: %w", dest, err)
	}
	return nil
}
