package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/geekboywoot/umjammer/internal"
)

// Batch converts every input into outDir with a pool of poolSize workers.
// Directory inputs contribute the .png files directly inside them. A positive
// limit processes only the first limit files.
func Batch(outDir string, poolSize, limit int, inputs []string, flags PipelineFlags) error {
	stages, err := flags.Stages()
	if err != nil {
		return err
	}

	files, err := expandInputs(inputs)
	if err != nil {
		return err
	}

	processor, err := internal.NewProcessor(outDir, poolSize, files, stages...)
	if err != nil {
		return err
	}

	processor.SetMaxJobs(limit)
	processor.StartWorkers()
	processor.DispatchJobs()
	if errs := processor.Wait(); len(errs) > 0 {
		total := len(files)
		if limit > 0 {
			total = min(total, limit)
		}
		return fmt.Errorf("%d of %d files failed: %w", len(errs), total, errors.Join(errs...))
	}
	return nil
}

func expandInputs(inputs []string) ([]string, error) {
	files := make([]string, 0, len(inputs))
	for _, input := range inputs {
		if internal.IsURL(input) {
			files = append(files, input)
			continue
		}

		info, err := os.Stat(input)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", input, err)
		}
		if !info.IsDir() {
			files = append(files, input)
			continue
		}

		entries, err := os.ReadDir(input)
		if err != nil {
			return nil, fmt.Errorf("failed to read directory %s: %w", input, err)
		}
		for _, entry := range entries {
			if !entry.IsDir() && strings.EqualFold(filepath.Ext(entry.Name()), ".png") {
				files = append(files, filepath.Join(input, entry.Name()))
			}
		}
	}
	return files, nil
}
