package loader

import (
	"context"
	"fmt"
	"os"

	"PriceChart/internal/model"
)

// FileSource reads a JSON tuple file from disk.
type FileSource struct {
	Path string
}

func (f *FileSource) Name() string { return "file" }

func (f *FileSource) Load(_ context.Context) (model.Series, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", f.Path, err)
	}
	series, err := DecodeTuples(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", f.Path, err)
	}
	return finish(f.Name(), series)
}
