package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/aouyang1/go-crossval/fold"
	"gopkg.in/yaml.v3"
)

var errEmptyFoldFile = errors.New("fold file lists no folds")

type foldFile struct {
	Folds [][]int `yaml:"folds"`
}

// readFoldFile parses an externally supplied partition of the form
//
//	folds:
//	  - [0, 1, 2]
//	  - [3, 4, 5]
//
// where each entry lists the row indices held out for that fold.
func readFoldFile(path string) ([]fold.Fold, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var ff foldFile
	if err := yaml.Unmarshal(data, &ff); err != nil {
		return nil, fmt.Errorf("unable to parse fold file, %w", err)
	}
	if len(ff.Folds) == 0 {
		return nil, errEmptyFoldFile
	}

	folds := make([]fold.Fold, 0, len(ff.Folds))
	for _, f := range ff.Folds {
		folds = append(folds, fold.Fold(f))
	}
	return folds, nil
}
