// Package batch pairs front and back scan files of the same sample and
// stitches each pair into a point cloud file.
package batch

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/banshee-data/surface.report/internal/fsutil"
)

const (
	frontSuffix = "_front"
	backSuffix  = "_back"
)

// Pair is the front and back scan of one sample. A missing side is empty.
type Pair struct {
	Base  string
	Front string
	Back  string
}

// Complete reports whether both sides are present.
func (p Pair) Complete() bool {
	return p.Front != "" && p.Back != ""
}

// FindPairs lists dir and groups *_front.<ext> and *_back.<ext> files by
// their lower-cased base name. Matching is case-insensitive. Pairs are
// sorted by base name and may be incomplete.
func FindPairs(fs fsutil.FileSystem, dir, ext string) ([]Pair, error) {
	entries, err := fs.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}

	ext = "." + strings.ToLower(strings.TrimPrefix(ext, "."))
	byBase := make(map[string]*Pair)
	get := func(base string) *Pair {
		p, ok := byBase[base]
		if !ok {
			p = &Pair{Base: base}
			byBase[base] = p
		}
		return p
	}

	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		lower := strings.ToLower(e.Name())
		path := filepath.Join(dir, e.Name())
		switch {
		case strings.HasSuffix(lower, frontSuffix+ext):
			get(strings.TrimSuffix(lower, frontSuffix+ext)).Front = path
		case strings.HasSuffix(lower, backSuffix+ext):
			get(strings.TrimSuffix(lower, backSuffix+ext)).Back = path
		}
	}

	pairs := make([]Pair, 0, len(byBase))
	for _, p := range byBase {
		pairs = append(pairs, *p)
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].Base < pairs[j].Base })
	return pairs, nil
}

// PairFromPaths builds a pair from explicit scan paths. The base name is the
// lower-cased front file name without its extension and _front suffix.
func PairFromPaths(front, back string) Pair {
	name := strings.ToLower(filepath.Base(front))
	name = strings.TrimSuffix(name, filepath.Ext(name))
	return Pair{Base: strings.TrimSuffix(name, frontSuffix), Front: front, Back: back}
}
