package pipeline

import (
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
)

// document is one discovered regular file, paired with the canonical href it
// owns on the site. Every file contributes a self-definition regardless of
// type; isHTML gates the extra steps (link extraction, paragraph tracking)
// that only make sense for markup.
type document struct {
	absPath       string
	relPath       string // '/'-separated, relative to the site root
	canonicalHref string
	relativeBase  string // what relative hrefs inside this document resolve against
	isHTML        bool
}

// excludeSet is a compiled set of gobwas/glob patterns, matched against a
// document's site-relative path, generalized from plain path.Match to real
// glob syntax.
type excludeSet struct {
	globs []glob.Glob
}

func compileExcludes(patterns []string) (excludeSet, error) {
	var set excludeSet
	for _, p := range patterns {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		g, err := glob.Compile(p, '/')
		if err != nil {
			return excludeSet{}, err
		}
		set.globs = append(set.globs, g)
	}
	return set, nil
}

func (s excludeSet) matches(relPath string) bool {
	for _, g := range s.globs {
		if g.Match(relPath) {
			return true
		}
	}
	return false
}

// walkFiles finds every regular file under root, skipping symlinks,
// dotfile directories, and anything matched by excludes. Every file is
// returned — not just HTML — because every regular file owns a canonical
// href and must be self-defined, whether or not it is ever extracted from;
// a referenced CSS/JS/image asset that is never walked looks identical to a
// genuinely missing one. It returns the number of files excluded alongside
// the surviving documents.
func walkFiles(root string, excludes excludeSet) ([]document, int, error) {
	var docs []document
	excluded := 0

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type()&fs.ModeSymlink != 0 {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if excludes.matches(rel) {
			excluded++
			return nil
		}

		docs = append(docs, documentFor(path, rel))
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return docs, excluded, nil
}
