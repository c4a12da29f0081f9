package store

import (
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aretw0/grit/pkg/item"
)

// layoutDirs are the four fixed subtrees every store root carries.
var layoutDirs = []string{
	"todo",
	"memo",
	"archive/todo",
	"archive/memo",
}

// absPath resolves a user-supplied root to an absolute path.
func absPath(root string) (string, error) {
	return filepath.Abs(root)
}

// itemDirAbs resolves a root-relative slash path to an absolute one.
func (s *Store) itemDirAbs(rel string) string {
	return filepath.Join(s.root, filepath.FromSlash(rel))
}

// typeDir returns the slash-separated subtree for a type and archive
// state, relative to the root.
func typeDir(typ item.ItemType, archived bool) string {
	if archived {
		return path.Join("archive", string(typ))
	}
	return string(typ)
}

// itemRel returns the item's file path relative to the root, always
// slash-separated for git and event IDs.
func itemRel(it item.Item) string {
	return path.Join(typeDir(it.Type(), it.IsArchived()), it.ID()+".md")
}

// itemAbs returns the item's absolute file path.
func (s *Store) itemAbs(it item.Item) string {
	return filepath.Join(s.root, filepath.FromSlash(itemRel(it)))
}

// slugsIn collects the slugs present in the given root-relative dirs.
func (s *Store) slugsIn(dirs ...string) (map[string]bool, error) {
	set := make(map[string]bool)
	for _, dir := range dirs {
		entries, err := os.ReadDir(filepath.Join(s.root, filepath.FromSlash(dir)))
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, err
		}
		for _, e := range entries {
			if e.IsDir() || !strings.HasSuffix(e.Name(), ".md") {
				continue
			}
			set[strings.TrimSuffix(e.Name(), ".md")] = true
		}
	}
	return set, nil
}

// relocate rebinds an item to a new slug and archive state. The two
// variants carry their location in the same pair of fields.
func relocate(it item.Item, slug string, archived bool) {
	switch v := it.(type) {
	case *item.Todo:
		v.Slug, v.Archived = slug, archived
	case *item.Memo:
		v.Slug, v.Archived = slug, archived
	}
}
