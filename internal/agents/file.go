package agents

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

const hashConcurrency = 4

// FileAgent searches, organizes, and deduplicates files under a root directory.
type FileAgent struct {
	root   string
	logger *slog.Logger
}

// NewFileAgent creates a FileAgent rooted at root ("." if empty).
func NewFileAgent(root string, logger *slog.Logger) *FileAgent {
	if root == "" {
		root = "."
	}
	return &FileAgent{root: root, logger: logger}
}

// Invoke dispatches on params["action"]: "find" (default), "organize", or
// "remove_duplicates".
func (a *FileAgent) Invoke(ctx context.Context, params map[string]string, rawInput string) (Outcome, error) {
	action := params["action"]
	if action == "" {
		action = "find"
	}

	switch action {
	case "find":
		return a.find(searchTermsFrom(rawInput))
	case "organize":
		return a.organizeByType()
	case "remove_duplicates":
		return a.removeDuplicates(ctx)
	default:
		return failure(fmt.Sprintf("unknown file action: %s", action)), nil
	}
}

// searchTermsFrom strips the trigger words and returns what is left as the
// search phrase.
func searchTermsFrom(rawInput string) string {
	s := strings.ReplaceAll(rawInput, "find", "")
	s = strings.ReplaceAll(s, "file", "")
	return strings.TrimSpace(s)
}

func (a *FileAgent) find(phrase string) (Outcome, error) {
	a.logger.Info("searching for files", "phrase", phrase, "root", a.root)

	terms := strings.Fields(strings.ToLower(phrase))
	var found []map[string]any

	err := filepath.WalkDir(a.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		name := strings.ToLower(d.Name())
		for _, term := range terms {
			if strings.Contains(name, term) {
				info, err := d.Info()
				if err != nil {
					return err
				}
				found = append(found, map[string]any{
					"path":     path,
					"name":     d.Name(),
					"size":     info.Size(),
					"modified": info.ModTime().Format(time.RFC3339),
				})
				break
			}
		}
		return nil
	})
	if err != nil {
		return Outcome{}, fmt.Errorf("searching for files: %w", err)
	}

	return Outcome{
		Success: true,
		Message: fmt.Sprintf("Found %d files matching '%s'", len(found), phrase),
		Data:    map[string]any{"files": found, "match_count": len(found)},
		ActionsTaken: []string{
			fmt.Sprintf("Searched in %s", a.root),
			fmt.Sprintf("Found %d matches", len(found)),
		},
	}, nil
}

// organizeByType moves top-level files into "<ext>_files" subdirectories.
func (a *FileAgent) organizeByType() (Outcome, error) {
	a.logger.Info("organizing folder", "root", a.root)

	entries, err := os.ReadDir(a.root)
	if err != nil {
		return Outcome{}, fmt.Errorf("reading folder: %w", err)
	}

	var actions []string
	organized := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(entry.Name()), "."))
		if ext == "" {
			ext = "no_extension"
		}

		typeFolder := filepath.Join(a.root, ext+"_files")
		if err := os.MkdirAll(typeFolder, 0o755); err != nil {
			return Outcome{}, fmt.Errorf("creating %s: %w", typeFolder, err)
		}

		dst := filepath.Join(typeFolder, entry.Name())
		if _, err := os.Stat(dst); err == nil {
			continue // never clobber an existing file
		}
		if err := os.Rename(filepath.Join(a.root, entry.Name()), dst); err != nil {
			return Outcome{}, fmt.Errorf("moving %s: %w", entry.Name(), err)
		}
		actions = append(actions, fmt.Sprintf("Moved %s to %s_files/", entry.Name(), ext))
		organized++
	}

	return Outcome{
		Success:      true,
		Message:      fmt.Sprintf("Organized %d files in %s", organized, a.root),
		Data:         map[string]any{"organized_count": organized, "criteria": "type"},
		ActionsTaken: actions,
	}, nil
}

// removeDuplicates hashes every file under root and reports content
// duplicates. Hashing runs on a bounded worker group; nothing is deleted.
func (a *FileAgent) removeDuplicates(ctx context.Context) (Outcome, error) {
	a.logger.Info("scanning for duplicates", "root", a.root)

	var paths []string
	err := filepath.WalkDir(a.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return Outcome{}, fmt.Errorf("walking %s: %w", a.root, err)
	}

	var mu sync.Mutex
	hashes := make(map[string]string, len(paths))
	var duplicates []map[string]any

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(hashConcurrency)
	for _, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			sum, err := hashFile(path)
			if err != nil {
				a.logger.Warn("skipping unreadable file", "path", path, "error", err)
				return nil
			}
			mu.Lock()
			defer mu.Unlock()
			if original, ok := hashes[sum]; ok {
				duplicates = append(duplicates, map[string]any{
					"original":  original,
					"duplicate": path,
				})
			} else {
				hashes[sum] = path
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Outcome{}, fmt.Errorf("hashing files: %w", err)
	}

	return Outcome{
		Success: true,
		Message: fmt.Sprintf("Found %d duplicate files", len(duplicates)),
		Data:    map[string]any{"duplicates": duplicates, "duplicate_count": len(duplicates)},
		ActionsTaken: []string{
			fmt.Sprintf("Scanned %d files", len(hashes)),
			fmt.Sprintf("Found %d duplicates", len(duplicates)),
		},
	}, nil
}

func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := md5.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
