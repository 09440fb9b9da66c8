package artifacts

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"panchangreel/internal/fileutil"
)

// File name prefixes. Each is followed by the run's stamp, which starts with
// the calendar date.
const (
	ContentPrefix = "reel_content_"
	TextPrefix    = "reel_text_"
	stampLayout   = "20060102_150405"
)

// Store writes run artifacts into a data directory.
type Store struct {
	Dir string
	Now func() time.Time
}

// Paths names the files written for one run.
type Paths struct {
	Content string
	Text    string
}

// NewStore returns a store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{Dir: dir, Now: time.Now}
}

// Save writes content as indented JSON and lines as a text file, one line per
// row. Both names share the same timestamp. A nil content skips the JSON file.
func (s *Store) Save(content any, lines []string) (Paths, error) {
	stamp := s.now().Format(stampLayout)
	var paths Paths
	if content != nil {
		paths.Content = filepath.Join(s.Dir, ContentPrefix+stamp+".json")
		err := fileutil.WriteAtomic(paths.Content, 0o644, func(w io.Writer) error {
			enc := json.NewEncoder(w)
			enc.SetIndent("", "  ")
			enc.SetEscapeHTML(false)
			return enc.Encode(content)
		})
		if err != nil {
			return Paths{}, fmt.Errorf("write content artifact: %w", err)
		}
	}
	paths.Text = filepath.Join(s.Dir, TextPrefix+stamp+".txt")
	err := fileutil.WriteAtomic(paths.Text, 0o644, func(w io.Writer) error {
		for _, line := range lines {
			if _, err := io.WriteString(w, line+"\n"); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return paths, fmt.Errorf("write text artifact: %w", err)
	}
	return paths, nil
}

// LatestText returns the most recent reel text file in the store.
func (s *Store) LatestText() (string, error) {
	matches, err := filepath.Glob(filepath.Join(s.Dir, TextPrefix+"*.txt"))
	if err != nil {
		return "", err
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("no reel text in %s: %w", s.Dir, os.ErrNotExist)
	}
	sort.Strings(matches)
	return matches[len(matches)-1], nil
}

// ReadLines loads a reel text file. Trailing carriage returns are dropped so
// files edited on Windows read the same; blank lines are kept.
func ReadLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines = append(lines, strings.TrimRight(scanner.Text(), "\r"))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return lines, nil
}

func (s *Store) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}
