package frame

import (
	"bufio"
	"bytes"
	"os"
	"strings"
	"sync"

	"github.com/juju/errors"
	"github.com/temoto/wifinfo/log2"
)

// FileReader reads snapshot dump produced by external teleinfo decoder.
// Format: one field per line, `NAME VALUE`, `#` comments.
// Line `NAME` without value is placeholder slot.
// Reinit discards cached snapshot, next Snapshot() rereads file.
type FileReader struct {
	Path string
	Log  *log2.Log

	mu     sync.Mutex
	cached Snapshot
	stamp  int64
}

func NewFileReader(path string, log *log2.Log) *FileReader {
	return &FileReader{Path: path, Log: log}
}

func (self *FileReader) Snapshot() Snapshot {
	self.mu.Lock()
	defer self.mu.Unlock()

	st, err := os.Stat(self.Path)
	if err != nil {
		self.Log.Errorf("frame stat path=%s err=%v", self.Path, err)
		return nil
	}
	if self.cached != nil && st.ModTime().UnixNano() == self.stamp {
		return self.cached
	}
	b, err := os.ReadFile(self.Path)
	if err != nil {
		self.Log.Errorf("frame read path=%s err=%v", self.Path, err)
		return nil
	}
	s, err := Parse(b)
	if err != nil {
		self.Log.Errorf("frame parse path=%s err=%v", self.Path, err)
		return nil
	}
	self.cached, self.stamp = s, st.ModTime().UnixNano()
	return s
}

func (self *FileReader) Reinit() {
	self.mu.Lock()
	self.cached, self.stamp = nil, 0
	self.mu.Unlock()
	self.Log.Debugf("frame reinit path=%s", self.Path)
}

// Parse reads `NAME VALUE` lines.
// Value is the rest of the line after first whitespace, trimmed.
func Parse(b []byte) (Snapshot, error) {
	s := Snapshot{}
	scanner := bufio.NewScanner(bytes.NewReader(b))
	lineno := 0
	for scanner.Scan() {
		lineno++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || line[0] == '#' {
			continue
		}
		f, err := ParseLine(line)
		if err != nil {
			return nil, errors.Annotatef(err, "line=%d", lineno)
		}
		s = append(s, f)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Trace(err)
	}
	return s, nil
}

func ParseLine(line string) (Field, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return Field{}, errors.NotValidf("empty line")
	}
	i := strings.IndexAny(line, " \t")
	if i < 0 {
		return Field{Name: line, Free: true}, nil
	}
	return Field{Name: line[:i], Value: strings.TrimSpace(line[i+1:])}, nil
}
