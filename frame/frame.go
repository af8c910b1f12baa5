// Package frame is the boundary with the teleinfo frame reader.
// The reader owns the fields of one reading cycle, consumers only read them.
package frame

import (
	"fmt"
	"strings"
)

// Field is one named reading from the meter.
// Free marks a reserved slot without real data, it is never emitted.
type Field struct {
	Name  string
	Value string
	Free  bool
}

func (f Field) String() string {
	if f.Free {
		return fmt.Sprintf("(free %s)", f.Name)
	}
	return f.Name + "=" + f.Value
}

// Snapshot is ordered, order is serialization order.
type Snapshot []Field

// Each calls fn for every non-placeholder field in order.
func (s Snapshot) Each(fn func(i int, f Field)) {
	for i, f := range s {
		if f.Free {
			continue
		}
		fn(i, f)
	}
}

// Used counts non-placeholder fields.
func (s Snapshot) Used() int {
	n := 0
	s.Each(func(int, Field) { n++ })
	return n
}

func (s Snapshot) Get(name string) (Field, bool) {
	for _, f := range s {
		if !f.Free && f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

func (s Snapshot) String() string {
	ss := make([]string, len(s))
	for i, f := range s {
		ss[i] = f.String()
	}
	return "[" + strings.Join(ss, " ") + "]"
}

// ReinitFunc asks the frame reader to discard parsing state and
// resynchronize on the next cycle. Calling it many times is same as once.
type ReinitFunc func()

// Reader is implemented by the frame reader collaborator.
type Reader interface {
	Snapshot() Snapshot
	Reinit()
}
