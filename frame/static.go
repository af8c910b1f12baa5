package frame

import "sync"

// Static is in-memory Reader, used by cli and tests.
type Static struct {
	mu     sync.Mutex
	fields Snapshot
	reinit int
}

func NewStatic(fields ...Field) *Static {
	return &Static{fields: fields}
}

func (self *Static) Set(name, value string) {
	self.mu.Lock()
	defer self.mu.Unlock()
	for i := range self.fields {
		if self.fields[i].Name == name {
			self.fields[i].Value = value
			self.fields[i].Free = false
			return
		}
	}
	self.fields = append(self.fields, Field{Name: name, Value: value})
}

// Add appends field even when name exists, frames may repeat names.
func (self *Static) Add(f Field) {
	self.mu.Lock()
	self.fields = append(self.fields, f)
	self.mu.Unlock()
}

func (self *Static) Clear() {
	self.mu.Lock()
	self.fields = nil
	self.mu.Unlock()
}

// Snapshot returns a copy.
func (self *Static) Snapshot() Snapshot {
	self.mu.Lock()
	defer self.mu.Unlock()
	s := make(Snapshot, len(self.fields))
	copy(s, self.fields)
	return s
}

func (self *Static) Reinit() {
	self.mu.Lock()
	self.reinit++
	self.mu.Unlock()
}

// ReinitCount reports how many times Reinit was requested.
func (self *Static) ReinitCount() int {
	self.mu.Lock()
	defer self.mu.Unlock()
	return self.reinit
}
