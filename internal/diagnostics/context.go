// Package diagnostics accumulates decode outcomes across a multi-
// instruction disassembly run: which offsets decoded cleanly, which
// failed, and why, so a caller can report a summary or render inline
// annotations without threading error state through every decode call.
package diagnostics

import "sync"

// Context is a passive, append-only structure that accumulates
// diagnostic entries as a disassembly run progresses. It is safe for
// concurrent writes, so independent goroutines decoding disjoint
// regions of the same image can share one Context.
//
// Create a Context exclusively through NewContext(). It does not
// perform any I/O or formatting — a separate renderer consumes the
// entries to produce output.
type Context struct {
	image   string
	phase   string
	entries []*Entry
	mu      sync.Mutex
}

// NewContext returns a *Context for the named image, with an empty
// entry list and no active phase.
func NewContext(image string) *Context {
	return &Context{image: image, entries: make([]*Entry, 0)}
}

// SetPhase sets the current pipeline phase. Subsequent entries are
// tagged with this phase until it is changed again.
func (c *Context) SetPhase(name string) {
	c.mu.Lock()
	c.phase = name
	c.mu.Unlock()
}

// Phase returns the current pipeline phase name.
func (c *Context) Phase() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

// Loc creates a Location using the context's image name.
func (c *Context) Loc(offset int, address int64) Location {
	return Loc(c.image, offset, address)
}

func (c *Context) record(severity string, location Location, message string) *Entry {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry := &Entry{
		severity: severity,
		phase:    c.phase,
		message:  message,
		location: location,
	}
	c.entries = append(c.entries, entry)
	return entry
}

// Error records an entry with severity "error" and returns the *Entry
// for optional chaining (WithBytes, WithHint).
func (c *Context) Error(location Location, message string) *Entry {
	return c.record(SeverityError, location, message)
}

// Warning records an entry with severity "warning".
func (c *Context) Warning(location Location, message string) *Entry {
	return c.record(SeverityWarning, location, message)
}

// Info records an entry with severity "info".
func (c *Context) Info(location Location, message string) *Entry {
	return c.record(SeverityInfo, location, message)
}

// Trace records an entry with severity "trace".
func (c *Context) Trace(location Location, message string) *Entry {
	return c.record(SeverityTrace, location, message)
}

// Entries returns all recorded entries in insertion order.
func (c *Context) Entries() []*Entry {
	c.mu.Lock()
	defer c.mu.Unlock()

	result := make([]*Entry, len(c.entries))
	copy(result, c.entries)
	return result
}

// Errors returns only entries with severity "error".
func (c *Context) Errors() []*Entry {
	return c.filter(SeverityError)
}

// Warnings returns only entries with severity "warning".
func (c *Context) Warnings() []*Entry {
	return c.filter(SeverityWarning)
}

// HasErrors returns true if at least one "error" entry exists.
func (c *Context) HasErrors() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, e := range c.entries {
		if e.severity == SeverityError {
			return true
		}
	}
	return false
}

// Count returns the total number of entries.
func (c *Context) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Image returns the image name the context was created for.
func (c *Context) Image() string {
	return c.image
}

func (c *Context) filter(severity string) []*Entry {
	c.mu.Lock()
	defer c.mu.Unlock()

	var result []*Entry
	for _, e := range c.entries {
		if e.severity == severity {
			result = append(result, e)
		}
	}
	return result
}
