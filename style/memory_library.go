package style

import (
	"context"
	"sort"
	"sync"
)

// MemoryLibrary is an in-memory Library safe for concurrent use. Styles are
// copied on Save and Load so callers cannot mutate stored setters.
type MemoryLibrary struct {
	mu     sync.RWMutex
	styles map[string]Style
}

func NewMemoryLibrary(styles ...Style) (*MemoryLibrary, error) {
	lib := &MemoryLibrary{styles: map[string]Style{}}
	for _, s := range styles {
		if err := lib.Save(context.Background(), s); err != nil {
			return nil, err
		}
	}
	return lib, nil
}

func (l *MemoryLibrary) Load(_ context.Context, name string) (Style, bool, error) {
	l.mu.RLock()
	s, ok := l.styles[name]
	l.mu.RUnlock()
	if !ok {
		return Style{}, false, nil
	}
	return cloneStyle(s), true, nil
}

func (l *MemoryLibrary) Save(_ context.Context, s Style) error {
	if err := s.Validate(); err != nil {
		return err
	}
	l.mu.Lock()
	l.styles[s.Name] = cloneStyle(s)
	l.mu.Unlock()
	return nil
}

// Delete removes name and reports whether it existed.
func (l *MemoryLibrary) Delete(name string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.styles[name]
	delete(l.styles, name)
	return ok
}

// Names lists the stored style names in order.
func (l *MemoryLibrary) Names() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	names := make([]string, 0, len(l.styles))
	for name := range l.styles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func cloneStyle(s Style) Style {
	out := s
	if s.Setters != nil {
		out.Setters = append([]Setter(nil), s.Setters...)
	}
	return out
}
