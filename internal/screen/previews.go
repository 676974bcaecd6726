package screen

import (
	"strings"
	"sync"

	"catalog-console/prometheus"

	"github.com/google/uuid"
)

// Previews owns the preview URLs handed out for files chosen in the form draft.
// Every URL returned by Acquire stays served until it is released.
type Previews struct {
	mu     sync.Mutex
	prefix string
	files  map[string]File
}

// NewPreviews creates a registry whose URLs start with prefix (e.g. "/previews")
func NewPreviews(prefix string) *Previews {
	return &Previews{
		prefix: strings.TrimRight(prefix, "/"),
		files:  make(map[string]File),
	}
}

// Acquire stores f and returns the URL it is served at
func (p *Previews) Acquire(f File) string {
	id := uuid.NewString()

	p.mu.Lock()
	p.files[id] = f
	n := len(p.files)
	p.mu.Unlock()

	prometheus.SetLivePreviews(n)
	return p.prefix + "/" + id
}

// Release drops the file behind url. URLs not issued by this registry are ignored.
func (p *Previews) Release(url string) {
	id, ok := p.idOf(url)
	if !ok {
		return
	}

	p.mu.Lock()
	delete(p.files, id)
	n := len(p.files)
	p.mu.Unlock()

	prometheus.SetLivePreviews(n)
}

// Lookup returns the file stored under id
func (p *Previews) Lookup(id string) (File, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	f, ok := p.files[id]
	return f, ok
}

// Len returns the number of live previews
func (p *Previews) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.files)
}

func (p *Previews) idOf(url string) (string, bool) {
	id, ok := strings.CutPrefix(url, p.prefix+"/")
	if !ok || id == "" || strings.Contains(id, "/") {
		return "", false
	}
	return id, true
}
