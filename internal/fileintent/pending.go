package fileintent

import "sync"

// pendingPath holds the most recent accepted path until it is taken.
type pendingPath struct {
	mu   sync.Mutex
	path string
	set  bool
}

func (p *pendingPath) store(path string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.path = path
	p.set = true
}

// take returns the pending path and clears it.
func (p *pendingPath) take() (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	path, ok := p.path, p.set
	p.path = ""
	p.set = false
	return path, ok
}

func (p *pendingPath) peek() (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.path, p.set
}
