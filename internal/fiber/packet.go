package fiber

import (
	"sync"

	"github.com/thegridman/weblogic-kubernetes-operator/internal/presence"
)

// Packet is the mutable, typed keyed context shared by every Step of one
// Fiber. A Packet references exactly one DomainPresenceInfo; concurrent
// Fibers never share a Packet.
type Packet struct {
	mu    sync.RWMutex
	info  *presence.DomainPresenceInfo
	data  map[string]any
	fiber *Fiber
}

// NewPacket creates a Packet bound to the given domain presence info.
func NewPacket(info *presence.DomainPresenceInfo) *Packet {
	return &Packet{info: info, data: make(map[string]any)}
}

// Info returns the DomainPresenceInfo this Packet is bound to.
func (p *Packet) Info() *presence.DomainPresenceInfo {
	return p.info
}

// Fiber returns the Fiber currently executing this Packet's step chain, so
// a step can register a resume hook against it before suspending. It is
// set once by the Executor before the chain's first Apply call.
func (p *Packet) Fiber() *Fiber {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.fiber
}

func (p *Packet) setFiber(f *Fiber) {
	p.mu.Lock()
	p.fiber = f
	p.mu.Unlock()
}

// Get retrieves a value stored under key.
func (p *Packet) Get(key string) (any, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	v, ok := p.data[key]
	return v, ok
}

// Put stores a value under key, overwriting any previous value.
func (p *Packet) Put(key string, value any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.data[key] = value
}

// Delete removes key from the packet.
func (p *Packet) Delete(key string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.data, key)
}

// GetString is a convenience accessor for string-typed values.
func (p *Packet) GetString(key string) string {
	v, ok := p.Get(key)
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

// GetBool is a convenience accessor for bool-typed values.
func (p *Packet) GetBool(key string) bool {
	v, ok := p.Get(key)
	if !ok {
		return false
	}
	b, _ := v.(bool)
	return b
}
