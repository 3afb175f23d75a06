package presence

import "sync"

// Cache is the process-wide namespace -> domainUid -> DomainPresenceInfo
// map. It is one of the three process-wide registries (the others are the
// make-right and status FiberGates); entries are created on the first
// Domain ADDED/MODIFIED event and destroyed by Unregister at the end of a
// successful down-plan.
type Cache struct {
	mu         sync.RWMutex
	namespaces map[string]map[string]*DomainPresenceInfo
}

// NewCache creates an empty Cache.
func NewCache() *Cache {
	return &Cache{namespaces: make(map[string]map[string]*DomainPresenceInfo)}
}

// Get returns the DomainPresenceInfo for (namespace, domainUID), if registered.
func (c *Cache) Get(namespace, domainUID string) (*DomainPresenceInfo, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ns, ok := c.namespaces[namespace]
	if !ok {
		return nil, false
	}
	info, ok := ns[domainUID]
	return info, ok
}

// GetOrCreate returns the existing DomainPresenceInfo for (namespace,
// domainUID), or registers and returns a fresh one.
func (c *Cache) GetOrCreate(namespace, domainUID string) *DomainPresenceInfo {
	c.mu.Lock()
	defer c.mu.Unlock()
	ns, ok := c.namespaces[namespace]
	if !ok {
		ns = make(map[string]*DomainPresenceInfo)
		c.namespaces[namespace] = ns
	}
	info, ok := ns[domainUID]
	if !ok {
		info = New(namespace, domainUID)
		ns[domainUID] = info
	}
	return info
}

// Register inserts info, overwriting any existing entry for its
// (Namespace, DomainUID).
func (c *Cache) Register(info *DomainPresenceInfo) {
	c.mu.Lock()
	defer c.mu.Unlock()
	ns, ok := c.namespaces[info.Namespace]
	if !ok {
		ns = make(map[string]*DomainPresenceInfo)
		c.namespaces[info.Namespace] = ns
	}
	ns[info.DomainUID] = info
}

// Unregister removes the entry for (namespace, domainUID), if present.
func (c *Cache) Unregister(namespace, domainUID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	ns, ok := c.namespaces[namespace]
	if !ok {
		return
	}
	delete(ns, domainUID)
	if len(ns) == 0 {
		delete(c.namespaces, namespace)
	}
}

// Namespaces returns the set of namespaces with at least one registered domain.
func (c *Cache) Namespaces() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, 0, len(c.namespaces))
	for ns := range c.namespaces {
		out = append(out, ns)
	}
	return out
}

// ForNamespace returns a snapshot of every DomainPresenceInfo registered in
// namespace. Callers must never mutate the cache's own maps while iterating
// this snapshot.
func (c *Cache) ForNamespace(namespace string) []*DomainPresenceInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ns, ok := c.namespaces[namespace]
	if !ok {
		return nil
	}
	out := make([]*DomainPresenceInfo, 0, len(ns))
	for _, info := range ns {
		out = append(out, info)
	}
	return out
}
