package fetcher

import (
	"net/url"
	"sync"
	"time"
)

const (
	proxyFailThreshold = 3
	proxyFailWindow    = 60 * time.Second
)

// proxyHealth tracks one proxy's recent failures.
type proxyHealth struct {
	failTimes []time.Time
	benched   bool
}

// ProxyRotator round-robins through a configured proxy list, benching any
// proxy that fails 3 times within a 60s window. If every proxy is benched,
// the bench state resets so fetching can continue.
type ProxyRotator struct {
	mu      sync.Mutex
	proxies []*url.URL
	health  map[string]*proxyHealth
	next    int
}

// NewProxyRotator parses the given proxy URLs (socks5://, http://, https://).
// Entries that fail to parse are skipped.
func NewProxyRotator(rawProxies []string) *ProxyRotator {
	pr := &ProxyRotator{health: make(map[string]*proxyHealth)}
	for _, raw := range rawProxies {
		u, err := url.Parse(raw)
		if err != nil {
			continue
		}
		pr.proxies = append(pr.proxies, u)
		pr.health[u.String()] = &proxyHealth{}
	}
	return pr
}

// Enabled reports whether any proxies were configured.
func (pr *ProxyRotator) Enabled() bool {
	return len(pr.proxies) > 0
}

// Count returns the number of configured proxies.
func (pr *ProxyRotator) Count() int {
	return len(pr.proxies)
}

// Next returns the next available (non-benched) proxy in round-robin order.
// If all proxies are benched, it resets every proxy's bench state and
// returns the first one.
func (pr *ProxyRotator) Next() *url.URL {
	pr.mu.Lock()
	defer pr.mu.Unlock()
	if len(pr.proxies) == 0 {
		return nil
	}

	allBenched := true
	for _, u := range pr.proxies {
		if !pr.health[u.String()].benched {
			allBenched = false
			break
		}
	}
	if allBenched {
		for _, h := range pr.health {
			h.benched = false
			h.failTimes = nil
		}
	}

	for i := 0; i < len(pr.proxies); i++ {
		idx := (pr.next + i) % len(pr.proxies)
		u := pr.proxies[idx]
		if !pr.health[u.String()].benched {
			pr.next = (idx + 1) % len(pr.proxies)
			return u
		}
	}
	pr.next = (pr.next + 1) % len(pr.proxies)
	return pr.proxies[0]
}

// RecordSuccess clears a proxy's fail record.
func (pr *ProxyRotator) RecordSuccess(u *url.URL) {
	if u == nil {
		return
	}
	pr.mu.Lock()
	defer pr.mu.Unlock()
	h, ok := pr.health[u.String()]
	if !ok {
		return
	}
	h.failTimes = nil
	h.benched = false
}

// RecordFailure registers a failure against a proxy, benching it once it
// has failed proxyFailThreshold times within proxyFailWindow.
func (pr *ProxyRotator) RecordFailure(u *url.URL) {
	if u == nil {
		return
	}
	pr.mu.Lock()
	defer pr.mu.Unlock()
	h, ok := pr.health[u.String()]
	if !ok {
		return
	}
	now := time.Now()
	cutoff := now.Add(-proxyFailWindow)
	kept := h.failTimes[:0]
	for _, t := range h.failTimes {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	h.failTimes = append(kept, now)
	if len(h.failTimes) >= proxyFailThreshold {
		h.benched = true
	}
}
