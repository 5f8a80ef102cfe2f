package calendar

import (
	"fmt"
	"sync"

	"github.com/andrewramsay/ical-to-gcal-sync/internal"
)

// Mux routes destination calendar operations to the provider registered
// for a platform.
type Mux struct {
	mu           sync.Mutex
	destinations map[string]internal.Destination
}

func NewMux() *Mux {
	return &Mux{
		destinations: make(map[string]internal.Destination),
	}
}

func (m *Mux) Get(platform string) (internal.Destination, error) {
	dest, ok := m.destinations[platform]
	if !ok {
		return nil, fmt.Errorf("calendar %q is not implemented", platform)
	}
	return dest, nil
}

func (m *Mux) Register(platform string, dest internal.Destination) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.destinations[platform] = dest
}
