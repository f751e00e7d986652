package billing

import (
	"log"
	"sync"

	"playbridge/internal/backend"
	"playbridge/internal/events"
)

// The process-wide session registry. The most recently initialized manager
// is the one new callers attach to; an older manager still held by a caller
// keeps functioning on its own. Replacement happens on explicit init or
// teardown, never through liveness tracking.
var (
	registryMu     sync.Mutex
	currentManager *Manager
)

// InitManager constructs a manager and installs it as the process-wide
// session, replacing any previous one
func InitManager(client backend.Client, sender events.Sender) *Manager {
	manager := NewManager(client, sender)

	registryMu.Lock()
	currentManager = manager
	registryMu.Unlock()

	log.Println("Billing session manager initialized")
	return manager
}

// GetManager returns the process-wide session, or nil before InitManager
func GetManager() *Manager {
	registryMu.Lock()
	defer registryMu.Unlock()
	return currentManager
}

// Teardown removes the given manager from the registry if it is still the
// live one. The manager itself stays usable for callers that hold it.
func Teardown(manager *Manager) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if currentManager == manager {
		currentManager = nil
		log.Println("Billing session manager torn down")
	}
}
