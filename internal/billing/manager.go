// Package billing owns the billing session: the registered product
// catalogue, the gateway connection state machine, the per-query-family
// caches and the demultiplexing of gateway callbacks into outward events.
package billing

import (
	"log"
	"sync"

	"playbridge/internal/backend"
	"playbridge/internal/cache"
	"playbridge/internal/events"
	"playbridge/internal/types"
)

// ConnectionState is the session's gateway connection state
type ConnectionState string

const (
	StateDisconnected ConnectionState = "disconnected"
	StateConnecting   ConnectionState = "connecting"
	StateConnected    ConnectionState = "connected"
)

// Manager is the billing session manager. One logical session per process;
// the process-wide instance is handed out by the package registry and
// replaced on explicit teardown.
type Manager struct {
	mu sync.RWMutex

	state    ConnectionState
	registry map[string]types.ProductKind
	allIDs   []string
	inAppIDs []string
	subsIDs  []string

	verificationKey     string
	obfuscatedAccountID string
	obfuscatedProfileID string

	products  *cache.Pair[types.ProductDetails]
	purchases *cache.Pair[types.Purchase]
	history   *cache.Pair[types.PurchaseHistoryRecord]

	client backend.Client
	sender events.Sender
}

// NewManager creates a disconnected session around a gateway client and an
// event sender
func NewManager(client backend.Client, sender events.Sender) *Manager {
	return &Manager{
		state:     StateDisconnected,
		registry:  make(map[string]types.ProductKind),
		products:  cache.NewPair[types.ProductDetails](),
		purchases: cache.NewPair[types.Purchase](),
		history:   cache.NewPair[types.PurchaseHistoryRecord](),
		client:    client,
		sender:    sender,
	}
}

// State returns the current connection state
func (m *Manager) State() ConnectionState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// CacheStatuses is a diagnostic snapshot of every cache entry's status
type CacheStatuses struct {
	State           ConnectionState                    `json:"state"`
	ProductDetails  map[types.ProductKind]cache.Status `json:"product_details"`
	Purchases       map[types.ProductKind]cache.Status `json:"purchases"`
	PurchaseHistory map[types.ProductKind]cache.Status `json:"purchase_history"`
}

// Status returns the session diagnostic snapshot
func (m *Manager) Status() CacheStatuses {
	snapshot := CacheStatuses{
		State:           m.State(),
		ProductDetails:  make(map[types.ProductKind]cache.Status),
		Purchases:       make(map[types.ProductKind]cache.Status),
		PurchaseHistory: make(map[types.ProductKind]cache.Status),
	}
	for _, kind := range []types.ProductKind{types.KindInApp, types.KindSubscription} {
		snapshot.ProductDetails[kind] = m.products.Entry(kind).Status()
		snapshot.Purchases[kind] = m.purchases.Entry(kind).Status()
		snapshot.PurchaseHistory[kind] = m.history.Entry(kind).Status()
	}
	return snapshot
}

// SetupBillingClient registers the purchasable products, stores the optional
// verification key and opens the gateway connection. Duplicate ids resolve
// last-write-wins. A failed attempt is terminal: the caller re-invokes setup
// to retry.
func (m *Manager) SetupBillingClient(products []types.Product, verificationKey string) {
	log.Printf("Setting up billing client with %d products", len(products))

	m.mu.Lock()
	m.registry = make(map[string]types.ProductKind, len(products))
	m.allIDs = nil
	m.inAppIDs = nil
	m.subsIDs = nil
	for _, product := range products {
		if _, seen := m.registry[product.ID]; !seen {
			m.allIDs = append(m.allIDs, product.ID)
		}
		m.registry[product.ID] = product.Kind
	}
	for id, kind := range m.registry {
		if kind == types.KindSubscription {
			m.subsIDs = append(m.subsIDs, id)
		} else {
			m.inAppIDs = append(m.inAppIDs, id)
		}
	}
	if verificationKey != "" {
		m.verificationKey = verificationKey
	}
	m.state = StateConnecting
	m.mu.Unlock()

	m.products.Reset()
	m.purchases.Reset()
	m.history.Reset()

	m.client.Connect(m.onSetupFinished, m.OnServiceDisconnected)
}

// SetupFraudDetection stores the obfuscated account and profile identifiers
// forwarded with every purchase launch for the platform's fraud detection
func (m *Manager) SetupFraudDetection(obfuscatedAccountID, obfuscatedProfileID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.obfuscatedAccountID = obfuscatedAccountID
	m.obfuscatedProfileID = obfuscatedProfileID
	log.Println("Setup fraud detection identifiers")
}

// onSetupFinished handles the gateway's connection result. On success the
// four session queries are issued without waiting on each other; on failure
// the attempt ends with a status event and no retry.
func (m *Manager) onSetupFinished(status types.ConnectionStatus) {
	if status == types.StatusConnected {
		log.Println("Successfully finished billing client setup")
		m.mu.Lock()
		m.state = StateConnected
		m.mu.Unlock()

		m.emit(events.ConnectionStatusChanged(types.StatusConnected))

		m.triggerProductDetailsFetch(types.KindInApp)
		m.triggerProductDetailsFetch(types.KindSubscription)
		m.triggerPurchasesFetch(types.KindInApp)
		m.triggerPurchasesFetch(types.KindSubscription)
		return
	}

	log.Printf("Failed setting up billing client: %s", status)
	m.mu.Lock()
	m.state = StateDisconnected
	m.mu.Unlock()

	m.emit(events.ConnectionStatusChanged(status))
}

// OnServiceDisconnected handles a gateway-reported disconnection
func (m *Manager) OnServiceDisconnected() {
	log.Println("Disconnected from billing service")
	m.mu.Lock()
	m.state = StateDisconnected
	m.mu.Unlock()

	m.emit(events.ConnectionStatusChanged(types.StatusServiceDisconnected))
}

func (m *Manager) idsForKind(kind types.ProductKind) []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if kind == types.KindSubscription {
		return m.subsIDs
	}
	return m.inAppIDs
}

func (m *Manager) kindOf(productID string) (types.ProductKind, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	kind, ok := m.registry[productID]
	return kind, ok
}

func (m *Manager) emit(event events.Event) {
	if m.sender == nil {
		return
	}
	if err := m.sender.Send(event); err != nil {
		log.Printf("Failed to send %s event: %v", event.Kind, err)
	}
}
