// Copyright 2022 bytetrade
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package v1

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"playbridge/internal/backend"
	"playbridge/internal/billing"
	"playbridge/internal/conf"
	"playbridge/internal/events"
	"playbridge/internal/types"

	"github.com/emicklei/go-restful/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubClient struct{}

func (c *stubClient) Connect(onStatus func(types.ConnectionStatus), onDisconnected func()) {
	onStatus(types.StatusConnected)
}

func (c *stubClient) QueryProductDetails(kind types.ProductKind, ids []string, cb func(types.ResponseCode, []types.ProductDetails)) {
	cb(types.ResponseOK, nil)
}

func (c *stubClient) QueryPurchases(kind types.ProductKind, cb func(types.ResponseCode, []types.Purchase)) {
	cb(types.ResponseOK, nil)
}

func (c *stubClient) QueryPurchaseHistory(kind types.ProductKind, cb func(types.ResponseCode, []types.PurchaseHistoryRecord)) {
	cb(types.ResponseOK, nil)
}

func (c *stubClient) LaunchPurchase(params backend.LaunchParams) {}

func (c *stubClient) Acknowledge(token string, cb func(types.ResponseCode)) {
	cb(types.ResponseOK)
}

func (c *stubClient) Consume(token string, cb func(types.ResponseCode)) {
	cb(types.ResponseOK)
}

type capturingSender struct {
	mu     sync.Mutex
	events []events.Event
}

func (s *capturingSender) Send(event events.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

func (s *capturingSender) IsConnected() bool { return true }

func (s *capturingSender) Close() {}

func (s *capturingSender) byKind(kind events.Kind) []events.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	var matched []events.Event
	for _, ev := range s.events {
		if ev.Kind == kind {
			matched = append(matched, ev)
		}
	}
	return matched
}

func newTestContainer(t *testing.T) (*restful.Container, *capturingSender) {
	t.Helper()

	sender := &capturingSender{}
	m := billing.InitManager(&stubClient{}, sender)
	t.Cleanup(func() { billing.Teardown(m) })

	container := restful.NewContainer()
	require.NoError(t, AddToContainer(container))
	return container, sender
}

func doJSON(t *testing.T, container *restful.Container, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", restful.MIME_JSON)
	rec := httptest.NewRecorder()
	container.ServeHTTP(rec, req)
	return rec
}

func TestPurchasesCallbackEmitsPurchaseReady(t *testing.T) {
	container, sender := newTestContainer(t)

	rec := doJSON(t, container, http.MethodPost, "/billing/v1/session", map[string]any{
		"products": []map[string]string{
			{"id": "coin_100", "kind": "inapp"},
		},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, container, http.MethodPost, "/billing/v1/callbacks/purchases", map[string]any{
		"code": "ok",
		"purchases": []map[string]any{
			{
				"order_id":             "GPA.1234",
				"product_ids":          []string{"coin_100"},
				"purchase_state":       1,
				"purchase_time_millis": 1700000000000,
				"purchase_token":       "tok-coin",
				"quantity":             1,
			},
		},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	ready := sender.byKind(events.KindPurchaseReady)
	require.Len(t, ready, 1)
	require.NotNil(t, ready[0].Purchase)
	assert.Equal(t, "tok-coin", ready[0].Purchase.PurchaseToken)
	assert.Equal(t, types.PurchaseStatePurchased, ready[0].Purchase.State)
}

func TestSetupSessionRejectsBadCatalogue(t *testing.T) {
	container, _ := newTestContainer(t)

	rec := doJSON(t, container, http.MethodPost, "/billing/v1/session", map[string]any{
		"products": []map[string]string{},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, container, http.MethodPost, "/billing/v1/session", map[string]any{
		"products": []map[string]string{
			{"id": "coin_100", "kind": "lootbox"},
		},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestObserveRoutesRequireSession(t *testing.T) {
	sender := &capturingSender{}
	m := billing.InitManager(&stubClient{}, sender)
	billing.Teardown(m)

	container := restful.NewContainer()
	require.NoError(t, AddToContainer(container))

	rec := doJSON(t, container, http.MethodGet, "/billing/v1/products", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRemoteValidityCheckSkippedWhenDisabled(t *testing.T) {
	conf.Config.RemoteVerify = false

	req := restful.NewRequest(httptest.NewRequest(http.MethodPost, "/billing/v1/purchases/validity", nil))

	// Payload is not even parsed while remote verification is off.
	got := remoteValidityCheck(req, "not json", types.ValidityValid)
	assert.Equal(t, types.ValidityValid, got)

	got = remoteValidityCheck(req, "not json", types.ValidityFailed)
	assert.Equal(t, types.ValidityFailed, got)
}
