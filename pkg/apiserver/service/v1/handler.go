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
	"errors"
	"fmt"
	"net/http"
	"playbridge/internal/backend"
	"playbridge/internal/billing"
	"playbridge/internal/conf"
	"playbridge/internal/events"
	"playbridge/internal/models"
	"playbridge/internal/types"
	"playbridge/pkg/api"

	"github.com/emicklei/go-restful/v3"
	"github.com/golang/glog"
)

type Handler struct {
}

func newHandler() *Handler {
	return &Handler{}
}

// manager returns the live session, creating one when the registry is empty
// (first setup, or setup after an explicit teardown).
func (h *Handler) manager() *billing.Manager {
	if m := billing.GetManager(); m != nil {
		return m
	}
	return billing.InitManager(backend.NewGatewayClient(), events.Default())
}

// liveManager returns the live session or nil; routes that only observe or
// relay must not resurrect a torn-down session.
func liveManager(resp *restful.Response) *billing.Manager {
	m := billing.GetManager()
	if m == nil {
		api.HandleError(resp, errors.New("billing session not initialized"))
	}
	return m
}

func (h *Handler) setupSession(req *restful.Request, resp *restful.Response) {
	var session models.SessionRequest
	if err := req.ReadEntity(&session); err != nil {
		api.HandleBadRequest(resp, err)
		return
	}

	if len(session.Products) == 0 {
		api.HandleBadRequest(resp, errors.New("products is empty"))
		return
	}
	for _, product := range session.Products {
		if product.ID == "" {
			api.HandleBadRequest(resp, errors.New("product id is empty"))
			return
		}
		if !product.Kind.Valid() {
			api.HandleBadRequest(resp, fmt.Errorf("unknown product kind %q", product.Kind))
			return
		}
	}

	key := session.VerificationKey
	if key == "" {
		key = conf.GetVerificationKey()
	}
	h.manager().SetupBillingClient(session.Products, key)

	respSuccess(resp, nil)
}

func (h *Handler) teardownSession(req *restful.Request, resp *restful.Response) {
	if m := billing.GetManager(); m != nil {
		billing.Teardown(m)
	}

	respSuccess(resp, nil)
}

func (h *Handler) sessionStatus(req *restful.Request, resp *restful.Response) {
	m := liveManager(resp)
	if m == nil {
		return
	}

	respSuccess(resp, m.Status())
}

func (h *Handler) setupFraudDetection(req *restful.Request, resp *restful.Response) {
	var fraud models.FraudDetectionRequest
	if err := req.ReadEntity(&fraud); err != nil {
		api.HandleBadRequest(resp, err)
		return
	}

	m := liveManager(resp)
	if m == nil {
		return
	}

	m.SetupFraudDetection(fraud.ObfuscatedAccountID, fraud.ObfuscatedProfileID)

	respSuccess(resp, nil)
}

func (h *Handler) products(req *restful.Request, resp *restful.Response) {
	m := liveManager(resp)
	if m == nil {
		return
	}

	items, ready := m.GetProductDetails()
	respSuccess(resp, models.NewReadyListResponse(items, ready))
}

func (h *Handler) purchases(req *restful.Request, resp *restful.Response) {
	m := liveManager(resp)
	if m == nil {
		return
	}

	items, ready := m.GetUserPurchases(refreshParam(req))
	respSuccess(resp, models.NewReadyListResponse(items, ready))
}

func (h *Handler) purchaseHistory(req *restful.Request, resp *restful.Response) {
	m := liveManager(resp)
	if m == nil {
		return
	}

	items, ready := m.GetUserPurchaseHistory(refreshParam(req))
	respSuccess(resp, models.NewReadyListResponse(items, ready))
}

func (h *Handler) purchase(req *restful.Request, resp *restful.Response) {
	var purchase models.PurchaseRequest
	if err := req.ReadEntity(&purchase); err != nil {
		api.HandleBadRequest(resp, err)
		return
	}

	if purchase.ProductID == "" {
		api.HandleBadRequest(resp, errors.New("product_id is empty"))
		return
	}

	m := liveManager(resp)
	if m == nil {
		return
	}

	err := m.PurchaseProduct(purchase.ProductID, purchase.BasePlanID, purchase.OfferID)
	if err != nil {
		var purchaseErr *billing.PurchaseError
		if errors.As(err, &purchaseErr) {
			glog.Warningf("purchase %s rejected: %s", purchase.ProductID, purchaseErr.Reason)
			api.HandleBadRequest(resp, api.Error{
				Code:             http.StatusBadRequest,
				Msg:              err.Error(),
				ErrorType:        string(purchaseErr.Reason),
				ErrorDescription: err.Error(),
			})
			return
		}
		api.HandleError(resp, err)
		return
	}

	respSuccess(resp, nil)
}

func (h *Handler) acknowledgePurchase(req *restful.Request, resp *restful.Response) {
	token := req.PathParameter(ParamPurchaseToken)
	if token == "" {
		api.HandleBadRequest(resp, errors.New("token is empty"))
		return
	}

	m := liveManager(resp)
	if m == nil {
		return
	}

	m.AcknowledgePurchase(token)

	respSuccess(resp, nil)
}

func (h *Handler) consumePurchase(req *restful.Request, resp *restful.Response) {
	token := req.PathParameter(ParamPurchaseToken)
	if token == "" {
		api.HandleBadRequest(resp, errors.New("token is empty"))
		return
	}

	m := liveManager(resp)
	if m == nil {
		return
	}

	m.ConsumePurchase(token)

	respSuccess(resp, nil)
}

func (h *Handler) purchaseValidity(req *restful.Request, resp *restful.Response) {
	var check models.ValidityRequest
	if err := req.ReadEntity(&check); err != nil {
		api.HandleBadRequest(resp, err)
		return
	}

	m := liveManager(resp)
	if m == nil {
		return
	}

	validity := m.CheckPurchaseValidity(check.Payload, check.Signature)
	validity = remoteValidityCheck(req, check.Payload, validity)

	respSuccess(resp, &models.ValidityResponse{Validity: validity})
}

func (h *Handler) purchasesCallback(req *restful.Request, resp *restful.Response) {
	var callback models.PurchasesCallbackRequest
	if err := req.ReadEntity(&callback); err != nil {
		api.HandleBadRequest(resp, err)
		return
	}

	m := liveManager(resp)
	if m == nil {
		return
	}

	converted := make([]types.Purchase, 0, len(callback.Purchases))
	for _, raw := range callback.Purchases {
		converted = append(converted, backend.ConvertPurchase(raw))
	}
	m.OnPurchasesUpdated(callback.Code, converted)

	respSuccess(resp, nil)
}

func (h *Handler) disconnectedCallback(req *restful.Request, resp *restful.Response) {
	m := liveManager(resp)
	if m == nil {
		return
	}

	m.OnServiceDisconnected()

	respSuccess(resp, nil)
}
