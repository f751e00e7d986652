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

package models

import (
	"playbridge/internal/backend"
	"playbridge/internal/types"
)

type Response struct {
	Code int    `json:"code"`
	Msg  string `json:"message"`
	Data any    `json:"data,omitempty"`
}

func NewResponse(code int, msg string, data any) *Response {
	return &Response{
		Code: code,
		Msg:  msg,
		Data: data,
	}
}

type ResponseBase struct {
	Code int    `json:"code"`
	Msg  string `json:"message,omitempty"`
}

// SessionRequest sets up the billing session with the registered catalogue.
type SessionRequest struct {
	Products        []types.Product `json:"products"`
	VerificationKey string          `json:"verification_key,omitempty"`
}

type FraudDetectionRequest struct {
	ObfuscatedAccountID string `json:"obfuscated_account_id"`
	ObfuscatedProfileID string `json:"obfuscated_profile_id"`
}

type PurchaseRequest struct {
	ProductID  string `json:"product_id"`
	BasePlanID string `json:"base_plan_id,omitempty"`
	OfferID    string `json:"offer_id,omitempty"`
}

type ValidityRequest struct {
	Payload   string `json:"payload"`
	Signature string `json:"signature"`
}

type ValidityResponse struct {
	Validity types.PurchaseValidity `json:"validity"`
}

// ReadyListResponse is the poll-style query envelope. Ready reports whether
// both kind halves of the cache have completed; Items is always present so
// callers can render partial progress as an empty list.
type ReadyListResponse struct {
	Ready bool `json:"ready"`
	Items any  `json:"items"`
}

func NewReadyListResponse[T any](items []T, ready bool) *ReadyListResponse {
	if items == nil {
		items = []T{}
	}
	return &ReadyListResponse{Ready: ready, Items: items}
}

// PurchasesCallbackRequest is the ingress body posted by the billing gateway
// when a launched purchase flow finishes.
type PurchasesCallbackRequest struct {
	Code      types.ResponseCode    `json:"code"`
	Purchases []backend.PurchaseRaw `json:"purchases"`
}
