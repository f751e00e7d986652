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
	"encoding/json"
	"playbridge/internal/conf"
	"playbridge/internal/models"
	"playbridge/internal/types"
	"playbridge/internal/verify"
	"playbridge/pkg/api"

	"github.com/emicklei/go-restful/v3"
	"github.com/golang/glog"
)

func respSuccess(resp *restful.Response, data any) {
	_ = resp.WriteEntity(models.NewResponse(api.OK, api.Success, data))
}

func refreshParam(req *restful.Request) bool {
	return req.QueryParameter(ParamRefresh) == "true"
}

// payloadIdentity is the slice of a Play purchase payload the remote check
// needs. autoRenewing is only present on subscription payloads.
type payloadIdentity struct {
	ProductID     string `json:"productId"`
	PurchaseToken string `json:"purchaseToken"`
	AutoRenewing  *bool  `json:"autoRenewing"`
}

// remoteValidityCheck escalates a locally valid purchase to the Play
// Developer API when remote verification is enabled. Remote infrastructure
// errors keep the local verdict; only an explicit remote rejection demotes
// it.
func remoteValidityCheck(req *restful.Request, payload string, validity types.PurchaseValidity) types.PurchaseValidity {
	if validity != types.ValidityValid || !conf.GetRemoteVerify() {
		return validity
	}

	var identity payloadIdentity
	if err := json.Unmarshal([]byte(payload), &identity); err != nil {
		glog.Warningf("purchase payload parse err:%s", err.Error())
		return types.ValidityFailed
	}
	if identity.ProductID == "" || identity.PurchaseToken == "" {
		return types.ValidityFailed
	}

	ctx := req.Request.Context()
	checker, err := verify.NewPlayChecker(ctx, conf.GetPackageName())
	if err != nil {
		glog.Warningf("verify.NewPlayChecker err:%s", err.Error())
		return validity
	}

	var ok bool
	if identity.AutoRenewing != nil {
		ok, err = checker.CheckSubscription(ctx, identity.ProductID, identity.PurchaseToken)
	} else {
		ok, err = checker.CheckProduct(ctx, identity.ProductID, identity.PurchaseToken)
	}
	if err != nil {
		glog.Warningf("remote purchase check %s err:%s", identity.ProductID, err.Error())
		return validity
	}
	if !ok {
		return types.ValidityFailed
	}

	return validity
}
