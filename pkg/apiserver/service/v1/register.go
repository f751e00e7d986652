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
	"fmt"
	"net/http"
	"playbridge/internal/constants"
	"playbridge/internal/models"

	restfulspec "github.com/emicklei/go-restful-openapi/v2"
	"github.com/emicklei/go-restful/v3"
)

const (
	Version            = "v1"
	ParamPurchaseToken = "token"
	ParamRefresh       = "refresh"
)

var (
	ModuleTags = []string{"billing"}
)

func newWebService() *restful.WebService {
	webservice := restful.WebService{}

	webservice.Path(fmt.Sprintf("%s/%s", constants.APIRootPath, Version)).
		Produces(restful.MIME_JSON)

	return &webservice
}

func AddToContainer(c *restful.Container) error {
	ws := newWebService()
	handler := newHandler()

	ws.Route(ws.POST("/session").
		To(handler.setupSession).
		Reads(models.SessionRequest{}).
		Doc("set up the billing session with the registered products").
		Metadata(restfulspec.KeyOpenAPITags, ModuleTags).
		Returns(http.StatusOK, "success to set up the billing session", &models.ResponseBase{}))

	ws.Route(ws.DELETE("/session").
		To(handler.teardownSession).
		Doc("tear down the current billing session").
		Metadata(restfulspec.KeyOpenAPITags, ModuleTags).
		Returns(http.StatusOK, "success to tear down the billing session", &models.ResponseBase{}))

	ws.Route(ws.GET("/session/status").
		To(handler.sessionStatus).
		Doc("get the connection state and per-cache status").
		Metadata(restfulspec.KeyOpenAPITags, ModuleTags).
		Returns(http.StatusOK, "success to get the session status", &models.Response{}))

	ws.Route(ws.POST("/session/fraud-detection").
		To(handler.setupFraudDetection).
		Reads(models.FraudDetectionRequest{}).
		Doc("set the obfuscated account and profile ids for new purchases").
		Metadata(restfulspec.KeyOpenAPITags, ModuleTags).
		Returns(http.StatusOK, "success to set the fraud detection ids", &models.ResponseBase{}))

	ws.Route(ws.GET("/products").
		To(handler.products).
		Doc("get the cached product details for the registered products").
		Metadata(restfulspec.KeyOpenAPITags, ModuleTags).
		Returns(http.StatusOK, "success to get the product details", &models.Response{}))

	ws.Route(ws.GET("/purchases").
		To(handler.purchases).
		Param(ws.QueryParameter(ParamRefresh, "force a fresh fetch")).
		Doc("get the cached active purchases").
		Metadata(restfulspec.KeyOpenAPITags, ModuleTags).
		Returns(http.StatusOK, "success to get the purchases", &models.Response{}))

	ws.Route(ws.GET("/purchases/history").
		To(handler.purchaseHistory).
		Param(ws.QueryParameter(ParamRefresh, "force a fresh fetch")).
		Doc("get the cached purchase history records").
		Metadata(restfulspec.KeyOpenAPITags, ModuleTags).
		Returns(http.StatusOK, "success to get the purchase history", &models.Response{}))

	ws.Route(ws.POST("/purchases").
		To(handler.purchase).
		Reads(models.PurchaseRequest{}).
		Doc("launch a purchase flow for a registered product").
		Metadata(restfulspec.KeyOpenAPITags, ModuleTags).
		Returns(http.StatusOK, "success to launch the purchase flow", &models.ResponseBase{}))

	ws.Route(ws.POST("/purchases/{"+ParamPurchaseToken+"}/acknowledge").
		To(handler.acknowledgePurchase).
		Param(ws.PathParameter(ParamPurchaseToken, "the purchase token")).
		Doc("acknowledge a purchase").
		Metadata(restfulspec.KeyOpenAPITags, ModuleTags).
		Returns(http.StatusOK, "success to request the acknowledge", &models.ResponseBase{}))

	ws.Route(ws.POST("/purchases/{"+ParamPurchaseToken+"}/consume").
		To(handler.consumePurchase).
		Param(ws.PathParameter(ParamPurchaseToken, "the purchase token")).
		Doc("consume a purchase").
		Metadata(restfulspec.KeyOpenAPITags, ModuleTags).
		Returns(http.StatusOK, "success to request the consume", &models.ResponseBase{}))

	ws.Route(ws.POST("/purchases/validity").
		To(handler.purchaseValidity).
		Reads(models.ValidityRequest{}).
		Doc("check a purchase payload signature against the verification key").
		Metadata(restfulspec.KeyOpenAPITags, ModuleTags).
		Returns(http.StatusOK, "success to check the purchase validity", &models.Response{}))

	ws.Route(ws.POST("/callbacks/purchases").
		To(handler.purchasesCallback).
		Reads(models.PurchasesCallbackRequest{}).
		Doc("gateway callback for finished purchase flows").
		Metadata(restfulspec.KeyOpenAPITags, ModuleTags).
		Returns(http.StatusOK, "success to relay the purchase update", &models.ResponseBase{}))

	ws.Route(ws.POST("/callbacks/disconnected").
		To(handler.disconnectedCallback).
		Doc("gateway callback for a lost billing service connection").
		Metadata(restfulspec.KeyOpenAPITags, ModuleTags).
		Returns(http.StatusOK, "success to relay the disconnect", &models.ResponseBase{}))

	c.Add(ws)

	return nil
}
