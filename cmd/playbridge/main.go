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

package main

import (
	"flag"
	"playbridge/internal/backend"
	"playbridge/internal/billing"
	"playbridge/internal/conf"
	"playbridge/internal/events"
	"playbridge/internal/validate"
	"playbridge/pkg/apiserver"

	"github.com/golang/glog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func main() {
	cmd := newBridgeServerCommand()
	flag.Parse()
	defer glog.Flush()

	if err := cmd.Execute(); err != nil {
		glog.Fatalln(err)
	}
}

func newBridgeServerCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "playbridge",
		Short: "REST API bridge for Play Billing sessions",
		Long:  `The playbridge service exposes Play Billing product, purchase and session operations over a REST API and relays billing events outward.`,
		Run: func(cmd *cobra.Command, args []string) {
			_ = Run()
		},
	}

	pflag.CommandLine.AddGoFlagSet(flag.CommandLine)

	return cmd
}

func Run() error {
	conf.Init()

	preloadSession()

	// new server
	s, err := apiserver.New()
	if err != nil {
		return err
	}

	if err = s.PrepareRun(); err != nil {
		return err
	}

	glog.Infof("Start listening on %s", s.Server.Addr)
	return s.Run()
}

// preloadSession sets up the billing session from the product manifest when
// one is configured. Without a manifest the session waits for the first
// setup request.
func preloadSession() {
	path := conf.GetProductsManifest()
	if path == "" {
		return
	}

	manifest, err := validate.LoadProductManifest(path)
	if err != nil {
		glog.Warningf("load product manifest %s err:%s", path, err.Error())
		return
	}

	key := manifest.VerificationKey
	if key == "" {
		key = conf.GetVerificationKey()
	}

	manager := billing.InitManager(backend.NewGatewayClient(), events.Default())
	manager.SetupBillingClient(manifest.Registered(), key)
	glog.Infof("billing session preloaded from manifest %s", path)
}
