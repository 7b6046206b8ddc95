// Copyright 2024 bookend Project Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"github.com/juju/errors"
	"github.com/spf13/cobra"

	"github.com/bookend-io/bookend/cb"
	"github.com/bookend-io/bookend/config"
	"github.com/bookend-io/bookend/model"
	"github.com/bookend-io/bookend/server"
)

var serveCommand = &cobra.Command{
	Use:   "serve MODEL_FILE CB_MODEL_FILE",
	Short: "Serve recommendations over a REST API.",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		configFile, _ := cmd.Flags().GetString("config")
		cfg := config.Default()
		if configFile != "" {
			var err error
			if cfg, err = config.LoadConfig(configFile); err != nil {
				return errors.Trace(err)
			}
		}
		if cmd.Flags().Changed("http-host") {
			cfg.Server.Host, _ = cmd.Flags().GetString("http-host")
		}
		if cmd.Flags().Changed("http-port") {
			cfg.Server.Port, _ = cmd.Flags().GetInt("http-port")
		}
		m, err := model.Load(args[0])
		if err != nil {
			return errors.Trace(err)
		}
		contentModel, err := cb.LoadContentModel(args[1])
		if err != nil {
			return errors.Trace(err)
		}
		server.NewRestServer(cfg, m, contentModel).StartHttpServer()
		return nil
	},
}

func init() {
	serveCommand.Flags().String("config", "", "configuration file")
	serveCommand.Flags().String("http-host", "127.0.0.1", "host of the REST API")
	serveCommand.Flags().Int("http-port", 8087, "port of the REST API")
}
