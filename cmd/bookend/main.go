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
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bookend-io/bookend/base/log"
	"github.com/bookend-io/bookend/cmd/version"
)

var rootCommand = &cobra.Command{
	Use:          "bookend",
	Short:        "The book recommender engine.",
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		debug, _ := cmd.Root().PersistentFlags().GetBool("debug")
		log.SetLogger(cmd.Root().PersistentFlags(), debug)
	},
}

var versionCommand = &cobra.Command{
	Use:   "version",
	Short: "Print the version information.",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Print(version.BuildInfo())
	},
}

func init() {
	rootCommand.PersistentFlags().Bool("debug", false, "use debug log mode")
	log.AddFlags(rootCommand.PersistentFlags())
	rootCommand.AddCommand(versionCommand)
	rootCommand.AddCommand(trainCommand)
	rootCommand.AddCommand(trainCBCommand)
	rootCommand.AddCommand(splitCommand)
	rootCommand.AddCommand(predictCommand)
	rootCommand.AddCommand(predictCBCommand)
	rootCommand.AddCommand(evaluateCommand)
	rootCommand.AddCommand(evaluateCBCommand)
	rootCommand.AddCommand(accuracyCommand)
	rootCommand.AddCommand(serveCommand)
}

func main() {
	if err := rootCommand.Execute(); err != nil {
		os.Exit(1)
	}
}
