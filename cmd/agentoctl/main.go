// Copyright (C) 2025 Agento AI (dev@agento.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Command agentoctl is a terminal client for the Agento assistant server.
//
// Usage:
//
//	agentoctl ask "list all my files"
//	agentoctl chat
//	agentoctl chat --server http://localhost:9090 --model groq-mixtral
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// serverURL and modelFlag hold persistent flag values.
var (
	serverURL string
	modelFlag string
)

var rootCmd = &cobra.Command{
	Use:   "agentoctl",
	Short: "Terminal client for the Agento assistant",
	Long:  "agentoctl talks to a running Agento assistant server over its streaming chat API.",
}

func main() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:8080", "Assistant server base URL")
	rootCmd.PersistentFlags().StringVar(&modelFlag, "model", "", "Model name or alias (empty uses the server default)")

	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(chatCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
