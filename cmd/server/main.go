// Package main is the entry point for the game catalog server.
package main

import (
	"fmt"
	"os"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "unknown"
)

// @title           Game Catalog API
// @version         1.0
// @description     Game catalog with token authentication.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apiKey BearerAuth
// @in header
// @name Authorization
func main() {
	cmd := NewRootCmd()
	cmd.Version = fmt.Sprintf("%s (commit: %s)", version, commit)

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
