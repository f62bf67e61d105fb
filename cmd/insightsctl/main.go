// Package main is the entry point for the insightsctl CLI.
package main

import "github.com/boddenberg/retail-insights/internal/cli"

// version is set at build time via ldflags:
//
//	go build -ldflags "-X main.version=1.0.0"
var version = "dev"

func main() {
	cli.Execute(version)
}
