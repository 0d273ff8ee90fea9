// Package main is the entry point for cardprice.
package main

import (
	"os"

	"github.com/donaldgifford/card-price-catalog/cmd/cardprice/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
