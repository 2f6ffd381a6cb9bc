// catalog cleans product catalog worksheets: schema mapping, normalization,
// duplicate merging and restoration of curated fields from a backup sheet.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"

	"github.com/celiapp/catalog/cmd/catalog/cmd"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := cmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func init() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stderr)
}
