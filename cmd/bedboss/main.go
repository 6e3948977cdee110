// Command bedboss classifies interval files and checks which reference
// genomes they are compatible with.
//
// Usage:
//
//	bedboss [command] [flags]
//
// Commands:
//
//	classify    Detect the BED dialect and compliance of files
//	footprint   Print the chromosome footprint of a file
//	compat      Score a file against every registered genome
//	predict     Predict the reference genome of files
//	registry    List or import genome models
//	stats       Summarize the footprint of a file
//	version     Show version information
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		logrus.Error(err)
		os.Exit(1)
	}
}
