package main

import (
	"os"

	"github.com/sddm/sddm-sub001/lib/cli"
	"github.com/sddm/sddm-sub001/lib/util/logger"
)

var log = logger.GetSddmLogger()

func main() {
	// Warnings and errors always reach stderr; --verbose adds debug output.
	logger.SetVerbose(false)
	if err := cli.Execute(); err != nil {
		log.WithError(err).Error("sddmconf failed")
		os.Exit(1)
	}
}
