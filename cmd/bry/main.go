// Package main provides the bry command, which builds CROCO open boundary forcing files.
package main

import (
	"os"

	"github.com/sirupsen/logrus"
)

func main() {
	if err := RootCmd.Execute(); err != nil {
		logrus.WithError(err).Error("bry failed")
		os.Exit(1)
	}
}
