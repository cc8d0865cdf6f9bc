package main

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"go.ngs.io/ocean-forcing/internal/config"
)

const version = "0.1.0"

var (
	configFile string
	verbose    bool

	// Config holds the configuration loaded by the persistent pre-run hook.
	Config *config.Config

	log = logrus.New()
)

// RootCmd is the main command.
var RootCmd = &cobra.Command{
	Use:   "bry",
	Short: "Build CROCO open boundary forcing files.",
	Long: `bry interpolates an ocean reanalysis or forecast product onto the open
boundaries of a CROCO grid and writes the boundary NetCDF file.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return Startup(configFile)
	},
}

// Startup sets up logging and reads the configuration file.
func Startup(configFile string) error {
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	var err error
	Config, err = config.Load(configFile)
	if err != nil {
		return err
	}
	log.WithFields(logrus.Fields{"config": configFile, "version": version}).Debug("configuration loaded")
	return nil
}

func init() {
	RootCmd.AddCommand(versionCmd, boundaryCmd, scoordCmd)

	RootCmd.PersistentFlags().StringVar(&configFile, "config", "./bry.yaml", "configuration file location")
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of bry",

	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("bry version %s\n", version)
	},
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return nil
	},
}
