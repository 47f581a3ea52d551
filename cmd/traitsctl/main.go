// traitsctl is Traits' single entrypoint binary: serve runs the API,
// migrate applies Schema and Roles, bootstrap-admin prints a bcrypt hash
// for BOOTSTRAP_ADMIN_HASH. Grounded on tidbyt-gtfs's cmd/main.go +
// cmd/departures.go split (one rootCmd in main.go, one var<Cmd>+init()
// pair per subcommand file) and theoremus-urban-solutions-gtfs-validator's
// use of the same pattern for a validator CLI, replacing the teacher's
// flat, routes-in-main.go cmd/server/main.go.
package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var logger = logrus.New()

var rootCmd = &cobra.Command{
	Use:          "traitsctl",
	Short:        "Traits train-reservation backend",
	SilenceUsage: true,
}

func init() {
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(bootstrapAdminCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
