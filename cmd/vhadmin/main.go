// Command vhadmin performs operator tasks against the VolunteerHub database.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"github.com/j-bridge/volunteerhub.com/internal/config"
	"github.com/j-bridge/volunteerhub.com/internal/database"
	"github.com/j-bridge/volunteerhub.com/internal/logger"
	"github.com/j-bridge/volunteerhub.com/internal/repository"
)

const usage = `Usage: vhadmin [--config FILE] [--env-file FILE] <command> [flags]

Commands:
  create-user  create an account with any role
  set-role     change the role of an existing account
  seed         insert demo data for local development
`

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	global := pflag.NewFlagSet("vhadmin", pflag.ContinueOnError)
	global.SetOutput(stderr)
	global.SetInterspersed(false)
	configPath := global.String("config", "", "path to a YAML configuration file")
	envFile := global.String("env-file", ".env", "dotenv file loaded before reading the environment")
	global.Usage = func() { fmt.Fprint(stderr, usage) }
	if err := global.Parse(args); err != nil {
		return 2
	}
	if global.NArg() == 0 {
		global.Usage()
		return 2
	}

	if err := config.LoadEnvFile(*envFile); err != nil {
		fmt.Fprintf(stderr, "vhadmin: %v\n", err)
		return 1
	}
	cfg, err := config.LoadFile(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "vhadmin: %v\n", err)
		return 1
	}
	log := logger.NewWithOutput(cfg, stderr)
	log.SetLevel(logrus.WarnLevel)

	db, err := database.Connect(cfg, log)
	if err != nil {
		fmt.Fprintf(stderr, "vhadmin: %v\n", err)
		return 1
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}
	if err := database.MigrateDatabase(db, log); err != nil {
		fmt.Fprintf(stderr, "vhadmin: %v\n", err)
		return 1
	}

	cli := &cli{store: repository.NewStore(db), log: log, out: stdout}
	if err := cli.dispatch(ctx, global.Arg(0), global.Args()[1:]); err != nil {
		fmt.Fprintf(stderr, "vhadmin: %v\n", err)
		return 1
	}
	return 0
}
