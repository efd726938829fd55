package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/gaborage/slimgen/internal/commands"
)

var version = "dev" // Will be set during build

func main() {
	global := &commands.GlobalOptions{}

	rootCmd := &cobra.Command{
		Use:   "slimgen",
		Short: "Generate CRUD endpoints and OpenAPI docs for Slim projects",
		Long: `slimgen inspects a MySQL or PostgreSQL schema and generates CRUD controllers,
services and route registrations for a Slim PHP project. It also rebuilds the
project's OpenAPI document from the routes and sources it finds.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	commands.AddGlobalFlags(rootCmd, global)

	rootCmd.AddCommand(
		commands.NewGenerateCommand(global),
		commands.NewDocsCommand(global),
		commands.NewServeCommand(global),
		commands.NewDescribeCommand(global),
		commands.NewDoctorCommand(global),
		commands.NewVersionCommand(version),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
