package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/teei/idctl/cmd"
	idio "github.com/teei/idctl/internal/io"
	command "github.com/teei/idctl/pkg/idctlCommand"
)

func main() {

	flags := pflag.NewFlagSet("idctl", pflag.ExitOnError)
	flag.CommandLine.Parse([]string{})
	pflag.CommandLine = flags

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := cmd.NewCmdRoot(idio.StdStreams())

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(command.ExitCode(err))
	}
}
