// Package app holds the command line commands of the coref tool.
package app

import (
	"log"
	"os"
	"runtime"

	"github.com/gonuts/commander"
	"github.com/gonuts/flag"
)

const (
	NUM_CPUS_FLAG = "cpus"
)

var (
	CPUs int
)

var AppCommands []*commander.Command = []*commander.Command{
	TrainCmd(),
	ApplyCmd(),
	CorevalCmd(),
}

func AllCommands() *commander.Command {
	cmd := &commander.Command{
		UsageLine:   os.Args[0] + " <command> [options]",
		Short:       "pairwise coreference trainer, resolver and scorer",
		Subcommands: AppCommands,
		Flag:        *flag.NewFlagSet("app", flag.ExitOnError),
	}
	for _, app := range cmd.Subcommands {
		app.Run = NewAppWrapCommand(app.Run)
		app.Flag.IntVar(&CPUs, NUM_CPUS_FLAG, 0, "Max CPUS to use (runtime.GOMAXPROCS); 0 = all")
	}
	return cmd
}

func InitCommand(cmd *commander.Command, args []string) {
	maxCPUs := runtime.NumCPU()
	if CPUs > maxCPUs {
		log.Printf("Warning: Number of CPUs capped to all available (%d)", maxCPUs)
		CPUs = 0
	}
	if CPUs == 0 {
		CPUs = maxCPUs
	}
	runtime.GOMAXPROCS(CPUs)
}

func NewAppWrapCommand(f func(cmd *commander.Command, args []string) error) func(cmd *commander.Command, args []string) error {
	wrapped := func(cmd *commander.Command, args []string) error {
		InitCommand(cmd, args)
		return f(cmd, args)
	}

	return wrapped
}
