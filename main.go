package main

import (
	"fmt"
	_ "net/http/pprof"
	"os"

	"coref/app"

	"github.com/gonuts/commander"
)

var cmd *commander.Command

func init() {
	cmd = app.AllCommands()
}

func main() {
	err := cmd.Flag.Parse(os.Args[1:])
	if err != nil {
		fmt.Printf("**err**: %v\n", err)
		os.Exit(1)
	}

	args := cmd.Flag.Args()
	err = cmd.Dispatch(args)
	if err != nil {
		fmt.Printf("**err**: %v\n", err)
		os.Exit(1)
	}

	return
}
