// Command financepro-cli inspects and maintains the stored ledger.
package main

import (
	"context"
	"flag"
	"os"

	"github.com/google/subcommands"

	"financepro/internal/cli"
	"financepro/internal/log"
)

func main() {
	cli.LoadEnvFile()

	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	subcommands.Register(subcommands.CommandsCommand(), "")
	subcommands.Register(&onboardingCmd{}, "ledger")
	subcommands.Register(&exportCmd{}, "ledger")
	subcommands.Register(&verifyCmd{}, "ledger")

	flag.Parse()

	logger := cli.SetupLogger(log.ComponentCLI)
	env := &appEnv{logger: logger}
	status := subcommands.Execute(context.Background(), env)
	env.close()
	os.Exit(int(status))
}
