package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
)

type onboardingCmd struct {
	complete bool
	reset    bool
}

func (*onboardingCmd) Name() string     { return "onboarding" }
func (*onboardingCmd) Synopsis() string { return "show or change the onboarding flag" }
func (*onboardingCmd) Usage() string {
	return `onboarding [-complete | -reset]

  Without flags, prints whether first-time setup was completed.
  -complete marks it completed; -reset clears it so the next methods setup
  seeds the weekly balance again.
`
}

func (c *onboardingCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.complete, "complete", false, "mark onboarding as completed")
	f.BoolVar(&c.reset, "reset", false, "clear the onboarding flag")
}

func (c *onboardingCmd) Execute(ctx context.Context, _ *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	if c.complete && c.reset {
		fmt.Fprintln(os.Stderr, "Error: -complete and -reset are mutually exclusive.")
		return subcommands.ExitUsageError
	}
	env := envFrom(args)
	cfg, err := env.loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		return subcommands.ExitFailure
	}
	svc, err := env.service(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening ledger at %s: %v\n", cfg.SQLiteDBPath, err)
		return subcommands.ExitFailure
	}

	switch {
	case c.complete:
		if err := svc.CompleteOnboarding(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		fmt.Println("Onboarding marked as completed.")
	case c.reset:
		if err := env.repo.SetOnboardingComplete(ctx, false); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		fmt.Println("Onboarding flag cleared.")
	default:
		done, err := svc.OnboardingComplete(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		fmt.Printf("onboarding complete: %t\n", done)
	}
	return subcommands.ExitSuccess
}
