package main

import (
	"context"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/subcommands"

	"financepro/internal/core"
	"financepro/internal/ledger"
	"financepro/internal/log"
	"financepro/internal/services"
	"financepro/internal/storage"
)

// seedLedger stores one snapshot holding a week-start income and returns the
// database path.
func seedLedger(t *testing.T) string {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "ledger.db")
	t.Setenv("SQLITE_DB_PATH", dbPath)
	t.Setenv("AMQP_URL", "")
	t.Setenv("MIRROR_BACKEND", "memory")
	t.Setenv("CURRENCY", "USD")

	ctx := context.Background()
	repo, err := storage.NewSQLiteRepository(dbPath, log.Discard())
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	svc, err := services.NewLedgerService(ctx, repo, nil, services.ServiceOptions{
		Ledger:           ledger.Options{Logger: log.Discard()},
		PersistSnapshots: true,
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	if _, err := svc.ApplyTransaction(ctx, ledger.ApplyTransaction{
		Amount: "1000", Type: core.Income, IsWeekStart: true, Description: "salary",
	}); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if err := svc.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	return dbPath
}

func TestExportWritesStoredLedger(t *testing.T) {
	seedLedger(t)
	out := filepath.Join(t.TempDir(), "report.csv")

	env := &appEnv{logger: log.Discard()}
	defer env.close()
	cmd := &exportCmd{period: "all", out: out, budgets: true, debts: true, transactions: true}
	if status := cmd.Execute(context.Background(), flag.NewFlagSet("export", flag.ContinueOnError), env); status != subcommands.ExitSuccess {
		t.Fatalf("export status = %v; want success", status)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	text := string(data)
	for _, want := range []string{"FINANCE PRO REPORT", "GENERAL SUMMARY", "INCOME", "salary"} {
		if !strings.Contains(text, want) {
			t.Errorf("report missing %q:\n%s", want, text)
		}
	}
}

func TestExportRejectsUnknownPeriod(t *testing.T) {
	env := &appEnv{logger: log.Discard()}
	cmd := &exportCmd{period: "next_year"}
	if status := cmd.Execute(context.Background(), flag.NewFlagSet("export", flag.ContinueOnError), env); status != subcommands.ExitUsageError {
		t.Errorf("export status = %v; want usage error", status)
	}
}

func TestVerifyStoredLedger(t *testing.T) {
	seedLedger(t)

	env := &appEnv{logger: log.Discard()}
	defer env.close()
	if status := (&verifyCmd{}).Execute(context.Background(), flag.NewFlagSet("verify", flag.ContinueOnError), env); status != subcommands.ExitSuccess {
		t.Errorf("verify status = %v; want success", status)
	}
}

func TestOnboardingFlags(t *testing.T) {
	seedLedger(t)
	ctx := context.Background()

	conflicting := &onboardingCmd{complete: true, reset: true}
	if status := conflicting.Execute(ctx, flag.NewFlagSet("onboarding", flag.ContinueOnError), &appEnv{logger: log.Discard()}); status != subcommands.ExitUsageError {
		t.Errorf("conflicting flags status = %v; want usage error", status)
	}

	env := &appEnv{logger: log.Discard()}
	defer env.close()
	if status := (&onboardingCmd{complete: true}).Execute(ctx, flag.NewFlagSet("onboarding", flag.ContinueOnError), env); status != subcommands.ExitSuccess {
		t.Fatalf("complete status = %v; want success", status)
	}
	done, err := env.repo.OnboardingComplete(ctx)
	if err != nil {
		t.Fatalf("read flag: %v", err)
	}
	if !done {
		t.Error("onboarding flag not set after -complete")
	}

	if status := (&onboardingCmd{reset: true}).Execute(ctx, flag.NewFlagSet("onboarding", flag.ContinueOnError), env); status != subcommands.ExitSuccess {
		t.Fatalf("reset status = %v; want success", status)
	}
	if done, _ := env.repo.OnboardingComplete(ctx); done {
		t.Error("onboarding flag still set after -reset")
	}
}
