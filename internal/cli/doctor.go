package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	ps "github.com/mitchellh/go-ps"

	"attackmode/internal/backup"
)

type DoctorCmd struct{}

func (cmd *DoctorCmd) Run(ctx *Context) error {
	fmt.Println("Running diagnostics...")
	fmt.Println()

	hasError := false

	// Check 1: DB reachable and schema version current
	if err := checkDatabase(ctx); err != nil {
		fmt.Printf("x Database: FAIL\n")
		fmt.Printf("   Error: %v\n", err)
		hasError = true
	} else {
		fmt.Printf("+ Database: OK\n")
	}

	// Check 2: no second server instance holding the same database
	if err := checkNoOtherInstance(); err != nil {
		fmt.Printf("! Single instance: WARNING\n")
		fmt.Printf("   %v\n", err)
	} else {
		fmt.Printf("+ Single instance: OK\n")
	}

	// Check 3: backups present (warning only)
	if err := checkBackupsPresent(ctx); err != nil {
		fmt.Printf("! Backups present: WARNING\n")
		fmt.Printf("   %v\n", err)
	} else {
		fmt.Printf("+ Backups present: OK\n")
	}

	// Check 4: configured timezone resolves
	if err := checkTimezone(ctx); err != nil {
		fmt.Printf("x Timezone: FAIL\n")
		fmt.Printf("   Error: %v\n", err)
		hasError = true
	} else {
		fmt.Printf("+ Timezone: OK\n")
	}

	fmt.Println()
	if hasError {
		fmt.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}

	fmt.Println("All diagnostics passed!")
	return nil
}

func checkDatabase(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}
	pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return ctx.Store.Ping(pingCtx)
}

// checkNoOtherInstance scans the process table for another attackmode
// process. Two servers sharing one SQLite file trade SQLITE_BUSY errors.
func checkNoOtherInstance() error {
	procs, err := ps.Processes()
	if err != nil {
		return fmt.Errorf("could not list processes: %w", err)
	}

	self := os.Getpid()
	for _, p := range procs {
		if p.Pid() == self {
			continue
		}
		if strings.HasPrefix(p.Executable(), "attackmode") {
			return fmt.Errorf("another attackmode process appears to be running (pid %d)", p.Pid())
		}
	}
	return nil
}

func checkBackupsPresent(ctx *Context) error {
	mgr := backup.NewManager(ctx.Config.DBPath)
	backups, err := mgr.List()
	if err != nil {
		return err
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups found, consider running 'attackmode backup'")
	}
	age := time.Since(backups[0].Timestamp)
	if age > 7*24*time.Hour {
		return fmt.Errorf("newest backup is %d days old", int(age.Hours()/24))
	}
	return nil
}

func checkTimezone(ctx *Context) error {
	if _, err := time.LoadLocation(ctx.Config.Timezone); err != nil {
		return fmt.Errorf("configured timezone %q does not resolve: %w", ctx.Config.Timezone, err)
	}
	return nil
}
