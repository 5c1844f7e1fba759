package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"

	"go_renamer/caption"
	"go_renamer/core"
	"go_renamer/logging"
)

// runCheck validates configuration and remote connectivity for the -check
// flag. Output is colored PASS/FAIL lines, one per check, aimed at a human
// setting the service up for the first time.
func runCheck() int {
	header := color.New(color.FgCyan, color.Bold)
	pass := color.New(color.FgGreen)
	fail := color.New(color.FgRed)

	header.Println("Checking download renamer configuration")
	failures := 0

	cfg, err := core.LoadConfig()
	if err != nil {
		fail.Printf("  FAIL  configuration: %v\n", err)
		return core.ExitCodeError
	}
	pass.Println("  PASS  configuration loads")

	if cfg.Settings.Token == "" {
		fail.Println("  FAIL  API token: RENAMER_API_TOKEN is not set")
		failures++
	} else {
		pass.Println("  PASS  API token present")
	}

	if cfg.Settings.Token != "" {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Settings.RequestTimeout)
		defer cancel()

		start := time.Now()
		result := caption.NewClient(logging.NewNop()).TestConnection(ctx, cfg.Settings)
		if result.Success {
			pass.Printf("  PASS  model endpoint: %s (%v)\n", result.Message, time.Since(start).Round(time.Millisecond))
		} else {
			fail.Printf("  FAIL  model endpoint: %s\n", result.Message)
			failures++
		}
	}

	if f, err := os.OpenFile(cfg.DatabasePath, os.O_RDWR|os.O_CREATE, 0644); err != nil {
		fail.Printf("  FAIL  database path %s: %v\n", cfg.DatabasePath, err)
		failures++
	} else {
		f.Close()
		pass.Printf("  PASS  database path %s writable\n", cfg.DatabasePath)
	}

	if failures > 0 {
		fail.Printf("\n%d check(s) failed\n", failures)
		return core.ExitCodeError
	}
	fmt.Println()
	pass.Println("All checks passed")
	return core.ExitCodeSuccess
}
