//go:build windows

// Windows service support via github.com/kardianos/service, so the renamer
// can start with the machine instead of requiring a console session.
package main

import (
	"context"
	"fmt"
	"time"

	"github.com/kardianos/service"
)

// Program implements service.Interface, wrapping runApp in the Windows
// service Start/Stop lifecycle.
type Program struct {
	ctx    context.Context
	cancel context.CancelFunc
	exit   chan struct{}
}

// Start begins the application in a goroutine and returns immediately, as
// the service manager requires.
func (p *Program) Start(s service.Service) error {
	p.ctx, p.cancel = context.WithCancel(context.Background())
	p.exit = make(chan struct{})
	go p.run()
	return nil
}

// Stop signals shutdown and waits for the application to drain.
func (p *Program) Stop(s service.Service) error {
	p.cancel()
	select {
	case <-p.exit:
	case <-time.After(30 * time.Second):
		return fmt.Errorf("timeout waiting for service to stop")
	}
	return nil
}

func (p *Program) run() {
	defer close(p.exit)
	runApp(p.ctx)
}

// ServiceConfig returns the Windows service registration.
func ServiceConfig() *service.Config {
	return &service.Config{
		Name:        "GoRenamer",
		DisplayName: "Download Renamer Service",
		Description: "Renames image and PDF downloads using an AI model, on behalf of the browser extension",
		Option: service.KeyValue{
			"StartType": "automatic",
		},
	}
}

// RunAsService runs the application under the service manager.
// Returns true if running as a service, false if running interactively.
func RunAsService() (bool, error) {
	prg := &Program{}
	s, err := service.New(prg, ServiceConfig())
	if err != nil {
		return false, fmt.Errorf("failed to create service: %w", err)
	}

	if service.Interactive() {
		return false, nil
	}

	if err := s.Run(); err != nil {
		return true, fmt.Errorf("service run failed: %w", err)
	}
	return true, nil
}

// HandleServiceCommand executes install/uninstall/start/stop commands.
// Returns true when a command was handled and the process should exit.
func HandleServiceCommand(args []string) bool {
	if len(args) == 0 {
		return false
	}
	switch args[0] {
	case "install", "uninstall", "start", "stop":
	default:
		return false
	}

	prg := &Program{}
	s, err := service.New(prg, ServiceConfig())
	if err != nil {
		fmt.Printf("Failed to create service: %v\n", err)
		return true
	}

	if err := service.Control(s, args[0]); err != nil {
		fmt.Printf("Service %s failed: %v\n", args[0], err)
		return true
	}
	fmt.Printf("Service %s succeeded\n", args[0])
	return true
}
