package main

import (
	"fmt"
	"log/slog"

	"github.com/kardianos/service"
	"github.com/spf13/cobra"

	"github.com/concierge-chat/concierge/pkg/app"
)

// program adapts the app runner to the service manager's lifecycle.
type program struct {
	configPath string
	errCh      chan error
}

func (p *program) Start(_ service.Service) error {
	go func() {
		p.errCh <- app.Run(app.RunParams{
			ConfigPath: p.configPath,
			Version:    version,
			Commit:     commit,
			Date:       date,
			LogLevel:   slog.LevelInfo,
		})
	}()
	return nil
}

func (p *program) Stop(_ service.Service) error {
	return nil
}

func serviceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "service [install|uninstall|start|stop|run]",
		Short: "Run under the system service manager",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgPath, _ := cmd.Flags().GetString("config")

			svcConfig := &service.Config{
				Name:        "concierge",
				DisplayName: "Concierge",
				Description: "Embeddable support-chat assistant gateway",
				Arguments:   []string{"service", "run"},
			}
			if cfgPath != "" {
				svcConfig.Arguments = append(svcConfig.Arguments, "--config", cfgPath)
			}

			prg := &program{configPath: cfgPath, errCh: make(chan error, 1)}
			svc, err := service.New(prg, svcConfig)
			if err != nil {
				return err
			}

			switch args[0] {
			case "install":
				if err := svc.Install(); err != nil {
					return err
				}
				fmt.Println("Service installed.")
			case "uninstall":
				if err := svc.Uninstall(); err != nil {
					return err
				}
				fmt.Println("Service uninstalled.")
			case "start":
				if err := svc.Start(); err != nil {
					return err
				}
				fmt.Println("Service started.")
			case "stop":
				if err := svc.Stop(); err != nil {
					return err
				}
				fmt.Println("Service stopped.")
			case "run":
				return svc.Run()
			default:
				return fmt.Errorf("unknown service action %q", args[0])
			}
			return nil
		},
	}
	cmd.Flags().StringP("config", "c", "", "Path to configuration file")
	return cmd
}
