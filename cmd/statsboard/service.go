package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/kardianos/service"
	"github.com/sirupsen/logrus"

	"github.com/cloudradar-monitoring/statsboard"
)

var svcConfig = &service.Config{
	Name:        "statsboard",
	DisplayName: "Statsboard",
	Description: "Live traffic dashboard for the static web server",
}

type serviceWrapper struct {
	Board  *statsboard.Board
	cancel context.CancelFunc
	done   chan struct{}
}

func (sw *serviceWrapper) Start(s service.Service) error {
	ctx, cancel := context.WithCancel(context.Background())
	sw.cancel = cancel
	sw.done = make(chan struct{})

	go func() {
		defer close(sw.done)
		if err := sw.Board.Run(ctx); err != nil {
			logrus.WithError(err).Errorln("board stopped")
		}
	}()

	return nil
}

func (sw *serviceWrapper) Stop(s service.Service) error {
	sw.cancel()
	logrus.Println("Stopping the board and the service...")
	<-sw.done
	return nil
}

func askForConfirmation(s string) bool {
	reader := bufio.NewReader(os.Stdin)

	for {
		fmt.Printf("%s [y/n]: ", s)

		response, err := reader.ReadString('\n')
		if err != nil {
			logrus.Fatal(err)
		}

		response = strings.ToLower(strings.TrimSpace(response))

		if response == "y" || response == "yes" {
			return true
		} else if response == "n" || response == "no" {
			return false
		}
	}
}

func tryStartService(s service.Service) {
	logrus.Info("Starting service...")
	err := s.Start()
	if err != nil {
		logrus.WithError(err).Warningf("Statsboard service(%s) startup failed", s.Platform())
	}
}

func tryInstallService(s service.Service, assumeYes bool) {
	const maxAttempts = 3
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err := s.Install()
		switch {
		case err != nil && strings.Contains(err.Error(), "already exists"):
			if attempt == maxAttempts {
				logrus.Fatalf("Giving up after %d attempts", maxAttempts)
			}

			var osSpecificNote string
			if runtime.GOOS == "windows" {
				osSpecificNote = " Windows Services Manager application must be closed before proceeding!"
			}

			fmt.Printf("Statsboard service(%s) already installed: %s\n", s.Platform(), err.Error())
			if assumeYes || askForConfirmation("Do you want to overwrite it?"+osSpecificNote) {
				logrus.Info("Trying to override old service unit...")
				err = s.Stop()
				if err != nil {
					logrus.WithError(err).Warnln("Failed to stop the service")
				}

				// lets try to uninstall despite of this error
				err := s.Uninstall()
				if err != nil {
					logrus.WithError(err).Fatalln("Failed to uninstall the service")
				}
			} else {
				return
			}
		case err != nil:
			logrus.WithError(err).Fatalf("Statsboard service(%s) installation failed", s.Platform())
		default:
			logrus.Infof("Statsboard service(%s) has been installed.", s.Platform())
			return
		}
	}
}

func tryUninstallService(s service.Service) {
	if err := s.Stop(); err != nil {
		logrus.WithError(err).Warnln("Failed to stop the service")
	}
	if err := s.Uninstall(); err != nil {
		logrus.WithError(err).Errorln("Failed to uninstall the service")
		return
	}
	logrus.Infof("Statsboard service(%s) has been uninstalled.", s.Platform())
}
