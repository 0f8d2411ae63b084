package main

import (
	"context"
	"flag"
	"fmt"
	"io/ioutil"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strconv"
	"syscall"

	"github.com/kardianos/service"
	log "github.com/sirupsen/logrus"

	"github.com/cloudradar-monitoring/statsboard"
)

const defaultLogLevel = statsboard.LogLevelError

var (
	// set on build:
	// go build -o statsboard -ldflags="-X main.version=$(git describe --always --long --dirty --tag)" github.com/cloudradar-monitoring/statsboard/cmd/statsboard
	version string
)

func main() {
	cfgPathPtr := flag.String("c", statsboard.DefaultCfgPath, "config file path")
	logLevelPtr := flag.String("v", "", "log level – overrides the level in config file (values \"error\",\"info\",\"debug\")")
	oneRunOnlyModePtr := flag.Bool("r", false, "one run only – refresh the dashboard once, print the slots as JSON and exit")
	printConfigPtr := flag.Bool("p", false, "print the active config")
	serviceInstallUserPtr := flag.String("s", "", fmt.Sprintf("username to install and start the system service(%s)", service.ChosenSystem().String()))
	serviceUninstallPtr := flag.Bool("u", false, fmt.Sprintf("stop and uninstall the system service(%s)", service.ChosenSystem().String()))
	assumeYesPtr := flag.Bool("y", false, "automatic yes to prompts")
	versionPtr := flag.Bool("version", false, "show the statsboard version")

	flag.Parse()

	if *versionPtr {
		fmt.Printf("statsboard v%s released under MIT license.\n", version)
		return
	}

	tfmt := log.TextFormatter{FullTimestamp: true}
	if runtime.GOOS == "windows" {
		tfmt.DisableColors = true
	}
	log.SetFormatter(&tfmt)

	cfg, err := statsboard.HandleAllConfigSetup(*cfgPathPtr)
	if err != nil {
		log.Fatalf("Config load error: %s", err.Error())
	}

	if *printConfigPtr {
		fmt.Println(cfg.DumpConfigToml())
		return
	}

	board := statsboard.New(cfg, version)

	switch {
	case *logLevelPtr == "":
		board.SetLogLevel(cfg.LogLevel)
	case statsboard.LogLevel(*logLevelPtr).IsValid():
		board.SetLogLevel(statsboard.LogLevel(*logLevelPtr))
	default:
		log.Warnf("LogLevel was set to an invalid value: \"%s\". Set to default: \"%s\"", *logLevelPtr, defaultLogLevel)
		board.SetLogLevel(defaultLogLevel)
	}

	if *serviceInstallUserPtr != "" || *serviceUninstallPtr || !service.Interactive() {
		handleService(board, *cfgPathPtr, *serviceInstallUserPtr, *serviceUninstallPtr, *assumeYesPtr)
		return
	}

	if *oneRunOnlyModePtr {
		// stdout belongs to the JSON output
		log.SetOutput(ioutil.Discard)
		if err := board.RenderOnce(context.Background(), os.Stdout); err != nil {
			log.SetOutput(os.Stderr)
			log.Fatal(err)
		}
		return
	}

	if cfg.PidFile != "" && runtime.GOOS != "windows" {
		err := ioutil.WriteFile(cfg.PidFile, []byte(strconv.Itoa(os.Getpid())), 0664)
		if err != nil {
			log.Errorf("Failed to write pid file at: %s", cfg.PidFile)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigc
		log.Infof("Got %s signal. Stopping...", sig.String())
		cancel()
	}()

	board.StartWritingStats()
	if err := board.Run(ctx); err != nil {
		log.Fatal(err)
	}
}

func handleService(board *statsboard.Board, cfgPath, installUser string, uninstall, assumeYes bool) {
	prg := &serviceWrapper{Board: board}

	if cfgPath != statsboard.DefaultCfgPath {
		path := cfgPath
		if !filepath.IsAbs(path) {
			var err error
			path, err = filepath.Abs(path)
			if err != nil {
				log.Fatalf("Failed to get absolute path to config at '%s': %s", path, err)
			}
		}
		svcConfig.Arguments = []string{"-c", path}
	}

	if service.Interactive() && installUser != "" {
		updateServiceConfig(installUser, board.Config.LogFile)
	}

	s, err := service.New(prg, svcConfig)
	if err != nil {
		log.Fatal(err)
	}

	if !service.Interactive() {
		board.StartWritingStats()
		if err := s.Run(); err != nil {
			log.Error(err.Error())
		}
		return
	}

	if uninstall {
		tryUninstallService(s)
		return
	}

	tryInstallService(s, assumeYes)
	tryStartService(s)
	fmt.Printf("Logs file located at: %s\n", board.Config.LogFile)
}
