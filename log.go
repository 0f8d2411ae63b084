package statsboard

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/cloudradar-monitoring/statsboard/pkg/stats"
)

type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelError LogLevel = "error"
)

func (lvl LogLevel) IsValid() bool {
	switch lvl {
	case LogLevelDebug, LogLevelInfo, LogLevelError:
		return true
	}
	return false
}

func (lvl LogLevel) LogrusLevel() logrus.Level {
	switch lvl {
	case LogLevelDebug:
		return logrus.DebugLevel
	case LogLevelError:
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}

type logrusFileHook struct {
	file      *os.File
	flag      int
	chmod     os.FileMode
	formatter *logrus.TextFormatter
}

func addLogFileHook(file string, flag int, chmod os.FileMode) error {
	dir := filepath.Dir(file)
	err := os.MkdirAll(dir, 0755)
	if err != nil {
		logrus.WithError(err).Errorf("Failed to create the logs dir: '%s'", dir)
	}

	plainFormatter := &logrus.TextFormatter{FullTimestamp: true, DisableColors: true}
	logFile, err := os.OpenFile(file, flag, chmod)
	if err != nil {
		return fmt.Errorf("Unable to write log file: %s", err.Error())
	}

	hook := &logrusFileHook{logFile, flag, chmod, plainFormatter}

	logrus.AddHook(hook)

	return nil
}

// Fire event
func (hook *logrusFileHook) Fire(entry *logrus.Entry) error {
	plainformat, err := hook.formatter.Format(entry)
	if err != nil {
		return err
	}
	_, err = hook.file.Write(plainformat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "unable to write file on filehook(entry.String)%v", err)
		return err
	}

	return nil
}

func (hook *logrusFileHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

// errorHook counts error entries into the board stats
type errorHook struct {
	lock  *sync.Mutex
	stats *stats.BoardStats
}

func addErrorHook(lock *sync.Mutex, s *stats.BoardStats) {
	logrus.AddHook(newErrorHook(lock, s))
}

func newErrorHook(lock *sync.Mutex, s *stats.BoardStats) *errorHook {
	return &errorHook{lock: lock, stats: s}
}

func (h *errorHook) Fire(entry *logrus.Entry) error {
	h.lock.Lock()
	defer h.lock.Unlock()

	h.stats.InternalErrorsTotal++
	h.stats.InternalLastErrorMessage = entry.Message
	h.stats.InternalLastErrorTimestamp = uint64(entry.Time.Unix())

	return nil
}

func (h *errorHook) Levels() []logrus.Level {
	return []logrus.Level{
		logrus.ErrorLevel,
	}
}

// SetLogLevel sets Log level and corresponding logrus level
func (b *Board) SetLogLevel(lvl LogLevel) {
	b.Config.LogLevel = lvl
	logrus.SetLevel(lvl.LogrusLevel())
}

// StartWritingStats writes the board stats every minute to Config.StatsFile
// This method should only be called once
func (b *Board) StartWritingStats() {
	if b.Config.StatsFile == "" {
		return
	}

	go func() {
		var buff bytes.Buffer
		// Make the output indented
		encoder := json.NewEncoder(&buff)
		encoder.SetIndent("", "    ")

		for {
			time.Sleep(time.Minute * 1)
			buff.Reset()

			err := encoder.Encode(b.Stats())
			if err != nil {
				logrus.Errorf("Could not encode stats file: %s", err)
				continue
			}

			err = ioutil.WriteFile(b.Config.StatsFile, buff.Bytes(), 0644)
			if err != nil {
				logrus.Errorf("Could not write stats file: %s", err)
				return
			}
		}
	}()
}
