//go:build !windows && !nacl && !plan9
// +build !windows,!nacl,!plan9

package statsboard

import (
	"log/syslog"
	"net/url"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	lSyslog "github.com/sirupsen/logrus/hooks/syslog"
)

// addSyslogHook accepts "local" or a URL like udp://host:514
func addSyslogHook(syslogURL string) error {
	var network, raddr string
	if syslogURL != "local" {
		u, err := url.Parse(syslogURL)
		if err != nil {
			return errors.Wrap(err, "failed to parse syslog URL")
		}
		if u.Scheme != "udp" && u.Scheme != "tcp" {
			return errors.Errorf("unsupported syslog scheme '%s'", u.Scheme)
		}
		network, raddr = u.Scheme, u.Host
	}

	hook, err := lSyslog.NewSyslogHook(network, raddr, syslog.LOG_INFO, "statsboard")
	if err != nil {
		return err
	}

	logrus.AddHook(hook)
	return nil
}
