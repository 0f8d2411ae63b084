//go:build windows || nacl || plan9
// +build windows nacl plan9

package statsboard

import "github.com/pkg/errors"

func addSyslogHook(syslogURL string) error {
	return errors.New("Syslog not available for windows")
}
