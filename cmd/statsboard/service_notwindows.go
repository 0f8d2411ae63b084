//go:build !windows
// +build !windows

package main

import (
	"fmt"
	"os"
	"os/user"
	"strconv"

	"github.com/sirupsen/logrus"
)

func updateServiceConfig(userName, logFile string) {
	u, err := user.Lookup(userName)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"user": userName,
		}).WithError(err).Fatalln("Failed to find the user")
	}
	svcConfig.UserName = userName
	// we need to chown log file with user who will run service
	// because installer can be run under root so the log file will be also created under root
	err = chownFile(logFile, u)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"user": userName,
		}).WithError(err).Warnln("Failed to chown log file")
	}
}

func chownFile(filePath string, u *user.User) error {
	uid, err := strconv.Atoi(u.Uid)
	if err != nil {
		return fmt.Errorf("chown files: error converting UID(%s) to int", u.Uid)
	}

	gid, err := strconv.Atoi(u.Gid)
	if err != nil {
		return fmt.Errorf("chown files: error converting GID(%s) to int", u.Gid)
	}

	return os.Chown(filePath, uid, gid)
}
