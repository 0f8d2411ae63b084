//go:build windows
// +build windows

package main

// services run as LocalSystem on windows, there is no user to switch to
func updateServiceConfig(userName, logFile string) {}
