// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package models holds plain values shared between the binary and the
// handlers.
package models

import "fmt"

const unknownBuildValue = "N/A"

// AppBuildInfo is the build metadata injected with -ldflags at release time.
// GET /version serves it as JSON and the binary prints it on start.
type AppBuildInfo struct {
	Version string `json:"version"`
	Date    string `json:"date"`
	Commit  string `json:"commit"`
}

// NewAppBuildInfo fills every empty value with "N/A".
func NewAppBuildInfo(version, date, commit string) AppBuildInfo {
	return AppBuildInfo{
		Version: orUnknown(version),
		Date:    orUnknown(date),
		Commit:  orUnknown(commit),
	}
}

// Released reports whether the binary was built with a version stamp.
func (a AppBuildInfo) Released() bool {
	return a.Version != unknownBuildValue && a.Version != ""
}

// String renders "version (commit, date)", or "dev build" without a version.
func (a AppBuildInfo) String() string {
	if !a.Released() {
		return "dev build"
	}
	return fmt.Sprintf("%s (%s, %s)", a.Version, a.Commit, a.Date)
}

func orUnknown(v string) string {
	if v == "" {
		return unknownBuildValue
	}
	return v
}
