//go:build mage

// Package main provides build targets for the agenda project using Mage.
//
// Usage:
//
//	mage build    Compile agenda binary to bin/
//	mage test     Run all tests
//	mage cover    Run tests with a coverage profile in tmp/
//	mage lint     Run go vet
//	mage clean    Remove build artifacts
//	mage install  Install agenda to GOPATH/bin
//	mage db       Create config.toml (if missing) and migrate the database
package main

import (
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binaryName = "agenda"
	binaryDir  = "bin"
	cmdDir     = "./cmd"
	tmpDir     = "tmp"
)

// Build compiles the agenda binary to bin/.
func Build() error {
	if err := os.MkdirAll(binaryDir, 0o755); err != nil {
		return err
	}
	return sh.RunV("go", "build", "-v", "-o", filepath.Join(binaryDir, binaryName), cmdDir)
}

// Test runs all tests.
func Test() error {
	return sh.RunV("go", "test", "./...")
}

// Cover runs all tests and writes a coverage profile to tmp/cover.out.
func Cover() error {
	if err := os.MkdirAll(tmpDir, 0o755); err != nil {
		return err
	}
	profile := filepath.Join(tmpDir, "cover.out")
	if err := sh.RunV("go", "test", "-coverprofile", profile, "./..."); err != nil {
		return err
	}
	return sh.RunV("go", "tool", "cover", "-func", profile)
}

// Lint runs go vet on every package.
func Lint() error {
	return sh.RunV("go", "vet", "./...")
}

// Clean removes build artifacts.
func Clean() error {
	for _, dir := range []string{binaryDir, tmpDir} {
		if err := sh.Rm(dir); err != nil {
			return err
		}
	}
	return nil
}

// Install installs agenda to GOPATH/bin.
func Install() error {
	return sh.RunV("go", "install", cmdDir)
}

// Db builds the binary and runs "agenda setup database".
func Db() error {
	mg.Deps(Build)
	return sh.RunV(filepath.Join(binaryDir, binaryName), "setup", "database")
}
