//go:build mage

package main

import (
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binary     = "bin/wagediff"
	versionPkg = "github.com/ginjaninja78/wagediff/cmd"
)

// Build tidies deps, then compiles to ./bin/wagediff with version ldflags.
func Build() error {
	mg.Deps(Tidy)
	fmt.Println(">> Building wagediff...")

	version := os.Getenv("WAGEDIFF_VERSION")
	if version == "" {
		version = "dev"
	}
	ldflags := fmt.Sprintf("-X '%s.Version=%s' -X '%s.BuildDate=%s'",
		versionPkg, version, versionPkg, time.Now().Format("2006-01-02"))

	return sh.Run("go", "build", "-ldflags", ldflags, "-o", binary, ".")
}

// Install builds and installs the binary to $GOPATH/bin.
func Install() error {
	mg.Deps(Build)
	return sh.Run("go", "install", ".")
}

// Tidy runs go mod tidy.
func Tidy() error {
	fmt.Println(">> go mod tidy...")
	return sh.Run("go", "mod", "tidy")
}

// Vet runs go vet on every package.
func Vet() error {
	fmt.Println(">> go vet...")
	return sh.Run("go", "vet", "./...")
}

// Test runs all unit tests.
func Test() error {
	mg.Deps(Vet)
	fmt.Println(">> Running tests...")
	return sh.RunV("go", "test", "./...")
}

// Lint runs golangci-lint if available.
func Lint() error {
	if _, err := exec.LookPath("golangci-lint"); err != nil {
		fmt.Println(">> golangci-lint not found; skipping.")
		return nil
	}
	return sh.Run("golangci-lint", "run", "./...")
}

// Clean removes build artifacts and generated outputs.
func Clean() error {
	fmt.Println(">> Cleaning...")
	if err := os.RemoveAll("bin"); err != nil {
		return err
	}
	return os.RemoveAll("output")
}
