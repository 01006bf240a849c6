package main

import (
	"fmt"
	"os"
	"os/exec"
)

func main() {
	if _, err := exec.LookPath("golangci-lint"); err != nil {
		fmt.Println("golangci-lint not found. See https://golangci-lint.run/welcome/install/")
		os.Exit(1)
	}

	fmt.Println("Linting fmtbot with golangci-lint...")
	cmd := exec.Command("golangci-lint", "run")
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		fmt.Printf("❌ Linting failed: %v\n", err)
		os.Exit(1)
	}
}
