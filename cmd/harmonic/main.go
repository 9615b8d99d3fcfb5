package main

import (
	"github.com/c9s/harmonic/pkg/cmd"
)

func main() {
	cmd.Execute()
}
