package main

import (
	"fmt"
	"os"

	"github.com/unicornmarketers/pageforge/internal/bootstrap"
)

func main() {
	if err := bootstrap.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "pageforge: %v\n", err)
		os.Exit(1)
	}
}
