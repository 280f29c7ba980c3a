package main

import (
	"context"
	"fmt"
	"os"

	"github.com/JonasKlamroth/ctcscraper/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "❌ ctcscraper: %v\n", err)
		os.Exit(1)
	}
}
