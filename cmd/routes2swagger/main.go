package main

import (
	"fmt"
	"os"

	"github.com/mark3labs/routes2swagger/internal/cli"
	_ "github.com/mark3labs/routes2swagger/internal/demo"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
