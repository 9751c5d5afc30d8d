package main

import (
	"flag"
	"fmt"
	"os"

	"cptrack/internal/di"
	"cptrack/internal/structures"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the yaml config file")
	debug := flag.Bool("debug", false, "enable debug mode (console logging)")
	flag.Parse()

	_, err := di.InitApp(&structures.CliFlags{
		ConfigPath: *configPath,
		DebugMode:  *debug,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "cptrack: %s\n", err)
		os.Exit(1)
	}
}
