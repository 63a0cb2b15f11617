package main

import (
	"flag"
	"fmt"
	"os"

	"decayd/internal/di"
	"decayd/internal/structures"
)

func main() {
	flags := &structures.CliFlags{}
	flag.StringVar(&flags.ConfigPath, "config", "config.yaml", "path to the configuration file")
	flag.BoolVar(&flags.DebugMode, "debug", false, "log to stdout as well as the log files")
	flag.Parse()

	if _, err := di.InitApp(flags); err != nil {
		fmt.Fprintf(os.Stderr, "decayd: %s\n", err)
		os.Exit(1)
	}
}
