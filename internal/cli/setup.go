package cli

import (
	"flag"
	"fmt"
	"os"

	"gelfgate/internal/global"
	"gelfgate/internal/receiver"
)

// Setup options
func SetupMode(cliOpts *global.CommandSet, commandname string, args []string) {
	var newConf bool
	var templateConfPath string

	commandFlags := flag.NewFlagSet(commandname, flag.ExitOnError)
	commandFlags.StringVar(&templateConfPath, "c", "", "Path to template config file")
	commandFlags.StringVar(&templateConfPath, "config", "", "Path to template config file")
	commandFlags.BoolVar(&newConf, "config-template", false, "Create new template config for the receiver daemon (using config-path argument)")

	commandFlags.Usage = func() {
		PrintHelpMenu(commandFlags, commandname, cliOpts)
	}
	if len(args) < 1 {
		PrintHelpMenu(commandFlags, commandname, cliOpts)
		os.Exit(1)
	}
	commandFlags.Parse(args[0:])

	if !newConf {
		PrintHelpMenu(commandFlags, commandname, cliOpts)
		os.Exit(1)
	}

	err := receiver.CreateTemplateConfig(templateConfPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Successfully wrote template configuration file to '%s'\n", templateConfPath)
}
