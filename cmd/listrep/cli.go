package main

import (
	"flag"
	"fmt"
	"io"
	"slices"
)

const (
	STRESS_SUBCMD                = "stress"
	LSEQ_SUBCMD                  = "lseq"
	VALIDATE_CONFIG_SUBCMD       = "validate-config"
	INSTALL_COMPLETIONS_SUBCMD   = "install-completions"
	UNINSTALL_COMPLETIONS_SUBCMD = "uninstall-completions"
	HELP_SUBCMD                  = "help"
)

var (
	SUBCOMMANDS = []string{
		STRESS_SUBCMD, LSEQ_SUBCMD, VALIDATE_CONFIG_SUBCMD,
		INSTALL_COMPLETIONS_SUBCMD, UNINSTALL_COMPLETIONS_SUBCMD, HELP_SUBCMD,
	}

	HELP_SUBCMD_EQUIVALENTS = []string{"--help", "-help", "-h"}

	LOG_LEVELS = []string{"trace", "debug", "info", "warn", "error", "disabled"}

	CLI_SUBCOMMAND_DESCRIPTIONS = [][2]string{
		{STRESS_SUBCMD, "run random list operations and check the results against a slice model"},
		{LSEQ_SUBCMD, "print an arithmetic sequence: lseq [options] n ??op? n ??by? n??"},
		{VALIDATE_CONFIG_SUBCMD, "load the tunables (file + LISTREP_* environment variables) and print the effective configuration"},

		{INSTALL_COMPLETIONS_SUBCMD, "install CLI completions by addding the completion command to the detected rc file (supported shells are bash, zsh and fish)"},
		{UNINSTALL_COMPLETIONS_SUBCMD, "uninstall CLI completions by removing the completion command from the detected rc file"},
		{HELP_SUBCMD, "show the general help or command-specific help"},
	}

	CLI_SUBCOMMAND_DESCRIPTION_MAP = map[string]string{}

	LISTREP_CMD_HELP = "commands:\n"
)

func init() {
	for _, entry := range CLI_SUBCOMMAND_DESCRIPTIONS {
		cmd, desc := entry[0], entry[1]
		CLI_SUBCOMMAND_DESCRIPTION_MAP[cmd] = desc
		LISTREP_CMD_HELP += "\t" + cmd + " - " + desc + "\n"
	}
	LISTREP_CMD_HELP += "\nType `listrep help <command>` to get command-specific help.\n"
}

func showHelp(flags *flag.FlagSet, args []string, out io.Writer) bool {
	//only show help
	if slices.Contains(args, "-h") || slices.Contains(args, "--help") {

		cmd := flags.Name()
		if desc, ok := CLI_SUBCOMMAND_DESCRIPTION_MAP[cmd]; ok {
			fmt.Fprintln(out, desc)
		}

		flags.SetOutput(out)
		fmt.Fprint(out, "\noptions:\n")
		flags.PrintDefaults()

		return true
	}

	return false
}
