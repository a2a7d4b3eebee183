package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/goccy/go-json"
	"github.com/inoxlang/listrep/internal/config"
)

func ValidateConfig(mainSubCommand string, mainSubCommandArgs []string, outW, errW io.Writer) (exitCode int) {
	flags := flag.NewFlagSet(mainSubCommand, flag.ContinueOnError)
	flags.SetOutput(errW)

	var (
		configPath string
		printJSON  bool
	)

	flags.StringVar(&configPath, "config", "", "path of the YAML file, by default "+config.CONFIG_FILE_RELPATH+" is searched in the XDG config directories")
	flags.BoolVar(&printJSON, "json", false, "print the configuration as JSON")

	if showHelp(flags, mainSubCommandArgs, outW) { //only show help
		return
	}

	if err := flags.Parse(mainSubCommandArgs); err != nil {
		fmt.Fprintln(errW, "ERROR:", err)
		return ERROR_STATUS_CODE
	}

	loaded, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintln(errW, "ERROR:", err)
		return ERROR_STATUS_CODE
	}
	effective := loaded.WithDefaults()

	var data []byte
	if printJSON {
		data, err = json.MarshalIndent(effective, "", "  ")
		data = append(data, '\n')
	} else {
		data, err = config.Marshal(effective)
	}

	if err != nil {
		fmt.Fprintln(errW, "ERROR:", err)
		return ERROR_STATUS_CODE
	}
	outW.Write(data)
	return
}
