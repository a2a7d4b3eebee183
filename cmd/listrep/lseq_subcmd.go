package main

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-json"
	"github.com/inoxlang/listrep/internal/arithseq"
	"github.com/inoxlang/listrep/internal/config"
	"github.com/inoxlang/listrep/internal/elem"
	"github.com/inoxlang/listrep/internal/listrep"
	"github.com/inoxlang/listrep/internal/utils"
	"github.com/rs/zerolog"
)

func PrintSequence(mainSubCommand string, mainSubCommandArgs []string, outW, errW io.Writer) (exitCode int) {
	flags := flag.NewFlagSet(mainSubCommand, flag.ContinueOnError)
	flags.SetOutput(errW)

	var (
		useFloats  bool
		configPath string
		printJSON  bool
	)

	flags.BoolVar(&useFloats, "float", false, "make the sequence a float sequence even if all the numbers are integers")
	flags.StringVar(&configPath, "config", "", "path of a YAML file containing the tunables of the allocator")
	flags.BoolVar(&printJSON, "json", false, "print the elements as a JSON array")

	if showHelp(flags, mainSubCommandArgs, outW) { //only show help
		return
	}

	seqArgIndex := sequenceArgIndex(flags, mainSubCommandArgs)

	if err := flags.Parse(mainSubCommandArgs[:seqArgIndex]); err != nil {
		fmt.Fprintln(errW, "ERROR:", err)
		return ERROR_STATUS_CODE
	}

	params, err := arithseq.ParseLseqArgs(mainSubCommandArgs[seqArgIndex:])
	if err != nil {
		fmt.Fprintln(errW, "ERROR:", err)
		return ERROR_STATUS_CODE
	}
	params.UseFloats = params.UseFloats || useFloats

	allocConfig, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintln(errW, "ERROR:", err)
		return ERROR_STATUS_CODE
	}

	alloc, err := listrep.NewAllocator(allocConfig, zerolog.Nop())
	if err != nil {
		fmt.Fprintln(errW, "ERROR:", err)
		return ERROR_STATUS_CODE
	}

	list, err := arithseq.New(alloc, elem.NewFactory(nil), params)
	if err != nil {
		fmt.Fprintln(errW, "ERROR:", err)
		return ERROR_STATUS_CODE
	}
	defer list.Release()

	if !printJSON {
		s, err := list.Render(formatElements)
		if err != nil {
			fmt.Fprintln(errW, "ERROR:", err)
			return ERROR_STATUS_CODE
		}
		fmt.Fprintln(outW, s)
		return
	}

	view, err := list.Elements()
	if err != nil {
		fmt.Fprintln(errW, "ERROR:", err)
		return ERROR_STATUS_CODE
	}

	values := make([]any, view.Len())
	for i, e := range view.Slice() {
		v := e.(*elem.Value)
		if integer, ok := v.Int(); ok {
			values[i] = integer
		} else {
			values[i], _ = v.Float()
		}
	}

	data, err := json.Marshal(values)
	if err != nil {
		fmt.Fprintln(errW, "ERROR:", err)
		return ERROR_STATUS_CODE
	}
	fmt.Fprintf(outW, "%s\n", data)
	return
}

// sequenceArgIndex returns the index of the first sequence argument: the options are before the sequence
// arguments, negative numbers are not options and the value of a non-boolean option is skipped.
func sequenceArgIndex(flags *flag.FlagSet, args []string) int {
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			return i + 1
		}
		if _, err := arithseq.ParseNumber(arg); err == nil || !strings.HasPrefix(arg, "-") {
			return i
		}

		name := strings.TrimLeft(arg, "-")
		if strings.Contains(name, "=") {
			continue
		}
		f := flags.Lookup(name)
		if f == nil {
			continue
		}
		if boolFlag, ok := f.Value.(interface{ IsBoolFlag() bool }); ok && boolFlag.IsBoolFlag() {
			continue
		}
		i++ //value
	}
	return len(args)
}

func formatElements(elems []listrep.Elem) string {
	return strings.Join(utils.MapSlice(elems, func(e listrep.Elem) string { return fmt.Sprint(e) }), " ")
}
