package main

import (
	"os"
	"strconv"
	"strings"

	"github.com/inoxlang/listrep/internal/arithseq"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

var (
	predictConfigFile = predict.Files("*.yaml")
	completer         = CreateCompleter(func(c *Completer) *complete.Command {
		return &complete.Command{
			Sub: map[string]*complete.Command{
				STRESS_SUBCMD: {
					Flags: map[string]complete.Predictor{
						"seed":        predict.Nothing,
						"ops":         predict.Nothing,
						"max-len":     predict.Nothing,
						"config":      predictConfigFile,
						"json":        predict.Nothing,
						"log-level":   predict.Set(LOG_LEVELS),
						"cpu-profile": predict.Dirs("*"),
					},
				},
				LSEQ_SUBCMD: {
					Flags: map[string]complete.Predictor{
						"float":  predict.Nothing,
						"json":   predict.Nothing,
						"config": predictConfigFile,
					},
					Args: complete.PredictFunc(c.predictLseqOperator),
				},
				VALIDATE_CONFIG_SUBCMD: {
					Flags: map[string]complete.Predictor{
						"config": predictConfigFile,
						"json":   predict.Nothing,
					},
				},
				HELP_SUBCMD:                  {},
				INSTALL_COMPLETIONS_SUBCMD:   {},
				UNINSTALL_COMPLETIONS_SUBCMD: {},
			},
		}
	})
)

type Completer struct {
	*complete.Command
	currentCompLine  string
	currentCompPoint int //-1 if not retrieved
}

func CreateCompleter(create func(c *Completer) *complete.Command) *Completer {
	c := &Completer{}
	c.Command = create(c)
	return c
}

func (c *Completer) Complete(name string) {
	c.currentCompLine = os.Getenv("COMP_LINE")
	c.currentCompPoint, _ = strconv.Atoi(os.Getenv("COMP_POINT")) //ignore error because .Complete will also check the value

	if c.currentCompPoint > len(c.currentCompLine) {
		c.currentCompPoint = len(c.currentCompLine)
	}

	c.Command.Complete(name)
}

func (c *Completer) beforeCursorPoint() string {
	return c.currentCompLine[:c.currentCompPoint]
}

// predictLseqOperator predicts the operators of lseq (.., to, count, by) after a number.
func (c *Completer) predictLseqOperator(prefix string) (results []string) {
	words := strings.Fields(c.beforeCursorPoint())
	if prefix != "" && len(words) > 0 {
		words = words[:len(words)-1]
	}
	if len(words) == 0 {
		return
	}

	if _, err := arithseq.ParseNumber(words[len(words)-1]); err != nil {
		return
	}
	return predict.Set(arithseq.SEQUENCE_OPERATORS).Predict(prefix)
}
