package arithseq

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

const (
	LSEQ_USAGE = "n ??op? n ??by? n??"

	DOTS_OPERATOR  = ".."
	TO_OPERATOR    = "to"
	COUNT_OPERATOR = "count"
	BY_OPERATOR    = "by"
)

var (
	ErrLseqSyntax   = errors.New(`wrong # args: should be "lseq ` + LSEQ_USAGE + `"`)
	ErrBadOperation = errors.New("bad operation")
	ErrMissingValue = errors.New("missing value")
	ErrInvalidCount = errors.New("expected integer count")
)

var SEQUENCE_OPERATORS = []string{DOTS_OPERATOR, TO_OPERATOR, COUNT_OPERATOR, BY_OPERATOR}

// ParseLseqArgs parses the arguments of the lseq command:
//
//	n                   count n starting at 0
//	n n ?n?             start end ?step?
//	n to|.. n ?n?       start end ?step?
//	n count n ?n?       start count ?step?
//	n by n              count step, starting at 0
//	n n by n            start end step
//	n to|count n by n   start end|count step
//
// Operators can be abbreviated to a unique prefix. A count can be given as an integral float, it does not
// make the series a float series.
func ParseLseqArgs(args []string) (Params, error) {
	if len(args) == 0 || len(args) > 5 {
		return Params{}, ErrLseqSyntax
	}

	var (
		pattern   strings.Builder
		numbers   []Number
		operators []string
	)

	numericAllowed, operatorAllowed := true, false

	for i, arg := range args {
		isLast := i == len(args)-1

		if numericAllowed {
			if n, err := ParseNumber(arg); err == nil {
				pattern.WriteByte('n')
				numbers = append(numbers, n)
				numericAllowed, operatorAllowed = true, true
				continue
			}
		}

		if operatorAllowed {
			operator, err := matchOperator(arg)
			if err != nil {
				return Params{}, err
			}
			if isLast {
				return Params{}, fmt.Errorf("%w after %q", ErrMissingValue, arg)
			}
			pattern.WriteByte('o')
			operators = append(operators, operator)
			numericAllowed, operatorAllowed = true, false
			continue
		}

		return Params{}, fmt.Errorf("%w but got %q", ErrInvalidNumber, arg)
	}

	var start, end, step, count *Number
	zero, one := Int(0), Int(1)

	switch pattern.String() {
	case "n":
		start, count, step = &zero, &numbers[0], &one
	case "nn":
		start, end = &numbers[0], &numbers[1]
	case "nnn":
		start, end, step = &numbers[0], &numbers[1], &numbers[2]
	case "non":
		switch operators[0] {
		case DOTS_OPERATOR, TO_OPERATOR:
			start, end = &numbers[0], &numbers[1]
		case BY_OPERATOR:
			start, count, step = &zero, &numbers[0], &numbers[1]
		case COUNT_OPERATOR:
			start, count, step = &numbers[0], &numbers[1], &one
		}
	case "nonn":
		switch operators[0] {
		case DOTS_OPERATOR, TO_OPERATOR:
			start, end, step = &numbers[0], &numbers[1], &numbers[2]
		case COUNT_OPERATOR:
			start, count, step = &numbers[0], &numbers[1], &numbers[2]
		default:
			return Params{}, ErrLseqSyntax
		}
	case "nnon":
		if operators[0] != BY_OPERATOR {
			return Params{}, ErrLseqSyntax
		}
		start, end, step = &numbers[0], &numbers[1], &numbers[2]
	case "nonon":
		if operators[1] != BY_OPERATOR {
			return Params{}, ErrLseqSyntax
		}
		switch operators[0] {
		case DOTS_OPERATOR, TO_OPERATOR:
			start, end, step = &numbers[0], &numbers[1], &numbers[2]
		case COUNT_OPERATOR:
			start, count, step = &numbers[0], &numbers[1], &numbers[2]
		default:
			return Params{}, ErrLseqSyntax
		}
	default:
		return Params{}, ErrLseqSyntax
	}

	params := Params{Start: start, End: end, Step: step}

	for _, n := range []*Number{start, end, step} {
		if n != nil && n.IsFloat() {
			params.UseFloats = true
		}
	}

	if count != nil {
		if !count.IsIntegral() || (count.IsFloat() && (count.f >= math.MaxInt64 || count.f <= math.MinInt64)) {
			return Params{}, fmt.Errorf("%w but got %q", ErrInvalidCount, count.String())
		}
		length := count.Int64()
		params.Length = &length
	}

	return params, nil
}

// matchOperator returns the operator whose name is arg or starts with arg.
func matchOperator(arg string) (string, error) {
	if arg != "" {
		for _, operator := range SEQUENCE_OPERATORS {
			if strings.HasPrefix(operator, arg) {
				return operator, nil
			}
		}
	}
	return "", fmt.Errorf(`%w "%s": must be .., to, count, or by`, ErrBadOperation, arg)
}
