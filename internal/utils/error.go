package utils

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
)

func ConvertPanicValueToError(v any) error {
	if err, ok := v.(error); ok {
		return err
	}

	return fmt.Errorf("%#v", v)
}

// Catch calls fn and returns the value it panicked with as an error, nil if fn did not panic.
func Catch(fn func()) (err error) {
	defer func() {
		if v := recover(); v != nil {
			err = ConvertPanicValueToError(v)
		}
	}()
	fn()
	return nil
}

// CombineErrors combines errors into a single error with a multiline message, nil errors are ignored.
// nil is returned if all errors are nil.
func CombineErrors(errs ...error) error {
	finalErrBuff := bytes.NewBuffer(nil)

	for _, err := range errs {
		if err != nil {
			finalErrBuff.WriteString(err.Error())
			finalErrBuff.WriteRune('\n')
		}
	}

	if finalErrBuff.Len() == 0 {
		return nil
	}

	return errors.New(strings.TrimRight(finalErrBuff.String(), "\n"))
}
