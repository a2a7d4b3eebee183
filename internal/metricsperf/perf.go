package metricsperf

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"runtime/pprof"
	"time"

	"github.com/inoxlang/listrep/internal/utils"
	"github.com/rs/zerolog"
)

const (
	PROFILE_FILE_PERMS = 0o600
	PROFILE_DIR_PERMS  = 0o700

	PROFILE_DATE_FORMAT = "20060102T150405Z"
)

var (
	ErrMissingProfileDir = errors.New("the directory of the profiles is not set")
)

type ProfilingConfig struct {
	// Dir is created if it does not exist.
	Dir string

	Logger zerolog.Logger
}

// StartProfiling starts recording a CPU profile. The returned function stops the recording and writes
// the CPU profile, a memory profile and a goroutine stack trace profile to conf.Dir, it should only be called once.
func StartProfiling(conf ProfilingConfig) (stop func() ([]string, error), _ error) {
	if conf.Dir == "" {
		return nil, ErrMissingProfileDir
	}

	if err := os.MkdirAll(conf.Dir, PROFILE_DIR_PERMS); err != nil {
		return nil, err
	}

	cpuProfile := bytes.NewBuffer(nil)
	if err := pprof.StartCPUProfile(cpuProfile); err != nil {
		return nil, err
	}
	start := time.Now()

	stop = func() ([]string, error) {
		pprof.StopCPUProfile()

		date := time.Now().UTC().Format(PROFILE_DATE_FORMAT)
		period := time.Since(start).Truncate(time.Millisecond)

		var (
			paths []string
			errs  []error
		)

		save := func(key string, buff *bytes.Buffer) {
			path := filepath.Join(conf.Dir, key+".pprof")
			if err := os.WriteFile(path, buff.Bytes(), PROFILE_FILE_PERMS); err != nil {
				conf.Logger.Err(err).Str("profile", key).Msg("failed to save profile")
				errs = append(errs, err)
				return
			}
			paths = append(paths, path)
		}

		save("cpu-"+period.String()+"-"+date, cpuProfile)

		//memory profile

		runtime.GC()
		memProfile := bytes.NewBuffer(nil)
		if err := pprof.WriteHeapProfile(memProfile); err != nil {
			errs = append(errs, err)
		} else {
			save("mem-"+date, memProfile)
		}

		//goroutine stack trace profile

		goroutineProfile := bytes.NewBuffer(nil)
		if err := pprof.Lookup("goroutine").WriteTo(goroutineProfile, 2); err != nil {
			errs = append(errs, err)
		} else {
			save("goroutine-trace-"+date, goroutineProfile)
		}

		conf.Logger.Debug().Strs("paths", paths).Dur("period", period).Msg("profiles saved")

		if err := utils.CombineErrors(errs...); err != nil {
			return paths, fmt.Errorf("failed to save some profiles: %w", err)
		}
		return paths, nil
	}

	return stop, nil
}
