// Command moltsh is a thin interactive shell and script runner for
// moltcl, demonstrating the host API: it wires the default Logger, the
// stdlib command set, and a .moltclrc.toml bootstrap file.
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"golang.org/x/term"

	"moltcl"
	"moltcl/stdlib"
)

func main() {
	loglevel := flag.String("loglevel", "warn", "log level: debug, info, warn, error")
	flag.Parse()

	logger := newSlogLogger(*loglevel)
	cfg := loadConfig(logger)

	opts := []moltcl.Option[any]{
		moltcl.WithLogger[any](logger),
		moltcl.WithEnvArray[any](cfg.EnvMirror),
	}
	if cfg.RecursionLimit > 0 {
		opts = append(opts, moltcl.WithRecursionLimit[any](cfg.RecursionLimit))
	}
	i := moltcl.New[any](nil, opts...)
	stdlib.Register(i)

	if cfg.Startup != "" {
		if err := runFile(i, cfg.Startup); err != nil {
			fmt.Fprintf(os.Stderr, "moltsh: startup script: %v\n", err)
			os.Exit(1)
		}
	}

	if flag.NArg() > 0 {
		if err := runFile(i, flag.Arg(0)); err != nil {
			fmt.Fprintf(os.Stderr, "moltsh: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if term.IsTerminal(int(os.Stdin.Fd())) {
		runREPL(i)
		return
	}

	runScript(i, os.Stdin)
}

func runFile(i *moltcl.Interp[any], path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	src, err := io.ReadAll(f)
	if err != nil {
		return err
	}
	_, err = i.Eval(string(src))
	return err
}

func runScript(i *moltcl.Interp[any], r io.Reader) {
	src, err := io.ReadAll(r)
	if err != nil {
		fmt.Fprintf(os.Stderr, "moltsh: reading script: %v\n", err)
		os.Exit(1)
	}
	result, err := i.Eval(string(src))
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
	if s := result.String(); s != "" {
		fmt.Println(s)
	}
}

const historyFileName = ".moltsh_history"

func runREPL(i *moltcl.Interp[any]) {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)
	line.SetCompleter(func(input string) []string {
		return completionsFor(i, input)
	})

	histPath := filepath.Join(os.TempDir(), historyFileName)
	if f, err := os.Open(histPath); err == nil {
		line.ReadHistory(f)
		f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			line.WriteHistory(f)
			f.Close()
		}
	}()

	var buf string
	for {
		prompt := "% "
		if buf != "" {
			prompt = "> "
		}
		input, err := line.Prompt(prompt)
		if err != nil {
			if err == liner.ErrPromptAborted {
				buf = ""
				continue
			}
			if err == io.EOF {
				fmt.Println()
				return
			}
			fmt.Fprintf(os.Stderr, "moltsh: %v\n", err)
			return
		}

		if buf != "" {
			buf += "\n" + input
		} else {
			buf = input
		}

		if _, perr := moltcl.NewParser(buf).Parse(); perr != nil && needsMoreInput(perr) {
			continue
		}

		if buf != "" {
			line.AppendHistory(buf)
		}
		result, evalErr := i.Eval(buf)
		if evalErr != nil {
			fmt.Fprintln(os.Stderr, evalErr.Error())
		} else if s := result.String(); s != "" {
			fmt.Println(s)
		}
		buf = ""
	}
}

// needsMoreInput reports whether a parse error stems from an open
// brace/bracket/quote rather than a genuine syntax error, so the REPL
// keeps buffering lines instead of reporting the error immediately.
func needsMoreInput(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "unmatched") || strings.Contains(msg, "missing close")
}

func completionsFor(i *moltcl.Interp[any], input string) []string {
	names := i.CommandNames("*")
	var out []string
	for _, n := range names {
		if len(n) >= len(input) && n[:len(input)] == input {
			out = append(out, n)
		}
	}
	return out
}

// slogLogger adapts a *slog.Logger to moltcl.Logger.
type slogLogger struct{ l *slog.Logger }

func newSlogLogger(level string) *slogLogger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "info":
		lvl = slog.LevelInfo
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelWarn
	}
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})
	return &slogLogger{l: slog.New(h)}
}

func (s *slogLogger) Debugf(format string, args ...any) { s.l.Debug(fmt.Sprintf(format, args...)) }
func (s *slogLogger) Infof(format string, args ...any)  { s.l.Info(fmt.Sprintf(format, args...)) }
func (s *slogLogger) Warnf(format string, args ...any)  { s.l.Warn(fmt.Sprintf(format, args...)) }
func (s *slogLogger) Errorf(format string, args ...any) { s.l.Error(fmt.Sprintf(format, args...)) }
