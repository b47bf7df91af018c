package main

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/go-playground/validator/v10"
	"golang.org/x/term"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/session"
	logsvc "github.com/trezcool/darasa/services/logger"
)

const prompt = "darasa> "

func main() {
	conf := core.NewConfig()

	zl, err := logsvc.NewZapLogger(conf.Debug, "CONSOLE")
	if err != nil {
		log.Fatal(err)
	}
	logger := logsvc.NewRollbarLogger(zl, conf)
	logger.Enable(!conf.Debug)
	defer logger.Sync() //nolint:errcheck

	translator := core.NewTranslator()
	validate := validator.New()
	core.InitValidators(validate, translator)

	c := newConsole(session.NewStore(session.Deps{}), validate, translator, os.Stdout)

	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		if err := readLoop(c, scanLines(os.Stdin, os.Stdout)); err != nil {
			logger.Fatal(fmt.Sprintf("console stopped: %v", err), err)
		}
		return
	}

	oldState, err := term.MakeRaw(fd)
	if err != nil {
		logger.Fatal(fmt.Sprintf("could not switch terminal to raw mode: %v", err), err)
	}
	defer term.Restore(fd, oldState) //nolint:errcheck

	t := term.NewTerminal(struct {
		io.Reader
		io.Writer
	}{os.Stdin, os.Stdout}, prompt)
	c.out = t
	if err := readLoop(c, t.ReadLine); err != nil {
		_ = term.Restore(fd, oldState)
		logger.Fatal(fmt.Sprintf("console stopped: %v", err), err)
	}
}

// readLoop feeds every line from `next` to the console until EOF or "exit".
func readLoop(c *console, next func() (string, error)) error {
	c.printf("Darasa console. Type \"help\" for the list of commands.\n")
	for {
		line, err := next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if err = c.exec(line); err == errExit {
			return nil
		}
	}
}

// scanLines reads lines from a non-interactive input, printing the prompt before each one.
func scanLines(r io.Reader, out io.Writer) func() (string, error) {
	scanner := bufio.NewScanner(r)
	return func() (string, error) {
		fmt.Fprint(out, prompt)
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return "", err
			}
			return "", io.EOF
		}
		return scanner.Text(), nil
	}
}
