package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/peterh/liner"

	"github.com/tsmarsh/consair"
)

const (
	prompt     = "consair> "
	contPrompt = "......> "
)

func main() {
	in := consair.New()
	if s := os.Getenv("CONSAIR_DEPTH"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			fmt.Fprintf(os.Stderr, "invalid CONSAIR_DEPTH: %q\n", s)
			os.Exit(1)
		}
		in.MaxDepth = n
	}
	registerIO(in)

	files := os.Args[1:]
	for _, f := range files {
		if err := loadFile(in, f); err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", f, err)
			os.Exit(1)
		}
	}
	if len(files) > 0 {
		return
	}

	repl(in)
}

// registerIO installs the printing natives. The core library performs
// no I/O, so these live with the front end.
func registerIO(in *consair.Interp) {
	in.Register("print", func(args []consair.Value) (consair.Value, error) {
		printArgs(args)
		return consair.Nil(), nil
	})
	in.Register("println", func(args []consair.Value) (consair.Value, error) {
		printArgs(args)
		fmt.Println()
		return consair.Nil(), nil
	})
}

func printArgs(args []consair.Value) {
	for i, a := range args {
		if i > 0 {
			fmt.Print(" ")
		}
		// strings display raw, everything else in read syntax
		if a.Kind == consair.KindString {
			fmt.Print(a.Str)
		} else {
			fmt.Print(a.String())
		}
	}
}

func loadFile(in *consair.Interp, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	_, err = in.EvalString(string(data))
	return err
}

func historyPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".consair_history")
}

func repl(in *consair.Interp) {
	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	histPath := historyPath()
	if histPath != "" {
		if f, err := os.Open(histPath); err == nil {
			ln.ReadHistory(f)
			f.Close()
		}
	}
	defer func() {
		if histPath == "" {
			return
		}
		if f, err := os.Create(histPath); err == nil {
			ln.WriteHistory(f)
			f.Close()
		}
	}()

	fmt.Println("consair — :help for commands, :quit to exit")
	for {
		src, err := readForm(ln)
		if errors.Is(err, liner.ErrPromptAborted) {
			continue
		}
		if errors.Is(err, io.EOF) {
			fmt.Println()
			return
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "read: %v\n", err)
			return
		}

		trimmed := strings.TrimSpace(src)
		if trimmed == "" {
			continue
		}
		ln.AppendHistory(src)

		switch trimmed {
		case ":quit", ":q":
			return
		case ":help":
			printHelp()
			continue
		case ":env":
			for _, name := range in.Global.Names() {
				fmt.Println(name)
			}
			continue
		}

		val, err := in.EvalString(src)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			continue
		}
		fmt.Println(val.String())
	}
}

// readForm keeps prompting for continuation lines until the buffer has
// no open list or string.
func readForm(ln *liner.State) (string, error) {
	buf, err := ln.Prompt(prompt)
	if err != nil {
		return "", err
	}
	for !consair.Balanced(buf) {
		more, err := ln.Prompt(contPrompt)
		if err != nil {
			return "", err
		}
		buf += "\n" + more
	}
	return buf, nil
}

func printHelp() {
	fmt.Println("commands:")
	fmt.Println("  :help   show this help")
	fmt.Println("  :env    list global bindings")
	fmt.Println("  :quit   exit")
}
