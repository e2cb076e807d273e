package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dshills/textobjects/internal/config"
	"github.com/dshills/textobjects/internal/input/vim"
	"github.com/dshills/textobjects/internal/textobject"
)

// runAdd appends a text object definition to a JSON settings file.
func runAdd(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("textobj add", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var (
		settings     string
		keys         string
		open, closeT string
		langs        string
		multiline    bool
		noInside     bool
		noAround     bool
		excludeOpen  bool
		excludeClose bool
		dryRun       bool
	)
	fs.StringVar(&settings, "settings", "", "JSON settings file to update (created if missing)")
	fs.StringVar(&keys, "keys", "", `Object keys, e.g. "$" or "<leader> m"`)
	fs.StringVar(&open, "open", "", "Opening delimiter")
	fs.StringVar(&closeT, "close", "", "Closing delimiter")
	fs.StringVar(&langs, "lang", "", "Comma-separated language identifiers (default: all)")
	fs.BoolVar(&multiline, "multiline", false, "Allow delimiters on other lines")
	fs.BoolVar(&noInside, "no-inside", false, "Do not bind the inside variant")
	fs.BoolVar(&noAround, "no-around", false, "Do not bind the around variant")
	fs.BoolVar(&excludeOpen, "exclude-open", false, "Leave the opening delimiter out of around selections")
	fs.BoolVar(&excludeClose, "exclude-close", false, "Leave the closing delimiter out of around selections")
	fs.BoolVar(&dryRun, "n", false, "Print the updated settings instead of writing them")

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return exitOK
		}
		return exitError
	}
	if settings == "" {
		fmt.Fprintf(stderr, "Error: -settings is required\n")
		return exitError
	}

	opts := []textobject.DefinitionOption{
		textobject.WithMultiline(multiline),
		textobject.WithInside(!noInside),
		textobject.WithAround(!noAround),
		textobject.WithIncludeOpen(!excludeOpen),
		textobject.WithIncludeClose(!excludeClose),
	}
	if langs != "" {
		var ids []string
		for _, id := range strings.Split(langs, ",") {
			if id = strings.TrimSpace(id); id != "" {
				ids = append(ids, id)
			}
		}
		opts = append(opts, textobject.WithLanguages(textobject.Languages(ids...)))
	}

	def, err := textobject.NewDefinition(vim.ParseKeys(keys), open, closeT, opts...)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitError
	}

	data, err := os.ReadFile(settings)
	if err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitError
	}

	out, err := config.AddTextObject(data, def)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %s: %v\n", settings, err)
		return exitError
	}

	if dryRun {
		_, _ = stdout.Write(out)
		return exitOK
	}
	if err := os.WriteFile(settings, out, 0644); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitError
	}
	fmt.Fprintf(stdout, "added %s to %s\n", def, settings)
	return exitOK
}
