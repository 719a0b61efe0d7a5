// Copyright 2023 The Firefly Authors.
//
// Use of this source code is governed by a BSD 3-clause
// license that can be found in the LICENSE file.

// Package encode encodes declaration files into a
// type table.
package encode

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"

	"github.com/Adamsnoni/leo/codec"
	"github.com/Adamsnoni/leo/internal/tabfile"
	"github.com/Adamsnoni/leo/types"
)

var program = filepath.Base(os.Args[0])

// Main encodes one or more declaration files into
// a type table.
func Main(ctx context.Context, w io.Writer, args []string) error {
	flags := pflag.NewFlagSet("encode", pflag.ContinueOnError)

	var help, compress, verbose bool
	var output string
	flags.BoolVarP(&help, "help", "h", false, "Show this message and exit.")
	flags.StringVarP(&output, "output", "o", "", "The path where the type table is written.")
	flags.BoolVar(&compress, "zstd", false, "Compress the type table with zstd.")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Print each type as it is encoded.")

	flags.Usage = func() {
		log.Printf("Usage:\n  %s %s [OPTIONS] DECLS...\n\n", program, flags.Name())
		flags.PrintDefaults()
	}

	err := flags.Parse(args)
	if err != nil || help {
		flags.Usage()
		return pflag.ErrHelp
	}

	filenames := flags.Args()
	if len(filenames) == 0 || output == "" {
		flags.Usage()
		return pflag.ErrHelp
	}

	var names []*types.TypeName
	declared := make(map[string]string)
	for _, filename := range filenames {
		data, err := os.ReadFile(filename)
		if err != nil {
			return fmt.Errorf("failed to read %s: %v", filename, err)
		}

		got, err := codec.ParseFile(filename, data)
		if err != nil {
			return fmt.Errorf("failed to parse declarations: %v", err)
		}

		for _, tn := range got {
			if prev, ok := declared[tn.Name()]; ok {
				return fmt.Errorf("%s: %s already declared in %s", filename, tn.Name(), prev)
			}

			declared[tn.Name()] = filename
			if verbose {
				fmt.Fprintf(w, "%s\n", tn)
			}
		}

		names = append(names, got...)
	}

	err = tabfile.Write(output, names, compress)
	if err != nil {
		return fmt.Errorf("failed to write %s: %v", output, err)
	}

	return nil
}
