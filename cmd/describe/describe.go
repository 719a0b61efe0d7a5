// Copyright 2023 The Firefly Authors.
//
// Use of this source code is governed by a BSD 3-clause
// license that can be found in the LICENSE file.

// Package describe prints information about a type table.
package describe

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"

	"github.com/Adamsnoni/leo/internal/tabfile"
	"github.com/Adamsnoni/leo/types"
)

var program = filepath.Base(os.Args[0])

// Main prints information about a type table.
func Main(ctx context.Context, w io.Writer, args []string) error {
	flags := pflag.NewFlagSet("describe", pflag.ContinueOnError)

	var help, header, typesSection, names, all bool
	flags.BoolVarP(&help, "help", "h", false, "Show this message and exit.")
	flags.BoolVar(&header, "header", true, "Print information about the type table header.")
	flags.BoolVar(&typesSection, "types", false, "Print the set of types defined.")
	flags.BoolVar(&names, "names", false, "Print each named type and its array layout.")
	flags.BoolVar(&all, "all", false, "Print all information.")

	flags.Usage = func() {
		log.Printf("Usage:\n  %s %s [OPTIONS] TABLE\n\n", program, flags.Name())
		flags.PrintDefaults()
	}

	err := flags.Parse(args)
	if err != nil || help {
		flags.Usage()
		return pflag.ErrHelp
	}

	filenames := flags.Args()
	if len(filenames) != 1 {
		flags.Usage()
		return pflag.ErrHelp
	}

	if all {
		header, typesSection, names = true, true, true
	}

	name := filenames[0]
	d, err := tabfile.Open(name)
	if err != nil {
		return err
	}

	var numSections int
	for _, b := range []bool{header, typesSection, names} {
		if b {
			numSections++
		}
	}

	var printSectionHeadings bool
	switch numSections {
	case 0:
		return nil
	case 1:
		printSectionHeadings = false
	default:
		printSectionHeadings = true
	}

	printSection := func(s string) {
		if printSectionHeadings {
			fmt.Fprintf(w, "%s:\n", s)
		}
	}

	printText := func(format string, v ...any) {
		if printSectionHeadings {
			fmt.Fprintf(w, "\t"+format, v...)
		} else {
			fmt.Fprintf(w, format, v...)
		}
	}

	if header {
		hdr := d.Header()
		printSection("header")
		printText("type table version: %d\n", hdr.Version)
		printText("checksum:           %x\n", hdr.Checksum)
		printText("types offset:       %d (%d bytes)\n", hdr.TypesOffset, hdr.TypesLength)
		printText("names offset:       %d (%d bytes)\n", hdr.NamesOffset, hdr.NamesLength)
		printText("strings offset:     %d (%d bytes)\n", hdr.StringsOffset, hdr.StringsLength)
		printText("checksum offset:    %d\n", hdr.ChecksumOffset)
	}

	gotTypes, err := d.Types()
	if err != nil {
		return fmt.Errorf("failed to parse %s: %v", name, err)
	}

	gotNames, err := d.TypeNames()
	if err != nil {
		return fmt.Errorf("failed to parse %s: %v", name, err)
	}

	if typesSection {
		printSection("types")
		// Skip the nil type.
		for i, typ := range gotTypes[1:] {
			printText("%d: %s\n", i+1, typ)
		}
	}

	if names {
		printSection("names")
		for _, tn := range gotNames {
			printText("%s = %s\n", tn.Name(), tn.Type())
			array, ok := tn.Type().(*types.Array)
			if ok {
				printText("\tbase element:  %s\n", array.BaseElement())
				printText("\tdepth:         %d\n", array.Depth())
				printText("\tdimensions:    %v\n", array.Dimensions())
				if count, ok := array.ElementCount(); ok {
					printText("\telement count: %d\n", count)
				} else {
					printText("\telement count: overflows uint64\n")
				}
			}

			printText("\thash:          %s\n", types.HashOf(tn.Type()))
		}
	}

	return nil
}
