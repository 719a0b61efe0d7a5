// Copyright 2023 The Firefly Authors.
//
// Use of this source code is governed by a BSD 3-clause
// license that can be found in the LICENSE file.

// Package codec converts Leo types to and from
// structured data formats.
//
// Each type is represented as a tree of [Node]
// values, which can be encoded as CBOR, JSON, YAML,
// or TOML. CBOR output uses Core Deterministic
// Encoding, so a type always produces the same
// bytes. JSON input may contain comments and
// trailing commas.
package codec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/fxamacker/cbor/v2"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// encMode is the CBOR encoder configured with Core
// Deterministic Encoding (RFC 8949 §4.2).
var encMode cbor.EncMode

// decMode is the CBOR decoder. Unknown fields are
// rejected, as with the other formats. Each array
// level is one nested map, so the nesting limit is
// raised to the largest the decoder allows.
var decMode cbor.DecMode

func init() {
	var err error
	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("codec: CBOR encoder initialization failed: " + err.Error())
	}

	decMode, err = cbor.DecOptions{
		MaxNestedLevels:   65535,
		ExtraReturnErrors: cbor.ExtraDecErrorUnknownField,
	}.DecMode()
	if err != nil {
		panic("codec: CBOR decoder initialization failed: " + err.Error())
	}
}

// Format identifies a structured data format.
type Format string

const (
	CBOR Format = "cbor"
	JSON Format = "json"
	YAML Format = "yaml"
	TOML Format = "toml"
)

// Formats lists the supported formats.
var Formats = []Format{CBOR, JSON, YAML, TOML}

// FormatFor returns the format for the named
// file, based on its extension.
func FormatFor(filename string) (Format, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".cbor":
		return CBOR, nil
	case ".json", ".jsonc":
		return JSON, nil
	case ".yaml", ".yml":
		return YAML, nil
	case ".toml":
		return TOML, nil
	default:
		return "", fmt.Errorf("codec: unrecognised file extension for %q", filename)
	}
}

// encode writes v in the format f.
func encode(f Format, v any) ([]byte, error) {
	switch f {
	case CBOR:
		return encMode.Marshal(v)
	case JSON:
		data, err := json.MarshalIndent(v, "", "\t")
		if err != nil {
			return nil, err
		}

		return append(data, '\n'), nil
	case YAML:
		return yaml.Marshal(v)
	case TOML:
		var buf bytes.Buffer
		err := toml.NewEncoder(&buf).Encode(v)
		if err != nil {
			return nil, err
		}

		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("codec: unsupported format %q", f)
	}
}

// decode parses data in the format f into v.
// Fields not recognised by v are rejected.
func decode(f Format, data []byte, v any) error {
	switch f {
	case CBOR:
		return decMode.Unmarshal(data, v)
	case JSON:
		dec := json.NewDecoder(bytes.NewReader(jsonc.ToJSON(data)))
		dec.DisallowUnknownFields()
		err := dec.Decode(v)
		if err != nil {
			return err
		}

		if dec.More() {
			return fmt.Errorf("unexpected data after JSON value")
		}

		return nil
	case YAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		err := dec.Decode(v)
		if err == io.EOF {
			return fmt.Errorf("empty YAML document")
		}

		return err
	case TOML:
		md, err := toml.Decode(string(data), v)
		if err != nil {
			return err
		}

		if undecoded := md.Undecoded(); len(undecoded) != 0 {
			return fmt.Errorf("unrecognised TOML key %q", undecoded[0].String())
		}

		return nil
	default:
		return fmt.Errorf("codec: unsupported format %q", f)
	}
}
