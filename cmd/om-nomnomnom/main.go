// Copyright 2024 The om-nomnomnom Authors
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// om-nomnomnom parses an OpenMetrics text exposition and dumps the parsed
// metric families as JSON.
package main

import (
	"errors"
	"io"
	"os"

	"github.com/alecthomas/kingpin/v2"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"

	"github.com/inferiorhumanorgans/om-nomnomnom/omtext"
)

func main() {
	var (
		app         = kingpin.New("om-nomnomnom", "OpenMetrics text exposition parser.")
		optionsFile = app.Flag("options", "YAML file with parser options.").PlaceHolder("FILE").String()
		logLevel    = app.Flag("log.level", "Only log messages with the given severity or above.").Default("info").Enum("debug", "info", "warn", "error")
		indent      = app.Flag("indent", "Indentation step for the JSON output, 0 for compact.").Default("2").Int()
		input       = app.Arg("exposition", "Exposition file to parse, - for stdin.").Default("-").String()
	)
	kingpin.MustParse(app.Parse(os.Args[1:]))

	log := logrus.New()
	level, err := logrus.ParseLevel(*logLevel)
	if err != nil {
		log.WithError(err).Fatal("invalid log level")
	}
	log.SetLevel(level)

	opts := omtext.DefaultOptions()
	if *optionsFile != "" {
		buf, err := os.ReadFile(*optionsFile)
		if err != nil {
			log.WithError(err).Fatal("could not read options file")
		}
		if opts, err = omtext.LoadOptions(buf); err != nil {
			log.WithError(err).Fatal("could not parse options file")
		}
	}

	var buf []byte
	if *input == "-" {
		if buf, err = io.ReadAll(os.Stdin); err != nil {
			log.WithError(err).Fatal("could not read stdin")
		}
	} else {
		if buf, err = os.ReadFile(*input); err != nil {
			log.WithError(err).Fatal("could not read exposition")
		}
	}

	log.WithField("bytes", len(buf)).Debug("parsing exposition")
	set, err := omtext.NewParser(omtext.WithOptions(opts)).Parse(buf)
	if err != nil {
		var perr *omtext.ParseError
		if errors.As(err, &perr) {
			log.WithFields(logrus.Fields{
				"line":   perr.Line,
				"offset": perr.Offset,
				"token":  perr.Token,
			}).Error(err)
		} else {
			log.Error(err)
		}
		os.Exit(1)
	}
	log.WithField("families", set.Len()).Debug("parsed exposition")

	cfg := jsoniter.Config{IndentionStep: *indent, EscapeHTML: false}.Froze()
	stream := cfg.BorrowStream(os.Stdout)
	defer cfg.ReturnStream(stream)
	set.WriteJSON(stream)
	stream.WriteRaw("\n")
	if err := stream.Flush(); err != nil {
		log.WithError(err).Fatal("could not write output")
	}
}
