// SPDX-License-Identifier: MIT

// Command eigenfaces builds eigenface bases from image directories and uses
// them to approximate, recognize, classify and compose faces.
//
//	eigenfaces build ./faces -k 15 -o out
//	eigenfaces approximate ./faces query.png --ks 1 --ks 10 --ks 50
//	eigenfaces recognize ./faces query.png --base-limit 400
//	eigenfaces classify ./people -o weights.csv
//	eigenfaces compose ./faces --slider 200 --slider 90
//	eigenfaces resize ./faces --width 180 --height 220
//	eigenfaces convert ./att_faces
//	eigenfaces grayscale photo.jpg
package main

import (
	"errors"
	"io"
	"os"

	flags "github.com/jessevdk/go-flags"
	"github.com/sirupsen/logrus"
)

// globalOptions apply to every command.
type globalOptions struct {
	Config   string `short:"c" long:"config" description:"path to a YAML config file"`
	LogLevel string `long:"log-level" default:"info" description:"log level" choice:"debug" choice:"info" choice:"warn" choice:"error"`
}

// app carries state shared by the commands of one invocation.
type app struct {
	global globalOptions
	stdout io.Writer
	logOut io.Writer
}

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		var ferr *flags.Error
		if errors.As(err, &ferr) && ferr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}
}

// run parses args and executes the selected command. Results go to stdout,
// logs to logOut.
func run(args []string, stdout, logOut io.Writer) error {
	a := &app{stdout: stdout, logOut: logOut}
	parser := flags.NewParser(&a.global, flags.Default)
	parser.ShortDescription = "eigenface toolkit"
	parser.LongDescription = "Build eigenface bases and use them for reconstruction and recognition."
	if err := a.register(parser); err != nil {
		return err
	}
	_, err := parser.ParseArgs(args)

	return err
}

// setup resolves the effective config (defaults, file, flags) and a logger.
func (a *app) setup(f corpusFlags) (Config, logrus.FieldLogger, error) {
	log := a.logger()
	cfg, err := LoadConfig(a.global.Config)
	if err != nil {
		log.WithError(err).Error("could not load config")
		return cfg, log, err
	}
	f.apply(&cfg)
	if err = cfg.Validate(); err != nil {
		log.WithError(err).Error("invalid configuration")
		return cfg, log, err
	}

	return cfg, log, nil
}

func (a *app) logger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(a.logOut)
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	level, err := logrus.ParseLevel(a.global.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	l.SetLevel(level)

	return l
}
