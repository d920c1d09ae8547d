package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kingpin"
	"go.uber.org/zap"
	"kastelo.dev/internlog"
	"kastelo.dev/internlog/internal/config"
	"kastelo.dev/internlog/internal/logging"
	"kastelo.dev/internlog/internal/server"
)

func main() {
	configFile := kingpin.Flag("config", "Configuration file").String()
	logLevel := kingpin.Flag("log-level", "Log level (debug, info, warn, error)").String()
	env := kingpin.Flag("env", "Environment (development, production)").String()

	cmdTemplate := kingpin.Command("template", "Write the blank log template")
	templateOut := cmdTemplate.Flag("output", "Output file").Short('o').Default(internlog.TemplateFilename).String()

	cmdGenerate := kingpin.Command("generate", "Generate the PDF log from a filled-in template")
	generateIn := cmdGenerate.Flag("input", "Input workbook").Short('i').Required().String()
	generateOut := cmdGenerate.Flag("output", "Output file (default from the student name)").Short('o').String()

	cmdValidate := kingpin.Command("validate", "Check a filled-in template without generating")
	validateIn := cmdValidate.Flag("input", "Input workbook").Short('i').Required().String()

	cmdExport := kingpin.Command("export", "Export a filled-in template as CSV")
	exportIn := cmdExport.Flag("input", "Input workbook").Short('i').Required().String()
	exportDir := cmdExport.Flag("dir", "Directory").Default(".").String()

	cmdDiff := kingpin.Command("diff", "Show the differences between two workbooks")
	diffOld := cmdDiff.Arg("old", "Old workbook").Required().String()
	diffNew := cmdDiff.Arg("new", "New workbook").Required().String()

	cmdServe := kingpin.Command("serve", "Serve the upload page")
	listen := cmdServe.Flag("listen", "Listen address").String()

	cmd := kingpin.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Loading configuration:", err)
		os.Exit(2)
	}
	if *env != "" {
		cfg.Env = *env
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	if *listen != "" {
		cfg.Listen = *listen
	}

	log, err := logging.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Setting up logging:", err)
		os.Exit(2)
	}
	defer log.Sync()

	var runErr error
	switch cmd {
	case cmdTemplate.FullCommand():
		runErr = writeTemplate(*templateOut)
		if runErr == nil {
			log.Info("Wrote template", zap.String("file", *templateOut))
		}

	case cmdGenerate.FullCommand():
		var out string
		out, runErr = generate(cfg, *generateIn, *generateOut)
		if runErr == nil {
			log.Info("Wrote PDF", zap.String("file", out))
		}

	case cmdValidate.FullCommand():
		runErr = validate(os.Stdout, cfg, *validateIn)

	case cmdExport.FullCommand():
		runErr = export(cfg, *exportIn, *exportDir)

	case cmdDiff.FullCommand():
		runErr = diff(os.Stdout, cfg, *diffOld, *diffNew)

	case cmdServe.FullCommand():
		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()
		runErr = server.New(cfg, log).Run(ctx)
	}

	if runErr != nil {
		report(os.Stderr, log, runErr)
		log.Sync()
		os.Exit(1)
	}
}
