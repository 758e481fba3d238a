// Copyright (c) 2025 Daniel Nugroho
// Licensed under the MIT License

// Package commands wires the shapecad CLI: conversion between AutoCAD
// drawings and ESRI shapefiles with Australian (GDA/MGA) reference
// system handling.
package commands

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/dnugroho/shapecad/pkg/config"
	"github.com/dnugroho/shapecad/pkg/engine"
	"github.com/dnugroho/shapecad/pkg/logging"
)

var (
	configPath string
	logLevel   string
	logFormat  string

	cfg    config.Config
	logger *slog.Logger
	eng    *engine.Engine
)

func Execute() error {
	root := &cobra.Command{
		Use:          "shapecad",
		Short:        "Convert between AutoCAD drawings and ESRI shapefiles",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load(configPath)
			if err != nil {
				return err
			}
			if logLevel != "" {
				cfg.Log.Level = logLevel
			}
			if logFormat != "" {
				cfg.Log.Format = logFormat
			}
			logger = logging.New(cfg.Log.Level, cfg.Log.Format, os.Stderr)
			eng = engine.New(logger)
			return nil
		},
	}

	root.PersistentFlags().StringVar(&configPath, "config", defaultConfigPath(), "config file (YAML)")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
	root.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format: text or json")

	root.AddCommand(toShpCmd(), toDxfCmd(), infoCmd())
	return root.Execute()
}

func defaultConfigPath() string {
	dir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return fmt.Sprintf("%s/.shapecad.yaml", dir)
}
