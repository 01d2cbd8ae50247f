// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package run

import (
	"context"
	"maps"

	"github.com/matt-FFFFFF/ncmbatch/internal/config"
	"github.com/urfave/cli/v3"
)

const (
	workingPathFlag     = "working-path"
	outputPathFlag      = "output-path"
	jobsFlag            = "jobs"
	memoryCacheFlag     = "use-memory-as-cache"
	ignoreExtensionFlag = "ignore-extension"
	extensionFlag       = "extension"
	configFlag          = "config"
	rateFlag            = "rate"
	itemTimeoutFlag     = "item-timeout"
	decoderFlag         = "decoder"
	decoderPathFlag     = "decoder-path"
	decoderArgFlag      = "decoder-arg"
	decoderEnvFlag      = "decoder-env"
)

// ConfigFlags returns the flags that make up the effective configuration.
// A new set is returned on every call so commands never share flag state.
func ConfigFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:      workingPathFlag,
			Aliases:   []string{"p"},
			Usage:     "Directory containing the files to decrypt",
			TakesFile: true,
			OnlyOnce:  true,
		},
		&cli.StringFlag{
			Name:      outputPathFlag,
			Aliases:   []string{"o"},
			Usage:     "Directory the decrypted files are written to. Created if missing.",
			TakesFile: true,
			OnlyOnce:  true,
		},
		&cli.IntFlag{
			Name:    jobsFlag,
			Aliases: []string{"j"},
			Usage:   "Number of files decrypted at the same time",
			Value:   config.DefaultJobs,
		},
		&cli.BoolFlag{
			Name:        memoryCacheFlag,
			Aliases:     []string{"c"},
			Usage:       "Decrypt into memory before writing the output file",
			DefaultText: "false",
			OnlyOnce:    true,
		},
		&cli.BoolFlag{
			Name:        ignoreExtensionFlag,
			Aliases:     []string{"i"},
			Usage:       "Process every file in the working path regardless of its extension",
			DefaultText: "false",
			OnlyOnce:    true,
		},
		&cli.StringFlag{
			Name:     extensionFlag,
			Usage:    "Extension of the files to decrypt",
			Value:    ".ncm",
			OnlyOnce: true,
		},
		&cli.StringFlag{
			Name: configFlag,
			Usage: "Configuration file (YAML, TOML or HCL). " +
				"Supports Hashicorp's go-getter syntax for fetching files from various sources.",
			TakesFile: true,
			OnlyOnce:  true,
		},
		&cli.FloatFlag{
			Name:  rateFlag,
			Usage: "Maximum number of files started per second. Zero means unlimited.",
		},
		&cli.DurationFlag{
			Name:  itemTimeoutFlag,
			Usage: "Maximum time a single file may take. Zero means no limit.",
		},
		&cli.StringFlag{
			Name:     decoderFlag,
			Usage:    "Decoder type: exec or copy",
			Value:    config.DefaultDecoderType,
			OnlyOnce: true,
		},
		&cli.StringFlag{
			Name:      decoderPathFlag,
			Usage:     "Decoder executable, resolved through PATH",
			TakesFile: true,
			OnlyOnce:  true,
		},
		&cli.StringSliceFlag{
			Name:  decoderArgFlag,
			Usage: "Extra argument passed to the decoder before its verb. Specify multiple times for more.",
		},
		&cli.StringMapFlag{
			Name:  decoderEnvFlag,
			Usage: "Environment variable for the decoder as KEY=VALUE. Specify multiple times for more.",
		},
	}
}

// ResolveConfig builds the effective configuration.
// Defaults are overlaid by the configuration file, which is overlaid by flags set on the command line.
// Every error is a configuration error.
func ResolveConfig(ctx context.Context, cmd *cli.Command) (config.Config, error) {
	cfg := config.Default()

	if u := cmd.String(configFlag); u != "" {
		loaded, err := config.Load(ctx, u, cfg)
		if err != nil {
			return cfg, config.NewError(err)
		}

		cfg = loaded
	}

	if cmd.IsSet(workingPathFlag) {
		cfg.SourceDir = cmd.String(workingPathFlag)
	}

	if cmd.IsSet(outputPathFlag) {
		cfg.OutputDir = cmd.String(outputPathFlag)
	}

	if cmd.IsSet(jobsFlag) {
		cfg.Jobs = cmd.Int(jobsFlag)
	}

	if cmd.IsSet(memoryCacheFlag) {
		cfg.UseMemoryBuffering = cmd.Bool(memoryCacheFlag)
	}

	if cmd.IsSet(ignoreExtensionFlag) {
		cfg.IgnoreExtension = cmd.Bool(ignoreExtensionFlag)
	}

	if cmd.IsSet(extensionFlag) {
		cfg.Extension = cmd.String(extensionFlag)
	}

	if cmd.IsSet(rateFlag) {
		cfg.RateLimit = cmd.Float(rateFlag)
	}

	if cmd.IsSet(itemTimeoutFlag) {
		cfg.ItemTimeout = cmd.Duration(itemTimeoutFlag)
	}

	if cmd.IsSet(decoderFlag) {
		cfg.Decoder.Type = cmd.String(decoderFlag)
	}

	if cmd.IsSet(decoderPathFlag) {
		cfg.Decoder.Path = cmd.String(decoderPathFlag)
	}

	if cmd.IsSet(decoderArgFlag) {
		cfg.Decoder.Args = cmd.StringSlice(decoderArgFlag)
	}

	if cmd.IsSet(decoderEnvFlag) {
		if cfg.Decoder.Env == nil {
			cfg.Decoder.Env = make(map[string]string)
		}

		maps.Copy(cfg.Decoder.Env, cmd.StringMap(decoderEnvFlag))
	}

	return cfg, nil
}
