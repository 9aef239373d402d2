// go-ba121
// Copyright (c) 2025 The Zaparoo Project Contributors.
// SPDX-License-Identifier: LGPL-3.0-or-later
//
// This file is part of go-ba121.
//
// go-ba121 is free software; you can redistribute it and/or
// modify it under the terms of the GNU Lesser General Public
// License as published by the Free Software Foundation; either
// version 3 of the License, or (at your option) any later version.
//
// go-ba121 is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with go-ba121; if not, write to the Free Software Foundation,
// Inc., 51 Franklin Street, Fifth Floor, Boston, MA  02110-1301, USA.

// Command ba121 talks to a BA121 CO2 sensor: it prints chip information, runs
// the register and read self-tests, and runs the usage examples.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	ba121 "github.com/ZaparooProject/go-ba121"
	"github.com/ZaparooProject/go-ba121/transport/periph"
	"github.com/ZaparooProject/go-ba121/transport/uart"
	"github.com/rs/zerolog"
)

var errUsage = errors.New("usage")

type config struct {
	info     *bool
	port     *bool
	example  *string
	test     *string
	device   *string
	backend  *string
	times    *int
	interval *time.Duration
	debug    *bool
}

func parseFlags(fs *flag.FlagSet, args []string) (*config, error) {
	cfg := &config{
		info:    fs.Bool("i", false, "Show the chip information."),
		port:    fs.Bool("p", false, "Display the pins used by this device to connect the chip."),
		example: fs.String("e", "", "Run the driver example: read, status, baseline or monitor."),
		test:    fs.String("t", "", "Run the driver test: reg or read."),
		device: fs.String("device", "",
			"Serial device path (e.g., /dev/ttyUSB0 or COM3), or a periph UART name with -backend periph."),
		backend:  fs.String("backend", "uart", "Transport backend: uart (go.bug.st/serial) or periph (periph.io)."),
		times:    fs.Int("times", 3, "Set the running times."),
		interval: fs.Duration("interval", time.Second, "Delay between reads."),
		debug:    fs.Bool("debug", false, "Enable debug output"),
	}
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if *cfg.times < 1 {
		return nil, fmt.Errorf("%w: -times must be at least 1", errUsage)
	}
	return cfg, nil
}

// newTransport creates the transport selected by -backend.
func newTransport(cfg *config) (ba121.Transport, error) {
	switch strings.ToLower(*cfg.backend) {
	case "uart", "serial":
		if *cfg.device == "" {
			return nil, fmt.Errorf("%w: -device is required for the uart backend", errUsage)
		}
		return uart.New(*cfg.device), nil
	case "periph":
		return periph.New(*cfg.device), nil
	default:
		return nil, fmt.Errorf("%w: unsupported backend %q", errUsage, *cfg.backend)
	}
}

func deviceOptions(cfg *config) []ba121.Option {
	if !*cfg.debug {
		return nil
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}).
		Level(zerolog.DebugLevel).With().Timestamp().Logger()
	return []ba121.Option{ba121.WithLogger(logger)}
}

func run(
	ctx context.Context,
	cfg *config,
	out io.Writer,
	open func() (ba121.Transport, error),
	opts ...ba121.Option,
) error {
	r := &runner{
		out:      out,
		open:     open,
		opts:     append(deviceOptions(cfg), opts...),
		times:    *cfg.times,
		interval: *cfg.interval,
		sleep:    time.Sleep,
	}

	switch {
	case *cfg.info:
		r.printInfo()
		return nil
	case *cfg.port:
		r.printPort()
		return nil
	case *cfg.test == "reg":
		return r.registerTest()
	case *cfg.test == "read":
		return r.readTest()
	case *cfg.example == "read":
		return r.readExample()
	case *cfg.example == "status":
		return r.statusExample()
	case *cfg.example == "baseline":
		return r.baselineExample()
	case *cfg.example == "monitor":
		return r.monitorExample(ctx)
	default:
		return errUsage
	}
}

func main() {
	fs := flag.NewFlagSet("ba121", flag.ExitOnError)
	cfg, err := parseFlags(fs, os.Args[1:])
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(2)
	}
	if *cfg.debug {
		ba121.SetDebugEnabled(true)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	err = run(ctx, cfg, os.Stdout, func() (ba121.Transport, error) { return newTransport(cfg) })
	switch {
	case err == nil:
	case errors.Is(err, errUsage):
		if err != errUsage {
			_, _ = fmt.Fprintf(os.Stderr, "%v\n", err)
		}
		fs.Usage()
		os.Exit(5)
	case errors.Is(err, context.Canceled):
	default:
		_, _ = fmt.Fprintf(os.Stderr, "ba121: %v\n", err)
		os.Exit(1)
	}
}
