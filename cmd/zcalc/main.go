// Copyright 2026, Jason S. McMullan <jason.mcmullan@gmail.com>

// zcalc builds the terminal spreadsheet firmware as a flat Z80 ROM
// image, and can run an image on the emulated target machine with the
// local terminal bridged to the firmware's serial port.
package main

import (
	"os"
	"time"

	"github.com/alecthomas/kong"
	"github.com/sirupsen/logrus"
	"golang.org/x/term"

	"zcalc/emulator"
	"zcalc/gen"
	"zcalc/sheet"
)

type GenerateCmd struct {
	Output string `help:"Image file to write." short:"o" default:"calc.bin"`
}

func (cmd *GenerateCmd) Run(cli *Cli) (err error) {
	lay, sh, err := cli.parts()
	if err != nil {
		return err
	}
	img, err := gen.Generate(lay, sh)
	if err != nil {
		return err
	}
	if err = os.WriteFile(cmd.Output, img, 0o644); err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{
		"file":  cmd.Output,
		"bytes": len(img),
	}).Info("image written")
	return nil
}

type RunCmd struct {
	Image string `help:"Run this image instead of building one." short:"i" type:"existingfile" optional:""`
}

func (cmd *RunCmd) Run(cli *Cli) (err error) {
	lay, sh, err := cli.parts()
	if err != nil {
		return err
	}

	var img []byte
	if cmd.Image != "" {
		if img, err = os.ReadFile(cmd.Image); err != nil {
			return err
		}
	} else if img, err = gen.Generate(lay, sh); err != nil {
		return err
	}

	m := emulator.NewMachine(img, lay.StatusPort, lay.DataPort)
	m.Acia.Output = os.Stdout

	fd := int(os.Stdin.Fd())
	var saved *term.State
	if term.IsTerminal(fd) {
		if saved, err = term.MakeRaw(fd); err != nil {
			return err
		}
		defer term.Restore(fd, saved)
	}

	go func() {
		buf := make([]byte, 64)
		for {
			n, rerr := os.Stdin.Read(buf)
			if n > 0 {
				for _, ch := range buf[:n] {
					if ch == 0x03 { // Ctrl-C leaves even when the firmware won't
						if saved != nil {
							term.Restore(fd, saved)
						}
						os.Exit(1)
					}
				}
				m.Acia.Feed(append([]byte(nil), buf[:n]...))
			}
			if rerr != nil {
				return
			}
		}
	}()

	for {
		halted, err := m.Run(100_000)
		if err != nil {
			return err
		}
		if halted {
			return nil
		}
		time.Sleep(time.Millisecond)
	}
}

type Cli struct {
	Layout  string `help:"TOML memory map overriding the defaults." type:"existingfile" optional:""`
	Seed    string `help:"Starlark seed script baked into the image." type:"existingfile" optional:""`
	Verbose int    `help:"More logging (-v info, -vv debug)." short:"v" type:"counter"`

	Generate GenerateCmd `cmd:"" default:"withargs" help:"Build a firmware image."`
	Run      RunCmd      `cmd:"" help:"Run the firmware on the emulated machine."`
}

func (cli *Cli) parts() (lay gen.Layout, sh *sheet.Sheet, err error) {
	lay = gen.DefaultLayout()
	if cli.Layout != "" {
		if lay, err = gen.LoadLayout(cli.Layout); err != nil {
			return lay, nil, err
		}
	}
	if cli.Seed != "" {
		if sh, err = gen.LoadSeed(cli.Seed, lay); err != nil {
			return lay, nil, err
		}
	}
	return lay, sh, nil
}

func main() {
	cli := Cli{}
	ctx := kong.Parse(&cli,
		kong.Name("zcalc"),
		kong.Description("BCD spreadsheet firmware builder for Z80 serial terminals."),
		kong.UsageOnError(),
	)

	switch cli.Verbose {
	case 0:
		logrus.SetLevel(logrus.WarnLevel)
	case 1:
		logrus.SetLevel(logrus.InfoLevel)
	default:
		logrus.SetLevel(logrus.DebugLevel)
	}

	ctx.FatalIfErrorf(ctx.Run(&cli))
}
