// Command select is the boot-selector front-end: it picks a ROM
// image and hands it to whichever front-end binary (monitor or
// display) the user asked for, so a single entry point covers both
// without either front-end needing to know about the other.
package main

import (
	"fmt"
	"log"
	"os"
	"os/exec"

	cli "gopkg.in/urfave/cli.v2"
)

func main() {
	app := &cli.App{
		Name:    "select",
		Usage:   "Pick a ROM image and launch a front-end against it",
		Version: "v0.1.0",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "rom",
				Aliases: []string{"r"},
				Usage:   "path to the ROM image to load",
			},
			&cli.StringFlag{
				Name:    "front-end",
				Aliases: []string{"f"},
				Usage:   "front-end to launch: monitor or display",
				Value:   "monitor",
			},
		},
		Action: func(c *cli.Context) error {
			rom := c.String("rom")
			if rom == "" {
				cli.ShowAppHelp(c)
				return cli.Exit("a -rom path is required", 86)
			}
			if _, err := os.Stat(rom); err != nil {
				return cli.Exit(fmt.Sprintf("can't stat rom: %v", err), 1)
			}

			var binary string
			switch c.String("front-end") {
			case "monitor":
				binary = "monitor"
			case "display":
				binary = "display"
			default:
				return cli.Exit(fmt.Sprintf("unknown front-end %q, want monitor or display", c.String("front-end")), 86)
			}

			cmd := exec.Command(binary, "-rom", rom)
			cmd.Stdin = os.Stdin
			cmd.Stdout = os.Stdout
			cmd.Stderr = os.Stderr
			return cmd.Run()
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
