package main

import (
	"context"
	"fmt"
	"os"

	"github.com/0xef53/networkctl/client"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"
)

func init() {
	log.SetFormatter(&log.TextFormatter{
		DisableColors:    true,
		DisableTimestamp: true,
	})
}

func main() {
	app := new(cli.Command)

	app.Name = "networkctl"
	app.Usage = "Query the status of network links"
	app.HideHelpCommand = true
	app.EnableShellCompletion = true

	// If no arguments provided
	app.Action = runList

	app.Flags = []cli.Flag{
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "enable debug/verbose mode",
		},
		&cli.BoolFlag{
			Name:    "all",
			Aliases: []string{"a"},
			Usage:   "show status for all links",
		},
		&cli.BoolFlag{Name: "no-legend", Usage: "do not show the headers and footers"},
		&cli.BoolFlag{Name: "no-pager", Usage: "do not pipe output into a pager"},
		&cli.BoolFlag{Name: "json", Usage: "print the output in JSON format"},
		&cli.StringFlag{Name: "netns", Usage: "query links of the named network namespace"},
		&cli.StringFlag{Name: "config", Sources: cli.EnvVars("NETWORKCTL_CONFIG"), Value: "/etc/networkctl.yaml", Usage: "path to the configuration file"},
	}

	app.Commands = []*cli.Command{
		// LIST
		&cli.Command{
			Name:      "list",
			Usage:     "list links",
			ArgsUsage: "[PATTERN...]",
			Action:    runList,
		},
		// STATUS
		&cli.Command{
			Name:      "status",
			Usage:     "show link status",
			ArgsUsage: "[PATTERN...]",
			Action:    runStatus,
		},
		// LLDP
		&cli.Command{
			Name:      "lldp",
			Usage:     "show LLDP neighbors",
			ArgsUsage: "[PATTERN...]",
			Action:    runLLDP,
		},
		// LABEL
		&cli.Command{
			Name:   "label",
			Usage:  "show current address label entries in the kernel",
			Action: runLabel,
		},
		// DELETE
		&cli.Command{
			Name:      "delete",
			Usage:     "delete virtual netdevs",
			ArgsUsage: "DEVICE...",
			Action:    runDelete,
		},
		// VERSION
		&cli.Command{
			Name:  "version",
			Usage: "print the version information",
			Action: func(ctx context.Context, c *cli.Command) error {
				return client.ShowVersion(os.Stdout)
			},
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		log.Fatalln(err)
	}
}

func runList(ctx context.Context, c *cli.Command) error {
	a, err := newApp(ctx, c)
	if err != nil {
		return err
	}
	defer a.Close()

	return a.client.ShowLinks(ctx, c.Args().Slice())
}

func runStatus(ctx context.Context, c *cli.Command) error {
	a, err := newApp(ctx, c)
	if err != nil {
		return err
	}
	defer a.Close()

	return a.client.ShowStatus(ctx, c.Args().Slice())
}

func runLLDP(ctx context.Context, c *cli.Command) error {
	a, err := newApp(ctx, c)
	if err != nil {
		return err
	}
	defer a.Close()

	return a.client.ShowLLDPNeighbors(ctx, c.Args().Slice())
}

func runLabel(ctx context.Context, c *cli.Command) error {
	a, err := newApp(ctx, c)
	if err != nil {
		return err
	}
	defer a.Close()

	return a.client.ShowAddressLabels(ctx)
}

func runDelete(ctx context.Context, c *cli.Command) error {
	if c.Args().Len() == 0 {
		return fmt.Errorf("at least one device name is required")
	}

	a, err := newApp(ctx, c)
	if err != nil {
		return err
	}
	defer a.Close()

	return a.client.DeleteLinks(ctx, a.addrs, c.Args().Slice())
}
