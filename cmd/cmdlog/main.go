package main

import (
	"os"

	"github.com/mongodb/grip"
	"github.com/mongodb/grip/level"
	"github.com/mongodb/grip/send"
	"github.com/urfave/cli"
)

func main() {
	grip.EmergencyFatal(buildApp().Run(os.Args))
}

func buildApp() *cli.App {
	app := cli.NewApp()
	app.Name = "cmdlog"
	app.Usage = "bounded command history over standard input and output"

	app.Commands = []cli.Command{
		runCommand(),
		configCommand(),
	}

	// Global options. Command data goes to stdout, so logs go to stderr.
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  levelFlagName,
			Value: "info",
			Usage: "lowest visible log level: 'emergency|alert|critical|error|warning|notice|info|debug|trace'",
		},
	}

	app.Before = func(c *cli.Context) error {
		return loggingSetup(app.Name, c.String(levelFlagName))
	}

	return app
}

func loggingSetup(name, l string) error {
	if err := grip.SetSender(send.MakeErrorLogger()); err != nil {
		return err
	}
	grip.SetName(name)

	return setThreshold(l)
}

func setThreshold(l string) error {
	sender := grip.GetSender()
	info := sender.Level()
	info.Threshold = level.FromString(l)

	return sender.SetLevel(info)
}
