// Command alarmclock is a weekly alarm clock daemon.
//
//	alarmclock start|stop|restart|status
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli"
)

func main() {
	app := cli.NewApp()
	app.Name = "alarmclock"
	app.Usage = "a weekly alarm clock daemon"
	app.UsageText = "alarmclock <start|stop|restart|status>"
	app.HideVersion = true
	app.Commands = []cli.Command{
		{
			Name:   "start",
			Usage:  "start the daemon in the background",
			Action: start,
		},
		{
			Name:   "stop",
			Usage:  "stop the running daemon",
			Action: stop,
		},
		{
			Name:   "restart",
			Usage:  "stop the daemon, then start it again",
			Action: restart,
		},
		{
			Name:   "status",
			Usage:  "show whether the daemon runs and when the next alarm is",
			Action: status,
		},
		{
			Name:   "run",
			Usage:  "run the daemon in the foreground",
			Action: run,
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
