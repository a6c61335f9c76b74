package main

import "github.com/pfrederiksen/ticket-monitor/internal/cli"

func main() {
	cli.Execute()
}
