package main

import "github.com/platinummonkey/restaurant-service/pkg/cli"

func main() {
	cli.Execute()
}
