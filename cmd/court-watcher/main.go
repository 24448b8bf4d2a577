package main

import "github.com/jhyun-dev/court-watcher/internal/cli"

func main() {
	cli.Execute()
}
