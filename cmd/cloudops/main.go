package main

import "github.com/Durga-Talluri/cloudops-pro/internal/cli"

func main() {
	cli.Execute()
}
