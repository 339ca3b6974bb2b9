package main

import "github.com/vibast-solutions/ms-go-pricing/cmd"

func main() {
	cmd.Execute()
}
