/*
	Copyright 2025 Markus Papenbrock
*/

package main

import "github.com/mpapenbr/racepace-analyzer-go/cmd"

func main() {
	cmd.Execute()
}
