/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package main

import "github.com/dheeraj-kumar123/portfolio/cmd"

func main() {
	cmd.Execute()
}
