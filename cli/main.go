/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package main

import "github.com/utkarsh-90/Axum-Chat-Service/cli/cmd"

func main() {
	cmd.Execute()
}
