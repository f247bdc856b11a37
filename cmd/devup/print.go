package main

import (
	"fmt"
	"strings"
)

type checkRow struct {
	name     string
	command  string
	resolved string
}

func printCheckTable(rows []checkRow) {
	nameW, cmdW, resW := len("NAME"), len("COMMAND"), len("RESOLVED")
	for _, r := range rows {
		nameW = maxInt(nameW, len(r.name))
		cmdW = maxInt(cmdW, len(r.command))
		resW = maxInt(resW, len(r.resolved))
	}

	sep := fmt.Sprintf("+-%s-+-%s-+-%s-+\n", strings.Repeat("-", nameW), strings.Repeat("-", cmdW), strings.Repeat("-", resW))
	fmt.Print(sep)
	fmt.Printf("| %s | %s | %s |\n", pad("NAME", nameW), pad("COMMAND", cmdW), pad("RESOLVED", resW))
	fmt.Print(sep)
	for _, r := range rows {
		fmt.Printf("| %s | %s | %s |\n", pad(r.name, nameW), pad(r.command, cmdW), pad(r.resolved, resW))
	}
	fmt.Print(sep)
}

func pad(s string, w int) string {
	if len(s) >= w {
		return s
	}
	return s + strings.Repeat(" ", w-len(s))
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
