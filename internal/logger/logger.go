// Package logger provides tagged, colored console output shared by every
// package in the analyzer.
package logger

import (
	"fmt"
	"time"
)

const (
	reset  = "\033[0m"
	bold   = "\033[1m"
	cyan   = "\033[36m"
	green  = "\033[32m"
	yellow = "\033[33m"
	red    = "\033[31m"
	gray   = "\033[90m"
)

func stamp() string {
	return time.Now().Format("15:04:05")
}

func line(color, level, tag, msg string) {
	fmt.Printf("%s%s%s %s[%s]%s %s%-5s%s %s\n",
		gray, stamp(), reset, bold, tag, reset, color, level, reset, msg)
}

// Info logs a neutral progress message.
func Info(tag, msg string) {
	line(cyan, "INFO", tag, msg)
}

// Success logs a completed-step message.
func Success(tag, msg string) {
	line(green, "OK", tag, msg)
}

// Warn logs a recoverable problem.
func Warn(tag, msg string) {
	line(yellow, "WARN", tag, msg)
}

// Error logs a failure.
func Error(tag, msg string) {
	line(red, "ERROR", tag, msg)
}

// Banner prints the startup header with the build version.
func Banner(version string) {
	if version == "" {
		version = "dev"
	}
	fmt.Printf("%s%sFFXIV Market Analyzer%s %s%s%s\n", bold, cyan, reset, gray, version, reset)
}

// Section prints a visual divider before a new phase of output.
func Section(title string) {
	fmt.Printf("\n%s── %s %s%s\n", bold, title, "──────────────────────────────", reset)
}

// Stats prints a single labeled figure, aligned for scanning.
func Stats(label string, value interface{}) {
	fmt.Printf("  %s%-24s%s %v\n", gray, label, reset, value)
}
