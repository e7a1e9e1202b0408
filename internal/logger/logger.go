package logger

import (
	"io"
	"log"
)

var DebugMode bool

// Init configures the standard logger. Outside debug mode everything is
// discarded: stdout carries the answer and stderr only fatal diagnostics.
func Init(debug bool) {
	DebugMode = debug
	if !debug {
		log.SetOutput(io.Discard)
	}
}

// SetOutput sets the output destination for the standard logger
func SetOutput(w io.Writer) {
	log.SetOutput(w)
}

func Debug(format string, v ...interface{}) {
	if DebugMode {
		log.Printf("[DEBUG] "+format, v...)
	}
}

func Info(format string, v ...interface{}) {
	log.Printf("[INFO] "+format, v...)
}

func Warn(format string, v ...interface{}) {
	log.Printf("[WARN] "+format, v...)
}
