// Command paramform edits a form of bounded parameters in the terminal and
// logs every committed change.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"megawidget/internal/config"
	"megawidget/internal/notify"
	"megawidget/internal/numeric"
	"megawidget/internal/trace"
	"megawidget/internal/ui"
)

func main() {
	formPath := flag.String("form", "", "form file (default $"+config.FormPathEnv+" or the user config dir)")
	logPath := flag.String("log", "", "append logs and notifications to this file")
	width := flag.Int("width", ui.DefaultSliderWidth, "slider track width in cells")
	flag.Parse()

	closeLog, err := setupLog(*logPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	if err := run(*formPath, *width); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(formPath string, width int) error {
	if formPath == "" {
		p, err := config.DefaultFormPath()
		if err != nil {
			return err
		}
		formPath = p
	}
	form, err := config.Load(formPath)
	if err != nil {
		return err
	}

	ctx := context.Background()
	exporter, err := trace.NewOTLPExporter(ctx)
	if err != nil {
		return fmt.Errorf("otlp exporter: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := exporter.Shutdown(shutdownCtx); err != nil {
			log.Printf("paramform: trace shutdown: %v", err)
		}
	}()
	tracer := exporter.Tracer()

	model, err := ui.NewForm(form, ui.FormOptions{
		Wrap: func(widget string, next notify.Listener) notify.Listener {
			return trace.NewListener(widget, tracer, next)
		},
		Observer:    logListener,
		SliderWidth: width,
	})
	if err != nil {
		return err
	}

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err = p.Run()
	return err
}

// logListener writes each notification of widget to the standard logger.
func logListener(widget string) notify.Listener {
	return notify.ListenerFunc(func(values map[string]numeric.Number) {
		ids := make([]string, 0, len(values))
		for id := range values {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		parts := make([]string, len(ids))
		for i, id := range ids {
			parts[i] = id + "=" + values[id].String()
		}
		log.Printf("paramform: %s changed: %s", widget, strings.Join(parts, " "))
	})
}

// setupLog points the standard logger at path, or discards output when
// path is empty so log lines never draw over the alt screen.
func setupLog(path string) (func(), error) {
	if path == "" {
		log.SetOutput(io.Discard)
		return func() {}, nil
	}
	f, err := tea.LogToFile(path, "paramform")
	if err != nil {
		return nil, err
	}
	return func() { _ = f.Close() }, nil
}
