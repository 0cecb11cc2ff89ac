package main

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wippyai/dynmsg/protoschema"
	"github.com/wippyai/dynmsg/schema"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	fieldStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	kindStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

func main() {
	var (
		descriptor = flag.String("descriptor", "", "Path to a serialized FileDescriptorSet (protoc --descriptor_set_out)")
		message    = flag.String("message", "", "Full message name to show (optional, default: all)")
		verbose    = flag.Bool("v", false, "Verbose logging")
	)
	flag.Parse()

	if *descriptor == "" {
		fmt.Fprintln(os.Stderr, "Usage: layout -descriptor <file.binpb> [-message full.Name] [-v]")
		os.Exit(1)
	}

	if *verbose {
		logger, err := zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		schema.SetLogger(logger)
		protoschema.SetLogger(logger)
	}

	if err := run(*descriptor, *message); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(descriptorFile, filter string) error {
	data, err := os.ReadFile(descriptorFile)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}

	defs, err := protoschema.FromFileDescriptorSet(data)
	if err != nil {
		return fmt.Errorf("convert: %w", err)
	}

	styled := term.IsTerminal(int(os.Stdout.Fd()))

	names := make([]string, 0, len(defs))
	for name := range defs {
		if filter != "" && name != filter {
			continue
		}
		names = append(names, name)
	}
	if filter != "" && len(names) == 0 {
		return fmt.Errorf("message %q not found in descriptor set", filter)
	}
	sort.Strings(names)

	for i, name := range names {
		if i > 0 {
			fmt.Println()
		}
		printLayout(defs[name], styled)
	}
	return nil
}

func printLayout(def *schema.MessageDef, styled bool) {
	render := func(st lipgloss.Style, s string) string {
		if !styled {
			return s
		}
		return st.Render(s)
	}

	fmt.Println(render(titleStyle, def.Name()))
	fmt.Printf("%-4s %-20s %-16s %-4s %s\n", "#", "FIELD", "KIND", "BIT", "STORAGE")

	for _, f := range def.Fields() {
		kind := f.Kind().String()
		if f.Repeated() {
			kind = "repeated " + kind
		}
		storage := fmt.Sprintf("slot %d", f.Slot())
		if !f.IsRefCounted() {
			storage = fmt.Sprintf("offset %d (%d bytes)", f.Offset(), f.Kind().Size())
		}
		fmt.Printf("%-4d %s %s %-4d %s\n",
			f.Number(),
			render(fieldStyle, fmt.Sprintf("%-20s", f.Name())),
			render(kindStyle, fmt.Sprintf("%-16s", kind)),
			f.Index(),
			storage)
	}

	summary := fmt.Sprintf("data %d bytes (bitmap %d) · %d ref slot(s)",
		def.Size(), def.BitmapBytes(), def.SlotCount())
	fmt.Println(render(dimStyle, strings.Repeat("─", len(summary))))
	fmt.Println(render(dimStyle, summary))
}
