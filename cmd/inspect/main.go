package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"

	_ "github.com/mirrorbind/mirror/examples/shapes"
	"github.com/mirrorbind/mirror/typeinfo"
)

func main() {
	var (
		list        = flag.Bool("list", false, "List registered classes, enums and functions")
		className   = flag.String("class", "", "Show the reflection table of one class")
		jsonClass   = flag.String("json", "", "Construct an instance of the class and dump it as JSON")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
	)
	flag.Parse()

	if !*list && *className == "" && *jsonClass == "" && !*interactive {
		fmt.Fprintln(os.Stderr, "Usage: inspect -list")
		fmt.Fprintln(os.Stderr, "       inspect -class NAME")
		fmt.Fprintln(os.Stderr, "       inspect -json NAME")
		fmt.Fprintln(os.Stderr, "       inspect -i  (interactive mode)")
		os.Exit(1)
	}

	if *interactive {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			fmt.Fprintln(os.Stderr, "Error: interactive mode needs a terminal")
			os.Exit(1)
		}
		if err := runInteractive(typeinfo.Default()); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(typeinfo.Default(), *list, *className, *jsonClass); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(reg *typeinfo.Registry, list bool, className, jsonClass string) error {
	if list {
		fmt.Println("Classes:")
		for _, ti := range reg.Classes() {
			fmt.Printf("  %s  (%d members, %d methods, %d constructors)\n",
				ti.ClassName, len(ti.MemberNames()), len(ti.MethodNames()), len(ti.Constructors()))
		}

		fmt.Println("\nEnums:")
		for _, e := range reg.Enums() {
			var names []string
			for _, ev := range e.Values() {
				names = append(names, fmt.Sprintf("%s=%d", ev.Name, ev.Value))
			}
			fmt.Printf("  %s { %s }\n", e.Name, strings.Join(names, ", "))
		}

		fmt.Println("\nFunctions:")
		for _, f := range reg.Functions() {
			fmt.Printf("  %s %s(%s)\n", f.ReturnType, f.Name, strings.Join(f.ParamTypes, ", "))
		}
		return nil
	}

	if className != "" {
		ti, err := reg.LookupName(className)
		if err != nil {
			return err
		}
		fmt.Print(ti.Describe())
		return nil
	}

	obj, err := reg.New(jsonClass)
	if err != nil {
		return err
	}
	out, err := obj.Dump()
	if err != nil {
		return err
	}
	fmt.Println(out)
	return nil
}
