package cmd

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/ecmax-lang/ecmax/internal/parser"
	"github.com/spf13/cobra"
)

var parseAsModule bool

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Parse ecmax source and dump the AST",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)
	parseCmd.Flags().BoolVar(&parseAsModule, "module", false, "parse as a module rather than a script")
}

func runParse(cmd *cobra.Command, args []string) error {
	input, err := readSource(args)
	if err != nil {
		return err
	}
	prog, errs := parser.Parse(input, parseAsModule)
	if len(errs) > 0 {
		for _, e := range errs {
			fmt.Println("  ", e.Error())
		}
		return fmt.Errorf("parsing failed with %d error(s)", len(errs))
	}
	dumpNode(reflect.ValueOf(prog), 0)
	return nil
}

// dumpNode renders an AST node tree generically by reflection rather than a
// type switch over every one of pkg/ast's node kinds (the teacher's
// cmd/dwscript/cmd/parse.go hand-writes one switch case per node type;
// ecmax's AST has roughly three times as many node kinds, so this instead
// walks the struct/slice/interface shape every node already has).
func dumpNode(v reflect.Value, indent int) {
	pad := strings.Repeat("  ", indent)
	if !v.IsValid() {
		return
	}
	switch v.Kind() {
	case reflect.Ptr, reflect.Interface:
		if v.IsNil() {
			return
		}
		dumpNode(v.Elem(), indent)
	case reflect.Slice, reflect.Array:
		for i := 0; i < v.Len(); i++ {
			dumpNode(v.Index(i), indent)
		}
	case reflect.Struct:
		fmt.Printf("%s%s\n", pad, v.Type().Name())
		t := v.Type()
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			if f.Anonymous || f.Name == "Position" {
				continue
			}
			fv := v.Field(i)
			switch fv.Kind() {
			case reflect.Ptr, reflect.Interface, reflect.Slice, reflect.Array, reflect.Struct:
				fmt.Printf("%s  %s:\n", pad, f.Name)
				dumpNode(fv, indent+2)
			default:
				fmt.Printf("%s  %s: %v\n", pad, f.Name, fv.Interface())
			}
		}
	default:
		fmt.Printf("%s%v\n", pad, v.Interface())
	}
}
