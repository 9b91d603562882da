package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/ecmax-lang/ecmax/internal/lexer"
	"github.com/spf13/cobra"
)

var showPos bool

var lexCmd = &cobra.Command{
	Use:   "lex [file]",
	Short: "Tokenize ecmax source and print the resulting tokens",
	Long: `Tokenize an ECMAScript source file and print the resulting tokens,
one per line. Reads from stdin if no file is given.`,
	Args: cobra.MaximumNArgs(1),
	RunE: lexSource,
}

func init() {
	rootCmd.AddCommand(lexCmd)
	lexCmd.Flags().BoolVar(&showPos, "show-pos", false, "show token positions (line:column)")
}

func lexSource(cmd *cobra.Command, args []string) error {
	input, err := readSource(args)
	if err != nil {
		return err
	}

	l := lexer.New(input)
	for {
		tok := l.NextToken()
		printToken(tok)
		if tok.Type == lexer.EOF {
			break
		}
	}
	return nil
}

func printToken(tok lexer.Token) {
	out := fmt.Sprintf("type=%-3d", tok.Type)
	if tok.Literal != "" {
		out += fmt.Sprintf(" %q", tok.Literal)
	}
	if showPos {
		out += fmt.Sprintf(" @%d:%d", tok.Pos.Line, tok.Pos.Column)
	}
	fmt.Println(out)
}

func readSource(args []string) (string, error) {
	if len(args) == 1 {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", fmt.Errorf("error reading file: %w", err)
		}
		return string(data), nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("error reading stdin: %w", err)
	}
	return string(data), nil
}
