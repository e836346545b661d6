package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	verr "github.com/kagari-lang/kagari/error"
	"github.com/kagari-lang/kagari/grammar"
	"github.com/kagari-lang/kagari/grammar/prepare"
)

var prepareFlags = struct {
	output *string
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "prepare",
		Short:   "Prepare a grammar description for parse table construction",
		Example: `  kagari prepare grammar.json -o prepared.json`,
		Args:    cobra.MaximumNArgs(1),
		RunE:    runPrepare,
	}
	prepareFlags.output = cmd.Flags().StringP("output", "o", "", "output file path (default stdout)")
	rootCmd.AddCommand(cmd)
}

type preparedArtifacts struct {
	Name           string                        `json:"name"`
	SyntaxGrammar  *grammar.SyntaxGrammar        `json:"syntax_grammar"`
	LexicalGrammar *grammar.LexicalGrammar       `json:"lexical_grammar"`
	Inlines        *grammar.InlinedProductionMap `json:"inlines"`
	Aliases        grammar.AliasMap              `json:"aliases"`
}

func runPrepare(cmd *cobra.Command, args []string) error {
	input, sourceName, err := readInputGrammar(args)
	if err != nil {
		return err
	}

	logrus.WithField("grammar", input.Name).Debug("preparing grammar")
	result, err := prepare.Prepare(input)
	if err != nil {
		return &verr.SpecError{Cause: err, SourceName: sourceName}
	}
	logrus.WithFields(logrus.Fields{
		"variables": len(result.SyntaxGrammar.Variables),
		"tokens":    len(result.LexicalGrammar.Variables),
		"inlines":   result.Inlines.Len(),
		"aliases":   len(result.Aliases),
	}).Debug("grammar prepared")

	artifacts := &preparedArtifacts{
		Name:           input.Name,
		SyntaxGrammar:  result.SyntaxGrammar,
		LexicalGrammar: result.LexicalGrammar,
		Inlines:        result.Inlines,
		Aliases:        result.Aliases,
	}
	return writeArtifacts(artifacts, *prepareFlags.output)
}

func readInputGrammar(args []string) (*grammar.InputGrammar, string, error) {
	var src []byte
	var sourceName string
	if len(args) > 0 {
		var err error
		src, err = os.ReadFile(args[0])
		if err != nil {
			return nil, "", fmt.Errorf("cannot read the grammar description %s: %w", args[0], err)
		}
		sourceName = args[0]
	} else {
		var err error
		src, err = io.ReadAll(os.Stdin)
		if err != nil {
			return nil, "", err
		}
		sourceName = "stdin"
	}

	var input grammar.InputGrammar
	if err := json.Unmarshal(src, &input); err != nil {
		return nil, "", fmt.Errorf("cannot parse the grammar description %s: %w", sourceName, err)
	}
	return &input, sourceName, nil
}

func writeArtifacts(artifacts *preparedArtifacts, path string) error {
	var w io.Writer = os.Stdout
	if path != "" {
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}

	b, err := json.Marshal(artifacts)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "%v\n", string(b))
	return nil
}
