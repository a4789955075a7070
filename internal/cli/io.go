package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// inputFlags select where a set/new verb reads its document from.
type inputFlags struct {
	infile string
	inputs []string
}

func addInputFlags(cmd *cobra.Command, f *inputFlags) {
	cmd.Flags().StringVar(&f.infile, "infile", "", "read the input document from this file instead of stdin")
	cmd.Flags().StringArrayVarP(&f.inputs, "input", "i", nil, "build the input document from key=value pairs (repeatable, dotted keys nest)")
}

// outputFlags select where a verb writes its result.
type outputFlags struct {
	outfile string
}

func addOutputFlags(cmd *cobra.Command, f *outputFlags) {
	cmd.Flags().StringVar(&f.outfile, "outfile", "", "write the result to this file instead of stdout")
}

// readInput resolves the input document: --infile wins, then --input pairs,
// then raw JSON from stdin.
func (a *App) readInput(f inputFlags) ([]byte, error) {
	if strings.TrimSpace(f.infile) != "" {
		raw, err := os.ReadFile(f.infile)
		if err != nil {
			return nil, fmt.Errorf("read infile: %w", err)
		}
		return raw, nil
	}
	if len(f.inputs) > 0 {
		return pairsToJSON(f.inputs)
	}
	if a.inShell {
		return nil, fmt.Errorf("stdin belongs to the shell: use --infile or --input key=value")
	}
	raw, err := io.ReadAll(a.stdin)
	if err != nil {
		return nil, fmt.Errorf("read stdin: %w", err)
	}
	if len(strings.TrimSpace(string(raw))) == 0 {
		return nil, fmt.Errorf("no input: pipe JSON to stdin, or use --infile or --input key=value")
	}
	return raw, nil
}

// decodeInput unmarshals an input document into a typed record.
func decodeInput(raw []byte, dest any) error {
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("parse input: %w", err)
	}
	return nil
}

// pairsToJSON turns repeated key=value pairs into a JSON object. Dotted keys
// nest ("update.vol=-30"), and values that parse as JSON literals keep their
// type; everything else becomes a string.
func pairsToJSON(pairs []string) ([]byte, error) {
	doc := map[string]any{}
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("bad --input %q: want key=value", pair)
		}

		node := doc
		parts := strings.Split(key, ".")
		for _, part := range parts[:len(parts)-1] {
			child, ok := node[part].(map[string]any)
			if !ok {
				child = map[string]any{}
				node[part] = child
			}
			node = child
		}
		node[parts[len(parts)-1]] = literalValue(value)
	}
	return json.Marshal(doc)
}

// literalValue keeps JSON literals typed: numbers, booleans, null, arrays and
// objects pass through; anything that fails to parse is a plain string.
func literalValue(value string) any {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return ""
	}
	var parsed any
	if err := json.Unmarshal([]byte(trimmed), &parsed); err == nil {
		return parsed
	}
	return value
}

// writeJSON marshals a result and writes it to stdout or --outfile.
func (a *App) writeJSON(f outputFlags, v any) error {
	encoded, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	encoded = append(encoded, '\n')

	if strings.TrimSpace(f.outfile) != "" {
		if err := os.WriteFile(f.outfile, encoded, 0o644); err != nil {
			return fmt.Errorf("write outfile: %w", err)
		}
		return nil
	}
	if _, err := a.stdout.Write(encoded); err != nil {
		return fmt.Errorf("write stdout: %w", err)
	}
	return nil
}

// writeBytes sends a raw payload to stdout or --outfile unmodified.
func (a *App) writeBytes(f outputFlags, raw []byte) error {
	if strings.TrimSpace(f.outfile) != "" {
		if err := os.WriteFile(f.outfile, raw, 0o644); err != nil {
			return fmt.Errorf("write outfile: %w", err)
		}
		return nil
	}
	if _, err := a.stdout.Write(raw); err != nil {
		return fmt.Errorf("write stdout: %w", err)
	}
	return nil
}

// writeText prints a rendered overview to stdout or --outfile.
func (a *App) writeText(f outputFlags, text string) error {
	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	if strings.TrimSpace(f.outfile) != "" {
		if err := os.WriteFile(f.outfile, []byte(text), 0o644); err != nil {
			return fmt.Errorf("write outfile: %w", err)
		}
		return nil
	}
	if _, err := io.WriteString(a.stdout, text); err != nil {
		return fmt.Errorf("write stdout: %w", err)
	}
	return nil
}
