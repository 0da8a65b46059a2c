package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pavelanni/eduimpact/internal/llm"
)

// minKeyLength rejects obviously truncated keys.
const minKeyLength = 20

func setupKeyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "setup-key",
		Short: "Store the chat completion API key in the config file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, _ := cmd.Flags().GetString("config")
			return setupKey(cmd.InOrStdin(), cmd.OutOrStdout(), path)
		},
	}
	cmd.Flags().StringP("config", "c", "eduimpact.yaml", "Config file to write")
	return cmd
}

// setupKey interactively reads an API key and saves it under llm-key in the
// config file at path, keeping any other settings already there.
func setupKey(in io.Reader, out io.Writer, path string) error {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	r := bufio.NewReader(in)
	fmt.Fprintln(out, "EduImpact - API key setup")
	fmt.Fprintln(out)

	if current := v.GetString("llm-key"); llm.KeyConfigured(current) {
		fmt.Fprintf(out, "An API key is already configured: %s\n", maskKey(current))
		answer, err := ask(r, out, "Do you want to update it? (y/N): ")
		if err != nil {
			return err
		}
		if !strings.EqualFold(answer, "y") {
			fmt.Fprintln(out, "Setup cancelled.")
			return nil
		}
	}

	fmt.Fprintln(out, "Get a free API key at https://console.groq.com/ (API Keys section).")
	var key string
	for {
		entered, err := ask(r, out, "Enter your API key: ")
		if err != nil {
			return err
		}
		if entered == "" {
			fmt.Fprintln(out, "Please enter a valid API key.")
			continue
		}
		if len(entered) < minKeyLength {
			fmt.Fprintln(out, "API key seems too short. Please check and try again.")
			continue
		}

		fmt.Fprintf(out, "You entered: %s\n", maskKey(entered))
		confirm, err := ask(r, out, "Is this correct? (y/N): ")
		if err != nil {
			return err
		}
		if strings.EqualFold(confirm, "y") {
			key = entered
			break
		}
		fmt.Fprintln(out, "Let's try again...")
	}

	v.Set("llm-key", key)
	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	fmt.Fprintf(out, "API key saved to %s.\n", path)
	return nil
}

// ask prints prompt and returns the next trimmed input line.
func ask(r *bufio.Reader, out io.Writer, prompt string) (string, error) {
	fmt.Fprint(out, prompt)
	line, err := r.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		if errors.Is(err, io.EOF) {
			return "", errors.New("setup aborted: no input")
		}
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func maskKey(key string) string {
	if len(key) <= minKeyLength {
		return key
	}
	return key[:minKeyLength] + "..."
}
