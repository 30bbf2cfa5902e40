package config

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

var (
	inputFile = os.Stdin
)

func guidedInitialization(config *Config) error {
	scanner := bufio.NewScanner(inputFile)

	input, err := ask(scanner, fmt.Sprintf("Enter parent directory for the MediaPipe checkout [default: %s]", config.ParentDir))
	if err != nil {
		return err
	}
	if input != "" {
		config.ParentDir = input
	}

	input, err = ask(scanner, fmt.Sprintf("Enter MediaPipe git ref to pin, empty for default branch [default: %s]", config.MediaPipeRef))
	if err != nil {
		return err
	}
	if input != "" {
		config.MediaPipeRef = input
	}

	return nil
}

func ask(scanner *bufio.Scanner, prompt string) (string, error) {
	fmt.Printf("%s: ", prompt)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return "", fmt.Errorf("could not read user input: %w", err)
		}
		return "", nil // EOF or closed input
	}
	return strings.TrimSpace(scanner.Text()), nil
}
