package wizard

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/imamik/netforge/internal/config"
)

// Function variable for dependency injection in tests.
var confirmOverwrite = defaultConfirmOverwrite

// minimalSpec is the YAML shape written by the wizard: only fields the user
// answered, so the file stays readable and defaults stay implicit.
type minimalSpec struct {
	NamePrefix string              `yaml:"name_prefix"`
	TopBlock   string              `yaml:"top_block,omitempty"`
	Zones      []string            `yaml:"zones"`
	NATMode    config.NATMode      `yaml:"nat_mode,omitempty"`
	State      *config.StateConfig `yaml:"state,omitempty"`
}

// WriteSpec writes the spec to a YAML file with a descriptive header.
func WriteSpec(spec *config.Spec, outputPath string) error {
	minimal := minimalSpec{
		NamePrefix: spec.NamePrefix,
		Zones:      spec.Zones,
		NATMode:    spec.NATMode,
	}
	if spec.TopBlock != config.DefaultTopBlock {
		minimal.TopBlock = spec.TopBlock
	}
	if spec.State.Bucket != "" {
		state := spec.State
		minimal.State = &state
	}

	yamlBytes, err := yaml.Marshal(minimal)
	if err != nil {
		return fmt.Errorf("failed to marshal spec: %w", err)
	}

	var sb strings.Builder
	sb.WriteString(generateHeader(outputPath))
	sb.WriteString("\n")
	sb.Write(yamlBytes)

	if err := os.WriteFile(outputPath, []byte(sb.String()), 0600); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	return nil
}

// generateHeader creates the YAML file header comment.
func generateHeader(outputPath string) string {
	return fmt.Sprintf(`# netforge topology spec
# Generated by: netforge init
# Generated at: %s
#
# AWS credentials are read from the environment or shared config.
#
# Usage:
#   netforge plan -c %s
#   netforge apply -c %s
`, time.Now().Format(time.RFC3339), outputPath, outputPath)
}

// FileExists checks if a file exists at the given path.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// ConfirmOverwrite prompts the user to confirm overwriting an existing file.
func ConfirmOverwrite(path string) (bool, error) {
	return confirmOverwrite(path)
}

// defaultConfirmOverwrite is the default implementation that prompts via stdin.
func defaultConfirmOverwrite(path string) (bool, error) {
	fmt.Printf("\nFile already exists: %s\n", path)
	fmt.Print("Overwrite? (y/n): ")

	var response string
	if _, err := fmt.Scanln(&response); err != nil {
		return false, err
	}

	response = strings.ToLower(strings.TrimSpace(response))
	return response == "y" || response == "yes", nil
}
