// Package builder invokes the external build command that compiles one build
// definition into a firmware artifact.
package builder

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/oshokin/firmware-releaser/internal/domain/release"
	"github.com/oshokin/firmware-releaser/internal/logger"
)

var errArtifactMissing = errors.New("reported artifact does not exist")

// Processor produces an artifact for one build definition.
// An empty artifact path means the build is a no-op for this channel.
type Processor interface {
	Process(ctx context.Context, name string, def *release.BuildDefinition,
		channel release.Channel, version string) (string, error)
}

// CommandProcessor runs a configured executable per build.
// The command receives the build name, the build file, the channel, the
// version and the output directory as arguments and prints the path of the
// produced artifact on stdout, or nothing when there is no artifact.
type CommandProcessor struct {
	// command is the build executable.
	command string
	// outputDir is passed to the command as the artifact destination.
	outputDir string
	// timeout bounds a single build invocation.
	timeout time.Duration
}

// NewCommandProcessor creates a processor running the provided command.
func NewCommandProcessor(command, outputDir string, timeout time.Duration) *CommandProcessor {
	return &CommandProcessor{
		command:   command,
		outputDir: outputDir,
		timeout:   timeout,
	}
}

// Process runs the build command for one definition and returns the artifact path.
func (p *CommandProcessor) Process(ctx context.Context, name string, def *release.BuildDefinition,
	channel release.Channel, version string,
) (string, error) {
	cmdCtx := ctx

	if p.timeout > 0 {
		var cancel context.CancelFunc

		cmdCtx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	logger.InfoKV(ctx, "Running build command",
		"build", name, "channel", channel, "version", version)

	cmd := exec.CommandContext(cmdCtx, p.command, name, def.File, string(channel), version, p.outputDir)

	output, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("build %s: %w", name, err)
	}

	artifactPath := strings.TrimSpace(string(output))
	if artifactPath == "" {
		logger.InfoKV(ctx, "Build produced no artifact", "build", name)
		return "", nil
	}

	if _, err = os.Stat(artifactPath); err != nil {
		return "", fmt.Errorf("build %s: %s: %w", name, artifactPath, errArtifactMissing)
	}

	return artifactPath, nil
}
