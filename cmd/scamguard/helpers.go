package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/Veraticus/scamguard/internal/common"
	"github.com/Veraticus/scamguard/internal/config"
	"github.com/Veraticus/scamguard/internal/engine"
	"github.com/Veraticus/scamguard/internal/storage"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// initDetector builds a detector from the configured artifact. A missing or
// unreadable artifact leaves the detector in pattern-only mode.
func initDetector(ctx context.Context, cfg *config.Config) *engine.Detector {
	return engine.Load(ctx, storage.NewArtifactStore(), cfg.Model.Path, nil)
}

// bindFlags binds the command's flags to viper keys. Binding happens at run
// time because commands share the global viper instance.
func bindFlags(cmd *cobra.Command, bindings map[string]string) error {
	for key, name := range bindings {
		if err := viper.BindPFlag(key, cmd.Flags().Lookup(name)); err != nil {
			return fmt.Errorf("failed to bind --%s: %w", name, err)
		}
	}
	return nil
}

// readMessage joins args into one message, or reads stdin when args is empty
// or a single "-".
func readMessage(args []string, stdin io.Reader) (string, error) {
	if len(args) == 0 || (len(args) == 1 && args[0] == "-") {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read message from stdin: %w", err)
		}
		return strings.TrimRight(string(data), "\r\n"), nil
	}
	return strings.Join(args, " "), nil
}

// userFacing wraps errors the user can act on with a short explanation.
func userFacing(err error) error {
	var invalid *common.InvalidInputError
	var dataErr *common.DataError
	switch {
	case errors.As(err, &invalid):
		return common.NewUserError("Invalid message: "+invalid.Reason, err)
	case errors.As(err, &dataErr):
		if dataErr.Path != "" {
			return common.NewUserError(fmt.Sprintf("Training data problem in %s: %s", dataErr.Path, dataErr.Reason), err)
		}
		return common.NewUserError("Training data problem: "+dataErr.Reason, err)
	case errors.Is(err, common.ErrInvalidConfig), errors.Is(err, common.ErrMissingConfig):
		return common.NewUserError("Configuration problem: "+err.Error(), err)
	case errors.Is(err, context.Canceled):
		return common.NewUserError("Interrupted", err)
	default:
		return err
	}
}
