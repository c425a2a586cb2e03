// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package scene

import (
	"context"

	"github.com/jeranaias/tgl/internal/ui/styles"
)

func exhausted(ctx context.Context, rt *Runtime) (State, error) {
	err := rt.styled(ctx, styles.AlertStyle, "", "You are too exhausted, come back another day.")
	if err != nil {
		return 0, err
	}
	return Ending, nil
}

func ending(ctx context.Context, rt *Runtime) (State, error) {
	if err := rt.lines(ctx, "", "Game over."); err != nil {
		return 0, err
	}
	return Done, nil
}
