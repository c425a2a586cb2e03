// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// stateSchema is the accepted shape of a persisted session blob.
// Unknown fields are tolerated so older and newer builds can share a store.
const stateSchema = `
#SessionState: {
	actionCounter: int & >=0
	playerName:    string
	breadCrumbs?:  [...string] | null
	...
}
`

// validator checks raw blobs against stateSchema.
// A cue.Context is not safe for concurrent use; callers hold Manager.mu.
type validator struct {
	ctx    *cue.Context
	schema cue.Value
}

func newValidator() (*validator, error) {
	ctx := cuecontext.New()
	v := ctx.CompileString(stateSchema)
	if err := v.Err(); err != nil {
		return nil, fmt.Errorf("compile session schema: %w", err)
	}
	def := v.LookupPath(cue.ParsePath("#SessionState"))
	if err := def.Err(); err != nil {
		return nil, fmt.Errorf("lookup session schema: %w", err)
	}
	return &validator{ctx: ctx, schema: def}, nil
}

// check returns an error when blob is not a concrete #SessionState.
func (v *validator) check(blob []byte) error {
	data := v.ctx.CompileBytes(blob)
	if err := data.Err(); err != nil {
		return err
	}
	unified := v.schema.Unify(data)
	return unified.Validate(cue.Concrete(true))
}
