// SPDX-License-Identifier: AGPL-3.0-or-later
package probe

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/cm-org/cm/internal/types"
)

// LoadLitDB reads the test ResultDB (lit.json) recorded in the build
// directory. Load failures are captured in the returned value instead of
// aborting; the planner decides whether they matter for the request at
// hand.
func LoadLitDB(binary string) *types.LitDB {
	data, err := os.ReadFile(filepath.Join(binary, "lit.json"))
	if err != nil {
		return &types.LitDB{Err: err.Error()}
	}
	var payload struct {
		Tests []types.LitTest `json:"tests"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return &types.LitDB{Err: err.Error()}
	}
	return &types.LitDB{Tests: payload.Tests}
}
