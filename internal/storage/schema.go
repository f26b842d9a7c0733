/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// manifestSchemaJSON is the minimal structural contract a manifest (or
// autosave snapshot) must satisfy to be hydrated: a numeric schemaVersion, a
// non-empty array of sections and an assetRegistry object. A project always
// has at least one section; an empty list is representable JSON but not a
// valid project. Anything stricter belongs to the integrity checker, not to
// parse-time validation.
const manifestSchemaJSON = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["schemaVersion", "sections", "assetRegistry"],
  "properties": {
    "schemaVersion": { "type": "number" },
    "sections": { "type": "array", "minItems": 1 },
    "assetRegistry": { "type": "object" }
  }
}`

// ValidateManifestBytes checks raw JSON against the structural manifest
// schema. It returns an error describing the first few violations, or nil.
func ValidateManifestBytes(data []byte) error {
	schemaLoader := gojsonschema.NewStringLoader(manifestSchemaJSON)
	docLoader := gojsonschema.NewBytesLoader(data)
	result, err := gojsonschema.Validate(schemaLoader, docLoader)
	if err != nil {
		return fmt.Errorf("validate manifest: %w", err)
	}
	if result.Valid() {
		return nil
	}
	var msgs []string
	for i, e := range result.Errors() {
		if i >= 3 {
			msgs = append(msgs, "...")
			break
		}
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("manifest schema invalid: %s", strings.Join(msgs, "; "))
}
