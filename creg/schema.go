// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package creg

// Schema is the JSON Schema of the manifest.
const Schema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "title": "Peripheral register manifest",
  "type": "object",
  "required": ["registers"],
  "additionalProperties": false,
  "properties": {
    "registers": {
      "description": "Registers in the order of their first offset definition in the header.",
      "type": "array",
      "items": {
        "type": "object",
        "required": ["name", "offset", "fields"],
        "additionalProperties": false,
        "properties": {
          "name": {"type": "string"},
          "offset": {
            "description": "Byte offset from the peripheral base address. Several registers may share an offset.",
            "type": "integer", "minimum": 0, "maximum": 4294967295
          },
          "fields": {
            "description": "Bit fields in the order of their first shift or mask definition in the header.",
            "type": "array",
            "items": {
              "type": "object",
              "required": ["name", "shift", "mask"],
              "additionalProperties": false,
              "properties": {
                "name": {
                  "description": "Field name without the register name prefix.",
                  "type": "string"
                },
                "shift": {
                  "description": "Position of the least significant bit of the field.",
                  "type": "integer", "minimum": 0, "maximum": 31
                },
                "mask": {
                  "description": "Register-relative mask: (register & mask) >> shift is the field value. mask >> shift is a contiguous run of ones starting at bit 0 and no bit below shift is set. The field width is the number of ones.",
                  "type": "integer", "minimum": 1, "maximum": 4294967295
                }
              }
            }
          }
        }
      }
    }
  }
}
`
