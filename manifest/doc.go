// Package manifest decodes batch table definitions.
//
// A manifest names the output package and file and lists the tables to
// generate. It may be written as YAML, JSON, TOML or HCL:
//
//	package = "lut"
//	output  = "lut_gen.go"
//
//	table "Sum" {
//	  spec = "|x @ 0..8, y @ 0..16| -> uint32 { x + y }"
//	}
//
// The equivalent YAML lists the tables under "tables", each with a "name".
package manifest
