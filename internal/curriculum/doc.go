// Package curriculum loads the learning catalog: the five sections and their
// ordered levels, the game types with their XP rules, and the pool of daily
// quest templates.
//
// The built-in catalog is embedded from catalog.yaml; a replacement can be
// supplied through content.catalog_path. Parse validates ordering and cross
// references so the progression engine can index sections and levels by
// position without further checks.
package curriculum
