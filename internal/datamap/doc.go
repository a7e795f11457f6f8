// Package datamap renames the keys of decoded API responses into valid,
// collision-free Go identifiers, optionally guided by an explicit field map.
package datamap
