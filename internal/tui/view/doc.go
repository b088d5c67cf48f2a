// Package view renders session snapshots into strings. Every function is a
// pure function of its arguments so the model's View stays a composition
// of these pieces.
package view
