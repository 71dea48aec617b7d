// Package storage provides CSV persistence for collected rosters.
//
// Each team is stored in its own file named after the team (mens.csv, womens.csv)
// with a single "name" column, one unique player per row, sorted ascending.
// The default storage location is the current working directory.
package storage
