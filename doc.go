// Package iat runs acceptance tests for the improver CLI.
//
// Each case invokes one improver subcommand on fixture inputs found under
// IMPROVER_ACC_TEST_DIR and compares the produced netCDF file with a
// known-good output. The command line lives in cmd/iat; the packages under
// internal/ implement case definitions, execution, comparison and storage.
//
// The tests in this package run the built-in cases against the real
// improver CLI and skip when it or the fixture tree is unavailable.
package iat
