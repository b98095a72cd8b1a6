package cases

import "iat/internal/domain"

// Resolver maps a fixture-relative path to a filesystem path.
type Resolver func(rel string) string

// Args builds the argv passed to the improver CLI (without the program
// name): the subcommand, the resolved positional inputs, the output path,
// then each option as --flag followed by its values.
func Args(c domain.Case, resolve Resolver, outputPath string) []string {
	args := []string{c.Command}
	for _, in := range c.Inputs {
		args = append(args, resolve(in))
	}
	args = append(args, outputPath)
	for _, o := range c.Options {
		args = append(args, "--"+o.Flag)
		for _, p := range o.Paths {
			args = append(args, resolve(p))
		}
		args = append(args, o.Values...)
	}
	return args
}
