// Package loadwhatever loads a configuration file of any supported format and
// returns its parsed value.
//
// Quick Start:
//
//	v, err := loadwhatever.LoadSync("config.yml")
//
//	f := loadwhatever.Load("config.js")
//	v, err := f.Wait(ctx)
//
// Format is chosen by extension: .js and .json are evaluated as script modules,
// .yml and .yaml are YAML, .cson is CSON (indented objects, yes/no booleans).
// Any other file is tried as JSON, then YAML.
//
// Options: WithEncoding, WithFs, WithEvaluator, WithParser, WithLogger.
//
// See example_test.go for detailed usage.
package loadwhatever
