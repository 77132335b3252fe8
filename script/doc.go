// Package script evaluates script-defined configuration files.
//
// An Evaluator turns a file path into a Module: either a plain value or a
// zero-argument producer of one. Producers may return a *Pending to signal an
// asynchronous result.
//
// Engine is the default Evaluator. It runs CommonJS-style JavaScript on an
// embedded goja runtime and loads .json files the way a script's require does:
//
//	// config.js
//	module.exports = function () {
//	  return { port: 8080 };
//	};
//
// Registry lets a host application supply values or Go producers for paths
// without any script runtime:
//
//	reg := script.NewRegistry(nil)
//	_ = reg.RegisterFunc("/etc/app/config.js", func() (any, error) {
//	    return map[string]any{"port": 8080}, nil
//	})
package script
