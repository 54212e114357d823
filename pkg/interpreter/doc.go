// Package interpreter executes exp programs by walking the AST produced by
// pkg/parser. Evaluation is single-threaded and recursive; variable bindings
// live in a runtime.Environment whose local frames are detached for the
// duration of every function call, so a function body sees only the global
// frame and its own parameters.
package interpreter
