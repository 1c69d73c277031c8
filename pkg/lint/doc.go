// Package lint provides the semantic checks that run on a parsed buffer
// before it is handed to the evaluator.
//
// # Architecture
//
// Each check is a Rule. Rules are stateless: the Analyzer walks the tree
// and hands every node to every enabled rule together with a Context that
// knows the namespace in effect, the functions the buffer itself declares,
// and the external symbol resolver.
//
// # Built-in Rules
//
//   - PS01 (protected-variable): rejects any use of the reserved $__psysh__ binding
//   - PS02 (undefined-function): rejects calls to functions that would fail fatally
//
// # Using the Analyzer
//
//	err := lint.Validate(file, lint.Env{
//		Namespace: []string{"App"},
//		Resolver:  symbols.Builtins(),
//	})
//
// Validate returns the first *Violation. Analyze on an Analyzer returns all
// of them, in rule registration order and then source order.
package lint
