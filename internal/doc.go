// Package internal implements the dispatch engine behind viewcontroller.
//
// This package is internal and should not be used directly. Import
// "github.com/myth21/viewcontroller" instead, which re-exports the public API.
//
// # Core Types
//
//   - App: shared configuration (params, controllers, sessions, records, views)
//     and the HTTP/console entry methods
//   - Engine: the single-use state machine driving one run
//   - EntryPoint: strategy for one kind of input, implemented by WebEntry and ConsoleEntry
//   - Registry: controller class name to factory mapping
//   - Router: route table matching on top of chi
//   - Host: the view of the engine a controller receives
//   - ThrowableChain: the ordered errors of a run
//
// # Lifecycle
//
// Engine.Dispatch walks these states:
//
//	init -> params_defined -> [routed] -> namespace_resolved
//	     -> controller_resolved -> action_verified -> invoked
//
// On the first failure it moves to error_caught and walks the exception
// branch (exception_namespace_resolved ... exception_invoked). A second
// failure aborts the run. Engine.Run adds the final output state.
//
// Each transition is logged at debug level with the run id attached.
package internal
