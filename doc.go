// Package viewcontroller is a front-controller dispatcher for web and
// console applications.
//
// Every inbound request, an HTTP request or a process invocation, runs
// through the same lifecycle: request parameters are defined, the path is
// routed (web only, when clean URLs are enabled), a controller namespace is
// chosen, the controller and action are resolved by naming convention, and
// the action's return value is written out.
//
// # Controllers
//
// Controllers are registered under fully qualified class names. An action
// is an exported method taking no arguments:
//
//	type IndexController struct {
//	    host viewcontroller.Host
//	}
//
//	func (c *IndexController) Index() string { return "home" }
//
//	controllers := viewcontroller.NewRegistry()
//	viewcontroller.Register(controllers, `\app\controller\IndexController`,
//	    func(h viewcontroller.Host) *IndexController { return &IndexController{host: h} })
//
// A request without controller or action parameters runs the configured
// defaults, IndexController::index.
//
// # Failure Recovery
//
// The first failure of a run, including a missing route or action and a
// panic, is appended to the run's ThrowableChain and the exception
// controller (ExceptionController::handle) runs instead. Output the failed
// action printed is discarded. A failure of the exception controller itself
// ends the run with ErrRecoveryFailed.
//
// # API Namespaces
//
// A route that matches both {api} and {version} placeholders dispatches into
// <apiNameSpace><api>\<version><apiControllerNameSpace>, for example
// \app\api\project\v1\controller\IndexController. Its failures recover
// through the apiExceptionControllerNameSpace.
//
// # Records
//
// Controllers reach the database through Host.Records and the mappers of
// package [github.com/myth21/viewcontroller/pkg/record].
package viewcontroller
