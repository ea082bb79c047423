// Package logger wraps zap for the controller:
//   - a global sugared logger with a console encoder on stdout,
//   - an optional rotating log file teed with the console (Configure),
//   - context helpers (ToContext/FromContext/WithName/WithKV),
//   - level parsing and runtime level changes,
//   - leveled helpers that take a context (Infof, ErrorKV, etc.).
//
// Services carry the logger in their context so that every component logs
// under the name of the process part it belongs to.
package logger
