// Package naming provides lint rules for identifier naming conventions.
//
// Rules in this package:
//   - invalid-test-name: test functions must be lowercase
//   - invalid-class-name: class names must use CapWords (preview)
//   - camel-case-test-name: camelCase test names (deprecated)
//   - unittest-test-prefix: removed
package naming
