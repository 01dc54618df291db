// Package ports defines the interfaces between the skelly core and its
// persistence adapters, plus a contract suite every adapter must pass.
package ports
