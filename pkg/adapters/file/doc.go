// Package file provides filesystem adapters: tracker layout files,
// tracked-point array files and a JSON snapshot store.
package file
