// Package fileutil holds small file helpers shared by the output writers and
// the response cache.
package fileutil
