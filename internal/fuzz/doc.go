// Package fuzztests houses Go fuzz harnesses that feed arbitrary bytes
// through the tree decoder, the semantic pass and the CIL emitter. Their
// goal is to guard against panics on malformed or unusual trees.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.
package fuzztests
