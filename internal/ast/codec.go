package ast

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"
)

// Current schema version - increment when the encoded node layout changes
const fileSchemaVersion uint16 = 1

// ErrSchemaMismatch is returned for AST files written by another schema.
var ErrSchemaMismatch = errors.New("ast: unsupported AST file schema")

// ErrNotCompilationUnit is returned for trees rooted at anything else.
var ErrNotCompilationUnit = errors.New("ast: root is not a CompilationUnit")

type fileEnvelope struct {
	Schema uint16 `msgpack:"schema"`
	Root   *Node  `msgpack:"root"`
}

// Encode writes root as a msgpack AST file. Decorations are not encoded.
func Encode(w io.Writer, root *Node) error {
	enc := msgpack.NewEncoder(w)
	return enc.Encode(&fileEnvelope{Schema: fileSchemaVersion, Root: root})
}

// Decode reads an AST file and validates its structure.
func Decode(r io.Reader) (*Node, error) {
	var env fileEnvelope
	dec := msgpack.NewDecoder(r)
	if err := dec.Decode(&env); err != nil {
		return nil, fmt.Errorf("decode AST: %w", err)
	}
	if env.Schema != fileSchemaVersion {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrSchemaMismatch, env.Schema, fileSchemaVersion)
	}
	if env.Root == nil {
		return nil, fmt.Errorf("decode AST: empty tree")
	}
	if err := Validate(env.Root); err != nil {
		return nil, err
	}
	return env.Root, nil
}

// Marshal is Encode into a byte slice.
func Marshal(root *Node) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, root); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal is Decode from a byte slice.
func Unmarshal(data []byte) (*Node, error) {
	return Decode(bytes.NewReader(data))
}

// CheckRoot reports whether root can be compiled as a whole program.
func CheckRoot(root *Node) error {
	switch {
	case root == nil:
		return fmt.Errorf("%w: empty tree", ErrNotCompilationUnit)
	case root.Kind != KindCompilationUnit:
		return fmt.Errorf("%w: got %s at %s", ErrNotCompilationUnit, root.Kind, root.Span)
	}
	return nil
}

// Validate checks the root kind, then tags and payloads that a decoder
// cannot trust.
func Validate(root *Node) error {
	if err := CheckRoot(root); err != nil {
		return err
	}
	var err error
	Walk(root, func(n *Node) bool {
		if err != nil {
			return false
		}
		switch {
		case n.Kind == KindInvalid || n.Kind >= kindCount:
			err = fmt.Errorf("ast: invalid node kind %d at %s", n.Kind, n.Span)
		case n.Kind == KindExpression && n.Op >= exprKindCount:
			err = fmt.Errorf("ast: invalid operator %d at %s", n.Op, n.Span)
		case n.Kind == KindExpression && (len(n.Children) == 0 || len(n.Children) > 2):
			err = fmt.Errorf("ast: expression at %s has %d operands", n.Span, len(n.Children))
		case n.Kind == KindQualifiedName && len(n.Children) == 0:
			err = fmt.Errorf("ast: empty qualified name at %s", n.Span)
		case n.Kind == KindIdentifier && n.Name == "":
			err = fmt.Errorf("ast: empty identifier at %s", n.Span)
		}
		for _, c := range n.Children {
			if c == nil {
				err = fmt.Errorf("ast: nil child under %s at %s", n.Kind, n.Span)
				break
			}
		}
		return err == nil
	})
	return err
}
